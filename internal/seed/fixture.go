// Package seed loads YAML tree fixtures and writes them through a
// NodeRepository.
package seed

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	models "doctree/internal/domain/models/doctree"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/sample.yaml
var sampleFixture []byte

// Fixture is a project tree described in YAML
type Fixture struct {
	Project string        `yaml:"project"`
	Nodes   []FixtureNode `yaml:"nodes"`
}

// FixtureNode is one folder or document; only folders may list children
type FixtureNode struct {
	Title     string        `yaml:"title"`
	Type      string        `yaml:"type"`
	Collapsed bool          `yaml:"collapsed,omitempty"`
	Children  []FixtureNode `yaml:"children,omitempty"`
}

// Sample returns the built-in demo fixture
func Sample() (*Fixture, error) {
	return LoadFixture(bytes.NewReader(sampleFixture))
}

// LoadFixtureFile reads and validates a fixture from disk
func LoadFixtureFile(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()
	return LoadFixture(f)
}

// LoadFixture decodes and validates a fixture
func LoadFixture(r io.Reader) (*Fixture, error) {
	var fixture Fixture
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&fixture); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("fixture is empty")
		}
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if err := fixture.Validate(); err != nil {
		return nil, err
	}
	return &fixture, nil
}

// Validate checks titles, types, and that documents have no children
func (f *Fixture) Validate() error {
	return validateNodes(f.Nodes, "")
}

func validateNodes(nodes []FixtureNode, path string) error {
	for i, n := range nodes {
		where := fmt.Sprintf("%s/%d", path, i)
		if n.Title == "" {
			return fmt.Errorf("node %s: title is required", where)
		}
		where = path + "/" + n.Title

		docType, err := models.ParseDocumentType(n.Type)
		if err != nil {
			return fmt.Errorf("node %s: %w", where, err)
		}
		if !docType.CanHaveChildren() && len(n.Children) > 0 {
			return fmt.Errorf("node %s: only folders can have children", where)
		}
		if !docType.IsFolder() && n.Collapsed {
			return fmt.Errorf("node %s: only folders can be collapsed", where)
		}
		if err := validateNodes(n.Children, where); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of nodes in the fixture
func (f *Fixture) Count() int {
	return countNodes(f.Nodes)
}

func countNodes(nodes []FixtureNode) int {
	n := len(nodes)
	for _, node := range nodes {
		n += countNodes(node.Children)
	}
	return n
}
