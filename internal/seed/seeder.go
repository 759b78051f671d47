package seed

import (
	"context"
	"fmt"
	"log/slog"

	models "doctree/internal/domain/models/doctree"
	docrepo "doctree/internal/domain/repositories/doctree"
)

// Seeder writes fixtures through a NodeRepository
type Seeder struct {
	repo   docrepo.NodeRepository
	logger *slog.Logger
}

// NewSeeder creates a seeder
func NewSeeder(repo docrepo.NodeRepository, logger *slog.Logger) *Seeder {
	return &Seeder{repo: repo, logger: logger}
}

// Seed creates every fixture node under projectID in pre-order and returns
// how many were created. Siblings keep their fixture order.
func (s *Seeder) Seed(ctx context.Context, projectID string, fixture *Fixture) (int, error) {
	if projectID == "" {
		projectID = fixture.Project
	}
	if projectID == "" {
		return 0, fmt.Errorf("no project id given and fixture has none")
	}

	created := 0
	if err := s.seedNodes(ctx, projectID, nil, fixture.Nodes, &created); err != nil {
		return created, err
	}

	s.logger.Info("fixture seeded", "project_id", projectID, "nodes", created)
	return created, nil
}

func (s *Seeder) seedNodes(ctx context.Context, projectID string, parentID *string, nodes []FixtureNode, created *int) error {
	for _, n := range nodes {
		docType, err := models.ParseDocumentType(n.Type)
		if err != nil {
			return fmt.Errorf("node %q: %w", n.Title, err)
		}

		id, err := s.repo.Create(ctx, projectID, parentID, n.Title, docType)
		if err != nil {
			return fmt.Errorf("create %q: %w", n.Title, err)
		}
		*created++

		if n.Collapsed {
			if err := s.repo.ToggleCollapse(ctx, projectID, id); err != nil {
				return fmt.Errorf("collapse %q: %w", n.Title, err)
			}
		}

		s.logger.Debug("node seeded", "project_id", projectID, "node_id", id, "title", n.Title)

		if err := s.seedNodes(ctx, projectID, &id, n.Children, created); err != nil {
			return err
		}
	}
	return nil
}
