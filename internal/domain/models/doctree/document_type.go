package doctree

import (
	"fmt"
)

// ContentKind identifies what a non-folder document holds
type ContentKind string

const (
	ContentText     ContentKind = "text"
	ContentMarkdown ContentKind = "markdown"
	ContentBinary   ContentKind = "binary"
)

const folderTag = "folder"

// DocumentType is either a folder or a document of some content kind.
// Construct it with Folder() or Document(kind); the zero value is invalid.
type DocumentType struct {
	folder  bool
	content ContentKind
}

// Folder returns the folder document type
func Folder() DocumentType {
	return DocumentType{folder: true}
}

// Document returns a leaf document type of the given content kind
func Document(kind ContentKind) DocumentType {
	return DocumentType{content: kind}
}

// IsFolder reports whether the type is a folder
func (t DocumentType) IsFolder() bool { return t.folder }

// CanHaveChildren reports whether nodes of this type may contain other nodes.
// Only folders can.
func (t DocumentType) CanHaveChildren() bool { return t.folder }

// Content returns the content kind of a document, or "" for folders
func (t DocumentType) Content() ContentKind { return t.content }

// IsValid reports whether t was built from a known tag
func (t DocumentType) IsValid() bool {
	if t.folder {
		return t.content == ""
	}
	switch t.content {
	case ContentText, ContentMarkdown, ContentBinary:
		return true
	}
	return false
}

// String returns the persisted tag ("folder", "text", ...)
func (t DocumentType) String() string {
	if t.folder {
		return folderTag
	}
	return string(t.content)
}

// ParseDocumentType parses a persisted tag
func ParseDocumentType(s string) (DocumentType, error) {
	if s == folderTag {
		return Folder(), nil
	}
	t := Document(ContentKind(s))
	if !t.IsValid() {
		return DocumentType{}, fmt.Errorf("unknown document type %q", s)
	}
	return t, nil
}

// MarshalText implements encoding.TextMarshaler
func (t DocumentType) MarshalText() ([]byte, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid document type")
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *DocumentType) UnmarshalText(data []byte) error {
	parsed, err := ParseDocumentType(string(data))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
