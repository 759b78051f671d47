package doctree

import (
	"context"

	models "doctree/internal/domain/models/doctree"
)

// NodeService handles node lifecycle outside of drag-and-drop
type NodeService interface {
	// CreateNode appends a folder or document under ParentID
	CreateNode(ctx context.Context, req *CreateNodeRequest) (*models.FlatItem, error)

	// RenameNode changes a node's title
	RenameNode(ctx context.Context, req *RenameNodeRequest) (*models.FlatItem, error)

	// DeleteNode removes a node and its subtree, returning how many nodes went away
	DeleteNode(ctx context.Context, projectID, nodeID string) (int, error)

	// ToggleCollapse flips a folder's collapsed flag and returns the new value
	ToggleCollapse(ctx context.Context, projectID, nodeID string) (bool, error)
}

// CreateNodeRequest represents a node creation request
type CreateNodeRequest struct {
	ProjectID    string  `json:"-"`
	ParentID     *string `json:"parent_id,omitempty"` // null for root
	Title        string  `json:"title"`
	DocumentType string  `json:"document_type"` // folder, text, markdown or binary
}

// RenameNodeRequest represents a rename request
type RenameNodeRequest struct {
	ProjectID string `json:"-"`
	NodeID    string `json:"-"`
	Title     string `json:"title"`
}
