package doctree

import (
	"context"

	models "doctree/internal/domain/models/doctree"
)

// TreeService reads project trees and applies drag-and-drop moves
type TreeService interface {
	// GetTree returns the nested tree, the full flat list and the visible list
	GetTree(ctx context.Context, projectID string) (*TreeSnapshot, error)

	// VisibleItems returns the rendered list: collapsed subtrees hidden, and
	// the descendants of activeID hidden when it is non-empty
	VisibleItems(ctx context.Context, projectID, activeID string) ([]models.FlatItem, error)

	// Project computes where a dragged item would land. Read-only.
	Project(ctx context.Context, req *ProjectionRequest) (*models.Projection, error)

	// Move validates and persists a reorder as one batch
	Move(ctx context.Context, req *MoveRequest) (*MoveResult, error)

	// ChildCount returns the number of descendants of a node
	ChildCount(ctx context.Context, projectID, nodeID string) (int, error)
}

// TreeSnapshot is one consistent read of a project tree
type TreeSnapshot struct {
	Tree    []*models.TreeNode `json:"tree"`
	Items   []models.FlatItem  `json:"items"`
	Visible []models.FlatItem  `json:"visible"`
}

// ProjectionRequest asks where ActiveID would land when hovering OverID
type ProjectionRequest struct {
	ProjectID string  `json:"-"`
	ActiveID  string  `json:"active_id"`
	OverID    string  `json:"over_id"`
	OffsetX   float64 `json:"offset_x"` // Horizontal drag offset in pixels
}

// MoveRequest is a drop: ActiveID goes to OverID's slot under ParentID at Depth
type MoveRequest struct {
	ProjectID string  `json:"-"`
	ActiveID  string  `json:"active_id"`
	OverID    string  `json:"over_id"`
	ParentID  *string `json:"parent_id"` // null = root level
	Depth     int     `json:"depth"`
}

// MoveResult reports the persisted outcome of a move
type MoveResult struct {
	Items   []models.FlatItem       `json:"items"`
	Updates []models.PositionUpdate `json:"updates"`
	NoOp    bool                    `json:"no_op"`
}
