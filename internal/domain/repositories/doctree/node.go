package doctree

import (
	"context"

	models "doctree/internal/domain/models/doctree"
)

// NodeRepository is the persistence collaborator for document trees. It owns
// the authoritative state; the tree engine only transforms what it reports.
type NodeRepository interface {
	// FetchTree returns every node of a project as a flat list with ParentID
	// and OrderPosition set. Depth and Index are derived by the caller.
	FetchTree(ctx context.Context, projectID string) ([]models.FlatItem, error)

	// BatchUpdatePositions applies a reorder batch atomically: either every
	// update is persisted or none is.
	BatchUpdatePositions(ctx context.Context, projectID string, updates []models.PositionUpdate) error

	// Create adds a node after its last sibling and returns its ID
	Create(ctx context.Context, projectID string, parentID *string, title string, docType models.DocumentType) (string, error)

	// Remove deletes a node and, transitively, everything under it
	Remove(ctx context.Context, projectID, id string) error

	// Rename changes a node's title
	Rename(ctx context.Context, projectID, id, title string) error

	// ToggleCollapse flips the collapsed flag of a folder
	ToggleCollapse(ctx context.Context, projectID, id string) error
}
