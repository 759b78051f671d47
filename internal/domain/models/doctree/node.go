package doctree

import "time"

// Node holds the fields shared by the nested and flattened tree forms
type Node struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	DocumentType  DocumentType `json:"document_type"`
	Collapsed     bool         `json:"collapsed,omitempty"` // Only meaningful for folders
	OrderPosition int          `json:"order_position"`      // Sibling order, ascending
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// TreeNode is a node in the nested tree form
type TreeNode struct {
	Node
	Children []*TreeNode `json:"children"`
}

// FlatItem is a node in the flattened form. It is always derived from a
// tree or a repository query, never authored by hand.
type FlatItem struct {
	Node
	ParentID *string `json:"parent_id"` // NULL = root level
	Depth    int     `json:"depth"`
	Index    int     `json:"index"` // Position among siblings when flattened
}

// IsFolder reports whether the item can hold children
func (f FlatItem) IsFolder() bool {
	return f.DocumentType.IsFolder()
}

// PositionUpdate is one row of a reorder batch sent to the repository
type PositionUpdate struct {
	ID            string       `json:"id"`
	ParentID      *string      `json:"parent_id"`
	OrderPosition int          `json:"order_position"`
	Depth         int          `json:"depth"`
	DocumentType  DocumentType `json:"document_type"`
}

// Projection is where a dragged item would land if dropped now
type Projection struct {
	Depth    int     `json:"depth"`
	ParentID *string `json:"parent_id"`
	MinDepth int     `json:"min_depth"`
	MaxDepth int     `json:"max_depth"`
	Valid    bool    `json:"valid"` // False when no folder/root parent is reachable
}
