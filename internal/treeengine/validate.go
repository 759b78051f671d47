package treeengine

import (
	"doctree/internal/domain"
	models "doctree/internal/domain/models/doctree"
)

// itemIndex is an ID lookup over a flat list
type itemIndex map[string]*models.FlatItem

func newItemIndex(items []models.FlatItem) itemIndex {
	idx := make(itemIndex, len(items))
	for i := range items {
		if _, dup := idx[items[i].ID]; !dup {
			idx[items[i].ID] = &items[i]
		}
	}
	return idx
}

// ValidateParentChildRelationship checks that parentID may adopt a child of
// childType. Root (nil) accepts anything; otherwise the parent must exist and
// be a folder. Documents never have children.
func ValidateParentChildRelationship(items []models.FlatItem, parentID *string, childType models.DocumentType) error {
	return newItemIndex(items).validateParent(parentID, childType)
}

func (idx itemIndex) validateParent(parentID *string, childType models.DocumentType) error {
	if parentID == nil {
		return nil
	}
	parent, ok := idx[*parentID]
	if !ok {
		return &domain.NotFoundError{Message: "parent node " + *parentID + " not found"}
	}
	if !parent.DocumentType.CanHaveChildren() {
		return domain.NewStructuralError(domain.ReasonInvalidParent,
			"%q is a %s document and cannot contain a %s", parent.Title, parent.DocumentType, childType)
	}
	return nil
}

// WouldCreateCycle reports whether placing movingID under targetParentID
// would make movingID its own ancestor. It walks the parent chain upward from
// the target, so it costs O(depth) after indexing.
func WouldCreateCycle(items []models.FlatItem, movingID string, targetParentID *string) bool {
	return newItemIndex(items).wouldCreateCycle(movingID, targetParentID)
}

func (idx itemIndex) wouldCreateCycle(movingID string, targetParentID *string) bool {
	seen := make(map[string]bool)
	for current := targetParentID; current != nil; {
		if *current == movingID {
			return true
		}
		// A pre-existing cycle in the data must not hang the walk
		if seen[*current] {
			return false
		}
		seen[*current] = true

		item, ok := idx[*current]
		if !ok {
			return false
		}
		current = item.ParentID
	}
	return false
}

// SubtreeHeight is how many levels sit below the item with the given ID
// (0 for a leaf or an unknown ID).
func SubtreeHeight(items []models.FlatItem, id string) int {
	children := make(map[string][]string, len(items))
	for _, item := range items {
		if item.ParentID != nil && *item.ParentID != item.ID {
			children[*item.ParentID] = append(children[*item.ParentID], item.ID)
		}
	}

	height := 0
	seen := map[string]bool{id: true}
	level := []string{id}
	for {
		var next []string
		for _, parent := range level {
			for _, child := range children[parent] {
				if !seen[child] {
					seen[child] = true
					next = append(next, child)
				}
			}
		}
		if len(next) == 0 {
			return height
		}
		height++
		level = next
	}
}
