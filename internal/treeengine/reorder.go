package treeengine

import (
	"doctree/internal/domain"
	models "doctree/internal/domain/models/doctree"
)

// ReorderOptions configures Reorder
type ReorderOptions struct {
	// MaxDepth is the deepest depth any node may end up at; <= 0 means no cap
	MaxDepth int
}

// ReorderResult is the outcome of a successful Reorder
type ReorderResult struct {
	// Items is the new flat list in pre-order with dense order positions
	Items []models.FlatItem `json:"items"`

	// Updates holds one row per node whose parent, depth or order position changed
	Updates []models.PositionUpdate `json:"updates"`

	// NoOp is true when the item would land exactly where it already is.
	// Items is then the unchanged input and Updates is empty.
	NoOp bool `json:"no_op"`
}

// Reorder moves activeID to the position of overID under targetParentID at
// targetDepth. items must be the full flattened tree, descendants included.
//
// Structural problems (cycle, document as parent, depth limit) return a
// *domain.StructuralError and no result. On success every parent's children
// are renumbered 0..n-1.
func Reorder(items []models.FlatItem, activeID, overID string, targetParentID *string, targetDepth int, opts ReorderOptions) (*ReorderResult, error) {
	activeIndex := indexOf(items, activeID)
	if activeIndex < 0 {
		return nil, &domain.NotFoundError{Message: "node " + activeID + " not found"}
	}
	overIndex := indexOf(items, overID)
	if overIndex < 0 {
		return nil, &domain.NotFoundError{Message: "node " + overID + " not found"}
	}
	active := items[activeIndex]

	if activeID == overID && sameParent(active.ParentID, targetParentID) && active.Depth == targetDepth {
		return noOp(items), nil
	}

	if err := validateMove(items, active, targetParentID, targetDepth, opts); err != nil {
		return nil, err
	}

	moved := cloneItems(items)
	moved[activeIndex].ParentID = copyID(targetParentID)
	moved[activeIndex].Depth = targetDepth
	moved = arrayMove(moved, activeIndex, overIndex)

	if siblingOrdinal(items, activeID) == siblingOrdinal(moved, activeID) && sameParent(active.ParentID, targetParentID) {
		return noOp(items), nil
	}

	renumber(moved)
	rebuilt := FlattenTree(BuildTree(moved))

	return &ReorderResult{
		Items:   rebuilt,
		Updates: diffPositions(items, rebuilt),
	}, nil
}

// validateMove runs every structural check for a move before anything changes
func validateMove(items []models.FlatItem, active models.FlatItem, targetParentID *string, targetDepth int, opts ReorderOptions) error {
	idx := newItemIndex(items)

	if idx.wouldCreateCycle(active.ID, targetParentID) {
		return domain.NewStructuralError(domain.ReasonCycle,
			"cannot move %q into itself or one of its descendants", active.Title)
	}
	if err := idx.validateParent(targetParentID, active.DocumentType); err != nil {
		return err
	}

	expected := 0
	if targetParentID != nil {
		expected = idx[*targetParentID].Depth + 1
	}
	if targetDepth != expected {
		return domain.NewStructuralError(domain.ReasonDepthMismatch,
			"depth %d does not match target parent (expected %d)", targetDepth, expected)
	}

	if opts.MaxDepth > 0 {
		if deepest := targetDepth + SubtreeHeight(items, active.ID); deepest > opts.MaxDepth {
			return domain.NewStructuralError(domain.ReasonMaxDepth,
				"moving %q would nest items %d levels deep (limit %d)", active.Title, deepest, opts.MaxDepth)
		}
	}
	return nil
}

func noOp(items []models.FlatItem) *ReorderResult {
	return &ReorderResult{
		Items:   cloneItems(items),
		Updates: []models.PositionUpdate{},
		NoOp:    true,
	}
}

// siblingOrdinal is the position of id among items sharing its parent, in list order
func siblingOrdinal(items []models.FlatItem, id string) int {
	i := indexOf(items, id)
	if i < 0 {
		return -1
	}
	ordinal := 0
	for _, item := range items[:i] {
		if sameParent(item.ParentID, items[i].ParentID) {
			ordinal++
		}
	}
	return ordinal
}

// renumber assigns dense order positions per parent following list order
func renumber(items []models.FlatItem) {
	next := make(map[string]int)
	for i := range items {
		key := parentKey(items[i].ParentID)
		items[i].OrderPosition = next[key]
		next[key]++
	}
}

// diffPositions lists every item in after whose placement differs from before
func diffPositions(before, after []models.FlatItem) []models.PositionUpdate {
	old := newItemIndex(before)
	updates := make([]models.PositionUpdate, 0)
	for _, item := range after {
		prev, ok := old[item.ID]
		if ok && sameParent(prev.ParentID, item.ParentID) &&
			prev.Depth == item.Depth && prev.OrderPosition == item.OrderPosition {
			continue
		}
		updates = append(updates, models.PositionUpdate{
			ID:            item.ID,
			ParentID:      copyID(item.ParentID),
			OrderPosition: item.OrderPosition,
			Depth:         item.Depth,
			DocumentType:  item.DocumentType,
		})
	}
	return updates
}
