package treeengine

import (
	"math"

	models "doctree/internal/domain/models/doctree"
)

// ProjectionOptions configures GetProjection
type ProjectionOptions struct {
	// IndentationWidth is the pixel width of one nesting level
	IndentationWidth float64

	// MaxDepth caps the projected depth; <= 0 means no cap
	MaxDepth int

	// SubtreeHeight is how many levels hang below the dragged item. The
	// depth cap is lowered by this much so the deepest descendant still fits.
	SubtreeHeight int

	// IsFolder reports whether an ID may adopt children. Nil treats every
	// listed folder item as a folder based on its DocumentType.
	IsFolder func(id string) bool
}

// GetProjection computes the (depth, parent) the active item would land at
// if dropped over overID with the given horizontal drag offset.
//
// items is the rendered list: collapsed subtrees and the active item's own
// descendants already removed. The result depends only on the arguments, so
// it is safe to call on every pointer move.
func GetProjection(items []models.FlatItem, activeID, overID string, offsetX float64, opts ProjectionOptions) models.Projection {
	overIndex := indexOf(items, overID)
	if overIndex < 0 {
		return models.Projection{}
	}

	isFolder := opts.IsFolder
	if isFolder == nil {
		idx := newItemIndex(items)
		isFolder = func(id string) bool {
			item, ok := idx[id]
			return ok && item.IsFolder()
		}
	}

	baseDepth := items[overIndex].Depth
	newItems := items
	if activeIndex := indexOf(items, activeID); activeIndex >= 0 {
		baseDepth = items[activeIndex].Depth
		newItems = arrayMove(items, activeIndex, overIndex)
	}

	var previous, next *models.FlatItem
	if overIndex > 0 {
		previous = &newItems[overIndex-1]
	}
	if overIndex+1 < len(newItems) {
		next = &newItems[overIndex+1]
	}

	maxDepth := 0
	if previous != nil {
		maxDepth = previous.Depth + 1
	}
	fits := true
	if opts.MaxDepth > 0 {
		limit := opts.MaxDepth - opts.SubtreeHeight
		if maxDepth > limit {
			maxDepth = max(limit, 0)
		}
		// The dragged subtree is taller than the cap allows anywhere
		fits = limit >= 0
	}
	minDepth := 0
	if next != nil {
		minDepth = next.Depth
	}

	depth := baseDepth + dragDepth(offsetX, opts.IndentationWidth, len(items))
	valid := fits
	switch {
	case minDepth > maxDepth:
		// The cap leaves no structurally sound depth at this position
		depth = minDepth
		valid = false
	case depth >= maxDepth:
		depth = maxDepth
	case depth < minDepth:
		depth = minDepth
	}

	parentID := projectedParent(newItems, overIndex, previous, depth)

	// Documents cannot adopt: step shallower until a folder (or root) parent
	if valid && parentID != nil && !isFolder(*parentID) {
		valid = false
		for d := depth - 1; d >= minDepth; d-- {
			candidate := projectedParent(newItems, overIndex, previous, d)
			if candidate == nil || isFolder(*candidate) {
				depth, parentID, valid = d, candidate, true
				break
			}
		}
	}

	return models.Projection{
		Depth:    depth,
		ParentID: copyID(parentID),
		MinDepth: minDepth,
		MaxDepth: maxDepth,
		Valid:    valid,
	}
}

// dragDepth converts a horizontal offset into whole indentation levels. The
// result is bounded by the list length, which no real depth can exceed.
func dragDepth(offsetX, indentationWidth float64, itemCount int) int {
	if indentationWidth <= 0 || math.IsNaN(offsetX) || math.IsInf(offsetX, 0) {
		return 0
	}
	bound := float64(itemCount + 1)
	levels := math.Max(-bound, math.Min(bound, math.Round(offsetX/indentationWidth)))
	return int(levels)
}

// projectedParent resolves which item would own a node placed at depth right
// after previous.
func projectedParent(items []models.FlatItem, overIndex int, previous *models.FlatItem, depth int) *string {
	if depth == 0 || previous == nil {
		return nil
	}
	if depth == previous.Depth {
		return previous.ParentID
	}
	if depth > previous.Depth {
		id := previous.ID
		return &id
	}
	for i := overIndex - 1; i >= 0; i-- {
		if items[i].Depth == depth {
			return items[i].ParentID
		}
	}
	return nil
}
