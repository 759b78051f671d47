package treeengine

import (
	"sort"

	models "doctree/internal/domain/models/doctree"
)

// CollapseSet tracks which folders are collapsed
type CollapseSet map[string]struct{}

// CollapsedIDs collects collapsed folders. Collapsed on a document is ignored.
func CollapsedIDs(items []models.FlatItem) CollapseSet {
	set := make(CollapseSet)
	for _, item := range items {
		if item.Collapsed && item.IsFolder() {
			set[item.ID] = struct{}{}
		}
	}
	return set
}

// Contains reports whether id is collapsed
func (s CollapseSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Toggle flips id and returns the new state (true = collapsed)
func (s CollapseSet) Toggle(id string) bool {
	if s.Contains(id) {
		delete(s, id)
		return false
	}
	s[id] = struct{}{}
	return true
}

// IDs returns the collapsed IDs in sorted order
func (s CollapseSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Apply returns a copy of items with Collapsed set from the set. Documents
// are never marked collapsed.
func (s CollapseSet) Apply(items []models.FlatItem) []models.FlatItem {
	out := cloneItems(items)
	for i := range out {
		out[i].Collapsed = out[i].IsFolder() && s.Contains(out[i].ID)
	}
	return out
}

// VisibleItems is the list actually rendered: descendants of collapsed
// folders are hidden, and so are the descendants of activeID while it is
// being dragged. Pass "" when nothing is being dragged.
func VisibleItems(items []models.FlatItem, activeID string) []models.FlatItem {
	hidden := CollapsedIDs(items).IDs()
	if activeID != "" {
		hidden = append(hidden, activeID)
	}
	return RemoveChildrenOf(items, hidden)
}
