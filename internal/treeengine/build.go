// Package treeengine converts between the flat persisted form of a document
// tree (parent pointer + order position) and its nested form, and computes
// drag projections and reorder batches over those snapshots.
//
// Every function here is pure: inputs are never mutated and malformed data
// degrades to a best-effort result instead of an error.
package treeengine

import (
	"sort"

	models "doctree/internal/domain/models/doctree"
)

const rootKey = ""

// parentKey maps a nullable parent ID to a map key. Root items share rootKey.
func parentKey(parentID *string) string {
	if parentID == nil {
		return rootKey
	}
	return *parentID
}

// BuildTree nests a flat list by ParentID. Siblings are ordered by ascending
// OrderPosition, ties broken by list order.
//
// Items whose parent is missing, that point at themselves, or that sit on a
// parent cycle are promoted to the root level rather than dropped. When an ID
// appears more than once, the first occurrence wins.
func BuildTree(items []models.FlatItem) []*models.TreeNode {
	// Pass 1: index items by ID
	byID := make(map[string]int, len(items))
	for i, item := range items {
		if _, dup := byID[item.ID]; !dup {
			byID[item.ID] = i
		}
	}

	// Pass 2: group children under their parent
	children := make(map[string][]int, len(items))
	var roots []int
	for i, item := range items {
		if byID[item.ID] != i {
			continue
		}
		if item.ParentID == nil || *item.ParentID == item.ID {
			roots = append(roots, i)
			continue
		}
		if _, ok := byID[*item.ParentID]; !ok {
			roots = append(roots, i)
			continue
		}
		children[*item.ParentID] = append(children[*item.ParentID], i)
	}

	byPosition := func(group []int) {
		sort.SliceStable(group, func(a, b int) bool {
			return items[group[a]].OrderPosition < items[group[b]].OrderPosition
		})
	}
	byPosition(roots)
	for _, group := range children {
		byPosition(group)
	}

	// Pass 3: assemble from the roots, attaching each item at most once
	visited := make(map[string]bool, len(byID))
	var attach func(i int) *models.TreeNode
	attach = func(i int) *models.TreeNode {
		item := items[i]
		visited[item.ID] = true
		node := &models.TreeNode{Node: item.Node, Children: []*models.TreeNode{}}
		for _, c := range children[item.ID] {
			if visited[items[c].ID] {
				continue
			}
			node.Children = append(node.Children, attach(c))
		}
		return node
	}

	tree := make([]*models.TreeNode, 0, len(roots))
	for _, i := range roots {
		tree = append(tree, attach(i))
	}

	// Anything left unvisited hangs off a parent cycle
	for i, item := range items {
		if byID[item.ID] != i || visited[item.ID] {
			continue
		}
		tree = append(tree, attach(i))
	}

	return tree
}
