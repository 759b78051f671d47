package treeengine

import (
	models "doctree/internal/domain/models/doctree"
)

// FlattenTree walks the tree depth-first in pre-order and records each
// node's parent, depth and sibling index.
func FlattenTree(nodes []*models.TreeNode) []models.FlatItem {
	flat := make([]models.FlatItem, 0, countNodes(nodes))
	return flatten(flat, nodes, nil, 0)
}

func flatten(acc []models.FlatItem, nodes []*models.TreeNode, parentID *string, depth int) []models.FlatItem {
	for i, node := range nodes {
		if node == nil {
			continue
		}
		acc = append(acc, models.FlatItem{
			Node:     node.Node,
			ParentID: copyID(parentID),
			Depth:    depth,
			Index:    i,
		})
		id := node.ID
		acc = flatten(acc, node.Children, &id, depth+1)
	}
	return acc
}

func countNodes(nodes []*models.TreeNode) int {
	n := 0
	for _, node := range nodes {
		if node == nil {
			continue
		}
		n += 1 + countNodes(node.Children)
	}
	return n
}

// RemoveChildrenOf drops every descendant of the given IDs from a pre-order
// flat list. The IDs themselves stay. Used to hide collapsed folders' contents
// and the subtree that moves along with a dragged item.
func RemoveChildrenOf(items []models.FlatItem, ids []string) []models.FlatItem {
	excluded := make(map[string]bool, len(ids))
	for _, id := range ids {
		excluded[id] = true
	}

	out := make([]models.FlatItem, 0, len(items))
	for _, item := range items {
		if item.ParentID != nil && excluded[*item.ParentID] {
			excluded[item.ID] = true
			continue
		}
		out = append(out, item)
	}
	return out
}

// GetChildCount counts all descendants of id, not only direct children.
// Unknown IDs count zero.
func GetChildCount(nodes []*models.TreeNode, id string) int {
	node := FindNode(nodes, id)
	if node == nil {
		return 0
	}
	return countNodes(node.Children)
}

// FindNode returns the node with the given ID, or nil
func FindNode(nodes []*models.TreeNode, id string) *models.TreeNode {
	for _, node := range nodes {
		if node == nil {
			continue
		}
		if node.ID == id {
			return node
		}
		if found := FindNode(node.Children, id); found != nil {
			return found
		}
	}
	return nil
}

// indexOf returns the position of id in items, or -1
func indexOf(items []models.FlatItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func copyID(id *string) *string {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// cloneItems copies a flat list, including parent pointers
func cloneItems(items []models.FlatItem) []models.FlatItem {
	out := make([]models.FlatItem, len(items))
	for i, item := range items {
		out[i] = item
		out[i].ParentID = copyID(item.ParentID)
	}
	return out
}

// arrayMove returns a copy of items with the element at from moved to to
func arrayMove(items []models.FlatItem, from, to int) []models.FlatItem {
	out := cloneItems(items)
	if from == to || from < 0 || to < 0 || from >= len(out) || to >= len(out) {
		return out
	}
	moved := out[from]
	if from < to {
		copy(out[from:to], out[from+1:to+1])
	} else {
		copy(out[to+1:from+1], out[to:from])
	}
	out[to] = moved
	return out
}
