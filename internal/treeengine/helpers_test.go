package treeengine

import (
	models "doctree/internal/domain/models/doctree"
)

func folder(id string, children ...*models.TreeNode) *models.TreeNode {
	return &models.TreeNode{
		Node:     models.Node{ID: id, Title: id, DocumentType: models.Folder()},
		Children: append([]*models.TreeNode{}, children...),
	}
}

func collapsedFolder(id string, children ...*models.TreeNode) *models.TreeNode {
	n := folder(id, children...)
	n.Collapsed = true
	return n
}

func doc(id string) *models.TreeNode {
	return &models.TreeNode{
		Node:     models.Node{ID: id, Title: id, DocumentType: models.Document(models.ContentText)},
		Children: []*models.TreeNode{},
	}
}

// positioned assigns order positions from sibling order, as the repository would
func positioned(nodes ...*models.TreeNode) []*models.TreeNode {
	var walk func([]*models.TreeNode)
	walk = func(ns []*models.TreeNode) {
		for i, n := range ns {
			n.OrderPosition = i
			walk(n.Children)
		}
	}
	walk(nodes)
	return nodes
}

func ids(items []models.FlatItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func ptr(s string) *string { return &s }

// shape renders a tree as "id[child,child]" for compact comparison
func shape(nodes []*models.TreeNode) string {
	s := ""
	for i, n := range nodes {
		if i > 0 {
			s += ","
		}
		s += n.ID
		if len(n.Children) > 0 {
			s += "[" + shape(n.Children) + "]"
		}
	}
	return s
}

func byID(items []models.FlatItem, id string) models.FlatItem {
	for _, item := range items {
		if item.ID == id {
			return item
		}
	}
	return models.FlatItem{}
}
