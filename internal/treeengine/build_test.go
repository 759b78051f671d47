package treeengine

import (
	"testing"

	models "doctree/internal/domain/models/doctree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() []*models.TreeNode {
	return positioned(
		folder("A",
			folder("B",
				doc("C"),
			),
			doc("D"),
		),
		doc("E"),
		folder("F"),
	)
}

func TestFlattenTree(t *testing.T) {
	t.Run("pre-order with depth, parent and index", func(t *testing.T) {
		flat := FlattenTree(sampleTree())

		assert.Equal(t, []string{"A", "B", "C", "D", "E", "F"}, ids(flat))

		c := byID(flat, "C")
		require.NotNil(t, c.ParentID)
		assert.Equal(t, "B", *c.ParentID)
		assert.Equal(t, 2, c.Depth)
		assert.Equal(t, 0, c.Index)

		d := byID(flat, "D")
		assert.Equal(t, 1, d.Depth)
		assert.Equal(t, 1, d.Index)
		assert.Nil(t, byID(flat, "E").ParentID)
	})

	t.Run("depth is parent depth plus one", func(t *testing.T) {
		flat := FlattenTree(sampleTree())
		depths := map[string]int{}
		for _, item := range flat {
			depths[item.ID] = item.Depth
		}
		for _, item := range flat {
			if item.ParentID == nil {
				assert.Equal(t, 0, item.Depth, item.ID)
				continue
			}
			assert.Equal(t, depths[*item.ParentID]+1, item.Depth, item.ID)
		}
	})

	t.Run("is repeatable", func(t *testing.T) {
		tree := sampleTree()
		assert.Equal(t, FlattenTree(tree), FlattenTree(tree))
	})

	t.Run("does not share parent pointers between items", func(t *testing.T) {
		flat := FlattenTree(sampleTree())
		*byID(flat, "B").ParentID = "changed"
		assert.Equal(t, "A", *byID(flat, "D").ParentID)
	})
}

func TestBuildTree(t *testing.T) {
	t.Run("round trips a flattened tree", func(t *testing.T) {
		tree := sampleTree()
		rebuilt := BuildTree(FlattenTree(tree))

		assert.Equal(t, shape(tree), shape(rebuilt))
		assert.Equal(t, "A[B[C],D],E,F", shape(rebuilt))
	})

	t.Run("orders siblings by order position", func(t *testing.T) {
		items := []models.FlatItem{
			{Node: models.Node{ID: "x", DocumentType: models.Folder(), OrderPosition: 2}},
			{Node: models.Node{ID: "y", DocumentType: models.Folder(), OrderPosition: 0}},
			{Node: models.Node{ID: "z1", DocumentType: models.Document(models.ContentText), OrderPosition: 5}, ParentID: ptr("x")},
			{Node: models.Node{ID: "z0", DocumentType: models.Document(models.ContentText), OrderPosition: 1}, ParentID: ptr("x")},
		}

		assert.Equal(t, "y,x[z0,z1]", shape(BuildTree(items)))
	})

	t.Run("keeps orphans at the root", func(t *testing.T) {
		items := []models.FlatItem{
			{Node: models.Node{ID: "a", DocumentType: models.Folder()}},
			{Node: models.Node{ID: "orphan", DocumentType: models.Document(models.ContentText), OrderPosition: 1}, ParentID: ptr("missing")},
		}

		assert.Equal(t, "a,orphan", shape(BuildTree(items)))
	})

	t.Run("breaks parent cycles instead of dropping nodes", func(t *testing.T) {
		items := []models.FlatItem{
			{Node: models.Node{ID: "root", DocumentType: models.Folder()}},
			{Node: models.Node{ID: "p", DocumentType: models.Folder()}, ParentID: ptr("q")},
			{Node: models.Node{ID: "q", DocumentType: models.Folder()}, ParentID: ptr("p")},
			{Node: models.Node{ID: "self", DocumentType: models.Folder(), OrderPosition: 1}, ParentID: ptr("self")},
		}

		tree := BuildTree(items)

		assert.Equal(t, "root,self,p[q]", shape(tree))
		assert.Len(t, FlattenTree(tree), 4)
	})

	t.Run("first duplicate id wins", func(t *testing.T) {
		items := []models.FlatItem{
			{Node: models.Node{ID: "a", Title: "first", DocumentType: models.Folder()}},
			{Node: models.Node{ID: "a", Title: "second", DocumentType: models.Folder()}},
		}

		tree := BuildTree(items)
		require.Len(t, tree, 1)
		assert.Equal(t, "first", tree[0].Title)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, BuildTree(nil))
		assert.Empty(t, FlattenTree(nil))
	})
}

func TestRemoveChildrenOf(t *testing.T) {
	t.Run("hides every descendant of a collapsed folder", func(t *testing.T) {
		tree := []*models.TreeNode{
			collapsedFolder("F",
				doc("A"),
				folder("G", doc("B")),
			),
		}

		visible := VisibleItems(FlattenTree(positioned(tree...)), "")

		assert.Equal(t, []string{"F"}, ids(visible))
	})

	t.Run("hides the active subtree but keeps the active item", func(t *testing.T) {
		flat := FlattenTree(sampleTree())

		assert.Equal(t, []string{"A", "E", "F"}, ids(RemoveChildrenOf(flat, []string{"A"})))
		assert.Equal(t, []string{"A", "B", "D", "E", "F"}, ids(RemoveChildrenOf(flat, []string{"B"})))
	})

	t.Run("does not modify the input", func(t *testing.T) {
		flat := FlattenTree(sampleTree())
		RemoveChildrenOf(flat, []string{"A"})
		assert.Len(t, flat, 6)
	})
}

func TestGetChildCount(t *testing.T) {
	tree := sampleTree()

	assert.Equal(t, 3, GetChildCount(tree, "A"))
	assert.Equal(t, 1, GetChildCount(tree, "B"))
	assert.Equal(t, 0, GetChildCount(tree, "E"))
	assert.Equal(t, 0, GetChildCount(tree, "nope"))
}

func TestCollapseSet(t *testing.T) {
	flat := FlattenTree(positioned(
		collapsedFolder("F", doc("A")),
		doc("D"),
	))
	flat[2].Collapsed = true // a collapsed flag on a document means nothing

	set := CollapsedIDs(flat)
	assert.Equal(t, []string{"F"}, set.IDs())

	assert.False(t, set.Toggle("F"))
	assert.True(t, set.Toggle("F"))

	applied := set.Apply(flat)
	assert.True(t, byID(applied, "F").Collapsed)
	assert.False(t, byID(applied, "D").Collapsed)
}
