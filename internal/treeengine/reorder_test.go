package treeengine

import (
	"testing"

	"doctree/internal/domain"
	models "doctree/internal/domain/models/doctree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertDense(t *testing.T, items []models.FlatItem) {
	t.Helper()
	groups := map[string][]int{}
	for _, item := range items {
		key := parentKey(item.ParentID)
		groups[key] = append(groups[key], item.OrderPosition)
	}
	for parent, positions := range groups {
		for i, p := range positions {
			assert.Equal(t, i, p, "parent %q positions %v", parent, positions)
		}
	}
}

func updatedIDs(updates []models.PositionUpdate) []string {
	out := make([]string, len(updates))
	for i, u := range updates {
		out[i] = u.ID
	}
	return out
}

func TestReorder(t *testing.T) {
	opts := ReorderOptions{MaxDepth: 3}

	t.Run("nests a root document into a folder", func(t *testing.T) {
		items := FlattenTree(sampleTree())

		result, err := Reorder(items, "E", "E", ptr("A"), 1, opts)
		require.NoError(t, err)

		assert.False(t, result.NoOp)
		assert.Equal(t, "A[B[C],D,E],F", shape(BuildTree(result.Items)))
		assert.Equal(t, []string{"E", "F"}, updatedIDs(result.Updates))

		e := result.Updates[0]
		assert.Equal(t, ptr("A"), e.ParentID)
		assert.Equal(t, 1, e.Depth)
		assert.Equal(t, 2, e.OrderPosition)
		assert.True(t, e.DocumentType.IsValid())
		assertDense(t, result.Items)
	})

	t.Run("moving a folder down carries its subtree", func(t *testing.T) {
		items := FlattenTree(sampleTree())

		result, err := Reorder(items, "A", "F", nil, 0, opts)
		require.NoError(t, err)

		assert.Equal(t, "E,F,A[B[C],D]", shape(BuildTree(result.Items)))
		assert.Equal(t, []string{"E", "F", "A", "B", "C", "D"}, ids(result.Items))
		assert.ElementsMatch(t, []string{"A", "E", "F"}, updatedIDs(result.Updates))
		assertDense(t, result.Items)
	})

	t.Run("moving up", func(t *testing.T) {
		items := FlattenTree(sampleTree())

		result, err := Reorder(items, "F", "A", nil, 0, opts)
		require.NoError(t, err)

		assert.Equal(t, "F,A[B[C],D],E", shape(BuildTree(result.Items)))
		assertDense(t, result.Items)
	})

	t.Run("descendant depths follow a reparented folder", func(t *testing.T) {
		items := FlattenTree(sampleTree())

		result, err := Reorder(items, "B", "F", nil, 0, opts)
		require.NoError(t, err)

		assert.Equal(t, "A[D],E,F,B[C]", shape(BuildTree(result.Items)))
		assert.Equal(t, 1, byID(result.Items, "C").Depth)
		assert.Contains(t, updatedIDs(result.Updates), "C")
	})

	t.Run("renumbers gapped positions densely", func(t *testing.T) {
		items := FlattenTree(sampleTree())
		for i := range items {
			items[i].OrderPosition *= 10
		}

		result, err := Reorder(items, "F", "A", nil, 0, opts)
		require.NoError(t, err)
		assertDense(t, result.Items)
	})

	t.Run("does not modify the input", func(t *testing.T) {
		items := FlattenTree(sampleTree())
		before := cloneItems(items)

		_, err := Reorder(items, "A", "F", nil, 0, opts)
		require.NoError(t, err)
		assert.Equal(t, before, items)
	})
}

func TestReorder_NoOp(t *testing.T) {
	items := FlattenTree(sampleTree())

	t.Run("dropping an item where it started", func(t *testing.T) {
		result, err := Reorder(items, "D", "D", ptr("A"), 1, ReorderOptions{})
		require.NoError(t, err)

		assert.True(t, result.NoOp)
		assert.Empty(t, result.Updates)
		assert.Equal(t, items, result.Items)
	})

	t.Run("same parent and same sibling slot", func(t *testing.T) {
		result, err := Reorder(items, "C", "D", ptr("B"), 2, ReorderOptions{})
		require.NoError(t, err)

		assert.True(t, result.NoOp)
		assert.Empty(t, result.Updates)
	})

	t.Run("gapped positions are left alone", func(t *testing.T) {
		gapped := cloneItems(items)
		for i := range gapped {
			gapped[i].OrderPosition = i * 7
		}

		result, err := Reorder(gapped, "E", "E", nil, 0, ReorderOptions{})
		require.NoError(t, err)
		assert.True(t, result.NoOp)
		assert.Equal(t, gapped, result.Items)
	})
}

func TestReorder_Rejections(t *testing.T) {
	items := FlattenTree(sampleTree())

	tests := []struct {
		name     string
		activeID string
		overID   string
		parentID *string
		depth    int
		maxDepth int
		wantErr  error
	}{
		{
			name:     "folder into its own descendant",
			activeID: "A",
			overID:   "C",
			parentID: ptr("B"),
			depth:    2,
			wantErr:  domain.ErrCycle,
		},
		{
			name:     "folder into itself",
			activeID: "B",
			overID:   "C",
			parentID: ptr("B"),
			depth:    2,
			wantErr:  domain.ErrCycle,
		},
		{
			name:     "document as parent",
			activeID: "E",
			overID:   "E",
			parentID: ptr("D"),
			depth:    2,
			wantErr:  domain.ErrInvalidParent,
		},
		{
			name:     "subtree would exceed the depth limit",
			activeID: "A",
			overID:   "F",
			parentID: ptr("F"),
			depth:    1,
			maxDepth: 2,
			wantErr:  domain.ErrMaxDepth,
		},
		{
			name:     "depth inconsistent with parent",
			activeID: "E",
			overID:   "E",
			parentID: ptr("A"),
			depth:    2,
			wantErr:  domain.ErrDepthMismatch,
		},
		{
			name:     "unknown parent",
			activeID: "E",
			overID:   "E",
			parentID: ptr("ghost"),
			depth:    1,
			wantErr:  domain.ErrNotFound,
		},
		{
			name:     "unknown active item",
			activeID: "ghost",
			overID:   "E",
			wantErr:  domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := cloneItems(items)

			result, err := Reorder(items, tt.activeID, tt.overID, tt.parentID, tt.depth, ReorderOptions{MaxDepth: tt.maxDepth})

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, result)
			assert.Equal(t, before, items)
		})
	}

	t.Run("structural rejections share one sentinel", func(t *testing.T) {
		_, err := Reorder(items, "A", "C", ptr("C"), 3, ReorderOptions{})
		assert.ErrorIs(t, err, domain.ErrStructural)
	})
}

func TestWouldCreateCycle(t *testing.T) {
	// A -> B -> C
	items := FlattenTree(positioned(folder("A", folder("B", folder("C")))))

	assert.True(t, WouldCreateCycle(items, "A", ptr("C")))
	assert.True(t, WouldCreateCycle(items, "A", ptr("A")))
	assert.True(t, WouldCreateCycle(items, "B", ptr("C")))
	assert.False(t, WouldCreateCycle(items, "C", ptr("A")))
	assert.False(t, WouldCreateCycle(items, "A", nil))
	assert.False(t, WouldCreateCycle(items, "A", ptr("unknown")))
}

func TestValidateParentChildRelationship(t *testing.T) {
	items := FlattenTree(sampleTree())

	assert.NoError(t, ValidateParentChildRelationship(items, nil, models.Document(models.ContentText)))
	assert.NoError(t, ValidateParentChildRelationship(items, ptr("A"), models.Folder()))
	assert.NoError(t, ValidateParentChildRelationship(items, ptr("F"), models.Document(models.ContentBinary)))
	assert.ErrorIs(t, ValidateParentChildRelationship(items, ptr("E"), models.Folder()), domain.ErrInvalidParent)
	assert.ErrorIs(t, ValidateParentChildRelationship(items, ptr("ghost"), models.Folder()), domain.ErrNotFound)
}
