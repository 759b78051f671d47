package doctree

import (
	"context"
	"testing"

	"doctree/internal/domain"
	"doctree/internal/repository/memory"
	"doctree/internal/treeengine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(t *testing.T) (*TreeController, *recordingRepo, map[string]string) {
	t.Helper()
	repo, ids := seedSample(t)
	rec := &recordingRepo{NodeRepository: repo}
	c := NewTreeController(testProject, rec, memory.NewCommitLock(), treeengine.DragOptions{
		IndentationWidth:   50,
		MaxDepth:           3,
		ActivationDistance: 5,
	}, discardLogger())
	require.NoError(t, c.Load(context.Background()))
	return c, rec, ids
}

func TestTreeController_DropCommits(t *testing.T) {
	c, rec, ids := newTestController(t)
	ctx := context.Background()

	active, err := c.BeginDrag(ids["E"], 2, 0)
	require.NoError(t, err)
	assert.False(t, active, "below activation distance")

	active, err = c.BeginDrag(ids["E"], 10, 0)
	require.NoError(t, err)
	require.True(t, active)

	p, err := c.DragOver(ids["D"], 50)
	require.NoError(t, err)
	require.True(t, p.Valid)
	assert.Equal(t, treeengine.DragProjecting, c.State())

	result, err := c.Drop(ctx)
	require.NoError(t, err)
	assert.False(t, result.NoOp)
	assert.Equal(t, 1, rec.batchCount())
	assert.Equal(t, treeengine.DragIdle, c.State())
	assert.Equal(t, []string{"A", "B", "C", "E", "D", "F"}, titlesOf(c.Items()))

	require.NoError(t, c.Load(ctx))
	assert.Equal(t, []string{"A", "B", "C", "E", "D", "F"}, titlesOf(c.Items()))
}

func TestTreeController_DropWithoutProjectionIsNoOp(t *testing.T) {
	c, rec, ids := newTestController(t)

	_, err := c.BeginDrag(ids["A"], 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "E", "F"}, titlesOf(c.Visible()))

	result, err := c.Drop(context.Background())
	require.NoError(t, err)
	assert.True(t, result.NoOp)
	assert.Zero(t, rec.batchCount())
	assert.Equal(t, treeengine.DragIdle, c.State())
}

func TestTreeController_CancelDrag(t *testing.T) {
	c, rec, ids := newTestController(t)

	_, err := c.BeginDrag(ids["E"], 10, 0)
	require.NoError(t, err)
	_, err = c.DragOver(ids["D"], 50)
	require.NoError(t, err)

	c.CancelDrag()
	assert.Equal(t, treeengine.DragIdle, c.State())

	_, err = c.DragOver(ids["D"], 50)
	assert.ErrorIs(t, err, treeengine.ErrDragNotActive)
	assert.Zero(t, rec.batchCount())
}

func TestTreeController_RevertsOnCommitFailure(t *testing.T) {
	c, rec, ids := newTestController(t)
	rec.failWith = errDatabaseDown
	before := c.Items()

	_, err := c.BeginDrag(ids["E"], 10, 0)
	require.NoError(t, err)
	_, err = c.DragOver(ids["D"], 50)
	require.NoError(t, err)

	_, err = c.Drop(context.Background())
	var commitErr *domain.CommitError
	require.ErrorAs(t, err, &commitErr)
	assert.ErrorIs(t, err, errDatabaseDown)

	assert.Equal(t, before, c.Items())
	assert.Equal(t, treeengine.DragIdle, c.State())
	assert.False(t, c.Committing())
}

func TestTreeController_RefusesDragWhileCommitting(t *testing.T) {
	c, rec, ids := newTestController(t)
	rec.entered = make(chan struct{})
	rec.proceed = make(chan struct{})
	rec.failWith = errDatabaseDown
	before := c.Items()

	_, err := c.BeginDrag(ids["E"], 10, 0)
	require.NoError(t, err)
	_, err = c.DragOver(ids["D"], 50)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := c.Drop(context.Background())
		done <- err
	}()

	<-rec.entered
	assert.True(t, c.Committing())
	assert.Equal(t, []string{"A", "B", "C", "E", "D", "F"}, titlesOf(c.Items()), "optimistic state is visible")
	assert.Equal(t, []string{"A", "B", "C", "E", "D", "F"}, titlesOf(c.Visible()), "rendered list follows the optimistic state")

	_, err = c.BeginDrag(ids["F"], 10, 0)
	assert.ErrorIs(t, err, domain.ErrCommitInFlight)
	_, err = c.Drop(context.Background())
	assert.ErrorIs(t, err, domain.ErrCommitInFlight)

	close(rec.proceed)
	assert.Error(t, <-done)
	assert.Equal(t, before, c.Items())
	assert.False(t, c.Committing())
}

func TestTreeController_VisibleFollowsOptimisticDrop(t *testing.T) {
	c, rec, ids := newTestController(t)
	rec.entered = make(chan struct{})
	rec.proceed = make(chan struct{})

	_, err := c.BeginDrag(ids["E"], 10, 0)
	require.NoError(t, err)
	_, err = c.DragOver(ids["D"], 50)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := c.Drop(context.Background())
		done <- err
	}()

	<-rec.entered
	assert.Equal(t, treeengine.DragCommitting, c.State())
	visible := c.Visible()
	assert.Equal(t, []string{"A", "B", "C", "E", "D", "F"}, titlesOf(visible))
	assert.Equal(t, 1, visible[3].Depth)

	close(rec.proceed)
	require.NoError(t, <-done)
	assert.Equal(t, []string{"A", "B", "C", "E", "D", "F"}, titlesOf(c.Visible()))
}

func TestTreeController_ToggleCollapse(t *testing.T) {
	ctx := context.Background()

	t.Run("collapses and persists", func(t *testing.T) {
		c, _, ids := newTestController(t)

		collapsed, err := c.ToggleCollapse(ctx, ids["A"])
		require.NoError(t, err)
		assert.True(t, collapsed)
		assert.Equal(t, []string{"A", "E", "F"}, titlesOf(c.Visible()))

		require.NoError(t, c.Load(ctx))
		assert.Equal(t, []string{"A", "E", "F"}, titlesOf(c.Visible()))

		collapsed, err = c.ToggleCollapse(ctx, ids["A"])
		require.NoError(t, err)
		assert.False(t, collapsed)
		assert.Len(t, c.Visible(), 6)
	})

	t.Run("reverts on repository failure", func(t *testing.T) {
		c, rec, ids := newTestController(t)
		rec.toggleErr = errDatabaseDown
		before := c.Items()

		_, err := c.ToggleCollapse(ctx, ids["B"])
		assert.ErrorIs(t, err, errDatabaseDown)
		assert.Equal(t, before, c.Items())
		assert.Len(t, c.Visible(), 6)
		assert.False(t, c.Committing())
	})

	t.Run("documents are rejected", func(t *testing.T) {
		c, _, ids := newTestController(t)
		_, err := c.ToggleCollapse(ctx, ids["E"])
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("unknown id", func(t *testing.T) {
		c, _, _ := newTestController(t)
		_, err := c.ToggleCollapse(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("refused during a drag", func(t *testing.T) {
		c, _, ids := newTestController(t)
		_, err := c.BeginDrag(ids["E"], 10, 0)
		require.NoError(t, err)
		_, err = c.ToggleCollapse(ctx, ids["A"])
		assert.ErrorIs(t, err, treeengine.ErrDragBusy)
	})
}
