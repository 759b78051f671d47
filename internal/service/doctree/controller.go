package doctree

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"doctree/internal/domain"
	models "doctree/internal/domain/models/doctree"
	"doctree/internal/domain/repositories"
	docrepo "doctree/internal/domain/repositories/doctree"
	docsvc "doctree/internal/domain/services/doctree"
	"doctree/internal/treeengine"
)

// TreeController owns the authoritative snapshot of one project tree and
// drives drag gestures over it. A drop is applied optimistically; if the
// repository rejects the batch the snapshot reverts to its pre-drop state.
// No new drag may start while a batch is in flight.
type TreeController struct {
	projectID string
	nodeRepo  docrepo.NodeRepository
	lock      repositories.CommitLock
	opts      treeengine.DragOptions
	logger    *slog.Logger

	mu       sync.Mutex
	items    []models.FlatItem
	session  *treeengine.DragSession
	inFlight bool
}

// NewTreeController creates a controller for projectID. Call Load before use.
func NewTreeController(
	projectID string,
	nodeRepo docrepo.NodeRepository,
	lock repositories.CommitLock,
	opts treeengine.DragOptions,
	logger *slog.Logger,
) *TreeController {
	return &TreeController{
		projectID: projectID,
		nodeRepo:  nodeRepo,
		lock:      lock,
		opts:      opts,
		logger:    logger.With("project_id", projectID),
		session:   treeengine.NewDragSession(nil, opts),
	}
}

// Load replaces the snapshot with the repository's current state
func (c *TreeController) Load(ctx context.Context) error {
	_, items, err := loadTree(ctx, c.nodeRepo, c.projectID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight {
		return domain.ErrCommitInFlight
	}
	c.items = items
	c.session.Settle(items)
	return nil
}

// Items returns a copy of the authoritative flat list
func (c *TreeController) Items() []models.FlatItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.FlatItem(nil), c.items...)
}

// Visible returns the rendered list for the current drag phase. While a
// batch is in flight it reflects the optimistic snapshot.
func (c *TreeController) Visible() []models.FlatItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return treeengine.VisibleItems(c.items, "")
	}
	return c.session.Rendered()
}

// State returns the drag phase
func (c *TreeController) State() treeengine.DragState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.State()
}

// Committing reports whether a batch is in flight
func (c *TreeController) Committing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// BeginDrag activates a drag on activeID once the pointer passed the
// activation threshold
func (c *TreeController) BeginDrag(activeID string, distance float64, held time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight {
		return false, domain.ErrCommitInFlight
	}
	active, err := c.session.Activate(activeID, distance, held)
	if errors.Is(err, treeengine.ErrDragBusy) {
		return false, domain.ErrCommitInFlight
	}
	return active, err
}

// DragOver updates the hovered item and offset and returns the projection
func (c *TreeController) DragOver(overID string, offsetX float64) (models.Projection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Move(overID, offsetX)
}

// CancelDrag abandons the gesture without touching the repository
func (c *TreeController) CancelDrag() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight {
		return
	}
	c.session.Cancel()
	c.session.Settle(c.items)
}

// Drop finishes the gesture. Invalid or no-op drops return a NoOp result.
// Otherwise the reorder is applied to the snapshot immediately and persisted
// as one batch; on failure the snapshot reverts and a *domain.CommitError is
// returned.
func (c *TreeController) Drop(ctx context.Context) (*docsvc.MoveResult, error) {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return nil, domain.ErrCommitInFlight
	}

	activeID := c.session.ActiveID()
	result, err := c.session.Drop()
	if err != nil {
		if !errors.Is(err, treeengine.ErrDragBusy) {
			c.session.Settle(c.items)
		}
		c.mu.Unlock()
		return nil, err
	}
	if result.NoOp {
		c.session.Settle(c.items)
		c.mu.Unlock()
		return &docsvc.MoveResult{Items: result.Items, Updates: result.Updates, NoOp: true}, nil
	}

	previous := c.items
	c.items = result.Items
	c.inFlight = true
	c.mu.Unlock()

	commitErr := c.commit(ctx, result.Updates)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false

	if commitErr != nil {
		c.items = previous
		c.session.Settle(previous)
		c.logger.Error("drop reverted",
			"node_id", activeID,
			"update_count", len(result.Updates),
			"error", commitErr,
		)
		return nil, &domain.CommitError{ProjectID: c.projectID, UpdateCount: len(result.Updates), Err: commitErr}
	}

	c.session.Settle(c.items)
	c.logger.Info("drop committed", "node_id", activeID, "update_count", len(result.Updates))
	return &docsvc.MoveResult{Items: result.Items, Updates: result.Updates}, nil
}

// ToggleCollapse flips a folder's collapsed flag in the snapshot and persists
// it. The snapshot reverts if the repository rejects the change.
func (c *TreeController) ToggleCollapse(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return false, domain.ErrCommitInFlight
	}
	if state := c.session.State(); state == treeengine.DragDragging || state == treeengine.DragProjecting {
		c.mu.Unlock()
		return false, treeengine.ErrDragBusy
	}
	item, ok := findItem(c.items, id)
	if !ok {
		c.mu.Unlock()
		return false, &domain.NotFoundError{Message: fmt.Sprintf("node %s not found", id)}
	}
	if !item.IsFolder() {
		c.mu.Unlock()
		return false, &domain.ValidationError{Message: "only folders can be collapsed"}
	}

	collapsed := treeengine.CollapsedIDs(c.items)
	now := collapsed.Toggle(id)
	previous := c.items
	c.items = collapsed.Apply(c.items)
	c.session.Settle(c.items)
	c.inFlight = true
	c.mu.Unlock()

	err := c.nodeRepo.ToggleCollapse(ctx, c.projectID, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false

	if err != nil {
		c.items = previous
		c.session.Settle(previous)
		c.logger.Error("collapse reverted", "node_id", id, "error", err)
		return !now, fmt.Errorf("toggle collapse: %w", err)
	}
	return now, nil
}

func (c *TreeController) commit(ctx context.Context, updates []models.PositionUpdate) error {
	release, err := c.lock.Acquire(ctx, c.projectID)
	if err != nil {
		return err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			c.logger.Warn("commit lock release failed", "error", err)
		}
	}()

	if err := c.nodeRepo.BatchUpdatePositions(ctx, c.projectID, updates); err != nil {
		return fmt.Errorf("persist positions: %w", err)
	}
	return nil
}
