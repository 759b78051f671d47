package treeengine

import (
	"errors"
	"fmt"
	"time"

	"doctree/internal/domain"
	models "doctree/internal/domain/models/doctree"
)

// DragState is the phase of a drag gesture
type DragState int

const (
	DragIdle DragState = iota
	DragDragging
	DragProjecting
	DragCommitting
	DragCancelled
)

func (s DragState) String() string {
	switch s {
	case DragIdle:
		return "idle"
	case DragDragging:
		return "dragging"
	case DragProjecting:
		return "projecting"
	case DragCommitting:
		return "committing"
	case DragCancelled:
		return "cancelled"
	}
	return fmt.Sprintf("DragState(%d)", int(s))
}

var (
	// ErrDragNotActive is returned by operations that need a drag in progress
	ErrDragNotActive = errors.New("no drag in progress")

	// ErrDragBusy is returned when a drag starts before the previous one settled
	ErrDragBusy = errors.New("previous drag has not settled")
)

// DragOptions configures a DragSession
type DragOptions struct {
	IndentationWidth float64
	MaxDepth         int

	// A drag activates once the pointer moved ActivationDistance pixels or was
	// held for ActivationDelay, whichever comes first. Zero disables that rule.
	ActivationDistance float64
	ActivationDelay    time.Duration
}

// DragSession is the state machine for one drag gesture over a fixed
// snapshot:
//
//	Idle -> Dragging -> Projecting -> Committing | Cancelled
//
// It performs no I/O. Committing hands back the reorder result; the caller
// persists it and calls Settle.
type DragSession struct {
	items []models.FlatItem
	opts  DragOptions

	state      DragState
	activeID   string
	overID     string
	offsetX    float64
	projection models.Projection
	height     int
}

// NewDragSession starts an idle session over a full flat snapshot
func NewDragSession(items []models.FlatItem, opts DragOptions) *DragSession {
	return &DragSession{items: cloneItems(items), opts: opts}
}

// State returns the current phase
func (s *DragSession) State() DragState { return s.state }

// ActiveID returns the dragged item's ID, or "" when idle
func (s *DragSession) ActiveID() string { return s.activeID }

// Projection returns the latest projection
func (s *DragSession) Projection() models.Projection { return s.projection }

// Activate enters Dragging when the pointer has travelled far enough or been
// held long enough. It reports whether the drag is now active.
func (s *DragSession) Activate(activeID string, distance float64, held time.Duration) (bool, error) {
	switch s.state {
	case DragCommitting:
		return false, ErrDragBusy
	case DragDragging, DragProjecting:
		return true, nil
	}
	if indexOf(s.items, activeID) < 0 {
		return false, &domain.NotFoundError{Message: "node " + activeID + " not found"}
	}
	if !s.pastThreshold(distance, held) {
		return false, nil
	}

	s.state = DragDragging
	s.activeID = activeID
	s.overID = ""
	s.offsetX = 0
	s.height = SubtreeHeight(s.items, activeID)
	s.projection = models.Projection{}
	return true, nil
}

func (s *DragSession) pastThreshold(distance float64, held time.Duration) bool {
	if s.opts.ActivationDistance <= 0 && s.opts.ActivationDelay <= 0 {
		return true
	}
	if s.opts.ActivationDistance > 0 && distance >= s.opts.ActivationDistance {
		return true
	}
	return s.opts.ActivationDelay > 0 && held >= s.opts.ActivationDelay
}

// Rendered is the visible list for the current phase: collapsed subtrees and
// the dragged item's descendants are hidden.
func (s *DragSession) Rendered() []models.FlatItem {
	if s.state == DragDragging || s.state == DragProjecting {
		return VisibleItems(s.items, s.activeID)
	}
	return VisibleItems(s.items, "")
}

// Move records the hovered item and pointer offset and recomputes the
// projection. Only the latest call matters.
func (s *DragSession) Move(overID string, offsetX float64) (models.Projection, error) {
	if s.state != DragDragging && s.state != DragProjecting {
		return models.Projection{}, ErrDragNotActive
	}
	s.overID = overID
	s.offsetX = offsetX
	s.projection = GetProjection(s.Rendered(), s.activeID, overID, offsetX, ProjectionOptions{
		IndentationWidth: s.opts.IndentationWidth,
		MaxDepth:         s.opts.MaxDepth,
		SubtreeHeight:    s.height,
	})
	s.state = DragProjecting
	return s.projection, nil
}

// Cancel abandons the gesture. Nothing is written.
func (s *DragSession) Cancel() {
	if s.state == DragCommitting {
		return
	}
	s.state = DragCancelled
}

// Drop ends the gesture. Without a valid projection the session is cancelled
// and a no-op result returned. A structural rejection also cancels and
// returns the error. Otherwise the session enters Committing and the reorder
// result is returned for the caller to persist.
func (s *DragSession) Drop() (*ReorderResult, error) {
	if s.state != DragProjecting || !s.projection.Valid {
		if s.state == DragCommitting {
			return nil, ErrDragBusy
		}
		s.state = DragCancelled
		return noOp(s.items), nil
	}

	result, err := Reorder(s.items, s.activeID, s.overID, s.projection.ParentID, s.projection.Depth,
		ReorderOptions{MaxDepth: s.opts.MaxDepth})
	if err != nil {
		s.state = DragCancelled
		return nil, err
	}
	if result.NoOp {
		s.state = DragCancelled
		return result, nil
	}

	s.state = DragCommitting
	return result, nil
}

// Settle finishes a commit (or clears a cancelled gesture) and returns the
// session to Idle over the given snapshot.
func (s *DragSession) Settle(items []models.FlatItem) {
	s.items = cloneItems(items)
	s.state = DragIdle
	s.activeID = ""
	s.overID = ""
	s.offsetX = 0
	s.height = 0
	s.projection = models.Projection{}
}
