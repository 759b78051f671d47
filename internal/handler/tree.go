package handler

import (
	"log/slog"
	"net/http"

	docsvc "doctree/internal/domain/services/doctree"
	"doctree/internal/httputil"
	"doctree/internal/treeengine"
)

// TreeHandler handles HTTP requests for tree reads and drag-and-drop
type TreeHandler struct {
	treeService docsvc.TreeService
	drag        treeengine.DragOptions
	logger      *slog.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(treeService docsvc.TreeService, drag treeengine.DragOptions, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{
		treeService: treeService,
		drag:        drag,
		logger:      logger,
	}
}

// DragSettingsResponse carries the gesture parameters a client needs to
// project drops the same way the server does
type DragSettingsResponse struct {
	IndentationWidth   float64 `json:"indentation_width"`
	MaxDepth           int     `json:"max_depth"`
	ActivationDistance float64 `json:"activation_distance"`
	ActivationDelayMs  int64   `json:"activation_delay_ms"`
}

// GetDragSettings returns the configured drag parameters
// GET /api/tree/settings
func (h *TreeHandler) GetDragSettings(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, DragSettingsResponse{
		IndentationWidth:   h.drag.IndentationWidth,
		MaxDepth:           h.drag.MaxDepth,
		ActivationDistance: h.drag.ActivationDistance,
		ActivationDelayMs:  h.drag.ActivationDelay.Milliseconds(),
	})
}

// GetTree returns the nested, flat and visible forms of a project tree
// GET /api/projects/{id}/tree
func (h *TreeHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.treeService.GetTree(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, snapshot)
}

// GetVisible returns the rendered list, hiding the active item's descendants
// GET /api/projects/{id}/tree/visible?active=<nodeId>
func (h *TreeHandler) GetVisible(w http.ResponseWriter, r *http.Request) {
	items, err := h.treeService.VisibleItems(r.Context(), r.PathValue("id"), r.URL.Query().Get("active"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, items)
}

// Project computes a drop projection without changing anything
// POST /api/projects/{id}/tree/projection
func (h *TreeHandler) Project(w http.ResponseWriter, r *http.Request) {
	var req docsvc.ProjectionRequest
	if !parseBody(w, r, &req) {
		return
	}
	req.ProjectID = r.PathValue("id")

	projection, err := h.treeService.Project(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, projection)
}

// Move persists a drop. No-op moves return 200 with no_op=true.
// POST /api/projects/{id}/tree/move
func (h *TreeHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req docsvc.MoveRequest
	if !parseBody(w, r, &req) {
		return
	}
	req.ProjectID = r.PathValue("id")

	result, err := h.treeService.Move(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// ChildCount returns the number of descendants of a node
// GET /api/projects/{id}/nodes/{nodeId}/child-count
func (h *TreeHandler) ChildCount(w http.ResponseWriter, r *http.Request) {
	nodeID := r.PathValue("nodeId")
	count, err := h.treeService.ChildCount(r.Context(), r.PathValue("id"), nodeID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"id":          nodeID,
		"child_count": count,
	})
}
