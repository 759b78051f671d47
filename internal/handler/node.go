package handler

import (
	"log/slog"
	"net/http"

	docsvc "doctree/internal/domain/services/doctree"
	"doctree/internal/httputil"
)

// NodeHandler handles node lifecycle requests
type NodeHandler struct {
	nodeService docsvc.NodeService
	logger      *slog.Logger
}

// NewNodeHandler creates a new node handler
func NewNodeHandler(nodeService docsvc.NodeService, logger *slog.Logger) *NodeHandler {
	return &NodeHandler{
		nodeService: nodeService,
		logger:      logger,
	}
}

// CreateNode creates a folder or document
// POST /api/projects/{id}/nodes
func (h *NodeHandler) CreateNode(w http.ResponseWriter, r *http.Request) {
	var req docsvc.CreateNodeRequest
	if !parseBody(w, r, &req) {
		return
	}
	req.ProjectID = r.PathValue("id")

	item, err := h.nodeService.CreateNode(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, item)
}

// updateNodeBody is the PATCH body; title is the only mutable field
type updateNodeBody struct {
	Title httputil.OptionalString `json:"title"`
}

// UpdateNode renames a node
// PATCH /api/projects/{id}/nodes/{nodeId}
func (h *NodeHandler) UpdateNode(w http.ResponseWriter, r *http.Request) {
	var body updateNodeBody
	if !parseBody(w, r, &body) {
		return
	}
	if !body.Title.IsSet() {
		httputil.RespondError(w, http.StatusBadRequest, "title is required")
		return
	}

	item, err := h.nodeService.RenameNode(r.Context(), &docsvc.RenameNodeRequest{
		ProjectID: r.PathValue("id"),
		NodeID:    r.PathValue("nodeId"),
		Title:     *body.Title.Value,
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, item)
}

// ToggleCollapse flips a folder's collapsed flag
// POST /api/projects/{id}/nodes/{nodeId}/collapse
func (h *NodeHandler) ToggleCollapse(w http.ResponseWriter, r *http.Request) {
	nodeID := r.PathValue("nodeId")
	collapsed, err := h.nodeService.ToggleCollapse(r.Context(), r.PathValue("id"), nodeID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"id":        nodeID,
		"collapsed": collapsed,
	})
}

// DeleteNode removes a node and its subtree
// DELETE /api/projects/{id}/nodes/{nodeId}
func (h *NodeHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	nodeID := r.PathValue("nodeId")
	removed, err := h.nodeService.DeleteNode(r.Context(), r.PathValue("id"), nodeID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"id":      nodeID,
		"removed": removed,
	})
}
