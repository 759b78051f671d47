package handler

import "net/http"

// NewRouter registers every route on a new ServeMux (Go 1.22+ patterns)
func NewRouter(tree *TreeHandler, nodes *NodeHandler, health *HealthHandler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", health.HealthCheck)

	// Tree reads and drag-and-drop
	mux.HandleFunc("GET /api/tree/settings", tree.GetDragSettings)
	mux.HandleFunc("GET /api/projects/{id}/tree", tree.GetTree)
	mux.HandleFunc("GET /api/projects/{id}/tree/visible", tree.GetVisible)
	mux.HandleFunc("POST /api/projects/{id}/tree/projection", tree.Project)
	mux.HandleFunc("POST /api/projects/{id}/tree/move", tree.Move)

	// Node lifecycle
	mux.HandleFunc("POST /api/projects/{id}/nodes", nodes.CreateNode)
	mux.HandleFunc("PATCH /api/projects/{id}/nodes/{nodeId}", nodes.UpdateNode)
	mux.HandleFunc("DELETE /api/projects/{id}/nodes/{nodeId}", nodes.DeleteNode)
	mux.HandleFunc("POST /api/projects/{id}/nodes/{nodeId}/collapse", nodes.ToggleCollapse)
	mux.HandleFunc("GET /api/projects/{id}/nodes/{nodeId}/child-count", tree.ChildCount)

	return mux
}
