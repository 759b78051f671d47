package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"doctree/internal/domain"
	"doctree/internal/httputil"
)

// handleError converts domain errors to HTTP responses. CommitError is
// checked first: it may wrap a not-found from the repository, which is a
// failed commit rather than a bad request.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var (
		commitErr     *domain.CommitError
		structuralErr *domain.StructuralError
		conflictErr   *domain.ConflictError
	)

	switch {
	case errors.As(err, &commitErr):
		httputil.RespondErrorWithExtras(w, http.StatusBadGateway, "reorder could not be saved; the tree was not changed",
			map[string]interface{}{"update_count": commitErr.UpdateCount})
	case errors.As(err, &structuralErr):
		httputil.RespondErrorWithExtras(w, http.StatusUnprocessableEntity, structuralErr.Message,
			map[string]interface{}{"reason": structuralErr.Reason})
	case errors.Is(err, domain.ErrCommitInFlight):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.As(err, &conflictErr):
		httputil.RespondErrorWithExtras(w, http.StatusConflict, conflictErr.Error(),
			map[string]interface{}{"resource_type": conflictErr.ResourceType, "resource_id": conflictErr.ResourceID})
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	default:
		logger.Error("unhandled error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// parseBody decodes the request body, writing the error response itself.
// Returns false when the handler should stop.
func parseBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := httputil.ParseJSON(w, r, dest); err != nil {
		if errors.Is(err, httputil.ErrBodyTooLarge) {
			httputil.RespondError(w, http.StatusRequestEntityTooLarge, err.Error())
			return false
		}
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
