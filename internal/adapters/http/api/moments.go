// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/tiki/internal/adapters/repository"
)

// MomentDependencies defines the interface for moment ranking reads.
type MomentDependencies interface {
	TopMoments(ctx context.Context, n int) ([]repository.Moment, error)
	MomentRank(ctx context.Context, frameID string) (repository.Moment, error)
	MaxMomentsLimit() int
}

// MomentsHandler handles key-moment queries.
type MomentsHandler struct {
	deps MomentDependencies
}

// NewMomentsHandler creates a new moments handler.
func NewMomentsHandler(deps MomentDependencies) *MomentsHandler {
	return &MomentsHandler{deps: deps}
}

// HandleGetMoments handles GET /moments?limit=N requests.
func (h *MomentsHandler) HandleGetMoments(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_moments"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	limitStr := r.URL.Query().Get("limit")
	n, err := strconv.Atoi(limitStr)
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if n > h.deps.MaxMomentsLimit() {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}
	moments, err := h.deps.TopMoments(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	out := make([]momentPayload, len(moments))
	for i, m := range moments {
		out[i] = fromMoment(m)
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGetMomentRank handles GET /moments/{frame_id} requests.
func (h *MomentsHandler) HandleGetMomentRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_moment_rank"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/moments/")
	if path == "" || strings.Contains(path, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	moment, err := h.deps.MomentRank(r.Context(), path)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, fromMoment(moment))
}
