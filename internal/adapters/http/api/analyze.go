// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/tiki/internal/domain/engine"
	"github.com/okian/tiki/internal/domain/state"
)

// AnalyzeDependencies defines the interface for synchronous analysis.
type AnalyzeDependencies interface {
	Analyze(ctx context.Context, snap state.Snapshot) (engine.Analysis, error)
}

// AnalyzeHandler handles analysis requests.
type AnalyzeHandler struct {
	deps AnalyzeDependencies
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(deps AnalyzeDependencies) *AnalyzeHandler {
	return &AnalyzeHandler{deps: deps}
}

// HandlePostAnalyze handles POST /analyze requests.
func (h *AnalyzeHandler) HandlePostAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_analyze"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req snapshotPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	snap := req.toSnapshot()
	analysis, err := h.deps.Analyze(r.Context(), snap)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_snapshot", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, fromAnalysis(analysis))
}
