// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/okian/tiki/internal/domain/state"
)

// FrameDependencies defines the interface for frame ingestion.
type FrameDependencies interface {
	EnqueueFrame(ctx context.Context, frame state.Frame) bool
}

// FramesHandler handles frame ingestion requests.
type FramesHandler struct {
	deps FrameDependencies
}

// NewFramesHandler creates a new frames handler.
func NewFramesHandler(deps FrameDependencies) *FramesHandler {
	return &FramesHandler{deps: deps}
}

// frameRequest mirrors the POST /frames body. A missing frame_id gets a
// generated one, returned in the ack.
type frameRequest struct {
	FrameID  string          `json:"frame_id,omitempty"`
	Snapshot snapshotPayload `json:"snapshot"`
}

// HandlePostFrame handles POST /frames requests.
func (h *FramesHandler) HandlePostFrame(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_frame"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req frameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	frameID := req.FrameID
	if frameID == "" {
		frameID = uuid.NewString()
	}

	frame := state.Frame{ID: frameID, Snapshot: req.Snapshot.toSnapshot()}
	if ok := h.deps.EnqueueFrame(r.Context(), frame); !ok {
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", FrameID: frameID})
}
