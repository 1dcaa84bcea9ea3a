// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/tiki/internal/domain/execute"
	"github.com/okian/tiki/internal/domain/state"
)

// SimulateDependencies defines the interface for simulation runs.
type SimulateDependencies interface {
	Simulate(ctx context.Context, snap state.Snapshot, maxSteps int, stopOnGoal, stopOnPossessionLoss bool) ([]execute.Step, error)
}

// SimulateHandler handles simulation requests.
type SimulateHandler struct {
	deps SimulateDependencies
}

// NewSimulateHandler creates a new simulate handler.
func NewSimulateHandler(deps SimulateDependencies) *SimulateHandler {
	return &SimulateHandler{deps: deps}
}

// simulateRequest mirrors the POST /simulate body.
type simulateRequest struct {
	Snapshot             snapshotPayload `json:"snapshot"`
	MaxSteps             int             `json:"max_steps,omitempty"`
	StopOnGoal           bool            `json:"stop_on_goal,omitempty"`
	StopOnPossessionLoss bool            `json:"stop_on_possession_loss,omitempty"`
}

// stepPayload mirrors one executed simulation step on the wire.
type stepPayload struct {
	Option     optionPayload   `json:"option"`
	Outcome    string          `json:"outcome"`
	DefenderID string          `json:"defender_id,omitempty"`
	After      snapshotPayload `json:"after"`
}

type simulateResponse struct {
	Steps []stepPayload `json:"steps"`
	Goals int           `json:"goals"`
}

// HandlePostSimulate handles POST /simulate requests.
func (h *SimulateHandler) HandlePostSimulate(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_simulate"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	steps, err := h.deps.Simulate(r.Context(), req.Snapshot.toSnapshot(), req.MaxSteps, req.StopOnGoal, req.StopOnPossessionLoss)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_snapshot", WrapKind(op, ErrBadRequest, err))
		return
	}

	resp := simulateResponse{Steps: make([]stepPayload, len(steps))}
	for i, step := range steps {
		resp.Steps[i] = stepPayload{
			Option:     fromOption(step.Option),
			Outcome:    string(step.Result.Outcome),
			DefenderID: step.Result.DefenderID,
			After:      fromSnapshot(step.Result.After),
		}
		if step.Result.Outcome == execute.OutcomeGoal {
			resp.Goals++
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
