// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/tiki/internal/adapters/repository"
	"github.com/okian/tiki/internal/domain/engine"
	"github.com/okian/tiki/internal/domain/execute"
	"github.com/okian/tiki/internal/domain/pitch"
	"github.com/okian/tiki/internal/domain/state"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Analyze runs the decision engine over one snapshot synchronously.
	Analyze(ctx context.Context, snap state.Snapshot) (engine.Analysis, error)

	// Simulate runs the evaluate-decide-execute loop.
	Simulate(ctx context.Context, snap state.Snapshot, maxSteps int, stopOnGoal, stopOnPossessionLoss bool) ([]execute.Step, error)

	// EnqueueFrame pushes a frame for async analysis. Returns false on
	// backpressure.
	EnqueueFrame(ctx context.Context, frame state.Frame) bool

	// Read operations expose the key-moment ranking.
	TopMoments(ctx context.Context, n int) ([]repository.Moment, error)
	MomentRank(ctx context.Context, frameID string) (repository.Moment, error)
	MaxMomentsLimit() int
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	analyzeHandler  *AnalyzeHandler
	simulateHandler *SimulateHandler
	framesHandler   *FramesHandler
	momentsHandler  *MomentsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		analyzeHandler:  NewAnalyzeHandler(deps),
		simulateHandler: NewSimulateHandler(deps),
		framesHandler:   NewFramesHandler(deps),
		momentsHandler:  NewMomentsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/analyze", MetricsMiddleware(s.analyzeHandler.HandlePostAnalyze, "analyze"))
	mux.HandleFunc("/simulate", MetricsMiddleware(s.simulateHandler.HandlePostSimulate, "simulate"))
	mux.HandleFunc("/frames", MetricsMiddleware(s.framesHandler.HandlePostFrame, "frames"))
	mux.HandleFunc("/moments", MetricsMiddleware(s.momentsHandler.HandleGetMoments, "moments"))
	mux.HandleFunc("/moments/", MetricsMiddleware(s.momentsHandler.HandleGetMomentRank, "moment_rank"))
}

// pointPayload mirrors a pitch location on the wire.
type pointPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func toPoint(p pointPayload) pitch.Point   { return pitch.Point{X: p.X, Y: p.Y} }
func fromPoint(p pitch.Point) pointPayload { return pointPayload{X: p.X, Y: p.Y} }

// actorPayload mirrors one player on the wire. Zero top_speed and
// reaction_time fall back to the engine defaults; facing is optional.
type actorPayload struct {
	ID           string   `json:"id"`
	X            float64  `json:"x"`
	Y            float64  `json:"y"`
	VX           float64  `json:"vx,omitempty"`
	VY           float64  `json:"vy,omitempty"`
	TopSpeed     float64  `json:"top_speed,omitempty"`
	ReactionTime float64  `json:"reaction_time,omitempty"`
	Facing       *float64 `json:"facing,omitempty"`
	Goalkeeper   bool     `json:"goalkeeper,omitempty"`
}

func (a actorPayload) toActor() state.Actor {
	actor := state.NewActor(a.ID, pitch.Point{X: a.X, Y: a.Y})
	actor.Velocity = pitch.Vector{X: a.VX, Y: a.VY}
	if a.TopSpeed > 0 {
		actor.TopSpeed = a.TopSpeed
	}
	if a.ReactionTime > 0 {
		actor.ReactionTime = a.ReactionTime
	}
	if a.Facing != nil {
		actor.Facing = *a.Facing
		actor.HasFacing = true
	}
	actor.Goalkeeper = a.Goalkeeper
	return actor
}

func fromActor(a state.Actor) actorPayload {
	p := actorPayload{
		ID:           a.ID,
		X:            a.Position.X,
		Y:            a.Position.Y,
		VX:           a.Velocity.X,
		VY:           a.Velocity.Y,
		TopSpeed:     a.TopSpeed,
		ReactionTime: a.ReactionTime,
		Goalkeeper:   a.Goalkeeper,
	}
	if a.HasFacing {
		facing := a.Facing
		p.Facing = &facing
	}
	return p
}

// snapshotPayload mirrors one positional snapshot on the wire.
type snapshotPayload struct {
	Timestamp float64        `json:"timestamp"`
	Ball      ballPayload    `json:"ball"`
	Attackers []actorPayload `json:"attackers"`
	Defenders []actorPayload `json:"defenders"`
}

type ballPayload struct {
	Position  pointPayload `json:"position"`
	CarrierID string       `json:"carrier_id,omitempty"`
}

func (s snapshotPayload) toSnapshot() state.Snapshot {
	snap := state.Snapshot{
		Ball: state.Ball{
			Position:  toPoint(s.Ball.Position),
			CarrierID: s.Ball.CarrierID,
		},
		Timestamp: s.Timestamp,
		Attackers: make([]state.Actor, len(s.Attackers)),
		Defenders: make([]state.Actor, len(s.Defenders)),
	}
	for i, a := range s.Attackers {
		snap.Attackers[i] = a.toActor()
	}
	for i, d := range s.Defenders {
		snap.Defenders[i] = d.toActor()
	}
	return snap
}

func fromSnapshot(snap state.Snapshot) snapshotPayload {
	out := snapshotPayload{
		Timestamp: snap.Timestamp,
		Ball: ballPayload{
			Position:  fromPoint(snap.Ball.Position),
			CarrierID: snap.Ball.CarrierID,
		},
		Attackers: make([]actorPayload, len(snap.Attackers)),
		Defenders: make([]actorPayload, len(snap.Defenders)),
	}
	for i, a := range snap.Attackers {
		out.Attackers[i] = fromActor(a)
	}
	for i, d := range snap.Defenders {
		out.Defenders[i] = fromActor(d)
	}
	return out
}

// gapPayload mirrors one detected gap on the wire.
type gapPayload struct {
	Location    pointPayload `json:"location"`
	Size        float64      `json:"size"`
	TimeToClose float64      `json:"time_to_close"`
	DefenderA   string       `json:"defender_a,omitempty"`
	DefenderB   string       `json:"defender_b,omitempty"`
	Exploitable bool         `json:"exploitable"`
	ZoneValue   float64      `json:"zone_value"`
}

// receptionPayload mirrors reception conditions for a pass option.
type receptionPayload struct {
	Difficulty float64 `json:"difficulty"`
	Pressure   float64 `json:"pressure"`
	FacesGoal  bool    `json:"faces_goal"`
}

// optionPayload mirrors one progression option on the wire.
type optionPayload struct {
	Kind                    string            `json:"kind"`
	TargetID                string            `json:"target_id,omitempty"`
	Target                  pointPayload      `json:"target"`
	SuccessProbability      float64           `json:"success_probability"`
	InterceptionProbability float64           `json:"interception_probability"`
	ZoneValueOrigin         float64           `json:"zone_value_origin"`
	ZoneValueTarget         float64           `json:"zone_value_target"`
	ZoneGain                float64           `json:"zone_gain"`
	TurnoverCost            float64           `json:"turnover_cost"`
	ExpectedValue           float64           `json:"expected_value"`
	Recommendation          string            `json:"recommendation"`
	Reception               *receptionPayload `json:"reception,omitempty"`
}

func fromOption(o engine.ProgressionOption) optionPayload {
	p := optionPayload{
		Kind:                    string(o.Kind),
		TargetID:                o.TargetID,
		Target:                  fromPoint(o.Target),
		SuccessProbability:      o.SuccessProbability,
		InterceptionProbability: o.InterceptionProbability,
		ZoneValueOrigin:         o.ZoneValueOrigin,
		ZoneValueTarget:         o.ZoneValueTarget,
		ZoneGain:                o.ZoneGain,
		TurnoverCost:            o.TurnoverCost,
		ExpectedValue:           o.ExpectedValue,
		Recommendation:          string(o.Recommendation),
	}
	if o.Reception != nil {
		p.Reception = &receptionPayload{
			Difficulty: o.Reception.Difficulty,
			Pressure:   o.Reception.Pressure,
			FacesGoal:  o.Reception.FacesGoal,
		}
	}
	return p
}

// analysisPayload mirrors the full engine output on the wire.
type analysisPayload struct {
	Timestamp        float64         `json:"timestamp"`
	BallPosition     pointPayload    `json:"ball_position"`
	CarrierID        string          `json:"carrier_id,omitempty"`
	Pressure         float64         `json:"pressure"`
	Gaps             []gapPayload    `json:"gaps"`
	Options          []optionPayload `json:"options"`
	Best             *optionPayload  `json:"best,omitempty"`
	TotalOptions     int             `json:"total_options"`
	HighValueOptions int             `json:"high_value_options"`
	SafeOptions      int             `json:"safe_options"`
	Summary          string          `json:"summary"`
}

func fromAnalysis(a engine.Analysis) analysisPayload {
	p := analysisPayload{
		Timestamp:        a.Timestamp,
		BallPosition:     fromPoint(a.BallPosition),
		CarrierID:        a.CarrierID,
		Pressure:         a.Pressure,
		Gaps:             make([]gapPayload, len(a.Gaps)),
		Options:          make([]optionPayload, len(a.Options)),
		TotalOptions:     a.TotalOptions,
		HighValueOptions: a.HighValueOptions,
		SafeOptions:      a.SafeOptions,
		Summary:          a.Summary(),
	}
	for i, g := range a.Gaps {
		p.Gaps[i] = gapPayload{
			Location:    fromPoint(g.Location),
			Size:        g.Size,
			TimeToClose: g.TimeToClose,
			DefenderA:   g.DefenderA,
			DefenderB:   g.DefenderB,
			Exploitable: g.Exploitable,
			ZoneValue:   g.ZoneValue,
		}
	}
	for i, o := range a.Options {
		p.Options[i] = fromOption(o)
	}
	if a.Best != nil {
		best := fromOption(*a.Best)
		p.Best = &best
	}
	return p
}

// momentPayload mirrors one ranked key moment on the wire.
type momentPayload struct {
	Rank        int     `json:"rank"`
	FrameID     string  `json:"frame_id"`
	Danger      float64 `json:"danger"`
	Timestamp   float64 `json:"timestamp"`
	Action      string  `json:"action"`
	OptionCount int     `json:"option_count"`
}

func fromMoment(m repository.Moment) momentPayload {
	return momentPayload{
		Rank:        m.Rank,
		FrameID:     m.FrameID,
		Danger:      m.Danger,
		Timestamp:   m.Timestamp,
		Action:      m.Action,
		OptionCount: m.OptionCount,
	}
}

type ackResponse struct {
	Status  string `json:"status"`
	FrameID string `json:"frame_id"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound translates upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
