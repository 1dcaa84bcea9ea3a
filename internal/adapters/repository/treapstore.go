// Package repository defines the key-moment ranking store interface and
// errors.
package repository

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/okian/tiki/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: danger DESC, then frameID ASC (deterministic). The BST
// comparator treats "less" as "ranks earlier", so in-order traversal
// produces the moment list from most to least dangerous.

// dangerScale controls fixed-point scaling from float64. Expected values
// live in a narrow band around zero, so nine decimal places keep ties
// exact without overflow risk.
const dangerScale = 1_000_000_000

type dangerFP int64

func toFixedPoint(x float64) dangerFP {
	if math.IsNaN(x) {
		return 0
	}
	if math.IsInf(x, 1) {
		return dangerFP(math.MaxInt64)
	}
	if math.IsInf(x, -1) {
		return dangerFP(math.MinInt64)
	}
	scaled := x * dangerScale
	if scaled > float64(math.MaxInt64) {
		return dangerFP(math.MaxInt64)
	}
	if scaled < float64(math.MinInt64) {
		return dangerFP(math.MinInt64)
	}
	return dangerFP(math.Round(scaled))
}

func toFloat(x dangerFP) float64 {
	return float64(x) / dangerScale
}

// record stores the fixed-point danger plus metadata for a frame's best.
type record struct {
	danger      dangerFP
	timestamp   float64
	action      string
	optionCount int
}

// treap node
type node struct {
	id     string
	danger dangerFP
	prio   uint64
	left   *node
	right  *node
	size   int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aDanger, aID) should appear before (bDanger, bID)
// in the ranking (more dangerous first).
func less(aDanger dangerFP, aID string, bDanger dangerFP, bID string) bool {
	if aDanger != bDanger {
		return aDanger > bDanger
	}
	return aID < bID
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

// dangerToPriority converts a rating to a treap priority. Higher ratings
// get higher priorities to keep the hottest moments near the root.
func dangerToPriority(danger dangerFP) uint64 {
	const offset = uint64(1) << 63
	return uint64(danger) + offset
}

func insert(n *node, id string, danger dangerFP) *node {
	if n == nil {
		return &node{id: id, danger: danger, prio: dangerToPriority(danger), size: 1}
	}
	if less(danger, id, n.danger, n.id) {
		n.left = insert(n.left, id, danger)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, danger)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, id string, danger dangerFP) *node {
	if n == nil {
		return nil
	}
	if danger == n.danger && id == n.id {
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, danger)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, danger)
		}
	} else if less(danger, id, n.danger, n.id) {
		n.left = deleteNode(n.left, id, danger)
	} else {
		n.right = deleteNode(n.right, id, danger)
	}
	fix(n)
	return n
}

// collectTopN appends up to limit moments in rank order.
func collectTopN(n *node, limit int, records map[string]record, out *[]Moment) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, records, out)
	if len(*out) < limit {
		if rec, exists := records[n.id]; exists {
			*out = append(*out, momentFromRecord(n.id, rec))
		}
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, records, out)
	}
}

// rankOf returns the 1-based in-order position of (danger, id), or 0 when
// absent. The size-augmented treap answers this in O(log n).
func rankOf(n *node, id string, danger dangerFP) int {
	rank := 1
	for n != nil {
		if danger == n.danger && id == n.id {
			return rank + nsize(n.left)
		}
		if less(danger, id, n.danger, n.id) {
			n = n.left
		} else {
			rank += nsize(n.left) + 1
			n = n.right
		}
	}
	return 0
}

func momentFromRecord(id string, rec record) Moment {
	return Moment{
		FrameID:     id,
		Danger:      toFloat(rec.danger),
		Timestamp:   rec.timestamp,
		Action:      rec.action,
		OptionCount: rec.optionCount,
	}
}

// TreapStore is the in-memory Store implementation.
type TreapStore struct {
	mu   sync.RWMutex
	root *node
	byID map[string]record

	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopChan chan struct{}
}

// NewTreapStore constructs a treap store with configuration options.
func NewTreapStore(ctx context.Context, opts ...Option) *TreapStore {
	s := &TreapStore{
		byID:                  make(map[string]record),
		metricsUpdateInterval: 5 * time.Second,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.stopChan = make(chan struct{})
	s.startMetricsUpdater(ctx)

	return s
}

// Close gracefully shuts down the background metrics goroutine.
func (s *TreapStore) Close() error {
	select {
	case <-s.stopChan:
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}

// RecordMoment implements Store.RecordMoment with O(log n) expected time.
func (s *TreapStore) RecordMoment(ctx context.Context, frameID string, danger, timestamp float64, action string, optionCount int) (bool, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	nd := toFixedPoint(danger)

	isNewFrame := false

	s.mu.Lock()
	if old, ok := s.byID[frameID]; ok {
		if nd <= old.danger { // not an improvement
			s.mu.Unlock()
			return false, nil
		}
		s.root = deleteNode(s.root, frameID, old.danger)
	} else {
		isNewFrame = true
	}
	s.byID[frameID] = record{danger: nd, timestamp: timestamp, action: action, optionCount: optionCount}
	s.root = insert(s.root, frameID, nd)
	s.mu.Unlock()

	if isNewFrame {
		metrics.UpdateMomentsTracked(s.Count(ctx))
	}

	return true, nil
}

// Rank returns the current rank and rating for a frame in O(log n).
func (s *TreapStore) Rank(ctx context.Context, frameID string) (Moment, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[frameID]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Moment{}, ErrNotFound
	}

	m := momentFromRecord(frameID, rec)
	m.Rank = rankOf(s.root, frameID, rec.danger)
	return m, nil
}

// TopN returns the top N moments ordered by danger desc.
func (s *TreapStore) TopN(ctx context.Context, n int) ([]Moment, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Moment, 0, n)
	collectTopN(s.root, n, s.byID, &out)

	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

// Count returns the total number of frames tracked.
func (s *TreapStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// startMetricsUpdater starts a background goroutine that refreshes the
// tracked-moments gauge.
func (s *TreapStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.mu.RLock()
				count := len(s.byID)
				s.mu.RUnlock()
				metrics.UpdateMomentsTracked(count)
			}
		}
	}()
}
