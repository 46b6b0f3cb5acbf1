package dedup

import (
	"sync"
	"time"
)

// HistoryStore looks up whether a learner has already been served content
// with a given fingerprint.
type HistoryStore interface {
	HasFingerprintSince(learnerID, fingerprint string, since time.Time) (bool, error)
}

// HistoryGuard is the strict cross-session policy: a candidate is a
// duplicate when its fingerprint appears in the learner's attempt history
// within the lookback horizon, or in the request-scoped working set of
// fingerprints generated earlier in the same request.
type HistoryGuard struct {
	store    HistoryStore
	lookback time.Duration
	now      func() time.Time
}

// NewHistoryGuard creates a guard over the given store with a lookback
// horizon expressed in days.
func NewHistoryGuard(store HistoryStore, lookbackDays int) *HistoryGuard {
	return &HistoryGuard{
		store:    store,
		lookback: time.Duration(lookbackDays) * 24 * time.Hour,
		now:      time.Now,
	}
}

// IsDuplicate checks the working set first (cheap), then the history store.
// A hit in either flags the candidate.
func (g *HistoryGuard) IsDuplicate(learnerID, fingerprint string, working *WorkingSet) (bool, error) {
	if working != nil && working.Contains(fingerprint) {
		return true, nil
	}
	cutoff := g.now().Add(-g.lookback)
	return g.store.HasFingerprintSince(learnerID, fingerprint, cutoff)
}

// WorkingSet tracks fingerprints accepted earlier in the same request.
// Safe for concurrent use by parallel batch slots.
type WorkingSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewWorkingSet() *WorkingSet {
	return &WorkingSet{seen: make(map[string]struct{})}
}

func (s *WorkingSet) Add(fingerprint string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[fingerprint] = struct{}{}
}

func (s *WorkingSet) Contains(fingerprint string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[fingerprint]
	return ok
}

// BatchTextSet is the relaxed in-batch policy: only exact question text
// across already-accepted batch members counts as a duplicate. Cheaper and
// deliberately looser than HistoryGuard, to keep batch latency bounded.
type BatchTextSet struct {
	mu    sync.Mutex
	texts map[string]struct{}
}

func NewBatchTextSet() *BatchTextSet {
	return &BatchTextSet{texts: make(map[string]struct{})}
}

// SeenOrAdd reports whether the exact text was already accepted, recording
// it when new.
func (s *BatchTextSet) SeenOrAdd(questionText string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.texts[questionText]; ok {
		return true
	}
	s.texts[questionText] = struct{}{}
	return false
}
