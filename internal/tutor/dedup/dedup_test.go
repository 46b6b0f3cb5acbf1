package dedup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint_Deterministic(t *testing.T) {
	a := Fingerprint("math_algebra", "linear equations", "sports", 4, "Solve 2x+3=11")
	b := Fingerprint("math_algebra", "linear equations", "sports", 4, "Solve 2x+3=11")
	assert.Equal(t, a, b)
	assert.Len(t, a, 32) // md5 hex
}

func TestFingerprint_SensitiveToEachField(t *testing.T) {
	base := Fingerprint("math_algebra", "linear equations", "sports", 4, "Solve 2x+3=11")

	variants := []string{
		Fingerprint("math_geometry", "linear equations", "sports", 4, "Solve 2x+3=11"),
		Fingerprint("math_algebra", "inequalities", "sports", 4, "Solve 2x+3=11"),
		Fingerprint("math_algebra", "linear equations", "gaming", 4, "Solve 2x+3=11"),
		Fingerprint("math_algebra", "linear equations", "sports", 5, "Solve 2x+3=11"),
		Fingerprint("math_algebra", "linear equations", "sports", 4, "Solve 3x+3=12"),
	}
	for _, v := range variants {
		assert.NotEqual(t, base, v)
	}
}

// fakeHistory records queries and answers from a canned fingerprint set
// with creation times.
type fakeHistory struct {
	records map[string]time.Time // fingerprint -> created at
	queries int
}

func (f *fakeHistory) HasFingerprintSince(_, fingerprint string, since time.Time) (bool, error) {
	f.queries++
	created, ok := f.records[fingerprint]
	if !ok {
		return false, nil
	}
	return !created.Before(since), nil
}

func TestHistoryGuard_FlagsRecentFingerprint(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	history := &fakeHistory{records: map[string]time.Time{
		"recent": now.AddDate(0, 0, -10),
		"old":    now.AddDate(0, 0, -200),
	}}

	guard := NewHistoryGuard(history, 150)
	guard.now = func() time.Time { return now }

	dup, err := guard.IsDuplicate("learner-1", "recent", nil)
	require.NoError(t, err)
	assert.True(t, dup, "10-day-old record is within the 150-day horizon")

	dup, err = guard.IsDuplicate("learner-1", "old", nil)
	require.NoError(t, err)
	assert.False(t, dup, "200-day-old record is beyond the horizon")

	dup, err = guard.IsDuplicate("learner-1", "unseen", nil)
	require.NoError(t, err)
	assert.False(t, dup)
}

func TestHistoryGuard_WorkingSetShortCircuits(t *testing.T) {
	history := &fakeHistory{records: map[string]time.Time{}}
	guard := NewHistoryGuard(history, 150)

	working := NewWorkingSet()
	working.Add("fp-1")

	dup, err := guard.IsDuplicate("learner-1", "fp-1", working)
	require.NoError(t, err)
	assert.True(t, dup)
	assert.Zero(t, history.queries, "working-set hit avoids the store lookup")
}

func TestBatchTextSet_ExactTextOnly(t *testing.T) {
	set := NewBatchTextSet()

	assert.False(t, set.SeenOrAdd("What is 2+2?"))
	assert.True(t, set.SeenOrAdd("What is 2+2?"))
	// Near-duplicates pass: the batch policy is deliberately exact-match.
	assert.False(t, set.SeenOrAdd("What is 2 + 2?"))
}
