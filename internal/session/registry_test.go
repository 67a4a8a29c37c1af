package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRegisterMintsFreshSession(t *testing.T) {
	r := NewRegistry()

	s := r.Register(42)
	require.Equal(t, uint64(42), s.AdminID)
	require.Equal(t, fmt.Sprintf("session_%d_42", s.SessionStart.UnixMilli()), s.SessionID)
	require.False(t, s.SessionStart.IsZero())

	cur, ok := r.Current(42)
	require.True(t, ok)
	require.Equal(t, s.SessionID, cur.SessionID)
}

func TestRegisterReplacesPriorSession(t *testing.T) {
	r := NewRegistry()
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return base }

	old := r.Register(42)

	r.now = func() time.Time { return base.Add(time.Minute) }
	fresh := r.Register(42)
	require.NotEqual(t, old.SessionID, fresh.SessionID)

	// Only the newest session validates.
	require.False(t, r.Validate(42, old.SessionID))
	require.True(t, r.Validate(42, fresh.SessionID))
}

func TestValidate(t *testing.T) {
	r := NewRegistry()

	require.False(t, r.Validate(1, "session_123_1"), "unknown admin")

	s := r.Register(1)
	require.True(t, r.Validate(1, s.SessionID))
	require.False(t, r.Validate(1, ""), "empty candidate never validates")
	require.False(t, r.Validate(1, "session_0_1"))
	require.False(t, r.Validate(2, s.SessionID), "session belongs to another admin")
}

func TestClear(t *testing.T) {
	r := NewRegistry()
	s := r.Register(7)

	r.Clear(7)
	_, ok := r.Current(7)
	require.False(t, ok)
	require.False(t, r.Validate(7, s.SessionID))

	// Clearing an absent session is a no-op.
	r.Clear(7)
}

func TestSweepClearsOnlyStaleSessions(t *testing.T) {
	r := NewRegistry()
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	r.now = func() time.Time { return base.Add(-2 * time.Hour) }
	r.Register(1)
	r.now = func() time.Time { return base.Add(-30 * time.Minute) }
	r.Register(2)
	r.now = func() time.Time { return base }
	r.Register(3)

	cleared := r.Sweep(time.Hour)
	require.Equal(t, 1, cleared)

	_, ok := r.Current(1)
	require.False(t, ok, "stale session should be gone")
	_, ok = r.Current(2)
	require.True(t, ok)
	_, ok = r.Current(3)
	require.True(t, ok)

	// A second sweep with nothing stale clears nothing.
	require.Equal(t, 0, r.Sweep(time.Hour))
}
