package device

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arkanhadi/lapor-siaga/internal/push"
	"github.com/arkanhadi/lapor-siaga/internal/session"
)

// probeSender scripts per-token probe outcomes.
type probeSender struct {
	mu      sync.Mutex
	invalid map[string]bool
	flaky   map[string]bool
	probes  int
}

func (p *probeSender) Send(_ context.Context, token string, _ push.Message) error {
	p.mu.Lock()
	p.probes++
	p.mu.Unlock()
	if p.invalid[token] {
		return &push.SendError{Kind: push.KindInvalidToken, Err: errors.New("unregistered")}
	}
	if p.flaky[token] {
		return &push.SendError{Kind: push.KindUnavailable, Err: errors.New("upstream timeout")}
	}
	return nil
}

func TestRegisterStoresTokenAndMintsSession(t *testing.T) {
	sessions := session.NewRegistry()
	r := NewRegistry(&probeSender{}, sessions)

	s, err := r.Register(context.Background(), 1, "tok-1")
	require.NoError(t, err)
	require.Equal(t, uint64(1), s.AdminID)
	require.NotEmpty(t, s.SessionID)

	snap := r.Snapshot()
	require.Len(t, snap, 1)
	require.Equal(t, "tok-1", snap[0].Token)

	// The session registry agrees.
	require.True(t, sessions.Validate(1, s.SessionID))
}

func TestRegisterRejectsConfirmedInvalidToken(t *testing.T) {
	sessions := session.NewRegistry()
	r := NewRegistry(&probeSender{invalid: map[string]bool{"dead": true}}, sessions)

	_, err := r.Register(context.Background(), 1, "dead")
	require.ErrorIs(t, err, ErrInvalidToken)

	// Nothing stored, no session minted.
	require.Empty(t, r.Snapshot())
	_, ok := sessions.Current(1)
	require.False(t, ok)
}

func TestRegisterContinuesOnTransientProbeFailure(t *testing.T) {
	sessions := session.NewRegistry()
	r := NewRegistry(&probeSender{flaky: map[string]bool{"tok-1": true}}, sessions)

	s, err := r.Register(context.Background(), 1, "tok-1")
	require.NoError(t, err, "only a confirmed-invalid probe blocks registration")
	require.NotEmpty(t, s.SessionID)
	require.Len(t, r.Snapshot(), 1)
}

func TestRegisterReplacesTokenAndSession(t *testing.T) {
	sessions := session.NewRegistry()
	r := NewRegistry(&probeSender{}, sessions)

	old, err := r.Register(context.Background(), 1, "tok-old")
	require.NoError(t, err)
	fresh, err := r.Register(context.Background(), 1, "tok-new")
	require.NoError(t, err)

	snap := r.Snapshot()
	require.Len(t, snap, 1, "one slot per admin")
	require.Equal(t, "tok-new", snap[0].Token)

	require.True(t, sessions.Validate(1, fresh.SessionID))
	if old.SessionID != fresh.SessionID {
		require.False(t, sessions.Validate(1, old.SessionID))
	}
}

func TestRemove(t *testing.T) {
	r := NewRegistry(&probeSender{}, session.NewRegistry())

	_, err := r.Register(context.Background(), 1, "tok-1")
	require.NoError(t, err)
	_, err = r.Register(context.Background(), 2, "tok-2")
	require.NoError(t, err)

	r.Remove(1)
	snap := r.Snapshot()
	require.Len(t, snap, 1)
	require.Equal(t, uint64(2), snap[0].AdminID)

	// Removing an absent admin is a no-op.
	r.Remove(99)
}

func TestSnapshotIsStableAndDetached(t *testing.T) {
	r := NewRegistry(&probeSender{}, session.NewRegistry())
	for id, tok := range map[uint64]string{3: "c", 1: "a", 2: "b"} {
		_, err := r.Register(context.Background(), id, tok)
		require.NoError(t, err)
	}

	snap := r.Snapshot()
	require.Len(t, snap, 3)
	for i := 1; i < len(snap); i++ {
		require.Less(t, snap[i-1].AdminID, snap[i].AdminID)
	}

	// Mutating after the snapshot does not affect the returned copy.
	r.Remove(2)
	require.Len(t, snap, 3)
}

func TestValidateAllRemovesOnlyConfirmedInvalid(t *testing.T) {
	sender := &probeSender{}
	r := NewRegistry(sender, session.NewRegistry())
	for id, tok := range map[uint64]string{1: "good", 2: "dead", 3: "slow"} {
		_, err := r.Register(context.Background(), id, tok)
		require.NoError(t, err)
	}

	// Flip outcomes after registration so the initial probes all passed.
	sender.invalid = map[string]bool{"dead": true}
	sender.flaky = map[string]bool{"slow": true}

	valid, removed := r.ValidateAll(context.Background())
	require.Equal(t, 1, valid)
	require.Equal(t, 1, removed)

	snap := r.Snapshot()
	require.Len(t, snap, 2, "the transiently failing token stays registered")
	require.Equal(t, uint64(1), snap[0].AdminID)
	require.Equal(t, uint64(3), snap[1].AdminID)
}
