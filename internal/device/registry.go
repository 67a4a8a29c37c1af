package device // package device stores one push token per admin

import (
    "context"
    "errors"
    "log"
    "sort"
    "sync"
    "time"

    "github.com/arkanhadi/lapor-siaga/internal/model"
    "github.com/arkanhadi/lapor-siaga/internal/push"
    "github.com/arkanhadi/lapor-siaga/internal/session"
)

// ErrInvalidToken is returned by Register when the validation probe confirms
// the supplied push token can never receive delivery.
var ErrInvalidToken = errors.New("invalid push token")

// probeTTL keeps validation probes short-lived; they are data-only messages
// the device app swallows silently.
const probeTTL = 60 * time.Second

// Registry is a last-writer-wins register of admin push tokens: a single
// slot per admin, not a growable collection.  Registering a new token for an
// admin silently replaces the old one, which is exactly the behavior wanted
// when a device reinstalls the app and receives a rotated token.
type Registry struct {
    mu       sync.RWMutex
    tokens   map[uint64]string
    sender   push.Sender
    sessions *session.Registry
}

// NewRegistry constructs an empty registry wired to the push-send capability
// and the session registry.
func NewRegistry(sender push.Sender, sessions *session.Registry) *Registry {
    return &Registry{
        tokens:   make(map[uint64]string),
        sender:   sender,
        sessions: sessions,
    }
}

// Register validates the token with a probe send, stores it, and mints a
// fresh session for the admin.  Only a confirmed permanently-invalid
// response blocks registration; any other probe failure is advisory and is
// logged without blocking.  Nothing is stored when registration fails.
func (r *Registry) Register(ctx context.Context, adminID uint64, token string) (model.Session, error) {
    probe := push.Message{
        Data: map[string]string{
            "type":    "token_validation",
            "message": "push token registered successfully",
        },
        Priority: "normal",
        TTL:      probeTTL,
    }
    if err := r.sender.Send(ctx, token, probe); err != nil {
        if push.IsInvalidToken(err) {
            return model.Session{}, ErrInvalidToken
        }
        log.Printf("device: token probe for admin %d failed, registration continues: %v", adminID, err)
    }

    r.mu.Lock()
    r.tokens[adminID] = token
    r.mu.Unlock()

    return r.sessions.Register(adminID), nil
}

// Remove clears the admin's stored token.  Called on logout and whenever
// the provider confirms a delivery failure as permanent.
func (r *Registry) Remove(adminID uint64) {
    r.mu.Lock()
    delete(r.tokens, adminID)
    r.mu.Unlock()
}

// Snapshot returns the current registrations in a stable order.  The copy is
// what a broadcast fans out over; registrations added mid-broadcast are
// picked up by the next one.
func (r *Registry) Snapshot() []model.DeviceRegistration {
    r.mu.RLock()
    out := make([]model.DeviceRegistration, 0, len(r.tokens))
    for id, tok := range r.tokens {
        out = append(out, model.DeviceRegistration{AdminID: id, Token: tok})
    }
    r.mu.RUnlock()
    sort.Slice(out, func(i, j int) bool { return out[i].AdminID < out[j].AdminID })
    return out
}

// ValidateAll probes every stored token and removes the ones the provider
// confirms invalid.  Probe errors that are not confirmed-invalid are ignored
// entirely: neither counted nor acted on.  This is periodic hygiene; the
// broadcast path self-heals on its own.
func (r *Registry) ValidateAll(ctx context.Context) (valid, invalidRemoved int) {
    probe := push.Message{
        Data: map[string]string{
            "type":    "token_validation",
            "message": "token validation check",
        },
        Priority: "normal",
        TTL:      probeTTL / 2,
    }
    for _, reg := range r.Snapshot() {
        err := r.sender.Send(ctx, reg.Token, probe)
        switch {
        case err == nil:
            valid++
        case push.IsInvalidToken(err):
            log.Printf("push: removing invalid token for admin %d during validation", reg.AdminID)
            r.Remove(reg.AdminID)
            invalidRemoved++
        default:
            log.Printf("push: token validation for admin %d errored: %v", reg.AdminID, err)
        }
    }
    return valid, invalidRemoved
}
