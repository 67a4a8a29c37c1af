package session // package session tracks one push-delivery session per admin

import (
    "fmt"
    "sync"
    "time"

    "github.com/arkanhadi/lapor-siaga/internal/model"
)

// Registry holds the active push-delivery session for each admin.  A session
// is minted whenever a device registers a push token and stops validating
// the moment a newer one replaces it.  The registry is process-wide shared
// state, so it carries its own lock rather than relying on any outer
// serialization; a push broadcast must never block a login.
type Registry struct {
    mu       sync.RWMutex
    sessions map[uint64]model.Session
    now      func() time.Time
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
    return &Registry{
        sessions: make(map[uint64]model.Session),
        now:      time.Now,
    }
}

// Register mints a new session for the admin, overwriting any prior one.
// The id composes a millisecond timestamp with the admin id; uniqueness is
// best-effort, not cryptographic, which is enough to detect a superseded
// device binding.
func (r *Registry) Register(adminID uint64) model.Session {
    now := r.now().UTC()
    s := model.Session{
        AdminID:      adminID,
        SessionID:    fmt.Sprintf("session_%d_%d", now.UnixMilli(), adminID),
        SessionStart: now,
    }
    r.mu.Lock()
    r.sessions[adminID] = s
    r.mu.Unlock()
    return s
}

// Validate reports whether candidate matches the admin's currently stored
// session id.  No stored session means false.
func (r *Registry) Validate(adminID uint64, candidate string) bool {
    r.mu.RLock()
    s, ok := r.sessions[adminID]
    r.mu.RUnlock()
    return ok && candidate != "" && s.SessionID == candidate
}

// Current returns the admin's stored session, if any.
func (r *Registry) Current(adminID uint64) (model.Session, bool) {
    r.mu.RLock()
    s, ok := r.sessions[adminID]
    r.mu.RUnlock()
    return s, ok
}

// Clear drops the admin's session, if any.
func (r *Registry) Clear(adminID uint64) {
    r.mu.Lock()
    delete(r.sessions, adminID)
    r.mu.Unlock()
}

// Sweep clears every session older than maxAge and returns how many were
// cleared.  It runs only when the maintenance endpoint asks for it; there is
// no background timer.
func (r *Registry) Sweep(maxAge time.Duration) int {
    cutoff := r.now().UTC().Add(-maxAge)
    r.mu.Lock()
    defer r.mu.Unlock()
    cleared := 0
    for id, s := range r.sessions {
        if s.SessionStart.Before(cutoff) {
            delete(r.sessions, id)
            cleared++
        }
    }
    return cleared
}
