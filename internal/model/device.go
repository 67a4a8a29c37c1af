package model

import "time"

// Session ties one admin to one active push-delivery registration.  A new
// device registration always mints a fresh session; the previous one stops
// validating immediately.  Sessions are process-local state owned by the
// session registry.
//
// Fields:
//  AdminID      – admin the session belongs to.
//  SessionID    – opaque id handed to the device, compared on validation.
//  SessionStart – when the session was issued; drives staleness sweeps.
type Session struct {
    AdminID      uint64    `json:"admin_id"`
    SessionID    string    `json:"session_id"`
    SessionStart time.Time `json:"session_start"`
}

// DeviceRegistration is the single push-delivery slot an admin holds.  At
// most one exists per admin; registering again overwrites the previous
// token.  The registration is dropped on logout and whenever the push
// provider reports the token permanently invalid.
//
// Fields:
//  AdminID – owning admin.
//  Token   – opaque provider token used as the delivery address.
type DeviceRegistration struct {
    AdminID uint64 `json:"admin_id"`
    Token   string `json:"-"`
}
