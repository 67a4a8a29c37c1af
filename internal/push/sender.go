// Package push delivers notifications to registered admin devices.  It owns
// the provider contract and the fan-out dispatcher; device bookkeeping lives
// in the device package, which plugs in through the DeviceSource interface.
package push

import (
    "context"
    "errors"
    "fmt"
    "time"
)

// ErrorKind classifies provider failures.  The distinction is load-bearing:
// only KindInvalidToken causes a durable state change (the registration is
// dropped); everything else is logged and ignored.
type ErrorKind int

const (
    // KindInvalidToken means the provider reported the token will never
    // again accept delivery (app uninstalled, token rotated).
    KindInvalidToken ErrorKind = iota + 1
    // KindUnavailable covers transient provider failures.
    KindUnavailable
)

// SendError tags a provider error with its kind so the two classes are
// statically distinguishable at the call site.
type SendError struct {
    Kind ErrorKind
    Err  error
}

func (e *SendError) Error() string {
    if e.Kind == KindInvalidToken {
        return fmt.Sprintf("push: invalid token: %v", e.Err)
    }
    return fmt.Sprintf("push: send failed: %v", e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }

// IsInvalidToken reports whether err is a confirmed permanently-invalid
// token outcome.
func IsInvalidToken(err error) bool {
    var se *SendError
    return errors.As(err, &se) && se.Kind == KindInvalidToken
}

// Message is one notification addressed to a single device token.  TTL rides
// in the payload: an incident alert is worthless after tens of seconds, so a
// late delivery is dropped by the provider instead of waking the device.
type Message struct {
    Title    string
    Body     string
    Data     map[string]string
    Priority string // "high" or "normal"
    TTL      time.Duration
}

// Sender is the push-send capability.  Implementations must return a
// *SendError so callers can classify the failure.
type Sender interface {
    Send(ctx context.Context, token string, msg Message) error
}
