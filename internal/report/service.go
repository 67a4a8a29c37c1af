// Package report implements the ingestion service: validating and persisting
// incident reports, then triggering the live broadcast and the push fan-out
// as isolated side effects.
package report

import (
    "context"
    "errors"
    "log"
    "time"

    "github.com/arkanhadi/lapor-siaga/internal/broadcast"
    "github.com/arkanhadi/lapor-siaga/internal/model"
    "github.com/arkanhadi/lapor-siaga/internal/push"
)

// ValidationError marks input the caller must correct and resubmit.
type ValidationError struct{ msg string }

func (e *ValidationError) Error() string { return e.msg }

func validationf(msg string) error { return &ValidationError{msg: msg} }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
    var ve *ValidationError
    return errors.As(err, &ve)
}

// ErrNotAdmin is returned when a non-admin principal attempts a
// status update.
var ErrNotAdmin = errors.New("only admins may update report status")

// Draft is the caller-supplied part of a new report.
type Draft struct {
    Category       string `json:"category"`
    Address        string `json:"address"`
    Phone          string `json:"phone"`
    IsSirine       bool   `json:"is_sirine"`
    UseAccountData bool   `json:"use_account_data"`
}

// Store is the persistence the service needs for reports.
type Store interface {
    Create(ctx context.Context, rep model.Report) (uint64, error)
    GetByID(ctx context.Context, id uint64) (model.Report, error)
    UpdateStatus(ctx context.Context, id uint64, status string) error
}

// Users resolves citizen profiles for name/address substitution.
type Users interface {
    GetByID(ctx context.Context, id uint64) (model.User, error)
}

// Admins resolves admin profiles for reporter names.
type Admins interface {
    GetByID(ctx context.Context, id uint64) (model.Admin, error)
}

// Broadcaster publishes to currently connected live listeners.
type Broadcaster interface {
    Publish(topic string, payload interface{})
}

// Dispatcher fans a push notification out to registered admin devices.
type Dispatcher interface {
    Broadcast(ctx context.Context, rep model.Report) push.DispatchReport
}

// Audit receives report lifecycle events for the offline audit trail.
type Audit interface {
    ReportCreated(ctx context.Context, rep model.Report)
    StatusUpdated(ctx context.Context, rep model.Report)
}

// Service wires persistence with the two notification paths.  The push
// dispatcher and audit sink may be nil (push not configured, broker not
// configured); the service simply skips them.
type Service struct {
    reports Store
    users   Users
    admins  Admins
    hub     Broadcaster
    pusher  Dispatcher
    audit   Audit
    now     func() time.Time
}

// NewService constructs the ingestor.
func NewService(reports Store, users Users, admins Admins, hub Broadcaster, pusher Dispatcher, audit Audit) *Service {
    return &Service{
        reports: reports,
        users:   users,
        admins:  admins,
        hub:     hub,
        pusher:  pusher,
        audit:   audit,
        now:     time.Now,
    }
}

// Create validates and persists a report, then triggers the live broadcast
// and the push fan-out.  It returns as soon as the persisted row exists; the
// notifications run in their own goroutines and their failures never reach
// the caller.  The reporter identity always comes from the principal, never
// from the draft.
func (s *Service) Create(ctx context.Context, p model.Principal, d Draft) (model.Report, error) {
    if d.Category == "" {
        return model.Report{}, validationf("category is required")
    }

    rep := model.Report{
        ReporterID:   p.ID,
        ReporterType: p.ReporterType(),
        Address:      d.Address,
        Phone:        d.Phone,
        Category:     d.Category,
        IsSirine:     d.IsSirine,
        Status:       model.StatusPending,
        CreatedAt:    s.now().UTC(),
    }

    if p.IsAdmin {
        adm, err := s.admins.GetByID(ctx, p.ID)
        if err != nil {
            return model.Report{}, err
        }
        rep.ReporterName = adm.Name
        // Admins report from the field; there is no profile address to
        // substitute, so one must be supplied explicitly.
        if rep.Address == "" {
            return model.Report{}, validationf("address is required for admin reports")
        }
    } else {
        u, err := s.users.GetByID(ctx, p.ID)
        if err != nil {
            return model.Report{}, err
        }
        rep.ReporterName = u.Name
        if d.UseAccountData {
            rep.Address = u.Address
            if rep.Phone == "" {
                rep.Phone = u.Phone
            }
        }
        if rep.Address == "" {
            return model.Report{}, validationf("address is required")
        }
    }
    if rep.Phone == "" {
        rep.Phone = "-"
    }

    id, err := s.reports.Create(ctx, rep)
    if err != nil {
        return model.Report{}, err
    }
    rep.ID = id

    // Fire-and-forget: the live broadcast and the push fan-out run
    // independently of each other and of this response.
    go guard("broadcast new_report", func() {
        s.hub.Publish(broadcast.TopicNewReport, rep)
    })
    if s.pusher != nil {
        go guard("push fan-out", func() {
            out := s.pusher.Broadcast(context.Background(), rep)
            log.Printf("push: report %d fan-out: %d/%d delivered", rep.ID, out.Succeeded, out.Attempted)
        })
    }
    if s.audit != nil {
        go guard("audit publish", func() {
            s.audit.ReportCreated(context.Background(), rep)
        })
    }

    return rep, nil
}

// UpdateStatus persists a new status for a report and notifies live
// listeners.  Only admins may call it; the status must be one of the four
// accepted values but transitions between them are unconstrained.  Status
// changes never trigger a push fan-out; push is reserved for new-report
// alerts.
func (s *Service) UpdateStatus(ctx context.Context, p model.Principal, id uint64, status string) (model.Report, error) {
    if !p.IsAdmin {
        return model.Report{}, ErrNotAdmin
    }
    if !model.ValidStatus(status) {
        return model.Report{}, validationf("invalid status, must be one of: pending, processing, completed, rejected")
    }
    if err := s.reports.UpdateStatus(ctx, id, status); err != nil {
        return model.Report{}, err
    }
    updated, err := s.reports.GetByID(ctx, id)
    if err != nil {
        return model.Report{}, err
    }

    go guard("broadcast report_status_update", func() {
        s.hub.Publish(broadcast.TopicStatusUpdate, updated)
    })
    if s.audit != nil {
        go guard("audit publish", func() {
            s.audit.StatusUpdated(context.Background(), updated)
        })
    }

    return updated, nil
}

// guard runs fn and keeps any panic inside the task boundary.  Side-effect
// failures are logged, never propagated into the request path.
func guard(what string, fn func()) {
    defer func() {
        if r := recover(); r != nil {
            log.Printf("report: %s panicked: %v", what, r)
        }
    }()
    fn()
}
