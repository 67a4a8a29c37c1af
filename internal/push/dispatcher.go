package push

import (
    "context"
    "fmt"
    "log"
    "strconv"
    "time"

    "golang.org/x/sync/errgroup"

    "github.com/arkanhadi/lapor-siaga/internal/model"
)

const (
    // alertTTL bounds how long the provider may hold an undelivered alert.
    // A notification about an incident that is already being handled is
    // noise, so the window is deliberately tiny.
    alertTTL = 15 * time.Second
    // expiresWindow is advertised to the client in the payload so the app
    // can suppress stale alerts it receives right at the TTL edge.
    expiresWindow = 30 * time.Second
)

// DeviceSource is the view of the device registry the dispatcher needs: a
// stable snapshot to fan out over, and removal for self-healing.
type DeviceSource interface {
    Snapshot() []model.DeviceRegistration
    Remove(adminID uint64)
}

// DeviceResult is the per-device outcome of one fan-out.
type DeviceResult struct {
    AdminID    uint64 `json:"admin_id"`
    OK         bool   `json:"ok"`
    DurationMS int64  `json:"duration_ms"`
    Error      string `json:"error,omitempty"`
}

// DispatchReport aggregates one broadcast.  Attempted always equals
// Succeeded+Failed; the per-device detail exists for observability, not
// correctness.
type DispatchReport struct {
    Attempted int            `json:"attempted"`
    Succeeded int            `json:"succeeded"`
    Failed    int            `json:"failed"`
    Results   []DeviceResult `json:"results"`
}

// Dispatcher fans one notification out to every registered admin device.
type Dispatcher struct {
    devices DeviceSource
    sender  Sender
    limit   int
}

// NewDispatcher builds a dispatcher with a bounded send concurrency.  The
// bound exists to avoid provider-side throttling, not to serialize sends;
// limit values below 1 fall back to 8.
func NewDispatcher(devices DeviceSource, sender Sender, limit int) *Dispatcher {
    if limit < 1 {
        limit = 8
    }
    return &Dispatcher{devices: devices, sender: sender, limit: limit}
}

// Broadcast sends a new-report alert to every registered device and waits
// for every attempt to settle.  One device failing or erroring never aborts
// the batch.  Confirmed-invalid tokens are removed from the registry so the
// next broadcast skips them; no separate sweep is needed for convergence.
func (d *Dispatcher) Broadcast(ctx context.Context, rep model.Report) DispatchReport {
    body := fmt.Sprintf("%s - %s\nDilaporkan oleh: %s", rep.Category, rep.Address, rep.ReporterName)
    if rep.IsSirine {
        body += "\n🚨 SIRINE AKTIF"
    }
    msg := Message{
        Title: "Laporan Baru",
        Body:  body,
        Data: map[string]string{
            "type":          "new_report",
            "report_id":     strconv.FormatUint(rep.ID, 10),
            "category":      rep.Category,
            "address":       rep.Address,
            "reporter_name": rep.ReporterName,
            "is_sirine":     strconv.FormatBool(rep.IsSirine),
            "created_at":    strconv.FormatInt(rep.CreatedAt.UnixMilli(), 10),
            "expires_at":    strconv.FormatInt(time.Now().Add(expiresWindow).UnixMilli(), 10),
        },
        Priority: "high",
        TTL:      alertTTL,
    }
    return d.fanOut(ctx, msg, true)
}

// TestAll sends a max-priority test notification to every device and returns
// per-device timing.  It never touches the registry.
func (d *Dispatcher) TestAll(ctx context.Context, body string) DispatchReport {
    if body == "" {
        body = "Test notification from server"
    }
    msg := Message{
        Title: "Test Notification",
        Body:  body,
        Data: map[string]string{
            "type":      "test_notification",
            "timestamp": strconv.FormatInt(time.Now().UnixMilli(), 10),
        },
        Priority: "high",
        TTL:      alertTTL,
    }
    return d.fanOut(ctx, msg, false)
}

// fanOut issues every send without waiting for the others and joins on all
// outcomes.  Workers write into their own slot and always return nil; a
// first-failure-aborts join would violate device isolation.
func (d *Dispatcher) fanOut(ctx context.Context, msg Message, removeInvalid bool) DispatchReport {
    regs := d.devices.Snapshot()
    results := make([]DeviceResult, len(regs))

    g := new(errgroup.Group)
    g.SetLimit(d.limit)
    for i, reg := range regs {
        g.Go(func() error {
            start := time.Now()
            err := d.sender.Send(ctx, reg.Token, msg)
            res := DeviceResult{AdminID: reg.AdminID, OK: err == nil, DurationMS: time.Since(start).Milliseconds()}
            if err != nil {
                res.Error = err.Error()
                if removeInvalid && IsInvalidToken(err) {
                    log.Printf("push: removing invalid token for admin %d", reg.AdminID)
                    d.devices.Remove(reg.AdminID)
                }
            }
            results[i] = res
            return nil
        })
    }
    _ = g.Wait()

    rep := DispatchReport{Attempted: len(regs), Results: results}
    for _, r := range results {
        if r.OK {
            rep.Succeeded++
        } else {
            rep.Failed++
        }
    }
    return rep
}
