// Package queue defines message payloads exchanged over the message broker.
package queue

// ReportEvent is published when a report is created or its status changes.
// It contains enough information for downstream consumers to log, notify, or
// trigger analytics without querying the primary database.
type ReportEvent struct {
    ReportID     uint64 `json:"report_id"`
    ReporterID   uint64 `json:"reporter_id"`
    ReporterType string `json:"reporter_type"`
    ReporterName string `json:"reporter_name"`
    Category     string `json:"category"`
    Address      string `json:"address"`
    IsSirine     bool   `json:"is_sirine"`
    Status       string `json:"status"`
    OccurredAt   string `json:"occurred_at"`
}
