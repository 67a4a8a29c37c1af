package model

import "time"

// Report statuses.  Any status may move to any other; the dashboard drives
// the sequencing, the server only checks membership in this set.
const (
    StatusPending    = "pending"
    StatusProcessing = "processing"
    StatusCompleted  = "completed"
    StatusRejected   = "rejected"
)

// ValidStatus reports whether s is one of the four accepted report statuses.
func ValidStatus(s string) bool {
    switch s {
    case StatusPending, StatusProcessing, StatusCompleted, StatusRejected:
        return true
    }
    return false
}

// Report records an incident submitted by a citizen or an admin.
//
// Fields:
//  ID           – primary key identifier.
//  ReporterID   – id of the principal who filed the report (never impersonable).
//  ReporterType – "user" or "admin", selects which table ReporterID references.
//  ReporterName – display name of the reporter, denormalized for responses.
//  Address      – incident location.
//  Phone        – contact phone for follow-up ("-" when not supplied).
//  Category     – incident category (jenis laporan).
//  IsSirine     – whether the neighborhood siren should be triggered.
//  Status       – one of the Status* constants; new reports start pending.
//  CreatedAt    – creation timestamp.
type Report struct {
    ID           uint64    `json:"id"`
    ReporterID   uint64    `json:"reporter_id"`
    ReporterType string    `json:"reporter_type"`
    ReporterName string    `json:"reporter_name"`
    Address      string    `json:"address"`
    Phone        string    `json:"phone"`
    Category     string    `json:"category"`
    IsSirine     bool      `json:"is_sirine"`
    Status       string    `json:"status"`
    CreatedAt    time.Time `json:"created_at"`
}
