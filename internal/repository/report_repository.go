package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/arkanhadi/lapor-siaga/internal/model"
)

type ReportRepo struct{ DB *sql.DB }

func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{DB: db} }

// reporterJoin resolves the reporter's name and phone from either the users
// or the admins table depending on reporter_type.  Admin reporters never
// expose a phone number.
const reporterJoin = `
SELECT
  r.id, r.reporter_id, r.reporter_type, r.address, r.phone,
  r.category, r.is_sirine, r.status, r.created_at,
  CASE WHEN r.reporter_type = 'admin' THEN a.name ELSE u.name END AS reporter_name,
  CASE WHEN r.reporter_type = 'admin' THEN '-' ELSE u.phone END AS reporter_phone
FROM reports r
LEFT JOIN users u ON r.reporter_id = u.id AND r.reporter_type = 'user'
LEFT JOIN admins a ON r.reporter_id = a.id AND r.reporter_type = 'admin'`

// Create inserts a report and returns its ID.
func (r *ReportRepo) Create(ctx context.Context, rep model.Report) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO reports (reporter_id, reporter_type, address, phone, category, is_sirine, status, created_at) VALUES (?,?,?,?,?,?,?,?)",
		rep.ReporterID, rep.ReporterType, rep.Address, rep.Phone, rep.Category, rep.IsSirine, rep.Status, rep.CreatedAt)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a report with the reporter's name resolved.
func (r *ReportRepo) GetByID(ctx context.Context, id uint64) (model.Report, error) {
	row := r.DB.QueryRowContext(ctx, reporterJoin+" WHERE r.id=?", id)
	rep, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Report{}, ErrNotFound
	}
	return rep, err
}

// UpdateStatus sets the status of a report.  ErrNotFound is returned when no
// row was updated, which keeps the single UPDATE atomic instead of doing a
// separate existence check.
func (r *ReportRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE reports SET status=? WHERE id=?", status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish "no such report" from "status already set".
		var exists uint64
		err := r.DB.QueryRowContext(ctx, "SELECT id FROM reports WHERE id=? LIMIT 1", id).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// ListAll returns every report, newest first, with reporter info resolved.
func (r *ReportRepo) ListAll(ctx context.Context) ([]model.Report, error) {
	rows, err := r.DB.QueryContext(ctx, reporterJoin+" ORDER BY r.created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReports(rows)
}

// ListByReporter returns up to limit reports filed by the given user, newest
// first.
func (r *ReportRepo) ListByReporter(ctx context.Context, userID uint64, limit int) ([]model.Report, error) {
	rows, err := r.DB.QueryContext(ctx,
		reporterJoin+" WHERE r.reporter_id=? AND r.reporter_type='user' ORDER BY r.created_at DESC LIMIT ?",
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReports(rows)
}

// Recent returns the newest reports filed by a principal regardless of type.
func (r *ReportRepo) Recent(ctx context.Context, reporterID uint64, limit int) ([]model.Report, error) {
	rows, err := r.DB.QueryContext(ctx,
		reporterJoin+" WHERE r.reporter_id=? ORDER BY r.created_at DESC LIMIT ?",
		reporterID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReports(rows)
}

// CountAll returns the total number of reports.
func (r *ReportRepo) CountAll(ctx context.Context) (uint64, error) {
	var n uint64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM reports").Scan(&n)
	return n, err
}

// CountToday returns the number of reports created on the given day.
func (r *ReportRepo) CountToday(ctx context.Context, day time.Time) (uint64, error) {
	var n uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reports WHERE DATE(created_at) = ?",
		day.Format("2006-01-02")).Scan(&n)
	return n, err
}

// CountByReporter returns total and same-day report counts for one reporter.
func (r *ReportRepo) CountByReporter(ctx context.Context, reporterID uint64, day time.Time) (total, today uint64, err error) {
	if err = r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reports WHERE reporter_id=?", reporterID).Scan(&total); err != nil {
		return 0, 0, err
	}
	err = r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reports WHERE reporter_id=? AND DATE(created_at)=?",
		reporterID, day.Format("2006-01-02")).Scan(&today)
	return total, today, err
}

// LocationCount pairs an address with the number of reports filed there.
type LocationCount struct {
	Address string `json:"address"`
	Count   uint64 `json:"count"`
}

// TopLocations returns the addresses with the most reports.
func (r *ReportRepo) TopLocations(ctx context.Context, limit int) ([]LocationCount, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT address, COUNT(*) AS cnt FROM reports GROUP BY address ORDER BY cnt DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LocationCount{}
	for rows.Next() {
		var lc LocationCount
		if err := rows.Scan(&lc.Address, &lc.Count); err != nil {
			return nil, err
		}
		out = append(out, lc)
	}
	return out, rows.Err()
}

type rowScanner interface{ Scan(dest ...any) error }

func scanReport(row rowScanner) (model.Report, error) {
	var (
		rep           model.Report
		reporterPhone sql.NullString
	)
	err := row.Scan(&rep.ID, &rep.ReporterID, &rep.ReporterType, &rep.Address, &rep.Phone,
		&rep.Category, &rep.IsSirine, &rep.Status, &rep.CreatedAt, &rep.ReporterName, &reporterPhone)
	if err != nil {
		return model.Report{}, err
	}
	// Prefer the reporter's profile phone when the report itself has none.
	if rep.Phone == "" || rep.Phone == "-" {
		if reporterPhone.Valid && reporterPhone.String != "" {
			rep.Phone = reporterPhone.String
		} else {
			rep.Phone = "-"
		}
	}
	return rep, nil
}

func collectReports(rows *sql.Rows) ([]model.Report, error) {
	out := []model.Report{}
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}
