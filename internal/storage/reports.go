package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CreateReport inserts a new content report.
func (s *SQLiteStore) CreateReport(ctx context.Context, report Report) error {
	query := `
		INSERT INTO reports (id, reporter_id, report_type, content_id, reason, description, status, admin_notes, created_at, updated_at)
		VALUES (:id, :reporter_id, :report_type, :content_id, :reason, :description, :status, :admin_notes, :created_at, :updated_at)
	`
	if _, err := s.db.NamedExecContext(ctx, query, report); err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

// GetReport fetches a report by ID.
func (s *SQLiteStore) GetReport(ctx context.Context, id string) (Report, error) {
	var report Report
	err := s.db.GetContext(ctx, &report, `SELECT * FROM reports WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Report{}, ErrReportNotFound
	}
	if err != nil {
		return Report{}, fmt.Errorf("failed to get report: %w", err)
	}
	return report, nil
}

// ListReportsByReporter returns a user's reports, optionally filtered by
// status. An empty status returns all of them.
func (s *SQLiteStore) ListReportsByReporter(ctx context.Context, reporterID string, status ReportStatus) ([]Report, error) {
	reports := []Report{}
	var err error
	if status == "" {
		err = s.db.SelectContext(ctx, &reports,
			`SELECT * FROM reports WHERE reporter_id = ? ORDER BY created_at DESC`, reporterID)
	} else {
		err = s.db.SelectContext(ctx, &reports,
			`SELECT * FROM reports WHERE reporter_id = ? AND status = ? ORDER BY created_at DESC`, reporterID, status)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}
