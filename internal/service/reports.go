package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/flashcase/flashcase/internal/storage"
)

var (
	// ErrReportTargetMissing is returned when a report names content that
	// does not exist.
	ErrReportTargetMissing = errors.New("reported content not found")
	// ErrInvalidReportType is returned for a report type other than deck
	// or card.
	ErrInvalidReportType = errors.New("report type must be deck or card")
)

// NewReport describes a content report to file.
type NewReport struct {
	Type        storage.ReportType
	ContentID   string
	Reason      storage.ReportReason
	Description string
}

// FileReport screens the description, validates the target and stores a
// pending report.
func (s *Service) FileReport(ctx context.Context, reporterID string, in NewReport) (storage.Report, error) {
	if err := s.filter.CheckReport(in.Description); err != nil {
		return storage.Report{}, err
	}

	switch in.Type {
	case storage.ReportTypeDeck:
		if _, err := s.store.GetDeck(ctx, in.ContentID); err != nil {
			if errors.Is(err, storage.ErrDeckNotFound) {
				return storage.Report{}, ErrReportTargetMissing
			}
			return storage.Report{}, err
		}
	case storage.ReportTypeCard:
		if _, err := s.store.GetCard(ctx, in.ContentID); err != nil {
			if errors.Is(err, storage.ErrCardNotFound) {
				return storage.Report{}, ErrReportTargetMissing
			}
			return storage.Report{}, err
		}
	default:
		return storage.Report{}, ErrInvalidReportType
	}

	now := time.Now().UTC()
	report := storage.Report{
		ID:          uuid.New().String(),
		ReporterID:  reporterID,
		Type:        in.Type,
		ContentID:   in.ContentID,
		Reason:      in.Reason,
		Description: in.Description,
		Status:      storage.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateReport(ctx, report); err != nil {
		return storage.Report{}, err
	}

	s.logger.Info("filed report",
		zap.String("report_id", report.ID),
		zap.String("type", string(in.Type)),
		zap.String("reason", string(in.Reason)))
	return report, nil
}

// ListMyReports returns the reports the user has filed, optionally filtered
// by status.
func (s *Service) ListMyReports(ctx context.Context, reporterID string, status storage.ReportStatus) ([]storage.Report, error) {
	return s.store.ListReportsByReporter(ctx, reporterID, status)
}
