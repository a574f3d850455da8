package service

import (
	"context"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/kingrain94/tenant-user-sync/pkg/logger"
)

// CascadeReport describes one cascading deletion of a tenant's users.
type CascadeReport struct {
	TenantID   string           `json:"tenant_id"`
	EventID    string           `json:"event_id,omitempty"`
	Scanned    int              `json:"scanned"`
	Matched    int              `json:"matched"`
	Deleted    []string         `json:"deleted"`
	Failed     []CascadeFailure `json:"failed"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
}

// CascadeFailure is a user whose deletion did not go through.
type CascadeFailure struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
	err    error
}

// Err combines every per-user failure, or returns nil if there were none.
func (r *CascadeReport) Err() error {
	var err error
	for _, f := range r.Failed {
		err = multierr.Append(err, f.err)
	}
	return err
}

type CascadeReporter interface {
	Report(ctx context.Context, report *CascadeReport) error
}

// LogCascadeReporter writes a summary line and one line per failed user.
type LogCascadeReporter struct {
	logger *logger.Logger
}

func NewLogCascadeReporter(logger *logger.Logger) *LogCascadeReporter {
	return &LogCascadeReporter{logger: logger}
}

func (r *LogCascadeReporter) Report(_ context.Context, report *CascadeReport) error {
	for _, f := range report.Failed {
		r.logger.Warn("Cascade failed to delete user",
			zap.String("tenant_id", report.TenantID),
			zap.String("user_id", f.UserID),
			zap.String("reason", f.Reason))
	}

	r.logger.Info("Cascade finished",
		zap.String("tenant_id", report.TenantID),
		zap.Int("scanned", report.Scanned),
		zap.Int("matched", report.Matched),
		zap.Int("deleted", len(report.Deleted)),
		zap.Int("failed", len(report.Failed)),
		zap.Duration("took", report.FinishedAt.Sub(report.StartedAt)))
	return nil
}

// CascadeReporters fans a report out to several reporters. Every reporter is
// called even if an earlier one fails.
type CascadeReporters []CascadeReporter

func (rs CascadeReporters) Report(ctx context.Context, report *CascadeReport) error {
	var err error
	for _, r := range rs {
		err = multierr.Append(err, r.Report(ctx, report))
	}
	return err
}
