package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/staffhub-app/staffhub-backend-go/internal/domain/attendance"
	"github.com/staffhub-app/staffhub-backend-go/internal/pkg/database"
)

type AttendanceJobs struct {
	attendanceService attendance.AttendanceService
	db                *database.DB
}

func NewAttendanceJobs(attendanceService attendance.AttendanceService, db *database.DB) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceService: attendanceService,
		db:                db,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("finalize_absences", 1*time.Hour, j.FinalizeAbsences)
}

// FinalizeAbsences closes out every stale open attendance record across
// all orgs. Runs hourly but only acts in the first hour after midnight
// UTC, so each record is finalized once the day it belongs to is over.
func (j *AttendanceJobs) FinalizeAbsences(ctx context.Context) error {
	if time.Now().UTC().Hour() != 0 {
		return nil
	}

	slog.Info("Cron: Starting finalize absences job")

	cutoff := time.Now().UTC().Truncate(24 * time.Hour)

	rows, err := j.db.Pool.Query(ctx, `
		SELECT DISTINCT org_id FROM attendances
		WHERE date < $1 AND punched_in_at IS NOT NULL AND punched_out_at IS NULL
	`, cutoff)
	if err != nil {
		return fmt.Errorf("failed to list orgs with open records: %w", err)
	}
	defer rows.Close()

	var orgIDs []string
	for rows.Next() {
		var orgID string
		if err := rows.Scan(&orgID); err != nil {
			continue
		}
		orgIDs = append(orgIDs, orgID)
	}

	totalClosed := 0
	for _, orgID := range orgIDs {
		closed, err := j.attendanceService.FinalizeAbsences(ctx, orgID, cutoff)
		if err != nil {
			slog.Error("Cron: Failed to finalize absences", "org_id", orgID, "error", err)
			continue
		}
		totalClosed += closed
	}

	slog.Info("Cron: Finalized absences", "count", totalClosed)
	return nil
}
