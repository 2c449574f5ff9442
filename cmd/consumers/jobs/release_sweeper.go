package jobs

import (
	"context"
	"log/slog"
	"time"

	"tourly/internal/repository"
	"tourly/internal/service"
)

const sweepBatchSize = 100

// ReleaseSweeperJob is the backstop for the delayed-release path: holds whose
// release message was lost, or whose in-process timer died with the consumer,
// are found by scanning for lapsed, unreleased reservations.
type ReleaseSweeperJob struct {
	reservations *repository.ReservationRepository
	release      *service.ReleaseService
	interval     time.Duration
	ticker       *time.Ticker
	done         chan bool
}

func NewReleaseSweeperJob(reservations *repository.ReservationRepository, release *service.ReleaseService, interval time.Duration) *ReleaseSweeperJob {
	if interval == 0 {
		interval = 30 * time.Second
	}
	return &ReleaseSweeperJob{
		reservations: reservations,
		release:      release,
		interval:     interval,
		done:         make(chan bool),
	}
}

// Start begins the background sweep loop
func (j *ReleaseSweeperJob) Start(ctx context.Context) {
	slog.Info("Starting release sweeper job", "check_interval", j.interval.String())

	j.ticker = time.NewTicker(j.interval)

	// Run initial sweep immediately to recover work missed while down
	go j.sweep(ctx)

	go func() {
		for {
			select {
			case <-j.ticker.C:
				go j.sweep(ctx)
			case <-j.done:
				slog.Info("Release sweeper job stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the background job
func (j *ReleaseSweeperJob) Stop() {
	if j.ticker != nil {
		j.ticker.Stop()
	}
	close(j.done)
}

// sweep finds lapsed holds that were never released and runs each through the
// same idempotent release path the scheduler callback uses.
func (j *ReleaseSweeperJob) sweep(ctx context.Context) {
	due, err := j.reservations.GetDueForRelease(ctx, time.Now(), sweepBatchSize)
	if err != nil {
		slog.Error("Failed to list due reservations", "error", err)
		return
	}

	if len(due) == 0 {
		slog.Debug("No lapsed holds found")
		return
	}

	slog.Info("Found lapsed holds to release", "count", len(due))

	for _, reservation := range due {
		released, err := j.release.Release(ctx, reservation.ReserveID)
		if err != nil {
			slog.Error("Failed to release lapsed hold",
				"error", err,
				"reserve_id", reservation.ReserveID,
				"expired_at", reservation.ExpiresAt)
			continue
		}

		if released {
			slog.Info("Released lapsed hold",
				"reserve_id", reservation.ReserveID,
				"overdue", time.Since(reservation.ExpiresAt).String())
		}
	}
}
