// Package scheduler publishes one-shot delayed-release notifications. The
// payload stays minimal on purpose: delivery may be late or repeated, so the
// consumer re-derives everything else by lookup.
package scheduler

import (
	"context"
	"time"

	"tourly/internal/logger"
	"tourly/internal/messaging"
	"tourly/internal/models"
)

// NATSScheduler sends release events over NATS Streaming. The broker gives
// at-least-once delivery; the due time travels in the message and the consumer
// side waits it out.
type NATSScheduler struct {
	nats *messaging.NATSClient
}

func NewNATSScheduler(nats *messaging.NATSClient) *NATSScheduler {
	return &NATSScheduler{nats: nats}
}

// ScheduleRelease asks for a release check of reserveID after delay
func (s *NATSScheduler) ScheduleRelease(ctx context.Context, reserveID string, delay time.Duration) error {
	event := models.ReservationReleaseEvent{
		ReserveID: reserveID,
		DueAt:     time.Now().Add(delay),
		Timestamp: time.Now(),
	}

	if err := s.nats.Publish(models.SubjectReservationRelease, event); err != nil {
		return err
	}

	logger.WithReservation(reserveID).Info("Scheduled delayed release",
		"due_at", event.DueAt)
	return nil
}
