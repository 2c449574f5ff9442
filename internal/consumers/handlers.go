package consumers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"tourly/internal/models"
	"tourly/internal/service"

	"github.com/nats-io/stan.go"
)

type Handlers struct {
	release *service.ReleaseService
}

func NewHandlers(release *service.ReleaseService) *Handlers {
	return &Handlers{
		release: release,
	}
}

// HandleReservationRelease processes one delayed-release message. Messages
// arrive as soon as they are published; the due time travels in the payload.
// Due messages are handled inline, future ones get an in-process timer. The
// message is acked either way: a lost timer is covered by the sweeper job, and
// the release itself is idempotent, so at-least-once on every path is safe.
func (h *Handlers) HandleReservationRelease(m *stan.Msg) {
	var event models.ReservationReleaseEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal release event", "error", err)
		m.Ack()
		return
	}

	delay := time.Until(event.DueAt)
	if delay <= 0 {
		h.runRelease(event.ReserveID)
		m.Ack()
		return
	}

	slog.Info("Release due later, arming timer",
		"reserve_id", event.ReserveID,
		"due_in", delay.String())

	time.AfterFunc(delay, func() {
		h.runRelease(event.ReserveID)
	})

	m.Ack()
}

func (h *Handlers) runRelease(reserveID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	released, err := h.release.Release(ctx, reserveID)
	if err != nil {
		slog.Error("Failed to process release",
			"error", err,
			"reserve_id", reserveID)
		return
	}

	if released {
		slog.Info("Release processed", "reserve_id", reserveID)
	}
}
