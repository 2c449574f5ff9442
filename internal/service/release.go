package service

import (
	"context"
	"fmt"
	"time"

	"tourly/internal/logger"
	"tourly/internal/metrics"
	"tourly/internal/models"
)

// ReleaseService returns seats held by lapsed reservations to inventory. It is
// the single owner of that invariant: no other path credits seats back.
type ReleaseService struct {
	reservations ReservationStore
	bookings     BookingStore
	inventory    InventoryStore
	publisher    Publisher
}

func NewReleaseService(reservations ReservationStore, bookings BookingStore, inventory InventoryStore, publisher Publisher) *ReleaseService {
	return &ReleaseService{
		reservations: reservations,
		bookings:     bookings,
		inventory:    inventory,
		publisher:    publisher,
	}
}

// Release processes one delayed-release delivery for reserveID. The payload is
// just the id; everything else is re-derived by lookup because delivery may be
// late or repeated. Returns whether seats were credited back.
//
// Redelivery safety rests on the conditional released-flag update: only the
// delivery that flips the flag performs the credit, every other one stops.
func (s *ReleaseService) Release(ctx context.Context, reserveID string) (bool, error) {
	reservation, err := s.reservations.GetByID(ctx, reserveID)
	if err != nil {
		return false, fmt.Errorf("failed to get reservation: %w", err)
	}
	if reservation == nil {
		// Already cleaned up elsewhere; acknowledge and stop
		return false, nil
	}

	booking, err := s.bookings.GetByReserveID(ctx, reserveID)
	if err != nil {
		return false, fmt.Errorf("failed to check booking: %w", err)
	}
	if booking != nil {
		// Conversion already happened; inventory responsibility has passed on
		logger.WithReservation(reserveID).Debug("Release skipped, booking exists",
			"booking_id", booking.BookingID)
		return false, nil
	}

	if !reservation.Expired(time.Now()) {
		// Early delivery; once the hold lapses the sweeper picks it up
		logger.WithReservation(reserveID).Debug("Release skipped, hold still live",
			"expires_at", reservation.ExpiresAt)
		return false, nil
	}

	flipped, err := s.reservations.MarkReleased(ctx, reserveID)
	if err != nil {
		return false, fmt.Errorf("failed to mark reservation released: %w", err)
	}
	if !flipped {
		// A concurrent or earlier delivery already credited the seats
		return false, nil
	}

	seats := reservation.Passengers.Total()
	if err := s.inventory.CreditSeats(ctx, reservation.TourID, reservation.StartDate, seats); err != nil {
		// Revert the flag so a redelivery can retry the credit; without this
		// the failure would need manual reconciliation.
		if revertErr := s.reservations.ClearReleased(ctx, reserveID); revertErr != nil {
			logger.WithReservation(reserveID).Error("Failed to revert released flag",
				"error", revertErr)
		}
		return false, fmt.Errorf("failed to credit seats: %w", err)
	}

	metrics.SeatsReleased.Add(float64(seats))

	if s.publisher != nil {
		released := models.ReservationReleasedEvent{
			ReserveID: reserveID,
			TourID:    reservation.TourID,
			Seats:     seats,
			Timestamp: time.Now(),
		}
		if err := s.publisher.Publish(models.EventReservationReleased, released); err != nil {
			logger.WithReservation(reserveID).Error("Failed to publish release event",
				"error", err)
		}
	}

	logger.WithReservation(reserveID).Info("Seats returned to inventory",
		"tour_id", reservation.TourID,
		"seats", seats)

	return true, nil
}
