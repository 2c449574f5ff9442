package service

import (
	"context"
	"time"

	"tourly/internal/external"
	"tourly/internal/models"
)

// Collaborator interfaces. The orchestrator owns explicitly injected adapter
// instances rather than module-level clients so tests can swap in doubles.

type TourCatalog interface {
	GetByID(ctx context.Context, tourID string) (*models.Tour, error)
	ResolveOccurrence(ctx context.Context, tour *models.Tour, start, end time.Time) (time.Time, error)
}

type PaymentGateway interface {
	CreateIntent(amount int64, currency, bookingID string, userID int64) (*external.IntentResponse, error)
	RetrieveCharge(chargeID string) (*external.ChargeResponse, error)
	Refund(paymentID string, amount int64) (*external.RefundResponse, error)
}

type Notifier interface {
	SendBookingConfirmation(snapshot models.BookingSnapshot) (bool, error)
}

type Scheduler interface {
	ScheduleRelease(ctx context.Context, reserveID string, delay time.Duration) error
}

type Publisher interface {
	Publish(subject string, data interface{}) error
}

type ReservationStore interface {
	Create(ctx context.Context, res *models.Reservation) error
	GetByID(ctx context.Context, reserveID string) (*models.Reservation, error)
	MarkReleased(ctx context.Context, reserveID string) (bool, error)
	ClearReleased(ctx context.Context, reserveID string) error
	Consume(ctx context.Context, reserveID string) error
}

type BookingStore interface {
	Create(ctx context.Context, booking *models.Booking, attempt *models.PaymentAttempt) error
	GetByBookingID(ctx context.Context, bookingID string) (*models.Booking, error)
	GetByReserveID(ctx context.Context, reserveID string) (*models.Booking, error)
	UpdateStatus(ctx context.Context, bookingID, bookingStatus, paymentStatus string) error
	UpdateAttempt(ctx context.Context, attempt *models.PaymentAttempt) error
	SetConfirmationSent(ctx context.Context, bookingID string, sent bool) error
}

type InventoryStore interface {
	CreditSeats(ctx context.Context, tourID string, date time.Time, seats int) error
}

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}
