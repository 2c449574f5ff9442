package models

import "time"

// NATS subjects
const (
	EventReservationCreated   = "reservation.created"
	EventReservationReleased  = "reservation.released"
	SubjectReservationRelease = "reservation.release"
)

// ReservationReleaseEvent is the delayed-release message. Delivery is
// at-least-once; the handler must stay safe under redelivery.
type ReservationReleaseEvent struct {
	ReserveID string    `json:"reserve_id"`
	DueAt     time.Time `json:"due_at"`
	Timestamp time.Time `json:"timestamp"`
}

// ReservationCreatedEvent is published when a hold is written
type ReservationCreatedEvent struct {
	ReserveID string    `json:"reserve_id"`
	TourID    string    `json:"tour_id"`
	UserID    int64     `json:"user_id"`
	Seats     int       `json:"seats"`
	ExpiresAt time.Time `json:"expires_at"`
	Timestamp time.Time `json:"timestamp"`
}

// ReservationReleasedEvent is published after seats were credited back
type ReservationReleasedEvent struct {
	ReserveID string    `json:"reserve_id"`
	TourID    string    `json:"tour_id"`
	Seats     int       `json:"seats"`
	Timestamp time.Time `json:"timestamp"`
}
