package models

import (
	"time"
)

// Booking lifecycle states. bookingStatus and paymentStatus move together:
// success implies paid, failed implies unpaid.
const (
	BookingStatusInit     = "init"
	BookingStatusPending  = "pending"
	BookingStatusFailed   = "failed"
	BookingStatusSuccess  = "success"
	BookingStatusCanceled = "canceled"

	PaymentStatusUnpaid   = "unpaid"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"

	AttemptStatusPending = "pending"
	AttemptStatusFailed  = "failed"
	AttemptStatusSuccess = "success"
)

// User represents a user in the system
type User struct {
	UserID       int64     `json:"user_id" db:"user_id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"first_name" db:"first_name"`
	Surname      string    `json:"surname" db:"surname"`
	RegisteredAt time.Time `json:"registered_at" db:"registered_at"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	LastLoggedIn time.Time `json:"last_logged_in" db:"last_logged_in"`
}

// Passengers holds per-category head counts for one reservation
type Passengers struct {
	Adults   int `json:"adults"`
	Teens    int `json:"teens,omitempty"`
	Children int `json:"children,omitempty"`
	Infants  int `json:"infants,omitempty"`
}

// Total returns the number of seats the reservation holds
func (p Passengers) Total() int {
	return p.Adults + p.Teens + p.Children + p.Infants
}

// InventorySlot is the per-tour, per-date seat counter. It is the sole source
// of truth for capacity and is only ever moved by atomic in-database updates.
type InventorySlot struct {
	TourID         string    `json:"tour_id" db:"tour_id"`
	SlotDate       time.Time `json:"slot_date" db:"slot_date"`
	AvailableSeats int       `json:"available_seats" db:"available_seats"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Reservation is a time-bounded claim on tour capacity, not yet paid.
// TotalAmount is computed once at creation and never recomputed.
type Reservation struct {
	ReserveID   string     `json:"reserve_id" db:"reserve_id"`
	UserID      int64      `json:"user_id" db:"user_id"`
	TourID      string     `json:"tour_id" db:"tour_id"`
	StartDate   time.Time  `json:"start_date" db:"start_date"`
	EndDate     time.Time  `json:"end_date" db:"end_date"`
	Passengers  Passengers `json:"passengers"`
	TotalAmount int64      `json:"total_amount" db:"total_amount"`
	Currency    string     `json:"currency" db:"currency"`
	ExpiresAt   time.Time  `json:"expires_at" db:"expires_at"`
	Released    bool       `json:"released" db:"released"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// Expired reports whether the hold has lapsed at the given instant
func (r *Reservation) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// BookerInfo is the contact block supplied when converting a hold
type BookerInfo struct {
	Name  string `json:"name" db:"booker_name"`
	Email string `json:"email" db:"booker_email"`
	Phone string `json:"phone" db:"booker_phone"`
}

// Booking is a durable purchase attempt/outcome tied to exactly one reservation.
// It is created on conversion and mutated only by gateway webhook handlers after that.
type Booking struct {
	ID               int64      `json:"-" db:"id"`
	BookingID        string     `json:"booking_id" db:"booking_id"`
	ReserveID        string     `json:"reserve_id" db:"reserve_id"`
	UserID           int64      `json:"user_id" db:"user_id"`
	TourID           string     `json:"tour_id" db:"tour_id"`
	StartDate        time.Time  `json:"start_date" db:"start_date"`
	EndDate          time.Time  `json:"end_date" db:"end_date"`
	Passengers       Passengers `json:"passengers"`
	Booker           BookerInfo `json:"booker"`
	BookingStatus    string     `json:"booking_status" db:"booking_status"`
	PaymentStatus    string     `json:"payment_status" db:"payment_status"`
	ConfirmationSent bool       `json:"confirmation_sent" db:"confirmation_sent"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`

	// Attempts is the append-only payment history; the current attempt is the
	// last element. Not stored on the bookings row, filled separately.
	Attempts []PaymentAttempt `json:"transaction,omitempty"`
}

// CurrentAttempt returns the latest payment attempt, nil when none exist
func (b *Booking) CurrentAttempt() *PaymentAttempt {
	if len(b.Attempts) == 0 {
		return nil
	}
	return &b.Attempts[len(b.Attempts)-1]
}

// PaymentAttempt is one gateway payment-intent lifecycle record within a booking
type PaymentAttempt struct {
	ID                   int64     `json:"-" db:"id"`
	BookingID            string    `json:"-" db:"booking_id"`
	PaymentID            string    `json:"payment_id" db:"payment_id"`
	ClientSecret         string    `json:"client_secret" db:"client_secret"`
	Amount               int64     `json:"amount" db:"amount"`
	BaseAmount           int64     `json:"base_amount" db:"base_amount"`
	RefundableAmount     int64     `json:"refundable_amount" db:"refundable_amount"`
	BaseRefundableAmount int64     `json:"base_refundable_amount" db:"base_refundable_amount"`
	Currency             string    `json:"currency" db:"currency"`
	CardBrand            *string   `json:"card_brand,omitempty" db:"card_brand"`
	CardLast4            *string   `json:"card_last4,omitempty" db:"card_last4"`
	ReceiptURL           *string   `json:"receipt_url,omitempty" db:"receipt_url"`
	Status               string    `json:"status" db:"status"`
	AttemptDate          time.Time `json:"attempt_date" db:"attempt_date"`
}

// TourPricing holds the published per-category prices in cents. A nil category
// price means the category is not sold on this tour.
type TourPricing struct {
	Adult  *int64 `json:"adult"`
	Teen   *int64 `json:"teen,omitempty"`
	Child  *int64 `json:"child,omitempty"`
	Infant *int64 `json:"infant,omitempty"`
}

// Tour is the catalog document served from the search index. Catalog CRUD is
// owned elsewhere; this core only reads it.
type Tour struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	Description      string      `json:"description,omitempty"`
	Destination      string      `json:"destination,omitempty"`
	DurationDays     int         `json:"duration_days"`
	Pricing          TourPricing `json:"pricing"`
	FreeCancellation bool        `json:"free_cancellation"`
	Occurrences      []time.Time `json:"occurrences,omitempty"`
}
