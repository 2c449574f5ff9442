package models

import "time"

// CreateReservationRequest - request body for creating a seat hold
type CreateReservationRequest struct {
	TourID    string `json:"tour_id" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Adults    int    `json:"adults" binding:"required,min=1"`
	Teens     int    `json:"teens" binding:"min=0"`
	Children  int    `json:"children" binding:"min=0"`
	Infants   int    `json:"infants" binding:"min=0"`
}

// CreateReservationResponse - response body for a created hold
type CreateReservationResponse struct {
	ReserveID string `json:"reserve_id"`
}

// TourSnapshot - read-only tour display data attached to reservation details
type TourSnapshot struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Destination  string `json:"destination,omitempty"`
	DurationDays int    `json:"duration_days"`
}

// ReservationDetailsResponse - reservation fields plus tour display data.
// ExpiresAt is already reduced by the server-side skew.
type ReservationDetailsResponse struct {
	ReserveID   string       `json:"reserve_id"`
	TourID      string       `json:"tour_id"`
	StartDate   string       `json:"start_date"`
	EndDate     string       `json:"end_date"`
	Passengers  Passengers   `json:"passengers"`
	TotalAmount int64        `json:"total_amount"`
	Currency    string       `json:"currency"`
	ExpiresAt   int64        `json:"expires_at"`
	Tour        TourSnapshot `json:"tour"`
}

// BookReservationRequest - booker contact fields for converting a hold
type BookReservationRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"required"`
}

// BookReservationResponse - what the client needs to finish payment client-side
type BookReservationResponse struct {
	BookingID    string `json:"booking_id"`
	ClientSecret string `json:"client_secret"`
}

// Gateway webhook event types this core reacts to. Anything else is
// acknowledged without a state change so the gateway stops retrying.
const (
	GatewayEventAuthorized = "payment.authorized"
	GatewayEventSucceeded  = "payment.succeeded"
	GatewayEventFailed     = "payment.failed"
)

// GatewayWebhookEvent - signed event payload delivered by the payment gateway.
// Metadata carries the booking/user back-references set at intent creation.
type GatewayWebhookEvent struct {
	EventID  string               `json:"event_id"`
	Type     string               `json:"type" binding:"required"`
	Amount   int64                `json:"amount"`
	Currency string               `json:"currency"`
	ChargeID string               `json:"charge_id"`
	Metadata GatewayEventMetadata `json:"metadata"`
}

// GatewayEventMetadata - booking ownership references embedded in the event
type GatewayEventMetadata struct {
	BookingID string `json:"booking_id"`
	UserID    int64  `json:"user_id,string"`
	PaymentID string `json:"payment_id"`
}

// ReleaseCallbackRequest - minimal delayed-release payload; everything else is
// re-derived by lookup because delivery may be late or repeated
type ReleaseCallbackRequest struct {
	ReserveID string `json:"reserve_id" binding:"required"`
}

// ReleaseCallbackResponse - outcome reported to the scheduler
type ReleaseCallbackResponse struct {
	Released bool `json:"released"`
}

// BookingSnapshot - what the notification collaborator receives on confirmation
type BookingSnapshot struct {
	BookingID   string     `json:"booking_id"`
	TourTitle   string     `json:"tour_title"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     time.Time  `json:"end_date"`
	Passengers  Passengers `json:"passengers"`
	AmountPaid  int64      `json:"amount_paid"`
	Currency    string     `json:"currency"`
	BookerName  string     `json:"booker_name"`
	BookerEmail string     `json:"booker_email"`
}
