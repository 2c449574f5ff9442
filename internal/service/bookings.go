package service

import (
	"context"
	"fmt"
	"time"

	"tourly/internal/apperr"
	"tourly/internal/logger"
	"tourly/internal/metrics"
	"tourly/internal/models"

	"github.com/google/uuid"
)

// nonRefundablePercent is retained from the charged amount when the tour does
// not allow free cancellation.
const nonRefundablePercent = 20

type BookingService struct {
	reservations ReservationStore
	bookings     BookingStore
	catalog      TourCatalog
	gateway      PaymentGateway
	notifier     Notifier
}

func NewBookingService(reservations ReservationStore, bookings BookingStore, catalog TourCatalog, gateway PaymentGateway, notifier Notifier) *BookingService {
	return &BookingService{
		reservations: reservations,
		bookings:     bookings,
		catalog:      catalog,
		gateway:      gateway,
		notifier:     notifier,
	}
}

// Book converts a live hold into a booking with a pending payment attempt.
// Inventory is untouched here; the release path is the only place seats move.
func (s *BookingService) Book(ctx context.Context, userID int64, reserveID string, req *models.BookReservationRequest) (*models.BookReservationResponse, error) {
	reservation, err := s.reservations.GetByID(ctx, reserveID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	if reservation == nil {
		return nil, apperr.NotFoundf("reservation %s not found", reserveID)
	}

	if reservation.UserID != userID {
		return nil, apperr.Validationf("reservation does not belong to caller")
	}

	if reservation.Expired(time.Now()) {
		return nil, apperr.Gonef("reservation %s has expired", reserveID)
	}

	if existing, err := s.bookings.GetByReserveID(ctx, reserveID); err != nil {
		return nil, fmt.Errorf("failed to check existing booking: %w", err)
	} else if existing != nil {
		return nil, apperr.New(apperr.KindConflict, "reservation already has a booking")
	}

	bookingID := uuid.New().String()

	intent, err := s.gateway.CreateIntent(reservation.TotalAmount, reservation.Currency, bookingID, userID)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		BookingID:     bookingID,
		ReserveID:     reserveID,
		UserID:        userID,
		TourID:        reservation.TourID,
		StartDate:     reservation.StartDate,
		EndDate:       reservation.EndDate,
		Passengers:    reservation.Passengers,
		Booker:        models.BookerInfo{Name: req.Name, Email: req.Email, Phone: req.Phone},
		BookingStatus: models.BookingStatusInit,
		PaymentStatus: models.PaymentStatusUnpaid,
	}

	attempt := &models.PaymentAttempt{
		PaymentID:    intent.PaymentID,
		ClientSecret: intent.ClientSecret,
		Amount:       reservation.TotalAmount,
		BaseAmount:   reservation.TotalAmount,
		Currency:     reservation.Currency,
		Status:       models.AttemptStatusPending,
	}

	if err := s.bookings.Create(ctx, booking, attempt); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	logger.WithBooking(bookingID).Info("Booking created from reservation",
		"reserve_id", reserveID,
		"amount", reservation.TotalAmount,
		"payment_id", intent.PaymentID)

	return &models.BookReservationResponse{
		BookingID:    bookingID,
		ClientSecret: intent.ClientSecret,
	}, nil
}

// HandleGatewayEvent applies one signed gateway event to booking state.
// Delivery is at-least-once: every branch must be safe to apply twice.
func (s *BookingService) HandleGatewayEvent(ctx context.Context, event *models.GatewayWebhookEvent) error {
	switch event.Type {
	case models.GatewayEventAuthorized:
		err := s.handleAuthorized(ctx, event)
		s.countEvent(event.Type, err)
		return err
	case models.GatewayEventSucceeded:
		err := s.handleSucceeded(ctx, event)
		s.countEvent(event.Type, err)
		return err
	case models.GatewayEventFailed:
		err := s.handleFailed(ctx, event)
		s.countEvent(event.Type, err)
		return err
	default:
		// Intentionally ignored types are acknowledged so the gateway stops
		// retrying over them.
		logger.Get().Info("Ignoring gateway event", "type", event.Type, "event_id", event.EventID)
		metrics.WebhookEvents.WithLabelValues(event.Type, "ignored").Inc()
		return nil
	}
}

func (s *BookingService) countEvent(eventType string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.WebhookEvents.WithLabelValues(eventType, outcome).Inc()
}

// handleAuthorized records that the intent is capturable but not yet captured
func (s *BookingService) handleAuthorized(ctx context.Context, event *models.GatewayWebhookEvent) error {
	booking, err := s.lookupBooking(ctx, event)
	if err != nil {
		return err
	}

	return s.bookings.UpdateStatus(ctx, booking.BookingID, models.BookingStatusInit, booking.PaymentStatus)
}

func (s *BookingService) handleSucceeded(ctx context.Context, event *models.GatewayWebhookEvent) error {
	booking, err := s.lookupBooking(ctx, event)
	if err != nil {
		return err
	}

	// Duplicate delivery of success is a harmless no-op, detected by state
	// comparison so side effects like the confirmation email never repeat.
	if booking.BookingStatus == models.BookingStatusSuccess {
		logger.WithBooking(booking.BookingID).Info("Duplicate success event ignored",
			"event_id", event.EventID)
		return nil
	}

	attempt := booking.CurrentAttempt()
	if attempt == nil {
		return fmt.Errorf("booking %s has no payment attempt", booking.BookingID)
	}

	// An amount that differs from what we asked to charge is never silently
	// reconciled; it fails the booking and surfaces as a hard error.
	if event.Amount != attempt.Amount {
		logger.WithBooking(booking.BookingID).Error("Charged amount mismatch",
			"charged", event.Amount,
			"expected", attempt.Amount,
			"event_id", event.EventID)
		if err := s.handleFailed(ctx, event); err != nil {
			return err
		}
		return apperr.Validationf("charged amount %d does not match expected %d", event.Amount, attempt.Amount)
	}

	tour, err := s.catalog.GetByID(ctx, booking.TourID)
	if err != nil {
		return fmt.Errorf("failed to get tour for cancellation policy: %w", err)
	}

	freeCancellation := tour != nil && tour.FreeCancellation
	attempt.RefundableAmount = refundableAmount(attempt.Amount, freeCancellation)
	attempt.BaseRefundableAmount = refundableAmount(attempt.BaseAmount, freeCancellation)
	attempt.Status = models.AttemptStatusSuccess

	// Card summary and receipt are diagnostics; a gateway hiccup fetching
	// them must not fail an otherwise-complete payment.
	if charge, chargeErr := s.gateway.RetrieveCharge(event.ChargeID); chargeErr != nil {
		logger.WithBooking(booking.BookingID).Error("Failed to retrieve charge details",
			"error", chargeErr,
			"charge_id", event.ChargeID)
	} else {
		attempt.CardBrand = &charge.CardBrand
		attempt.CardLast4 = &charge.CardLast4
		attempt.ReceiptURL = &charge.ReceiptURL
	}

	if err := s.bookings.UpdateAttempt(ctx, attempt); err != nil {
		return fmt.Errorf("failed to update payment attempt: %w", err)
	}

	if err := s.bookings.UpdateStatus(ctx, booking.BookingID, models.BookingStatusSuccess, models.PaymentStatusPaid); err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	// Retire the hold so the delayed-release path becomes a no-op
	if err := s.reservations.Consume(ctx, booking.ReserveID); err != nil {
		logger.WithBooking(booking.BookingID).Error("Failed to consume reservation",
			"error", err,
			"reserve_id", booking.ReserveID)
	}

	s.sendConfirmation(ctx, booking, attempt, tour)

	logger.WithBooking(booking.BookingID).Info("Payment succeeded",
		"amount", attempt.Amount,
		"refundable", attempt.RefundableAmount)

	return nil
}

func (s *BookingService) handleFailed(ctx context.Context, event *models.GatewayWebhookEvent) error {
	booking, err := s.lookupBooking(ctx, event)
	if err != nil {
		return err
	}

	if booking.BookingStatus == models.BookingStatusFailed {
		return nil
	}

	attempt := booking.CurrentAttempt()
	if attempt != nil && event.ChargeID != "" {
		// Card metadata helps the user understand the decline; fetched even
		// on failure, attached without changing the attempt status.
		if charge, chargeErr := s.gateway.RetrieveCharge(event.ChargeID); chargeErr != nil {
			logger.WithBooking(booking.BookingID).Error("Failed to retrieve charge details",
				"error", chargeErr,
				"charge_id", event.ChargeID)
		} else {
			attempt.CardBrand = &charge.CardBrand
			attempt.CardLast4 = &charge.CardLast4
			attempt.ReceiptURL = &charge.ReceiptURL
			if err := s.bookings.UpdateAttempt(ctx, attempt); err != nil {
				logger.WithBooking(booking.BookingID).Error("Failed to update payment attempt",
					"error", err)
			}
		}
	}

	// Inventory is not touched here: the delayed-release callback remains the
	// only seat-return path.
	if err := s.bookings.UpdateStatus(ctx, booking.BookingID, models.BookingStatusFailed, models.PaymentStatusUnpaid); err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	logger.WithBooking(booking.BookingID).Info("Payment failed", "event_id", event.EventID)
	return nil
}

// lookupBooking resolves the booking from event metadata and verifies the
// embedded user id against the stored one (defense against metadata tampering).
func (s *BookingService) lookupBooking(ctx context.Context, event *models.GatewayWebhookEvent) (*models.Booking, error) {
	if event.Metadata.BookingID == "" {
		return nil, apperr.Validationf("event %s carries no booking id", event.EventID)
	}

	booking, err := s.bookings.GetByBookingID(ctx, event.Metadata.BookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, apperr.NotFoundf("booking %s not found", event.Metadata.BookingID)
	}

	if event.Metadata.UserID != booking.UserID {
		return nil, apperr.Validationf("event user does not match booking owner")
	}

	return booking, nil
}

func (s *BookingService) sendConfirmation(ctx context.Context, booking *models.Booking, attempt *models.PaymentAttempt, tour *models.Tour) {
	tourTitle := booking.TourID
	if tour != nil {
		tourTitle = tour.Title
	}

	snapshot := models.BookingSnapshot{
		BookingID:   booking.BookingID,
		TourTitle:   tourTitle,
		StartDate:   booking.StartDate,
		EndDate:     booking.EndDate,
		Passengers:  booking.Passengers,
		AmountPaid:  attempt.Amount,
		Currency:    attempt.Currency,
		BookerName:  booking.Booker.Name,
		BookerEmail: booking.Booker.Email,
	}

	delivered, err := s.notifier.SendBookingConfirmation(snapshot)
	if err != nil {
		logger.WithBooking(booking.BookingID).Error("Failed to send booking confirmation",
			"error", err)
		delivered = false
	}

	if err := s.bookings.SetConfirmationSent(ctx, booking.BookingID, delivered); err != nil {
		logger.WithBooking(booking.BookingID).Error("Failed to record confirmation outcome",
			"error", err)
	}
}

// refundableAmount deducts the fixed non-refundable share when the tour does
// not allow free cancellation.
func refundableAmount(amount int64, freeCancellation bool) int64 {
	if freeCancellation {
		return amount
	}
	return amount - amount*nonRefundablePercent/100
}
