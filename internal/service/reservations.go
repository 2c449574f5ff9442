package service

import (
	"context"
	"fmt"
	"time"

	"tourly/internal/apperr"
	"tourly/internal/logger"
	"tourly/internal/models"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// BaseCurrency is the single currency every hold is priced in
const BaseCurrency = "USD"

type ReservationService struct {
	reservations ReservationStore
	users        UserStore
	catalog      TourCatalog
	scheduler    Scheduler
	publisher    Publisher

	holdDuration time.Duration
	expirySkew   time.Duration
}

func NewReservationService(reservations ReservationStore, users UserStore, catalog TourCatalog, scheduler Scheduler, publisher Publisher, holdDuration, expirySkew time.Duration) *ReservationService {
	return &ReservationService{
		reservations: reservations,
		users:        users,
		catalog:      catalog,
		scheduler:    scheduler,
		publisher:    publisher,
		holdDuration: holdDuration,
		expirySkew:   expirySkew,
	}
}

// Create places a time-bounded hold. The total amount is priced once, here,
// from the tour's published per-category prices; no inventory is touched.
func (s *ReservationService) Create(ctx context.Context, userID int64, req *models.CreateReservationRequest) (*models.CreateReservationResponse, error) {
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, apperr.Validationf("invalid start_date: %s", req.StartDate)
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, apperr.Validationf("invalid end_date: %s", req.EndDate)
	}
	if endDate.Before(startDate) {
		return nil, apperr.Validationf("end_date precedes start_date")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, apperr.NotFoundf("user %d not found", userID)
	}

	tour, err := s.catalog.GetByID(ctx, req.TourID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tour: %w", err)
	}
	if tour == nil {
		return nil, apperr.NotFoundf("tour %s not found", req.TourID)
	}
	if tour.Pricing.Adult == nil {
		return nil, apperr.NotFoundf("tour %s has no published pricing", req.TourID)
	}

	if _, err := s.catalog.ResolveOccurrence(ctx, tour, startDate, endDate); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "date range does not match a tour occurrence", err)
	}

	passengers := models.Passengers{
		Adults:   req.Adults,
		Teens:    req.Teens,
		Children: req.Children,
		Infants:  req.Infants,
	}

	totalAmount, err := priceReservation(tour.Pricing, passengers)
	if err != nil {
		return nil, err
	}

	reservation := &models.Reservation{
		ReserveID:   uuid.New().String(),
		UserID:      userID,
		TourID:      req.TourID,
		StartDate:   startDate,
		EndDate:     endDate,
		Passengers:  passengers,
		TotalAmount: totalAmount,
		Currency:    BaseCurrency,
		ExpiresAt:   time.Now().Add(s.holdDuration),
	}

	if err := s.reservations.Create(ctx, reservation); err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	// The sweeper picks up holds whose schedule call was lost, so a scheduling
	// failure must not fail the reservation.
	if err := s.scheduler.ScheduleRelease(ctx, reservation.ReserveID, s.holdDuration); err != nil {
		logger.WithReservation(reservation.ReserveID).Error("Failed to schedule delayed release",
			"error", err)
	}

	if s.publisher != nil {
		created := models.ReservationCreatedEvent{
			ReserveID: reservation.ReserveID,
			TourID:    reservation.TourID,
			UserID:    userID,
			Seats:     passengers.Total(),
			ExpiresAt: reservation.ExpiresAt,
			Timestamp: time.Now(),
		}
		if err := s.publisher.Publish(models.EventReservationCreated, created); err != nil {
			logger.WithReservation(reservation.ReserveID).Error("Failed to publish created event",
				"error", err)
		}
	}

	return &models.CreateReservationResponse{ReserveID: reservation.ReserveID}, nil
}

// priceReservation sums category price x category count over the categories
// the tour actually sells. A head count in an unpriced category is a caller error.
func priceReservation(pricing models.TourPricing, p models.Passengers) (int64, error) {
	var total int64

	categories := []struct {
		name  string
		price *int64
		count int
	}{
		{"adult", pricing.Adult, p.Adults},
		{"teen", pricing.Teen, p.Teens},
		{"child", pricing.Child, p.Children},
		{"infant", pricing.Infant, p.Infants},
	}

	for _, cat := range categories {
		if cat.count == 0 {
			continue
		}
		if cat.count < 0 {
			return 0, apperr.Validationf("negative %s count", cat.name)
		}
		if cat.price == nil {
			return 0, apperr.Validationf("tour does not sell %s seats", cat.name)
		}
		total += *cat.price * int64(cat.count)
	}

	return total, nil
}

// GetDetails returns the hold with a tour display snapshot. The expiry the
// client sees is pulled back by the skew so the client never believes it has
// more time than the server honors.
func (s *ReservationService) GetDetails(ctx context.Context, userID int64, reserveID string) (*models.ReservationDetailsResponse, error) {
	reservation, err := s.reservations.GetByID(ctx, reserveID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	if reservation == nil {
		return nil, apperr.NotFoundf("reservation %s not found", reserveID)
	}

	// A guessed reserve id must not expose another user's hold. Answering
	// bad-request rather than forbidden avoids confirming existence.
	if reservation.UserID != userID {
		return nil, apperr.Validationf("reservation does not belong to caller")
	}

	tour, err := s.catalog.GetByID(ctx, reservation.TourID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tour: %w", err)
	}
	if tour == nil {
		return nil, fmt.Errorf("tour %s missing for reservation %s", reservation.TourID, reserveID)
	}

	return &models.ReservationDetailsResponse{
		ReserveID:   reservation.ReserveID,
		TourID:      reservation.TourID,
		StartDate:   reservation.StartDate.Format(dateLayout),
		EndDate:     reservation.EndDate.Format(dateLayout),
		Passengers:  reservation.Passengers,
		TotalAmount: reservation.TotalAmount,
		Currency:    reservation.Currency,
		ExpiresAt:   reservation.ExpiresAt.Add(-s.expirySkew).UnixMilli(),
		Tour: models.TourSnapshot{
			ID:           tour.ID,
			Title:        tour.Title,
			Destination:  tour.Destination,
			DurationDays: tour.DurationDays,
		},
	}, nil
}
