package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourly/internal/apperr"
	"tourly/internal/models"
)

func newReservationFixture() (*ReservationService, *memReservations, *stubScheduler) {
	reservations := newMemReservations()
	users := &memUsers{items: map[int64]*models.User{
		42: {UserID: 42, Email: "traveler@example.com"},
	}}
	catalog := &stubCatalog{tours: map[string]*models.Tour{"tour-1": testTour(false)}}
	scheduler := &stubScheduler{}

	svc := NewReservationService(reservations, users, catalog, scheduler, &stubPublisher{}, 10*time.Minute, time.Minute)
	return svc, reservations, scheduler
}

func TestCreateReservationPricesOnce(t *testing.T) {
	svc, reservations, scheduler := newReservationFixture()

	resp, err := svc.Create(context.Background(), 42, &models.CreateReservationRequest{
		TourID:    "tour-1",
		StartDate: "2026-09-10",
		EndDate:   "2026-09-14",
		Adults:    2,
		Children:  1,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ReserveID)

	stored, err := reservations.GetByID(context.Background(), resp.ReserveID)
	require.NoError(t, err)
	require.NotNil(t, stored)

	// 2 adults x 10000 + 1 child x 5000
	assert.Equal(t, int64(25000), stored.TotalAmount)
	assert.Equal(t, BaseCurrency, stored.Currency)
	assert.False(t, stored.Released)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), stored.ExpiresAt, 5*time.Second)

	require.Len(t, scheduler.scheduled, 1)
	assert.Equal(t, resp.ReserveID, scheduler.scheduled[0])
	assert.Equal(t, 10*time.Minute, scheduler.delays[0])
}

func TestCreateReservationUnpricedCategory(t *testing.T) {
	svc, _, _ := newReservationFixture()

	// tour-1 publishes no infant price
	_, err := svc.Create(context.Background(), 42, &models.CreateReservationRequest{
		TourID:    "tour-1",
		StartDate: "2026-09-10",
		EndDate:   "2026-09-14",
		Adults:    1,
		Infants:   1,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Contains(t, err.Error(), "infant")
}

func TestCreateReservationInvalidDates(t *testing.T) {
	svc, _, _ := newReservationFixture()

	cases := []struct {
		name  string
		start string
		end   string
	}{
		{"malformed start", "10-09-2026", "2026-09-14"},
		{"malformed end", "2026-09-10", "next friday"},
		{"end before start", "2026-09-14", "2026-09-10"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), 42, &models.CreateReservationRequest{
				TourID:    "tour-1",
				StartDate: tc.start,
				EndDate:   tc.end,
				Adults:    1,
			})
			require.Error(t, err)
			assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		})
	}
}

func TestCreateReservationUnknownUserAndTour(t *testing.T) {
	svc, _, _ := newReservationFixture()

	_, err := svc.Create(context.Background(), 999, &models.CreateReservationRequest{
		TourID: "tour-1", StartDate: "2026-09-10", EndDate: "2026-09-14", Adults: 1,
	})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, err = svc.Create(context.Background(), 42, &models.CreateReservationRequest{
		TourID: "no-such-tour", StartDate: "2026-09-10", EndDate: "2026-09-14", Adults: 1,
	})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestCreateReservationSurvivesSchedulerOutage(t *testing.T) {
	svc, reservations, scheduler := newReservationFixture()
	scheduler.fail = true

	resp, err := svc.Create(context.Background(), 42, &models.CreateReservationRequest{
		TourID: "tour-1", StartDate: "2026-09-10", EndDate: "2026-09-14", Adults: 1,
	})
	require.NoError(t, err)

	stored, _ := reservations.GetByID(context.Background(), resp.ReserveID)
	require.NotNil(t, stored)
}

func TestGetDetailsAppliesExpirySkew(t *testing.T) {
	svc, reservations, _ := newReservationFixture()

	expiresAt := time.Now().Add(10 * time.Minute).Truncate(time.Millisecond)
	res := &models.Reservation{
		ReserveID:   "res-1",
		UserID:      42,
		TourID:      "tour-1",
		StartDate:   time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		Passengers:  models.Passengers{Adults: 2},
		TotalAmount: 20000,
		Currency:    BaseCurrency,
		ExpiresAt:   expiresAt,
	}
	require.NoError(t, reservations.Create(context.Background(), res))

	details, err := svc.GetDetails(context.Background(), 42, "res-1")
	require.NoError(t, err)

	assert.Equal(t, expiresAt.Add(-time.Minute).UnixMilli(), details.ExpiresAt)
	assert.Equal(t, "2026-09-10", details.StartDate)
	assert.Equal(t, int64(20000), details.TotalAmount)
	assert.Equal(t, "Altai Highlands Trek", details.Tour.Title)
	assert.Equal(t, 5, details.Tour.DurationDays)
}

func TestGetDetailsOwnerMismatchIsBadRequest(t *testing.T) {
	svc, reservations, _ := newReservationFixture()

	require.NoError(t, reservations.Create(context.Background(), &models.Reservation{
		ReserveID: "res-1",
		UserID:    42,
		TourID:    "tour-1",
		ExpiresAt: time.Now().Add(time.Minute),
	}))

	_, err := svc.GetDetails(context.Background(), 7, "res-1")
	require.Error(t, err)
	// Existence must not leak to a non-owner, so this is validation, not forbidden
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = svc.GetDetails(context.Background(), 42, "missing")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestPriceReservation(t *testing.T) {
	pricing := models.TourPricing{Adult: int64p(100), Teen: int64p(80)}

	total, err := priceReservation(pricing, models.Passengers{Adults: 2, Teens: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(280), total)

	_, err = priceReservation(pricing, models.Passengers{Adults: 1, Children: 2})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = priceReservation(pricing, models.Passengers{Adults: -1})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	// Zero heads in an unpriced category is fine
	total, err = priceReservation(pricing, models.Passengers{Adults: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(100), total)
}
