package service

import (
	"context"
	"errors"
	"time"

	"tourly/internal/external"
	"tourly/internal/models"
)

// In-memory collaborators for service tests. Each fake keeps just enough state
// to observe the calls the service under test is supposed to make.

type memReservations struct {
	items map[string]*models.Reservation

	markCalls int
	failMark  bool
	consumed  []string
}

func newMemReservations() *memReservations {
	return &memReservations{items: make(map[string]*models.Reservation)}
}

func (m *memReservations) Create(_ context.Context, res *models.Reservation) error {
	cp := *res
	cp.CreatedAt = time.Now()
	m.items[res.ReserveID] = &cp
	return nil
}

func (m *memReservations) GetByID(_ context.Context, reserveID string) (*models.Reservation, error) {
	res, ok := m.items[reserveID]
	if !ok {
		return nil, nil
	}
	cp := *res
	return &cp, nil
}

func (m *memReservations) MarkReleased(_ context.Context, reserveID string) (bool, error) {
	if m.failMark {
		return false, errors.New("mark failed")
	}
	m.markCalls++
	res, ok := m.items[reserveID]
	if !ok || res.Released {
		return false, nil
	}
	res.Released = true
	return true, nil
}

func (m *memReservations) ClearReleased(_ context.Context, reserveID string) error {
	if res, ok := m.items[reserveID]; ok {
		res.Released = false
	}
	return nil
}

func (m *memReservations) Consume(_ context.Context, reserveID string) error {
	m.consumed = append(m.consumed, reserveID)
	if res, ok := m.items[reserveID]; ok {
		res.ExpiresAt = time.Now()
		res.Released = true
	}
	return nil
}

type memBookings struct {
	items map[string]*models.Booking // keyed by booking id

	statusUpdates []string
	confirmations []bool
}

func newMemBookings() *memBookings {
	return &memBookings{items: make(map[string]*models.Booking)}
}

func (m *memBookings) Create(_ context.Context, booking *models.Booking, attempt *models.PaymentAttempt) error {
	cp := *booking
	attempt.BookingID = booking.BookingID
	attempt.AttemptDate = time.Now()
	cp.Attempts = append(cp.Attempts, *attempt)
	m.items[booking.BookingID] = &cp
	return nil
}

func (m *memBookings) GetByBookingID(_ context.Context, bookingID string) (*models.Booking, error) {
	b, ok := m.items[bookingID]
	if !ok {
		return nil, nil
	}
	cp := *b
	cp.Attempts = append([]models.PaymentAttempt(nil), b.Attempts...)
	return &cp, nil
}

func (m *memBookings) GetByReserveID(_ context.Context, reserveID string) (*models.Booking, error) {
	for _, b := range m.items {
		if b.ReserveID == reserveID {
			cp := *b
			cp.Attempts = append([]models.PaymentAttempt(nil), b.Attempts...)
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memBookings) UpdateStatus(_ context.Context, bookingID, bookingStatus, paymentStatus string) error {
	b, ok := m.items[bookingID]
	if !ok {
		return errors.New("booking not found")
	}
	b.BookingStatus = bookingStatus
	b.PaymentStatus = paymentStatus
	m.statusUpdates = append(m.statusUpdates, bookingStatus+"/"+paymentStatus)
	return nil
}

func (m *memBookings) UpdateAttempt(_ context.Context, attempt *models.PaymentAttempt) error {
	b, ok := m.items[attempt.BookingID]
	if !ok {
		return errors.New("booking not found")
	}
	for i := range b.Attempts {
		if b.Attempts[i].PaymentID == attempt.PaymentID {
			b.Attempts[i] = *attempt
			return nil
		}
	}
	return errors.New("attempt not found")
}

func (m *memBookings) SetConfirmationSent(_ context.Context, bookingID string, sent bool) error {
	if b, ok := m.items[bookingID]; ok {
		b.ConfirmationSent = sent
	}
	m.confirmations = append(m.confirmations, sent)
	return nil
}

type memInventory struct {
	credits map[string]int // tourID -> total seats credited
	calls   int
	fail    bool
}

func newMemInventory() *memInventory {
	return &memInventory{credits: make(map[string]int)}
}

func (m *memInventory) CreditSeats(_ context.Context, tourID string, _ time.Time, seats int) error {
	m.calls++
	if m.fail {
		return errors.New("credit failed")
	}
	m.credits[tourID] += seats
	return nil
}

type memUsers struct {
	items map[int64]*models.User
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

type stubCatalog struct {
	tours map[string]*models.Tour

	occurrenceErr error
}

func (s *stubCatalog) GetByID(_ context.Context, tourID string) (*models.Tour, error) {
	t, ok := s.tours[tourID]
	if !ok {
		return nil, nil
	}
	return t, nil
}

func (s *stubCatalog) ResolveOccurrence(_ context.Context, _ *models.Tour, start, _ time.Time) (time.Time, error) {
	if s.occurrenceErr != nil {
		return time.Time{}, s.occurrenceErr
	}
	return start, nil
}

type stubGateway struct {
	intents    int
	intentErr  error
	charge     *external.ChargeResponse
	chargeErr  error
	lastAmount int64
}

func (s *stubGateway) CreateIntent(amount int64, currency, bookingID string, userID int64) (*external.IntentResponse, error) {
	s.intents++
	s.lastAmount = amount
	if s.intentErr != nil {
		return nil, s.intentErr
	}
	return &external.IntentResponse{
		Success:      true,
		PaymentID:    "pay_" + bookingID,
		ClientSecret: "secret_" + bookingID,
		Amount:       amount,
		Currency:     currency,
	}, nil
}

func (s *stubGateway) RetrieveCharge(chargeID string) (*external.ChargeResponse, error) {
	if s.chargeErr != nil {
		return nil, s.chargeErr
	}
	if s.charge != nil {
		return s.charge, nil
	}
	return &external.ChargeResponse{
		Success:   true,
		ChargeID:  chargeID,
		CardBrand: "visa",
		CardLast4: "4242",
	}, nil
}

func (s *stubGateway) Refund(paymentID string, amount int64) (*external.RefundResponse, error) {
	return &external.RefundResponse{Success: true, Amount: amount}, nil
}

type stubNotifier struct {
	sent []models.BookingSnapshot
	fail bool
}

func (s *stubNotifier) SendBookingConfirmation(snapshot models.BookingSnapshot) (bool, error) {
	if s.fail {
		return false, errors.New("notification service unavailable")
	}
	s.sent = append(s.sent, snapshot)
	return true, nil
}

type stubScheduler struct {
	scheduled []string
	delays    []time.Duration
	fail      bool
}

func (s *stubScheduler) ScheduleRelease(_ context.Context, reserveID string, delay time.Duration) error {
	if s.fail {
		return errors.New("nats unavailable")
	}
	s.scheduled = append(s.scheduled, reserveID)
	s.delays = append(s.delays, delay)
	return nil
}

type stubPublisher struct {
	subjects []string
}

func (s *stubPublisher) Publish(subject string, _ interface{}) error {
	s.subjects = append(s.subjects, subject)
	return nil
}

func int64p(v int64) *int64 { return &v }

func testTour(free bool) *models.Tour {
	return &models.Tour{
		ID:           "tour-1",
		Title:        "Altai Highlands Trek",
		Destination:  "Altai",
		DurationDays: 5,
		Pricing: models.TourPricing{
			Adult: int64p(10000),
			Teen:  int64p(7500),
			Child: int64p(5000),
		},
		FreeCancellation: free,
	}
}
