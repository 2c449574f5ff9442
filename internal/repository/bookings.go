package repository

import (
	"context"
	"database/sql"

	"tourly/internal/database"
	"tourly/internal/models"
)

type BookingRepository struct {
	db *database.DB
}

func NewBookingRepository(db *database.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create writes the booking row and its first payment attempt in one
// transaction so a half-created booking can never be observed.
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking, attempt *models.PaymentAttempt) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	bookingQuery := `
		INSERT INTO bookings (booking_id, reserve_id, user_id, tour_id, start_date, end_date,
		                      adults, teens, children, infants,
		                      booker_name, booker_email, booker_phone,
		                      booking_status, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at`

	err = tx.QueryRowContext(ctx, bookingQuery,
		booking.BookingID,
		booking.ReserveID,
		booking.UserID,
		booking.TourID,
		booking.StartDate,
		booking.EndDate,
		booking.Passengers.Adults,
		booking.Passengers.Teens,
		booking.Passengers.Children,
		booking.Passengers.Infants,
		booking.Booker.Name,
		booking.Booker.Email,
		booking.Booker.Phone,
		booking.BookingStatus,
		booking.PaymentStatus,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return err
	}

	attemptQuery := `
		INSERT INTO payment_attempts (booking_id, payment_id, client_secret, amount, base_amount,
		                              refundable_amount, base_refundable_amount, currency, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, attempt_date`

	err = tx.QueryRowContext(ctx, attemptQuery,
		booking.BookingID,
		attempt.PaymentID,
		attempt.ClientSecret,
		attempt.Amount,
		attempt.BaseAmount,
		attempt.RefundableAmount,
		attempt.BaseRefundableAmount,
		attempt.Currency,
		attempt.Status,
	).Scan(&attempt.ID, &attempt.AttemptDate)
	if err != nil {
		return err
	}

	attempt.BookingID = booking.BookingID
	booking.Attempts = append(booking.Attempts, *attempt)

	return tx.Commit()
}

func (r *BookingRepository) GetByBookingID(ctx context.Context, bookingID string) (*models.Booking, error) {
	return r.getOne(ctx, `WHERE booking_id = $1`, bookingID)
}

func (r *BookingRepository) GetByReserveID(ctx context.Context, reserveID string) (*models.Booking, error) {
	return r.getOne(ctx, `WHERE reserve_id = $1`, reserveID)
}

func (r *BookingRepository) getOne(ctx context.Context, where string, arg any) (*models.Booking, error) {
	booking := &models.Booking{}
	query := `
		SELECT id, booking_id, reserve_id, user_id, tour_id, start_date, end_date,
		       adults, teens, children, infants,
		       booker_name, booker_email, booker_phone,
		       booking_status, payment_status, confirmation_sent, created_at, updated_at
		FROM bookings ` + where

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&booking.ID,
		&booking.BookingID,
		&booking.ReserveID,
		&booking.UserID,
		&booking.TourID,
		&booking.StartDate,
		&booking.EndDate,
		&booking.Passengers.Adults,
		&booking.Passengers.Teens,
		&booking.Passengers.Children,
		&booking.Passengers.Infants,
		&booking.Booker.Name,
		&booking.Booker.Email,
		&booking.Booker.Phone,
		&booking.BookingStatus,
		&booking.PaymentStatus,
		&booking.ConfirmationSent,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	attempts, err := r.GetAttempts(ctx, booking.BookingID)
	if err != nil {
		return nil, err
	}
	booking.Attempts = attempts

	return booking, nil
}

// GetAttempts returns the payment history oldest-first; the current attempt is
// always the last element.
func (r *BookingRepository) GetAttempts(ctx context.Context, bookingID string) ([]models.PaymentAttempt, error) {
	var attempts []models.PaymentAttempt
	query := `
		SELECT id, booking_id, payment_id, client_secret, amount, base_amount,
		       refundable_amount, base_refundable_amount, currency,
		       card_brand, card_last4, receipt_url, status, attempt_date
		FROM payment_attempts
		WHERE booking_id = $1
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var attempt models.PaymentAttempt
		err := rows.Scan(
			&attempt.ID,
			&attempt.BookingID,
			&attempt.PaymentID,
			&attempt.ClientSecret,
			&attempt.Amount,
			&attempt.BaseAmount,
			&attempt.RefundableAmount,
			&attempt.BaseRefundableAmount,
			&attempt.Currency,
			&attempt.CardBrand,
			&attempt.CardLast4,
			&attempt.ReceiptURL,
			&attempt.Status,
			&attempt.AttemptDate,
		)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, attempt)
	}

	return attempts, rows.Err()
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, bookingID, bookingStatus, paymentStatus string) error {
	query := `
		UPDATE bookings
		SET booking_status = $1, payment_status = $2, updated_at = NOW()
		WHERE booking_id = $3`

	_, err := r.db.ExecContext(ctx, query, bookingStatus, paymentStatus, bookingID)
	return err
}

// UpdateAttempt persists the outcome fields of a single attempt row
func (r *BookingRepository) UpdateAttempt(ctx context.Context, attempt *models.PaymentAttempt) error {
	query := `
		UPDATE payment_attempts
		SET status = $1, refundable_amount = $2, base_refundable_amount = $3,
		    card_brand = $4, card_last4 = $5, receipt_url = $6
		WHERE id = $7`

	_, err := r.db.ExecContext(ctx, query,
		attempt.Status,
		attempt.RefundableAmount,
		attempt.BaseRefundableAmount,
		attempt.CardBrand,
		attempt.CardLast4,
		attempt.ReceiptURL,
		attempt.ID,
	)
	return err
}

func (r *BookingRepository) SetConfirmationSent(ctx context.Context, bookingID string, sent bool) error {
	query := `UPDATE bookings SET confirmation_sent = $1, updated_at = NOW() WHERE booking_id = $2`
	_, err := r.db.ExecContext(ctx, query, sent, bookingID)
	return err
}
