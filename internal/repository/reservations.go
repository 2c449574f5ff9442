package repository

import (
	"context"
	"database/sql"
	"time"

	"tourly/internal/database"
	"tourly/internal/models"
)

type ReservationRepository struct {
	db *database.DB
}

func NewReservationRepository(db *database.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) Create(ctx context.Context, res *models.Reservation) error {
	query := `
		INSERT INTO reservations (reserve_id, user_id, tour_id, start_date, end_date,
		                          adults, teens, children, infants,
		                          total_amount, currency, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at`

	return r.db.QueryRowContext(ctx, query,
		res.ReserveID,
		res.UserID,
		res.TourID,
		res.StartDate,
		res.EndDate,
		res.Passengers.Adults,
		res.Passengers.Teens,
		res.Passengers.Children,
		res.Passengers.Infants,
		res.TotalAmount,
		res.Currency,
		res.ExpiresAt,
	).Scan(&res.CreatedAt)
}

func (r *ReservationRepository) GetByID(ctx context.Context, reserveID string) (*models.Reservation, error) {
	res := &models.Reservation{}
	query := `
		SELECT reserve_id, user_id, tour_id, start_date, end_date,
		       adults, teens, children, infants,
		       total_amount, currency, expires_at, released, created_at
		FROM reservations
		WHERE reserve_id = $1`

	err := r.db.QueryRowContext(ctx, query, reserveID).Scan(
		&res.ReserveID,
		&res.UserID,
		&res.TourID,
		&res.StartDate,
		&res.EndDate,
		&res.Passengers.Adults,
		&res.Passengers.Teens,
		&res.Passengers.Children,
		&res.Passengers.Infants,
		&res.TotalAmount,
		&res.Currency,
		&res.ExpiresAt,
		&res.Released,
		&res.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return res, err
}

// MarkReleased flips the released flag with a conditional update. The first
// caller wins; redelivered release events see zero affected rows and stop,
// which is what makes the seat credit exactly-once.
func (r *ReservationRepository) MarkReleased(ctx context.Context, reserveID string) (bool, error) {
	query := `
		UPDATE reservations
		SET released = TRUE
		WHERE reserve_id = $1 AND released = FALSE`

	result, err := r.db.ExecContext(ctx, query, reserveID)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// ClearReleased reverts a released flag when the seat credit that should have
// followed it failed, so a later delivery can try again.
func (r *ReservationRepository) ClearReleased(ctx context.Context, reserveID string) error {
	query := `
		UPDATE reservations
		SET released = FALSE
		WHERE reserve_id = $1`

	_, err := r.db.ExecContext(ctx, query, reserveID)
	return err
}

// Consume retires the hold after a successful payment: the expiry is forced to
// now and the released flag is set so the delayed-release path becomes a no-op.
func (r *ReservationRepository) Consume(ctx context.Context, reserveID string) error {
	query := `
		UPDATE reservations
		SET expires_at = NOW(), released = TRUE
		WHERE reserve_id = $1`

	_, err := r.db.ExecContext(ctx, query, reserveID)
	return err
}

// GetDueForRelease lists holds past expiry whose seats were never credited
// back. Used by the sweeper as a backstop for missed release messages.
func (r *ReservationRepository) GetDueForRelease(ctx context.Context, asOf time.Time, limit int) ([]models.Reservation, error) {
	var reservations []models.Reservation
	query := `
		SELECT reserve_id, user_id, tour_id, start_date, end_date,
		       adults, teens, children, infants,
		       total_amount, currency, expires_at, released, created_at
		FROM reservations
		WHERE expires_at < $1 AND released = FALSE
		ORDER BY expires_at ASC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, asOf, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var res models.Reservation
		err := rows.Scan(
			&res.ReserveID,
			&res.UserID,
			&res.TourID,
			&res.StartDate,
			&res.EndDate,
			&res.Passengers.Adults,
			&res.Passengers.Teens,
			&res.Passengers.Children,
			&res.Passengers.Infants,
			&res.TotalAmount,
			&res.Currency,
			&res.ExpiresAt,
			&res.Released,
			&res.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}

	return reservations, rows.Err()
}
