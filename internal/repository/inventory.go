package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tourly/internal/database"
	"tourly/internal/models"
)

type InventoryRepository struct {
	db *database.DB
}

func NewInventoryRepository(db *database.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) GetSlot(ctx context.Context, tourID string, date time.Time) (*models.InventorySlot, error) {
	slot := &models.InventorySlot{}
	query := `
		SELECT tour_id, slot_date, available_seats, updated_at
		FROM inventory_slots
		WHERE tour_id = $1 AND slot_date = $2`

	err := r.db.QueryRowContext(ctx, query, tourID, truncateToDay(date)).Scan(
		&slot.TourID,
		&slot.SlotDate,
		&slot.AvailableSeats,
		&slot.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return slot, err
}

// CreditSeats returns seats to the slot for (tourID, day-truncated date) in a
// single UPDATE so concurrent credits compose without lost updates.
func (r *InventoryRepository) CreditSeats(ctx context.Context, tourID string, date time.Time, seats int) error {
	query := `
		UPDATE inventory_slots
		SET available_seats = available_seats + $3, updated_at = NOW()
		WHERE tour_id = $1 AND slot_date = $2`

	result, err := r.db.ExecContext(ctx, query, tourID, truncateToDay(date), seats)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("inventory slot not found for tour %s on %s", tourID, truncateToDay(date).Format("2006-01-02"))
	}

	return nil
}

// DebitSeats takes seats from the slot, guarded so the counter never goes
// negative. Returns false when not enough seats remain.
func (r *InventoryRepository) DebitSeats(ctx context.Context, tourID string, date time.Time, seats int) (bool, error) {
	query := `
		UPDATE inventory_slots
		SET available_seats = available_seats - $3, updated_at = NOW()
		WHERE tour_id = $1 AND slot_date = $2 AND available_seats >= $3`

	result, err := r.db.ExecContext(ctx, query, tourID, truncateToDay(date), seats)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// truncateToDay drops the time-of-day component; inventory is bucketed per date
func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
