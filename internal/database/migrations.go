package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createUsersTable,
		createInventorySlotsTable,
		createReservationsTable,
		createBookingsTable,
		createPaymentAttemptsTable,
		createReservationExpiryIndex,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    user_id SERIAL PRIMARY KEY,
    email VARCHAR(255) UNIQUE NOT NULL,
    password_hash VARCHAR(64) NOT NULL,
    first_name VARCHAR(100) NOT NULL,
    surname VARCHAR(100) NOT NULL,
    registered_at TIMESTAMP NOT NULL DEFAULT NOW(),
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    last_logged_in TIMESTAMP NOT NULL DEFAULT NOW()
);`

// Seat counts are pre-seeded by catalog management; this core only moves them.
const createInventorySlotsTable = `
CREATE TABLE IF NOT EXISTS inventory_slots (
    tour_id VARCHAR(64) NOT NULL,
    slot_date DATE NOT NULL,
    available_seats INTEGER NOT NULL DEFAULT 0 CHECK (available_seats >= 0),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
    PRIMARY KEY (tour_id, slot_date)
);`

const createReservationsTable = `
CREATE TABLE IF NOT EXISTS reservations (
    reserve_id UUID PRIMARY KEY,
    user_id BIGINT NOT NULL,
    tour_id VARCHAR(64) NOT NULL,
    start_date DATE NOT NULL,
    end_date DATE NOT NULL,
    adults INTEGER NOT NULL DEFAULT 0,
    teens INTEGER NOT NULL DEFAULT 0,
    children INTEGER NOT NULL DEFAULT 0,
    infants INTEGER NOT NULL DEFAULT 0,
    total_amount BIGINT NOT NULL,
    currency VARCHAR(3) NOT NULL DEFAULT 'USD',
    expires_at TIMESTAMPTZ NOT NULL,
    released BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

const createBookingsTable = `
CREATE TABLE IF NOT EXISTS bookings (
    id BIGSERIAL PRIMARY KEY,
    booking_id UUID UNIQUE NOT NULL,
    reserve_id UUID UNIQUE NOT NULL,
    user_id BIGINT NOT NULL,
    tour_id VARCHAR(64) NOT NULL,
    start_date DATE NOT NULL,
    end_date DATE NOT NULL,
    adults INTEGER NOT NULL DEFAULT 0,
    teens INTEGER NOT NULL DEFAULT 0,
    children INTEGER NOT NULL DEFAULT 0,
    infants INTEGER NOT NULL DEFAULT 0,
    booker_name VARCHAR(200) NOT NULL DEFAULT '',
    booker_email VARCHAR(255) NOT NULL DEFAULT '',
    booker_phone VARCHAR(50) NOT NULL DEFAULT '',
    booking_status VARCHAR(20) NOT NULL,
    payment_status VARCHAR(20) NOT NULL,
    confirmation_sent BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

const createPaymentAttemptsTable = `
CREATE TABLE IF NOT EXISTS payment_attempts (
    id BIGSERIAL PRIMARY KEY,
    booking_id UUID NOT NULL REFERENCES bookings(booking_id),
    payment_id VARCHAR(128) NOT NULL,
    client_secret VARCHAR(256) NOT NULL,
    amount BIGINT NOT NULL,
    base_amount BIGINT NOT NULL,
    refundable_amount BIGINT NOT NULL DEFAULT 0,
    base_refundable_amount BIGINT NOT NULL DEFAULT 0,
    currency VARCHAR(3) NOT NULL,
    card_brand VARCHAR(32),
    card_last4 VARCHAR(4),
    receipt_url TEXT,
    status VARCHAR(20) NOT NULL,
    attempt_date TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

const createReservationExpiryIndex = `
CREATE INDEX IF NOT EXISTS idx_reservations_expiry
    ON reservations (expires_at)
    WHERE released = FALSE;`
