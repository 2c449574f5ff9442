package repository

import (
	"tourly/internal/database"
)

type Repositories struct {
	Inventory    *InventoryRepository
	Reservations *ReservationRepository
	Bookings     *BookingRepository
	Users        *UserRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Inventory:    NewInventoryRepository(db),
		Reservations: NewReservationRepository(db),
		Bookings:     NewBookingRepository(db),
		Users:        NewUserRepository(db),
	}
}
