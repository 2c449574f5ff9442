package service

import (
	"time"
)

type Services struct {
	Reservations *ReservationService
	Bookings     *BookingService
	Release      *ReleaseService
}

type Deps struct {
	Reservations ReservationStore
	Bookings     BookingStore
	Inventory    InventoryStore
	Users        UserStore
	Catalog      TourCatalog
	Gateway      PaymentGateway
	Notifier     Notifier
	Scheduler    Scheduler
	Publisher    Publisher

	HoldDuration time.Duration
	ExpirySkew   time.Duration
}

func NewServices(d Deps) *Services {
	return &Services{
		Reservations: NewReservationService(d.Reservations, d.Users, d.Catalog, d.Scheduler, d.Publisher, d.HoldDuration, d.ExpirySkew),
		Bookings:     NewBookingService(d.Reservations, d.Bookings, d.Catalog, d.Gateway, d.Notifier),
		Release:      NewReleaseService(d.Reservations, d.Bookings, d.Inventory, d.Publisher),
	}
}
