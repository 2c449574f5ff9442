package consumers

import (
	"context"
	"log/slog"

	"tourly/internal/config"
	"tourly/internal/database"
	"tourly/internal/messaging"
	"tourly/internal/models"
	"tourly/internal/repository"
	"tourly/internal/service"
)

type ConsumerService struct {
	db       *database.DB
	nats     *messaging.NATSClient
	repos    *repository.Repositories
	handlers *Handlers

	// Release shared with the sweeper job
	Release *service.ReleaseService
}

func NewConsumerService(cfg *config.Config) (*ConsumerService, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		return nil, err
	}

	repos := repository.NewRepositories(db)

	release := service.NewReleaseService(repos.Reservations, repos.Bookings, repos.Inventory, natsClient)

	return &ConsumerService{
		db:       db,
		nats:     natsClient,
		repos:    repos,
		handlers: NewHandlers(release),
		Release:  release,
	}, nil
}

func (cs *ConsumerService) Repositories() *repository.Repositories {
	return cs.repos
}

func (cs *ConsumerService) Start() error {
	slog.Info("Starting NATS consumers...")

	_, err := cs.nats.SubscribeQueue(models.SubjectReservationRelease, "consumers", cs.handlers.HandleReservationRelease)
	if err != nil {
		return err
	}

	slog.Info("All consumers started successfully")
	return nil
}

func (cs *ConsumerService) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down consumer service...")

	if cs.nats != nil {
		if err := cs.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if cs.db != nil {
		if err := cs.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
