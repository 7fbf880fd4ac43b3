package cmd

import (
	"context"
	"fmt"
	"time"

	"giftspin/application"
	"giftspin/config"
	"giftspin/database"
	domainevents "giftspin/domain/events"
	"giftspin/domain/utils"
	"giftspin/events"
	"giftspin/repository"
	"giftspin/repository/memory"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting giftspin backend...")

	cfg := config.Get()

	eventBus := events.NewBus()
	subscribeEventLogging(eventBus)

	var uowFactory application.UnitOfWorkFactory
	var db *database.DB

	if cfg.DatabaseURL != "" {
		log.Info("Connecting to database...")
		var err error
		db, err = database.NewConnection(ctx, cfg.GetDatabaseURL())
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		log.Info("Database connection established")

		uowFactory = repository.NewUnitOfWorkFactory(db, eventBus)
	} else {
		// No database configured: run on the in-memory store. All state is
		// lost on restart.
		log.Warn("DATABASE_URL not set, using in-memory store")
		uowFactory = memory.NewUnitOfWorkFactory(memory.NewStore(), eventBus)
	}

	sweepWorker := application.NewUpgradeSweepWorker(uowFactory, utils.SystemRand{})
	if err := sweepWorker.Start(ctx, cfg.UpgradeSweepInterval); err != nil {
		return fmt.Errorf("failed to start upgrade sweep worker: %w", err)
	}

	log.Infof("Backend is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	log.Info("Shutting down...")

	if err := sweepWorker.Stop(); err != nil {
		log.WithError(err).Error("Error stopping upgrade sweep worker")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if db != nil {
		log.Info("Closing database connection...")
		db.Close()
	}

	select {
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Info("Shutdown completed")
	}

	return nil
}

// subscribeEventLogging attaches debug logging for the domain events the
// notification collaborator would normally consume
func subscribeEventLogging(bus *events.Bus) {
	bus.Subscribe(domainevents.EventTypeCollectibleWon, func(ctx context.Context, event domainevents.Event) {
		if e, ok := event.(domainevents.CollectibleWonEvent); ok {
			log.WithFields(log.Fields{
				"userID": e.UserID,
				"prize":  e.Name,
				"value":  e.Value,
			}).Debug("Collectible won")
		}
	})
	bus.Subscribe(domainevents.EventTypeUpgradeResolved, func(ctx context.Context, event domainevents.Event) {
		if e, ok := event.(domainevents.UpgradeResolvedEvent); ok {
			log.WithFields(log.Fields{
				"upgradeID": e.UpgradeID,
				"userID":    e.UserID,
				"won":       e.Won,
			}).Debug("Upgrade resolved")
		}
	})
}
