package application

import (
	"context"
	"time"

	"giftspin/domain/interfaces"
	"giftspin/domain/services"
	"giftspin/domain/utils"

	"github.com/go-co-op/gocron/v2"
	log "github.com/sirupsen/logrus"
)

// UpgradeSweepWorker periodically resolves matured pending upgrades so
// outcomes land without the user polling. The lazy resolve-on-read path in
// UpgradeService.ListForUser stays the source of truth; this worker only
// adds responsiveness.
type UpgradeSweepWorker struct {
	uowFactory UnitOfWorkFactory
	rand       interfaces.Rand
	scheduler  gocron.Scheduler
}

// NewUpgradeSweepWorker creates a new upgrade sweep worker
func NewUpgradeSweepWorker(uowFactory UnitOfWorkFactory, rand interfaces.Rand) *UpgradeSweepWorker {
	if rand == nil {
		rand = utils.SystemRand{}
	}
	return &UpgradeSweepWorker{
		uowFactory: uowFactory,
		rand:       rand,
	}
}

// Start schedules the sweep at the given interval. Call Stop to shut the
// scheduler down.
func (w *UpgradeSweepWorker) Start(ctx context.Context, interval time.Duration) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if err := w.sweep(ctx); err != nil {
				log.WithError(err).Error("Upgrade sweep failed")
			}
		}),
	)
	if err != nil {
		return err
	}

	scheduler.Start()
	w.scheduler = scheduler

	log.WithField("interval", interval).Info("Upgrade sweep worker started")
	return nil
}

// Stop shuts down the scheduler
func (w *UpgradeSweepWorker) Stop() error {
	if w.scheduler == nil {
		return nil
	}
	return w.scheduler.Shutdown()
}

func (w *UpgradeSweepWorker) sweep(ctx context.Context) error {
	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	upgradeService := services.NewUpgradeService(
		uow.UserRepository(),
		uow.CollectibleRepository(),
		uow.UpgradeRepository(),
		uow.BalanceHistoryRepository(),
		uow.EventBus(),
		w.rand,
	)

	resolved, err := upgradeService.SweepMatured(ctx, time.Now().UTC())
	if err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	if resolved > 0 {
		log.WithField("resolved", resolved).Info("Swept matured upgrades")
	}
	return nil
}
