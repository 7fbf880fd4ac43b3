package memory

import (
	"context"

	"giftspin/application"
	"giftspin/domain/interfaces"
	"giftspin/events"
)

// unitOfWork adapts the in-memory store to the application.UnitOfWork
// interface. The store applies mutations immediately under its own lock, so
// Begin and Commit only manage the event flush boundary; there is no real
// rollback.
type unitOfWork struct {
	store                  *Store
	ctx                    context.Context
	transactionalPublisher *events.TransactionalBus
}

type unitOfWorkFactory struct {
	store *Store
	bus   *events.Bus
}

// NewUnitOfWorkFactory creates a unit-of-work factory backed by the
// in-memory store
func NewUnitOfWorkFactory(store *Store, bus *events.Bus) application.UnitOfWorkFactory {
	return &unitOfWorkFactory{store: store, bus: bus}
}

func (f *unitOfWorkFactory) Create() application.UnitOfWork {
	return &unitOfWork{
		store:                  f.store,
		transactionalPublisher: events.NewTransactionalBus(f.bus),
	}
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	u.ctx = ctx
	return nil
}

func (u *unitOfWork) Commit() error {
	u.transactionalPublisher.Flush(u.ctx)
	return nil
}

func (u *unitOfWork) Rollback() error {
	u.transactionalPublisher.Discard()
	return nil
}

func (u *unitOfWork) UserRepository() interfaces.UserRepository {
	return u.store.Users()
}

func (u *unitOfWork) CollectibleRepository() interfaces.CollectibleRepository {
	return u.store.Collectibles()
}

func (u *unitOfWork) UpgradeRepository() interfaces.UpgradeRepository {
	return u.store.Upgrades()
}

func (u *unitOfWork) ReferralRepository() interfaces.ReferralRepository {
	return u.store.Referrals()
}

func (u *unitOfWork) BalanceHistoryRepository() interfaces.BalanceHistoryRepository {
	return u.store.BalanceHistory()
}

func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	return u.transactionalPublisher
}
