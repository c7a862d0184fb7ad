package store

import (
	"context"

	"swapcore/internal/model"
)

// AccountStore is the account balance cache consumed by the swap engine.
type AccountStore interface {
	GetAccount(ctx context.Context, key string) (*model.Account, bool, error)
	UpdateAccount(ctx context.Context, account *model.Account) error
}

// PoolStore is the pool state cache, keyed by pair.
type PoolStore interface {
	GetPool(ctx context.Context, pair string) (*model.AmmPool, bool, error)
	UpdatePool(ctx context.Context, pool *model.AmmPool) error
}

// TickStore is the per-tick state cache, keyed by model.TickKey.
type TickStore interface {
	GetTick(ctx context.Context, key string) (*model.Tick, bool, error)
	UpdateTick(ctx context.Context, tick *model.Tick) error
}

// TickBitmapStore is the initialized-tick bitmap cache, keyed by pool pair.
type TickBitmapStore interface {
	GetTickBitmap(ctx context.Context, poolPair string) (*model.TickBitmap, bool, error)
	UpdateTickBitmap(ctx context.Context, bitmap *model.TickBitmap) error
}

// OrderStore is the order cache, keyed by order identifier.
type OrderStore interface {
	GetOrder(ctx context.Context, identifier string) (*model.AmmOrder, bool, error)
	UpdateOrder(ctx context.Context, order *model.AmmOrder) error
}

// Store bundles every cache collaborator of the swap engine.
type Store interface {
	AccountStore
	PoolStore
	TickStore
	TickBitmapStore
	OrderStore
}
