package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"swapcore/internal/model"
)

// Store provides Postgres persistence for the swap engine caches.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) GetAccount(ctx context.Context, key string) (*model.Account, bool, error) {
	var balance decimal.Decimal
	row := s.pool.QueryRow(ctx, `SELECT available_balance FROM accounts WHERE account_key=$1`, key)
	if err := row.Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &model.Account{Key: key, AvailableBalance: balance}, true, nil
}

func (s *Store) UpdateAccount(ctx context.Context, account *model.Account) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO accounts (account_key, available_balance, created_at, updated_at)
		VALUES ($1, $2, now(), now())
		ON CONFLICT (account_key) DO UPDATE
		SET available_balance = EXCLUDED.available_balance, updated_at = now()
	`, account.Key, account.AvailableBalance)
	return err
}

func (s *Store) GetPool(ctx context.Context, pair string) (*model.AmmPool, bool, error) {
	pool := &model.AmmPool{Pair: pair}
	row := s.pool.QueryRow(ctx, `
		SELECT token0, token1, fee_percentage, fee_protocol_percentage, tick_spacing,
		       current_tick, sqrt_price, liquidity, tvl_token0, tvl_token1,
		       fee_growth_global0, fee_growth_global1, active
		FROM amm_pools WHERE pair=$1
	`, pair)
	err := row.Scan(
		&pool.Token0, &pool.Token1, &pool.FeePercentage, &pool.FeeProtocolPercentage,
		&pool.TickSpacing, &pool.CurrentTick, &pool.SqrtPrice, &pool.Liquidity,
		&pool.TotalValueLockedToken0, &pool.TotalValueLockedToken1,
		&pool.FeeGrowthGlobal0, &pool.FeeGrowthGlobal1, &pool.Active,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return pool, true, nil
}

func (s *Store) UpdatePool(ctx context.Context, pool *model.AmmPool) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO amm_pools (
			pair, token0, token1, fee_percentage, fee_protocol_percentage, tick_spacing,
			current_tick, sqrt_price, liquidity, tvl_token0, tvl_token1,
			fee_growth_global0, fee_growth_global1, active, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,now(),now())
		ON CONFLICT (pair) DO UPDATE SET
			token0 = EXCLUDED.token0,
			token1 = EXCLUDED.token1,
			fee_percentage = EXCLUDED.fee_percentage,
			fee_protocol_percentage = EXCLUDED.fee_protocol_percentage,
			tick_spacing = EXCLUDED.tick_spacing,
			current_tick = EXCLUDED.current_tick,
			sqrt_price = EXCLUDED.sqrt_price,
			liquidity = EXCLUDED.liquidity,
			tvl_token0 = EXCLUDED.tvl_token0,
			tvl_token1 = EXCLUDED.tvl_token1,
			fee_growth_global0 = EXCLUDED.fee_growth_global0,
			fee_growth_global1 = EXCLUDED.fee_growth_global1,
			active = EXCLUDED.active,
			updated_at = now()
	`,
		pool.Pair, pool.Token0, pool.Token1, pool.FeePercentage, pool.FeeProtocolPercentage,
		pool.TickSpacing, pool.CurrentTick, pool.SqrtPrice, pool.Liquidity,
		pool.TotalValueLockedToken0, pool.TotalValueLockedToken1,
		pool.FeeGrowthGlobal0, pool.FeeGrowthGlobal1, pool.Active,
	)
	return err
}

func (s *Store) GetTick(ctx context.Context, key string) (*model.Tick, bool, error) {
	tick := &model.Tick{}
	row := s.pool.QueryRow(ctx, `
		SELECT pool_pair, tick_index, liquidity_gross, liquidity_net,
		       fee_growth_outside0, fee_growth_outside1, initialized, initialized_at
		FROM ticks WHERE tick_key=$1
	`, key)
	err := row.Scan(
		&tick.PoolPair, &tick.Index, &tick.LiquidityGross, &tick.LiquidityNet,
		&tick.FeeGrowthOutside0, &tick.FeeGrowthOutside1, &tick.Initialized, &tick.InitializedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return tick, true, nil
}

func (s *Store) UpdateTick(ctx context.Context, tick *model.Tick) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO ticks (
			tick_key, pool_pair, tick_index, liquidity_gross, liquidity_net,
			fee_growth_outside0, fee_growth_outside1, initialized, initialized_at,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,now(),now())
		ON CONFLICT (tick_key) DO UPDATE SET
			liquidity_gross = EXCLUDED.liquidity_gross,
			liquidity_net = EXCLUDED.liquidity_net,
			fee_growth_outside0 = EXCLUDED.fee_growth_outside0,
			fee_growth_outside1 = EXCLUDED.fee_growth_outside1,
			initialized = EXCLUDED.initialized,
			initialized_at = EXCLUDED.initialized_at,
			updated_at = now()
	`,
		tick.Key(), tick.PoolPair, tick.Index, tick.LiquidityGross, tick.LiquidityNet,
		tick.FeeGrowthOutside0, tick.FeeGrowthOutside1, tick.Initialized, tick.InitializedAt,
	)
	return err
}

func (s *Store) GetTickBitmap(ctx context.Context, poolPair string) (*model.TickBitmap, bool, error) {
	var words []byte
	row := s.pool.QueryRow(ctx, `SELECT words FROM tick_bitmaps WHERE pool_pair=$1`, poolPair)
	if err := row.Scan(&words); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	bitmap := model.NewTickBitmap(poolPair)
	if err := json.Unmarshal(words, &bitmap.Words); err != nil {
		return nil, false, fmt.Errorf("decode bitmap words: %w", err)
	}
	return bitmap, true, nil
}

func (s *Store) UpdateTickBitmap(ctx context.Context, bitmap *model.TickBitmap) error {
	words, err := json.Marshal(bitmap.Words)
	if err != nil {
		return fmt.Errorf("encode bitmap words: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO tick_bitmaps (pool_pair, words, created_at, updated_at)
		VALUES ($1, $2, now(), now())
		ON CONFLICT (pool_pair) DO UPDATE
		SET words = EXCLUDED.words, updated_at = now()
	`, bitmap.PoolPair, words)
	return err
}

func (s *Store) GetOrder(ctx context.Context, identifier string) (*model.AmmOrder, bool, error) {
	var payload []byte
	row := s.pool.QueryRow(ctx, `SELECT payload FROM amm_orders WHERE identifier=$1`, identifier)
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	order := &model.AmmOrder{}
	if err := json.Unmarshal(payload, order); err != nil {
		return nil, false, fmt.Errorf("decode order: %w", err)
	}
	return order, true, nil
}

func (s *Store) UpdateOrder(ctx context.Context, order *model.AmmOrder) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("encode order: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO amm_orders (identifier, status, payload, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (identifier) DO UPDATE
		SET status = EXCLUDED.status, payload = EXCLUDED.payload, updated_at = now()
	`, order.Identifier, string(order.Status), payload)
	return err
}
