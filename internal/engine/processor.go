package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"swapcore/internal/ammmath"
	"swapcore/internal/model"
	"swapcore/internal/store"
)

// errNoTickLiquidity is raised when the bitmap points at a tick the tick
// store does not hold.
var errNoTickLiquidity = errors.New("Pool has no liquidity for this price range")

// Processor executes swap orders against pool state: fetch, validate, run
// the tick-crossing loop, then commit every touched entity or roll all of
// them back. The caller serializes calls per pool; the processor itself
// holds no locks.
type Processor struct {
	accounts store.AccountStore
	pools    store.PoolStore
	ticks    store.TickStore
	bitmaps  store.TickBitmapStore
	orders   store.OrderStore
	logger   *zap.Logger
}

// NewProcessor builds a Processor with its cache collaborators.
func NewProcessor(accounts store.AccountStore, pools store.PoolStore, ticks store.TickStore, bitmaps store.TickBitmapStore, orders store.OrderStore, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		accounts: accounts,
		pools:    pools,
		ticks:    ticks,
		bitmaps:  bitmaps,
		orders:   orders,
		logger:   logger,
	}
}

// Process runs one swap request through the full pipeline and returns the
// outcome for downstream notification.
func (p *Processor) Process(ctx context.Context, request model.SwapRequest) model.SwapResult {
	if _, ok, err := p.orders.GetOrder(ctx, request.Identifier); err != nil {
		return model.SwapResult{Identifier: request.Identifier, ErrorMessage: fmt.Sprintf("load order: %v", err)}
	} else if ok {
		return model.SwapResult{
			Identifier:   request.Identifier,
			ErrorMessage: fmt.Sprintf("Order with identifier %s already exists", request.Identifier),
		}
	}

	order := model.NewAmmOrder(
		request.Identifier, request.PoolPair,
		request.OwnerAccountKey0, request.OwnerAccountKey1,
		request.ZeroForOne, request.AmountSpecified, request.Slippage,
	)
	order.MarkProcessing()

	data, validationErrs, err := p.fetchData(ctx, order)
	if err != nil {
		order.MarkError(err.Error())
		return p.failure(order, nil)
	}
	if len(validationErrs) == 0 {
		validationErrs = p.validateSwap(data, order)
	}
	if len(validationErrs) > 0 {
		order.MarkError(strings.Join(validationErrs, "; "))
		p.logger.Warn("swap validation failed",
			zap.String("identifier", order.Identifier),
			zap.String("pool", order.PoolPair),
			zap.Strings("errors", validationErrs),
		)
		var pool *model.AmmPool
		if data != nil {
			pool = data.pool
		}
		return p.failure(order, pool)
	}

	state, err := p.executeSwap(ctx, data, order)
	if err != nil {
		order.MarkError(err.Error())
		p.rollbackChanges(ctx, data, state)
		return p.failure(order, data.pool)
	}

	if err := p.updateNewData(data, order, state); err != nil {
		order.MarkError(err.Error())
		p.rollbackChanges(ctx, data, state)
		return p.failure(order, data.pool)
	}

	if err := p.saveToCache(ctx, data, order, state); err != nil {
		order.MarkError(fmt.Sprintf("save swap state: %v", err))
		p.rollbackChanges(ctx, data, state)
		return p.failure(order, data.pool)
	}

	p.logger.Info("swap processed",
		zap.String("identifier", order.Identifier),
		zap.String("pool", order.PoolPair),
		zap.Bool("zero_for_one", order.ZeroForOne),
		zap.String("amount0", order.Amount0.String()),
		zap.String("amount1", order.Amount1.String()),
		zap.Int32("initial_tick", order.InitialTick),
		zap.Int32("final_tick", order.FinalTick),
		zap.Int("crossed_ticks", len(state.crossedTicks)),
	)

	return model.SwapResult{
		Identifier: order.Identifier,
		Success:    true,
		Order:      order,
		Pool:       data.pool,
	}
}

func (p *Processor) failure(order *model.AmmOrder, pool *model.AmmPool) model.SwapResult {
	return model.SwapResult{
		Identifier:   order.Identifier,
		ErrorMessage: order.ErrorMessage,
		Order:        order,
		Pool:         pool,
	}
}

// fetchData loads the pool, both accounts and the tick bitmap, and snapshots
// them before any mutation. Missing entities are validation errors and no
// snapshot is taken.
func (p *Processor) fetchData(ctx context.Context, order *model.AmmOrder) (*swapData, []string, error) {
	var validationErrs []string

	pool, ok, err := p.pools.GetPool(ctx, order.PoolPair)
	if err != nil {
		return nil, nil, fmt.Errorf("load pool %s: %w", order.PoolPair, err)
	}
	if !ok {
		validationErrs = append(validationErrs, fmt.Sprintf("Pool not found: %s", order.PoolPair))
	}

	account0, ok, err := p.accounts.GetAccount(ctx, order.OwnerAccountKey0)
	if err != nil {
		return nil, nil, fmt.Errorf("load account %s: %w", order.OwnerAccountKey0, err)
	}
	if !ok {
		validationErrs = append(validationErrs, fmt.Sprintf("Account not found: %s", order.OwnerAccountKey0))
	}

	account1, ok, err := p.accounts.GetAccount(ctx, order.OwnerAccountKey1)
	if err != nil {
		return nil, nil, fmt.Errorf("load account %s: %w", order.OwnerAccountKey1, err)
	}
	if !ok {
		validationErrs = append(validationErrs, fmt.Sprintf("Account not found: %s", order.OwnerAccountKey1))
	}

	if len(validationErrs) > 0 {
		return &swapData{pool: pool, account0: account0, account1: account1}, validationErrs, nil
	}

	bitmap, ok, err := p.bitmaps.GetTickBitmap(ctx, order.PoolPair)
	if err != nil {
		return nil, nil, fmt.Errorf("load tick bitmap %s: %w", order.PoolPair, err)
	}
	if !ok {
		bitmap = model.NewTickBitmap(order.PoolPair)
	}

	data := &swapData{
		pool:     pool,
		account0: account0,
		account1: account1,
		bitmap:   bitmap,
	}
	data.snapshot()
	return data, nil, nil
}

// validateSwap collects every violation before anything is mutated.
func (p *Processor) validateSwap(data *swapData, order *model.AmmOrder) []string {
	var errs []string

	if !data.pool.Active {
		errs = append(errs, "Pool is not active")
	}
	if data.pool.Liquidity.Sign() <= 0 {
		errs = append(errs, "Pool has no liquidity")
	}
	if !order.IsProcessing() {
		errs = append(errs, "Order is not in processing state")
	}

	// Exact output is bounded by the slippage check after the loop, so
	// only exact input requires an upfront balance check.
	if order.IsExactInput() {
		if order.ZeroForOne {
			if data.account0.AvailableBalance.LessThan(order.AmountSpecified) {
				errs = append(errs, "Insufficient token0 balance")
			}
		} else {
			if data.account1.AvailableBalance.LessThan(order.AmountSpecified) {
				errs = append(errs, "Insufficient token1 balance")
			}
		}
	}

	return errs
}

// executeSwap runs the tick-crossing loop over the swap working state.
func (p *Processor) executeSwap(ctx context.Context, data *swapData, order *model.AmmOrder) (*swapState, error) {
	pool := data.pool
	exactInput := order.IsExactInput()

	estimate, err := ammmath.CalculateEstimateAmount(order.AmountSpecified, pool.SqrtPrice, pool.FeePercentage, order.ZeroForOne, exactInput)
	if err != nil {
		return nil, err
	}

	sqrtPriceLimit, err := p.sqrtPriceLimit(pool, order)
	if err != nil {
		return nil, err
	}

	state := newSwapState(pool, order.AmountSpecified)

	for !state.amountRemaining.IsZero() && !reachedSqrtPriceLimit(state.sqrtPrice, sqrtPriceLimit, order.ZeroForOne) {
		nextTick, sentinel := findNextInitializedTick(data.bitmap, state.tick, order.ZeroForOne)

		sqrtPriceTick := sqrtPriceLimit
		if !sentinel {
			sqrtPriceTick = ammmath.GetSqrtRatioAtTick(nextTick)
		}
		sqrtPriceTarget := clampToSqrtPriceLimit(sqrtPriceTick, sqrtPriceLimit, order.ZeroForOne)

		step, err := ammmath.ComputeSwapStep(state.sqrtPrice, sqrtPriceTarget, state.liquidity, state.amountRemaining, pool.FeePercentage)
		if err != nil {
			return state, err
		}

		// Landing exactly on the next initialized tick is progress even at
		// zero width: the tick still has to be crossed. Anything else that
		// moves neither price nor amounts is a stuck swap.
		crossesTick := !sentinel && step.SqrtPriceNext.Equal(sqrtPriceTick)
		if !crossesTick && step.SqrtPriceNext.Equal(state.sqrtPrice) && step.AmountIn.IsZero() && step.AmountOut.IsZero() {
			return state, errors.New("swap made no progress")
		}

		if state.liquidity.Sign() > 0 {
			perLiquidity := step.FeeAmount.Div(state.liquidity)
			if order.ZeroForOne {
				state.feeGrowthGlobal0 = state.feeGrowthGlobal0.Add(perLiquidity)
			} else {
				state.feeGrowthGlobal1 = state.feeGrowthGlobal1.Add(perLiquidity)
			}
		}

		spent := step.AmountIn.Add(step.FeeAmount)
		if exactInput {
			state.amountRemaining = state.amountRemaining.Sub(spent)
			if state.amountRemaining.Sign() < 0 {
				state.amountRemaining = decimal.Zero
			}
		} else {
			state.amountRemaining = state.amountRemaining.Add(step.AmountOut)
			if state.amountRemaining.Sign() > 0 {
				state.amountRemaining = decimal.Zero
			}
		}

		if order.ZeroForOne {
			state.amount0 = state.amount0.Add(spent)
			state.amount1 = state.amount1.Add(step.AmountOut)
		} else {
			state.amount1 = state.amount1.Add(spent)
			state.amount0 = state.amount0.Add(step.AmountOut)
		}

		if crossesTick {
			tick, err := p.getTick(ctx, pool.Pair, nextTick)
			if err != nil {
				return state, err
			}
			state.tickBackups = append(state.tickBackups, tick.Clone())
			p.crossTick(state, tick, order.ZeroForOne)
			if order.ZeroForOne {
				state.tick = nextTick - 1
			} else {
				state.tick = nextTick
			}
		} else if !step.SqrtPriceNext.Equal(state.sqrtPrice) {
			newTick, err := ammmath.GetTickAtSqrtRatio(step.SqrtPriceNext)
			if err != nil {
				return state, err
			}
			state.tick = newTick
		}

		state.sqrtPrice = step.SqrtPriceNext
	}

	if !ammmath.CheckSlippage(state.amount0, state.amount1, estimate, order.ZeroForOne, exactInput, order.Slippage) {
		return state, errors.New("Slippage tolerance exceeded")
	}

	return state, nil
}

// sqrtPriceLimit bounds how far the price may move; without a slippage
// tolerance the bound is the edge of the tick range.
func (p *Processor) sqrtPriceLimit(pool *model.AmmPool, order *model.AmmOrder) (decimal.Decimal, error) {
	if !order.Slippage.Valid {
		if order.ZeroForOne {
			return ammmath.GetSqrtRatioAtTick(ammmath.MinTick), nil
		}
		return ammmath.GetSqrtRatioAtTick(ammmath.MaxTick), nil
	}

	var limit decimal.Decimal
	if order.ZeroForOne {
		limit = pool.SqrtPrice.Mul(decimal.NewFromInt(1).Sub(order.Slippage.Decimal))
	} else {
		limit = pool.SqrtPrice.Mul(decimal.NewFromInt(1).Add(order.Slippage.Decimal))
	}
	if limit.Sign() <= 0 {
		return ammmath.GetSqrtRatioAtTick(ammmath.MinTick), nil
	}
	return limit, nil
}

// findNextInitializedTick jumps to the nearest initialized tick in the swap
// direction, or a MinTick/MaxTick sentinel if the bitmap has none left.
func findNextInitializedTick(bitmap *model.TickBitmap, currentTick int32, zeroForOne bool) (int32, bool) {
	if zeroForOne {
		if tick, ok := bitmap.PrevSetBit(currentTick); ok {
			return tick, false
		}
		return ammmath.MinTick, true
	}
	if tick, ok := bitmap.NextSetBit(currentTick + 1); ok {
		return tick, false
	}
	return ammmath.MaxTick, true
}

// reachedSqrtPriceLimit reports whether the price has moved to or past the
// slippage bound in the swap direction.
func reachedSqrtPriceLimit(sqrtPrice, sqrtPriceLimit decimal.Decimal, zeroForOne bool) bool {
	if zeroForOne {
		return sqrtPrice.LessThanOrEqual(sqrtPriceLimit)
	}
	return sqrtPrice.GreaterThanOrEqual(sqrtPriceLimit)
}

// clampToSqrtPriceLimit bounds one step's target so no step moves past the
// slippage limit, even when the next initialized tick lies beyond it. A step
// stopped at the limit leaves that tick uncrossed.
func clampToSqrtPriceLimit(sqrtPriceTick, sqrtPriceLimit decimal.Decimal, zeroForOne bool) decimal.Decimal {
	if zeroForOne {
		if sqrtPriceTick.LessThan(sqrtPriceLimit) {
			return sqrtPriceLimit
		}
	} else if sqrtPriceTick.GreaterThan(sqrtPriceLimit) {
		return sqrtPriceLimit
	}
	return sqrtPriceTick
}

// getTick loads a tick the bitmap reported as initialized.
func (p *Processor) getTick(ctx context.Context, poolPair string, index int32) (*model.Tick, error) {
	tick, ok, err := p.ticks.GetTick(ctx, model.TickKey(poolPair, index))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errNoTickLiquidity
	}
	return tick, nil
}

// crossTick moves the tick's fee accumulators to the other side of the
// price and folds its net liquidity into the running in-range liquidity.
func (p *Processor) crossTick(state *swapState, tick *model.Tick, zeroForOne bool) {
	tick.Cross(state.feeGrowthGlobal0, state.feeGrowthGlobal1)

	net := tick.LiquidityNet
	if zeroForOne {
		net = net.Neg()
	}
	state.liquidity = state.liquidity.Add(net)

	if !tick.Initialized {
		tick.Initialized = true
		tick.InitializedAt = time.Now().UnixMilli()
	}

	state.crossedTicks = append(state.crossedTicks, tick)
}

// updateNewData applies the loop results to the in-memory pool, accounts and
// order; nothing is persisted yet.
func (p *Processor) updateNewData(data *swapData, order *model.AmmOrder, state *swapState) error {
	initialTick := data.pool.CurrentTick

	if order.ZeroForOne {
		data.account0.Debit(state.amount0)
		data.account1.Credit(state.amount1)
		data.pool.TotalValueLockedToken0 = data.pool.TotalValueLockedToken0.Add(state.amount0)
		data.pool.TotalValueLockedToken1 = data.pool.TotalValueLockedToken1.Sub(state.amount1)
	} else {
		data.account1.Debit(state.amount1)
		data.account0.Credit(state.amount0)
		data.pool.TotalValueLockedToken1 = data.pool.TotalValueLockedToken1.Add(state.amount1)
		data.pool.TotalValueLockedToken0 = data.pool.TotalValueLockedToken0.Sub(state.amount0)
	}

	data.pool.Liquidity = state.liquidity
	data.pool.CurrentTick = state.tick
	data.pool.SqrtPrice = state.sqrtPrice
	data.pool.FeeGrowthGlobal0 = state.feeGrowthGlobal0
	data.pool.FeeGrowthGlobal1 = state.feeGrowthGlobal1

	if !order.UpdateAfterExecution(state.amount0, state.amount1, state.tick, initialTick, state.feeGrowthGlobal0, state.feeGrowthGlobal1) {
		return errors.New("Failed to update order after execution")
	}
	if !order.MarkSuccess() {
		return errors.New("Failed to mark order as success")
	}
	return nil
}

// saveToCache persists every entity the swap touched.
func (p *Processor) saveToCache(ctx context.Context, data *swapData, order *model.AmmOrder, state *swapState) error {
	if err := p.pools.UpdatePool(ctx, data.pool); err != nil {
		return fmt.Errorf("update pool: %w", err)
	}
	if err := p.accounts.UpdateAccount(ctx, data.account0); err != nil {
		return fmt.Errorf("update account0: %w", err)
	}
	if err := p.accounts.UpdateAccount(ctx, data.account1); err != nil {
		return fmt.Errorf("update account1: %w", err)
	}
	if err := p.orders.UpdateOrder(ctx, order); err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if err := p.bitmaps.UpdateTickBitmap(ctx, data.bitmap); err != nil {
		return fmt.Errorf("update tick bitmap: %w", err)
	}
	for _, tick := range state.crossedTicks {
		if err := p.ticks.UpdateTick(ctx, tick); err != nil {
			return fmt.Errorf("update tick %s: %w", tick.Key(), err)
		}
	}
	return nil
}

// rollbackChanges writes the pre-swap snapshots back. Secondary failures are
// logged and swallowed so they never mask the original error.
func (p *Processor) rollbackChanges(ctx context.Context, data *swapData, state *swapState) {
	if data == nil || data.backupPool == nil {
		return
	}

	if err := p.pools.UpdatePool(ctx, data.backupPool); err != nil {
		p.logger.Error("rollback pool failed", zap.String("pool", data.backupPool.Pair), zap.Error(err))
	}
	if err := p.accounts.UpdateAccount(ctx, data.backupAccount0); err != nil {
		p.logger.Error("rollback account0 failed", zap.String("account", data.backupAccount0.Key), zap.Error(err))
	}
	if err := p.accounts.UpdateAccount(ctx, data.backupAccount1); err != nil {
		p.logger.Error("rollback account1 failed", zap.String("account", data.backupAccount1.Key), zap.Error(err))
	}
	if err := p.bitmaps.UpdateTickBitmap(ctx, data.backupBitmap); err != nil {
		p.logger.Error("rollback tick bitmap failed", zap.String("pool", data.backupBitmap.PoolPair), zap.Error(err))
	}
	if state != nil {
		for _, tick := range state.tickBackups {
			if err := p.ticks.UpdateTick(ctx, tick); err != nil {
				p.logger.Error("rollback tick failed", zap.String("tick", tick.Key()), zap.Error(err))
			}
		}
	}
}
