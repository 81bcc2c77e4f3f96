// Package sim implements the trading session: a 24-tick simulated day in
// which the player starts from an initial allocation, trades against
// randomly drifting prices, and receives a performance summary at the end.
package sim

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	apperrors "legacy-guardians/internal/errors"
	"legacy-guardians/internal/market"
	"legacy-guardians/internal/models"
	"legacy-guardians/internal/report"
)

// DefaultTickInterval paces the live session loop at one tick per 3s.
const DefaultTickInterval = 3 * time.Second

// DefaultCapital is the starting capital when none is configured.
var DefaultCapital = decimal.NewFromInt(5000)

// Publisher receives every recorded performance sample, for live watchers.
type Publisher interface {
	Publish(sample models.PerformanceSample)
}

// Config describes how a session starts.
type Config struct {
	// Capital is the starting capital in dollars.
	Capital decimal.Decimal
	// Allocations maps asset keys to the dollar amount invested up front.
	// Whatever capital is not allocated stays as cash.
	Allocations map[string]decimal.Decimal
	// TickInterval overrides the Run loop cadence. Zero means default.
	TickInterval time.Duration
	// Rand seeds the price generator. Nil means time-seeded.
	Rand *rand.Rand
	// Publisher, if set, receives every recorded sample.
	Publisher Publisher
}

// Session owns all mutable state of one simulated trading day: the price
// generator, the portfolio, the cash balance and the trade log. All state
// transitions go through Tick, Buy, Sell and End under one mutex; ticks
// and trades may arrive from different goroutines.
type Session struct {
	mu sync.Mutex

	gen      *market.Generator
	holdings map[string]*models.Holding
	cash     decimal.Decimal
	capital  decimal.Decimal
	trades   []models.TradeAction
	recorder *Recorder

	publisher Publisher
	logger    zerolog.Logger

	tickInterval time.Duration
	ended        bool
	startedAt    time.Time
}

// NewSession validates the configuration, seeds the initial allocation at
// catalog listing prices and records the tick-0 sample.
func NewSession(cfg Config, logger zerolog.Logger) (*Session, error) {
	capital := cfg.Capital
	if capital.IsZero() {
		capital = DefaultCapital
	}
	if capital.IsNegative() {
		return nil, apperrors.NewValidationError("capital", capital.String(), "starting capital must be positive")
	}

	interval := cfg.TickInterval
	if interval <= 0 {
		interval = DefaultTickInterval
	}

	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &Session{
		gen:          market.NewGeneratorWithRand(rng, logger),
		holdings:     make(map[string]*models.Holding),
		cash:         capital,
		capital:      capital,
		recorder:     NewRecorder(),
		publisher:    cfg.Publisher,
		logger:       logger.With().Str("component", "session").Logger(),
		tickInterval: interval,
		startedAt:    time.Now(),
	}

	for asset, amount := range cfg.Allocations {
		def, ok := market.Lookup(asset)
		if !ok {
			return nil, apperrors.NewValidationError("allocations", asset, "asset not in catalog")
		}
		if amount.IsNegative() {
			return nil, apperrors.NewValidationError("allocations", asset, "allocation must be non-negative")
		}
		if amount.IsZero() {
			continue
		}
		if amount.GreaterThan(s.cash) {
			return nil, apperrors.Wrapf(apperrors.ErrInsufficientFunds,
				"allocating %s to %s with %s cash remaining", amount, asset, s.cash)
		}
		shares := amount.Div(def.ListPrice)
		s.holdings[asset] = &models.Holding{
			Asset:        asset,
			Shares:       shares,
			AvgCost:      def.ListPrice,
			CurrentPrice: def.ListPrice,
		}
		s.cash = s.cash.Sub(amount)
	}

	s.record()

	s.logger.Info().
		Str("capital", capital.String()).
		Str("cash", s.cash.String()).
		Int("positions", len(s.holdings)).
		Msg("session started")

	return s, nil
}

// record appends the current state to the performance series and publishes
// it. Caller must hold s.mu.
func (s *Session) record() {
	sample := models.PerformanceSample{
		Tick:   s.gen.Tick(),
		Total:  s.totalValueLocked(),
		Prices: s.gen.Prices(),
	}
	s.recorder.Append(sample)
	if s.publisher != nil {
		s.publisher.Publish(sample)
	}
}

// totalValueLocked recomputes cash + Σ shares×price. Caller must hold s.mu.
func (s *Session) totalValueLocked() decimal.Decimal {
	total := s.cash
	for _, h := range s.holdings {
		total = total.Add(h.Value())
	}
	return total
}

// Tick advances prices by one step, marks holdings to the new prices and
// records a sample. It reports false once the trading day is over.
func (s *Session) Tick() (models.PerformanceSample, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return models.PerformanceSample{}, false
	}

	prices, tick, ok := s.gen.Advance()
	if !ok {
		return models.PerformanceSample{}, false
	}

	for asset, h := range s.holdings {
		if p, found := prices[asset]; found {
			h.CurrentPrice = p
		}
	}

	sample := models.PerformanceSample{
		Tick:   tick,
		Total:  s.totalValueLocked(),
		Prices: prices,
	}
	s.recorder.Append(sample)
	if s.publisher != nil {
		s.publisher.Publish(sample)
	}

	s.logger.Debug().
		Int("tick", tick).
		Str("total_value", sample.Total.StringFixed(2)).
		Msg("tick recorded")

	return sample, true
}

// Run drives the session with a wall-clock ticker until the trading day
// completes or the context is cancelled. It does not call End; the caller
// decides when to collect the summary.
func (s *Session) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, ok := s.Tick(); !ok {
				return nil
			}
		}
	}
}

// Buy purchases qty units of asset at the current price. Overdrawing buys
// are rejected outright; a rejected buy changes nothing. On success the
// average cost basis is blended across old and new shares.
func (s *Session) Buy(asset string, qty decimal.Decimal) (models.TradeAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return models.TradeAction{}, apperrors.NewTradeError(asset, string(models.SideBuy), "session over", apperrors.ErrSessionEnded)
	}
	if !qty.IsPositive() {
		return models.TradeAction{}, apperrors.NewTradeError(asset, string(models.SideBuy), "quantity must be positive", apperrors.ErrInvalidQuantity)
	}
	price, ok := s.gen.Price(asset)
	if !ok {
		return models.TradeAction{}, apperrors.NewTradeError(asset, string(models.SideBuy), "asset not in catalog", apperrors.ErrUnknownAsset)
	}

	cost := qty.Mul(price)
	if cost.GreaterThan(s.cash) {
		return models.TradeAction{}, apperrors.NewTradeError(asset, string(models.SideBuy), "cost exceeds available cash", apperrors.ErrInsufficientFunds)
	}

	h, exists := s.holdings[asset]
	if !exists {
		h = &models.Holding{Asset: asset, CurrentPrice: price}
		s.holdings[asset] = h
	}

	oldShares := h.Shares
	newShares := oldShares.Add(qty)
	if oldShares.IsZero() {
		h.AvgCost = price
	} else {
		h.AvgCost = oldShares.Mul(h.AvgCost).Add(qty.Mul(price)).Div(newShares)
	}
	h.Shares = newShares
	h.CurrentPrice = price
	s.cash = s.cash.Sub(cost)

	action := models.TradeAction{
		Side:     models.SideBuy,
		Asset:    asset,
		Quantity: qty,
		Price:    price,
		Tick:     s.gen.Tick(),
		Time:     time.Now(),
	}
	s.trades = append(s.trades, action)

	s.logger.Info().
		Str("asset", asset).
		Str("qty", qty.String()).
		Str("price", price.StringFixed(2)).
		Str("cash", s.cash.StringFixed(2)).
		Msg("buy executed")

	return action, nil
}

// Sell disposes of up to qty units of asset at the current price. The sold
// quantity is clamped to the held shares so an exit never fails for asking
// too much; the average cost basis is left untouched.
func (s *Session) Sell(asset string, qty decimal.Decimal) (models.TradeAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return models.TradeAction{}, apperrors.NewTradeError(asset, string(models.SideSell), "session over", apperrors.ErrSessionEnded)
	}
	if !qty.IsPositive() {
		return models.TradeAction{}, apperrors.NewTradeError(asset, string(models.SideSell), "quantity must be positive", apperrors.ErrInvalidQuantity)
	}
	h, exists := s.holdings[asset]
	if !exists || !h.Shares.IsPositive() {
		return models.TradeAction{}, apperrors.NewTradeError(asset, string(models.SideSell), "nothing held", apperrors.ErrNoHolding)
	}
	price, ok := s.gen.Price(asset)
	if !ok {
		return models.TradeAction{}, apperrors.NewTradeError(asset, string(models.SideSell), "asset not in catalog", apperrors.ErrUnknownAsset)
	}

	sold := qty
	if sold.GreaterThan(h.Shares) {
		sold = h.Shares
	}
	h.Shares = h.Shares.Sub(sold)
	h.CurrentPrice = price
	s.cash = s.cash.Add(sold.Mul(price))

	action := models.TradeAction{
		Side:     models.SideSell,
		Asset:    asset,
		Quantity: sold,
		Price:    price,
		Tick:     s.gen.Tick(),
		Time:     time.Now(),
	}
	s.trades = append(s.trades, action)

	s.logger.Info().
		Str("asset", asset).
		Str("qty", sold.String()).
		Str("price", price.StringFixed(2)).
		Str("cash", s.cash.StringFixed(2)).
		Msg("sell executed")

	return action, nil
}

// Snapshot returns an immutable copy of the portfolio, cash and tick. The
// copy is what gets handed to the advisory bridge, so later ticks cannot
// race the advisory payload.
func (s *Session) Snapshot() models.PortfolioView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() models.PortfolioView {
	holdings := make(map[string]models.Holding, len(s.holdings))
	for asset, h := range s.holdings {
		holdings[asset] = *h
	}
	return models.PortfolioView{
		Holdings: holdings,
		Cash:     s.cash,
		Tick:     s.gen.Tick(),
	}
}

// TotalValue recomputes the current mark-to-market portfolio value.
func (s *Session) TotalValue() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalValueLocked()
}

// Cash returns the current cash balance.
func (s *Session) Cash() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cash
}

// Capital returns the starting capital.
func (s *Session) Capital() decimal.Decimal {
	return s.capital
}

// Samples returns a copy of the recorded performance series.
func (s *Session) Samples() []models.PerformanceSample {
	return s.recorder.Samples()
}

// Recorder exposes the performance series for CSV export.
func (s *Session) Recorder() *Recorder {
	return s.recorder
}

// Trades returns a copy of the executed trade log.
func (s *Session) Trades() []models.TradeAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.TradeAction, len(s.trades))
	copy(out, s.trades)
	return out
}

// Done reports whether the trading day has run its full course.
func (s *Session) Done() bool {
	return s.gen.Done()
}

// End closes the session and returns the summary. Trading after End is
// rejected with ErrSessionEnded. End is idempotent.
func (s *Session) End() models.SessionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ended = true

	view := s.snapshotLocked()
	summary := report.Summarize(
		s.recorder.Samples(),
		s.capital,
		view.Holdings,
		s.cash,
		append([]models.TradeAction(nil), s.trades...),
		s.gen.Tick(),
	)

	s.logger.Info().
		Str("final_value", summary.FinalValue.StringFixed(2)).
		Float64("total_return", summary.TotalReturn).
		Float64("max_drawdown", summary.MaxDrawdown).
		Int("trades", len(summary.Trades)).
		Msg("session ended")

	return summary
}
