package market

import (
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// MaxTicks is the length of one simulated trading day: 24 hourly ticks.
const MaxTicks = 24

// shockRange bounds the uniform per-tick price shock at ±5%.
const shockRange = 0.05

// Generator produces the simulated per-tick price path for every catalog
// asset. Prices follow p ← max(0, p×(1+u)) with u uniform in
// [-shockRange, +shockRange]. After MaxTicks the generator is terminal and
// Advance becomes a no-op.
type Generator struct {
	mu     sync.Mutex
	rng    *rand.Rand
	prices map[string]decimal.Decimal
	tick   int
	logger zerolog.Logger
}

// NewGenerator creates a generator seeded from the current time, starting
// every asset at its listing price.
func NewGenerator(logger zerolog.Logger) *Generator {
	return NewGeneratorWithRand(rand.New(rand.NewSource(time.Now().UnixNano())), logger)
}

// NewGeneratorWithRand creates a generator with an injected random source,
// for deterministic tests.
func NewGeneratorWithRand(rng *rand.Rand, logger zerolog.Logger) *Generator {
	return &Generator{
		rng:    rng,
		prices: ListPrices(),
		logger: logger.With().Str("component", "price_generator").Logger(),
	}
}

// Tick returns the number of completed ticks.
func (g *Generator) Tick() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tick
}

// Done reports whether the trading day is over.
func (g *Generator) Done() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tick >= MaxTicks
}

// Price returns the current price of one asset.
func (g *Generator) Price(asset string) (decimal.Decimal, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.prices[asset]
	return p, ok
}

// Prices returns a copy of the current price map.
func (g *Generator) Prices() map[string]decimal.Decimal {
	g.mu.Lock()
	defer g.mu.Unlock()
	return copyPrices(g.prices)
}

// Advance applies one uniform shock to every tracked price and returns the
// new price map along with the tick index just completed. Once the day is
// over it keeps returning the final state with ok=false.
func (g *Generator) Advance() (map[string]decimal.Decimal, int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.tick >= MaxTicks {
		return copyPrices(g.prices), g.tick, false
	}

	for asset, price := range g.prices {
		u := (g.rng.Float64()*2 - 1) * shockRange
		next := price.Mul(decimal.NewFromFloat(1 + u))
		if next.IsNegative() {
			next = decimal.Zero
		}
		g.prices[asset] = next
	}
	g.tick++

	g.logger.Debug().
		Int("tick", g.tick).
		Msg("prices advanced")

	return copyPrices(g.prices), g.tick, true
}

func copyPrices(src map[string]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
