package sim

import (
	"bytes"
	"context"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	apperrors "legacy-guardians/internal/errors"
	"legacy-guardians/internal/market"
	"legacy-guardians/internal/models"
)

func newTestSession(t *testing.T, cfg Config) *Session {
	t.Helper()
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(7))
	}
	s, err := NewSession(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func TestSeedAllocationWorkedExample(t *testing.T) {
	s := newTestSession(t, Config{
		Capital:     d(5000),
		Allocations: map[string]decimal.Decimal{"apple": d(1000)},
	})

	if !s.Cash().Equal(d(4000)) {
		t.Errorf("cash after seeding = %s, want 4000", s.Cash())
	}

	wantShares := d(1000).Div(d(230.45))
	view := s.Snapshot()
	h := view.Holdings["apple"]
	if !h.Shares.Equal(wantShares) {
		t.Errorf("seeded shares = %s, want %s", h.Shares, wantShares)
	}
	if !h.AvgCost.Equal(d(230.45)) {
		t.Errorf("seeded avg cost = %s, want 230.45", h.AvgCost)
	}
	if !s.TotalValue().Equal(view.TotalValue()) {
		t.Errorf("session and snapshot disagree on total value")
	}

	// Buy one more share at the unmoved listing price.
	action, err := s.Buy("apple", d(1))
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if !action.Price.Equal(d(230.45)) {
		t.Errorf("buy price = %s, want 230.45", action.Price)
	}
	if !s.Cash().Equal(d(3769.55)) {
		t.Errorf("cash after buy = %s, want 3769.55", s.Cash())
	}
	h = s.Snapshot().Holdings["apple"]
	if !h.Shares.Equal(wantShares.Add(d(1))) {
		t.Errorf("shares after buy = %s, want %s", h.Shares, wantShares.Add(d(1)))
	}
	// Same execution price as the existing basis leaves the average alone.
	if !h.AvgCost.Sub(d(230.45)).Abs().LessThan(d(0.000001)) {
		t.Errorf("avg cost after same-price buy = %s, want 230.45", h.AvgCost)
	}

	// Asking to sell far more than held clamps to the position.
	held := h.Shares
	action, err = s.Sell("apple", d(10))
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	if !action.Quantity.Equal(held) {
		t.Errorf("sold quantity = %s, want clamp to %s", action.Quantity, held)
	}
	h = s.Snapshot().Holdings["apple"]
	if !h.Shares.IsZero() {
		t.Errorf("shares after clamped sell = %s, want 0", h.Shares)
	}
	wantCash := d(3769.55).Add(held.Mul(d(230.45)))
	if !s.Cash().Equal(wantCash) {
		t.Errorf("cash after sell = %s, want %s", s.Cash(), wantCash)
	}
}

func TestSeedAllocationValidation(t *testing.T) {
	_, err := NewSession(Config{
		Capital:     d(5000),
		Allocations: map[string]decimal.Decimal{"dogecoin": d(1000)},
	}, zerolog.Nop())
	var verr *apperrors.ValidationError
	if !apperrors.As(err, &verr) {
		t.Errorf("unknown allocation asset: got %v, want ValidationError", err)
	}

	_, err = NewSession(Config{
		Capital:     d(1000),
		Allocations: map[string]decimal.Decimal{"apple": d(2000)},
	}, zerolog.Nop())
	if !apperrors.Is(err, apperrors.ErrInsufficientFunds) {
		t.Errorf("over-allocation: got %v, want ErrInsufficientFunds", err)
	}
}

func TestBuyRejections(t *testing.T) {
	s := newTestSession(t, Config{Capital: d(100)})

	cases := []struct {
		name  string
		asset string
		qty   decimal.Decimal
		want  error
	}{
		{"zero quantity", "apple", decimal.Zero, apperrors.ErrInvalidQuantity},
		{"negative quantity", "apple", d(-1), apperrors.ErrInvalidQuantity},
		{"unknown asset", "beanie-babies", d(1), apperrors.ErrUnknownAsset},
		{"overdraw", "bitcoin", d(1), apperrors.ErrInsufficientFunds},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := s.Cash()
			_, err := s.Buy(tc.asset, tc.qty)
			if !apperrors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
			var terr *apperrors.TradeError
			if !apperrors.As(err, &terr) {
				t.Errorf("rejection is not a TradeError: %v", err)
			}
			if !s.Cash().Equal(before) {
				t.Errorf("rejected buy moved cash: %s -> %s", before, s.Cash())
			}
		})
	}
}

func TestSellRejections(t *testing.T) {
	s := newTestSession(t, Config{Capital: d(5000)})

	if _, err := s.Sell("apple", d(1)); !apperrors.Is(err, apperrors.ErrNoHolding) {
		t.Errorf("sell with no holding: got %v, want ErrNoHolding", err)
	}
	if _, err := s.Sell("apple", decimal.Zero); !apperrors.Is(err, apperrors.ErrInvalidQuantity) {
		t.Errorf("sell zero: got %v, want ErrInvalidQuantity", err)
	}
}

func TestTradingAfterEndRejected(t *testing.T) {
	s := newTestSession(t, Config{Capital: d(5000)})
	s.End()

	if _, err := s.Buy("apple", d(1)); !apperrors.Is(err, apperrors.ErrSessionEnded) {
		t.Errorf("buy after end: got %v, want ErrSessionEnded", err)
	}
	if _, err := s.Sell("apple", d(1)); !apperrors.Is(err, apperrors.ErrSessionEnded) {
		t.Errorf("sell after end: got %v, want ErrSessionEnded", err)
	}
	if _, ok := s.Tick(); ok {
		t.Error("tick after end reported progress")
	}
}

func TestAvgCostBlending(t *testing.T) {
	s := newTestSession(t, Config{Capital: d(100000)})

	first, err := s.Buy("etf", d(10))
	if err != nil {
		t.Fatalf("first buy: %v", err)
	}
	h := s.Snapshot().Holdings["etf"]
	if !h.AvgCost.Equal(first.Price) {
		t.Errorf("first buy avg cost = %s, want execution price %s", h.AvgCost, first.Price)
	}

	s.Tick()
	second, err := s.Buy("etf", d(30))
	if err != nil {
		t.Fatalf("second buy: %v", err)
	}
	h = s.Snapshot().Holdings["etf"]
	want := d(10).Mul(first.Price).Add(d(30).Mul(second.Price)).Div(d(40))
	if !h.AvgCost.Equal(want) {
		t.Errorf("blended avg cost = %s, want %s", h.AvgCost, want)
	}

	// Selling must not touch the basis.
	if _, err := s.Sell("etf", d(25)); err != nil {
		t.Fatalf("sell: %v", err)
	}
	after := s.Snapshot().Holdings["etf"]
	if !after.AvgCost.Equal(want) {
		t.Errorf("avg cost changed on sell: %s -> %s", want, after.AvgCost)
	}
}

func TestRecorderCapturesTickZero(t *testing.T) {
	s := newTestSession(t, Config{
		Capital:     d(5000),
		Allocations: map[string]decimal.Decimal{"apple": d(1000)},
	})

	samples := s.Samples()
	if len(samples) != 1 {
		t.Fatalf("initial samples = %d, want 1", len(samples))
	}
	if samples[0].Tick != 0 {
		t.Errorf("first sample tick = %d, want 0", samples[0].Tick)
	}
	if !samples[0].Total.Equal(d(5000)) {
		t.Errorf("tick-0 total = %s, want 5000", samples[0].Total)
	}

	s.Tick()
	s.Tick()
	if got := len(s.Samples()); got != 3 {
		t.Errorf("samples after 2 ticks = %d, want 3", got)
	}
}

func TestRunCompletesTradingDay(t *testing.T) {
	s := newTestSession(t, Config{
		Capital:      d(5000),
		TickInterval: time.Millisecond,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !s.Done() {
		t.Error("session not done after Run returned")
	}
	if got := len(s.Samples()); got != market.MaxTicks+1 {
		t.Errorf("samples = %d, want %d", got, market.MaxTicks+1)
	}
}

func TestRunHonorsContext(t *testing.T) {
	s := newTestSession(t, Config{
		Capital:      d(5000),
		TickInterval: time.Hour,
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Run(ctx); err != context.Canceled {
		t.Errorf("run after cancel = %v, want context.Canceled", err)
	}
}

type capturePublisher struct {
	samples []models.PerformanceSample
}

func (c *capturePublisher) Publish(s models.PerformanceSample) {
	c.samples = append(c.samples, s)
}

func TestSamplesPublishedToHub(t *testing.T) {
	pub := &capturePublisher{}
	s := newTestSession(t, Config{Capital: d(5000), Publisher: pub})

	s.Tick()
	s.Tick()
	if len(pub.samples) != 3 {
		t.Fatalf("published samples = %d, want 3 (tick 0 + 2)", len(pub.samples))
	}
	if pub.samples[2].Tick != 2 {
		t.Errorf("last published tick = %d, want 2", pub.samples[2].Tick)
	}
}

func TestExportCSV(t *testing.T) {
	s := newTestSession(t, Config{Capital: d(5000)})
	s.Tick()

	var buf bytes.Buffer
	if err := s.Recorder().ExportCSV(&buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "tick,total_value,asset,price") {
		t.Errorf("unexpected CSV header: %q", strings.SplitN(out, "\n", 2)[0])
	}
	lines := strings.Count(strings.TrimSpace(out), "\n")
	// header + 2 ticks × 8 assets
	if lines != 16 {
		t.Errorf("CSV data lines = %d, want 16", lines)
	}
}

func TestSessionProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 40

	properties := gopter.NewProperties(parameters)

	assets := market.Keys()

	type step struct {
		buy   bool
		asset int
		qty   float64
		tick  bool
	}
	genStep := gopter.CombineGens(
		gen.Bool(),
		gen.IntRange(0, len(assets)-1),
		gen.Float64Range(0.1, 50),
		gen.Bool(),
	).Map(func(vals []interface{}) step {
		return step{
			buy:   vals[0].(bool),
			asset: vals[1].(int),
			qty:   vals[2].(float64),
			tick:  vals[3].(bool),
		}
	})

	properties.Property("cash never negative and value identity holds", prop.ForAll(
		func(seed int64, steps []step) bool {
			s, err := NewSession(Config{
				Capital: d(5000),
				Rand:    rand.New(rand.NewSource(seed)),
			}, zerolog.Nop())
			if err != nil {
				return false
			}
			for _, st := range steps {
				if st.tick {
					s.Tick()
				}
				asset := assets[st.asset]
				if st.buy {
					s.Buy(asset, d(st.qty))
				} else {
					s.Sell(asset, d(st.qty))
				}

				if s.Cash().IsNegative() {
					return false
				}
				view := s.Snapshot()
				recomputed := view.Cash
				for _, h := range view.Holdings {
					if h.Shares.IsNegative() {
						return false
					}
					recomputed = recomputed.Add(h.Shares.Mul(h.CurrentPrice))
				}
				if !recomputed.Equal(s.TotalValue()) {
					return false
				}
			}
			return true
		},
		gen.Int64(),
		gen.SliceOf(genStep),
	))

	properties.TestingRun(t)
}
