package market

import (
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func TestCatalogContents(t *testing.T) {
	keys := Keys()
	if len(keys) != 8 {
		t.Fatalf("expected 8 catalog assets, got %d", len(keys))
	}

	apple, ok := Lookup("apple")
	if !ok {
		t.Fatal("apple missing from catalog")
	}
	if !apple.ListPrice.Equal(decimal.NewFromFloat(230.45)) {
		t.Errorf("apple list price = %s, want 230.45", apple.ListPrice)
	}
	if apple.Class != "equities" {
		t.Errorf("apple class = %s, want equities", apple.Class)
	}

	btc, ok := Lookup("bitcoin")
	if !ok {
		t.Fatal("bitcoin missing from catalog")
	}
	if btc.Risk != "extreme" {
		t.Errorf("bitcoin risk = %s, want extreme", btc.Risk)
	}

	if _, ok := Lookup("dogecoin"); ok {
		t.Error("unexpected catalog hit for dogecoin")
	}
}

func TestDisplayNameFallback(t *testing.T) {
	if got := DisplayName("nvidia"); got != "NVIDIA Corp." {
		t.Errorf("DisplayName(nvidia) = %q", got)
	}
	if got := DisplayName("mystery"); got != "mystery" {
		t.Errorf("DisplayName(mystery) = %q, want key passthrough", got)
	}
}

func TestListPricesIsACopy(t *testing.T) {
	prices := ListPrices()
	prices["apple"] = decimal.Zero
	again := ListPrices()
	if again["apple"].IsZero() {
		t.Error("mutating ListPrices result leaked into the catalog")
	}
}

func TestGeneratorTerminalAfterMaxTicks(t *testing.T) {
	g := NewGeneratorWithRand(rand.New(rand.NewSource(1)), zerolog.Nop())

	for i := 0; i < MaxTicks; i++ {
		_, tick, ok := g.Advance()
		if !ok {
			t.Fatalf("advance %d unexpectedly terminal", i)
		}
		if tick != i+1 {
			t.Fatalf("tick = %d after advance %d", tick, i)
		}
	}
	if !g.Done() {
		t.Error("generator not done after 24 ticks")
	}

	frozen := g.Prices()
	for i := 0; i < 5; i++ {
		after, tick, ok := g.Advance()
		if ok {
			t.Fatal("advance past end of day reported progress")
		}
		if tick != MaxTicks {
			t.Errorf("terminal tick = %d, want %d", tick, MaxTicks)
		}
		for asset, p := range after {
			if !p.Equal(frozen[asset]) {
				t.Errorf("price of %s moved after end of day", asset)
			}
		}
	}
}

func TestGeneratorDeterministicWithSeed(t *testing.T) {
	a := NewGeneratorWithRand(rand.New(rand.NewSource(42)), zerolog.Nop())
	b := NewGeneratorWithRand(rand.New(rand.NewSource(42)), zerolog.Nop())

	for i := 0; i < MaxTicks; i++ {
		pa, _, _ := a.Advance()
		pb, _, _ := b.Advance()
		for asset := range pa {
			if !pa[asset].Equal(pb[asset]) {
				t.Fatalf("tick %d: %s diverged between same-seed generators", i+1, asset)
			}
		}
	}
}

func TestGeneratorProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("prices stay non-negative for a whole day", prop.ForAll(
		func(seed int64) bool {
			g := NewGeneratorWithRand(rand.New(rand.NewSource(seed)), zerolog.Nop())
			for {
				prices, _, ok := g.Advance()
				for _, p := range prices {
					if p.IsNegative() {
						return false
					}
				}
				if !ok {
					return true
				}
			}
		},
		gen.Int64(),
	))

	properties.Property("each tick moves a price by at most 5%", prop.ForAll(
		func(seed int64) bool {
			g := NewGeneratorWithRand(rand.New(rand.NewSource(seed)), zerolog.Nop())
			prev := g.Prices()
			for {
				next, _, ok := g.Advance()
				if !ok {
					return true
				}
				bound := decimal.NewFromFloat(0.0500001)
				for asset, p := range next {
					if prev[asset].IsZero() {
						continue
					}
					move := p.Sub(prev[asset]).Div(prev[asset]).Abs()
					if move.GreaterThan(bound) {
						return false
					}
				}
				prev = next
			}
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}
