package report

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"legacy-guardians/internal/models"
)

func series(values ...float64) []models.PerformanceSample {
	samples := make([]models.PerformanceSample, len(values))
	for i, v := range values {
		samples[i] = models.PerformanceSample{
			Tick:  i,
			Total: decimal.NewFromFloat(v),
		}
	}
	return samples
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestReturnsSkipsNonPositivePrevious(t *testing.T) {
	samples := series(100, 110, 0, 50)
	returns := Returns(samples)
	// 100→110 yields 0.10; 110→0 yields -1; 0→50 is skipped.
	if len(returns) != 2 {
		t.Fatalf("got %d returns, want 2: %v", len(returns), returns)
	}
	if !almostEqual(returns[0], 0.10) {
		t.Errorf("returns[0] = %v, want 0.10", returns[0])
	}
	if !almostEqual(returns[1], -1.0) {
		t.Errorf("returns[1] = %v, want -1.0", returns[1])
	}
}

func TestVolatilityConstantSeriesIsZero(t *testing.T) {
	returns := Returns(series(100, 100, 100, 100))
	if vol := Volatility(returns); vol != 0 {
		t.Errorf("volatility of flat series = %v, want 0", vol)
	}
	if vol := Volatility(nil); vol != 0 {
		t.Errorf("volatility of empty series = %v, want 0", vol)
	}
}

func TestVolatilityAnnualization(t *testing.T) {
	// Alternating ±1% returns have population stddev exactly 0.01.
	returns := []float64{0.01, -0.01, 0.01, -0.01}
	want := 0.01 * math.Sqrt(252*6.5) * 100
	if got := Volatility(returns); !almostEqual(got, want) {
		t.Errorf("volatility = %v, want %v", got, want)
	}
}

func TestMaxDrawdownMonotoneSeriesIsZero(t *testing.T) {
	if dd := MaxDrawdown(series(100, 100, 120, 150, 150)); dd != 0 {
		t.Errorf("drawdown of non-decreasing series = %v, want 0", dd)
	}
}

func TestMaxDrawdownRunningPeak(t *testing.T) {
	// Peak 150, trough 90: 40% drawdown. The later recovery to 140 and
	// second dip to 120 stay within that.
	dd := MaxDrawdown(series(100, 150, 90, 140, 120))
	if !almostEqual(dd, 40) {
		t.Errorf("drawdown = %v, want 40", dd)
	}
}

func TestSharpeRatio(t *testing.T) {
	if s := SharpeRatio(10, 0); s != 0 {
		t.Errorf("sharpe with zero volatility = %v, want 0", s)
	}
	// (0.12 - 0.04) / 0.20 = 0.4
	if s := SharpeRatio(12, 20); !almostEqual(s, 0.4) {
		t.Errorf("sharpe = %v, want 0.4", s)
	}
}

func TestSummarize(t *testing.T) {
	capital := decimal.NewFromInt(5000)
	holdings := map[string]models.Holding{
		"apple": {
			Asset:        "apple",
			Shares:       decimal.NewFromInt(10),
			AvgCost:      decimal.NewFromInt(100),
			CurrentPrice: decimal.NewFromInt(110),
		},
	}
	cash := decimal.NewFromInt(4000)
	samples := series(5000, 5050, 5100)

	summary := Summarize(samples, capital, holdings, cash, nil, 2)

	if !summary.FinalValue.Equal(decimal.NewFromInt(5100)) {
		t.Errorf("final value = %s, want 5100", summary.FinalValue)
	}
	if !almostEqual(summary.TotalReturn, 2.0) {
		t.Errorf("total return = %v, want 2.0", summary.TotalReturn)
	}
	if summary.MaxDrawdown != 0 {
		t.Errorf("drawdown = %v, want 0", summary.MaxDrawdown)
	}
	if len(summary.ChartData) != 3 {
		t.Fatalf("chart points = %d, want 3", len(summary.ChartData))
	}
	if summary.ChartData[0].Date != "Tick 0" {
		t.Errorf("first chart label = %q, want %q", summary.ChartData[0].Date, "Tick 0")
	}
}
