// Package report computes end-of-session performance statistics.
package report

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"legacy-guardians/internal/models"
)

// Hourly ticks over a 252-day, 6.5-hour trading year. The annualization
// factor scales per-tick return dispersion up to a yearly figure.
const periodsPerYear = 252 * 6.5

// RiskFreeRate is the annual risk-free rate assumed by the Sharpe ratio.
const RiskFreeRate = 0.04

// Returns computes simple per-tick returns (v[i]-v[i-1])/v[i-1] over the
// recorded series. Ticks whose previous value is non-positive are skipped.
func Returns(samples []models.PerformanceSample) []float64 {
	returns := make([]float64, 0, len(samples))
	for i := 1; i < len(samples); i++ {
		prev := samples[i-1].Total.InexactFloat64()
		if prev <= 0 {
			continue
		}
		cur := samples[i].Total.InexactFloat64()
		returns = append(returns, (cur-prev)/prev)
	}
	return returns
}

// Volatility annualizes the population standard deviation of per-tick
// returns, expressed as a percentage.
func Volatility(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var variance float64
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns))

	return math.Sqrt(variance) * math.Sqrt(periodsPerYear) * 100
}

// MaxDrawdown returns the largest peak-to-trough decline of the value
// series, as a percentage. A monotone non-decreasing series has zero
// drawdown.
func MaxDrawdown(samples []models.PerformanceSample) float64 {
	if len(samples) == 0 {
		return 0
	}
	peak := samples[0].Total.InexactFloat64()
	var maxDD float64
	for _, s := range samples {
		v := s.Total.InexactFloat64()
		if v > peak {
			peak = v
		}
		if peak > 0 {
			dd := (peak - v) / peak * 100
			if dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// SharpeRatio relates annualized excess return to annualized volatility.
// Both inputs are percentages; a zero-volatility series scores zero.
func SharpeRatio(annualizedReturn, volatility float64) float64 {
	if volatility == 0 {
		return 0
	}
	return (annualizedReturn/100 - RiskFreeRate) / (volatility / 100)
}

// ChartSeries converts the recorded samples into chart-ready points,
// labelled Tick 0..n.
func ChartSeries(samples []models.PerformanceSample) []models.ChartPoint {
	points := make([]models.ChartPoint, 0, len(samples))
	for _, s := range samples {
		points = append(points, models.ChartPoint{
			Date:  fmt.Sprintf("Tick %d", s.Tick),
			Value: s.Total.InexactFloat64(),
		})
	}
	return points
}

// Summarize builds the end-of-session result bundle from the recorded
// series and the final portfolio state. These are intentionally coarse
// classroom estimates, not audit-grade analytics.
func Summarize(samples []models.PerformanceSample, capital decimal.Decimal, holdings map[string]models.Holding, cash decimal.Decimal, trades []models.TradeAction, ticks int) models.SessionSummary {
	finalValue := cash
	for _, h := range holdings {
		finalValue = finalValue.Add(h.Value())
	}

	var totalReturn float64
	if capital.IsPositive() {
		totalReturn = finalValue.Sub(capital).Div(capital).InexactFloat64() * 100
	}

	returns := Returns(samples)
	vol := Volatility(returns)

	// A 24-tick day is one trading day; the session return stands in for
	// the annualized figure on the results screen.
	annualized := totalReturn

	return models.SessionSummary{
		FinalValue:       finalValue,
		TotalReturn:      totalReturn,
		Holdings:         holdings,
		Cash:             cash,
		Volatility:       vol,
		SharpeRatio:      SharpeRatio(annualized, vol),
		MaxDrawdown:      MaxDrawdown(samples),
		AnnualizedReturn: annualized,
		ChartData:        ChartSeries(samples),
		Trades:           trades,
		Ticks:            ticks,
	}
}
