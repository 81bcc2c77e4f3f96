// Package models provides domain models for the simulation and coaching
// application.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetClass categorizes an asset the way family offices do.
type AssetClass string

const (
	ClassEquities       AssetClass = "equities"
	ClassFixedIncome    AssetClass = "fixed_income"
	ClassCommodities    AssetClass = "commodities"
	ClassAlternatives   AssetClass = "alternatives"
	ClassCash           AssetClass = "cash"
	ClassCryptocurrency AssetClass = "cryptocurrency"
)

// RiskLevel is the static risk rating of an asset.
type RiskLevel string

const (
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
	RiskExtreme RiskLevel = "extreme"
)

// TimeHorizon is the recommended holding horizon of an asset.
type TimeHorizon string

const (
	HorizonShort  TimeHorizon = "short"
	HorizonMedium TimeHorizon = "medium"
	HorizonLong   TimeHorizon = "long"
)

// TradeSide represents the side of a trade.
type TradeSide string

const (
	SideBuy  TradeSide = "BUY"
	SideSell TradeSide = "SELL"
)

// Asset is immutable reference data for one tracked instrument.
type Asset struct {
	Key             string          `json:"key"`
	Name            string          `json:"name"`
	ListPrice       decimal.Decimal `json:"listPrice"`
	DailyChange     float64         `json:"dailyChange"`
	Class           AssetClass      `json:"assetClass"`
	Risk            RiskLevel       `json:"riskLevel"`
	Horizon         TimeHorizon     `json:"timeHorizon"`
	AllocationRange string          `json:"allocationRange"` // typical family-office allocation, e.g. "5-15%"
	VolatilityBand  string          `json:"volatilityBand"`  // historical volatility range, e.g. "20-30%"
}

// Holding is a position in one asset.
type Holding struct {
	Asset        string          `json:"asset"`
	Shares       decimal.Decimal `json:"shares"`
	AvgCost      decimal.Decimal `json:"avgPrice"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
}

// Value returns the mark-to-market value of the holding.
func (h Holding) Value() decimal.Decimal {
	return h.Shares.Mul(h.CurrentPrice)
}

// GainPercent returns the unrealized gain relative to average cost.
func (h Holding) GainPercent() float64 {
	if h.AvgCost.IsZero() {
		return 0
	}
	return h.CurrentPrice.Sub(h.AvgCost).Div(h.AvgCost).InexactFloat64() * 100
}

// PortfolioView is an immutable snapshot of portfolio state, safe to hand
// to the advisory bridge while ticks keep mutating the live session.
type PortfolioView struct {
	Holdings map[string]Holding `json:"holdings"`
	Cash     decimal.Decimal    `json:"cash"`
	Tick     int                `json:"tick"`
}

// TotalValue returns cash plus the mark-to-market value of all holdings.
func (v PortfolioView) TotalValue() decimal.Decimal {
	total := v.Cash
	for _, h := range v.Holdings {
		total = total.Add(h.Value())
	}
	return total
}

// TradeAction is an executed trade, as reported to the advisory bridge.
type TradeAction struct {
	Side     TradeSide       `json:"type"`
	Asset    string          `json:"asset"`
	Quantity decimal.Decimal `json:"amount"`
	Price    decimal.Decimal `json:"price"`
	Tick     int             `json:"tick"`
	Time     time.Time       `json:"time"`
}

// PerformanceSample is one point of the session's recorded time series:
// total portfolio value and every tracked asset's price at that tick.
type PerformanceSample struct {
	Tick   int                        `json:"time"`
	Total  decimal.Decimal            `json:"total"`
	Prices map[string]decimal.Decimal `json:"prices"`
}

// ChartPoint is a chart-ready (label, value) pair for the results page.
type ChartPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// SessionSummary is the result bundle handed to the caller when a
// session ends.
type SessionSummary struct {
	FinalValue       decimal.Decimal    `json:"finalValue"`
	TotalReturn      float64            `json:"totalReturn"`
	Holdings         map[string]Holding `json:"portfolio"`
	Cash             decimal.Decimal    `json:"cash"`
	Volatility       float64            `json:"volatility"`
	SharpeRatio      float64            `json:"sharpeRatio"`
	MaxDrawdown      float64            `json:"maxDrawdown"`
	AnnualizedReturn float64            `json:"annualizedReturn"`
	ChartData        []ChartPoint       `json:"chartData"`
	Trades           []TradeAction      `json:"trades"`
	Ticks            int                `json:"ticks"`
}
