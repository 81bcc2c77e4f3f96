// Package market provides the static asset catalog and the simulated
// price generator that drives a trading session.
package market

import (
	"sort"

	"github.com/shopspring/decimal"

	"legacy-guardians/internal/models"
)

// catalog is the reference data for every tradeable asset. Prices here are
// the listing prices a session starts from; live prices belong to the
// Generator. Aligned with family-office asset class standards.
var catalog = map[string]models.Asset{
	"apple": {
		Key:             "apple",
		Name:            "Apple Inc.",
		ListPrice:       decimal.NewFromFloat(230.45),
		DailyChange:     2.3,
		Class:           models.ClassEquities,
		Risk:            models.RiskMedium,
		Horizon:         models.HorizonLong,
		AllocationRange: "5-15%",
		VolatilityBand:  "20-30%",
	},
	"microsoft": {
		Key:             "microsoft",
		Name:            "Microsoft Corp.",
		ListPrice:       decimal.NewFromFloat(506.46),
		DailyChange:     1.8,
		Class:           models.ClassEquities,
		Risk:            models.RiskMedium,
		Horizon:         models.HorizonLong,
		AllocationRange: "5-15%",
		VolatilityBand:  "18-25%",
	},
	"nvidia": {
		Key:             "nvidia",
		Name:            "NVIDIA Corp.",
		ListPrice:       decimal.NewFromFloat(178.10),
		DailyChange:     4.2,
		Class:           models.ClassEquities,
		Risk:            models.RiskHigh,
		Horizon:         models.HorizonLong,
		AllocationRange: "3-10%",
		VolatilityBand:  "35-50%",
	},
	"tesla": {
		Key:             "tesla",
		Name:            "Tesla Inc.",
		ListPrice:       decimal.NewFromFloat(346.76),
		DailyChange:     -1.5,
		Class:           models.ClassEquities,
		Risk:            models.RiskHigh,
		Horizon:         models.HorizonLong,
		AllocationRange: "2-8%",
		VolatilityBand:  "40-60%",
	},
	"sp500": {
		Key:             "sp500",
		Name:            "S&P 500 ETF",
		ListPrice:       decimal.NewFromFloat(646.33),
		DailyChange:     1.2,
		Class:           models.ClassEquities,
		Risk:            models.RiskMedium,
		Horizon:         models.HorizonLong,
		AllocationRange: "20-40%",
		VolatilityBand:  "15-20%",
	},
	"etf": {
		Key:             "etf",
		Name:            "Global ETF",
		ListPrice:       decimal.NewFromFloat(134.18),
		DailyChange:     0.8,
		Class:           models.ClassEquities,
		Risk:            models.RiskMedium,
		Horizon:         models.HorizonLong,
		AllocationRange: "15-30%",
		VolatilityBand:  "12-18%",
	},
	"bitcoin": {
		Key:             "bitcoin",
		Name:            "Bitcoin",
		ListPrice:       decimal.NewFromFloat(43250.0),
		DailyChange:     3.7,
		Class:           models.ClassCryptocurrency,
		Risk:            models.RiskExtreme,
		Horizon:         models.HorizonLong,
		AllocationRange: "0-5%",
		VolatilityBand:  "60-100%",
	},
	"ethereum": {
		Key:             "ethereum",
		Name:            "Ethereum",
		ListPrice:       decimal.NewFromFloat(2680.50),
		DailyChange:     2.1,
		Class:           models.ClassCryptocurrency,
		Risk:            models.RiskExtreme,
		Horizon:         models.HorizonLong,
		AllocationRange: "0-3%",
		VolatilityBand:  "70-120%",
	},
}

// Lookup returns the asset for a catalog key.
func Lookup(key string) (models.Asset, bool) {
	a, ok := catalog[key]
	return a, ok
}

// Keys returns all catalog keys in stable order.
func Keys() []string {
	keys := make([]string, 0, len(catalog))
	for k := range catalog {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Assets returns all catalog entries in stable key order.
func Assets() []models.Asset {
	keys := Keys()
	assets := make([]models.Asset, 0, len(keys))
	for _, k := range keys {
		assets = append(assets, catalog[k])
	}
	return assets
}

// ListPrices returns a fresh map of every asset's listing price.
func ListPrices() map[string]decimal.Decimal {
	prices := make(map[string]decimal.Decimal, len(catalog))
	for k, a := range catalog {
		prices[k] = a.ListPrice
	}
	return prices
}

// DisplayName returns the human-readable name for a catalog key, falling
// back to the key itself for unknown assets.
func DisplayName(key string) string {
	if a, ok := catalog[key]; ok {
		return a.Name
	}
	return key
}
