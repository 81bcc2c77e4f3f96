// Package rewards implements the loyalty-style points program: XP to
// points conversion, tier ladder with earning multipliers, and progress
// helpers.
package rewards

import (
	"fmt"
	"math"
)

// Core conversion rates.
const (
	// XPToPointsRate is how many XP make one point.
	XPToPointsRate = 10
	// PointsPerDollar is how many points make one dollar of value.
	PointsPerDollar = 100
)

// EarnSource identifies what earned the points.
type EarnSource string

const (
	SourceMissionComplete EarnSource = "mission_complete"
	SourceDailyStreak     EarnSource = "daily_streak"
	SourceSavingsInterest EarnSource = "savings_interest"
	SourceLevelUp         EarnSource = "level_up"
	SourceFirstMission    EarnSource = "first_mission"
	SourceWeeklyBonus     EarnSource = "weekly_bonus"
	SourceReferral        EarnSource = "referral"
)

// percentRates apply a fraction of the earned XP as points; flatRates pay
// a fixed number of points regardless of XP.
var percentRates = map[EarnSource]float64{
	SourceMissionComplete: 0.10,
	SourceDailyStreak:     0.15,
	SourceSavingsInterest: 0.20,
}

var flatRates = map[EarnSource]int{
	SourceLevelUp:      50,
	SourceFirstMission: 100,
	SourceWeeklyBonus:  25,
	SourceReferral:     200,
}

// Tier is a loyalty tier, ordered from starter to platinum.
type Tier string

const (
	TierStarter  Tier = "starter"
	TierBronze   Tier = "bronze"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
)

// tierOrder is the ladder from lowest to highest.
var tierOrder = []Tier{TierStarter, TierBronze, TierSilver, TierGold, TierPlatinum}

// tierThresholds are lifetime points required to reach each tier.
var tierThresholds = map[Tier]int{
	TierStarter:  0,
	TierBronze:   100,
	TierSilver:   500,
	TierGold:     1500,
	TierPlatinum: 5000,
}

// tierMultipliers boost point earning per tier.
var tierMultipliers = map[Tier]float64{
	TierStarter:  1.0,
	TierBronze:   1.1,
	TierSilver:   1.25,
	TierGold:     1.5,
	TierPlatinum: 2.0,
}

// XPToPoints converts earned XP into base points for a given source.
// Percentage sources award floor(xp/rate × pct × 10); flat sources award
// their fixed bonus.
func XPToPoints(xp int, source EarnSource) int {
	if pct, ok := percentRates[source]; ok {
		return int(math.Floor(float64(xp) / XPToPointsRate * pct * 10))
	}
	return flatRates[source]
}

// WithTierMultiplier applies the earning multiplier of a tier, flooring
// the result.
func WithTierMultiplier(basePoints int, tier Tier) int {
	m, ok := tierMultipliers[tier]
	if !ok {
		m = 1.0
	}
	return int(math.Floor(float64(basePoints) * m))
}

// TierForPoints returns the highest tier whose threshold the lifetime
// balance meets.
func TierForPoints(lifetimePoints int) Tier {
	current := TierStarter
	for _, t := range tierOrder {
		if lifetimePoints >= tierThresholds[t] {
			current = t
		}
	}
	return current
}

// NextTierThreshold returns the lifetime points needed for the next tier,
// or ok=false at platinum.
func NextTierThreshold(current Tier) (int, bool) {
	for i, t := range tierOrder {
		if t == current {
			if i == len(tierOrder)-1 {
				return 0, false
			}
			return tierThresholds[tierOrder[i+1]], true
		}
	}
	return 0, false
}

// TierProgress returns progress toward the next tier as a 0-100
// percentage. Platinum is always 100.
func TierProgress(lifetimePoints int, current Tier) float64 {
	next, ok := NextTierThreshold(current)
	if !ok {
		return 100
	}
	base := tierThresholds[current]
	progress := float64(lifetimePoints-base) / float64(next-base) * 100
	return math.Min(math.Max(progress, 0), 100)
}

// Multiplier returns the earning multiplier for a tier.
func Multiplier(tier Tier) float64 {
	if m, ok := tierMultipliers[tier]; ok {
		return m
	}
	return 1.0
}

// PointsToDollars converts a points balance to its dollar value.
func PointsToDollars(points int) float64 {
	return float64(points) / PointsPerDollar
}

// FormatPoints renders a balance compactly, e.g. 1500 → "1.5k".
func FormatPoints(points int) string {
	if points >= 1000 {
		return fmt.Sprintf("%.1fk", float64(points)/1000)
	}
	return fmt.Sprintf("%d", points)
}

// Tiers returns the ladder from starter to platinum.
func Tiers() []Tier {
	out := make([]Tier, len(tierOrder))
	copy(out, tierOrder)
	return out
}

// Threshold returns the lifetime points required for a tier.
func Threshold(tier Tier) int {
	return tierThresholds[tier]
}
