package rewards

import "fmt"

// XPPerLevel is the flat XP cost of each investor level.
const XPPerLevel = 1000

// MaxLevel is the last titled level; XP past it still accumulates but
// the title no longer changes.
const MaxLevel = 8

var levelTitles = map[int]string{
	1: "Rookie Investor",
	2: "Market Explorer",
	3: "Rising Trader",
	4: "Smart Investor",
	5: "Market Mover",
	6: "Wall Street Wolf",
	7: "Financial Guru",
	8: "Investment Legend",
}

// LevelForXP maps total earned XP to an investor level, starting at 1.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	level := xp/XPPerLevel + 1
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// LevelTitle returns the display title for a level.
func LevelTitle(level int) string {
	if title, ok := levelTitles[level]; ok {
		return title
	}
	if level > MaxLevel {
		return levelTitles[MaxLevel]
	}
	return levelTitles[1]
}

// LevelProgress returns how far through the current level the XP total
// is, as a percentage. 100 once the top level is reached.
func LevelProgress(xp int) float64 {
	if xp < 0 {
		xp = 0
	}
	if LevelForXP(xp) >= MaxLevel {
		return 100
	}
	return float64(xp%XPPerLevel) / float64(XPPerLevel) * 100
}

// XPToNextLevel returns the XP still needed for the next level, or 0 at
// the top level.
func XPToNextLevel(xp int) int {
	if xp < 0 {
		xp = 0
	}
	if LevelForXP(xp) >= MaxLevel {
		return 0
	}
	return XPPerLevel - xp%XPPerLevel
}

// FormatLevel renders a level the way the progress bar shows it.
func FormatLevel(level int) string {
	return fmt.Sprintf("Level %d — %s", level, LevelTitle(level))
}
