package xp

import "math"

// LevelForXP derives the level from cumulative XP via the square-root curve
// level = floor(sqrt(xp/100)). Each subsequent level requires progressively
// more XP; badge and rank thresholds reference specific level numbers, so
// the curve must not change.
func LevelForXP(xp int) int {
	if xp <= 0 {
		return 0
	}
	return int(math.Sqrt(float64(xp) / 100))
}

// XPForLevel returns the cumulative XP needed to reach the given level.
func XPForLevel(level int) int {
	if level <= 0 {
		return 0
	}
	return level * level * 100
}
