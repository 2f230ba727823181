package xp

import "math"

// Curve is a quadratic level curve: reaching level L takes XPPerLevelSquared * L^2
// cumulative XP. With the default of 100 this is level = floor(0.1 * sqrt(xp)).
type Curve struct {
	XPPerLevelSquared int64 `toml:"xp_per_level_squared"`
}

func DefaultCurve() Curve {
	return Curve{XPPerLevelSquared: 100}
}

type LevelProgress struct {
	Level int `json:"level"`
	// XP at which the current level was reached
	CurrentLevelXP int64 `json:"currentLevelXp"`
	// XP at which the next level is reached
	NextLevelXP int64 `json:"nextLevelXp"`
}

// Level returns the level for the cumulative xp. Negative xp is treated as zero.
func (c Curve) Level(xp int64) int {
	if xp <= 0 {
		return 0
	}
	// floor(sqrt(xp/k)) == isqrt(floor(xp/k)) for integer k
	return int(isqrt(xp / c.k()))
}

// XPForLevel returns the cumulative XP needed to reach level.
func (c Curve) XPForLevel(level int) int64 {
	if level <= 0 {
		return 0
	}
	l := int64(level)
	return c.k() * l * l
}

// NextLevelXP returns the cumulative XP at which the level after xp's level starts.
func (c Curve) NextLevelXP(xp int64) int64 {
	return c.XPForLevel(c.Level(xp) + 1)
}

func (c Curve) Progress(xp int64) LevelProgress {
	level := c.Level(xp)
	return LevelProgress{
		Level:          level,
		CurrentLevelXP: c.XPForLevel(level),
		NextLevelXP:    c.XPForLevel(level + 1),
	}
}

func (c Curve) k() int64 {
	if c.XPPerLevelSquared <= 0 {
		return DefaultCurve().XPPerLevelSquared
	}
	return c.XPPerLevelSquared
}

// isqrt returns floor(sqrt(n)) for n >= 0, correcting float rounding at the edges.
func isqrt(n int64) int64 {
	r := int64(math.Sqrt(float64(n)))
	for r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}
