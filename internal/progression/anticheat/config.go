package anticheat

import "time"

// Config holds the policy owned thresholds of every rule.
type Config struct {
	Enabled bool `toml:"enabled"`

	SpikeMultiplier  float64 `toml:"spike_multiplier"`
	MinSpikeXP       int64   `toml:"min_spike_xp"`
	MinSpikeVolumeKg float64 `toml:"min_spike_volume_kg"`
	// weights of the preceding weeks, most recent first
	TrailingWeights []float64 `toml:"trailing_weights"`
	MinHistoryWeeks int       `toml:"min_history_weeks"`

	MaxSetWeightKg float64 `toml:"max_set_weight_kg"`
	MaxReps        int     `toml:"max_reps"`

	ScriptedMinSamples int           `toml:"scripted_min_samples"`
	ScriptedMaxStddev  time.Duration `toml:"scripted_max_stddev"`

	NewAccountAge           time.Duration `toml:"new_account_age"`
	NewAccountPercentile    float64       `toml:"new_account_percentile"`
	NewAccountMinPopulation int           `toml:"new_account_min_population"`
}

func DefaultConfig() Config {
	return Config{
		Enabled:                 true,
		SpikeMultiplier:         3,
		MinSpikeXP:              5_000,
		MinSpikeVolumeKg:        20_000,
		TrailingWeights:         []float64{4, 3, 2, 1},
		MinHistoryWeeks:         2,
		MaxSetWeightKg:          500,
		MaxReps:                 100,
		ScriptedMinSamples:      12,
		ScriptedMaxStddev:       time.Second,
		NewAccountAge:           14 * 24 * time.Hour,
		NewAccountPercentile:    0.99,
		NewAccountMinPopulation: 20,
	}
}
