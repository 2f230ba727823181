package anticheat

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/2beens/gymprogress/internal/progression/aggregator"
	"github.com/2beens/gymprogress/internal/progression/week"
	"github.com/2beens/gymprogress/internal/upstream"
)

type FlagType string

const (
	FlagXPSpike         FlagType = "xp_spike"
	FlagVolumeSpike     FlagType = "volume_spike"
	FlagImpossibleSet   FlagType = "impossible_set"
	FlagScriptedPattern FlagType = "scripted_pattern"
	FlagNewAccountRisk  FlagType = "new_account_risk"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

const StatusPending = "pending"

// Flag is a review signal. The engine only ever creates flags, a reviewer
// clears or confirms them elsewhere.
type Flag struct {
	ID         uuid.UUID `json:"id"`
	UserID     int64     `json:"userId"`
	WeekID     string    `json:"weekId"`
	Type       FlagType  `json:"type"`
	Subject    string    `json:"subject"`
	Severity   Severity  `json:"severity"`
	Status     string    `json:"status"`
	Detail     string    `json:"detail"`
	DetectedAt time.Time `json:"detectedAt"`
}

func newFlag(userID int64, weekID string, typ FlagType, subject string, severity Severity, detail string) Flag {
	return Flag{
		ID:       uuid.New(),
		UserID:   userID,
		WeekID:   weekID,
		Type:     typ,
		Subject:  subject,
		Severity: severity,
		Status:   StatusPending,
		Detail:   detail,
	}
}

// TrailingAverage is the weighted mean of the prior weeks, most recent first.
// Weeks without a row count as zero. ok is false when fewer than minWeeks of
// the prior weeks have a row.
func TrailingAverage(prior []float64, present []bool, weights []float64, minWeeks int) (avg float64, ok bool) {
	var sum, weightSum float64
	seen := 0
	for i, w := range weights {
		if i >= len(prior) {
			break
		}
		if present[i] {
			seen++
		}
		sum += w * prior[i]
		weightSum += w
	}
	if weightSum == 0 || seen < minWeeks {
		return 0, false
	}
	return sum / weightSum, true
}

// SpikeFlags compares a user's week with the weighted trailing average of the
// preceding weeks, for both XP and volume.
func SpikeFlags(current aggregator.WeeklyProgression, history map[string]aggregator.WeeklyProgression, weekID week.ID, cfg Config) []Flag {
	n := len(cfg.TrailingWeights)
	xps := make([]float64, n)
	volumes := make([]float64, n)
	present := make([]bool, n)
	prev := weekID
	for i := 0; i < n; i++ {
		prev = prev.Prev()
		if row, ok := history[prev.String()]; ok {
			xps[i] = float64(row.XP)
			volumes[i] = row.VolumeKg
			present[i] = true
		}
	}

	var flags []Flag
	if avg, ok := TrailingAverage(xps, present, cfg.TrailingWeights, cfg.MinHistoryWeeks); ok && avg > 0 {
		ratio := float64(current.XP) / avg
		if ratio > cfg.SpikeMultiplier && current.XP >= cfg.MinSpikeXP {
			flags = append(flags, newFlag(current.UserID, current.WeekID, FlagXPSpike, "xp",
				spikeSeverity(ratio, cfg.SpikeMultiplier),
				fmt.Sprintf("weekly xp %d is %.1fx the trailing average %.0f", current.XP, ratio, avg),
			))
		}
	}
	if avg, ok := TrailingAverage(volumes, present, cfg.TrailingWeights, cfg.MinHistoryWeeks); ok && avg > 0 {
		ratio := current.VolumeKg / avg
		if ratio > cfg.SpikeMultiplier && current.VolumeKg >= cfg.MinSpikeVolumeKg {
			flags = append(flags, newFlag(current.UserID, current.WeekID, FlagVolumeSpike, "volume",
				spikeSeverity(ratio, cfg.SpikeMultiplier),
				fmt.Sprintf("weekly volume %.0f kg is %.1fx the trailing average %.0f kg", current.VolumeKg, ratio, avg),
			))
		}
	}
	return flags
}

func spikeSeverity(ratio, multiplier float64) Severity {
	if ratio >= 2*multiplier {
		return SeverityHigh
	}
	return SeverityMedium
}

// ImpossibleSetFlags flags every set above the physiological ceilings.
func ImpossibleSetFlags(s upstream.Session, weekID string, cfg Config) []Flag {
	var flags []Flag
	for _, set := range s.Sets {
		kg := set.Kilograms()
		if kg <= cfg.MaxSetWeightKg && set.Reps <= cfg.MaxReps {
			continue
		}
		flags = append(flags, newFlag(s.UserID, weekID, FlagImpossibleSet,
			fmt.Sprintf("set:%d", set.ID),
			SeverityHigh,
			fmt.Sprintf("session %d: %d reps x %.1f kg exceeds limits (%d reps, %.0f kg)",
				s.ID, set.Reps, kg, cfg.MaxReps, cfg.MaxSetWeightKg),
		))
	}
	return flags
}

// ScriptedPatternFlags flags sessions whose sets were logged at machine-regular
// intervals: many samples with a near zero spread.
func ScriptedPatternFlags(s upstream.Session, weekID string, cfg Config) []Flag {
	if len(s.Sets) < cfg.ScriptedMinSamples+1 {
		return nil
	}

	times := make([]time.Time, 0, len(s.Sets))
	for _, set := range s.Sets {
		times = append(times, set.PerformedAt)
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	intervals := make([]float64, 0, len(times)-1)
	for i := 1; i < len(times); i++ {
		intervals = append(intervals, times[i].Sub(times[i-1]).Seconds())
	}
	mean, stddev := meanStddev(intervals)
	if mean <= 0 || stddev > cfg.ScriptedMaxStddev.Seconds() {
		return nil
	}

	return []Flag{newFlag(s.UserID, weekID, FlagScriptedPattern,
		fmt.Sprintf("session:%d", s.ID),
		SeverityMedium,
		fmt.Sprintf("%d set intervals of %.1fs with stddev %.2fs", len(intervals), mean, stddev),
	)}
}

func meanStddev(values []float64) (mean, stddev float64) {
	if len(values) == 0 {
		return 0, 0
	}
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(variance / float64(len(values)))
}

// NewAccountFlags flags accounts younger than NewAccountAge at the end of the
// week whose XP is in the top percentile of the week.
func NewAccountFlags(rows []aggregator.WeeklyProgression, createdAt map[int64]time.Time, weekEnd time.Time, cfg Config) []Flag {
	if len(rows) < cfg.NewAccountMinPopulation || len(rows) == 0 {
		return nil
	}

	xps := make([]int64, 0, len(rows))
	for _, r := range rows {
		xps = append(xps, r.XP)
	}
	sort.Slice(xps, func(i, j int) bool { return xps[i] < xps[j] })
	// nearest rank
	rank := int(math.Ceil(cfg.NewAccountPercentile*float64(len(xps)))) - 1
	rank = min(max(rank, 0), len(xps)-1)
	threshold := xps[rank]

	var flags []Flag
	for _, r := range rows {
		created, ok := createdAt[r.UserID]
		if !ok || r.XP < threshold {
			continue
		}
		age := weekEnd.Sub(created)
		if age >= cfg.NewAccountAge {
			continue
		}
		flags = append(flags, newFlag(r.UserID, r.WeekID, FlagNewAccountRisk, "account",
			SeverityMedium,
			fmt.Sprintf("account %.1f days old reached %d xp (p%.0f threshold %d)",
				age.Hours()/24, r.XP, cfg.NewAccountPercentile*100, threshold),
		))
	}
	return flags
}
