package xp

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var ErrInvalidInput = errors.New("invalid set data")

const KilogramsPerPound = 0.453592

// Unit of the weight lifted in a set entry.
type Unit string

const (
	UnitKilograms Unit = "kg"
	UnitPounds    Unit = "lb"
)

func (u Unit) IsValid() bool {
	switch u {
	case UnitKilograms, UnitPounds:
		return true
	default:
		return false
	}
}

// SetEntry is a single logged set, as stored by the activity store.
type SetEntry struct {
	ID          int64     `json:"id"`
	Reps        int       `json:"reps"`
	Weight      float64   `json:"weight"`
	Unit        Unit      `json:"unit"`
	WarmUp      bool      `json:"warmUp"`
	PerformedAt time.Time `json:"performedAt"`
}

// Kilograms returns the set weight normalized to kilograms.
func (s SetEntry) Kilograms() float64 {
	if s.Unit == UnitPounds {
		return s.Weight * KilogramsPerPound
	}
	return s.Weight
}

func (s SetEntry) Validate() error {
	if s.Reps < 0 {
		return fmt.Errorf("%w: negative reps %d", ErrInvalidInput, s.Reps)
	}
	if math.IsNaN(s.Weight) || math.IsInf(s.Weight, 0) {
		return fmt.Errorf("%w: weight %v", ErrInvalidInput, s.Weight)
	}
	if s.Weight < 0 {
		return fmt.Errorf("%w: negative weight %v", ErrInvalidInput, s.Weight)
	}
	if !s.Unit.IsValid() {
		return fmt.Errorf("%w: unknown unit %q", ErrInvalidInput, s.Unit)
	}
	return nil
}

// TrainingVolume sums reps x weight (kg) over the working sets, warm-ups excluded.
func TrainingVolume(sets []SetEntry) (float64, error) {
	return volume(sets, false)
}

// RawVolume is like TrainingVolume, but warm-up sets are counted as well.
func RawVolume(sets []SetEntry) (float64, error) {
	return volume(sets, true)
}

func volume(sets []SetEntry, includeWarmUps bool) (float64, error) {
	var total float64
	for i, s := range sets {
		if err := s.Validate(); err != nil {
			return 0, fmt.Errorf("set %d: %w", i, err)
		}
		if s.WarmUp && !includeWarmUps {
			continue
		}
		total += float64(s.Reps) * s.Kilograms()
	}
	return total, nil
}

// IsQualifying reports whether the sets make up a qualifying workout,
// i.e. there is at least one non warm-up set.
func IsQualifying(sets []SetEntry) bool {
	for _, s := range sets {
		if !s.WarmUp {
			return true
		}
	}
	return false
}
