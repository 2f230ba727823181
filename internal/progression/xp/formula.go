package xp

import "math"

// Policy holds the XP award constants. The values are a product decision,
// not derived from anything, and are loaded from config.
type Policy struct {
	BaseAward       int64   `toml:"base_award"`
	PerKilogram     float64 `toml:"per_kilogram"`
	FirstOfDayBonus int64   `toml:"first_of_day_bonus"`
}

func DefaultPolicy() Policy {
	return Policy{
		BaseAward:       100,
		PerKilogram:     1,
		FirstOfDayBonus: 0,
	}
}

// WorkoutAward is the outcome of scoring one workout session.
type WorkoutAward struct {
	Qualifying     bool    `json:"qualifying"`
	TrainingVolume float64 `json:"trainingVolumeKg"`
	XP             int64   `json:"xp"`
}

// Award maps a workout's training volume to XP. Non qualifying workouts earn nothing,
// qualifying ones earn at least BaseAward.
func (p Policy) Award(volumeKg float64, qualifying, firstOfDay bool) int64 {
	if !qualifying {
		return 0
	}
	award := p.BaseAward
	if volumeKg > 0 && p.PerKilogram > 0 {
		award += int64(math.Floor(volumeKg * p.PerKilogram))
	}
	if firstOfDay {
		award += p.FirstOfDayBonus
	}
	return award
}

// WorkoutXP validates the sets and scores them as a single workout.
func (p Policy) WorkoutXP(sets []SetEntry, firstOfDay bool) (WorkoutAward, error) {
	vol, err := TrainingVolume(sets)
	if err != nil {
		return WorkoutAward{}, err
	}
	qualifying := IsQualifying(sets)
	return WorkoutAward{
		Qualifying:     qualifying,
		TrainingVolume: vol,
		XP:             p.Award(vol, qualifying, firstOfDay),
	}, nil
}
