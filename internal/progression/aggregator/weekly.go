package aggregator

import "time"

// WeeklyProgression is the per user, per ISO week leaderboard row.
type WeeklyProgression struct {
	UserID          int64     `json:"userId"`
	WeekID          string    `json:"weekId"`
	XP              int64     `json:"xp"`
	Workouts        int       `json:"workouts"`
	VolumeKg        float64   `json:"volumeKg"`
	PersonalRecords int       `json:"personalRecords"`
	ActiveDays      int       `json:"activeDays"`
	GymCode         *string   `json:"gymCode,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Summary reports one aggregation run.
type Summary struct {
	WeekID          string        `json:"weekId"`
	Sessions        int           `json:"sessions"`
	InvalidSessions int           `json:"invalidSessions"`
	UsersUpdated    int           `json:"usersUpdated"`
	RowsChanged     int           `json:"rowsChanged"`
	UsersPruned     int           `json:"usersPruned"`
	GymLookupFailed bool          `json:"gymLookupFailed"`
	// qualifying sessions whose live award was missing and got replayed
	AwardsCaughtUp  int           `json:"awardsCaughtUp"`
	StartedAt       time.Time     `json:"startedAt"`
	Duration        time.Duration `json:"duration"`
}
