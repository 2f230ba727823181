// Package notify moves progression events through the message broker:
// it consumes logged workouts and publishes level-ups, prestige resets and
// anti-cheat flags for the downstream consumers (notifications, moderation).
package notify

import (
	"time"

	"github.com/2beens/gymprogress/internal/progression/xp"
)

const (
	EventWorkoutLogged     = "workout.logged"
	EventLevelUp           = "progression.level_up"
	EventPrestigeCompleted = "progression.prestige"
	EventFlagRaised        = "anticheat.flag_raised"
)

// Topics maps every event kind to its broker topic.
type Topics struct {
	Workouts string `toml:"workouts"`
	LevelUps string `toml:"level_ups"`
	Prestige string `toml:"prestige"`
	Flags    string `toml:"flags"`
}

func DefaultTopics() Topics {
	return Topics{
		Workouts: "workout.logged",
		LevelUps: "progression.level-ups",
		Prestige: "progression.prestige",
		Flags:    "moderation.anticheat-flags",
	}
}

// WorkoutLogged is emitted by the activity service after a workout is saved.
// Sets may be omitted, in which case the session is loaded from the activity store.
type WorkoutLogged struct {
	UserID    int64         `json:"userId"`
	SessionID int64         `json:"sessionId"`
	StartedAt time.Time     `json:"startedAt"`
	Sets      []xp.SetEntry `json:"sets,omitempty"`
}

type LevelUp struct {
	UserID     int64     `json:"userId"`
	FromLevel  int       `json:"fromLevel"`
	ToLevel    int       `json:"toLevel"`
	XP         int64     `json:"xp"`
	OccurredAt time.Time `json:"occurredAt"`
}

type PrestigeCompleted struct {
	UserID        int64     `json:"userId"`
	PrestigeCount int       `json:"prestigeCount"`
	Badge         string    `json:"badge"`
	XPBefore      int64     `json:"xpBefore"`
	LevelBefore   int       `json:"levelBefore"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// FlagRaised feeds the human review queue.
type FlagRaised struct {
	ID         string    `json:"id"`
	UserID     int64     `json:"userId"`
	WeekID     string    `json:"weekId"`
	Type       string    `json:"type"`
	Subject    string    `json:"subject"`
	Severity   string    `json:"severity"`
	Detail     string    `json:"detail"`
	DetectedAt time.Time `json:"detectedAt"`
}
