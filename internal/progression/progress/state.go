package progress

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("user progression not found")

// State is the cumulative progression of one user. XP counts since the
// last prestige reset.
type State struct {
	UserID           int64      `json:"userId"`
	XP               int64      `json:"xp"`
	Level            int        `json:"level"`
	CurrentStreak    int        `json:"currentStreak"`
	LongestStreak    int        `json:"longestStreak"`
	LastActivityDate *time.Time `json:"lastActivityDate,omitempty"`
	PrestigeCount    int        `json:"prestigeCount"`
	LastPrestigeAt   *time.Time `json:"lastPrestigeAt,omitempty"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// Award identifies one live workout award. A (UserID, SessionID) pair is
// awarded at most once.
type Award struct {
	UserID    int64
	SessionID int64
	// calendar day of the workout in the reference timezone
	Day       time.Time
	AwardedAt time.Time
}

// Mutation computes the new state from the locked current one, and the XP
// awarded for it. firstOfDay is false when another session of the same user
// was already awarded on Award.Day.
type Mutation func(before State, firstOfDay bool) (after State, awarded int64)

type ApplyResult struct {
	Before  State
	After   State
	Awarded int64
	// the session was already awarded, nothing changed
	Replay bool
}
