package leaderboard

import (
	"errors"
	"fmt"

	"github.com/2beens/gymprogress/internal/progression/week"
)

type Scope string

const (
	ScopeGlobal  Scope = "global"
	ScopeGym     Scope = "gym"
	ScopeFriends Scope = "friends"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

var ErrInvalidQuery = errors.New("invalid leaderboard query")

type Query struct {
	WeekID  week.ID
	Scope   Scope
	GymCode string
	// UserID is the viewer whose friends are ranked in the friends scope.
	UserID int64
	// UserIDs, when set, is used as the friends set instead of the social graph.
	UserIDs []int64
	Limit   int
	Offset  int
}

// Normalize validates the query and fills in the defaults.
func (q Query) Normalize() (Query, error) {
	if q.Scope == "" {
		q.Scope = ScopeGlobal
	}
	switch q.Scope {
	case ScopeGlobal:
	case ScopeGym:
		if q.GymCode == "" {
			return q, fmt.Errorf("%w: gym scope needs a gym code", ErrInvalidQuery)
		}
	case ScopeFriends:
		if q.UserID <= 0 && len(q.UserIDs) == 0 {
			return q, fmt.Errorf("%w: friends scope needs a user", ErrInvalidQuery)
		}
	default:
		return q, fmt.Errorf("%w: unknown scope %q", ErrInvalidQuery, q.Scope)
	}

	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if q.Offset < 0 {
		return q, fmt.Errorf("%w: negative offset", ErrInvalidQuery)
	}
	return q, nil
}

func (q Query) cacheable() bool {
	return q.Scope != ScopeFriends
}

func (q Query) cacheKey() string {
	return fmt.Sprintf("leaderboard::%s::%s::%s::%d::%d", q.WeekID, q.Scope, q.GymCode, q.Limit, q.Offset)
}

type Entry struct {
	Rank            int     `json:"rank"`
	UserID          int64   `json:"userId"`
	XP              int64   `json:"xp"`
	Workouts        int     `json:"workouts"`
	VolumeKg        float64 `json:"volumeKg"`
	PersonalRecords int     `json:"personalRecords"`
	ActiveDays      int     `json:"activeDays"`
	GymCode         *string `json:"gymCode,omitempty"`
}

// Page is a slice of a weekly standing. Ranks are 1-based positions in the
// scope, ordered by XP descending, ties broken by the lower user id.
type Page struct {
	WeekID  string  `json:"weekId"`
	Scope   Scope   `json:"scope"`
	GymCode string  `json:"gymCode,omitempty"`
	Total   int     `json:"total"`
	Limit   int     `json:"limit"`
	Offset  int     `json:"offset"`
	Entries []Entry `json:"entries"`
}
