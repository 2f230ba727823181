// Package progression exposes the progression engine over HTTP: live workout
// hooks, the per-user progression display, prestige, weekly leaderboards and
// the manual aggregation trigger.
package progression

import (
	"time"

	"github.com/2beens/gymprogress/internal/progression/prestige"
	"github.com/2beens/gymprogress/internal/progression/progress"
	"github.com/2beens/gymprogress/internal/progression/xp"
)

// View is what clients render for a user: the stored state plus everything
// derived from it at read time.
type View struct {
	UserID        int64            `json:"userId"`
	XP            int64            `json:"xp"`
	Level         int              `json:"level"`
	LevelProgress xp.LevelProgress `json:"levelProgress"`
	Rank          string           `json:"rank"`
	NextRank      *xp.RankTier     `json:"nextRank,omitempty"`
	// CurrentStreak is the effective streak: zero once a day was missed,
	// even before the stored value is corrected.
	CurrentStreak    int        `json:"currentStreak"`
	LongestStreak    int        `json:"longestStreak"`
	LastActivityDate *time.Time `json:"lastActivityDate,omitempty"`
	PrestigeCount    int        `json:"prestigeCount"`
	Badge            string     `json:"badge,omitempty"`
	LastPrestigeAt   *time.Time `json:"lastPrestigeAt,omitempty"`
}

func NewView(state *progress.State, effectiveStreak int, curve xp.Curve, ranks *xp.RankTable) View {
	rank := ranks.Resolve(state.XP)
	v := View{
		UserID:           state.UserID,
		XP:               state.XP,
		Level:            curve.Level(state.XP),
		LevelProgress:    curve.Progress(state.XP),
		Rank:             rank.Name,
		CurrentStreak:    effectiveStreak,
		LongestStreak:    state.LongestStreak,
		LastActivityDate: state.LastActivityDate,
		PrestigeCount:    state.PrestigeCount,
		Badge:            prestige.Badge(state.PrestigeCount),
		LastPrestigeAt:   state.LastPrestigeAt,
	}
	for _, tier := range ranks.Tiers() {
		if tier.MinXP > state.XP {
			next := tier
			v.NextRank = &next
			break
		}
	}
	return v
}
