package prestige

import (
	"fmt"
	"time"

	"github.com/2beens/gymprogress/internal/progression/progress"
)

type Reason string

const (
	ReasonBelowThreshold Reason = "below_threshold"
	ReasonCooldown       Reason = "cooldown"
)

type Policy struct {
	MinXP    int64         `toml:"min_xp"`
	Cooldown time.Duration `toml:"cooldown"`
}

func DefaultPolicy() Policy {
	return Policy{
		// level 50 on the default curve
		MinXP:    250_000,
		Cooldown: 7 * 24 * time.Hour,
	}
}

// Eligibility is a structured answer, being ineligible is not an error.
type Eligibility struct {
	Eligible   bool   `json:"eligible"`
	Reason     Reason `json:"reason,omitempty"`
	CurrentXP  int64  `json:"currentXp"`
	RequiredXP int64  `json:"requiredXp"`
	// set whenever the user is in cooldown
	NextEligibleAt *time.Time `json:"nextEligibleAt,omitempty"`
}

// Evaluate checks the XP threshold first, then the cooldown since the last
// prestige. A user below the threshold who is also in cooldown is reported
// as below threshold, with NextEligibleAt still set.
func Evaluate(state progress.State, p Policy, now time.Time) Eligibility {
	e := Eligibility{
		CurrentXP:  state.XP,
		RequiredXP: p.MinXP,
	}

	if state.LastPrestigeAt != nil {
		next := state.LastPrestigeAt.Add(p.Cooldown)
		if now.Before(next) {
			e.NextEligibleAt = &next
			e.Reason = ReasonCooldown
		}
	}
	if state.XP < p.MinXP {
		e.Reason = ReasonBelowThreshold
	}

	e.Eligible = e.Reason == ""
	return e
}

var badges = []string{
	"",
	"Bronze Laurel",
	"Silver Laurel",
	"Gold Laurel",
	"Platinum Laurel",
	"Diamond Laurel",
	"Obsidian Laurel",
}

// Badge names the cosmetic badge of a prestige count. Counts past the table
// are numbered Mythic tiers.
func Badge(prestigeCount int) string {
	if prestigeCount <= 0 {
		return ""
	}
	if prestigeCount < len(badges) {
		return badges[prestigeCount]
	}
	return fmt.Sprintf("Mythic %d", prestigeCount-len(badges)+1)
}
