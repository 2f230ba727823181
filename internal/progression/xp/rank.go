package xp

import (
	"errors"
	"fmt"
	"sort"
)

var ErrInvalidRankTable = errors.New("invalid rank table")

type RankTier struct {
	MinXP int64  `toml:"min_xp" json:"minXp"`
	Name  string `toml:"name" json:"name"`
}

// RankTable resolves named ranks from cumulative XP.
type RankTable struct {
	tiers []RankTier
}

func DefaultRankTiers() []RankTier {
	return []RankTier{
		{MinXP: 0, Name: "Rookie"},
		{MinXP: 2_500, Name: "Iron"},
		{MinXP: 10_000, Name: "Bronze"},
		{MinXP: 40_000, Name: "Silver"},
		{MinXP: 90_000, Name: "Gold"},
		{MinXP: 160_000, Name: "Platinum"},
		{MinXP: 250_000, Name: "Diamond"},
		{MinXP: 490_000, Name: "Legend"},
	}
}

// NewRankTable requires a non-empty table sorted by strictly increasing MinXP.
func NewRankTable(tiers []RankTier) (*RankTable, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("%w: no tiers", ErrInvalidRankTable)
	}
	for i, t := range tiers {
		if t.Name == "" {
			return nil, fmt.Errorf("%w: tier %d has no name", ErrInvalidRankTable, i)
		}
		if i > 0 && t.MinXP <= tiers[i-1].MinXP {
			return nil, fmt.Errorf("%w: tier %q is not above %q", ErrInvalidRankTable, t.Name, tiers[i-1].Name)
		}
	}
	return &RankTable{
		tiers: append([]RankTier(nil), tiers...),
	}, nil
}

// Resolve returns the highest tier whose threshold is <= xp, or the lowest tier
// when xp is below every threshold.
func (rt *RankTable) Resolve(xp int64) RankTier {
	// index of the first tier above xp
	i := sort.Search(len(rt.tiers), func(i int) bool {
		return rt.tiers[i].MinXP > xp
	})
	if i == 0 {
		return rt.tiers[0]
	}
	return rt.tiers[i-1]
}

func (rt *RankTable) Tiers() []RankTier {
	return append([]RankTier(nil), rt.tiers...)
}
