package scoring

import "github.com/dotcommander/qmreport/internal/types"

// TierCounts counts entities per tier.
type TierCounts struct {
	Green  int `json:"green" yaml:"green"`
	Orange int `json:"orange" yaml:"orange"`
	Red    int `json:"red" yaml:"red"`
}

// CountTiers tallies tiers.
func CountTiers(tiers []types.Tier) TierCounts {
	var c TierCounts
	for _, t := range tiers {
		switch t {
		case types.TierGreen:
			c.Green++
		case types.TierOrange:
			c.Orange++
		case types.TierRed:
			c.Red++
		}
	}
	return c
}

// Get returns the count for tier t.
func (c TierCounts) Get(t types.Tier) int {
	switch t {
	case types.TierGreen:
		return c.Green
	case types.TierOrange:
		return c.Orange
	case types.TierRed:
		return c.Red
	default:
		return 0
	}
}

// Total returns the number of counted entities.
func (c TierCounts) Total() int {
	return c.Green + c.Orange + c.Red
}

// Partition splits names by tier, keeping their order. The returned slices are
// never nil.
func Partition(names []string, tiers []types.Tier) (green, orange, red []string) {
	green, orange, red = []string{}, []string{}, []string{}
	for i, name := range names {
		switch tiers[i] {
		case types.TierGreen:
			green = append(green, name)
		case types.TierOrange:
			orange = append(orange, name)
		case types.TierRed:
			red = append(red, name)
		}
	}
	return green, orange, red
}
