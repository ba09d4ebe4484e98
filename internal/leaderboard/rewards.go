package leaderboard

import "errors"

var (
	ErrInsufficientPoints = errors.New("not enough points")
	ErrRewardUnavailable  = errors.New("reward is not available")
	ErrUnknownReward      = errors.New("unknown reward")
)

// Reward is something points can be redeemed for.
type Reward struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Cost        int64  `json:"cost" yaml:"cost"`
	Available   bool   `json:"available" yaml:"available"`
}

// DefaultRewards returns the standard rewards catalog.
func DefaultRewards() []Reward {
	return []Reward{
		{ID: "coffee-voucher", Name: "Coffee Voucher", Description: "Free coffee at the office café", Cost: 100, Available: true},
		{ID: "lunch-voucher", Name: "Lunch Voucher", Description: "Free lunch at partner restaurants", Cost: 300, Available: true},
		{ID: "day-off", Name: "Extra Day Off", Description: "One additional paid day off", Cost: 1000, Available: true},
	}
}

func findReward(rewards []Reward, id string) (Reward, bool) {
	for _, r := range rewards {
		if r.ID == id {
			return r, true
		}
	}
	return Reward{}, false
}
