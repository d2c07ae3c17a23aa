package economy

import "math/rand"

// Dice is the only source of randomness the resolvers use.
type Dice interface {
	Intn(n int) int
}

func NewDice(seed int64) Dice {
	return rand.New(rand.NewSource(seed))
}

// TickDice derives a per-tick source so a tick resolves identically on replay.
func TickDice(seed int64, day, hour int) Dice {
	return NewDice(seed ^ int64(day)*1_000_003 ^ int64(hour)*7_919)
}

func rollOffset(d Dice) int {
	if d == nil {
		return 0
	}
	return d.Intn(2*SatisfactionSpread+1) - SatisfactionSpread
}
