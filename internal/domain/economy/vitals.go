package economy

import (
	"math"
	"strconv"
)

func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamped bounds hunger, energy and boredom. Money is left alone.
func (v Vitals) Clamped() Vitals {
	v.Hunger = Clamp(v.Hunger, VitalMin, VitalMax)
	v.Energy = Clamp(v.Energy, VitalMin, VitalMax)
	v.Boredom = Clamp(v.Boredom, VitalMin, VitalMax)
	return v
}

func (v Vitals) Apply(e Effect) Vitals {
	v.Hunger += e.Hunger
	v.Energy += e.Energy
	v.Boredom += e.Boredom
	return v.Clamped()
}

// Decayed applies one hour of physiological drift.
func (v Vitals) Decayed(sleeping bool) Vitals {
	v.Hunger += DecayHunger
	v.Energy += DecayEnergy
	v.Boredom += DecayBoredom
	if sleeping {
		v.Energy += SleepEnergyRecovery
		v.Hunger += SleepHungerDrain
	}
	return v.Clamped()
}

func (v Vitals) Critical() bool {
	return v.Hunger > CriticalHunger || v.Energy < CriticalEnergy
}

func roundHalfUp(f float64) int {
	return int(math.Floor(f + 0.5))
}

func formatMoney(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', -1, 64)
}
