package domain

import "math"

const (
	DefaultTargetHealth = 100.0
	DefaultTargetArmor  = 100.0

	minPool = 0.0
	maxPool = 100.0
)

// Environment holds the simulated target. Both pools are percentages in [0,100].
type Environment struct {
	targetHealth float64
	targetArmor  float64
}

func NewEnvironment() Environment {
	return Environment{targetHealth: DefaultTargetHealth, targetArmor: DefaultTargetArmor}
}

// Reset restores the 100/100 defaults.
func (e *Environment) Reset() {
	*e = NewEnvironment()
}

func (e Environment) TargetHealth() float64 { return e.targetHealth }
func (e Environment) TargetArmor() float64  { return e.targetArmor }

// TotalEffectiveHP is the damage budget a weapon has to deplete.
func (e Environment) TotalEffectiveHP() float64 {
	return e.targetHealth + e.targetArmor
}

// SetTargetHealth clamps v to [0,100] and returns the stored value.
func (e *Environment) SetTargetHealth(v float64) float64 {
	if !math.IsNaN(v) {
		e.targetHealth = clampPool(v)
	}
	return e.targetHealth
}

// SetTargetArmor clamps v to [0,100] and returns the stored value.
func (e *Environment) SetTargetArmor(v float64) float64 {
	if !math.IsNaN(v) {
		e.targetArmor = clampPool(v)
	}
	return e.targetArmor
}

func clampPool(v float64) float64 {
	return math.Min(maxPool, math.Max(minPool, v))
}
