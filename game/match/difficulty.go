package match

import "math"

// Difficulty bundles the tunable gameplay parameters of a level. It is a
// value type: copies are independent, which keeps the baseline snapshot
// immutable.
type Difficulty struct {
	// InstructionsTime is the number of seconds allowed per instruction.
	InstructionsTime float64
	// HealthDrainRate is health lost per second.
	HealthDrainRate float64
	// DeathLimitIncreaseRate is death-limit rise per second.
	DeathLimitIncreaseRate float64
	// CompletedInstructionHealthIncrease is health awarded per completion.
	CompletedInstructionHealthIncrease float64
	// ExpiredCommandHealthDecrease is health lost per expiry.
	ExpiredCommandHealthDecrease float64
	// AsteroidChance is the probability of an asteroid event per generation.
	AsteroidChance float64
	// BlackHoleChance is the probability of a black-hole event per generation.
	BlackHoleChance float64
	// SpecialCommandCooldown is the number of instructions between specials.
	SpecialCommandCooldown int
	// GameModifierChance rises with each level; level start plants a game
	// modifier every level without consulting it.
	GameModifierChance float64
}

// DefaultDifficulty returns the baseline parameters of a fresh match.
func DefaultDifficulty() Difficulty {
	return Difficulty{
		InstructionsTime:                   25,
		HealthDrainRate:                    0.5,
		DeathLimitIncreaseRate:             0.05,
		CompletedInstructionHealthIncrease: 10,
		ExpiredCommandHealthDecrease:       5,
		AsteroidChance:                     0,
		BlackHoleChance:                    0,
		SpecialCommandCooldown:             3,
		GameModifierChance:                 0.1,
	}
}

// Advance returns the parameters for the following level: a little less
// time, a little more drain, capped so late levels stay playable. Special
// event chances reset each level.
func (d Difficulty) Advance() Difficulty {
	n := d
	n.InstructionsTime = math.Max(7.0, d.InstructionsTime-1.25)
	n.HealthDrainRate = math.Min(1.25, d.HealthDrainRate+0.35)
	n.DeathLimitIncreaseRate = math.Min(1.25, d.DeathLimitIncreaseRate+0.15)
	n.CompletedInstructionHealthIncrease = math.Max(3.0, d.CompletedInstructionHealthIncrease-0.5)
	n.ExpiredCommandHealthDecrease = math.Min(11.5, d.ExpiredCommandHealthDecrease+0.25)
	n.AsteroidChance = 0
	n.BlackHoleChance = 0
	n.GameModifierChance = math.Min(1.0, d.GameModifierChance+0.25)
	return n
}
