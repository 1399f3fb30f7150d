package match

import (
	"log"
	"time"

	"github.com/dotdotstudio/happycity/game/grid"
)

// gameModifierNames is the fixed pool of level modifiers; one is planted
// into every player's grid each level.
var gameModifierNames = []string{
	"Macy's Parade",
	"4th of July Fireworks",
	"Vote",
	"Bagel",
	"A Slice of Pizza",
}

// gameModifierActions maps each modifier to its action list.
var gameModifierActions = map[string][]string{
	"Macy's Parade":         {"Attend"},
	"4th of July Fireworks": {"Watch"},
	"Vote":                  {"Submit"},
	"Bagel":                 {"Eat"},
	"A Slice of Pizza":      {"Eat"},
}

func isGameModifierName(name string) bool {
	for _, n := range gameModifierNames {
		if n == name {
			return true
		}
	}
	return false
}

// nextLevel advances the match one level: timers are stopped, health and the
// death limit reset, difficulty tightens (past level 0), every grid is
// regenerated at the new size, and the level's game modifier is planted.
func (m *Match) nextLevel() {
	m.healthDrainTask.Cancel()
	m.gameModifierTask.Cancel()
	for _, s := range m.slots {
		s.nextGeneration.Cancel()
	}

	m.level++
	if m.level == 0 {
		log.Printf("%s starting the game", m.uuid)
	} else {
		log.Printf("%s advancing to level %d", m.uuid, m.level+1)
	}

	m.health = StartingHealth
	m.deathLimit = 0

	if m.level > 0 {
		m.difficulty = m.difficulty.Advance()
	}

	for _, s := range m.slots {
		s.IntroDone = false
	}

	size := m.level/2 + 2
	if size > 4 {
		size = 4
	}
	source := m.names.NewNameSource()
	for _, s := range m.slots {
		s.Grid = grid.Generate(size, size, s.Role, m.level, source, m.rng)
	}

	// Pick this level's modifier, never repeating the previous one.
	m.previousGameModifier = m.gameModifier
	pool := make([]string, 0, len(gameModifierNames))
	for _, n := range gameModifierNames {
		if n != m.previousGameModifier {
			pool = append(pool, n)
		}
	}
	m.gameModifier = pool[m.rng.Intn(len(pool))]

	randTime := 10 + 15*m.rng.Float64()
	for _, s := range m.slots {
		if len(s.Grid.Widgets) == 0 {
			continue
		}
		idx := m.rng.Intn(len(s.Grid.Widgets))
		old := s.Grid.Widgets[idx]
		modifier := &grid.Widget{
			Kind:    grid.KindActions,
			Name:    m.gameModifier,
			X:       old.X,
			Y:       old.Y,
			W:       old.W,
			H:       old.H,
			Actions: gameModifierActions[m.gameModifier],
		}
		s.Grid.Widgets[idx] = modifier
		s.nextGeneration = m.scheduleGeneration(s, randTime, nil, true, modifier)
	}
}

// introDoneAll reveals every slot's grid, broadcasts the warmup countdown
// and, once it elapses, issues the first instructions and starts the health
// drain loop.
func (m *Match) introDoneAll() {
	for _, s := range m.slots {
		m.bus.ToClient(s.Client.SID(), "grid", s.Grid.Widgets)
	}

	warmup := int(m.difficulty.InstructionsTime / 5)
	if warmup < minWarmupSeconds {
		warmup = minWarmupSeconds
	}
	m.bus.ToRoom(m.room(), "command", commandPayload{
		Text: "Prepare to receive instructions",
		Time: float64(warmup),
	})

	m.schedule(time.Duration(warmup)*time.Second, func() {
		for _, s := range m.slots {
			m.generateInstruction(s, nil, false, nil)
		}
		m.healthDrainTask = m.startHealthDrain()
	})
}

// generateInstruction builds a fresh instruction for slot and schedules its
// expiry. expired travels to the client so it can style the handover; a nil
// command means a normal instruction is drawn, otherwise the given command
// (a planted modifier widget or a dummy special) is forced.
func (m *Match) generateInstruction(s *Slot, expired *bool, stopOldTask bool, command Command) {
	if stopOldTask {
		s.nextGeneration.Cancel()
	}
	old := s.Instruction
	if old != nil {
		// Usually already gone (expiry and completion remove it); dropping
		// it here keeps the set consistent for direct regenerations too.
		m.removeInstruction(old)
	}

	others := m.otherSlots(s)
	target := s
	if len(others) > 0 {
		target = others[m.rng.Intn(len(others))]
	}

	if command != nil {
		m.specialAction = command.CommandName()
	} else {
		m.specialAction = ""
	}

	if command == nil {
		switch {
		case m.rng.Float64() < m.difficulty.AsteroidChance && s.specialCommandCooldown <= 0:
			target = nil
			command = newAsteroidCommand()
			s.specialCommandCooldown = m.difficulty.SpecialCommandCooldown + 1
		case m.rng.Float64() < m.difficulty.BlackHoleChance && s.specialCommandCooldown <= 0:
			target = nil
			command = newBlackHoleCommand()
			s.specialCommandCooldown = m.difficulty.SpecialCommandCooldown + 1
		case m.settings.SinglePlayer():
			target = s
		default:
			if m.rng.Intn(6) == 0 {
				target = s
			} else if len(others) > 0 {
				target = others[m.rng.Intn(len(others))]
			}
		}
	}

	if s.specialCommandCooldown > 0 {
		s.specialCommandCooldown--
	}

	if command == nil {
		command, target = m.pickTargetWidget(s, target)
	}

	in := newInstruction(s, target, command, m.specialAction != "", m.rng)
	m.instructions = append(m.instructions, in)
	s.Instruction = in

	m.bus.ToClient(s.Client.SID(), "command", commandPayload{
		Text:    in.Text,
		Time:    m.difficulty.InstructionsTime,
		Expired: expired,
	})

	if old != nil && old.isSpecial() {
		m.bus.ToRoom(m.room(), "safe", struct{}{})
	}

	s.nextGeneration = m.scheduleGeneration(s, m.difficulty.InstructionsTime, boolPtr(true), false, nil)
}

// pickTargetWidget chooses a widget on the target's grid that is not a
// planted modifier and, preferably, not already claimed by another in-flight
// instruction. A grid with nothing but modifier widgets forces a retry
// against a different slot; if every attempt lands on such a grid, any widget
// of the last target is taken.
func (m *Match) pickTargetWidget(s *Slot, target *Slot) (Command, *Slot) {
	var options []*grid.Widget
	for attempt := 0; attempt <= len(m.slots); attempt++ {
		options = options[:0]
		for _, w := range target.Grid.Widgets {
			if !isGameModifierName(w.Name) {
				options = append(options, w)
			}
		}
		if len(options) == 0 {
			if len(m.slots) > 1 {
				others := m.otherSlots(target)
				target = others[m.rng.Intn(len(others))]
				continue
			}
			// Single slot with only modifier widgets left; take anything.
			all := target.Grid.Widgets
			return all[m.rng.Intn(len(all))], target
		}

		for range target.Grid.Widgets {
			cand := options[m.rng.Intn(len(options))]
			if !m.commandInUse(cand, s) {
				return cand, target
			}
		}
		// Every eligible widget is claimed; reuse one.
		return options[m.rng.Intn(len(options))], target
	}
	if len(options) == 0 {
		all := target.Grid.Widgets
		return all[m.rng.Intn(len(all))], target
	}
	return options[m.rng.Intn(len(options))], target
}

// commandInUse reports whether w is already the target of an in-flight
// instruction, including s's outgoing one.
func (m *Match) commandInUse(w *grid.Widget, s *Slot) bool {
	for _, in := range m.instructions {
		if in.TargetCommand == Command(w) {
			return true
		}
	}
	return s.Instruction != nil && s.Instruction.TargetCommand == Command(w)
}

// scheduleGeneration expires the slot's current instruction after the given
// seconds (removing it and applying the expiry penalty) and generates the
// next one. Cancelled tasks leave health and the instruction set untouched.
func (m *Match) scheduleGeneration(s *Slot, secs float64, expired *bool, stopOldTask bool, command Command) *task {
	return m.schedule(seconds(secs), func() {
		if s.Instruction != nil && m.removeInstruction(s.Instruction) {
			if expired != nil && *expired {
				m.metrics.InstructionExpired()
			}
		}
		m.health -= m.difficulty.ExpiredCommandHealthDecrease
		m.generateInstruction(s, expired, stopOldTask, command)
	})
}

// removeInstruction deletes in from the in-flight set, reporting whether it
// was present.
func (m *Match) removeInstruction(in *Instruction) bool {
	for i, other := range m.instructions {
		if other == in {
			m.instructions = append(m.instructions[:i], m.instructions[i+1:]...)
			return true
		}
	}
	return false
}

// startHealthDrain runs the per-level drain loop: every tick health sinks
// and the death limit climbs; the game ends when they meet.
func (m *Match) startHealthDrain() *task {
	return m.loop(HealthLoopRate*time.Second, m.drainTick)
}

// drainTick applies one drain step. It returns true when the game ended and
// the loop must stop.
func (m *Match) drainTick() bool {
	m.health -= m.difficulty.HealthDrainRate * HealthLoopRate
	m.deathLimit += m.difficulty.DeathLimitIncreaseRate * HealthLoopRate
	if m.deathLimit > deathLimitCeiling {
		m.deathLimit = deathLimitCeiling
	}

	if m.health <= m.deathLimit {
		m.gameOver()
		return true
	}
	m.notifyHealth()
	return false
}

// gameOver broadcasts the result and resets the match's progression. The
// match itself stays allocated; a subsequent leave drives disposal.
func (m *Match) gameOver() {
	m.bus.ToRoom(m.room(), "game_over", levelPayload{Level: m.level})
	log.Printf("%s game over at level %d", m.uuid, m.level)
	m.metrics.GameOver(m.level)

	m.level = -1
	m.health = StartingHealth
	m.deathLimit = 0
	m.healthDrainTask = nil
	m.previousGameModifier = ""
	m.gameModifier = ""
	m.gameModifierTask = nil
	m.difficulty = m.vanillaDifficulty
}

// completeInstruction discharges in. With a special action pending the match
// waits for every other slot to act before clearing the board; otherwise the
// instruction is removed, health awarded, and either the next level begins
// (health full) or the source receives a fresh instruction.
func (m *Match) completeInstruction(in *Instruction, increaseHealth bool) {
	if m.specialAction != "" {
		allOthers := true
		for _, s := range m.slots {
			if s == in.Source {
				continue
			}
			if !s.hasCompletedSpecialAction {
				allOthers = false
				break
			}
		}
		if !allOthers {
			in.Source.hasCompletedSpecialAction = true
			return
		}

		for _, s := range m.slots {
			s.hasCompletedSpecialAction = false
		}
		m.instructions = nil
		if increaseHealth {
			m.health += m.difficulty.CompletedInstructionHealthIncrease
		}
		m.metrics.InstructionCompleted()

		if m.health >= healthCeiling {
			m.nextLevel()
			m.bus.ToRoom(m.room(), "next_level", levelPayload{Level: m.level})
		} else {
			for _, s := range m.slots {
				m.generateInstruction(s, boolPtr(false), true, nil)
			}
			m.notifyHealth()
		}
		return
	}

	m.removeInstruction(in)
	if increaseHealth {
		m.health += m.difficulty.CompletedInstructionHealthIncrease
	}
	m.metrics.InstructionCompleted()

	if m.health >= healthCeiling {
		m.nextLevel()
		m.bus.ToRoom(m.room(), "next_level", levelPayload{Level: m.level})
	} else {
		m.generateInstruction(in.Source, boolPtr(false), true, nil)
		m.notifyHealth()
	}
}

func boolPtr(b bool) *bool {
	return &b
}
