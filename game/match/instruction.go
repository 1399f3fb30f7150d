package match

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/dotdotstudio/happycity/game/grid"
)

// Command is anything an instruction can point at: a widget on some slot's
// grid, or one of the dummy special commands.
type Command interface {
	CommandName() string
}

// specialCommand is an instruction target that lives on no grid: it is
// discharged by a unanimous defeat call instead of a widget manipulation.
type specialCommand struct {
	blackHole bool
}

func (c *specialCommand) CommandName() string {
	if c.blackHole {
		return "black hole"
	}
	return "asteroid"
}

func newAsteroidCommand() *specialCommand  { return &specialCommand{} }
func newBlackHoleCommand() *specialCommand { return &specialCommand{blackHole: true} }

// Instruction is an obligation binding a source slot to an action on a
// target slot's widget. Value is the manipulation value that completes it;
// nil for buttons and for special commands.
type Instruction struct {
	Source        *Slot
	Target        *Slot
	TargetCommand Command
	SpecialAction bool
	Value         any
	Text          string
}

// newInstruction derives the required value and the player-facing phrasing
// from the target command.
func newInstruction(source, target *Slot, cmd Command, specialAction bool, rng *rand.Rand) *Instruction {
	in := &Instruction{
		Source:        source,
		Target:        target,
		TargetCommand: cmd,
		SpecialAction: specialAction,
	}

	switch c := cmd.(type) {
	case *specialCommand:
		if c.blackHole {
			in.Text = "Black hole detected! All hands brace for impact"
		} else {
			in.Text = "Asteroid incoming! All hands brace for impact"
		}
	case *grid.Widget:
		own := target == source
		switch c.Kind {
		case grid.KindButton:
			in.Text = phrase("Press", c.Name, own)
		case grid.KindSwitch:
			in.Value = !c.Toggled
			if c.Toggled {
				in.Text = phrase("Turn off", c.Name, own)
			} else {
				in.Text = phrase("Turn on", c.Name, own)
			}
		case grid.KindActions:
			a := c.Actions[rng.Intn(len(c.Actions))]
			in.Value = strings.ToLower(a)
			in.Text = phrase(a, c.Name, own)
		default: // slider-likes
			v := c.Min + rng.Intn(c.Max-c.Min+1)
			if v == c.Value {
				v = c.Min + (v-c.Min+1)%(c.Max-c.Min+1)
			}
			in.Value = v
			in.Text = phrase("Set", c.Name, own) + fmt.Sprintf(" to %d", v)
		}
	}
	return in
}

// phrase builds "<verb> <name>" or "<verb> your <name>" when the target is
// the instruction's own source.
func phrase(verb, name string, own bool) string {
	if own {
		return fmt.Sprintf("%s your %s", verb, name)
	}
	return fmt.Sprintf("%s %s", verb, name)
}

// isSpecial reports whether the instruction targets a dummy special command.
func (in *Instruction) isSpecial() bool {
	_, ok := in.TargetCommand.(*specialCommand)
	return ok
}
