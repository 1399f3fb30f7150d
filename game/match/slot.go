package match

import "github.com/dotdotstudio/happycity/game/grid"

// Slot is one seat in a match, occupied by one client.
type Slot struct {
	Client    Client
	Ready     bool
	IntroDone bool
	Host      bool
	Role      int

	Grid        *grid.Grid
	Instruction *Instruction

	nextGeneration *task

	specialCommandCooldown    int
	defeatingAsteroid         bool
	defeatingBlackHole        bool
	hasCompletedSpecialAction bool
}

// SlotInfo is the wire form of a slot in game_info broadcasts.
type SlotInfo struct {
	UID   string `json:"uid"`
	Ready bool   `json:"ready"`
	Host  bool   `json:"host"`
}

func (s *Slot) info() *SlotInfo {
	return &SlotInfo{
		UID:   s.Client.UID(),
		Ready: s.Ready,
		Host:  s.Host,
	}
}
