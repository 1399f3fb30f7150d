package match

import "github.com/dotdotstudio/happycity/game/grid"

// Client is the transport-side handle for a connected player. UID identifies
// the user, SID the live connection; both are stable for the lifetime of the
// connection. JoinMatch and LeaveMatch bind the transport handle to the
// match so disconnects can be routed back.
type Client interface {
	UID() string
	SID() string
	JoinMatch(m *Match)
	LeaveMatch()
}

// EventBus is the outbound transport contract. Implementations must not
// block the caller; delivery failures are logged and swallowed on the
// transport side.
type EventBus interface {
	ToClient(sid, event string, payload any)
	ToRoom(room, event string, payload any)
	JoinRoom(sid, room string)
	LeaveRoom(sid, room string)
}

// Registry is the lobby-side collaborator a match reports its disposal to.
type Registry interface {
	RemoveGame(m *Match)
}

// Settings exposes the process configuration the runtime reads.
type Settings interface {
	SinglePlayer() bool
}

// NameSourceFactory produces a fresh name source per grid-generation round,
// so widget names are unique across every grid of the round.
type NameSourceFactory interface {
	NewNameSource() grid.NameSource
}

// Metrics receives gameplay counters. The zero implementation is used when
// no recorder is wired in.
type Metrics interface {
	GameStarted()
	GameOver(level int)
	InstructionCompleted()
	InstructionExpired()
}

type defaultSettings struct{}

func (defaultSettings) SinglePlayer() bool { return false }

type nopMetrics struct{}

func (nopMetrics) GameStarted()          {}
func (nopMetrics) GameOver(int)          {}
func (nopMetrics) InstructionCompleted() {}
func (nopMetrics) InstructionExpired()   {}
