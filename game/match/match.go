package match

import (
	"errors"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// Gameplay constants. These are fixed by the game design, not configurable.
const (
	StartingHealth = 50.0
	HealthLoopRate = 2 // seconds between health drain ticks
	MaxPlayers     = 4

	healthCeiling     = 100.0
	deathLimitCeiling = 90.0
	minWarmupSeconds  = 3

	// LobbyRoom is the transport room public game listings go to.
	LobbyRoom = "lobby"
)

var (
	ErrGameInProgress    = errors.New("game in progress")
	ErrGameNotInProgress = errors.New("game not in progress")
	ErrNotInMatch        = errors.New("client not in match")
	ErrCommandNotFound   = errors.New("command not found")
	ErrInvalidValue      = errors.New("invalid value for command")
	ErrStartConditions   = errors.New("conditions not met for game to start")
	ErrAlreadyDisposing  = errors.New("the match is already disposing")
	ErrUUIDAlreadySet    = errors.New("match uuid cannot be changed")
)

// Match is one running game: its slots, in-flight instructions, level and
// health progression, and every scheduled timer. All state is guarded by mu;
// exported methods lock, unexported ones assume the lock is held.
type Match struct {
	mu sync.Mutex

	uuid       string
	name       string
	public     bool
	maxPlayers int

	slots        []*Slot
	playing      bool
	disposing    bool
	instructions []*Instruction

	level      int
	health     float64
	deathLimit float64

	difficulty        Difficulty
	vanillaDifficulty Difficulty

	previousGameModifier string
	gameModifier         string
	specialAction        string

	healthDrainTask  *task
	gameModifierTask *task

	bus      EventBus
	registry Registry
	settings Settings
	metrics  Metrics
	names    NameSourceFactory
	rng      *rand.Rand
}

// Deps are the collaborators a match is wired with. Metrics and Rand are
// optional.
type Deps struct {
	Bus      EventBus
	Registry Registry
	Settings Settings
	Names    NameSourceFactory
	Metrics  Metrics
	Rand     *rand.Rand
}

// New creates a match in the lobby state. The uuid is assigned separately by
// the registry, exactly once.
func New(name string, public bool, deps Deps) *Match {
	m := &Match{
		name:              name,
		public:            public,
		maxPlayers:        2,
		level:             -1,
		health:            StartingHealth,
		difficulty:        DefaultDifficulty(),
		vanillaDifficulty: DefaultDifficulty(),
		bus:               deps.Bus,
		registry:          deps.Registry,
		settings:          deps.Settings,
		names:             deps.Names,
		metrics:           deps.Metrics,
		rng:               deps.Rand,
	}
	if m.metrics == nil {
		m.metrics = nopMetrics{}
	}
	if m.settings == nil {
		m.settings = defaultSettings{}
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return m
}

// SetUUID assigns the match identity. The uuid can be set only once.
func (m *Match) SetUUID(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.uuid != "" {
		return ErrUUIDAlreadySet
	}
	m.uuid = id
	return nil
}

// UUID returns the match identity, or "" if not yet assigned.
func (m *Match) UUID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uuid
}

// room returns the transport room all of this match's clients share.
func (m *Match) room() string {
	return "game/" + m.uuid
}

// slot returns the slot occupied by client, or nil.
func (m *Match) slot(c Client) *Slot {
	for _, s := range m.slots {
		if s.Client == c {
			return s
		}
	}
	return nil
}

// otherSlots returns every slot except s.
func (m *Match) otherSlots(s *Slot) []*Slot {
	others := make([]*Slot, 0, len(m.slots))
	for _, o := range m.slots {
		if o != s {
			others = append(others, o)
		}
	}
	return others
}

// Join adds a client to the match. The first joiner becomes host. A full
// room refuses the join with a game_join_fail event rather than an error.
// In single-player mode the match starts immediately.
func (m *Match) Join(c Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disposing {
		return ErrAlreadyDisposing
	}
	if m.playing {
		return ErrGameInProgress
	}
	if len(m.slots) >= m.maxPlayers {
		m.bus.ToClient(c.SID(), "game_join_fail", joinFailPayload{Message: "The game is full"})
		return nil
	}

	role := len(m.slots)
	if role > 3 {
		role = 3
	}
	m.slots = append(m.slots, &Slot{
		Client: c,
		Host:   len(m.slots) == 0,
		Role:   role,
	})

	m.bus.JoinRoom(c.SID(), m.room())
	c.JoinMatch(m)

	m.bus.ToClient(c.SID(), "game_join_success", joinSuccessPayload{GameID: m.uuid})
	m.notifyGame()
	m.notifyLobby()

	log.Printf("%s joined game %s", c.SID(), m.uuid)

	if m.settings.SinglePlayer() {
		return m.start()
	}
	return nil
}

// Leave removes a client. Leaving a running match disconnects everyone and
// disposes it; leaving the lobby reassigns the host if needed and disposes
// the match once empty.
func (m *Match) Leave(c Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disposing {
		return ErrAlreadyDisposing
	}

	var removed *Slot
	for i, s := range m.slots {
		if s.Client == c {
			removed = s
			m.slots = append(m.slots[:i], m.slots[i+1:]...)
			break
		}
	}
	if removed == nil {
		return ErrNotInMatch
	}

	m.bus.LeaveRoom(c.SID(), m.room())

	if m.playing && !m.disposing {
		m.bus.ToRoom(m.room(), "player_disconnected", struct{}{})
		if err := m.dispose(); err != nil && !errors.Is(err, ErrAlreadyDisposing) {
			return err
		}
	} else if !m.playing {
		if removed.Host && len(m.slots) > 0 {
			newHost := m.slots[m.rng.Intn(len(m.slots))]
			newHost.Host = true
			log.Printf("%s chosen as new host in game %s", newHost.Client.SID(), m.uuid)
		}
		m.notifyGame()
		m.notifyLobby()
		if len(m.slots) == 0 {
			if err := m.dispose(); err != nil {
				return err
			}
		}
	}

	log.Printf("%s left game %s", c.SID(), m.uuid)
	return nil
}

// UpdateSettings changes the room size and/or visibility. Size is clamped to
// [2, MaxPlayers]. Turning a public game private removes it from lobby
// listings.
func (m *Match) UpdateSettings(size *int, public *bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disposing {
		return ErrAlreadyDisposing
	}
	if m.playing {
		return ErrGameInProgress
	}
	visibilityChanged := false
	if size != nil {
		n := *size
		if n < 2 {
			n = 2
		}
		if n > MaxPlayers {
			n = MaxPlayers
		}
		m.maxPlayers = n
	}
	if public != nil {
		m.public = *public
		visibilityChanged = true
	}

	m.notifyGame()
	if m.public {
		m.notifyLobby()
	} else if visibilityChanged {
		m.notifyLobbyDispose()
	}
	return nil
}

// Ready toggles the client's ready flag.
func (m *Match) Ready(c Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disposing {
		return ErrAlreadyDisposing
	}
	if m.playing {
		return ErrGameInProgress
	}
	s := m.slot(c)
	if s == nil {
		return ErrNotInMatch
	}
	s.Ready = !s.Ready
	m.notifyGame()
	return nil
}

// Start begins the game: more than one player and everyone ready, or
// single-player mode.
func (m *Match) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.start()
}

func (m *Match) start() error {
	if m.disposing {
		return ErrAlreadyDisposing
	}
	if m.playing {
		return ErrGameInProgress
	}
	allReady := len(m.slots) > 1
	for _, s := range m.slots {
		if !s.Ready {
			allReady = false
			break
		}
	}
	if !allReady && !m.settings.SinglePlayer() {
		return ErrStartConditions
	}

	m.playing = true
	m.notifyLobbyDispose()
	m.nextLevel()
	m.metrics.GameStarted()

	for _, s := range m.slots {
		m.bus.ToClient(s.Client.SID(), "game_started", startedPayload{Role: s.Role})
	}
	return nil
}

// IntroDone marks that a client has played the level intro. Once every slot
// is done, grids are revealed and the warmup countdown begins.
func (m *Match) IntroDone(c Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disposing {
		return ErrAlreadyDisposing
	}
	if !m.playing {
		return ErrGameNotInProgress
	}
	s := m.slot(c)
	if s == nil {
		return ErrNotInMatch
	}
	s.IntroDone = true

	for _, s := range m.slots {
		if !s.IntroDone {
			return nil
		}
	}
	m.introDoneAll()
	return nil
}

// DoCommand reports that a client manipulated a widget on their own grid.
// The widget state is updated; if the manipulation matches an in-flight
// instruction, that instruction completes. A manipulation that matches
// nothing is discarded without penalty.
func (m *Match) DoCommand(c Client, commandName string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disposing {
		return ErrAlreadyDisposing
	}
	if !m.playing {
		return ErrGameNotInProgress
	}
	s := m.slot(c)
	if s == nil {
		return ErrNotInMatch
	}
	if s.Grid == nil {
		return ErrCommandNotFound
	}
	w := s.Grid.Widget(commandName)
	if w == nil {
		return ErrCommandNotFound
	}

	// Action values compare case-insensitively.
	if str, ok := value.(string); ok {
		value = strings.ToLower(str)
	}
	if !w.ValidValue(value) {
		return ErrInvalidValue
	}
	w.ApplyValue(value)

	var completed *Instruction
	for _, in := range m.instructions {
		if in.isSpecial() {
			continue
		}
		if in.TargetCommand.CommandName() == commandName &&
			in.Value == value &&
			!in.Source.hasCompletedSpecialAction {
			completed = in
		}
	}
	if completed == nil {
		// Useless command: no penalty.
		return nil
	}

	m.completeInstruction(completed, true)
	return nil
}

// DefeatSpecial records that a client is fighting the current asteroid or
// black hole. When every slot is fighting the same threat, all matching
// special instructions complete (without a health award). The caller's flag
// resets after two seconds.
func (m *Match) DefeatSpecial(c Client, blackHole bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disposing {
		return ErrAlreadyDisposing
	}
	if !m.playing {
		return ErrGameNotInProgress
	}
	s := m.slot(c)
	if s == nil {
		return ErrNotInMatch
	}

	if blackHole {
		s.defeatingBlackHole = true
	} else {
		s.defeatingAsteroid = true
	}

	allDefeating := true
	for _, o := range m.slots {
		if (blackHole && !o.defeatingBlackHole) || (!blackHole && !o.defeatingAsteroid) {
			allDefeating = false
			break
		}
	}

	if allDefeating {
		var completed []*Instruction
		for _, in := range m.instructions {
			if sc, ok := in.TargetCommand.(*specialCommand); ok && sc.blackHole == blackHole {
				completed = append(completed, in)
			}
		}
		for _, in := range completed {
			m.completeInstruction(in, false)
		}
	}

	m.schedule(2*time.Second, func() {
		if blackHole {
			s.defeatingBlackHole = false
		} else {
			s.defeatingAsteroid = false
		}
	})
	return nil
}

// Dispose tears the match down: every timer is cancelled, clients are
// detached, and the match is removed from the lobby registry. Terminal.
func (m *Match) Dispose() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dispose()
}

func (m *Match) dispose() error {
	if m.disposing {
		return ErrAlreadyDisposing
	}
	m.disposing = true

	for _, s := range m.slots {
		s.nextGeneration.Cancel()
	}
	m.healthDrainTask.Cancel()
	m.gameModifierTask.Cancel()

	for _, s := range m.slots {
		s.Client.LeaveMatch()
	}

	if m.registry != nil {
		m.registry.RemoveGame(m)
	}

	log.Printf("%s match disposed", m.uuid)
	return nil
}

// Playing reports whether the match has started.
func (m *Match) Playing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

// Public reports whether the match is listed in the lobby.
func (m *Match) Public() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.public
}
