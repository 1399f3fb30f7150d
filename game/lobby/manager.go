package lobby

import (
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dotdotstudio/happycity/game/match"
	"github.com/dotdotstudio/happycity/game/names"
)

var (
	ErrGameNotFound = errors.New("game not found")
)

// Metrics receives registry-level counters. The zero implementation is used
// when no recorder is wired in.
type Metrics interface {
	MatchCreated()
	MatchRemoved()
}

type nopMetrics struct{}

func (nopMetrics) MatchCreated() {}
func (nopMetrics) MatchRemoved() {}

// Deps are the collaborators every created match is wired with.
type Deps struct {
	Bus          match.EventBus
	Settings     match.Settings
	Names        match.NameSourceFactory
	MatchMetrics match.Metrics
	Metrics      Metrics
}

// Manager is the process-wide match registry.
type Manager struct {
	mu    sync.Mutex
	games map[string]*match.Match

	deps    Deps
	metrics Metrics
	seed    *rand.Rand
}

// NewManager creates an empty registry.
func NewManager(deps Deps) *Manager {
	m := &Manager{
		games:   make(map[string]*match.Match),
		deps:    deps,
		metrics: deps.Metrics,
		seed:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if m.metrics == nil {
		m.metrics = nopMetrics{}
	}
	if m.deps.Names == nil {
		m.deps.Names = names.NewFactory()
	}
	return m
}

// CreateGame builds a match, assigns its uuid and registers it. The match is
// fully constructed before the registry lock is taken, so the manager never
// holds its lock while calling into a match.
func (m *Manager) CreateGame(name string, public bool) (*match.Match, error) {
	m.mu.Lock()
	seed := m.seed.Int63()
	m.mu.Unlock()

	g := match.New(name, public, match.Deps{
		Bus:      m.deps.Bus,
		Registry: m,
		Settings: m.deps.Settings,
		Names:    m.deps.Names,
		Metrics:  m.deps.MatchMetrics,
		Rand:     rand.New(rand.NewSource(seed)),
	})
	id := uuid.NewString()
	if err := g.SetUUID(id); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.games[id] = g
	m.mu.Unlock()

	m.metrics.MatchCreated()
	log.Printf("game %s created (name=%q public=%v)", id, name, public)
	return g, nil
}

// Get resolves a match by uuid.
func (m *Manager) Get(id string) (*match.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}

// RemoveGame drops a disposing match from the registry and tells lobby
// browsers it is gone. It is the match.Registry contract and may be called
// with the match's own lock held, so it never calls back into the match.
func (m *Manager) RemoveGame(g *match.Match) {
	m.mu.Lock()
	var id string
	for key, candidate := range m.games {
		if candidate == g {
			id = key
			delete(m.games, key)
			break
		}
	}
	m.mu.Unlock()

	if id == "" {
		return
	}
	if m.deps.Bus != nil {
		m.deps.Bus.ToRoom(match.LobbyRoom, "lobby_disposed", map[string]any{"game_id": id})
	}
	m.metrics.MatchRemoved()
	log.Printf("game %s removed from lobby", id)
}

// ListPublic returns lobby listings for every public, not-yet-started match.
// The registry is snapshotted first; matches are queried without the
// registry lock held.
func (m *Manager) ListPublic() []match.LobbyInfo {
	m.mu.Lock()
	snapshot := make([]*match.Match, 0, len(m.games))
	for _, g := range m.games {
		snapshot = append(snapshot, g)
	}
	m.mu.Unlock()

	infos := make([]match.LobbyInfo, 0, len(snapshot))
	for _, g := range snapshot {
		if g.Public() && !g.Playing() {
			infos = append(infos, g.LobbyInfo())
		}
	}
	return infos
}

// Count returns the number of registered matches.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.games)
}
