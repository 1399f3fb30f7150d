package match

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/dotdotstudio/happycity/game/grid"
)

// busEvent records one emitted event and where it went.
type busEvent struct {
	Event   string
	Room    string // "sid:<sid>" for direct emits
	Payload any
}

// fakeBus records all traffic; timer goroutines emit concurrently, so it
// locks.
type fakeBus struct {
	mu     sync.Mutex
	events []busEvent
	rooms  map[string]map[string]bool // room -> set of sids
}

func newFakeBus() *fakeBus {
	return &fakeBus{rooms: make(map[string]map[string]bool)}
}

func (b *fakeBus) ToClient(sid, event string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, busEvent{Event: event, Room: "sid:" + sid, Payload: payload})
}

func (b *fakeBus) ToRoom(room, event string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, busEvent{Event: event, Room: room, Payload: payload})
}

func (b *fakeBus) JoinRoom(sid, room string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.rooms[room] == nil {
		b.rooms[room] = make(map[string]bool)
	}
	b.rooms[room][sid] = true
}

func (b *fakeBus) LeaveRoom(sid, room string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.rooms[room], sid)
}

func (b *fakeBus) named(event string) []busEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []busEvent
	for _, e := range b.events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

func (b *fakeBus) lastNamed(event string) (busEvent, bool) {
	all := b.named(event)
	if len(all) == 0 {
		return busEvent{}, false
	}
	return all[len(all)-1], true
}

func (b *fakeBus) count(event string) int {
	return len(b.named(event))
}

func (b *fakeBus) inRoom(room, sid string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rooms[room][sid]
}

// fakeClient is a transport handle for tests.
type fakeClient struct {
	uid, sid string

	mu    sync.Mutex
	bound *Match
}

func newFakeClient(n int) *fakeClient {
	return &fakeClient{
		uid: fmt.Sprintf("uid-%d", n),
		sid: fmt.Sprintf("sid-%d", n),
	}
}

func (c *fakeClient) UID() string { return c.uid }
func (c *fakeClient) SID() string { return c.sid }

func (c *fakeClient) JoinMatch(m *Match) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bound = m
}

func (c *fakeClient) LeaveMatch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bound = nil
}

func (c *fakeClient) boundMatch() *Match {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bound
}

type fakeSettings struct {
	single bool
}

func (s *fakeSettings) SinglePlayer() bool { return s.single }

type fakeRegistry struct {
	mu      sync.Mutex
	removed []*Match
}

func (r *fakeRegistry) RemoveGame(m *Match) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, m)
}

func (r *fakeRegistry) removedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.removed)
}

// stubSource hands out sequential unique names per source.
type stubSource struct {
	next int
}

func (s *stubSource) GenerateCommandName(role int) (string, bool) {
	s.next++
	return fmt.Sprintf("widget-%d-%d", role, s.next), true
}

func (s *stubSource) GenerateAction() string {
	s.next++
	return fmt.Sprintf("poke-%d", s.next)
}

type stubFactory struct{}

func (stubFactory) NewNameSource() grid.NameSource { return &stubSource{} }

// testMatch bundles a match with its observable collaborators.
type testMatch struct {
	m        *Match
	bus      *fakeBus
	registry *fakeRegistry
	settings *fakeSettings
	clients  []*fakeClient
}

// newTestMatch creates a match with n joined players (room sized to fit) and
// registers disposal cleanup so stray timers cannot outlive the test.
func newTestMatch(t *testing.T, n int) *testMatch {
	t.Helper()

	tm := &testMatch{
		bus:      newFakeBus(),
		registry: &fakeRegistry{},
		settings: &fakeSettings{},
	}
	tm.m = New("test game", true, Deps{
		Bus:      tm.bus,
		Registry: tm.registry,
		Settings: tm.settings,
		Names:    stubFactory{},
		Rand:     rand.New(rand.NewSource(42)),
	})
	if err := tm.m.SetUUID("match-under-test"); err != nil {
		t.Fatalf("SetUUID: %v", err)
	}
	t.Cleanup(func() { tm.m.Dispose() })

	if n > 2 {
		size := n
		if err := tm.m.UpdateSettings(&size, nil); err != nil {
			t.Fatalf("UpdateSettings: %v", err)
		}
	}
	for i := 0; i < n; i++ {
		c := newFakeClient(i)
		tm.clients = append(tm.clients, c)
		if err := tm.m.Join(c); err != nil {
			t.Fatalf("Join client %d: %v", i, err)
		}
	}
	return tm
}

// start readies every player and starts the match.
func (tm *testMatch) start(t *testing.T) {
	t.Helper()
	for _, c := range tm.clients {
		if err := tm.m.Ready(c); err != nil {
			t.Fatalf("Ready: %v", err)
		}
	}
	if err := tm.m.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
}

// generateAll issues a first instruction to every slot, bypassing the warmup
// timer.
func (tm *testMatch) generateAll() {
	tm.m.mu.Lock()
	defer tm.m.mu.Unlock()
	for _, s := range tm.m.slots {
		tm.m.generateInstruction(s, nil, false, nil)
	}
}

// slotOf finds the slot occupied by c.
func (tm *testMatch) slotOf(t *testing.T, c *fakeClient) *Slot {
	t.Helper()
	tm.m.mu.Lock()
	defer tm.m.mu.Unlock()
	s := tm.m.slot(c)
	if s == nil {
		t.Fatalf("client %s has no slot", c.sid)
	}
	return s
}

// ownerOf returns the client whose grid contains the named widget.
func (tm *testMatch) ownerOf(t *testing.T, name string) *fakeClient {
	t.Helper()
	tm.m.mu.Lock()
	defer tm.m.mu.Unlock()
	for i, s := range tm.m.slots {
		if s.Grid != nil && s.Grid.Widget(name) != nil {
			return tm.clients[i]
		}
	}
	t.Fatalf("no grid contains widget %q", name)
	return nil
}

func (tm *testMatch) health() float64 {
	tm.m.mu.Lock()
	defer tm.m.mu.Unlock()
	return tm.m.health
}

func (tm *testMatch) instructionCount() int {
	tm.m.mu.Lock()
	defer tm.m.mu.Unlock()
	return len(tm.m.instructions)
}
