package match

import (
	"errors"
	"testing"
)

func TestSetUUID_WriteOnce(t *testing.T) {
	m := New("g", true, Deps{Bus: newFakeBus()})
	if err := m.SetUUID("one"); err != nil {
		t.Fatalf("first SetUUID: %v", err)
	}
	if err := m.SetUUID("two"); !errors.Is(err, ErrUUIDAlreadySet) {
		t.Fatalf("second SetUUID: got %v, want ErrUUIDAlreadySet", err)
	}
	if m.UUID() != "one" {
		t.Errorf("uuid = %q, want %q", m.UUID(), "one")
	}
}

func TestJoin_HostAndRoles(t *testing.T) {
	tm := newTestMatch(t, 4)

	tm.m.mu.Lock()
	defer tm.m.mu.Unlock()
	if len(tm.m.slots) != 4 {
		t.Fatalf("slots = %d, want 4", len(tm.m.slots))
	}
	for i, s := range tm.m.slots {
		wantHost := i == 0
		if s.Host != wantHost {
			t.Errorf("slot %d host = %v, want %v", i, s.Host, wantHost)
		}
		if s.Role != i {
			t.Errorf("slot %d role = %d, want %d", i, s.Role, i)
		}
	}
}

func TestJoin_EmitsEvents(t *testing.T) {
	tm := newTestMatch(t, 2)

	if got := tm.bus.count("game_join_success"); got != 2 {
		t.Errorf("game_join_success count = %d, want 2", got)
	}
	last, ok := tm.bus.lastNamed("game_info")
	if !ok {
		t.Fatal("no game_info broadcast")
	}
	info := last.Payload.(GameInfo)
	if info.Players != 2 || info.GameID != "match-under-test" {
		t.Errorf("game_info = %+v", info)
	}
	if len(info.Slots) != 2 {
		t.Errorf("slots padded to %d, want max_players 2", len(info.Slots))
	}
	// Public game: lobby notified too.
	if tm.bus.count("lobby_info") == 0 {
		t.Error("no lobby_info for public game")
	}
	// Joined the match room.
	if !tm.bus.inRoom("game/match-under-test", "sid-0") {
		t.Error("joiner not in match room")
	}
}

func TestJoin_FullRoom(t *testing.T) {
	tm := newTestMatch(t, 2) // default max_players is 2

	extra := newFakeClient(9)
	if err := tm.m.Join(extra); err != nil {
		t.Fatalf("full-room join should not error, got %v", err)
	}
	fail, ok := tm.bus.lastNamed("game_join_fail")
	if !ok {
		t.Fatal("no game_join_fail emitted")
	}
	if fail.Room != "sid:sid-9" {
		t.Errorf("game_join_fail went to %s", fail.Room)
	}
	tm.m.mu.Lock()
	defer tm.m.mu.Unlock()
	if len(tm.m.slots) != 2 {
		t.Errorf("slots mutated on refused join: %d", len(tm.m.slots))
	}
}

func TestJoin_WhilePlaying(t *testing.T) {
	tm := newTestMatch(t, 2)
	tm.start(t)

	if err := tm.m.Join(newFakeClient(9)); !errors.Is(err, ErrGameInProgress) {
		t.Fatalf("join while playing: got %v, want ErrGameInProgress", err)
	}
}

func TestReady_ToggleTwice(t *testing.T) {
	tm := newTestMatch(t, 2)
	before := tm.bus.count("game_info")

	if err := tm.m.Ready(tm.clients[0]); err != nil {
		t.Fatalf("Ready: %v", err)
	}
	if err := tm.m.Ready(tm.clients[0]); err != nil {
		t.Fatalf("Ready again: %v", err)
	}

	s := tm.slotOf(t, tm.clients[0])
	tm.m.mu.Lock()
	ready := s.Ready
	tm.m.mu.Unlock()
	if ready {
		t.Error("double toggle should restore ready=false")
	}
	if got := tm.bus.count("game_info") - before; got != 2 {
		t.Errorf("game_info broadcasts = %d, want 2", got)
	}
}

func TestReady_NotAMember(t *testing.T) {
	tm := newTestMatch(t, 2)
	if err := tm.m.Ready(newFakeClient(9)); !errors.Is(err, ErrNotInMatch) {
		t.Fatalf("got %v, want ErrNotInMatch", err)
	}
}

func TestStart_RequiresAllReady(t *testing.T) {
	tm := newTestMatch(t, 2)

	if err := tm.m.Start(); !errors.Is(err, ErrStartConditions) {
		t.Fatalf("start unready: got %v, want ErrStartConditions", err)
	}
	tm.m.Ready(tm.clients[0])
	if err := tm.m.Start(); !errors.Is(err, ErrStartConditions) {
		t.Fatalf("start half-ready: got %v, want ErrStartConditions", err)
	}
	tm.m.Ready(tm.clients[1])
	if err := tm.m.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !tm.m.Playing() {
		t.Error("match not playing after start")
	}
}

func TestStart_TwoPlayerWarmupScenario(t *testing.T) {
	tm := newTestMatch(t, 2)
	tm.start(t)

	if tm.bus.count("lobby_disposed") == 0 {
		t.Error("no lobby_disposed on start")
	}

	started := tm.bus.named("game_started")
	if len(started) != 2 {
		t.Fatalf("game_started emitted %d times, want 2", len(started))
	}
	roles := map[string]int{}
	for _, e := range started {
		roles[e.Room] = e.Payload.(startedPayload).Role
	}
	if roles["sid:sid-0"] != 0 || roles["sid:sid-1"] != 1 {
		t.Errorf("roles = %v", roles)
	}

	tm.m.mu.Lock()
	if tm.m.level != 0 {
		t.Errorf("level = %d, want 0", tm.m.level)
	}
	for i, s := range tm.m.slots {
		if s.Grid == nil || s.Grid.Width != 2 || s.Grid.Height != 2 {
			t.Errorf("slot %d grid not 2x2", i)
		}
	}
	tm.m.mu.Unlock()

	// Intro: everyone done reveals grids and the warmup countdown.
	tm.m.IntroDone(tm.clients[0])
	if tm.bus.count("grid") != 0 {
		t.Error("grids revealed before everyone finished the intro")
	}
	tm.m.IntroDone(tm.clients[1])
	if got := tm.bus.count("grid"); got != 2 {
		t.Errorf("grid events = %d, want 2", got)
	}
	warm, ok := tm.bus.lastNamed("command")
	if !ok {
		t.Fatal("no warmup command")
	}
	wp := warm.Payload.(commandPayload)
	if wp.Text != "Prepare to receive instructions" {
		t.Errorf("warmup text = %q", wp.Text)
	}
	if wp.Time != 5 { // 25 / 5
		t.Errorf("warmup time = %v, want 5", wp.Time)
	}
	if warm.Room != "game/match-under-test" {
		t.Errorf("warmup went to %s", warm.Room)
	}
}

func TestSinglePlayer_AutoStart(t *testing.T) {
	tm := &testMatch{
		bus:      newFakeBus(),
		registry: &fakeRegistry{},
		settings: &fakeSettings{single: true},
	}
	tm.m = New("solo", false, Deps{
		Bus:      tm.bus,
		Registry: tm.registry,
		Settings: tm.settings,
		Names:    stubFactory{},
	})
	tm.m.SetUUID("solo-game")
	t.Cleanup(func() { tm.m.Dispose() })

	c := newFakeClient(0)
	if err := tm.m.Join(c); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if !tm.m.Playing() {
		t.Error("single-player join should start the game")
	}
}

func TestUpdateSettings_Clamps(t *testing.T) {
	tm := newTestMatch(t, 2)

	big := 99
	if err := tm.m.UpdateSettings(&big, nil); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	if got := tm.m.GameInfo().MaxPlayers; got != MaxPlayers {
		t.Errorf("max_players = %d, want %d", got, MaxPlayers)
	}

	small := 0
	tm.m.UpdateSettings(&small, nil)
	if got := tm.m.GameInfo().MaxPlayers; got != 2 {
		t.Errorf("max_players = %d, want 2", got)
	}
}

func TestUpdateSettings_GoingPrivate(t *testing.T) {
	tm := newTestMatch(t, 2)
	before := tm.bus.count("lobby_disposed")

	private := false
	if err := tm.m.UpdateSettings(nil, &private); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	if got := tm.bus.count("lobby_disposed") - before; got != 1 {
		t.Errorf("lobby_disposed delta = %d, want 1", got)
	}
}

func TestLeave_HostReassignment(t *testing.T) {
	tm := newTestMatch(t, 2)

	if err := tm.m.Leave(tm.clients[0]); err != nil {
		t.Fatalf("Leave: %v", err)
	}
	info, _ := tm.bus.lastNamed("game_info")
	gi := info.Payload.(GameInfo)
	if gi.Slots[0] == nil || !gi.Slots[0].Host {
		t.Errorf("survivor not promoted to host: %+v", gi.Slots[0])
	}

	// Last player leaving disposes the match.
	if err := tm.m.Leave(tm.clients[1]); err != nil {
		t.Fatalf("Leave last: %v", err)
	}
	if got := tm.registry.removedCount(); got != 1 {
		t.Errorf("registry removals = %d, want 1", got)
	}
	if err := tm.m.Dispose(); !errors.Is(err, ErrAlreadyDisposing) {
		t.Errorf("re-dispose: got %v, want ErrAlreadyDisposing", err)
	}
}

func TestLeave_DuringPlayDisposes(t *testing.T) {
	tm := newTestMatch(t, 2)
	tm.start(t)

	if err := tm.m.Leave(tm.clients[0]); err != nil {
		t.Fatalf("Leave: %v", err)
	}
	if tm.bus.count("player_disconnected") != 1 {
		t.Error("no player_disconnected broadcast")
	}
	if got := tm.registry.removedCount(); got != 1 {
		t.Errorf("registry removals = %d, want 1", got)
	}
	// Remaining client was detached.
	if tm.clients[1].boundMatch() != nil {
		t.Error("surviving client still bound after dispose")
	}
}

func TestLeave_NotAMember(t *testing.T) {
	tm := newTestMatch(t, 2)
	if err := tm.m.Leave(newFakeClient(9)); !errors.Is(err, ErrNotInMatch) {
		t.Fatalf("got %v, want ErrNotInMatch", err)
	}
}

func TestDoCommand_Validation(t *testing.T) {
	tm := newTestMatch(t, 2)

	if err := tm.m.DoCommand(tm.clients[0], "whatever", nil); !errors.Is(err, ErrGameNotInProgress) {
		t.Fatalf("do_command before start: got %v", err)
	}

	tm.start(t)

	if err := tm.m.DoCommand(newFakeClient(9), "whatever", nil); !errors.Is(err, ErrNotInMatch) {
		t.Fatalf("stranger do_command: got %v", err)
	}
	if err := tm.m.DoCommand(tm.clients[0], "no-such-widget", nil); !errors.Is(err, ErrCommandNotFound) {
		t.Fatalf("unknown widget: got %v", err)
	}

	// Find one widget of each testable kind on client 0's grid.
	s := tm.slotOf(t, tm.clients[0])
	tm.m.mu.Lock()
	widgets := s.Grid.Widgets
	tm.m.mu.Unlock()
	for _, w := range widgets {
		var bad any
		switch {
		case w.Kind == "button":
			bad = 1
		case w.SliderLike():
			bad = w.Max + 1
		case w.Kind == "switch":
			bad = "on"
		case w.Kind == "actions":
			bad = "not-an-action"
		}
		if err := tm.m.DoCommand(tm.clients[0], w.Name, bad); !errors.Is(err, ErrInvalidValue) {
			t.Errorf("widget %q (%s) with bad value: got %v, want ErrInvalidValue", w.Name, w.Kind, err)
		}
	}
}

func TestDispose_CancelsAndDetaches(t *testing.T) {
	tm := newTestMatch(t, 2)
	tm.start(t)
	tm.generateAll()

	if err := tm.m.Dispose(); err != nil {
		t.Fatalf("Dispose: %v", err)
	}
	for i, c := range tm.clients {
		if c.boundMatch() != nil {
			t.Errorf("client %d still bound after dispose", i)
		}
	}
	if got := tm.registry.removedCount(); got != 1 {
		t.Errorf("registry removals = %d, want 1", got)
	}
	// Terminal: no further external op mutates state.
	if err := tm.m.Ready(tm.clients[0]); err == nil {
		t.Error("op after dispose should fail")
	}
}
