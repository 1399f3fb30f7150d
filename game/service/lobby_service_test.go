package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dotdotstudio/happycity/game/match"
)

var errNotFound = errors.New("game not found")

type fakeRegistry struct {
	games map[string]*match.Match
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{games: make(map[string]*match.Match)}
}

func (r *fakeRegistry) CreateGame(name string, public bool) (*match.Match, error) {
	g := match.New(name, public, match.Deps{Bus: nopBus{}})
	id := "game-" + name
	if err := g.SetUUID(id); err != nil {
		return nil, err
	}
	r.games[id] = g
	return g, nil
}

func (r *fakeRegistry) Get(id string) (*match.Match, error) {
	g, ok := r.games[id]
	if !ok {
		return nil, errNotFound
	}
	return g, nil
}

func (r *fakeRegistry) ListPublic() []match.LobbyInfo {
	var out []match.LobbyInfo
	for _, g := range r.games {
		if g.Public() {
			out = append(out, g.LobbyInfo())
		}
	}
	return out
}

type nopBus struct{}

func (nopBus) ToClient(sid, event string, payload any) {}
func (nopBus) ToRoom(room, event string, payload any)  {}
func (nopBus) JoinRoom(sid, room string)               {}
func (nopBus) LeaveRoom(sid, room string)              {}

func TestCreateGame(t *testing.T) {
	svc := NewLobbyService(newFakeRegistry())

	info, err := svc.CreateGame(context.Background(), "rush hour", true)
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if info.Name != "rush hour" || !info.Public || info.GameID == "" {
		t.Errorf("info = %+v", info)
	}
	if info.MaxPlayers != 2 || info.Players != 0 {
		t.Errorf("fresh game info = %+v", info)
	}
}

func TestCreateGame_DefaultName(t *testing.T) {
	svc := NewLobbyService(newFakeRegistry())

	info, err := svc.CreateGame(context.Background(), "", false)
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if info.Name != "Unnamed game" {
		t.Errorf("name = %q", info.Name)
	}
}

func TestListGames(t *testing.T) {
	reg := newFakeRegistry()
	svc := NewLobbyService(reg)
	svc.CreateGame(context.Background(), "visible", true)
	svc.CreateGame(context.Background(), "invisible", false)

	games, err := svc.ListGames(context.Background())
	if err != nil {
		t.Fatalf("ListGames: %v", err)
	}
	if len(games) != 1 || games[0].Name != "visible" {
		t.Errorf("games = %+v", games)
	}
}

func TestGetGame(t *testing.T) {
	reg := newFakeRegistry()
	svc := NewLobbyService(reg)
	created, _ := svc.CreateGame(context.Background(), "inspect", true)

	info, err := svc.GetGame(context.Background(), created.GameID)
	if err != nil {
		t.Fatalf("GetGame: %v", err)
	}
	if info.GameID != created.GameID {
		t.Errorf("info = %+v", info)
	}
	if len(info.Slots) != info.MaxPlayers {
		t.Errorf("slots not padded: %d vs %d", len(info.Slots), info.MaxPlayers)
	}

	if _, err := svc.GetGame(context.Background(), "missing"); !errors.Is(err, errNotFound) {
		t.Errorf("missing game: got %v", err)
	}
}
