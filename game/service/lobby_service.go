package service

import (
	"context"
	"fmt"

	"github.com/dotdotstudio/happycity/game/match"
)

// LobbyService defines the game-registry operations offered to transports.
type LobbyService interface {
	CreateGame(ctx context.Context, name string, public bool) (match.LobbyInfo, error)
	ListGames(ctx context.Context) ([]match.LobbyInfo, error)
	GetGame(ctx context.Context, id string) (match.GameInfo, error)
}

// Registry is the subset of the lobby manager the service needs.
type Registry interface {
	CreateGame(name string, public bool) (*match.Match, error)
	Get(id string) (*match.Match, error)
	ListPublic() []match.LobbyInfo
}

type lobbyService struct {
	registry Registry
}

// NewLobbyService wires a LobbyService over the given registry.
func NewLobbyService(registry Registry) LobbyService {
	return &lobbyService{registry: registry}
}

func (s *lobbyService) CreateGame(ctx context.Context, name string, public bool) (match.LobbyInfo, error) {
	if name == "" {
		name = "Unnamed game"
	}
	g, err := s.registry.CreateGame(name, public)
	if err != nil {
		return match.LobbyInfo{}, fmt.Errorf("failed to create game: %w", err)
	}
	return g.LobbyInfo(), nil
}

func (s *lobbyService) ListGames(ctx context.Context) ([]match.LobbyInfo, error) {
	return s.registry.ListPublic(), nil
}

func (s *lobbyService) GetGame(ctx context.Context, id string) (match.GameInfo, error) {
	g, err := s.registry.Get(id)
	if err != nil {
		return match.GameInfo{}, fmt.Errorf("game %s: %w", id, err)
	}
	return g.GameInfo(), nil
}
