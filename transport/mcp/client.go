package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dotdotstudio/happycity/game/match"
)

// Client is a thin MCP server that proxies every tool call to the REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates an MCP client targeting the REST API at baseURL.
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	c.initMCPServer()
	return c
}

// GetMCPServer returns the underlying MCP server for mounting.
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Happy City Game Server",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Happy City - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Happy City is a cooperative real-time instruction game: players receive
instructions that usually refer to widgets on other players' grids and must
coordinate to complete them before the shared health runs out. Gameplay
happens over the websocket transport; these tools let you browse the lobby,
create games, and inspect a game's room state.

AVAILABLE TOOLS:
- list_games: List public games waiting in the lobby
- create_game: Create a new game
- game_info: Get a game's room info (players, readiness, host)`),
	)
	c.registerTools()
}

func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_games",
		Description: "List public games waiting for players",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListGames)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_game",
		Description: "Create a new game, optionally listed publicly in the lobby",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Display name of the game",
				},
				"public": map[string]interface{}{
					"type":        "boolean",
					"description": "List the game in the public lobby",
				},
			},
		},
	}, c.handleCreateGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_info",
		Description: "Get a game's room info: players, readiness and host",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID to inspect",
				},
			},
			Required: []string{"game_id"},
		},
	}, c.handleGameInfo)
}

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func (c *Client) handleListGames(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count int               `json:"count"`
		Games []match.LobbyInfo `json:"games"`
	}
	if err := c.apiCall("GET", "/api/games", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Public games (%d):\n\n", response.Count)
	for _, g := range response.Games {
		result += fmt.Sprintf("- %s (%q, %d/%d players)\n",
			g.GameID, g.Name, g.Players, g.MaxPlayers)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleCreateGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	name, _ := args["name"].(string)
	public, _ := args["public"].(bool)

	var info match.LobbyInfo
	if err := c.apiCall("POST", "/api/games", map[string]any{
		"name":   name,
		"public": public,
	}, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created game %s (%q, public=%v)\n", info.GameID, info.Name, info.Public)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)
	if gameID == "" {
		return mcp.NewToolResultError("game_id is required"), nil
	}

	var info match.GameInfo
	if err := c.apiCall("GET", "/api/games/"+gameID, nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Game %s (%q)\nPlayers: %d/%d  Public: %v\n",
		info.GameID, info.Name, info.Players, info.MaxPlayers, info.Public)
	for i, s := range info.Slots {
		if s == nil {
			result += fmt.Sprintf("  slot %d: empty\n", i)
			continue
		}
		result += fmt.Sprintf("  slot %d: %s ready=%v host=%v\n", i, s.UID, s.Ready, s.Host)
	}
	return mcp.NewToolResultText(result), nil
}
