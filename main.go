// Command happycity starts the Happy City game server.
//
// The server exposes a REST API for creating and browsing games, the
// websocket endpoint players connect through, a prometheus /metrics
// endpoint, and an /mcp HTTP endpoint proxying lobby operations over the
// Model Context Protocol.
//
// Flags control host/port, debug logging and single-player mode; each flag
// can also be set through the matching environment variable (optionally via
// a .env file).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/dotdotstudio/happycity/api"
	"github.com/dotdotstudio/happycity/game/config"
	"github.com/dotdotstudio/happycity/game/lobby"
	"github.com/dotdotstudio/happycity/game/service"
	"github.com/dotdotstudio/happycity/transport/mcp"
	"github.com/dotdotstudio/happycity/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Happy City Game Server"
)

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	cmd := &cli.Command{
		Name:    "happycity",
		Usage:   "cooperative real-time instruction game server",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Value:   "0.0.0.0",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
			&cli.BoolFlag{
				Name:    "single-player",
				Usage:   "Start a game as soon as its first player joins",
				Sources: cli.EnvVars("SINGLE_PLAYER"),
			},
		},
		Action: runServer,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatalf("%s failed: %v", AppName, err)
	}
}

// runServer wires the services and runs the HTTP server until interrupted.
func runServer(ctx context.Context, cmd *cli.Command) error {
	cfg := config.New(
		cmd.String("host"),
		int(cmd.Int("port")),
		cmd.Bool("debug"),
		cmd.Bool("single-player"),
	)

	if cfg.Debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}

	log.Printf("Starting %s v%s", AppName, Version)

	hub := websocket.NewHub()
	recorder := api.NewRecorder()
	lobbyManager := lobby.NewManager(lobby.Deps{
		Bus:          hub,
		Settings:     cfg,
		MatchMetrics: recorder,
		Metrics:      recorder,
	})
	lobbyService := service.NewLobbyService(lobbyManager)
	apiServer := api.NewServer(lobbyService, hub, lobbyManager, nil)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	// MCP endpoint proxying the REST API.
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?uid=<player_id>", addr)
		log.Printf("Metrics: http://%s/metrics", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Printf("Received signal: %v. Shutting down...", sig)
	case <-ctx.Done():
		log.Println("Context cancelled. Shutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown: %w", err)
	}

	log.Println("Server stopped")
	return nil
}
