// Package service exposes the lobby operations the HTTP API and the MCP
// transport share. It is a thin seam over the registry: transports depend on
// the LobbyService interface, tests substitute fakes.
package service
