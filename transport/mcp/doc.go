// Package mcp exposes the lobby over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call turns into a request against
// the REST API, so MCP consumers and browser clients always observe the same
// state. Gameplay itself stays on the websocket transport; the tools cover
// browsing and creating games and inspecting a game's room info.
package mcp
