// Package api serves the HTTP surface of the game server.
//
// It exposes a small REST API for creating and browsing games, the
// websocket endpoint players connect through, a health check and a
// prometheus metrics endpoint. REST routes sit behind a per-IP token-bucket
// rate limiter; the websocket endpoint is exempt since a connection is
// established once.
package api
