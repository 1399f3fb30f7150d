// Package websocket adapts the match runtime onto gorilla/websocket.
//
// The Hub keeps the set of connected clients and named rooms and implements
// the runtime's event-bus contract: emits to a room or a single connection,
// room joins and leaves. Every outbound event is one JSON envelope
// {"event": ..., "data": ...}; delivery is best-effort — a message to a
// client whose send buffer is full is dropped, never waited on.
//
// Each Client owns a read pump and a write pump (the usual gorilla pair with
// ping/pong deadlines) and translates inbound envelopes into lobby and match
// operations. A read error tears the client out of its match, which for a
// running game disposes the match.
package websocket
