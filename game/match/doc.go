// Package match implements the per-match runtime of the instruction game.
//
// A Match owns its slots (one per player), the set of in-flight
// instructions, the level/health/death-limit progression and every scheduled
// timer. Players join a match in the lobby state, ready up, and start; each
// level regenerates every player's grid, plants a themed "game modifier"
// widget, and streams instructions to each player until the shared health
// either reaches 100 (next level) or sinks below the rising death limit
// (game over).
//
// All match state is mutated under a single mutex, so a match behaves as one
// logical execution context: operations, timer callbacks and the health
// drain loop are serialized, and cancelling a timer is effective at its next
// suspension point. Outbound traffic goes through the EventBus contract; the
// runtime never touches the transport directly.
package match
