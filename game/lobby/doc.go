// Package lobby maintains the registry of live matches.
//
// The Manager creates matches (assigning each its write-once uuid), resolves
// them by id, lists the public ones for lobby browsers, and removes them
// when they dispose. To keep lock ordering simple the manager never calls
// into a match while holding its own lock; listings snapshot the registry
// first and query each match afterwards.
package lobby
