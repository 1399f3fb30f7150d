// Package names generates widget command names and action verbs.
//
// Names are adjective+noun pairs drawn from role-themed word lists (one list
// of nouns per player role, a shared adjective list). A Generator hands out
// each combination at most once; when a role's pool is exhausted it reports
// ok=false and the caller is expected to stop asking. A fresh Generator is
// typically created per grid-generation round so names stay unique across
// every grid of a match.
package names
