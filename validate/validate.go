// Command validate checks the built-in word lists the command-name
// generator draws from. It verifies:
//   - every role has a noun pool and the shared adjective pool is non-empty
//   - no duplicate words within a pool
//   - each role offers enough unique combinations for a full round of
//     4x4 grids across four players
//   - action verbs are present and unique
//   - no generated name can collide with a reserved game-modifier name
//
// It exits non-zero when any check fails, so it can run in CI.
package main

import (
	"fmt"
	"os"

	"github.com/dotdotstudio/happycity/game/names"
)

// minCombinations is the number of unique names one role may need in a
// round: a 4x4 grid is at most 16 widgets, and all four players could share
// a role theme in the worst case.
const minCombinations = 64

// reservedNames can appear on grids as planted modifier widgets; the
// generator must never produce them.
var reservedNames = []string{
	"Macy's Parade",
	"4th of July Fireworks",
	"Vote",
	"Bagel",
	"A Slice of Pizza",
}

// CheckResult captures the outcome of one validation check.
type CheckResult struct {
	Name   string
	Valid  bool
	Errors []string
}

func main() {
	results := []CheckResult{
		checkAdjectives(),
		checkRolePools(),
		checkActionVerbs(),
		checkReservedNames(),
	}

	failed := 0
	for _, r := range results {
		status := "OK"
		if !r.Valid {
			status = "FAIL"
			failed++
		}
		fmt.Printf("%-18s %s\n", r.Name, status)
		for _, e := range r.Errors {
			fmt.Printf("    - %s\n", e)
		}
	}

	if failed > 0 {
		fmt.Printf("\n%d of %d checks failed\n", failed, len(results))
		os.Exit(1)
	}
	fmt.Printf("\nAll %d checks passed\n", len(results))
}

func checkAdjectives() CheckResult {
	r := CheckResult{Name: "adjectives", Valid: true}
	if len(names.Adjectives) == 0 {
		r.fail("adjective pool is empty")
	}
	r.checkDuplicates(names.Adjectives, "adjective")
	return r
}

func checkRolePools() CheckResult {
	r := CheckResult{Name: "role nouns", Valid: true}
	if len(names.RoleNouns) == 0 {
		r.fail("no role noun pools defined")
		return r
	}
	for role, pool := range names.RoleNouns {
		if len(pool) == 0 {
			r.fail(fmt.Sprintf("role %d noun pool is empty", role))
			continue
		}
		r.checkDuplicates(pool, fmt.Sprintf("role %d noun", role))
		combos := len(names.Adjectives) * len(pool)
		if combos < minCombinations {
			r.fail(fmt.Sprintf("role %d offers %d combinations, need at least %d",
				role, combos, minCombinations))
		}
	}
	return r
}

func checkActionVerbs() CheckResult {
	r := CheckResult{Name: "action verbs", Valid: true}
	if len(names.ActionVerbs) == 0 {
		r.fail("action verb pool is empty")
	}
	r.checkDuplicates(names.ActionVerbs, "action verb")
	return r
}

func checkReservedNames() CheckResult {
	r := CheckResult{Name: "reserved names", Valid: true}
	reserved := make(map[string]bool, len(reservedNames))
	for _, n := range reservedNames {
		reserved[n] = true
	}
	for _, adj := range names.Adjectives {
		for _, pool := range names.RoleNouns {
			for _, noun := range pool {
				if name := adj + " " + noun; reserved[name] {
					r.fail(fmt.Sprintf("generator can produce reserved name %q", name))
				}
			}
		}
	}
	return r
}

func (r *CheckResult) fail(message string) {
	r.Valid = false
	r.Errors = append(r.Errors, message)
}

func (r *CheckResult) checkDuplicates(words []string, label string) {
	seen := make(map[string]bool, len(words))
	for _, w := range words {
		if seen[w] {
			r.fail(fmt.Sprintf("duplicate %s %q", label, w))
		}
		seen[w] = true
	}
}
