package names

import (
	"math/rand"
	"sync"
	"time"
)

// randomAttempts bounds how many random draws are made before falling back
// to an exhaustive scan of the remaining combinations.
const randomAttempts = 32

// Generator hands out unique adjective+noun command names per role, and
// action verbs. It is safe for concurrent use.
type Generator struct {
	mu         sync.Mutex
	rng        *rand.Rand
	adjectives []string
	nouns      [][]string
	verbs      []string
	used       map[string]bool
}

// NewGenerator creates a Generator backed by the default word lists.
func NewGenerator(rng *rand.Rand) *Generator {
	return NewGeneratorWithWords(rng, Adjectives, RoleNouns, ActionVerbs)
}

// NewGeneratorWithWords creates a Generator with custom word lists. Useful
// for tests that need tiny, exhaustible pools.
func NewGeneratorWithWords(rng *rand.Rand, adjectives []string, nouns [][]string, verbs []string) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{
		rng:        rng,
		adjectives: adjectives,
		nouns:      nouns,
		verbs:      verbs,
		used:       make(map[string]bool),
	}
}

// GenerateCommandName returns a name unique for this Generator's lifetime,
// drawn from role's themed pool. It returns ok=false once every combination
// for the role has been handed out.
func (g *Generator) GenerateCommandName(role int) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if role < 0 {
		role = 0
	}
	if role >= len(g.nouns) {
		role = len(g.nouns) - 1
	}
	pool := g.nouns[role]
	if len(pool) == 0 || len(g.adjectives) == 0 {
		return "", false
	}

	for i := 0; i < randomAttempts; i++ {
		name := g.adjectives[g.rng.Intn(len(g.adjectives))] + " " + pool[g.rng.Intn(len(pool))]
		if !g.used[name] {
			g.used[name] = true
			return name, true
		}
	}

	// Random draws kept colliding; scan for anything left.
	for _, adj := range g.adjectives {
		for _, noun := range pool {
			name := adj + " " + noun
			if !g.used[name] {
				g.used[name] = true
				return name, true
			}
		}
	}
	return "", false
}

// GenerateAction returns a random action verb. Verbs may repeat.
func (g *Generator) GenerateAction() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.verbs[g.rng.Intn(len(g.verbs))]
}
