package names

import (
	"math/rand"
	"sync"
	"time"

	"github.com/dotdotstudio/happycity/game/grid"
)

// Factory produces a fresh Generator per grid-generation round, so names are
// unique within a round but pools reset between rounds.
type Factory struct {
	mu   sync.Mutex
	seed *rand.Rand
}

// NewFactory creates a Factory with a time-seeded random source.
func NewFactory() *Factory {
	return &Factory{seed: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewNameSource returns a fresh Generator over the default word lists.
func (f *Factory) NewNameSource() grid.NameSource {
	f.mu.Lock()
	defer f.mu.Unlock()
	return NewGenerator(rand.New(rand.NewSource(f.seed.Int63())))
}
