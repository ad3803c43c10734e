package herostore

import (
	"fmt"
	"math/rand/v2"
	"sync"
)

// Generated ids are eight digit integers.
const (
	MinGeneratedID = 10_000_000
	MaxGeneratedID = 99_999_999
)

const defaultMaxAttempts = 16

// IDGenerator allocates ids for heroes created without one.
// taken holds the ids seen by the scan that preceded the allocation;
// implementations may ignore it.
type IDGenerator interface {
	NextID(taken map[int]struct{}) (int, error)
}

// IsPlaceholderID reports whether id means "assign one for me".
func IsPlaceholderID(id int) bool {
	return id == 0 || id == -1
}

// RandomIDGenerator draws uniformly from [MinGeneratedID, MaxGeneratedID]
// without checking for collisions.
type RandomIDGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomIDGenerator returns a generator backed by rnd.
// A nil rnd uses the process-wide source.
func NewRandomIDGenerator(rnd *rand.Rand) *RandomIDGenerator {
	return &RandomIDGenerator{rnd: rnd}
}

func (g *RandomIDGenerator) NextID(_ map[int]struct{}) (int, error) {
	return MinGeneratedID + g.intN(MaxGeneratedID-MinGeneratedID+1), nil
}

func (g *RandomIDGenerator) intN(n int) int {
	if g == nil || g.rnd == nil {
		return rand.IntN(n)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rnd.IntN(n)
}

// UniqueIDGenerator retries draws from a source until it finds an id that is not taken.
type UniqueIDGenerator struct {
	random      IDGenerator
	maxAttempts int
}

// NewUniqueIDGenerator returns a generator that gives up after maxAttempts draws.
// A nil source uses a RandomIDGenerator; a non-positive maxAttempts uses the default of 16.
func NewUniqueIDGenerator(source IDGenerator, maxAttempts int) *UniqueIDGenerator {
	random := source
	if random == nil {
		random = NewRandomIDGenerator(nil)
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &UniqueIDGenerator{random: random, maxAttempts: maxAttempts}
}

func (g *UniqueIDGenerator) NextID(taken map[int]struct{}) (int, error) {
	for range g.maxAttempts {
		id, err := g.random.NextID(nil)
		if err != nil {
			return 0, fmt.Errorf("next id: %w", err)
		}
		if _, used := taken[id]; !used {
			return id, nil
		}
	}
	return 0, fmt.Errorf("next id after %d attempts: %w", g.maxAttempts, ErrIDExhausted)
}

// NewIDGenerator builds the generator for the given strategy.
func NewIDGenerator(strategy IDStrategy, maxAttempts int) (IDGenerator, error) {
	switch strategy {
	case IDStrategyRandom, "":
		return NewRandomIDGenerator(nil), nil
	case IDStrategyUnique:
		return NewUniqueIDGenerator(nil, maxAttempts), nil
	default:
		return nil, fmt.Errorf("new id generator: invalid strategy: %s", strategy)
	}
}
