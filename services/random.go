package services

import (
	"math/rand"
	"sync"
	"time"
)

// Random picks among equally free tables. Tests substitute a seeded source.
type Random interface {
	Intn(n int) int
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRandom returns a goroutine-safe source seeded with seed.
func NewRandom(seed int64) Random {
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

// NewTimeSeededRandom is the production source.
func NewTimeSeededRandom() Random {
	return NewRandom(time.Now().UnixNano())
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}
