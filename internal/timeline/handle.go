package timeline

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Handle is the stable opaque identifier of a Timeline within its set.
// The zero value means "no timeline" (an absent neighbor).
type Handle string

// None is the absent Handle.
const None Handle = ""

// HandleGenerator mints handles for newly created timelines.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
type HandleGenerator interface {
	Generate() Handle
}

// UUIDv7Generator generates time-sortable UUIDv7 handles.
//
// UUIDv7 embeds a timestamp in the most significant bits, so handles sort
// by timeline creation time, which is convenient when eyeballing dumps.
//
// Stateless and safe for concurrent use, though the core itself is
// single-threaded.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 handle.
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() Handle {
	return Handle(uuid.Must(uuid.NewV7()).String())
}

// FixedGenerator returns sequential predetermined handles for testing,
// "prefix-1", "prefix-2", and so on. Deterministic handles make golden
// snapshots and transcript replays reproducible.
type FixedGenerator struct {
	mu     sync.Mutex
	prefix string
	next   int
}

// NewFixedGenerator creates a generator with the given prefix.
func NewFixedGenerator(prefix string) *FixedGenerator {
	return &FixedGenerator{prefix: prefix, next: 1}
}

// Generate returns the next sequential handle.
func (g *FixedGenerator) Generate() Handle {
	g.mu.Lock()
	defer g.mu.Unlock()
	h := Handle(fmt.Sprintf("%s-%d", g.prefix, g.next))
	g.next++
	return h
}
