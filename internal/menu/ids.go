package menu

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator hands out identifiers for new sections and items.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator generates random v4 UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.New().String() }

// SequenceIDs generates predictable ids ("<prefix>1", "<prefix>2", ...).
// Useful in tests and deterministic imports.
type SequenceIDs struct {
	Prefix string

	mu sync.Mutex
	n  int
}

func (s *SequenceIDs) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s%d", s.Prefix, s.n)
}
