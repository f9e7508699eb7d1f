package protocol

import (
	"fmt"
	"sync"
)

// MessageID identifies a frame on the wire. It is sent high byte first.
type MessageID uint16

// High returns the byte sent first.
func (id MessageID) High() byte { return byte(id >> 8) }

// Low returns the byte sent second.
func (id MessageID) Low() byte { return byte(id) }

func (id MessageID) String() string {
	return fmt.Sprintf("%02x:%02x", id.High(), id.Low())
}

// reserved reports whether the device would reject id. Zero is never issued
// after the counter wraps, and neither byte may be the reserved marker.
func (id MessageID) reserved() bool {
	return id == 0 || id.High() == ReservedByte || id.Low() == ReservedByte
}

// Sequencer hands out message IDs in increasing order, skipping reserved
// values and wrapping from 0xFFFF back to 1.
type Sequencer struct {
	mu   sync.Mutex
	last MessageID
}

// NewSequencer returns a sequencer whose first Next call returns the first
// usable ID after seed.
func NewSequencer(seed MessageID) *Sequencer {
	return &Sequencer{last: seed}
}

// Next returns the next message ID. Safe for concurrent use.
func (s *Sequencer) Next() MessageID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.last
	for {
		id++
		if !id.reserved() {
			break
		}
	}
	s.last = id
	return id
}

// Peek returns the most recently issued ID (or the seed if none was issued).
func (s *Sequencer) Peek() MessageID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
