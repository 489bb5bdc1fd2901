package led

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Sim is a driver with no hardware behind it. It keeps the last frame and logs a
// compact summary of every frame at debug level.
type Sim struct {
	mu     sync.Mutex
	count  int
	frames int
	last   []byte
}

func NewSim(count int) *Sim { return &Sim{count: count} }

func (s *Sim) Write(rgb []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.count > 0 && len(rgb) != s.count*3 {
		return fmt.Errorf("rgb length %d does not match count %d", len(rgb), s.count)
	}
	s.frames++
	s.last = append(s.last[:0], rgb...)

	lit := 0
	first := -1
	for i := 0; i+2 < len(rgb); i += 3 {
		if rgb[i]|rgb[i+1]|rgb[i+2] != 0 {
			if first < 0 {
				first = i / 3
			}
			lit++
		}
	}
	log.Debug().Int("frame", s.frames).Int("lit", lit).Int("first_lit", first).Msg("sim frame")
	return nil
}

// Last returns a copy of the most recent frame.
func (s *Sim) Last() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.last...)
}

func (s *Sim) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

func (s *Sim) Close() error { return nil }
