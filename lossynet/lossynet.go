// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package lossynet simulates an unreliable datagram substrate — drop,
// duplicate, and reorder — so tests and demos can exercise TCPSender's
// retransmission path (spec scenario: a segment lost and later
// retransmitted under exponential backoff) without a real lossy network.
package lossynet

import (
	"math/rand"

	"code.hybscloud.com/mtcp"
)

// Config tunes the simulator. Zero-value Config passes every segment
// through unchanged.
type Config struct {
	// DropProbability is the chance [0,1] that a segment is discarded.
	DropProbability float64
	// DuplicateProbability is the chance [0,1] that a delivered segment is
	// delivered a second time.
	DuplicateProbability float64
	// ReorderWindow is how many segments the simulator holds before
	// releasing one at random; 0 or 1 disables reordering.
	ReorderWindow int
}

// Simulator applies Config to a stream of segments passed through Wrap.
type Simulator struct {
	cfg  Config
	rng  *rand.Rand
	held []mtcp.Segment
}

// New returns a Simulator driven by rng, so behavior is reproducible under
// a fixed seed.
func New(cfg Config, rng *rand.Rand) *Simulator {
	return &Simulator{cfg: cfg, rng: rng}
}

// Wrap returns a Transmit that feeds deliver after applying drop,
// duplicate, and reorder.
func (s *Simulator) Wrap(deliver mtcp.Transmit) mtcp.Transmit {
	return func(seg mtcp.Segment) {
		if s.cfg.DropProbability > 0 && s.rng.Float64() < s.cfg.DropProbability {
			return
		}
		s.held = append(s.held, seg)
		if s.cfg.ReorderWindow <= 1 || len(s.held) > s.cfg.ReorderWindow {
			s.releaseOne(deliver)
		}
	}
}

// Flush delivers every segment still held back for reordering, in random
// order, applying duplication as Wrap does.
func (s *Simulator) Flush(deliver mtcp.Transmit) {
	for len(s.held) > 0 {
		s.releaseOne(deliver)
	}
}

func (s *Simulator) releaseOne(deliver mtcp.Transmit) {
	i := 0
	if len(s.held) > 1 {
		i = s.rng.Intn(len(s.held))
	}
	out := s.held[i]
	s.held = append(s.held[:i], s.held[i+1:]...)

	deliver(out)
	if s.cfg.DuplicateProbability > 0 && s.rng.Float64() < s.cfg.DuplicateProbability {
		deliver(out)
	}
}
