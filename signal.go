// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package verb

import (
	"math/rand"

	"github.com/pkg/errors"
)

// A Signal is a named, fixed-width value holder on the model side of a
// channel. Signals are mutated by the model's compute step and by
// randomization; they implement the coverage engine's port interface
// so coverage nets can observe them and steer generation through them.
//
type Signal struct {
	name  string
	width int
	bits  uint64
	dist  *Distribution
}

// NewSignal returns a new signal of the given width, initialized to
// zero. The width must be within 1..MaxWidth; NewSignal panics
// otherwise, as a bad width is a programming error in the model.
//
func NewSignal(name string, width int) *Signal {
	if width < 1 || width > MaxWidth {
		panic(errors.Errorf("signal %q: width %d out of range 1..%d", name, width, MaxWidth))
	}
	return &Signal{name: name, width: width}
}

// Name returns the signal's name.
//
func (s *Signal) Name() string { return s.name }

// Width returns the signal's width in bits.
//
func (s *Signal) Width() int { return s.width }

// Max returns the largest value the signal can hold.
//
func (s *Signal) Max() uint64 { return MaxValue(s.width) }

// Assign sets the signal's value. Values wider than the signal are
// masked to the signal's width, mirroring hardware assignment.
//
func (s *Signal) Assign(v uint64) {
	s.bits = v & MaxValue(s.width)
}

// Uint64 returns the signal's current value.
//
func (s *Signal) Uint64() uint64 { return s.bits }

// Vector returns the signal's current value as a Vector.
//
func (s *Signal) Vector() Vector {
	return Vector{Width: s.width, Bits: s.bits}
}

// Get implements the coverage port read side.
func (s *Signal) Get() uint64 { return s.bits }

// Put implements the coverage port write side.
func (s *Signal) Put(v uint64) { s.Assign(v) }

// SetDistribution attaches a sampling distribution used by Randomize.
// A nil distribution restores uniform sampling.
//
func (s *Signal) SetDistribution(d *Distribution) *Signal {
	s.dist = d
	return s
}

// Randomize assigns a random value to the signal, honoring its
// distribution when one is set and sampling uniformly over the
// signal's full range otherwise.
//
func (s *Signal) Randomize(rng *rand.Rand) {
	if s.dist != nil {
		s.Assign(s.dist.Sample(rng))
		return
	}
	s.Assign(randUint64n(rng, s.Max()))
}

// Randomize assigns random values to all given signals.
//
func Randomize(rng *rand.Rand, sigs ...*Signal) {
	for _, s := range sigs {
		s.Randomize(rng)
	}
}

// SchemaOf derives the channel schema from a model's signal list,
// preserving order. The schema the testbench binds to must match the
// one derived here.
//
func SchemaOf(sigs ...*Signal) Schema {
	s := make(Schema, len(sigs))
	for i, sig := range sigs {
		s[i] = Field{Name: sig.name, Width: sig.width}
	}
	return s
}

// VectorsOf captures the current values of the given signals in order.
//
func VectorsOf(sigs ...*Signal) []Vector {
	vs := make([]Vector, len(sigs))
	for i, sig := range sigs {
		vs[i] = sig.Vector()
	}
	return vs
}

// A Span is one contiguous slice [Lo, Hi] of a signal's value space.
// A single value is a span with Lo == Hi.
//
type Span struct {
	Lo, Hi uint64
}

// A Distribution is a weighted partition of a signal's value space.
// Sampling first picks a span with probability proportional to its
// weight, then picks uniformly within the span. This lets a model bias
// stimulus toward edge values, e.g.:
//
//	sig.SetDistribution(&verb.Distribution{
//		Spans:   []verb.Span{{0, 0}, {max, max}, {1, max - 1}},
//		Weights: []float64{0.1, 0.1, 0.8},
//	})
//
type Distribution struct {
	Spans   []Span
	Weights []float64
}

// Sample draws one value from the distribution.
//
func (d *Distribution) Sample(rng *rand.Rand) uint64 {
	if len(d.Spans) == 0 {
		return 0
	}
	total := 0.0
	for i := range d.Spans {
		if i < len(d.Weights) {
			total += d.Weights[i]
		} else {
			total++
		}
	}
	pick := rng.Float64() * total
	i := 0
	for ; i < len(d.Spans)-1; i++ {
		w := 1.0
		if i < len(d.Weights) {
			w = d.Weights[i]
		}
		if pick < w {
			break
		}
		pick -= w
	}
	sp := d.Spans[i]
	if sp.Hi <= sp.Lo {
		return sp.Lo
	}
	return sp.Lo + randUint64n(rng, sp.Hi-sp.Lo)
}

// randUint64n returns a random value in [0, max].
//
func randUint64n(rng *rand.Rand, max uint64) uint64 {
	if max == ^uint64(0) {
		return rng.Uint64()
	}
	n := max + 1
	if n < 1<<63 {
		return uint64(rng.Int63n(int64(n)))
	}
	for {
		if v := rng.Uint64(); v <= max {
			return v
		}
	}
}
