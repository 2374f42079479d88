// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package coverage

import (
	"math/rand"

	"github.com/pkg/errors"
)

// A Binned net exposes its bin enumeration so it can participate in a
// cross. Range and Group implement it.
//
type Binned interface {
	Net
	// BinCount returns the fixed number of bins.
	BinCount() int
	// BinOf maps a value to its bin index.
	BinOf(v uint64) (int, bool)
	// BinValue returns one value belonging to the given bin.
	BinValue(rng *rand.Rand, bin int) uint64

	sinkPort() (Port, bool)
	sourcePort() (Port, bool)
}

// A Cross tracks the Cartesian product of two or more other nets'
// bins. A cross bin is satisfied only when its constituent bin
// combination has been jointly observed within one transaction. The
// cross references its constituent nets by identity; it does not own
// them and their own hit state is unaffected by the cross.
//
// Internally the product is flattened into a one dimensional Range
// over the combined bin index.
//
type Cross struct {
	netBase
	goal     int
	maxSteps int
	nets     []Binned
	inner    *Range
}

// NewCross returns a new cross with a goal of 1. Finish building it
// with Nets and Apply.
//
func NewCross(name string) *Cross {
	return &Cross{netBase: netBase{name: name}, goal: 1, maxSteps: 0}
}

// Goal sets the per-combination hit goal.
//
func (c *Cross) Goal(goal int) *Cross {
	c.goal = goal
	return c
}

// Bypass marks the net as skipped.
//
func (c *Cross) Bypass(b bool) *Cross {
	c.bypass = b
	return c
}

// MaxSteps limits the number of bins of the flattened product space.
// Zero (the default) keeps every combination as its own bin.
//
func (c *Cross) MaxSteps(limit int) *Cross {
	c.maxSteps = limit
	return c
}

// Nets declares the constituent nets, in declaration order.
//
func (c *Cross) Nets(nets ...Binned) *Cross {
	c.nets = append(c.nets, nets...)
	return c
}

// Apply freezes the product space and registers the cross with the
// model. Apply panics when fewer than two nets were declared, as a
// degenerate cross is a programming error in the test setup.
//
func (c *Cross) Apply(m *Model) *Cross {
	if len(c.nets) < 2 {
		panic(errors.Errorf("cross %q: needs at least 2 nets, got %d", c.name, len(c.nets)))
	}
	combos := uint64(1)
	for _, n := range c.nets {
		combos *= uint64(n.BinCount())
	}
	c.inner = NewRange(c.name).Span(0, combos).Goal(c.goal)
	c.inner.maxSteps = c.maxSteps
	c.inner.freeze()
	m.Add(c)
	return c
}

// Kind returns "cross".
func (c *Cross) Kind() string { return "cross" }

// flatten maps per-net bin indices (declaration order) to the
// combined index.
//
func (c *Cross) flatten(bins []int) uint64 {
	idx := uint64(0)
	weight := uint64(1)
	for i, b := range bins {
		idx += uint64(b) * weight
		weight *= uint64(c.nets[i].BinCount())
	}
	return idx
}

// pack is the inverse of flatten.
//
func (c *Cross) pack(idx uint64) []int {
	bins := make([]int, len(c.nets))
	for i, n := range c.nets {
		size := uint64(n.BinCount())
		bins[i] = int(idx % size)
		idx /= size
	}
	return bins
}

// Check records one joint observation, one value per constituent net
// in declaration order. The observation only counts when every value
// lands in its net's sample space.
//
func (c *Cross) Check(items ...uint64) bool {
	if len(items) != len(c.nets) {
		return false
	}
	bins := make([]int, len(c.nets))
	for i, n := range c.nets {
		b, ok := n.BinOf(items[i])
		if !ok {
			return false
		}
		bins[i] = b
	}
	return c.inner.Check(c.flatten(bins))
}

// Sample reads each constituent net's sink and records the joint
// observation. A cross can only sample when every constituent has a
// sink port.
//
func (c *Cross) Sample() bool {
	items := make([]uint64, len(c.nets))
	for i, n := range c.nets {
		p, ok := n.sinkPort()
		if !ok {
			return false
		}
		items[i] = p.Get()
	}
	return c.Check(items...)
}

// Advance picks an unmet combination and writes one constituent value
// per net through that net's source port.
//
func (c *Cross) Advance(rng *rand.Rand) bool {
	if !c.Targetable() {
		return false
	}
	bin, ok := c.inner.pickBin(rng)
	if !ok {
		return false
	}
	bins := c.pack(c.inner.BinValue(rng, bin))
	for i, n := range c.nets {
		p, _ := n.sourcePort()
		p.Put(n.BinValue(rng, bins[i]))
	}
	return true
}

// Targetable reports whether every constituent net has a source port.
//
func (c *Cross) Targetable() bool {
	for _, n := range c.nets {
		if _, ok := n.sourcePort(); !ok {
			return false
		}
	}
	return len(c.nets) > 0
}

// PointsMet returns the number of combinations that reached the goal.
func (c *Cross) PointsMet() int { return c.inner.PointsMet() }

// GoalPoints returns the combination count.
func (c *Cross) GoalPoints() int { return c.inner.GoalPoints() }

// TotalHits returns the raw joint observation count.
func (c *Cross) TotalHits() int { return c.inner.TotalHits() }

// TotalGoal returns goal * combinations.
func (c *Cross) TotalGoal() int { return c.inner.TotalGoal() }

// Passed reports whether every combination reached its goal.
func (c *Cross) Passed() bool { return c.inner.Passed() }

// Percent returns the fraction of combinations met, clamped to [0,1].
func (c *Cross) Percent() float64 { return c.inner.Percent() }

// Status reduces the cross to a Status.
func (c *Cross) Status() Status { return statusOf(c) }

// Log formats the cross for the coverage report.
//
func (c *Cross) Log(verbose bool) string {
	return logNetAs(c, c.inner, verbose)
}

func (c *Cross) report() netReport {
	r := c.inner.report()
	r.Name = c.name
	r.Type = c.Kind()
	r.Met = metOf(c)
	return r
}
