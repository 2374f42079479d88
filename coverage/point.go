// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package coverage

import (
	"math/rand"
	"strconv"
)

// A Point tracks a single particular event that must be observed a
// goal number of times.
//
type Point struct {
	netBase
	goal     int
	count    int
	checker  func(vals ...uint64) bool
	advancer func(rng *rand.Rand, sources ...Port)
}

// NewPoint returns a new point with a goal of 1. Finish building it
// with Apply.
//
func NewPoint(name string) *Point {
	return &Point{netBase: netBase{name: name}, goal: 1}
}

// Goal sets the number of times the event must be observed.
//
func (p *Point) Goal(goal int) *Point {
	p.goal = goal
	return p
}

// Bypass marks the net as skipped: an external factor makes it
// impossible to meet, so it is excluded from the tally.
//
func (p *Point) Bypass(b bool) *Point {
	p.bypass = b
	return p
}

// Target sets the ports used both for advancing and checking this
// net's coverage.
//
func (p *Point) Target(ports ...Port) *Point {
	p.sources = ports
	p.sinks = ports
	return p
}

// Source sets the ports written to advance coverage.
//
func (p *Point) Source(ports ...Port) *Point {
	p.sources = ports
	return p
}

// Sink sets the ports read to check coverage.
//
func (p *Point) Sink(ports ...Port) *Point {
	p.sinks = ports
	return p
}

// Checker sets the predicate deciding whether an observation tuple
// constitutes the covered event. Without a checker, the event is
// "first value non-zero".
//
func (p *Point) Checker(fn func(vals ...uint64) bool) *Point {
	p.checker = fn
	return p
}

// Advancer sets the function that writes source values provoking the
// covered event. Without an advancer, Advance writes 1 to each source.
//
func (p *Point) Advancer(fn func(rng *rand.Rand, sources ...Port)) *Point {
	p.advancer = fn
	return p
}

// Apply registers the point with the model and returns it.
//
func (p *Point) Apply(m *Model) *Point {
	m.Add(p)
	return p
}

// Kind returns "point".
func (p *Point) Kind() string { return "point" }

// Check records one observation tuple and reports whether it hit the
// covered event.
//
func (p *Point) Check(items ...uint64) bool {
	hit := false
	if p.checker != nil {
		hit = p.checker(items...)
	} else {
		hit = len(items) > 0 && items[0] != 0
	}
	if hit {
		p.count++
	}
	return hit
}

// Sample reads the sink ports and records the observation.
//
func (p *Point) Sample() bool {
	vals, ok := p.readSinks()
	if !ok {
		return false
	}
	return p.Check(vals...)
}

// Advance writes source values provoking the covered event.
//
func (p *Point) Advance(rng *rand.Rand) bool {
	if !p.Targetable() {
		return false
	}
	if p.advancer != nil {
		p.advancer(rng, p.sources...)
		return true
	}
	for _, s := range p.sources {
		s.Put(1)
	}
	return true
}

// Targetable reports whether the point has source ports to steer.
//
func (p *Point) Targetable() bool { return len(p.sources) > 0 }

// PointsMet returns 1 once the goal is reached.
func (p *Point) PointsMet() int {
	if p.count >= p.goal {
		return 1
	}
	return 0
}

// GoalPoints returns 1: a point is a single goal in the tally.
func (p *Point) GoalPoints() int { return 1 }

// TotalHits returns the raw observation count.
func (p *Point) TotalHits() int { return p.count }

// TotalGoal returns the observation goal.
func (p *Point) TotalGoal() int { return p.goal }

// Passed reports whether the goal was reached.
func (p *Point) Passed() bool { return p.count >= p.goal }

// Percent returns the goal progress clamped to [0,1].
func (p *Point) Percent() float64 { return percentOf(p.count, p.goal) }

// Status reduces the point to a Status.
func (p *Point) Status() Status { return statusOf(p) }

// Log formats the point for the coverage report.
//
func (p *Point) Log(verbose bool) string {
	return logNet(p, verbose, strconv.Itoa(p.count)+"/"+strconv.Itoa(p.goal))
}

func (p *Point) report() netReport {
	return netReport{
		Name:  p.name,
		Type:  p.Kind(),
		Met:   metOf(p),
		Count: p.count,
		Goal:  p.goal,
	}
}
