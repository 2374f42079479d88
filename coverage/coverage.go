// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package coverage tracks functional coverage nets and steers stimulus
generation toward the scenarios they declare.

A net is a named partition of a stimulus/response domain: a Point
(single event), a Group (explicit value bins), a Range (a numeric span
divided into bins) or a Cross (the joint bins of other nets). Nets
observe model signals through the Port interface and record which bins
each transaction lands in; the session-scoped Model aggregates their
state and, on request, targets the least-covered net by writing a
gap-closing suggestion back through its source ports.

Coverage state is monotonic: a bin, once hit, stays hit for the
session's lifetime.
*/
package coverage

import (
	"math/rand"
	"sort"
)

// A Port is a value endpoint a net reads to check coverage, or writes
// to steer generation toward an uncovered bin. Model signals implement
// it; nets reference ports by identity and never own them.
//
type Port interface {
	Get() uint64
	Put(uint64)
}

// Status is the judgment of a single net or of a whole model.
//
type Status int

// Net and model statuses.
const (
	Passed Status = iota
	Skipped
	Failed
)

func (s Status) String() string {
	switch s {
	case Passed:
		return "PASSED"
	case Skipped:
		return "SKIPPED"
	default:
		return "FAILED"
	}
}

// A Net is one declared coverage net. Its bin count is fixed at Apply
// time; hit counts only ever grow.
//
type Net interface {
	// Name returns the net's declared name.
	Name() string
	// Kind returns "point", "group", "range" or "cross".
	Kind() string
	// PointsMet returns the number of bins that reached the goal.
	PointsMet() int
	// GoalPoints returns the number of bins counted toward the
	// aggregate score (1 for a point, the partition count otherwise).
	GoalPoints() int
	// TotalHits returns the raw observation count across all bins.
	TotalHits() int
	// TotalGoal returns the summed goal across all bins.
	TotalGoal() int
	// Percent returns the net's goal progress clamped to [0,1]: the
	// fraction of bins met, or for a point its count over its goal.
	Percent() float64
	// Sample reads the net's sink ports and records the observation.
	// It reports whether the observation advanced an unmet bin.
	Sample() bool
	// Check records an explicit observation tuple, bypassing the sink
	// ports. It reports whether the observation advanced an unmet bin.
	Check(items ...uint64) bool
	// Advance writes a suggestion targeting an unmet bin to the net's
	// source ports. It reports whether a suggestion was produced.
	Advance(rng *rand.Rand) bool
	// Targetable reports whether Advance can produce suggestions.
	Targetable() bool
	// Passed reports whether every bin reached its goal.
	Passed() bool
	// Skipped reports whether the net is bypassed.
	Skipped() bool
	// Status reduces Skipped/Passed to a Status.
	Status() Status
	// Log formats the net for the coverage report.
	Log(verbose bool) string

	report() netReport
}

// netBase carries the pieces shared by all net kinds.
//
type netBase struct {
	name    string
	bypass  bool
	sources []Port
	sinks   []Port
}

func (b *netBase) Name() string  { return b.name }
func (b *netBase) Skipped() bool { return b.bypass }

func (b *netBase) sinkPort() (Port, bool) {
	if len(b.sinks) == 0 {
		return nil, false
	}
	return b.sinks[0], true
}

func (b *netBase) sourcePort() (Port, bool) {
	if len(b.sources) == 0 {
		return nil, false
	}
	return b.sources[0], true
}

func (b *netBase) readSinks() ([]uint64, bool) {
	if len(b.sinks) == 0 {
		return nil, false
	}
	vals := make([]uint64, len(b.sinks))
	for i, p := range b.sinks {
		vals[i] = p.Get()
	}
	return vals, true
}

func statusOf(n Net) Status {
	switch {
	case n.Skipped():
		return Skipped
	case n.Passed():
		return Passed
	default:
		return Failed
	}
}

func percentOf(met, total int) float64 {
	if total <= 0 {
		return 0
	}
	p := float64(met) / float64(total)
	if p > 1 {
		p = 1
	}
	return p
}

// Session states.
const (
	Collecting State = iota // still generating stimulus
	Saturated               // every declared net reached its goal
	Exhausted               // budget spent without saturating
)

// State is the global session state of a coverage Model.
//
type State int

func (s State) String() string {
	switch s {
	case Saturated:
		return "SATURATED"
	case Exhausted:
		return "EXHAUSTED"
	default:
		return "COLLECTING"
	}
}

// A Model is the full set of declared coverage nets for one test
// session plus their live hit state. Models are session scoped, not
// process wide, so independent sessions never interfere.
//
type Model struct {
	seed  int64
	nets  []Net
	steps int
	state State
}

// NewModel returns an empty coverage model. The seed is recorded for
// the report only; pass the seed used to build the session's random
// source.
//
func NewModel(seed int64) *Model {
	return &Model{seed: seed}
}

// Add registers nets with the model. Nets are evaluated and reported
// in registration order.
//
func (m *Model) Add(nets ...Net) *Model {
	m.nets = append(m.nets, nets...)
	return m
}

// Nets returns the registered nets in registration order.
//
func (m *Model) Nets() []Net { return m.nets }

// Seed returns the recorded generation seed.
//
func (m *Model) Seed() int64 { return m.seed }

// Steps returns the number of stimuli spent so far (the number of
// times Met returned false).
//
func (m *Model) Steps() int { return m.steps }

// State returns the session state.
//
func (m *Model) State() State { return m.state }

// Failing returns the non-bypassed nets that have not met their goal.
//
func (m *Model) Failing() []Net {
	var out []Net
	for _, n := range m.nets {
		if !n.Skipped() && !n.Passed() {
			out = append(out, n)
		}
	}
	return out
}

// Sample records the current signal values in every declared net. A
// single stimulus may populate several nets; all of them are advanced,
// regardless of which net generation was aiming for.
//
func (m *Model) Sample() {
	for _, n := range m.nets {
		if !n.Skipped() {
			n.Sample()
		}
	}
}

// Met reports whether the session is over: either every non-bypassed
// net met its goal (saturated) or the stimulus budget was spent
// (exhausted). A budget <= 0 disables the budget check. While the
// session continues, each call counts one stimulus against the
// budget.
//
func (m *Model) Met(budget int) bool {
	if m.state != Collecting {
		return true
	}
	if len(m.Failing()) == 0 {
		m.state = Saturated
		return true
	}
	if budget > 0 && m.steps >= budget {
		m.state = Exhausted
		return true
	}
	m.steps++
	return false
}

// PointsMet returns the bins met across all non-bypassed nets.
//
func (m *Model) PointsMet() int {
	t := 0
	for _, n := range m.nets {
		if !n.Skipped() {
			t += n.PointsMet()
		}
	}
	return t
}

// GoalPoints returns the total bins across all non-bypassed nets.
//
func (m *Model) GoalPoints() int {
	t := 0
	for _, n := range m.nets {
		if !n.Skipped() {
			t += n.GoalPoints()
		}
	}
	return t
}

// Percent returns the aggregate coverage PointsMet/GoalPoints clamped
// to [0,1]. It is non-decreasing across a session.
//
func (m *Model) Percent() float64 {
	return percentOf(m.PointsMet(), m.GoalPoints())
}

// Status reduces the model to an overall judgment: Skipped when
// nothing is tracked, Passed when every tracked bin met its goal.
//
func (m *Model) Status() Status {
	switch {
	case m.GoalPoints() == 0:
		return Skipped
	case m.PointsMet() >= m.GoalPoints():
		return Passed
	default:
		return Failed
	}
}

// Sorted returns the registered nets ranked by ascending coverage
// percentage; the least-covered nets come first. The sort is stable
// with respect to registration order.
//
func (m *Model) Sorted() []Net {
	out := make([]Net, len(m.nets))
	copy(out, m.nets)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Percent() < out[j].Percent()
	})
	return out
}

// Advance targets the least-covered targetable failing net and asks it
// to write a gap-closing suggestion to its source ports. It returns
// the targeted net, or nil when no failing net can be targeted (pure
// random generation then proceeds and coverage is recorded after the
// fact).
//
func (m *Model) Advance(rng *rand.Rand) Net {
	for _, n := range m.Sorted() {
		if n.Skipped() || n.Passed() || !n.Targetable() {
			continue
		}
		if n.Advance(rng) {
			return n
		}
	}
	return nil
}
