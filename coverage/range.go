// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package coverage

import (
	"math/rand"
	"strconv"
)

// A Range tracks a contiguous numeric interval [start, stop),
// subdivided into bins that must each be hit a goal number of times.
// Bins are implicit: when the span exceeds MaxSteps bins, the step
// size grows to keep the bin count bounded.
//
type Range struct {
	netBase
	goal     int
	maxSteps int
	start    uint64
	stop     uint64
	stepSize uint64
	counts   []int
	hits     []map[uint64]int
	applied  bool
}

// NewRange returns a new range with a goal of 1 and a bin limit of 64.
// Finish building it with Span and Apply.
//
func NewRange(name string) *Range {
	return &Range{netBase: netBase{name: name}, goal: 1, maxSteps: 64}
}

// Goal sets the per-bin hit goal.
//
func (r *Range) Goal(goal int) *Range {
	r.goal = goal
	return r
}

// Bypass marks the net as skipped.
//
func (r *Range) Bypass(b bool) *Range {
	r.bypass = b
	return r
}

// Span declares the half-open interval [start, stop) to cover.
//
func (r *Range) Span(start, stop uint64) *Range {
	r.start = start
	r.stop = stop
	return r
}

// MaxSteps limits the number of bins the span is divided into.
//
func (r *Range) MaxSteps(limit int) *Range {
	r.maxSteps = limit
	return r
}

// Target sets the ports used both for advancing and checking.
//
func (r *Range) Target(ports ...Port) *Range {
	r.sources = ports
	r.sinks = ports
	return r
}

// Source sets the ports written to advance coverage.
//
func (r *Range) Source(ports ...Port) *Range {
	r.sources = ports
	return r
}

// Sink sets the ports read to check coverage.
//
func (r *Range) Sink(ports ...Port) *Range {
	r.sinks = ports
	return r
}

// Apply freezes the bin division and registers the range with the
// model.
//
func (r *Range) Apply(m *Model) *Range {
	r.freeze()
	m.Add(r)
	return r
}

func (r *Range) freeze() {
	if r.stop <= r.start {
		r.stop = r.start + 1
	}
	span := r.stop - r.start
	r.stepSize = 1
	steps := span
	if r.maxSteps > 0 && span > uint64(r.maxSteps) {
		r.stepSize = (span + uint64(r.maxSteps) - 1) / uint64(r.maxSteps)
		steps = (span + r.stepSize - 1) / r.stepSize
	}
	r.counts = make([]int, steps)
	r.hits = make([]map[uint64]int, steps)
	r.applied = true
}

// Kind returns "range".
func (r *Range) Kind() string { return "range" }

// Check records one observation and reports whether it advanced an
// unmet bin. Values outside [start, stop) are ignored.
//
func (r *Range) Check(items ...uint64) bool {
	if len(items) == 0 {
		return false
	}
	v := items[0]
	bin, ok := r.BinOf(v)
	if !ok {
		return false
	}
	progress := r.counts[bin] < r.goal
	r.counts[bin]++
	if r.hits[bin] == nil {
		r.hits[bin] = make(map[uint64]int)
	}
	r.hits[bin][v]++
	return progress
}

// Sample reads the sink ports and records the observation.
//
func (r *Range) Sample() bool {
	vals, ok := r.readSinks()
	if !ok {
		return false
	}
	return r.Check(vals...)
}

// Advance writes a value from an unmet bin to the source port.
//
func (r *Range) Advance(rng *rand.Rand) bool {
	if !r.Targetable() {
		return false
	}
	bin, ok := r.pickBin(rng)
	if !ok {
		return false
	}
	r.sources[0].Put(r.BinValue(rng, bin))
	return true
}

func (r *Range) pickBin(rng *rand.Rand) (int, bool) {
	var avail []int
	for i, c := range r.counts {
		if c < r.goal {
			avail = append(avail, i)
		}
	}
	if len(avail) == 0 {
		return 0, false
	}
	return avail[rng.Intn(len(avail))], true
}

// Targetable reports whether the range has a source port to steer.
//
func (r *Range) Targetable() bool { return len(r.sources) > 0 }

// BinCount returns the number of bins.
func (r *Range) BinCount() int { return len(r.counts) }

// BinOf returns the bin index holding value v.
//
func (r *Range) BinOf(v uint64) (int, bool) {
	if v < r.start || v >= r.stop {
		return 0, false
	}
	bin := int((v - r.start) / r.stepSize)
	if bin >= len(r.counts) {
		return 0, false
	}
	return bin, true
}

// BinValue returns one value belonging to the given bin.
//
func (r *Range) BinValue(rng *rand.Rand, bin int) uint64 {
	lo := r.start + uint64(bin)*r.stepSize
	hi := lo + r.stepSize
	if hi > r.stop {
		hi = r.stop
	}
	if hi <= lo+1 {
		return lo
	}
	return lo + uint64(rng.Int63n(int64(hi-lo)))
}

// PointsMet returns the number of bins that reached the goal.
func (r *Range) PointsMet() int {
	met := 0
	for _, c := range r.counts {
		if c >= r.goal {
			met++
		}
	}
	return met
}

// GoalPoints returns the bin count.
func (r *Range) GoalPoints() int { return len(r.counts) }

// TotalHits returns the raw observation count across all bins.
func (r *Range) TotalHits() int {
	t := 0
	for _, c := range r.counts {
		t += c
	}
	return t
}

// TotalGoal returns goal * bins.
func (r *Range) TotalGoal() int { return r.goal * len(r.counts) }

// Passed reports whether every bin reached its goal.
func (r *Range) Passed() bool {
	for _, c := range r.counts {
		if c < r.goal {
			return false
		}
	}
	return true
}

// Percent returns the fraction of bins met, clamped to [0,1].
func (r *Range) Percent() float64 { return percentOf(r.PointsMet(), len(r.counts)) }

// Status reduces the range to a Status.
func (r *Range) Status() Status { return statusOf(r) }

func (r *Range) binLabel(bin int) string {
	if r.stepSize == 1 {
		return strconv.FormatUint(r.start+uint64(bin), 10)
	}
	lo := r.start + uint64(bin)*r.stepSize
	hi := lo + r.stepSize - 1
	if hi >= r.stop {
		hi = r.stop - 1
	}
	return strconv.FormatUint(lo, 10) + "..=" + strconv.FormatUint(hi, 10)
}

// Log formats the range for the coverage report.
//
func (r *Range) Log(verbose bool) string {
	if !verbose {
		return logNet(r, false, strconv.Itoa(r.PointsMet())+"/"+strconv.Itoa(len(r.counts)))
	}
	lines := make([]string, len(r.counts))
	for i, c := range r.counts {
		lines[i] = r.binLabel(i) + ": " + strconv.Itoa(c) + "/" + strconv.Itoa(r.goal)
	}
	return logNetDetail(r, lines)
}

func (r *Range) report() netReport {
	rep := netReport{
		Name:  r.name,
		Type:  r.Kind(),
		Met:   metOf(r),
		Count: r.PointsMet(),
		Goal:  len(r.counts),
	}
	for i, c := range r.counts {
		b := binReport{
			Name:  r.binLabel(i),
			Met:   metCount(r.bypass, c, r.goal),
			Count: c,
			Goal:  r.goal,
		}
		b.Hits = sortedHits(r.hits[i])
		rep.Bins = append(rep.Bins, b)
	}
	return rep
}
