// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package coverage

import (
	"math/rand"
	"strconv"
)

// A Group tracks an explicit set of values, grouped into bins that
// must each be hit a goal number of times. When the value set exceeds
// MaxBins, neighboring values are folded into shared bins.
//
type Group struct {
	netBase
	goal    int
	maxBins int
	items   []uint64 // declared values, deduplicated, declaration order
	bins    [][]uint64
	counts  []int
	lookup  map[uint64]int // value -> bin index
	hits    map[uint64]int // value -> observation count
	mapper  func(uint64) uint64
	applied bool
}

// NewGroup returns a new group with a goal of 1 and a bin limit of 64.
// Finish building it with Bins and Apply.
//
func NewGroup(name string) *Group {
	return &Group{netBase: netBase{name: name}, goal: 1, maxBins: 64}
}

// Goal sets the per-bin hit goal.
//
func (g *Group) Goal(goal int) *Group {
	g.goal = goal
	return g
}

// Bypass marks the net as skipped.
//
func (g *Group) Bypass(b bool) *Group {
	g.bypass = b
	return g
}

// MaxBins limits the number of bins the declared values are folded
// into.
//
func (g *Group) MaxBins(limit int) *Group {
	g.maxBins = limit
	return g
}

// Bins declares the values to group. Duplicates are dropped; the first
// occurrence fixes a value's position.
//
func (g *Group) Bins(values ...uint64) *Group {
	g.items = append(g.items, values...)
	return g
}

// Mapper sets a function applied to observed values before bin lookup.
// A mapped group cannot be targeted by Advance, as the mapping is one
// way.
//
func (g *Group) Mapper(fn func(uint64) uint64) *Group {
	g.mapper = fn
	return g
}

// Target sets the ports used both for advancing and checking.
//
func (g *Group) Target(ports ...Port) *Group {
	g.sources = ports
	g.sinks = ports
	return g
}

// Source sets the ports written to advance coverage.
//
func (g *Group) Source(ports ...Port) *Group {
	g.sources = ports
	return g
}

// Sink sets the ports read to check coverage.
//
func (g *Group) Sink(ports ...Port) *Group {
	g.sinks = ports
	return g
}

// Apply freezes the bin division and registers the group with the
// model. The bin count is fixed from this point on.
//
func (g *Group) Apply(m *Model) *Group {
	g.lookup = make(map[uint64]int)
	g.hits = make(map[uint64]int)

	// dedup, preserving declaration order
	uniq := g.items[:0]
	seen := make(map[uint64]bool, len(g.items))
	for _, v := range g.items {
		if !seen[v] {
			seen[v] = true
			uniq = append(uniq, v)
		}
	}
	g.items = uniq

	perBin := 1
	if g.maxBins > 0 && len(g.items) > g.maxBins {
		perBin = (len(g.items) + g.maxBins - 1) / g.maxBins
	}
	for i, v := range g.items {
		bin := i / perBin
		if bin >= len(g.bins) {
			g.bins = append(g.bins, nil)
			g.counts = append(g.counts, 0)
		}
		g.bins[bin] = append(g.bins[bin], v)
		g.lookup[v] = bin
	}
	g.applied = true
	m.Add(g)
	return g
}

// Kind returns "group".
func (g *Group) Kind() string { return "group" }

// Check records one observation and reports whether it advanced an
// unmet bin. Values outside the declared set are ignored.
//
func (g *Group) Check(items ...uint64) bool {
	if len(items) == 0 {
		return false
	}
	v := items[0]
	if g.mapper != nil {
		v = g.mapper(v)
	}
	bin, ok := g.lookup[v]
	if !ok {
		return false
	}
	progress := g.counts[bin] < g.goal
	g.counts[bin]++
	g.hits[v]++
	return progress
}

// Sample reads the sink ports and records the observation.
//
func (g *Group) Sample() bool {
	vals, ok := g.readSinks()
	if !ok {
		return false
	}
	return g.Check(vals...)
}

// Advance writes a member of an unmet bin to the source port.
//
func (g *Group) Advance(rng *rand.Rand) bool {
	if !g.Targetable() {
		return false
	}
	var avail []int
	for i, c := range g.counts {
		if c < g.goal {
			avail = append(avail, i)
		}
	}
	if len(avail) == 0 {
		return false
	}
	bin := avail[rng.Intn(len(avail))]
	g.sources[0].Put(g.BinValue(rng, bin))
	return true
}

// Targetable reports whether Advance can steer this group: it needs a
// source port and no one-way mapper.
//
func (g *Group) Targetable() bool {
	return len(g.sources) > 0 && g.mapper == nil
}

// BinCount returns the number of bins.
func (g *Group) BinCount() int { return len(g.bins) }

// BinOf returns the bin index holding value v.
//
func (g *Group) BinOf(v uint64) (int, bool) {
	if g.mapper != nil {
		v = g.mapper(v)
	}
	bin, ok := g.lookup[v]
	return bin, ok
}

// BinValue returns one member value of the given bin.
//
func (g *Group) BinValue(rng *rand.Rand, bin int) uint64 {
	members := g.bins[bin]
	return members[rng.Intn(len(members))]
}

// PointsMet returns the number of bins that reached the goal.
func (g *Group) PointsMet() int {
	met := 0
	for _, c := range g.counts {
		if c >= g.goal {
			met++
		}
	}
	return met
}

// GoalPoints returns the bin count.
func (g *Group) GoalPoints() int { return len(g.bins) }

// TotalHits returns the raw observation count across all bins.
func (g *Group) TotalHits() int {
	t := 0
	for _, c := range g.counts {
		t += c
	}
	return t
}

// TotalGoal returns goal * bins.
func (g *Group) TotalGoal() int { return g.goal * len(g.bins) }

// Passed reports whether every bin reached its goal.
func (g *Group) Passed() bool {
	for _, c := range g.counts {
		if c < g.goal {
			return false
		}
	}
	return true
}

// Percent returns the fraction of bins met, clamped to [0,1].
func (g *Group) Percent() float64 { return percentOf(g.PointsMet(), len(g.bins)) }

// Status reduces the group to a Status.
func (g *Group) Status() Status { return statusOf(g) }

// Log formats the group for the coverage report.
//
func (g *Group) Log(verbose bool) string {
	if !verbose {
		return logNet(g, false, strconv.Itoa(g.PointsMet())+"/"+strconv.Itoa(len(g.bins)))
	}
	lines := make([]string, len(g.bins))
	for i := range g.bins {
		lines[i] = binLabel(g.bins[i]) + ": " + strconv.Itoa(g.counts[i]) + "/" + strconv.Itoa(g.goal)
	}
	return logNetDetail(g, lines)
}

func (g *Group) report() netReport {
	r := netReport{
		Name:  g.name,
		Type:  g.Kind(),
		Met:   metOf(g),
		Count: g.PointsMet(),
		Goal:  len(g.bins),
	}
	for i, members := range g.bins {
		b := binReport{
			Name:  binLabel(members),
			Met:   metCount(g.bypass, g.counts[i], g.goal),
			Count: g.counts[i],
			Goal:  g.goal,
		}
		for _, v := range members {
			if c := g.hits[v]; c > 0 {
				b.Hits = append(b.Hits, hitReport{Value: strconv.FormatUint(v, 10), Count: c})
			}
		}
		r.Bins = append(r.Bins, b)
	}
	return r
}
