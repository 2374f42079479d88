package coverage_test

import (
	"math/rand"
	"testing"

	"github.com/cdotrus/verb"
	"github.com/cdotrus/verb/coverage"
	"github.com/stretchr/testify/assert"
)

func Test_point(t *testing.T) {
	m := coverage.NewModel(1)
	p := coverage.NewPoint("overflow").Goal(3).Apply(m)

	assert.Equal(t, "point", p.Kind())
	assert.Equal(t, 1, p.GoalPoints())
	assert.False(t, p.Passed())
	assert.Equal(t, 0.0, p.Percent())

	// the default event is "first value non-zero"
	assert.False(t, p.Check(0))
	assert.True(t, p.Check(1))
	assert.True(t, p.Check(7))
	assert.False(t, p.Passed())
	assert.True(t, p.Check(1))
	assert.True(t, p.Passed())
	assert.Equal(t, 1.0, p.Percent())
	assert.Equal(t, 3, p.TotalHits())
	assert.Equal(t, coverage.Passed, p.Status())
}

func Test_point_checker(t *testing.T) {
	m := coverage.NewModel(1)
	p := coverage.NewPoint("carry in and out").
		Checker(func(vals ...uint64) bool { return len(vals) == 2 && vals[0] == 1 && vals[1] == 1 }).
		Apply(m)
	assert.False(t, p.Check(1, 0))
	assert.True(t, p.Check(1, 1))
	assert.True(t, p.Passed())
}

func Test_point_advance(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	m := coverage.NewModel(1)
	sig := verb.NewSignal("en", 1)
	p := coverage.NewPoint("enabled").Target(sig).Apply(m)

	assert.True(t, p.Targetable())
	assert.True(t, p.Advance(rng))
	assert.Equal(t, uint64(1), sig.Uint64())
	assert.True(t, p.Sample())
	assert.True(t, p.Passed())

	// a point without sources cannot be steered
	free := coverage.NewPoint("free").Apply(m)
	assert.False(t, free.Targetable())
	assert.False(t, free.Advance(rng))
}

func Test_group_bins(t *testing.T) {
	m := coverage.NewModel(1)
	g := coverage.NewGroup("opcode").Bins(0, 1, 2, 3, 2, 1).Apply(m)

	// duplicates are dropped
	assert.Equal(t, 4, g.BinCount())
	assert.Equal(t, 4, g.GoalPoints())
	for v := uint64(0); v < 4; v++ {
		bin, ok := g.BinOf(v)
		assert.True(t, ok)
		assert.Equal(t, int(v), bin)
	}
	// values outside the declared set are ignored
	_, ok := g.BinOf(9)
	assert.False(t, ok)
	assert.False(t, g.Check(9))

	assert.True(t, g.Check(2))
	assert.False(t, g.Check(2))
	assert.Equal(t, 1, g.PointsMet())
	assert.Equal(t, 2, g.TotalHits())
}

func Test_group_folding(t *testing.T) {
	m := coverage.NewModel(1)
	g := coverage.NewGroup("data").
		Bins(0, 1, 2, 3, 4, 5, 6, 7, 8, 9).
		MaxBins(4).
		Apply(m)

	// 10 values over 4 bins: 3 per bin, last bin holds the remainder
	assert.Equal(t, 4, g.BinCount())
	for _, d := range []struct {
		v   uint64
		bin int
	}{{0, 0}, {2, 0}, {3, 1}, {5, 1}, {8, 2}, {9, 3}} {
		bin, ok := g.BinOf(d.v)
		assert.True(t, ok, "value %d", d.v)
		assert.Equal(t, d.bin, bin, "value %d", d.v)
	}
	// one member covers its whole macro bin
	assert.True(t, g.Check(1))
	assert.Equal(t, 1, g.PointsMet())
}

func Test_group_mapper(t *testing.T) {
	m := coverage.NewModel(1)
	sig := verb.NewSignal("data", 8)
	g := coverage.NewGroup("parity").
		Bins(0, 1).
		Mapper(func(v uint64) uint64 { return v & 1 }).
		Target(sig).
		Apply(m)

	// a one-way mapping cannot be steered
	assert.False(t, g.Targetable())
	assert.True(t, g.Check(6))
	assert.True(t, g.Check(7))
	assert.True(t, g.Passed())
}

func Test_group_advance(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	m := coverage.NewModel(1)
	sig := verb.NewSignal("op", 4)
	g := coverage.NewGroup("opcode").Bins(0, 3, 7, 9).Goal(2).Target(sig).Apply(m)

	for !g.Passed() {
		assert.True(t, g.Advance(rng))
		assert.True(t, g.Sample())
	}
	assert.Equal(t, 8, g.TotalHits())
	assert.False(t, g.Advance(rng))
}

func Test_range_bins(t *testing.T) {
	m := coverage.NewModel(1)
	r := coverage.NewRange("sum").Span(0, 16).Apply(m)

	assert.Equal(t, 16, r.BinCount())
	bin, ok := r.BinOf(5)
	assert.True(t, ok)
	assert.Equal(t, 5, bin)
	_, ok = r.BinOf(16)
	assert.False(t, ok)
	assert.False(t, r.Check(16))

	assert.True(t, r.Check(5))
	assert.Equal(t, 1, r.PointsMet())
}

func Test_range_steps(t *testing.T) {
	m := coverage.NewModel(1)
	r := coverage.NewRange("addr").Span(0, 100).MaxSteps(10).Apply(m)

	// step size 10: values 0..9 share bin 0
	assert.Equal(t, 10, r.BinCount())
	for _, d := range []struct {
		v   uint64
		bin int
	}{{0, 0}, {9, 0}, {10, 1}, {55, 5}, {99, 9}} {
		bin, ok := r.BinOf(d.v)
		assert.True(t, ok, "value %d", d.v)
		assert.Equal(t, d.bin, bin, "value %d", d.v)
	}
}

func Test_range_advance(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	m := coverage.NewModel(1)
	sig := verb.NewSignal("sum", 4)
	r := coverage.NewRange("sum").Span(0, 16).Target(sig).Apply(m)

	// every suggestion lands in an unmet bin, so the range saturates
	// in exactly one pass over its bins
	for i := 0; i < 16; i++ {
		assert.True(t, r.Advance(rng))
		assert.True(t, r.Sample())
	}
	assert.True(t, r.Passed())
}

func Test_range_percent_monotonic(t *testing.T) {
	m := coverage.NewModel(1)
	r := coverage.NewRange("sum").Span(0, 8).Goal(2).Apply(m)

	prev := r.Percent()
	vals := []uint64{0, 0, 3, 3, 3, 3, 7, 2, 7, 1, 1, 2}
	for _, v := range vals {
		r.Check(v)
		p := r.Percent()
		assert.GreaterOrEqual(t, p, prev)
		prev = p
	}
}

func Test_model_met(t *testing.T) {
	m := coverage.NewModel(7)
	p := coverage.NewPoint("done").Apply(m)

	assert.Equal(t, coverage.Collecting, m.State())
	assert.False(t, m.Met(10))
	assert.False(t, m.Met(10))
	p.Check(1)
	assert.True(t, m.Met(10))
	assert.Equal(t, coverage.Saturated, m.State())
	assert.Equal(t, 2, m.Steps())
	// once over, always over
	assert.True(t, m.Met(10))
	assert.Equal(t, int64(7), m.Seed())
}

func Test_model_exhausted(t *testing.T) {
	m := coverage.NewModel(1)
	coverage.NewPoint("never").Apply(m)

	n := 0
	for !m.Met(5) {
		n++
	}
	assert.Equal(t, 5, n)
	assert.Equal(t, coverage.Exhausted, m.State())
	assert.Equal(t, coverage.Failed, m.Status())
	assert.Len(t, m.Failing(), 1)
}

func Test_model_bypass(t *testing.T) {
	m := coverage.NewModel(1)
	coverage.NewPoint("unreachable").Bypass(true).Apply(m)
	p := coverage.NewPoint("done").Apply(m)

	// a bypassed net does not hold the session open
	p.Check(1)
	assert.True(t, m.Met(10))
	assert.Equal(t, coverage.Saturated, m.State())
	assert.Equal(t, 1, m.GoalPoints())
	assert.Equal(t, coverage.Passed, m.Status())
}

func Test_model_sorted(t *testing.T) {
	m := coverage.NewModel(1)
	full := coverage.NewPoint("full").Apply(m)
	half := coverage.NewGroup("half").Bins(0, 1).Apply(m)
	_ = coverage.NewPoint("empty").Apply(m)

	full.Check(1)
	half.Check(0)
	sorted := m.Sorted()
	assert.Equal(t, "empty", sorted[0].Name())
	assert.Equal(t, "half", sorted[1].Name())
	assert.Equal(t, "full", sorted[2].Name())
}

func Test_model_advance(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	m := coverage.NewModel(1)
	sig := verb.NewSignal("sum", 4)
	full := coverage.NewPoint("full").Target(sig).Apply(m)
	r := coverage.NewRange("sum").Span(0, 16).Target(sig).Apply(m)
	full.Check(1)

	// the least covered targetable net is picked
	n := m.Advance(rng)
	assert.Same(t, coverage.Net(r), n)

	// a guided loop closes coverage within the budget
	for !m.Met(100) {
		m.Advance(rng)
		m.Sample()
	}
	assert.Equal(t, coverage.Saturated, m.State())
	assert.Equal(t, 1.0, m.Percent())
}

func Test_model_advance_untargetable(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	m := coverage.NewModel(1)
	coverage.NewPoint("free").Apply(m)
	assert.Nil(t, m.Advance(rng))
}
