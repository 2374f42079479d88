package coverage_test

import (
	"math/rand"
	"testing"

	"github.com/cdotrus/verb"
	"github.com/cdotrus/verb/coverage"
	"github.com/stretchr/testify/assert"
)

func Test_cross_2d(t *testing.T) {
	m := coverage.NewModel(1)
	a := coverage.NewGroup("a").Bins(0, 1, 2, 3).Apply(m)
	b := coverage.NewGroup("b").Bins(0, 1).Apply(m)
	c := coverage.NewCross("a x b").Nets(a, b).Apply(m)

	assert.Equal(t, "cross", c.Kind())
	assert.Equal(t, 8, c.GoalPoints())

	// each new combination advances exactly one bin
	assert.True(t, c.Check(3, 0))
	assert.Equal(t, 1, c.PointsMet())
	assert.True(t, c.Check(0, 1))
	assert.Equal(t, 2, c.PointsMet())
	// a repeat advances nothing
	assert.False(t, c.Check(3, 0))
	assert.Equal(t, 2, c.PointsMet())

	// the constituents' own hit state is untouched
	assert.Equal(t, 0, a.TotalHits())
	assert.Equal(t, 0, b.TotalHits())
}

func Test_cross_3d(t *testing.T) {
	m := coverage.NewModel(1)
	a := coverage.NewGroup("a").Bins(0, 1).Apply(m)
	b := coverage.NewGroup("b").Bins(0, 1, 2).Apply(m)
	d := coverage.NewGroup("d").Bins(0, 1, 2, 3).Apply(m)
	c := coverage.NewCross("a x b x d").Nets(a, b, d).Apply(m)

	assert.Equal(t, 24, c.GoalPoints())

	// exhaustively distinct combinations saturate the cross
	for x := uint64(0); x < 2; x++ {
		for y := uint64(0); y < 3; y++ {
			for z := uint64(0); z < 4; z++ {
				assert.True(t, c.Check(x, y, z), "combo (%d,%d,%d)", x, y, z)
			}
		}
	}
	assert.True(t, c.Passed())
	assert.Equal(t, 24, c.TotalHits())
}

func Test_cross_sample_space(t *testing.T) {
	m := coverage.NewModel(1)
	a := coverage.NewGroup("a").Bins(0, 1).Apply(m)
	b := coverage.NewGroup("b").Bins(0, 1).Apply(m)
	c := coverage.NewCross("a x b").Nets(a, b).Apply(m)

	// an observation counts only when every value is in its net's space
	assert.False(t, c.Check(0, 9))
	assert.False(t, c.Check(9, 0))
	assert.False(t, c.Check(0))
	assert.Equal(t, 0, c.PointsMet())
}

func Test_cross_advance(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	m := coverage.NewModel(1)
	s0 := verb.NewSignal("s0", 2)
	s1 := verb.NewSignal("s1", 1)
	a := coverage.NewRange("a").Span(0, 4).Target(s0).Apply(m)
	b := coverage.NewRange("b").Span(0, 2).Target(s1).Apply(m)
	c := coverage.NewCross("a x b").Nets(a, b).Apply(m)

	assert.True(t, c.Targetable())
	// every suggestion targets an unmet combination, so the cross
	// saturates in exactly one pass over its product space
	for i := 0; i < 8; i++ {
		assert.True(t, c.Advance(rng))
		assert.True(t, c.Sample())
	}
	assert.True(t, c.Passed())
	assert.False(t, c.Advance(rng))
}

func Test_cross_untargetable(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	m := coverage.NewModel(1)
	a := coverage.NewGroup("a").Bins(0, 1).Apply(m)
	b := coverage.NewGroup("b").Bins(0, 1).Apply(m)
	c := coverage.NewCross("a x b").Nets(a, b).Apply(m)

	// constituents without source ports cannot be steered
	assert.False(t, c.Targetable())
	assert.False(t, c.Advance(rng))
}

func Test_cross_degenerate(t *testing.T) {
	m := coverage.NewModel(1)
	a := coverage.NewGroup("a").Bins(0, 1).Apply(m)
	assert.Panics(t, func() {
		coverage.NewCross("bad").Nets(a).Apply(m)
	})
}
