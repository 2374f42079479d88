package vbtest_test

import (
	"math/rand"
	"testing"

	"github.com/cdotrus/verb"
	"github.com/cdotrus/verb/coverage"
	"github.com/cdotrus/verb/vbtest"
)

// adder models a 4-bit adder with carry in and carry out.
type adder struct {
	cin, in0  *verb.Signal
	sum, cout *verb.Signal
}

func newAdder() *adder {
	return &adder{
		cin:  verb.NewSignal("cin", 1),
		in0:  verb.NewSignal("in0", 4),
		sum:  verb.NewSignal("sum", 4),
		cout: verb.NewSignal("cout", 1),
	}
}

func (a *adder) Inputs() []*verb.Signal  { return []*verb.Signal{a.cin, a.in0} }
func (a *adder) Outputs() []*verb.Signal { return []*verb.Signal{a.sum, a.cout} }

func (a *adder) Compute() error {
	total := a.cin.Uint64() + a.in0.Uint64()
	a.sum.Assign(total)
	a.cout.Assign(total >> 4)
	return nil
}

func adderCoverage(m *adder, seed int64) *coverage.Model {
	cov := coverage.NewModel(seed)
	op := coverage.NewRange("operand").Span(0, 16).Target(m.in0).Apply(cov)
	ci := coverage.NewGroup("carry in").Bins(0, 1).Target(m.cin).Apply(cov)
	coverage.NewCross("carry in x operand").Nets(ci, op).MaxSteps(8).Apply(cov)
	coverage.NewPoint("carry out").Sink(m.cout).Source(m.cin, m.in0).
		Advancer(func(rng *rand.Rand, sources ...coverage.Port) {
			sources[0].Put(1)
			sources[1].Put(15)
		}).
		Apply(cov)
	return cov
}

func Test_replay_passes(t *testing.T) {
	m := newAdder()
	cov := adderCoverage(m, 42)
	v := vbtest.RunTrace(t, m, cov, 2000, vbtest.Replay(newAdder()))
	if !v.Pass() {
		t.Fatalf("verdict failed: %+v", v.Failures)
	}
	if v.Comparisons == 0 {
		t.Fatal("no comparisons observed")
	}
	if cov.State() != coverage.Saturated {
		t.Errorf("state = %v, want SATURATED", cov.State())
	}
}

func Test_corrupt_fails(t *testing.T) {
	m := newAdder()
	cov := adderCoverage(m, 42)
	schema := verb.SchemaOf(m.sum, m.cout)
	dut := vbtest.Corrupt(vbtest.Replay(newAdder()), schema, "sum", 0)
	v := vbtest.RunTrace(t, m, cov, 2000, dut)
	if v.Pass() {
		t.Fatal("verdict passed with a corrupted output")
	}
	if len(v.Failures) != 1 {
		t.Fatalf("got %d failures, want 1: %+v", len(v.Failures), v.Failures)
	}
	f := v.Failures[0]
	if f.Reason != verb.ReasonMismatch || f.Event.Signal != "sum" {
		t.Errorf("failure = %+v", f)
	}
}
