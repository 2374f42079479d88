// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package vbtest provides utility functions for testing functional
// models end to end: it plays the testbench's role in pure Go, reading
// the trace files a session produced and feeding an event log through
// the comparison path.
//
package vbtest

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/cdotrus/verb"
	"github.com/cdotrus/verb/coverage"
)

// A DUT stands in for the hardware design: it maps one input
// transaction to the observed output transaction.
//
type DUT func(inputs []verb.Vector) []verb.Vector

// RunTrace generates traces for the model under the given coverage
// model and budget, then replays the stimulus file through dut,
// comparing against the expected-response file and logging one event
// per comparison. It returns the analyzed verdict.
//
// All trace files live under t.TempDir and every scoped resource is
// closed before analysis, so the verdict always runs on a finalized
// log.
//
func RunTrace(t *testing.T, m verb.Model, cov *coverage.Model, budget int, dut DUT) verb.Verdict {
	t.Helper()

	dir := t.TempDir()
	inPath := filepath.Join(dir, "inputs.txt")
	outPath := filepath.Join(dir, "outputs.txt")
	logPath := filepath.Join(dir, "events.log")

	rng := rand.New(rand.NewSource(cov.Seed()))
	s := &verb.Session{Cov: cov, Rand: rng, Budget: budget, Guided: true}
	if err := s.RunTraces(m, inPath, outPath, verb.Bin); err != nil {
		t.Fatal(err)
	}

	in, err := verb.OpenReader(inPath, verb.SchemaOf(m.Inputs()...), verb.Bin)
	if err != nil {
		t.Fatal(err)
	}
	defer in.Close()
	exp, err := verb.OpenReader(outPath, verb.SchemaOf(m.Outputs()...), verb.Bin)
	if err != nil {
		t.Fatal(err)
	}
	defer exp.Close()
	log, err := verb.OpenLog(logPath)
	if err != nil {
		t.Fatal(err)
	}
	defer log.Close()

	ck := verb.NewChecker(exp, log)
	for {
		stim, err := in.Next()
		if err == verb.EndOfQueue {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		if err := ck.Compare(dut(stim)...); err != nil {
			t.Fatal(err)
		}
	}
	if err := log.Close(); err != nil {
		t.Fatal(err)
	}

	v, err := verb.AnalyzeFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

// Replay is the DUT that recomputes the model itself: it yields a
// design whose behavior matches the expectation exactly.
//
func Replay(m verb.Model) DUT {
	return func(inputs []verb.Vector) []verb.Vector {
		for i, sig := range m.Inputs() {
			sig.Assign(inputs[i].Bits)
		}
		if err := m.Compute(); err != nil {
			panic(err)
		}
		return verb.VectorsOf(m.Outputs()...)
	}
}

// Corrupt wraps a DUT and flips the lowest bit of the named output
// field on the given step, simulating a design bug.
//
func Corrupt(dut DUT, schema verb.Schema, field string, step int) DUT {
	i := schema.Index(field)
	n := 0
	return func(inputs []verb.Vector) []verb.Vector {
		out := dut(inputs)
		if n == step && i >= 0 {
			out[i].Bits ^= 1
		}
		n++
		return out
	}
}
