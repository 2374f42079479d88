// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package verb

import (
	"math/rand"

	"github.com/cdotrus/verb/coverage"
	"github.com/pkg/errors"
)

// A Model is the software functional model of the design under test.
// Inputs and Outputs return the model's signals in channel schema
// order; Compute derives the output values from the current input
// values for one simulated step.
//
type Model interface {
	Inputs() []*Signal
	Outputs() []*Signal
	Compute() error
}

// A Session runs the coverage-driven generation loop: it produces the
// paired stimulus and expected-response queues for one test run. The
// producer computes and persists the full queue content before the
// consumer reads it; the two sides never run live against each other.
//
type Session struct {
	// Cov is the session's coverage model. Required.
	Cov *coverage.Model
	// Rand is the generation random source. Required.
	Rand *rand.Rand
	// Budget bounds the stimulus count; the session ends Exhausted
	// when it is spent before coverage saturates. <= 0 disables the
	// bound.
	Budget int
	// Guided disables coverage-targeted generation when false; the
	// session then records coverage after the fact only.
	Guided bool
}

// Run drives the model until the coverage model reports the session
// over, appending one input transaction and one expected-output
// transaction per step. The two queues always end up size-consistent:
// exactly one output transaction is appended per input transaction.
//
// Run flushes both writers before returning, on every path; closing
// them stays with the caller.
//
func (s *Session) Run(m Model, inputs, outputs *Writer) (err error) {
	defer func() {
		if ferr := inputs.Flush(); err == nil {
			err = ferr
		}
		if ferr := outputs.Flush(); err == nil {
			err = ferr
		}
	}()

	ins, outs := m.Inputs(), m.Outputs()
	for !s.Cov.Met(s.Budget) {
		Randomize(s.Rand, ins...)
		if s.Guided {
			// steer the least-covered net; its suggestion overrides
			// part of the random draw
			s.Cov.Advance(s.Rand)
		}
		if err := inputs.Append(VectorsOf(ins...)...); err != nil {
			return errors.Wrap(err, "session")
		}
		if err := m.Compute(); err != nil {
			return errors.Wrapf(err, "session: step %d", s.Cov.Steps())
		}
		if err := outputs.Append(VectorsOf(outs...)...); err != nil {
			return errors.Wrap(err, "session")
		}
		s.Cov.Sample()
	}
	return nil
}

// RunTraces opens both queue files, runs the session and closes the
// files on every exit path. The queue schemas are derived from the
// model's signals.
//
func (s *Session) RunTraces(m Model, inputPath, outputPath string, radix Radix) error {
	inputs, err := OpenWriter(inputPath, SchemaOf(m.Inputs()...), radix)
	if err != nil {
		return err
	}
	defer inputs.Close()
	outputs, err := OpenWriter(outputPath, SchemaOf(m.Outputs()...), radix)
	if err != nil {
		return err
	}
	defer outputs.Close()

	if err := s.Run(m, inputs, outputs); err != nil {
		return err
	}
	if cerr := inputs.Close(); cerr != nil {
		return cerr
	}
	return outputs.Close()
}
