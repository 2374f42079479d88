// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package verb

import (
	"strconv"

	"github.com/pkg/errors"
)

// A Checker is the consumer-side helper: it walks the expected-output
// queue strictly front to back, compares each transaction against the
// observed design outputs and records one event per comparison in the
// event log. It mirrors what the generated HDL recv task does inside a
// testbench.
//
type Checker struct {
	// AbortOnTimeout makes Await report a fatal condition to the
	// caller after recording the timeout event. The default policy is
	// to record and continue.
	AbortOnTimeout bool

	exp  *Reader
	log  *Log
	step int
}

// NewChecker returns a checker consuming expected transactions from
// exp and appending events to log.
//
func NewChecker(exp *Reader, log *Log) *Checker {
	return &Checker{exp: exp, log: log}
}

// Step returns the current simulated step index (the number of
// expected transactions consumed so far).
//
func (c *Checker) Step() int { return c.step }

// Compare consumes the next expected transaction and compares it field
// by field against the observed values, appending one pass or fail
// event per field. Comparison mismatches are events, not errors; the
// error return reports queue failures (underrun, malformed records,
// I/O).
//
func (c *Checker) Compare(observed ...Vector) error {
	want, err := c.exp.Next()
	if err != nil {
		return errors.Wrapf(err, "step %d", c.step)
	}
	schema := c.exp.Schema()
	if len(observed) != len(schema) {
		return errors.Errorf("step %d: got %d observed values, schema has %d fields", c.step, len(observed), len(schema))
	}
	for i, f := range schema {
		e := Event{
			Kind:     ComparePass,
			Signal:   f.Name,
			Expected: want[i].Bin(),
			Observed: observed[i].Bin(),
		}
		if observed[i] != want[i] {
			e.Kind = CompareFail
		}
		if err := c.log.Append(e); err != nil {
			return err
		}
	}
	c.step++
	return nil
}

// Await blocks until cond holds, stepping the monitored side through
// advance, for at most limit steps. When the bound is exceeded a
// timeout event is always recorded, even if the caller aborts right
// after; Await then reports false, and additionally fatal=true when
// the checker's policy is to abort.
//
func (c *Checker) Await(signal string, limit int, cond func() bool, advance func()) (ok bool, fatal bool, err error) {
	for i := 0; i < limit; i++ {
		if cond() {
			return true, false, nil
		}
		advance()
	}
	if cond() {
		return true, false, nil
	}
	err = c.log.Append(Event{
		Kind:   Timeout,
		Signal: signal,
		Note:   "condition not reached within " + strconv.Itoa(limit) + " steps",
	})
	return false, c.AbortOnTimeout, err
}

// Stable checks a stability assertion: while guard holds, the signal
// must keep the value it had when the guard became active. A change
// under an active guard records a stability-violation event.
//
func (c *Checker) Stable(signal string, guard bool, held, now Vector) error {
	if !guard || now == held {
		return nil
	}
	return c.log.Append(Event{
		Kind:     StabilityViolation,
		Signal:   signal,
		Expected: held.Bin(),
		Observed: now.Bin(),
		Note:     "value changed while guard active",
	})
}
