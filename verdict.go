// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package verb

import (
	"bufio"
	"io"
	"os"

	"github.com/pkg/errors"
)

// Failure classification reasons.
const (
	ReasonMismatch         = "comparison mismatch"
	ReasonTimeout          = "timeout"
	ReasonUnstable         = "stability violation"
	ReasonMalformedEvent   = "malformed event"
	ReasonNoEventsObserved = "no comparison events observed"
)

// A Failure is one classified failing observation, kept in emission
// order for reporting.
//
type Failure struct {
	Reason string
	Event  Event  // zero Event for log-level failures
	Line   int    // 1-based log line, 0 for log-level failures
	Raw    string // original line for malformed events
}

// A Verdict is the reduction of an event log: counts per class and the
// ordered list of failures. A Verdict is derived, never stored.
//
type Verdict struct {
	Events      int // parsed event records
	Comparisons int // comparison events (pass and fail)
	Passes      int
	Failures    []Failure
}

// Pass reports the overall judgment: at least one comparison event was
// observed and no event of a failing kind was recorded. An empty or
// fully malformed log never passes.
//
func (v Verdict) Pass() bool {
	return v.Comparisons > 0 && len(v.Failures) == 0
}

// Analyze parses every event record from r and reduces the log to a
// Verdict. Unparsable lines are never skipped: each one is classified
// as a malformed-event failure. An empty log yields a single
// no-events-observed failure, so a no-op run cannot pass. Analysis is
// only valid on a finalized log; the producer must have closed it.
//
func Analyze(r io.Reader) Verdict {
	var v Verdict

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if line == "" {
			continue
		}
		e, err := ParseEvent(line, lineNo)
		if err != nil {
			v.Failures = append(v.Failures, Failure{Reason: ReasonMalformedEvent, Line: lineNo, Raw: line})
			continue
		}
		v.Events++
		switch e.Kind {
		case ComparePass:
			v.Comparisons++
			v.Passes++
		case CompareFail:
			v.Comparisons++
			v.Failures = append(v.Failures, Failure{Reason: ReasonMismatch, Event: e, Line: lineNo})
		case Timeout:
			v.Failures = append(v.Failures, Failure{Reason: ReasonTimeout, Event: e, Line: lineNo})
		case StabilityViolation:
			v.Failures = append(v.Failures, Failure{Reason: ReasonUnstable, Event: e, Line: lineNo})
		}
	}
	if err := sc.Err(); err != nil {
		// a log that cannot be read to the end must not pass
		v.Failures = append(v.Failures, Failure{Reason: ReasonMalformedEvent, Line: lineNo + 1, Raw: err.Error()})
	}
	if v.Comparisons == 0 {
		v.Failures = append(v.Failures, Failure{Reason: ReasonNoEventsObserved})
	}
	return v
}

// AnalyzeFile analyzes the event log at path.
//
func AnalyzeFile(path string) (Verdict, error) {
	f, err := os.Open(path)
	if err != nil {
		return Verdict{}, errors.Wrap(err, "analyze")
	}
	defer f.Close()
	return Analyze(f), nil
}
