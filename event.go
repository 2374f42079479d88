// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package verb

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// An EventKind tags one observation made by the testbench.
//
type EventKind int

// Event kinds.
const (
	ComparePass EventKind = iota
	CompareFail
	Timeout
	StabilityViolation
	Note
)

var kindTags = [...]string{"PASS", "FAIL", "TIMEOUT", "UNSTABLE", "NOTE"}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(kindTags) {
		return "UNKNOWN"
	}
	return kindTags[k]
}

func kindFromTag(tag string) (EventKind, bool) {
	for i, t := range kindTags {
		if t == tag {
			return EventKind(i), true
		}
	}
	return 0, false
}

// An Event is one record in the event log: a comparison result, a
// timeout, a stability violation or an informational note. Events are
// self-describing; a log can be parsed without any external schema.
//
type Event struct {
	Index    int    // emission order, assigned by the log
	Kind     EventKind
	Signal   string // signal name, empty when not applicable
	Expected string // expected value token, empty when not applicable
	Observed string // observed value token, empty when not applicable
	Note     string // free text
}

const placeholder = "-"

// line formats the event as one log line:
//
//	<index> <kind> <signal> <expected> <observed> <note...>
//
// with "-" standing in for empty fields. Only the note may contain
// spaces.
//
func (e Event) line() string {
	fld := func(s string) string {
		if s == "" {
			return placeholder
		}
		return s
	}
	var b strings.Builder
	b.WriteString(strconv.Itoa(e.Index))
	b.WriteRune(' ')
	b.WriteString(e.Kind.String())
	b.WriteRune(' ')
	b.WriteString(fld(e.Signal))
	b.WriteRune(' ')
	b.WriteString(fld(e.Expected))
	b.WriteRune(' ')
	b.WriteString(fld(e.Observed))
	b.WriteRune(' ')
	b.WriteString(fld(e.Note))
	return b.String()
}

// ParseEvent parses one log line. lineNo is 1-based and used in error
// reports only.
//
func ParseEvent(line string, lineNo int) (Event, error) {
	parts := strings.SplitN(line, " ", 6)
	if len(parts) < 6 {
		return Event{}, errors.Errorf("line %d: got %d fields, want 6", lineNo, len(parts))
	}
	idx, err := strconv.Atoi(parts[0])
	if err != nil || idx < 0 {
		return Event{}, errors.Errorf("line %d: bad event index %q", lineNo, parts[0])
	}
	kind, ok := kindFromTag(parts[1])
	if !ok {
		return Event{}, errors.Errorf("line %d: unknown event kind %q", lineNo, parts[1])
	}
	unfld := func(s string) string {
		if s == placeholder {
			return ""
		}
		return s
	}
	return Event{
		Index:    idx,
		Kind:     kind,
		Signal:   unfld(parts[2]),
		Expected: unfld(parts[3]),
		Observed: unfld(parts[4]),
		Note:     unfld(parts[5]),
	}, nil
}

// A Log is the append-only event log written by the testbench side.
// Every record is flushed as it is appended so that an aborted or
// truncated simulation still leaves a partially analyzable log, and
// file order always equals emission order.
//
type Log struct {
	f      *os.File
	w      *bufio.Writer
	n      int
	closed bool
}

// OpenLog creates (or truncates) the event log at path.
//
func OpenLog(path string) (*Log, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, "open event log")
	}
	return &Log{f: f, w: bufio.NewWriter(f)}, nil
}

// Append records one event. The event's Index is assigned by the log
// from its emission counter; any caller-provided value is overwritten.
//
func (l *Log) Append(e Event) error {
	if l.closed {
		return errors.New("append on closed event log")
	}
	e.Index = l.n
	if _, err := l.w.WriteString(e.line()); err != nil {
		return errors.Wrapf(err, "event %d", e.Index)
	}
	if err := l.w.WriteByte('\n'); err != nil {
		return errors.Wrapf(err, "event %d", e.Index)
	}
	if err := l.w.Flush(); err != nil {
		return errors.Wrapf(err, "event %d", e.Index)
	}
	l.n++
	return nil
}

// Count returns the number of events appended so far.
//
func (l *Log) Count() int { return l.n }

// Close releases the log file. Close is idempotent.
//
func (l *Log) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	ferr := l.w.Flush()
	cerr := l.f.Close()
	if ferr != nil {
		return errors.Wrap(ferr, "close event log")
	}
	return errors.Wrap(cerr, "close event log")
}
