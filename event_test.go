package verb_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cdotrus/verb"
)

func Test_event_parse(t *testing.T) {
	td := []struct {
		line string
		want verb.Event
	}{
		{"0 PASS sum 0011 0011 -", verb.Event{Index: 0, Kind: verb.ComparePass, Signal: "sum", Expected: "0011", Observed: "0011"}},
		{"1 FAIL cout 1 0 -", verb.Event{Index: 1, Kind: verb.CompareFail, Signal: "cout", Expected: "1", Observed: "0"}},
		{"2 TIMEOUT valid - - gave up after 64 cycles", verb.Event{Index: 2, Kind: verb.Timeout, Signal: "valid", Note: "gave up after 64 cycles"}},
		{"3 UNSTABLE data 0f 1f changed while held", verb.Event{Index: 3, Kind: verb.StabilityViolation, Signal: "data", Expected: "0f", Observed: "1f", Note: "changed while held"}},
		{"4 NOTE - - - reset released", verb.Event{Index: 4, Kind: verb.Note, Note: "reset released"}},
	}
	for i, d := range td {
		got, err := verb.ParseEvent(d.line, i+1)
		if err != nil {
			trace(t, err)
			t.Fatal(err)
		}
		if got != d.want {
			t.Errorf("%q: got %+v, want %+v", d.line, got, d.want)
		}
	}
}

func Test_event_parse_errors(t *testing.T) {
	td := []string{
		"",
		"0 PASS sum 0011",       // too few fields
		"x PASS sum 0011 0011 -", // bad index
		"-1 PASS sum 0011 0011 -",
		"0 BOGUS sum 0011 0011 -", // unknown kind
	}
	for _, line := range td {
		if _, err := verb.ParseEvent(line, 1); err == nil {
			t.Errorf("%q: expected error", line)
		}
	}
}

func Test_event_log(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")
	l, err := verb.OpenLog(path)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	events := []verb.Event{
		{Kind: verb.Note, Note: "start of test"},
		{Kind: verb.ComparePass, Signal: "sum", Expected: "0011", Observed: "0011"},
		{Kind: verb.CompareFail, Signal: "cout", Expected: "1", Observed: "0"},
	}
	for _, e := range events {
		if err := l.Append(e); err != nil {
			t.Fatal(err)
		}
	}
	if l.Count() != len(events) {
		t.Errorf("Count() = %d, want %d", l.Count(), len(events))
	}
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != len(events) {
		t.Fatalf("got %d lines, want %d", len(lines), len(events))
	}
	for i, line := range lines {
		got, err := verb.ParseEvent(line, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if got.Index != i {
			t.Errorf("line %d: index %d, want %d", i+1, got.Index, i)
		}
		if got.Kind != events[i].Kind || got.Note != events[i].Note {
			t.Errorf("line %d: got %+v, want kind %v note %q", i+1, got, events[i].Kind, events[i].Note)
		}
	}
}
