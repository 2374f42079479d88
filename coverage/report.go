// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package coverage

import (
	"encoding/json"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// JSON report shapes. The layout is the interchange format consumed by
// the verb CLI's cover and chart commands.

type modelReport struct {
	Seed       int64       `json:"seed"`
	Iterations int         `json:"iterations"`
	Score      *float64    `json:"score"`
	Met        *bool       `json:"met"`
	Count      int         `json:"count"`
	Points     int         `json:"points"`
	Nets       []netReport `json:"nets"`
}

type netReport struct {
	Name  string      `json:"name"`
	Type  string      `json:"type"`
	Met   *bool       `json:"met"`
	Count int         `json:"count"`
	Goal  int         `json:"goal"`
	Bins  []binReport `json:"bins,omitempty"`
}

type binReport struct {
	Name  string      `json:"name"`
	Met   *bool       `json:"met"`
	Count int         `json:"count"`
	Goal  int         `json:"goal"`
	Hits  []hitReport `json:"hits"`
}

type hitReport struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// metOf returns the net's pass state, or nil when bypassed (a
// bypassed net reports neither pass nor fail).
//
func metOf(n Net) *bool {
	if n.Skipped() {
		return nil
	}
	v := n.Passed()
	return &v
}

func metCount(bypass bool, count, goal int) *bool {
	if bypass {
		return nil
	}
	v := count >= goal
	return &v
}

func sortedHits(hits map[uint64]int) []hitReport {
	if len(hits) == 0 {
		return nil
	}
	keys := make([]uint64, 0, len(hits))
	for k := range hits {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	out := make([]hitReport, len(keys))
	for i, k := range keys {
		out[i] = hitReport{Value: strconv.FormatUint(k, 10), Count: hits[k]}
	}
	return out
}

func kindLabel(n Net) string {
	switch n.Kind() {
	case "group":
		return "CoverGroup"
	case "range":
		return "CoverRange"
	case "cross":
		return "CoverCross"
	default:
		return "CoverPoint"
	}
}

// binLabel formats a bin's member values, elided past eight entries.
//
func binLabel(members []uint64) string {
	const limit = 8
	var b strings.Builder
	b.WriteRune('[')
	for i, v := range members {
		if i == limit {
			b.WriteString("...")
			break
		}
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatUint(v, 10))
	}
	b.WriteRune(']')
	return b.String()
}

func logNet(n Net, verbose bool, progress string) string {
	if verbose {
		return kindLabel(n) + ": " + n.Name() + ": ..." + n.Status().String() + "\n    " + progress
	}
	return kindLabel(n) + ": " + n.Name() + ": " + progress + " ..." + n.Status().String()
}

func logNetDetail(n Net, lines []string) string {
	return kindLabel(n) + ": " + n.Name() + ": ..." + n.Status().String() + "\n    " + strings.Join(lines, "\n    ")
}

func logNetAs(n Net, inner *Range, verbose bool) string {
	if !verbose {
		return logNet(n, false, strconv.Itoa(inner.PointsMet())+"/"+strconv.Itoa(inner.GoalPoints()))
	}
	lines := make([]string, len(inner.counts))
	for i, c := range inner.counts {
		lines[i] = inner.binLabel(i) + ": " + strconv.Itoa(c) + "/" + strconv.Itoa(inner.goal)
	}
	return logNetDetail(n, lines)
}

// Score returns the aggregate coverage percentage in [0,100], rounded
// to two decimal places, or false when no points are tracked.
//
func (m *Model) Score() (float64, bool) {
	total := m.GoalPoints()
	if total == 0 {
		return 0, false
	}
	return math.Round(m.Percent()*100*100) / 100, true
}

// Summary returns a one-line-per-net overview of the model.
//
func (m *Model) Summary() string {
	var b strings.Builder
	for _, n := range m.nets {
		b.WriteString(n.Log(false))
		b.WriteRune('\n')
	}
	return b.String()
}

// Report compiles the full coverage report: header, summary and,
// when verbose, per-bin detail.
//
func (m *Model) Report(verbose bool) string {
	var b strings.Builder
	b.WriteString("File: Coverage Report\n")
	b.WriteString("Seed: " + strconv.FormatInt(m.seed, 10) + "\n")
	b.WriteString("Iterations: " + strconv.Itoa(m.steps) + "\n")
	if score, ok := m.Score(); ok {
		b.WriteString("Score: " + strconv.FormatFloat(score, 'f', 2, 64) + "\n")
		b.WriteString("Met: " + strconv.FormatBool(m.Status() == Passed) + "\n")
	} else {
		b.WriteString("Score: None\n")
		b.WriteString("Met: None\n")
	}
	b.WriteString("Count: " + strconv.Itoa(m.PointsMet()) + "\n")
	b.WriteString("Points: " + strconv.Itoa(m.GoalPoints()) + "\n")
	b.WriteString("\n")
	b.WriteString(m.Summary())
	if verbose {
		b.WriteString("\n")
		for _, n := range m.nets {
			b.WriteString(n.Log(true))
			b.WriteRune('\n')
		}
	}
	return b.String()
}

// MarshalJSON encodes the model's coverage report.
//
func (m *Model) MarshalJSON() ([]byte, error) {
	rep := modelReport{
		Seed:       m.seed,
		Iterations: m.steps,
		Count:      m.PointsMet(),
		Points:     m.GoalPoints(),
		Nets:       make([]netReport, 0, len(m.nets)),
	}
	if score, ok := m.Score(); ok {
		rep.Score = &score
		met := m.Status() == Passed
		rep.Met = &met
	}
	for _, n := range m.nets {
		rep.Nets = append(rep.Nets, n.report())
	}
	return json.MarshalIndent(rep, "", "    ")
}

// WriteReport writes the text report to txtPath and the JSON report to
// jsonPath. Either path may be empty to skip that form.
//
func (m *Model) WriteReport(txtPath, jsonPath string) error {
	if txtPath != "" {
		if err := os.WriteFile(txtPath, []byte(m.Report(true)), 0644); err != nil {
			return errors.Wrap(err, "write coverage report")
		}
	}
	if jsonPath != "" {
		data, err := m.MarshalJSON()
		if err != nil {
			return errors.Wrap(err, "write coverage report")
		}
		if err := os.WriteFile(jsonPath, data, 0644); err != nil {
			return errors.Wrap(err, "write coverage report")
		}
	}
	return nil
}
