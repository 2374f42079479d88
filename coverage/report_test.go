package coverage_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/cdotrus/verb/coverage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_score(t *testing.T) {
	m := coverage.NewModel(1)
	g := coverage.NewGroup("opcode").Bins(0, 1, 2).Apply(m)

	score, ok := m.Score()
	assert.True(t, ok)
	assert.Equal(t, 0.0, score)

	g.Check(0)
	score, _ = m.Score()
	assert.Equal(t, 33.33, score)

	g.Check(1)
	g.Check(2)
	score, _ = m.Score()
	assert.Equal(t, 100.0, score)
}

func Test_score_empty(t *testing.T) {
	m := coverage.NewModel(1)
	_, ok := m.Score()
	assert.False(t, ok)
	assert.Contains(t, m.Report(false), "Score: None")
	assert.Contains(t, m.Report(false), "Met: None")
}

func Test_report_text(t *testing.T) {
	m := coverage.NewModel(9)
	p := coverage.NewPoint("overflow").Goal(2).Apply(m)
	p.Check(1)

	rep := m.Report(false)
	assert.True(t, strings.HasPrefix(rep, "File: Coverage Report\n"))
	assert.Contains(t, rep, "Seed: 9")
	assert.Contains(t, rep, "Met: false")
	assert.Contains(t, rep, "CoverPoint: overflow: 1/2 ...FAILED")

	p.Check(1)
	rep = m.Report(true)
	assert.Contains(t, rep, "Met: true")
	assert.Contains(t, rep, "...PASSED")
}

func Test_report_json(t *testing.T) {
	m := coverage.NewModel(3)
	g := coverage.NewGroup("opcode").Bins(0, 1).Apply(m)
	g.Check(0)
	coverage.NewPoint("unreachable").Bypass(true).Apply(m)

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var rep struct {
		Seed   int64    `json:"seed"`
		Score  *float64 `json:"score"`
		Met    *bool    `json:"met"`
		Count  int      `json:"count"`
		Points int      `json:"points"`
		Nets   []struct {
			Name string `json:"name"`
			Type string `json:"type"`
			Met  *bool  `json:"met"`
			Bins []struct {
				Name string `json:"name"`
				Hits []struct {
					Value string `json:"value"`
					Count int    `json:"count"`
				} `json:"hits"`
			} `json:"bins"`
		} `json:"nets"`
	}
	require.NoError(t, json.Unmarshal(data, &rep))

	assert.Equal(t, int64(3), rep.Seed)
	require.NotNil(t, rep.Score)
	assert.Equal(t, 50.0, *rep.Score)
	require.NotNil(t, rep.Met)
	assert.False(t, *rep.Met)
	assert.Equal(t, 1, rep.Count)
	assert.Equal(t, 2, rep.Points)

	require.Len(t, rep.Nets, 2)
	assert.Equal(t, "opcode", rep.Nets[0].Name)
	assert.Equal(t, "group", rep.Nets[0].Type)
	require.Len(t, rep.Nets[0].Bins, 2)
	require.Len(t, rep.Nets[0].Bins[0].Hits, 1)
	assert.Equal(t, "0", rep.Nets[0].Bins[0].Hits[0].Value)

	// a bypassed net reports neither pass nor fail
	assert.Nil(t, rep.Nets[1].Met)
}
