package sroplot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sro "github.com/rmera/gosro"
)

type provider []*sro.Frame

func (P provider) Len() int                        { return len(P) }
func (P provider) Frame(i int) (*sro.Frame, error) { return P[i], nil }

func table(t *testing.T) *sro.Table {
	t.Helper()
	types := []int{1, 2, 1, 2, 1, 2}
	P := provider{
		{Time: 0, Types: types, Bonds: []sro.Bond{{A: 0, B: 1}, {A: 2, B: 3}, {A: 4, B: 5}}},
		{Time: 1e6, Types: types, Bonds: []sro.Bond{{A: 0, B: 2}, {A: 1, B: 3}, {A: 0, B: 1}}},
		{Time: 2e6, Types: types, Bonds: []sro.Bond{{A: 0, B: 2}, {A: 2, B: 4}}},
	}
	T, err := sro.Aggregate(P, []int{1, 2}, sro.PairsWithReplacement([]int{1, 2}))
	require.NoError(t, err)
	return T
}

func TestSave(t *testing.T) {
	T := table(t)
	dir := t.TempDir()
	for _, ext := range []string{"png", "svg"} {
		name := filepath.Join(dir, "sro."+ext)
		require.NoError(t, Save(T, sro.TypeMap{1: "Fe", 2: "Ni"}, &Options{Title: "FeNi"}, name))
		st, err := os.Stat(name)
		require.NoError(t, err)
		assert.NotZero(t, st.Size())
	}
}

func TestTimeSeries(t *testing.T) {
	T := table(t)
	p, err := TimeSeries(T, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "time (ns)", p.X.Label.Text)
	assert.InDelta(t, 0, p.X.Min, 1e-9)
	assert.InDelta(t, 2, p.X.Max, 1e-9)

	_, err = TimeSeries(T, sro.TypeMap{1: "Fe"}, nil)
	assert.Error(t, err)
	_, err = TimeSeries(T, nil, &Options{Pairs: []sro.Pair{{I: 1, J: 3}}})
	assert.Error(t, err)
	_, err = TimeSeries(T, nil, &Options{Pairs: []sro.Pair{{I: 2, J: 1}}})
	assert.NoError(t, err)
}

func TestOptionsFill(t *testing.T) {
	o := (&Options{YLabel: "alpha", TimeScale: 1}).fill()
	d := DefaultOptions()
	assert.Equal(t, "alpha", o.YLabel)
	assert.Equal(t, 1.0, o.TimeScale)
	assert.Equal(t, d.XLabel, o.XLabel)
	assert.Equal(t, d.Width, o.Width)
	var nilopts *Options
	assert.Equal(t, d, nilopts.fill())
}

func TestColors(t *testing.T) {
	seen := make(map[[3]uint8]bool)
	for i := 0; i < 15; i++ {
		r, g, b := colors(i, 15)
		seen[[3]uint8{r, g, b}] = true
	}
	assert.Len(t, seen, 15)
}
