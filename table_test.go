package sro

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func smallTable() *Table {
	T := NewTable([]Pair{{1, 1}, {1, 2}}, 2)
	T.appendRow(0, []float64{1, -3})
	T.appendRow(100, []float64{0.25, math.NaN()})
	return T
}

func TestTableColumns(t *testing.T) {
	T := smallTable()
	col, ok := T.Column(Pair{1, 1})
	require.True(t, ok)
	assert.Equal(t, []float64{1, 0.25}, col)

	col, ok = T.Column(Pair{2, 1})
	require.True(t, ok)
	assert.Equal(t, -3.0, col[0])
	assert.True(t, math.IsNaN(col[1]))

	_, ok = T.Column(Pair{2, 2})
	assert.False(t, ok)

	D := T.Dense()
	r, c := D.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 0.25, D.At(1, 0))
	assert.True(t, mat.Equal(mat.NewDense(1, 2, []float64{1, -3}), D.Slice(0, 1, 0, 2)))
}

func TestTableRowsAreCopies(t *testing.T) {
	T := smallTable()
	_, row := T.Row(0)
	row[0] = 42
	_, again := T.Row(0)
	assert.Equal(t, 1.0, again[0])
}

func TestTableRecords(t *testing.T) {
	T := smallTable()
	recs, err := T.Records(TypeMap{1: "Fe", 2: "Ni"})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, 100.0, recs[1].Time)
	assert.Equal(t, map[string]float64{"FeFe": 1, "FeNi": -3}, recs[0].Values)

	labels, err := T.Labels(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"11", "12"}, labels)

	_, err = T.Records(TypeMap{2: "Ni"})
	var e *UnmappedSpeciesError
	assert.ErrorAs(t, err, &e)
}

func TestTableCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, smallTable().WriteCSV(&buf, TypeMap{1: "Fe", 2: "Ni"}))
	assert.Equal(t, "time,FeFe,FeNi\n0,1,-3\n100,0.25,NaN\n", buf.String())

	buf.Reset()
	assert.Error(t, smallTable().WriteCSV(&buf, TypeMap{1: "Fe"}))
}

func TestTableJSON(t *testing.T) {
	b, err := json.Marshal(smallTable())
	require.NoError(t, err)
	assert.JSONEq(t, `{"pairs":[[1,1],[1,2]],"times":[0,100],"values":[[1,-3],[0.25,null]]}`, string(b))

	T := new(Table)
	require.NoError(t, json.Unmarshal(b, T))
	assert.Equal(t, []Pair{{1, 1}, {1, 2}}, T.Pairs())
	assert.Equal(t, []float64{0, 100}, T.Times())
	_, row := T.Row(1)
	assert.Equal(t, 0.25, row[0])
	assert.True(t, math.IsNaN(row[1]))

	assert.Error(t, json.Unmarshal([]byte(`{"pairs":[[1,1]],"times":[0],"values":[[1,2]]}`), T))
	assert.Error(t, json.Unmarshal([]byte(`{"pairs":[[1,1]],"times":[0,1],"values":[[1]]}`), T))

	b, err = json.Marshal(NewTable(nil, 0))
	require.NoError(t, err)
	assert.JSONEq(t, `{"pairs":[],"times":[],"values":[]}`, string(b))
}
