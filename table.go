/*
 * table.go, part of gosro.
 *
 *
 * Copyright 2024 The gosro Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package sro

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// Table is the SRO time series of a trajectory: one row per frame, in frame
// order, and one column per requested species pair. Rows are only appended.
type Table struct {
	pairs  []Pair
	times  []float64
	values []float64 //row-major
}

// NewTable returns an empty table for the given pairs, with room for
// frames rows.
func NewTable(pairs []Pair, frames int) *Table {
	if frames < 0 {
		frames = 0
	}
	return &Table{
		pairs:  append([]Pair(nil), pairs...),
		times:  make([]float64, 0, frames),
		values: make([]float64, 0, frames*len(pairs)),
	}
}

// appendRow adds a row to the table. values must have one element per pair.
func (T *Table) appendRow(time float64, values []float64) {
	if len(values) != len(T.pairs) {
		panic(fmt.Sprintf("sro: row with %d values for a table with %d pairs", len(values), len(T.pairs))) //programming error
	}
	T.times = append(T.times, time)
	T.values = append(T.values, values...)
}

// Len returns the number of rows (frames) in the table.
func (T *Table) Len() int {
	return len(T.times)
}

// Pairs returns a copy of the pairs in the table, in column order.
func (T *Table) Pairs() []Pair {
	return append([]Pair(nil), T.pairs...)
}

// Times returns a copy of the time of each row.
func (T *Table) Times() []float64 {
	return append([]float64(nil), T.times...)
}

// Row returns the time and a copy of the values of the row f. It panics if f is out of range.
func (T *Table) Row(f int) (float64, []float64) {
	n := len(T.pairs)
	return T.times[f], append([]float64(nil), T.values[f*n:(f+1)*n]...)
}

// Column returns the values for the pair p, one per row, and true, or nil and false if the
// table doesn't contain p. Since the SRO matrix is symmetric, (j, i) is used when (i, j) is
// not in the table.
func (T *Table) Column(p Pair) ([]float64, bool) {
	col := T.column(p)
	if col < 0 {
		col = T.column(p.Swap())
	}
	if col < 0 {
		return nil, false
	}
	n := len(T.pairs)
	ret := make([]float64, len(T.times))
	for i := range ret {
		ret[i] = T.values[i*n+col]
	}
	return ret, true
}

func (T *Table) column(p Pair) int {
	for i, v := range T.pairs {
		if v == p {
			return i
		}
	}
	return -1
}

// Dense returns the values as a rows x pairs matrix, or nil if the table is empty.
func (T *Table) Dense() *mat.Dense {
	if len(T.times) == 0 || len(T.pairs) == 0 {
		return nil
	}
	return mat.NewDense(len(T.times), len(T.pairs), append([]float64(nil), T.values...))
}

// Record is one row of the table, with the values keyed by pair label.
type Record struct {
	Time   float64
	Values map[string]float64
}

// Records returns the rows of the table as records, with values keyed by the pair labels
// given by names (see TypeMap.PairLabel).
func (T *Table) Records(names TypeMap) ([]Record, error) {
	labels, err := T.labels(names)
	if err != nil {
		return nil, errDecorate(err, "Records")
	}
	ret := make([]Record, len(T.times))
	for f := range T.times {
		_, row := T.Row(f)
		ret[f] = Record{Time: T.times[f], Values: make(map[string]float64, len(labels))}
		for i, l := range labels {
			ret[f].Values[l] = row[i]
		}
	}
	return ret, nil
}

// Labels returns the report label of each column, as given by names.
func (T *Table) Labels(names TypeMap) ([]string, error) {
	ret, err := T.labels(names)
	if err != nil {
		return nil, errDecorate(err, "Labels")
	}
	return ret, nil
}

func (T *Table) labels(names TypeMap) ([]string, error) {
	ret := make([]string, len(T.pairs))
	for i, p := range T.pairs {
		l, err := names.PairLabel(p)
		if err != nil {
			return nil, err
		}
		ret[i] = l
	}
	return ret, nil
}

// WriteCSV writes the table to w, with a header line "time,<pair labels>" and
// one line per row. Values are written with the shortest representation that
// reads back to the same float64.
func (T *Table) WriteCSV(w io.Writer, names TypeMap) error {
	labels, err := T.labels(names)
	if err != nil {
		return errDecorate(err, "WriteCSV")
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"time"}, labels...)); err != nil {
		return err
	}
	record := make([]string, len(labels)+1)
	for f := range T.times {
		_, row := T.Row(f)
		record[0] = strconv.FormatFloat(T.times[f], 'g', -1, 64)
		for i, v := range row {
			record[i+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type jsonTable struct {
	Pairs  [][2]int     `json:"pairs"`
	Times  []float64    `json:"times"`
	Values [][]*float64 `json:"values"` //NaN is written as null
}

// MarshalJSON encodes the table. Undefined (NaN) values are encoded as null.
func (T *Table) MarshalJSON() ([]byte, error) {
	j := jsonTable{
		Pairs:  make([][2]int, len(T.pairs)),
		Times:  T.times,
		Values: make([][]*float64, len(T.times)),
	}
	if j.Times == nil {
		j.Times = []float64{}
	}
	for i, p := range T.pairs {
		j.Pairs[i] = [2]int{p.I, p.J}
	}
	for f := range T.times {
		_, row := T.Row(f)
		j.Values[f] = make([]*float64, len(row))
		for i := range row {
			if !math.IsNaN(row[i]) {
				j.Values[f][i] = &row[i]
			}
		}
	}
	return json.Marshal(j)
}

// UnmarshalJSON decodes a table encoded by MarshalJSON.
func (T *Table) UnmarshalJSON(b []byte) error {
	var j jsonTable
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	if len(j.Values) != len(j.Times) {
		return fmt.Errorf("sro: table with %d times but %d rows", len(j.Times), len(j.Values))
	}
	pairs := make([]Pair, len(j.Pairs))
	for i, v := range j.Pairs {
		pairs[i] = Pair{v[0], v[1]}
	}
	t := NewTable(pairs, len(j.Times))
	row := make([]float64, len(pairs))
	for f, vals := range j.Values {
		if len(vals) != len(pairs) {
			return fmt.Errorf("sro: row %d has %d values for %d pairs", f, len(vals), len(pairs))
		}
		for i, v := range vals {
			if v == nil {
				row[i] = math.NaN()
			} else {
				row[i] = *v
			}
		}
		t.appendRow(j.Times[f], row)
	}
	*T = *t
	return nil
}
