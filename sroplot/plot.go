/*
 * plot.go, part of gosro
 *
 * Copyright 2024 The gosro Authors
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2.1 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
*/

// Package sroplot draws the SRO time series of a trajectory: one scatter series
// per species pair, against the time of each frame.
package sroplot

import (
	"fmt"
	"image/color"
	"math"

	sro "github.com/rmera/gosro"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Options for the time series plot. Zero values are replaced by the defaults.
type Options struct {
	Title  string
	XLabel string
	YLabel string
	//The frame times are multiplied by TimeScale before plotting. The default,
	//1e-6, turns femtoseconds into nanoseconds.
	TimeScale float64
	Width     vg.Length
	Height    vg.Length
	Pairs     []sro.Pair //the pairs to draw, all the pairs in the table if nil.
}

// DefaultOptions returns the options used when nil options are given.
func DefaultOptions() *Options {
	return &Options{
		XLabel:    "time (ns)",
		YLabel:    "first ij Cowley SRO parameter",
		TimeScale: 1e-6,
		Width:     12 * vg.Centimeter,
		Height:    9 * vg.Centimeter,
	}
}

func (o *Options) fill() *Options {
	d := DefaultOptions()
	if o == nil {
		return d
	}
	r := *o
	if r.XLabel == "" {
		r.XLabel = d.XLabel
	}
	if r.YLabel == "" {
		r.YLabel = d.YLabel
	}
	if r.TimeScale == 0 {
		r.TimeScale = d.TimeScale
	}
	if r.Width == 0 {
		r.Width = d.Width
	}
	if r.Height == 0 {
		r.Height = d.Height
	}
	return &r
}

// TimeSeries returns a plot with the SRO parameter of each pair against time, with a
// legend that uses the pair labels given by names. Undefined (NaN) values are not drawn.
func TimeSeries(T *sro.Table, names sro.TypeMap, o *Options) (*plot.Plot, error) {
	o = o.fill()
	pairs := o.Pairs
	if pairs == nil {
		pairs = T.Pairs()
	}
	p := plot.New()
	p.Title.Text = o.Title
	p.X.Label.Text = o.XLabel
	p.Y.Label.Text = o.YLabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	times := T.Times()
	for key, pair := range pairs {
		label, err := names.PairLabel(pair)
		if err != nil {
			return nil, fmt.Errorf("sroplot: can't label pair %v: %w", pair, err)
		}
		vals, ok := T.Column(pair)
		if !ok {
			return nil, fmt.Errorf("sroplot: pair %v not in the table", pair)
		}
		pts := make(plotter.XYs, 0, len(vals))
		for i, v := range vals {
			if math.IsNaN(v) {
				continue
			}
			pts = append(pts, plotter.XY{X: times[i] * o.TimeScale, Y: v})
		}
		if len(pts) == 0 {
			continue
		}
		fill, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, err
		}
		r, g, b := colors(key, len(pairs))
		fill.GlyphStyle.Color = color.NRGBA{R: r, G: g, B: b, A: 128}
		fill.GlyphStyle.Shape = draw.CircleGlyph{}
		fill.GlyphStyle.Radius = vg.Points(3)
		edge, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, err
		}
		edge.GlyphStyle.Color = color.NRGBA{A: 128}
		edge.GlyphStyle.Shape = draw.RingGlyph{}
		edge.GlyphStyle.Radius = vg.Points(3)
		p.Add(fill, edge)
		p.Legend.Add(label, fill, edge)
	}
	return p, nil
}

// Save draws the time series plot and saves it to filename. The format is given by the
// extension of filename (png, svg, pdf, eps, jpg, tif).
func Save(T *sro.Table, names sro.TypeMap, o *Options, filename string) error {
	o = o.fill()
	p, err := TimeSeries(T, names, o)
	if err != nil {
		return err
	}
	return p.Save(o.Width, o.Height, filename)
}
