/*
 * aggregate.go, part of gosro.
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
	"errors"
	"runtime"
	"sync"
)

var errNilFrame = errors.New("provider returned a nil frame")

// Aggregate computes the SRO matrix for each frame of P, in frame order, and collects the
// parameters for pairs, in the given order, into a table with one row per frame.
// species is passed to Compute for every frame, and should be given explicitly so all frames
// use the same set. The first error stops the aggregation, and is returned as a *FrameError.
// The observers, if given, are called after each frame is computed.
func Aggregate(P FrameProvider, species []int, pairs []Pair, obs ...Observer) (*Table, error) {
	n := P.Len()
	T := NewTable(pairs, n)
	row := make([]float64, len(pairs))
	for i := 0; i < n; i++ {
		f, err := frame(P, i)
		if err != nil {
			return nil, errDecorate(err, "Aggregate")
		}
		M, err := computeFrame(f, i, species)
		if err != nil {
			return nil, errDecorate(err, "Aggregate")
		}
		if row, err = M.Project(pairs, row); err != nil {
			return nil, errDecorate(&FrameError{Frame: i, Err: err}, "Aggregate")
		}
		T.appendRow(f.Time, row)
		for _, o := range obs {
			o(i, f, M)
		}
	}
	return T, nil
}

// AggregateConc does the same as Aggregate, but computes the frames concurrently,
// using up to workers goroutines (GOMAXPROCS if workers < 1). The provider is first
// read sequentially, so it doesn't need to be safe for concurrent use. Rows are always in
// frame order. If several frames fail, the error for the lowest frame index is returned.
// The observers are called in frame order once all the frames are computed.
func AggregateConc(P FrameProvider, species []int, pairs []Pair, workers int, obs ...Observer) (*Table, error) {
	n := P.Len()
	frames := make([]*Frame, n)
	for i := range frames {
		var err error
		frames[i], err = frame(P, i)
		if err != nil {
			return nil, errDecorate(err, "AggregateConc")
		}
	}
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}
	mats := make([]*Matrix, n)
	rows := make([][]float64, n)
	errs := make([]error, n)
	jobs := make(chan int, n)
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				M, err := computeFrame(frames[i], i, species)
				if err != nil {
					errs[i] = err
					continue
				}
				rows[i], err = M.Project(pairs, nil)
				if err != nil {
					errs[i] = &FrameError{Frame: i, Err: err}
					continue
				}
				mats[i] = M
			}
		}()
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, errDecorate(err, "AggregateConc")
		}
	}
	T := NewTable(pairs, n)
	for i, f := range frames {
		T.appendRow(f.Time, rows[i])
		for _, o := range obs {
			o(i, f, mats[i])
		}
	}
	return T, nil
}

// frame obtains the frame i from P, wrapping any error.
func frame(P FrameProvider, i int) (*Frame, error) {
	f, err := P.Frame(i)
	if err == nil && f == nil {
		err = errNilFrame
	}
	if err != nil {
		return nil, &FrameError{Frame: i, Err: &FrameAccessError{Frame: i, Err: err}}
	}
	return f, nil
}

func computeFrame(f *Frame, i int, species []int) (*Matrix, error) {
	M, err := Compute(f.Bonds, f.Types, species)
	if err != nil {
		return nil, &FrameError{Frame: i, Err: err}
	}
	return M, nil
}
