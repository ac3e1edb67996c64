/*
 * errors.go, part of gosro.
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
	"fmt"
	"strings"
)

// deco holds the call chain an error went through. It is embedded in
// all the error types of the package.
type deco struct {
	calls []string
}

// Decorate adds the caller to the decoration slice of the error and returns
// the resulting slice. An empty string only returns the current slice.
func (d *deco) Decorate(caller string) []string {
	if caller != "" {
		d.calls = append(d.calls, caller)
	}
	return d.calls
}

func (d *deco) trace() string {
	if len(d.calls) == 0 {
		return ""
	}
	return " [" + strings.Join(d.calls, " < ") + "]"
}

// errDecorate decorates err with the caller's name if err implements Error.
// Other errors are returned untouched.
func errDecorate(err error, caller string) error {
	if e, ok := err.(Error); ok {
		e.Decorate(caller)
	}
	return err
}

// EmptyBondListError is returned when a frame has no bonds, so the
// bond-type counts can't be normalized.
type EmptyBondListError struct {
	deco
}

func (E *EmptyBondListError) Error() string {
	return "sro: empty bond list, bond counts can't be normalized" + E.trace()
}

// UnmappedSpeciesError is returned when a species label is not part of the
// species set (or of the name map) in use. Atom is the index of the atom that
// carries the label, or -1 if the label did not come from an atom.
type UnmappedSpeciesError struct {
	deco
	Label int
	Atom  int
}

func (E *UnmappedSpeciesError) Error() string {
	if E.Atom < 0 {
		return fmt.Sprintf("sro: species label %d is not mapped", E.Label) + E.trace()
	}
	return fmt.Sprintf("sro: species label %d of atom %d is not in the species set", E.Label, E.Atom) + E.trace()
}

// InvalidBondIndexError is returned when a bond references an atom that
// doesn't exist in the type vector.
type InvalidBondIndexError struct {
	deco
	Bond   int //position of the bond in the bond list
	A, B   int
	NAtoms int
}

func (E *InvalidBondIndexError) Error() string {
	return fmt.Sprintf("sro: bond %d (%d, %d) references an atom outside [0, %d)", E.Bond, E.A, E.B, E.NAtoms) + E.trace()
}

// SpeciesSetError is returned for an unusable species set, or for inputs
// whose dimensions don't match the species set.
type SpeciesSetError struct {
	deco
	Label int
	msg   string
}

func (E *SpeciesSetError) Error() string {
	return "sro: " + E.msg + E.trace()
}

// FrameAccessError wraps an error returned by a FrameProvider. It is never
// generated by the calculations themselves. The aggregators wrap it in a
// FrameError, which reports the frame index.
type FrameAccessError struct {
	deco
	Frame int
	Err   error
}

func (E *FrameAccessError) Error() string {
	return fmt.Sprintf("sro: frame provider failed: %v", E.Err) + E.trace()
}

func (E *FrameAccessError) Unwrap() error { return E.Err }

// FrameError annotates the first error found while aggregating a trajectory
// with the index of the frame that produced it.
type FrameError struct {
	deco
	Frame int
	Err   error
}

func (E *FrameError) Error() string {
	return fmt.Sprintf("sro: frame %d: %v", E.Frame, E.Err) + E.trace()
}

func (E *FrameError) Unwrap() error { return E.Err }
