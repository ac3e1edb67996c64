/*
 * interfaces.go, part of gosro.
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

// FrameProvider gives access to the frames of a trajectory whose bonds
// have already been built. Frames are addressed by index, 0..Len()-1.
type FrameProvider interface {

	//Len returns the number of frames in the trajectory.
	Len() int

	//Frame returns the frame with the given index. The returned frame
	//must not be modified by the provider after it is returned.
	Frame(i int) (*Frame, error)
}

// Observer is called by the aggregators once per frame, in frame order,
// after the SRO matrix for that frame has been obtained.
type Observer func(index int, f *Frame, M *Matrix)

//Errors

// Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
// error, without changing it's type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //each call returns the decoration slice resulting from it. An empty string adds nothing.
}

// TrajError is the interface for errors in the frame providers that read files.
type TrajError interface {
	Error
	Critical() bool
	FileName() string
	Format() string
}

// LastFrameError has a useless function to distinguish the harmless errors (i.e. last frame) so  they can be
// filtered in a typeswith that looks for this interface.
type LastFrameError interface {
	TrajError
	NormalLastFrameTermination() //does nothing, just to separate this interface from other TrajError's
}
