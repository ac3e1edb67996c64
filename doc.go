/*
 * doc.go, part of gosro.
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

/*Package sro is the main package of gosro. It obtains Cowley-type, first-shell,
short-range-order (SRO) parameters for multi-component atomic configurations
from a bond list and the species label of each atom, for single frames and for
whole trajectories.

	**Capabilities**

    Computes the full species x species SRO matrix for a frame (Compute),
	with SRO[i,j] = 1 - P[i,j]/(c_i*c_j). P is obtained by counting the bonds
	between each pair of species, in the order of the bond list, dividing by
	the number of bonds, and adding the transpose. This convention doubles
	the like-species (diagonal) probabilities, and is kept so results are
	comparable with those of other tools using it.

    Drives the calculation over all the frames of a trajectory (Aggregate,
	AggregateConc) and collects a time series for a chosen list of species
	pairs (Table), which can be written as CSV or JSON, or plotted with the
	sroplot package.

    Maps integer species labels to names (TypeMap).

The bond lists are not built here. The traj/btf package reads and writes
trajectories of frames with already-built bonds, and the bondgraph package
checks bond lists and reports their connectivity.

Parameters are 0 for random mixing, positive when the pair is avoided and
negative when it is preferred.*/
package sro
