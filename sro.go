/*
 * sro.go, part of gosro.
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
	"math"

	"gonum.org/v1/gonum/mat"
)

// Bond is an undirected bond between the atoms with indexes A and B.
type Bond struct {
	A, B int
}

// Frame is one snapshot of a trajectory: its time, its bond list and the
// species label of each atom.
type Frame struct {
	Time  float64
	Bonds []Bond
	Types []int
}

// Matrix contains the SRO parameters for all the pairs of a species set, plus
// the quantities used to obtain them. It is not modified after creation.
type Matrix struct {
	species []int
	index   map[int]int
	conc    []float64
	counts  *mat.Dense //nil if the matrix was not obtained from a bond list
	prob    *mat.Dense
	sro     *mat.SymDense
	nbonds  int
}

// Compute obtains the SRO matrix for a frame with the given bonds and atom types.
// species is the species set to report on, in the order used by the matrix.
// If species is nil, the sorted distinct labels in types are used.
// For each species pair SRO[i,j] = 1 - P[i,j]/(c_i*c_j), where c are the concentrations
// and P is the matrix of bond-type counts, in the order given by the bond list, divided
// by the number of bonds and added to its transpose. Note that the latter doubles the
// diagonal, as well as giving each unordered pair of species its two orientations.
func Compute(bonds []Bond, types []int, species []int) (*Matrix, error) {
	if len(bonds) == 0 {
		err := new(EmptyBondListError)
		err.Decorate("Compute")
		return nil, err
	}
	if err := checkBondIndexes(bonds, len(types)); err != nil {
		return nil, errDecorate(err, "Compute")
	}
	if species == nil {
		species = SpeciesFromTypes(types)
	}
	index, err := speciesIndex(species)
	if err != nil {
		return nil, errDecorate(err, "Compute")
	}
	counts, err := bondTypeCounts(bonds, types, index)
	if err != nil {
		return nil, errDecorate(err, "Compute")
	}
	conc, err := concentrations(types, index)
	if err != nil {
		return nil, errDecorate(err, "Compute")
	}
	M, err := FromProbabilities(species, conc, probabilities(counts, len(bonds)))
	if err != nil {
		return nil, errDecorate(err, "Compute")
	}
	M.counts = counts
	M.nbonds = len(bonds)
	return M, nil
}

// FromProbabilities obtains the SRO matrix from the concentrations of each species and
// the symmetric matrix of bond-pair probabilities P, both in the order of species.
// P is not checked to sum to any particular value.
func FromProbabilities(species []int, conc []float64, P mat.Matrix) (*Matrix, error) {
	index, err := speciesIndex(species)
	if err != nil {
		return nil, errDecorate(err, "FromProbabilities")
	}
	t := len(species)
	r, c := P.Dims()
	if len(conc) != t || r != t || c != t {
		err := &SpeciesSetError{msg: fmt.Sprintf("%d species but %d concentrations and a %dx%d probability matrix", t, len(conc), r, c)}
		err.Decorate("FromProbabilities")
		return nil, err
	}
	for i := 0; i < t; i++ {
		for j := i + 1; j < t; j++ {
			if P.At(i, j) != P.At(j, i) {
				err := &SpeciesSetError{msg: fmt.Sprintf("probability matrix not symmetric at (%d, %d)", i, j)}
				err.Decorate("FromProbabilities")
				return nil, err
			}
		}
	}
	M := &Matrix{
		species: append([]int(nil), species...),
		index:   index,
		conc:    append([]float64(nil), conc...),
		prob:    mat.DenseCopyOf(P),
		sro:     mat.NewSymDense(t, nil),
	}
	for i := 0; i < t; i++ {
		for j := i; j < t; j++ {
			M.sro.SetSym(i, j, 1.0-M.prob.At(i, j)/(M.conc[i]*M.conc[j]))
		}
	}
	return M, nil
}

// Concentrations returns the fraction of the atoms in types that belong to each species.
// All labels in types must belong to species.
func Concentrations(types []int, species []int) ([]float64, error) {
	index, err := speciesIndex(species)
	if err != nil {
		return nil, errDecorate(err, "Concentrations")
	}
	ret, err := concentrations(types, index)
	if err != nil {
		return nil, errDecorate(err, "Concentrations")
	}
	return ret, nil
}

// BondTypeCounts returns a matrix where the element i,j is the number of bonds (a, b)
// in the list where a has the species i and b the species j. The matrix is not symmetrized.
func BondTypeCounts(bonds []Bond, types []int, species []int) (*mat.Dense, error) {
	index, err := speciesIndex(species)
	if err != nil {
		return nil, errDecorate(err, "BondTypeCounts")
	}
	ret, err := bondTypeCounts(bonds, types, index)
	if err != nil {
		return nil, errDecorate(err, "BondTypeCounts")
	}
	return ret, nil
}

func concentrations(types []int, index map[int]int) ([]float64, error) {
	if len(types) == 0 {
		return nil, &SpeciesSetError{msg: "no atoms to obtain concentrations from"}
	}
	n := make([]int, len(index))
	for at, v := range types {
		i, ok := index[v]
		if !ok {
			return nil, &UnmappedSpeciesError{Label: v, Atom: at}
		}
		n[i]++
	}
	ret := make([]float64, len(n))
	for i, v := range n {
		ret[i] = float64(v) / float64(len(types))
	}
	return ret, nil
}

// checkBondIndexes returns an error for the first bond that references an atom outside [0, natoms).
func checkBondIndexes(bonds []Bond, natoms int) error {
	for k, b := range bonds {
		if b.A < 0 || b.B < 0 || b.A >= natoms || b.B >= natoms {
			return &InvalidBondIndexError{Bond: k, A: b.A, B: b.B, NAtoms: natoms}
		}
	}
	return nil
}

func bondTypeCounts(bonds []Bond, types []int, index map[int]int) (*mat.Dense, error) {
	if err := checkBondIndexes(bonds, len(types)); err != nil {
		return nil, err
	}
	t := len(index)
	counts := mat.NewDense(t, t, nil)
	for _, b := range bonds {
		i, ok := index[types[b.A]]
		if !ok {
			return nil, &UnmappedSpeciesError{Label: types[b.A], Atom: b.A}
		}
		j, ok := index[types[b.B]]
		if !ok {
			return nil, &UnmappedSpeciesError{Label: types[b.B], Atom: b.B}
		}
		counts.Set(i, j, counts.At(i, j)+1)
	}
	return counts, nil
}

// probabilities divides the counts by the number of bonds, and adds the
// result to its transpose.
func probabilities(counts *mat.Dense, nbonds int) *mat.Dense {
	m := float64(nbonds)
	var p mat.Dense
	p.Apply(func(i, j int, v float64) float64 { return v / m }, counts)
	ret := new(mat.Dense)
	ret.Add(&p, p.T())
	return ret
}

// Len returns the number of species in the matrix.
func (M *Matrix) Len() int {
	return len(M.species)
}

// Species returns a copy of the species set of the matrix, in matrix order.
func (M *Matrix) Species() []int {
	return append([]int(nil), M.species...)
}

// Concentrations returns a copy of the concentration of each species, in matrix order.
func (M *Matrix) Concentrations() []float64 {
	return append([]float64(nil), M.conc...)
}

// NBonds returns the number of bonds used to obtain the matrix, 0 if the matrix
// was obtained from probabilities.
func (M *Matrix) NBonds() int {
	return M.nbonds
}

// Counts returns a copy of the directional bond-type counts, or nil if the
// matrix was obtained from probabilities.
func (M *Matrix) Counts() *mat.Dense {
	if M.counts == nil {
		return nil
	}
	return mat.DenseCopyOf(M.counts)
}

// Probabilities returns a copy of the symmetrized probability matrix.
func (M *Matrix) Probabilities() *mat.Dense {
	return mat.DenseCopyOf(M.prob)
}

// SRO returns a copy of the whole SRO matrix, in species-set order.
func (M *Matrix) SRO() *mat.SymDense {
	ret := mat.NewSymDense(len(M.species), nil)
	ret.CopySym(M.sro)
	return ret
}

// At returns the SRO parameter for the species labels i and j.
func (M *Matrix) At(i, j int) (float64, error) {
	ii, ok := M.index[i]
	if !ok {
		err := &UnmappedSpeciesError{Label: i, Atom: -1}
		err.Decorate("At")
		return math.NaN(), err
	}
	jj, ok := M.index[j]
	if !ok {
		err := &UnmappedSpeciesError{Label: j, Atom: -1}
		err.Decorate("At")
		return math.NaN(), err
	}
	return M.sro.At(ii, jj), nil
}

// Pair returns the SRO parameter for the pair p.
func (M *Matrix) Pair(p Pair) (float64, error) {
	v, err := M.At(p.I, p.J)
	if err != nil {
		return v, errDecorate(err, "Pair")
	}
	return v, nil
}

// Defined returns true if both species i and j are present in the frame, so their
// SRO parameter is defined. Parameters for absent species are NaN.
func (M *Matrix) Defined(i, j int) bool {
	ii, ok := M.index[i]
	if !ok {
		return false
	}
	jj, ok := M.index[j]
	if !ok {
		return false
	}
	return M.conc[ii] != 0 && M.conc[jj] != 0
}

// Project puts the SRO parameters of pairs, in order, in dst, and returns it. If dst is
// nil or shorter than pairs, a new slice is allocated.
func (M *Matrix) Project(pairs []Pair, dst []float64) ([]float64, error) {
	if len(dst) < len(pairs) {
		dst = make([]float64, len(pairs))
	}
	dst = dst[:len(pairs)]
	for k, p := range pairs {
		v, err := M.Pair(p)
		if err != nil {
			return nil, errDecorate(err, "Project")
		}
		dst[k] = v
	}
	return dst, nil
}

// Named returns the SRO parameter for every ordered pair of species, keyed by the
// pair label given by names (see TypeMap.PairLabel).
func (M *Matrix) Named(names TypeMap) (map[string]float64, error) {
	ret := make(map[string]float64, len(M.species)*len(M.species))
	for i, v := range M.species {
		for j, w := range M.species {
			key, err := names.PairLabel(Pair{v, w})
			if err != nil {
				return nil, errDecorate(err, "Named")
			}
			ret[key] = M.sro.At(i, j)
		}
	}
	return ret, nil
}

func (M *Matrix) String() string {
	return fmt.Sprintf("species: %v concentrations: %v\n%v", M.species, M.conc, mat.Formatted(M.sro, mat.Squeeze()))
}
