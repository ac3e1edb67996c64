package sro

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// alternating returns n atoms with labels 1 and 2 alternating, starting with 1.
func alternating(n int) []int {
	ret := make([]int, n)
	for i := range ret {
		ret[i] = 1 + i%2
	}
	return ret
}

// unlikeBonds are 8 bonds, each from a type-1 atom to a type-2 atom of alternating(10).
var unlikeBonds = []Bond{{0, 1}, {2, 3}, {4, 5}, {6, 7}, {8, 9}, {0, 3}, {2, 5}, {4, 7}}

// randomFrame returns a frame with natoms atoms of nspecies species and nbonds random bonds.
func randomFrame(r *rand.Rand, natoms, nspecies, nbonds int) ([]Bond, []int) {
	types := make([]int, natoms)
	for i := range types {
		types[i] = 1 + i%nspecies
	}
	r.Shuffle(len(types), func(i, j int) { types[i], types[j] = types[j], types[i] })
	bonds := make([]Bond, 0, nbonds)
	for len(bonds) < nbonds {
		a, b := r.Intn(natoms), r.Intn(natoms)
		if a == b {
			continue
		}
		bonds = append(bonds, Bond{a, b})
	}
	return bonds, types
}

func TestComputeUnlikeBonds(t *testing.T) {
	M, err := Compute(unlikeBonds, alternating(10), []int{1, 2})
	require.NoError(t, err)

	assert.Equal(t, []float64{0.5, 0.5}, M.Concentrations())
	assert.Equal(t, 8, M.NBonds())
	assert.True(t, mat.Equal(mat.NewDense(2, 2, []float64{0, 8, 0, 0}), M.Counts()))
	assert.True(t, mat.Equal(mat.NewDense(2, 2, []float64{0, 1, 1, 0}), M.Probabilities()))

	s12, err := M.At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, -3.0, s12)
	s21, err := M.At(2, 1)
	require.NoError(t, err)
	assert.Equal(t, -3.0, s21)
	s11, err := M.At(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, s11)
	s22, err := M.At(2, 2)
	require.NoError(t, err)
	assert.Equal(t, 1.0, s22)
}

func TestComputeBondOrientation(t *testing.T) {
	reversed := make([]Bond, len(unlikeBonds))
	for i, b := range unlikeBonds {
		if i%2 == 0 {
			b = Bond{b.B, b.A}
		}
		reversed[i] = b
	}
	M1, err := Compute(unlikeBonds, alternating(10), []int{1, 2})
	require.NoError(t, err)
	M2, err := Compute(reversed, alternating(10), []int{1, 2})
	require.NoError(t, err)

	assert.False(t, mat.Equal(M1.Counts(), M2.Counts()))
	assert.True(t, mat.Equal(M1.SRO(), M2.SRO()))
}

// The transpose-add doubles the diagonal, so a 1-1 bond contributes 2/M to P[1,1].
func TestComputeDiagonalDoubling(t *testing.T) {
	M, err := Compute([]Bond{{0, 1}, {2, 3}}, []int{1, 1, 2, 2}, []int{1, 2})
	require.NoError(t, err)

	P := M.Probabilities()
	assert.Equal(t, 1.0, P.At(0, 0))
	assert.Equal(t, 1.0, P.At(1, 1))
	assert.Equal(t, 0.0, P.At(0, 1))
	assert.Equal(t, 2.0, mat.Sum(P))

	s11, err := M.At(1, 1)
	require.NoError(t, err)
	assert.Equal(t, -3.0, s11)
	s12, err := M.At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 1.0, s12)
}

func TestComputeSymmetry(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for _, nspecies := range []int{2, 3, 5} {
		bonds, types := randomFrame(r, 300, nspecies, 900)
		M, err := Compute(bonds, types, nil)
		require.NoError(t, err)
		require.Equal(t, nspecies, M.Len())
		assert.InDelta(t, 2.0, mat.Sum(M.Probabilities()), 1e-12)
		assert.InDelta(t, 1.0, floats.Sum(M.Concentrations()), 1e-12)
		for _, i := range M.Species() {
			for _, j := range M.Species() {
				sij, err := M.At(i, j)
				require.NoError(t, err)
				sji, err := M.At(j, i)
				require.NoError(t, err)
				assert.Equal(t, sij, sji, "SRO[%d,%d] != SRO[%d,%d]", i, j, j, i)
			}
		}
	}
}

func TestComputeSegregation(t *testing.T) {
	types := make([]int, 40)
	for i := 20; i < 40; i++ {
		types[i] = 2
	}
	for i := 0; i < 20; i++ {
		types[i] = 1
	}
	bonds := make([]Bond, 0, 38)
	for i := 0; i < 19; i++ {
		bonds = append(bonds, Bond{i, i + 1}, Bond{20 + i, 21 + i})
	}
	M, err := Compute(bonds, types, []int{1, 2})
	require.NoError(t, err)
	s12, err := M.At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 1.0, s12)
	s21, err := M.At(2, 1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, s21)
}

func TestComputeDuplicatedBonds(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	bonds, types := randomFrame(r, 100, 3, 250)
	doubled := append(append([]Bond(nil), bonds...), bonds...)
	M1, err := Compute(bonds, types, []int{1, 2, 3})
	require.NoError(t, err)
	M2, err := Compute(doubled, types, []int{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 2*M1.NBonds(), M2.NBonds())
	assert.True(t, mat.Equal(M1.SRO(), M2.SRO()))
}

func TestComputeEmptyBonds(t *testing.T) {
	M, err := Compute(nil, alternating(10), []int{1, 2})
	assert.Nil(t, M)
	var e *EmptyBondListError
	require.ErrorAs(t, err, &e)
	assert.Contains(t, e.Decorate(""), "Compute")

	_, err = Compute([]Bond{}, alternating(10), nil)
	assert.ErrorAs(t, err, &e)
}

func TestComputeInvalidBondIndex(t *testing.T) {
	for _, b := range []Bond{{0, 10}, {-1, 3}, {12, 1}} {
		bonds := append(append([]Bond(nil), unlikeBonds[:3]...), b)
		_, err := Compute(bonds, alternating(10), []int{1, 2})
		var e *InvalidBondIndexError
		require.ErrorAs(t, err, &e)
		assert.Equal(t, 3, e.Bond)
		assert.Equal(t, b.A, e.A)
		assert.Equal(t, b.B, e.B)
		assert.Equal(t, 10, e.NAtoms)
	}

	//the same error whether the species set is given or inferred from an empty type vector.
	for _, species := range [][]int{nil, {1}} {
		_, err := Compute([]Bond{{0, 1}}, []int{}, species)
		var e *InvalidBondIndexError
		require.ErrorAs(t, err, &e)
		assert.Equal(t, 0, e.NAtoms)
	}
}

func TestComputeUnmappedSpecies(t *testing.T) {
	types := alternating(10)
	types[6] = 3
	_, err := Compute([]Bond{{0, 1}}, types, []int{1, 2})
	var e *UnmappedSpeciesError
	require.ErrorAs(t, err, &e)
	assert.Equal(t, 3, e.Label)
	assert.Equal(t, 6, e.Atom)

	_, err = Compute([]Bond{{6, 1}}, types, []int{1, 2})
	require.ErrorAs(t, err, &e)
	assert.Equal(t, 6, e.Atom)
}

func TestComputeBadSpeciesSet(t *testing.T) {
	for _, species := range [][]int{{}, {1, 1}, {0, 1}, {-2, 1}} {
		_, err := Compute(unlikeBonds, alternating(10), species)
		var e *SpeciesSetError
		assert.ErrorAs(t, err, &e, "species set %v", species)
	}
}

func TestComputeInferredSpecies(t *testing.T) {
	M, err := Compute(unlikeBonds, alternating(10), nil)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, M.Species())
}

func TestComputeAbsentSpecies(t *testing.T) {
	M, err := Compute(unlikeBonds, alternating(10), []int{1, 2, 3})
	require.NoError(t, err)
	assert.True(t, M.Defined(1, 2))
	assert.False(t, M.Defined(1, 3))
	assert.False(t, M.Defined(3, 3))
	assert.False(t, M.Defined(1, 4))

	s13, err := M.At(1, 3)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(s13))
	s12, err := M.At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, -3.0, s12)

	_, err = M.At(1, 4)
	var e *UnmappedSpeciesError
	assert.ErrorAs(t, err, &e)
}

func TestFromProbabilitiesRandomMixing(t *testing.T) {
	c := []float64{0.2, 0.3, 0.5}
	P := mat.NewSymDense(3, nil)
	for i := range c {
		for j := i; j < len(c); j++ {
			P.SetSym(i, j, c[i]*c[j])
		}
	}
	M, err := FromProbabilities([]int{1, 2, 3}, c, P)
	require.NoError(t, err)
	assert.Nil(t, M.Counts())
	for _, i := range []int{1, 2, 3} {
		for _, j := range []int{1, 2, 3} {
			v, err := M.At(i, j)
			require.NoError(t, err)
			assert.Equal(t, 0.0, v)
		}
	}
}

func TestFromProbabilitiesErrors(t *testing.T) {
	var e *SpeciesSetError
	_, err := FromProbabilities([]int{1, 2}, []float64{0.5, 0.5}, mat.NewDense(2, 2, []float64{0, 1, 0.5, 0}))
	assert.ErrorAs(t, err, &e)
	_, err = FromProbabilities([]int{1, 2}, []float64{1}, mat.NewDense(2, 2, nil))
	assert.ErrorAs(t, err, &e)
	_, err = FromProbabilities([]int{1, 2}, []float64{0.5, 0.5}, mat.NewDense(3, 3, nil))
	assert.ErrorAs(t, err, &e)
}

func TestConcentrationsAndCounts(t *testing.T) {
	c, err := Concentrations([]int{1, 1, 1, 2}, []int{2, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.75}, c)

	counts, err := BondTypeCounts([]Bond{{0, 3}, {3, 0}, {0, 1}}, []int{1, 1, 1, 2}, []int{1, 2})
	require.NoError(t, err)
	assert.True(t, mat.Equal(mat.NewDense(2, 2, []float64{1, 1, 1, 0}), counts))
}

func TestMatrixProjectAndNamed(t *testing.T) {
	M, err := Compute(unlikeBonds, alternating(10), []int{1, 2})
	require.NoError(t, err)

	v, err := M.Project([]Pair{{2, 2}, {1, 2}, {1, 1}}, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, -3, 1}, v)
	_, err = M.Project([]Pair{{1, 5}}, nil)
	assert.Error(t, err)

	named, err := M.Named(TypeMap{1: "Fe", 2: "Ni"})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"FeFe": 1, "FeNi": -3, "NiFe": -3, "NiNi": 1}, named)

	named, err = M.Named(nil)
	require.NoError(t, err)
	assert.Equal(t, -3.0, named["12"])

	_, err = M.Named(TypeMap{1: "Fe"})
	var e *UnmappedSpeciesError
	require.True(t, errors.As(err, &e))
	assert.Equal(t, 2, e.Label)
}
