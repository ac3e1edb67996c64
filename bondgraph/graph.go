// Package bondgraph represents the bond list of a frame as a gonum graph, where atoms
// are the nodes and bonds the edges. It checks that a bond list is well formed (no
// atom bonded to itself, no bond repeated in either orientation) and reports on its
// connectivity, which helps to find out why a configuration gives few or no bonds.
package bondgraph

import (
	"fmt"
	"sort"

	sro "github.com/rmera/gosro"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/stat"
)

// Atom is a node of the graph.
type Atom struct {
	Index int
	Type  int
}

func (A Atom) ID() int64 {
	return int64(A.Index)
}

// Graph is the undirected graph formed by the atoms of a frame and its bonds.
type Graph struct {
	g      *simple.UndirectedGraph
	natoms int
	nbonds int
}

// New builds the graph for the given bonds and atom types. It returns an error if a bond
// references a non-existent atom, bonds an atom to itself, or repeats a previous bond.
func New(bonds []sro.Bond, types []int) (*Graph, error) {
	G := &Graph{g: simple.NewUndirectedGraph(), natoms: len(types), nbonds: len(bonds)}
	for i, v := range types {
		G.g.AddNode(Atom{Index: i, Type: v})
	}
	for k, b := range bonds {
		if b.A < 0 || b.B < 0 || b.A >= len(types) || b.B >= len(types) {
			err := &sro.InvalidBondIndexError{Bond: k, A: b.A, B: b.B, NAtoms: len(types)}
			err.Decorate("bondgraph.New")
			return nil, err
		}
		if b.A == b.B {
			return nil, &Error{Bond: k, A: b.A, B: b.B, msg: "bonds an atom to itself", deco: []string{"New"}}
		}
		if G.g.HasEdgeBetween(int64(b.A), int64(b.B)) {
			return nil, &Error{Bond: k, A: b.A, B: b.B, msg: "repeats a previous bond", deco: []string{"New"}}
		}
		G.g.SetEdge(simple.Edge{F: G.g.Node(int64(b.A)), T: G.g.Node(int64(b.B))})
	}
	return G, nil
}

// FromFrame builds the graph for the bonds and types of f.
func FromFrame(f *sro.Frame) (*Graph, error) {
	return New(f.Bonds, f.Types)
}

// Check returns nil if the bonds are a valid bond list for the atom types, or the error New would return.
func Check(bonds []sro.Bond, types []int) error {
	_, err := New(bonds, types)
	return err
}

// Len returns the number of atoms in the graph.
func (G *Graph) Len() int {
	return G.natoms
}

// NBonds returns the number of bonds in the graph.
func (G *Graph) NBonds() int {
	return G.nbonds
}

// Degree returns the number of bonds of atom i.
func (G *Graph) Degree(i int) int {
	return countNodes(G.g.From(int64(i)))
}

// Neighbors returns the indexes of the atoms bonded to atom i, sorted.
func (G *Graph) Neighbors(i int) []int {
	return indexes(graph.NodesOf(G.g.From(int64(i))))
}

// Components returns the atom indexes in each connected component of the graph. Each
// component is sorted, and components are sorted by their lowest index.
func (G *Graph) Components() [][]int {
	cc := topo.ConnectedComponents(G.g)
	ret := make([][]int, 0, len(cc))
	for _, v := range cc {
		ret = append(ret, indexes(v))
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i][0] < ret[j][0] })
	return ret
}

// Isolated returns the indexes of the atoms with no bonds, sorted.
func (G *Graph) Isolated() []int {
	ret := make([]int, 0)
	for i := 0; i < G.natoms; i++ {
		if G.Degree(i) == 0 {
			ret = append(ret, i)
		}
	}
	return ret
}

// UnlikeBonds returns the number of bonds between atoms of different species.
func (G *Graph) UnlikeBonds() int {
	var n int
	edges := G.g.Edges()
	for edges.Next() {
		e := edges.Edge()
		if e.From().(Atom).Type != e.To().(Atom).Type {
			n++
		}
	}
	return n
}

// Summary contains some numbers describing the connectivity of a bond graph.
type Summary struct {
	Atoms       int
	Bonds       int
	UnlikeBonds int
	Components  int
	Isolated    int
	MeanDegree  float64
	MaxDegree   int
}

func (S Summary) String() string {
	return fmt.Sprintf("atoms: %d bonds: %d (unlike: %d) components: %d isolated atoms: %d mean degree: %.3f max degree: %d",
		S.Atoms, S.Bonds, S.UnlikeBonds, S.Components, S.Isolated, S.MeanDegree, S.MaxDegree)
}

// Summary returns the summary of the graph.
func (G *Graph) Summary() Summary {
	degrees := make([]float64, G.natoms)
	S := Summary{Atoms: G.natoms, Bonds: G.nbonds, UnlikeBonds: G.UnlikeBonds()}
	for i := range degrees {
		d := G.Degree(i)
		degrees[i] = float64(d)
		if d == 0 {
			S.Isolated++
		}
	}
	if G.natoms > 0 {
		S.MeanDegree = stat.Mean(degrees, nil)
		S.MaxDegree = int(floats.Max(degrees))
	}
	S.Components = len(topo.ConnectedComponents(G.g))
	return S
}

func countNodes(n graph.Nodes) int {
	var ret int
	for n.Next() {
		ret++
	}
	return ret
}

func indexes(nodes []graph.Node) []int {
	ret := make([]int, len(nodes))
	for i, v := range nodes {
		ret[i] = int(v.ID())
	}
	sort.Ints(ret)
	return ret
}

//Errors

// Error is returned for a malformed bond. It implements sro.Error.
type Error struct {
	Bond int //position of the bond in the list
	A, B int
	msg  string
	deco []string
}

func (E *Error) Error() string {
	return fmt.Sprintf("bondgraph: bond %d (%d, %d) %s", E.Bond, E.A, E.B, E.msg)
}

// Decorate Adds new information to the error
func (E *Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}
