/*
 * species.go, part of gosro.
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
	"sort"
	"strconv"
	"strings"
)

// Pair is an (i, j) pair of species labels.
type Pair struct {
	I, J int
}

// Swap returns the (j, i) pair.
func (p Pair) Swap() Pair {
	return Pair{p.J, p.I}
}

// String returns the two labels written together, i.e. "12" for (1, 2).
func (p Pair) String() string {
	return fmt.Sprintf("%d%d", p.I, p.J)
}

// TypeMap maps integer species labels to display names, e.g. 1 to "Fe".
// A nil or empty TypeMap means labels are reported as integers.
type TypeMap map[int]string

// ParseTypeMap parses a map written as comma-separated label:name
// items, i.e. "1:Fe,2:Ni,3:Cr". Whitespace around items is ignored.
func ParseTypeMap(s string) (TypeMap, error) {
	ret := make(TypeMap)
	s = strings.TrimSpace(s)
	if s == "" {
		return ret, nil
	}
	names := make(map[string]int)
	for _, item := range strings.Split(s, ",") {
		kv := strings.Split(strings.TrimSpace(item), ":")
		if len(kv) != 2 || strings.TrimSpace(kv[1]) == "" {
			return nil, fmt.Errorf("sro: malformed type map item %q", item)
		}
		label, err := strconv.Atoi(strings.TrimSpace(kv[0]))
		if err != nil {
			return nil, fmt.Errorf("sro: can't parse species label in %q: %w", item, err)
		}
		if label <= 0 {
			return nil, &SpeciesSetError{Label: label, msg: fmt.Sprintf("species labels must be positive, got %d", label)}
		}
		name := strings.TrimSpace(kv[1])
		if _, ok := ret[label]; ok {
			return nil, &SpeciesSetError{Label: label, msg: fmt.Sprintf("species label %d mapped twice", label)}
		}
		if l, ok := names[name]; ok {
			return nil, &SpeciesSetError{Label: label, msg: fmt.Sprintf("name %s used for labels %d and %d", name, l, label)}
		}
		names[name] = label
		ret[label] = name
	}
	return ret, nil
}

// Name returns the name for the given label. If the map is empty, the label
// itself is returned as a string. A label missing from a non-empty map
// is an error.
func (T TypeMap) Name(label int) (string, error) {
	if len(T) == 0 {
		return strconv.Itoa(label), nil
	}
	name, ok := T[label]
	if !ok {
		return "", &UnmappedSpeciesError{Label: label, Atom: -1}
	}
	return name, nil
}

// PairLabel returns the label used for the pair p in reports, the two names
// written together ("FeNi"), or the two integer labels if the map is empty.
func (T TypeMap) PairLabel(p Pair) (string, error) {
	if len(T) == 0 {
		return p.String(), nil
	}
	n1, err := T.Name(p.I)
	if err != nil {
		return "", errDecorate(err, "PairLabel")
	}
	n2, err := T.Name(p.J)
	if err != nil {
		return "", errDecorate(err, "PairLabel")
	}
	return n1 + n2, nil
}

// Labels returns the labels in the map, sorted.
func (T TypeMap) Labels() []int {
	ret := make([]int, 0, len(T))
	for k := range T {
		ret = append(ret, k)
	}
	sort.Ints(ret)
	return ret
}

// String returns the map in the format read by ParseTypeMap.
func (T TypeMap) String() string {
	items := make([]string, 0, len(T))
	for _, l := range T.Labels() {
		items = append(items, fmt.Sprintf("%d:%s", l, T[l]))
	}
	return strings.Join(items, ",")
}

// Check returns an error if any of the labels in species is missing from the map.
// An empty map passes any check.
func (T TypeMap) Check(species []int) error {
	if len(T) == 0 {
		return nil
	}
	for _, v := range species {
		if _, ok := T[v]; !ok {
			return &UnmappedSpeciesError{Label: v, Atom: -1}
		}
	}
	return nil
}

// SpeciesFromTypes returns the sorted, distinct labels present in types.
func SpeciesFromTypes(types []int) []int {
	seen := make(map[int]bool)
	ret := make([]int, 0, 5)
	for _, v := range types {
		if !seen[v] {
			seen[v] = true
			ret = append(ret, v)
		}
	}
	sort.Ints(ret)
	return ret
}

// PairsWithReplacement returns all unordered pairs of species, with
// repetition, in the order given by species: for {1,2,3}, it returns
// 11 12 13 22 23 33.
func PairsWithReplacement(species []int) []Pair {
	ret := make([]Pair, 0, len(species)*(len(species)+1)/2)
	for i, v := range species {
		for _, w := range species[i:] {
			ret = append(ret, Pair{v, w})
		}
	}
	return ret
}

// speciesIndex maps each label in species to its position, and checks that
// the set is usable.
func speciesIndex(species []int) (map[int]int, error) {
	if len(species) == 0 {
		return nil, &SpeciesSetError{msg: "empty species set"}
	}
	index := make(map[int]int, len(species))
	for i, v := range species {
		if v <= 0 {
			return nil, &SpeciesSetError{Label: v, msg: fmt.Sprintf("species labels must be positive, got %d", v)}
		}
		if _, ok := index[v]; ok {
			return nil, &SpeciesSetError{Label: v, msg: fmt.Sprintf("species label %d repeated in the species set", v)}
		}
		index[v] = i
	}
	return index, nil
}
