// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package hir

import (
	"cmp"
	"slices"
)

// Region is a contiguous range of addresses [Start, End) begun by an ORIGIN
// directive (or the start of the program), and including its literal pool.
type Region struct {
	Start uint32
	End   uint32
}

// Size returns the number of bytes spanned by this region.
func (r Region) Size() uint32 {
	return r.End - r.Start
}

// Overlaps checks whether two regions share any address.  Empty regions
// overlap nothing.
func (r Region) Overlaps(o Region) bool {
	return r.Start < o.End && o.Start < r.End
}

// Program is a fully laid out program, where nodes are sorted by address and
// do not overlap.
type Program struct {
	Nodes []Node
	// Entry point address
	Entry uint32
	// Non-empty regions, sorted by address
	Regions []Region
}

// NewProgram constructs a program from a given set of nodes, which are sorted
// by address.
func NewProgram(nodes []Node, entry uint32, regions []Region) *Program {
	slices.SortStableFunc(nodes, func(l, r Node) int {
		return cmp.Compare(l.Address(), r.Address())
	})
	//
	slices.SortFunc(regions, func(l, r Region) int {
		return cmp.Compare(l.Start, r.Start)
	})
	//
	return &Program{nodes, entry, regions}
}

// Bounds returns the lowest address occupied and the address following the
// highest, or (0,0) for an empty program.
func (p *Program) Bounds() (uint32, uint32) {
	if len(p.Regions) == 0 {
		return 0, 0
	}
	//
	lowest, highest := p.Regions[0].Start, p.Regions[0].End
	//
	for _, r := range p.Regions[1:] {
		highest = max(highest, r.End)
	}
	//
	return lowest, highest
}
