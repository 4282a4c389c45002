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
package builder

import (
	"github.com/consensys/go-armasm/pkg/armasm/ast"
)

// poolEntry is a single word slot within a literal pool.
type poolEntry struct {
	// Name of the literal symbol giving the slot's address
	name string
	// Expression evaluated into the slot
	value ast.Expr
}

// pool is the literal pool of a region, which is placed after the region's
// last byte.  Slots are allocated in order of first use, and uses of the same
// known value share a slot.
type pool struct {
	entries []poolEntry
	// Maps known values to their slot
	known map[uint32]uint
}

func newPool() *pool {
	return &pool{nil, make(map[uint32]uint)}
}

// Allocate a slot for a given expression whose value may (or may not) be
// known.  This returns the name of the slot's literal symbol, which is the
// given name if a new slot was allocated.
func (p *pool) allocate(expr ast.Expr, value uint32, known bool, name string) (string, bool) {
	if index, ok := p.known[value]; ok && known {
		return p.entries[index].name, false
	}
	//
	if known {
		p.known[value] = uint(len(p.entries))
	}
	//
	p.entries = append(p.entries, poolEntry{name, expr})
	//
	return name, true
}

// Size returns the number of bytes occupied by this pool (excluding any
// alignment padding before it).
func (p *pool) size() uint {
	return 4 * uint(len(p.entries))
}
