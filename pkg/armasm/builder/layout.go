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
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/consensys/go-armasm/pkg/armasm/ast"
	"github.com/consensys/go-armasm/pkg/armasm/diag"
	"github.com/consensys/go-armasm/pkg/armasm/hir"
)

// ADDRESS_LIMIT is one past the highest addressable byte.
const ADDRESS_LIMIT = int64(1) << 32

// MAX_IMAGE_SIZE is the largest distance permitted between the lowest and
// highest addresses of a program, since its image covers every address
// between them.
const MAX_IMAGE_SIZE = int64(1) << 26

// MAX_SPACE is the largest block which DEFS may reserve.
const MAX_SPACE = int64(1) << 24

// layout captures the outcome of a single layout pass.
type layout struct {
	builder *Builder
	// Symbol values from the previous pass (nil for the first pass)
	prev map[string]int64
	// Symbol values determined by this pass, including literal pool slots.
	values map[string]int64
	// Names of the literal pool slots allocated, in order.
	literals []string
	// Address of the next byte
	cursor int64
	// Start of the current region, and the directive which began it (or nil).
	start  int64
	origin *ast.Origin
	// Literal pool of the current region
	pool *pool
	// Labels waiting for the next address consuming node
	pending []*ast.Label
	// Entry directive waiting for the next address consuming node
	entry        *ast.Entry
	entryAddress *uint32
	entries      uint
	//
	nodes   []hir.Node
	regions []hir.Region
	// Directive beginning each region (nil for the initial region)
	origins  []*ast.Origin
	errors   []diag.Diagnostic
	overflow bool
	// Lowest address of any instruction
	lowestInsn *uint32
}

// Perform a single layout pass over the program, using the symbol values from
// the previous pass for anything not yet known.
func (p *Builder) layout(lines []ast.Line, prev map[string]int64) *layout {
	pass := &layout{
		builder: p,
		prev:    prev,
		values:  make(map[string]int64),
		cursor:  int64(p.origin),
		start:   int64(p.origin),
		pool:    newPool(),
	}
	//
	for _, line := range lines {
		pass.layoutLine(line)
	}
	// Labels at the end of the program are bound to its end.
	pass.bindPending()
	pass.closeRegion()
	pass.checkRegions()
	pass.checkImageSize()
	//
	return pass
}

func (p *layout) layoutLine(line ast.Line) {
	if line.Label != nil && p.builder.owners[line.Label] {
		if _, ok := line.Statement.(*ast.Equate); !ok {
			p.pending = append(p.pending, line.Label)
		}
	}
	//
	switch s := line.Statement.(type) {
	case nil:
		return
	case *ast.Equate:
		p.layoutEquate(line.Label, s)
	case *ast.Origin:
		p.layoutOrigin(s)
	case *ast.Entry:
		p.layoutEntry(s)
	case *ast.Align:
		p.layoutAlign(s)
	case *ast.DefineSpace:
		p.layoutDefineSpace(s)
	case *ast.DefineData:
		p.layoutDefineData(s)
	case ast.Instruction:
		p.layoutInstruction(s)
	default:
		panic(fmt.Sprintf("unknown statement %T", s))
	}
}

// EQU is evaluated immediately, and may refer only to constants defined
// earlier (though labels can be used freely).
func (p *layout) layoutEquate(label *ast.Label, equ *ast.Equate) {
	// Erroneous constants are given value zero, to avoid cascading errors.
	value, _ := p.evaluate(equ.Value, true)
	//
	if p.builder.owners[label] {
		p.values[label.Name] = value
	}
}

func (p *layout) layoutOrigin(origin *ast.Origin) {
	address, ok := p.evaluate(origin.Address, false)
	if !ok {
		return
	} else if address < 0 || address >= ADDRESS_LIMIT {
		p.error(diag.InvalidDirective, fmt.Sprintf("origin 0x%x is not a 32-bit address", address), origin)
		return
	}
	//
	p.closeRegion()
	p.cursor, p.start, p.origin = address, address, origin
}

func (p *layout) layoutEntry(entry *ast.Entry) {
	p.entries++
	//
	if p.entries > 1 {
		p.error(diag.MultipleEntryPoints, "entry point already defined", entry)
		return
	}
	//
	p.entry = entry
}

// ALIGN pads with zeros up to the next multiple of its boundary.  Labels are
// not bound by the padding, hence they get the aligned address.
func (p *layout) layoutAlign(align *ast.Align) {
	var boundary int64 = 4
	//
	if align.Boundary != nil {
		var ok bool
		//
		if boundary, ok = p.evaluate(align.Boundary, false); !ok {
			return
		}
	}
	//
	if boundary <= 0 || boundary > math.MaxUint16+1 || boundary&(boundary-1) != 0 {
		p.error(diag.InvalidDirective, fmt.Sprintf("alignment %d is not a power of two", boundary), align.Boundary,
			align)
		//
		return
	}
	//
	if padding := (boundary - p.cursor%boundary) % boundary; padding > 0 {
		p.emit(&hir.Bytes{Addr: uint32(p.cursor), Bytes: make([]byte, padding)})
	}
}

func (p *layout) layoutDefineSpace(space *ast.DefineSpace) {
	var (
		size, fill int64
		ok         bool
	)
	//
	if size, ok = p.evaluate(space.Size, false); !ok {
		return
	} else if size < 0 || size > MAX_SPACE {
		p.error(diag.InvalidDirective, fmt.Sprintf("invalid space size %d", size), space.Size)
		return
	}
	//
	if space.Fill != nil {
		if fill, ok = p.evaluate(space.Fill, false); !ok {
			return
		} else if fill < math.MinInt8 || fill > math.MaxUint8 {
			p.error(diag.InvalidDirective, fmt.Sprintf("fill value %d does not fit in a byte", fill), space.Fill)
			return
		}
	}
	//
	bytes := make([]byte, size)
	//
	for i := range bytes {
		bytes[i] = byte(fill)
	}
	//
	p.bindPending()
	p.emit(&hir.Bytes{Addr: uint32(p.cursor), Bytes: bytes})
}

// Data values are evaluated during resolution, except for strings which are
// known now.  Runs of values between strings form a single node.
func (p *layout) layoutDefineData(data *ast.DefineData) {
	var run []ast.Expr
	//
	p.bindPending()
	//
	for _, value := range data.Values {
		if str, ok := value.(*ast.String); ok {
			p.emitData(data.Width, run)
			p.emit(&hir.Bytes{Addr: uint32(p.cursor), Bytes: []byte(str.Value)})
			//
			run = nil
		} else {
			run = append(run, value)
		}
	}
	//
	p.emitData(data.Width, run)
}

func (p *layout) emitData(width uint, values []ast.Expr) {
	if len(values) > 0 {
		p.emit(&hir.Data{Addr: uint32(p.cursor), Width: width, Values: values})
	}
}

func (p *layout) layoutInstruction(insn ast.Instruction) {
	if p.cursor%4 != 0 {
		p.error(diag.MisalignedInstruction, fmt.Sprintf("instruction at unaligned address 0x%x", p.cursor), insn)
	}
	//
	p.bindPending()
	//
	address := uint32(p.cursor)
	//
	if p.lowestInsn == nil || address < *p.lowestInsn {
		p.lowestInsn = &address
	}
	//
	switch insn := insn.(type) {
	case *ast.LoadConstant:
		p.emit(p.expandLoadConstant(insn, address))
	case *ast.LoadAddress:
		for _, node := range p.expandLoadAddress(insn, address) {
			p.emit(node)
		}
	default:
		p.emit(&hir.Instruction{Addr: address, Insn: insn})
	}
}

// Bind all pending labels (and any pending entry point) to the current
// address.
func (p *layout) bindPending() {
	for _, label := range p.pending {
		p.values[label.Name] = p.cursor
	}
	//
	if p.entry != nil {
		address := uint32(p.cursor)
		p.entryAddress, p.entry = &address, nil
	}
	//
	p.pending = p.pending[:0]
}

// Place a node at the current address and advance past it.
func (p *layout) emit(node hir.Node) {
	p.nodes = append(p.nodes, node)
	p.cursor += int64(node.Size())
	//
	if p.cursor > ADDRESS_LIMIT && !p.overflow {
		p.overflow = true
		p.error(diag.InvalidDirective, "program extends beyond the 32-bit address space", node)
	}
}

// Close the current region by placing its literal pool immediately after it.
func (p *layout) closeRegion() {
	if p.pool.size() > 0 {
		if padding := (4 - p.cursor%4) % 4; padding > 0 {
			p.emit(&hir.Bytes{Addr: uint32(p.cursor), Bytes: make([]byte, padding)})
		}
		//
		for _, entry := range p.pool.entries {
			p.values[entry.name] = p.cursor
			p.emit(&hir.Data{Addr: uint32(p.cursor), Width: 4, Values: []ast.Expr{entry.value}})
		}
	}
	//
	if p.cursor > p.start {
		p.regions = append(p.regions, hir.Region{Start: uint32(p.start), End: uint32(min(p.cursor, ADDRESS_LIMIT-1))})
		p.origins = append(p.origins, p.origin)
	}
	//
	p.pool = newPool()
}

// Check no two regions overlap, reporting the later of each overlapping pair
// (in source order).
func (p *layout) checkRegions() {
	for i := range p.regions {
		for j := i + 1; j < len(p.regions); j++ {
			if p.regions[i].Overlaps(p.regions[j]) {
				ri, rj := p.regions[i], p.regions[j]
				msg := fmt.Sprintf("region 0x%x-0x%x overlaps region 0x%x-0x%x", rj.Start, rj.End, ri.Start, ri.End)
				//
				p.error(diag.RegionOverlap, msg, p.origins[j])
			}
		}
	}
}

// Check the regions fit within an image of reasonable size, reporting the
// directive which begins the highest region.
func (p *layout) checkImageSize() {
	if len(p.regions) == 0 {
		return
	}
	//
	var low, high = 0, 0
	//
	for i, r := range p.regions {
		if r.Start < p.regions[low].Start {
			low = i
		}
		//
		if r.End > p.regions[high].End {
			high = i
		}
	}
	//
	if size := int64(p.regions[high].End) - int64(p.regions[low].Start); size > MAX_IMAGE_SIZE {
		msg := fmt.Sprintf("image spanning 0x%x-0x%x exceeds %d bytes", p.regions[low].Start, p.regions[high].End,
			MAX_IMAGE_SIZE)
		//
		p.error(diag.ImageTooLarge, msg, p.origins[high], p.origins[low])
	}
}

// Determine the entry point, which is either given explicitly or is the lowest
// instruction address (or failing that the lowest address).
func (p *layout) entryPoint() uint32 {
	switch {
	case p.entryAddress != nil:
		return *p.entryAddress
	case p.lowestInsn != nil:
		return *p.lowestInsn
	case len(p.regions) > 0:
		return slices.MinFunc(p.regions, func(l, r hir.Region) int { return cmp.Compare(l.Start, r.Start) }).Start
	default:
		return p.builder.origin
	}
}

// Evaluate an expression during layout, reporting undefined symbols.  In
// strict mode constants must be defined before they are used.
func (p *layout) evaluate(expr ast.Expr, strict bool) (int64, bool) {
	env := &environment{p, strict, false}
	//
	value, err := expr.Eval(env)
	if err == nil {
		return value, true
	}
	//
	switch e := err.(type) {
	case *ast.UnknownSymbolError:
		msg := fmt.Sprintf("symbol \"%s\" is not defined before use", e.Symbol.Name)
		p.error(diag.UndefinedForwardReference, msg, e.Symbol, expr)
	case *ast.StringValueError:
		p.error(diag.MalformedOperand, err.Error(), e.String, expr)
	case *ast.OverflowError:
		p.error(diag.MalformedOperand, err.Error(), e.Expr, expr)
	default:
		p.error(diag.MalformedOperand, err.Error(), expr)
	}
	//
	return 0, false
}

func (p *layout) error(kind diag.Kind, msg string, nodes ...any) {
	p.errors = append(p.errors, p.builder.diagnostic(kind, msg, nodes...))
}
