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
package armasm

import (
	"encoding/binary"

	"github.com/consensys/go-armasm/pkg/armasm/builder"
	"github.com/consensys/go-armasm/pkg/armasm/diag"
	"github.com/consensys/go-armasm/pkg/armasm/encoder"
	"github.com/consensys/go-armasm/pkg/armasm/lir"
	"github.com/consensys/go-armasm/pkg/armasm/parser"
	"github.com/consensys/go-armasm/pkg/armasm/resolver"
	"github.com/consensys/go-armasm/pkg/armasm/symbol"
	"github.com/consensys/go-armasm/pkg/util"
	"github.com/consensys/go-armasm/pkg/util/source"
	log "github.com/sirupsen/logrus"
)

// Config determines how a program is assembled.
type Config struct {
	// Origin is the address of the first byte of the program, until changed by
	// an ORIGIN directive.
	Origin uint32
	// ByteOrder of the image.
	ByteOrder binary.ByteOrder
}

// DefaultConfig assembles from address zero into a big-endian image, which is
// the order in which the emulator fetches words.
func DefaultConfig() Config {
	return Config{0, binary.BigEndian}
}

// Assembly is the result of assembling a program.
type Assembly struct {
	// Image of the program.
	Image *encoder.Image
	// Program as resolved just before encoding.
	Program *lir.Program
	// Symbols defined by the program, including literal pool slots.
	Symbols symbol.Lookup
}

// Assemble a source file.  This stops after the first stage which reports
// any errors, in which case no assembly is returned.
func Assemble(srcfile *source.File, cfg Config) (*Assembly, []diag.Diagnostic) {
	var (
		stats   = util.NewPerfStats()
		program *lir.Program
		errs    []diag.Diagnostic
	)
	// Parse
	lines, srcmap, errs := parser.Parse(srcfile)
	if len(errs) > 0 {
		return nil, errs
	}
	//
	stats.Log("Parsing")
	stats = util.NewPerfStats()
	// Build
	hprog, symbols, errs := builder.Build(lines, srcmap, cfg.Origin)
	if len(errs) > 0 {
		return nil, errs
	}
	//
	stats.Log("Building")
	stats = util.NewPerfStats()
	// Resolve
	if program, errs = resolver.Resolve(hprog, symbols, srcmap); len(errs) > 0 {
		return nil, errs
	}
	//
	stats.Log("Resolving")
	stats = util.NewPerfStats()
	// Encode
	image := encoder.Encode(program, cfg.ByteOrder)
	//
	stats.Log("Encoding")
	log.Debugf("assembled %s: %d lines, %d symbols, %d bytes", srcfile.Filename(), len(lines),
		len(symbols.Symbols()), len(image.Bytes))
	//
	return &Assembly{image, program, symbols}, nil
}
