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
package cmd

import (
	"encoding/binary"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/consensys/go-armasm/pkg/armasm"
	"github.com/consensys/go-armasm/pkg/armasm/diag"
	"github.com/consensys/go-armasm/pkg/util/termio"
	"github.com/spf13/cobra"
)

// GetFlag gets an expected flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// GetString gets an expected string flag, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// Determine the assembler configuration from the persistent flags.
func getConfig(cmd *cobra.Command) armasm.Config {
	var (
		cfg    = armasm.DefaultConfig()
		origin = GetString(cmd, "origin")
	)
	// Origin can be given in decimal, hex (0x) or binary (0b)
	address, err := strconv.ParseUint(origin, 0, 32)
	if err != nil {
		fmt.Printf("invalid origin \"%s\"\n", origin)
		os.Exit(2)
	}
	//
	cfg.Origin = uint32(address)
	//
	if GetFlag(cmd, "little-endian") {
		cfg.ByteOrder = binary.LittleEndian
	}
	//
	return cfg
}

// Write bytes to a file, or exit if this fails.
func writeFile(filename string, bytes []byte) {
	if err := os.WriteFile(filename, bytes, 0644); err != nil {
		fmt.Println(err)
		os.Exit(3)
	}
}

// Print diagnostics with appropriate highlighting, using colour when writing
// to a terminal.
func printDiagnostics(diags []diag.Diagnostic) {
	styler := termio.NewStyler(os.Stdout)
	//
	for i := range diags {
		printDiagnostic(&diags[i], styler)
	}
}

func printDiagnostic(err *diag.Diagnostic, styler termio.Styler) {
	var (
		span       = err.Span()
		line       = err.FirstEnclosingLine()
		lineOffset = span.Start() - line.Start()
		// Calculate length (ensures don't overflow line, or vanish)
		length = max(1, min(line.Length()-lineOffset, span.Length()))
		red    = termio.BoldAnsiEscape().FgColour(termio.TERM_RED)
		kind   = termio.NewAnsiEscape().FgColour(termio.TERM_CYAN)
	)
	// Print error + line number
	fmt.Printf("%s:%d:%d-%d %s %s %s\n", err.SourceFile().Filename(), line.Number(), 1+lineOffset,
		1+lineOffset+length, styler.Style(red, "error:"), err.Message(), styler.Style(kind, "["+err.Kind.String()+"]"))
	// Print separator line
	fmt.Println()
	// Print line
	fmt.Println(line.String())
	// Print indent (todo: account for tabs)
	fmt.Print(strings.Repeat(" ", lineOffset))
	// Print highlight
	fmt.Println(styler.Style(red, strings.Repeat("^", length)))
}
