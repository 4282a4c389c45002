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
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/consensys/go-armasm/pkg/armasm"
	"github.com/consensys/go-armasm/pkg/armasm/symbol"
	"github.com/consensys/go-armasm/pkg/util/source"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var assembleCmd = &cobra.Command{
	Use:   "assemble [flags] file.s",
	Short: "assemble a source file into a binary image.",
	Long: `Assemble a given source file into a flat binary image.  By default, the
image is written alongside the source file with the extension ".bin".`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var (
			cfg      = getConfig(cmd)
			output   = GetString(cmd, "output")
			hex      = GetFlag(cmd, "hex")
			listing  = GetFlag(cmd, "lir")
			symbols  = GetFlag(cmd, "symbols")
			filename = args[0]
		)
		// Read source file
		srcfile, err := source.ReadFile(filename)
		if err != nil {
			fmt.Println(err)
			os.Exit(3)
		}
		// Assemble source file, or print errors
		assembly, errs := armasm.Assemble(srcfile, cfg)
		if len(errs) > 0 {
			printDiagnostics(errs)
			os.Exit(4)
		}
		//
		if listing {
			fmt.Print(assembly.Program.Listing())
		}
		//
		if symbols {
			writeSymbols(assembly.Symbols)
		}
		//
		if hex {
			fmt.Print(assembly.Image.Hex())
		}
		// Write the image unless only printing was requested
		if output == "" && !(hex || listing || symbols) {
			output = strings.TrimSuffix(filename, filepath.Ext(filename)) + ".bin"
		}
		//
		if output != "" {
			log.Debugf("writing %d bytes to %s", len(assembly.Image.Bytes), output)
			writeFile(output, assembly.Image.Bytes)
		}
	},
}

// Print symbols ordered by value, omitting literal pool slots.
func writeSymbols(symbols symbol.Lookup) {
	var syms []symbol.Symbol
	//
	for _, sym := range symbols.Symbols() {
		if sym.Kind != symbol.LITERAL {
			syms = append(syms, sym)
		}
	}
	//
	slices.SortFunc(syms, func(a, b symbol.Symbol) int {
		if c := cmp.Compare(a.Value, b.Value); c != 0 {
			return c
		}
		//
		return strings.Compare(a.Name, b.Name)
	})
	//
	for _, sym := range syms {
		fmt.Printf("%08x %-8s %s\n", uint32(sym.Value), sym.Kind, sym.Name)
	}
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(assembleCmd)
	assembleCmd.Flags().StringP("output", "o", "", "file to which the image is written")
	assembleCmd.Flags().Bool("hex", false, "print the image as hexadecimal words")
	assembleCmd.Flags().Bool("lir", false, "print the resolved program")
	assembleCmd.Flags().Bool("symbols", false, "print the symbol table")
}
