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
	"fmt"
	"os"

	"github.com/consensys/go-armasm/pkg/armasm/encoder"
	"github.com/consensys/go-armasm/pkg/armasm/lir"
	"github.com/spf13/cobra"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm [flags] file.bin",
	Short: "disassemble a binary image.",
	Long: `Disassemble a flat binary image, one word at a time.  Words which do not
encode a supported instruction are shown as data.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getConfig(cmd)
		//
		bytes, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(3)
		}
		//
		image := &encoder.Image{Base: cfg.Origin, Entry: cfg.Origin, Bytes: bytes, ByteOrder: cfg.ByteOrder}
		//
		fmt.Print(Disassemble(image))
	},
}

// Disassemble every word of an image into a listing.
func Disassemble(image *encoder.Image) string {
	var program lir.Program
	//
	program.Entry = image.Entry
	//
	for _, w := range image.Words() {
		if insn, err := lir.Decode(w.Value); err == nil {
			program.Items = append(program.Items, &lir.Code{Addr: w.Address, Insn: insn})
		} else {
			program.Items = append(program.Items, &lir.Data{Addr: w.Address, Width: 4, Values: []uint32{w.Value}})
		}
	}
	//
	return program.Listing()
}

func init() {
	rootCmd.AddCommand(disasmCmd)
}
