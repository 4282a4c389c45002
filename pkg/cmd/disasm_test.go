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
	"testing"

	"github.com/consensys/go-armasm/pkg/armasm"
	"github.com/consensys/go-armasm/pkg/armasm/encoder"
	"github.com/consensys/go-armasm/pkg/util/assert"
	"github.com/consensys/go-armasm/pkg/util/source"
)

func TestDisassemble(t *testing.T) {
	text := "start MOV R0, #5\n CMP R0, #5\n BEQ done\ndone SVC #2\n"
	//
	assembly, errs := armasm.Assemble(source.NewSourceFile("test.s", []byte(text)), armasm.DefaultConfig())
	assert.Empty(t, errs)
	//
	expected := "00000000:> MOV R0, #5\n" +
		"00000004:  CMP R0, #5\n" +
		"00000008:  BEQ .+4\t; -> 0000000c\n" +
		"0000000c:  SVC #2\n"
	//
	assert.Equal(t, expected, Disassemble(assembly.Image))
}

func TestDisassemble_Data(t *testing.T) {
	image := &encoder.Image{Base: 0x100, Entry: 0x104, Bytes: []byte{0xF0, 0, 0, 0, 0xEF, 0, 0, 0x01},
		ByteOrder: binary.BigEndian}
	//
	assert.Equal(t, "00000100:  DEFW 0xf0000000\n00000104:> SVC #1\n", Disassemble(image))
}
