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
package encoder

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/consensys/go-armasm/pkg/armasm/lir"
	log "github.com/sirupsen/logrus"
)

// Image is a flat binary image covering every address from the lowest to the
// highest occupied by a program.  Gaps between regions are zero.
type Image struct {
	// Base is the address of the first byte.
	Base uint32
	// Entry is the address at which execution starts.
	Entry uint32
	// Bytes of the image.
	Bytes []byte
	// ByteOrder in which words are stored.
	ByteOrder binary.ByteOrder
}

// Word is a 32-bit word of an image, along with its address.
type Word struct {
	Address uint32
	Value   uint32
}

// Encode a resolved program into an image, using a given byte order.
func Encode(program *lir.Program, order binary.ByteOrder) *Image {
	if len(program.Items) == 0 {
		return &Image{Base: program.Entry, Entry: program.Entry, ByteOrder: order}
	}
	//
	var (
		low, high = bounds(program.Items)
		bytes     = make([]byte, high-low)
		nwords    = 0
	)
	//
	for _, item := range program.Items {
		offset := uint64(item.Address()) - low
		//
		switch item := item.(type) {
		case *lir.Code:
			order.PutUint32(bytes[offset:], EncodeInstruction(item.Insn))
			nwords++
		case *lir.Data:
			for _, value := range item.Values {
				write(bytes[offset:], order, item.Width, value)
				offset += uint64(item.Width)
			}
		default:
			panic(fmt.Sprintf("unknown item %T", item))
		}
	}
	//
	log.Debugf("encoded %d instructions into %d bytes at 0x%08x", nwords, len(bytes), low)
	//
	return &Image{Base: uint32(low), Entry: program.Entry, Bytes: bytes, ByteOrder: order}
}

// Words splits this image into consecutive words, where a final partial word
// is padded with zeros.
func (p *Image) Words() []Word {
	var (
		n     = (len(p.Bytes) + 3) / 4
		words = make([]Word, n)
	)
	//
	for i := range words {
		var buf [4]byte
		//
		copy(buf[:], p.Bytes[4*i:])
		words[i] = Word{p.Base + uint32(4*i), p.ByteOrder.Uint32(buf[:])}
	}
	//
	return words
}

// Hex renders this image with one word per line, as in "00000000: e3a00005".
func (p *Image) Hex() string {
	var builder strings.Builder
	//
	for _, w := range p.Words() {
		fmt.Fprintf(&builder, "%08x: %08x\n", w.Address, w.Value)
	}
	//
	return builder.String()
}

// Determine the range of addresses occupied by some items.
func bounds(items []lir.Item) (uint64, uint64) {
	var low, high uint64 = uint64(items[0].Address()), 0
	//
	for _, item := range items {
		start := uint64(item.Address())
		low = min(low, start)
		high = max(high, start+uint64(item.Size()))
	}
	//
	return low, high
}

func write(bytes []byte, order binary.ByteOrder, width uint, value uint32) {
	switch width {
	case 1:
		bytes[0] = byte(field(value, 8, "byte"))
	case 2:
		order.PutUint16(bytes, uint16(field(value, 16, "halfword")))
	case 4:
		order.PutUint32(bytes, value)
	default:
		panic(fmt.Sprintf("invalid data width %d", width))
	}
}
