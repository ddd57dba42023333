// Copyright 2018 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metadata

import (
	"github.com/GoogleCloudPlatform/go-dicom-metadata/dicom"
)

// maxLUTEntries is the number of entries of a LUT whose descriptor declares 0 entries
const maxLUTEntries = 1 << 16

// LookupTable is a modality or VOI lookup table, reconstructed from the LUT Descriptor (0028,3002)
// and LUT Data (0028,3006) of one sequence item.
type LookupTable struct {
	NumEntries       int  `yaml:"numEntries" json:"numEntries"`
	FirstValueMapped int  `yaml:"firstValueMapped" json:"firstValueMapped"`
	NumBitsPerEntry  int  `yaml:"numBitsPerEntry" json:"numBitsPerEntry"`
	Signed           bool `yaml:"signed" json:"signed"`

	// Data holds at most NumEntries values. It is shorter when the LUT Data element has fewer
	// values than declared.
	Data []int `yaml:"data,flow" json:"data"`

	// Stages holds the LUTs of a sequence nested under the same sequence tag within the item
	Stages []LookupTable `yaml:"stages,omitempty" json:"stages,omitempty"`
}

// ResolveLUTs reconstructs the lookup tables of the sequence element tag of acc, one per item in
// item order. outputPixelRepresentation selects how descriptor and data values are read: 0 for
// unsigned, any other value for signed. Items without a LUT Descriptor are skipped. The result is
// empty, never nil, when the sequence is missing or has no items.
func ResolveLUTs(outputPixelRepresentation int, acc ValueAccessor, sequence dicom.DataElementTag) []LookupTable {
	luts := []LookupTable{}
	items, ok := acc.Items(sequence)
	if !ok {
		return luts
	}

	signed := outputPixelRepresentation != 0
	for _, item := range items {
		lut, ok := resolveLUT(signed, item)
		if !ok {
			continue
		}
		if nested, ok := item.Items(sequence); ok && len(nested) > 0 {
			lut.Stages = ResolveLUTs(outputPixelRepresentation, item, sequence)
		}
		luts = append(luts, lut)
	}
	return luts
}

func resolveLUT(signed bool, item ValueAccessor) (LookupTable, bool) {
	descriptor, ok := item.Numbers(dicom.LUTDescriptorTag, 3)
	if !ok {
		return LookupTable{}, false
	}

	lut := LookupTable{
		NumEntries:       int16Value(descriptor[0], false),
		FirstValueMapped: int16Value(descriptor[1], signed),
		NumBitsPerEntry:  int(descriptor[2]),
		Signed:           signed,
	}
	if lut.NumEntries == 0 {
		lut.NumEntries = maxLUTEntries
	}

	n := lut.NumEntries
	if count := item.ValueCount(dicom.LUTDataTag); count < n {
		n = count
	}
	lut.Data = make([]int, 0, n)
	for i := 0; i < n; i++ {
		v, ok := item.Number(dicom.LUTDataTag, i)
		if !ok {
			break
		}
		lut.Data = append(lut.Data, int16Value(v, signed))
	}
	return lut, true
}

// PaletteColorLUT is one channel of a palette color lookup table
type PaletteColorLUT struct {
	// Descriptor holds the number of entries, the first value mapped and the number of bits per
	// entry. An entry count of 0 is stored as 65536 and the number of bits is corrected from the
	// length of the data.
	Descriptor []int `yaml:"descriptor,flow" json:"descriptor"`
	Data       []int `yaml:"data,flow" json:"data"`
}

// resolvePaletteLUT reads a palette color LUT channel. bits is the number of bits per entry of
// the channel data.
func resolvePaletteLUT(acc ValueAccessor, descriptorTag, dataTag dicom.DataElementTag, bits int) *PaletteColorLUT {
	descriptor, ok := acc.Numbers(descriptorTag, 3)
	if !ok {
		return nil
	}

	count := int16Value(descriptor[0], false)
	if count == 0 {
		count = maxLUTEntries
	}
	lut := &PaletteColorLUT{
		Descriptor: []int{count, int16Value(descriptor[1], false), bits},
	}

	if bits == 8 {
		if b, ok := acc.Bytes(dataTag); ok {
			n := count
			if len(b) < n {
				n = len(b)
			}
			lut.Data = make([]int, n)
			for i := range lut.Data {
				lut.Data[i] = int(b[i])
			}
			return lut
		}
	}

	n := count
	if c := acc.ValueCount(dataTag); c < n {
		n = c
	}
	lut.Data = make([]int, 0, n)
	for i := 0; i < n; i++ {
		v, ok := acc.Number(dataTag, i)
		if !ok {
			break
		}
		lut.Data = append(lut.Data, int16Value(v, false))
	}
	return lut
}

// paletteBitsPerEntry returns 8 when the palette data holds one byte per entry, 16 otherwise
func paletteBitsPerEntry(acc ValueAccessor, descriptorTag, dataTag dicom.DataElementTag) int {
	count, ok := acc.Number(descriptorTag, 0)
	if !ok {
		return 16
	}
	entries := int16Value(count, false)
	if entries == 0 {
		entries = maxLUTEntries
	}

	length := 2 * acc.ValueCount(dataTag)
	if b, ok := acc.Bytes(dataTag); ok {
		length = len(b)
	}
	if length == entries {
		return 8
	}
	return 16
}
