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

package dicom

import (
	"bytes"
	"reflect"
	"testing"
)

type arithmeticSeq struct {
	start uint32
	end   uint32
	inc   uint32
}

func elementWithTag(tag uint32) *DataElement {
	return &DataElement{Tag: DataElementTag(tag)}
}

func TestDefaultBulkDataDefinition(t *testing.T) {
	tests := []struct {
		name string
		in   arithmeticSeq
		want bool
	}{
		{
			"Curve Data (50xx,3000) is bulk data",
			arithmeticSeq{0x50003000, 0x501E3000, 0x00020000},
			true,
		},
		{
			"Overlay Data (60xx,3000) is bulk data",
			arithmeticSeq{0x60003000, 0x601E3000, 0x00020000},
			true,
		},
		{
			"Pixel data is bulk data (7FE0,0010) is bulk data",
			arithmeticSeq{uint32(PixelDataTag), uint32(PixelDataTag), 1},
			true,
		},
		{
			"Source Image IDs (0x0020,31xx) is not bulk data",
			arithmeticSeq{0x00203100, 0x002031FF, 1},
			false,
		},
		{
			"Overlay Rows (60xx,0010) is not bulk data",
			arithmeticSeq{0x60000010, 0x601E0010, 0x00020000},
			false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for tag := tc.in.start; tag <= tc.in.end; tag += tc.in.inc {
				got := DefaultBulkDataDefinition(elementWithTag(tag))
				if got != tc.want {
					t.Fatalf("DefaultBulkDataDefinition(0x%08X) => %v, want %v", tag, got, tc.want)
				}
			}
		})
	}
}

func TestIsBulkDataOrLUT(t *testing.T) {
	tests := []struct {
		tag  DataElementTag
		want bool
	}{
		{LUTDataTag, true},
		{RedPaletteColorLookupTableDataTag, true},
		{BluePaletteColorLookupTableDataTag, true},
		{OverlayDataTag, true},
		{LUTDescriptorTag, false},
		{RowsTag, false},
	}

	for _, tc := range tests {
		if got := IsBulkDataOrLUT(elementWithTag(uint32(tc.tag))); got != tc.want {
			t.Fatalf("IsBulkDataOrLUT(%v) => %v, want %v", tc.tag, got, tc.want)
		}
	}
}

func TestReferenceBulkData_SkipsOtherElements(t *testing.T) {
	elem := &DataElement{RowsTag, USVR, []uint16{1}, 2}
	got, err := ReferenceBulkData(DefaultBulkDataDefinition).transform(elem)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, elem) {
		t.Fatalf("got %v, want %v", got, elem)
	}
}

func TestDropGroupLengths(t *testing.T) {
	tests := []struct {
		tag     DataElementTag
		dropped bool
	}{
		{FileMetaInformationGroupLengthTag, true},
		{0x00080000, true},
		{ModalityTag, false},
	}

	for _, tc := range tests {
		got, err := DropGroupLengths.transform(elementWithTag(uint32(tc.tag)))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if (got == nil) != tc.dropped {
			t.Fatalf("DropGroupLengths(%v) => %v, want dropped: %v", tc.tag, got, tc.dropped)
		}
	}
}

func TestDropPixelData(t *testing.T) {
	iter := NewBulkDataIterator(bytes.NewReader(sampleBytes), 0)
	got, err := DropPixelData.transform(&DataElement{PixelDataTag, OWVR, iter, 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected pixel data to be dropped, got %v", got)
	}

	kept := &DataElement{OverlayDataTag, OWVR, [][]byte{{1, 0}}, 2}
	if got, _ := DropPixelData.transform(kept); got != kept {
		t.Fatalf("expected overlay data to be kept, got %v", got)
	}
}
