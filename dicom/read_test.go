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
	"io"
	"reflect"
	"testing"
)

func TestReadDataElement(t *testing.T) {
	// see http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.1.2 for byte
	// structure
	testCases := []struct {
		name     string
		bytes    []byte
		syntax   transferSyntax
		expected *DataElement
		err      error
	}{
		{
			"unsigned long ExplicitVRLittleEndian",
			[]byte{0x02, 0x00, 0x00, 0x00, 'U', 'L', 0x04, 0x00, 0xCA, 0x00, 0x00, 0x00},
			explicitVRLittleEndian,
			&DataElement{FileMetaInformationGroupLengthTag, ULVR, []uint32{202}, 4},
			nil,
		},
		{
			"unsigned short ImplicitVRLittleEndian",
			[]byte{0x28, 0x00, 0x10, 0x00, 0x02, 0x00, 0x00, 0x00, 0x00, 0x02},
			implicitVRLittleEndian,
			&DataElement{RowsTag, USVR, []uint16{512}, 2},
			nil,
		},
		{
			"decimal string ExplicitVRBigEndian",
			[]byte{0x00, 0x28, 0x00, 0x30, 'D', 'S', 0x00, 0x08, '1', '.', '5', '\\', '0', '.', '7', '5'},
			explicitVRBigEndian,
			&DataElement{PixelSpacingTag, DSVR, []string{"1.5", "0.75"}, 8},
			nil,
		},
		{
			"long text keeps backslashes",
			[]byte{0x20, 0x00, 0x00, 0x40, 'L', 'T', 0x04, 0x00, 'a', '\\', 'b', ' '},
			explicitVRLittleEndian,
			&DataElement{0x00204000, LTVR, []string{"a\\b"}, 4},
			nil,
		},
		{
			"unique identifier with null padding",
			[]byte{0x08, 0x00, 0x16, 0x00, 'U', 'I', 0x06, 0x00, '1', '.', '2', '.', '3', 0x00},
			explicitVRLittleEndian,
			&DataElement{SOPClassUIDTag, UIVR, []string{"1.2.3"}, 6},
			nil,
		},
		{
			"attribute tag ExplicitVRLittleEndian",
			[]byte{0x28, 0x00, 0x09, 0x00, 'A', 'T', 0x04, 0x00, 0x18, 0x00, 0x65, 0x10},
			explicitVRLittleEndian,
			&DataElement{FrameIncrementPointerTag, ATVR, []uint32{uint32(FrameTimeVectorTag)}, 4},
			nil,
		},
		{
			"Item Delimitation Item",
			[]byte{0xFE, 0xFF, 0x0D, 0xE0, 0x00, 0x00, 0x00, 0x00},
			explicitVRLittleEndian,
			nil,
			io.EOF,
		},
		{
			"end of input",
			[]byte{},
			explicitVRLittleEndian,
			nil,
			io.EOF,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			element, err := readDataElement(dcmReaderFromBytes(tc.bytes), tc.syntax)
			if err != tc.err {
				t.Fatalf("readDataElement(_, _) => (%v, %v), want (%v, %v)",
					element, err, tc.expected, tc.err)
			}

			if tc.expected != nil && !reflect.DeepEqual(*element, *tc.expected) {
				t.Fatalf("readDataElement(_, _) => (%v, %v) want (%v, %v)",
					*element, err, *tc.expected, tc.err)
			}
		})
	}
}

func TestReadValueLength(t *testing.T) {
	// testing format outlined in Table 7.1-1 and 7.1-2 is respected
	// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_6.2
	testCases := []struct {
		name     string
		bytes    []byte
		vr       *VR
		syntax   transferSyntax
		expected uint32
	}{
		{
			"Sequence explicitVRLittleEndian",
			[]byte{0x00, 0x00, 0x11, 0x22, 0x33, 0x44},
			SQVR,
			explicitVRLittleEndian,
			0x44332211,
		},
		{
			"Sequence explicitVRBigEndian",
			[]byte{0x00, 0x00, 0x11, 0x22, 0x33, 0x44},
			SQVR,
			explicitVRBigEndian,
			0x11223344,
		},
		{
			"unsigned short explicitVRLittleEndian",
			[]byte{0x11, 0x22},
			USVR,
			explicitVRLittleEndian,
			0x2211,
		},
		{
			"unsigned short explicitVRBigEndian",
			[]byte{0x11, 0x22},
			USVR,
			explicitVRBigEndian,
			0x1122,
		},
		{
			"unsigned short implicitVRLittleEndian",
			[]byte{0x11, 0x22, 0x33, 0x44},
			USVR,
			implicitVRLittleEndian,
			0x44332211,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			length, err := tc.syntax.readValueLength(dcmReaderFromBytes(tc.bytes), tc.vr)
			if err != nil {
				t.Fatalf("readValueLength(_, _) => %v", err)
			}
			if length != tc.expected {
				t.Fatalf("got %v, want %v", length, tc.expected)
			}
		})
	}
}

func TestReadTag(t *testing.T) {
	testCases := []struct {
		name   string
		in     []byte
		want   []uint32
		syntax transferSyntax
	}{
		{
			"read tag in big endian",
			[]byte{0x00, 0x02, 0x00, 0x10},
			[]uint32{0x00020010},
			explicitVRBigEndian,
		},
		{
			"read tag in little endian",
			[]byte{0x02, 0x00, 0x10, 0x00},
			[]uint32{0x00020010},
			explicitVRLittleEndian,
		},
		{
			"read multiple tags",
			[]byte{0x02, 0x00, 0x10, 0x00, 0x28, 0x00, 0x10, 0x00},
			[]uint32{0x00020010, 0x00280010},
			implicitVRLittleEndian,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := readTag(dcmReaderFromBytes(tc.in), tc.syntax, uint32(len(tc.in)))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestReadBulkData_UndefinedLengthNonPixelData(t *testing.T) {
	if _, err := readBulkData(dcmReaderFromBytes(nil), OverlayDataTag, UndefinedLength); err == nil {
		t.Fatalf("expected error for undefined length overlay data")
	}
}
