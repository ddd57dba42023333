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

func TestSequenceIterator_Termination(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		length uint32
		syntax transferSyntax
		err    error
	}{
		{
			"ExplicitSequenceLength, ExplicitVRLittleEndian, EOF in input causes EOF",
			nil,
			0,
			explicitVRLittleEndian,
			io.EOF,
		},
		{
			"ExplicitSequenceLength, ExplicitVRBigEndian, EOF in input causes EOF",
			nil,
			0,
			explicitVRBigEndian,
			io.EOF,
		},
		{
			"UndefinedSequenceLength, ExplicitVRLittleEndian, SequenceDelimiter causes EOF",
			[]byte{0xFE, 0xFF, 0xDD, 0xE0, 0, 0, 0, 0},
			UndefinedLength,
			explicitVRLittleEndian,
			io.EOF,
		},
		{
			"UndefinedSequenceLength, ExplicitVRBigEndian, SequenceDelimiter causes EOF",
			[]byte{0xFF, 0xFE, 0xE0, 0xDD, 0, 0, 0, 0},
			UndefinedLength,
			explicitVRBigEndian,
			io.EOF,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			iter := newSequenceIterator(dcmReaderFromBytes(tc.data), tc.length, tc.syntax)
			if _, err := iter.Next(); err != tc.err {
				t.Fatalf("got error %v, want %v", err, tc.err)
			}
		})
	}
}

func TestSequenceIterator_UndefinedLengthStaysEmpty(t *testing.T) {
	data := []byte{0xFE, 0xFF, 0xDD, 0xE0, 0, 0, 0, 0, 0x28, 0x00}
	iter := newSequenceIterator(dcmReaderFromBytes(data), UndefinedLength, explicitVRLittleEndian)
	for i := 0; i < 2; i++ {
		if _, err := iter.Next(); err != io.EOF {
			t.Fatalf("call %v: got error %v, want %v", i, err, io.EOF)
		}
	}
}

func TestCollectSequence_ExplicitLength(t *testing.T) {
	element := []byte{0x08, 0x00, 0x55, 0x11, 'U', 'I', 0x06, 0x00, '1', '.', '2', '.', '3', 0x00}
	item := append([]byte{0xFE, 0xFF, 0x00, 0xE0, byte(len(element)), 0x00, 0x00, 0x00}, element...)
	data := append(append([]byte{}, item...), item...)

	iter := newSequenceIterator(dcmReaderFromBytes(data), uint32(len(data)), explicitVRLittleEndian)
	seq, err := CollectSequence(iter)
	if err != nil {
		t.Fatalf("CollectSequence(_) => %v", err)
	}
	if len(seq.Items) != 2 {
		t.Fatalf("got %v items, want 2", len(seq.Items))
	}
	for _, ds := range seq.Items {
		if ds.Length != uint32(len(element)) {
			t.Fatalf("got item length %v, want %v", ds.Length, len(element))
		}
		want := &DataElement{ReferencedSOPInstanceUIDTag, UIVR, []string{"1.2.3"}, 6}
		if got := ds.Elements[ReferencedSOPInstanceUIDTag]; !reflect.DeepEqual(got, want) {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestCollectSequence_InvalidItemTag(t *testing.T) {
	data := []byte{0x08, 0x00, 0x55, 0x11, 0, 0, 0, 0}
	iter := newSequenceIterator(dcmReaderFromBytes(data), UndefinedLength, explicitVRLittleEndian)
	if _, err := CollectSequence(iter); err == nil {
		t.Fatalf("expected error for an element tag in place of an item tag")
	}
}
