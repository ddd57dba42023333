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
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/GoogleCloudPlatform/go-dicom-metadata/dicom"
	"golang.org/x/text/encoding"
)

// DataSetAccessor is a ValueAccessor over a DataSet parsed from a DICOM Part 10 byte array. Bulk
// data kept as []dicom.BulkDataReference is resolved against the byte array it was parsed from.
type DataSetAccessor struct {
	ds     *dicom.DataSet
	source []byte
	coding encoding.Encoding
	order  binary.ByteOrder
}

// AccessorOption represents an option that can be passed to NewDataSetAccessor and ParsePart10
type AccessorOption struct {
	defaultCoding encoding.Encoding
}

// WithDefaultCharacterSet returns an AccessorOption that decodes text with coding when the data
// set declares no Specific Character Set, in place of dicom.DefaultCharacterRepertoire.
func WithDefaultCharacterSet(coding encoding.Encoding) AccessorOption {
	return AccessorOption{defaultCoding: coding}
}

// NewDataSetAccessor returns a ValueAccessor over ds. source is the byte array ds was parsed
// from; it may be nil when ds holds no bulk data references. Text values are decoded from the
// Specific Character Set of ds, or the default character set when it is missing or unknown.
// The options are applied in the order given.
func NewDataSetAccessor(ds *dicom.DataSet, source []byte, opts ...AccessorOption) *DataSetAccessor {
	coding := dicom.DefaultCharacterRepertoire
	for _, opt := range opts {
		if opt.defaultCoding != nil {
			coding = opt.defaultCoding
		}
	}

	order := binary.ByteOrder(binary.LittleEndian)
	if elem, ok := ds.Elements[dicom.TransferSyntaxUIDTag]; ok {
		if uid, err := elem.StringValue(); err == nil && strings.TrimRight(uid, "\x00 ") == dicom.ExplicitVRBigEndianUID {
			order = binary.BigEndian
		}
	}
	return newDataSetAccessor(ds, source, coding, order)
}

func newDataSetAccessor(ds *dicom.DataSet, source []byte, inherited encoding.Encoding, order binary.ByteOrder) *DataSetAccessor {
	coding, err := ds.CharacterSet(inherited)
	if err != nil {
		coding = inherited
	}
	return &DataSetAccessor{ds: ds, source: source, coding: coding, order: order}
}

// ParsePart10 parses a DICOM Part 10 byte array into a ValueAccessor. Pixel data is dropped and
// the remaining bulk data, overlay planes and lookup table data included, is referenced rather
// than copied.
func ParsePart10(b []byte, opts ...AccessorOption) (*DataSetAccessor, error) {
	ds, err := dicom.ParseBytes(b, dicom.DropPixelData, dicom.ReferenceBulkData(dicom.IsBulkDataOrLUT))
	if err != nil {
		return nil, fmt.Errorf("parsing part 10 data: %w", err)
	}
	return NewDataSetAccessor(ds, b, opts...), nil
}

// DataSet returns the underlying DataSet
func (a *DataSetAccessor) DataSet() *dicom.DataSet {
	return a.ds
}

func (a *DataSetAccessor) element(tag dicom.DataElementTag) (*dicom.DataElement, bool) {
	elem, ok := a.ds.Elements[tag]
	if !ok || elem == nil {
		return nil, false
	}
	return elem, true
}

// String returns the first value of a textual element decoded to UTF-8. Person names are reduced
// to their alphabetic component group.
func (a *DataSetAccessor) String(tag dicom.DataElementTag) (string, bool) {
	elem, ok := a.element(tag)
	if !ok {
		return "", false
	}
	strs, ok := elem.ValueField.([]string)
	if !ok || len(strs) == 0 {
		return "", false
	}

	s := dicom.DecodeString(a.coding, strs[0])
	if elem.VR == dicom.PNVR {
		s, _, _ = strings.Cut(s, "=")
	}
	return s, true
}

// Number returns the value at index of a numeric element. Word streams (OW) are read as unsigned
// 16 bit values in the byte order of the data set.
func (a *DataSetAccessor) Number(tag dicom.DataElementTag, index int) (float64, bool) {
	elem, ok := a.element(tag)
	if !ok || index < 0 {
		return 0, false
	}

	switch v := elem.ValueField.(type) {
	case []string:
		if index < len(v) {
			f, err := strconv.ParseFloat(strings.TrimSpace(v[index]), 64)
			return f, err == nil
		}
	case []uint16:
		if index < len(v) {
			return float64(v[index]), true
		}
	case []int16:
		if index < len(v) {
			return float64(v[index]), true
		}
	case []uint32:
		if index < len(v) {
			return float64(v[index]), true
		}
	case []int32:
		if index < len(v) {
			return float64(v[index]), true
		}
	case []float32:
		if index < len(v) {
			return float64(v[index]), true
		}
	case []float64:
		if index < len(v) {
			return v[index], true
		}
	case [][]byte, []dicom.BulkDataReference:
		if elem.VR != dicom.OWVR {
			return 0, false
		}
		b, ok := elem.Bytes(a.source)
		if !ok || 2*index+2 > len(b) {
			return 0, false
		}
		return float64(a.order.Uint16(b[2*index:])), true
	}
	return 0, false
}

// Numbers returns the first count values of a numeric element
func (a *DataSetAccessor) Numbers(tag dicom.DataElementTag, count int) ([]float64, bool) {
	return numbers(a, tag, count)
}

// ValueCount returns the number of values of an element. Word streams count 16 bit words.
func (a *DataSetAccessor) ValueCount(tag dicom.DataElementTag) int {
	elem, ok := a.element(tag)
	if !ok {
		return 0
	}

	switch v := elem.ValueField.(type) {
	case []string:
		return len(v)
	case []uint16:
		return len(v)
	case []int16:
		return len(v)
	case []uint32:
		return len(v)
	case []int32:
		return len(v)
	case []float32:
		return len(v)
	case []float64:
		return len(v)
	case *dicom.Sequence:
		return len(v.Items)
	case [][]byte, []dicom.BulkDataReference:
		if elem.VR != dicom.OWVR {
			return 0
		}
		b, _ := elem.Bytes(a.source)
		return len(b) / 2
	}
	return 0
}

// AttributeTag returns the first value of an attribute tag (AT) element
func (a *DataSetAccessor) AttributeTag(tag dicom.DataElementTag) (dicom.DataElementTag, bool) {
	elem, ok := a.element(tag)
	if !ok || elem.VR != dicom.ATVR {
		return 0, false
	}
	v, ok := elem.ValueField.([]uint32)
	if !ok || len(v) == 0 {
		return 0, false
	}
	return dicom.DataElementTag(v[0]), true
}

// Bytes returns the value of a binary element, resolving bulk data references
func (a *DataSetAccessor) Bytes(tag dicom.DataElementTag) ([]byte, bool) {
	elem, ok := a.element(tag)
	if !ok {
		return nil, false
	}
	return elem.Bytes(a.source)
}

// Items returns the items of a sequence element. Items inherit the character set and byte order
// of the data set.
func (a *DataSetAccessor) Items(tag dicom.DataElementTag) ([]ValueAccessor, bool) {
	elem, ok := a.element(tag)
	if !ok {
		return nil, false
	}
	seq, ok := elem.ValueField.(*dicom.Sequence)
	if !ok {
		return nil, false
	}

	items := make([]ValueAccessor, 0, len(seq.Items))
	for _, item := range seq.Items {
		items = append(items, newDataSetAccessor(item, a.source, a.coding, a.order))
	}
	return items, true
}
