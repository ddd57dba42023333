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
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
)

// dcmWriter writes the binary encoding of tags, lengths and values to w. Fixed size numbers are
// encoded into scratch before being written.
type dcmWriter struct {
	w       io.Writer
	scratch [4]byte
}

func newDcmWriter(w io.Writer) *dcmWriter {
	return &dcmWriter{w: w}
}

func (dw *dcmWriter) Tag(order binary.ByteOrder, tag DataElementTag) error {
	order.PutUint16(dw.scratch[:2], tag.GroupNumber())
	order.PutUint16(dw.scratch[2:], tag.ElementNumber())
	return dw.Bytes(dw.scratch[:])
}

// Delimiter writes an item or sequence delimitation item, which always has a 0 length
func (dw *dcmWriter) Delimiter(order binary.ByteOrder, tag DataElementTag) error {
	if err := dw.Tag(order, tag); err != nil {
		return fmt.Errorf("writing delimiter %v: %v", tag, err)
	}
	if err := dw.UInt32(order, 0); err != nil {
		return fmt.Errorf("writing length of delimiter %v: %v", tag, err)
	}
	return nil
}

func (dw *dcmWriter) UInt16(order binary.ByteOrder, v uint16) error {
	order.PutUint16(dw.scratch[:2], v)
	return dw.Bytes(dw.scratch[:2])
}

func (dw *dcmWriter) UInt32(order binary.ByteOrder, v uint32) error {
	order.PutUint32(dw.scratch[:], v)
	return dw.Bytes(dw.scratch[:])
}

func (dw *dcmWriter) String(s string) error {
	_, err := io.WriteString(dw.w, s)
	return err
}

func (dw *dcmWriter) Bytes(b []byte) error {
	_, err := dw.w.Write(b)
	return err
}

func writeDataElement(dw *dcmWriter, syntax transferSyntax, element *DataElement) error {
	element, err := processedElement(element)
	if err != nil {
		return fmt.Errorf("processing element %v: %v", element, err)
	}

	if err := dw.Tag(syntax.byteOrder(), element.Tag); err != nil {
		return fmt.Errorf("writing tag: %v", err)
	}
	if err := syntax.writeVR(dw, element.VR); err != nil {
		return fmt.Errorf("writing VR: %v", err)
	}
	if err := syntax.writeValueLength(dw, element.VR, element.ValueLength); err != nil {
		return fmt.Errorf("writing length: %v", err)
	}
	if err := writeValue(dw, syntax, element); err != nil {
		return fmt.Errorf("writing value of %v: %v", element.Tag, err)
	}

	return nil
}

// processedElement returns a copy of element with the VR filled in from the data dictionary when
// missing and the value length re-calculated from the ValueField.
func processedElement(element *DataElement) (*DataElement, error) {
	vr := element.VR
	if vr == nil {
		vr = element.Tag.DictionaryVR()
	}

	length, err := calculateValueLength(element)
	if err != nil {
		return element, fmt.Errorf("calculating value length: %v", err)
	}

	return &DataElement{element.Tag, vr, element.ValueField, length}, nil
}

func calculateValueLength(element *DataElement) (uint32, error) {
	if element.ValueLength == UndefinedLength {
		return UndefinedLength, nil
	}

	numBytes := int64(0)

	switch v := element.ValueField.(type) {
	case []string:
		for _, s := range v {
			numBytes += int64(len(s))
		}
		if len(v) > 0 { // requires "\" delimiter
			numBytes += int64(len(v)) - 1
		}
	case [][]byte:
		for _, fragment := range v {
			numBytes += int64(len(fragment))
		}
	case []int16:
		numBytes = int64(len(v)) * 2
	case []uint16:
		numBytes = int64(len(v)) * 2
	case []int32:
		numBytes = int64(len(v)) * 4
	case []uint32:
		numBytes = int64(len(v)) * 4
	case []float32:
		numBytes = int64(len(v)) * 4
	case []float64:
		numBytes = int64(len(v)) * 8
	case *Sequence:
		// TODO support explicit length sequence construction
		return UndefinedLength, nil
	case []BulkDataReference:
		return 0, errors.New("bulk data references cannot be written without their source")
	default:
		return 0, fmt.Errorf("unexpected ValueField type %T", element.ValueField)
	}

	if numBytes >= math.MaxUint32 {
		return 0, fmt.Errorf("value of %v bytes is too large", numBytes)
	}

	if numBytes%2 != 0 {
		numBytes++
	}

	return uint32(numBytes), nil
}

func writeValue(dw *dcmWriter, syntax transferSyntax, element *DataElement) error {
	spacePadding := byte(0x20)
	nullPadding := byte(0x00)

	switch element.VR.kind {
	case textVR:
		return writeText(dw, spacePadding, element.ValueField)
	case numberBinaryVR:
		return writeNumberBinary(dw, syntax.byteOrder(), element.ValueField)
	case bulkDataVR:
		return writeBulkData(dw, syntax.byteOrder(), element.ValueLength, element.ValueField)
	case uniqueIdentifierVR:
		return writeText(dw, nullPadding, element.ValueField)
	case sequenceVR:
		return writeSequence(dw, syntax, element.ValueField)
	case tagVR:
		return writeTag(dw, syntax.byteOrder(), element.ValueField)
	default:
		return fmt.Errorf("unknown vr kind found: %v", element.VR.kind)
	}
}

func writeText(dw *dcmWriter, paddingByte byte, v interface{}) error {
	strs, ok := v.([]string)
	if !ok {
		return fmt.Errorf("expected type []string got %T", v)
	}

	b := strings.Join(strs, "\\")
	if len(b)%2 != 0 {
		b += string(paddingByte)
	}

	return dw.String(b)
}

func writeNumberBinary(dw *dcmWriter, order binary.ByteOrder, v interface{}) error {
	switch field := v.(type) {
	case []int16, []uint16, []int32, []uint32, []float32, []float64:
		return binary.Write(dw.w, order, field)
	default:
		return fmt.Errorf("unsupported binary number type: %T", field)
	}
}

func writeBulkData(dw *dcmWriter, order binary.ByteOrder, length uint32, v interface{}) error {
	switch field := v.(type) {
	case [][]byte:
		if length == UndefinedLength {
			// UndefinedLength is always the encapsulated format.
			return writeEncapsulatedFormat(dw, order, field)
		}
		if err := writeByteFragments(dw.w, field); err != nil {
			return err
		}
		if len(concatFragments(field))%2 != 0 {
			return dw.Bytes([]byte{0})
		}
		return nil
	case []int16, []uint16, []int32, []uint32, []float32, []float64:
		return binary.Write(dw.w, order, field)
	case []string:
		return writeText(dw, ' ', v)
	default:
		return fmt.Errorf("unknown bulk data type: %T", v)
	}
}

// writeSequence writes the sequence and its items with undefined lengths
func writeSequence(dw *dcmWriter, syntax transferSyntax, v interface{}) error {
	seq, ok := v.(*Sequence)
	if !ok {
		return fmt.Errorf("unknown sequence type found: %T (expected *Sequence)", v)
	}
	order := syntax.byteOrder()
	for _, item := range seq.Items {
		if err := dw.Tag(order, ItemTag); err != nil {
			return fmt.Errorf("writing item tag: %v", err)
		}
		if err := dw.UInt32(order, UndefinedLength); err != nil {
			return fmt.Errorf("writing item length: %v", err)
		}
		if err := writeDataSet(dw, syntax, item); err != nil {
			return fmt.Errorf("writing sequence item: %v", err)
		}
		if err := dw.Delimiter(order, ItemDelimitationItemTag); err != nil {
			return fmt.Errorf("writing item delimitation item: %v", err)
		}
	}
	if err := dw.Delimiter(order, SequenceDelimitationItemTag); err != nil {
		return fmt.Errorf("writing sequence delimitation item: %v", err)
	}
	return nil
}

func writeTag(dw *dcmWriter, order binary.ByteOrder, valueField interface{}) error {
	tags, ok := valueField.([]uint32)
	if !ok {
		return fmt.Errorf("unexpected type for tag VR: %T (expected []uint32)", valueField)
	}
	for _, tag := range tags {
		if err := dw.Tag(order, DataElementTag(tag)); err != nil {
			return err
		}
	}
	return nil
}

func writeDataSet(dw *dcmWriter, syntax transferSyntax, ds *DataSet) error {
	for _, element := range ds.SortedElements() {
		if err := writeDataElement(dw, syntax, element); err != nil {
			return fmt.Errorf("writing data element: %v", err)
		}
	}
	return nil
}
