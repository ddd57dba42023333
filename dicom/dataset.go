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
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// DataElementTag is a unique identifier for a Data Element composed of an unordered pair
// of numbers called the group number and the element number as specified in
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_3.10.
//
// The least significant 16 bits is the element number. The most significant 16 bits is the group
// number.
type DataElementTag uint32

// GroupNumber returns the group number component of the DataElementTag
func (t DataElementTag) GroupNumber() uint16 {
	return uint16(t >> 16)
}

// ElementNumber returns the element number component of the DataElementTag
func (t DataElementTag) ElementNumber() uint16 {
	return uint16(t & 0xFFFF)
}

// IsMetaElement is true if and only if the Data Element is a file meta element
func (t DataElementTag) IsMetaElement() bool {
	return t.GroupNumber() == uint16(0x0002)
}

// IsPrivate is true if and only if the tag belongs to a private group (odd group number)
func (t DataElementTag) IsPrivate() bool {
	return t.GroupNumber()%2 == 1
}

// String renders the tag as (GGGG,EEEE)
func (t DataElementTag) String() string {
	return fmt.Sprintf("(%04X,%04X)", t.GroupNumber(), t.ElementNumber())
}

// Hex renders the tag as the 8 hex digit form used by the DICOM JSON model (e.g. 0020000D)
func (t DataElementTag) Hex() string {
	return fmt.Sprintf("%08X", uint32(t))
}

// MarshalText renders the tag in its 8 hex digit form
func (t DataElementTag) MarshalText() ([]byte, error) {
	return []byte(t.Hex()), nil
}

// UnmarshalText parses the 8 hex digit form of a tag
func (t *DataElementTag) UnmarshalText(text []byte) error {
	tag, err := ParseTag(string(text))
	if err != nil {
		return err
	}
	*t = tag
	return nil
}

// ParseTag parses the 8 hex digit form of a tag. An optional leading "x" is accepted.
func ParseTag(s string) (DataElementTag, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "x"), "X")
	if len(s) != 8 {
		return 0, fmt.Errorf("tag %q: expected 8 hex digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("tag %q: %v", s, err)
	}
	return DataElementTag(v), nil
}

// DataElement models a DICOM Data Element as defined in
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_3.10
type DataElement struct {
	Tag DataElementTag

	// Value Representation
	VR *VR

	// ValueField represents the field within a Data Element that contains its value(s)
	// Can be any of of the following types:
	// []string,
	// [][]byte
	// []int16,
	// []uint16,
	// []int32,
	// []uint32,
	// []float32,
	// []float64
	// []BulkDataReference
	// BulkDataIterator
	// SequenceIterator
	// *Sequence
	ValueField interface{}

	// ValueLength is equal to the length of the ValueField in bytes.
	// Can be equal to 0xFFFFFFFF to represent an undefined length:
	// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.1.1
	ValueLength uint32
}

func (e *DataElement) String() string {
	return e.string(0)
}

func (e *DataElement) string(indentLvl int) string {
	prefix := strings.Repeat(">", indentLvl)
	vrName := "??"
	if e.VR != nil {
		vrName = e.VR.Name
	}
	if seq, ok := e.ValueField.(*Sequence); ok {
		return fmt.Sprintf("%v%v %v #%v %v", prefix, e.Tag, vrName, e.ValueLength, seq.string(indentLvl))
	}
	return fmt.Sprintf("%v%v %v #%v %v", prefix, e.Tag, vrName, e.ValueLength, e.ValueField)
}

// StringValue returns the first value of a textual element
func (e *DataElement) StringValue() (string, error) {
	strs, ok := e.ValueField.([]string)
	if !ok {
		return "", fmt.Errorf("expected []string ValueField, got %T", e.ValueField)
	}
	if len(strs) == 0 {
		return "", fmt.Errorf("element %v has no values", e.Tag)
	}
	return strs[0], nil
}

// IntValue returns the first value of an integer string or binary integer element
func (e *DataElement) IntValue() (int64, error) {
	switch v := e.ValueField.(type) {
	case []string:
		if len(v) > 0 {
			return strconv.ParseInt(strings.TrimSpace(v[0]), 10, 64)
		}
	case []int16:
		if len(v) > 0 {
			return int64(v[0]), nil
		}
	case []uint16:
		if len(v) > 0 {
			return int64(v[0]), nil
		}
	case []int32:
		if len(v) > 0 {
			return int64(v[0]), nil
		}
	case []uint32:
		if len(v) > 0 {
			return int64(v[0]), nil
		}
	default:
		return 0, fmt.Errorf("unexpected ValueField type for integer: %T", e.ValueField)
	}
	return 0, fmt.Errorf("element %v has no values", e.Tag)
}

// DataSet models a DICOM Data Set as defined
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_3.10
type DataSet struct {
	// Elements is a map of DataElement tags to *DataElement
	Elements map[DataElementTag]*DataElement

	// Length is the item length of the data set when it is nested in a sequence. It is
	// UndefinedLength for top level data sets and items of undefined length.
	Length uint32
}

// NewDataSet builds a DataSet from a map of tags to value fields. The VR of each element is
// looked up in the data dictionary and lengths are calculated when the DataSet is written.
func NewDataSet(values map[DataElementTag]interface{}) *DataSet {
	ds := &DataSet{Elements: map[DataElementTag]*DataElement{}, Length: UndefinedLength}
	for tag, v := range values {
		ds.Elements[tag] = &DataElement{Tag: tag, VR: tag.DictionaryVR(), ValueField: v}
	}
	return ds
}

// SortedTags returns the tags of the DataSet in ascending order
func (ds *DataSet) SortedTags() []DataElementTag {
	tags := make([]DataElementTag, 0, len(ds.Elements))
	for tag := range ds.Elements {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// SortedElements returns the elements of the DataSet in ascending tag order
func (ds *DataSet) SortedElements() []*DataElement {
	elems := make([]*DataElement, 0, len(ds.Elements))
	for _, tag := range ds.SortedTags() {
		elems = append(elems, ds.Elements[tag])
	}
	return elems
}

// MetaElements returns a DataSet holding only the file meta elements (group 0002)
func (ds *DataSet) MetaElements() *DataSet {
	meta := &DataSet{Elements: map[DataElementTag]*DataElement{}, Length: UndefinedLength}
	for tag, elem := range ds.Elements {
		if tag.IsMetaElement() {
			meta.Elements[tag] = elem
		}
	}
	return meta
}

func (ds *DataSet) String() string {
	return ds.string(0)
}

func (ds *DataSet) string(indentLvl int) string {
	lines := make([]string, 0, len(ds.Elements))
	for _, elem := range ds.SortedElements() {
		lines = append(lines, elem.string(indentLvl))
	}
	return strings.Join(lines, "\n")
}
