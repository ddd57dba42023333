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
	"strconv"
	"strings"

	"github.com/GoogleCloudPlatform/go-dicom-metadata/dicom"
)

// ValueAccessor is a read only view of a tag indexed element store. Every method reports
// whether the requested value is present; a missing value is never an error.
type ValueAccessor interface {
	// String returns the first value of a textual element
	String(tag dicom.DataElementTag) (string, bool)

	// Number returns the value at index of a numeric element. Integer and decimal strings are
	// parsed.
	Number(tag dicom.DataElementTag, index int) (float64, bool)

	// Numbers returns the first count values of a numeric element, or false when the element has
	// fewer than count values. A count <= 0 returns all values of an element with at least one.
	Numbers(tag dicom.DataElementTag, count int) ([]float64, bool)

	// ValueCount returns the number of values of an element, 0 when it is missing
	ValueCount(tag dicom.DataElementTag) int

	// AttributeTag returns the first value of an attribute tag (AT) element
	AttributeTag(tag dicom.DataElementTag) (dicom.DataElementTag, bool)

	// Bytes returns the raw value of a binary (OB, OW) element
	Bytes(tag dicom.DataElementTag) ([]byte, bool)

	// Items returns the items of a sequence element. A present sequence with no items returns an
	// empty slice and true.
	Items(tag dicom.DataElementTag) ([]ValueAccessor, bool)
}

// numbers implements ValueAccessor.Numbers on top of ValueCount and Number
func numbers(acc ValueAccessor, tag dicom.DataElementTag, count int) ([]float64, bool) {
	n := acc.ValueCount(tag)
	if count <= 0 {
		count = n
	}
	if count == 0 || n < count {
		return nil, false
	}

	values := make([]float64, count)
	for i := range values {
		v, ok := acc.Number(tag, i)
		if !ok {
			return nil, false
		}
		values[i] = v
	}
	return values, true
}

func stringValue(acc ValueAccessor, tag dicom.DataElementTag) *string {
	if s, ok := acc.String(tag); ok {
		return &s
	}
	return nil
}

func floatValue(acc ValueAccessor, tag dicom.DataElementTag) *float64 {
	return floatValueAt(acc, tag, 0)
}

func floatValueAt(acc ValueAccessor, tag dicom.DataElementTag, index int) *float64 {
	if v, ok := acc.Number(tag, index); ok {
		return &v
	}
	return nil
}

// intValue returns the first value of an integer element. Strings that start with an integer,
// such as an age string (e.g. "045Y"), yield that integer.
func intValue(acc ValueAccessor, tag dicom.DataElementTag) *int {
	if v, ok := acc.Number(tag, 0); ok {
		i := int(v)
		return &i
	}
	if s, ok := acc.String(tag); ok {
		if i, ok := leadingInt(s); ok {
			return &i
		}
	}
	return nil
}

func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	i, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return i, true
}

func floatsValue(acc ValueAccessor, tag dicom.DataElementTag, count int) []float64 {
	if v, ok := acc.Numbers(tag, count); ok {
		return v
	}
	return nil
}

// int16Value reinterprets a 16 bit value as signed or unsigned. Elements whose VR depends on the
// pixel representation ("US or SS") are decoded by the dictionary as unsigned.
func int16Value(v float64, signed bool) int {
	i := int(v)
	if signed && i >= 1<<15 && i < 1<<16 {
		return i - 1<<16
	}
	if !signed && i < 0 && i >= -(1<<15) {
		return i + 1<<16
	}
	return i
}
