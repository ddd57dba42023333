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

// Package dicomjson decodes the DICOM JSON Model as returned by DICOMweb metadata requests.
// http://dicom.nema.org/medical/dicom/current/output/html/part18.html#chapter_F
package dicomjson

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/GoogleCloudPlatform/go-dicom-metadata/dicom"
)

// Object is a DICOM JSON object: the attributes of one data set indexed by tag
type Object map[dicom.DataElementTag]*Attribute

// Attribute is a single attribute of a DICOM JSON object
type Attribute struct {
	VR *dicom.VR

	// Values holds the undecoded entries of the "Value" array. Entries may be strings, numbers,
	// person name objects or null.
	Values []json.RawMessage

	// Items holds the decoded items of a sequence (VR SQ)
	Items []Object

	// Binary holds the decoded "InlineBinary" value
	Binary []byte

	// BulkDataURI locates a value that was not included in the object. It is never fetched.
	BulkDataURI string
}

// PersonName is the object form of a PN value
type PersonName struct {
	Alphabetic  string `json:"Alphabetic,omitempty"`
	Ideographic string `json:"Ideographic,omitempty"`
	Phonetic    string `json:"Phonetic,omitempty"`
}

type attributeJSON struct {
	VR           string            `json:"vr"`
	Value        []json.RawMessage `json:"Value"`
	InlineBinary *string           `json:"InlineBinary"`
	BulkDataURI  string            `json:"BulkDataURI"`
}

// Decode reads a DICOM JSON payload from r. The payload is either a single object or an array of
// objects, as returned by the DICOMweb metadata resources.
func Decode(r io.Reader) ([]Object, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading json: %v", err)
	}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, errors.New("empty json payload")
	}

	if b[0] == '[' {
		var objs []Object
		if err := json.Unmarshal(b, &objs); err != nil {
			return nil, fmt.Errorf("decoding array of objects: %v", err)
		}
		return objs, nil
	}

	var obj Object
	if err := json.Unmarshal(b, &obj); err != nil {
		return nil, fmt.Errorf("decoding object: %v", err)
	}
	return []Object{obj}, nil
}

// UnmarshalJSON decodes an object keyed by 8 hex digit tags
func (o *Object) UnmarshalJSON(b []byte) error {
	var raw map[string]*Attribute
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	obj := make(Object, len(raw))
	for key, attr := range raw {
		tag, err := dicom.ParseTag(key)
		if err != nil {
			return fmt.Errorf("parsing attribute key: %v", err)
		}
		if attr == nil {
			return fmt.Errorf("attribute %v is null", tag)
		}
		obj[tag] = attr
	}
	*o = obj
	return nil
}

// UnmarshalJSON decodes the vr, Value, InlineBinary and BulkDataURI members of an attribute
func (a *Attribute) UnmarshalJSON(b []byte) error {
	var raw attributeJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	vr, err := dicom.LookupVR(raw.VR)
	if err != nil {
		return fmt.Errorf("looking up vr: %v", err)
	}
	attr := Attribute{VR: vr, BulkDataURI: raw.BulkDataURI}

	if vr == dicom.SQVR {
		attr.Items = make([]Object, 0, len(raw.Value))
		for i, v := range raw.Value {
			var item Object
			if err := json.Unmarshal(v, &item); err != nil {
				return fmt.Errorf("decoding item %v: %v", i, err)
			}
			attr.Items = append(attr.Items, item)
		}
	} else {
		attr.Values = raw.Value
	}

	if raw.InlineBinary != nil {
		attr.Binary, err = base64.StdEncoding.DecodeString(*raw.InlineBinary)
		if err != nil {
			return fmt.Errorf("decoding inline binary: %v", err)
		}
	}

	*a = attr
	return nil
}

// Len returns the number of entries in the Value array, or the number of items of a sequence
func (a *Attribute) Len() int {
	if a.VR == dicom.SQVR {
		return len(a.Items)
	}
	return len(a.Values)
}

// String returns the value at index i as text. Numbers are returned as they appear in the
// payload and person names are reduced to their alphabetic component group.
func (a *Attribute) String(i int) (string, bool) {
	raw, ok := a.value(i)
	if !ok {
		return "", false
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return s, true
	case '{':
		var pn PersonName
		if err := json.Unmarshal(raw, &pn); err != nil {
			return "", false
		}
		return pn.Alphabetic, true
	case '[':
		return "", false
	}
	return string(raw), true
}

// Number returns the value at index i as a number. Integer and decimal strings (IS, DS) are
// accepted in either their JSON number or string form.
func (a *Attribute) Number(i int) (float64, bool) {
	raw, ok := a.value(i)
	if !ok {
		return 0, false
	}

	text := string(raw)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		text = strings.TrimSpace(s)
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Tag returns the value at index i of an attribute tag (AT) attribute
func (a *Attribute) Tag(i int) (dicom.DataElementTag, bool) {
	s, ok := a.String(i)
	if !ok {
		return 0, false
	}
	tag, err := dicom.ParseTag(s)
	if err != nil {
		return 0, false
	}
	return tag, true
}

// value returns the raw entry at index i, or false when it is missing or null
func (a *Attribute) value(i int) (json.RawMessage, bool) {
	if i < 0 || i >= len(a.Values) {
		return nil, false
	}
	raw := bytes.TrimSpace(a.Values[i])
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, false
	}
	return raw, true
}
