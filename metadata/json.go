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
	"errors"
	"fmt"
	"io"

	"github.com/GoogleCloudPlatform/go-dicom-metadata/dicom"
	"github.com/GoogleCloudPlatform/go-dicom-metadata/dicomjson"
)

// ObjectAccessor is a ValueAccessor over a DICOM JSON object
type ObjectAccessor struct {
	obj dicomjson.Object
}

// NewObjectAccessor returns a ValueAccessor over obj
func NewObjectAccessor(obj dicomjson.Object) *ObjectAccessor {
	return &ObjectAccessor{obj: obj}
}

// ParseJSON decodes a DICOM JSON payload into a ValueAccessor. When the payload is an array of
// objects, the first object is used.
func ParseJSON(r io.Reader) (*ObjectAccessor, error) {
	objs, err := dicomjson.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding dicom json: %w", err)
	}
	if len(objs) == 0 {
		return nil, errors.New("decoding dicom json: no objects in payload")
	}
	return NewObjectAccessor(objs[0]), nil
}

func (a *ObjectAccessor) attribute(tag dicom.DataElementTag) (*dicomjson.Attribute, bool) {
	attr, ok := a.obj[tag]
	if !ok || attr == nil {
		return nil, false
	}
	return attr, true
}

// String returns the first value of an attribute as text
func (a *ObjectAccessor) String(tag dicom.DataElementTag) (string, bool) {
	attr, ok := a.attribute(tag)
	if !ok {
		return "", false
	}
	return attr.String(0)
}

// Number returns the value at index of a numeric attribute. Inline binary word streams (OW) are
// read as little endian unsigned 16 bit values.
func (a *ObjectAccessor) Number(tag dicom.DataElementTag, index int) (float64, bool) {
	attr, ok := a.attribute(tag)
	if !ok || index < 0 {
		return 0, false
	}
	if attr.Binary != nil {
		if attr.VR != dicom.OWVR || 2*index+2 > len(attr.Binary) {
			return 0, false
		}
		return float64(binary.LittleEndian.Uint16(attr.Binary[2*index:])), true
	}
	return attr.Number(index)
}

// Numbers returns the first count values of a numeric attribute
func (a *ObjectAccessor) Numbers(tag dicom.DataElementTag, count int) ([]float64, bool) {
	return numbers(a, tag, count)
}

// ValueCount returns the number of values of an attribute
func (a *ObjectAccessor) ValueCount(tag dicom.DataElementTag) int {
	attr, ok := a.attribute(tag)
	if !ok {
		return 0
	}
	if attr.Binary != nil {
		if attr.VR != dicom.OWVR {
			return 0
		}
		return len(attr.Binary) / 2
	}
	return attr.Len()
}

// AttributeTag returns the first value of an attribute tag (AT) attribute
func (a *ObjectAccessor) AttributeTag(tag dicom.DataElementTag) (dicom.DataElementTag, bool) {
	attr, ok := a.attribute(tag)
	if !ok || attr.VR != dicom.ATVR {
		return 0, false
	}
	return attr.Tag(0)
}

// Bytes returns the inline binary value of an attribute. Values referenced by a BulkDataURI are
// not fetched and reported missing.
func (a *ObjectAccessor) Bytes(tag dicom.DataElementTag) ([]byte, bool) {
	attr, ok := a.attribute(tag)
	if !ok || attr.Binary == nil {
		return nil, false
	}
	return attr.Binary, true
}

// Items returns the items of a sequence attribute
func (a *ObjectAccessor) Items(tag dicom.DataElementTag) ([]ValueAccessor, bool) {
	attr, ok := a.attribute(tag)
	if !ok || attr.VR != dicom.SQVR {
		return nil, false
	}

	items := make([]ValueAccessor, 0, len(attr.Items))
	for _, item := range attr.Items {
		items = append(items, NewObjectAccessor(item))
	}
	return items, true
}
