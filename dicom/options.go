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
)

// Transform is a function that transforms a DataElement. Returning a nil DataElement removes the
// element from the DataSet.
type Transform func(*DataElement) (*DataElement, error)

// ParseOption represents an option that can be passed to Parse
type ParseOption struct {
	transform Transform
}

// WithTransform returns a ParseOption that applies the given Transform to every DataElement
func WithTransform(t Transform) ParseOption {
	return ParseOption{t}
}

// ReferenceBulkData returns a ParseOption that replaces the value of bulk data elements with
// []BulkDataReference. The references locate each fragment in the input stream so that the value
// can be read back from the original byte array without being buffered twice.
func ReferenceBulkData(bulkDataDefinition func(*DataElement) bool) ParseOption {
	return WithTransform(func(element *DataElement) (*DataElement, error) {
		return referenceBulkData(element, bulkDataDefinition)
	})
}

// DropGroupLengths is a ParseOption that removes group length elements (gggg,0000)
var DropGroupLengths = WithTransform(func(element *DataElement) (*DataElement, error) {
	if element.Tag.ElementNumber() == 0 {
		return nil, nil
	}
	return element, nil
})

// DropPixelData is a ParseOption that removes the pixel data elements. Metadata consumers do not
// need the (potentially very large) pixel data.
var DropPixelData = WithTransform(func(element *DataElement) (*DataElement, error) {
	switch element.Tag {
	case PixelDataTag, FloatPixelDataTag, DoubleFloatPixelDataTag:
		if closer, ok := element.ValueField.(BulkDataIterator); ok {
			if err := closer.Close(); err != nil {
				return nil, fmt.Errorf("discarding pixel data: %v", err)
			}
		}
		return nil, nil
	}
	return element, nil
})

// DefaultBulkDataDefinition is true for the elements considered bulk data: pixel data, overlay
// data, curve data, waveform data, audio data, spectroscopy data and encapsulated documents.
func DefaultBulkDataDefinition(elem *DataElement) bool {
	// Tags in the DICOM data dictionary have wildcards (e.g. tags like (gggg,eexx), (ggxx,eeee))
	// The tag library stores the value of the tag with the x's set to '0' in hex.
	// For example the Overlay Data tag is defined as (60xx,3000). The variable
	// OverlayDataTag = 0x60003000. So we can check if a given tag is of the form (60xx,3000) from
	// the condition (tag & 0xFF00FFFF) == OverlayDataTag.
	for _, m := range []DataElementTag{repeatingGroupMask, 0xFFFFFFFF} {
		switch elem.Tag & m {
		case PixelDataProviderURLTag, AudioSampleDataTag, CurveDataTag, SpectroscopyDataTag,
			OverlayDataTag, EncapsulatedDocumentTag, FloatPixelDataTag, DoubleFloatPixelDataTag,
			PixelDataTag, WaveformDataTag:
			return true
		}
	}
	return false
}

// IsBulkDataOrLUT extends DefaultBulkDataDefinition with the lookup table data elements, which
// are word streams when encoded as OW.
func IsBulkDataOrLUT(elem *DataElement) bool {
	switch elem.Tag {
	case LUTDataTag, RedPaletteColorLookupTableDataTag, GreenPaletteColorLookupTableDataTag,
		BluePaletteColorLookupTableDataTag:
		return true
	}
	return DefaultBulkDataDefinition(elem)
}

func referenceBulkData(element *DataElement, isBulkData func(*DataElement) bool) (*DataElement, error) {
	if !isBulkData(element) {
		return element, nil
	}
	if bulkIter, ok := element.ValueField.(BulkDataIterator); ok {
		refs, err := CollectFragmentReferences(bulkIter)
		if err != nil {
			return nil, fmt.Errorf("collecting fragment references: %v", err)
		}
		element.ValueField = refs
	}
	return element, nil
}
