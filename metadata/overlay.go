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
	"github.com/GoogleCloudPlatform/go-dicom-metadata/dicom"
)

// Overlay planes live in the repeating groups 6000 to 601E. The group offset is always even.
const (
	firstOverlayGroup = 0x00
	lastOverlayGroup  = 0x1E
)

// OverlayPlane is one overlay plane unpacked from a 60xx repeating group
type OverlayPlane struct {
	// Group is the offset of the repeating group, e.g. 0x02 for group 6002
	Group   uint16  `yaml:"group" json:"group"`
	Rows    *int    `yaml:"rows" json:"rows"`
	Columns *int    `yaml:"columns" json:"columns"`
	Type    *string `yaml:"type" json:"type"`

	// X and Y are the 0 based column and row of the overlay origin
	X *int `yaml:"x" json:"x"`
	Y *int `yaml:"y" json:"y"`

	// PixelData holds one value per bit of Overlay Data (60xx,3000) in raster order
	PixelData []bool `yaml:"pixelData,flow" json:"pixelData"`

	Description          *string  `yaml:"description" json:"description"`
	Label                *string  `yaml:"label" json:"label"`
	ROIArea              *float64 `yaml:"roiArea" json:"roiArea"`
	ROIMean              *float64 `yaml:"roiMean" json:"roiMean"`
	ROIStandardDeviation *float64 `yaml:"roiStandardDeviation" json:"roiStandardDeviation"`
}

// DecodeOverlays returns the overlay planes of acc in ascending group order. Groups without an
// Overlay Data element, or whose data is not available inline, are skipped.
func DecodeOverlays(acc ValueAccessor) []OverlayPlane {
	overlays := []OverlayPlane{}
	for group := uint16(firstOverlayGroup); group <= lastOverlayGroup; group += 2 {
		tag := func(t dicom.DataElementTag) dicom.DataElementTag {
			return dicom.OverlayGroupTag(group, t)
		}

		data, ok := acc.Bytes(tag(dicom.OverlayDataTag))
		if !ok {
			continue
		}

		overlay := OverlayPlane{
			Group:                group,
			Rows:                 intValue(acc, tag(dicom.OverlayRowsTag)),
			Columns:              intValue(acc, tag(dicom.OverlayColumnsTag)),
			Type:                 stringValue(acc, tag(dicom.OverlayTypeTag)),
			PixelData:            UnpackBits(data),
			Description:          stringValue(acc, tag(dicom.OverlayDescriptionTag)),
			Label:                stringValue(acc, tag(dicom.OverlayLabelTag)),
			ROIArea:              floatValue(acc, tag(dicom.ROIAreaTag)),
			ROIMean:              floatValue(acc, tag(dicom.ROIMeanTag)),
			ROIStandardDeviation: floatValue(acc, tag(dicom.ROIStandardDeviationTag)),
		}

		// the origin is 1 based and stored as row, column
		if origin, ok := acc.Numbers(tag(dicom.OverlayOriginTag), 2); ok {
			x := int(origin[1]) - 1
			y := int(origin[0]) - 1
			overlay.X = &x
			overlay.Y = &y
		}

		overlays = append(overlays, overlay)
	}
	return overlays
}

// UnpackBits expands packed bits into one bool per bit. The least significant bit of each byte
// comes first.
func UnpackBits(b []byte) []bool {
	bits := make([]bool, len(b)*8)
	for i, v := range b {
		for k := 0; k < 8; k++ {
			bits[i*8+k] = (v>>k)&1 == 1
		}
	}
	return bits
}
