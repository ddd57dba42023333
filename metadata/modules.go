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
	"strings"

	"github.com/GoogleCloudPlatform/go-dicom-metadata/dicom"
)

// SOP classes whose modality LUT output is always signed
const (
	ctImageStorageUID         = "1.2.840.10008.5.1.4.1.1.2"
	enhancedCTImageStorageUID = "1.2.840.10008.5.1.4.1.1.2.1"
)

// GeneralSeriesModule holds the attributes of the General Series module
type GeneralSeriesModule struct {
	Modality          *string `yaml:"modality" json:"modality"`
	SeriesInstanceUID *string `yaml:"seriesInstanceUID" json:"seriesInstanceUID"`
	SeriesNumber      *int    `yaml:"seriesNumber" json:"seriesNumber"`
	StudyInstanceUID  *string `yaml:"studyInstanceUID" json:"studyInstanceUID"`
	SeriesDate        *Date   `yaml:"seriesDate" json:"seriesDate"`
	SeriesTime        *Time   `yaml:"seriesTime" json:"seriesTime"`
}

// ResolveGeneralSeries resolves the General Series module. Series date and time are nil when
// missing or invalid.
func ResolveGeneralSeries(acc ValueAccessor) *GeneralSeriesModule {
	m := &GeneralSeriesModule{
		Modality:          stringValue(acc, dicom.ModalityTag),
		SeriesInstanceUID: stringValue(acc, dicom.SeriesInstanceUIDTag),
		SeriesNumber:      intValue(acc, dicom.SeriesNumberTag),
		StudyInstanceUID:  stringValue(acc, dicom.StudyInstanceUIDTag),
	}
	if s, ok := acc.String(dicom.SeriesDateTag); ok {
		m.SeriesDate = ParseDA(s)
	}
	if s, ok := acc.String(dicom.SeriesTimeTag); ok {
		m.SeriesTime = ParseTM(s)
	}
	return m
}

// PatientStudyModule holds the attributes of the Patient Study module
type PatientStudyModule struct {
	// PatientAge is the leading number of the age string, e.g. 45 for "045Y"
	PatientAge    *int     `yaml:"patientAge" json:"patientAge"`
	PatientSize   *float64 `yaml:"patientSize" json:"patientSize"`
	PatientWeight *float64 `yaml:"patientWeight" json:"patientWeight"`
}

// ResolvePatientStudy resolves the Patient Study module
func ResolvePatientStudy(acc ValueAccessor) *PatientStudyModule {
	return &PatientStudyModule{
		PatientAge:    intValue(acc, dicom.PatientAgeTag),
		PatientSize:   floatValue(acc, dicom.PatientSizeTag),
		PatientWeight: floatValue(acc, dicom.PatientWeightTag),
	}
}

// ImagePlaneModule holds the attributes of the Image Plane module
type ImagePlaneModule struct {
	FrameOfReferenceUID     *string   `yaml:"frameOfReferenceUID" json:"frameOfReferenceUID"`
	Rows                    *int      `yaml:"rows" json:"rows"`
	Columns                 *int      `yaml:"columns" json:"columns"`
	ImageOrientationPatient []float64 `yaml:"imageOrientationPatient,flow" json:"imageOrientationPatient"`
	RowCosines              []float64 `yaml:"rowCosines,flow" json:"rowCosines"`
	ColumnCosines           []float64 `yaml:"columnCosines,flow" json:"columnCosines"`
	ImagePositionPatient    []float64 `yaml:"imagePositionPatient,flow" json:"imagePositionPatient"`
	SliceThickness          *float64  `yaml:"sliceThickness" json:"sliceThickness"`
	SliceLocation           *float64  `yaml:"sliceLocation" json:"sliceLocation"`
	PixelSpacing            []float64 `yaml:"pixelSpacing,flow" json:"pixelSpacing"`
	RowPixelSpacing         *float64  `yaml:"rowPixelSpacing" json:"rowPixelSpacing"`
	ColumnPixelSpacing      *float64  `yaml:"columnPixelSpacing" json:"columnPixelSpacing"`
}

// ResolveImagePlane resolves the Image Plane module. Pixel spacing is stored as row spacing then
// column spacing, and the orientation as the row cosines then the column cosines.
func ResolveImagePlane(acc ValueAccessor) *ImagePlaneModule {
	m := &ImagePlaneModule{
		FrameOfReferenceUID:     stringValue(acc, dicom.FrameOfReferenceUIDTag),
		Rows:                    intValue(acc, dicom.RowsTag),
		Columns:                 intValue(acc, dicom.ColumnsTag),
		ImageOrientationPatient: floatsValue(acc, dicom.ImageOrientationPatientTag, 6),
		ImagePositionPatient:    floatsValue(acc, dicom.ImagePositionPatientTag, 3),
		SliceThickness:          floatValue(acc, dicom.SliceThicknessTag),
		SliceLocation:           floatValue(acc, dicom.SliceLocationTag),
		PixelSpacing:            floatsValue(acc, dicom.PixelSpacingTag, 2),
	}

	if m.PixelSpacing != nil {
		row, column := m.PixelSpacing[0], m.PixelSpacing[1]
		m.RowPixelSpacing = &row
		m.ColumnPixelSpacing = &column
	}
	if m.ImageOrientationPatient != nil {
		m.RowCosines = append([]float64(nil), m.ImageOrientationPatient[0:3]...)
		m.ColumnCosines = append([]float64(nil), m.ImageOrientationPatient[3:6]...)
	}
	return m
}

// ImagePixelModule holds the attributes of the Image Pixel module
type ImagePixelModule struct {
	SamplesPerPixel           *int      `yaml:"samplesPerPixel" json:"samplesPerPixel"`
	PhotometricInterpretation *string   `yaml:"photometricInterpretation" json:"photometricInterpretation"`
	Rows                      *int      `yaml:"rows" json:"rows"`
	Columns                   *int      `yaml:"columns" json:"columns"`
	BitsAllocated             *int      `yaml:"bitsAllocated" json:"bitsAllocated"`
	BitsStored                *int      `yaml:"bitsStored" json:"bitsStored"`
	HighBit                   *int      `yaml:"highBit" json:"highBit"`
	PixelRepresentation       *int      `yaml:"pixelRepresentation" json:"pixelRepresentation"`
	PlanarConfiguration       *int      `yaml:"planarConfiguration" json:"planarConfiguration"`
	PixelAspectRatio          []float64 `yaml:"pixelAspectRatio,flow" json:"pixelAspectRatio"`
	SmallestPixelValue        *int      `yaml:"smallestPixelValue" json:"smallestPixelValue"`
	LargestPixelValue         *int      `yaml:"largestPixelValue" json:"largestPixelValue"`

	// Palette color LUTs are only set for PALETTE COLOR images
	RedPaletteColorLookupTable   *PaletteColorLUT `yaml:"redPaletteColorLookupTable" json:"redPaletteColorLookupTable"`
	GreenPaletteColorLookupTable *PaletteColorLUT `yaml:"greenPaletteColorLookupTable" json:"greenPaletteColorLookupTable"`
	BluePaletteColorLookupTable  *PaletteColorLUT `yaml:"bluePaletteColorLookupTable" json:"bluePaletteColorLookupTable"`
}

// ResolveImagePixel resolves the Image Pixel module. The smallest and largest pixel values are
// read as signed when the pixel representation is 1.
func ResolveImagePixel(acc ValueAccessor) *ImagePixelModule {
	m := &ImagePixelModule{
		SamplesPerPixel:           intValue(acc, dicom.SamplesPerPixelTag),
		PhotometricInterpretation: stringValue(acc, dicom.PhotometricInterpretationTag),
		Rows:                      intValue(acc, dicom.RowsTag),
		Columns:                   intValue(acc, dicom.ColumnsTag),
		BitsAllocated:             intValue(acc, dicom.BitsAllocatedTag),
		BitsStored:                intValue(acc, dicom.BitsStoredTag),
		HighBit:                   intValue(acc, dicom.HighBitTag),
		PixelRepresentation:       intValue(acc, dicom.PixelRepresentationTag),
		PlanarConfiguration:       intValue(acc, dicom.PlanarConfigurationTag),
		PixelAspectRatio:          floatsValue(acc, dicom.PixelAspectRatioTag, 2),
	}

	signed := m.PixelRepresentation != nil && *m.PixelRepresentation != 0
	m.SmallestPixelValue = pixelValue(acc, dicom.SmallestImagePixelValueTag, signed)
	m.LargestPixelValue = pixelValue(acc, dicom.LargestImagePixelValueTag, signed)

	if m.PhotometricInterpretation != nil && strings.TrimSpace(*m.PhotometricInterpretation) == "PALETTE COLOR" {
		if _, ok := acc.Numbers(dicom.RedPaletteColorLookupTableDescriptorTag, 3); ok {
			bits := paletteBitsPerEntry(acc, dicom.RedPaletteColorLookupTableDescriptorTag,
				dicom.RedPaletteColorLookupTableDataTag)
			m.RedPaletteColorLookupTable = resolvePaletteLUT(acc, dicom.RedPaletteColorLookupTableDescriptorTag,
				dicom.RedPaletteColorLookupTableDataTag, bits)
			m.GreenPaletteColorLookupTable = resolvePaletteLUT(acc, dicom.GreenPaletteColorLookupTableDescriptorTag,
				dicom.GreenPaletteColorLookupTableDataTag, bits)
			m.BluePaletteColorLookupTable = resolvePaletteLUT(acc, dicom.BluePaletteColorLookupTableDescriptorTag,
				dicom.BluePaletteColorLookupTableDataTag, bits)
		}
	}
	return m
}

func pixelValue(acc ValueAccessor, tag dicom.DataElementTag, signed bool) *int {
	v, ok := acc.Number(tag, 0)
	if !ok {
		return nil
	}
	i := int16Value(v, signed)
	return &i
}

// ModalityLUTModule holds the attributes of the Modality LUT module
type ModalityLUTModule struct {
	RescaleIntercept    *float64      `yaml:"rescaleIntercept" json:"rescaleIntercept"`
	RescaleSlope        *float64      `yaml:"rescaleSlope" json:"rescaleSlope"`
	RescaleType         *string       `yaml:"rescaleType" json:"rescaleType"`
	ModalityLUTSequence []LookupTable `yaml:"modalityLUTSequence" json:"modalityLUTSequence"`
}

// ResolveModalityLUT resolves the Modality LUT module. LUT values are read as signed when the
// pixel representation is 1.
func ResolveModalityLUT(acc ValueAccessor) *ModalityLUTModule {
	rep := 0
	if v := intValue(acc, dicom.PixelRepresentationTag); v != nil {
		rep = *v
	}
	return &ModalityLUTModule{
		RescaleIntercept:    floatValue(acc, dicom.RescaleInterceptTag),
		RescaleSlope:        floatValue(acc, dicom.RescaleSlopeTag),
		RescaleType:         stringValue(acc, dicom.RescaleTypeTag),
		ModalityLUTSequence: ResolveLUTs(rep, acc, dicom.ModalityLUTSequenceTag),
	}
}

// VOILUTModule holds the attributes of the VOI LUT module
type VOILUTModule struct {
	WindowCenter   []float64     `yaml:"windowCenter,flow" json:"windowCenter"`
	WindowWidth    []float64     `yaml:"windowWidth,flow" json:"windowWidth"`
	VOILUTSequence []LookupTable `yaml:"voiLUTSequence" json:"voiLUTSequence"`
}

// ResolveVOILUT resolves the VOI LUT module. Every window center and width is kept. LUT values
// are read in the pixel representation of the modality LUT output.
func ResolveVOILUT(acc ValueAccessor) *VOILUTModule {
	return &VOILUTModule{
		WindowCenter:   floatsValue(acc, dicom.WindowCenterTag, 0),
		WindowWidth:    floatsValue(acc, dicom.WindowWidthTag, 0),
		VOILUTSequence: ResolveLUTs(ModalityLUTOutputPixelRepresentation(acc), acc, dicom.VOILUTSequenceTag),
	}
}

// ModalityLUTOutputPixelRepresentation returns 1 when the values produced by the modality LUT
// transformation of acc are signed, 0 otherwise.
func ModalityLUTOutputPixelRepresentation(acc ValueAccessor) int {
	if uid, ok := acc.String(dicom.SOPClassUIDTag); ok {
		switch strings.TrimRight(uid, "\x00 ") {
		case ctImageStorageUID, enhancedCTImageStorageUID:
			return 1
		}
	}

	rep := 0
	if v := intValue(acc, dicom.PixelRepresentationTag); v != nil {
		rep = *v
	}

	intercept, hasIntercept := acc.Number(dicom.RescaleInterceptTag, 0)
	slope, hasSlope := acc.Number(dicom.RescaleSlopeTag, 0)
	if hasIntercept && hasSlope {
		minStored := 0
		if rep != 0 {
			bitsStored := 16
			if v := intValue(acc, dicom.BitsStoredTag); v != nil && *v > 0 {
				bitsStored = *v
			}
			minStored = -(1 << (bitsStored - 1))
		}
		if float64(minStored)*slope+intercept < 0 {
			return 1
		}
		return 0
	}

	if items, ok := acc.Items(dicom.ModalityLUTSequenceTag); ok && len(items) > 0 {
		return 0
	}
	return rep
}

// SOPCommonModule holds the attributes of the SOP Common module
type SOPCommonModule struct {
	SOPClassUID    *string `yaml:"sopClassUID" json:"sopClassUID"`
	SOPInstanceUID *string `yaml:"sopInstanceUID" json:"sopInstanceUID"`
}

// ResolveSOPCommon resolves the SOP Common module
func ResolveSOPCommon(acc ValueAccessor) *SOPCommonModule {
	return &SOPCommonModule{
		SOPClassUID:    stringValue(acc, dicom.SOPClassUIDTag),
		SOPInstanceUID: stringValue(acc, dicom.SOPInstanceUIDTag),
	}
}

// RadiopharmaceuticalInfo holds the attributes of an item of the Radiopharmaceutical Information
// Sequence (0054,0016)
type RadiopharmaceuticalInfo struct {
	RadiopharmaceuticalStartTime *Time    `yaml:"radiopharmaceuticalStartTime" json:"radiopharmaceuticalStartTime"`
	RadionuclideTotalDose        *float64 `yaml:"radionuclideTotalDose" json:"radionuclideTotalDose"`
	RadionuclideHalfLife         *float64 `yaml:"radionuclideHalfLife" json:"radionuclideHalfLife"`
}

// PETIsotopeModule holds the attributes of the PET Isotope module
type PETIsotopeModule struct {
	RadiopharmaceuticalInfo RadiopharmaceuticalInfo `yaml:"radiopharmaceuticalInfo" json:"radiopharmaceuticalInfo"`
}

// ResolvePETIsotope resolves the PET Isotope module from the first item of the
// Radiopharmaceutical Information Sequence. nil is returned when the sequence is missing or has
// no items.
func ResolvePETIsotope(acc ValueAccessor) *PETIsotopeModule {
	items, ok := acc.Items(dicom.RadiopharmaceuticalInformationSequenceTag)
	if !ok || len(items) == 0 {
		return nil
	}

	item := items[0]
	info := RadiopharmaceuticalInfo{
		RadionuclideTotalDose: floatValue(item, dicom.RadionuclideTotalDoseTag),
		RadionuclideHalfLife:  floatValue(item, dicom.RadionuclideHalfLifeTag),
	}
	if s, ok := item.String(dicom.RadiopharmaceuticalStartTimeTag); ok {
		info.RadiopharmaceuticalStartTime = ParseTM(s)
	}
	return &PETIsotopeModule{RadiopharmaceuticalInfo: info}
}

// OverlayPlaneModule holds the overlay planes of an image
type OverlayPlaneModule struct {
	Overlays []OverlayPlane `yaml:"overlays" json:"overlays"`
}

// ResolveOverlayPlane resolves the Overlay Plane module
func ResolveOverlayPlane(acc ValueAccessor) *OverlayPlaneModule {
	return &OverlayPlaneModule{Overlays: DecodeOverlays(acc)}
}

// MultiframeModule holds the attributes of the Multi-frame module
type MultiframeModule struct {
	NumberOfFrames *int `yaml:"numberOfFrames" json:"numberOfFrames"`

	// FrameIncrementPointer is the tag of the attribute used as the frame increment
	FrameIncrementPointer *dicom.DataElementTag `yaml:"frameIncrementPointer" json:"frameIncrementPointer"`
}

// ResolveMultiframe resolves the Multi-frame module
func ResolveMultiframe(acc ValueAccessor) *MultiframeModule {
	m := &MultiframeModule{NumberOfFrames: intValue(acc, dicom.NumberOfFramesTag)}
	if tag, ok := acc.AttributeTag(dicom.FrameIncrementPointerTag); ok {
		m.FrameIncrementPointer = &tag
	}
	return m
}

// CineModule holds the attributes of the Cine module
type CineModule struct {
	PreferredPlaybackSequencing *int      `yaml:"preferredPlaybackSequencing" json:"preferredPlaybackSequencing"`
	FrameTime                   *float64  `yaml:"frameTime" json:"frameTime"`
	FrameTimeVector             []float64 `yaml:"frameTimeVector,flow" json:"frameTimeVector"`
	StartTrim                   *int      `yaml:"startTrim" json:"startTrim"`
	StopTrim                    *int      `yaml:"stopTrim" json:"stopTrim"`
	RecommendedDisplayFrameRate *int      `yaml:"recommendedDisplayFrameRate" json:"recommendedDisplayFrameRate"`
	CineRate                    *int      `yaml:"cineRate" json:"cineRate"`
	FrameDelay                  *float64  `yaml:"frameDelay" json:"frameDelay"`
	ImageTriggerDelay           *float64  `yaml:"imageTriggerDelay" json:"imageTriggerDelay"`
	EffectiveDuration           *float64  `yaml:"effectiveDuration" json:"effectiveDuration"`
	ActualFrameDuration         *int      `yaml:"actualFrameDuration" json:"actualFrameDuration"`
}

// ResolveCine resolves the Cine module. The frame time vector is read value by value after
// counting its values, and is nil when any of its values is not a number.
func ResolveCine(acc ValueAccessor) *CineModule {
	m := &CineModule{
		PreferredPlaybackSequencing: intValue(acc, dicom.PreferredPlaybackSequencingTag),
		FrameTime:                   floatValue(acc, dicom.FrameTimeTag),
		FrameTimeVector:             frameTimeVector(acc),
		StartTrim:                   intValue(acc, dicom.StartTrimTag),
		StopTrim:                    intValue(acc, dicom.StopTrimTag),
		RecommendedDisplayFrameRate: intValue(acc, dicom.RecommendedDisplayFrameRateTag),
		CineRate:                    intValue(acc, dicom.CineRateTag),
		FrameDelay:                  floatValue(acc, dicom.FrameDelayTag),
		ImageTriggerDelay:           floatValue(acc, dicom.ImageTriggerDelayTag),
		EffectiveDuration:           floatValue(acc, dicom.EffectiveDurationTag),
		ActualFrameDuration:         intValue(acc, dicom.ActualFrameDurationTag),
	}
	return m
}

func frameTimeVector(acc ValueAccessor) []float64 {
	n := acc.ValueCount(dicom.FrameTimeVectorTag)
	if n == 0 {
		return nil
	}
	vector := make([]float64, n)
	for i := range vector {
		v, ok := acc.Number(dicom.FrameTimeVectorTag, i)
		if !ok {
			return nil
		}
		vector[i] = v
	}
	return vector
}
