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
	"reflect"
	"testing"

	"github.com/GoogleCloudPlatform/go-dicom-metadata/dicom"
)

func TestResolveGeneralSeries(t *testing.T) {
	acc := dataSetAccessor(map[dicom.DataElementTag]interface{}{
		dicom.ModalityTag:          []string{"CT"},
		dicom.SeriesInstanceUIDTag: []string{"1.2.3.4.5"},
		dicom.SeriesNumberTag:      []string{"3"},
		dicom.StudyInstanceUIDTag:  []string{"1.2.3.4"},
		dicom.SeriesDateTag:        []string{"20240102"},
		dicom.SeriesTimeTag:        []string{"0930"},
	})

	want := &GeneralSeriesModule{
		Modality:          stringPtr("CT"),
		SeriesInstanceUID: stringPtr("1.2.3.4.5"),
		SeriesNumber:      intPtr(3),
		StudyInstanceUID:  stringPtr("1.2.3.4"),
		SeriesDate:        &Date{Year: 2024, Month: 1, Day: 2},
		SeriesTime:        &Time{Hours: 9, Minutes: intPtr(30)},
	}
	if got := ResolveGeneralSeries(acc); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	// empty and invalid dates and times are tolerated
	acc = dataSetAccessor(map[dicom.DataElementTag]interface{}{
		dicom.SeriesDateTag: []string{""},
		dicom.SeriesTimeTag: []string{"invalid"},
	})
	if got := ResolveGeneralSeries(acc); got.SeriesDate != nil || got.SeriesTime != nil {
		t.Fatalf("got (%v, %v), want nil date and time", got.SeriesDate, got.SeriesTime)
	}
}

func TestResolvePatientStudy(t *testing.T) {
	acc := dataSetAccessor(map[dicom.DataElementTag]interface{}{
		dicom.PatientAgeTag:    []string{"045Y"},
		dicom.PatientSizeTag:   []string{"1.75"},
		dicom.PatientWeightTag: []string{"72.5"},
	})

	want := &PatientStudyModule{
		PatientAge:    intPtr(45),
		PatientSize:   floatPtr(1.75),
		PatientWeight: floatPtr(72.5),
	}
	if got := ResolvePatientStudy(acc); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestResolveImagePlane(t *testing.T) {
	acc := dataSetAccessor(map[dicom.DataElementTag]interface{}{
		dicom.FrameOfReferenceUIDTag:     []string{"1.2.3"},
		dicom.RowsTag:                    []uint16{512},
		dicom.ColumnsTag:                 []uint16{256},
		dicom.ImageOrientationPatientTag: []string{"1", "0", "0", "0", "1", "0"},
		dicom.ImagePositionPatientTag:    []string{"-125", "-120.5", "30"},
		dicom.SliceThicknessTag:          []string{"2.5"},
		dicom.SliceLocationTag:           []string{"30"},
		dicom.PixelSpacingTag:            []string{"1.5", "0.75"},
	})

	want := &ImagePlaneModule{
		FrameOfReferenceUID:     stringPtr("1.2.3"),
		Rows:                    intPtr(512),
		Columns:                 intPtr(256),
		ImageOrientationPatient: []float64{1, 0, 0, 0, 1, 0},
		RowCosines:              []float64{1, 0, 0},
		ColumnCosines:           []float64{0, 1, 0},
		ImagePositionPatient:    []float64{-125, -120.5, 30},
		SliceThickness:          floatPtr(2.5),
		SliceLocation:           floatPtr(30),
		PixelSpacing:            []float64{1.5, 0.75},
		RowPixelSpacing:         floatPtr(1.5),
		ColumnPixelSpacing:      floatPtr(0.75),
	}
	if got := ResolveImagePlane(acc); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestResolveImagePlane_PartialValues(t *testing.T) {
	acc := dataSetAccessor(map[dicom.DataElementTag]interface{}{
		dicom.ImageOrientationPatientTag: []string{"1", "0", "0"},
		dicom.PixelSpacingTag:            []string{"1.5"},
	})

	got := ResolveImagePlane(acc)
	if got.ImageOrientationPatient != nil || got.RowCosines != nil || got.ColumnCosines != nil {
		t.Fatalf("got orientation %v, want nil for too few values", got.ImageOrientationPatient)
	}
	if got.PixelSpacing != nil || got.RowPixelSpacing != nil || got.ColumnPixelSpacing != nil {
		t.Fatalf("got pixel spacing %v, want nil for too few values", got.PixelSpacing)
	}
}

func TestResolveImagePixel(t *testing.T) {
	acc := dataSetAccessor(map[dicom.DataElementTag]interface{}{
		dicom.SamplesPerPixelTag:           []uint16{1},
		dicom.PhotometricInterpretationTag: []string{"MONOCHROME2"},
		dicom.RowsTag:                      []uint16{2},
		dicom.ColumnsTag:                   []uint16{4},
		dicom.BitsAllocatedTag:             []uint16{16},
		dicom.BitsStoredTag:                []uint16{12},
		dicom.HighBitTag:                   []uint16{11},
		dicom.PixelRepresentationTag:       []uint16{1},
		dicom.PixelAspectRatioTag:          []string{"1", "2"},
		dicom.SmallestImagePixelValueTag:   []uint16{0xFC00},
		dicom.LargestImagePixelValueTag:    []uint16{0x03FF},
	})

	want := &ImagePixelModule{
		SamplesPerPixel:           intPtr(1),
		PhotometricInterpretation: stringPtr("MONOCHROME2"),
		Rows:                      intPtr(2),
		Columns:                   intPtr(4),
		BitsAllocated:             intPtr(16),
		BitsStored:                intPtr(12),
		HighBit:                   intPtr(11),
		PixelRepresentation:       intPtr(1),
		PixelAspectRatio:          []float64{1, 2},
		SmallestPixelValue:        intPtr(-1024),
		LargestPixelValue:         intPtr(1023),
	}
	if got := ResolveImagePixel(acc); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestResolveImagePixel_Palette(t *testing.T) {
	values := map[dicom.DataElementTag]interface{}{
		dicom.PhotometricInterpretationTag:              []string{"PALETTE COLOR"},
		dicom.RedPaletteColorLookupTableDescriptorTag:   []uint16{2, 0, 16},
		dicom.GreenPaletteColorLookupTableDescriptorTag: []uint16{2, 0, 16},
		dicom.BluePaletteColorLookupTableDescriptorTag:  []uint16{2, 0, 16},
		dicom.RedPaletteColorLookupTableDataTag:         [][]byte{{10, 20}},
		dicom.GreenPaletteColorLookupTableDataTag:       [][]byte{{30, 40}},
		dicom.BluePaletteColorLookupTableDataTag:        [][]byte{{50, 60}},
	}

	got := ResolveImagePixel(dataSetAccessor(values))
	wantRed := &PaletteColorLUT{Descriptor: []int{2, 0, 8}, Data: []int{10, 20}}
	wantGreen := &PaletteColorLUT{Descriptor: []int{2, 0, 8}, Data: []int{30, 40}}
	wantBlue := &PaletteColorLUT{Descriptor: []int{2, 0, 8}, Data: []int{50, 60}}
	if !reflect.DeepEqual(got.RedPaletteColorLookupTable, wantRed) {
		t.Fatalf("got red %+v, want %+v", got.RedPaletteColorLookupTable, wantRed)
	}
	if !reflect.DeepEqual(got.GreenPaletteColorLookupTable, wantGreen) {
		t.Fatalf("got green %+v, want %+v", got.GreenPaletteColorLookupTable, wantGreen)
	}
	if !reflect.DeepEqual(got.BluePaletteColorLookupTable, wantBlue) {
		t.Fatalf("got blue %+v, want %+v", got.BluePaletteColorLookupTable, wantBlue)
	}

	// palettes are ignored for other photometric interpretations
	values[dicom.PhotometricInterpretationTag] = []string{"RGB"}
	got = ResolveImagePixel(dataSetAccessor(values))
	if got.RedPaletteColorLookupTable != nil {
		t.Fatalf("got red %+v, want nil", got.RedPaletteColorLookupTable)
	}
}

func TestResolveModalityLUT(t *testing.T) {
	acc := dataSetAccessor(map[dicom.DataElementTag]interface{}{
		dicom.PixelRepresentationTag: []uint16{1},
		dicom.RescaleInterceptTag:    []string{"-1024"},
		dicom.RescaleSlopeTag:        []string{"1"},
		dicom.RescaleTypeTag:         []string{"HU"},
		dicom.ModalityLUTSequenceTag: newSequence(lutItem([]uint16{1, 0xFFFF, 16}, []byte{0xFE, 0xFF})),
	})

	want := &ModalityLUTModule{
		RescaleIntercept: floatPtr(-1024),
		RescaleSlope:     floatPtr(1),
		RescaleType:      stringPtr("HU"),
		ModalityLUTSequence: []LookupTable{
			{NumEntries: 1, FirstValueMapped: -1, NumBitsPerEntry: 16, Signed: true, Data: []int{-2}},
		},
	}
	if got := ResolveModalityLUT(acc); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestResolveVOILUT(t *testing.T) {
	acc := dataSetAccessor(map[dicom.DataElementTag]interface{}{
		dicom.WindowCenterTag:     []string{"40", "300"},
		dicom.WindowWidthTag:      []string{"400", "1500"},
		dicom.RescaleInterceptTag: []string{"-1024"},
		dicom.RescaleSlopeTag:     []string{"1"},
		dicom.VOILUTSequenceTag:   newSequence(lutItem([]uint16{1, 0, 16}, []byte{0xFF, 0xFF})),
	})

	want := &VOILUTModule{
		WindowCenter: []float64{40, 300},
		WindowWidth:  []float64{400, 1500},
		VOILUTSequence: []LookupTable{
			{NumEntries: 1, FirstValueMapped: 0, NumBitsPerEntry: 16, Signed: true, Data: []int{-1}},
		},
	}
	if got := ResolveVOILUT(acc); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestModalityLUTOutputPixelRepresentation(t *testing.T) {
	tests := []struct {
		name   string
		values map[dicom.DataElementTag]interface{}
		want   int
	}{
		{
			name:   "ct image",
			values: map[dicom.DataElementTag]interface{}{dicom.SOPClassUIDTag: []string{ctImageStorageUID}},
			want:   1,
		},
		{
			name:   "enhanced ct image",
			values: map[dicom.DataElementTag]interface{}{dicom.SOPClassUIDTag: []string{enhancedCTImageStorageUID}},
			want:   1,
		},
		{
			name: "negative intercept",
			values: map[dicom.DataElementTag]interface{}{
				dicom.RescaleInterceptTag: []string{"-1024"},
				dicom.RescaleSlopeTag:     []string{"1"},
			},
			want: 1,
		},
		{
			name: "signed stored values",
			values: map[dicom.DataElementTag]interface{}{
				dicom.PixelRepresentationTag: []uint16{1},
				dicom.BitsStoredTag:          []uint16{12},
				dicom.RescaleInterceptTag:    []string{"0"},
				dicom.RescaleSlopeTag:        []string{"1"},
			},
			want: 1,
		},
		{
			name: "signed stored values shifted positive",
			values: map[dicom.DataElementTag]interface{}{
				dicom.PixelRepresentationTag: []uint16{1},
				dicom.BitsStoredTag:          []uint16{12},
				dicom.RescaleInterceptTag:    []string{"2048"},
				dicom.RescaleSlopeTag:        []string{"1"},
			},
			want: 0,
		},
		{
			name: "modality lut sequence",
			values: map[dicom.DataElementTag]interface{}{
				dicom.PixelRepresentationTag: []uint16{1},
				dicom.ModalityLUTSequenceTag: newSequence(lutItem([]uint16{1, 0, 16}, []byte{0, 0})),
			},
			want: 0,
		},
		{
			name:   "pixel representation",
			values: map[dicom.DataElementTag]interface{}{dicom.PixelRepresentationTag: []uint16{1}},
			want:   1,
		},
		{
			name: "nothing",
			want: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ModalityLUTOutputPixelRepresentation(dataSetAccessor(tc.values)); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestResolveSOPCommon(t *testing.T) {
	acc := dataSetAccessor(map[dicom.DataElementTag]interface{}{
		dicom.SOPClassUIDTag:    []string{"1.2.840.10008.5.1.4.1.1.128"},
		dicom.SOPInstanceUIDTag: []string{"1.2.3.4.5.6"},
	})

	want := &SOPCommonModule{
		SOPClassUID:    stringPtr("1.2.840.10008.5.1.4.1.1.128"),
		SOPInstanceUID: stringPtr("1.2.3.4.5.6"),
	}
	if got := ResolveSOPCommon(acc); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestResolvePETIsotope(t *testing.T) {
	first := newItem(map[dicom.DataElementTag]interface{}{
		dicom.RadiopharmaceuticalStartTimeTag: []string{"083000"},
		dicom.RadionuclideTotalDoseTag:        []string{"370000000"},
		dicom.RadionuclideHalfLifeTag:         []string{"6586.2"},
	})
	second := newItem(map[dicom.DataElementTag]interface{}{
		dicom.RadionuclideTotalDoseTag: []string{"1"},
	})

	tests := []struct {
		name string
		seq  interface{}
		want *PETIsotopeModule
	}{
		{
			name: "first item",
			seq:  newSequence(first, second),
			want: &PETIsotopeModule{RadiopharmaceuticalInfo: RadiopharmaceuticalInfo{
				RadiopharmaceuticalStartTime: &Time{Hours: 8, Minutes: intPtr(30), Seconds: intPtr(0)},
				RadionuclideTotalDose:        floatPtr(370000000),
				RadionuclideHalfLife:         floatPtr(6586.2),
			}},
		},
		{
			name: "empty item",
			seq:  newSequence(newItem(nil)),
			want: &PETIsotopeModule{},
		},
		{
			name: "no items",
			seq:  newSequence(),
			want: nil,
		},
		{
			name: "missing sequence",
			want: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			values := map[dicom.DataElementTag]interface{}{}
			if tc.seq != nil {
				values[dicom.RadiopharmaceuticalInformationSequenceTag] = tc.seq
			}
			if got := ResolvePETIsotope(dataSetAccessor(values)); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestResolveMultiframe(t *testing.T) {
	acc := dataSetAccessor(map[dicom.DataElementTag]interface{}{
		dicom.NumberOfFramesTag:        []string{"24"},
		dicom.FrameIncrementPointerTag: []uint32{uint32(dicom.FrameTimeTag)},
	})

	want := &MultiframeModule{
		NumberOfFrames:        intPtr(24),
		FrameIncrementPointer: tagPtr(dicom.FrameTimeTag),
	}
	if got := ResolveMultiframe(acc); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestResolveCine(t *testing.T) {
	acc := dataSetAccessor(map[dicom.DataElementTag]interface{}{
		dicom.PreferredPlaybackSequencingTag: []uint16{1},
		dicom.FrameTimeTag:                   []string{"33.3"},
		dicom.FrameTimeVectorTag:             []string{"0", "33.3", "33.4"},
		dicom.StartTrimTag:                   []string{"1"},
		dicom.StopTrimTag:                    []string{"24"},
		dicom.RecommendedDisplayFrameRateTag: []string{"30"},
		dicom.CineRateTag:                    []string{"25"},
		dicom.FrameDelayTag:                  []string{"10.5"},
		dicom.ImageTriggerDelayTag:           []string{"2"},
		dicom.EffectiveDurationTag:           []string{"0.8"},
		dicom.ActualFrameDurationTag:         []string{"33"},
	})

	want := &CineModule{
		PreferredPlaybackSequencing: intPtr(1),
		FrameTime:                   floatPtr(33.3),
		FrameTimeVector:             []float64{0, 33.3, 33.4},
		StartTrim:                   intPtr(1),
		StopTrim:                    intPtr(24),
		RecommendedDisplayFrameRate: intPtr(30),
		CineRate:                    intPtr(25),
		FrameDelay:                  floatPtr(10.5),
		ImageTriggerDelay:           floatPtr(2),
		EffectiveDuration:           floatPtr(0.8),
		ActualFrameDuration:         intPtr(33),
	}
	if got := ResolveCine(acc); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestResolveCine_FrameTimeVector(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   []float64
	}{
		{"numbers", []string{"0", "33.3"}, []float64{0, 33.3}},
		{"not a number", []string{"0", "x", "33.3"}, nil},
		{"empty", []string{}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			acc := dataSetAccessor(map[dicom.DataElementTag]interface{}{dicom.FrameTimeVectorTag: tc.values})
			if got := ResolveCine(acc).FrameTimeVector; !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

// Every module but the PET Isotope module is returned, with all fields nil, when its attributes
// are missing.
func TestResolve_AllAbsent(t *testing.T) {
	acc := dataSetAccessor(nil)

	tests := []struct {
		name Name
		want Module
	}{
		{GeneralSeriesModuleName, &GeneralSeriesModule{}},
		{PatientStudyModuleName, &PatientStudyModule{}},
		{ImagePlaneModuleName, &ImagePlaneModule{}},
		{ImagePixelModuleName, &ImagePixelModule{}},
		{ModalityLUTModuleName, &ModalityLUTModule{ModalityLUTSequence: []LookupTable{}}},
		{VOILUTModuleName, &VOILUTModule{VOILUTSequence: []LookupTable{}}},
		{SOPCommonModuleName, &SOPCommonModule{}},
		{OverlayPlaneModuleName, &OverlayPlaneModule{Overlays: []OverlayPlane{}}},
		{MultiframeModuleName, &MultiframeModule{}},
		{CineModuleName, &CineModule{}},
	}

	for _, tc := range tests {
		t.Run(string(tc.name), func(t *testing.T) {
			got, ok := Resolve(tc.name, acc)
			if !ok {
				t.Fatalf("Resolve(%v, _) => absent, want a module", tc.name)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}

	if got, ok := Resolve(PETIsotopeModuleName, acc); ok || got != nil {
		t.Fatalf("Resolve(%v, _) => (%v, %v), want absent", PETIsotopeModuleName, got, ok)
	}
}
