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

// Tags of the data dictionary used by this library. Repeating groups such as (60xx,eeee) are
// stored with the x's set to 0.
// http://dicom.nema.org/medical/dicom/current/output/html/part06.html
const (
	FileMetaInformationGroupLengthTag DataElementTag = 0x00020000
	FileMetaInformationVersionTag     DataElementTag = 0x00020001
	MediaStorageSOPClassUIDTag        DataElementTag = 0x00020002
	MediaStorageSOPInstanceUIDTag     DataElementTag = 0x00020003
	TransferSyntaxUIDTag              DataElementTag = 0x00020010
	ImplementationClassUIDTag         DataElementTag = 0x00020012
	ImplementationVersionNameTag      DataElementTag = 0x00020013

	SpecificCharacterSetTag        DataElementTag = 0x00080005
	SOPClassUIDTag                 DataElementTag = 0x00080016
	SOPInstanceUIDTag              DataElementTag = 0x00080018
	SeriesDateTag                  DataElementTag = 0x00080021
	SeriesTimeTag                  DataElementTag = 0x00080031
	ModalityTag                    DataElementTag = 0x00080060
	ReferencedStudySequenceTag     DataElementTag = 0x00081110
	ReferencedSOPInstanceUIDTag    DataElementTag = 0x00081155
	StartTrimTag                   DataElementTag = 0x00082142
	StopTrimTag                    DataElementTag = 0x00082143
	RecommendedDisplayFrameRateTag DataElementTag = 0x00082144

	PatientNameTag   DataElementTag = 0x00100010
	PatientAgeTag    DataElementTag = 0x00101010
	PatientSizeTag   DataElementTag = 0x00101020
	PatientWeightTag DataElementTag = 0x00101030

	CineRateTag                     DataElementTag = 0x00180040
	SliceThicknessTag               DataElementTag = 0x00180050
	EffectiveDurationTag            DataElementTag = 0x00180072
	FrameTimeTag                    DataElementTag = 0x00181063
	FrameTimeVectorTag              DataElementTag = 0x00181065
	FrameDelayTag                   DataElementTag = 0x00181066
	ImageTriggerDelayTag            DataElementTag = 0x00181067
	RadiopharmaceuticalStartTimeTag DataElementTag = 0x00181072
	RadionuclideTotalDoseTag        DataElementTag = 0x00181074
	RadionuclideHalfLifeTag         DataElementTag = 0x00181075
	ActualFrameDurationTag          DataElementTag = 0x00181242
	PreferredPlaybackSequencingTag  DataElementTag = 0x00181244
	TargetUIDTag                    DataElementTag = 0x00182042

	StudyInstanceUIDTag        DataElementTag = 0x0020000D
	SeriesInstanceUIDTag       DataElementTag = 0x0020000E
	SeriesNumberTag            DataElementTag = 0x00200011
	ImagePositionPatientTag    DataElementTag = 0x00200032
	ImageOrientationPatientTag DataElementTag = 0x00200037
	FrameOfReferenceUIDTag     DataElementTag = 0x00200052
	SliceLocationTag           DataElementTag = 0x00201041

	SamplesPerPixelTag           DataElementTag = 0x00280002
	PhotometricInterpretationTag DataElementTag = 0x00280004
	PlanarConfigurationTag       DataElementTag = 0x00280006
	NumberOfFramesTag            DataElementTag = 0x00280008
	FrameIncrementPointerTag     DataElementTag = 0x00280009
	RowsTag                      DataElementTag = 0x00280010
	ColumnsTag                   DataElementTag = 0x00280011
	PixelSpacingTag              DataElementTag = 0x00280030
	PixelAspectRatioTag          DataElementTag = 0x00280034
	BitsAllocatedTag             DataElementTag = 0x00280100
	BitsStoredTag                DataElementTag = 0x00280101
	HighBitTag                   DataElementTag = 0x00280102
	PixelRepresentationTag       DataElementTag = 0x00280103
	SmallestImagePixelValueTag   DataElementTag = 0x00280106
	LargestImagePixelValueTag    DataElementTag = 0x00280107
	WindowCenterTag              DataElementTag = 0x00281050
	WindowWidthTag               DataElementTag = 0x00281051
	RescaleInterceptTag          DataElementTag = 0x00281052
	RescaleSlopeTag              DataElementTag = 0x00281053
	RescaleTypeTag               DataElementTag = 0x00281054

	RedPaletteColorLookupTableDescriptorTag   DataElementTag = 0x00281101
	GreenPaletteColorLookupTableDescriptorTag DataElementTag = 0x00281102
	BluePaletteColorLookupTableDescriptorTag  DataElementTag = 0x00281103
	RedPaletteColorLookupTableDataTag         DataElementTag = 0x00281201
	GreenPaletteColorLookupTableDataTag       DataElementTag = 0x00281202
	BluePaletteColorLookupTableDataTag        DataElementTag = 0x00281203

	ModalityLUTSequenceTag DataElementTag = 0x00283000
	LUTDescriptorTag       DataElementTag = 0x00283002
	LUTExplanationTag      DataElementTag = 0x00283003
	ModalityLUTTypeTag     DataElementTag = 0x00283004
	LUTDataTag             DataElementTag = 0x00283006
	VOILUTSequenceTag      DataElementTag = 0x00283010

	PixelDataProviderURLTag DataElementTag = 0x00287FE0
	EncapsulatedDocumentTag DataElementTag = 0x00420011

	RadiopharmaceuticalInformationSequenceTag DataElementTag = 0x00540016

	CurveDataTag        DataElementTag = 0x50003000
	AudioSampleDataTag  DataElementTag = 0x5000200C
	WaveformDataTag     DataElementTag = 0x54001010
	SpectroscopyDataTag DataElementTag = 0x56000020

	OverlayRowsTag             DataElementTag = 0x60000010
	OverlayColumnsTag          DataElementTag = 0x60000011
	NumberOfFramesInOverlayTag DataElementTag = 0x60000015
	OverlayDescriptionTag      DataElementTag = 0x60000022
	OverlayTypeTag             DataElementTag = 0x60000040
	OverlayOriginTag           DataElementTag = 0x60000050
	ImageFrameOriginTag        DataElementTag = 0x60000051
	OverlayBitsAllocatedTag    DataElementTag = 0x60000100
	OverlayBitPositionTag      DataElementTag = 0x60000102
	ROIAreaTag                 DataElementTag = 0x60001301
	ROIMeanTag                 DataElementTag = 0x60001302
	ROIStandardDeviationTag    DataElementTag = 0x60001303
	OverlayLabelTag            DataElementTag = 0x60001500
	OverlayDataTag             DataElementTag = 0x60003000

	FloatPixelDataTag       DataElementTag = 0x7FE00008
	DoubleFloatPixelDataTag DataElementTag = 0x7FE00009
	PixelDataTag            DataElementTag = 0x7FE00010

	ItemTag                     DataElementTag = 0xFFFEE000
	ItemDelimitationItemTag     DataElementTag = 0xFFFEE00D
	SequenceDelimitationItemTag DataElementTag = 0xFFFEE0DD
)

// repeatingGroupMask selects the (ggxx,eeee) form of a tag in the 50xx and 60xx repeating groups.
const repeatingGroupMask = 0xFF00FFFF

// dictionary maps tags to their VR. Where the standard lists several VRs for a tag, the one
// that carries an unsigned or raw interpretation is listed; callers reinterpret values by
// context (e.g. Pixel Representation).
var dictionary = map[DataElementTag]*VR{
	FileMetaInformationGroupLengthTag: ULVR,
	FileMetaInformationVersionTag:     OBVR,
	MediaStorageSOPClassUIDTag:        UIVR,
	MediaStorageSOPInstanceUIDTag:     UIVR,
	TransferSyntaxUIDTag:              UIVR,
	ImplementationClassUIDTag:         UIVR,
	ImplementationVersionNameTag:      SHVR,

	SpecificCharacterSetTag:        CSVR,
	SOPClassUIDTag:                 UIVR,
	SOPInstanceUIDTag:              UIVR,
	SeriesDateTag:                  DAVR,
	SeriesTimeTag:                  TMVR,
	ModalityTag:                    CSVR,
	ReferencedStudySequenceTag:     SQVR,
	ReferencedSOPInstanceUIDTag:    UIVR,
	StartTrimTag:                   ISVR,
	StopTrimTag:                    ISVR,
	RecommendedDisplayFrameRateTag: ISVR,

	PatientNameTag:   PNVR,
	PatientAgeTag:    ASVR,
	PatientSizeTag:   DSVR,
	PatientWeightTag: DSVR,

	CineRateTag:                     ISVR,
	SliceThicknessTag:               DSVR,
	EffectiveDurationTag:            DSVR,
	FrameTimeTag:                    DSVR,
	FrameTimeVectorTag:              DSVR,
	FrameDelayTag:                   DSVR,
	ImageTriggerDelayTag:            DSVR,
	RadiopharmaceuticalStartTimeTag: TMVR,
	RadionuclideTotalDoseTag:        DSVR,
	RadionuclideHalfLifeTag:         DSVR,
	ActualFrameDurationTag:          ISVR,
	PreferredPlaybackSequencingTag:  USVR,
	TargetUIDTag:                    UIVR,

	StudyInstanceUIDTag:        UIVR,
	SeriesInstanceUIDTag:       UIVR,
	SeriesNumberTag:            ISVR,
	ImagePositionPatientTag:    DSVR,
	ImageOrientationPatientTag: DSVR,
	FrameOfReferenceUIDTag:     UIVR,
	SliceLocationTag:           DSVR,

	SamplesPerPixelTag:           USVR,
	PhotometricInterpretationTag: CSVR,
	PlanarConfigurationTag:       USVR,
	NumberOfFramesTag:            ISVR,
	FrameIncrementPointerTag:     ATVR,
	RowsTag:                      USVR,
	ColumnsTag:                   USVR,
	PixelSpacingTag:              DSVR,
	PixelAspectRatioTag:          ISVR,
	BitsAllocatedTag:             USVR,
	BitsStoredTag:                USVR,
	HighBitTag:                   USVR,
	PixelRepresentationTag:       USVR,
	SmallestImagePixelValueTag:   USVR,
	LargestImagePixelValueTag:    USVR,
	WindowCenterTag:              DSVR,
	WindowWidthTag:               DSVR,
	RescaleInterceptTag:          DSVR,
	RescaleSlopeTag:              DSVR,
	RescaleTypeTag:               LOVR,

	RedPaletteColorLookupTableDescriptorTag:   USVR,
	GreenPaletteColorLookupTableDescriptorTag: USVR,
	BluePaletteColorLookupTableDescriptorTag:  USVR,
	RedPaletteColorLookupTableDataTag:         OWVR,
	GreenPaletteColorLookupTableDataTag:       OWVR,
	BluePaletteColorLookupTableDataTag:        OWVR,

	ModalityLUTSequenceTag: SQVR,
	LUTDescriptorTag:       USVR,
	LUTExplanationTag:      LOVR,
	ModalityLUTTypeTag:     LOVR,
	LUTDataTag:             OWVR,
	VOILUTSequenceTag:      SQVR,

	PixelDataProviderURLTag: URVR,
	EncapsulatedDocumentTag: OBVR,

	RadiopharmaceuticalInformationSequenceTag: SQVR,

	CurveDataTag:        OWVR,
	AudioSampleDataTag:  OWVR,
	WaveformDataTag:     OWVR,
	SpectroscopyDataTag: OFVR,

	OverlayRowsTag:             USVR,
	OverlayColumnsTag:          USVR,
	NumberOfFramesInOverlayTag: ISVR,
	OverlayDescriptionTag:      LOVR,
	OverlayTypeTag:             CSVR,
	OverlayOriginTag:           SSVR,
	ImageFrameOriginTag:        USVR,
	OverlayBitsAllocatedTag:    USVR,
	OverlayBitPositionTag:      USVR,
	ROIAreaTag:                 ISVR,
	ROIMeanTag:                 DSVR,
	ROIStandardDeviationTag:    DSVR,
	OverlayLabelTag:            LOVR,
	OverlayDataTag:             OWVR,

	FloatPixelDataTag:       OFVR,
	DoubleFloatPixelDataTag: ODVR,
	PixelDataTag:            OWVR,
}

// DictionaryVR returns the VR of the tag as defined in the data dictionary. Tags in the 50xx and
// 60xx repeating groups are matched against their (ggxx,eeee) form. Group length elements are
// UL, private creator elements are LO and anything else unknown is UN.
func (t DataElementTag) DictionaryVR() *VR {
	if vr, ok := dictionary[t]; ok {
		return vr
	}
	switch t.GroupNumber() & 0xFF00 {
	case 0x5000, 0x6000:
		if t.GroupNumber()%2 == 0 {
			if vr, ok := dictionary[t&repeatingGroupMask]; ok {
				return vr
			}
		}
	}
	if t.ElementNumber() == 0 {
		return ULVR
	}
	if t.IsPrivate() && t.ElementNumber() >= 0x0010 && t.ElementNumber() <= 0x00FF {
		return LOVR
	}
	return UNVR
}

// OverlayGroupTag returns the tag for the element of the given overlay group. group is the
// offset of the repeating group (0x00, 0x02, ... 0x1E) and tag is the (60xx,eeee) form of the
// element, e.g. OverlayGroupTag(0x02, OverlayDataTag) is (6002,3000).
func OverlayGroupTag(group uint16, tag DataElementTag) DataElementTag {
	return DataElementTag(uint32(tag&repeatingGroupMask) | uint32(group)<<16)
}
