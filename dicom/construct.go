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
	"errors"
	"fmt"
	"io"
)

// Construct writes the DataSet as a DICOM file. The DataSet must contain the Transfer Syntax UID
// (0002,0010) which selects the syntax of the non meta elements. The File Meta Information Group
// Length is always re-calculated. Sequences are written with undefined lengths.
func Construct(w io.Writer, dataSet *DataSet) error {
	dw := newDcmWriter(w)

	syntax, err := findSyntaxFromDataSet(dataSet)
	if err != nil {
		return fmt.Errorf("getting transfer syntax from data set: %v", err)
	}
	if syntax.isDeflated() {
		return errors.New("writing in the deflated syntax is not supported")
	}

	if err := writeDicomSignature(dw); err != nil {
		return err
	}

	// The FileMetaInformationGroupLength element stores how long the meta header is, thus it needs
	// to be re-calculated from the other meta elements.
	meta := dataSet.MetaElements()
	metaGroupLengthElement, err := createMetaGroupLengthElement(meta)
	if err != nil {
		return fmt.Errorf("creating meta group length element: %v", err)
	}
	meta.Elements[FileMetaInformationGroupLengthTag] = metaGroupLengthElement

	// File meta elements are always in explicit VR little endian as specified in the standard
	// http://dicom.nema.org/medical/dicom/current/output/html/part10.html#sect_7.1
	if err := writeDataSet(dw, explicitVRLittleEndian, meta); err != nil {
		return fmt.Errorf("writing meta header: %v", err)
	}

	for _, element := range dataSet.SortedElements() {
		if element.Tag.IsMetaElement() {
			continue
		}
		if err := writeDataElement(dw, syntax, element); err != nil {
			return fmt.Errorf("writing data element: %v", err)
		}
	}

	return nil
}

func createMetaGroupLengthElement(meta *DataSet) (*DataElement, error) {
	// Please refer to the DICOM Standard Part 10 for information on the File Meta Information Group
	// Length. http://dicom.nema.org/medical/dicom/current/output/html/part10.html#sect_7.1

	size := uint32(0)
	for _, element := range meta.SortedElements() {
		if element.Tag == FileMetaInformationGroupLengthTag {
			// The Group Length stores the size of the meta elements following this tag.
			continue
		}
		processed, err := processedElement(element)
		if err != nil {
			return nil, fmt.Errorf("processing element: %v", err)
		}
		if processed.ValueLength == UndefinedLength {
			return nil, fmt.Errorf("meta element %v cannot have an undefined length", element.Tag)
		}
		size += explicitVRLittleEndian.elementSize(processed.VR, processed.ValueLength)
	}

	return &DataElement{
		Tag:         FileMetaInformationGroupLengthTag,
		VR:          FileMetaInformationGroupLengthTag.DictionaryVR(),
		ValueField:  []uint32{size},
		ValueLength: 4, // 4bytes = sizeof uint32
	}, nil
}

func findSyntaxFromDataSet(dataSet *DataSet) (transferSyntax, error) {
	syntaxElement, ok := dataSet.Elements[TransferSyntaxUIDTag]
	if !ok {
		return nil, fmt.Errorf("transfer syntax element is missing from data set")
	}

	return findSyntaxFromElement(syntaxElement)
}

func writeDicomSignature(dw *dcmWriter) error {
	if err := dw.Bytes(make([]byte, 128)); err != nil {
		return fmt.Errorf("writing DICOM preamble: %v", err)
	}

	if err := dw.String("DICM"); err != nil {
		return fmt.Errorf("writing DICOM signature: %v", err)
	}

	return nil
}
