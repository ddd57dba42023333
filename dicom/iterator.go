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
	"bytes"
	"errors"
	"fmt"
	"io"
)

// preambleLength is the length of the preamble followed by the "DICM" prefix
// http://dicom.nema.org/medical/dicom/current/output/html/part10.html#sect_7.1
const preambleLength = 128 + 4

// DataElementIterator represents an iterator over a DataSet's DataElements
type DataElementIterator interface {
	// NextElement returns the next DataElement in the DataSet. If there is no next DataElement, the
	// error io.EOF is returned. In Addition, if any previously returned DataElements contained
	// iterable objects like SequenceIterator, BulkDataIterator, these iterators are emptied.
	NextElement() (*DataElement, error)

	// Close discards all remaining DataElements in the iterator
	Close() error

	// Length returns the length of the DataSet being iterated, UndefinedLength for top level data
	// sets and sequence items of undefined length.
	Length() uint32

	syntax() transferSyntax
}

// NewDataElementIterator creates a DataElementIterator from a DICOM file. The file meta elements
// are returned first followed by the elements of the data set in the order they appear.
func NewDataElementIterator(r io.Reader) (DataElementIterator, error) {
	dr := newDcmReader(r)
	if err := readDicomSignature(dr); err != nil {
		return nil, err
	}

	metaHeaderBytes, err := bufferMetadataHeader(dr)
	if err != nil {
		return nil, fmt.Errorf("reading meta header: %v", err)
	}

	syntax, err := findSyntax(metaHeaderBytes)
	if err != nil {
		return nil, fmt.Errorf("finding transfer syntax: %v", err)
	}
	if syntax.isDeflated() {
		return nil, errors.New("deflated syntax is not supported")
	}

	// the meta header always uses the explicit VR little endian syntax
	// http://dicom.nema.org/medical/dicom/current/output/html/part10.html#sect_7.1
	metaIter := newDataElementIterator(
		newDcmReaderAt(bytes.NewReader(metaHeaderBytes), preambleLength), explicitVRLittleEndian, UndefinedLength)

	return &dataElementIterator{
		dr:         dr,
		dataSyntax: syntax,
		length:     UndefinedLength,
		metaHeader: metaIter,
	}, nil
}

func newDataElementIterator(dr *dcmReader, syntax transferSyntax, length uint32) DataElementIterator {
	return &dataElementIterator{
		dr:         dr,
		dataSyntax: syntax,
		length:     length,
		metaHeader: emptyElementIterator{syntax},
	}
}

type dataElementIterator struct {
	dr             *dcmReader
	dataSyntax     transferSyntax
	length         uint32
	currentElement *DataElement
	empty          bool
	metaHeader     DataElementIterator
}

func (it *dataElementIterator) NextElement() (*DataElement, error) {
	metaElem, err := it.metaHeader.NextElement()
	if err == io.EOF {
		return it.nextDataSetElement()
	}
	if err != nil {
		return nil, err
	}
	return metaElem, nil
}

func (it *dataElementIterator) Length() uint32 {
	return it.length
}

func (it *dataElementIterator) syntax() transferSyntax {
	return it.dataSyntax
}

func (it *dataElementIterator) nextDataSetElement() (*DataElement, error) {
	if it.empty {
		return nil, io.EOF
	}
	if err := it.closeCurrent(); err != nil {
		return nil, fmt.Errorf("closing: %v", err)
	}

	element, err := readDataElement(it.dr, it.dataSyntax)
	if err == io.EOF {
		it.empty = true
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("reading element: %v", err)
	}

	it.currentElement = element

	return it.currentElement, nil
}

func (it *dataElementIterator) Close() error {
	// empty the iterator
	for _, err := it.NextElement(); err != io.EOF; _, err = it.NextElement() {
		if err != nil {
			return fmt.Errorf("unexpected error closing iterator: %v", err)
		}
	}
	return nil
}

func (it *dataElementIterator) closeCurrent() error {
	if it.currentElement == nil {
		return nil
	}

	if closer, ok := it.currentElement.ValueField.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}

func readDicomSignature(r *dcmReader) error {
	if err := r.Skip(128); err != nil {
		return fmt.Errorf("skipping preamble: %v", err)
	}

	magic, err := r.String(4)
	if err != nil {
		return fmt.Errorf("reading DICOM signature: %v", err)
	}

	if magic != "DICM" {
		return fmt.Errorf("wrong DICOM signature: %v", magic)
	}

	return nil
}

func bufferMetadataHeader(dr *dcmReader) ([]byte, error) {
	firstElemBytes, err := dr.Bytes(4 /*tag*/ + 2 /*vr*/ + 2 /*len*/ + 4 /*UL=4bytes*/)
	if err != nil {
		return nil, fmt.Errorf("buffering bytes of FileMetaInformationGroupLength: %v", err)
	}
	firstElem, err := readDataElement(newDcmReader(bytes.NewReader(firstElemBytes)), explicitVRLittleEndian)
	if err != nil {
		return nil, fmt.Errorf("parsing FileMetaInformationGroupLength element: %v", err)
	}
	if firstElem.Tag != FileMetaInformationGroupLengthTag {
		return nil, fmt.Errorf("expected FileMetaInformationGroupLength, got %v", firstElem.Tag)
	}
	metaGroupLength, ok := firstElem.ValueField.([]uint32)
	if !ok {
		return nil, fmt.Errorf("wrong type for FileMetaInformationGroupLength. Got %T, want []uint32", firstElem.ValueField)
	}
	if len(metaGroupLength) != 1 {
		return nil, fmt.Errorf("expected 1 value for meta group lengths")
	}
	remainderBytes, err := dr.Bytes(int64(metaGroupLength[0]))
	if err != nil {
		return nil, fmt.Errorf("buffering the file meta elements: %v", err)
	}

	return append(firstElemBytes, remainderBytes...), nil
}

func findSyntax(metaHeaderBytes []byte) (transferSyntax, error) {
	metaIter := newDataElementIterator(newDcmReader(bytes.NewReader(metaHeaderBytes)), explicitVRLittleEndian, UndefinedLength)

	for elem, err := metaIter.NextElement(); err != io.EOF; elem, err = metaIter.NextElement() {
		if err != nil {
			return nil, fmt.Errorf("reading meta element: %v", err)
		}
		if elem.Tag == TransferSyntaxUIDTag {
			return findSyntaxFromElement(elem)
		}
	}

	return nil, fmt.Errorf("transfer syntax not found")
}

func findSyntaxFromElement(element *DataElement) (transferSyntax, error) {
	uid, err := element.StringValue()
	if err != nil {
		return nil, fmt.Errorf("reading transfer syntax uid: %v", err)
	}
	return lookupTransferSyntax(uid), nil
}

type emptyElementIterator struct {
	dataSyntax transferSyntax
}

func (it emptyElementIterator) NextElement() (*DataElement, error) {
	return nil, io.EOF
}

func (it emptyElementIterator) Length() uint32 {
	return 0
}

func (it emptyElementIterator) syntax() transferSyntax {
	return it.dataSyntax
}

func (it emptyElementIterator) Close() error {
	return nil
}
