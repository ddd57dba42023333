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
	"encoding/binary"
	"fmt"
	"io"
)

// BulkDataReference describes the location of bulk data in the DICOM input stream
type BulkDataReference struct {
	Reference ByteRegion
}

// ByteRegion is a contiguous region of bytes in the DICOM input stream
type ByteRegion struct {
	// Offset is the number of bytes in the stream preceding the region
	Offset int64
	Length int64
}

// Slice returns the bytes of the region within source, or false when the region does not lie
// within source.
func (r ByteRegion) Slice(source []byte) ([]byte, bool) {
	end := r.Offset + r.Length
	if r.Offset < 0 || r.Length < 0 || end > int64(len(source)) {
		return nil, false
	}
	return source[r.Offset:end], true
}

// BulkDataReader is an io.Reader over one fragment of bulk data
type BulkDataReader struct {
	io.Reader

	// Offset is the number of bytes in the file preceding the bulk data described
	// by the BulkDataReader
	Offset int64
}

// Close discards the remaining bytes of the fragment
func (r *BulkDataReader) Close() error {
	_, err := io.Copy(io.Discard, r)
	return err
}

// BulkDataIterator represents a sequence of BulkDataReaders. Native (uncompressed) bulk data is
// a single fragment whereas pixel data in an encapsulated format is one fragment per item.
type BulkDataIterator interface {
	// Next returns the next BulkDataReader in the iterator and discards all bytes from all previous
	// BulkDataReaders returned from Next. If there are no remaining BulkDataReader in the iterator,
	// the error io.EOF is returned
	Next() (*BulkDataReader, error)

	// Close discards all remaining BulkDataReaders in the iterator. Any previously returned
	// BulkDataReaders from calls to Next are also emptied.
	Close() error
}

type oneShotIterator struct {
	cr    *countReader
	empty bool
}

func newOneShotIterator(r *countReader) BulkDataIterator {
	return &oneShotIterator{r, false}
}

// NewBulkDataIterator returns a BulkDataIterator with a single fragment read from r. offset is
// the position of the fragment in the enclosing stream.
func NewBulkDataIterator(r io.Reader, offset int64) BulkDataIterator {
	return newOneShotIterator(&countReader{r, offset})
}

func (it *oneShotIterator) Next() (*BulkDataReader, error) {
	if it.empty {
		return nil, io.EOF
	}

	it.empty = true

	return &BulkDataReader{it.cr, it.cr.bytesRead}, nil
}

func (it *oneShotIterator) Close() error {
	if _, err := io.Copy(io.Discard, it.cr); err != nil {
		return fmt.Errorf("closing bulk data: %v", err)
	}

	it.empty = true

	return nil
}

type encapsulatedFormatIterator struct {
	dr            *dcmReader
	currentReader *BulkDataReader
	empty         bool
}

func newEncapsulatedFormatIterator(dr *dcmReader) BulkDataIterator {
	return &encapsulatedFormatIterator{dr, nil, false}
}

// NewEncapsulatedFormatIterator returns a BulkDataIterator over the items of pixel data in an
// encapsulated format, beginning with the Basic Offset Table item.
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_A.4
func NewEncapsulatedFormatIterator(r io.Reader, offset int64) BulkDataIterator {
	return newEncapsulatedFormatIterator(newDcmReaderAt(r, offset))
}

func (it *encapsulatedFormatIterator) Next() (*BulkDataReader, error) {
	if it.empty {
		return nil, io.EOF
	}

	if it.currentReader != nil {
		if err := it.currentReader.Close(); err != nil {
			return nil, err
		}
	}

	tag, err := processItemTag(it.dr, binary.LittleEndian)
	if err != nil {
		return nil, fmt.Errorf("reading tag in encapsulated format fragment: %v", err)
	}
	if tag == SequenceDelimitationItemTag {
		return nil, it.terminate()
	}

	length, err := it.dr.UInt32(binary.LittleEndian)
	if err != nil {
		return nil, err
	}
	if length >= UndefinedLength {
		return nil, fmt.Errorf("expected fragment to be of explicit length")
	}

	fragment := limitCountReader(it.dr.cr, int64(length))
	it.currentReader = &BulkDataReader{fragment, fragment.bytesRead}

	return it.currentReader, nil
}

func (it *encapsulatedFormatIterator) Close() error {
	for r, err := it.Next(); err != io.EOF; r, err = it.Next() {
		if err != nil {
			return fmt.Errorf("reading next reader: %v", err)
		}
		if err := r.Close(); err != nil {
			return fmt.Errorf("discarding reader on Close: %v", err)
		}
	}

	return nil
}

func (it *encapsulatedFormatIterator) terminate() error {
	if _, err := it.dr.UInt32(binary.LittleEndian); err != nil {
		return fmt.Errorf("reading 32 bit length of sequence delimitation item: %v", err)
	}
	it.empty = true
	return io.EOF
}

func writeByteFragments(w io.Writer, fragments [][]byte) error {
	for _, fragment := range fragments {
		if _, err := w.Write(fragment); err != nil {
			return fmt.Errorf("writing fragment: %v", err)
		}
	}
	return nil
}

func writeEncapsulatedFormat(dw *dcmWriter, order binary.ByteOrder, fragments [][]byte) error {
	for _, fragment := range fragments {
		if err := dw.Tag(order, ItemTag); err != nil {
			return fmt.Errorf("writing fragment tag: %v", err)
		}
		length := len(fragment)
		if length%2 != 0 {
			length++
		}
		if err := dw.UInt32(order, uint32(length)); err != nil {
			return fmt.Errorf("writing fragment length: %v", err)
		}
		if err := dw.Bytes(fragment); err != nil {
			return fmt.Errorf("writing fragment: %v", err)
		}
		if length != len(fragment) {
			if err := dw.Bytes([]byte{0}); err != nil {
				return fmt.Errorf("writing fragment padding: %v", err)
			}
		}
	}

	if err := dw.Tag(order, SequenceDelimitationItemTag); err != nil {
		return fmt.Errorf("writing fragment delimitation tag: %v", err)
	}
	if err := dw.UInt32(order, 0); err != nil {
		return fmt.Errorf("writing delimiter length: %v", err)
	}

	return nil
}

// concatFragments joins the fragments of native bulk data
func concatFragments(fragments [][]byte) []byte {
	return bytes.Join(fragments, nil)
}

// Bytes returns the value of a bulk data element as a single byte slice. Elements whose value
// was replaced by []BulkDataReference (see ReferenceBulkData) are resolved against source, the
// byte array the DataSet was parsed from.
func (e *DataElement) Bytes(source []byte) ([]byte, bool) {
	switch v := e.ValueField.(type) {
	case [][]byte:
		return concatFragments(v), true
	case []BulkDataReference:
		fragments := make([][]byte, 0, len(v))
		for _, ref := range v {
			b, ok := ref.Reference.Slice(source)
			if !ok {
				return nil, false
			}
			fragments = append(fragments, b)
		}
		return concatFragments(fragments), true
	}
	return nil, false
}
