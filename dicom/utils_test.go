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
	"testing"
)

var (
	sampleBytes = []byte{1, 2, 3, 4}
	errTest     = errors.New("test error")
)

func dcmReaderFromBytes(data []byte) *dcmReader {
	return newDcmReader(bytes.NewBuffer(data))
}

func createSingletonSequence(elements ...*DataElement) *Sequence {
	ds := &DataSet{Elements: map[DataElementTag]*DataElement{}, Length: UndefinedLength}
	for _, elem := range elements {
		ds.Elements[elem.Tag] = elem
	}
	return &Sequence{Items: []*DataSet{ds}}
}

// dataSetWithSyntax returns a DataSet holding values and the meta elements needed to write it in
// the given transfer syntax.
func dataSetWithSyntax(syntaxUID string, values map[DataElementTag]interface{}) *DataSet {
	all := map[DataElementTag]interface{}{
		MediaStorageSOPClassUIDTag:    []string{"1.2.840.10008.5.1.4.1.1.4"},
		MediaStorageSOPInstanceUIDTag: []string{"1.2.3.4"},
		TransferSyntaxUIDTag:          []string{syntaxUID},
	}
	for tag, v := range values {
		all[tag] = v
	}
	return NewDataSet(all)
}

// constructBytes writes the DataSet as a DICOM file into memory
func constructBytes(ds *DataSet, t *testing.T) []byte {
	var buf bytes.Buffer
	if err := Construct(&buf, ds); err != nil {
		t.Fatalf("Construct(_, _) => %v", err)
	}
	return buf.Bytes()
}
