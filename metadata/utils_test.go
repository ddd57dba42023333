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
	"bytes"
	"strings"
	"testing"

	"github.com/GoogleCloudPlatform/go-dicom-metadata/dicom"
)

func intPtr(i int) *int { return &i }
func floatPtr(f float64) *float64 { return &f }
func stringPtr(s string) *string { return &s }
func tagPtr(t dicom.DataElementTag) *dicom.DataElementTag { return &t }

// dataSetAccessor returns an accessor over an in-memory DataSet holding values
func dataSetAccessor(values map[dicom.DataElementTag]interface{}) *DataSetAccessor {
	return NewDataSetAccessor(dicom.NewDataSet(values), nil)
}

// newItem returns a sequence item holding values
func newItem(values map[dicom.DataElementTag]interface{}) *dicom.DataSet {
	return dicom.NewDataSet(values)
}

// newSequence returns a sequence of the given items
func newSequence(items ...*dicom.DataSet) *dicom.Sequence {
	return &dicom.Sequence{Items: items}
}

// part10Accessor writes values as a DICOM file in the given transfer syntax and parses it back
func part10Accessor(t *testing.T, syntaxUID string, values map[dicom.DataElementTag]interface{}) *DataSetAccessor {
	all := map[dicom.DataElementTag]interface{}{
		dicom.MediaStorageSOPClassUIDTag:    []string{"1.2.840.10008.5.1.4.1.1.4"},
		dicom.MediaStorageSOPInstanceUIDTag: []string{"1.2.3.4"},
		dicom.TransferSyntaxUIDTag:          []string{syntaxUID},
	}
	for tag, v := range values {
		all[tag] = v
	}

	var buf bytes.Buffer
	if err := dicom.Construct(&buf, dicom.NewDataSet(all)); err != nil {
		t.Fatalf("Construct(_, _) => %v", err)
	}
	acc, err := ParsePart10(buf.Bytes())
	if err != nil {
		t.Fatalf("ParsePart10(_) => %v", err)
	}
	return acc
}

// jsonAccessor decodes a DICOM JSON payload
func jsonAccessor(t *testing.T, payload string) *ObjectAccessor {
	acc, err := ParseJSON(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("ParseJSON(_) => %v", err)
	}
	return acc
}
