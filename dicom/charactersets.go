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
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// DefaultCharacterRepertoire is used when a DataSet has no Specific Character Set (0008,0005).
// The default repertoire is ISO-IR 6 which Windows-1252 extends.
var DefaultCharacterRepertoire encoding.Encoding = charmap.Windows1252

// lookupLabelByTerm is a mapping of specific character set defined terms to golang charset labels.
// See link below for list of character set defined terms.
// http://dicom.nema.org/medical/dicom/current/output/chtml/part02/sect_D.6.2.html
var lookupLabelByTerm = map[string]string{
	"ISO_IR 6":   "us-ascii",
	"ISO_IR 100": "iso-ir-100",
	"ISO_IR 101": "iso-ir-101",
	"ISO_IR 109": "iso-ir-109",
	"ISO_IR 110": "iso-ir-110",
	"ISO_IR 144": "iso-ir-144",
	"ISO_IR 127": "iso-ir-127",
	"ISO_IR 126": "iso-ir-126",
	"ISO_IR 138": "iso-ir-138",
	"ISO_IR 148": "iso-ir-148",
	"ISO_IR 13":  "shift-jis",
	"ISO_IR 166": "tis-620",
	"ISO_IR 192": "utf-8",
	"GB18030":    "gb18030",
	"GBK":        "gbk",
	// TODO properly support ISO 2022 extensions
	"ISO 2022 IR 6":   "us-ascii",
	"ISO 2022 IR 100": "iso-ir-100",
	"ISO 2022 IR 101": "iso-ir-101",
	"ISO 2022 IR 109": "iso-ir-109",
	"ISO 2022 IR 110": "iso-ir-110",
	"ISO 2022 IR 144": "iso-ir-144",
	"ISO 2022 IR 127": "iso-ir-127",
	"ISO 2022 IR 126": "iso-ir-126",
	"ISO 2022 IR 138": "iso-ir-138",
	"ISO 2022 IR 148": "iso-ir-148",
	"ISO 2022 IR 13":  "shift-jis",
	"ISO 2022 IR 166": "tis-620",
	"ISO 2022 IR 87":  "iso-2022-jp",
	"ISO 2022 IR 159": "iso-2022-jp",
	"ISO 2022 IR 149": "iso-ir-149",
}

// LookupEncoding returns the encoding for a Specific Character Set defined term
func LookupEncoding(term string) (encoding.Encoding, error) {
	label, ok := lookupLabelByTerm[strings.TrimSpace(term)]
	if !ok {
		return nil, fmt.Errorf("specific character set defined term not found: %v", term)
	}

	coding, _ := charset.Lookup(label)
	if coding == nil {
		return nil, fmt.Errorf("missing encoding for label %q", label)
	}
	return coding, nil
}

// CharacterSet returns the encoding declared by the Specific Character Set (0008,0005) of the
// DataSet. When the element is missing, or only code extensions are declared, fallback is
// returned. The first non empty defined term is used.
func (ds *DataSet) CharacterSet(fallback encoding.Encoding) (encoding.Encoding, error) {
	elem, ok := ds.Elements[SpecificCharacterSetTag]
	if !ok {
		return fallback, nil
	}
	terms, ok := elem.ValueField.([]string)
	if !ok {
		return nil, fmt.Errorf("expected []string for specific character set, got %T", elem.ValueField)
	}
	for _, term := range terms {
		if strings.TrimSpace(term) == "" {
			continue
		}
		return LookupEncoding(term)
	}
	return fallback, nil
}

// DecodeString decodes s from the given encoding into UTF-8. s is returned unchanged when it
// cannot be decoded.
func DecodeString(coding encoding.Encoding, s string) string {
	if coding == nil {
		return s
	}
	decoded, err := coding.NewDecoder().String(s)
	if err != nil {
		return s
	}
	return decoded
}
