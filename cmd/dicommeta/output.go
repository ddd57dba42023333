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

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/GoogleCloudPlatform/go-dicom-metadata/internal/config"
	"github.com/GoogleCloudPlatform/go-dicom-metadata/metadata"
	"gopkg.in/yaml.v3"
)

// result is the output document of one file
type result struct {
	File    string     `yaml:"file" json:"file"`
	Modules moduleList `yaml:"modules" json:"modules"`
}

type namedModule struct {
	name   metadata.Name
	module metadata.Module
}

// moduleList marshals to a mapping of module names to modules that keeps the list order
type moduleList []namedModule

func newResult(file string, names []metadata.Name, modules map[metadata.Name]metadata.Module) result {
	r := result{File: file, Modules: moduleList{}}
	for _, name := range names {
		if m, ok := modules[name]; ok {
			r.Modules = append(r.Modules, namedModule{name, m})
		}
	}
	return r
}

// MarshalYAML implements yaml.Marshaler
func (l moduleList) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, m := range l {
		var value yaml.Node
		if err := value.Encode(m.module); err != nil {
			return nil, fmt.Errorf("encoding %v: %v", m.name, err)
		}
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(m.name)}
		node.Content = append(node.Content, key, &value)
	}
	return node, nil
}

// MarshalJSON implements json.Marshaler
func (l moduleList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(m.name))
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(m.module)
		if err != nil {
			return nil, fmt.Errorf("encoding %v: %v", m.name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// write writes one document per result. YAML documents are separated by "---"; JSON documents
// are indented objects, one after the other.
func write(w io.Writer, format string, results []result) error {
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		for _, r := range results {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		for _, r := range results {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
