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

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/GoogleCloudPlatform/go-dicom-metadata/dicom"
	"github.com/GoogleCloudPlatform/go-dicom-metadata/metadata"
	"github.com/rs/zerolog"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dicommeta.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "missing.yaml")} {
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%q) => unexpected error: %v", path, err)
		}
		if !reflect.DeepEqual(cfg, Default()) {
			t.Fatalf("Load(%q) => %+v, want %+v", path, cfg, Default())
		}

		names, err := cfg.ModuleNames()
		if err != nil {
			t.Fatalf("ModuleNames() => unexpected error: %v", err)
		}
		if !reflect.DeepEqual(names, metadata.Names()) {
			t.Fatalf("ModuleNames() => %v, want %v", names, metadata.Names())
		}
		coding, err := cfg.CharacterSet()
		if err != nil || coding != dicom.DefaultCharacterRepertoire {
			t.Fatalf("CharacterSet() => (%v, %v), want the default repertoire", coding, err)
		}
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
format: " JSON "
log_level: Debug
default_character_set: ISO_IR 100
modules:
  - imagePlaneModule
  - " voiLutModule"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load => unexpected error: %v", err)
	}
	want := &Config{
		Format:              FormatJSON,
		Modules:             []string{"imagePlaneModule", "voiLutModule"},
		LogLevel:            "debug",
		DefaultCharacterSet: "ISO_IR 100",
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Fatalf("got %+v, want %+v", cfg, want)
	}

	names, err := cfg.ModuleNames()
	if err != nil {
		t.Fatalf("ModuleNames() => unexpected error: %v", err)
	}
	wantNames := []metadata.Name{metadata.ImagePlaneModuleName, metadata.VOILUTModuleName}
	if !reflect.DeepEqual(names, wantNames) {
		t.Fatalf("ModuleNames() => %v, want %v", names, wantNames)
	}

	level, err := cfg.Level()
	if err != nil || level != zerolog.DebugLevel {
		t.Fatalf("Level() => (%v, %v), want %v", level, err, zerolog.DebugLevel)
	}

	coding, err := cfg.CharacterSet()
	if err != nil {
		t.Fatalf("CharacterSet() => unexpected error: %v", err)
	}
	wantCoding, _ := dicom.LookupEncoding("ISO_IR 100")
	if coding != wantCoding {
		t.Fatalf("CharacterSet() => %v, want %v", coding, wantCoding)
	}
}

func TestLoad_EmptyFields(t *testing.T) {
	cfg, err := Load(writeConfig(t, "modules: []\n"))
	if err != nil {
		t.Fatalf("Load => unexpected error: %v", err)
	}
	if cfg.Format != FormatYAML || cfg.LogLevel != defaultLogLevel {
		t.Fatalf("expected defaults for empty fields, got %+v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"malformed", "format: [yaml\n"},
		{"format", "format: xml\n"},
		{"module", "modules:\n  - imagePlane\n"},
		{"log level", "log_level: loud\n"},
		{"character set", "default_character_set: ISO_IR 999\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.contents)); err == nil {
				t.Fatalf("expected error loading %q", tc.contents)
			}
		})
	}
}
