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

// Package config loads the YAML configuration of the dicommeta command.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/GoogleCloudPlatform/go-dicom-metadata/dicom"
	"github.com/GoogleCloudPlatform/go-dicom-metadata/metadata"
	"github.com/rs/zerolog"
	"golang.org/x/text/encoding"
	"gopkg.in/yaml.v3"
)

// Output formats
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

const defaultLogLevel = "info"

// Config models the dicommeta configuration file, e.g.
//
//	format: json
//	log_level: debug
//	default_character_set: ISO_IR 100
//	modules:
//	  - imagePlaneModule
//	  - voiLutModule
type Config struct {
	// Format is the output format, yaml or json
	Format string `yaml:"format"`

	// Modules lists the modules to resolve. Every module is resolved when it is empty.
	Modules []string `yaml:"modules,omitempty"`

	LogLevel string `yaml:"log_level"`

	// DefaultCharacterSet is the Specific Character Set defined term used for data sets that
	// do not declare one. The built in default repertoire is used when it is empty.
	DefaultCharacterSet string `yaml:"default_character_set,omitempty"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{Format: FormatYAML, LogLevel: defaultLogLevel}
}

// Load reads the configuration file at path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	if c.Format == "" {
		c.Format = FormatYAML
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	c.DefaultCharacterSet = strings.TrimSpace(c.DefaultCharacterSet)
	for i := range c.Modules {
		c.Modules[i] = strings.TrimSpace(c.Modules[i])
	}
}

// Validate checks every setting of the configuration
func (c *Config) Validate() error {
	switch c.Format {
	case FormatYAML, FormatJSON:
	default:
		return fmt.Errorf("format must be %q or %q, got %q", FormatYAML, FormatJSON, c.Format)
	}
	if _, err := c.ModuleNames(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := c.CharacterSet(); err != nil {
		return err
	}
	return nil
}

// ModuleNames returns the modules to resolve
func (c *Config) ModuleNames() ([]metadata.Name, error) {
	if len(c.Modules) == 0 {
		return metadata.Names(), nil
	}

	names := make([]metadata.Name, 0, len(c.Modules))
	for i, s := range c.Modules {
		name, err := metadata.ParseName(s)
		if err != nil {
			return nil, fmt.Errorf("modules[%d]: %w", i, err)
		}
		names = append(names, name)
	}
	return names, nil
}

// Level returns the configured log level
func (c *Config) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// CharacterSet returns the encoding of the configured default character set, or the default
// character repertoire when none is configured.
func (c *Config) CharacterSet() (encoding.Encoding, error) {
	if c.DefaultCharacterSet == "" {
		return dicom.DefaultCharacterRepertoire, nil
	}
	coding, err := dicom.LookupEncoding(c.DefaultCharacterSet)
	if err != nil {
		return nil, fmt.Errorf("default_character_set: %w", err)
	}
	return coding, nil
}
