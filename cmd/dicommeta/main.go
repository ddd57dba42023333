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

// Command dicommeta resolves the metadata modules of DICOM Part 10 files and DICOM JSON
// documents and prints them as YAML or JSON.
//
//	dicommeta [-config dicommeta.yaml] [-format yaml|json] [-module name]... [-v] FILE...
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/GoogleCloudPlatform/go-dicom-metadata/internal/config"
	"github.com/GoogleCloudPlatform/go-dicom-metadata/metadata"
	"github.com/rs/zerolog"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML configuration file")
	format := flag.String("format", "", "output format, yaml or json (overrides the config file)")
	verbose := flag.Bool("v", false, "log at debug level")
	var modules listFlag
	flag.Var(&modules, "module", "module to resolve, may be repeated (overrides the config file)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] FILE...\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		die("%v", err)
	}
	if *format != "" {
		cfg.Format = strings.ToLower(*format)
	}
	if len(modules) > 0 {
		cfg.Modules = modules
	}
	if *verbose {
		cfg.LogLevel = zerolog.LevelDebugValue
	}
	if err := cfg.Validate(); err != nil {
		die("%v", err)
	}

	level, _ := cfg.Level()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	coding, _ := cfg.CharacterSet()
	names, _ := cfg.ModuleNames()

	lookup := make(metadata.MapLookup, flag.NArg())
	for _, path := range flag.Args() {
		acc, err := load(path, metadata.WithDefaultCharacterSet(coding))
		if err != nil {
			die("%v", err)
		}
		logger.Debug().Str("file", path).Msg("loaded element store")
		lookup[path] = acc
	}

	provider := &metadata.Provider{Lookup: lookup, Logger: logger}
	results := make([]result, 0, flag.NArg())
	for _, path := range flag.Args() {
		results = append(results, newResult(path, names, provider.GetAll(names, path)))
	}

	if err := write(os.Stdout, cfg.Format, results); err != nil {
		die("writing output: %v", err)
	}
}

// load reads path as a DICOM JSON document when it has a .json extension, and as a DICOM Part 10
// file otherwise. The options apply to Part 10 files only; JSON text is always UTF-8.
func load(path string, opts ...metadata.AccessorOption) (metadata.ValueAccessor, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %v: %v", path, err)
		}
		defer f.Close()
		acc, err := metadata.ParseJSON(f)
		if err != nil {
			return nil, fmt.Errorf("parsing %v: %v", path, err)
		}
		return acc, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %v: %v", path, err)
	}
	acc, err := metadata.ParsePart10(b, opts...)
	if err != nil {
		return nil, fmt.Errorf("parsing %v: %v", path, err)
	}
	return acc, nil
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// listFlag collects the values of a repeated flag
type listFlag []string

func (l *listFlag) String() string {
	return strings.Join(*l, ",")
}

func (l *listFlag) Set(value string) error {
	*l = append(*l, value)
	return nil
}
