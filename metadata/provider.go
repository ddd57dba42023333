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
	"github.com/rs/zerolog"
)

// StoreLookup finds the element store of an image. Implementations own the stores they return;
// the Provider never modifies or retains them.
type StoreLookup interface {
	Lookup(imageID string) (ValueAccessor, bool)
}

// MapLookup is a StoreLookup over a fixed map of image ids to accessors
type MapLookup map[string]ValueAccessor

// Lookup implements StoreLookup
func (m MapLookup) Lookup(imageID string) (ValueAccessor, bool) {
	acc, ok := m[imageID]
	if !ok || acc == nil {
		return nil, false
	}
	return acc, true
}

// Provider resolves modules by image id
type Provider struct {
	Lookup StoreLookup

	// Logger receives a debug event per absent store or module. The zero Logger discards events.
	Logger zerolog.Logger
}

// NewProvider returns a Provider over lookup that does not log
func NewProvider(lookup StoreLookup) *Provider {
	return &Provider{Lookup: lookup, Logger: zerolog.Nop()}
}

// Get resolves the module name for the image imageID. false is returned when no store is found
// for imageID or the module is absent.
func (p *Provider) Get(name Name, imageID string) (Module, bool) {
	if p.Lookup == nil {
		return nil, false
	}
	acc, ok := p.Lookup.Lookup(imageID)
	if !ok {
		p.Logger.Debug().Str("image", imageID).Str("module", string(name)).Msg("no element store for image")
		return nil, false
	}

	m, ok := Resolve(name, acc)
	if !ok {
		p.Logger.Debug().Str("image", imageID).Str("module", string(name)).Msg("module absent")
		return nil, false
	}
	return m, true
}

// GetAll resolves each of the module names for the image imageID. Absent modules are left out of
// the result.
func (p *Provider) GetAll(names []Name, imageID string) map[Name]Module {
	modules := make(map[Name]Module, len(names))
	for _, name := range names {
		if m, ok := p.Get(name, imageID); ok {
			modules[name] = m
		}
	}
	return modules
}
