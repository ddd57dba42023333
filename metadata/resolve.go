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
	"fmt"
)

// Name identifies a metadata module
type Name string

// Module names
const (
	GeneralSeriesModuleName Name = "generalSeriesModule"
	PatientStudyModuleName  Name = "patientStudyModule"
	ImagePlaneModuleName    Name = "imagePlaneModule"
	ImagePixelModuleName    Name = "imagePixelModule"
	ModalityLUTModuleName   Name = "modalityLutModule"
	VOILUTModuleName        Name = "voiLutModule"
	SOPCommonModuleName     Name = "sopCommonModule"
	PETIsotopeModuleName    Name = "petIsotopeModule"
	OverlayPlaneModuleName  Name = "overlayPlaneModule"
	MultiframeModuleName    Name = "multiframeModule"
	CineModuleName          Name = "cineModule"
)

// names lists the module names in a fixed order
var names = []Name{
	GeneralSeriesModuleName,
	PatientStudyModuleName,
	ImagePlaneModuleName,
	ImagePixelModuleName,
	ModalityLUTModuleName,
	VOILUTModuleName,
	SOPCommonModuleName,
	PETIsotopeModuleName,
	OverlayPlaneModuleName,
	MultiframeModuleName,
	CineModuleName,
}

// Module is a resolved metadata module. Modules are built fresh by every call to Resolve and
// share no state with the accessor they were resolved from.
type Module interface {
	ModuleName() Name
}

// resolver returns the module of acc, or false when a module gated on optional data is absent
type resolver func(acc ValueAccessor) (Module, bool)

// resolvers maps each module name to its resolver
var resolvers = map[Name]resolver{
	GeneralSeriesModuleName: func(acc ValueAccessor) (Module, bool) { return ResolveGeneralSeries(acc), true },
	PatientStudyModuleName:  func(acc ValueAccessor) (Module, bool) { return ResolvePatientStudy(acc), true },
	ImagePlaneModuleName:    func(acc ValueAccessor) (Module, bool) { return ResolveImagePlane(acc), true },
	ImagePixelModuleName:    func(acc ValueAccessor) (Module, bool) { return ResolveImagePixel(acc), true },
	ModalityLUTModuleName:   func(acc ValueAccessor) (Module, bool) { return ResolveModalityLUT(acc), true },
	VOILUTModuleName:        func(acc ValueAccessor) (Module, bool) { return ResolveVOILUT(acc), true },
	SOPCommonModuleName:     func(acc ValueAccessor) (Module, bool) { return ResolveSOPCommon(acc), true },
	PETIsotopeModuleName:    resolvePETIsotope,
	OverlayPlaneModuleName:  func(acc ValueAccessor) (Module, bool) { return ResolveOverlayPlane(acc), true },
	MultiframeModuleName:    func(acc ValueAccessor) (Module, bool) { return ResolveMultiframe(acc), true },
	CineModuleName:          func(acc ValueAccessor) (Module, bool) { return ResolveCine(acc), true },
}

func resolvePETIsotope(acc ValueAccessor) (Module, bool) {
	// a nil *PETIsotopeModule must not be returned as a non nil Module
	if m := ResolvePETIsotope(acc); m != nil {
		return m, true
	}
	return nil, false
}

// Names returns the names of all modules
func Names() []Name {
	return append([]Name(nil), names...)
}

// ParseName returns the module name matching s
func ParseName(s string) (Name, error) {
	name := Name(s)
	if _, ok := resolvers[name]; !ok {
		return "", fmt.Errorf("unknown module name %q", s)
	}
	return name, nil
}

// Resolve resolves the module name from acc. false is returned for unknown module names, a nil
// accessor, and modules gated on a sequence that is missing or has no items.
func Resolve(name Name, acc ValueAccessor) (Module, bool) {
	r, ok := resolvers[name]
	if !ok || acc == nil {
		return nil, false
	}
	return r(acc)
}

// ModuleName implements Module
func (*GeneralSeriesModule) ModuleName() Name { return GeneralSeriesModuleName }

// ModuleName implements Module
func (*PatientStudyModule) ModuleName() Name { return PatientStudyModuleName }

// ModuleName implements Module
func (*ImagePlaneModule) ModuleName() Name { return ImagePlaneModuleName }

// ModuleName implements Module
func (*ImagePixelModule) ModuleName() Name { return ImagePixelModuleName }

// ModuleName implements Module
func (*ModalityLUTModule) ModuleName() Name { return ModalityLUTModuleName }

// ModuleName implements Module
func (*VOILUTModule) ModuleName() Name { return VOILUTModuleName }

// ModuleName implements Module
func (*SOPCommonModule) ModuleName() Name { return SOPCommonModuleName }

// ModuleName implements Module
func (*PETIsotopeModule) ModuleName() Name { return PETIsotopeModuleName }

// ModuleName implements Module
func (*OverlayPlaneModule) ModuleName() Name { return OverlayPlaneModuleName }

// ModuleName implements Module
func (*MultiframeModule) ModuleName() Name { return MultiframeModuleName }

// ModuleName implements Module
func (*CineModule) ModuleName() Name { return CineModuleName }
