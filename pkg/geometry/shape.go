package geometry

import (
	"fmt"

	"github.com/ChicagoDave/leadcsa/pkg/errs"
)

// Shape is the document form of a Geometry, as read from assessment files and
// HTTP requests.
type Shape struct {
	Shape       string  `yaml:"shape" json:"shape"`
	LengthMM    float64 `yaml:"length_mm,omitempty" json:"length_mm,omitempty"`
	WidthMM     float64 `yaml:"width_mm,omitempty" json:"width_mm,omitempty"`
	ThicknessMM float64 `yaml:"thickness_mm,omitempty" json:"thickness_mm,omitempty"`
	SideMM      float64 `yaml:"side_mm,omitempty" json:"side_mm,omitempty"`
	DiameterMM  float64 `yaml:"diameter_mm,omitempty" json:"diameter_mm,omitempty"`
	SurfaceMM2  float64 `yaml:"surface_mm2,omitempty" json:"surface_mm2,omitempty"`
	VolumeCM3   float64 `yaml:"volume_cm3,omitempty" json:"volume_cm3,omitempty"`

	MassSource string  `yaml:"mass_source" json:"mass_source"`
	MassKG     float64 `yaml:"mass_kg,omitempty" json:"mass_kg,omitempty"`

	// DensityGCM3 is nil when the default density applies.
	DensityGCM3 *float64 `yaml:"density_g_cm3,omitempty" json:"density_g_cm3,omitempty"`
}

// MassSpec resolves the stated mass source. A density-derived mass with no
// density given falls back to defaultDensity; an explicit density is used as
// stated, so a non-positive value is rejected by the constructors.
func (s Shape) MassSpec(defaultDensity float64) (MassSpec, error) {
	switch MassSource(s.MassSource) {
	case MassMeasured:
		if s.DensityGCM3 != nil {
			return MassSpec{}, errs.New(errs.CodeInvalidInput, "density_g_cm3 must not be set when mass_source is measured")
		}
		return Measured(s.MassKG), nil
	case MassFromDensity:
		if s.MassKG != 0 {
			return MassSpec{}, errs.New(errs.CodeInvalidInput, "mass_kg must not be set when mass_source is density")
		}
		d := defaultDensity
		if s.DensityGCM3 != nil {
			d = *s.DensityGCM3
		}
		return FromDensity(d), nil
	case "":
		return MassSpec{}, errs.New(errs.CodeInvalidInput, "mass_source is required (measured or density)")
	}
	return MassSpec{}, errs.Newf(errs.CodeInvalidInput, "unknown mass_source %q", s.MassSource)
}

// Build validates the shape and returns the Geometry it describes.
func (s Shape) Build(defaultDensity float64) (Geometry, error) {
	kind, err := ParseKind(s.Shape)
	if err != nil {
		return Geometry{}, err
	}
	m, err := s.MassSpec(defaultDensity)
	if err != nil {
		return Geometry{}, err
	}

	var g Geometry
	switch kind {
	case KindRectangular:
		g, err = Rectangular(s.LengthMM, s.WidthMM, s.ThicknessMM, m)
	case KindCube:
		g, err = Cube(s.SideMM, m)
	case KindSphere:
		g, err = Sphere(s.DiameterMM, m)
	case KindRaw:
		g, err = Raw(s.SurfaceMM2, s.VolumeCM3, m)
	}
	if err != nil {
		return Geometry{}, fmt.Errorf("building %s: %w", kind, err)
	}
	return g, nil
}

// Figures are the computed properties of a Geometry.
type Figures struct {
	Kind       Kind    `json:"kind"`
	MassSource string  `json:"mass_source"`
	SurfaceMM2 float64 `json:"surface_mm2"`
	VolumeCM3  float64 `json:"volume_cm3"`
	MassMG     float64 `json:"mass_mg"`
	SSA        float64 `json:"ssa_mm2_mg"`
}

// Measure computes all figures of g.
func Measure(g Geometry) (Figures, error) {
	ssa, err := g.SSA()
	if err != nil {
		return Figures{}, err
	}
	return Figures{
		Kind:       g.Kind(),
		MassSource: string(g.MassSpec().Source),
		SurfaceMM2: g.SurfaceArea(),
		VolumeCM3:  g.Volume(),
		MassMG:     g.Mass(),
		SSA:        ssa,
	}, nil
}
