// Package geometry converts solid object descriptions into surface area, mass and
// specific surface area (SSA).
//
// Geometry is a closed sum type: one of rectangular, cube, sphere or raw. Values
// are built through the constructors, which validate every dimension before any
// surface or mass is computed. The mass source is always stated by the caller
// through a MassSpec; nothing here guesses between a measured mass and a
// density-derived one.
package geometry

import (
	"math"
	"strings"

	"github.com/ChicagoDave/leadcsa/pkg/errs"
)

// Kind identifies a Geometry variant.
type Kind string

const (
	KindRectangular Kind = "rectangular"
	KindCube        Kind = "cube"
	KindSphere      Kind = "sphere"
	KindRaw         Kind = "raw"
)

// Kinds lists every variant in display order.
var Kinds = []Kind{KindRectangular, KindCube, KindSphere, KindRaw}

// KindList renders Kinds for help text and messages: "a, b, c or d".
func KindList() string {
	names := make([]string, len(Kinds))
	for i, k := range Kinds {
		names[i] = string(k)
	}
	return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
}

// ParseKind validates a shape name.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	switch k {
	case KindRectangular, KindCube, KindSphere, KindRaw:
		return k, nil
	}
	return "", errs.Newf(errs.CodeInvalidInput, "unknown shape %q: must be %s", s, KindList())
}

// MassSource says where an object's mass comes from.
type MassSource string

const (
	MassMeasured    MassSource = "measured"
	MassFromDensity MassSource = "density"
)

// MassSpec is the caller's explicit statement of how mass is obtained.
type MassSpec struct {
	Source  MassSource
	KG      float64 // measured mass, when Source is MassMeasured
	Density float64 // g/cm³, when Source is MassFromDensity
}

// Measured states a weighed mass in kg.
func Measured(kg float64) MassSpec {
	return MassSpec{Source: MassMeasured, KG: kg}
}

// FromDensity states that mass is volume × density.
func FromDensity(gPerCM3 float64) MassSpec {
	return MassSpec{Source: MassFromDensity, Density: gPerCM3}
}

func (m MassSpec) validate() error {
	switch m.Source {
	case MassMeasured:
		return positive("mass_kg", m.KG)
	case MassFromDensity:
		return positive("density_g_cm3", m.Density)
	}
	return errs.Newf(errs.CodeInvalidInput, "mass source %q must be %q or %q", m.Source, MassMeasured, MassFromDensity)
}

// Geometry is one solid object. The zero value has no mass; its SSA fails.
type Geometry struct {
	kind      Kind
	length    float64 // mm
	width     float64 // mm
	thickness float64 // mm
	diameter  float64 // mm
	surface   float64 // mm², raw only
	volume    float64 // cm³, raw only
	mass      MassSpec
}

// Rectangular builds a rectangular solid (ingot) from its three edges in mm.
func Rectangular(lengthMM, widthMM, thicknessMM float64, m MassSpec) (Geometry, error) {
	if err := positive("length_mm", lengthMM); err != nil {
		return Geometry{}, err
	}
	if err := positive("width_mm", widthMM); err != nil {
		return Geometry{}, err
	}
	if err := positive("thickness_mm", thicknessMM); err != nil {
		return Geometry{}, err
	}
	if err := m.validate(); err != nil {
		return Geometry{}, err
	}
	return Geometry{kind: KindRectangular, length: lengthMM, width: widthMM, thickness: thicknessMM, mass: m}, nil
}

// Cube builds a rectangular solid with equal edges.
func Cube(sideMM float64, m MassSpec) (Geometry, error) {
	if err := positive("side_mm", sideMM); err != nil {
		return Geometry{}, err
	}
	if err := m.validate(); err != nil {
		return Geometry{}, err
	}
	return Geometry{kind: KindCube, length: sideMM, width: sideMM, thickness: sideMM, mass: m}, nil
}

// Sphere builds a sphere from its diameter in mm.
func Sphere(diameterMM float64, m MassSpec) (Geometry, error) {
	if err := positive("diameter_mm", diameterMM); err != nil {
		return Geometry{}, err
	}
	if err := m.validate(); err != nil {
		return Geometry{}, err
	}
	return Geometry{kind: KindSphere, diameter: diameterMM, mass: m}, nil
}

// LeadSphere builds a sphere whose mass follows from LeadDensity.
func LeadSphere(diameterMM float64) (Geometry, error) {
	return Sphere(diameterMM, FromDensity(LeadDensity))
}

// Raw wraps a measured surface area (mm²) and volume (cm³). The volume is
// required when mass is density-derived and may be zero with a measured mass.
func Raw(surfaceMM2, volumeCM3 float64, m MassSpec) (Geometry, error) {
	if err := positive("surface_mm2", surfaceMM2); err != nil {
		return Geometry{}, err
	}
	if m.Source == MassFromDensity || volumeCM3 != 0 {
		if err := positive("volume_cm3", volumeCM3); err != nil {
			return Geometry{}, err
		}
	}
	if err := m.validate(); err != nil {
		return Geometry{}, err
	}
	return Geometry{kind: KindRaw, surface: surfaceMM2, volume: volumeCM3, mass: m}, nil
}

// Kind returns the variant.
func (g Geometry) Kind() Kind { return g.kind }

// MassSpec returns the mass statement the geometry was built with.
func (g Geometry) MassSpec() MassSpec { return g.mass }

// SurfaceArea returns the outer surface in mm².
func (g Geometry) SurfaceArea() float64 {
	switch g.kind {
	case KindRectangular, KindCube:
		l, w, t := g.length, g.width, g.thickness
		return 2 * (l*w + w*t + t*l)
	case KindSphere:
		r := g.diameter / 2
		return 4 * math.Pi * r * r
	case KindRaw:
		return g.surface
	}
	return 0
}

// Volume returns the solid volume in cm³. A raw geometry with a measured mass
// and no supplied volume returns 0.
func (g Geometry) Volume() float64 {
	switch g.kind {
	case KindRectangular, KindCube:
		return g.length * g.width * g.thickness / MM3PerCM3
	case KindSphere:
		r := g.diameter / MMPerCM / 2
		return 4.0 / 3.0 * math.Pi * r * r * r
	case KindRaw:
		return g.volume
	}
	return 0
}

// Mass returns the object mass in mg.
func (g Geometry) Mass() float64 {
	switch g.mass.Source {
	case MassMeasured:
		return g.mass.KG * MGPerKG
	case MassFromDensity:
		return g.Volume() * g.mass.Density * MGPerG
	}
	return 0
}

// SSA returns surface area per unit mass in mm²/mg.
func (g Geometry) SSA() (float64, error) {
	mass := g.Mass()
	if !(mass > 0) {
		return 0, errs.Field(errs.CodeDivisionByZero, "mass_mg", mass, "mass must be > 0 to compute SSA")
	}
	surface := g.SurfaceArea()
	if !(surface > 0) {
		return 0, errs.Field(errs.CodeInvalidInput, "surface_mm2", surface, "surface must be > 0")
	}
	return surface / mass, nil
}

// ReferenceSSA returns the SSA of a reference sphere of ReferenceDiameterMM at
// the given density.
func ReferenceSSA(density float64) (float64, error) {
	ref, err := Sphere(ReferenceDiameterMM, FromDensity(density))
	if err != nil {
		return 0, err
	}
	return ref.SSA()
}

func positive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errs.Field(errs.CodeInvalidInput, field, v, "must be a finite number")
	}
	if v <= 0 {
		return errs.Field(errs.CodeInvalidInput, field, v, "must be > 0")
	}
	return nil
}
