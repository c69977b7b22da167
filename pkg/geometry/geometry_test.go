package geometry

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/ChicagoDave/leadcsa/pkg/errs"
)

const tolerance = 1e-9

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

func mustGeometry(t *testing.T) func(Geometry, error) Geometry {
	return func(g Geometry, err error) Geometry {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return g
	}
}

// --- Surface area ---

func TestRectangularSurfacePermutation(t *testing.T) {
	dims := [][3]float64{
		{535, 85, 75},
		{1, 2, 3},
		{0.5, 120, 7.25},
		{10, 10, 10},
	}
	for _, d := range dims {
		a := mustGeometry(t)(Rectangular(d[0], d[1], d[2], Measured(1)))
		b := mustGeometry(t)(Rectangular(d[1], d[0], d[2], Measured(1)))
		c := mustGeometry(t)(Rectangular(d[2], d[1], d[0], Measured(1)))
		if !approxEqual(a.SurfaceArea(), b.SurfaceArea(), tolerance) {
			t.Errorf("surface(%v) = %v, swapped L/W = %v", d, a.SurfaceArea(), b.SurfaceArea())
		}
		if !approxEqual(a.SurfaceArea(), c.SurfaceArea(), tolerance) {
			t.Errorf("surface(%v) = %v, swapped L/T = %v", d, a.SurfaceArea(), c.SurfaceArea())
		}
	}
}

func TestRectangularSurfaceIngot(t *testing.T) {
	g := mustGeometry(t)(Rectangular(535, 85, 75, Measured(25)))
	// 2(535*85 + 85*75 + 75*535) = 2(45475 + 6375 + 40125) = 183950
	if g.SurfaceArea() != 183950 {
		t.Errorf("surface = %v, want 183950", g.SurfaceArea())
	}
	if g.Mass() != 25e6 {
		t.Errorf("mass = %v mg, want 25e6", g.Mass())
	}
	ssa, err := g.SSA()
	if err != nil {
		t.Fatalf("SSA: %v", err)
	}
	if !approxEqual(ssa, 183950/25e6, tolerance) {
		t.Errorf("ssa = %v, want %v", ssa, 183950/25e6)
	}
}

func TestCubeIsRectangular(t *testing.T) {
	for _, s := range []float64{0.1, 1, 7.5, 42, 1000} {
		cube := mustGeometry(t)(Cube(s, FromDensity(LeadDensity)))
		box := mustGeometry(t)(Rectangular(s, s, s, FromDensity(LeadDensity)))
		if cube.SurfaceArea() != box.SurfaceArea() {
			t.Errorf("cube(%v) surface = %v, rectangular = %v", s, cube.SurfaceArea(), box.SurfaceArea())
		}
		if cube.Mass() != box.Mass() {
			t.Errorf("cube(%v) mass = %v, rectangular = %v", s, cube.Mass(), box.Mass())
		}
		if cube.Kind() != KindCube {
			t.Errorf("cube kind = %q", cube.Kind())
		}
	}
}

func TestSphereSurface(t *testing.T) {
	g := mustGeometry(t)(LeadSphere(2))
	if !approxEqual(g.SurfaceArea(), 4*math.Pi, tolerance) {
		t.Errorf("surface = %v, want 4π", g.SurfaceArea())
	}
}

// --- Mass and SSA ---

func TestSphereMassFromDensity(t *testing.T) {
	g := mustGeometry(t)(LeadSphere(10))
	// r = 0.5 cm, V = 4/3 π 0.125 cm³
	wantVol := 4.0 / 3.0 * math.Pi * 0.125
	if !approxEqual(g.Volume(), wantVol, tolerance) {
		t.Errorf("volume = %v cm³, want %v", g.Volume(), wantVol)
	}
	if !approxEqual(g.Mass(), wantVol*LeadDensity*1000, 1e-6) {
		t.Errorf("mass = %v mg, want %v", g.Mass(), wantVol*LeadDensity*1000)
	}
}

func TestSphereSSADecreasing(t *testing.T) {
	prev := math.Inf(1)
	for _, d := range []float64{0.01, 0.1, 0.5, 1, 2, 5, 10, 50, 100, 1000} {
		g := mustGeometry(t)(LeadSphere(d))
		ssa, err := g.SSA()
		if err != nil {
			t.Fatalf("SSA(d=%v): %v", d, err)
		}
		if !(ssa < prev) {
			t.Errorf("ssa(d=%v) = %v, not below previous %v", d, ssa, prev)
		}
		prev = ssa
	}
}

func TestReferenceSSA(t *testing.T) {
	ssa, err := ReferenceSSA(LeadDensity)
	if err != nil {
		t.Fatalf("ReferenceSSA: %v", err)
	}
	// SSA of a sphere is 6 / (d · ρ) in consistent units: 6 / (1 mm · 11.35 mg/mm³).
	want := 6 / (ReferenceDiameterMM * LeadDensity)
	if !approxEqual(ssa, want, 1e-12) {
		t.Errorf("reference ssa = %v, want %v", ssa, want)
	}
	if math.Abs(ssa-0.529) > 0.001 {
		t.Errorf("reference ssa = %v, want ~0.529", ssa)
	}
}

func TestRawRoundTrip(t *testing.T) {
	cases := []struct{ surface, volume, density float64 }{
		{100, 2, LeadDensity},
		{183950, 3410.625, 11.35},
		{0.5, 0.001, 7.87},
	}
	for _, c := range cases {
		g := mustGeometry(t)(Raw(c.surface, c.volume, FromDensity(c.density)))
		ssa, err := g.SSA()
		if err != nil {
			t.Fatalf("SSA: %v", err)
		}
		want := c.surface / (c.volume * c.density * 1000)
		if ssa != want {
			t.Errorf("raw(%v, %v, %v) ssa = %v, want %v", c.surface, c.volume, c.density, ssa, want)
		}
	}
}

func TestRawMeasuredWithoutVolume(t *testing.T) {
	g := mustGeometry(t)(Raw(500, 0, Measured(0.001)))
	ssa, err := g.SSA()
	if err != nil {
		t.Fatalf("SSA: %v", err)
	}
	if !approxEqual(ssa, 0.5, tolerance) {
		t.Errorf("ssa = %v, want 0.5", ssa)
	}
	if g.Volume() != 0 {
		t.Errorf("volume = %v, want 0", g.Volume())
	}
}

func TestSSARepeatable(t *testing.T) {
	g := mustGeometry(t)(Rectangular(12.5, 3.3, 0.7, FromDensity(LeadDensity)))
	a, _ := g.SSA()
	b, _ := g.SSA()
	if a != b {
		t.Errorf("repeated SSA differs: %v vs %v", a, b)
	}
}

// --- Errors ---

func TestSphereNegativeDiameter(t *testing.T) {
	_, err := LeadSphere(-1)
	if !errs.HasCode(err, errs.CodeInvalidInput) {
		t.Fatalf("expected invalid_input, got %v", err)
	}
	var e *errs.Error
	if !errors.As(err, &e) || e.Field != "diameter_mm" {
		t.Errorf("expected field diameter_mm, got %v", err)
	}
}

func TestInvalidDimensions(t *testing.T) {
	cases := []struct {
		name string
		fn   func() (Geometry, error)
	}{
		{"zero length", func() (Geometry, error) { return Rectangular(0, 1, 1, Measured(1)) }},
		{"negative width", func() (Geometry, error) { return Rectangular(1, -1, 1, Measured(1)) }},
		{"NaN thickness", func() (Geometry, error) { return Rectangular(1, 1, math.NaN(), Measured(1)) }},
		{"zero cube", func() (Geometry, error) { return Cube(0, Measured(1)) }},
		{"inf sphere", func() (Geometry, error) { return Sphere(math.Inf(1), FromDensity(LeadDensity)) }},
		{"zero mass", func() (Geometry, error) { return Rectangular(1, 1, 1, Measured(0)) }},
		{"negative density", func() (Geometry, error) { return Sphere(1, FromDensity(-11.35)) }},
		{"missing mass source", func() (Geometry, error) { return Cube(1, MassSpec{}) }},
		{"raw zero surface", func() (Geometry, error) { return Raw(0, 1, FromDensity(LeadDensity)) }},
		{"raw density without volume", func() (Geometry, error) { return Raw(10, 0, FromDensity(LeadDensity)) }},
		{"raw negative volume", func() (Geometry, error) { return Raw(10, -1, Measured(1)) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.fn()
			if !errs.HasCode(err, errs.CodeInvalidInput) {
				t.Errorf("expected invalid_input, got %v", err)
			}
		})
	}
}

func TestZeroGeometrySSA(t *testing.T) {
	var g Geometry
	_, err := g.SSA()
	if !errs.HasCode(err, errs.CodeDivisionByZero) {
		t.Errorf("expected division_by_zero, got %v", err)
	}
}

// --- Shape documents ---

func TestShapeBuild(t *testing.T) {
	s := Shape{Shape: "rectangular", LengthMM: 535, WidthMM: 85, ThicknessMM: 75, MassSource: "measured", MassKG: 25}
	g, err := s.Build(LeadDensity)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.Kind() != KindRectangular || g.Mass() != 25e6 {
		t.Errorf("got kind %q mass %v", g.Kind(), g.Mass())
	}
}

func TestShapeDensityDefault(t *testing.T) {
	s := Shape{Shape: "sphere", DiameterMM: 1, MassSource: "density"}
	g, err := s.Build(LeadDensity)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.MassSpec().Density != LeadDensity {
		t.Errorf("density = %v, want %v", g.MassSpec().Density, LeadDensity)
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		if got, err := ParseKind(string(k)); err != nil || got != k {
			t.Errorf("ParseKind(%q) = %q, %v", k, got, err)
		}
	}
	_, err := ParseKind("cylinder")
	if !errs.HasCode(err, errs.CodeInvalidInput) {
		t.Fatalf("err = %v, want invalid_input", err)
	}
	if !strings.Contains(err.Error(), "rectangular, cube, sphere or raw") {
		t.Errorf("error does not list the shapes: %v", err)
	}
}

func TestShapeExplicitDensity(t *testing.T) {
	g, err := Shape{Shape: "cube", SideMM: 10, MassSource: "density", DensityGCM3: ptr(7.14)}.Build(LeadDensity)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.MassSpec().Density != 7.14 {
		t.Errorf("density = %v, want 7.14", g.MassSpec().Density)
	}

	// A stated zero density is rejected, not replaced by the default.
	for _, d := range []float64{0, -11.35} {
		_, err := Shape{Shape: "cube", SideMM: 10, MassSource: "density", DensityGCM3: ptr(d)}.Build(LeadDensity)
		if !errs.HasCode(err, errs.CodeInvalidInput) {
			t.Errorf("density %v: err = %v, want invalid_input", d, err)
		}
	}
}

func ptr(v float64) *float64 { return &v }

func TestShapeRejectsAmbiguousMass(t *testing.T) {
	cases := []Shape{
		{Shape: "cube", SideMM: 1},
		{Shape: "cube", SideMM: 1, MassSource: "measured", MassKG: 1, DensityGCM3: ptr(11.35)},
		{Shape: "cube", SideMM: 1, MassSource: "density", MassKG: 1},
		{Shape: "cube", SideMM: 1, MassSource: "guess"},
		{Shape: "cylinder", SideMM: 1, MassSource: "measured", MassKG: 1},
	}
	for _, s := range cases {
		if _, err := s.Build(LeadDensity); !errs.HasCode(err, errs.CodeInvalidInput) {
			t.Errorf("Build(%+v) err = %v, want invalid_input", s, err)
		}
	}
}

func TestMeasure(t *testing.T) {
	g := mustGeometry(t)(Cube(10, FromDensity(LeadDensity)))
	f, err := Measure(g)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if f.SurfaceMM2 != 600 {
		t.Errorf("surface = %v, want 600", f.SurfaceMM2)
	}
	if !approxEqual(f.VolumeCM3, 1, tolerance) {
		t.Errorf("volume = %v, want 1", f.VolumeCM3)
	}
	if !approxEqual(f.MassMG, 11350, 1e-6) {
		t.Errorf("mass = %v, want 11350", f.MassMG)
	}
	if f.MassSource != "density" {
		t.Errorf("mass source = %q", f.MassSource)
	}
}
