package assessment

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadProject(t *testing.T) {
	a, err := LoadProject("../../examples/ingot")
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}

	if a.Name != "Lead ingot 25 kg" {
		t.Errorf("name = %q", a.Name)
	}
	if a.Object.Shape != "rectangular" {
		t.Errorf("shape = %q, want %q", a.Object.Shape, "rectangular")
	}
	if a.Object.LengthMM != 535 || a.Object.WidthMM != 85 || a.Object.ThicknessMM != 75 {
		t.Errorf("dimensions = %v×%v×%v, want 535×85×75", a.Object.LengthMM, a.Object.WidthMM, a.Object.ThicknessMM)
	}
	if a.Object.MassSource != "measured" || a.Object.MassKG != 25 {
		t.Errorf("mass = %s %v, want measured 25", a.Object.MassSource, a.Object.MassKG)
	}

	if a.Simple == nil {
		t.Fatal("missing simple section")
	}
	if a.Simple.PHBand != "5.5–6.5" {
		t.Errorf("ph_band = %q, want %q", a.Simple.PHBand, "5.5–6.5")
	}
	if a.Simple.MassLoading != 1.0 {
		t.Errorf("mass_loading = %v, want 1.0", a.Simple.MassLoading)
	}
	if a.Simple.PbReleased != 121.3 {
		t.Errorf("pb_released = %v, want 121.3", a.Simple.PbReleased)
	}
	if a.Acute != nil || a.Chronic != nil {
		t.Error("expected only the simple regime")
	}
}

func TestLoadProjectAcuteChronic(t *testing.T) {
	a, err := LoadProject("../../examples/acute-chronic")
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}
	if a.Acute == nil || a.Chronic == nil {
		t.Fatal("expected acute and chronic sections")
	}
	if a.Acute.ERV != 6.2 || a.Acute.PbReleased1 != 52.1 || a.Acute.TestSSA == nil || *a.Acute.TestSSA != 0.529 {
		t.Errorf("acute = %+v", a.Acute)
	}
	if a.Chronic.PbReleased01 != 20.0 || a.Chronic.PbReleased1 != 52.1 {
		t.Errorf("chronic = %+v", a.Chronic)
	}
	if a.Object.MassSource != "density" || a.Object.DensityGCM3 != nil {
		t.Errorf("object mass = %s %v", a.Object.MassSource, a.Object.DensityGCM3)
	}
}

func TestLoadProjectMissing(t *testing.T) {
	_, err := LoadProject("/nonexistent/path")
	if err == nil {
		t.Error("expected error for missing project directory")
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	// test_ssa is a typo for test_ssa_mm2_mg; silently dropping it would
	// evaluate against the reference sphere.
	data := []byte(`object:
  shape: sphere
  diameter_mm: 2
  mass_source: density
acute:
  erv_ug_l: 6.2
  test_ssa: 0.05
  pb_released_1_ug_l: 52.1
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unknown key test_ssa")
	}
	if !strings.Contains(err.Error(), "test_ssa") {
		t.Errorf("error should name the key: %v", err)
	}
}

func TestLoadExplicitZeroKept(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	data := []byte(`object:
  shape: cube
  side_mm: 10
  mass_source: density
  density_g_cm3: 0
simple:
  ph_band: "5.5–6.5"
  mass_loading_mg_l: 1.0
  pb_released_ug_l: 121.3
  reference_ssa_mm2_mg: 0
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	a, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if a.Object.DensityGCM3 == nil || *a.Object.DensityGCM3 != 0 {
		t.Errorf("density = %v, want explicit 0", a.Object.DensityGCM3)
	}
	if a.Simple.ReferenceSSA == nil || *a.Simple.ReferenceSSA != 0 {
		t.Errorf("reference SSA = %v, want explicit 0", a.Simple.ReferenceSSA)
	}
}

func TestDecodeJSON(t *testing.T) {
	body := `{
		"name": "cube",
		"object": {"shape": "cube", "side_mm": 10, "mass_source": "density", "density_g_cm3": 11.35},
		"acute": {"ph_band": "6.5–7.5", "pb_released_1_ug_l": 52.1}
	}`
	a, err := Decode(strings.NewReader(body))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if a.Object.SideMM != 10 {
		t.Errorf("side_mm = %v, want 10", a.Object.SideMM)
	}
	if a.Acute == nil || a.Acute.PHBand != "6.5–7.5" {
		t.Errorf("acute = %+v", a.Acute)
	}
	if !a.HasRegime() {
		t.Error("expected HasRegime")
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"object": {"shape": "cube", "edge": 3}}`))
	if err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestDefault(t *testing.T) {
	a := Default()
	if a.Simple == nil || a.Simple.PbReleased != 121.3 {
		t.Errorf("default simple = %+v", a.Simple)
	}
	if a.Object.MassKG != 25 {
		t.Errorf("default mass = %v, want 25", a.Object.MassKG)
	}
}
