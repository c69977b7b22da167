package assessment

import "github.com/ChicagoDave/leadcsa/pkg/geometry"

// Assessment is one object to classify together with its dissolution-test data.
// Regime sections are optional; each present section is evaluated.
type Assessment struct {
	Name    string          `yaml:"name" json:"name"`
	Object  geometry.Shape  `yaml:"object" json:"object"`
	Simple  *SimpleSection  `yaml:"simple,omitempty" json:"simple,omitempty"`
	Acute   *AcuteSection   `yaml:"acute,omitempty" json:"acute,omitempty"`
	Chronic *ChronicSection `yaml:"chronic,omitempty" json:"chronic,omitempty"`
}

// ERVSource names an ERV either directly or by pH band in the dataset.
// Exactly one of the two must be set.
type ERVSource struct {
	PHBand string  `yaml:"ph_band,omitempty" json:"ph_band,omitempty"`
	ERV    float64 `yaml:"erv_ug_l,omitempty" json:"erv_ug_l,omitempty"`
}

// SimpleSection holds the single-threshold CSA inputs. An absent ReferenceSSA
// selects the dataset's reference sphere.
type SimpleSection struct {
	ERVSource    `yaml:",inline"`
	MassLoading  float64  `yaml:"mass_loading_mg_l" json:"mass_loading_mg_l"`
	PbReleased   float64  `yaml:"pb_released_ug_l" json:"pb_released_ug_l"`
	ReferenceSSA *float64 `yaml:"reference_ssa_mm2_mg,omitempty" json:"reference_ssa_mm2_mg,omitempty"`
}

// AcuteSection holds the acute inputs at 1 mg/L. An absent TestSSA selects the
// dataset's reference sphere.
type AcuteSection struct {
	ERVSource   `yaml:",inline"`
	TestSSA     *float64 `yaml:"test_ssa_mm2_mg,omitempty" json:"test_ssa_mm2_mg,omitempty"`
	PbReleased1 float64  `yaml:"pb_released_1_ug_l" json:"pb_released_1_ug_l"`
}

// ChronicSection holds the chronic inputs at 0.1 and 1 mg/L.
type ChronicSection struct {
	ERVSource    `yaml:",inline"`
	TestSSA      *float64 `yaml:"test_ssa_mm2_mg,omitempty" json:"test_ssa_mm2_mg,omitempty"`
	PbReleased01 float64  `yaml:"pb_released_01_ug_l" json:"pb_released_01_ug_l"`
	PbReleased1  float64  `yaml:"pb_released_1_ug_l" json:"pb_released_1_ug_l"`
}

// HasRegime reports whether any regime section is present.
func (a *Assessment) HasRegime() bool {
	return a.Simple != nil || a.Acute != nil || a.Chronic != nil
}
