package evaluation

import (
	"github.com/ChicagoDave/leadcsa/pkg/classify"
	"github.com/ChicagoDave/leadcsa/pkg/geometry"
)

// SimpleOutcome is the simple-regime result with the inputs that produced it.
type SimpleOutcome struct {
	classify.SimpleResult
	ReferenceSSA float64 `json:"reference_ssa_mm2_mg"`
	MassLoading  float64 `json:"mass_loading_mg_l"`
	PbReleased   float64 `json:"pb_released_ug_l"`
	ERV          float64 `json:"erv_ug_l"`
	PHBand       string  `json:"ph_band,omitempty"`
}

// AcuteOutcome is the acute-regime result with its inputs.
type AcuteOutcome struct {
	classify.AcuteResult
	TestSSA     float64 `json:"test_ssa_mm2_mg"`
	PbReleased1 float64 `json:"pb_released_1_ug_l"`
	ERV         float64 `json:"erv_ug_l"`
	PHBand      string  `json:"ph_band,omitempty"`
}

// ChronicOutcome is the chronic-regime result with its inputs.
type ChronicOutcome struct {
	classify.ChronicResult
	TestSSA      float64 `json:"test_ssa_mm2_mg"`
	PbReleased01 float64 `json:"pb_released_01_ug_l"`
	PbReleased1  float64 `json:"pb_released_1_ug_l"`
	ERV          float64 `json:"erv_ug_l"`
	PHBand       string  `json:"ph_band,omitempty"`
	Placeholder  bool    `json:"erv_placeholder,omitempty"`
}

// Result is the complete evaluation of one assessment.
type Result struct {
	Name      string           `json:"name"`
	Substance string           `json:"substance"`
	Object    geometry.Figures `json:"object"`

	Simple  *SimpleOutcome  `json:"simple,omitempty"`
	Acute   *AcuteOutcome   `json:"acute,omitempty"`
	Chronic *ChronicOutcome `json:"chronic,omitempty"`

	// Trace lists the calculation steps in display order.
	Trace []string `json:"trace"`
}

// Verdicts returns the verdict of each evaluated regime.
func (r *Result) Verdicts() map[classify.Regime]classify.Verdict {
	out := make(map[classify.Regime]classify.Verdict, 3)
	if r.Simple != nil {
		out[classify.RegimeSimple] = r.Simple.Verdict
	}
	if r.Acute != nil {
		out[classify.RegimeAcute] = r.Acute.Verdict
	}
	if r.Chronic != nil {
		out[classify.RegimeChronic] = r.Chronic.Verdict
	}
	return out
}
