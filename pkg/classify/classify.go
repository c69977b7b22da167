// Package classify computes critical SSA thresholds from T/Dp dissolution data
// and classifies an object's SSA against them.
//
// Three regimes are supported:
//
//   - simple:  CSA = (SSA_ref × loading / Pb_released) × ERV; UN 3077 above it.
//   - acute:   CSA = (ERV / Pb_released@1mg/L) × SSA_test; Acute 1 above it.
//   - chronic: thresholds at 0.1 and 1 mg/L; Chronic 1 above the 0.1 mg/L
//     threshold, else Chronic 2 above the 1 mg/L threshold.
//
// All comparisons are strict: an object exactly at a threshold takes the lower
// class. Every result carries its intermediate values.
package classify

import (
	"math"

	"github.com/ChicagoDave/leadcsa/pkg/errs"
)

// Verdict is a classification outcome.
type Verdict string

const (
	VerdictHazardous     Verdict = "UN 3077"
	VerdictAcute1        Verdict = "Acute 1"
	VerdictChronic1      Verdict = "Chronic 1"
	VerdictChronic2      Verdict = "Chronic 2"
	VerdictNotClassified Verdict = "Not classified"
)

// Classified reports whether v carries a hazard class.
func (v Verdict) Classified() bool {
	switch v {
	case VerdictHazardous, VerdictAcute1, VerdictChronic1, VerdictChronic2:
		return true
	}
	return false
}

// Regime selects the threshold rule.
type Regime string

const (
	RegimeSimple  Regime = "simple"
	RegimeAcute   Regime = "acute"
	RegimeChronic Regime = "chronic"
)

// Regimes lists every regime in evaluation order.
var Regimes = []Regime{RegimeSimple, RegimeAcute, RegimeChronic}

// ParseRegime validates a regime name.
func ParseRegime(s string) (Regime, error) {
	r := Regime(s)
	switch r {
	case RegimeSimple, RegimeAcute, RegimeChronic:
		return r, nil
	}
	return "", errs.Newf(errs.CodeInvalidInput, "unknown regime %q", s)
}

// Threshold returns the critical SSA for one mass-loading condition:
// (ERV / Pb_released) × SSA_test.
func Threshold(erv, pbReleased, ssaTest float64) (float64, error) {
	if err := positive("ssa_test", ssaTest); err != nil {
		return 0, err
	}
	if err := positive("erv", erv); err != nil {
		return 0, err
	}
	if err := denominator("pb_released", pbReleased); err != nil {
		return 0, err
	}
	return (erv / pbReleased) * ssaTest, nil
}

// CriticalSSA returns the surface-area loading SAL = SSA_ref × loading and the
// threshold CSA = (SAL / Pb_released) × ERV.
func CriticalSSA(ssaRef float64, loading MassLoading, pbReleased, erv float64) (sal, csa float64, err error) {
	if err := positive("ssa_reference", ssaRef); err != nil {
		return 0, 0, err
	}
	if err := loading.Validate(); err != nil {
		return 0, 0, err
	}
	if err := positive("erv", erv); err != nil {
		return 0, 0, err
	}
	if err := denominator("pb_released", pbReleased); err != nil {
		return 0, 0, err
	}
	sal = ssaRef * float64(loading)
	csa = (sal / pbReleased) * erv
	return sal, csa, nil
}

// SimpleInput is the single-threshold evaluation input.
type SimpleInput struct {
	ObjectSSA    float64     `json:"object_ssa_mm2_mg"`
	ReferenceSSA float64     `json:"reference_ssa_mm2_mg"`
	MassLoading  MassLoading `json:"mass_loading_mg_l"`
	PbReleased   float64     `json:"pb_released_ug_l"`
	ERV          float64     `json:"erv_ug_l"`
}

// SimpleResult carries the SAL, the CSA and the verdict.
type SimpleResult struct {
	SAL     float64 `json:"sal"`
	CSA     float64 `json:"csa_mm2_mg"`
	Verdict Verdict `json:"verdict"`
}

// Simple classifies an object as UN 3077 when its SSA exceeds the CSA.
func Simple(in SimpleInput) (SimpleResult, error) {
	if err := positive("object_ssa", in.ObjectSSA); err != nil {
		return SimpleResult{}, err
	}
	sal, csa, err := CriticalSSA(in.ReferenceSSA, in.MassLoading, in.PbReleased, in.ERV)
	if err != nil {
		return SimpleResult{}, err
	}
	v := VerdictNotClassified
	if in.ObjectSSA > csa {
		v = VerdictHazardous
	}
	return SimpleResult{SAL: sal, CSA: csa, Verdict: v}, nil
}

// AcuteInput is the acute evaluation input. Only the 1 mg/L loading applies.
type AcuteInput struct {
	ObjectSSA   float64 `json:"object_ssa_mm2_mg"`
	TestSSA     float64 `json:"test_ssa_mm2_mg"`
	ERV         float64 `json:"erv_ug_l"`
	PbReleased1 float64 `json:"pb_released_1_ug_l"`
}

// AcuteResult carries the acute threshold and verdict.
type AcuteResult struct {
	CSA     float64 `json:"csa_acute_mm2_mg"`
	Verdict Verdict `json:"verdict"`
}

// Acute classifies an object as Acute 1 when its SSA exceeds the 1 mg/L threshold.
func Acute(in AcuteInput) (AcuteResult, error) {
	if err := positive("object_ssa", in.ObjectSSA); err != nil {
		return AcuteResult{}, err
	}
	csa, err := Threshold(in.ERV, in.PbReleased1, in.TestSSA)
	if err != nil {
		return AcuteResult{}, err
	}
	v := VerdictNotClassified
	if in.ObjectSSA > csa {
		v = VerdictAcute1
	}
	return AcuteResult{CSA: csa, Verdict: v}, nil
}

// ChronicInput is the chronic evaluation input. Each loading carries its own
// measured Pb release.
type ChronicInput struct {
	ObjectSSA    float64 `json:"object_ssa_mm2_mg"`
	TestSSA      float64 `json:"test_ssa_mm2_mg"`
	ERV          float64 `json:"erv_ug_l"`
	PbReleased01 float64 `json:"pb_released_01_ug_l"`
	PbReleased1  float64 `json:"pb_released_1_ug_l"`
}

// ChronicResult carries both chronic thresholds and the verdict.
type ChronicResult struct {
	CSA01   float64 `json:"csa_chronic_01_mm2_mg"`
	CSA1    float64 `json:"csa_chronic_1_mm2_mg"`
	Verdict Verdict `json:"verdict"`
}

// Chronic checks the 0.1 mg/L threshold first (Chronic 1), then the 1 mg/L
// threshold (Chronic 2). The relative order of the two thresholds is not assumed.
func Chronic(in ChronicInput) (ChronicResult, error) {
	if err := positive("object_ssa", in.ObjectSSA); err != nil {
		return ChronicResult{}, err
	}
	csa01, err := Threshold(in.ERV, in.PbReleased01, in.TestSSA)
	if err != nil {
		return ChronicResult{}, withField(err, "pb_released_01")
	}
	csa1, err := Threshold(in.ERV, in.PbReleased1, in.TestSSA)
	if err != nil {
		return ChronicResult{}, withField(err, "pb_released_1")
	}

	v := VerdictNotClassified
	switch {
	case in.ObjectSSA > csa01:
		v = VerdictChronic1
	case in.ObjectSSA > csa1:
		v = VerdictChronic2
	}
	return ChronicResult{CSA01: csa01, CSA1: csa1, Verdict: v}, nil
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

// denominator rejects values the threshold formula divides by.
func denominator(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errs.Field(errs.CodeInvalidInput, field, v, "must be a finite number")
	}
	if v <= 0 {
		return errs.Field(errs.CodeDivisionByZero, field, v, "must be > 0")
	}
	return nil
}

// withField renames the pb_released field for the loading that failed.
func withField(err error, field string) error {
	e, ok := err.(*errs.Error)
	if !ok || e.Field != "pb_released" {
		return err
	}
	c := *e
	c.Field = field
	return &c
}
