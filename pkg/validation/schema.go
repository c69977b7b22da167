package validation

import (
	"fmt"
	"math"

	"github.com/ChicagoDave/leadcsa/pkg/assessment"
	"github.com/ChicagoDave/leadcsa/pkg/classify"
	"github.com/ChicagoDave/leadcsa/pkg/errs"
	"github.com/ChicagoDave/leadcsa/pkg/erv"
	"github.com/ChicagoDave/leadcsa/pkg/geometry"
)

// ValidateSchema performs schema validation on a parsed Assessment.
// It checks structural correctness before any computation.
func ValidateSchema(a *assessment.Assessment, ds *erv.Dataset) *Report {
	r := NewReport()

	validateObject(a.Object, r)
	validateRegimes(a, r)
	if a.Simple != nil {
		validateSimple(a.Simple, ds, r)
	}
	if a.Acute != nil {
		validateAcute(a.Acute, ds, r)
	}
	if a.Chronic != nil {
		validateChronic(a.Chronic, ds, r)
	}

	return r
}

func validateObject(s geometry.Shape, r *Report) {
	kind, err := geometry.ParseKind(s.Shape)
	if err != nil {
		r.AddError(Result{
			Level:       LevelSchema,
			Code:        errs.CodeInvalidInput,
			Message:     fmt.Sprintf("unknown shape %q", s.Shape),
			Path:        "object.shape",
			ActualValue: s.Shape,
			Expected:    geometry.KindList(),
		})
		return
	}

	switch kind {
	case geometry.KindRectangular:
		requirePositive(r, "object.length_mm", s.LengthMM)
		requirePositive(r, "object.width_mm", s.WidthMM)
		requirePositive(r, "object.thickness_mm", s.ThicknessMM)
	case geometry.KindCube:
		requirePositive(r, "object.side_mm", s.SideMM)
	case geometry.KindSphere:
		requirePositive(r, "object.diameter_mm", s.DiameterMM)
	case geometry.KindRaw:
		requirePositive(r, "object.surface_mm2", s.SurfaceMM2)
		if geometry.MassSource(s.MassSource) == geometry.MassFromDensity || s.VolumeCM3 != 0 {
			requirePositive(r, "object.volume_cm3", s.VolumeCM3)
		}
	}

	switch geometry.MassSource(s.MassSource) {
	case geometry.MassMeasured:
		requirePositive(r, "object.mass_kg", s.MassKG)
		if s.DensityGCM3 != nil {
			r.AddError(Result{
				Level:        LevelSchema,
				Code:         errs.CodeInvalidInput,
				Message:      "density_g_cm3 must not be set when mass_source is measured",
				Path:         "object.density_g_cm3",
				ActualValue:  *s.DensityGCM3,
				ConflictWith: "object.mass_source",
			})
		}
	case geometry.MassFromDensity:
		optionalPositive(r, "object.density_g_cm3", s.DensityGCM3)
		if s.MassKG != 0 {
			r.AddError(Result{
				Level:        LevelSchema,
				Code:         errs.CodeInvalidInput,
				Message:      "mass_kg must not be set when mass_source is density",
				Path:         "object.mass_kg",
				ActualValue:  s.MassKG,
				ConflictWith: "object.mass_source",
			})
		}
	default:
		r.AddError(Result{
			Level:       LevelSchema,
			Code:        errs.CodeInvalidInput,
			Message:     "mass_source must state where the object mass comes from",
			Path:        "object.mass_source",
			ActualValue: s.MassSource,
			Expected:    "measured or density",
			Suggestions: []string{
				"Use measured with mass_kg for a weighed object",
				"Use density to derive mass from the shape volume",
			},
		})
	}
}

func validateRegimes(a *assessment.Assessment, r *Report) {
	if !a.HasRegime() {
		r.AddError(Result{
			Level:    LevelSchema,
			Code:     errs.CodeInvalidInput,
			Message:  "assessment must contain at least one regime section",
			Path:     "",
			Expected: "simple, acute or chronic",
		})
	}
}

func validateSimple(s *assessment.SimpleSection, ds *erv.Dataset, r *Report) {
	validateERVSource(r, "simple", s.ERVSource, ds.Acute)
	if _, err := classify.ParseMassLoading(s.MassLoading); err != nil {
		r.AddError(Result{
			Level:       LevelSchema,
			Code:        errs.CodeInvalidInput,
			Message:     fmt.Sprintf("mass loading %g mg/L is not a sanctioned T/Dp loading", s.MassLoading),
			Path:        "simple.mass_loading_mg_l",
			ActualValue: s.MassLoading,
			Expected:    "1.0 or 0.1",
		})
	}
	requireDenominator(r, "simple.pb_released_ug_l", s.PbReleased)
	optionalPositive(r, "simple.reference_ssa_mm2_mg", s.ReferenceSSA)
}

func validateAcute(s *assessment.AcuteSection, ds *erv.Dataset, r *Report) {
	validateERVSource(r, "acute", s.ERVSource, ds.Acute)
	requireDenominator(r, "acute.pb_released_1_ug_l", s.PbReleased1)
	optionalPositive(r, "acute.test_ssa_mm2_mg", s.TestSSA)
}

func validateChronic(s *assessment.ChronicSection, ds *erv.Dataset, r *Report) {
	validateERVSource(r, "chronic", s.ERVSource, ds.Chronic)
	requireDenominator(r, "chronic.pb_released_01_ug_l", s.PbReleased01)
	requireDenominator(r, "chronic.pb_released_1_ug_l", s.PbReleased1)
	optionalPositive(r, "chronic.test_ssa_mm2_mg", s.TestSSA)
}

// validateERVSource requires exactly one of ph_band and erv_ug_l.
func validateERVSource(r *Report, section string, src assessment.ERVSource, table erv.Table) {
	switch {
	case src.PHBand != "" && src.ERV != 0:
		r.AddError(Result{
			Level:        LevelSchema,
			Code:         errs.CodeInvalidInput,
			Message:      fmt.Sprintf("%s: ERV given both by pH band and by value", section),
			Path:         section + ".erv_ug_l",
			ActualValue:  src.ERV,
			ConflictWith: section + ".ph_band",
			Suggestions:  []string{"Remove either ph_band or erv_ug_l"},
		})
	case src.PHBand != "":
		if _, err := table.Lookup(src.PHBand); err != nil {
			r.AddError(Result{
				Level:       LevelSchema,
				Code:        errs.CodeInvalidInput,
				Message:     fmt.Sprintf("%s: unknown pH band %q", section, src.PHBand),
				Path:        section + ".ph_band",
				ActualValue: src.PHBand,
				Suggestions: bandSuggestions(table),
			})
		}
	case src.ERV != 0:
		requirePositive(r, section+".erv_ug_l", src.ERV)
	default:
		r.AddError(Result{
			Level:    LevelSchema,
			Code:     errs.CodeInvalidInput,
			Message:  fmt.Sprintf("%s: an ERV is required", section),
			Path:     section + ".ph_band",
			Expected: "ph_band or erv_ug_l",
		})
	}
}

func bandSuggestions(table erv.Table) []string {
	if len(table) == 0 {
		return []string{"The dataset has no bands for this regime; give erv_ug_l directly"}
	}
	out := make([]string, 0, len(table))
	for _, k := range table.Keys() {
		out = append(out, fmt.Sprintf("Use ph_band %q", k))
	}
	return out
}

func requirePositive(r *Report, path string, v float64) {
	if v > 0 && !math.IsInf(v, 0) {
		return
	}
	r.AddError(Result{
		Level:       LevelSchema,
		Code:        errs.CodeInvalidInput,
		Message:     fmt.Sprintf("%s must be > 0", path),
		Path:        path,
		ActualValue: v,
		Expected:    "> 0",
	})
}

// optionalPositive skips an absent value, which selects the default. A value
// that is present must be positive, zero included.
func optionalPositive(r *Report, path string, v *float64) {
	if v != nil {
		requirePositive(r, path, *v)
	}
}

func requireDenominator(r *Report, path string, v float64) {
	if v > 0 && !math.IsInf(v, 0) {
		return
	}
	r.AddError(Result{
		Level:       LevelSchema,
		Code:        errs.CodeDivisionByZero,
		Message:     fmt.Sprintf("%s must be > 0; the threshold divides by it", path),
		Path:        path,
		ActualValue: v,
		Expected:    "> 0",
	})
}
