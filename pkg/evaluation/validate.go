package evaluation

import (
	"fmt"
	"math"

	"github.com/ChicagoDave/leadcsa/pkg/erv"
	"github.com/ChicagoDave/leadcsa/pkg/geometry"
	"github.com/ChicagoDave/leadcsa/pkg/validation"
)

const (
	// boundaryMargin is the relative distance to a threshold under which a
	// verdict is flagged as boundary-sensitive.
	boundaryMargin = 0.05

	// massMismatch is the relative gap between a measured mass and the
	// density estimate above which the geometry is flagged.
	massMismatch = 0.10
)

// validateAnalytical returns the post-evaluation findings for a result.
func validateAnalytical(obj geometry.Geometry, res *Result, ds *erv.Dataset) *validation.Report {
	report := validation.NewReport()
	validateBoundaries(res, report)
	validateChronicData(res, report)
	validateMeasuredMass(obj, ds, report)
	return report
}

func validateBoundaries(res *Result, report *validation.Report) {
	ssa := res.Object.SSA
	check := func(path, label string, csa float64) {
		if csa <= 0 {
			return
		}
		rel := math.Abs(ssa-csa) / csa
		if rel >= boundaryMargin {
			return
		}
		report.AddInfo(validation.Result{
			Level:       validation.LevelAnalytical,
			Message:     fmt.Sprintf("object SSA %.6f is within %.1f%% of the %s threshold %.6f; the verdict is boundary-sensitive (equality is not classified)", ssa, rel*100, label, csa),
			Path:        path,
			ActualValue: ssa,
		})
	}

	if res.Simple != nil {
		check("simple", "simple CSA", res.Simple.CSA)
	}
	if res.Acute != nil {
		check("acute", "acute", res.Acute.CSA)
	}
	if res.Chronic != nil {
		check("chronic", "chronic 0.1 mg/L", res.Chronic.CSA01)
		check("chronic", "chronic 1 mg/L", res.Chronic.CSA1)
	}
}

func validateChronicData(res *Result, report *validation.Report) {
	c := res.Chronic
	if c == nil {
		return
	}
	if c.Placeholder {
		report.AddWarning(validation.Result{
			Level:       validation.LevelAnalytical,
			Message:     fmt.Sprintf("chronic ERV %g µg/L for pH band %q is a placeholder value", c.ERV, c.PHBand),
			Path:        "chronic.ph_band",
			ActualValue: c.ERV,
			Suggestions: []string{"Supply the regulatory chronic ERV with erv_ug_l or an alternate dataset"},
		})
	}
	if c.CSA01 < c.CSA1 {
		report.AddInfo(validation.Result{
			Level:   validation.LevelAnalytical,
			Message: fmt.Sprintf("chronic 0.1 mg/L threshold %.6f is below the 1 mg/L threshold %.6f; Chronic 2 is unreachable", c.CSA01, c.CSA1),
			Path:    "chronic",
		})
	}
}

// validateMeasuredMass compares a weighed mass against the mass the shape
// would have at the dataset density.
func validateMeasuredMass(obj geometry.Geometry, ds *erv.Dataset, report *validation.Report) {
	if obj.MassSpec().Source != geometry.MassMeasured {
		return
	}
	estimate := obj.Volume() * ds.DensityGCM3 * geometry.MGPerG
	if estimate <= 0 {
		return
	}
	measured := obj.Mass()
	rel := (measured - estimate) / estimate
	if math.Abs(rel) <= massMismatch {
		return
	}
	report.AddInfo(validation.Result{
		Level:       validation.LevelAnalytical,
		Message:     fmt.Sprintf("measured mass %.1f g differs by %+.0f%% from the %s density estimate %.1f g; the object may be tapered, hollow or alloyed", measured/geometry.MGPerG, rel*100, ds.Substance, estimate/geometry.MGPerG),
		Path:        "object.mass_kg",
		ActualValue: measured / geometry.MGPerKG,
	})
}
