// Package evaluation runs an assessment end to end: it builds the object
// geometry, resolves reference SSAs and ERVs from the dataset, classifies the
// object under each configured regime and records a calculation trace.
package evaluation

import (
	"fmt"

	"github.com/ChicagoDave/leadcsa/pkg/assessment"
	"github.com/ChicagoDave/leadcsa/pkg/classify"
	"github.com/ChicagoDave/leadcsa/pkg/erv"
	"github.com/ChicagoDave/leadcsa/pkg/geometry"
	"github.com/ChicagoDave/leadcsa/pkg/validation"
)

// Evaluate validates and evaluates an assessment against a dataset.
//
// A schema-invalid assessment returns a nil Result and the report. Calculation
// failures that slip past validation are returned as typed errors from the
// geometry and classify packages, wrapped with the regime that raised them.
func Evaluate(a *assessment.Assessment, ds *erv.Dataset) (*Result, *validation.Report, error) {
	report := validation.ValidateSchema(a, ds)
	if !report.Valid {
		return nil, report, nil
	}

	obj, err := a.Object.Build(ds.DensityGCM3)
	if err != nil {
		return nil, report, fmt.Errorf("object: %w", err)
	}
	figures, err := geometry.Measure(obj)
	if err != nil {
		return nil, report, fmt.Errorf("object: %w", err)
	}
	refSSA, err := ds.ReferenceSSA()
	if err != nil {
		return nil, report, fmt.Errorf("reference sphere: %w", err)
	}

	result := &Result{
		Name:      a.Name,
		Substance: ds.Substance,
		Object:    figures,
	}
	t := &tracer{}
	t.add("Object SSA = surface / mass = %.4f mm² / %.4f mg = %.6f mm²/mg",
		figures.SurfaceMM2, figures.MassMG, figures.SSA)
	t.add("Reference SSA (%g mm %s sphere) = %.4f mm²/mg", ds.ReferenceDiameterMM, ds.Substance, refSSA)

	if a.Simple != nil {
		out, err := evaluateSimple(a.Simple, figures.SSA, refSSA, ds, t)
		if err != nil {
			return nil, report, fmt.Errorf("simple: %w", err)
		}
		result.Simple = out
	}
	if a.Acute != nil {
		out, err := evaluateAcute(a.Acute, figures.SSA, refSSA, ds, t)
		if err != nil {
			return nil, report, fmt.Errorf("acute: %w", err)
		}
		result.Acute = out
	}
	if a.Chronic != nil {
		out, err := evaluateChronic(a.Chronic, figures.SSA, refSSA, ds, t)
		if err != nil {
			return nil, report, fmt.Errorf("chronic: %w", err)
		}
		result.Chronic = out
	}
	result.Trace = t.lines

	report.Merge(validateAnalytical(obj, result, ds))
	return result, report, nil
}

func evaluateSimple(s *assessment.SimpleSection, objectSSA, refSSA float64, ds *erv.Dataset, t *tracer) (*SimpleOutcome, error) {
	ervValue := s.ERV
	if s.PHBand != "" {
		v, err := ds.AcuteERV(s.PHBand)
		if err != nil {
			return nil, err
		}
		ervValue = v
	}
	loading, err := classify.ParseMassLoading(s.MassLoading)
	if err != nil {
		return nil, err
	}
	ref := orDefault(s.ReferenceSSA, refSSA)

	res, err := classify.Simple(classify.SimpleInput{
		ObjectSSA:    objectSSA,
		ReferenceSSA: ref,
		MassLoading:  loading,
		PbReleased:   s.PbReleased,
		ERV:          ervValue,
	})
	if err != nil {
		return nil, err
	}

	t.add("SAL = SSA_ref × mass_loading = %.4f × %g = %.4f", ref, s.MassLoading, res.SAL)
	t.add("CSA = (SAL / Pb_released) × ERV = (%.4f / %g) × %g = %.6f mm²/mg", res.SAL, s.PbReleased, ervValue, res.CSA)
	t.verdict("Simple", objectSSA, res.CSA, res.Verdict)

	return &SimpleOutcome{
		SimpleResult: res,
		ReferenceSSA: ref,
		MassLoading:  s.MassLoading,
		PbReleased:   s.PbReleased,
		ERV:          ervValue,
		PHBand:       s.PHBand,
	}, nil
}

func evaluateAcute(s *assessment.AcuteSection, objectSSA, refSSA float64, ds *erv.Dataset, t *tracer) (*AcuteOutcome, error) {
	ervValue := s.ERV
	if s.PHBand != "" {
		v, err := ds.AcuteERV(s.PHBand)
		if err != nil {
			return nil, err
		}
		ervValue = v
	}
	testSSA := orDefault(s.TestSSA, refSSA)

	res, err := classify.Acute(classify.AcuteInput{
		ObjectSSA:   objectSSA,
		TestSSA:     testSSA,
		ERV:         ervValue,
		PbReleased1: s.PbReleased1,
	})
	if err != nil {
		return nil, err
	}

	t.add("CSA_acute = (ERV / Pb_released_1) × SSA_test = (%g / %g) × %.4f = %.6f mm²/mg",
		ervValue, s.PbReleased1, testSSA, res.CSA)
	t.verdict("Acute", objectSSA, res.CSA, res.Verdict)

	return &AcuteOutcome{
		AcuteResult: res,
		TestSSA:     testSSA,
		PbReleased1: s.PbReleased1,
		ERV:         ervValue,
		PHBand:      s.PHBand,
	}, nil
}

func evaluateChronic(s *assessment.ChronicSection, objectSSA, refSSA float64, ds *erv.Dataset, t *tracer) (*ChronicOutcome, error) {
	ervValue := s.ERV
	placeholder := false
	if s.PHBand != "" {
		b, err := ds.ChronicERV(s.PHBand)
		if err != nil {
			return nil, err
		}
		ervValue = b.ERV
		placeholder = b.Placeholder
	}
	testSSA := orDefault(s.TestSSA, refSSA)

	res, err := classify.Chronic(classify.ChronicInput{
		ObjectSSA:    objectSSA,
		TestSSA:      testSSA,
		ERV:          ervValue,
		PbReleased01: s.PbReleased01,
		PbReleased1:  s.PbReleased1,
	})
	if err != nil {
		return nil, err
	}

	t.add("CSA_chronic(0.1 mg/L) = (ERV / Pb_released_01) × SSA_test = (%g / %g) × %.4f = %.6f mm²/mg",
		ervValue, s.PbReleased01, testSSA, res.CSA01)
	t.add("CSA_chronic(1 mg/L) = (ERV / Pb_released_1) × SSA_test = (%g / %g) × %.4f = %.6f mm²/mg",
		ervValue, s.PbReleased1, testSSA, res.CSA1)
	switch res.Verdict {
	case classify.VerdictChronic1:
		t.verdict("Chronic", objectSSA, res.CSA01, res.Verdict)
	default:
		t.verdict("Chronic", objectSSA, res.CSA1, res.Verdict)
	}

	return &ChronicOutcome{
		ChronicResult: res,
		TestSSA:       testSSA,
		PbReleased01:  s.PbReleased01,
		PbReleased1:   s.PbReleased1,
		ERV:           ervValue,
		PHBand:        s.PHBand,
		Placeholder:   placeholder,
	}, nil
}

// orDefault returns *v when the document states a value, else def.
func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

type tracer struct {
	lines []string
}

func (t *tracer) add(format string, args ...any) {
	t.lines = append(t.lines, fmt.Sprintf(format, args...))
}

func (t *tracer) verdict(regime string, ssa, csa float64, v classify.Verdict) {
	op := "≤"
	if ssa > csa {
		op = ">"
	}
	t.add("%s: object SSA %.6f %s CSA %.6f → %s", regime, ssa, op, csa, v)
}
