package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/ChicagoDave/leadcsa/pkg/assessment"
	"github.com/ChicagoDave/leadcsa/pkg/classify"
	"github.com/ChicagoDave/leadcsa/pkg/errs"
	"github.com/ChicagoDave/leadcsa/pkg/evaluation"
	"github.com/ChicagoDave/leadcsa/pkg/geometry"
)

var errInvalid = errors.New("assessment has validation errors")

// loadAssessment reads a project directory, a YAML file, or the default
// assessment when path is empty.
func loadAssessment(path string) (*assessment.Assessment, error) {
	if path == "" {
		return assessment.Default(), nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("loading assessment: %w", err)
	}
	if info.IsDir() {
		return assessment.LoadProject(path)
	}
	return assessment.Load(path)
}

func (a *app) runValidate(w io.Writer, path string) error {
	asmt, err := loadAssessment(path)
	if err != nil {
		return err
	}
	_, report, err := evaluation.Evaluate(asmt, a.dataset)
	if err != nil {
		return err
	}

	printValidationReport(w, report)
	if !report.Valid {
		return errInvalid
	}
	return nil
}

// selectRegimes drops the sections of regimes not named. An empty selection
// keeps every section; naming a regime the assessment lacks is an error.
func selectRegimes(asmt *assessment.Assessment, names []string) error {
	if len(names) == 0 {
		return nil
	}
	keep := make(map[classify.Regime]bool, len(names))
	for _, n := range names {
		r, err := classify.ParseRegime(strings.TrimSpace(n))
		if err != nil {
			return err
		}
		keep[r] = true
	}

	present := map[classify.Regime]bool{
		classify.RegimeSimple:  asmt.Simple != nil,
		classify.RegimeAcute:   asmt.Acute != nil,
		classify.RegimeChronic: asmt.Chronic != nil,
	}
	for r := range keep {
		if !present[r] {
			return errs.Newf(errs.CodeInvalidInput, "assessment has no %s section", r)
		}
	}

	if !keep[classify.RegimeSimple] {
		asmt.Simple = nil
	}
	if !keep[classify.RegimeAcute] {
		asmt.Acute = nil
	}
	if !keep[classify.RegimeChronic] {
		asmt.Chronic = nil
	}
	return nil
}

func (a *app) runClassify(w io.Writer, path string, regimes []string, asJSON bool) error {
	asmt, err := loadAssessment(path)
	if err != nil {
		return err
	}
	if err := selectRegimes(asmt, regimes); err != nil {
		return err
	}
	result, report, err := evaluation.Evaluate(asmt, a.dataset)
	if err != nil {
		return err
	}
	a.logger.Debug("assessment evaluated",
		zap.String("name", asmt.Name),
		zap.Bool("valid", report.Valid),
		zap.String("summary", report.Summary))

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]any{
			"result":     result,
			"validation": report,
		}); err != nil {
			return err
		}
		if !report.Valid {
			return errInvalid
		}
		return nil
	}

	if !report.Valid {
		printValidationReport(w, report)
		return errInvalid
	}
	printResult(w, result)
	if len(report.Warnings) > 0 || len(report.Info) > 0 {
		fmt.Fprintln(w)
		printValidationReport(w, report)
	}
	return nil
}

func (a *app) runGeometry(w io.Writer, shape geometry.Shape) error {
	g, err := shape.Build(a.dataset.DensityGCM3)
	if err != nil {
		return err
	}
	figures, err := geometry.Measure(g)
	if err != nil {
		return err
	}
	printFigures(w, figures)
	return nil
}

// shapeFlags collects geometry command flags. A measured mass selects the
// measured source; otherwise mass derives from density. The set fields record
// whether a flag was given, so an explicit zero reaches validation.
type shapeFlags struct {
	kind string

	length, width, thickness float64
	side, diameter           float64
	surface, volume          float64
	massKG, density          float64

	massSet, densitySet bool
}

func (f shapeFlags) toShape() geometry.Shape {
	s := geometry.Shape{
		Shape:       f.kind,
		LengthMM:    f.length,
		WidthMM:     f.width,
		ThicknessMM: f.thickness,
		SideMM:      f.side,
		DiameterMM:  f.diameter,
		SurfaceMM2:  f.surface,
		VolumeCM3:   f.volume,
		MassSource:  string(geometry.MassFromDensity),
	}
	if f.densitySet {
		d := f.density
		s.DensityGCM3 = &d
	}
	if f.massSet {
		s.MassSource = string(geometry.MassMeasured)
		s.MassKG = f.massKG
	}
	return s
}
