package main

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ChicagoDave/leadcsa/pkg/erv"
	"github.com/ChicagoDave/leadcsa/pkg/evaluation"
	"github.com/ChicagoDave/leadcsa/pkg/geometry"
	"github.com/ChicagoDave/leadcsa/pkg/validation"
)

func printValidationReport(w io.Writer, r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Fprintf(w, "ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Fprintf(w, "  [%s] %s\n", e.Level, e.Message)
			if e.Path != "" {
				fmt.Fprintf(w, "    -> %s = %v\n", e.Path, e.ActualValue)
			}
			if e.Expected != "" {
				fmt.Fprintf(w, "    expected: %s\n", e.Expected)
			}
			if e.ConflictWith != "" {
				fmt.Fprintf(w, "    conflicts with: %s\n", e.ConflictWith)
			}
			for _, s := range e.Suggestions {
				fmt.Fprintf(w, "    * %s\n", s)
			}
		}
		fmt.Fprintln(w)
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(w, "WARNINGS (%d):\n", len(r.Warnings))
		for _, wr := range r.Warnings {
			fmt.Fprintf(w, "  [%s] %s\n", wr.Level, wr.Message)
			if wr.Path != "" {
				fmt.Fprintf(w, "    -> %s = %v\n", wr.Path, wr.ActualValue)
			}
			for _, s := range wr.Suggestions {
				fmt.Fprintf(w, "    * %s\n", s)
			}
		}
		fmt.Fprintln(w)
	}

	if len(r.Info) > 0 {
		fmt.Fprintf(w, "INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Fprintf(w, "  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Fprintln(w)
	}

	if r.Valid {
		fmt.Fprintf(w, "Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Fprintf(w, "Result: INVALID (%s)\n", r.Summary)
	}
}

func printResult(w io.Writer, r *evaluation.Result) {
	title := r.Name
	if title == "" {
		title = "Assessment"
	}
	fmt.Fprintf(w, "%s (%s)\n", title, r.Substance)
	fmt.Fprintln(w, underline(title+" ("+r.Substance+")"))
	fmt.Fprintln(w)
	printFigures(w, r.Object)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Calculation")
	fmt.Fprintln(w, "-----------")
	for _, line := range r.Trace {
		fmt.Fprintf(w, "  %s\n", line)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Verdicts")
	fmt.Fprintln(w, "--------")
	if r.Simple != nil {
		fmt.Fprintf(w, "  %-8s %-16s CSA %.6f mm²/mg\n", "simple", r.Simple.Verdict, r.Simple.CSA)
	}
	if r.Acute != nil {
		fmt.Fprintf(w, "  %-8s %-16s CSA %.6f mm²/mg\n", "acute", r.Acute.Verdict, r.Acute.CSA)
	}
	if r.Chronic != nil {
		fmt.Fprintf(w, "  %-8s %-16s CSA(0.1) %.6f  CSA(1) %.6f mm²/mg\n",
			"chronic", r.Chronic.Verdict, r.Chronic.CSA01, r.Chronic.CSA1)
	}
}

func printFigures(w io.Writer, f geometry.Figures) {
	fmt.Fprintf(w, "  Shape:    %s (mass %s)\n", f.Kind, f.MassSource)
	fmt.Fprintf(w, "  Surface:  %s mm²\n", formatQuantity(f.SurfaceMM2))
	fmt.Fprintf(w, "  Volume:   %s cm³\n", formatQuantity(f.VolumeCM3))
	fmt.Fprintf(w, "  Mass:     %s mg\n", formatQuantity(f.MassMG))
	fmt.Fprintf(w, "  SSA:      %.6f mm²/mg\n", f.SSA)
}

func printDataset(w io.Writer, ds *erv.Dataset) error {
	ref, err := ds.ReferenceSSA()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Substance:       %s\n", ds.Substance)
	fmt.Fprintf(w, "Density:         %g g/cm³\n", ds.DensityGCM3)
	fmt.Fprintf(w, "Reference SSA:   %.5f mm²/mg (%g mm sphere)\n", ref, ds.ReferenceDiameterMM)

	for _, t := range []struct {
		label string
		table erv.Table
	}{
		{"Acute ERV", ds.Acute},
		{"Chronic ERV", ds.Chronic},
	} {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%-12s %10s\n", t.label, "µg/L")
		fmt.Fprintf(w, "%-12s %10s\n", "------------", "----------")
		for _, b := range t.table {
			note := ""
			if b.Placeholder {
				note = "  (placeholder)"
			}
			fmt.Fprintf(w, "pH %-9s %10g%s\n", b.PHBand, b.ERV, note)
		}
	}
	return nil
}

func underline(s string) string {
	return strings.Repeat("=", utf8.RuneCountInString(s))
}

func formatQuantity(v float64) string {
	if v >= 1_000_000_000 {
		return fmt.Sprintf("%.2fG", v/1_000_000_000)
	}
	if v >= 1_000_000 {
		return fmt.Sprintf("%.2fM", v/1_000_000)
	}
	if v >= 1_000 {
		return fmt.Sprintf("%.2fK", v/1_000)
	}
	return fmt.Sprintf("%.4g", v)
}
