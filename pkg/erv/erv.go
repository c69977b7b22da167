// Package erv holds the substance dataset used by classification: ecotoxicological
// reference values by pH band, the substance density and the T/Dp reference
// sphere. Datasets are plain values loaded from YAML so alternate regulatory
// data can be substituted without code changes.
package erv

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ChicagoDave/leadcsa/pkg/errs"
	"github.com/ChicagoDave/leadcsa/pkg/geometry"
)

//go:embed lead.yaml
var leadYAML []byte

// Band is one pH band and its ERV in µg/L.
type Band struct {
	PHBand      string  `yaml:"ph_band" json:"ph_band"`
	ERV         float64 `yaml:"erv_ug_l" json:"erv_ug_l"`
	Placeholder bool    `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
}

// Table is an ordered list of pH bands.
type Table []Band

// Lookup returns the band with the given key.
func (t Table) Lookup(phBand string) (Band, error) {
	for _, b := range t {
		if b.PHBand == phBand {
			return b, nil
		}
	}
	return Band{}, errs.Newf(errs.CodeInvalidInput, "unknown pH band %q", phBand)
}

// Keys returns the band keys in table order.
func (t Table) Keys() []string {
	keys := make([]string, len(t))
	for i, b := range t {
		keys[i] = b.PHBand
	}
	return keys
}

// Dataset is a complete substance dataset.
type Dataset struct {
	Substance           string  `yaml:"substance" json:"substance"`
	DensityGCM3         float64 `yaml:"density_g_cm3" json:"density_g_cm3"`
	ReferenceDiameterMM float64 `yaml:"reference_diameter_mm" json:"reference_diameter_mm"`
	Acute               Table   `yaml:"acute_erv" json:"acute_erv"`
	Chronic             Table   `yaml:"chronic_erv" json:"chronic_erv"`
}

// Default returns the built-in lead dataset.
func Default() *Dataset {
	ds, err := Parse(leadYAML)
	if err != nil {
		panic(fmt.Sprintf("erv: embedded lead dataset: %v", err))
	}
	return ds
}

// Load reads a dataset from a YAML file.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML dataset.
func Parse(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := decodeKnownFields(data, &ds); err != nil {
		return nil, fmt.Errorf("parsing dataset YAML: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// decodeKnownFields decodes one YAML document, rejecting keys that match no
// field. An empty document leaves out unchanged.
func decodeKnownFields(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks the dataset invariants.
func (d *Dataset) Validate() error {
	if d.Substance == "" {
		return errs.New(errs.CodeInvalidInput, "dataset substance is required")
	}
	if !(d.DensityGCM3 > 0) {
		return errs.Field(errs.CodeInvalidInput, "density_g_cm3", d.DensityGCM3, "must be > 0")
	}
	if !(d.ReferenceDiameterMM > 0) {
		return errs.Field(errs.CodeInvalidInput, "reference_diameter_mm", d.ReferenceDiameterMM, "must be > 0")
	}
	if len(d.Acute) == 0 {
		return errs.New(errs.CodeInvalidInput, "acute_erv must contain at least one band")
	}
	if err := validateTable("acute_erv", d.Acute); err != nil {
		return err
	}
	return validateTable("chronic_erv", d.Chronic)
}

func validateTable(name string, t Table) error {
	seen := make(map[string]bool, len(t))
	for i, b := range t {
		if b.PHBand == "" {
			return errs.Newf(errs.CodeInvalidInput, "%s[%d]: ph_band is required", name, i)
		}
		if seen[b.PHBand] {
			return errs.Newf(errs.CodeInvalidInput, "%s: duplicate pH band %q", name, b.PHBand)
		}
		seen[b.PHBand] = true
		if !(b.ERV > 0) {
			return errs.Field(errs.CodeInvalidInput, fmt.Sprintf("%s[%d].erv_ug_l", name, i), b.ERV, "must be > 0")
		}
	}
	return nil
}

// AcuteERV returns the acute ERV for a pH band.
func (d *Dataset) AcuteERV(phBand string) (float64, error) {
	b, err := d.Acute.Lookup(phBand)
	if err != nil {
		return 0, fmt.Errorf("acute ERV: %w", err)
	}
	return b.ERV, nil
}

// ChronicERV returns the chronic band for a pH band. The band's Placeholder flag
// marks values that are not yet backed by regulatory data.
func (d *Dataset) ChronicERV(phBand string) (Band, error) {
	b, err := d.Chronic.Lookup(phBand)
	if err != nil {
		return Band{}, fmt.Errorf("chronic ERV: %w", err)
	}
	return b, nil
}

// ReferenceSSA returns the SSA of the dataset's reference sphere.
func (d *Dataset) ReferenceSSA() (float64, error) {
	ref, err := geometry.Sphere(d.ReferenceDiameterMM, geometry.FromDensity(d.DensityGCM3))
	if err != nil {
		return 0, err
	}
	return ref.SSA()
}
