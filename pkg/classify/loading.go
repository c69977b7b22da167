package classify

import (
	"github.com/ChicagoDave/leadcsa/pkg/errs"
)

// MassLoading is a T/Dp test concentration in mg of metal per litre.
// Construct via ParseMassLoading at trust boundaries; direct conversion
// bypasses the sanctioned-value check, which CriticalSSA repeats.
type MassLoading float64

// Sanctioned T/Dp mass loadings.
const (
	LoadingHigh MassLoading = 1.0 // mg/L, acute and chronic
	LoadingLow  MassLoading = 0.1 // mg/L, chronic only
)

// MassLoadings lists the sanctioned loadings.
var MassLoadings = []MassLoading{LoadingHigh, LoadingLow}

// ParseMassLoading accepts only a sanctioned loading.
func ParseMassLoading(v float64) (MassLoading, error) {
	m := MassLoading(v)
	if err := m.Validate(); err != nil {
		return 0, err
	}
	return m, nil
}

// Validate rejects loadings outside the sanctioned set.
func (m MassLoading) Validate() error {
	for _, ok := range MassLoadings {
		if m == ok {
			return nil
		}
	}
	return errs.Field(errs.CodeInvalidInput, "mass_loading", float64(m), "must be one of 1.0 or 0.1 mg/L")
}
