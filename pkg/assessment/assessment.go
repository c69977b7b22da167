package assessment

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ChicagoDave/leadcsa/pkg/geometry"
)

// FileName is the assessment file looked up in a project directory.
const FileName = "assessment.yaml"

// Load reads an assessment from a YAML file.
func Load(path string) (*Assessment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading assessment file: %w", err)
	}

	var a Assessment
	if err := decodeKnownFields(data, &a); err != nil {
		return nil, fmt.Errorf("parsing assessment YAML: %w", err)
	}

	return &a, nil
}

// LoadProject loads an assessment from a project directory.
// It looks for assessment.yaml in the given directory.
func LoadProject(projectDir string) (*Assessment, error) {
	return Load(filepath.Join(projectDir, FileName))
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

// Decode reads a JSON assessment, as posted to the HTTP API.
func Decode(r io.Reader) (*Assessment, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var a Assessment
	if err := dec.Decode(&a); err != nil {
		return nil, fmt.Errorf("decoding assessment JSON: %w", err)
	}
	return &a, nil
}

// Default returns the assessment the interactive shell opens with: a 25 kg
// 535×85×75 mm ingot under the simple regime at pH 5.5–6.5.
func Default() *Assessment {
	return &Assessment{
		Name: "Lead ingot 25 kg",
		Object: geometry.Shape{
			Shape:       string(geometry.KindRectangular),
			LengthMM:    535,
			WidthMM:     85,
			ThicknessMM: 75,
			MassSource:  string(geometry.MassMeasured),
			MassKG:      25,
		},
		Simple: &SimpleSection{
			ERVSource:   ERVSource{PHBand: "5.5–6.5"},
			MassLoading: 1.0,
			PbReleased:  121.3,
		},
	}
}
