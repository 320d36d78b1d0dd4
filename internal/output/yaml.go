package output

import (
	"io"

	"github.com/goccy/go-yaml"

	"github.com/forgeplan-dev/forgeplan/internal/engine"
)

// YAMLFormatter formats build plans as YAML.
type YAMLFormatter struct {
	writer io.Writer
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(w io.Writer) *YAMLFormatter {
	return &YAMLFormatter{writer: w}
}

// Format writes the plan as YAML.
func (f *YAMLFormatter) Format(plan *engine.Plan) error {
	encoder := yaml.NewEncoder(f.writer, yaml.Indent(2))

	if err := encoder.Encode(plan); err != nil {
		return err
	}

	return encoder.Close()
}
