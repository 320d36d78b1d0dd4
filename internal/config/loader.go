package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/goccy/go-yaml"
)

// Schema versions this release understands. Documents outside the range are
// rejected at load time, before any structural validation runs.
const (
	MinSchemaVersion = "1.1"
	MaxSchemaVersion = "1.5"
)

var schemaVersionRange = mustConstraint(">= " + MinSchemaVersion + ", <= " + MaxSchemaVersion)

func mustConstraint(s string) *semver.Constraints {
	c, err := semver.NewConstraint(s)
	if err != nil {
		panic(err)
	}
	return c
}

// LoadDescription loads and parses an appliance description from a YAML file.
// It validates the schema version and the document structure.
func LoadDescription(path string) (*Description, error) {
	// Security: Use os.OpenRoot to prevent path traversal attacks
	// resolving symlinks or escaping the intended directory.
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open description directory: %w", err)
	}
	defer root.Close()

	file, err := root.Open(base)
	if err != nil {
		return nil, fmt.Errorf("failed to open description: %w", err)
	}
	defer file.Close()

	return LoadDescriptionFromReader(file)
}

// LoadDescriptionFromReader loads and parses a description from an io.Reader.
// This is useful for testing with in-memory YAML data.
func LoadDescriptionFromReader(r io.Reader) (*Description, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read description: %w", err)
	}

	// Strict parsing - reject unknown fields
	var doc Description
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := checkSchemaVersion(doc.Image.SchemaVersion); err != nil {
		return nil, err
	}

	if err := ValidateSchema(data); err != nil {
		return nil, err
	}

	if err := Validate(&doc); err != nil {
		return nil, err
	}

	return &doc, nil
}

// checkSchemaVersion verifies the document schema version falls in the
// supported range.
func checkSchemaVersion(version string) error {
	if version == "" {
		return fmt.Errorf("description schemaversion is required (supported: %s to %s)", MinSchemaVersion, MaxSchemaVersion)
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid schemaversion %q: %w", version, err)
	}

	if !schemaVersionRange.Check(v) {
		return fmt.Errorf("unsupported schemaversion %q (supported: %s to %s)", version, MinSchemaVersion, MaxSchemaVersion)
	}

	return nil
}
