package output

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeplan-dev/forgeplan/internal/config"
	"github.com/forgeplan-dev/forgeplan/internal/engine"
)

// sarifDoc is the subset of the SARIF 2.1.0 shape the assertions need.
type sarifDoc struct {
	Version string `json:"version"`
	Runs    []struct {
		Tool struct {
			Driver struct {
				Name  string `json:"name"`
				Rules []struct {
					ID string `json:"id"`
				} `json:"rules"`
			} `json:"driver"`
		} `json:"tool"`
		Results []struct {
			RuleID  string `json:"ruleId"`
			Level   string `json:"level"`
			Message struct {
				Text string `json:"text"`
			} `json:"message"`
		} `json:"results"`
		Properties map[string]any `json:"properties"`
	} `json:"runs"`
}

func formatSARIF(t *testing.T, results []engine.CombinationResult) sarifDoc {
	t.Helper()

	var buf bytes.Buffer
	formatter := NewSARIFFormatter(&buf, "appliance.yaml", "report-1")
	require.NoError(t, formatter.Format(results))

	var doc sarifDoc
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Runs, 1)
	return doc
}

func TestSARIFFormatter_EmptyResults(t *testing.T) {
	doc := formatSARIF(t, nil)

	assert.Equal(t, "2.1.0", doc.Version)
	assert.Equal(t, "forgeplan", doc.Runs[0].Tool.Driver.Name)
	assert.Len(t, doc.Runs[0].Tool.Driver.Rules, 6)
	assert.Empty(t, doc.Runs[0].Results)

	props := doc.Runs[0].Properties
	assert.Equal(t, "report-1", props["reportId"])
	assert.Equal(t, float64(0), props["combinations"])
}

func TestSARIFFormatter_MapsTypedErrorsToRules(t *testing.T) {
	results := []engine.CombinationResult{
		{
			Combination: engine.Combination{Profiles: []string{"ghost"}, BuildType: config.BuildVMX},
			Err:         &engine.UnknownProfileError{Name: "ghost", ReferencedBy: "request"},
		},
		{
			Combination: engine.Combination{BuildType: config.BuildISO},
			Err: &engine.ValidationError{Findings: []engine.Finding{
				{
					Severity: engine.SeverityError,
					Section:  "preferences",
					Index:    -1,
					Message:  "no type declaration matches iso",
					Err:      &engine.UnknownTypeError{BuildType: config.BuildISO},
				},
			}},
		},
	}

	doc := formatSARIF(t, results)
	require.Len(t, doc.Runs[0].Results, 2)

	assert.Equal(t, "unknown-profile", doc.Runs[0].Results[0].RuleID)
	assert.Equal(t, "error", doc.Runs[0].Results[0].Level)

	assert.Equal(t, "unknown-type", doc.Runs[0].Results[1].RuleID)
	assert.Equal(t, "no type declaration matches iso", doc.Runs[0].Results[1].Message.Text)

	props := doc.Runs[0].Properties
	assert.Equal(t, float64(2), props["combinations"])
	assert.Equal(t, float64(0), props["passed"])
	assert.Equal(t, float64(2), props["failed"])
}

func TestSARIFFormatter_PlanWarningsBecomeWarningResults(t *testing.T) {
	plan := &engine.Plan{
		Image:     "testAppliance",
		BuildType: config.BuildVMX,
		Warnings: []engine.Finding{
			{
				Severity: engine.SeverityWarning,
				Section:  "packages",
				Index:    -1,
				Message:  "package busybox is marked bootinclude but also scheduled for deletion",
			},
		},
	}

	doc := formatSARIF(t, []engine.CombinationResult{
		{Combination: engine.Combination{BuildType: config.BuildVMX}, Plan: plan},
	})

	require.Len(t, doc.Runs[0].Results, 1)
	assert.Equal(t, "warning", doc.Runs[0].Results[0].Level)
	assert.Equal(t, "plan-consistency", doc.Runs[0].Results[0].RuleID)

	props := doc.Runs[0].Properties
	assert.Equal(t, float64(1), props["passed"])
	assert.Equal(t, float64(0), props["failed"])
}

func TestSARIFFormatter_EndToEnd(t *testing.T) {
	doc := &config.Description{
		Image: config.ImageMeta{Name: "testAppliance", SchemaVersion: "1.4"},
		Profiles: []config.Profile{
			{Name: "base"},
		},
		Preferences: []config.Preferences{
			{Types: []config.TypeSpec{{Image: config.BuildVMX, Primary: true}}},
		},
		Packages: []config.PackagesSection{
			{Type: config.BucketImage, Entries: []config.PackageEntry{{Name: "bad", Arch: "x 64"}}},
		},
	}

	combos := engine.Combinations(doc)
	results := engine.ResolveAll(context.Background(), doc, "x86_64", combos)

	out := formatSARIF(t, results)
	require.NotEmpty(t, out.Runs[0].Results)
	for _, r := range out.Runs[0].Results {
		assert.Equal(t, "arch-filter-syntax", r.RuleID)
	}
}
