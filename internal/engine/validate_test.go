package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeplan-dev/forgeplan/internal/config"
)

func TestResolve_MalformedArchFails(t *testing.T) {
	doc := testDescription()

	plan, err := Resolve(context.Background(), doc, Request{
		Profiles:  []string{"vmxFlavour"},
		BuildType: config.BuildVMX,
		Arch:      "x86 64",
	})
	require.Error(t, err)
	assert.Nil(t, plan)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Len(t, validationErr.Errors(), 1)
	assert.Equal(t, "request", validationErr.Errors()[0].Section)
}

func TestResolve_EmptyArchFails(t *testing.T) {
	doc := testDescription()

	_, err := Resolve(context.Background(), doc, Request{
		Profiles:  []string{"vmxFlavour"},
		BuildType: config.BuildVMX,
	})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestResolve_BootIncludeDeleteContradictionWarns(t *testing.T) {
	doc := testDescription()
	doc.Packages = append(doc.Packages,
		config.PackagesSection{
			Type:    config.BucketImage,
			Entries: []config.PackageEntry{{Name: "busybox", BootInclude: true}},
		},
		config.PackagesSection{
			Type:    config.BucketDelete,
			Entries: []config.PackageEntry{{Name: "busybox"}},
		},
	)

	plan, err := Resolve(context.Background(), doc, Request{
		Profiles:  []string{"vmxFlavour"},
		BuildType: config.BuildVMX,
		Arch:      "x86_64",
	})
	require.NoError(t, err, "contradictory declarations warn, they do not fail")
	require.NotNil(t, plan)

	require.Len(t, plan.Warnings, 1)
	assert.Equal(t, SeverityWarning, plan.Warnings[0].Severity)
	assert.Contains(t, plan.Warnings[0].Message, "busybox")
}

func TestResolve_NoWarningsOnCleanPlan(t *testing.T) {
	doc := testDescription()

	plan, err := Resolve(context.Background(), doc, Request{
		Profiles:  []string{"xenFlavour"},
		BuildType: config.BuildOEM,
		Arch:      "x86_64",
	})
	require.NoError(t, err)
	assert.Empty(t, plan.Warnings)
}

func TestValidationError_SeparatesSeverities(t *testing.T) {
	verr := &ValidationError{Findings: []Finding{
		{Severity: SeverityError, Section: "packages", Index: 1, Message: "bad filter"},
		{Severity: SeverityWarning, Section: "packages", Index: 2, Message: "odd but legal"},
		{Severity: SeverityError, Section: "preferences", Index: -1, Message: "no type"},
	}}

	assert.Len(t, verr.Errors(), 2)
	assert.Len(t, verr.Warnings(), 1)
	assert.Contains(t, verr.Error(), "bad filter")
	assert.Contains(t, verr.Error(), "no type")
}

func TestValidationError_UnwrapExposesTypedErrors(t *testing.T) {
	verr := &ValidationError{Findings: []Finding{
		errorFinding("packages", "flavour", 3, &ArchFilterError{Filter: "x!", Reason: "malformed architecture name x!"}),
		errorFinding("preferences", "", -1, &UnknownTypeError{BuildType: config.BuildISO}),
	}}

	var filterErr *ArchFilterError
	require.ErrorAs(t, verr, &filterErr)
	assert.Equal(t, "x!", filterErr.Filter)

	var unknownErr *UnknownTypeError
	require.ErrorAs(t, verr, &unknownErr)
	assert.Equal(t, config.BuildISO, unknownErr.BuildType)
}
