package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnosticsSeverities(t *testing.T) {
	var d Diagnostics

	assert.True(t, d.IsValid())
	require.NoError(t, d.Error())

	d.AddInfo(CodeNullAssertion, "value asserted", "A->B", "Name")
	d.AddLint(CodeImmutableUnbound, "dropped", "A->B", "ID")
	d.AddWarning(CodeUnknownSource, "missing", "A->B", "Title", "Name")
	assert.True(t, d.IsValid())

	d.AddError(CodeRequestFailed, "boom", "A->B", "")
	assert.True(t, d.HasErrors())
	require.EqualError(t, d.Error(), "[A->B]: [request_failed] boom")

	all := d.All()
	require.Len(t, all, 4)
	assert.Equal(t, DiagnosticError, all[0].Severity)
	assert.Equal(t, DiagnosticWarning, all[1].Severity)
	assert.Equal(t, DiagnosticLint, all[2].Severity)
	assert.Equal(t, DiagnosticInfo, all[3].Severity)
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{
		Code:        CodeUnknownSource,
		Message:     "source property Nme does not exist",
		TypePair:    "store.Order->warehouse.Order",
		Property:    "Name",
		Suggestions: []string{"Name"},
	}

	assert.Equal(t,
		"[store.Order->warehouse.Order] Name: [unknown_source_property] source property Nme does not exist (did you mean Name?)",
		d.String())
	assert.Equal(t, "lint", DiagnosticLint.String())
	assert.Equal(t, "unknown", DiagnosticSeverity(42).String())
}

func TestMerge(t *testing.T) {
	var a, b Diagnostics

	a.AddWarning("w", "one", "", "")
	b.AddLint("l", "two", "", "")
	b.AddError("e", "three", "", "")

	a.Merge(b)
	assert.Len(t, a.Warnings, 1)
	assert.Len(t, a.Lints, 1)
	assert.Len(t, a.Errors, 1)
}
