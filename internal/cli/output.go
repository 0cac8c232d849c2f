package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"mapgen/internal/diagnostic"
	"mapgen/internal/plan"
)

var (
	errorLabel   = color.New(color.FgRed, color.Bold).SprintFunc()
	warningLabel = color.New(color.FgYellow).SprintFunc()
	lintLabel    = color.New(color.FgMagenta).SprintFunc()
	infoLabel    = color.New(color.FgCyan).SprintFunc()
	okLabel      = color.New(color.FgGreen).SprintFunc()
)

func severityLabel(s diagnostic.DiagnosticSeverity) string {
	switch s {
	case diagnostic.DiagnosticError:
		return errorLabel(s.String())
	case diagnostic.DiagnosticWarning:
		return warningLabel(s.String())
	case diagnostic.DiagnosticLint:
		return lintLabel(s.String())
	default:
		return infoLabel(s.String())
	}
}

// printDiagnostics writes every diagnostic at or above min, most severe first.
func printDiagnostics(w io.Writer, d *diagnostic.Diagnostics, min diagnostic.DiagnosticSeverity) {
	for _, diag := range d.All() {
		if diag.Severity < min {
			continue
		}

		fmt.Fprintf(w, "%s: %s\n", severityLabel(diag.Severity), diag.String())
	}
}

// printSummary writes one line per plan and failure.
func printSummary(w io.Writer, res *plan.Result) {
	for i := range res.Plans {
		p := &res.Plans[i]

		ctor := "literal"
		if p.Constructor != nil {
			ctor = p.Constructor.Name
		}

		derived := ""
		if p.Derived {
			derived = " (derived)"
		}

		fmt.Fprintf(w, "%s %s%s: %s, %d args, %d assignments\n",
			okLabel("planned"), p.Func, derived, ctor, len(p.Args), len(p.Assignments))
	}

	for _, f := range res.Failures {
		fmt.Fprintf(w, "%s %s: %v\n", errorLabel("failed"), f.Request.Func, f.Err)
	}
}
