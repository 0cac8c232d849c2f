package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"mapgen/internal/config"
	"mapgen/internal/diagnostic"
	"mapgen/internal/plan"
)

// ErrRequestsFailed is returned when a pass leaves requests without a plan.
var ErrRequestsFailed = errors.New("mapping requests failed")

func planCmd(a *app) *cobra.Command {
	var (
		out     string
		format  string
		dump    bool
		noCache bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan the mapping functions of the mapping file",
		Long: `Plan every mapping request and print the plans.

Formats:
  yaml     the plans, for emitters and review (default)
  suggest  a mapping file with every resolved mapping made explicit
  summary  one line per planned function`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.run(runOptions{useCache: !noCache})
			if p != nil {
				printDiagnostics(cmd.ErrOrStderr(), &p.result.Diagnostics, minSeverity(verbose))
			}

			if err != nil {
				return err
			}

			if dump {
				spew.Fdump(cmd.ErrOrStderr(), p.result.Plans)
			}

			data, err := render(format, p.result)
			if err != nil {
				return err
			}

			if err := write(cmd.OutOrStdout(), out, data); err != nil {
				return err
			}

			if n := len(p.result.Failures); n > 0 {
				return fmt.Errorf("%d %w", n, ErrRequestsFailed)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "write to file instead of stdout")
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml, suggest or summary")
	cmd.Flags().BoolVar(&dump, "dump", false, "dump the plan structures to stderr")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "ignore and do not update the plan cache")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print info diagnostics too")

	return cmd
}

func minSeverity(verbose bool) diagnostic.DiagnosticSeverity {
	if verbose {
		return diagnostic.DiagnosticInfo
	}

	return diagnostic.DiagnosticLint
}

func render(format string, res *plan.Result) ([]byte, error) {
	switch format {
	case "yaml":
		return plan.ExportYAML(res.Plans)
	case "suggest":
		return plan.ExportSuggestionsYAML(res.Plans)
	case "summary":
		var buf bytes.Buffer
		printSummary(&buf, res)

		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func write(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}

	if err := afero.WriteFile(config.AppFs, path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}
