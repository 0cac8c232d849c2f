package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"mapgen/internal/analyze"
	"mapgen/internal/config"
	"mapgen/internal/diagnostic"
	"mapgen/internal/mapping"
)

func validateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the mapping file against the analyzed packages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			graph, err := analyze.NewAnalyzer(a.logger).LoadPackages(a.cfg.Dir, a.cfg.Packages...)
			if err != nil {
				return err
			}

			path := a.path(a.cfg.MappingFile)

			mf, err := mapping.LoadFile(config.AppFs, path)
			if err != nil {
				return err
			}

			diags := mapping.Validate(mf, graph)
			printDiagnostics(cmd.ErrOrStderr(), diags, diagnostic.DiagnosticInfo)

			if err := diags.Error(); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d mappings, %d converters\n",
				okLabel("valid"), path, len(mf.TypeMappings), len(mf.Converters))

			return nil
		},
	}
}
