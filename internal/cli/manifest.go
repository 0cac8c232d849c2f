package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"mapgen/internal/config"
	"mapgen/internal/manifest"
)

func manifestCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Manage the manifest of generated mapping functions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "update",
		Short: "Plan and record the planned functions in the manifest",
		Long: `Plan every request and record the planned functions in the manifest, next to
the recorded functions that still exist. Run it after generating code so the
next pass delegates to the generated functions.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.run(runOptions{})
			if p != nil {
				printDiagnostics(cmd.ErrOrStderr(), &p.result.Diagnostics, minSeverity(false))
			}

			if err != nil {
				return err
			}

			if n := len(p.result.Failures); n > 0 {
				return fmt.Errorf("%d %w, manifest not updated", n, ErrRequestsFailed)
			}

			n, err := a.writeManifest(p)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %d functions in %s\n", okLabel("recorded"), n, a.path(a.cfg.ManifestDir))

			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the recorded functions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := manifest.Read(config.AppFs, a.path(a.cfg.ManifestDir))
			if err != nil {
				return err
			}

			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%-6s %s\n", e.Kind, e.Func)
			}

			return nil
		},
	})

	return cmd
}
