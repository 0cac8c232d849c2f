package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mapgen/internal/watch"
)

func watchCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Plan again whenever the mapping file or a package changes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// The first pass finds the package directories to watch.
			p, err := a.run(runOptions{useCache: true})
			if err != nil {
				return err
			}

			files := []string{a.path(a.cfg.MappingFile)}
			if used := a.v.ConfigFileUsed(); used != "" {
				files = append(files, used)
			}

			first := true

			w, err := watch.New(files, p.graph.Dirs(), []string{".go"}, func(context.Context) error {
				if !first {
					if p, err = a.run(runOptions{useCache: true}); err != nil {
						return err
					}
				}

				first = false

				printDiagnostics(cmd.ErrOrStderr(), &p.result.Diagnostics, minSeverity(false))
				printSummary(cmd.ErrOrStderr(), p.result)

				if out == "" {
					return nil
				}

				data, err := render("yaml", p.result)
				if err != nil {
					return err
				}

				return write(cmd.OutOrStdout(), out, data)
			}, a.logger)
			if err != nil {
				return err
			}

			a.logger.Info("watching for changes", "files", files, "packages", len(p.graph.Dirs()))

			if err := w.Run(ctx); err != nil && ctx.Err() == nil {
				return err
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "write the plans as YAML to this file after every pass")

	return cmd
}
