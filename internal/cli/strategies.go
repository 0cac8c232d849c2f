package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"mapgen/internal/convert"
	"mapgen/primitive"
)

func strategiesCmd(a *app) *cobra.Command {
	var (
		all       bool
		templates bool
	)

	cmd := &cobra.Command{
		Use:   "strategies",
		Short: "List the built-in conversion strategies in lookup order",
		Long: `List the built-in conversion strategies in lookup order. Disabled strategies
are only used for properties that enable them by ID.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry := convert.NewRegistry(a.logger, convert.Builtins()...)

			for _, s := range registry.Strategies() {
				if !all && !s.EnabledByDefault() {
					continue
				}

				line := convert.String(s)
				if !s.EnabledByDefault() {
					line = lintLabel(line)
				}

				fmt.Fprintln(cmd.OutOrStdout(), line)

				if p, ok := s.(convert.Primitive); ok && templates {
					if err := printTemplate(cmd.OutOrStdout(), p); err != nil {
						return fmt.Errorf("%s: %w", s.ID(), err)
					}
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "include disabled strategies")
	cmd.Flags().BoolVarP(&templates, "templates", "t", false, "show the category and rendered template of primitive strategies")

	return cmd
}

// printTemplate renders the template of p for a sample property.
func printTemplate(w io.Writer, p convert.Primitive) error {
	lines, ok := primitive.Template(p.Pair())
	if !ok {
		return nil
	}

	rendered, err := primitive.Render(lines, primitive.Vars{
		Src:      "src.Value",
		Dst:      "dst.Value",
		DstType:  p.Pair().To.GoName(),
		DstStem:  "value",
		FuncName: "Map",
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "    category: %s\n", p.Category())

	for _, l := range rendered {
		fmt.Fprintf(w, "    %s\n", l)
	}

	return nil
}
