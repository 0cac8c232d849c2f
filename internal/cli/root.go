// Package cli implements the mapgen command line.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mapgen/internal/config"
)

// app is the state shared by the commands of one invocation.
type app struct {
	v      *viper.Viper
	cfg    *config.Config
	logger *slog.Logger

	configFile string
}

// NewRootCmd returns the mapgen command tree.
func NewRootCmd(version string) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:     "mapgen",
		Short:   "Plan struct mapping functions for Go",
		Version: version,
		Long: `mapgen reads Go packages and a mapping file and plans one mapping function
per request: which constructor builds the target, which value every property
receives and how each value is converted.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default .mapgen.yaml in ., $HOME or $HOME/.config/mapgen)")
	flags.StringP("mapping", "m", "", "mapping file, YAML or HCL")
	flags.StringP("dir", "C", "", "directory packages are loaded from")
	flags.StringSlice("packages", nil, "package patterns to analyze")
	flags.String("manifest-dir", "", "directory of the generated function manifest")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: text or json")
	flags.Bool("no-color", false, "disable colored output")
	flags.Bool("strict", false, "fail requests leaving a mutable target property unmapped")

	root.AddCommand(planCmd(a), manifestCmd(a), watchCmd(a), strategiesCmd(a), validateCmd(a))

	return root
}

var flagKeys = map[string]string{
	"mapping":      "mapping_file",
	"dir":          "dir",
	"packages":     "packages",
	"manifest-dir": "manifest_dir",
	"log-level":    "log.level",
	"log-format":   "log.format",
	"strict":       "strict",
}

func (a *app) init(cmd *cobra.Command) error {
	if err := config.LoadEnv(); err != nil {
		return err
	}

	v, err := config.New()
	if err != nil {
		return err
	}

	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, cmd.Root().PersistentFlags().Lookup(flag)); err != nil {
			return fmt.Errorf("binding --%s: %w", flag, err)
		}
	}

	cfg, err := config.Load(v, a.configFile)
	if err != nil {
		return err
	}

	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor || !cfg.Color {
		color.NoColor = true
	}

	a.v, a.cfg = v, cfg
	a.logger = newLogger(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())

	if file := v.ConfigFileUsed(); file != "" {
		a.logger.Debug("configuration loaded", "file", file)
	}

	return nil
}
