// Package cmd holds the springy command line.
package cmd

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/TFMV/springy/config"
	"github.com/TFMV/springy/logger"
)

// NewRootCommand builds the springy command tree
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "springy",
		Short: "Force-directed graph layout",
		Long: `springy lays out graphs by simulation: nodes repel like charged particles,
edges pull like springs, and damping lets the layout settle.

Examples:
  springy run                          # lay out the default ring and print JSON
  springy run --shape grid --size 5    # lay out a 5x5 grid
  springy run -c springy.toml -f yaml  # use a config file, print YAML
  springy config init                  # write springy.toml with the defaults
  springy config show                  # print the effective configuration`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringP("config", "c", "", "Path to a TOML config file")
	root.PersistentFlags().Bool("debug", false, "Enable debug logging")
	root.PersistentFlags().Bool("json-logs", false, "Emit logs as JSON")

	root.AddCommand(newRunCommand())
	root.AddCommand(newConfigCommand())
	return root
}

// flagKeys maps command line flags onto configuration keys
var flagKeys = map[string]string{
	"debug":            "log.debug",
	"json-logs":        "log.json",
	"shape":            "graph.shape",
	"size":             "graph.size",
	"seed":             "graph.seed",
	"seeder":           "graph.seeder",
	"format":           "output.format",
	"stiffness":        "layout.stiffness",
	"repulsion":        "layout.repulsion",
	"damping":          "layout.damping",
	"center-attract":   "layout.center_attract",
	"time-step":        "run.time_step",
	"max-iterations":   "run.max_iterations",
	"threshold":        "run.threshold",
	"ticks-per-second": "run.ticks_per_second",
}

// loadConfig merges defaults, the config file, the environment and any flags set on
// cmd, then initializes logging from the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	v, err := config.New(path)
	if err != nil {
		return nil, err
	}
	if err := bindFlags(cmd, v); err != nil {
		return nil, err
	}
	cfg, err := config.LoadWithViper(v)
	if err != nil {
		return nil, err
	}
	if err := logger.Initialize(cfg.Log.Debug, cfg.Log.JSON); err != nil {
		return nil, errors.Wrap(err, "failed to initialize logger")
	}
	return cfg, nil
}

func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	for name, key := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return errors.Wrapf(err, "binding flag --%s", name)
		}
	}
	return nil
}
