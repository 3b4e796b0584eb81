package cmd

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/TFMV/springy/config"
	"github.com/TFMV/springy/demo"
	"github.com/TFMV/springy/logger"
	"github.com/TFMV/springy/models"
	"github.com/TFMV/springy/physics"
	"github.com/TFMV/springy/report"
	"github.com/TFMV/springy/runner"
	"github.com/TFMV/springy/vector"
)

func newRunCommand() *cobra.Command {
	def := config.Default()
	run := &cobra.Command{
		Use:   "run",
		Short: "Lay out a demo graph and print the node positions",
		Long: `Build one of the demo graphs, step the layout until it settles or the
iteration limit is hit, and print a report of every node's position.

Interrupting the run (Ctrl-C) still prints the partial layout.`,
		Args: cobra.NoArgs,
		RunE: runLayout,
	}

	f := run.Flags()
	f.String("shape", def.Graph.Shape, "Demo graph: ring, grid, tree, complete, random")
	f.Int("size", def.Graph.Size, "Size of the demo graph")
	f.Int64("seed", def.Graph.Seed, "Seed for node placement")
	f.String("seeder", def.Graph.Seeder, "Placement source: xorshift or noise")
	f.StringP("format", "f", def.Output.Format, "Report format: json or yaml")
	f.Float64("stiffness", def.Layout.Stiffness, "Spring stiffness")
	f.Float64("repulsion", def.Layout.Repulsion, "Node repulsion")
	f.Float64("damping", def.Layout.Damping, "Velocity damping in (0, 1]")
	f.Float64("center-attract", def.Layout.CenterAttract, "Center attraction divisor, 0 disables")
	f.Float64("time-step", def.Run.TimeStep, "Simulated time per tick")
	f.Int("max-iterations", def.Run.MaxIterations, "Maximum number of ticks")
	f.Float64("threshold", def.Run.Threshold, "Displacement under which the layout counts as settled")
	f.Float64("ticks-per-second", def.Run.TicksPerSecond, "Pace the simulation, 0 runs unpaced")
	return run
}

func runLayout(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logger.Named("run")

	encoder, err := report.GetEncoder(cfg.Output.Format)
	if err != nil {
		return err
	}

	g, err := demo.Build(cfg.Graph.Shape, cfg.Graph.Size, cfg.Graph.Seed, seederOption(cfg.Graph))
	if err != nil {
		return errors.Wrap(err, "failed to build graph")
	}

	layout := physics.NewLayout(g,
		physics.WithStiffness(cfg.Layout.Stiffness),
		physics.WithRepulsion(cfg.Layout.Repulsion),
		physics.WithDamping(cfg.Layout.Damping),
		physics.WithCenterAttract(cfg.Layout.CenterAttract),
	)
	log.Infow("Laying out graph",
		"graph", g.Name,
		"id", g.ID,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount())

	result, err := runner.Run(cmd.Context(), layout, runner.Options{
		TimeStep:       cfg.Run.TimeStep,
		MaxIterations:  cfg.Run.MaxIterations,
		Threshold:      cfg.Run.Threshold,
		TicksPerSecond: cfg.Run.TicksPerSecond,
	})
	switch {
	case errors.Is(err, context.Canceled):
		log.Warnw("Run interrupted, reporting partial layout", "iterations", result.Iterations)
	case err != nil:
		return errors.Wrap(err, "layout failed")
	}

	rep, err := report.Snapshot(layout, &result)
	if err != nil {
		return err
	}
	return encoder.Encode(cmd.OutOrStdout(), rep)
}

func seederOption(gc config.GraphConfig) models.Option {
	if gc.Seeder == "noise" {
		return models.WithSeeder(vector.NewNoiseSeeder(gc.Seed))
	}
	return models.WithSeed(gc.Seed)
}
