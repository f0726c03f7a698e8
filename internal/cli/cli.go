package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/specialistvlad/tickgraph/internal/app"
	"github.com/specialistvlad/tickgraph/internal/config"
	"github.com/specialistvlad/tickgraph/internal/hcl"
	"github.com/specialistvlad/tickgraph/internal/registry"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	return &ExitError{Code: 2, Message: err.Error()}
}

// options are the flags shared by every command that loads definitions.
type options struct {
	logLevel  string
	logFormat string

	graphs          []string
	tickRate        float64
	maxTicks        uint64
	sessions        int
	seed            uint64
	healthcheckPort int
	snapshotBackend string
	snapshotDSN     string
}

func (o *options) config(paths []string) (*app.Config, error) {
	cfg, err := app.NewConfig(app.Config{
		Paths:           paths,
		Graphs:          o.graphs,
		TickRate:        o.tickRate,
		MaxTicks:        o.maxTicks,
		Sessions:        o.sessions,
		Seed:            o.seed,
		LogFormat:       o.logFormat,
		LogLevel:        o.logLevel,
		HealthcheckPort: o.healthcheckPort,
		SnapshotBackend: o.snapshotBackend,
		SnapshotDSN:     o.snapshotDSN,
	})
	if err != nil {
		return nil, usageError(err)
	}
	return cfg, nil
}

// Command wires the dependencies every subcommand needs. Loader and Modules
// default to the HCL loader and app.CoreModules.
type Command struct {
	Out     io.Writer
	Loader  config.Loader
	Modules []registry.Module
}

func (c *Command) loader() config.Loader {
	if c.Loader == nil {
		return hcl.NewLoader()
	}
	return c.Loader
}

func (c *Command) modules() []registry.Module {
	if len(c.Modules) == 0 {
		return app.CoreModules()
	}
	return c.Modules
}

func (c *Command) newApp(ctx context.Context, o *options, paths []string) (*app.App, error) {
	cfg, err := o.config(paths)
	if err != nil {
		return nil, err
	}
	return app.NewApp(ctx, c.Out, cfg, c.loader(), c.modules()...)
}

// Root builds the command tree.
func (c *Command) Root() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:   "tickgraph",
		Short: "tickgraph - runs behaviour trees and state machines defined in HCL",
		Long: `tickgraph loads blackboard, tree and fsm definitions from HCL files and
ticks every graph at a fixed rate, one session per agent.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(c.Out)
	root.SetErr(c.Out)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError(err) })
	root.PersistentFlags().StringVar(&o.logLevel, "log-level", "info", "Logging level: debug, info, warn or error.")
	root.PersistentFlags().StringVar(&o.logFormat, "log-format", "text", "Log output format: text or json.")

	root.AddCommand(c.runCmd(o), c.validateCmd(o), c.idsCmd(o), c.kindsCmd())
	return root
}

func (c *Command) runCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <path>...",
		Short: "Run every graph until it finishes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.newApp(cmd.Context(), o, args)
			if err != nil {
				return err
			}
			defer a.Close()

			reports, err := a.Run(cmd.Context())
			if err != nil {
				return err
			}
			for _, rep := range reports {
				for _, g := range rep.Graphs {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\tticks=%d\n", rep.Agent, g.Name, outcome(g), g.Ticks)
				}
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringSliceVarP(&o.graphs, "graph", "g", nil, "Run only the named graphs. Repeatable.")
	f.Float64Var(&o.tickRate, "tick-rate", 30, "Ticks per second.")
	f.Uint64Var(&o.maxTicks, "max-ticks", 0, "Stop after this many ticks. 0 runs until every graph finishes.")
	f.IntVar(&o.sessions, "sessions", 1, "Number of independent agents.")
	f.Uint64Var(&o.seed, "seed", 0, "Random seed. 0 seeds from the clock.")
	f.IntVar(&o.healthcheckPort, "healthcheck-port", 0, "Port for the /health and /metrics server. 0 is disabled.")
	f.StringVar(&o.snapshotBackend, "snapshot-backend", "none", "Blackboard snapshots: none, memory, file, sqlite, redis or badger.")
	f.StringVar(&o.snapshotDSN, "snapshot-dsn", "", "Snapshot location: directory, database file, Redis URL or :memory:.")
	return cmd
}

func outcome(g app.GraphReport) string {
	switch {
	case !g.Finished:
		return "stopped"
	case g.Success:
		return "success"
	default:
		return "failure"
	}
}

func (c *Command) validateCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <path>...",
		Short: "Load and build every definition without running it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.newApp(cmd.Context(), o, args)
			if err != nil {
				return err
			}
			defer a.Close()

			m := a.Model()
			fmt.Fprintf(cmd.OutOrStdout(), "OK: %d blackboards, %d trees, %d state machines\n",
				len(m.Blackboards), len(m.Trees), len(m.Machines))
			return nil
		},
	}
}

func (c *Command) idsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ids <path>...",
		Short: "Print the node IDs of every graph",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.newApp(cmd.Context(), o, args)
			if err != nil {
				return err
			}
			defer a.Close()

			ids, err := a.NodeIDs()
			if err != nil {
				return err
			}
			for _, name := range slices.Sorted(maps.Keys(ids)) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", name)
				for id, node := range ids[name] {
					fmt.Fprintf(cmd.OutOrStdout(), "  %d\t%s\n", id, node)
				}
			}
			return nil
		},
	}
}

func (c *Command) kindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the registered node, action and condition kinds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kinds := registry.New(c.modules()...).Kinds()
			for _, category := range []string{"node", "action", "condition"} {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", category, strings.Join(kinds[category], ", "))
			}
			return nil
		},
	}
}

// Execute runs the command line args against c.
func (c *Command) Execute(ctx context.Context, args []string) error {
	root := c.Root()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	var exitErr *ExitError
	if err != nil && !errors.As(err, &exitErr) && isUsage(err) {
		return usageError(err)
	}
	return err
}

// isUsage recognises the argument errors cobra reports itself.
func isUsage(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "requires at least") ||
		strings.HasPrefix(msg, "accepts ")
}
