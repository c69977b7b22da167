package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ChicagoDave/leadcsa/internal/config"
	"github.com/ChicagoDave/leadcsa/internal/logging"
	"github.com/ChicagoDave/leadcsa/internal/server"
	"github.com/ChicagoDave/leadcsa/pkg/classify"
	"github.com/ChicagoDave/leadcsa/pkg/erv"
	"github.com/ChicagoDave/leadcsa/pkg/geometry"
)

// app carries state resolved by the root command for its subcommands.
type app struct {
	configPath  string
	datasetPath string
	verbose     bool

	cfg     config.Config
	logger  *zap.Logger
	dataset *erv.Dataset
}

func main() {
	if err := newRootCmd(&app{}).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "csa",
		Short:        "Critical Surface Area hazard classification for massive metal objects",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&a.datasetPath, "dataset", "", "path to an alternate ERV dataset (default: embedded lead data)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(classifyCmd(a))
	rootCmd.AddCommand(validateCmd(a))
	rootCmd.AddCommand(geometryCmd(a))
	rootCmd.AddCommand(ervCmd(a))
	rootCmd.AddCommand(serveCmd(a))
	return rootCmd
}

// init loads config, builds the logger unless one was injected, and resolves
// the ERV dataset. The --dataset flag wins over config and environment.
func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.logger == nil {
		logger, err := logging.New(cfg.Log, a.verbose)
		if err != nil {
			return err
		}
		a.logger = logger
	}

	path := cfg.Dataset
	if a.datasetPath != "" {
		path = a.datasetPath
	}
	if path == "" {
		a.dataset = erv.Default()
		return nil
	}
	ds, err := erv.Load(path)
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}
	a.logger.Debug("using alternate dataset", zap.String("path", path), zap.String("substance", ds.Substance))
	a.dataset = ds
	return nil
}

func classifyCmd(a *app) *cobra.Command {
	var (
		asJSON  bool
		regimes []string
	)

	cmd := &cobra.Command{
		Use:   "classify [project-path]",
		Short: "Evaluate an assessment and print verdicts with the calculation trace",
		Long: `Evaluate an assessment. The path may be a project directory holding
assessment.yaml or the YAML file itself. Without a path the default 25 kg
ingot assessment is evaluated. --regime limits evaluation to the named
sections.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runClassify(cmd.OutOrStdout(), optionalArg(args), regimes, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result and report as JSON")
	cmd.Flags().StringSliceVar(&regimes, "regime", nil, "evaluate only these regimes: "+regimeList())
	return cmd
}

func validateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Validate an assessment without printing results",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runValidate(cmd.OutOrStdout(), optionalArg(args))
		},
	}
}

func geometryCmd(a *app) *cobra.Command {
	var shape shapeFlags

	cmd := &cobra.Command{
		Use:   "geometry",
		Short: "Compute surface, volume, mass and SSA of an object",
		Example: `  csa geometry --shape rectangular --length 535 --width 85 --thickness 75 --mass-kg 25
  csa geometry --shape sphere --diameter 1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			shape.massSet = cmd.Flags().Changed("mass-kg")
			shape.densitySet = cmd.Flags().Changed("density")
			return a.runGeometry(cmd.OutOrStdout(), shape.toShape())
		},
	}

	f := cmd.Flags()
	f.StringVar(&shape.kind, "shape", "", geometry.KindList())
	f.Float64Var(&shape.length, "length", 0, "length in mm")
	f.Float64Var(&shape.width, "width", 0, "width in mm")
	f.Float64Var(&shape.thickness, "thickness", 0, "thickness in mm")
	f.Float64Var(&shape.side, "side", 0, "cube side in mm")
	f.Float64Var(&shape.diameter, "diameter", 0, "sphere diameter in mm")
	f.Float64Var(&shape.surface, "surface", 0, "raw surface in mm²")
	f.Float64Var(&shape.volume, "volume", 0, "raw volume in cm³")
	f.Float64Var(&shape.massKG, "mass-kg", 0, "measured mass in kg (default: derive from density)")
	f.Float64Var(&shape.density, "density", 0, "density in g/cm³ (default: dataset density)")
	_ = cmd.MarkFlagRequired("shape")
	cmd.MarkFlagsMutuallyExclusive("mass-kg", "density")
	return cmd
}

func ervCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "erv",
		Short: "Print the ERV dataset and reference sphere SSA",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printDataset(cmd.OutOrStdout(), a.dataset)
		},
	}
}

func serveCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the local HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("port") {
				port = a.cfg.Port
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.New(a.dataset, port, a.logger).Start(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 3000, "HTTP server port (default from config)")
	return cmd
}

func regimeList() string {
	names := make([]string, len(classify.Regimes))
	for i, r := range classify.Regimes {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

func optionalArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
