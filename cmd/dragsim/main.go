package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/dragsim/internal/automation"
	"github.com/san-kum/dragsim/internal/config"
	"github.com/san-kum/dragsim/internal/experiment"
	"github.com/san-kum/dragsim/internal/export"
	"github.com/san-kum/dragsim/internal/integrators"
	"github.com/san-kum/dragsim/internal/report"
	"github.com/san-kum/dragsim/internal/server"
	"github.com/san-kum/dragsim/internal/storage"
	"github.com/san-kum/dragsim/internal/sweep"
	"github.com/san-kum/dragsim/internal/trajectory"
	"github.com/san-kum/dragsim/internal/viz"
)

var (
	dataDir string
	verbose bool
)

// main registers commands and flags and executes the root command, which
// runs a comparison when no subcommand is given. It exits with status 1 if
// the command returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "dragsim",
		Short:         "galileo vs newton projectile comparison",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runComparison,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".dragsim", "run archive directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")
	addRunFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "compute both trajectories, print the summary and write csv/svg",
		Args:  cobra.NoArgs,
		RunE:  runComparison,
	}
	addRunFlags(runCmd)

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "terminal plot of both trajectories, computed or from the archive",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotTrajectories,
	}
	addModelFlags(plotCmd)
	plotCmd.Flags().Int("height", 15, "plot height in rows")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "newton landing across a range of drag coefficients",
		Args:  cobra.NoArgs,
		RunE:  sweepDrag,
	}
	addModelFlags(sweepCmd)
	sweepCmd.Flags().Float64("c-min", 0, "smallest drag coefficient (default from config)")
	sweepCmd.Flags().Float64("c-max", 0, "largest drag coefficient (default from config)")
	sweepCmd.Flags().Int("steps", 0, "number of coefficients (default from config)")

	compareCmd := &cobra.Command{
		Use:   "compare-integrators [integrator...]",
		Short: "newton landing per integrator",
		RunE:  compareIntegrators,
	}
	addModelFlags(compareCmd)

	exploreCmd := &cobra.Command{
		Use:   "explore",
		Short: "interactive parameter explorer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return viz.RunExplorer(cfg)
		},
	}
	addModelFlags(exploreCmd)

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario of comparisons",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	addModelFlags(scenarioCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tALPHA\tV0\tY0\tC\tR")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name).Params
				fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%g\t%g\n", name, p.AlphaDeg, p.V0, p.Y0, p.C, p.R)
			}
			return w.Flush()
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list archived runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}
	listCmd.Flags().String("integrator", "", "only runs using this integrator")
	listCmd.Flags().Float64("c-min", 0, "smallest drag coefficient")
	listCmd.Flags().Float64("c-max", 0, "largest drag coefficient (0 for no bound)")
	listCmd.Flags().Int("limit", 0, "maximum number of runs (0 for all)")

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print the summary of an archived run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write the samples of one archived trajectory as csv to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().String("model", trajectory.ModelNewton, "galileo or newton")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write an archived run as json to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "answer comparison requests over a websocket",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	serveCmd.Flags().String("addr", ":8080", "listen address")
	serveCmd.Flags().StringSlice("origin", nil, "extra browser origins allowed to connect")
	addModelFlags(serveCmd)

	rootCmd.AddCommand(runCmd, plotCmd, sweepCmd, compareCmd, exploreCmd, scenarioCmd,
		presetsCmd, listCmd, showCmd, exportCSVCmd, exportJSONCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	addModelFlags(cmd)
	cmd.Flags().String("csv", config.DefaultCSV, "comparison table output path")
	cmd.Flags().String("svg", config.DefaultSVG, "trajectory plot output path")
	cmd.Flags().String("json", "", "also export the run as json (- for stdout)")
	cmd.Flags().Bool("save", false, "archive the run under --data")
	cmd.Flags().Bool("plot", false, "print a terminal plot")
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runComparison(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(verbose)

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	res, err := experiment.New(cfg, logger).Run(ctx)
	if err != nil {
		return err
	}
	logger.Debug("comparison computed", "elapsed", time.Since(start), "newton_samples", res.Newton.Len())

	if err := export.SaveComparisonCSV(cfg.Outputs.CSV, res.Rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if err := export.SavePlotSVG(cfg.Outputs.SVG, res.Galileo, res.Newton, export.DefaultPlotStyle()); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}

	out := cmd.OutOrStdout()
	if err := report.Comparison(out, res.Rows); err != nil {
		return err
	}
	if err := report.Metrics(out, res.Metrics); err != nil {
		return err
	}
	if err := report.Params(out, cfg.Params, cfg.Outputs.CSV, cfg.Outputs.SVG); err != nil {
		return err
	}

	if plot, _ := cmd.Flags().GetBool("plot"); plot {
		fmt.Fprintln(out)
		fmt.Fprintln(out, viz.PlotTrajectories(res.Galileo, res.Newton, viz.PlotOptions{Color: viz.ShouldUseColor(os.Stdout)}))
	}

	meta := runMetadata(cfg, res)
	if save, _ := cmd.Flags().GetBool("save"); save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(&meta, res.Galileo, res.Newton)
		if err != nil {
			return err
		}
		logger.Info("run archived", "id", runID, "dir", dataDir)
		fmt.Fprintf(out, "\nrun id: %s\n", runID)
	}

	if path, _ := cmd.Flags().GetString("json"); path != "" {
		if err := storage.ExportJSONFile(path, meta, res.Galileo, res.Newton); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
	}

	return nil
}

func runMetadata(cfg *config.Config, res *experiment.Result) storage.RunMetadata {
	return storage.RunMetadata{
		Params:     cfg.Params,
		Integrator: cfg.Integrator,
		Dt:         cfg.Dt,
		TMax:       cfg.TMax,
		Galileo:    res.GalileoLanding,
		Newton:     res.NewtonLanding,
		Rows:       res.Rows,
		Metrics:    res.Metrics,
	}
}

func plotTrajectories(cmd *cobra.Command, args []string) error {
	height, _ := cmd.Flags().GetInt("height")

	var galileo, newton *trajectory.Trajectory
	if len(args) == 1 {
		var err error
		galileo, newton, err = storage.New(dataDir).LoadTrajectories(args[0])
		if err != nil {
			return err
		}
	} else {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()

		res, err := experiment.New(cfg, newLogger(verbose)).Run(ctx)
		if err != nil {
			return err
		}
		galileo, newton = res.Galileo, res.Newton
	}

	fmt.Fprintln(cmd.OutOrStdout(), viz.PlotTrajectories(galileo, newton, viz.PlotOptions{
		Height: height,
		Color:  viz.ShouldUseColor(os.Stdout),
	}))
	return nil
}

func sweepDrag(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("c-min") {
		cfg.Sweep.CMin, _ = flags.GetFloat64("c-min")
	}
	if flags.Changed("c-max") {
		cfg.Sweep.CMax, _ = flags.GetFloat64("c-max")
	}
	if flags.Changed("steps") {
		cfg.Sweep.Steps, _ = flags.GetInt("steps")
	}
	if cfg.Sweep.Steps < 1 {
		return fmt.Errorf("steps must be positive, got %d", cfg.Sweep.Steps)
	}

	ctx, cancel := signalContext()
	defer cancel()

	cs := sweep.Linspace(cfg.Sweep.CMin, cfg.Sweep.CMax, cfg.Sweep.Steps)
	newLogger(verbose).Debug("sweeping drag coefficient", "from", cfg.Sweep.CMin, "to", cfg.Sweep.CMax, "steps", len(cs))

	points, err := sweep.DragCoefficients(ctx, cfg.Params, cs, sweep.Options{
		Dt:         cfg.Dt,
		TMax:       cfg.TMax,
		Integrator: cfg.Integrator,
		ExactApex:  cfg.ExactApex,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "C\tT_LAND\tX_LAND\tY_MAX")
	for _, pt := range points {
		fmt.Fprintf(w, "%.4f\t%.6f\t%.6f\t%.6f\n", pt.C, pt.TLand, pt.XLand, pt.YMax)
	}
	return w.Flush()
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	names := args
	if len(names) == 0 {
		names = integrators.Names()
	}

	ctx, cancel := signalContext()
	defer cancel()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "comparing integrators (dt=%g, t_max=%g)\n\n", cfg.Dt, cfg.TMax)
	fmt.Fprintf(out, "%-12s  %-12s  %-12s  %-12s  %-12s\n", "integrator", "t_land", "x_land", "y_max", "time_ms")
	fmt.Fprintln(out, strings.Repeat("-", 66))

	for _, name := range names {
		integ, err := integrators.ByName(name)
		if err != nil {
			fmt.Fprintf(out, "%-12s  error: %v\n", name, err)
			continue
		}

		start := time.Now()
		_, landing, err := trajectory.Newton(ctx, cfg.Params, trajectory.NewtonOptions{
			Dt:         cfg.Dt,
			TMax:       cfg.TMax,
			Integrator: integ,
			ExactApex:  cfg.ExactApex,
		})
		elapsed := time.Since(start)

		if err != nil {
			fmt.Fprintf(out, "%-12s  error: %v\n", name, err)
			continue
		}

		fmt.Fprintf(out, "%-12s  %12.6f  %12.6f  %12.6f  %12.2f\n",
			name, landing.T, landing.X, landing.YMax, float64(elapsed.Microseconds())/1000)
	}

	return nil
}

func serve(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	addr, _ := cmd.Flags().GetString("addr")

	ctx, cancel := signalContext()
	defer cancel()

	logger := newLogger(verbose)
	fmt.Fprintf(cmd.OutOrStdout(), "serving on %s (ws path /ws)\n", addr)
	origins, _ := cmd.Flags().GetStringSlice("origin")
	srv := server.New(base, logger)
	srv.AllowOrigins(origins...)
	return srv.ListenAndServe(ctx, addr)
}

func runScenario(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunScenario(ctx, sc, base, newLogger(verbose))

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tX_GALILEO\tX_NEWTON\tDELTA_X\tT_NEWTON")
	for _, r := range results {
		g, n := r.Result.GalileoLanding, r.Result.NewtonLanding
		fmt.Fprintf(w, "%s\t%.6f\t%.6f\t%.6f\t%.6f\n", r.Name, g.X, n.X, n.X-g.X, n.T)
	}
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if flags.Changed("integrator") || flags.Changed("c-min") || flags.Changed("c-max") || flags.Changed("limit") {
		return searchRuns(cmd)
	}

	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tALPHA\tV0\tC\tINTEG\tX_GALILEO\tX_NEWTON")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%g\t%s\t%.6f\t%.6f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Params.AlphaDeg,
			run.Params.V0,
			run.Params.C,
			run.Integrator,
			run.Galileo.X,
			run.Newton.X,
		)
	}

	return w.Flush()
}

func searchRuns(cmd *cobra.Command) error {
	var f storage.Filter
	f.Integrator, _ = cmd.Flags().GetString("integrator")
	f.CMin, _ = cmd.Flags().GetFloat64("c-min")
	f.CMax, _ = cmd.Flags().GetFloat64("c-max")
	f.Limit, _ = cmd.Flags().GetInt("limit")

	runs, err := storage.New(dataDir).Search(cmd.Context(), f)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tALPHA\tV0\tC\tINTEG\tX_GALILEO\tX_NEWTON")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%g\t%s\t%.6f\t%.6f\n",
			run.ID,
			run.Timestamp.Local().Format("2006-01-02 15:04:05"),
			run.AlphaDeg,
			run.V0,
			run.C,
			run.Integrator,
			run.XGalileo,
			run.XNewton,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	meta, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run %s (%s, %s, dt=%g)\n", meta.ID, meta.Timestamp.Format(time.RFC3339), meta.Integrator, meta.Dt)
	if err := report.Comparison(out, meta.Rows); err != nil {
		return err
	}
	if err := report.Metrics(out, meta.Metrics); err != nil {
		return err
	}
	return report.Params(out, meta.Params)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	model, _ := cmd.Flags().GetString("model")
	galileo, newton, err := storage.New(dataDir).LoadTrajectories(args[0])
	if err != nil {
		return err
	}

	switch model {
	case trajectory.ModelGalileo:
		return export.WriteTrajectoryCSV(cmd.OutOrStdout(), galileo)
	case trajectory.ModelNewton:
		return export.WriteTrajectoryCSV(cmd.OutOrStdout(), newton)
	default:
		return fmt.Errorf("unknown model: %s", model)
	}
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	galileo, newton, err := st.LoadTrajectories(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(cmd.OutOrStdout(), *meta, galileo, newton)
}
