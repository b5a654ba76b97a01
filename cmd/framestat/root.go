package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ajitpratap0/framestat/pkg/config"
	"github.com/ajitpratap0/framestat/pkg/errors"
	"github.com/ajitpratap0/framestat/pkg/frame"
	"github.com/ajitpratap0/framestat/pkg/ingest"
	"github.com/ajitpratap0/framestat/pkg/logger"
	"github.com/ajitpratap0/framestat/pkg/observability"
	"github.com/ajitpratap0/framestat/pkg/stats"
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	v   *viper.Viper
	cfg *config.Config
	log *zap.Logger

	shutdownTracing observability.ShutdownFunc
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "framestat",
		Short: "Typed columns and descriptive statistics for delimited files",
		Long: `framestat reads a delimited text file, infers a type for every column
(integer, float, string, or datetime when requested) and prints previews,
summaries and quantiles.

Every flag can also be set through the environment, e.g. FRAMESTAT_SEP=";".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.finish(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringP("config", "c", "", "Path to a YAML configuration file")
	flags.StringP("input", "i", "", "Path to the delimited input file (overrides input.path)")
	flags.String("sep", ",", "Cell separator, a single character or \\t")
	flags.Int("header-offset", 0, "Lines to skip before the header row")
	flags.String("compression", "auto", "Input compression: auto, none, gzip, deflate, zstd, snappy, s2, lz4")
	flags.StringArray("date", nil, "Parse a column as datetime: NAME or NAME=FORMAT (strftime or Go layout); repeatable")
	flags.String("pivot", config.PivotRandom, "Selection pivot strategy: random, middle, first")
	flags.String("log-level", "warn", "Log level (debug, info, warn, error)")
	flags.Bool("metrics", false, "Print framestat metrics to stderr when done")
	flags.Bool("trace", false, "Write OpenTelemetry spans as JSON to stderr")

	_ = a.v.BindPFlags(flags)
	a.v.SetEnvPrefix("FRAMESTAT")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(
		versionCommand(),
		a.headCommand(),
		a.describeCommand(),
		a.statCommand(),
		a.quantileCommand(),
		a.schemaCommand(),
	)
	return root
}

// setup resolves configuration in order: defaults, config file, then flags
// and FRAMESTAT_* variables that were explicitly set.
func (a *app) setup(cmd *cobra.Command) error {
	cfg := config.Default()
	if path := a.v.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if a.v.IsSet("input") {
		cfg.Input.Path = a.v.GetString("input")
	}
	if a.v.IsSet("sep") {
		cfg.Input.Separator = a.v.GetString("sep")
	}
	if a.v.IsSet("header-offset") {
		cfg.Input.HeaderOffset = a.v.GetInt("header-offset")
	}
	if a.v.IsSet("compression") {
		cfg.Input.Compression = a.v.GetString("compression")
	}
	if a.v.IsSet("pivot") {
		cfg.Statistics.Pivot = a.v.GetString("pivot")
	}
	if a.v.IsSet("log-level") {
		cfg.Logging.Level = a.v.GetString("log-level")
	}

	dates, err := cmd.Flags().GetStringArray("date")
	if err != nil {
		return err
	}
	for _, entry := range dates {
		name, format, _ := strings.Cut(entry, "=")
		if name == "" {
			return errors.New(errors.ErrorTypeConfig, "--date needs a column name").
				WithDetail("value", entry)
		}
		cfg.ForceDatetime(name, format)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	l, err := logger.New(cfg.Logging)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "invalid logging configuration")
	}
	logger.Set(l)

	a.cfg = cfg
	a.log = l.With(zap.String("component", "framestat-cli"))

	if a.v.GetBool("trace") {
		shutdown, err := observability.InitTracing(cmd.Context(), observability.TracingConfig{
			ServiceName:    "framestat",
			ServiceVersion: version,
			Writer:         cmd.ErrOrStderr(),
			SamplingRate:   1,
			Synchronous:    true,
		})
		if err != nil {
			return err
		}
		a.shutdownTracing = shutdown
	}
	return nil
}

func (a *app) finish(cmd *cobra.Command) error {
	if a.v.GetBool("metrics") {
		if err := writeMetrics(cmd.ErrOrStderr()); err != nil {
			return err
		}
	}
	if a.shutdownTracing != nil {
		if err := a.shutdownTracing(cmd.Context()); err != nil {
			a.log.Warn("failed to flush spans", zap.Error(err))
		}
	}
	_ = logger.Sync()
	return nil
}

// traced runs a subcommand inside a command.<name> span.
func (a *app) traced(name string, run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return observability.Trace(cmd.Context(), "command."+name, func(ctx context.Context, span *observability.Span) error {
			span.SetAttribute("args", len(args))
			cmd.SetContext(ctx)
			return run(cmd, args)
		})
	}
}

// loadFrame reads the configured input. A positional path overrides it.
func (a *app) loadFrame(ctx context.Context, args []string) (*frame.DataFrame, error) {
	path := a.cfg.Input.Path
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "no input file: pass a path, --input or input.path")
	}

	opts, err := a.cfg.Input.IngestOptions()
	if err != nil {
		return nil, err
	}
	opts.Logger = a.log

	pivot, err := a.cfg.Statistics.PivotFunc()
	if err != nil {
		return nil, err
	}

	var table *ingest.Table
	err = observability.Trace(ctx, "ingest.read", func(_ context.Context, span *observability.Span) error {
		span.SetAttribute("path", path)
		span.SetAttribute("compression", string(opts.Compression.Resolve(path)))
		var err error
		if table, err = ingest.ReadFile(path, opts); err != nil {
			return err
		}
		span.SetAttribute("columns", len(table.Header))
		span.SetAttribute("rows", table.Rows)
		return nil
	})
	if err != nil {
		return nil, err
	}

	a.log.Info("input loaded",
		zap.String("path", path),
		zap.Int("columns", len(table.Header)),
		zap.Int("rows", table.Rows))

	var df *frame.DataFrame
	err = observability.Trace(ctx, "frame.build", func(_ context.Context, span *observability.Span) error {
		span.SetAttribute("pivot", a.cfg.Statistics.Pivot)
		var err error
		df, err = frame.FromTable(table, a.cfg.ColumnConfigs(),
			frame.WithLogger(a.log),
			frame.WithCalculator(stats.NewEngine(stats.WithPivot(pivot))))
		return err
	})
	return df, err
}

// writeMetrics prints every framestat_* sample from the default registry.
func writeMetrics(w io.Writer) error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to gather metrics")
	}

	var lines []string
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "framestat_") {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			var value string
			switch {
			case m.GetCounter() != nil:
				value = fmt.Sprint(m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				value = fmt.Sprintf("count=%d sum=%g", m.GetHistogram().GetSampleCount(), m.GetHistogram().GetSampleSum())
			default:
				continue
			}
			lines = append(lines, fmt.Sprintf("%s{%s} %s", mf.GetName(), strings.Join(labels, ","), value))
		}
	}
	sort.Strings(lines)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
