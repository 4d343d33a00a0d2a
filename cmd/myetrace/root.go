package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sd37/myetrace/internal/attributes"
	"github.com/sd37/myetrace/internal/config"
	"github.com/sd37/myetrace/internal/correlation"
	"github.com/sd37/myetrace/internal/eventstream"
	"github.com/sd37/myetrace/internal/otelexport"
	"github.com/sd37/myetrace/internal/processor"
	"github.com/sd37/myetrace/internal/procscope"
	"github.com/sd37/myetrace/internal/report"
	"github.com/sd37/myetrace/internal/timesync"
)

type rootFlags struct {
	httpStats        bool
	httpLatencyStats bool
	filters          []string
	fields           []string
	columns          []string
	columnsFile      string
	raw              bool
	stats            []string
	input            string
	otlp             bool
}

func newRootCommand() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "myetrace",
		Short: "Trace event processor with HTTP call statistics",
		Long: `myetrace consumes a stream of trace events and routes each event to
the configured processors: a raw printer, a tabular field printer,
count-by-name/process aggregators, and HTTP call-count or latency
trackers that pair Request/Start and Request/Stop events by activity id.

Events are read as JSON lines from --input or stdin.

Examples:
  # Print events with selected fields
  myetrace --fields name,pid,time --input trace.jsonl

  # HTTP call counts for one process
  myetrace --http-stats --filter ProcessId=1234 --input trace.jsonl

  # HTTP latencies, re-emitted as OTLP spans
  myetrace --http-latency-stats --otlp --input trace.jsonl
`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(&flags)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}

	cmd.Flags().BoolVar(&flags.httpStats, "http-stats", false, "Aggregate HTTP call counts per request URL")
	cmd.Flags().BoolVar(&flags.httpLatencyStats, "http-latency-stats", false, "Aggregate HTTP request latencies")
	cmd.Flags().StringArrayVar(&flags.filters, "filter", nil, "Event filter as key=value (first ProcessId entry scopes aggregation)")
	cmd.Flags().StringSliceVar(&flags.fields, "fields", nil, "Fields printed per event (name, pid, time, or payload field)")
	cmd.Flags().StringArrayVar(&flags.columns, "column", nil, "Computed column as name=expression")
	cmd.Flags().StringVar(&flags.columnsFile, "columns-file", "", "YAML file with computed column definitions")
	cmd.Flags().BoolVar(&flags.raw, "raw", false, "Print each event as a single descriptive line")
	cmd.Flags().StringSliceVar(&flags.stats, "stats", nil, "Count events by dimension: name, process")
	cmd.Flags().StringVarP(&flags.input, "input", "i", "", "Trace file to replay (JSON lines); defaults to stdin")
	cmd.Flags().BoolVar(&flags.otlp, "otlp", false, "Re-emit resolved HTTP correlations as OTLP spans")

	return cmd
}

func resolveConfig(flags *rootFlags) (*config.Config, error) {
	filters, err := config.ParseFilters(flags.filters)
	if err != nil {
		return nil, err
	}

	columns, err := config.ParseColumns(flags.columns)
	if err != nil {
		return nil, err
	}
	if flags.columnsFile != "" {
		fileColumns, err := config.LoadColumnsFile(flags.columnsFile)
		if err != nil {
			return nil, err
		}
		columns = append(columns, fileColumns...)
	}

	cfg := &config.Config{
		HTTPStatsOnly:        flags.httpStats,
		HTTPLatencyStatsOnly: flags.httpLatencyStats,
		ParsedFilters:        filters,
		Fields:               flags.fields,
		Columns:              columns,
		Raw:                  flags.raw,
		Stats:                flags.stats,
		Input:                flags.input,
		OTLP:                 flags.otlp,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildPipeline assembles the processor set selected by configuration.
func buildPipeline(cfg *config.Config, out io.Writer, conv *timesync.Converter, observers []correlation.ResolutionObserver) (*processor.Pipeline, error) {
	pipeline := processor.NewPipeline()
	scope := procscope.New(cfg.ParsedFilters)
	reporter := report.New(report.NewTableSink(out))

	if cfg.Raw {
		pipeline.AddDescribed(processor.NewRawPrinter(out))
	}

	if len(cfg.Fields) > 0 || len(cfg.Columns) > 0 {
		evaluator, err := attributes.NewEvaluator(cfg.Columns)
		if err != nil {
			return nil, err
		}
		fields := cfg.Fields
		if len(fields) == 0 {
			fields = []string{"time", "pid", "name"}
		}
		pipeline.Add(processor.NewTablePrinter(out, fields, evaluator, conv))
	}

	for _, dimension := range cfg.Stats {
		switch dimension {
		case "name":
			pipeline.Add(processor.NewCountByName(scope, reporter))
		case "process":
			pipeline.Add(processor.NewCountByProcess(scope, reporter))
		}
	}

	if cfg.HTTPStatsOnly {
		pipeline.Add(correlation.NewTracker(correlation.ModeCounts, scope, reporter))
	}
	if cfg.HTTPLatencyStatsOnly {
		pipeline.Add(correlation.NewTracker(correlation.ModeLatency, scope, reporter, observers...))
	}

	// Nothing selected: fall back to printing every event.
	if pipeline.Len() == 0 {
		pipeline.AddDescribed(processor.NewRawPrinter(out))
	}

	return pipeline, nil
}

func run(cfg *config.Config) error {
	conv := timesync.NewConverter(time.Time{})

	var observers []correlation.ResolutionObserver
	if cfg.OTLP {
		otelCfg, err := config.ParseOTELConfig()
		if err != nil {
			return err
		}
		tp, err := otelexport.InitProvider(otelCfg)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := otelexport.ShutdownProvider(tp, shutdownCtx); err != nil {
				fmt.Fprintf(os.Stderr, "Error shutting down OTEL provider: %v\n", err)
			}
		}()
		observers = append(observers, otelexport.NewSpanEmitter(tp.Tracer("myetrace"), conv))
	}

	pipeline, err := buildPipeline(cfg, os.Stdout, conv, observers)
	if err != nil {
		return err
	}
	// Every processor flushes exactly once, however the stream ends.
	defer pipeline.Close()

	in := os.Stdin
	if cfg.Input != "" {
		f, err := os.Open(cfg.Input)
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		in = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stream := eventstream.New(in, pipeline)
	if err := stream.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("reading event stream: %w", err)
	}
	return nil
}
