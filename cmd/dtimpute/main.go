package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wdm0006/dtimpute/pkg/impute"
	"github.com/wdm0006/dtimpute/pkg/io/csvio"
	"github.com/wdm0006/dtimpute/pkg/io/jsonlio"
	"github.com/wdm0006/dtimpute/pkg/io/parquetio"
	"github.com/wdm0006/dtimpute/pkg/io/xlsxio"
	"github.com/wdm0006/dtimpute/pkg/report"
	"github.com/wdm0006/dtimpute/pkg/table"
	"github.com/wdm0006/dtimpute/pkg/transform/arith"
)

var (
	version = "0.1.0-dev"
)

func main() {
	showVersion := flag.Bool("version", false, "Print version and exit")
	configPath := flag.String("config", "", "Path to imputation config (JSON, YAML or TOML)")
	reportFmt := flag.String("report", "", "Print a column report to stderr: text|json")
	metricsFile := flag.String("metrics-file", "", "Write Prometheus metrics in text format to this file")
	flag.Parse()

	if *showVersion {
		fmt.Println("dtimpute", version)
		return
	}

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "no config provided; nothing to do. try --config <file> or --version")
		os.Exit(2)
	}
	switch *reportFmt {
	case "", "text", "json":
	default:
		fmt.Fprintf(os.Stderr, "unsupported report format %q\n", *reportFmt)
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := newLogger(os.Stderr, cfg.Logging).With("run_id", uuid.NewString())

	m := newMetrics()
	err = run(context.Background(), cfg, log, m, *reportFmt)
	if *metricsFile != "" {
		if werr := m.write(*metricsFile); werr != nil {
			log.Error("write metrics", "path", *metricsFile, "err", werr)
		}
	}
	if err != nil {
		log.Error("run failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config, log *slog.Logger, m *metrics, reportFmt string) error {
	frame, err := readInput(cfg.Input)
	if err != nil {
		return err
	}
	log.Info("input loaded", "path", cfg.Input.Path, "type", cfg.Input.Type, "rows", frame.Rows(), "columns", frame.Cols())

	imp := impute.New(cfg.Imputer, impute.WithLogger(log))
	tap := &reportTap{missing: imp.Config().MissingValues, topK: 5}

	p := table.NewPipeline()
	for _, d := range cfg.Differences {
		p.Add(&arith.Difference{Left: d.Left, Right: d.Right, Output: d.Output})
	}
	p.Add(tap).Add(&timedStep{imp: imp, m: m})
	log.Debug("pipeline", "steps", p.Steps())

	out, err := p.Run(ctx, frame)
	if err != nil {
		return err
	}
	if err := writeOutput(cfg.Output, out); err != nil {
		return err
	}
	log.Info("output written", "path", cfg.Output.Path, "type", cfg.Output.Type, "rows", out.Rows(), "columns", out.Cols())

	if reportFmt != "" && tap.c != nil {
		tap.c.AddFit(imp)
		return printReport(os.Stderr, tap.c, reportFmt)
	}
	return nil
}

func readInput(in InputConfig) (*table.Frame, error) {
	switch in.Type {
	case "csv":
		rdr, err := csvio.Open(in.Path, csvio.ReaderOptions{HasHeader: in.HasHeader, Delimiter: delimiter(in.Delimiter), SampleRows: 100, NAValues: in.NAValues})
		if err != nil {
			return nil, err
		}
		defer func() { _ = rdr.Close() }()
		schema, _, err := rdr.InferSchema()
		if err != nil {
			return nil, err
		}
		return rdr.ReadAll(schema)
	case "jsonl":
		rdr, err := jsonlio.Open(in.Path, jsonlio.ReaderOptions{SampleRows: 100, NAValues: in.NAValues})
		if err != nil {
			return nil, err
		}
		defer func() { _ = rdr.Close() }()
		schema, err := rdr.InferSchema()
		if err != nil {
			return nil, err
		}
		return rdr.ReadAll(schema)
	case "parquet":
		rdr, err := parquetio.OpenReader(in.Path, 100)
		if err != nil {
			return nil, err
		}
		defer func() { _ = rdr.Close() }()
		return rdr.ReadAll()
	case "xlsx":
		return xlsxio.ReadAll(in.Path, xlsxio.ReaderOptions{Sheet: in.Sheet, HasHeader: in.HasHeader, NAValues: in.NAValues})
	default:
		return nil, fmt.Errorf("unsupported input type %q", in.Type)
	}
}

func writeOutput(out OutputConfig, f *table.Frame) error {
	switch out.Type {
	case "csv":
		return csvio.WriteAll(out.Path, f, csvio.WriterOptions{Delimiter: delimiter(out.Delimiter)})
	case "jsonl":
		return jsonlio.WriteAll(out.Path, f)
	case "parquet":
		return parquetio.WriteAll(out.Path, f)
	case "xlsx":
		return xlsxio.WriteAll(out.Path, f)
	default:
		return fmt.Errorf("unsupported output type %q", out.Type)
	}
}

func newLogger(w io.Writer, c LoggingConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func printReport(w io.Writer, c *report.Collector, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(c.ReportJSON())
	}
	_, err := io.WriteString(w, c.ReportText())
	return err
}

// reportTap records the frame as it enters the imputer. The imputer fills
// cells in place, so the counts must be taken first.
type reportTap struct {
	missing any
	topK    int
	c       *report.Collector
}

func (t *reportTap) Name() string { return "report" }

func (t *reportTap) Apply(_ context.Context, f *table.Frame) (*table.Frame, error) {
	t.c = report.NewCollector(f.Schema(), t.missing, t.topK)
	t.c.ConsumeFrame(f)
	return f, nil
}

type timedStep struct {
	imp *impute.DTypeImputer
	m   *metrics
}

func (t *timedStep) Name() string { return t.imp.Name() }

func (t *timedStep) Apply(ctx context.Context, f *table.Frame) (*table.Frame, error) {
	start := time.Now()
	out, err := t.imp.Apply(ctx, f)
	t.m.observe(start, t.imp.Categorical(), err)
	return out, err
}
