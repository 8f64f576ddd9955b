package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/flanksource/commons/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"pedalboard"
	"pedalboard/config"
	"pedalboard/core"
	"pedalboard/export"
	"pedalboard/importer"
	"pedalboard/metrics"
)

// Build information (set by goreleaser)
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// options holds the persistent flags shared by every subcommand.
type options struct {
	configPath  string
	inputFormat string
	format      string
	output      string
	metrics     bool
	log         logger.Flags

	registry *prometheus.Registry
}

func bindLoggerFlags(flags *pflag.FlagSet, f *logger.Flags) {
	flags.CountVarP(&f.LevelCount, "loglevel", "v", "Increase logging level")
	flags.StringVar(&f.Level, "log-level", "info", "Set the default log level")
	flags.BoolVar(&f.JsonLogs, "json-logs", false, "Print logs in json format to stderr")
	flags.BoolVar(&f.ReportCaller, "report-caller", false, "Report log caller info")
	flags.BoolVar(&f.LogToStderr, "log-to-stderr", true, "Log to stderr instead of stdout")
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "pedalboard",
		Short: "Lay out and wire guitar pedalboards",
		Long: `Pedalboard orders a signal chain, checks pedal placements for collisions,
optimizes positions and routes every patch cable between the jacks of the
pedals on a board.

Every command reads a scenario describing the board, the pedal catalog, the
placed pedals and the routing options. Scenarios are YAML or JSON files, or a
`+"```pedalboard"+` block inside a markdown document.`,
		Example: `  pedalboard chain board.yaml
  pedalboard recompute --optimize joint --format json board.yaml
  pedalboard place --pedal dd3 --id echo board.yaml
  pedalboard preview board.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Configure(opts.log)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if !opts.metrics || opts.registry == nil {
				return nil
			}
			return dumpMetrics(cmd, opts.registry)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Engine configuration file (YAML)")
	flags.StringVar(&opts.inputFormat, "input-format", "", "Scenario format (json, yaml, markdown) - detected from the file if not specified")
	flags.StringVarP(&opts.format, "format", "f", "pretty", "Output format: pretty, ascii, json, yaml, msgpack")
	flags.StringVarP(&opts.output, "output", "o", "", "Output file path (default: stdout)")
	flags.BoolVar(&opts.metrics, "metrics", false, "Print engine metrics to stderr when the command finishes")
	bindLoggerFlags(flags, &opts.log)

	rootCmd.AddCommand(newChainCommand(opts))
	rootCmd.AddCommand(newCollisionsCommand(opts))
	rootCmd.AddCommand(newPlaceCommand(opts))
	rootCmd.AddCommand(newOptimizeCommand(opts))
	rootCmd.AddCommand(newRouteCommand(opts))
	rootCmd.AddCommand(newRecomputeCommand(opts))
	rootCmd.AddCommand(newPreviewCommand(opts))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), getVersionInfo())
		},
	}
}

func getVersionInfo() string {
	return fmt.Sprintf("pedalboard %s (commit: %s, built: %s, go: %s)",
		version, commit, date, runtime.Version())
}

// session is one loaded scenario with an engine ready to run it.
type session struct {
	cfg      config.Config
	scenario *importer.Scenario
	catalog  core.Catalog
	engine   *pedalboard.Engine
}

func (o *options) open(path string) (*session, error) {
	cfg := config.Default()
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	registry := importer.NewImporterRegistry()
	var scenario *importer.Scenario
	var err error
	if o.inputFormat != "" {
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("read scenario: %w", readErr)
		}
		scenario, err = registry.ImportWithFormat(string(data), o.inputFormat)
	} else {
		scenario, err = registry.ImportFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("error importing %s: %w", path, err)
	}

	o.registry = prometheus.NewRegistry()
	collector, err := metrics.NewCollector(o.registry)
	if err != nil {
		return nil, err
	}
	engine, err := pedalboard.New(cfg, pedalboard.WithRecorder(collector))
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, scenario: scenario, catalog: scenario.PedalCatalog(), engine: engine}, nil
}

// emit writes a document in the selected structured format, or calls pretty
// for the default human readable output.
func (o *options) emit(cmd *cobra.Command, s *session, doc *export.Document, pretty func(p *printer)) error {
	if o.format == "" || o.format == "pretty" {
		p := newPrinter()
		pretty(p)
		return o.write(cmd, []byte(p.String()))
	}
	format, err := export.ParseFormat(o.format)
	if err != nil {
		return err
	}
	exporter, err := export.NewExporter(format, s.cfg)
	if err != nil {
		return err
	}
	data, err := exporter.Export(doc)
	if err != nil {
		return fmt.Errorf("failed to export %s: %w", exporter.GetFormatName(), err)
	}
	return o.write(cmd, data)
}

func (o *options) write(cmd *cobra.Command, data []byte) error {
	if o.output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(o.output, data, 0644); err != nil {
		return fmt.Errorf("error writing output file: %w", err)
	}
	return nil
}

func dumpMetrics(cmd *cobra.Command, registry *prometheus.Registry) error {
	families, err := registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(cmd.ErrOrStderr(), mf); err != nil {
			return err
		}
	}
	return nil
}
