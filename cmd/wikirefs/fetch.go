package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/wikirefs/wikirefs/internal/config"
	"github.com/wikirefs/wikirefs/internal/dispatch"
	"github.com/wikirefs/wikirefs/internal/log"
	"github.com/wikirefs/wikirefs/internal/model"
	"github.com/wikirefs/wikirefs/internal/refstore"
	"github.com/wikirefs/wikirefs/internal/report"
	"github.com/wikirefs/wikirefs/internal/wiki"
)

// NewFetchCmd creates the fetch command.
func NewFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch [search-term]",
		Short: "Fetch reference links for pages related to a search term",
		Long: `Fetch searches Wikipedia for pages related to a search term and saves
the external reference links of each page to a .txt file in the output
directory.

When no search term is given, fetch prompts for one. Terms shorter than
four characters fall back to a default topic.

Examples:
  # Fetch references for pages related to a topic
  wikirefs fetch golang

  # Fan out to a pool of goroutines
  wikirefs fetch --mode threads --workers 8 "machine learning"

  # Fan out to separate worker processes
  wikirefs fetch --mode procs "quantum computing"

  # Query the German Wikipedia and keep 25 pages
  wikirefs fetch --lang de --max 25 "maschinelles lernen"

  # Output JSON report
  wikirefs fetch --json golang

  # Use a custom configuration file
  wikirefs fetch -c myconfig.yaml golang

Configuration file (.wikirefs) example:
  defaults:
    maxResults: 20
  terms:
    machine learning:
      mode: threads
      maxWorkers: 8
      outputDir: ml_refs`,
		Args: cobra.ArbitraryArgs,
		RunE: runFetchCmd,
	}

	// Fetch behavior flags
	cmd.Flags().StringP("mode", "m", model.ModeSequential.String(),
		"Execution mode: seq, threads, or procs")
	cmd.Flags().IntP("max", "n", config.DefaultMaxResults,
		"Maximum number of related pages taken from the search")
	cmd.Flags().IntP("workers", "w", config.DefaultMaxWorkers,
		"Pool size for the threads and procs modes")
	cmd.Flags().StringP("outdir", "o", config.DefaultOutputDir,
		"Directory where reference files are written")

	// API flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each API request")
	cmd.Flags().StringP("lang", "l", config.DefaultLanguage,
		"Wikipedia language edition to query (e.g. en, de, ja)")
	cmd.Flags().String("api-url", "",
		"Custom MediaWiki API endpoint (takes precedence over --lang)")
	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy address for API traffic (e.g. 127.0.0.1:9050)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .wikirefs in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().Bool("markdown", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().String("output", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runFetchCmd executes the fetch command.
func runFetchCmd(cmd *cobra.Command, args []string) error {
	// Set up structured logging before building the config so term
	// coercion can log its warning through the redacting handler
	verbose := getVerboseFlag(cmd)
	logger := log.NewRedactLogger(os.Stderr, verbose)
	slog.SetDefault(logger)

	// Build config from flags, the prompt, and per-term presets
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	cfg.Verbose = verbose

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runFetch(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	// Get flag values
	var err error

	modeStr, err := cmd.Flags().GetString("mode")
	if err != nil {
		return nil, err
	}
	cfg.Mode = model.ParseMode(modeStr)

	cfg.MaxResults, err = cmd.Flags().GetInt("max")
	if err != nil {
		return nil, err
	}

	cfg.MaxWorkers, err = cmd.Flags().GetInt("workers")
	if err != nil {
		return nil, err
	}

	cfg.OutputDir, err = cmd.Flags().GetString("outdir")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.Language, err = cmd.Flags().GetString("lang")
	if err != nil {
		return nil, err
	}

	cfg.APIBaseURL, err = cmd.Flags().GetString("api-url")
	if err != nil {
		return nil, err
	}

	cfg.ProxyAddress, err = cmd.Flags().GetString("proxy")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Resolve the search term from the arguments or the prompt
	term := strings.Join(args, " ")
	if strings.TrimSpace(term) == "" {
		term, err = promptTerm(cmd)
		if err != nil {
			return nil, err
		}
	}
	cfg.Term = config.CoerceTerm(term)
	if cfg.Term != strings.TrimSpace(term) {
		slog.Warn("search term too short, falling back to default",
			"term", strings.TrimSpace(term),
			"default", config.DefaultTerm,
		)
	}

	// Load per-term presets from config file
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently skip presets if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.Presets, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		applyPreset(cmd, cfg)
	} else if explicitConfigPath {
		// User explicitly specified a config file that doesn't exist
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	return cfg, nil
}

// promptTerm asks for a search term on the command's input stream.
// An empty line or EOF yields an empty term, which CoerceTerm later
// replaces with the default.
func promptTerm(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), "Enter a search term: ")

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read search term: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// applyPreset overlays the preset matching the run's term onto cfg.
// Explicit CLI flags win over preset values, which win over the
// built-in defaults. Headers have no CLI flag and are always merged.
func applyPreset(cmd *cobra.Command, cfg *config.Config) {
	preset := cfg.Presets.GetTermPreset(cfg.Term)

	if preset.Mode != "" && !cmd.Flags().Changed("mode") {
		cfg.Mode = model.ParseMode(preset.Mode)
	}
	if preset.MaxResults != 0 && !cmd.Flags().Changed("max") {
		cfg.MaxResults = preset.MaxResults
	}
	if preset.MaxWorkers != 0 && !cmd.Flags().Changed("workers") {
		cfg.MaxWorkers = preset.MaxWorkers
	}
	if preset.OutputDir != "" && !cmd.Flags().Changed("outdir") {
		cfg.OutputDir = preset.OutputDir
	}
	if preset.Language != "" && !cmd.Flags().Changed("lang") {
		cfg.Language = preset.Language
	}
	if preset.APIURL != "" && !cmd.Flags().Changed("api-url") {
		cfg.APIBaseURL = preset.APIURL
	}
	if preset.Proxy != "" && !cmd.Flags().Changed("proxy") {
		cfg.ProxyAddress = preset.Proxy
	}
	if len(preset.Headers) > 0 {
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string, len(preset.Headers))
		}
		for k, v := range preset.Headers {
			cfg.Headers[k] = v
		}
	}
}

// runFetch executes the fetch.
func runFetch(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	endpoint := cfg.ResolveAPIURL()

	logger.Info("starting fetch",
		"term", cfg.Term,
		"mode", cfg.Mode.String(),
		"maxResults", cfg.MaxResults,
		"endpoint", endpoint,
	)

	client, err := newAPIClient(cfg, endpoint, logger)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	fmt.Printf("Searching Wikipedia for related pages to: '%s'\n", cfg.Term)

	titles, err := client.Search(ctx, cfg.Term, cfg.MaxResults)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(titles) == 0 {
		fmt.Println("No related pages found. Nothing to do.")
		return nil
	}

	store := refstore.New(cfg.OutputDir)
	if err := store.Ensure(); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	absDir, err := filepath.Abs(store.Dir())
	if err != nil {
		absDir = store.Dir()
	}

	// Per-title lines stream to stdout unless a structured report is
	// printed there instead
	streamLines := (!cfg.JSONReport && !cfg.MarkdownReport) || cfg.ReportFile != ""

	progress := report.NewSimpleWriter(os.Stdout)
	if streamLines {
		if _, err := progress.WriteBanner(len(titles), absDir); err != nil {
			return err
		}
	}

	d, err := newDispatcher(cfg, client, store, endpoint, logger, progress, streamLines)
	if err != nil {
		return err
	}

	summary, err := d.Dispatch(ctx, titles)
	if err != nil {
		return err
	}
	summary.Term = cfg.Term
	summary.OutputDir = absDir

	return outputReport(cfg, summary)
}

// newAPIClient builds a MediaWiki API client from the configuration.
func newAPIClient(cfg *config.Config, endpoint string, logger *slog.Logger) (*wiki.Client, error) {
	opts := []wiki.ClientOption{
		wiki.WithUserAgent(cfg.UserAgent),
		wiki.WithTimeout(cfg.Timeout),
		wiki.WithLogger(logger),
	}
	if cfg.ProxyAddress != "" {
		opts = append(opts, wiki.WithProxy(cfg.ProxyAddress))
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, wiki.WithHeaders(cfg.Headers))
	}
	if cfg.MaxBodySize > 0 {
		opts = append(opts, wiki.WithMaxBodySize(cfg.MaxBodySize))
	}

	return wiki.NewClient(endpoint, opts...)
}

// newDispatcher wires a dispatcher for the selected execution mode.
func newDispatcher(cfg *config.Config, client *wiki.Client, store *refstore.Store, endpoint string, logger *slog.Logger, progress *report.SimpleWriter, streamLines bool) (*dispatch.Dispatcher, error) {
	unit := dispatch.NewRunner(client, store, dispatch.WithRunnerLogger(logger))

	opts := []dispatch.Option{
		dispatch.WithMode(cfg.Mode),
		dispatch.WithMaxWorkers(cfg.MaxWorkers),
		dispatch.WithLogger(logger),
	}

	if streamLines {
		// Outcome callbacks arrive from worker goroutines, so line
		// writes need serializing
		var mu sync.Mutex
		opts = append(opts, dispatch.WithOnOutcome(func(outcome model.Outcome, _ int) {
			mu.Lock()
			defer mu.Unlock()
			_, _ = progress.WriteOutcomeLine(outcome)
		}))
	}

	if cfg.Mode == model.ModeProcesses {
		task := dispatch.Task{
			OutputDir:   cfg.OutputDir,
			APIURL:      endpoint,
			UserAgent:   cfg.UserAgent,
			Timeout:     cfg.Timeout,
			Proxy:       cfg.ProxyAddress,
			Headers:     cfg.Headers,
			MaxBodySize: cfg.MaxBodySize,
			Verbose:     cfg.Verbose,
		}
		pr, err := dispatch.NewProcessRunner(task, dispatch.WithProcessLogger(logger))
		if err != nil {
			return nil, err
		}
		opts = append(opts, dispatch.WithProcessRunner(pr))
	}

	return dispatch.New(unit, opts...), nil
}

// outputReport outputs the run summary in the requested format.
func outputReport(cfg *config.Config, summary *model.RunSummary) error {
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Create/overwrite the output file with owner-only permissions
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()

		var fileWriter report.Writer
		switch {
		case cfg.JSONReport:
			fileWriter = report.NewFullJSONWriter(f, getVersion(), report.WithPrettyPrint())
		case cfg.MarkdownReport:
			fileWriter = report.NewMarkdownWriter(f)
		default:
			fileWriter = report.NewSimpleWriter(f,
				report.WithOutcomeLines(true),
				report.WithVerbose(cfg.Verbose),
			)
		}

		// The terminal still gets the plain summary alongside the file
		w := report.NewMultiWriter(fileWriter,
			report.NewSimpleWriter(os.Stdout, report.WithVerbose(cfg.Verbose)))
		if _, err := w.Write(summary); err != nil {
			return err
		}
		return nil
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewFullJSONWriter(os.Stdout, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(os.Stdout)
	default:
		w = report.NewSimpleWriter(os.Stdout, report.WithVerbose(cfg.Verbose))
	}

	if _, err := w.Write(summary); err != nil {
		return err
	}
	return nil
}
