package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vbonduro/filmlog/internal/chart"
	"github.com/vbonduro/filmlog/internal/config"
	"github.com/vbonduro/filmlog/internal/domain"
	"github.com/vbonduro/filmlog/internal/logging"
	"github.com/vbonduro/filmlog/internal/notion"
	"github.com/vbonduro/filmlog/internal/report"
	"github.com/vbonduro/filmlog/internal/service"
	"github.com/vbonduro/filmlog/internal/stats"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatalf("failed to load .env: %v", err)
	}
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := run(ctx, cfg, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit code. Errors are
// reported on stderr since the root command silences cobra's own output.
func run(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer) int {
	if args == nil {
		// cobra reads os.Args when args is nil.
		args = []string{}
	}
	cmd := newRootCmd(cfg)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:   "filmlog",
		Short: "Build an HTML report of a Notion film photography log",
		Long: `filmlog reads a Notion database of shot rolls, tabulates every row and
charts how often each film and brand was used. The result is a single
self-contained HTML file.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("seed") && !cmd.Flags().Changed("film-colors") {
				cfg.FilmColorMode = string(chart.ColorSeeded)
			}
			return runGenerate(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	local := root.Flags()
	local.StringVar(&cfg.CredentialsFile, "credentials", cfg.CredentialsFile, "path to the credentials file")
	local.StringVarP(&cfg.OutputFile, "output", "o", cfg.OutputFile, "path of the HTML report to write")
	local.StringVar(&cfg.FilmColorMode, "film-colors", cfg.FilmColorMode, "film chart colors (random, seeded, hash)")
	local.Uint64Var(&cfg.ColorSeed, "seed", cfg.ColorSeed, "seed for the seeded film color mode")
	local.IntVar(&cfg.MaxPages, "max-pages", cfg.MaxPages, "maximum number of query pages to fetch, 0 for all")

	root.AddCommand(newInspectCmd(cfg))
	return root
}

func runGenerate(ctx context.Context, cfg *config.Config, out io.Writer) error {
	logger, cleanup, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		File:   cfg.LogFile,
		Format: cfg.LogFormat,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		return err
	}
	defer cleanup()
	logger = logger.With("run_id", uuid.NewString())

	mode, err := chart.ParseColorMode(cfg.FilmColorMode)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		return err
	}

	creds, err := config.LoadCredentials(cfg.CredentialsFile)
	if err != nil {
		logger.Error("failed to load credentials", "error", err)
		return err
	}

	client := notion.NewClient(creds.Token, notion.Options{
		BaseURL:  cfg.NotionAPIURL,
		Version:  cfg.NotionVersion,
		PageSize: cfg.PageSize,
		MaxPages: cfg.MaxPages,
		Timeout:  cfg.RequestTimeout,
		Logger:   logger,
	})

	svc := service.NewReportService(client, service.ReportOptions{
		OutputPath:    cfg.OutputFile,
		FilmColorMode: mode,
		ColorSeed:     cfg.ColorSeed,
	}, logger)

	result, err := svc.Generate(ctx, creds)
	if err != nil {
		logger.Error("report generation failed", "error", err)
		return err
	}

	fmt.Fprintf(out, "HTML file created: %s\n", result.OutputPath)
	return nil
}

func newInspectCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [file]",
		Short: "Summarize a previously generated report",
		Long: `inspect reads the table of a report written by filmlog and prints the
row count and the film and brand distributions. It defaults to the
configured output file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cfg.OutputFile
			if len(args) == 1 {
				path = args[0]
			}
			return runInspect(path, cmd.OutOrStdout())
		},
	}
}

func runInspect(path string, out io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("failed to close report", "path", path, "error", err)
		}
	}()

	shots, err := report.ParseTable(f)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	fmt.Fprintf(out, "%s: %d rows\n", path, len(shots))
	for _, field := range []domain.Field{domain.FieldFilm, domain.FieldBrand} {
		printDistribution(out, stats.Compute(shots, field))
	}
	return nil
}

func printDistribution(out io.Writer, d stats.Distribution) {
	fmt.Fprintf(out, "\n%s (%d rows)\n", d.Field, d.Total)
	for _, b := range d.Buckets {
		fmt.Fprintf(out, "  %-20s %4d  %5.1f%%\n", b.Value, b.Count, b.Percent)
	}
}
