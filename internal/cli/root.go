package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/erpbridge/internal/config"
	"github.com/roach88/erpbridge/internal/gateway"
	"github.com/roach88/erpbridge/internal/syncer"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string
	EnvFile    string

	// LookupEnv overrides os.LookupEnv (for testing).
	LookupEnv func(string) (string, bool)

	// RunIDs and Now override run ID generation and the clock (for testing).
	RunIDs syncer.RunIDGenerator
	Now    func() time.Time
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the erpbridge CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "erpbridge",
		Short: "Sync ERP inventory to a resource-sharing ledger",
		Long: `erpbridge publishes available ERP items to a distributed ledger as resource
specifications and economic resources, through the ledger's HTTP gateway.

It also reads back what others have published and drives the "Use"
governance workflow for shared resources.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "path to YAML config file")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "path to .env file (default ./.env if present)")

	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewHealthCommand(opts))
	cmd.AddCommand(NewSpecsCommand(opts))
	cmd.AddCommand(NewResourcesCommand(opts))
	cmd.AddCommand(NewDiscoverCommand(opts))
	cmd.AddCommand(NewUseCommand(opts))
	cmd.AddCommand(NewStateCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// Main runs the CLI with args and returns the process exit code.
// Command errors are rendered in the selected format. SIGINT and SIGTERM
// cancel the command's context.
func Main(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return execute(ctx, &RootOptions{}, args, stdout, stderr)
}

func execute(ctx context.Context, opts *RootOptions, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	code := GetExitCode(err)
	out := &OutputFormatter{Format: opts.Format, Writer: stdout, ErrWriter: stderr, Verbose: opts.Verbose}
	_ = out.Error(errorCode(code), err.Error(), nil)
	return code
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// session is what a command needs after config is loaded.
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	out    *OutputFormatter
}

// open loads the configuration and builds the logger and formatter.
func (o *RootOptions) open(cmd *cobra.Command) (*session, error) {
	if !isValidFormat(o.Format) {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}
	cfg, err := config.Load(config.Options{
		File:      o.ConfigFile,
		EnvFile:   o.EnvFile,
		LookupEnv: o.LookupEnv,
	})
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load configuration", err)
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.Logging, o.Verbose)
	slog.SetDefault(logger)
	return &session{
		cfg:    cfg,
		logger: logger,
		out: &OutputFormatter{
			Format:    o.Format,
			Writer:    cmd.OutOrStdout(),
			ErrWriter: cmd.ErrOrStderr(),
			Verbose:   o.Verbose,
		},
	}, nil
}

// client builds a gateway client; the DNA hash must be configured.
func (s *session) client() (*gateway.Client, error) {
	if err := s.cfg.RequireGateway(); err != nil {
		return nil, WrapExitError(ExitCommandError, "gateway not configured", err)
	}
	gc := s.cfg.ClientConfig()
	c, err := gateway.New(gc, gateway.WithLogger(s.logger))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid gateway configuration", err)
	}
	s.out.VerboseLog("Gateway: %s (app %s, dna %s)", gc.URL, gc.AppID, gc.DNAHash)
	return c, nil
}

func newLogger(w io.Writer, lc config.LoggingConfig, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	switch lc.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}
	hopts := &slog.HandlerOptions{Level: level}
	if lc.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}
	return slog.New(slog.NewTextHandler(w, hopts))
}
