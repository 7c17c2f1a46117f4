package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/erpbridge/internal/erp"
	"github.com/roach88/erpbridge/internal/store"
	"github.com/roach88/erpbridge/internal/syncer"
)

// SyncOptions holds flags for the sync command.
type SyncOptions struct {
	*RootOptions
	StatePath string
	Backend   string
	Catalog   string
}

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SyncOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Publish available ERP items to the ledger",
		Long: `Publish every available ERP item that is not yet recorded in the sync state.

Each item becomes a resource specification plus an economic resource linked to
it. Items already recorded are skipped, so running sync again is safe. Failed
items are reported and retried on the next run.

Exit status is 1 when any item failed.

Example:
  erpbridge sync
  erpbridge sync --backend sqlite --state ./bridge.db --catalog ./inventory.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.StatePath, "state", "", "sync state path (overrides config)")
	cmd.Flags().StringVar(&opts.Backend, "backend", "", "state backend: json|sqlite (overrides config)")
	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "YAML item catalog (default: built-in sample)")

	return cmd
}

func runSync(opts *SyncOptions, cmd *cobra.Command) error {
	s, err := opts.open(cmd)
	if err != nil {
		return err
	}
	client, err := s.client()
	if err != nil {
		return err
	}

	catalogPath := s.cfg.Catalog
	if opts.Catalog != "" {
		catalogPath = opts.Catalog
	}
	source, err := loadSource(catalogPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load catalog", err)
	}
	if catalogPath == "" {
		s.out.VerboseLog("Catalog: built-in sample")
	} else {
		s.out.VerboseLog("Catalog: %s", catalogPath)
	}

	backend, err := openBackend(s, opts.Backend, opts.StatePath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := backend.Close(); closeErr != nil {
			s.logger.Error("error closing state", "error", closeErr)
		}
	}()

	syncOpts := []syncer.Option{syncer.WithLogger(s.logger)}
	if opts.RunIDs != nil {
		syncOpts = append(syncOpts, syncer.WithRunIDGenerator(opts.RunIDs))
	}
	if opts.Now != nil {
		syncOpts = append(syncOpts, syncer.WithClock(opts.Now))
	}

	ctx := cmd.Context()
	sy, err := syncer.New(ctx, source, client, backend, syncOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load sync state", err)
	}

	result, runErr := sy.Run(ctx)
	if result == nil {
		return WrapExitError(ExitCommandError, "sync failed", runErr)
	}
	if err := s.out.Render(result, func(w io.Writer) { renderSyncResult(w, result) }); err != nil {
		return err
	}

	if runErr != nil {
		return WrapExitError(ExitFailure, "failed to save sync state", runErr)
	}
	if result.HasErrors() {
		return NewExitError(ExitFailure, fmt.Sprintf("%d item(s) failed to sync", len(result.Errors)))
	}
	return nil
}

// loadSource returns the catalog at path, or the built-in sample when path is empty.
func loadSource(path string) (erp.Source, error) {
	if path == "" {
		return erp.SampleCatalog(), nil
	}
	catalog, err := erp.LoadCatalog(path)
	if err != nil {
		return nil, err
	}
	return catalog, nil
}

// openBackend opens the state backend, letting flags override the config.
func openBackend(s *session, kindFlag, pathFlag string) (store.Backend, error) {
	return openStateWith(store.Open, s, kindFlag, pathFlag)
}

// openStateReader opens the state backend for read-only commands. It never
// creates a database; a missing one yields store.ErrNoState.
func openStateReader(s *session, kindFlag, pathFlag string) (store.Backend, error) {
	b, err := openStateWith(store.OpenExisting, s, kindFlag, pathFlag)
	if errors.Is(err, store.ErrNoState) {
		s.logger.Debug("no sync state saved yet", "error", err)
	}
	return b, err
}

func openStateWith(open func(store.Kind, string) (store.Backend, error), s *session, kindFlag, pathFlag string) (store.Backend, error) {
	kindName := s.cfg.State.Backend
	if kindFlag != "" {
		kindName = kindFlag
	}
	kind, err := store.ParseKind(kindName)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid state backend", err)
	}
	path := s.cfg.State.Path
	if pathFlag != "" {
		path = pathFlag
	}
	s.out.VerboseLog("State: %s (%s)", path, kind)
	backend, err := open(kind, path)
	if errors.Is(err, store.ErrNoState) {
		return nil, err
	}
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open state", err)
	}
	return backend, nil
}

func renderSyncResult(w io.Writer, r *syncer.Result) {
	fmt.Fprintf(w, "Sync run %s\n", r.RunID)
	fmt.Fprintf(w, "  Specifications created: %d\n", r.SpecsCreated)
	fmt.Fprintf(w, "  Resources created:      %d\n", r.ResourcesCreated)
	fmt.Fprintf(w, "  Skipped:                %d\n", r.Skipped)
	fmt.Fprintf(w, "  Errors:                 %d\n", len(r.Errors))
	fmt.Fprintf(w, "  Total processed:        %d\n", r.TotalProcessed())
	if r.HasErrors() {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Failed items:")
		for _, e := range r.Errors {
			fmt.Fprintf(w, "  - %s\n", e)
		}
	}
}
