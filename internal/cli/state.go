package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/erpbridge/internal/store"
)

// StateOptions holds flags shared by the state and history commands.
type StateOptions struct {
	*RootOptions
	StatePath string
	Backend   string
	Limit     int
}

// StateEntry is one synced item as printed by the state command.
type StateEntry struct {
	Key          string `json:"key"`
	SpecHash     string `json:"spec_hash"`
	ResourceHash string `json:"resource_hash"`
}

// RunEntry is one history row as printed by the history command.
type RunEntry struct {
	ID               string    `json:"run_id"`
	StartedAt        time.Time `json:"started_at"`
	FinishedAt       time.Time `json:"finished_at"`
	SpecsCreated     int       `json:"specs_created"`
	ResourcesCreated int       `json:"resources_created"`
	Skipped          int       `json:"skipped"`
	ErrorCount       int       `json:"error_count"`
}

// NewStateCommand creates the state command.
func NewStateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "state",
		Short:         "Print the local sync state",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runState(opts, cmd)
		},
	}
	addStateFlags(cmd, opts)
	return cmd
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print recent sync runs",
		Long: `Print the most recent sync runs, newest first.

Run history is kept by the sqlite state backend only.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}
	addStateFlags(cmd, opts)
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "maximum runs to show (0 for all)")
	return cmd
}

func addStateFlags(cmd *cobra.Command, opts *StateOptions) {
	cmd.Flags().StringVar(&opts.StatePath, "state", "", "sync state path (overrides config)")
	cmd.Flags().StringVar(&opts.Backend, "backend", "", "state backend: json|sqlite (overrides config)")
}

func runState(opts *StateOptions, cmd *cobra.Command) error {
	s, err := opts.open(cmd)
	if err != nil {
		return err
	}
	state, err := loadSavedState(s, cmd, opts.Backend, opts.StatePath)
	if err != nil {
		return err
	}

	entries := make([]StateEntry, 0, len(state))
	for _, key := range state.Keys() {
		rec, _ := state.Get(key)
		entries = append(entries, StateEntry{Key: key, SpecHash: rec.SpecHash.String(), ResourceHash: rec.ResourceHash.String()})
	}
	return s.out.Render(entries, func(w io.Writer) {
		if len(entries) == 0 {
			fmt.Fprintln(w, "No items synced.")
			return
		}
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ITEM\tSPEC\tRESOURCE")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Key, e.SpecHash, e.ResourceHash)
		}
		tw.Flush()
	})
}

func runHistory(opts *StateOptions, cmd *cobra.Command) error {
	s, err := opts.open(cmd)
	if err != nil {
		return err
	}
	runs, err := listRuns(s, cmd, opts)
	if err != nil {
		return err
	}

	entries := make([]RunEntry, len(runs))
	for i, r := range runs {
		entries[i] = RunEntry(r)
	}
	return s.out.Render(entries, func(w io.Writer) {
		if len(entries) == 0 {
			fmt.Fprintln(w, "No runs recorded.")
			return
		}
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "RUN\tSTARTED\tDURATION\tSPECS\tRESOURCES\tSKIPPED\tERRORS")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
				e.ID, e.StartedAt.UTC().Format(time.RFC3339), e.FinishedAt.Sub(e.StartedAt),
				e.SpecsCreated, e.ResourcesCreated, e.Skipped, e.ErrorCount)
		}
		tw.Flush()
	})
}

// loadSavedState reads the sync state without creating a backend that does
// not exist yet. Nothing saved reads as an empty state.
func loadSavedState(s *session, cmd *cobra.Command, kindFlag, pathFlag string) (store.State, error) {
	backend, err := openStateReader(s, kindFlag, pathFlag)
	if errors.Is(err, store.ErrNoState) {
		return store.State{}, nil
	}
	if err != nil {
		return nil, err
	}
	state, err := backend.Load(cmd.Context())
	if closeErr := backend.Close(); closeErr != nil {
		s.logger.Error("error closing state", "error", closeErr)
	}
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load sync state", err)
	}
	return state, nil
}

func listRuns(s *session, cmd *cobra.Command, opts *StateOptions) ([]store.Run, error) {
	backend, err := openStateReader(s, opts.Backend, opts.StatePath)
	if errors.Is(err, store.ErrNoState) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer backend.Close()

	rec, ok := backend.(store.RunRecorder)
	if !ok {
		return nil, NewExitError(ExitCommandError, "run history requires the sqlite state backend")
	}
	runs, err := rec.ListRuns(cmd.Context(), opts.Limit)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to read run history", err)
	}
	return runs, nil
}
