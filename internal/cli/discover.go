package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/erpbridge/internal/discovery"
	"github.com/roach88/erpbridge/internal/model"
)

// DiscoverOptions holds flags for the discover subcommands.
type DiscoverOptions struct {
	*RootOptions
	StatePath string
	Backend   string
}

// NewDiscoverCommand creates the discover command group.
func NewDiscoverCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DiscoverOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Read what has been published on the ledger",
		Long: `Read specifications and resources published on the ledger.

Example:
  erpbridge discover category equipment
  erpbridge discover spec uhCkk...
  erpbridge discover synced`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "category <name>",
		Short:         "List specifications in a category",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiscoverCategory(opts, cmd, args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "spec <spec-hash>",
		Short:         "Show a specification with its rules and resources",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := model.ParseHash(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid spec hash", err)
			}
			return runCorrelate(opts, cmd, []model.Hash{h})
		},
	})

	synced := &cobra.Command{
		Use:   "synced",
		Short: "Show every synced specification with its resources",
		Long: `Read back every specification recorded in the local sync state, with its
governance rules and the resources linked to it.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiscoverSynced(opts, cmd)
		},
	}
	synced.Flags().StringVar(&opts.StatePath, "state", "", "sync state path (overrides config)")
	synced.Flags().StringVar(&opts.Backend, "backend", "", "state backend: json|sqlite (overrides config)")
	cmd.AddCommand(synced)

	return cmd
}

func runDiscoverCategory(opts *DiscoverOptions, cmd *cobra.Command, category string) error {
	s, err := opts.open(cmd)
	if err != nil {
		return err
	}
	client, err := s.client()
	if err != nil {
		return err
	}

	specs, err := discovery.New(client).ByCategory(cmd.Context(), category)
	if err != nil {
		return WrapExitError(ExitFailure, "discovery failed", err)
	}
	return s.out.Render(specs, func(w io.Writer) { renderSpecs(w, specs) })
}

func runDiscoverSynced(opts *DiscoverOptions, cmd *cobra.Command) error {
	s, err := opts.open(cmd)
	if err != nil {
		return err
	}
	state, err := loadSavedState(s, cmd, opts.Backend, opts.StatePath)
	if err != nil {
		return err
	}

	hashes := make([]model.Hash, 0, len(state))
	for _, key := range state.Keys() {
		rec, _ := state.Get(key)
		hashes = append(hashes, rec.SpecHash)
	}
	return correlate(s, cmd, hashes)
}

func runCorrelate(opts *DiscoverOptions, cmd *cobra.Command, hashes []model.Hash) error {
	s, err := opts.open(cmd)
	if err != nil {
		return err
	}
	return correlate(s, cmd, hashes)
}

func correlate(s *session, cmd *cobra.Command, hashes []model.Hash) error {
	client, err := s.client()
	if err != nil {
		return err
	}
	joined, err := discovery.New(client).Correlate(cmd.Context(), hashes)
	if err != nil {
		return WrapExitError(ExitFailure, "discovery failed", err)
	}
	return s.out.Render(joined, func(w io.Writer) { renderSpecResources(w, joined) })
}

func renderSpecResources(w io.Writer, joined []discovery.SpecResources) {
	if len(joined) == 0 {
		fmt.Fprintln(w, "No specifications.")
		return
	}
	for i, sr := range joined {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%s)\n", sr.Spec.Name, sr.Spec.Category)
		fmt.Fprintf(w, "  spec:      %s\n", sr.SpecHash)
		fmt.Fprintf(w, "  rules:     %d\n", len(sr.Rules))
		fmt.Fprintf(w, "  resources: %d\n", len(sr.Resources))
		if len(sr.Resources) == 0 {
			continue
		}
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, r := range sr.Resources {
			fmt.Fprintf(tw, "    %g\t%s\t%s\n", r.Quantity, r.Unit, r.State)
		}
		tw.Flush()
	}
}
