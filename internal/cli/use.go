package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/erpbridge/internal/model"
	"github.com/roach88/erpbridge/internal/useprocess"
)

// UseOptions holds flags for the use command.
type UseOptions struct {
	*RootOptions
	Resource string
	Provider string
	Receiver string
	Quantity float64
	Due      time.Duration
	Note     string
	NoPPRs   bool
}

// NewUseCommand creates the use command.
func NewUseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "use",
		Short: "Record a use of a shared resource",
		Long: `Propose a Use commitment for a resource, then log the Use event fulfilling it.

Participation receipts are generated for both agents unless --no-pprs is set.
If the event fails, the commitment stays on the ledger unfulfilled.

Example:
  erpbridge use --resource uhCEk... --provider uhCAk... --receiver uhCAk... --quantity 1`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUse(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Resource, "resource", "", "resource hash (required)")
	cmd.Flags().StringVar(&opts.Provider, "provider", "", "provider agent key (required)")
	cmd.Flags().StringVar(&opts.Receiver, "receiver", "", "receiver agent key (required)")
	cmd.Flags().Float64Var(&opts.Quantity, "quantity", 1, "quantity used")
	cmd.Flags().DurationVar(&opts.Due, "due", 24*time.Hour, "commitment due date, relative to now")
	cmd.Flags().StringVar(&opts.Note, "note", "", "note attached to the commitment and event")
	cmd.Flags().BoolVar(&opts.NoPPRs, "no-pprs", false, "do not generate participation receipts")
	_ = cmd.MarkFlagRequired("resource")
	_ = cmd.MarkFlagRequired("provider")
	_ = cmd.MarkFlagRequired("receiver")

	return cmd
}

func runUse(opts *UseOptions, cmd *cobra.Command) error {
	req, err := opts.request()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid use request", err)
	}

	s, err := opts.open(cmd)
	if err != nil {
		return err
	}
	client, err := s.client()
	if err != nil {
		return err
	}

	result, err := useprocess.New(client, s.logger).Execute(cmd.Context(), req)
	if err != nil {
		return WrapExitError(ExitFailure, "use process failed", err)
	}
	return s.out.Render(result, func(w io.Writer) { renderUse(w, result) })
}

func (o *UseOptions) request() (useprocess.Request, error) {
	var req useprocess.Request
	var err error
	if req.ResourceHash, err = model.ParseHash(o.Resource); err != nil {
		return req, fmt.Errorf("--resource: %w", err)
	}
	if req.Provider, err = model.ParseHash(o.Provider); err != nil {
		return req, fmt.Errorf("--provider: %w", err)
	}
	if req.Receiver, err = model.ParseHash(o.Receiver); err != nil {
		return req, fmt.Errorf("--receiver: %w", err)
	}
	if o.Quantity <= 0 {
		return req, fmt.Errorf("--quantity must be positive, got %g", o.Quantity)
	}
	req.Quantity = o.Quantity

	now := time.Now
	if o.Now != nil {
		now = o.Now
	}
	req.DueDate = model.TimestampFromTime(now().Add(o.Due))
	req.SkipReceipts = o.NoPPRs
	if o.Note != "" {
		note := o.Note
		req.CommitmentNote = &note
		req.EventNote = &note
	}
	return req, nil
}

func renderUse(w io.Writer, r *useprocess.Result) {
	fmt.Fprintf(w, "Commitment: %s (due %s)\n", r.Commitment.CommitmentHash,
		r.Commitment.Commitment.DueDate.Time().Format(time.RFC3339))
	fmt.Fprintf(w, "Event:      %s\n", r.Event.EventHash)
	if r.Event.PPRClaims.IsNull() {
		fmt.Fprintln(w, "Receipts:   none")
		return
	}
	var claims model.IssueParticipationReceiptsOutput
	if err := r.Event.PPRClaims.Decode(&claims); err != nil {
		fmt.Fprintln(w, "Receipts:   issued")
		return
	}
	fmt.Fprintf(w, "Receipts:   provider %s, receiver %s\n", claims.ProviderClaimHash, claims.ReceiverClaimHash)
}
