package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/erpbridge/internal/model"
)

// NewHealthCommand creates the health command.
func NewHealthCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the gateway answers",
		Long: `Call a read-only listing function through the gateway.

Exit status is 1 when the gateway does not answer successfully.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			client, err := s.client()
			if err != nil {
				return err
			}

			healthy := client.HealthCheck(cmd.Context())
			data := map[string]any{"healthy": healthy, "url": s.cfg.Gateway.URL}
			if err := s.out.Render(data, func(w io.Writer) {
				if healthy {
					fmt.Fprintf(w, "Gateway healthy: %s\n", s.cfg.Gateway.URL)
				} else {
					fmt.Fprintf(w, "Gateway unreachable: %s\n", s.cfg.Gateway.URL)
				}
			}); err != nil {
				return err
			}
			if !healthy {
				return NewExitError(ExitFailure, "gateway health check failed")
			}
			return nil
		},
	}
}

// NewSpecsCommand creates the specs command.
func NewSpecsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "specs",
		Short:         "List every resource specification on the ledger",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			client, err := s.client()
			if err != nil {
				return err
			}

			out, err := client.GetAllResourceSpecifications(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "failed to list specifications", err)
			}
			specs := out.Specifications
			if specs == nil {
				specs = []model.ResourceSpecification{}
			}
			return s.out.Render(specs, func(w io.Writer) { renderSpecs(w, specs) })
		},
	}
}

// NewResourcesCommand creates the resources command.
func NewResourcesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "resources",
		Short:         "List every economic resource on the ledger",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			client, err := s.client()
			if err != nil {
				return err
			}

			out, err := client.GetAllEconomicResources(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "failed to list resources", err)
			}
			resources := out.Resources
			if resources == nil {
				resources = []model.EconomicResource{}
			}
			return s.out.Render(resources, func(w io.Writer) { renderResources(w, resources) })
		},
	}
}

func renderSpecs(w io.Writer, specs []model.ResourceSpecification) {
	if len(specs) == 0 {
		fmt.Fprintln(w, "No specifications.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCATEGORY\tACTIVE\tTAGS")
	for _, sp := range specs {
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", sp.Name, sp.Category, sp.IsActive, strings.Join(sp.Tags, ","))
	}
	tw.Flush()
}

func renderResources(w io.Writer, resources []model.EconomicResource) {
	if len(resources) == 0 {
		fmt.Fprintln(w, "No resources.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "QUANTITY\tUNIT\tSTATE\tCUSTODIAN")
	for _, r := range resources {
		fmt.Fprintf(tw, "%g\t%s\t%s\t%s\n", r.Quantity, r.Unit, r.State, r.Custodian)
	}
	tw.Flush()
}
