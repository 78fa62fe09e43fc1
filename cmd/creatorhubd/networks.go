package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/c2developers/creatorhub/internal/core/domain"
	"github.com/c2developers/creatorhub/internal/core/service"
	infraconfig "github.com/c2developers/creatorhub/internal/infrastructure/config"
	"github.com/c2developers/creatorhub/internal/pkg/config"
)

func newNetworksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "networks",
		Short: "Inspect the network registry",
	}

	var (
		file   string
		asJSON bool
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "Print every known network",
		Long:  `The list command prints the built-in networks merged with the optional YAML overlay.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				settings, err := config.LoadNetworkSettings(cmd.Context())
				if err != nil {
					return err
				}
				file = settings.File
			}
			overlay, err := infraconfig.LoadNetworks(file)
			if err != nil {
				return err
			}
			specs := service.NewNetworkRegistry(overlay...).All()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(specs)
			}
			return printNetworks(cmd.OutOrStdout(), specs)
		},
	}
	list.Flags().StringVar(&file, "file", "", "YAML network overlay (defaults to $NETWORKS_FILE)")
	list.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	cmd.AddCommand(list)
	return cmd
}

func printNetworks(w io.Writer, specs []domain.NetworkSpec) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CHAIN ID\tHEX\tNAME\tSUPPORTED\tSYMBOL")
	for _, s := range specs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%t\t%s\n", s.ChainID, s.HexChainID(), s.Name, s.Supported, s.Currency.Symbol)
	}
	return tw.Flush()
}
