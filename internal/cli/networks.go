package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/registrar/internal/cli/render"
	"github.com/trebuchet-org/registrar/internal/usecase"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List available networks from registrar.toml",
		Long: `List the networks configured in the [networks] section of registrar.toml,
plus the built-in development, localhost and memory networks.

This command shows all available networks and attempts to fetch their chain IDs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListNetworks.Run(cmd.Context(), usecase.ListNetworksParams{})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), render.NewNetworksJSON(result))
			}
			return render.NewNetworksRenderer(cmd.OutOrStdout()).RenderNetworksList(result)
		},
	}

	cmd.AddCommand(newUseNetworkCmd())

	return cmd
}

func newUseNetworkCmd() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "use [network]",
		Short: "Set the network used when --network is not given",
		Long: `Save the default network to .registrar/config.local.json.

Without an argument, pick the network interactively.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var name string
			switch {
			case reset:
			case len(args) == 1:
				name = args[0]
			default:
				list, err := app.ListNetworks.Run(cmd.Context(), usecase.ListNetworksParams{})
				if err != nil {
					return err
				}
				name, err = app.Selector.SelectNetwork(cmd.Context(), list.Networks, list.Current)
				if err != nil {
					return fmt.Errorf("no network given: %w", err)
				}
			}

			result, err := app.UseNetwork.Run(cmd.Context(), usecase.UseNetworkParams{Name: name})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), result)
			}
			return render.NewNetworksRenderer(cmd.OutOrStdout()).RenderUseNetwork(result)
		},
	}

	cmd.Flags().BoolVar(&reset, "clear", false, "Remove the saved default network")

	return cmd
}
