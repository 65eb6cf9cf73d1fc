package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/registrar/internal/cli/render"
	"github.com/trebuchet-org/registrar/internal/usecase"
)

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	var noOwner bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the deployment the client would use",
		Long: `Resolve the deployment through the configured contract source and print
its address, network id and ABI summary. The contract owner is read with
an owner() call unless --no-owner is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ShowDeployment.Run(cmd.Context(), usecase.ShowDeploymentParams{
				QueryOwner: !noOwner,
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), render.NewShowJSON(result))
			}
			return render.NewDeploymentRenderer(cmd.OutOrStdout()).RenderShow(result)
		},
	}

	cmd.Flags().BoolVar(&noOwner, "no-owner", false, "Skip the owner() call")

	return cmd
}
