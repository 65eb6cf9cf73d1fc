package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/registrar/internal/cli/render"
	"github.com/trebuchet-org/registrar/internal/usecase"
)

var errMemoryNetwork = errors.New("cannot deploy to a memory network")

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var yes bool
	var skipArtifact bool

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the Registration contract and write its metadata record",
		Long: `Deploy the compiled contract from the first account of the selected network.

The address, ABI and network id are written to the metadata location in one
atomic write, and the artifact's networks table is updated so that clients
using --source network-lookup find the new address.

If the deployment succeeds but the record cannot be written, the command
prints the transaction hash needed to rebuild it and exits non-zero.

Examples:
  registrar deploy --network development
  registrar deploy -n staging --metadata out/metadata.yaml
  registrar deploy --metadata s3://my-bucket/registration.json --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			if app.Config.Network.IsMemory() {
				return fmt.Errorf("%w: a memory deployment does not outlive the process, use `registrar demo -n %s`", errMemoryNetwork, app.Config.Network.Name)
			}

			result, err := app.DeployContract.Run(cmd.Context(), usecase.DeployContractParams{
				Force:        yes,
				SkipArtifact: skipArtifact,
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				if err := render.RenderJSON(cmd.OutOrStdout(), render.NewDeployJSON(result)); err != nil {
					return err
				}
			} else if err := render.NewDeploymentRenderer(cmd.OutOrStdout()).RenderDeploy(result); err != nil {
				return err
			}

			if result.MetadataErr != nil {
				return fmt.Errorf("deployment %s succeeded but its record was not saved: %w", result.Record.TransactionHash, result.MetadataErr)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Overwrite an existing record without asking")
	cmd.Flags().BoolVar(&skipArtifact, "skip-artifact", false, "Do not record the deployment in the artifact networks table")

	return cmd
}
