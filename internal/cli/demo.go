package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/registrar/internal/adapters/ledger"
	"github.com/trebuchet-org/registrar/internal/cli/render"
	"github.com/trebuchet-org/registrar/internal/usecase"
)

// NewDemoCmd creates the demo command
func NewDemoCmd() *cobra.Command {
	var count int64

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Deploy, register a user and send values in one run",
		Long: `Run the whole flow in one process: deploy the contract, register the
second account, then send --count values on the configured interval.

This is the way to try the in-memory ledger, whose state does not outlive
the process:

  registrar demo -n memory --count 3 --interval 200ms`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			deployments := render.NewDeploymentRenderer(out)
			txs := render.NewTransactionRenderer(out)

			params := usecase.DeployContractParams{Force: true}
			if app.Config.Network.IsMemory() {
				if _, err := os.Stat(filepath.Join(app.Config.ProjectRoot, app.Config.Contract.ArtifactPath)); err != nil {
					params.Artifact = ledger.RegistrationArtifact()
				}
			}

			deployed, err := app.DeployContract.Run(ctx, params)
			if err != nil {
				return err
			}
			if err := deployments.RenderDeploy(deployed); err != nil {
				return err
			}
			if deployed.MetadataErr != nil {
				return deployed.MetadataErr
			}
			fmt.Fprintln(out)

			registered, err := app.RegisterUser.Run(ctx, usecase.RegisterUserParams{
				Name: app.Config.Client.UserName,
				Age:  app.Config.Client.AgeBig(),
			})
			if err != nil {
				return err
			}
			if err := txs.RenderRegister(registered); err != nil {
				return err
			}
			fmt.Fprintln(out)

			loopCtx, cancel := loopContext(cmd, app)
			defer cancel()

			sent, err := app.SendInterval.Run(loopCtx, usecase.SendIntervalParams{
				Value:    app.Config.Client.ValueBig(),
				Interval: app.Config.Client.Interval,
				Overlap:  app.Config.Client.Overlap,
				Count:    count,
				OnResult: txs.RenderSendLine,
			})
			if err != nil {
				return err
			}
			if err := txs.RenderIntervalSummary(sent); err != nil {
				return err
			}
			return sent.Err()
		},
	}

	cmd.Flags().Int64Var(&count, "count", 3, "Number of values to send, 0 sends until interrupted")
	cmd.Flags().String("name", "", "User name (default from config)")
	cmd.Flags().Uint64("age", 0, "User age (default from config)")
	cmd.Flags().Uint64("value", 0, "Value to send (default from config)")
	cmd.Flags().Duration("interval", 0, "Send interval (default from config)")
	cmd.Flags().String("overlap", "", "Overlap policy: skip, queue or coalesce")

	return cmd
}
