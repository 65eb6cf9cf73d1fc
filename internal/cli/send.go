package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/registrar/internal/app"
	"github.com/trebuchet-org/registrar/internal/cli/render"
	"github.com/trebuchet-org/registrar/internal/usecase"
)

// NewSendCmd creates the send command
func NewSendCmd() *cobra.Command {
	var count int64

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a value from the registered user",
		Long: `Call send(value) from accounts[1].

With --interval, --overlap or --count the value is sent repeatedly until
interrupted or the count is reached. The default timeout does not apply;
an explicit --timeout stops the loop when it expires. The command fails
if any send failed. A tick that fires while the previous send is still
in flight is handled by the overlap policy:

  skip      drop the tick (default)
  queue     run every tick, one after another
  coalesce  keep at most one waiting run

Examples:
  registrar send --value 100
  registrar send --interval 3s
  registrar send --interval 500ms --overlap coalesce --count 20 --timeout 0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			periodic := count > 0 || cmd.Flags().Changed("interval") || cmd.Flags().Changed("overlap")
			if periodic {
				return runSendInterval(cmd, app, count)
			}

			result, err := app.SendValue.Run(cmd.Context(), usecase.SendValueParams{
				Value: app.Config.Client.ValueBig(),
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), render.NewSendJSON(result))
			}
			return render.NewTransactionRenderer(cmd.OutOrStdout()).RenderSend(result)
		},
	}

	cmd.Flags().Uint64("value", 0, "Value to send (default from config, 100)")
	cmd.Flags().Duration("interval", 0, "Send repeatedly at this interval (default from config, 3s)")
	cmd.Flags().String("overlap", "", "Overlap policy: skip, queue or coalesce")
	cmd.Flags().Int64Var(&count, "count", 0, "Stop after this many sends, 0 runs until interrupted")

	return cmd
}

func runSendInterval(cmd *cobra.Command, app *app.App, count int64) error {
	renderer := render.NewTransactionRenderer(cmd.OutOrStdout())

	params := usecase.SendIntervalParams{
		Value:    app.Config.Client.ValueBig(),
		Interval: app.Config.Client.Interval,
		Overlap:  app.Config.Client.Overlap,
		Count:    count,
	}
	if !app.Config.JSON {
		params.OnResult = renderer.RenderSendLine
	}

	ctx, cancel := loopContext(cmd, app)
	defer cancel()

	result, err := app.SendInterval.Run(ctx, params)
	if err != nil {
		return err
	}

	if app.Config.JSON {
		err = render.RenderJSON(cmd.OutOrStdout(), render.NewIntervalJSON(result))
	} else {
		err = renderer.RenderIntervalSummary(result)
	}
	if err != nil {
		return err
	}
	return result.Err()
}
