package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/registrar/internal/cli/render"
	"github.com/trebuchet-org/registrar/internal/usecase"
)

// NewRegisterCmd creates the register command
func NewRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register the second account as a user",
		Long: `Call registerUser(accounts[1], name, age) from accounts[0], the contract
owner. Name and age default to the [client] section of registrar.toml.

Examples:
  registrar register
  registrar register --name "Jane Roe" --age 41`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.RegisterUser.Run(cmd.Context(), usecase.RegisterUserParams{
				Name: app.Config.Client.UserName,
				Age:  app.Config.Client.AgeBig(),
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), render.NewRegisterJSON(result))
			}
			return render.NewTransactionRenderer(cmd.OutOrStdout()).RenderRegister(result)
		},
	}

	cmd.Flags().String("name", "", "User name (default from config, \"John Doe\")")
	cmd.Flags().Uint64("age", 0, "User age (default from config, 30)")

	return cmd
}
