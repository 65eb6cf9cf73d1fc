package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/registrar/internal/adapters/progress"
	"github.com/trebuchet-org/registrar/internal/app"
	"github.com/trebuchet-org/registrar/internal/config"
	"github.com/trebuchet-org/registrar/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
	// loopKey is the context key for the context before --timeout applies
	loopKey contextKey = "loop"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var stop []func()
	release := func() {
		for i := len(stop) - 1; i >= 0; i-- {
			stop[i]()
		}
		stop = nil
	}

	rootCmd := &cobra.Command{
		Use:   "registrar",
		Short: "Deploy and drive the Registration contract",
		Long: `registrar deploys the Registration contract, hands its address and ABI
to clients through a metadata record, and runs the registration client:
register a user, send values once or on an interval.

Networks come from the [networks] table of registrar.toml. The built-in
"memory" network runs an in-process ledger for development.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot, cmd)

			var sink usecase.ProgressSink
			if v.GetBool("json") || v.GetBool("non_interactive") {
				sink = progress.NewNopSink()
			} else {
				spinner := progress.NewSpinnerProgressReporter()
				stop = append(stop, spinner.Stop)
				sink = spinner
			}

			appInstance, err := app.InitApp(v, sink)
			if err != nil {
				release()
				return fmt.Errorf("failed to initialize app: %w", err)
			}
			stop = append(stop, appInstance.Close)

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			stop = append(stop, cancel)
			ctx = context.WithValue(ctx, loopKey, ctx)

			if appInstance.Config.Timeout > 0 {
				var cancelTimeout context.CancelFunc
				ctx, cancelTimeout = context.WithTimeout(ctx, appInstance.Config.Timeout)
				stop = append(stop, cancelTimeout)
			}

			cmd.SetContext(context.WithValue(ctx, appKey, appInstance))
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (name from registrar.toml or an RPC URL)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Abort after this long, 0 disables (default 5m)")
	rootCmd.PersistentFlags().String("source", "", "Contract source: static or network-lookup")
	rootCmd.PersistentFlags().String("metadata", "", "Deployment record location (path or s3://bucket/key)")
	rootCmd.PersistentFlags().String("artifact", "", "Path of the compiled contract artifact")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	deployCmd := NewDeployCmd()
	deployCmd.GroupID = "main"
	rootCmd.AddCommand(deployCmd)

	showCmd := NewShowCmd()
	showCmd.GroupID = "main"
	rootCmd.AddCommand(showCmd)

	registerCmd := NewRegisterCmd()
	registerCmd.GroupID = "main"
	rootCmd.AddCommand(registerCmd)

	sendCmd := NewSendCmd()
	sendCmd.GroupID = "main"
	rootCmd.AddCommand(sendCmd)

	demoCmd := NewDemoCmd()
	demoCmd.GroupID = "main"
	rootCmd.AddCommand(demoCmd)

	networksCmd := NewNetworksCmd()
	networksCmd.GroupID = "management"
	rootCmd.AddCommand(networksCmd)

	rootCmd.AddCommand(NewVersionCmd())

	withCleanup(rootCmd, release)

	return rootCmd
}

// withCleanup runs cleanup after every RunE in the tree. Cobra skips the
// post-run hooks when RunE fails, which would leave the spinner running.
func withCleanup(cmd *cobra.Command, cleanup func()) {
	if run := cmd.RunE; run != nil {
		cmd.RunE = func(c *cobra.Command, args []string) error {
			defer cleanup()
			return run(c, args)
		}
	}
	for _, sub := range cmd.Commands() {
		withCleanup(sub, cleanup)
	}
}

// loopContext returns the context for sends that repeat until interrupted.
// Only an explicit --timeout bounds them.
func loopContext(cmd *cobra.Command, app *app.App) (context.Context, context.CancelFunc) {
	ctx, ok := cmd.Context().Value(loopKey).(context.Context)
	if !ok {
		ctx = cmd.Context()
	}
	if app.Config.LoopTimeout > 0 {
		return context.WithTimeout(ctx, app.Config.LoopTimeout)
	}
	return context.WithCancel(ctx)
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
