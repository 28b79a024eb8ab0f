package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/habedi/tixshell/pkg/clierr"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// configPath is the value of the persistent --config flag.
var configPath string

// Execute runs the root command and exits with the code of its error category.
func Execute(ctx context.Context) {
	rootCmd := createRootCmd()
	rootCmd.PersistentFlags().BoolP("help", "h", false, "Show help for a command")

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("Command execution failed.")
		os.Exit(exitCode(err))
	}
}

func createRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tixshell",
		Short:         "An authenticated client and web shell for the TicketHub API",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")

	rootCmd.AddCommand(
		serveCmd(),
		requestCmd(),
		uploadCmd(),
		batchCmd(),
		profileCmd(),
		tokenCmd(),
		statusCmd(),
		routesCmd(),
		logoutCmd(),
		versionCmd(),
	)

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.SetHelpCommand(&cobra.Command{
		Use:    "no-help",
		Hidden: true,
	})

	return rootCmd
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		return cliErr.Type.ExitCode()
	}
	return 1
}
