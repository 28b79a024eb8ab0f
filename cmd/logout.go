package cmd

import (
	"github.com/habedi/tixshell/pkg/clierr"
	"github.com/spf13/cobra"
)

// logoutCmd ends the session by clearing the stored credentials.
func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			ended, err := a.session.Invalidate(cmd.Context())
			if err != nil {
				return clierr.New(clierr.Internal, "Failed to clear the credentials.", err)
			}
			if !ended {
				cmd.Println("No active session.")
				return nil
			}
			cmd.Println("Signed out.")
			return nil
		},
	}
}
