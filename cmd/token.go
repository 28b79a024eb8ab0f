package cmd

import (
	"github.com/habedi/tixshell/auth"
	"github.com/habedi/tixshell/pkg/clierr"
	"github.com/habedi/tixshell/pkg/validation"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// tokenCmd groups commands that manage the stored credential pair.
func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the stored credentials",
	}
	cmd.AddCommand(tokenSetCmd())
	return cmd
}

// tokenSetCmd imports an access and refresh token issued by the login flow.
func tokenSetCmd() *cobra.Command {
	var access, refresh string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store an access token and refresh token",
		Long:  "Store an access token and refresh token. Missing values are prompted for without echo.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if access == "" {
				if access, err = readSecret(cmd.OutOrStdout(), "Access token: "); err != nil {
					return clierr.New(clierr.Validation, "Failed to read the access token.", err)
				}
			}
			if refresh == "" {
				if refresh, err = readSecret(cmd.OutOrStdout(), "Refresh token: "); err != nil {
					return clierr.New(clierr.Validation, "Failed to read the refresh token.", err)
				}
			}
			if err := validation.ValidateNonEmptyString("access token", access); err != nil {
				return clierr.New(clierr.Validation, err.Error(), err)
			}
			if err := validation.ValidateNonEmptyString("refresh token", refresh); err != nil {
				return clierr.New(clierr.Validation, err.Error(), err)
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := auth.SavePair(cmd.Context(), a.store, auth.Pair{AccessToken: access, RefreshToken: refresh}); err != nil {
				return clierr.New(clierr.Internal, "Failed to save the credentials.", err)
			}
			log.Info().Msg("Credentials stored")
			cmd.Println("Credentials saved successfully.")
			return nil
		},
	}

	cmd.Flags().StringVar(&access, "access", "", "Access token")
	cmd.Flags().StringVar(&refresh, "refresh", "", "Refresh token")
	return cmd
}
