package cmd

import (
	"strconv"

	"github.com/habedi/tixshell/pkg/clierr"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// statusCmd shows the derived session view.
func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a session is active and its role",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			state, err := a.session.State(cmd.Context())
			if err != nil {
				return clierr.New(clierr.Internal, "Failed to read the session state.", err)
			}
			role := state.Role
			if role == "" {
				role = "-"
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Authenticated", "Role", "Store", "Scope", "API"})
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
			table.SetAutoWrapText(false)
			table.Append([]string{
				strconv.FormatBool(state.Authenticated),
				role,
				a.cfg.Store.Backend,
				a.cfg.Store.Scope,
				a.client.BaseURL(),
			})
			table.Render()
			return nil
		},
	}
}
