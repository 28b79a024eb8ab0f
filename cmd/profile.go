package cmd

import (
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// profileCmd fetches the signed-in user's profile and caches it.
func profileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Fetch and cache the signed-in user's profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			p, err := a.client.FetchProfile(cmd.Context())
			if err != nil {
				return classify(err)
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Field", "Value"})
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
			table.SetAutoWrapText(false)
			table.AppendBulk([][]string{
				{"ID", p.ID},
				{"Email", p.Email},
				{"Name", p.FirstName + " " + p.LastName},
				{"Phone", p.PhoneNumber},
				{"Role", p.Role},
			})
			table.Render()
			return nil
		},
	}
}
