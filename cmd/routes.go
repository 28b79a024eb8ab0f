package cmd

import (
	"github.com/habedi/tixshell/web"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// routesCmd prints the pages served by the web shell and who may open them.
func routesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the web shell routes and their access levels",
		Run: func(cmd *cobra.Command, args []string) {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Path", "Page", "Access"})
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
			table.SetAutoWrapText(false)
			for _, r := range web.Routes {
				table.Append([]string{r.Pattern, r.Title, r.Access.String()})
			}
			table.Render()
		},
	}
}
