package cmd

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/habedi/tixshell/pkg/clierr"
	"github.com/habedi/tixshell/pkg/pool"
	"github.com/habedi/tixshell/pkg/validation"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// batchCmd issues concurrent GET requests.
func batchCmd() *cobra.Command {
	var numThreads int

	cmd := &cobra.Command{
		Use:   "batch [path...]",
		Short: "Send concurrent GET requests and summarize the results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, paths []string) error {
			if err := validation.ValidateThreadCount(numThreads); err != nil {
				return clierr.New(clierr.Validation, err.Error(), err)
			}
			for _, p := range paths {
				if err := validation.ValidateRelativePath(p); err != nil {
					return clierr.New(clierr.Validation, err.Error(), err)
				}
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			bar := progressbar.NewOptions(len(paths),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionSetDescription("Sending requests..."),
				progressbar.OptionSetWidth(20),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
			results := a.client.GetAll(cmd.Context(), paths, numThreads, func() { _ = bar.Add(1) })
			_ = bar.Finish()

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Path", "Status", "Error"})
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
			table.SetAutoWrapText(false)
			for _, res := range results {
				status := "-"
				if res.Value != nil {
					status = fmt.Sprintf("%d %s", res.Value.StatusCode, http.StatusText(res.Value.StatusCode))
				}
				errText := ""
				if res.Err != nil {
					errText = res.Err.Error()
				}
				table.Append([]string{res.Item, status, errText})
			}
			table.Render()

			if errs := pool.Errors(results); len(errs) > 0 {
				return classifyBatch(len(errs), len(results), errs[0])
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&numThreads, "threads", "t", 5, "Number of concurrent requests [1-20]")
	return cmd
}

// classifyBatch reports the category of the first failure.
func classifyBatch(failed, total int, first error) error {
	var categorized *clierr.Error
	if !errors.As(classify(first), &categorized) {
		categorized = clierr.New(clierr.Internal, first.Error(), first)
	}
	return clierr.New(categorized.Type, fmt.Sprintf("%d of %d requests failed. First error: %s", failed, total, categorized.Message), first)
}
