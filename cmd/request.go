package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/habedi/tixshell/client"
	"github.com/habedi/tixshell/pkg/clierr"
	"github.com/habedi/tixshell/pkg/validation"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// requestCmd sends one request through the authenticated client.
func requestCmd() *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:   "request [method] [path]",
		Short: "Send an authenticated request to the API",
		Long:  "Send a request to the API with the stored credentials, refreshing them once if the server answers 401",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			method := strings.ToUpper(args[0])
			path := args[1]
			if err := validation.ValidateMethod(method); err != nil {
				return clierr.New(clierr.Validation, err.Error(), err)
			}
			if err := validation.ValidateRelativePath(path); err != nil {
				return clierr.New(clierr.Validation, err.Error(), err)
			}

			req := client.NewRequest(method, path)
			if data != "" {
				if !json.Valid([]byte(data)) {
					return clierr.New(clierr.Validation, "The --data value is not valid JSON.", nil)
				}
				req.Body = []byte(data)
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			log.Info().Str("method", method).Str("path", path).Msg("Sending request")
			resp, err := a.client.Do(cmd.Context(), req)
			printResponse(cmd, resp)
			return classify(err)
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body")
	return cmd
}

// printResponse writes the status line and body, indenting JSON bodies.
func printResponse(cmd *cobra.Command, resp *client.Response) {
	if resp == nil {
		return
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "HTTP %d %s\n", resp.StatusCode, http.StatusText(resp.StatusCode))
	if len(resp.Body) == 0 {
		return
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, resp.Body, "", "  "); err == nil {
		fmt.Fprintln(out, pretty.String())
		return
	}
	fmt.Fprintln(out, string(resp.Body))
}

// parseFormFields turns key=value pairs into a map.
func parseFormFields(pairs []string) (map[string]string, error) {
	fields := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("form field %q must look like key=value", p)
		}
		fields[k] = v
	}
	return fields, nil
}
