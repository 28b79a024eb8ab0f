package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/habedi/tixshell/client"
	"github.com/habedi/tixshell/pkg/clierr"
	"github.com/habedi/tixshell/pkg/validation"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// uploadCmd posts a file as multipart/form-data.
func uploadCmd() *cobra.Command {
	var filePath, field string
	var formPairs []string

	cmd := &cobra.Command{
		Use:   "upload [path]",
		Short: "Upload a file to the API as multipart/form-data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if err := validation.ValidateRelativePath(path); err != nil {
				return clierr.New(clierr.Validation, err.Error(), err)
			}
			if err := validation.ValidateNonEmptyString("field", field); err != nil {
				return clierr.New(clierr.Validation, err.Error(), err)
			}
			fields, err := parseFormFields(formPairs)
			if err != nil {
				return clierr.New(clierr.Validation, err.Error(), err)
			}
			content, err := os.ReadFile(filePath)
			if err != nil {
				return clierr.New(clierr.Validation, fmt.Sprintf("Cannot read %s.", filePath), err)
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			log.Info().Str("path", path).Str("file", filePath).Int("bytes", len(content)).Msg("Uploading file")
			resp, err := a.client.Upload(cmd.Context(), path, client.Form{
				Fields: fields,
				Files: []client.FormFile{{
					Field:    field,
					FileName: filepath.Base(filePath),
					Content:  content,
				}},
			})
			printResponse(cmd, resp)
			return classify(err)
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "File to upload")
	cmd.Flags().StringVar(&field, "field", "file", "Form field name of the file part")
	cmd.Flags().StringArrayVar(&formPairs, "form", nil, "Extra form field as key=value (repeatable)")
	if err := cmd.MarkFlagRequired("file"); err != nil {
		log.Error().Err(err).Msg("Failed to mark 'file' flag as required")
	}
	return cmd
}
