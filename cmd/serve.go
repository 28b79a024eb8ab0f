package cmd

import (
	"github.com/habedi/tixshell/pkg/clierr"
	"github.com/habedi/tixshell/web"
	"github.com/spf13/cobra"
)

// serveCmd runs the web shell until interrupted.
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web shell",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			addr := a.cfg.Web.Addr()
			cmd.Printf("Serving on http://%s\n", addr)
			if err := web.NewServer(addr, a.session, a.session).Run(cmd.Context()); err != nil {
				return clierr.New(clierr.Internal, "The web shell stopped with an error.", err)
			}
			return nil
		},
	}
}
