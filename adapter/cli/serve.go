package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vitaplan/vitaplan/adapter/api"
)

// ServeDeps is set by the composition root before Execute.
type ServeDeps struct {
	Handler *api.PlansHandler
	Addr    string
}

var serveDeps *ServeDeps

// SetServeDeps installs the API server dependencies.
func SetServeDeps(d *ServeDeps) {
	serveDeps = d
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP read API over stored plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveDeps == nil || serveDeps.Handler == nil {
			return fmt.Errorf("application not initialized")
		}

		cfg := api.DefaultServerConfig()
		if serveDeps.Addr != "" {
			cfg.Addr = serveDeps.Addr
		}
		server := api.NewServer(cfg, serveDeps.Handler, logger)

		errCh := make(chan error, 1)
		go func() { errCh <- server.Start() }()

		select {
		case err := <-errCh:
			return err
		case <-cmd.Context().Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
