package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/kinforge/kinforge/internal/server"
	"github.com/kinforge/kinforge/pkg/treestore"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tree collection over HTTP",
		Long: `Serve the tree collection over an HTTP API.

The server uses MongoDB when mongo_uri is configured, otherwise the same
JSON file the CLI commands use.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Listen = listen
			}

			var store treestore.Store
			if cfg.MongoURI != "" {
				c.Logger.Info("Using MongoDB tree store")
				store, err = treestore.NewMongoStore(ctx, cfg.MongoURI)
			} else {
				store, err = c.openStore(cfg)
			}
			if err != nil {
				return err
			}
			defer store.Close()

			layoutCache := c.openCache(ctx, cfg)
			defer layoutCache.Close()

			srv := server.New(store, layoutCache, c.Logger)
			httpSrv := &http.Server{
				Addr:              cfg.Listen,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = httpSrv.Shutdown(shutdownCtx)
			}()

			c.Logger.Infof("Listening on http://%s", cfg.Listen)
			if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config)")
	return cmd
}
