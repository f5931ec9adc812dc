package datacli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/marquee/internal/datasource"
	"github.com/five82/marquee/internal/logging"
)

func newServeCmd(g *globals) *cobra.Command {
	var addr, auth, logLevel string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tree over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := g.open()
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer func() { _ = store.Close() }()

			logger := logging.New(cmd.ErrOrStderr(), logging.Options{Level: logLevel})
			srv := &datasource.Server{Store: store, Auth: auth, Logger: logger}

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", addr, err)
			}
			httpSrv := &http.Server{
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = httpSrv.Shutdown(shutdownCtx)
			}()

			logger.Info("serving", "addr", ln.Addr().String(), "db", g.path(), "auth", auth != "")
			if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve: %w", err)
			}
			logger.Info("stopped")
			return nil
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", defaultAddr, "Listen address")
	cmd.Flags().StringVar(&auth, "auth", "", "Require this auth query token")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	return cmd
}
