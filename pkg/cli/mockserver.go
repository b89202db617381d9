package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"go.safehomi.dev/homeadmin/internal/logging"
	"go.safehomi.dev/homeadmin/internal/mockapi"
)

const shutdownTimeout = 5 * time.Second

func newMockServerCommand(opts *Options) *cobra.Command {
	var addr string
	var empty bool
	var secret string
	var dataPath string

	cmd := &cobra.Command{
		Use:   "mock-server",
		Short: "Serve an in-memory copy of the backend API for local development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := "info"
			if opts.Verbose {
				level = "debug"
			}
			logger := logging.New(level, "console", cmd.ErrOrStderr())
			defer func() { _ = logger.Sync() }()

			srv := mockapi.New(mockapi.Options{Secret: secret, Logger: logger})
			if err := seedMockServer(srv, dataPath, empty, logger); err != nil {
				return err
			}

			listener, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", addr, err)
			}

			if !opts.Quiet {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Mock API listening on http://%s\n", listener.Addr())
				fmt.Fprintf(out, "Admin login: %s / %s\n", mockapi.DefaultAdminEmail, mockapi.DefaultAdminPassword)
			}
			if err := serve(cmd.Context(), listener, srv.Handler(), logger); err != nil {
				return err
			}
			if dataPath != "" {
				if err := mockapi.SaveDataset(dataPath, srv.Dataset()); err != nil {
					return err
				}
				logger.Info("saved dataset", zap.String("path", dataPath))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8089", "Listen address")
	cmd.Flags().BoolVar(&empty, "empty", false, "Start with no records")
	cmd.Flags().StringVar(&secret, "secret", "", "Token signing secret (default: built-in development secret)")
	cmd.Flags().StringVar(&dataPath, "data", "", "YAML file to load records from and save them back to on exit")
	return cmd
}

// seedMockServer loads records from path when it exists. Otherwise the demo
// fixtures are used unless empty is set.
func seedMockServer(srv *mockapi.Server, path string, empty bool, logger *zap.Logger) error {
	if path != "" {
		ds, err := mockapi.LoadDataset(path)
		switch {
		case err == nil:
			srv.SeedDataset(ds)
			logger.Info("loaded dataset", zap.String("path", path),
				zap.Int("listings", len(ds.Listings)), zap.Int("inquiries", len(ds.Inquiries)))
			return nil
		case !errors.Is(err, os.ErrNotExist):
			return err
		}
	}
	if !empty {
		srv.Seed(mockapi.Fixtures(time.Now()))
	}
	return nil
}

// serve runs handler on listener until ctx is cancelled, then shuts down
// gracefully.
func serve(ctx context.Context, listener net.Listener, handler http.Handler, logger *zap.Logger) error {
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down mock API")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
