package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/sectorviz/sectorviz/internal/server"
)

// newServeCmd creates the serve command for the preview HTTP server.
// The listing and style files are re-read on every request, so editing a
// style file and refreshing the browser shows the change immediately.
func newServeCmd() *cobra.Command {
	var (
		addr    string
		style   string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve [listing]",
		Short: "Serve live previews of a disk listing over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), args[0], addr, style, noCache)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "localhost:8537", "listen address")
	cmd.Flags().StringVarP(&style, "style", "s", "", "TOML style file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

func runServe(ctx context.Context, listing, addr, style string, noCache bool) error {
	logger := loggerFromContext(ctx)

	runner := newRunner(ctx, noCache)
	defer runner.Close()

	srv := server.New(server.Config{
		ListingPath: listing,
		StylePath:   style,
	}, runner, logger)

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("preview server listening", "addr", addr, "listing", listing)
		printInfo("Preview server running")
		printNextStep("Open", fmt.Sprintf("http://%s/render?format=svg", addr))
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return httpSrv.Shutdown(shutdownCtx)
	}
}
