package drcscan

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/redactyl/drcscan/internal/config"
	"github.com/redactyl/drcscan/internal/server"
	"github.com/spf13/cobra"
)

var (
	flagAddr         string
	flagMaxBodyBytes int64
	flagCORS         string
)

const shutdownTimeout = 5 * time.Second

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the obsolete-report detection HTTP service",
		Long:  "Serve POST " + server.PathDetect + ", " + server.PathHealth + " and " + server.PathCatalog + ". Stops gracefully on SIGINT/SIGTERM.",
		RunE:  runServe,
	}
	cmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (default "+server.DefaultAddr+")")
	cmd.Flags().Int64Var(&flagMaxBodyBytes, "max-body-bytes", 0, "request body limit in bytes (default 32 MiB, -1 = unlimited)")
	cmd.Flags().StringVar(&flagCORS, "cors", "", "allowed CORS origins: '*' or a comma-separated list")
	rootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	wd, _ := filepath.Abs(".")
	fc, err := config.Resolve(wd)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	eng, log, err := newEngine(fc)
	if err != nil {
		return err
	}
	handler := server.NewHandler(eng, server.Options{
		MaxBodyBytes: pickInt64(flagMaxBodyBytes, fc.MaxBodyBytes, nil),
		CORS:         pickString(flagCORS, fc.CORS, nil),
		Logger:       log.Named("http"),
	})
	srv := server.New(pickString(flagAddr, fc.Addr, nil), handler, log)

	ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()
	log.Info("catalog loaded", "scanner", eng.Scanner().Version(), "entries", eng.Scanner().Catalog().Len())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return <-errc
}
