package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	// Time zones must resolve on hosts without a zoneinfo database
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"inspire-bytes/internal/core"
	"inspire-bytes/internal/server"
)

var (
	flagSeedCount    int
	flagSeedUser     string
	flagSeedPassword string
	flagRollback     string
)

var rootCmd = &cobra.Command{
	Use:          "inspire-bytes",
	Short:        "Inspire Bytes blog portal",
	Long:         "inspire-bytes serves the paginated article list, the article pages it links to and the article JSON API.",
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long: `Apply every pending migration of the user schema and the enabled features.

With --rollback <scope> the most recent migration of that scope ("auth" or a feature name) is reverted instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServer(cmd.Context(), func(ctx context.Context, srv *server.Server) error {
			if flagRollback != "" {
				return srv.Rollback(ctx, flagRollback)
			}
			return srv.Migrate(ctx)
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert sample articles",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagSeedCount < 0 {
			return fmt.Errorf("--count must not be negative")
		}
		return withServer(cmd.Context(), func(ctx context.Context, srv *server.Server) error {
			return srv.Seed(ctx, flagSeedCount, flagSeedUser, flagSeedPassword)
		})
	},
}

func init() {
	migrateCmd.Flags().StringVar(&flagRollback, "rollback", "", "roll back the last migration of this scope")

	seedCmd.Flags().IntVar(&flagSeedCount, "count", 10, "number of articles to insert")
	seedCmd.Flags().StringVar(&flagSeedUser, "user", "", "author username, created when missing")
	seedCmd.Flags().StringVar(&flagSeedPassword, "password", "", "password for a newly created author")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

// withServer builds the server for a one-shot command and closes it afterwards
func withServer(ctx context.Context, fn func(context.Context, *server.Server) error) error {
	logger := core.NewLogger()

	config, err := core.LoadConfig()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		return err
	}

	srv, err := server.New(ctx, config, logger)
	if err != nil {
		return err
	}
	defer srv.Close()

	return fn(ctx, srv)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := core.NewLogger()

	config, err := core.LoadConfig()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, config, logger)
	if err != nil {
		logger.Error("Failed to create server", "error", err)
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("Server stopped", "error", err)
		}
		srv.Close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
