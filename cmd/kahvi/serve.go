package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/kahvi/internal/certs"
	"github.com/Veraticus/kahvi/internal/config"
	"github.com/Veraticus/kahvi/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the coffee price API from Postgres",
		Long: `Run the coffee price API over the scraped price database.

The database is configured with database.* settings, KAHVI_DATABASE_*
variables, DATABASE_URL, or DB_HOST, DB_PORT (default 5432), DB_NAME,
DB_USER and DB_PASSWORD. Variables are also read from --env-file when it
exists; variables already set in the environment win.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", ":8000", "listen address")
	cmd.Flags().Duration("query-timeout", 10*time.Second, "upper bound on each database query")
	cmd.Flags().String("env-file", ".env", "file of DB_* variables to load when present")
	cmd.Flags().Bool("tls", false, "serve HTTPS with a self-signed localhost certificate")
	cmd.Flags().String("cert-dir", "~/.local/share/kahvi/certs", "where the localhost certificate is kept")

	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.query_timeout", cmd.Flags().Lookup("query-timeout"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	envFile, _ := cmd.Flags().GetString("env-file")

	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	dbCfg, err := config.LoadDatabaseConfig(viper.GetViper())
	if err != nil {
		return err
	}

	store, err := server.NewPGStore(ctx, dbCfg.ConnString())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer store.Close()

	if err := store.Ping(ctx); err != nil {
		slog.Warn("Database is not reachable yet", "error", err)
	}

	opts := []server.Option{
		server.WithAllowedOrigins(settings.Server.AllowedOrigins),
		server.WithQueryTimeout(settings.Server.QueryTimeout),
	}
	if useTLS, _ := cmd.Flags().GetBool("tls"); useTLS {
		certDir, _ := cmd.Flags().GetString("cert-dir")
		manager := certs.NewFileManager(config.ExpandPath(certDir))
		cert, err := manager.GetOrCreateCertificate()
		if err != nil {
			return fmt.Errorf("failed to prepare TLS certificate: %w", err)
		}
		slog.Info("Serving HTTPS", "certificate", manager.CertFile())
		opts = append(opts, server.WithTLSCertificate(cert))
	}
	srv := server.New(store, opts...)

	slog.Info("Serving coffee API",
		"addr", settings.Server.Addr,
		"database", dbCfg.Name,
		"host", dbCfg.Host)

	return srv.Run(ctx, settings.Server.Addr)
}
