package cli

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"CartStore/internal/catalog"
	"CartStore/internal/config"
	"CartStore/internal/httpapi"
	"CartStore/internal/receipt"
	"CartStore/internal/session"
	"CartStore/pkg/kit"
)

func serveCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}

			log, err := kit.NewLogger(kit.LogOptions{
				Service: cfg.App.Name,
				Level:   cfg.Log.Level,
				File:    cfg.Log.File,
			})
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			return serve(cmd.Context(), cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	items, err := loadCatalog(ctx, cfg)
	if err != nil {
		log.Error("load catalog failed", zap.Error(err))
		return err
	}
	log.Info("catalog loaded", zap.Int("items", len(items)))

	receipts, closeReceipts, err := openReceipts(ctx, cfg)
	if err != nil {
		log.Error("open receipt store failed", zap.Error(err))
		return err
	}
	defer closeReceipts()

	s := &httpapi.Server{
		Sessions: session.NewRegistry(items, cfg.Auth.TTL),
		Tokens:   session.NewTokenMaker(cfg.Auth.Secret),
		Receipts: receipts,
		Log:      log,
	}

	h := httpapi.NewHandler(s, httpapi.HTTPDeps{
		Log:               log,
		Service:           cfg.App.Name,
		Registry:          prometheus.NewRegistry(),
		MetricsEnabled:    cfg.Metrics.Enabled,
		MetricsToken:      cfg.Metrics.Token,
		SessionsPerMinute: cfg.Sessions.Limit,
	})

	return kit.RunHTTPServer(ctx, kit.ServerOptions{
		Addr:            cfg.Server.Addr(),
		ShutdownTimeout: cfg.Server.Shutdown,
	}, h, log)
}

func openReceipts(ctx context.Context, cfg *config.Config) (receipt.Store, func(), error) {
	if cfg.Receipts.DSN == "" {
		return receipt.NewMemStore(), func() {}, nil
	}

	db, err := catalog.OpenPostgres(cfg.Receipts.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open receipts db: %w", err)
	}

	st := receipt.NewPostgresStore(db)
	if err := st.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping receipts db: %w", err)
	}
	return st, func() { _ = db.Close() }, nil
}
