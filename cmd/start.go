package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"presence-sync/core/config"
	"presence-sync/core/loader"
	"presence-sync/core/logger"
	"presence-sync/core/middleware/auth"
	"presence-sync/core/middleware/rayid"
	"presence-sync/core/reconcile"
	"presence-sync/core/telemetry"

	"presence-sync/feature/archive"
	"presence-sync/feature/integrity"
	"presence-sync/feature/presence"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const metricsPath = "/metrics"

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the presence sync service",
	Long: `Starts the reconciliation engine and the HTTP API.

The engine clears the presence category, then runs a pass every
presence.update_interval seconds. On SIGINT or SIGTERM every channel it
created is deleted before the process exits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Load Configuration and Logger
		cfg, logg, err := loadConfig()
		if err != nil {
			return err
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// 2. Telemetry
		if cfg.Telemetry.MetricsEnabled {
			telemetry.Init()
		}
		shutdownTracing, err := telemetry.InitTracing(cfg.Telemetry, Version, logg)
		if err != nil {
			logg.Warn("Tracing disabled", zap.Error(err))
		} else {
			defer shutdownTracing()
		}

		// 3. Emulator database, Discord and storage
		rt, err := newRuntime(ctx, cfg, logg)
		if err != nil {
			return err
		}
		defer rt.close()

		rec, err := rt.recorder(ctx)
		if err != nil {
			logg.Warn("Pass archive disabled", zap.Error(err))
			rec = nil
		}
		var onPass func(reconcile.PassReport)
		if rec != nil {
			go rec.Run(ctx)
			onPass = rec.Hook()
		}

		// 4. Presence addon. A configuration error leaves it inert; the API
		// stays up so the problem can be inspected and reloaded.
		addon := presence.NewAddon(func(pc reconcile.Config) *reconcile.Engine {
			return rt.engine(pc, onPass)
		}, cfg.Presence, logg)
		if err := addon.Load(ctx); err != nil {
			logg.Error("Presence addon is inert", zap.Error(err))
		}

		// 5. HTTP server
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		// RayID first so every log line carries it.
		app.Use(rayid.New())
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Debug("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey, Skip: []string{metricsPath}}))

		if cfg.Telemetry.MetricsEnabled {
			app.Get(metricsPath, adaptor.HTTPHandler(promhttp.Handler()))
		}

		mgr := loader.NewManager(logg)
		var links presence.LinkWriter
		if rt.links != nil {
			links = rt.links
		}
		mgr.Register(presence.NewFeature(addon, links, logg))
		mgr.Register(integrity.NewFeature(integrity.Targets{
			DB:         rt.db,
			Emulator:   cfg.Server.EmulatorName(),
			CheckLinks: cfg.Linking.Enabled,
			Discord:    rt.discord,
			Presence:   addon.Config,
			Storage:    rt.store,
			Bucket:     cfg.Storage.Bucket,
		}, logg))
		mgr.Register(archive.NewFeature(rec, logg))

		if err := mgr.LoadAll(app); err != nil {
			return err
		}

		// 6. Reload the engine when the presence section of the config changes.
		go func() {
			err := config.Watch(ctx, configPath, logg, func(next *config.Config) {
				if next.Presence == addon.Config() {
					logg.Debug("Config changed outside the presence section; restart to apply")
					return
				}
				if err := addon.Reload(ctx, next.Presence); err != nil {
					logg.Error("Presence reload failed", zap.Error(err))
				}
			})
			if err != nil {
				logg.Warn("Config watcher stopped", zap.Error(err))
			}
		}()

		// 7. Start Server
		serverErr := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port), zap.String("version", Version))
			serverErr <- app.Listen(":" + cfg.Server.Port)
		}()

		select {
		case <-ctx.Done():
		case err := <-serverErr:
			logg.Error("Server failed", zap.Error(err))
		}

		// 8. Graceful Shutdown: delete owned channels, then stop serving.
		logg.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownSeconds)*time.Second)
		defer cancel()

		if err := addon.Unload(shutdownCtx); err != nil {
			logg.Warn("Presence channels did not settle before shutdown", zap.Error(err))
		}
		return app.ShutdownWithContext(shutdownCtx)
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
