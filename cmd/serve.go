package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"view-sync/core/config"
	"view-sync/core/database"
	"view-sync/core/loader"
	"view-sync/core/logger"
	"view-sync/core/middleware/auth"
	"view-sync/core/middleware/rayid"
	"view-sync/core/surface"
	"view-sync/feature/inspect"
	"view-sync/feature/store"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the reconciliation server",
	Long: `Starts the HTTP server exposing the surface inspector.

With a reachable database the observed store is the entries table and every
posted transaction runs through it; without one the server falls back to an
in-memory model.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		if !cfg.Server.IsValidPolicy() {
			logg.Fatal("Invalid reconciler policy", zap.String("policy", cfg.Server.Policy))
		}

		// 3. Build the inspector over the observed store.
		// Database is optional; without it the store is an in-memory model.
		feature := buildInspector(cfg, logg)

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 5. Initialize Feature Loader
		mgr := loader.NewManager()
		mgr.Register(feature)

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			// Log error if happened
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 6. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 7. Start Server
		go func() {
			logg.Info("Starting server",
				zap.String("port", cfg.Server.Port),
				zap.String("policy", cfg.Server.Policy))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 8. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

// buildInspector wires the inspect feature against the database when one is
// reachable, and against an in-memory model otherwise.
func buildInspector(cfg *config.Config, logg *zap.Logger) *inspect.Feature {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		logg.Warn("Optional database connection failed, using in-memory store", zap.Error(err))
		return inspect.NewFeature(cfg.Server.Policy, nil, logg)
	}

	ctrl := store.NewController(db, logg)
	if err := ctrl.Fetch(context.Background()); err != nil {
		logg.Warn("Initial fetch failed, using in-memory store", zap.Error(err))
		return inspect.NewFeature(cfg.Server.Policy, nil, logg)
	}

	surf := surface.New(ctrl, nil, logg)
	svc, err := inspect.NewStoreService(ctrl, surf, cfg.Server.Policy, nil, logg)
	if err != nil {
		logg.Fatal("Failed to wire store-backed inspector", zap.Error(err))
	}

	logg.Info("Connected to observed store database",
		zap.Int("sections", ctrl.NumberOfSections()))
	return inspect.NewFeatureFromService(svc)
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
