package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bucketkit/core/loader"
	"bucketkit/core/logger"
	"bucketkit/core/middleware/auth"
	"bucketkit/core/middleware/rayid"
	"bucketkit/feature/bucket"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP service",
	Long:  `Starts the HTTP server exposing object operations under /buckets/:bucket.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()
		zap.ReplaceGlobals(a.logger)

		stopFlusher := a.startLogFlusher(time.Duration(a.cfg.Log.SinkFlushSeconds) * time.Second)
		defer stopFlusher()

		srv, err := newServer(a)
		if err != nil {
			return err
		}

		listenErr := make(chan error, 1)
		go func() {
			a.logger.Info("Starting server", zap.String("addr", a.cfg.Server.Addr()))
			if err := srv.Listen(a.cfg.Server.Addr()); err != nil {
				listenErr <- err
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(c)

		select {
		case err := <-listenErr:
			return fmt.Errorf("server failed to start: %w", err)
		case <-c:
		}

		a.logger.Info("Shutting down server...")
		if err := srv.Shutdown(); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	},
}

// newServer builds the Fiber app with middleware and features registered.
func newServer(a *app) (*fiber.App, error) {
	srv := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             a.cfg.Server.BodyLimit(),
	})

	// Ray id first so everything after it can be correlated.
	srv.Use(rayid.New())

	srv.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(a.logger, c)
		l.Info("Request started",
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

	srv.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	srv.Use(auth.New(auth.Config{ApiKey: a.cfg.Server.ApiKey}))

	mgr := loader.NewManager()
	mgr.Register(bucket.NewFeature(a.client, a.logger))

	loaded, err := mgr.LoadAll(srv)
	if err != nil {
		return nil, fmt.Errorf("failed to load features: %w", err)
	}
	a.logger.Debug("Features loaded", zap.Strings("features", loaded))

	return srv, nil
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
