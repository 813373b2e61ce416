package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Zachkp/kussetech/internal/analytics"
	"github.com/Zachkp/kussetech/internal/config"
	"github.com/Zachkp/kussetech/internal/content"
	"github.com/Zachkp/kussetech/internal/integrations/github"
	"github.com/Zachkp/kussetech/internal/mail"
	"github.com/Zachkp/kussetech/internal/web"
)

const (
	shutdownTimeout = 10 * time.Second
	cleanupInterval = 24 * time.Hour
)

var serverPort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the website",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("port") {
			appConfig.Port = serverPort
			if err := appConfig.Validate(); err != nil {
				return err
			}
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, appConfig, logger)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, cfg config.Config, logger *logrus.Logger) error {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := content.Load(logger)
	if err != nil {
		return err
	}

	trackers := analytics.Multi{}
	if cfg.Debug {
		trackers = append(trackers, analytics.LogTracker{Logger: logger})
	}

	deps := web.Deps{
		Config:  cfg,
		Logger:  logger,
		Content: store,
		Mailer:  mail.NewSender(cfg),
		GitHub: github.New(github.Options{
			Token:   cfg.GitHubToken,
			Timeout: cfg.OutboundTimeout,
			Logger:  logger,
		}),
	}

	var visits *analytics.Store
	if cfg.AnalyticsDB != "" {
		visits, err = analytics.Open(cfg.AnalyticsDB, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := visits.Close(); err != nil {
				logger.WithError(err).Error("Failed to close analytics store")
			}
		}()
		trackers = append(trackers, visits)
		deps.Visits = visits
		go runCleanup(ctx, visits, logger)
	}
	deps.Tracker = trackers

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           web.New(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"addr":    srv.Addr,
			"profile": cfg.Profile,
			"version": config.AppVersion,
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}

// runCleanup enforces analytics retention at startup and then daily.
func runCleanup(ctx context.Context, store *analytics.Store, logger logrus.FieldLogger) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		if _, err := store.Cleanup(ctx); err != nil {
			logger.WithError(err).Warn("Analytics cleanup failed")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
