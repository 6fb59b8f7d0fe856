package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"folio/internal/apihandlers"
	"folio/internal/app"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

var (
	serveAddr string
	servePort int
)

const (
	shutdownTimeout      = 10 * time.Second
	limiterSweepInterval = time.Minute
	limiterIdleTimeout   = 10 * time.Minute
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the search API server",
	Long: `Starts the HTTP server exposing the search endpoints (GET/POST /api/search),
the voice assistant webhook (POST /api/elevenlabs-webhook), content management,
a health check and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		cfg := appInstance.Config
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr = serveAddr
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}

		if log.GetLevel() < log.DebugLevel {
			gin.SetMode(gin.ReleaseMode)
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		router := newRouter(ctx, appInstance)

		srv := &http.Server{
			Addr:              cfg.ListenAddr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Infof("Starting Folio API server on http://%s", srv.Addr)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("Failed to run API server")
				return fmt.Errorf("failed to run API server: %w", err)
			}
		case <-ctx.Done():
			log.Info("Shutting down API server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server shutdown: %w", err)
			}
		}

		log.Info("Folio API server stopped.")
		return nil
	},
}

// newRouter builds the HTTP routes. Background housekeeping stops when ctx is done.
func newRouter(ctx context.Context, a *app.App) *gin.Engine {
	cfg := a.Config

	router := gin.New()
	router.Use(gin.Recovery(), apihandlers.RequestID(), apihandlers.RequestLogger())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = cfg.Server.CorsOrigins
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, apihandlers.RequestIDHeader)
	corsCfg.ExposeHeaders = []string{apihandlers.RequestIDHeader}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	}
	router.Use(cors.New(corsCfg))

	h := apihandlers.NewAPIHandler(a)

	api := router.Group("/api")
	if cfg.Server.RateLimit > 0 {
		limiter := apihandlers.NewIPRateLimiter(rate.Limit(cfg.Server.RateLimit), cfg.Server.RateBurst)
		limiter.StartSweeper(ctx, limiterSweepInterval, limiterIdleTimeout)
		api.Use(limiter.RateLimit())
	}
	h.RegisterRoutes(api)

	router.GET("/health", h.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{})))
	return router
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Address to listen on (overrides server.addr)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides server.port)")
}
