package connection

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"registrobo/config"
	"registrobo/controller/auth"
	"registrobo/controller/bo"
	"registrobo/controller/policial"
	"registrobo/metrics"
	"registrobo/middleware"
	"registrobo/pdfexport"
	"registrobo/services"
)

const shutdownTimeout = 10 * time.Second

// Dependencies are built once in main and shared by every request.
type Dependencies struct {
	Config    *config.Config
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
	BOs       services.BOService
	Policiais *services.PolicialService
	Tokens    *services.TokenService
	Exporter  *pdfexport.Exporter
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", middleware.RequestIDHeader)
	cfg.ExposeHeaders = []string{"Content-Disposition", middleware.RequestIDHeader}
	return cfg
}

func NewRouter(d Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(d.Logger))
	if d.Metrics != nil {
		router.Use(d.Metrics.Middleware())
	}

	// fora da regra de domínio
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Metrics != nil {
		router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	if d.Config.Domain.Enforce {
		router.Use(middleware.DomainEnforcement(middleware.DomainPolicy{
			CanonicalHost: d.Config.Domain.CanonicalHost,
			PrivatePrefix: d.Config.Domain.PrivatePrefix,
			Scheme:        d.Config.Domain.Scheme,
		}))
	}
	router.Use(cors.New(corsConfig(d.Config.System.CORSOrigins)))

	auth.AuthController(router, d.Policiais, d.Tokens)
	policial.PolicialController(router, d.Policiais, d.Tokens)
	bo.BOController(router, d.BOs, d.Tokens, d.Exporter)

	return router
}

type Server struct {
	server *http.Server
	logger *zap.Logger
}

func NewServer(addr string, handler http.Handler, logger *zap.Logger) *Server {
	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: logger,
	}
}

// Run serves until ctx is cancelled and then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server starting", zap.String("addr", s.server.Addr))
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("HTTP server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
