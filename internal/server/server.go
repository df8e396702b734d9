package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	clandomain "github.com/smallbiznis/clans/internal/clan/domain"
	"github.com/smallbiznis/clans/internal/config"
	obslogger "github.com/smallbiznis/clans/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/clans/internal/observability/metrics"
	obstracing "github.com/smallbiznis/clans/internal/observability/tracing"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Provide(NewServer),
	fx.Invoke(run),
)

type EngineParams struct {
	fx.In

	Cfg         config.Config
	PromMetrics *obsmetrics.PromMetrics `optional:"true"`
}

func NewEngine(debug bool, promMetrics *obsmetrics.PromMetrics) *gin.Engine {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ProcessTime())
	r.Use(Correlation())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           debug,
		ErrorClassifier: classifyError,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(promMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(p EngineParams) *gin.Engine {
	return NewEngine(p.Cfg.Debug(), p.PromMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, s *Server, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.Engine(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log = log.Named("http.server")

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine  *gin.Engine
	clanSvc clandomain.Service
}

type ServerParams struct {
	fx.In

	Gin     *gin.Engine
	ClanSvc clandomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:  p.Gin,
		clanSvc: p.ClanSvc,
	}

	svc.registerAPIRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/v1")

	// -------- Clans --------
	v1.POST("/clans", s.CreateClan)
	v1.GET("/clans", s.ListClans)
	v1.GET("/clans/:id", s.GetClanByID)
	v1.PATCH("/clans/:id", s.UpdateClan)
	v1.DELETE("/clans/:id", s.DisbandClan)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}
