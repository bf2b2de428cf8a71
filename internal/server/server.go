package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/orgdesk/orgdesk/internal/config"
	"github.com/orgdesk/orgdesk/internal/logger"
	memberdomain "github.com/orgdesk/orgdesk/internal/member/domain"
	"github.com/orgdesk/orgdesk/internal/metrics"
	orgdomain "github.com/orgdesk/orgdesk/internal/organization/domain"
	"github.com/orgdesk/orgdesk/internal/token"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(
		NewEngine,
		NewServer,
	),
	fx.Invoke(
		registerRoutes,
		run,
	),
)

type envelope struct {
	OK     bool `json:"ok"`
	Result any  `json:"result"`
}

type deleteResult struct {
	Success bool `json:"success"`
}

func respond(c *gin.Context, result any) {
	c.JSON(http.StatusOK, envelope{OK: true, Result: result})
}

func NewEngine(cfg config.Config, log *zap.Logger, httpMetrics *metrics.HTTPMetrics) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		logger.GinMiddleware(log),
		metrics.GinMiddleware(httpMetrics),
		ErrorHandlingMiddleware(),
		ServiceSecretMiddleware(cfg),
	)

	engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": cfg.AppName,
			"version": cfg.AppVersion,
		})
	})
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return engine
}

type Server struct {
	engine        *gin.Engine
	verifier      *token.Verifier
	organizations orgdomain.Service
	members       memberdomain.Service
}

type ServerParams struct {
	fx.In

	Engine        *gin.Engine
	Verifier      *token.Verifier
	Organizations orgdomain.Service
	Members       memberdomain.Service
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:        p.Engine,
		verifier:      p.Verifier,
		organizations: p.Organizations,
		members:       p.Members,
	}
}

func registerRoutes(s *Server) {
	auth := AuthRequired(s.verifier)

	api := s.engine.Group("/api")

	api.POST("/organization", auth, s.CreateOrganization)
	api.GET("/organization/:id", s.GetOrganization)
	api.GET("/organization/user/:userId", s.ListOrganizationsForUser)
	api.PUT("/organization/:id", auth, s.UpdateOrganization)
	api.DELETE("/organization/:id", auth, s.DeleteOrganization)

	api.POST("/member", auth, s.CreateMember)
	api.GET("/member/:id", s.GetMember)
	api.GET("/member/user/:userId", auth, s.ListMembersForUser)
	api.GET("/member/org/:orgId", s.ListMembersForOrganization)
	api.PUT("/member/:id", auth, s.UpdateMember)
	api.DELETE("/member/:id", auth, s.DeleteMember)
}

func run(lc fx.Lifecycle, engine *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
