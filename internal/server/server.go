package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	catalogdomain "github.com/slotlinelabs/slotline/internal/catalog/domain"
	"github.com/slotlinelabs/slotline/internal/config"
	orderdomain "github.com/slotlinelabs/slotline/internal/order/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Server struct {
	log        *zap.Logger
	engine     *gin.Engine
	httpServer *http.Server

	catalogSvc catalogdomain.Service
	orderSvc   orderdomain.Service
	metrics    *Metrics
}

type ServerParam struct {
	fx.In

	Log        *zap.Logger
	Config     config.Config
	CatalogSvc catalogdomain.Service
	OrderSvc   orderdomain.Service
	Metrics    *Metrics
}

func New(p ServerParam) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestID())

	s := &Server{
		log:        p.Log.Named("server"),
		engine:     engine,
		catalogSvc: p.CatalogSvc,
		orderSvc:   p.OrderSvc,
		metrics:    p.Metrics,
	}
	s.httpServer = &http.Server{
		Addr:    p.Config.HTTP.Addr,
		Handler: engine,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.engine.Group("/api")
	api.GET("/checkout/context", s.GetCheckoutContext)
	api.POST("/orders/:id/process", s.ProcessOrder)
}

func (s *Server) Start() error {
	s.log.Info("http server starting", zap.String("addr", s.httpServer.Addr))
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("http server stopped", zap.Error(err))
		}
	}()
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-Id", id)
		c.Next()
	}
}
