// Package server exposes the HTTP API over gin.
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/voltara/internal/billing"
	billingdomain "github.com/smallbiznis/voltara/internal/billing/domain"
	"github.com/smallbiznis/voltara/internal/config"
	"github.com/smallbiznis/voltara/internal/consumer"
	consumerdomain "github.com/smallbiznis/voltara/internal/consumer/domain"
	"github.com/smallbiznis/voltara/internal/meter"
	meterdomain "github.com/smallbiznis/voltara/internal/meter/domain"
	"github.com/smallbiznis/voltara/internal/observability"
	obsmiddleware "github.com/smallbiznis/voltara/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/voltara/internal/observability/metrics"
	"github.com/smallbiznis/voltara/internal/sequence"
	"github.com/smallbiznis/voltara/internal/tariff"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	sequence.Module,
	tariff.Module,
	consumer.Module,
	meter.Module,
	billing.Module,
	fx.Provide(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, srv *Server) {
	httpSrv := &http.Server{
		Addr:    net.JoinHostPort("", cfg.HTTPPort),
		Handler: srv.Engine(),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			log.Info("http server started", zap.String("port", cfg.HTTPPort))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return httpSrv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	consumerSvc consumerdomain.Service
	meterSvc    meterdomain.Service
	billingSvc  billingdomain.Service
	plans       *tariff.Registry
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	ConsumerSvc consumerdomain.Service
	MeterSvc    meterdomain.Service
	BillingSvc  billingdomain.Service
	Plans       *tariff.Registry
}

func NewServer(p ServerParams) *Server {
	srv := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		consumerSvc: p.ConsumerSvc,
		meterSvc:    p.MeterSvc,
		billingSvc:  p.BillingSvc,
		plans:       p.Plans,
	}

	srv.registerAPIRoutes()

	return srv
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/v1")

	// -------- Tariffs --------
	v1.GET("/tariffs", s.ListTariffs)

	// -------- Consumers --------
	v1.GET("/consumers", s.ListConsumers)
	v1.POST("/consumers", s.RegisterConsumer)
	v1.GET("/consumers/:id", s.GetConsumerByID)
	v1.POST("/consumers/:id/deactivate", s.DeactivateConsumer)
	v1.GET("/consumers/:id/meters", s.ListConsumerMeters)

	// -------- Meters --------
	v1.POST("/meters", s.InstallMeter)
	v1.GET("/meters/:id", s.GetMeterByID)
	v1.POST("/meters/:id/readings", s.RecordReading)
	v1.POST("/meters/:id/health", s.SetMeterHealth)

	// -------- Bills --------
	v1.GET("/bills", s.ListBills)
	v1.GET("/bills/:billNo", s.GetBillByNo)
	v1.POST("/bills/generate", s.GenerateBill)
	v1.POST("/bills/:billNo/payments", s.PostPayment)
	v1.POST("/bills/dunning", s.RunDunning)

	// -------- Reports --------
	v1.GET("/reports/aging", s.GetAgingReport)
	v1.GET("/reports/revenue", s.GetRevenueReport)
}
