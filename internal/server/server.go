package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	claimdomain "github.com/haulaware/driverpay/internal/claim/domain"
	"github.com/haulaware/driverpay/internal/config"
	dailyrundomain "github.com/haulaware/driverpay/internal/dailyrun/domain"
	driverdomain "github.com/haulaware/driverpay/internal/driver/domain"
	reportdomain "github.com/haulaware/driverpay/internal/payoutreport/domain"
	plandomain "github.com/haulaware/driverpay/internal/plan/domain"
	settlementdomain "github.com/haulaware/driverpay/internal/settlement/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	db            *gorm.DB
	genID         *snowflake.Node
	driverRepo    driverdomain.Repository
	planSvc       plandomain.Service
	dailyRunSvc   dailyrundomain.Service
	claimSvc      claimdomain.Service
	settlementSvc settlementdomain.Service
	reportSvc     reportdomain.Service
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	DB            *gorm.DB
	GenID         *snowflake.Node
	DriverRepo    driverdomain.Repository
	PlanSvc       plandomain.Service
	DailyRunSvc   dailyrundomain.Service
	ClaimSvc      claimdomain.Service
	SettlementSvc settlementdomain.Service
	ReportSvc     reportdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		db:            p.DB,
		genID:         p.GenID,
		driverRepo:    p.DriverRepo,
		planSvc:       p.PlanSvc,
		dailyRunSvc:   p.DailyRunSvc,
		claimSvc:      p.ClaimSvc,
		settlementSvc: p.SettlementSvc,
		reportSvc:     p.ReportSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1")

	api.POST("/drivers", s.CreateDriver)
	api.GET("/drivers", s.ListDrivers)

	api.POST("/plans", s.CreatePlan)
	api.GET("/plans", s.ListPlans)
	api.GET("/plans/resolve", s.ResolvePlan)

	api.POST("/daily-runs", s.UpsertDailyRun)
	api.POST("/daily-runs/import", s.ImportDailyRuns)
	api.GET("/daily-runs", s.ListDailyRuns)

	api.POST("/claims", s.CreateClaim)
	api.POST("/claims/from-order", s.CreateClaimFromOrder)
	api.POST("/claims/:id/approve", s.ApproveClaim)
	api.POST("/claims/:id/reject", s.RejectClaim)
	api.GET("/claims", s.ListClaims)

	api.POST("/settlements/preview", s.PreviewSettlement)
	api.POST("/settlements", s.CalculateSettlement)
	api.POST("/settlements/batch", s.CalculateSettlementBatch)
	api.POST("/settlements/:id/apply-claims", s.ApplySettlementClaims)
	api.GET("/settlements/export", s.ExportSettlements)
	api.GET("/settlements/:id", s.GetSettlement)
	api.GET("/settlements", s.ListSettlements)

	api.GET("/reports/payout", s.PayoutReport)
}
