package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ecopoints/ecopoints/internal/config"
	"github.com/ecopoints/ecopoints/internal/ledger"
	ledgerdomain "github.com/ecopoints/ecopoints/internal/ledger/domain"
	"github.com/ecopoints/ecopoints/internal/notification"
	notificationdomain "github.com/ecopoints/ecopoints/internal/notification/domain"
	obsmetrics "github.com/ecopoints/ecopoints/internal/observability/metrics"
	"github.com/ecopoints/ecopoints/internal/report"
	reportdomain "github.com/ecopoints/ecopoints/internal/report/domain"
	"github.com/ecopoints/ecopoints/internal/reward"
	rewarddomain "github.com/ecopoints/ecopoints/internal/reward/domain"
	"github.com/ecopoints/ecopoints/internal/user"
	userdomain "github.com/ecopoints/ecopoints/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	user.Module,
	ledger.Module,
	reward.Module,
	notification.Module,
	report.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(*Server) {}),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
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
	engine          *gin.Engine
	cfg             config.Config
	db              *gorm.DB
	genID           *snowflake.Node
	userSvc         userdomain.Service
	ledgerSvc       ledgerdomain.Service
	rewardSvc       rewarddomain.Service
	notificationSvc notificationdomain.Service
	reportSvc       reportdomain.Service
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	GenID           *snowflake.Node
	UserSvc         userdomain.Service
	LedgerSvc       ledgerdomain.Service
	RewardSvc       rewarddomain.Service
	NotificationSvc notificationdomain.Service
	ReportSvc       reportdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		genID:           p.GenID,
		userSvc:         p.UserSvc,
		ledgerSvc:       p.LedgerSvc,
		rewardSvc:       p.RewardSvc,
		notificationSvc: p.NotificationSvc,
		reportSvc:       p.ReportSvc,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/login", s.Login)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Rewards --------
	api.GET("/rewards", s.ListRewards)
	api.POST("/redeem", s.Redeem)

	// -------- Ledger --------
	api.GET("/balance", s.GetBalance)
	api.GET("/transactions", s.ListTransactions)

	// -------- Reports --------
	api.POST("/reports", s.SubmitReport)
	api.GET("/reports", s.ListReports)
	api.POST("/reports/:id/collect", s.CollectReport)

	// -------- Notifications --------
	api.GET("/notifications", s.ListUnreadNotifications)
	api.POST("/notifications/:id/read", s.MarkNotificationRead)
}
