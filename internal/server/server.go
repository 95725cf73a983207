package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/corte/internal/config"
	"github.com/smallbiznis/corte/internal/control"
	"github.com/smallbiznis/corte/internal/hardware"
	"github.com/smallbiznis/corte/internal/liveevents"
	"github.com/smallbiznis/corte/internal/observability"
	obsmiddleware "github.com/smallbiznis/corte/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/corte/internal/observability/metrics"
	obstracing "github.com/smallbiznis/corte/internal/observability/tracing"
	"github.com/smallbiznis/corte/internal/providers/pdf"
	reportdomain "github.com/smallbiznis/corte/internal/report/domain"
	shiftdomain "github.com/smallbiznis/corte/internal/shift/domain"
	thresholddomain "github.com/smallbiznis/corte/internal/threshold/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware("/health", "/metrics", "/api/cortes/events"))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.String("addr", srv.Addr), zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", srv.Addr))
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
	engine *gin.Engine
	cfg    config.Config
	log    *zap.Logger

	ctrl         *control.Controller
	shiftSvc     shiftdomain.Service
	reportSvc    reportdomain.Service
	thresholdSvc thresholddomain.Service
	pdfProvider  pdf.Provider
	hw           *hardware.Context
	line         *config.LineConfigHolder
	liveEvents   *liveevents.Hub
	events       liveevents.Publisher

	// sirenCtx bounds alerts started by requests; alerts outlive the request
	// that started them.
	sirenCtx context.Context
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	Log          *zap.Logger
	Controller   *control.Controller
	ShiftSvc     shiftdomain.Service
	ReportSvc    reportdomain.Service
	ThresholdSvc thresholddomain.Service
	PDF          pdf.Provider
	Hardware     *hardware.Context
	Line         *config.LineConfigHolder
	LiveEvents   *liveevents.Hub      `optional:"true"`
	Events       liveevents.Publisher `optional:"true"`
	Lifecycle    fx.Lifecycle         `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	sirenCtx, cancel := context.WithCancel(context.Background())
	if p.Lifecycle != nil {
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(context.Context) error {
				cancel()
				return nil
			},
		})
	}

	line := p.Line
	if line == nil {
		line = config.NewStaticLineConfigHolder(config.DefaultLineConfig())
	}
	hw := p.Hardware
	if hw == nil {
		hw = hardware.NewNoop()
	}

	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		log:          p.Log.Named("http.server"),
		ctrl:         p.Controller,
		shiftSvc:     p.ShiftSvc,
		reportSvc:    p.ReportSvc,
		thresholdSvc: p.ThresholdSvc,
		pdfProvider:  p.PDF,
		hw:           hw,
		line:         line,
		liveEvents:   p.LiveEvents,
		events:       p.Events,
		sirenCtx:     sirenCtx,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Shifts --------
	cortes := api.Group("/cortes")
	cortes.POST("", s.CreateShift)
	cortes.GET("", s.ListShifts)

	// -------- Line control --------
	cortes.GET("/status", s.GetStatus)
	cortes.GET("/state", s.GetState)
	cortes.POST("/start", s.StartOrResume)
	cortes.POST("/pause", s.Pause)
	cortes.POST("/finish", s.Finalize)

	// -------- Monitoring --------
	cortes.GET("/monitor", s.GetMonitor)
	cortes.GET("/monitor/count", s.GetMonitorCount)
	cortes.GET("/last5", s.ListLastFive)
	cortes.GET("/events", s.StreamLiveEvents)
	cortes.POST("/counts/seed", s.SeedCounts)

	cortes.GET("/:id", s.GetShiftByID)
	cortes.DELETE("/:id", s.DeleteShift)
	cortes.GET("/:id/report.pdf", s.RenderShiftReport)

	// -------- Thresholds --------
	api.GET("/config", s.ListThresholds)
	api.PUT("/config", s.UpdateThreshold)

	// -------- Signal tower & siren --------
	api.POST("/signals/:color", s.ToggleSignal)
	api.POST("/siren/alert", s.SirenAlert)
	api.POST("/siren/off", s.SirenOff)
}
