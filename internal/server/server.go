package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"collabkanban/internal/auth"
	"collabkanban/internal/config"
	"collabkanban/internal/handler"
	"collabkanban/internal/logger"
	"collabkanban/internal/middleware"
	"collabkanban/internal/migrations"
	"collabkanban/internal/repository"
	"collabkanban/internal/repository/memory"
	"collabkanban/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	Engine  *gin.Engine
	DB      *gorm.DB
	Config  *config.Config
	Service *service.Service
	Log     *logger.Logger
}

// Init opens the configured store, builds the service and registers routes.
// DB stays nil with the memory driver.
func Init(cfg *config.Config, log *logger.Logger) (*Server, error) {
	var (
		store service.Store
		db    *gorm.DB
	)
	switch cfg.StorageDriver {
	case config.StorageMemory:
		store = memory.New()
		log.Warnw("using in-memory storage, data is lost on restart")
	case config.StoragePostgres:
		if cfg.AutoMigrate {
			if err := migrations.Up(cfg.MigrateURL()); err != nil {
				return nil, fmt.Errorf("failed to migrate DB: %w", err)
			}
			log.Infow("migrations applied")
		}

		logLevel := gormlogger.Warn
		if cfg.IsProduction() {
			logLevel = gormlogger.Error
		}
		var err error
		db, err = repository.Open(cfg.DSN(), logLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to DB: %w", err)
		}
		log.Infow("✅ Connected to database", "host", cfg.DBHost, "db", cfg.DBName)
		store = repository.NewStore(db)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svc := service.New(store, log, service.NewMetrics(reg), service.Options{
		InvitationTTL:     cfg.InvitationTTL,
		CommentEditWindow: cfg.CommentEditWindow,
		DefaultColumnName: cfg.DefaultColumnName,
		ActivityPageSize:  cfg.ActivityPageSize,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := NewEngine(svc, auth.NewTokens(cfg.JWTSecret, cfg.JWTExpiry), log, reg)

	return &Server{
		Engine:  engine,
		DB:      db,
		Config:  cfg,
		Service: svc,
		Log:     log,
	}, nil
}

// NewEngine wires middleware and routes around svc. Metrics land in reg and
// are served on /metrics.
func NewEngine(svc *service.Service, tokens *auth.Tokens, log *logger.Logger, reg *prometheus.Registry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log), middleware.NewHTTPMetrics(reg).Handler())

	authHandler := handler.NewAuthHandler(svc, tokens)
	boardHandler := handler.NewBoardHandler(svc)
	columnHandler := handler.NewColumnHandler(svc)
	itemHandler := handler.NewItemHandler(svc)
	commentHandler := handler.NewCommentHandler(svc)
	memberHandler := handler.NewMemberHandler(svc)
	assigneeHandler := handler.NewAssigneeHandler(svc)
	intentHandler := handler.NewIntentHandler(svc)

	// Public routes
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(tokens))
	{
		authorized.GET("/me", authHandler.Me)
		authorized.POST("/intents", intentHandler.Dispatch)

		// Board routes
		authorized.POST("/boards", boardHandler.Create)
		authorized.GET("/boards", boardHandler.GetAll)
		authorized.GET("/boards/:id", boardHandler.GetByID)
		authorized.PUT("/boards/:id", boardHandler.Update)
		authorized.DELETE("/boards/:id", boardHandler.Delete)
		authorized.GET("/boards/:id/activity", boardHandler.Activity)

		// Column routes
		authorized.POST("/boards/:id/columns", columnHandler.Create)
		authorized.PUT("/columns/:id", columnHandler.Update)
		authorized.POST("/columns/:id/move", columnHandler.Move)
		authorized.DELETE("/boards/:id/columns/:column_id", columnHandler.Delete)

		// Card routes
		authorized.POST("/items", itemHandler.Create)
		authorized.PUT("/items/:id", itemHandler.Update)
		authorized.DELETE("/items/:id", itemHandler.Delete)
		authorized.POST("/items/:id/move", itemHandler.Move)
		authorized.PUT("/items/:id/assignee", itemHandler.Assign)

		// Comment routes
		authorized.GET("/items/:id/comments", commentHandler.List)
		authorized.POST("/items/:id/comments", commentHandler.Create)
		authorized.PUT("/comments/:id", commentHandler.Update)
		authorized.DELETE("/comments/:id", commentHandler.Delete)

		// Membership routes
		authorized.POST("/boards/:id/invitations", memberHandler.Invite)
		authorized.GET("/boards/:id/invitations", memberHandler.BoardInvitations)
		authorized.DELETE("/boards/:id/members/:account_id", memberHandler.Remove)
		authorized.GET("/invitations", memberHandler.MyInvitations)
		authorized.POST("/invitations/:id/accept", memberHandler.Accept)
		authorized.POST("/invitations/:id/decline", memberHandler.Decline)

		// Assignee routes
		authorized.POST("/boards/:id/assignees", assigneeHandler.Create)
	}
	return r
}

// Run serves until SIGINT or SIGTERM, then drains requests.
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:              ":" + s.Config.ServerPort,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Log.Infow("🚀 Server running", "port", s.Config.ServerPort, "storage", s.Config.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("failed to listen: %w", err)
	case <-quit:
	}
	s.Log.Infow("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	if s.DB != nil {
		if sqlDB, err := s.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	s.Log.Infow("✅ Server exited properly")
	return nil
}
