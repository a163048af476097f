// Package main runs the conference engagement HTTP server: REST API for
// moderation, SSE live feeds for overlays, WebSocket hub for panels.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bobcodebuilderai/eldoradokonferansehub/config"
	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/conferences"
	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/guestquestions"
	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/live"
	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/middleware"
	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/notifications"
	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/participants"
	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/questions"
	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/realtime"
	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/runofshow"
	"github.com/bobcodebuilderai/eldoradokonferansehub/pkg/database"
	"github.com/bobcodebuilderai/eldoradokonferansehub/pkg/queue"
	"github.com/bobcodebuilderai/eldoradokonferansehub/pkg/redis"
	"github.com/bobcodebuilderai/eldoradokonferansehub/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	redisPubSub := realtime.NewRedisPubSub(rdb.Client, logger)
	hub := realtime.NewHub(logger, redisPubSub, redisPubSub)

	// Conferences
	confRepo := conferences.NewRepository(pool)
	confHandler := conferences.NewHandler(confRepo, hub)

	// Participants
	participantRepo := participants.NewRepository(pool)
	participantHandler := participants.NewHandler(participantRepo, confRepo)

	// Questions
	questionRepo := questions.NewRepository(pool)
	questionHandler := questions.NewHandler(questionRepo, participantRepo, hub)

	// Guest questions
	guestRepo := guestquestions.NewRepository(pool)
	guestHandler := guestquestions.NewHandler(guestRepo, participantRepo, hub)

	// Run of show
	jobQueue := queue.NewQueue(rdb.Client, logger)
	dispatcher := notifications.NewDispatcher(jobQueue, logger)
	blockRepo := runofshow.NewRepository(pool)
	blockHandler := runofshow.NewHandler(blockRepo, hub, dispatcher)

	// Live feeds
	liveStore := live.NewPGStore(pool)
	builder := live.NewBuilder(liveStore)
	streamer := live.NewStreamer(builder, redisPubSub, cfg.Stream, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Participant-facing (public)
	router.POST("/join", participantHandler.Register)
	router.POST("/questions/:id/answers", questionHandler.SubmitAnswer)
	router.POST("/conferences/:id/guest-questions", guestHandler.Submit)

	// Live feeds (public, addressed by conference UUID)
	router.GET("/live/:uuid", streamer.Stream)
	router.GET("/live/:uuid/counters", streamer.StreamCounters)
	router.GET("/conferences/by-uuid/:uuid", confHandler.GetByUUID)

	// Moderation API
	api := router.Group("/api")
	{
		api.POST("/conferences", confHandler.Create)
		api.GET("/conferences", confHandler.List)
		api.GET("/conferences/:id", confHandler.GetByID)
		api.PATCH("/conferences/:id", confHandler.Update)
		api.GET("/conferences/:id/participants/count", participantHandler.Count)

		api.POST("/conferences/:id/questions", questionHandler.Create)
		api.GET("/conferences/:id/questions", questionHandler.ListByConference)
		api.POST("/questions/:id/activate", questionHandler.Activate)
		api.POST("/questions/:id/deactivate", questionHandler.Deactivate)
		api.POST("/questions/:id/toggle-results", questionHandler.ToggleResults)
		api.DELETE("/questions/:id", questionHandler.Delete)

		api.GET("/conferences/:id/guest-questions", guestHandler.ListByConference)
		api.PATCH("/guest-questions/:id", guestHandler.Moderate)

		api.POST("/conferences/:id/blocks", blockHandler.Create)
		api.GET("/conferences/:id/blocks", blockHandler.List)
		api.PATCH("/blocks/:id", blockHandler.Update)
		api.DELETE("/blocks/:id", blockHandler.Delete)
		api.POST("/conferences/:id/blocks/reorder", blockHandler.Reorder)
		api.PATCH("/blocks/:id/status", blockHandler.SetStatus)
		api.GET("/conferences/:id/blocks/conflicts", blockHandler.Conflicts)
		api.GET("/conferences/:id/blocks/duration", blockHandler.DayDuration)
		api.GET("/conferences/:id/blocks/upcoming", blockHandler.Upcoming)
		api.GET("/conferences/:id/blocks/export", blockHandler.Export)
		api.POST("/conferences/:id/blocks/duplicate", blockHandler.Duplicate)
	}

	// Moderation panel WebSocket (conference_id in query)
	router.GET("/ws", realtime.ServeWs(hub, logger))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
