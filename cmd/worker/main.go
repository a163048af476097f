// Package main runs the standalone notification worker draining the Redis
// job queue and sending block-status messages.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bobcodebuilderai/eldoradokonferansehub/config"
	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/notifications"
	"github.com/bobcodebuilderai/eldoradokonferansehub/internal/worker"
	"github.com/bobcodebuilderai/eldoradokonferansehub/pkg/queue"
	"github.com/bobcodebuilderai/eldoradokonferansehub/pkg/redis"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	jobQueue := queue.NewQueue(rdb.Client, logger)
	sender := notifications.NewSMSClient(cfg.SMS)
	w := worker.New(jobQueue, sender, logger)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		cancel()
	}()

	if err := w.Run(ctx); err != nil && err != context.Canceled {
		logger.Fatal("worker", zap.Error(err))
	}
	logger.Info("worker stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
