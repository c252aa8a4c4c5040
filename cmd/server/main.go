package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/RebelsBlocks/wars-of-cards-backend/engine"
	"github.com/RebelsBlocks/wars-of-cards-backend/server"
	"github.com/RebelsBlocks/wars-of-cards-backend/store"
)

func main() {
	cfg := loadConfig()

	log := logrus.New()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}
	if cfg.Environment == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode)
	}

	var presence store.PresenceStore = store.NewMemoryPresence()
	if cfg.RedisAddr != "" {
		redisPresence, err := store.NewRedisPresence(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.WithError(err).Fatal("redis unavailable")
		}
		defer redisPresence.Close()
		presence = redisPresence
		log.WithField("addr", cfg.RedisAddr).Info("using redis presence store")
	}

	manager := engine.NewTableManager(log)
	manager.Start()

	srv := server.New(manager, presence, log)
	go func() {
		if err := srv.Run(":" + cfg.Port); err != nil {
			log.WithError(err).Fatal("http server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	manager.Stop()
}
