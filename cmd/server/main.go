package main

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/prasantadh/callbreakum-be/internal/config"
	"github.com/prasantadh/callbreakum-be/internal/server"
	"github.com/prasantadh/callbreakum-be/internal/store"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := config.LoadDotEnv(".env"); err != nil {
		log.WithError(err).Fatal("failed to load .env")
	}
	cfg := config.Load()

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// Ping before serving so a misconfigured store fails fast.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.WithError(err).WithField("addr", cfg.RedisAddr).Fatal("cannot reach redis")
	}

	st := store.NewRedis(client, log, cfg.StoreMaxRetries)
	srv := server.New(st, log)

	log.WithField("addr", cfg.ListenAddr).Info("listening")
	if err := srv.Router().Run(cfg.ListenAddr); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}
