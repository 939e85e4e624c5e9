package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/knagato/messenger-backend/internal/config"
	"github.com/knagato/messenger-backend/internal/db"
	appmw "github.com/knagato/messenger-backend/internal/middleware"
	"github.com/knagato/messenger-backend/internal/model"
	"github.com/knagato/messenger-backend/internal/realtime"
	"github.com/knagato/messenger-backend/internal/server"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	sha := os.Getenv("GIT_SHA")
	buildTime := os.Getenv("BUILD_TIME")

	opts := server.Options{
		Authorizer: realtime.NewChannelAuthorizer(cfg.RealtimeAppKey, cfg.RealtimeAppSecret),
		Prerender:  cfg.PrerenderMode,
		SHA:        sha,
		BuildTime:  buildTime,
	}

	if !cfg.PrerenderMode {
		bus, err := realtime.NewRedisBus(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("redis connect error: %v", err)
		}
		defer bus.Close()
		opts.Bus = bus

		authMw, err := appmw.NewAuthMiddleware(context.Background(), cfg.FirebaseProjectID)
		if err != nil {
			log.Fatalf("firebase auth init error: %v", err)
		}
		opts.AuthMW = authMw
	}

	srv := server.New(opts)
	addr := ":" + cfg.Port

	errCh := make(chan error, 1)
	go func() {
		log.Printf("starting server on %s", addr)
		errCh <- srv.Start(addr)
	}()

	if !cfg.PrerenderMode {
		go func() {
			conn, err := db.Connect(cfg)
			if err != nil {
				log.Printf("db connect error: %v", err)
				return
			}
			srv.SetDB(conn)
			if err := conn.AutoMigrate(
				&model.User{},
				&model.Conversation{},
				&model.UserConversation{},
				&model.Message{},
				&model.UserSeenMessage{},
			); err != nil {
				log.Printf("auto migrate error: %v", err)
			}
		}()
	}

	if err := <-errCh; err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
