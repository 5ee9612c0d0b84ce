package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/shipnix/shipnix-express/internal/config"
	"github.com/shipnix/shipnix-express/internal/database"
	"github.com/shipnix/shipnix-express/internal/metrics"
	"github.com/shipnix/shipnix-express/internal/notify"
	"github.com/shipnix/shipnix-express/internal/server"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("cannot connect to database: %v", err)
	}
	defer db.Close()

	metrics.Register()

	var emailSender notify.Sender
	if cfg.AWSRegion != "" && cfg.EmailSender != "" {
		emailSender, err = notify.NewSESSender(ctx, cfg.AWSRegion, cfg.EmailSender)
		if err != nil {
			log.Printf("ses unavailable, falling back to log sender: %v", err)
			emailSender = notify.NewLogSender("email")
		}
	} else {
		emailSender = notify.NewLogSender("email")
	}
	smsSender := notify.NewLogSender("sms")

	srv := server.New(cfg, db, emailSender, smsSender)

	go func() {
		log.Printf("starting server on :%s", cfg.ServerPort)
		if err := srv.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
