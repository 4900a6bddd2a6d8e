package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bencohensolal/seniorhub/internal/config"
	"github.com/bencohensolal/seniorhub/internal/server"
)

func main() {
	cfg := config.Load()
	srv, queue := server.NewServer(cfg)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("SeniorHub HTTP server starting on %s", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Println("Shutting down...")
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("server shutdown error: %v", err)
		}
		if err := queue.Shutdown(ctx); err != nil {
			log.Printf("email queue drain error: %v", err)
		}
	case err := <-errCh:
		log.Fatal(err)
	}
}
