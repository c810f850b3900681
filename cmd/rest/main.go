package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/bootstrap"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/config"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/server"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/tracer"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDB(database.GormConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	if err := container.SummaryWorkerService.Consume(context.Background()); err != nil {
		log.Printf("Background Summary Worker Error: %v", err)
	}
	if err := container.RetentionService.Start(); err != nil {
		log.Printf("Background Retention Sweeper Error: %v", err)
	}
	defer container.RetentionService.Stop()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server, shut down cleanly on SIGINT/SIGTERM
	go func() {
		if err := srv.Run(); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	if err := srv.Shutdown(); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
