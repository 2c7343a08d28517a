package main

import (
	"context"
	"log"

	"github.com/Unshaft/StudyBuddy/internal/bootstrap"
	"github.com/Unshaft/StudyBuddy/internal/config"
	"github.com/Unshaft/StudyBuddy/internal/server"
	"github.com/Unshaft/StudyBuddy/internal/tracer"
	"github.com/Unshaft/StudyBuddy/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Ingest Worker...")
		if err := container.IngestService.Consume(context.Background()); err != nil {
			log.Printf("Background Ingest Error: %v", err)
		}
	}()

	if err := container.NotificationHandler.Start(); err != nil {
		log.Printf("Warn: Notification relay failed to start: %v", err)
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
