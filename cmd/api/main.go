package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/movetrack/movetrackgo/internal/config"
	"github.com/movetrack/movetrackgo/internal/database"
	"github.com/movetrack/movetrackgo/internal/handlers"
	"github.com/movetrack/movetrackgo/internal/models"
	"github.com/movetrack/movetrackgo/internal/services/admin"
	"github.com/movetrack/movetrackgo/internal/services/audit"
	"github.com/movetrack/movetrackgo/internal/services/ghl"
	"github.com/movetrack/movetrackgo/internal/services/inventory"
	"github.com/movetrack/movetrackgo/internal/services/items"
	"github.com/movetrack/movetrackgo/internal/services/rooms"
	"github.com/movetrack/movetrackgo/internal/websocket"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize database (detects embedded vs external automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// Note: db.Close() is called manually in the shutdown handler below

	// 3. Auto-migrate schema
	log.Println("🚀 Synchronizing database schema...")
	err = db.AutoMigrate(
		&models.Inventory{},
		&models.Room{},
		&models.RoomItem{},
		&models.ItemLibraryEntry{},
		&models.AuditLogEntry{},
	)
	if err != nil {
		log.Printf("⚠️ Migration warning: %v\n", err)
	} else {
		log.Println("✅ Schema synchronized successfully")
	}

	// 4. Start the live activity hub
	hub := websocket.NewHub()
	go hub.Run()

	// 5. Wire up the service layer
	auditSvc := audit.NewService(db.DB)
	auditSvc.SetNotifier(hub)

	inventorySvc := inventory.NewService(db.DB, auditSvc)
	roomsSvc := rooms.NewService(db.DB, inventorySvc)
	itemsSvc := items.NewService(db.DB, inventorySvc)
	adminSvc := admin.NewService(db.DB)
	ghlSvc := ghl.NewService(db.DB, cfg.GHL, cfg.PublicWebURL)

	// 6. Set up HTTP router
	router := handlers.NewRouter(db, cfg, inventorySvc, roomsSvc, itemsSvc, adminSvc, ghlSvc, hub)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Channel to listen for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on port %s [env: %s]\n", cfg.Port, cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sig := <-shutdown
	log.Printf("\n⚠️  Received signal: %v. Shutting down gracefully...\n", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Close database (this also stops embedded PostgreSQL)
	log.Println("🛑 Closing database connection...")
	if err := db.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
