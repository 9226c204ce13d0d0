package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todoweb/internal/config"
	"todoweb/internal/db"
	"todoweb/internal/todo"
	"todoweb/internal/web"

	"github.com/joho/godotenv"
)

func main() {
	log.Println("Starting todoweb application...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	database, err := db.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// A dead store at startup is logged but not fatal: the pool connects
	// lazily and every request that touches it fails uniformly until the
	// store comes back.
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := database.Ping(pingCtx); err != nil {
		log.Printf("Database unreachable, serving degraded: %v", err)
	}
	cancelPing()

	directory := todo.NewDirectory(database)
	sessions := todo.NewSessions(database, directory, time.Duration(cfg.Session.TTLHours)*time.Hour)
	tasks := todo.NewTasks(database)

	server, err := web.New(directory, sessions, tasks)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	go func() {
		s := <-signals
		log.Printf("Received signal: %v", s)
		cancel()
	}()

	// Start the server
	go func() {
		if err := server.Start(cfg.Server.Addr); err != nil {
			log.Printf("Error running server: %v", err)
			cancel()
		}
	}()

	// Wait for shutdown
	<-ctx.Done()
	log.Println("Shutdown signal received")

	// Perform cleanup
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
		os.Exit(1)
	}
	database.Close()

	log.Println("Application shutdown complete")
}
