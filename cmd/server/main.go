/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the tuition pricing server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize the store (SQLite or JSON files)
  3. Load the price table from the settings file
  4. Create API handler with dependencies
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port      HTTP server port (default: 8080)
  -db        SQLite database path (default: tuition.db)
             Use ":memory:" for an in-memory database
  -data      Directory holding groups.json/students.json/joining_dates.json;
             when set, the JSON-file store is used instead of SQLite
  -settings  Path to the pricing settings JSON (default: settings.json);
             missing or broken settings fall back to defaults with a warning

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the store
  4. Exit

EXAMPLES:
  # Run against a SQLite database
  ./server -db="./data/tuition.db"

  # Run against the legacy JSON data directory
  ./server -data="./data"

  # Run on a different port with explicit settings
  ./server -port=3000 -settings="./settings.json"

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite, store/jsonfile: Store implementations
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/baila/tuition-engine/api"
	"github.com/baila/tuition-engine/config"
	"github.com/baila/tuition-engine/store/jsonfile"
	"github.com/baila/tuition-engine/store/sqlite"
	"github.com/baila/tuition-engine/tuition"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "tuition.db", "SQLite database path")
	dataDir := flag.String("data", "", "JSON data directory (overrides -db)")
	settings := flag.String("settings", "settings.json", "pricing settings JSON path")
	flag.Parse()

	// Initialize store
	var store tuition.AdminStore
	if *dataDir != "" {
		store = jsonfile.New(*dataDir)
		log.Printf("Using JSON-file store in %s", *dataDir)
	} else {
		s, err := sqlite.New(*dbPath)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer s.Close()
		store = s
		log.Printf("Using SQLite store at %s", *dbPath)
	}

	// Load price table; warnings degrade, they never abort startup.
	prices, warnings := config.LoadPriceTable(*settings)
	for _, warning := range warnings {
		log.Printf("Warning: %s", warning)
	}

	// Initialize handler and router
	handler := api.NewHandler(store, prices, warnings)
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost:%d", *port)
		log.Printf("📊 API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
