package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dshills/chordid-mcp/internal/config"
	"github.com/dshills/chordid-mcp/internal/identifier"
	"github.com/dshills/chordid-mcp/internal/logging"
	"github.com/dshills/chordid-mcp/internal/mcp"
	"github.com/dshills/chordid-mcp/internal/storage"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("Chord ID MCP Server\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Build Mode: %s\n", storage.BuildMode)
		fmt.Printf("SQLite Driver: %s\n", storage.DriverName)
		os.Exit(0)
	}

	// One-shot mode: chordid identify C E G
	if len(os.Args) > 1 && os.Args[1] == "identify" {
		fmt.Println(identifier.Answer(strings.Join(os.Args[2:], " "), nil))
		os.Exit(0)
	}

	// Log startup info to stderr (stdout reserved for MCP protocol)
	log.SetOutput(os.Stderr)

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Schema downgrade: chordid migrate-down
	if len(os.Args) > 1 && os.Args[1] == "migrate-down" {
		dbFile, err := mcp.DatabasePath(cfg)
		if err != nil {
			log.Fatalf("Failed to resolve database path: %v", err)
		}
		schema, err := storage.RollbackDatabase(context.Background(), dbFile)
		if err != nil {
			log.Fatalf("Failed to roll back migration: %v", err)
		}
		fmt.Printf("Schema version: %s\n", schema)
		os.Exit(0)
	}

	logger := logging.NewStderr(logging.ParseLevel(cfg.LogLevel))
	logger.Info("Chord ID MCP Server starting", logging.Fields{
		"version":    version,
		"build_mode": storage.BuildMode,
		"driver":     storage.DriverName,
		"history":    cfg.HistoryEnabled,
	})

	// Create MCP server
	server, err := mcp.NewServer(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	errChan := make(chan error, 1)
	go func() {
		logger.Info("MCP server ready, listening on stdio")
		errChan <- server.Serve(ctx)
	}()

	// Wait for shutdown signal or error
	select {
	case sig := <-sigChan:
		logger.Info("shutting down gracefully", logging.Fields{"signal": sig.String()})
		cancel()
		_ = server.Close()
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}

	logger.Info("Server stopped")
}
