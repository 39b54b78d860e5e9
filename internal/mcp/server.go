package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/chordid-mcp/internal/config"
	"github.com/dshills/chordid-mcp/internal/identifier"
	"github.com/dshills/chordid-mcp/internal/logging"
	"github.com/dshills/chordid-mcp/internal/progression"
	"github.com/dshills/chordid-mcp/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "chordid-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
	// DBFileName is the history database file inside Config.DBPath
	DBFileName = "history.db"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp         *server.MCPServer
	storage     storage.Storage // nil when history is disabled
	identifier  *identifier.Identifier
	progression *progression.Analyzer
	logger      logging.Logger
	startedAt   time.Time
}

// NewServer creates a new MCP server instance, opening the history database
// when cfg enables it
func NewServer(cfg *config.Config, logger logging.Logger) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	var store storage.Storage
	if cfg.HistoryEnabled {
		dbFile, err := DatabasePath(cfg)
		if err != nil {
			return nil, err
		}

		// Create directory if it doesn't exist
		if err := os.MkdirAll(filepath.Dir(dbFile), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}

		sqlite, err := storage.NewSQLiteStorage(dbFile)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		store = sqlite
	}

	s, err := NewServerWithStorage(cfg, store, logger)
	if err != nil {
		if store != nil {
			_ = store.Close()
		}
		return nil, err
	}
	return s, nil
}

// DatabasePath returns the history database file for cfg
func DatabasePath(cfg *config.Config) (string, error) {
	dir, err := config.ExpandHome(cfg.DBPath)
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(dir, DBFileName), nil
}

// NewServerWithStorage creates a server on an already opened store. store
// may be nil to run without history.
func NewServerWithStorage(cfg *config.Config, store storage.Storage, logger logging.Logger) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	logger = logging.OrNoOp(logger)

	// Create identifier
	id, err := identifier.New(identifier.Options{
		CacheSize: cfg.CacheSize,
		History:   store,
		Logger:    logger.WithFields(logging.Fields{"component": "identifier"}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize identifier: %w", err)
	}

	// Create progression analyzer
	analyzer := progression.New(id, store, &progression.Config{
		Workers:   cfg.Workers,
		MaxChords: cfg.MaxProgression,
	}, logger.WithFields(logging.Fields{"component": "progression"}))

	// Create MCP server
	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:         mcpServer,
		storage:     store,
		identifier:  id,
		progression: analyzer,
		logger:      logger,
		startedAt:   time.Now(),
	}

	// Register tools
	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	// Apply history retention
	retention, err := cfg.Retention()
	if err != nil {
		return nil, err
	}
	if store != nil && retention > 0 {
		if _, err := s.PruneHistory(context.Background(), retention); err != nil {
			return nil, fmt.Errorf("failed to prune history: %w", err)
		}
	}

	return s, nil
}

// PruneHistory deletes history recorded more than retention ago
func (s *Server) PruneHistory(ctx context.Context, retention time.Duration) (int, error) {
	if s.storage == nil {
		return 0, nil
	}
	deleted, err := s.storage.DeleteBefore(ctx, time.Now().Add(-retention))
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("pruned history", logging.Fields{
			"deleted":   deleted,
			"retention": retention.String(),
		})
	}
	return deleted, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.Close() }()
	return server.ServeStdio(s.mcp)
}

// Close releases the history database, if any
func (s *Server) Close() error {
	if s.storage == nil {
		return nil
	}
	return s.storage.Close()
}

// registerTools registers all MCP tools
func (s *Server) registerTools() error {
	// Register identify_chord tool
	s.mcp.AddTool(identifyChordTool(), s.handleIdentifyChord)

	// Register identify_progression tool
	s.mcp.AddTool(identifyProgressionTool(), s.handleIdentifyProgression)

	// Register catalog tools
	s.mcp.AddTool(listChordsTool(), s.handleListChords)
	s.mcp.AddTool(listExamplesTool(), s.handleListExamples)

	// Register history tools
	s.mcp.AddTool(chordHistoryTool(), s.handleChordHistory)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)

	return nil
}
