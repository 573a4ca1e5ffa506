package main

import (
	"sync"

	"github.com/alanderos91/BindrTest/internal/lattice"
	"github.com/alanderos91/BindrTest/internal/lattice/notifiers"
)

// latticeLoggerAdapter adapts the server's Logger to the lattice.Logger
// interface.
type latticeLoggerAdapter struct {
	logger *Logger
}

func (a *latticeLoggerAdapter) Debugf(format string, v ...any) { a.logger.Debugf(format, v...) }
func (a *latticeLoggerAdapter) Infof(format string, v ...any)  { a.logger.Infof(format, v...) }
func (a *latticeLoggerAdapter) Warnf(format string, v ...any)  { a.logger.Warnf(format, v...) }
func (a *latticeLoggerAdapter) Errorf(format string, v ...any) { a.logger.Errorf(format, v...) }

// wsNotifierID is the well-known websocket notifier backing the /ws route.
const wsNotifierID = "ws"

// Server is the HTTP front end: it registers model configs, starts and
// tracks runs, serves trajectories, and streams run events over websockets
// and webhooks.
type Server struct {
	mu          sync.RWMutex
	models      map[string]lattice.ModelConfig
	manager     *lattice.RunManager
	notifierMgr *lattice.NotificationManager
	wsNotifier  *notifiers.WebSocketNotifier
	dataDir     string
	logger      *Logger
}

// NewServer creates a server instance with the built-in websocket notifier
// already registered.
func NewServer(logger *Logger) *Server {
	adapter := &latticeLoggerAdapter{logger: logger}
	notifierMgr := lattice.NewNotificationManagerWithLogger(adapter)
	manager := lattice.NewRunManagerWithLogger(adapter)
	manager.SetNotificationManager(notifierMgr)

	ws := notifiers.NewWebSocketNotifier(wsNotifierID)
	if err := notifierMgr.RegisterNotifier(ws); err != nil {
		logger.Errorf("Failed to register websocket notifier: %v", err)
	}

	return &Server{
		models:      make(map[string]lattice.ModelConfig),
		manager:     manager,
		notifierMgr: notifierMgr,
		wsNotifier:  ws,
		logger:      logger,
	}
}

// SetDataDir sets the directory trajectory files are written to.
func (s *Server) SetDataDir(dir string) {
	s.dataDir = dir
}

// RegisterModel validates and stores a model config under its name.
func (s *Server) RegisterModel(cfg lattice.ModelConfig) error {
	if err := lattice.ValidateModelConfig(cfg); err != nil {
		return err
	}
	// Compile once up front so a broken rule set is rejected at registration
	// time, not at the first run.
	if _, _, err := lattice.BuildModelFromConfig(cfg); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.models[cfg.Name] = cfg
	return nil
}

// GetModel retrieves a stored model config by name.
func (s *Server) GetModel(name string) (lattice.ModelConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, exists := s.models[name]
	return cfg, exists
}

// Close shuts down the run and notification managers.
func (s *Server) Close() {
	s.manager.Close()
	if err := s.notifierMgr.Close(); err != nil {
		s.logger.Warnf("Error closing notifiers: %v", err)
	}
}
