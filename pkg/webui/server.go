// Package webui serves the editor web UI and the workspace HTTP API.
package webui

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sitesmith/sitesmith/pkg/changetracker"
	"github.com/sitesmith/sitesmith/pkg/configuration"
	"github.com/sitesmith/sitesmith/pkg/generation"
	"github.com/sitesmith/sitesmith/pkg/history"
	"github.com/sitesmith/sitesmith/pkg/utils"
	"github.com/sitesmith/sitesmith/pkg/workspace"
)

//go:embed static/*
var staticFiles embed.FS

// DefaultPort is used when the config does not pick one.
const DefaultPort = 54380

// ConnectionInfo stores metadata about a WebSocket connection.
type ConnectionInfo struct {
	SessionID   string
	ConnectedAt time.Time
}

// WorkspaceServer binds the workspace, change tracker, preview assembler and
// generation orchestrator to the HTTP surface the browser UI talks to.
type WorkspaceServer struct {
	cfg          *configuration.Config
	keys         *configuration.APIKeys
	ws           *workspace.Workspace
	tracker      *changetracker.Tracker
	orchestrator *generation.Orchestrator
	prompts      *history.Store
	logger       *utils.Logger

	port        int
	server      *http.Server
	upgrader    websocket.Upgrader
	connections sync.Map // map[*SafeConn]*ConnectionInfo

	isRunning       bool
	mutex           sync.RWMutex
	startTime       time.Time
	generationCount int
}

// NewWorkspaceServer assembles the server from its collaborators.
func NewWorkspaceServer(
	cfg *configuration.Config,
	keys *configuration.APIKeys,
	ws *workspace.Workspace,
	tracker *changetracker.Tracker,
	orchestrator *generation.Orchestrator,
	prompts *history.Store,
	logger *utils.Logger,
) *WorkspaceServer {
	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}

	s := &WorkspaceServer{
		cfg:          cfg,
		keys:         keys,
		ws:           ws,
		tracker:      tracker,
		orchestrator: orchestrator,
		prompts:      prompts,
		logger:       logger,
		port:         port,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				return strings.Contains(origin, "localhost") || strings.Contains(origin, "127.0.0.1")
			},
		},
		startTime: time.Now(),
	}

	tracker.OnSave(s.onSave)
	return s
}

// routes builds the HTTP mux. Split out so tests can exercise handlers
// without binding a port.
func (s *WorkspaceServer) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/api/generate", s.handleAPIGenerate)
	mux.HandleFunc("/api/files", s.handleAPIFiles)
	mux.HandleFunc("/api/file", s.handleAPIFile)
	mux.HandleFunc("/api/file/rename", s.handleAPIRename)
	mux.HandleFunc("/api/file/active", s.handleAPIActiveFile)
	mux.HandleFunc("/api/preview", s.handleAPIPreview)
	mux.HandleFunc("/api/dirty", s.handleAPIDirty)
	mux.HandleFunc("/api/save", s.handleAPISave)
	mux.HandleFunc("/api/download", s.handleAPIDownload)
	mux.HandleFunc("/api/publish/netlify", s.handleAPIPublishNetlify)
	mux.HandleFunc("/api/publish/github", s.handleAPIPublishGitHub)
	mux.HandleFunc("/api/publish/vercel", s.handleAPIPublishVercel)
	mux.HandleFunc("/api/history", s.handleAPIHistory)
	mux.HandleFunc("/api/templates", s.handleAPITemplates)
	mux.HandleFunc("/api/stats", s.handleAPIStats)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "ok",
			"port":   s.port,
			"uptime": time.Since(s.startTime).String(),
		})
	})
	return mux
}

// Start starts the web server and returns once it is listening.
func (s *WorkspaceServer) Start(ctx context.Context) error {
	s.mutex.Lock()
	if s.isRunning {
		s.mutex.Unlock()
		return fmt.Errorf("web server is already running")
	}
	s.isRunning = true
	s.mutex.Unlock()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.routes(),
	}

	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		s.mutex.Lock()
		s.isRunning = false
		s.mutex.Unlock()
		return fmt.Errorf("failed to bind port %d: %w", s.port, err)
	}

	go func() {
		s.logger.Logf("Web UI listening at http://localhost:%d", s.port)
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Logf("Web server error: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	return nil
}

// Shutdown gracefully stops the server and closes every live connection.
func (s *WorkspaceServer) Shutdown() error {
	s.mutex.Lock()
	if !s.isRunning {
		s.mutex.Unlock()
		return nil
	}
	s.isRunning = false
	s.mutex.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.connections.Range(func(conn, value interface{}) bool {
		if sc, ok := conn.(*SafeConn); ok {
			sc.Close()
		}
		return true
	})

	return s.server.Shutdown(ctx)
}

// IsRunning reports whether the server is up.
func (s *WorkspaceServer) IsRunning() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.isRunning
}

// GetPort returns the bound port.
func (s *WorkspaceServer) GetPort() int {
	return s.port
}

func (s *WorkspaceServer) countConnections() int {
	count := 0
	s.connections.Range(func(_, _ interface{}) bool {
		count++
		return true
	})
	return count
}

// onSave relays save completions from the change tracker to the log and to
// connected clients.
func (s *WorkspaceServer) onSave(e changetracker.SaveEvent) {
	s.logger.Logf("Saved %s (%s)", e.Filename, e.Stats)
	s.broadcast("save", map[string]interface{}{
		"filename":    e.Filename,
		"manual":      e.Manual,
		"stats":       e.Stats.String(),
		"timestamp":   e.Timestamp.Unix(),
		"any_unsaved": s.tracker.HasAnyUnsaved(),
	})
}

// handleIndex serves the embedded single-page UI.
func (s *WorkspaceServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "UI not available", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// CheckPortAvailable checks if a port is available to bind to.
func CheckPortAvailable(port int) bool {
	listener, err := (&net.ListenConfig{}).Listen(context.Background(), "tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return false
	}
	listener.Close()
	return true
}

// FindAvailablePort finds an available port starting from a base port.
func FindAvailablePort(basePort int) int {
	port := basePort
	for port < basePort+100 {
		if CheckPortAvailable(port) {
			return port
		}
		port++
	}
	return basePort + 100
}
