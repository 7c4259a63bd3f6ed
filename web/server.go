package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"markestedt/typeitown/ui"
)

//go:embed static/*
var staticFiles embed.FS

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return sameLocalOrigin(r)
	},
}

// Diagnostics is the health information shown on the dashboard
type Diagnostics struct {
	HotkeysEnabled bool     `json:"hotkeysEnabled"`
	Conflicts      []string `json:"conflicts"`
	Entries        int      `json:"entries"`
	Injected       uint64   `json:"injected"`
	InjectFailed   uint64   `json:"injectFailed"`
	DroppedEvents  uint64   `json:"droppedEvents"`
}

// Actions are the user commands the dashboard can issue. Implementations
// must hand the work to the UI loop and return immediately.
type Actions interface {
	Click(row int)
	Reload()
	SetHotkeysEnabled(enabled bool)
	Diagnostics() Diagnostics
}

// Server represents the web server
type Server struct {
	shell   *ui.Shell
	actions Actions
	port    int
	hub     *Hub
}

// NewServer creates a new web server and attaches it to shell
func NewServer(shell *ui.Shell, actions Actions, port int) *Server {
	s := &Server{
		shell:   shell,
		actions: actions,
		port:    port,
		hub:     NewHub(),
	}
	shell.SetPublisher(s)
	return s
}

// Handler returns the HTTP routes
func (s *Server) Handler() (http.Handler, error) {
	mux := http.NewServeMux()

	// API endpoints
	mux.HandleFunc("/api/state", s.handleState)
	mux.HandleFunc("/api/click", s.handleClick)
	mux.HandleFunc("/api/reload", s.handleReload)
	mux.HandleFunc("/api/hotkeys", s.handleHotkeys)
	mux.HandleFunc("/api/diagnostics", s.handleDiagnostics)
	mux.HandleFunc("/ws", s.handleWebSocket)

	// Static files
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to load static files: %w", err)
	}
	mux.Handle("/", http.FileServer(http.FS(staticFS)))

	return localOnly(mux), nil
}

// localOnly rejects requests that did not come from the dashboard itself.
// Any web page can post to localhost, so the host, the origin, and the body
// type are all checked before a route runs.
func localOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !sameLocalOrigin(r) {
			slog.Warn("Rejected cross-origin request", "origin", r.Header.Get("Origin"), "host", r.Host, "path", r.URL.Path)
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		if r.Method == http.MethodPost || r.Method == http.MethodPut {
			mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil || mt != "application/json" {
				http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// sameLocalOrigin reports whether r targets a loopback host and, when the
// browser sent an Origin, whether that origin is the dashboard's own.
func sameLocalOrigin(r *http.Request) bool {
	if !isLoopbackHost(r.Host) {
		return false
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || u.Scheme != "http" {
		return false
	}
	return isLoopbackHost(u.Host) && portOf(u.Host) == portOf(r.Host)
}

func isLoopbackHost(hostport string) bool {
	host := hostport
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		host = h
	}
	switch host {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}

func portOf(hostport string) string {
	_, port, err := net.SplitHostPort(hostport)
	if err != nil {
		return "80"
	}
	return port
}

// Start serves the dashboard on localhost until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}

	go s.hub.Run()
	defer s.hub.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf("127.0.0.1:%d", s.port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("Starting web server", "port", s.port, "url", s.URL())

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("web server failed: %w", err)
	}
	return nil
}

// URL is the dashboard address
func (s *Server) URL() string {
	return fmt.Sprintf("http://localhost:%d", s.port)
}

// PublishState broadcasts a state update to all connected clients
func (s *Server) PublishState(st ui.State) {
	s.hub.BroadcastMessage(Message{Type: MessageTypeState, Data: st})
}

// PublishNotice broadcasts a notification to all connected clients
func (s *Server) PublishNotice(n ui.Notice) {
	s.hub.BroadcastMessage(Message{Type: MessageTypeNotice, Data: n})
}

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade WebSocket connection", "error", err)
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	// New clients start from the current state
	initial, err := json.Marshal(Message{Type: MessageTypeState, Data: s.shell.Snapshot()})
	if err == nil {
		client.send <- initial
	}

	select {
	case s.hub.register <- client:
	case <-s.hub.done:
		conn.Close()
		return
	}

	// Start client goroutines
	go client.writePump()
	go client.readPump()
}
