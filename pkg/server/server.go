// Package server exposes the transliteration engine over HTTP: one-shot
// conversion and a websocket for live typing.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/japaniel/polytonic/pkg/document"
	"github.com/japaniel/polytonic/pkg/logging"
	"github.com/japaniel/polytonic/pkg/translit"
)

const (
	// writeWait is the time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// pongWait is the time allowed to read the next pong from the peer.
	pongWait = 60 * time.Second
	// pingPeriod must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// maxMessageSize bounds a keystroke frame.
	maxMessageSize = 4096
	// maxConvertSize bounds a /convert body.
	maxConvertSize = 1 << 20
)

// ResetFrame is the text frame that clears a session's buffer.
const ResetFrame = "\x00reset"

// KeyEvent is the reply to one keystroke: the edit to apply to the client's
// copy of the text.
type KeyEvent struct {
	Session string `json:"session"`
	Key     string `json:"key"`
	Delete  int    `json:"delete"`
	Insert  string `json:"insert"`
	Pending int    `json:"pending"`
}

// ResetEvent acknowledges a reset frame.
type ResetEvent struct {
	Session string `json:"session"`
	Reset   bool   `json:"reset"`
}

// ConvertResponse is the body returned by /convert.
type ConvertResponse struct {
	Greek string `json:"greek"`
}

// Server holds the shared conversion options and the open sessions.
type Server struct {
	opts     translit.Options
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[string]*session
}

// New creates a Server. Every session and conversion uses opts.
func New(opts translit.Options) *Server {
	return &Server{
		opts: opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		sessions: make(map[string]*session),
	}
}

// Handler returns the routes wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /convert", s.handleConvert)
	mux.HandleFunc("GET /ws", s.handleWS)
	return logging.Middleware(mux)
}

// Sessions returns the number of open live-typing sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode response", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  document.Version(),
		"sessions": s.Sessions(),
	})
}

// handleConvert converts the request body, line by line like a document.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxConvertSize))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "body too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	doc := document.Convert(string(body), s.opts)
	writeJSON(w, http.StatusOK, ConvertResponse{Greek: doc.Greek()})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an error status.
		logging.Warn("websocket upgrade failed", "error", err)
		return
	}

	id := uuid.New().String()
	ctx := logging.WithSession(context.Background(), id)
	sess := &session{
		id:     id,
		ctx:    ctx,
		conn:   conn,
		engine: translit.NewEngine(s.opts),
		send:   make(chan any, 256),
		done:   make(chan struct{}),
	}

	s.mu.Lock()
	s.sessions[id] = sess
	open := len(s.sessions)
	s.mu.Unlock()
	logging.WebSocketEvent(ctx, "session_opened", "sessions", open)

	go sess.writePump()
	sess.readPump()

	s.mu.Lock()
	delete(s.sessions, id)
	open = len(s.sessions)
	s.mu.Unlock()
	logging.WebSocketEvent(ctx, "session_closed", "sessions", open)
}
