// server/server.go
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/mbeutel/llamachat/agent"
	"github.com/mbeutel/llamachat/config"
	"github.com/mbeutel/llamachat/conversation"
	"github.com/mbeutel/llamachat/jira"
	"github.com/mbeutel/llamachat/tools"
	"github.com/mbeutel/llamachat/types"
)

// Server exposes the agent over HTTP.
type Server struct {
	cfg     *config.Config
	agent   *agent.Agent
	store   *conversation.Store
	tracker *Tracker
	srv     *http.Server
	logger  *log.Logger
}

// MessageRequest represents an incoming message request
type MessageRequest struct {
	Message string `json:"message"`
}

// MessageResponse represents the response to a message
type MessageResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// HistoryResponse carries the session transcript.
type HistoryResponse struct {
	SessionID string          `json:"session_id"`
	Messages  []types.Message `json:"messages"`
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	return &Server{
		cfg:    cfg,
		logger: log.Default(),
	}
}

// Start initializes the agent and serves until a shutdown signal or a
// listener error.
func (s *Server) Start() error {
	if err := s.Initialize(); err != nil {
		return err
	}
	return s.Run()
}

// Initialize wires the agent, tracker, and HTTP server without opening
// the listener.
func (s *Server) Initialize() error {
	jiraClient := jira.New(s.cfg, s.logger)

	registry, err := tools.NewDefaultRegistry(s.cfg, jiraClient)
	if err != nil {
		return fmt.Errorf("failed to build tool registry: %w", err)
	}

	s.store = conversation.NewStore()
	s.agent = agent.New(s.cfg, registry, s.store, s.logger)

	// A turn is stuck once it has outlived two LLM request timeouts.
	stale := 2 * time.Duration(s.cfg.LLM.TimeoutSeconds) * time.Second
	s.tracker = NewTracker(stale, s.logger)

	s.srv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port),
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return nil
}

// Run serves the initialized server. SIGINT/SIGTERM trigger a bounded
// graceful drain through the shutdown manager.
func (s *Server) Run() error {
	manager := NewShutdownManager(s.srv, s.agent, s.tracker, s.logger)

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Printf("Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			serveErr <- fmt.Errorf("server error: %w", err)
			return
		}
		serveErr <- nil
	}()

	managerErr := make(chan error, 1)
	go func() {
		managerErr <- manager.HandleGracefulShutdown()
	}()

	select {
	case err := <-serveErr:
		return err
	case err := <-managerErr:
		return err
	}
}

// routes builds the handler mux; split out so tests can exercise the
// handlers without a listener.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/api/clear", s.handleClear)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error {
	if s.srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
	}

	if s.tracker != nil {
		s.tracker.Close()
	}

	if s.agent != nil {
		if err := s.agent.Close(); err != nil {
			return fmt.Errorf("agent shutdown error: %w", err)
		}
	}

	return nil
}

// handleChat processes chat messages
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "Message is required", http.StatusBadRequest)
		return
	}

	id := s.tracker.Track(req.Message)
	defer s.tracker.Done(id)

	response, err := s.agent.ProcessMessage(r.Context(), req.Message)
	resp := MessageResponse{
		Response: response,
	}
	if err != nil {
		resp.Error = err.Error()
	}

	writeJSON(w, resp)
}

// handleClear resets the conversation history.
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.store.Clear()
	writeJSON(w, map[string]string{"status": "cleared"})
}

// handleHistory returns the session transcript.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, HistoryResponse{
		SessionID: s.store.ID(),
		Messages:  s.store.Messages(),
	})
}

// handleHealth provides a health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, map[string]string{
		"status": "ok",
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
