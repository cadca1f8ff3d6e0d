package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/AshrithRedx/ConversationalAiAgent2/internal/assistant"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/database"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/logging"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/session"
)

// ChatService is the conversation backend behind the HTTP API.
type ChatService interface {
	HandleMessage(ctx context.Context, sessionID, message string) (string, error)
	Session(ctx context.Context, sessionID string) (session.Slots, error)
	Reset(ctx context.Context, sessionID string) error
	Stats() assistant.Stats
}

// BookingLister reads the booking audit log.
type BookingLister interface {
	ListBookings(ctx context.Context, limit int) ([]database.Booking, error)
}

type Server struct {
	assistant ChatService
	bookings  BookingLister
	db        *database.DB
	limiter   *rateLimiter
	logger    *zap.Logger
	httpSrv   *http.Server
	port      int
}

// ServerConfig holds configuration for server creation
type ServerConfig struct {
	Assistant ChatService
	// Bookings and DB are optional; without them the audit log endpoint
	// returns 503 and /health skips the database check.
	Bookings           BookingLister
	DB                 *database.DB
	Port               int
	RateLimitPerMinute int
	Logger             *zap.Logger
}

func New(cfg ServerConfig) *Server {
	s := &Server{
		assistant: cfg.Assistant,
		bookings:  cfg.Bookings,
		db:        cfg.DB,
		limiter:   newRateLimiter(cfg.RateLimitPerMinute),
		logger:    logging.OrNop(cfg.Logger),
		port:      cfg.Port,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.requestIDMiddleware(s.corsMiddleware(mux)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealthCheck)

	// Chat API
	mux.HandleFunc("POST /chat", s.handleChat)

	// Session inspection
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDeleteSession)

	// Booking audit log
	mux.HandleFunc("GET /api/bookings", s.handleListBookings)
}

func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", fmt.Sprintf("http://localhost:%d", s.port)))
	return s.httpSrv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Handler returns the server's HTTP handler for testing purposes
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// Addr returns the listen address, e.g. ":8000".
func (s *Server) Addr() string {
	return s.httpSrv.Addr
}
