// Package main provides a test server for exercising the chat flow end to end.
// It runs with in-memory SQLite, in-memory sessions and a fake calendar, but
// the real LLM backend, so extraction accuracy can be checked by hand or
// from scripts.
//
// Usage:
//
//	GOOGLE_API_KEY=... go run ./cmd/testserver
//
// The server exposes additional test control endpoints:
//   - POST /api/test/reset  - Clear sessions, bookings and the fake calendar
//   - POST /api/test/busy   - Mark a window busy: {"start": RFC3339, "end": RFC3339}
//   - GET  /api/test/events - Events the fake calendar has created
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/AshrithRedx/ConversationalAiAgent2/internal/assistant"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/claude"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/config"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/database"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/dateparse"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/extract"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/gemini"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/logging"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/server"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/session"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/testutil"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/timeutil"
)

func main() {
	cfg := config.LoadFromEnv()

	logger, err := logging.New(true)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx := context.Background()

	db, err := database.New(":memory:", logger)
	if err != nil {
		logger.Fatal("failed to create database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("in-memory database initialized")

	var completer extract.Completer
	switch {
	case cfg.LLMProvider == "claude" && cfg.AnthropicAPIKey != "":
		completer = claude.NewClient(cfg.AnthropicAPIKey, cfg.ClaudeModel, cfg.ClaudeTemperature)
		logger.Info("Claude API configured for extraction")
	case cfg.GoogleAPIKey != "":
		client, err := gemini.NewClient(ctx, cfg.GoogleAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Fatal("failed to create Gemini client", zap.Error(err))
		}
		defer client.Close()
		completer = client
		logger.Info("Gemini API configured for extraction")
	default:
		logger.Fatal("no LLM configured: set GOOGLE_API_KEY, or ANTHROPIC_API_KEY with ASSISTANT_LLM_PROVIDER=claude")
	}

	calendar := testutil.NewFakeCalendar()
	store := session.NewMemoryStore()
	loc := timeutil.FixedLocation(cfg.UTCOffsetMinutes)

	a, err := assistant.New(assistant.Config{
		Extractor: extract.NewExtractor(completer, extract.Config{
			Retries:    cfg.ExtractionRetries,
			RetryDelay: cfg.ExtractionDelay,
		}, logger),
		Resolver:        dateparse.NewParser(loc),
		Calendar:        calendar,
		Store:           store,
		Bookings:        db,
		Logger:          logger,
		TimeZone:        cfg.CalendarTimeZone,
		Location:        loc,
		MaxAlternatives: cfg.MaxAlternatives,
		CallTimeout:     cfg.ExternalCallTimeout,
	})
	if err != nil {
		logger.Fatal("failed to create assistant", zap.Error(err))
	}

	srv := server.New(server.ServerConfig{
		Assistant: a,
		Bookings:  db,
		DB:        db,
		Port:      cfg.HTTPPort,
		Logger:    logger,
	})

	// Test control endpoints sit in front of the regular API
	testMux := http.NewServeMux()
	testMux.Handle("/", srv.Handler())

	testMux.HandleFunc("POST /api/test/reset", func(w http.ResponseWriter, r *http.Request) {
		evicted, err := store.EvictIdle(r.Context(), time.Now().Add(24*time.Hour))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if _, err := db.ExecContext(r.Context(), `DELETE FROM bookings`); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		calendar.Reset()

		logger.Info("test state reset", zap.Int("sessions", evicted))
		respondJSON(w, http.StatusOK, map[string]interface{}{"status": "reset", "sessions": evicted})
	})

	testMux.HandleFunc("POST /api/test/busy", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Start string `json:"start"`
			End   string `json:"end"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		start, err := timeutil.ParseRFC3339(req.Start, loc)
		if err != nil {
			http.Error(w, "invalid start: "+err.Error(), http.StatusBadRequest)
			return
		}
		end, err := timeutil.ParseRFC3339(req.End, loc)
		if err != nil || !end.After(start) {
			http.Error(w, "invalid end", http.StatusBadRequest)
			return
		}

		calendar.AddBusy(start, end)
		respondJSON(w, http.StatusOK, map[string]string{"status": "busy"})
	})

	testMux.HandleFunc("GET /api/test/events", func(w http.ResponseWriter, r *http.Request) {
		created := calendar.Events()
		events := make([]map[string]string, 0, len(created))
		for _, e := range created {
			events = append(events, map[string]string{
				"id":        e.Event.ID,
				"summary":   e.Event.Summary,
				"start":     e.Event.StartTime.In(loc).Format(time.RFC3339),
				"end":       e.Event.EndTime.In(loc).Format(time.RFC3339),
				"time_zone": e.Input.TimeZone,
			})
		}
		respondJSON(w, http.StatusOK, events)
	})

	httpServer := &http.Server{
		Addr:    srv.Addr(),
		Handler: testMux,
	}

	go func() {
		logger.Info("test server running", zap.String("addr", "http://localhost"+httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down test server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown error", zap.Error(err))
	}
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
