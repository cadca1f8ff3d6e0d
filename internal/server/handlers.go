package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/AshrithRedx/ConversationalAiAgent2/internal/session"
)

const maxChatBodyBytes = 64 << 10

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"message": "Backend is running"})
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	// Check database connectivity
	if s.db != nil {
		if err := s.db.PingContext(r.Context()); err != nil {
			s.respondError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}

	status := map[string]interface{}{
		"status": "healthy",
	}
	if s.assistant != nil {
		status["stats"] = s.assistant.Stats()
	}

	s.respondJSON(w, http.StatusOK, status)
}

// Chat API

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBodyBytes)).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.SessionID = strings.TrimSpace(req.SessionID)
	if req.SessionID == "" {
		s.respondError(w, http.StatusBadRequest, "session_id is required")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.respondError(w, http.StatusBadRequest, "message is required")
		return
	}

	if !s.limiter.Allow(req.SessionID) {
		s.logger.Warn("rate limit exceeded", zap.String("session_id", req.SessionID))
		s.respondError(w, http.StatusTooManyRequests, "Rate limit exceeded. Try again later.")
		return
	}

	reply, err := s.assistant.HandleMessage(r.Context(), req.SessionID, req.Message)
	if err != nil {
		s.logger.Error("chat turn failed",
			zap.String("request_id", requestID(r.Context())),
			zap.String("session_id", req.SessionID),
			zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to process message")
		return
	}

	s.respondJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

// Sessions API

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	slots, err := s.assistant.Session(r.Context(), id)
	if errors.Is(err, session.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id":            id,
		"slots":                 slots,
		"awaiting_confirmation": slots.HasPendingConfirmation(),
		"missing":               slots.Missing(),
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.assistant.Reset(r.Context(), r.PathValue("id")); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Bookings API

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	if s.bookings == nil {
		s.respondError(w, http.StatusServiceUnavailable, "booking log not configured")
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	bookings, err := s.bookings.ListBookings(r.Context(), limit)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, bookings)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("error encoding JSON response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
