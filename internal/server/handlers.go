package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"legacy-guardians/internal/models"
	"legacy-guardians/internal/store"
)

// coachChatRequest is the advisory bridge payload. Either Message or
// Action must be present; Portfolio is the snapshot the advice is about.
type coachChatRequest struct {
	Coach     models.Coach          `json:"coach"`
	Message   string                `json:"message"`
	Action    *models.TradeAction   `json:"action,omitempty"`
	Portfolio *models.PortfolioView `json:"portfolio,omitempty"`
}

type coachChatResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) handleCoachChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req coachChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" && req.Action == nil {
		writeError(w, http.StatusBadRequest, "message or action required")
		return
	}

	view := models.PortfolioView{}
	if req.Portfolio != nil {
		view = *req.Portfolio
	}

	// The advisor never fails: transport errors degrade to canned advice.
	var reply string
	if req.Action != nil {
		reply = s.advisor.ReactToTrade(r.Context(), req.Coach, view, *req.Action)
	} else {
		reply = s.advisor.Ask(r.Context(), req.Coach, view, req.Message)
	}
	writeJSON(w, http.StatusOK, coachChatResponse{Reply: reply})
}

type feedbackRequest struct {
	Rating  int    `json:"rating"`
	Message string `json:"message"`
	Email   string `json:"email"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		writeError(w, http.StatusBadRequest, "rating must be 1-5")
		return
	}
	entry := &store.FeedbackEntry{Rating: req.Rating, Message: req.Message, Email: req.Email}
	if err := s.store.SaveFeedback(r.Context(), entry); err != nil {
		s.logger.Error().Err(err).Msg("saving feedback failed")
		writeError(w, http.StatusInternalServerError, "could not save feedback")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]bool{"ok": true})
}

type subscribeRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !ValidEmail(req.Email) {
		writeError(w, http.StatusBadRequest, "invalid email address")
		return
	}
	created, err := s.store.Subscribe(r.Context(), req.Email)
	if err != nil {
		s.logger.Error().Err(err).Msg("subscribe failed")
		writeError(w, http.StatusInternalServerError, "could not subscribe")
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]bool{"subscribed": true, "new": created})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	stats, err := s.store.GetStats(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("stats query failed")
		writeError(w, http.StatusInternalServerError, "could not load stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
