package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/user/seo-meta-service/internal/domain"
)

const maxRequestBody = 1 << 20

// NotReadyMessage is returned when neither a URL nor enough page content was sent.
const NotReadyMessage = "Provide a URL or more than 20 characters of page content."

type generateResponse struct {
	*domain.SeoResponse
	Sources []string `json:"sources"`
}

type errorResponse struct {
	Error string           `json:"error"`
	Kind  domain.ErrorKind `json:"kind,omitempty"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodeInputs(w, r)
	if !ok {
		return
	}

	out, err := s.runner.Run(r.Context(), in)
	if err != nil {
		kind := domain.Classify(err)
		s.respondWithJSON(w, statusFor(kind), errorResponse{Error: domain.UserMessage(err), Kind: kind})
		return
	}

	sources := out.Sources
	if sources == nil {
		sources = []string{}
	}
	s.respondWithJSON(w, http.StatusOK, generateResponse{SeoResponse: out.Response, Sources: sources})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodeInputs(w, r)
	if !ok {
		return
	}
	seq := s.controller.Submit(in)
	s.respondWithJSON(w, http.StatusAccepted, map[string]uint64{"seq": seq})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.respondWithJSON(w, http.StatusOK, s.controller.State())
}

// handleStateEvents streams every state change as a Server-Sent Event.
func (s *Server) handleStateEvents(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	states, cancel := s.controller.Subscribe()
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case state, ok := <-states:
			if !ok {
				return
			}
			data, err := json.Marshal(state)
			if err != nil {
				s.logger.Error("failed to encode state", zap.Error(err))
				return
			}
			if _, err := fmt.Fprintf(w, "event: state\ndata: %s\n\n", data); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				s.logger.Warn("streaming not supported by response writer", zap.Error(err))
				return
			}
		}
	}
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	s.respondWithJSON(w, http.StatusOK, map[string]any{
		"status":             "ok",
		"model":              s.config.GeminiModel,
		"api_key_configured": s.config.GeminiAPIKey != "",
		"page_fetch_mode":    s.config.PageFetchMode,
		"mcp_enabled":        s.mcp != nil,
	})
}

// --- Helper Functions ---

func (s *Server) decodeInputs(w http.ResponseWriter, r *http.Request) (domain.AnalysisInputs, bool) {
	var in domain.AnalysisInputs
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondWithError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return in, false
		}
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return in, false
	}
	if !in.Ready() {
		s.respondWithError(w, http.StatusBadRequest, NotReadyMessage)
		return in, false
	}
	return in, true
}

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindConfiguration:
		return http.StatusServiceUnavailable
	case domain.KindTransport, domain.KindMalformedResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondWithError(w http.ResponseWriter, code int, message string) {
	s.respondWithJSON(w, code, errorResponse{Error: message})
}

func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
		code = http.StatusInternalServerError
		response = []byte(`{"error":"internal error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
