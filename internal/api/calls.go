package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	apperrors "github.com/julianstephens/dailypunch/internal/errors"
	"github.com/julianstephens/dailypunch/internal/logger"
	"github.com/julianstephens/dailypunch/internal/voice"
)

var errCallsNotConfigured = apperrors.NotConfigured("calls")

func (s *Server) initiateCall(w http.ResponseWriter, r *http.Request) {
	if s.calls == nil {
		writeError(w, r, errCallsNotConfigured)
		return
	}
	id, err := s.calls.InitiateCall(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "callId": id})
}

// callWebhook always acknowledges events it could decode so the provider
// does not retry them.
func (s *Server) callWebhook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	var ev voice.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, "Error", http.StatusBadRequest)
		return
	}
	if s.calls != nil {
		if err := s.calls.HandleEvent(r.Context(), ev); err != nil {
			logger.Error("Failed to handle call webhook", "event", ev.Data.EventType, "error", err)
			http.Error(w, "Error", apperrors.StatusCode(err))
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) callHistory(w http.ResponseWriter, r *http.Request) {
	if s.calls == nil {
		writeError(w, r, errCallsNotConfigured)
		return
	}
	calls, err := s.calls.History(userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"calls": calls})
}

func (s *Server) ttsPreview(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text" validate:"max=1000"`
	}
	if err := s.decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	if s.calls == nil {
		writeError(w, r, errCallsNotConfigured)
		return
	}
	audio, err := s.calls.Preview(r.Context(), body.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(audio)))
	_, _ = w.Write(audio)
}
