package api

import (
	"net/http"

	apperrors "github.com/julianstephens/dailypunch/internal/errors"
	"github.com/julianstephens/dailypunch/internal/models"
	"github.com/julianstephens/dailypunch/internal/notifier"
)

var errPushNotConfigured = apperrors.NotConfigured("web push (VAPID keys)")

func (s *Server) vapidPublicKey(w http.ResponseWriter, r *http.Request) {
	if s.vapidKey == "" {
		writeError(w, r, errPushNotConfigured)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"publicKey": s.vapidKey})
}

func (s *Server) subscribe(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Endpoint string `json:"endpoint" validate:"required,url"`
		Keys     struct {
			P256dh string `json:"p256dh" validate:"required"`
			Auth   string `json:"auth" validate:"required"`
		} `json:"keys"`
	}
	if err := s.decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	id := userID(r)
	if _, err := s.habits.User(id); err != nil {
		writeError(w, r, err)
		return
	}
	err := s.habits.Store().SavePushSubscription(models.PushSubscription{
		UserID:   id,
		Endpoint: body.Endpoint,
		P256dh:   body.Keys.P256dh,
		Auth:     body.Keys.Auth,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successPayload{Success: true})
}

func (s *Server) unsubscribe(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Endpoint string `json:"endpoint" validate:"required"`
	}
	if err := s.decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.habits.Store().DeletePushSubscription(userID(r), body.Endpoint); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successPayload{Success: true})
}

func (s *Server) notifyDueHabits(w http.ResponseWriter, r *http.Request) {
	if s.reminders == nil {
		writeError(w, r, errPushNotConfigured)
		return
	}
	res, err := s.reminders.NotifyUser(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) testPush(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Message string `json:"message" validate:"max=500"`
	}
	if err := s.decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	if s.reminders == nil {
		writeError(w, r, errPushNotConfigured)
		return
	}
	res, err := s.reminders.Broadcast(r.Context(), userID(r), notifier.TestMessage(body.Message))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) cronDueHabits(w http.ResponseWriter, r *http.Request) {
	if s.reminders == nil {
		writeError(w, r, errPushNotConfigured)
		return
	}
	res, err := s.reminders.Run(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
