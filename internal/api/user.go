package api

import (
	"net/http"

	"github.com/julianstephens/dailypunch/internal/habits"
	"github.com/julianstephens/dailypunch/internal/models"
)

type settingsPayload struct {
	Phone       *string `json:"phone"`
	CallEnabled bool    `json:"callEnabled"`
	CallTime    *string `json:"callTime"`
	Timezone    *string `json:"timezone"`
}

func toSettings(u models.User) settingsPayload {
	return settingsPayload{
		Phone:       optional(u.Phone),
		CallEnabled: u.CallEnabled,
		CallTime:    optional(u.CallTime),
		Timezone:    optional(u.Timezone),
	}
}

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	u, err := s.habits.User(userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettings(u))
}

func (s *Server) updateSettings(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Phone       *string `json:"phone" validate:"omitnil,max=20"`
		CallEnabled *bool   `json:"callEnabled"`
		CallTime    *string `json:"callTime" validate:"omitnil,max=5"`
		Timezone    *string `json:"timezone" validate:"omitnil,max=64"`
	}
	if err := s.decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	u, err := s.habits.UpdateSettings(userID(r), habits.SettingsUpdate{
		Phone:       body.Phone,
		CallEnabled: body.CallEnabled,
		CallTime:    body.CallTime,
		Timezone:    body.Timezone,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettings(u))
}
