package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/julianstephens/dailypunch/internal/dates"
	apperrors "github.com/julianstephens/dailypunch/internal/errors"
	"github.com/julianstephens/dailypunch/internal/habits"
	"github.com/julianstephens/dailypunch/internal/streak"
)

type completionDetail struct {
	Day   string  `json:"day"`
	Notes *string `json:"notes"`
}

type habitPayload struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	Description       *string            `json:"description"`
	Theme             string             `json:"theme"`
	Emoji             *string            `json:"emoji"`
	Created           int64              `json:"created"`
	Completed         []string           `json:"completed"`
	CompletionDetails []completionDetail `json:"completionDetails"`
	CurrentStreak     int                `json:"currentStreak"`
	LongestStreak     int                `json:"longestStreak"`
	Due               bool               `json:"due"`
	Warnings          []string           `json:"warnings"`
}

type habitsPayload struct {
	ID      string         `json:"id"`
	Created int64          `json:"created"`
	Habits  []habitPayload `json:"habits"`
}

type successPayload struct {
	Success bool `json:"success"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toHabitPayload(sum habits.Summary) habitPayload {
	h := sum.Habit
	p := habitPayload{
		ID:                h.ID,
		Name:              h.Name,
		Description:       optional(h.Description),
		Theme:             string(h.Theme),
		Emoji:             optional(h.Emoji),
		Created:           h.CreatedAt.UnixMilli(),
		Completed:         make([]string, 0, len(sum.Completions)),
		CompletionDetails: make([]completionDetail, 0, len(sum.Completions)),
		CurrentStreak:     sum.Streak.Current,
		LongestStreak:     sum.Streak.Longest,
		Due:               sum.Due,
		Warnings:          make([]string, 0, len(sum.Warnings)),
	}
	for _, c := range sum.Completions {
		p.Completed = append(p.Completed, c.Day)
		p.CompletionDetails = append(p.CompletionDetails, completionDetail{Day: c.Day, Notes: optional(c.Notes)})
	}
	for _, w := range sum.Warnings {
		p.Warnings = append(p.Warnings, w.Error())
	}
	return p
}

// writeHabits answers with the user's full habit list, the shape every
// habit mutation returns.
func (s *Server) writeHabits(w http.ResponseWriter, r *http.Request) {
	id := userID(r)
	u, err := s.habits.User(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sums, err := s.habits.Summaries(id, false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := habitsPayload{
		ID:      u.ID,
		Created: u.CreatedAt.UnixMilli(),
		Habits:  make([]habitPayload, 0, len(sums)),
	}
	for _, sum := range sums {
		out.Habits = append(out.Habits, toHabitPayload(sum))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listHabits(w http.ResponseWriter, r *http.Request) {
	s.writeHabits(w, r)
}

func (s *Server) createHabit(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name  string `json:"name" validate:"max=200"`
		Theme string `json:"theme"`
	}
	if err := s.decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := s.habits.CreateHabit(userID(r), body.Name, body.Theme); err != nil {
		writeError(w, r, err)
		return
	}
	s.writeHabits(w, r)
}

func (s *Server) deleteHabit(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID string `json:"id" validate:"required"`
	}
	if err := s.decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.habits.Delete(userID(r), body.ID); err != nil {
		writeError(w, r, err)
		return
	}
	s.writeHabits(w, r)
}

func (s *Server) renameHabit(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID   string `json:"id" validate:"required"`
		Name string `json:"name" validate:"required,max=200"`
	}
	if err := s.decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := s.habits.Rename(userID(r), body.ID, body.Name); err != nil {
		writeError(w, r, err)
		return
	}
	s.writeHabits(w, r)
}

func (s *Server) updateTheme(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID    string `json:"id" validate:"required"`
		Theme string `json:"theme" validate:"required"`
	}
	if err := s.decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := s.habits.SetTheme(userID(r), body.ID, body.Theme); err != nil {
		writeError(w, r, err)
		return
	}
	s.writeHabits(w, r)
}

func (s *Server) updateDetails(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID          string  `json:"id" validate:"required"`
		Description *string `json:"description" validate:"omitnil,max=1000"`
		Emoji       *string `json:"emoji" validate:"omitnil,max=16"`
	}
	if err := s.decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := s.habits.UpdateDetails(userID(r), body.ID, body.Description, body.Emoji); err != nil {
		writeError(w, r, err)
		return
	}
	s.writeHabits(w, r)
}

type dayRequest struct {
	ID  string `json:"id" validate:"required"`
	Day string `json:"day" validate:"required"`
}

func parseDay(raw string) (dates.Date, error) {
	d, err := dates.ParseInput(raw)
	if err != nil {
		return dates.Date{}, apperrors.Invalid("%v", err)
	}
	return d, nil
}

func (s *Server) logHabit(w http.ResponseWriter, r *http.Request) {
	var body dayRequest
	if err := s.decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	day, err := parseDay(body.Day)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := s.habits.Log(userID(r), body.ID, day); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successPayload{Success: true})
}

func (s *Server) unlogHabit(w http.ResponseWriter, r *http.Request) {
	var body dayRequest
	if err := s.decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	day, err := parseDay(body.Day)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := s.habits.Unlog(userID(r), body.ID, day); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successPayload{Success: true})
}

func (s *Server) addNotes(w http.ResponseWriter, r *http.Request) {
	var body struct {
		HabitID string `json:"habitId" validate:"required"`
		Day     string `json:"day" validate:"required"`
		Notes   string `json:"notes" validate:"max=2000"`
	}
	if err := s.decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	day, err := parseDay(body.Day)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.habits.AddNotes(userID(r), body.HabitID, day, body.Notes); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successPayload{Success: true})
}

func (s *Server) logNatural(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID          string `json:"id" validate:"required"`
		NaturalDate string `json:"naturalDate" validate:"required,max=500"`
	}
	if err := s.decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	if s.parser == nil {
		writeError(w, r, apperrors.NotConfigured("Gemini"))
		return
	}

	id := userID(r)
	if _, err := s.habits.Get(id, body.ID); err != nil {
		writeError(w, r, err)
		return
	}
	today, err := s.habits.Today(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	days, err := s.parser.ParseDates(r.Context(), body.NaturalDate, today)
	if err != nil {
		writeError(w, r, err)
		return
	}
	added, err := s.habits.LogMany(id, body.ID, days)
	if err != nil {
		writeError(w, r, err)
		return
	}

	logged := make([]string, len(days))
	for i, d := range days {
		logged[i] = d.Format()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"dates":   logged,
		"added":   added,
	})
}

func (s *Server) processVoice(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Transcript string `json:"transcript" validate:"required,max=2000"`
	}
	if err := s.decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	if s.parser == nil {
		writeError(w, r, apperrors.NotConfigured("Gemini"))
		return
	}

	id := userID(r)
	list, err := s.habits.List(id, false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	names := make([]string, len(list))
	for i, h := range list {
		names[i] = h.Name
	}
	today, err := s.habits.Today(id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.parser.ProcessTranscript(r.Context(), body.Transcript, names, today)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "result": result})
}

type streakPayload struct {
	HabitID       string      `json:"habitId"`
	CurrentStreak int         `json:"currentStreak"`
	LongestStreak int         `json:"longestStreak"`
	Due           bool        `json:"due"`
	DaysSinceLast int         `json:"daysSinceLast"`
	LastCompleted *dates.Date `json:"lastCompleted"`
	Today         dates.Date  `json:"today"`
}

func (s *Server) habitStreak(w http.ResponseWriter, r *http.Request) {
	sum, err := s.habits.Summary(userID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := streakPayload{
		HabitID:       sum.Habit.ID,
		CurrentStreak: sum.Streak.Current,
		LongestStreak: sum.Streak.Longest,
		Due:           sum.Due,
		DaysSinceLast: sum.DaysSinceLast,
		Today:         sum.Today,
	}
	if last, ok := streak.Last(sum.Days); ok {
		out.LastCompleted = &last
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) habitCalendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := streak.ParseResolution(q.Get("view"))
	if err != nil {
		writeError(w, r, apperrors.Invalid("%v", err))
		return
	}
	offset := 0
	if raw := q.Get("offset"); raw != "" {
		if offset, err = strconv.Atoi(raw); err != nil {
			writeError(w, r, apperrors.Invalid("offset must be an integer"))
			return
		}
	}

	view, err := s.habits.View(userID(r), chi.URLParam(r, "id"), res, offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
