// Package habits is the application layer over storage: ownership checks,
// idempotent completion writes and the derived streak and calendar data
// every surface (API, CLI, TUI, reminders, calls) shows.
package habits

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/dailypunch/internal/dates"
	apperrors "github.com/julianstephens/dailypunch/internal/errors"
	"github.com/julianstephens/dailypunch/internal/logger"
	"github.com/julianstephens/dailypunch/internal/models"
	"github.com/julianstephens/dailypunch/internal/storage"
	"github.com/julianstephens/dailypunch/internal/streak"
	"github.com/julianstephens/dailypunch/internal/utils"
)

// DefaultHabitName is used when a habit is created without a name.
const DefaultHabitName = "New Habit"

type Service struct {
	store        storage.Provider
	now          func() time.Time
	dueThreshold int
}

type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithDueThreshold sets how many days without a completion make a habit due.
func WithDueThreshold(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.dueThreshold = days
		}
	}
}

func NewService(store storage.Provider, opts ...Option) *Service {
	s := &Service{
		store:        store,
		now:          time.Now,
		dueThreshold: streak.DefaultDueThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Store() storage.Provider {
	return s.store
}

func (s *Service) DueThreshold() int {
	return s.dueThreshold
}

// Today returns the current calendar day in the user's timezone. Unknown
// users and unreadable zones fall back to the server's local day.
func (s *Service) Today(userID string) (dates.Date, error) {
	tz := ""
	u, err := s.store.GetUser(userID)
	switch {
	case err == nil:
		tz = u.Timezone
	case !errors.Is(err, apperrors.ErrNotFound):
		return dates.Date{}, err
	}
	return s.todayIn(tz), nil
}

func (s *Service) todayIn(tz string) dates.Date {
	t, err := utils.InTimezone(s.now(), tz)
	if err != nil {
		logger.Warn("Ignoring invalid timezone", "timezone", tz, "error", err)
		return dates.FromTime(s.now())
	}
	return dates.FromTime(t)
}

// owned loads a live habit and hides habits of other users.
func (s *Service) owned(userID, habitID string) (models.Habit, error) {
	if strings.TrimSpace(habitID) == "" {
		return models.Habit{}, apperrors.Invalid("habit id is required")
	}
	h, err := s.store.GetHabit(habitID)
	if err != nil {
		return models.Habit{}, err
	}
	if h.UserID != userID {
		return models.Habit{}, apperrors.NotFound("habit %s", habitID)
	}
	return h, nil
}

func (s *Service) CreateHabit(userID, name, theme string) (models.Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultHabitName
	}
	if _, err := s.store.EnsureUser(userID); err != nil {
		return models.Habit{}, err
	}

	h := models.Habit{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Theme:     models.ThemeOrDefault(theme),
		CreatedAt: s.now(),
	}
	if err := s.store.AddHabit(h); err != nil {
		return models.Habit{}, err
	}
	logger.Debug("Habit created", "user", userID, "habit", h.ID, "name", h.Name)
	return h, nil
}

func (s *Service) Get(userID, habitID string) (models.Habit, error) {
	return s.owned(userID, habitID)
}

// List returns the user's habits in creation order.
func (s *Service) List(userID string, includeArchived bool) ([]models.Habit, error) {
	return s.store.GetHabitsForUser(userID, includeArchived, false)
}

// Resolve finds a habit by id or, failing that, by case-insensitive name.
func (s *Service) Resolve(userID, ref string) (models.Habit, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Habit{}, apperrors.Invalid("habit id or name is required")
	}
	if h, err := s.owned(userID, ref); err == nil {
		return h, nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return models.Habit{}, err
	}
	return s.FindByName(userID, ref)
}

// FindByName matches habit names ignoring case and surrounding space.
func (s *Service) FindByName(userID, name string) (models.Habit, error) {
	habits, err := s.store.GetHabitsForUser(userID, true, false)
	if err != nil {
		return models.Habit{}, err
	}
	name = strings.TrimSpace(name)
	for _, h := range habits {
		if strings.EqualFold(h.Name, name) {
			return h, nil
		}
	}
	return models.Habit{}, apperrors.NotFound("habit %q", name)
}

func (s *Service) Rename(userID, habitID, name string) (models.Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Habit{}, apperrors.Invalid("habit name is required")
	}
	h, err := s.owned(userID, habitID)
	if err != nil {
		return models.Habit{}, err
	}
	h.Name = name
	return h, s.store.UpdateHabit(h)
}

// SetTheme rejects unknown themes, unlike CreateHabit which coerces them.
func (s *Service) SetTheme(userID, habitID, theme string) (models.Habit, error) {
	t, ok := models.ParseTheme(theme)
	if !ok {
		return models.Habit{}, apperrors.Invalid("invalid theme %q", theme)
	}
	h, err := s.owned(userID, habitID)
	if err != nil {
		return models.Habit{}, err
	}
	h.Theme = t
	return h, s.store.UpdateHabit(h)
}

// UpdateDetails changes only the fields that are non-nil.
func (s *Service) UpdateDetails(userID, habitID string, description, emoji *string) (models.Habit, error) {
	h, err := s.owned(userID, habitID)
	if err != nil {
		return models.Habit{}, err
	}
	if description != nil {
		h.Description = *description
	}
	if emoji != nil {
		h.Emoji = *emoji
	}
	return h, s.store.UpdateHabit(h)
}

func (s *Service) Archive(userID, habitID string) error {
	if _, err := s.owned(userID, habitID); err != nil {
		return err
	}
	return s.store.ArchiveHabit(habitID)
}

func (s *Service) Unarchive(userID, habitID string) error {
	if _, err := s.owned(userID, habitID); err != nil {
		return err
	}
	return s.store.UnarchiveHabit(habitID)
}

// Delete soft-deletes the habit. Its completions stay in storage so
// Restore brings the history back.
func (s *Service) Delete(userID, habitID string) error {
	if _, err := s.owned(userID, habitID); err != nil {
		return err
	}
	return s.store.DeleteHabit(habitID)
}

func (s *Service) Restore(userID, habitID string) error {
	all, err := s.store.GetHabitsForUser(userID, true, true)
	if err != nil {
		return err
	}
	for _, h := range all {
		if h.ID == habitID {
			return s.store.RestoreHabit(habitID)
		}
	}
	return apperrors.NotFound("habit %s", habitID)
}

// Deleted lists the user's soft-deleted habits.
func (s *Service) Deleted(userID string) ([]models.Habit, error) {
	all, err := s.store.GetHabitsForUser(userID, true, true)
	if err != nil {
		return nil, err
	}
	var out []models.Habit
	for _, h := range all {
		if h.DeletedAt != nil {
			out = append(out, h)
		}
	}
	return out, nil
}
