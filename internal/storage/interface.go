package storage

import "github.com/julianstephens/dailypunch/internal/models"

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error
	Migrate(logFn func(string)) (int, error)
	PendingMigrations() (int, error)

	// Users
	EnsureUser(id string) (models.User, error)
	GetUser(id string) (models.User, error)
	SaveUser(models.User) error
	GetAllUsers() ([]models.User, error)
	GetCallEnabledUsers() ([]models.User, error)

	// Habits
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetHabitByName(userID, name string) (models.Habit, error)
	GetHabitsForUser(userID string, includeArchived, includeDeleted bool) ([]models.Habit, error)
	GetAllHabits(includeArchived, includeDeleted bool) ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	ArchiveHabit(id string) error
	UnarchiveHabit(id string) error
	DeleteHabit(id string) error
	RestoreHabit(id string) error

	// Completions
	// AddCompletion reports whether a row was inserted. A second insert for
	// the same (habit, day) text is a no-op.
	AddCompletion(models.Completion) (bool, error)
	GetCompletionsForHabit(habitID string) ([]models.Completion, error)
	GetCompletionsForUser(userID string) ([]models.Completion, error)
	GetAllCompletions() ([]models.Completion, error)
	UpdateCompletionNotes(habitID, day, notes string) error
	UpdateCompletionDay(id, day string) error
	DeleteCompletion(habitID, day string) error
	DeleteCompletionByID(id string) error

	// Push subscriptions
	SavePushSubscription(models.PushSubscription) error
	DeletePushSubscription(userID, endpoint string) error
	GetPushSubscriptions(userID string) ([]models.PushSubscription, error)
	GetSubscribedUserIDs() ([]string, error)

	// Call logs
	AddCallLog(models.CallLog) error
	UpdateCallLog(models.CallLog) error
	GetCallLog(id string) (models.CallLog, error)
	GetCallLogs(userID string, limit int) ([]models.CallLog, error)

	// Utils
	GetConfigPath() string
}
