package sqlite

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/julianstephens/dailypunch/internal/errors"
	"github.com/julianstephens/dailypunch/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedHabit(t *testing.T, store *Store, userID, id, name string) models.Habit {
	t.Helper()
	if _, err := store.EnsureUser(userID); err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}
	h := models.Habit{ID: id, UserID: userID, Name: name, Theme: models.ThemeBlue, CreatedAt: time.Now()}
	if err := store.AddHabit(h); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}
	return h
}

func TestInitCreatesTables(t *testing.T) {
	store := setupTestStore(t)
	for _, table := range []string{"users", "habits", "habit_completions", "push_subscriptions", "call_logs", "schema_version"} {
		ok, err := store.tableExists(table)
		if err != nil {
			t.Fatalf("tableExists(%s): %v", table, err)
		}
		if !ok {
			t.Errorf("table %s missing after Init", table)
		}
	}

	pending, err := store.PendingMigrations()
	if err != nil {
		t.Fatalf("PendingMigrations failed: %v", err)
	}
	if pending != 0 {
		t.Errorf("PendingMigrations() = %d, want 0", pending)
	}
}

func TestLoadRequiresInit(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); err == nil {
		t.Fatal("expected Load to fail before Init")
	}
}

func TestLoadAfterInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	first := NewStore(path)
	if err := first.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	first.Close()

	second := NewStore(path)
	if err := second.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer second.Close()
	if second.GetConfigPath() != path {
		t.Errorf("GetConfigPath() = %q, want %q", second.GetConfigPath(), path)
	}
}

func TestUsers(t *testing.T) {
	store := setupTestStore(t)

	u, err := store.EnsureUser("ABCDEF0123456789")
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}
	if u.CallEnabled || u.Phone != "" {
		t.Errorf("new user should be empty, got %+v", u)
	}

	u.Phone = "+15550100"
	u.CallEnabled = true
	u.CallTime = "08:30"
	u.Timezone = "America/New_York"
	if err := store.SaveUser(u); err != nil {
		t.Fatalf("SaveUser failed: %v", err)
	}

	// EnsureUser must not reset an existing user.
	again, err := store.EnsureUser(u.ID)
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}
	if again.Phone != "+15550100" || !again.CallEnabled || again.CallTime != "08:30" || again.Timezone != "America/New_York" {
		t.Errorf("EnsureUser overwrote user: %+v", again)
	}

	if _, err := store.EnsureUser("OTHER"); err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}
	enabled, err := store.GetCallEnabledUsers()
	if err != nil {
		t.Fatalf("GetCallEnabledUsers failed: %v", err)
	}
	if len(enabled) != 1 || enabled[0].ID != u.ID {
		t.Errorf("GetCallEnabledUsers() = %+v", enabled)
	}

	all, err := store.GetAllUsers()
	if err != nil {
		t.Fatalf("GetAllUsers failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("GetAllUsers() returned %d users, want 2", len(all))
	}

	if _, err := store.GetUser("nobody"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("GetUser(nobody) error = %v, want ErrNotFound", err)
	}
}

func TestHabitLifecycle(t *testing.T) {
	store := setupTestStore(t)
	h := seedHabit(t, store, "U1", "h1", "Read")

	got, err := store.GetHabit(h.ID)
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	if got.Name != "Read" || got.Theme != models.ThemeBlue {
		t.Errorf("GetHabit() = %+v", got)
	}

	byName, err := store.GetHabitByName("U1", "Read")
	if err != nil || byName.ID != h.ID {
		t.Fatalf("GetHabitByName() = %+v, %v", byName, err)
	}

	if err := store.ArchiveHabit(h.ID); err != nil {
		t.Fatalf("ArchiveHabit failed: %v", err)
	}
	if err := store.ArchiveHabit(h.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("second ArchiveHabit error = %v, want ErrNotFound", err)
	}
	active, _ := store.GetHabitsForUser("U1", false, false)
	if len(active) != 0 {
		t.Errorf("archived habit should be hidden, got %d", len(active))
	}
	withArchived, _ := store.GetHabitsForUser("U1", true, false)
	if len(withArchived) != 1 || withArchived[0].ArchivedAt == nil {
		t.Errorf("GetHabitsForUser(includeArchived) = %+v", withArchived)
	}
	if err := store.UnarchiveHabit(h.ID); err != nil {
		t.Fatalf("UnarchiveHabit failed: %v", err)
	}

	if err := store.DeleteHabit(h.ID); err != nil {
		t.Fatalf("DeleteHabit failed: %v", err)
	}
	if _, err := store.GetHabit(h.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("GetHabit after delete error = %v, want ErrNotFound", err)
	}
	deleted, _ := store.GetAllHabits(true, true)
	if len(deleted) != 1 || deleted[0].DeletedAt == nil {
		t.Errorf("GetAllHabits(includeDeleted) = %+v", deleted)
	}
	if err := store.RestoreHabit(h.ID); err != nil {
		t.Fatalf("RestoreHabit failed: %v", err)
	}
	if err := store.RestoreHabit(h.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("second RestoreHabit error = %v, want ErrNotFound", err)
	}
}

func TestUpdateHabit(t *testing.T) {
	store := setupTestStore(t)
	h := seedHabit(t, store, "U1", "h1", "Read")
	h.Name = "Read more"
	h.Emoji = "📚"
	h.Theme = models.ThemeGreen
	if err := store.UpdateHabit(h); err != nil {
		t.Fatalf("UpdateHabit failed: %v", err)
	}
	got, _ := store.GetHabit(h.ID)
	if got.Name != "Read more" || got.Emoji != "📚" || got.Theme != models.ThemeGreen {
		t.Errorf("UpdateHabit did not persist: %+v", got)
	}
}

func TestCompletions(t *testing.T) {
	store := setupTestStore(t)
	h := seedHabit(t, store, "U1", "h1", "Read")

	inserted, err := store.AddCompletion(models.Completion{ID: "c1", HabitID: h.ID, Day: "08 Jan 2026"})
	if err != nil || !inserted {
		t.Fatalf("AddCompletion() = %v, %v", inserted, err)
	}
	inserted, err = store.AddCompletion(models.Completion{ID: "c2", HabitID: h.ID, Day: "08 Jan 2026"})
	if err != nil {
		t.Fatalf("AddCompletion duplicate failed: %v", err)
	}
	if inserted {
		t.Error("duplicate AddCompletion should not insert")
	}

	if err := store.UpdateCompletionNotes(h.ID, "08 Jan 2026", "two chapters"); err != nil {
		t.Fatalf("UpdateCompletionNotes failed: %v", err)
	}
	if err := store.UpdateCompletionNotes(h.ID, "09 Jan 2026", "x"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("UpdateCompletionNotes on missing day error = %v, want ErrNotFound", err)
	}

	list, err := store.GetCompletionsForHabit(h.ID)
	if err != nil {
		t.Fatalf("GetCompletionsForHabit failed: %v", err)
	}
	if len(list) != 1 || list[0].Notes != "two chapters" {
		t.Fatalf("GetCompletionsForHabit() = %+v", list)
	}

	if err := store.UpdateCompletionDay("c1", "Thu, 8 Jan, 2026"); err != nil {
		t.Fatalf("UpdateCompletionDay failed: %v", err)
	}

	forUser, _ := store.GetCompletionsForUser("U1")
	if len(forUser) != 1 || forUser[0].Day != "Thu, 8 Jan, 2026" {
		t.Errorf("GetCompletionsForUser() = %+v", forUser)
	}

	if err := store.DeleteCompletion(h.ID, "Thu, 8 Jan, 2026"); err != nil {
		t.Fatalf("DeleteCompletion failed: %v", err)
	}
	if err := store.DeleteCompletion(h.ID, "Thu, 8 Jan, 2026"); err != nil {
		t.Errorf("DeleteCompletion should be idempotent: %v", err)
	}
	all, _ := store.GetAllCompletions()
	if len(all) != 0 {
		t.Errorf("GetAllCompletions() = %+v, want empty", all)
	}
}

func TestCompletionsHiddenForDeletedHabit(t *testing.T) {
	store := setupTestStore(t)
	h := seedHabit(t, store, "U1", "h1", "Read")
	if _, err := store.AddCompletion(models.Completion{ID: "c1", HabitID: h.ID, Day: "08 Jan 2026"}); err != nil {
		t.Fatal(err)
	}
	if err := store.DeleteHabit(h.ID); err != nil {
		t.Fatal(err)
	}
	list, _ := store.GetCompletionsForUser("U1")
	if len(list) != 0 {
		t.Errorf("completions of deleted habits should be hidden, got %d", len(list))
	}
}

func TestPushSubscriptions(t *testing.T) {
	store := setupTestStore(t)
	store.EnsureUser("U1")
	store.EnsureUser("U2")

	sub := models.PushSubscription{UserID: "U1", Endpoint: "https://push.example/1", P256dh: "p", Auth: "a"}
	if err := store.SavePushSubscription(sub); err != nil {
		t.Fatalf("SavePushSubscription failed: %v", err)
	}

	// Same endpoint under another user moves over.
	sub.UserID = "U2"
	sub.Auth = "b"
	if err := store.SavePushSubscription(sub); err != nil {
		t.Fatalf("SavePushSubscription failed: %v", err)
	}
	u1, _ := store.GetPushSubscriptions("U1")
	u2, _ := store.GetPushSubscriptions("U2")
	if len(u1) != 0 || len(u2) != 1 || u2[0].Auth != "b" {
		t.Errorf("subscriptions U1=%+v U2=%+v", u1, u2)
	}

	ids, err := store.GetSubscribedUserIDs()
	if err != nil || len(ids) != 1 || ids[0] != "U2" {
		t.Errorf("GetSubscribedUserIDs() = %v, %v", ids, err)
	}

	if err := store.DeletePushSubscription("U2", sub.Endpoint); err != nil {
		t.Fatalf("DeletePushSubscription failed: %v", err)
	}
	u2, _ = store.GetPushSubscriptions("U2")
	if len(u2) != 0 {
		t.Errorf("subscription not deleted: %+v", u2)
	}
}

func TestCallLogs(t *testing.T) {
	store := setupTestStore(t)
	store.EnsureUser("U1")

	start := time.Date(2026, 1, 8, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"l1", "l2"} {
		l := models.CallLog{ID: id, UserID: "U1", Status: models.CallStatusInitiated, StartedAt: start.Add(time.Duration(i) * time.Hour)}
		if err := store.AddCallLog(l); err != nil {
			t.Fatalf("AddCallLog failed: %v", err)
		}
	}

	l, err := store.GetCallLog("l1")
	if err != nil {
		t.Fatalf("GetCallLog failed: %v", err)
	}
	end := start.Add(90 * time.Second)
	dur := 90
	l.Status = models.CallStatusCompleted
	l.EndedAt = &end
	l.DurationSecs = &dur
	if err := store.UpdateCallLog(l); err != nil {
		t.Fatalf("UpdateCallLog failed: %v", err)
	}

	logs, err := store.GetCallLogs("U1", 10)
	if err != nil {
		t.Fatalf("GetCallLogs failed: %v", err)
	}
	if len(logs) != 2 || logs[0].ID != "l2" {
		t.Fatalf("GetCallLogs() should be newest first, got %+v", logs)
	}
	if logs[1].DurationSecs == nil || *logs[1].DurationSecs != 90 || logs[1].Status != models.CallStatusCompleted {
		t.Errorf("updated log = %+v", logs[1])
	}

	limited, _ := store.GetCallLogs("U1", 1)
	if len(limited) != 1 {
		t.Errorf("GetCallLogs(limit 1) returned %d", len(limited))
	}

	if err := store.UpdateCallLog(models.CallLog{ID: "missing", Status: models.CallStatusFailed}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("UpdateCallLog(missing) error = %v, want ErrNotFound", err)
	}
}
