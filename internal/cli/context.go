package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/julianstephens/dailypunch/internal/ai"
	"github.com/julianstephens/dailypunch/internal/backup"
	"github.com/julianstephens/dailypunch/internal/config"
	"github.com/julianstephens/dailypunch/internal/dates"
	"github.com/julianstephens/dailypunch/internal/habits"
	"github.com/julianstephens/dailypunch/internal/logger"
	"github.com/julianstephens/dailypunch/internal/models"
	"github.com/julianstephens/dailypunch/internal/notifier"
	"github.com/julianstephens/dailypunch/internal/storage"
	"github.com/julianstephens/dailypunch/internal/voice"
)

// Context is handed to every command's Run method.
type Context struct {
	Config *config.Config
	Store  storage.Provider
	Habits *habits.Service
	Out    io.Writer
	In     io.Reader
}

func NewContext(cfg *config.Config, store storage.Provider) *Context {
	return &Context{
		Config: cfg,
		Store:  store,
		Habits: habits.NewService(store, habits.WithDueThreshold(cfg.DueThresholdDays)),
		Out:    os.Stdout,
		In:     os.Stdin,
	}
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Print(args ...any) {
	fmt.Fprint(c.Out, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// UserID returns the sync key given with --user.
func (c *Context) UserID() (string, error) {
	id := strings.TrimSpace(c.Config.User)
	if id == "" {
		return "", fmt.Errorf("no user selected: pass --user or set DAILYPUNCH_USER (create one with 'dailypunch user new')")
	}
	return id, nil
}

// ResolveHabit finds the current user's habit by id or name.
func (c *Context) ResolveHabit(ref string) (string, models.Habit, error) {
	userID, err := c.UserID()
	if err != nil {
		return "", models.Habit{}, err
	}
	h, err := c.Habits.Resolve(userID, ref)
	return userID, h, err
}

// ParseDay reads a day argument. Empty means today in the user's timezone.
func (c *Context) ParseDay(userID, raw string) (dates.Date, error) {
	if strings.TrimSpace(raw) == "" {
		return c.Habits.Today(userID)
	}
	return dates.ParseInput(raw)
}

// Interactive reports whether stdin and stdout are both terminals.
func (c *Context) Interactive() bool {
	in, ok := c.In.(*os.File)
	if !ok {
		return false
	}
	out, ok := c.Out.(*os.File)
	if !ok {
		return false
	}
	return isTerminal(in.Fd()) && isTerminal(out.Fd())
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// BackupManager returns a manager for the SQLite database. PostgreSQL
// targets have no file to back up.
func (c *Context) BackupManager() (*backup.Manager, error) {
	path := c.Store.GetConfigPath()
	if storage.IsPostgres(path) {
		return nil, fmt.Errorf("backups are only supported for SQLite databases")
	}
	return backup.NewManager(path), nil
}

// PerformAutomaticBackup creates a backup and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	mgr, err := c.BackupManager()
	if err != nil {
		logger.Debug("Skipping automatic backup", "reason", err)
		return
	}
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// DateParser builds the natural language parser from the Gemini settings.
func (c *Context) DateParser() (*ai.DateParser, error) {
	g, err := ai.NewGemini(context.Background(), c.Config.Gemini.APIKey, c.Config.Gemini.Model, c.Config.Gemini.BaseURL)
	if err != nil {
		return nil, err
	}
	return ai.NewDateParser(g), nil
}

// WebPush builds the push sender from the VAPID settings.
func (c *Context) WebPush() (*notifier.WebPush, error) {
	p := c.Config.Push
	return notifier.NewWebPush(p.VAPIDPublicKey, p.VAPIDPrivateKey, p.Subject)
}

// Calls builds the call service. Telnyx and ElevenLabs are optional; a
// missing integration is logged and left nil.
func (c *Context) Calls() *voice.Service {
	var calls voice.CallControl
	t := c.Config.Telnyx
	if tx, err := voice.NewTelnyx(t.APIKey, t.ConnectionID, t.FromNumber, t.BaseURL); err != nil {
		logger.Debug("Telnyx disabled", "reason", err)
	} else {
		calls = tx
	}

	var tts voice.Synthesizer
	e := c.Config.ElevenLabs
	if el, err := voice.NewElevenLabs(e.APIKey, e.VoiceID, e.Model, e.BaseURL); err != nil {
		logger.Debug("ElevenLabs disabled", "reason", err)
	} else {
		tts = el
	}
	return voice.NewService(c.Habits, calls, tts, c.Config.PublicBaseURL)
}
