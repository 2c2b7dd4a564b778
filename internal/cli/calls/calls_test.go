package calls

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/dailypunch/internal/cli"
	"github.com/julianstephens/dailypunch/internal/config"
	apperrors "github.com/julianstephens/dailypunch/internal/errors"
	"github.com/julianstephens/dailypunch/internal/habits"
	"github.com/julianstephens/dailypunch/internal/storage/sqlite"
)

const testUser = "CALLSCMDUSER0001"

func setup(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := cli.NewContext(&config.Config{User: testUser, DueThresholdDays: 2, PublicBaseURL: "https://example.test"}, store)
	out := &bytes.Buffer{}
	ctx.Out = out
	return ctx, out
}

func enableCalls(t *testing.T, ctx *cli.Context) {
	t.Helper()
	phone, on := "+15551234567", true
	if _, err := ctx.Habits.UpdateSettings(testUser, habits.SettingsUpdate{Phone: &phone, CallEnabled: &on}); err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}
}

func TestCallNowCmd_NotConfigured(t *testing.T) {
	ctx, _ := setup(t)
	enableCalls(t, ctx)
	if err := (&CallNowCmd{}).Run(ctx); !errors.Is(err, apperrors.ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestCallNowCmd(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`{"data":{"call_control_id":"ccid-42"}}`))
	}))
	defer srv.Close()

	ctx, out := setup(t)
	ctx.Config.Telnyx = config.Telnyx{APIKey: "key", ConnectionID: "conn", FromNumber: "+15550000000", BaseURL: srv.URL}
	enableCalls(t, ctx)

	if err := (&CallNowCmd{}).Run(ctx); err != nil {
		t.Fatalf("call now failed: %v", err)
	}
	if len(paths) != 1 || paths[0] != "/calls" {
		t.Errorf("telnyx requests = %v", paths)
	}
	if !strings.Contains(out.String(), "✓ Call started") {
		t.Errorf("unexpected output: %s", out)
	}

	out.Reset()
	if err := (&CallHistoryCmd{}).Run(ctx); err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(out.String(), "initiated") {
		t.Errorf("history should list the new call:\n%s", out)
	}
}

func TestCallHistoryCmd_Empty(t *testing.T) {
	ctx, out := setup(t)
	if err := (&CallHistoryCmd{}).Run(ctx); err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(out.String(), "No calls yet.") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestCallScriptCmd(t *testing.T) {
	ctx, out := setup(t)
	if _, err := ctx.Habits.CreateHabit(testUser, "Meditate", ""); err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}

	if err := (&CallScriptCmd{Name: "Sam"}).Run(ctx); err != nil {
		t.Fatalf("script failed: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "Hey Sam!") || !strings.Contains(got, "Meditate") {
		t.Errorf("unexpected script:\n%s", got)
	}
}

func TestCallPreviewCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("ID3-audio"))
	}))
	defer srv.Close()

	ctx, _ := setup(t)
	ctx.Config.ElevenLabs = config.ElevenLabs{APIKey: "key", BaseURL: srv.URL}
	dest := filepath.Join(t.TempDir(), "out.mp3")

	if err := (&CallPreviewCmd{Text: "hello", Out: dest}).Run(ctx); err != nil {
		t.Fatalf("preview failed: %v", err)
	}
	b, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(b) != "ID3-audio" {
		t.Errorf("audio = %q", b)
	}
}

func TestCallCheckCmd(t *testing.T) {
	ctx, out := setup(t)
	if err := (&CallCheckCmd{}).Run(ctx); err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !strings.Contains(out.String(), "Started 0 scheduled call(s).") {
		t.Errorf("unexpected output: %s", out)
	}
}
