package notifier

import (
	"bytes"
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/dailypunch/internal/constants"
	"github.com/julianstephens/dailypunch/internal/models"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func TestDueHabitsMessage(t *testing.T) {
	msg := DueHabitsMessage([]string{"Read", "Walk"}, 2)
	if msg.Title != "Habits Due" {
		t.Errorf("Title = %q", msg.Title)
	}
	want := "You haven't completed these habits in 2+ days: Read, Walk"
	if msg.Body != want {
		t.Errorf("Body = %q, want %q", msg.Body, want)
	}
	if msg.Tag != constants.PushTagDue || msg.Data.URL != "/" || msg.Data.Test {
		t.Errorf("unexpected metadata: %+v", msg)
	}
}

func TestTestMessage(t *testing.T) {
	msg := TestMessage("")
	if msg.Body == "" || !msg.Data.Test || msg.Tag != constants.PushTagTest {
		t.Errorf("unexpected test message: %+v", msg)
	}
	if got := TestMessage("hi").Body; got != "hi" {
		t.Errorf("Body = %q, want hi", got)
	}

	raw, err := msg.payload()
	if err != nil {
		t.Fatalf("payload failed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	data, _ := decoded["data"].(map[string]any)
	if data["test"] != true {
		t.Errorf("data.test = %v, want true", data["test"])
	}
}

func TestNewWebPushRequiresKeys(t *testing.T) {
	if _, err := NewWebPush("", "", "mailto:a@b.c"); err == nil {
		t.Fatal("expected error without VAPID keys")
	}
}

func testSubscription(t *testing.T, endpoint string) models.PushSubscription {
	t.Helper()
	key, err := ecdh.P256().GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	auth := make([]byte, 16)
	if _, err := rand.Read(auth); err != nil {
		t.Fatal(err)
	}
	return models.PushSubscription{
		UserID:   "USER",
		Endpoint: endpoint,
		P256dh:   base64.RawURLEncoding.EncodeToString(key.PublicKey().Bytes()),
		Auth:     base64.RawURLEncoding.EncodeToString(auth),
	}
}

func TestWebPushSend(t *testing.T) {
	pub, priv, err := GenerateVAPIDKeys()
	if err != nil {
		t.Fatalf("GenerateVAPIDKeys failed: %v", err)
	}

	tests := []struct {
		name     string
		status   int
		wantErr  bool
		wantGone bool
	}{
		{"created", http.StatusCreated, false, false},
		{"gone", http.StatusGone, true, true},
		{"not found", http.StatusNotFound, true, true},
		{"rate limited", http.StatusTooManyRequests, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotAuth, gotEncoding string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				gotEncoding = r.Header.Get("Content-Encoding")
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			wp, err := NewWebPush(pub, priv, "mailto:admin@example.com", WithHTTPClient(srv.Client()))
			if err != nil {
				t.Fatalf("NewWebPush failed: %v", err)
			}
			err = wp.Send(context.Background(), testSubscription(t, srv.URL+"/push/abc"), DueHabitsMessage([]string{"Read"}, 2))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Send err = %v, wantErr %v", err, tt.wantErr)
			}
			if errors.Is(err, ErrSubscriptionGone) != tt.wantGone {
				t.Errorf("ErrSubscriptionGone = %v, want %v", !tt.wantGone, tt.wantGone)
			}
			if !strings.HasPrefix(gotAuth, "vapid ") {
				t.Errorf("Authorization = %q, want vapid scheme", gotAuth)
			}
			if gotEncoding != "aes128gcm" {
				t.Errorf("Content-Encoding = %q", gotEncoding)
			}
		})
	}
}

func TestRecorder(t *testing.T) {
	var buf bytes.Buffer
	r := NewRecorder(&buf)
	sub := models.PushSubscription{Endpoint: "https://push.example/1"}
	if err := r.Send(context.Background(), sub, TestMessage("ping")); err != nil {
		t.Fatal(err)
	}
	sent := r.Sent()
	if len(sent) != 1 || sent[0].Message.Body != "ping" {
		t.Fatalf("unexpected recorded messages: %+v", sent)
	}
	if !strings.Contains(buf.String(), "Test Notification: ping -> https://push.example/1") {
		t.Errorf("unexpected dry run output: %q", buf.String())
	}
}

func TestTrayConfigDir(t *testing.T) {
	tempDir := t.TempDir()
	old := userConfigDirFunc
	defer func() { userConfigDirFunc = old }()
	userConfigDirFunc = func() (string, error) { return tempDir, nil }

	want := filepath.Join(tempDir, constants.TrayAppIdentifier)
	dir, err := TrayConfigDir()
	if err != nil || dir != want {
		t.Fatalf("TrayConfigDir = %q, %v; want %q", dir, err, want)
	}

	if err := os.MkdirAll(want, 0755); err != nil {
		t.Fatal(err)
	}
	settings := `{"settings": {"lockfile_dir": "/custom/lock/dir"}}`
	if err := os.WriteFile(filepath.Join(want, "settings.json"), []byte(settings), 0644); err != nil {
		t.Fatal(err)
	}
	dir, err = TrayConfigDir()
	if err != nil || dir != "/custom/lock/dir" {
		t.Errorf("TrayConfigDir = %q, %v; want custom dir", dir, err)
	}
}

func TestFindTrayProcess(t *testing.T) {
	old := findProcessFunc
	defer func() { findProcessFunc = old }()
	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: constants.TrayAppExecutable}, nil
	}

	lockfile := filepath.Join(t.TempDir(), constants.NotifierLockfileName)

	if _, _, err := findTrayProcess(lockfile); err == nil {
		t.Error("expected error for missing lockfile")
	}

	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{"two parts", "8080|12345", "malformed"},
		{"garbage", "invalid", "malformed"},
		{"empty secret", "8080|12345|", "secret"},
		{"empty port", "|12345|s3cret", "port"},
		{"port out of range", "99999|12345|s3cret", "range"},
		{"bad pid", "8080|abc|s3cret", "process ID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := os.WriteFile(lockfile, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, _, err := findTrayProcess(lockfile)
			if err == nil || !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("err = %v, want mention of %q", err, tt.errPart)
			}
		})
	}

	if err := os.WriteFile(lockfile, []byte("8080|12345|s3cret\n"), 0644); err != nil {
		t.Fatal(err)
	}

	findProcessFunc = func(pid int) (ps.Process, error) { return nil, nil }
	if _, _, err := findTrayProcess(lockfile); err == nil {
		t.Error("expected error for missing process")
	}

	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: "other-app"}, nil
	}
	if _, _, err := findTrayProcess(lockfile); err == nil {
		t.Error("expected error for wrong executable")
	}

	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: constants.TrayAppExecutable}, nil
	}
	port, secret, err := findTrayProcess(lockfile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if port != "8080" || secret != "s3cret" {
		t.Errorf("got port=%q secret=%q", port, secret)
	}
}

func TestTrayPost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Dailypunch-Secret") != "test-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Unauthorized"))
			return
		}
		var p WebhookPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.Text == "fail" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	parts := strings.Split(srv.URL, ":")
	port := parts[len(parts)-1]
	tray := NewTray()
	ctx := context.Background()

	if err := tray.post(ctx, port, "test-secret", WebhookPayload{Text: "hello"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := tray.post(ctx, port, "wrong", WebhookPayload{Text: "hello"}); err == nil {
		t.Error("expected error for wrong secret")
	}
	if err := tray.post(ctx, port, "test-secret", WebhookPayload{Text: "fail"}); err == nil {
		t.Error("expected error for server failure")
	}
}
