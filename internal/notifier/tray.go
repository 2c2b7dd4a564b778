package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/dailypunch/internal/constants"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// Tray forwards reminders to the desktop tray app over its local webhook.
type Tray struct {
	client *http.Client
}

type WebhookPayload struct {
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

func NewTray() *Tray {
	return &Tray{client: &http.Client{}}
}

func (t *Tray) Notify(ctx context.Context, msg Message) error {
	dir, err := TrayConfigDir()
	if err != nil {
		return err
	}

	port, secret, err := findTrayProcess(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}

	return t.post(ctx, port, secret, WebhookPayload{
		Text:       msg.Text(),
		DurationMs: constants.NotificationDurationMs,
	})
}

// TrayConfigDir returns where the tray app keeps its lockfile. A
// lockfile_dir in the tray's settings.json wins over the default.
func TrayConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	trayDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(trayDir, "settings.json"))
	if err != nil {
		return trayDir, nil
	}
	var store struct {
		Settings struct {
			LockfileDir string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if json.Unmarshal(data, &store) == nil && store.Settings.LockfileDir != "" {
		return store.Settings.LockfileDir, nil
	}
	return trayDir, nil
}

// findTrayProcess reads a "port|pid|secret" lockfile and checks that the
// pid still belongs to the tray executable.
func findTrayProcess(lockfilePath string) (port, secret string, err error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return "", "", errors.New(constants.TrayAppExecutable + " is not running")
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return "", "", errors.New("lockfile is malformed")
	}

	port = strings.TrimSpace(parts[0])
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return "", "", errors.New("invalid port number in lockfile")
	}
	if portNum < 1 || portNum > 65535 {
		return "", "", fmt.Errorf("port number %d is outside valid range (1-65535)", portNum)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return "", "", errors.New("invalid process ID in lockfile")
	}
	secret = strings.TrimSpace(parts[2])
	if secret == "" {
		return "", "", errors.New("secret in lockfile is empty")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return "", "", errors.New(constants.TrayAppExecutable + " process not running")
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayAppExecutable) {
		return "", "", fmt.Errorf("process with PID %d is not %s (is %s)", pid, constants.TrayAppExecutable, process.Executable())
	}
	return port, secret, nil
}

func (t *Tray) post(ctx context.Context, port, secret string, payload WebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "http://127.0.0.1:"+port, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Dailypunch-Secret", secret)

	res, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	msg, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, string(msg))
}
