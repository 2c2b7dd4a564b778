// Package config holds the global flags shared by every command and the
// TOML loader that feeds them from ~/.config/dailypunch/config.toml.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/alecthomas/kong"

	"github.com/julianstephens/dailypunch/internal/constants"
	"github.com/julianstephens/dailypunch/internal/keyring"
	"github.com/julianstephens/dailypunch/internal/storage"
)

type Gemini struct {
	APIKey  string `name:"api-key" help:"Gemini API key. Falls back to the OS keyring."`
	Model   string `name:"model" default:"gemini-2.0-flash" help:"Gemini model used for date and transcript parsing."`
	BaseURL string `name:"base-url" hidden:"" help:"Override the Gemini API endpoint."`
}

type Telnyx struct {
	APIKey       string `name:"api-key" help:"Telnyx API key. Falls back to the OS keyring."`
	ConnectionID string `name:"connection-id" help:"Telnyx call control connection id."`
	FromNumber   string `name:"from-number" help:"Caller id for check-in calls (E.164)."`
	BaseURL      string `name:"base-url" hidden:"" default:"https://api.telnyx.com/v2"`
}

type ElevenLabs struct {
	APIKey  string `name:"api-key" help:"ElevenLabs API key. Falls back to the OS keyring."`
	VoiceID string `name:"voice-id" default:"21m00Tcm4TlvDq8ikWAM" help:"ElevenLabs voice id."`
	Model   string `name:"model" default:"eleven_turbo_v2_5" help:"ElevenLabs model id."`
	BaseURL string `name:"base-url" hidden:"" default:"https://api.elevenlabs.io/v1"`
}

type Push struct {
	VAPIDPublicKey  string `name:"vapid-public-key" help:"VAPID public key handed to browsers."`
	VAPIDPrivateKey string `name:"vapid-private-key" help:"VAPID private key. Falls back to the OS keyring."`
	Subject         string `name:"subject" default:"mailto:admin@dailypunch.app" help:"VAPID subject (mailto: or https: URL)."`
}

// Config is embedded in the root CLI. Every flag also reads
// DAILYPUNCH_<FLAG_NAME> and the matching key of the config file.
type Config struct {
	ConfigFile kong.ConfigFlag `name:"config" help:"Path to a TOML config file." placeholder:"PATH"`
	DB         string          `name:"db" help:"SQLite path or PostgreSQL URL. PostgreSQL URLs must not embed a password; keep those in the OS keyring." placeholder:"TARGET"`
	User       string          `name:"user" short:"u" help:"Sync key of the user to act as."`
	Debug      bool            `help:"Enable debug logging."`

	Addr             string        `name:"addr" default:":3001" help:"Listen address for serve."`
	DueThresholdDays int           `name:"due-threshold-days" default:"2" help:"Days without a completion before a habit is due."`
	CallPollInterval time.Duration `name:"call-poll-interval" default:"1m" help:"How often serve checks for scheduled calls."`
	CronSecret       string        `name:"cron-secret" help:"Shared secret required in X-Cron-Secret by /cron endpoints."`
	AllowedOrigins   []string      `name:"allowed-origins" default:"*" help:"CORS origins allowed to call the API."`
	PublicBaseURL    string        `name:"public-base-url" help:"Externally reachable base URL, used for call webhooks."`

	Gemini     Gemini     `embed:"" prefix:"gemini-" group:"Gemini"`
	Telnyx     Telnyx     `embed:"" prefix:"telnyx-" group:"Telnyx"`
	ElevenLabs ElevenLabs `embed:"" prefix:"elevenlabs-" group:"ElevenLabs"`
	Push       Push       `embed:"" prefix:"push-" group:"Web push"`
}

// Validate is called by kong after parsing.
func (c *Config) Validate() error {
	if c.DueThresholdDays < 1 {
		return fmt.Errorf("--due-threshold-days must be at least 1")
	}
	if c.CallPollInterval < time.Second {
		return fmt.Errorf("--call-poll-interval must be at least 1s")
	}
	return nil
}

var lookupSecret = keyring.Lookup

// ResolveSecrets fills empty secrets from the OS keyring.
func (c *Config) ResolveSecrets() {
	fill := func(dst *string, name string) {
		if *dst == "" {
			*dst = lookupSecret(name)
		}
	}
	fill(&c.Gemini.APIKey, constants.KeyringGemini)
	fill(&c.Telnyx.APIKey, constants.KeyringTelnyx)
	fill(&c.ElevenLabs.APIKey, constants.KeyringElevenLabs)
	fill(&c.Push.VAPIDPrivateKey, constants.KeyringVAPID)
}

// DatabaseTarget picks the database in order: --db, the keyring
// connection string, the default SQLite path. trusted is true when the
// target came from the keyring.
func (c *Config) DatabaseTarget() (target string, trusted bool) {
	if c.DB != "" {
		if storage.IsPostgres(c.DB) {
			return c.DB, false
		}
		return kong.ExpandPath(c.DB), false
	}
	if conn := lookupSecret(constants.KeyringDatabase); conn != "" {
		return conn, true
	}
	return kong.ExpandPath(constants.DefaultConfigPath), false
}

// OpenStore returns the storage provider for DatabaseTarget.
func (c *Config) OpenStore() (storage.Provider, error) {
	target, trusted := c.DatabaseTarget()
	if trusted {
		return storage.OpenTrusted(target)
	}
	return storage.Open(target)
}

// Dir is the directory holding logs and the default database.
func (c *Config) Dir() string {
	return kong.ExpandPath(constants.DefaultConfigDir)
}

// TOML is a kong.ConfigurationLoader. Tables are flattened with "-" so
// [gemini] api-key resolves --gemini-api-key. Underscores in keys are
// treated as dashes.
func TOML(r io.Reader) (kong.Resolver, error) {
	var raw map[string]any
	if _, err := toml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	values := make(map[string]string)
	flatten("", raw, values)

	return kong.ResolverFunc(func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		if v, ok := values[flag.Name]; ok {
			return v, nil
		}
		return nil, nil
	}), nil
}

func flatten(prefix string, in map[string]any, out map[string]string) {
	for k, v := range in {
		key := prefix + strings.ReplaceAll(k, "_", "-")
		switch val := v.(type) {
		case map[string]any:
			flatten(key+"-", val, out)
		case []any:
			parts := make([]string, len(val))
			for i, item := range val {
				parts[i] = fmt.Sprint(item)
			}
			out[key] = strings.Join(parts, ",")
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// WriteDefault writes a starter config file. An existing file is left alone.
func WriteDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0600)
	if err != nil {
		return false, fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	starter := map[string]any{
		"addr":               ":3001",
		"due-threshold-days": constants.DueThresholdDays,
		"gemini":             map[string]any{"model": "gemini-2.0-flash"},
		"elevenlabs":         map[string]any{"voice-id": "21m00Tcm4TlvDq8ikWAM", "model": "eleven_turbo_v2_5"},
	}
	if err := toml.NewEncoder(f).Encode(starter); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}

// Keys lists the flattened keys a config file sets, sorted.
func Keys(r io.Reader) ([]string, error) {
	var raw map[string]any
	if _, err := toml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, err
	}
	values := make(map[string]string)
	flatten("", raw, values)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
