package constants

import "time"

const (
	AppName           = "dailypunch"
	DefaultConfigDir  = "~/.config/dailypunch"
	DefaultConfigPath = "~/.config/dailypunch/dailypunch.db"
	DefaultConfigFile = "~/.config/dailypunch/config.toml"
	Version           = "v0.1.0"

	// EnvPrefix prefixes every environment variable the CLI reads
	EnvPrefix = "DAILYPUNCH_"

	// TimeFormat is the HH:MM layout used for scheduled call times
	TimeFormat = "15:04"

	// SyncKeyLength is the number of characters in a generated sync key
	SyncKeyLength = 16

	// Reminder constants
	DueThresholdDays        = 2
	ReminderConcurrency     = 8
	DefaultCallPollInterval = time.Minute
	CallHistoryLimit        = 20

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "dailypunch-"
	BackupFileSuffix = ".db"

	// Tray notifier constants
	NotifierLockfileName   = "dailypunch-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.dailypunch"
	TrayAppExecutable      = "dailypunch-tray"

	// Push notification payload defaults
	PushIcon     = "/logo.png"
	PushBadge    = "/logo.png"
	PushTagDue   = "habits-due"
	PushTagTest  = "test-notification"
	PushTTL      = 24 * 60 * 60
	PushClickURL = "/"

	// Keyring entries
	KeyringDatabase   = "database-connection"
	KeyringGemini     = "gemini-api-key"
	KeyringTelnyx     = "telnyx-api-key"
	KeyringElevenLabs = "elevenlabs-api-key"
	KeyringVAPID      = "vapid-private-key"
)
