// Package keyring stores credentials in the OS keyring under the
// application's service name.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/dailypunch/internal/constants"
)

var (
	// ErrNotFound is returned when no secret is stored under the name
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Names lists the entries the application reads, in display order.
var Names = []string{
	constants.KeyringDatabase,
	constants.KeyringGemini,
	constants.KeyringTelnyx,
	constants.KeyringElevenLabs,
	constants.KeyringVAPID,
}

// Get returns the secret stored under name.
func Get(name string) (string, error) {
	secret, err := keyring.Get(constants.AppName, name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

// Set stores secret under name, replacing any previous value.
func Set(name, secret string) error {
	if secret == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}
	if err := keyring.Set(constants.AppName, name, secret); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", name, err)
	}
	return nil
}

func Delete(name string) error {
	err := keyring.Delete(constants.AppName, name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", name, err)
	}
	return nil
}

// Lookup returns the secret if present. A missing entry or an unavailable
// keyring both yield "".
func Lookup(name string) string {
	secret, err := Get(name)
	if err != nil {
		return ""
	}
	return secret
}

// GetConnectionString retrieves the database connection string.
func GetConnectionString() (string, error) {
	return Get(constants.KeyringDatabase)
}

// SetConnectionString stores the database connection string.
func SetConnectionString(connStr string) error {
	return Set(constants.KeyringDatabase, connStr)
}

func DeleteConnectionString() error {
	return Delete(constants.KeyringDatabase)
}

// IsAvailable is a best-effort probe of the OS keyring.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

// IsKnown reports whether name is one of the entries in Names.
func IsKnown(name string) bool {
	for _, n := range Names {
		if n == name {
			return true
		}
	}
	return false
}
