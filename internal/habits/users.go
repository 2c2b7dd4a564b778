package habits

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"

	"github.com/julianstephens/dailypunch/internal/constants"
	apperrors "github.com/julianstephens/dailypunch/internal/errors"
	"github.com/julianstephens/dailypunch/internal/models"
	"github.com/julianstephens/dailypunch/internal/utils"
)

const syncKeyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var phonePattern = regexp.MustCompile(`^\+[1-9]\d{6,14}$`)

// NewSyncKey returns a random key of uppercase letters and digits.
func NewSyncKey() (string, error) {
	max := big.NewInt(int64(len(syncKeyAlphabet)))
	var b strings.Builder
	b.Grow(constants.SyncKeyLength)
	for i := 0; i < constants.SyncKeyLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(syncKeyAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// NewUser creates a user under a fresh sync key.
func (s *Service) NewUser() (models.User, error) {
	key, err := NewSyncKey()
	if err != nil {
		return models.User{}, err
	}
	return s.store.EnsureUser(key)
}

// User returns the user, creating it on first sight.
func (s *Service) User(userID string) (models.User, error) {
	if strings.TrimSpace(userID) == "" {
		return models.User{}, apperrors.ErrUnauthorized
	}
	return s.store.EnsureUser(userID)
}

// SettingsUpdate carries the fields to change. Nil fields are left alone.
type SettingsUpdate struct {
	Phone       *string
	CallEnabled *bool
	CallTime    *string
	Timezone    *string
}

// UpdateSettings validates and applies a partial settings change.
func (s *Service) UpdateSettings(userID string, upd SettingsUpdate) (models.User, error) {
	u, err := s.User(userID)
	if err != nil {
		return models.User{}, err
	}

	if upd.Phone != nil {
		phone := strings.TrimSpace(*upd.Phone)
		if phone != "" && !phonePattern.MatchString(phone) {
			return models.User{}, apperrors.Invalid("phone must be in E.164 format, e.g. +15551234567")
		}
		u.Phone = phone
	}
	if upd.CallTime != nil {
		ct := strings.TrimSpace(*upd.CallTime)
		if ct != "" && !utils.ValidateTimeFormat(ct) {
			return models.User{}, apperrors.Invalid("call time must be HH:MM")
		}
		u.CallTime = ct
	}
	if upd.Timezone != nil {
		tz := strings.TrimSpace(*upd.Timezone)
		if !utils.ValidateTimezone(tz) {
			return models.User{}, apperrors.Invalid("unknown timezone %q", tz)
		}
		u.Timezone = tz
	}
	if upd.CallEnabled != nil {
		u.CallEnabled = *upd.CallEnabled
	}
	if u.CallEnabled && u.Phone == "" {
		return models.User{}, apperrors.Invalid("a phone number is required to enable calls")
	}

	if err := s.store.SaveUser(u); err != nil {
		return models.User{}, err
	}
	return u, nil
}
