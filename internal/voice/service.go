package voice

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/dailypunch/internal/constants"
	"github.com/julianstephens/dailypunch/internal/dates"
	apperrors "github.com/julianstephens/dailypunch/internal/errors"
	"github.com/julianstephens/dailypunch/internal/habits"
	"github.com/julianstephens/dailypunch/internal/logger"
	"github.com/julianstephens/dailypunch/internal/models"
	"github.com/julianstephens/dailypunch/internal/utils"
)

// ClientState rides along with a call so webhook events can be handled
// without a lookup.
type ClientState struct {
	CallLogID string        `json:"callLogId"`
	UserID    string        `json:"userId"`
	Habits    []HabitStatus `json:"habits"`
}

func (c ClientState) Encode() (string, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func DecodeClientState(s string) (ClientState, error) {
	var c ClientState
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return c, fmt.Errorf("client state is not base64: %w", err)
	}
	if err := json.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("client state is not JSON: %w", err)
	}
	return c, nil
}

// Event is a call control webhook delivery.
type Event struct {
	Data struct {
		EventType string       `json:"event_type"`
		Payload   EventPayload `json:"payload"`
	} `json:"data"`
}

type EventPayload struct {
	CallControlID string `json:"call_control_id"`
	ClientState   string `json:"client_state"`
	Digits        string `json:"digits"`
	DurationSecs  *int   `json:"duration_secs"`
}

type Service struct {
	habits     *habits.Service
	calls      CallControl
	tts        Synthesizer
	webhookURL string
	now        func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService wires the call flow. calls and tts may be nil when the
// integrations are not configured; the operations that need them then
// return ErrNotConfigured.
func NewService(h *habits.Service, calls CallControl, tts Synthesizer, publicBaseURL string, opts ...Option) *Service {
	s := &Service{
		habits:     h,
		calls:      calls,
		tts:        tts,
		webhookURL: strings.TrimRight(publicBaseURL, "/") + "/calls/webhook",
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Statuses reports each active habit and whether it was done today in
// the user's timezone.
func (s *Service) Statuses(userID string) ([]HabitStatus, error) {
	sums, err := s.habits.Summaries(userID, false)
	if err != nil {
		return nil, err
	}
	out := make([]HabitStatus, 0, len(sums))
	for _, sum := range sums {
		out = append(out, HabitStatus{Name: sum.Habit.Name, Completed: sum.CompletedOn(sum.Today)})
	}
	return out, nil
}

// InitiateCall phones the user and returns the new call log id.
func (s *Service) InitiateCall(ctx context.Context, userID string) (string, error) {
	if s.calls == nil {
		return "", apperrors.NotConfigured("Telnyx")
	}

	user, err := s.habits.Store().GetUser(userID)
	if err != nil || user.Phone == "" {
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return "", err
		}
		return "", apperrors.Invalid("User not found or no phone number")
	}
	if !user.CallEnabled {
		return "", apperrors.Invalid("Calls not enabled for this user")
	}

	statuses, err := s.Statuses(userID)
	if err != nil {
		return "", err
	}

	callLog := models.CallLog{
		ID:        uuid.NewString(),
		UserID:    userID,
		Status:    models.CallStatusInitiated,
		StartedAt: s.now(),
	}
	if err := s.habits.Store().AddCallLog(callLog); err != nil {
		return "", err
	}

	state, err := ClientState{CallLogID: callLog.ID, UserID: userID, Habits: statuses}.Encode()
	if err != nil {
		return "", err
	}

	callControlID, err := s.calls.CreateCall(ctx, CallRequest{
		To:          user.Phone,
		WebhookURL:  s.webhookURL,
		ClientState: state,
	})
	if err != nil {
		s.finish(callLog, models.CallStatusFailed, nil)
		return "", fmt.Errorf("failed to initiate call: %w", err)
	}

	callLog.ProviderCallID = callControlID
	if err := s.habits.Store().UpdateCallLog(callLog); err != nil {
		return "", err
	}
	logger.Info("Check-in call started", "user", userID, "callLog", callLog.ID)
	return callLog.ID, nil
}

func (s *Service) finish(l models.CallLog, status models.CallStatus, duration *int) {
	ended := s.now()
	l.Status = status
	l.EndedAt = &ended
	if duration == nil {
		d := int(ended.Sub(l.StartedAt).Seconds())
		duration = &d
	}
	l.DurationSecs = duration
	if err := s.habits.Store().UpdateCallLog(l); err != nil {
		logger.Error("Failed to update call log", "callLog", l.ID, "error", err)
	}
}

// HandleEvent advances the call flow for one webhook event. Unknown
// event types are ignored.
func (s *Service) HandleEvent(ctx context.Context, ev Event) error {
	p := ev.Data.Payload
	logger.Debug("Call webhook", "event", ev.Data.EventType, "callControlId", p.CallControlID)

	var state ClientState
	if p.ClientState != "" {
		var err error
		if state, err = DecodeClientState(p.ClientState); err != nil {
			return apperrors.Invalid("%v", err)
		}
	}

	switch ev.Data.EventType {
	case "call.initiated":
		return nil

	case "call.answered":
		if p.CallControlID == "" || p.ClientState == "" || s.calls == nil {
			return nil
		}
		return s.calls.Speak(ctx, p.CallControlID, s.checkIn(state))

	case "call.speak.ended":
		if p.CallControlID == "" || s.calls == nil {
			return nil
		}
		return s.calls.GatherUsingSpeak(ctx, p.CallControlID, gatherPrompt, gatherDigits, gatherTimeout)

	case "call.gather.ended":
		if p.CallControlID == "" || s.calls == nil {
			return nil
		}
		switch p.Digits {
		case "1":
			return s.calls.Speak(ctx, p.CallControlID, whichHabitText)
		case "2":
			if p.ClientState == "" {
				return nil
			}
			return s.calls.Speak(ctx, p.CallControlID, s.checkIn(state))
		}
		return nil

	case "call.hangup":
		if state.CallLogID == "" {
			return nil
		}
		l, err := s.habits.Store().GetCallLog(state.CallLogID)
		if err != nil {
			return err
		}
		s.finish(l, models.CallStatusCompleted, p.DurationSecs)
		return nil

	default:
		logger.Debug("Ignoring call event", "event", ev.Data.EventType)
		return nil
	}
}

func (s *Service) checkIn(state ClientState) string {
	today, err := s.habits.Today(state.UserID)
	if err != nil {
		today = dates.FromTime(s.now())
	}
	return CheckInMessage(state.Habits, "", today)
}

// CheckScheduled calls every enabled user whose call time matches the
// wall clock in their own timezone at now. It returns how many calls
// were started.
func (s *Service) CheckScheduled(ctx context.Context, now time.Time) (int, error) {
	users, err := s.habits.Store().GetCallEnabledUsers()
	if err != nil {
		return 0, err
	}

	started := 0
	for _, u := range users {
		clock, err := utils.ClockInTimezone(now, u.Timezone)
		if err != nil {
			logger.Warn("Skipping scheduled call", "user", u.ID, "timezone", u.Timezone, "error", err)
			continue
		}
		if clock != u.CallTime {
			continue
		}
		logger.Info("Initiating scheduled call", "user", u.ID)
		if _, err := s.InitiateCall(ctx, u.ID); err != nil {
			logger.Error("Scheduled call failed", "user", u.ID, "error", err)
			continue
		}
		started++
	}
	return started, nil
}

// History returns the user's most recent calls.
func (s *Service) History(userID string) ([]models.CallLog, error) {
	logs, err := s.habits.Store().GetCallLogs(userID, constants.CallHistoryLimit)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []models.CallLog{}
	}
	return logs, nil
}

// Preview renders text with the configured voice.
func (s *Service) Preview(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.Invalid("Text is required")
	}
	if s.tts == nil {
		return nil, apperrors.NotConfigured("ElevenLabs")
	}
	return s.tts.TextToSpeech(ctx, text)
}
