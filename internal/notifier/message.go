// Package notifier delivers reminders to browsers through Web Push and to
// the desktop through the tray companion app.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/julianstephens/dailypunch/internal/constants"
	"github.com/julianstephens/dailypunch/internal/models"
)

type MessageData struct {
	URL  string `json:"url"`
	Test bool   `json:"test,omitempty"`
}

// Message is the JSON payload the service worker renders.
type Message struct {
	Title string      `json:"title"`
	Body  string      `json:"body"`
	Icon  string      `json:"icon"`
	Badge string      `json:"badge"`
	Tag   string      `json:"tag"`
	Data  MessageData `json:"data"`
}

// Sender delivers a message to one push subscription.
type Sender interface {
	Send(ctx context.Context, sub models.PushSubscription, msg Message) error
}

// DueHabitsMessage lists habits not completed within thresholdDays.
func DueHabitsMessage(names []string, thresholdDays int) Message {
	return Message{
		Title: "Habits Due",
		Body:  fmt.Sprintf("You haven't completed these habits in %d+ days: %s", thresholdDays, strings.Join(names, ", ")),
		Icon:  constants.PushIcon,
		Badge: constants.PushBadge,
		Tag:   constants.PushTagDue,
		Data:  MessageData{URL: constants.PushClickURL},
	}
}

func TestMessage(body string) Message {
	if body == "" {
		body = "This is a test notification from dailypunch"
	}
	return Message{
		Title: "Test Notification",
		Body:  body,
		Icon:  constants.PushIcon,
		Badge: constants.PushBadge,
		Tag:   constants.PushTagTest,
		Data:  MessageData{URL: constants.PushClickURL, Test: true},
	}
}

// Text flattens the message for plain-text channels.
func (m Message) Text() string {
	if m.Title == "" {
		return m.Body
	}
	return m.Title + ": " + m.Body
}

func (m Message) payload() ([]byte, error) {
	return json.Marshal(m)
}
