package models

import "time"

// User is identified by its sync key. There are no passwords; whoever
// holds the key owns the data.
type User struct {
	ID          string    `json:"id"`
	Phone       string    `json:"phone,omitempty"`
	CallEnabled bool      `json:"callEnabled"`
	CallTime    string    `json:"callTime,omitempty"`
	Timezone    string    `json:"timezone,omitempty"`
	CreatedAt   time.Time `json:"created"`
}

// CanReceiveCalls reports whether scheduled check-in calls apply.
func (u User) CanReceiveCalls() bool {
	return u.CallEnabled && u.Phone != ""
}

type PushSubscription struct {
	UserID    string    `json:"userId"`
	Endpoint  string    `json:"endpoint"`
	P256dh    string    `json:"p256dh"`
	Auth      string    `json:"auth"`
	CreatedAt time.Time `json:"createdAt"`
}

type CallStatus string

const (
	CallStatusInitiated CallStatus = "initiated"
	CallStatusCompleted CallStatus = "completed"
	CallStatusFailed    CallStatus = "failed"
)

type CallLog struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId"`
	Status         CallStatus `json:"status"`
	ProviderCallID string     `json:"providerCallId,omitempty"`
	StartedAt      time.Time  `json:"startedAt"`
	EndedAt        *time.Time `json:"endedAt,omitempty"`
	DurationSecs   *int       `json:"duration,omitempty"`
}
