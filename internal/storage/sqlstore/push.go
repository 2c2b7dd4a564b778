package sqlstore

import (
	"time"

	"github.com/julianstephens/dailypunch/internal/models"
)

// SavePushSubscription stores the subscription keyed by endpoint. A browser
// that re-subscribes under another sync key moves the endpoint over.
func (c *Core) SavePushSubscription(sub models.PushSubscription) error {
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now()
	}
	_, err := c.exec(`
		INSERT INTO push_subscriptions (endpoint, user_id, p256dh, auth, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(endpoint) DO UPDATE SET
			user_id = excluded.user_id,
			p256dh = excluded.p256dh,
			auth = excluded.auth`,
		sub.Endpoint, sub.UserID, sub.P256dh, sub.Auth, formatTime(sub.CreatedAt))
	return err
}

func (c *Core) DeletePushSubscription(userID, endpoint string) error {
	_, err := c.exec(`DELETE FROM push_subscriptions WHERE user_id = ? AND endpoint = ?`, userID, endpoint)
	return err
}

func (c *Core) GetPushSubscriptions(userID string) ([]models.PushSubscription, error) {
	rows, err := c.query(`
		SELECT endpoint, user_id, p256dh, auth, created_at
		FROM push_subscriptions WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []models.PushSubscription
	for rows.Next() {
		var s models.PushSubscription
		var createdAt string
		if err := rows.Scan(&s.Endpoint, &s.UserID, &s.P256dh, &s.Auth, &createdAt); err != nil {
			return nil, err
		}
		if s.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

func (c *Core) GetSubscribedUserIDs() ([]string, error) {
	rows, err := c.query(`SELECT DISTINCT user_id FROM push_subscriptions ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
