package sqlstore

import (
	"database/sql"
	"errors"

	apperrors "github.com/julianstephens/dailypunch/internal/errors"
	"github.com/julianstephens/dailypunch/internal/models"
)

const callLogColumns = "id, user_id, status, provider_call_id, started_at, ended_at, duration_secs"

func scanCallLog(row rowScanner) (models.CallLog, error) {
	var l models.CallLog
	var status, startedAt string
	var endedAt sql.NullString
	var duration sql.NullInt64
	if err := row.Scan(&l.ID, &l.UserID, &status, &l.ProviderCallID, &startedAt, &endedAt, &duration); err != nil {
		return models.CallLog{}, err
	}
	l.Status = models.CallStatus(status)

	var err error
	if l.StartedAt, err = parseTime("started_at", startedAt); err != nil {
		return models.CallLog{}, err
	}
	if l.EndedAt, err = parseNullTime("ended_at", endedAt); err != nil {
		return models.CallLog{}, err
	}
	if duration.Valid {
		d := int(duration.Int64)
		l.DurationSecs = &d
	}
	return l, nil
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func (c *Core) AddCallLog(l models.CallLog) error {
	_, err := c.exec(`
		INSERT INTO call_logs (id, user_id, status, provider_call_id, started_at, ended_at, duration_secs)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.UserID, string(l.Status), l.ProviderCallID, formatTime(l.StartedAt), nullTime(l.EndedAt), nullInt(l.DurationSecs))
	return err
}

func (c *Core) UpdateCallLog(l models.CallLog) error {
	result, err := c.exec(`
		UPDATE call_logs SET status = ?, provider_call_id = ?, ended_at = ?, duration_secs = ?
		WHERE id = ?`,
		string(l.Status), l.ProviderCallID, nullTime(l.EndedAt), nullInt(l.DurationSecs), l.ID)
	if err != nil {
		return err
	}
	return affected(result, apperrors.NotFound("call log %s", l.ID))
}

func (c *Core) GetCallLog(id string) (models.CallLog, error) {
	l, err := scanCallLog(c.queryRow("SELECT "+callLogColumns+" FROM call_logs WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.CallLog{}, apperrors.NotFound("call log %s", id)
	}
	return l, err
}

// GetCallLogs returns the user's most recent calls, newest first.
func (c *Core) GetCallLogs(userID string, limit int) ([]models.CallLog, error) {
	rows, err := c.query(`SELECT `+callLogColumns+` FROM call_logs
		WHERE user_id = ? ORDER BY started_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.CallLog
	for rows.Next() {
		l, err := scanCallLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
