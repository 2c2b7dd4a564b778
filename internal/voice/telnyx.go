package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/julianstephens/dailypunch/internal/errors"
)

const DefaultTelnyxBaseURL = "https://api.telnyx.com/v2"

// CallControl is the subset of a telephony API the call flow needs.
type CallControl interface {
	CreateCall(ctx context.Context, req CallRequest) (string, error)
	Speak(ctx context.Context, callControlID, text string) error
	GatherUsingSpeak(ctx context.Context, callControlID, text, validDigits string, timeoutMillis int) error
}

type CallRequest struct {
	To          string
	WebhookURL  string
	ClientState string
}

// Telnyx drives calls through the Telnyx Call Control API.
type Telnyx struct {
	apiKey       string
	connectionID string
	from         string
	baseURL      string
	client       *http.Client
}

func NewTelnyx(apiKey, connectionID, from, baseURL string) (*Telnyx, error) {
	if apiKey == "" || connectionID == "" || from == "" {
		return nil, apperrors.NotConfigured("Telnyx (api key, connection id and from number are required)")
	}
	if baseURL == "" {
		baseURL = DefaultTelnyxBaseURL
	}
	return &Telnyx{
		apiKey:       apiKey,
		connectionID: connectionID,
		from:         from,
		baseURL:      strings.TrimRight(baseURL, "/"),
		client:       &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (t *Telnyx) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("telnyx request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("Telnyx API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// CreateCall dials req.To and returns the call control id.
func (t *Telnyx) CreateCall(ctx context.Context, req CallRequest) (string, error) {
	var out struct {
		Data struct {
			CallControlID string `json:"call_control_id"`
		} `json:"data"`
	}
	err := t.post(ctx, "/calls", map[string]string{
		"connection_id":      t.connectionID,
		"to":                 req.To,
		"from":               t.from,
		"webhook_url":        req.WebhookURL,
		"webhook_url_method": http.MethodPost,
		"client_state":       req.ClientState,
	}, &out)
	if err != nil {
		return "", err
	}
	if out.Data.CallControlID == "" {
		return "", fmt.Errorf("telnyx response is missing call_control_id")
	}
	return out.Data.CallControlID, nil
}

func (t *Telnyx) action(callControlID, name string) string {
	return "/calls/" + url.PathEscape(callControlID) + "/actions/" + name
}

func (t *Telnyx) Speak(ctx context.Context, callControlID, text string) error {
	return t.post(ctx, t.action(callControlID, "speak"), map[string]any{
		"payload":  text,
		"language": "en-US",
		"voice":    "female",
	}, nil)
}

func (t *Telnyx) GatherUsingSpeak(ctx context.Context, callControlID, text, validDigits string, timeoutMillis int) error {
	return t.post(ctx, t.action(callControlID, "gather_using_speak"), map[string]any{
		"payload":        text,
		"language":       "en-US",
		"voice":          "female",
		"valid_digits":   validDigits,
		"timeout_millis": timeoutMillis,
	}, nil)
}
