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

const (
	DefaultElevenLabsBaseURL = "https://api.elevenlabs.io/v1"
	DefaultVoiceID           = "21m00Tcm4TlvDq8ikWAM"
	DefaultTTSModel          = "eleven_turbo_v2_5"
	ttsOutputFormat          = "mp3_44100_128"
)

// Synthesizer turns text into MP3 audio.
type Synthesizer interface {
	TextToSpeech(ctx context.Context, text string) ([]byte, error)
}

type ElevenLabs struct {
	apiKey  string
	voiceID string
	model   string
	baseURL string
	client  *http.Client
}

func NewElevenLabs(apiKey, voiceID, model, baseURL string) (*ElevenLabs, error) {
	if apiKey == "" {
		return nil, apperrors.NotConfigured("ElevenLabs")
	}
	if voiceID == "" {
		voiceID = DefaultVoiceID
	}
	if model == "" {
		model = DefaultTTSModel
	}
	if baseURL == "" {
		baseURL = DefaultElevenLabsBaseURL
	}
	return &ElevenLabs{
		apiKey:  apiKey,
		voiceID: voiceID,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (e *ElevenLabs) TextToSpeech(ctx context.Context, text string) ([]byte, error) {
	body, err := json.Marshal(map[string]string{
		"text":     text,
		"model_id": e.model,
	})
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/text-to-speech/%s?output_format=%s", e.baseURL, url.PathEscape(e.voiceID), ttsOutputFormat)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("ElevenLabs API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return io.ReadAll(resp.Body)
}
