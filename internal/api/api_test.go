package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/dailypunch/internal/ai"
	"github.com/julianstephens/dailypunch/internal/dates"
	"github.com/julianstephens/dailypunch/internal/habits"
	"github.com/julianstephens/dailypunch/internal/notifier"
	"github.com/julianstephens/dailypunch/internal/storage/sqlite"
	"github.com/julianstephens/dailypunch/internal/voice"
)

const testKey = "APIUSER000000001"

var fixedNow = time.Date(2026, time.January, 8, 12, 0, 0, 0, time.UTC)

type fakeProvider struct {
	reply string
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(_ context.Context, _ string) (string, error) {
	return f.reply, nil
}

type fakeCalls struct {
	created int
}

func (f *fakeCalls) CreateCall(_ context.Context, _ voice.CallRequest) (string, error) {
	f.created++
	return "ccid", nil
}

func (f *fakeCalls) Speak(context.Context, string, string) error { return nil }

func (f *fakeCalls) GatherUsingSpeak(context.Context, string, string, string, int) error {
	return nil
}

type fakeTTS struct{}

func (fakeTTS) TextToSpeech(_ context.Context, text string) ([]byte, error) {
	return []byte("ID3" + text), nil
}

type testEnv struct {
	svc      *habits.Service
	provider *fakeProvider
	recorder *notifier.Recorder
	calls    *fakeCalls
	handler  http.Handler
}

func newEnv(t *testing.T, mutate func(*Deps)) *testEnv {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	clock := func() time.Time { return fixedNow }
	svc := habits.NewService(store, habits.WithClock(clock))
	utc := "UTC"
	if _, err := svc.UpdateSettings(testKey, habits.SettingsUpdate{Timezone: &utc}); err != nil {
		t.Fatal(err)
	}

	env := &testEnv{
		svc:      svc,
		provider: &fakeProvider{},
		recorder: notifier.NewRecorder(io.Discard),
		calls:    &fakeCalls{},
	}
	deps := Deps{
		Habits:         svc,
		Parser:         ai.NewDateParser(env.provider),
		Sender:         env.recorder,
		VAPIDPublicKey: "BPUBLIC",
		Calls:          voice.NewService(svc, env.calls, fakeTTS{}, "https://api.example.com", voice.WithClock(clock)),
		CronSecret:     "s3cret",
	}
	if mutate != nil {
		mutate(&deps)
	}
	env.handler = New(deps).Router()
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", testKey)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func (e *testEnv) createHabit(t *testing.T, name string) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/habits/create", map[string]string{"name": name})
	if rec.Code != http.StatusOK {
		t.Fatalf("create returned %d: %s", rec.Code, rec.Body.String())
	}
	out := decodeBody[habitsPayload](t, rec)
	for _, h := range out.Habits {
		if h.Name == name {
			return h.ID
		}
	}
	t.Fatalf("habit %q not in response", name)
	return ""
}

func TestBannerAndHealth(t *testing.T) {
	env := newEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "running") {
		t.Errorf("unexpected banner %d %q", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/healthz", nil)
	health := decodeBody[map[string]string](t, rec)
	if health["status"] != "ok" {
		t.Errorf("unexpected health %v", health)
	}
}

func TestAuthentication(t *testing.T) {
	env := newEnv(t, nil)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"raw key", testKey, http.StatusOK},
		{"bearer key", "Bearer " + testKey, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/habits", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			env.handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
			if tt.want == http.StatusUnauthorized {
				body := decodeBody[errorResponse](t, rec)
				if body.Code != "unauthorized" || body.Message != "Authentication required" {
					t.Errorf("unexpected envelope %+v", body)
				}
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	tests := []struct {
		name    string
		origins []string
		origin  string
		allowed bool
	}{
		{"wildcard", nil, "https://evil.example", true},
		{"listed origin", []string{"https://app.example"}, "https://app.example", true},
		{"unlisted origin", []string{"https://app.example"}, "https://evil.example", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t, func(d *Deps) { d.AllowedOrigins = tt.origins })
			req := httptest.NewRequest(http.MethodOptions, "/habits", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			req.Header.Set("Access-Control-Request-Headers", "Authorization")
			rec := httptest.NewRecorder()
			env.handler.ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "" {
				t.Errorf("Access-Control-Allow-Credentials = %q, want unset", got)
			}
			gotOrigin := rec.Header().Get("Access-Control-Allow-Origin")
			if (gotOrigin != "") != tt.allowed {
				t.Errorf("Access-Control-Allow-Origin = %q, allowed = %v", gotOrigin, tt.allowed)
			}
		})
	}
}

func TestHabitLifecycle(t *testing.T) {
	env := newEnv(t, nil)
	id := env.createHabit(t, "Read")

	rec := env.do(t, http.MethodPost, "/habits/rename", map[string]string{"id": id, "name": "Read more"})
	if rec.Code != http.StatusOK {
		t.Fatalf("rename returned %d: %s", rec.Code, rec.Body.String())
	}
	if got := decodeBody[habitsPayload](t, rec).Habits[0].Name; got != "Read more" {
		t.Errorf("expected renamed habit, got %q", got)
	}

	rec = env.do(t, http.MethodPost, "/habits/update-theme", map[string]string{"id": id, "theme": "PURPLE"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown theme, got %d", rec.Code)
	}
	rec = env.do(t, http.MethodPost, "/habits/update-theme", map[string]string{"id": id, "theme": "BLUE"})
	if got := decodeBody[habitsPayload](t, rec).Habits[0].Theme; got != "BLUE" {
		t.Errorf("expected BLUE, got %q", got)
	}

	rec = env.do(t, http.MethodPost, "/habits/update-details", map[string]string{"id": id, "emoji": "📚"})
	h := decodeBody[habitsPayload](t, rec).Habits[0]
	if h.Emoji == nil || *h.Emoji != "📚" || h.Description != nil {
		t.Errorf("unexpected details %+v", h)
	}

	rec = env.do(t, http.MethodPost, "/habits/delete", map[string]string{"id": id})
	if got := len(decodeBody[habitsPayload](t, rec).Habits); got != 0 {
		t.Errorf("expected no habits after delete, got %d", got)
	}
}

func TestCreateHabitDefaults(t *testing.T) {
	env := newEnv(t, nil)
	rec := env.do(t, http.MethodPost, "/habits/create", map[string]string{"theme": "nope"})
	out := decodeBody[habitsPayload](t, rec)
	if out.ID != testKey || len(out.Habits) != 1 {
		t.Fatalf("unexpected payload %+v", out)
	}
	h := out.Habits[0]
	if h.Name != habits.DefaultHabitName || h.Theme != "ORANGE" {
		t.Errorf("expected defaults, got %+v", h)
	}
	if h.Completed == nil || h.Warnings == nil {
		t.Error("expected empty arrays, not null")
	}
}

func TestLogAndStreak(t *testing.T) {
	env := newEnv(t, nil)
	id := env.createHabit(t, "Run")

	for _, day := range []string{"2026-01-06", "Wed, 7 Jan, 2026", "08 Jan 2026"} {
		rec := env.do(t, http.MethodPost, "/habits/log", map[string]string{"id": id, "day": day})
		if rec.Code != http.StatusOK {
			t.Fatalf("log %q returned %d: %s", day, rec.Code, rec.Body.String())
		}
	}
	// Same day under another spelling is a no-op.
	env.do(t, http.MethodPost, "/habits/log", map[string]string{"id": id, "day": "Thu, 8 Jan, 2026"})

	rec := env.do(t, http.MethodGet, "/habits", nil)
	h := decodeBody[habitsPayload](t, rec).Habits[0]
	if len(h.Completed) != 3 {
		t.Fatalf("expected 3 completions, got %v", h.Completed)
	}
	for _, day := range h.Completed {
		if !dates.IsCanonical(day) {
			t.Errorf("expected canonical day, got %q", day)
		}
	}
	if h.CurrentStreak != 3 || h.LongestStreak != 3 || h.Due {
		t.Errorf("unexpected streak %+v", h)
	}

	rec = env.do(t, http.MethodGet, "/habits/"+id+"/streak", nil)
	st := decodeBody[streakPayload](t, rec)
	if st.CurrentStreak != 3 || st.DaysSinceLast != 0 || st.LastCompleted == nil {
		t.Errorf("unexpected streak payload %+v", st)
	}

	rec = env.do(t, http.MethodPost, "/habits/unlog", map[string]string{"id": id, "day": "2026-01-08"})
	if rec.Code != http.StatusOK {
		t.Fatalf("unlog returned %d", rec.Code)
	}
	rec = env.do(t, http.MethodGet, "/habits/"+id+"/streak", nil)
	if st := decodeBody[streakPayload](t, rec); st.CurrentStreak != 2 {
		t.Errorf("expected grace-period streak of 2, got %d", st.CurrentStreak)
	}
}

func TestLogRejects(t *testing.T) {
	env := newEnv(t, nil)
	id := env.createHabit(t, "Run")

	tests := []struct {
		name string
		body map[string]string
		want int
	}{
		{"missing day", map[string]string{"id": id}, http.StatusBadRequest},
		{"missing id", map[string]string{"day": "2026-01-08"}, http.StatusBadRequest},
		{"bad day", map[string]string{"id": id, "day": "someday"}, http.StatusBadRequest},
		{"unknown habit", map[string]string{"id": "nope", "day": "2026-01-08"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/habits/log", tt.body)
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestOtherUsersHabitIsHidden(t *testing.T) {
	env := newEnv(t, nil)
	id := env.createHabit(t, "Private")

	rec := env.do(t, http.MethodPost, "/habits/log",
		map[string]string{"id": id, "day": "2026-01-08"}, "Authorization", "OTHERUSER0000001")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestAddNotes(t *testing.T) {
	env := newEnv(t, nil)
	id := env.createHabit(t, "Journal")

	rec := env.do(t, http.MethodPost, "/habits/add-notes",
		map[string]string{"habitId": id, "day": "2026-01-08", "notes": "x"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 without a completion, got %d", rec.Code)
	}

	env.do(t, http.MethodPost, "/habits/log", map[string]string{"id": id, "day": "2026-01-08"})
	rec = env.do(t, http.MethodPost, "/habits/add-notes",
		map[string]string{"habitId": id, "day": "Thu, 8 Jan, 2026", "notes": "felt good"})
	if rec.Code != http.StatusOK {
		t.Fatalf("add-notes returned %d: %s", rec.Code, rec.Body.String())
	}

	h := decodeBody[habitsPayload](t, env.do(t, http.MethodGet, "/habits", nil)).Habits[0]
	if len(h.CompletionDetails) != 1 || h.CompletionDetails[0].Notes == nil || *h.CompletionDetails[0].Notes != "felt good" {
		t.Errorf("unexpected details %+v", h.CompletionDetails)
	}
}

func TestCalendar(t *testing.T) {
	env := newEnv(t, nil)
	id := env.createHabit(t, "Stretch")
	env.do(t, http.MethodPost, "/habits/log", map[string]string{"id": id, "day": "2026-01-05"})

	tests := []struct {
		query     string
		wantCode  int
		wantSlots int
	}{
		{"", http.StatusOK, 7},
		{"?view=month", http.StatusOK, 35},
		{"?view=year", http.StatusOK, 364},
		{"?view=decade", http.StatusBadRequest, 0},
		{"?view=month&offset=x", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, "/habits/"+id+"/calendar"+tt.query, nil)
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			var view struct {
				Slots     []json.RawMessage `json:"slots"`
				Completed int               `json:"completedCount"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
				t.Fatal(err)
			}
			if len(view.Slots) != tt.wantSlots || view.Completed != 1 {
				t.Errorf("expected %d slots and 1 completion, got %d and %d", tt.wantSlots, len(view.Slots), view.Completed)
			}
		})
	}
}

func TestLogNatural(t *testing.T) {
	env := newEnv(t, nil)
	id := env.createHabit(t, "Walk")
	env.provider.reply = "```json\n[\"Tue, 6 Jan, 2026\", \"Wed, 7 Jan, 2026\"]\n```"

	rec := env.do(t, http.MethodPost, "/habits/log-natural", map[string]string{"id": id, "naturalDate": "the last two days"})
	if rec.Code != http.StatusOK {
		t.Fatalf("log-natural returned %d: %s", rec.Code, rec.Body.String())
	}
	out := decodeBody[map[string]any](t, rec)
	if out["added"] != float64(2) {
		t.Errorf("expected 2 added, got %v", out)
	}

	env.provider.reply = "not json"
	rec = env.do(t, http.MethodPost, "/habits/log-natural", map[string]string{"id": id, "naturalDate": "yesterday"})
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 for unusable reply, got %d", rec.Code)
	}
}

func TestProcessVoice(t *testing.T) {
	env := newEnv(t, nil)
	env.createHabit(t, "Run")
	env.provider.reply = `{"habit": "Run", "day": "yesterday"}`

	rec := env.do(t, http.MethodPost, "/habits/process-voice", map[string]string{"transcript": "I ran yesterday"})
	if rec.Code != http.StatusOK {
		t.Fatalf("process-voice returned %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Success bool          `json:"success"`
		Result  ai.Transcript `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if !out.Success || out.Result.Habit != "Run" || out.Result.Day != "yesterday" {
		t.Errorf("unexpected result %+v", out)
	}
}

func TestParserNotConfigured(t *testing.T) {
	env := newEnv(t, func(d *Deps) { d.Parser = nil })
	rec := env.do(t, http.MethodPost, "/habits/process-voice", map[string]string{"transcript": "hi"})
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
	if body := decodeBody[errorResponse](t, rec); body.Code != "not_configured" {
		t.Errorf("unexpected envelope %+v", body)
	}
}

func TestUserSettings(t *testing.T) {
	env := newEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/user/settings", map[string]any{
		"phone": "+15551234567", "callEnabled": true, "callTime": "08:30", "timezone": "America/New_York",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update returned %d: %s", rec.Code, rec.Body.String())
	}

	got := decodeBody[settingsPayload](t, env.do(t, http.MethodGet, "/user/settings", nil))
	if got.Phone == nil || *got.Phone != "+15551234567" || !got.CallEnabled || *got.CallTime != "08:30" {
		t.Errorf("unexpected settings %+v", got)
	}

	rec = env.do(t, http.MethodPost, "/user/settings", map[string]any{"callTime": "25:00"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad call time, got %d", rec.Code)
	}
}

func TestPushRoutes(t *testing.T) {
	env := newEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/push/vapid-public-key", nil)
	if got := decodeBody[map[string]string](t, rec)["publicKey"]; got != "BPUBLIC" {
		t.Errorf("unexpected key %q", got)
	}

	sub := map[string]any{
		"endpoint": "https://push.example/abc",
		"keys":     map[string]string{"p256dh": "p", "auth": "a"},
	}
	if rec := env.do(t, http.MethodPost, "/push/subscribe", sub); rec.Code != http.StatusOK {
		t.Fatalf("subscribe returned %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodPost, "/push/test", map[string]string{"message": "ping"})
	if rec.Code != http.StatusOK {
		t.Fatalf("test push returned %d: %s", rec.Code, rec.Body.String())
	}
	sent := env.recorder.Sent()
	if len(sent) != 1 || sent[0].Message.Body != "ping" {
		t.Fatalf("unexpected sent %+v", sent)
	}

	env.createHabit(t, "Floss")
	rec = env.do(t, http.MethodPost, "/push/notify-due-habits", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("notify returned %d: %s", rec.Code, rec.Body.String())
	}
	if len(env.recorder.Sent()) != 2 {
		t.Errorf("expected a due-habits message to be sent")
	}

	env.do(t, http.MethodPost, "/push/unsubscribe", map[string]string{"endpoint": "https://push.example/abc"})
	subs, _ := env.svc.Store().GetPushSubscriptions(testKey)
	if len(subs) != 0 {
		t.Errorf("expected no subscriptions, got %d", len(subs))
	}
}

func TestSubscribeValidation(t *testing.T) {
	env := newEnv(t, nil)
	rec := env.do(t, http.MethodPost, "/push/subscribe", map[string]any{"endpoint": "not a url"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeBody[errorResponse](t, rec)
	if !strings.Contains(body.Message, "endpoint must be a URL") || !strings.Contains(body.Message, "p256dh is required") {
		t.Errorf("unexpected message %q", body.Message)
	}
}

func TestCronSecret(t *testing.T) {
	env := newEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/cron/due-habits", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without secret, got %d", rec.Code)
	}
	rec = env.do(t, http.MethodPost, "/cron/due-habits", nil, "X-Cron-Secret", "s3cret")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 with secret, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCalls(t *testing.T) {
	env := newEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/calls/initiate", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without a phone, got %d", rec.Code)
	}

	env.do(t, http.MethodPost, "/user/settings", map[string]any{"phone": "+15551234567", "callEnabled": true})
	rec = env.do(t, http.MethodPost, "/calls/initiate", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("initiate returned %d: %s", rec.Code, rec.Body.String())
	}
	callID, _ := decodeBody[map[string]any](t, rec)["callId"].(string)
	if callID == "" || env.calls.created != 1 {
		t.Fatalf("expected a call to be created, got %q", callID)
	}

	state, err := voice.ClientState{CallLogID: callID, UserID: testKey}.Encode()
	if err != nil {
		t.Fatal(err)
	}
	dur := 42
	var ev voice.Event
	ev.Data.EventType = "call.hangup"
	ev.Data.Payload = voice.EventPayload{CallControlID: "ccid", ClientState: state, DurationSecs: &dur}
	req := httptest.NewRequest(http.MethodPost, "/calls/webhook", bytes.NewReader(mustJSON(t, ev)))
	whRec := httptest.NewRecorder()
	env.handler.ServeHTTP(whRec, req)
	if whRec.Code != http.StatusOK || whRec.Body.String() != "OK" {
		t.Fatalf("webhook returned %d %q", whRec.Code, whRec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/calls/history", nil)
	var hist struct {
		Calls []struct {
			ID       string `json:"id"`
			Status   string `json:"status"`
			Duration *int   `json:"duration"`
		} `json:"calls"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &hist); err != nil {
		t.Fatal(err)
	}
	if len(hist.Calls) != 1 || hist.Calls[0].Status != "completed" || *hist.Calls[0].Duration != 42 {
		t.Errorf("unexpected history %+v", hist)
	}
}

func TestTTSPreview(t *testing.T) {
	env := newEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/tts/preview", map[string]string{"text": "hello"})
	if rec.Code != http.StatusOK {
		t.Fatalf("preview returned %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "audio/mpeg" {
		t.Errorf("unexpected content type %q", ct)
	}
	if rec.Body.String() != "ID3hello" {
		t.Errorf("unexpected body %q", rec.Body.String())
	}

	rec = env.do(t, http.MethodPost, "/tts/preview", map[string]string{})
	if body := decodeBody[errorResponse](t, rec); rec.Code != http.StatusBadRequest || body.Message != "Text is required" {
		t.Errorf("unexpected response %d %+v", rec.Code, body)
	}
}

func TestSyncKey(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"ABC", "ABC"},
		{"Bearer ABC", "ABC"},
		{"  Bearer  ABC ", "ABC"},
	}
	for _, tt := range tests {
		if got := SyncKey(tt.header); got != tt.want {
			t.Errorf("SyncKey(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return b
}
