package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/julianstephens/dailypunch/internal/dates"
	apperrors "github.com/julianstephens/dailypunch/internal/errors"
	"github.com/julianstephens/dailypunch/internal/logger"
)

var (
	codeFence     = regexp.MustCompile("^```(?:json)?\\s*|\\s*```$")
	legacyPattern = regexp.MustCompile(`^[A-Za-z]{3}, \d{1,2} [A-Za-z]{3}, \d{4}$`)
)

// DateParser asks a Provider to read dates and habit mentions out of
// free text.
type DateParser struct {
	provider Provider
}

func NewDateParser(p Provider) *DateParser {
	return &DateParser{provider: p}
}

// Transcript is what the model heard in a voice note. Day is the model's
// own description and still needs ParseDates.
type Transcript struct {
	Habit string `json:"habit"`
	Day   string `json:"day"`
}

func stripFences(text string) string {
	return strings.TrimSpace(codeFence.ReplaceAllString(strings.TrimSpace(text), ""))
}

func datesPrompt(input string, today dates.Date) string {
	return fmt.Sprintf(`Parse the following natural language date description into a JSON array of dates in the format "DDD, D MMM, YYYY" where DDD is the 3-letter day name and D is the day without leading zeros for days 1-9. For relative dates, use today (%s) as the reference point. Example output format: ["Wed, 20 Mar, 2024", "Thu, 1 Apr, 2024"]. Natural language input: %s`,
		today.Legacy(), input)
}

// ParseDates resolves a phrase such as "last three days" relative to
// today. Every returned date went through dates.Parse.
func (p *DateParser) ParseDates(ctx context.Context, text string, today dates.Date) ([]dates.Date, error) {
	input := Sanitize(text)
	if input == "" {
		return nil, apperrors.Invalid("date description is empty after sanitization")
	}

	reply, err := p.provider.Complete(ctx, datesPrompt(input, today))
	if err != nil {
		return nil, err
	}
	logger.Debug("Model replied to date prompt", "provider", p.provider.Name(), "reply", reply)

	var raw []string
	if err := json.Unmarshal([]byte(stripFences(reply)), &raw); err != nil {
		return nil, fmt.Errorf("%w: expected a JSON array of strings: %v", ErrBadResponse, err)
	}

	out := make([]dates.Date, 0, len(raw))
	for _, s := range raw {
		if !legacyPattern.MatchString(s) {
			return nil, fmt.Errorf("%w: %q is not in DDD, D MMM, YYYY form", ErrBadResponse, s)
		}
		d, err := dates.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
		}
		out = append(out, d)
	}
	return out, nil
}

func transcriptPrompt(transcript string, habitNames []string, today dates.Date) string {
	habitsContext := "User doesn't have any existing habits yet."
	if len(habitNames) > 0 {
		habitsContext = fmt.Sprintf("User's existing habits: %s.", strings.Join(habitNames, ", "))
	}

	return fmt.Sprintf(`Analyze this voice transcript from a habit tracker app: "%s"

%s

Extract the following information and return it as JSON:
1. The habit mentioned (what activity the user is tracking)
2. The date or time period when the user did/wants to do this habit

Today's date for reference: %s

If the transcript mentions or closely matches an existing habit, use that exact habit name.

Return ONLY valid JSON in this exact format:
{
  "habit": "specific habit name",
  "day": "specific date or time description"
}

For example, if the transcript is "I went for a run yesterday", return:
{
  "habit": "run",
  "day": "yesterday"
}

Keep the habit name concise but descriptive. The date can be a specific date, day of week, or relative term.`,
		transcript, habitsContext, today.Legacy())
}

// ProcessTranscript extracts the habit and day a spoken note refers to.
func (p *DateParser) ProcessTranscript(ctx context.Context, transcript string, habitNames []string, today dates.Date) (Transcript, error) {
	input := Sanitize(transcript)
	if input == "" {
		return Transcript{}, apperrors.Invalid("transcript is empty after sanitization")
	}

	reply, err := p.provider.Complete(ctx, transcriptPrompt(input, habitNames, today))
	if err != nil {
		return Transcript{}, err
	}
	logger.Debug("Model replied to transcript prompt", "provider", p.provider.Name(), "reply", reply)

	var out Transcript
	if err := json.Unmarshal([]byte(stripFences(reply)), &out); err != nil {
		return Transcript{}, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	out.Habit = strings.TrimSpace(out.Habit)
	out.Day = strings.TrimSpace(out.Day)
	if out.Habit == "" || out.Day == "" {
		return Transcript{}, fmt.Errorf("%w: missing habit or day", ErrBadResponse)
	}
	return out, nil
}
