// Package voice places scheduled check-in phone calls and reads the
// user's habits back to them.
package voice

import (
	"fmt"
	"strings"

	"github.com/julianstephens/dailypunch/internal/dates"
)

const (
	gatherPrompt   = "Press 1 to mark a habit as complete, or press 2 to hear your habits again."
	whichHabitText = "Which habit did you complete? Say the habit name after the beep."
	gatherDigits   = "12"
	gatherTimeout  = 10000
)

// HabitStatus is one habit and whether it was completed today.
type HabitStatus struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

// CheckInMessage builds the spoken greeting for a call. An empty name
// gives a generic greeting.
func CheckInMessage(habits []HabitStatus, name string, today dates.Date) string {
	greeting := "Hey there!"
	if name != "" {
		greeting = fmt.Sprintf("Hey %s!", name)
	}

	var done, todo []string
	for _, h := range habits {
		if h.Completed {
			done = append(done, h.Name)
		} else {
			todo = append(todo, h.Name)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s It's %s. Let's check in on your habits. ", greeting, today.Time().Format("Monday, January 2"))
	if len(done) > 0 {
		fmt.Fprintf(&b, "Great job on completing %s! ", strings.Join(done, ", "))
	}
	switch {
	case len(todo) > 0:
		fmt.Fprintf(&b, "You still have %s to go. ", strings.Join(todo, ", "))
		b.WriteString("Would you like to tell me about any of these?")
	case len(done) > 0:
		b.WriteString("You've completed all your habits for today! Amazing work!")
	default:
		b.WriteString("Let's get started with your habits today!")
	}
	return b.String()
}
