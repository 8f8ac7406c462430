package domain

import (
	"strings"
	"time"
)

// Task list markers recognised at the start of a trimmed plan line.
var taskMarkers = []string{"- ", "* "}

// Plan is a generated marketing plan. The text is opaque markdown; checklist
// items are derived from it with ExtractTasks.
type Plan struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Markdown  string    `json:"markdown"`
	Input     QuizInput `json:"input"`
	CreatedAt time.Time `json:"created_at"`
}

// Tasks returns the checklist items of the plan in document order.
func (p *Plan) Tasks() []string {
	if p == nil {
		return nil
	}
	return ExtractTasks(p.Markdown)
}

// ExtractTasks returns every bullet line of text, in order, with the marker
// and surrounding whitespace removed. Duplicates are kept.
func ExtractTasks(text string) []string {
	var tasks []string
	for _, line := range strings.Split(text, "\n") {
		if task, ok := ParseTaskLine(line); ok {
			tasks = append(tasks, task)
		}
	}
	return tasks
}

// ParseTaskLine reports whether line is a checklist item and returns its text.
func ParseTaskLine(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	for _, marker := range taskMarkers {
		if strings.HasPrefix(trimmed, marker) {
			return strings.TrimSpace(trimmed[len(marker):]), true
		}
	}
	return "", false
}
