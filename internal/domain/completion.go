package domain

import (
	"encoding/json"
	"math"
	"sort"
)

// CompletionSet holds the task texts a user has marked done. Identity is the
// exact task text, so two identical lines in a plan share one entry.
type CompletionSet struct {
	done map[string]struct{}
}

func NewCompletionSet(tasks ...string) *CompletionSet {
	s := &CompletionSet{done: make(map[string]struct{}, len(tasks))}
	for _, t := range tasks {
		s.done[t] = struct{}{}
	}
	return s
}

// Toggle adds task if absent, removes it otherwise, and returns the new state.
func (s *CompletionSet) Toggle(task string) bool {
	if s.done == nil {
		s.done = make(map[string]struct{})
	}
	if _, ok := s.done[task]; ok {
		delete(s.done, task)
		return false
	}
	s.done[task] = struct{}{}
	return true
}

func (s *CompletionSet) IsDone(task string) bool {
	if s == nil {
		return false
	}
	_, ok := s.done[task]
	return ok
}

func (s *CompletionSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.done)
}

// Reset empties the set.
func (s *CompletionSet) Reset() {
	s.done = make(map[string]struct{})
}

// Progress returns round(100 * |set ∩ tasks| / len(tasks)). Entries of the
// set that are not in tasks are ignored and an empty task list yields 0.
// Repeated task texts count once in the numerator but every time in the
// denominator.
func (s *CompletionSet) Progress(tasks []string) int {
	if len(tasks) == 0 {
		return 0
	}
	seen := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		if s.IsDone(t) {
			seen[t] = struct{}{}
		}
	}
	return int(math.Round(100 * float64(len(seen)) / float64(len(tasks))))
}

// Items returns the set content sorted for stable output.
func (s *CompletionSet) Items() []string {
	if s == nil {
		return []string{}
	}
	items := make([]string, 0, len(s.done))
	for t := range s.done {
		items = append(items, t)
	}
	sort.Strings(items)
	return items
}

func (s *CompletionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Items())
}

func (s *CompletionSet) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*s = *NewCompletionSet(items...)
	return nil
}
