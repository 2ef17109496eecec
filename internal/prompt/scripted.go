package prompt

import (
	"context"
	"sync"
)

// Answer is a scripted reply to a text prompt.
type Answer struct {
	Value string
	OK    bool
}

// Scripted answers prompts from fixed lists, in order. Once a list runs
// out every further question is declined. The zero value declines
// everything.
type Scripted struct {
	mu       sync.Mutex
	confirms []bool
	answers  []Answer
	asked    []string
}

func NewScripted(confirms []bool, answers []Answer) *Scripted {
	return &Scripted{confirms: confirms, answers: answers}
}

func (s *Scripted) Confirm(_ context.Context, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asked = append(s.asked, message)
	if len(s.confirms) == 0 {
		return false
	}
	yes := s.confirms[0]
	s.confirms = s.confirms[1:]
	return yes
}

func (s *Scripted) Prompt(_ context.Context, message, _ string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asked = append(s.asked, message)
	if len(s.answers) == 0 {
		return "", false
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a.Value, a.OK
}

// Asked returns every question asked so far.
func (s *Scripted) Asked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.asked...)
}
