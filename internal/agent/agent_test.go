package agent

import (
	"context"
	"errors"
	"sync"
)

// scriptedLLM replays canned replies in order. A nil entry in errs means the
// matching reply is returned successfully.
type scriptedLLM struct {
	mu      sync.Mutex
	replies []string
	errs    []error
	systems []string
	calls   int
}

func (s *scriptedLLM) Generate(ctx context.Context, system, user string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	s.calls++
	s.systems = append(s.systems, system)
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.replies) {
		return s.replies[i], nil
	}
	return "", errors.New("scripted llm exhausted")
}

// failingLLM errors on every call.
type failingLLM struct{}

func (failingLLM) Generate(ctx context.Context, system, user string) (string, error) {
	return "", errors.New("llm unavailable")
}

// recordingPipeline captures the queries routed to it.
type recordingPipeline struct {
	name    string
	queries []string
}

func (p *recordingPipeline) Handle(ctx context.Context, query string) *Result {
	p.queries = append(p.queries, query)
	return &Result{Agent: p.name, Response: "handled by " + p.name}
}
