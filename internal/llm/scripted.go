package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// Reply is one scripted outcome.
type Reply struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// Scripted replays replies in order and records requests. Once the script
// runs out it fails with KindUnavailable. Responses are checked against
// the request schema like a real provider.
type Scripted struct {
	mu      sync.Mutex
	replies []Reply
	calls   []Request
}

func NewScripted(replies ...Reply) *Scripted {
	return &Scripted{replies: replies}
}

func (s *Scripted) ModelID() string { return "scripted" }

func (s *Scripted) Generate(_ context.Context, req Request) (*Response, error) {
	s.mu.Lock()
	s.calls = append(s.calls, req)
	if len(s.replies) == 0 {
		s.mu.Unlock()
		return nil, &Error{Kind: KindUnavailable}
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	s.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	return finish(req, r.Content, r.Usage, "scripted", StopEnd)
}

// Push appends replies to the script.
func (s *Scripted) Push(replies ...Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, replies...)
}

// Calls returns the requests received so far.
func (s *Scripted) Calls() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.calls...)
}
