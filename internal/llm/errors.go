package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind classifies provider failures for the retry policy.
type Kind int

const (
	// KindUnavailable covers network failures and 5xx responses.
	KindUnavailable Kind = iota
	KindRateLimited
	// KindInvalid means the content did not match the schema.
	KindInvalid
	// KindTruncated means generation hit the token limit.
	KindTruncated
	// KindRejected covers 4xx responses other than 429.
	KindRejected
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate limited"
	case KindInvalid:
		return "invalid response"
	case KindTruncated:
		return "truncated"
	case KindRejected:
		return "rejected"
	default:
		return "unavailable"
	}
}

// Error is the failure type returned by every provider.
type Error struct {
	Kind       Kind
	RetryAfter time.Duration
	Content    json.RawMessage
	Err        error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "llm: " + e.Kind.String()
	}
	return fmt.Sprintf("llm: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of err, and false when err is not an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func invalid(content json.RawMessage, format string, args ...any) error {
	return &Error{Kind: KindInvalid, Content: content, Err: fmt.Errorf(format, args...)}
}

// fromStatus maps an HTTP status reported by an SDK.
func fromStatus(status int, err error) error {
	switch {
	case status == http.StatusTooManyRequests:
		return &Error{Kind: KindRateLimited, Err: err}
	case status >= 400 && status < 500:
		return &Error{Kind: KindRejected, Err: err}
	default:
		return &Error{Kind: KindUnavailable, Err: err}
	}
}
