package volcengine

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredentials indicates the access key or secret key is absent.
	// It is returned before any request is built or sent.
	ErrMissingCredentials = errors.New("volcengine: access key and secret key are required")
	// ErrUpstreamCall matches every *CallError.
	ErrUpstreamCall = errors.New("volcengine: upstream call failed")
	// ErrUpstreamFormat matches every *FormatError.
	ErrUpstreamFormat = errors.New("volcengine: unexpected upstream response")
)

// CallError reports a transport-level failure talking to the upstream API.
type CallError struct {
	Op  string
	Err error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("volcengine: %s: %v", e.Op, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

func (e *CallError) Is(target error) bool { return target == ErrUpstreamCall }

// FormatError reports a response that arrived but lacks the fields the operation
// needs. Detail describes the payload shape, never its secrets.
type FormatError struct {
	Op         string
	StatusCode int
	Detail     string
}

func (e *FormatError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("volcengine: %s: http %d: %s", e.Op, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("volcengine: %s: %s", e.Op, e.Detail)
}

func (e *FormatError) Is(target error) bool { return target == ErrUpstreamFormat }
