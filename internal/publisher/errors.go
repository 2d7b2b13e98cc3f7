package publisher

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v57/github"
)

// TransientError marks a publish failure a retry may fix: rate limits,
// server errors, network blips.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("publish transient (%s): %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// FatalError marks a publish failure no retry will fix: bad credentials,
// invalid repository name. Hint carries a remediation message for the user.
type FatalError struct {
	Op   string
	Hint string
	Err  error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("publish fatal (%s): %v", e.Op, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

// IsTransient reports whether err is retryable.
func IsTransient(err error) bool {
	var t *TransientError
	return errors.As(err, &t)
}

// classify turns a GitHub API error into the transient/fatal taxonomy.
// Every external-call site goes through here so the decision is made once.
func classify(op string, resp *github.Response, err error) error {
	if err == nil {
		return nil
	}
	status := 0
	rateLimited := false
	if resp != nil && resp.Response != nil {
		status = resp.StatusCode
		rateLimited = resp.Rate.Limit > 0 && resp.Rate.Remaining == 0
	}

	switch {
	case status == http.StatusUnauthorized:
		return &FatalError{Op: op, Err: err, Hint: "repository host rejected the token; check GITHUB_TOKEN"}
	case status == http.StatusForbidden && !rateLimited:
		return &FatalError{Op: op, Err: err, Hint: "token lacks permission for this repository"}
	case status == http.StatusUnprocessableEntity:
		return &FatalError{Op: op, Err: err, Hint: "repository host rejected the request; check the repository name"}
	case status == http.StatusNotFound:
		return &FatalError{Op: op, Err: err, Hint: "repository not found; it may have been deleted remotely"}
	case status == http.StatusTooManyRequests,
		status == http.StatusForbidden && rateLimited,
		status >= 500:
		return &TransientError{Op: op, Err: err}
	case status == 0:
		// No HTTP response at all: network-level failure, retryable.
		return &TransientError{Op: op, Err: err}
	default:
		return &FatalError{Op: op, Err: err}
	}
}
