package validator

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"devforge/internal/models"
	"devforge/internal/repositories"
)

// Config bounds the polling loop. Attempts are spaced with exponential
// backoff capped at MaxInterval. VerdictUnknown is reserved for a deployment
// that never answered at all; one that was reachable but still erroring when
// attempts run out is VerdictFail.
type Config struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	RequestTimeout  time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxAttempts:     8,
		InitialInterval: 5 * time.Second,
		MaxInterval:     60 * time.Second,
		RequestTimeout:  15 * time.Second,
	}
}

// Result is the outcome of one validation run.
type Result struct {
	Verdict  models.Verdict
	Attempts int
	Detail   string
}

// errorSignatures are substrings in a 200 body that still mean the app is
// broken: platform error pages and framework stack traces served with a
// success status.
var errorSignatures = []string{
	"application error",
	"internal server error",
	"traceback (most recent call last)",
	"cannot get /",
	"502 bad gateway",
	"service unavailable",
}

// Validator polls a deployed URL until it answers healthily, recording every
// attempt for later inspection.
type Validator struct {
	checks repositories.DeploymentCheckRepository
	config Config
	client *http.Client
	sleep  func(context.Context, time.Duration) error
}

func NewValidator(checks repositories.DeploymentCheckRepository, config Config) *Validator {
	return &Validator{
		checks: checks,
		config: config,
		client: &http.Client{Timeout: config.RequestTimeout},
		sleep:  sleepCtx,
	}
}

// Validate polls targetURL until it gets a healthy response, a response that
// proves the deployment is broken, or attempts run out. Every attempt is
// appended as a DeploymentCheck. Reachable-but-broken gives VerdictFail,
// including a deployment that still answers an error status on the last
// attempt; VerdictUnknown is kept for a target that never responded, since a
// slow platform build is indistinguishable from a dead one from the outside.
func (v *Validator) Validate(ctx context.Context, projectID uint, targetURL string) (*Result, error) {
	if strings.TrimSpace(targetURL) == "" {
		return nil, fmt.Errorf("validate: target URL is empty")
	}

	interval := v.config.InitialInterval
	lastReachableStatus := 0
	lastDetail := ""

	for attempt := 1; attempt <= v.config.MaxAttempts; attempt++ {
		verdict, status, detail := v.probe(ctx, targetURL)
		lastDetail = detail
		if status > 0 {
			lastReachableStatus = status
		}

		check := &models.DeploymentCheck{
			ProjectID:  projectID,
			TargetURL:  targetURL,
			Attempt:    attempt,
			HTTPStatus: status,
			LogExcerpt: detail,
			Verdict:    verdict,
		}
		if err := v.checks.Append(check); err != nil {
			return nil, fmt.Errorf("validate: failed to record check: %w", err)
		}

		switch verdict {
		case models.VerdictPass:
			log.Printf("Validate: %s healthy after %d attempt(s)", targetURL, attempt)
			return &Result{Verdict: models.VerdictPass, Attempts: attempt, Detail: detail}, nil
		case models.VerdictFail:
			log.Printf("Validate: %s broken after %d attempt(s): %s", targetURL, attempt, detail)
			return &Result{Verdict: models.VerdictFail, Attempts: attempt, Detail: detail}, nil
		}

		if attempt < v.config.MaxAttempts {
			if err := v.sleep(ctx, interval); err != nil {
				return nil, err
			}
			interval *= 2
			if interval > v.config.MaxInterval {
				interval = v.config.MaxInterval
			}
		}
	}

	// Out of attempts. A deployment that answered an error status and never
	// recovered is broken, not inconclusive.
	if lastReachableStatus >= 400 {
		detail := fmt.Sprintf("still status %d after %d attempts: %s", lastReachableStatus, v.config.MaxAttempts, lastDetail)
		log.Printf("Validate: %s broken, %s", targetURL, detail)
		return &Result{Verdict: models.VerdictFail, Attempts: v.config.MaxAttempts, Detail: detail}, nil
	}
	detail := lastDetail
	if lastReachableStatus == 0 {
		detail = fmt.Sprintf("no response after %d attempts: %s", v.config.MaxAttempts, lastDetail)
	}
	log.Printf("Validate: %s inconclusive after %d attempts", targetURL, v.config.MaxAttempts)
	return &Result{Verdict: models.VerdictUnknown, Attempts: v.config.MaxAttempts, Detail: detail}, nil
}

// probe performs one request and classifies the answer. A zero status means
// the request never completed.
func (v *Validator) probe(ctx context.Context, targetURL string) (models.Verdict, int, string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return models.VerdictUnknown, 0, err.Error()
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return models.VerdictUnknown, 0, err.Error()
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	excerpt := strings.TrimSpace(string(body))
	if len(excerpt) > 512 {
		excerpt = excerpt[:512]
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		// The client follows redirects, so a lingering 3xx terminal answer
		// counts as healthy the same way a 2xx does.
		if sig := matchErrorSignature(excerpt); sig != "" {
			return models.VerdictFail, resp.StatusCode, fmt.Sprintf("error signature %q in response body", sig)
		}
		return models.VerdictPass, resp.StatusCode, excerpt
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusServiceUnavailable:
		// Platforms serve these while a build is still in flight.
		return models.VerdictUnknown, resp.StatusCode, fmt.Sprintf("status %d, deployment may still be building", resp.StatusCode)
	case resp.StatusCode >= 500:
		return models.VerdictFail, resp.StatusCode, fmt.Sprintf("server error %d: %s", resp.StatusCode, excerpt)
	case resp.StatusCode >= 400:
		return models.VerdictFail, resp.StatusCode, fmt.Sprintf("client error %d: %s", resp.StatusCode, excerpt)
	default:
		return models.VerdictUnknown, resp.StatusCode, fmt.Sprintf("unexpected status %d", resp.StatusCode)
	}
}

func matchErrorSignature(body string) string {
	lower := strings.ToLower(body)
	for _, sig := range errorSignatures {
		if strings.Contains(lower, sig) {
			return sig
		}
	}
	return ""
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
