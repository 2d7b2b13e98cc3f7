package validator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"devforge/internal/models"
	"devforge/internal/tests/mocks"
)

func testConfig() Config {
	return Config{
		MaxAttempts:     3,
		InitialInterval: time.Millisecond,
		MaxInterval:     time.Millisecond,
		RequestTimeout:  time.Second,
	}
}

func newTestValidator(checks *mocks.DeploymentCheckRepositoryMock) *Validator {
	v := NewValidator(checks, testConfig())
	v.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return v
}

func TestValidate_HealthyFirstTry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>welcome</html>"))
	}))
	defer server.Close()

	var recorded []models.DeploymentCheck
	checks := &mocks.DeploymentCheckRepositoryMock{
		AppendFunc: func(check *models.DeploymentCheck) error {
			recorded = append(recorded, *check)
			return nil
		},
	}

	result, err := newTestValidator(checks).Validate(context.Background(), 5, server.URL)
	assert.NoError(t, err)
	assert.Equal(t, models.VerdictPass, result.Verdict)
	assert.Equal(t, 1, result.Attempts)
	assert.Len(t, recorded, 1)
	assert.Equal(t, uint(5), recorded[0].ProjectID)
	assert.Equal(t, 200, recorded[0].HTTPStatus)
}

func TestValidate_ServerErrorFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	result, err := newTestValidator(&mocks.DeploymentCheckRepositoryMock{}).Validate(context.Background(), 5, server.URL)
	assert.NoError(t, err)
	assert.Equal(t, models.VerdictFail, result.Verdict)
	assert.Equal(t, 1, result.Attempts)
}

func TestValidate_ErrorSignatureInOKBodyFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Application Error\nAn error occurred in the application."))
	}))
	defer server.Close()

	result, err := newTestValidator(&mocks.DeploymentCheckRepositoryMock{}).Validate(context.Background(), 5, server.URL)
	assert.NoError(t, err)
	assert.Equal(t, models.VerdictFail, result.Verdict)
	assert.Contains(t, result.Detail, "application error")
}

func TestValidate_StillBuildingThenHealthy(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			http.Error(w, "not yet", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("up"))
	}))
	defer server.Close()

	var recorded int
	checks := &mocks.DeploymentCheckRepositoryMock{
		AppendFunc: func(check *models.DeploymentCheck) error {
			recorded++
			assert.Equal(t, recorded, check.Attempt)
			return nil
		},
	}

	result, err := newTestValidator(checks).Validate(context.Background(), 5, server.URL)
	assert.NoError(t, err)
	assert.Equal(t, models.VerdictPass, result.Verdict)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, 3, recorded)
}

func TestValidate_Persistent404Fails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	var recorded int
	checks := &mocks.DeploymentCheckRepositoryMock{
		AppendFunc: func(check *models.DeploymentCheck) error {
			recorded++
			assert.Equal(t, 404, check.HTTPStatus)
			return nil
		},
	}

	result, err := newTestValidator(checks).Validate(context.Background(), 5, server.URL)
	assert.NoError(t, err)
	assert.Equal(t, models.VerdictFail, result.Verdict)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, 3, recorded)
	assert.Contains(t, result.Detail, "still status 404")
}

func TestValidate_PersistentServiceUnavailableFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "warming up", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	result, err := newTestValidator(&mocks.DeploymentCheckRepositoryMock{}).Validate(context.Background(), 5, server.URL)
	assert.NoError(t, err)
	assert.Equal(t, models.VerdictFail, result.Verdict)
	assert.Equal(t, 3, result.Attempts)
}

func TestValidate_RedirectClassStatusPasses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotModified)
	}))
	defer server.Close()

	result, err := newTestValidator(&mocks.DeploymentCheckRepositoryMock{}).Validate(context.Background(), 5, server.URL)
	assert.NoError(t, err)
	assert.Equal(t, models.VerdictPass, result.Verdict)
	assert.Equal(t, 1, result.Attempts)
}

func TestValidate_UnreachableGivesUnknown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	result, err := newTestValidator(&mocks.DeploymentCheckRepositoryMock{}).Validate(context.Background(), 5, url)
	assert.NoError(t, err)
	assert.Equal(t, models.VerdictUnknown, result.Verdict)
	assert.Equal(t, 3, result.Attempts)
	assert.Contains(t, result.Detail, "no response after 3 attempts")
}

func TestValidate_EmptyURL(t *testing.T) {
	_, err := newTestValidator(&mocks.DeploymentCheckRepositoryMock{}).Validate(context.Background(), 5, "  ")
	assert.Error(t, err)
}
