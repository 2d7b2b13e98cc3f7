package services

import (
	"errors"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const serviceName = "devforge"

// envFallbacks maps a credential name to the environment variable consulted
// when the OS keyring has no entry. Headless deployments configure through
// the environment; workstations use the keyring.
var envFallbacks = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"gemini":    "GEMINI_API_KEY",
	"github":    "GITHUB_TOKEN",
}

type KeyringService struct {
}

func NewKeyringService() *KeyringService {
	return &KeyringService{}
}

func (s *KeyringService) StoreApiKey(provider string, apiKey []byte) error {
	if len(apiKey) == 0 {
		return errors.New("API key is empty")
	}
	if provider == "" {
		return errors.New("provider is required")
	}
	return keyring.Set(serviceName, provider, string(apiKey))
}

// GetApiKey resolves a credential from the keyring first, then from the
// provider's environment variable. A missing credential is returned as an
// empty string with no error; callers decide whether that is fatal.
func (s *KeyringService) GetApiKey(provider string) (string, error) {
	if provider == "" {
		return "", errors.New("provider is required")
	}
	value, err := keyring.Get(serviceName, provider)
	if err == nil && strings.TrimSpace(value) != "" {
		return value, nil
	}
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return "", err
	}
	if envName, ok := envFallbacks[provider]; ok {
		return strings.TrimSpace(os.Getenv(envName)), nil
	}
	return "", nil
}

func (s *KeyringService) DeleteApiKey(provider string) error {
	if provider == "" {
		return errors.New("provider is required")
	}
	err := keyring.Delete(serviceName, provider)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
