// Package auth stores the backend bearer token in the operating system
// keyring.
package auth

import (
	"errors"
	"net/url"
	"strings"

	"github.com/zalando/go-keyring"
)

// ServiceName is the keyring service entries are filed under.
const ServiceName = "sitechat"

// ErrTokenNotFound is returned when no token is stored for the endpoint.
var ErrTokenNotFound = errors.New("token not found")

// KeyringStore persists one token per backend endpoint.
type KeyringStore struct {
	serviceName string
}

// NewKeyringStore creates a store; an empty serviceName uses ServiceName.
func NewKeyringStore(serviceName string) *KeyringStore {
	if serviceName == "" {
		serviceName = ServiceName
	}
	return &KeyringStore{serviceName: serviceName}
}

// NormalizeEndpoint reduces an endpoint URL to a stable keyring account
// key (the host, or the raw string when it does not parse as a URL).
func NormalizeEndpoint(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err == nil && u.Host != "" {
		return strings.ToLower(u.Host)
	}
	return strings.ToLower(strings.TrimSpace(endpoint))
}

// SetToken stores the bearer token for an endpoint.
func (k *KeyringStore) SetToken(endpoint, token string) error {
	return keyring.Set(k.serviceName, NormalizeEndpoint(endpoint), token)
}

// GetToken returns the bearer token for an endpoint.
func (k *KeyringStore) GetToken(endpoint string) (string, error) {
	token, err := keyring.Get(k.serviceName, NormalizeEndpoint(endpoint))
	if err == nil {
		return token, nil
	}
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrTokenNotFound
	}
	return "", err
}

// DeleteToken removes the stored token for an endpoint.
func (k *KeyringStore) DeleteToken(endpoint string) error {
	err := keyring.Delete(k.serviceName, NormalizeEndpoint(endpoint))
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrTokenNotFound
	}
	return err
}
