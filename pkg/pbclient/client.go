// Package pbclient provides the main entry point for creating PocketBase API clients
package pbclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/pocketbase-client/internal/client"
	"github.com/fivetwenty-io/pocketbase-client/pkg/pocketbase"
)

// New creates a new PocketBase API client.
func New(config *pocketbase.Config) (pocketbase.Client, error) {
	if config == nil {
		return nil, pocketbase.ErrConfigRequired
	}

	if config.BaseURL == "" {
		return nil, pocketbase.ErrBaseURLRequired
	}

	// Normalize base URL
	baseURL := strings.TrimSuffix(config.BaseURL, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	config.BaseURL = baseURL

	pbClient, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return pbClient, nil
}

// NewWithBaseURL creates a new client with just a base URL (no auth).
func NewWithBaseURL(baseURL string) (pocketbase.Client, error) {
	return New(&pocketbase.Config{
		BaseURL: baseURL,
	})
}

// NewWithToken creates a new client with a base URL and a previously obtained
// auth token.
func NewWithToken(baseURL, token string) (pocketbase.Client, error) {
	return New(&pocketbase.Config{
		BaseURL:   baseURL,
		AuthToken: token,
	})
}

// NewWithPassword creates a new client and authenticates against the default
// auth collection.
func NewWithPassword(ctx context.Context, baseURL, identity, password string) (pocketbase.Client, error) {
	pbClient, err := New(&pocketbase.Config{
		BaseURL: baseURL,
	})
	if err != nil {
		return nil, err
	}

	_, err = pbClient.Auth().AuthWithPassword(ctx, identity, password)
	if err != nil {
		return nil, fmt.Errorf("authenticating: %w", err)
	}

	return pbClient, nil
}

// NewWithAdminPassword creates a new client and authenticates as a superuser.
func NewWithAdminPassword(ctx context.Context, baseURL, email, password string) (pocketbase.Client, error) {
	pbClient, err := New(&pocketbase.Config{
		BaseURL: baseURL,
	})
	if err != nil {
		return nil, err
	}

	_, err = pbClient.Admins().AuthWithPassword(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("authenticating superuser: %w", err)
	}

	return pbClient, nil
}
