// Package client implements the pocketbase.Client interface.
package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fivetwenty-io/pocketbase-client/internal/auth"
	"github.com/fivetwenty-io/pocketbase-client/internal/constants"
	"github.com/fivetwenty-io/pocketbase-client/internal/http"
	"github.com/fivetwenty-io/pocketbase-client/pkg/pocketbase"
)

// Client implements the pocketbase.Client interface.
type Client struct {
	httpClient     *http.Client
	authStore      *auth.Store
	baseURL        string
	authCollection string
	logger         pocketbase.Logger
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *pocketbase.Config) ([]http.Option, error) {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.RetryMax > 0 {
		retryWaitMin := 1 * time.Second
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	if config.Interceptors != nil {
		httpOpts = append(httpOpts, http.WithInterceptors(config.Interceptors))
	}

	if config.Cache != nil {
		cacheManager, err := pocketbase.NewCacheManagerFromConfig(config.Cache)
		if err != nil {
			return nil, fmt.Errorf("configuring cache: %w", err)
		}

		if cacheManager != nil {
			httpOpts = append(httpOpts, http.WithCacheManager(cacheManager))
		}
	}

	return httpOpts, nil
}

// New creates a new PocketBase API client.
func New(config *pocketbase.Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, pocketbase.ErrBaseURLRequired
	}

	authStore := auth.NewStore()
	if config.AuthToken != "" {
		authStore.Save(config.AuthToken, pocketbase.Record{}, false)
	}

	httpOpts, err := createHTTPClientOptions(config)
	if err != nil {
		return nil, err
	}

	httpClient := http.NewClient(config.BaseURL, authStore, httpOpts...)

	authCollection := config.AuthCollection
	if authCollection == "" {
		authCollection = pocketbase.DefaultAuthCollection
	}

	return &Client{
		httpClient:     httpClient,
		authStore:      authStore,
		baseURL:        strings.TrimSuffix(config.BaseURL, "/"),
		authCollection: authCollection,
		logger:         config.Logger,
	}, nil
}

// Collection implements pocketbase.Client.Collection.
func (c *Client) Collection(name string) pocketbase.RecordsClient {
	return NewRecordsClient(c.httpClient, name)
}

// Auth implements pocketbase.Client.Auth.
func (c *Client) Auth() pocketbase.AuthClient {
	return NewAuthClient(c.httpClient, c.authStore, c.authCollection)
}

// AuthCollection implements pocketbase.Client.AuthCollection.
func (c *Client) AuthCollection(name string) pocketbase.AuthClient {
	return NewAuthClient(c.httpClient, c.authStore, name)
}

// Admins implements pocketbase.Client.Admins.
func (c *Client) Admins() pocketbase.AdminClient {
	return NewAdminClient(c.httpClient, c.authStore)
}

// Health implements pocketbase.Client.Health.
func (c *Client) Health(ctx context.Context) (pocketbase.Record, error) {
	resp, err := c.httpClient.Get(ctx, "health", nil)
	if err != nil {
		return nil, fmt.Errorf("checking health: %w", err)
	}

	return http.DecodeRecord(resp)
}

// SendResetPasswordEmail implements pocketbase.Client.SendResetPasswordEmail.
func (c *Client) SendResetPasswordEmail(ctx context.Context, email string) error {
	return c.Auth().RequestPasswordReset(ctx, email)
}

// ConfirmVerification implements pocketbase.Client.ConfirmVerification.
func (c *Client) ConfirmVerification(ctx context.Context, token string) error {
	return c.Auth().ConfirmVerification(ctx, token)
}

// ConfirmPasswordReset implements pocketbase.Client.ConfirmPasswordReset.
func (c *Client) ConfirmPasswordReset(ctx context.Context, token, password, passwordConfirm string) error {
	return c.Auth().ConfirmPasswordReset(ctx, token, password, passwordConfirm)
}

// BaseURL implements pocketbase.Client.BaseURL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// AuthStore exposes the client's auth store to the public constructors.
func (c *Client) AuthStore() *auth.Store {
	return c.authStore
}
