package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/pocketbase-client/internal/auth"
	"github.com/fivetwenty-io/pocketbase-client/internal/http"
	"github.com/fivetwenty-io/pocketbase-client/pkg/pocketbase"
)

// AuthClient implements pocketbase.AuthClient for one auth collection.
type AuthClient struct {
	httpClient *http.Client
	authStore  *auth.Store
	collection string
}

// NewAuthClient creates an auth client bound to the given auth collection.
func NewAuthClient(httpClient *http.Client, authStore *auth.Store, collection string) *AuthClient {
	return &AuthClient{
		httpClient: httpClient,
		authStore:  authStore,
		collection: collection,
	}
}

func (c *AuthClient) collectionPath(suffix string) string {
	return "collections/" + url.PathEscape(c.collection) + "/" + suffix
}

// AuthWithPassword implements pocketbase.AuthClient.AuthWithPassword.
func (c *AuthClient) AuthWithPassword(ctx context.Context, identity, password string) (*pocketbase.AuthResult, error) {
	resp, err := c.httpClient.Post(ctx, c.collectionPath("auth-with-password"), pocketbase.Record{
		"identity": identity,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("authenticating with %q: %w", c.collection, err)
	}

	var result pocketbase.AuthResult

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing auth response: %w", err)
	}

	c.authStore.Save(result.Token, result.Record, false)

	return &result, nil
}

// RefreshToken implements pocketbase.AuthClient.RefreshToken. The request
// carries the stored token, so an empty store fails fast without a request.
func (c *AuthClient) RefreshToken(ctx context.Context) (*pocketbase.AuthResult, error) {
	if c.authStore.Token() == "" {
		return nil, pocketbase.ErrNoAuthToken
	}

	resp, err := c.httpClient.Post(ctx, "auth/refresh", nil)
	if err != nil {
		return nil, fmt.Errorf("refreshing token: %w", err)
	}

	var result pocketbase.AuthResult

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing auth response: %w", err)
	}

	c.authStore.Save(result.Token, result.Record, c.authStore.IsSuperuser())

	return &result, nil
}

// RequestPasswordReset implements pocketbase.AuthClient.RequestPasswordReset.
func (c *AuthClient) RequestPasswordReset(ctx context.Context, email string) error {
	_, err := c.httpClient.Post(ctx, c.collectionPath("request-password-reset"), pocketbase.Record{
		"email": email,
	})
	if err != nil {
		return fmt.Errorf("requesting password reset: %w", err)
	}

	return nil
}

// ConfirmVerification implements pocketbase.AuthClient.ConfirmVerification.
func (c *AuthClient) ConfirmVerification(ctx context.Context, token string) error {
	_, err := c.httpClient.Post(ctx, c.collectionPath("confirm-verification"), pocketbase.Record{
		"token": token,
	})
	if err != nil {
		return fmt.Errorf("confirming verification: %w", err)
	}

	return nil
}

// ConfirmPasswordReset implements pocketbase.AuthClient.ConfirmPasswordReset.
func (c *AuthClient) ConfirmPasswordReset(ctx context.Context, token, password, passwordConfirm string) error {
	_, err := c.httpClient.Post(ctx, c.collectionPath("confirm-password-reset"), pocketbase.Record{
		"token":           token,
		"password":        password,
		"passwordConfirm": passwordConfirm,
	})
	if err != nil {
		return fmt.Errorf("confirming password reset: %w", err)
	}

	return nil
}

// Token implements pocketbase.AuthClient.Token.
func (c *AuthClient) Token() string {
	return c.authStore.Token()
}

// Record implements pocketbase.AuthClient.Record.
func (c *AuthClient) Record() pocketbase.Record {
	return c.authStore.Record()
}

// IsValid implements pocketbase.AuthClient.IsValid.
func (c *AuthClient) IsValid() bool {
	return c.authStore.IsValid()
}

// Clear implements pocketbase.AuthClient.Clear.
func (c *AuthClient) Clear() {
	c.authStore.Clear()
}
