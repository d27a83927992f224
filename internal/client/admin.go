package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fivetwenty-io/pocketbase-client/internal/auth"
	"github.com/fivetwenty-io/pocketbase-client/internal/http"
	"github.com/fivetwenty-io/pocketbase-client/pkg/pocketbase"
)

// AdminClient implements pocketbase.AdminClient.
type AdminClient struct {
	httpClient *http.Client
	authStore  *auth.Store
}

// NewAdminClient creates a superuser auth client.
func NewAdminClient(httpClient *http.Client, authStore *auth.Store) *AdminClient {
	return &AdminClient{
		httpClient: httpClient,
		authStore:  authStore,
	}
}

// AuthWithPassword implements pocketbase.AdminClient.AuthWithPassword.
func (c *AdminClient) AuthWithPassword(ctx context.Context, email, password string) (*pocketbase.AuthResult, error) {
	resp, err := c.httpClient.Post(ctx, "_superusers/auth-with-password", pocketbase.Record{
		"identity": email,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("authenticating superuser: %w", err)
	}

	var result pocketbase.AuthResult

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing auth response: %w", err)
	}

	c.authStore.Save(result.Token, result.Record, true)

	return &result, nil
}

// IsAuthenticated implements pocketbase.AdminClient.IsAuthenticated.
func (c *AdminClient) IsAuthenticated() bool {
	return c.authStore.IsValid() && c.authStore.IsSuperuser()
}

// IsSuperAdmin implements pocketbase.AdminClient.IsSuperAdmin. Superusers
// are always super admins, so this mirrors IsAuthenticated.
func (c *AdminClient) IsSuperAdmin() bool {
	return c.IsAuthenticated()
}

// Token implements pocketbase.AdminClient.Token.
func (c *AdminClient) Token() string {
	return c.authStore.Token()
}

// Record implements pocketbase.AdminClient.Record.
func (c *AdminClient) Record() pocketbase.Record {
	return c.authStore.Record()
}

// Clear implements pocketbase.AdminClient.Clear.
func (c *AdminClient) Clear() {
	c.authStore.Clear()
}
