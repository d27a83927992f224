package client

import (
	"strings"

	"github.com/fivetwenty-io/pocketbase-client/internal/auth"
	internalhttp "github.com/fivetwenty-io/pocketbase-client/internal/http"
)

// NewTestClient creates a client against the given base URL with an empty
// auth store, for use by tests.
func NewTestClient(baseURL string) *Client {
	authStore := auth.NewStore()

	return &Client{
		httpClient:     internalhttp.NewClient(baseURL, authStore),
		authStore:      authStore,
		baseURL:        strings.TrimSuffix(baseURL, "/"),
		authCollection: "users",
	}
}
