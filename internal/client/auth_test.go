package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fivetwenty-io/pocketbase-client/internal/client"
	"github.com/fivetwenty-io/pocketbase-client/pkg/pocketbase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestAuthClient_AuthWithPassword(t *testing.T) {
	t.Parallel()
	t.Run("saves token and record on success", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/api/collections/users/auth-with-password", request.URL.Path)
			assert.Equal(t, "POST", request.Method)

			var body map[string]string

			_ = json.NewDecoder(request.Body).Decode(&body)
			assert.Equal(t, "user@example.com", body["identity"])
			assert.Equal(t, "secret", body["password"])

			_ = json.NewEncoder(writer).Encode(map[string]interface{}{
				"token":  "user-token",
				"record": map[string]interface{}{"id": "u1", "email": "user@example.com"},
			})
		}))
		defer server.Close()

		authClient := client.NewTestClient(server.URL).Auth()

		result, err := authClient.AuthWithPassword(context.Background(), "user@example.com", "secret")
		require.NoError(t, err)
		assert.Equal(t, "user-token", result.Token)
		assert.Equal(t, "u1", result.Record["id"])

		assert.Equal(t, "user-token", authClient.Token())
		assert.Equal(t, "u1", authClient.Record()["id"])
		assert.True(t, authClient.IsValid())
	})

	t.Run("custom auth collection uses its own path", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/api/collections/staff/auth-with-password", request.URL.Path)

			_ = json.NewEncoder(writer).Encode(map[string]interface{}{
				"token":  "staff-token",
				"record": map[string]interface{}{"id": "s1"},
			})
		}))
		defer server.Close()

		authClient := client.NewTestClient(server.URL).AuthCollection("staff")

		_, err := authClient.AuthWithPassword(context.Background(), "staff@example.com", "secret")
		require.NoError(t, err)
		assert.Equal(t, "staff-token", authClient.Token())
	})

	t.Run("failed auth leaves store untouched", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(writer).Encode(map[string]interface{}{
				"message": "Failed to authenticate.",
			})
		}))
		defer server.Close()

		authClient := client.NewTestClient(server.URL).Auth()

		result, err := authClient.AuthWithPassword(context.Background(), "user@example.com", "wrong")
		require.Error(t, err)
		assert.Nil(t, result)
		assert.Empty(t, authClient.Token())
		assert.False(t, authClient.IsValid())

		apiErr := &pocketbase.APIError{}
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "Failed to authenticate.", apiErr.Message)
		assert.Equal(t, 400, apiErr.Status)
	})
}

func TestAuthClient_RefreshToken(t *testing.T) {
	t.Parallel()
	t.Run("carries current token and saves the fresh one", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			switch request.URL.Path {
			case "/api/collections/users/auth-with-password":
				_ = json.NewEncoder(writer).Encode(map[string]interface{}{
					"token":  "old-token",
					"record": map[string]interface{}{"id": "u1"},
				})
			case "/api/auth/refresh":
				assert.Equal(t, "Bearer old-token", request.Header.Get("Authorization"))

				_ = json.NewEncoder(writer).Encode(map[string]interface{}{
					"token":  "new-token",
					"record": map[string]interface{}{"id": "u1"},
				})
			default:
				t.Errorf("unexpected path %s", request.URL.Path)
			}
		}))
		defer server.Close()

		authClient := client.NewTestClient(server.URL).Auth()

		_, err := authClient.AuthWithPassword(context.Background(), "user@example.com", "secret")
		require.NoError(t, err)

		result, err := authClient.RefreshToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "new-token", result.Token)
		assert.Equal(t, "new-token", authClient.Token())
	})

	t.Run("fails without a stored token", func(t *testing.T) {
		t.Parallel()

		authClient := client.NewTestClient("http://127.0.0.1:1").Auth()

		_, err := authClient.RefreshToken(context.Background())
		require.ErrorIs(t, err, pocketbase.ErrNoAuthToken)
	})
}

func TestAuthClient_PasswordFlows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		expectedPath string
		call         func(pocketbase.AuthClient, context.Context) error
		expectedBody map[string]string
	}{
		{
			name:         "request password reset",
			expectedPath: "/api/collections/users/request-password-reset",
			call: func(c pocketbase.AuthClient, ctx context.Context) error {
				return c.RequestPasswordReset(ctx, "user@example.com")
			},
			expectedBody: map[string]string{"email": "user@example.com"},
		},
		{
			name:         "confirm verification",
			expectedPath: "/api/collections/users/confirm-verification",
			call: func(c pocketbase.AuthClient, ctx context.Context) error {
				return c.ConfirmVerification(ctx, "verify-token")
			},
			expectedBody: map[string]string{"token": "verify-token"},
		},
		{
			name:         "confirm password reset",
			expectedPath: "/api/collections/users/confirm-password-reset",
			call: func(c pocketbase.AuthClient, ctx context.Context) error {
				return c.ConfirmPasswordReset(ctx, "reset-token", "newpass", "newpass")
			},
			expectedBody: map[string]string{
				"token":           "reset-token",
				"password":        "newpass",
				"passwordConfirm": "newpass",
			},
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.expectedPath, request.URL.Path)
				assert.Equal(t, "POST", request.Method)

				var body map[string]string

				_ = json.NewDecoder(request.Body).Decode(&body)
				assert.Equal(t, testCase.expectedBody, body)

				writer.WriteHeader(http.StatusNoContent)
			}))
			defer server.Close()

			authClient := client.NewTestClient(server.URL).Auth()

			err := testCase.call(authClient, context.Background())
			require.NoError(t, err)
		})
	}
}

func TestAuthClient_Clear(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_ = json.NewEncoder(writer).Encode(map[string]interface{}{
			"token":  "user-token",
			"record": map[string]interface{}{"id": "u1"},
		})
	}))
	defer server.Close()

	authClient := client.NewTestClient(server.URL).Auth()

	_, err := authClient.AuthWithPassword(context.Background(), "user@example.com", "secret")
	require.NoError(t, err)
	require.True(t, authClient.IsValid())

	authClient.Clear()

	assert.Empty(t, authClient.Token())
	assert.Nil(t, authClient.Record())
	assert.False(t, authClient.IsValid())
}
