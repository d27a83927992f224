package integration

import (
	"context"
	"strconv"
	"testing"

	"github.com/fivetwenty-io/pocketbase-client/pkg/pbclient"
	"github.com/fivetwenty-io/pocketbase-client/pkg/pocketbase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWorkflow_CompleteRecordJourney walks through a full client session:
// health check, authentication, record CRUD, pagination, and token refresh.
//
//nolint:funlen // Test functions can be longer for comprehensive testing
func TestWorkflow_CompleteRecordJourney(t *testing.T) {
	t.Parallel()

	server := newFakeServer().start()
	defer server.Close()

	ctx := context.Background()

	client, err := pbclient.NewWithBaseURL(server.URL)
	require.NoError(t, err)

	// 1. Server is reachable
	health, err := client.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "API is healthy.", health["message"])

	// 2. Anonymous writes are rejected
	_, err = client.Collection("posts").Create(ctx, pocketbase.Record{"title": "nope"}, nil)
	require.Error(t, err)
	assert.True(t, pocketbase.IsUnauthorized(err))

	// 3. Authenticate
	result, err := client.Auth().AuthWithPassword(ctx, "tester@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.True(t, client.Auth().IsValid())

	// 4. Create a handful of records
	for i := 1; i <= 5; i++ {
		_, err := client.Collection("posts").Create(ctx, pocketbase.Record{
			"title": "post " + strconv.Itoa(i),
		}, nil)
		require.NoError(t, err)
	}

	// 5. Paginate through them with a small batch size
	all, err := client.Collection("posts").ListAll(ctx, 2, nil)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	// 6. Fetch, update, and verify a single record
	firstID, _ := all[0]["id"].(string)

	record, err := client.Collection("posts").GetOne(ctx, firstID, "")
	require.NoError(t, err)
	assert.Equal(t, "post 1", record["title"])

	updated, err := client.Collection("posts").Update(ctx, firstID, pocketbase.Record{
		"status": "published",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "published", updated["status"])

	// 7. Refresh the session token
	oldToken := client.Auth().Token()

	refreshed, err := client.Auth().RefreshToken(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, oldToken, refreshed.Token)
	assert.Equal(t, refreshed.Token, client.Auth().Token())

	// 8. The refreshed token still works
	_, err = client.Collection("posts").Create(ctx, pocketbase.Record{"title": "post 6"}, nil)
	require.NoError(t, err)

	// 9. Delete a record and confirm it is gone
	require.NoError(t, client.Collection("posts").Delete(ctx, firstID))

	_, err = client.Collection("posts").GetOne(ctx, firstID, "")
	require.Error(t, err)
	assert.True(t, pocketbase.IsNotFound(err))

	// 10. Clearing auth drops the session
	client.Auth().Clear()
	assert.False(t, client.Auth().IsValid())

	_, err = client.Collection("posts").Create(ctx, pocketbase.Record{"title": "nope"}, nil)
	require.Error(t, err)
}

// TestWorkflow_BatchExecution runs concurrent batch operations against the
// fake server end to end.
func TestWorkflow_BatchExecution(t *testing.T) {
	t.Parallel()

	server := newFakeServer().start()
	defer server.Close()

	ctx := context.Background()

	client, err := pbclient.NewWithPassword(ctx, server.URL, "tester@example.com", "secret123")
	require.NoError(t, err)

	operations := pocketbase.NewBatchBuilder().
		AddCreate("op1", "articles", pocketbase.Record{"title": "first"}).
		AddCreate("op2", "articles", pocketbase.Record{"title": "second"}).
		AddCreate("op3", "articles", pocketbase.Record{"title": "third"}).
		Build()

	executor := pocketbase.NewBatchExecutor(client, 3)

	results, err := executor.Execute(ctx, operations)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for _, result := range results {
		assert.True(t, result.Success, "operation %s failed: %v", result.ID, result.Error)
		assert.NotEmpty(t, result.Data["id"])
	}

	all, err := client.Collection("articles").ListAll(ctx, 100, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

// TestWorkflow_SeededToken verifies that a client constructed with a saved
// token can make authenticated calls without logging in again.
func TestWorkflow_SeededToken(t *testing.T) {
	t.Parallel()

	server := newFakeServer().start()
	defer server.Close()

	ctx := context.Background()

	// First session obtains a token.
	first, err := pbclient.NewWithPassword(ctx, server.URL, "tester@example.com", "secret123")
	require.NoError(t, err)

	token := first.Auth().Token()
	require.NotEmpty(t, token)

	// Second session reuses it.
	second, err := pbclient.NewWithToken(server.URL, token)
	require.NoError(t, err)

	_, err = second.Collection("posts").Create(ctx, pocketbase.Record{"title": "from saved token"}, nil)
	require.NoError(t, err)

	// A refresh fills in the identity record.
	refreshed, err := second.Auth().RefreshToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tester@example.com", refreshed.Record["email"])
	assert.True(t, second.Auth().IsValid())
}
