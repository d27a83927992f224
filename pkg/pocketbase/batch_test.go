package pocketbase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fivetwenty-io/pocketbase-client/pkg/pocketbase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRecordMissing = errors.New("record missing")

// fakeRecords is an in-memory RecordsClient for batch tests.
type fakeRecords struct {
	mu      sync.Mutex
	records map[string]pocketbase.Record
	nextID  int
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{records: make(map[string]pocketbase.Record)}
}

func (f *fakeRecords) List(ctx context.Context, opts *pocketbase.ListOptions) (*pocketbase.ListResult, error) {
	return &pocketbase.ListResult{Page: 1, TotalPages: 1}, nil
}

func (f *fakeRecords) GetOne(ctx context.Context, recordID string, expand string) (pocketbase.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	record, ok := f.records[recordID]
	if !ok {
		return nil, errRecordMissing
	}

	return record, nil
}

func (f *fakeRecords) Create(ctx context.Context, data pocketbase.Record, opts *pocketbase.WriteOptions) (pocketbase.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	id := "rec" + string(rune('0'+f.nextID))

	stored := pocketbase.Record{"id": id}
	for key, value := range data {
		stored[key] = value
	}

	f.records[id] = stored

	return stored, nil
}

func (f *fakeRecords) Update(ctx context.Context, recordID string, data pocketbase.Record, opts *pocketbase.WriteOptions) (pocketbase.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	record, ok := f.records[recordID]
	if !ok {
		return nil, errRecordMissing
	}

	for key, value := range data {
		record[key] = value
	}

	return record, nil
}

func (f *fakeRecords) Delete(ctx context.Context, recordID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.records[recordID]; !ok {
		return errRecordMissing
	}

	delete(f.records, recordID)

	return nil
}

func (f *fakeRecords) ListAll(ctx context.Context, batchSize int, opts *pocketbase.ListOptions) ([]pocketbase.Record, error) {
	return nil, nil
}

func (f *fakeRecords) WithFilter(filter string) pocketbase.RecordsClient {
	return f
}

// fakeClient hands out one fakeRecords per collection.
type fakeClient struct {
	mu          sync.Mutex
	collections map[string]*fakeRecords
}

func newFakeClient() *fakeClient {
	return &fakeClient{collections: make(map[string]*fakeRecords)}
}

func (c *fakeClient) Collection(name string) pocketbase.RecordsClient {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, ok := c.collections[name]
	if !ok {
		records = newFakeRecords()
		c.collections[name] = records
	}

	return records
}

func (c *fakeClient) Auth() pocketbase.AuthClient                    { return nil }
func (c *fakeClient) AuthCollection(name string) pocketbase.AuthClient { return nil }
func (c *fakeClient) Admins() pocketbase.AdminClient                 { return nil }

func (c *fakeClient) Health(ctx context.Context) (pocketbase.Record, error) {
	return pocketbase.Record{}, nil
}

func (c *fakeClient) SendResetPasswordEmail(ctx context.Context, email string) error { return nil }
func (c *fakeClient) ConfirmVerification(ctx context.Context, token string) error    { return nil }

func (c *fakeClient) ConfirmPasswordReset(ctx context.Context, token, password, passwordConfirm string) error {
	return nil
}

func (c *fakeClient) BaseURL() string { return "http://127.0.0.1:8090" }

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestBatchExecutor(t *testing.T) {
	t.Parallel()
	t.Run("executes operations and preserves order", func(t *testing.T) {
		t.Parallel()

		client := newFakeClient()
		executor := pocketbase.NewBatchExecutor(client, 2)

		operations := pocketbase.NewBatchBuilder().
			AddCreate("op1", "posts", pocketbase.Record{"title": "first"}).
			AddCreate("op2", "posts", pocketbase.Record{"title": "second"}).
			AddGet("op3", "posts", "does-not-exist").
			Build()

		results, err := executor.Execute(context.Background(), operations)
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.Equal(t, "op1", results[0].ID)
		assert.True(t, results[0].Success)
		assert.Equal(t, "first", results[0].Data["title"])

		assert.Equal(t, "op2", results[1].ID)
		assert.True(t, results[1].Success)

		assert.Equal(t, "op3", results[2].ID)
		assert.False(t, results[2].Success)
		require.ErrorIs(t, results[2].Error, errRecordMissing)
	})

	t.Run("update and delete round trip", func(t *testing.T) {
		t.Parallel()

		client := newFakeClient()
		records := client.Collection("posts")

		created, err := records.Create(context.Background(), pocketbase.Record{"title": "orig"}, nil)
		require.NoError(t, err)

		id, _ := created["id"].(string)

		executor := pocketbase.NewBatchExecutor(client, 1)

		operations := pocketbase.NewBatchBuilder().
			AddUpdate("update", "posts", id, pocketbase.Record{"title": "changed"}).
			AddGet("get", "posts", id).
			AddDelete("delete", "posts", id).
			Build()

		results, err := executor.Execute(context.Background(), operations)
		require.NoError(t, err)
		require.Len(t, results, 3)

		for _, result := range results {
			assert.True(t, result.Success, "operation %s failed: %v", result.ID, result.Error)
		}

		assert.Equal(t, "changed", results[1].Data["title"])
	})

	t.Run("rejects unknown operation types", func(t *testing.T) {
		t.Parallel()

		executor := pocketbase.NewBatchExecutor(newFakeClient(), 1)

		results, err := executor.Execute(context.Background(), []pocketbase.BatchOperation{
			{ID: "bad", Type: "upsert", Collection: "posts"},
		})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.False(t, results[0].Success)
		require.ErrorIs(t, results[0].Error, pocketbase.ErrUnsupportedOperationType)
	})

	t.Run("rejects empty collection", func(t *testing.T) {
		t.Parallel()

		executor := pocketbase.NewBatchExecutor(newFakeClient(), 1)

		results, err := executor.Execute(context.Background(), []pocketbase.BatchOperation{
			{ID: "bad", Type: "create", Data: pocketbase.Record{}},
		})
		require.NoError(t, err)
		require.ErrorIs(t, results[0].Error, pocketbase.ErrEmptyCollection)
	})

	t.Run("dispatches in order with concurrency 1", func(t *testing.T) {
		t.Parallel()

		executor := pocketbase.NewBatchExecutor(newFakeClient(), 1)

		var order []string

		operations := make([]pocketbase.BatchOperation, 0, 5)
		for _, id := range []string{"op1", "op2", "op3", "op4", "op5"} {
			operations = append(operations, pocketbase.BatchOperation{
				ID:         id,
				Type:       "create",
				Collection: "posts",
				Data:       pocketbase.Record{"title": id},
				Callback: func(result *pocketbase.BatchResult) {
					order = append(order, result.ID)
				},
			})
		}

		_, err := executor.Execute(context.Background(), operations)
		require.NoError(t, err)
		assert.Equal(t, []string{"op1", "op2", "op3", "op4", "op5"}, order)
	})

	t.Run("invokes callbacks", func(t *testing.T) {
		t.Parallel()

		executor := pocketbase.NewBatchExecutor(newFakeClient(), 1)

		var called bool

		operations := []pocketbase.BatchOperation{
			{
				ID:         "op1",
				Type:       "create",
				Collection: "posts",
				Data:       pocketbase.Record{"title": "x"},
				Callback: func(result *pocketbase.BatchResult) {
					called = true

					assert.True(t, result.Success)
				},
			},
		}

		_, err := executor.Execute(context.Background(), operations)
		require.NoError(t, err)
		assert.True(t, called)
	})
}

func TestBatchBuilder(t *testing.T) {
	t.Parallel()

	operations := pocketbase.NewBatchBuilder().
		AddCreate("c", "posts", pocketbase.Record{"title": "x"}).
		AddUpdate("u", "posts", "rec1", pocketbase.Record{"title": "y"}).
		AddDelete("d", "posts", "rec1").
		AddGet("g", "posts", "rec1").
		AddOperation(pocketbase.BatchOperation{ID: "custom", Type: "get", Collection: "users", RecordID: "u1"}).
		Build()

	require.Len(t, operations, 5)
	assert.Equal(t, "create", operations[0].Type)
	assert.Equal(t, "update", operations[1].Type)
	assert.Equal(t, "rec1", operations[1].RecordID)
	assert.Equal(t, "delete", operations[2].Type)
	assert.Equal(t, "get", operations[3].Type)
	assert.Equal(t, "users", operations[4].Collection)
}
