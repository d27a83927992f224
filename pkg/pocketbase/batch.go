package pocketbase

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// BatchOperation represents a single record operation in a batch.
type BatchOperation struct {
	ID         string
	Type       string // "create", "update", "delete", "get"
	Collection string
	RecordID   string // required for update, delete and get
	Data       Record // required for create and update
	Callback   func(result *BatchResult)
}

// BatchResult represents the result of a batch operation.
type BatchResult struct {
	ID       string
	Success  bool
	Data     Record
	Error    error
	Duration time.Duration
}

// BatchExecutor executes record operations concurrently against a client.
type BatchExecutor struct {
	client      Client
	concurrency int
	timeout     time.Duration
}

// NewBatchExecutor creates a new batch executor.
func NewBatchExecutor(client Client, concurrency int) *BatchExecutor {
	if concurrency <= 0 {
		concurrency = 5
	}

	return &BatchExecutor{
		client:      client,
		concurrency: concurrency,
		timeout:     30 * time.Second,
	}
}

// SetTimeout sets the per-operation timeout.
func (b *BatchExecutor) SetTimeout(timeout time.Duration) {
	b.timeout = timeout
}

// Execute runs a batch of operations. A concurrency slot is acquired before
// each operation is dispatched, so operations start in batch order and a
// concurrency of 1 runs them strictly sequentially. Results are returned in
// operation order regardless of completion order.
func (b *BatchExecutor) Execute(ctx context.Context, operations []BatchOperation) ([]BatchResult, error) {
	results := make([]BatchResult, len(operations))

	var waitGroup sync.WaitGroup

	semaphore := make(chan struct{}, b.concurrency)

	for index, operation := range operations {
		waitGroup.Add(1)

		semaphore <- struct{}{}

		go func(index int, operation BatchOperation) {
			defer waitGroup.Done()
			defer func() { <-semaphore }()

			opCtx, cancel := context.WithTimeout(ctx, b.timeout)
			defer cancel()

			start := time.Now()
			result := b.executeOperation(opCtx, operation)
			result.Duration = time.Since(start)
			results[index] = *result

			if operation.Callback != nil {
				operation.Callback(result)
			}
		}(index, operation)
	}

	waitGroup.Wait()

	return results, nil
}

// executeOperation executes a single operation.
func (b *BatchExecutor) executeOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	result := &BatchResult{ID: operation.ID}

	if operation.Collection == "" {
		result.Error = ErrEmptyCollection

		return result
	}

	records := b.client.Collection(operation.Collection)

	var (
		data Record
		err  error
	)

	switch operation.Type {
	case "create":
		data, err = records.Create(ctx, operation.Data, nil)
	case "update":
		data, err = records.Update(ctx, operation.RecordID, operation.Data, nil)
	case "delete":
		err = records.Delete(ctx, operation.RecordID)
	case "get":
		data, err = records.GetOne(ctx, operation.RecordID, "")
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedOperationType, operation.Type)
	}

	result.Success = err == nil
	result.Data = data
	result.Error = err

	return result
}

// BatchBuilder helps build batch operations.
type BatchBuilder struct {
	operations []BatchOperation
}

// NewBatchBuilder creates a new batch builder.
func NewBatchBuilder() *BatchBuilder {
	return &BatchBuilder{
		operations: make([]BatchOperation, 0),
	}
}

// AddCreate adds a record creation operation.
func (b *BatchBuilder) AddCreate(id, collection string, data Record) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:         id,
		Type:       "create",
		Collection: collection,
		Data:       data,
	})

	return b
}

// AddUpdate adds a record update operation.
func (b *BatchBuilder) AddUpdate(id, collection, recordID string, data Record) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:         id,
		Type:       "update",
		Collection: collection,
		RecordID:   recordID,
		Data:       data,
	})

	return b
}

// AddDelete adds a record deletion operation.
func (b *BatchBuilder) AddDelete(id, collection, recordID string) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:         id,
		Type:       "delete",
		Collection: collection,
		RecordID:   recordID,
	})

	return b
}

// AddGet adds a record fetch operation.
func (b *BatchBuilder) AddGet(id, collection, recordID string) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{
		ID:         id,
		Type:       "get",
		Collection: collection,
		RecordID:   recordID,
	})

	return b
}

// AddOperation adds a custom operation.
func (b *BatchBuilder) AddOperation(operation BatchOperation) *BatchBuilder {
	b.operations = append(b.operations, operation)

	return b
}

// Build returns the built operations.
func (b *BatchBuilder) Build() []BatchOperation {
	return b.operations
}
