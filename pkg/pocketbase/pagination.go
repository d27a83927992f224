package pocketbase

import (
	"context"
	"fmt"
)

// RecordLister is the subset of RecordsClient needed by the pagination
// helpers.
type RecordLister interface {
	List(ctx context.Context, opts *ListOptions) (*ListResult, error)
}

// PaginationOptions configures the pagination helpers.
type PaginationOptions struct {
	// BatchSize is the page size used while fetching. Defaults to 100.
	BatchSize int

	// MaxPages caps the number of pages fetched. 0 means no cap.
	MaxPages int
}

// DefaultBatchSize is the page size used by full-list fetches when none is
// given.
const DefaultBatchSize = 100

// RecordIterator iterates over the records of a collection, fetching pages
// lazily as it advances.
type RecordIterator struct {
	ctx     context.Context
	lister  RecordLister
	opts    ListOptions
	current *ListResult
	index   int
	page    int
}

// NewRecordIterator creates an iterator over the given lister. The filter,
// sort, and expand fields of opts are applied to every page request.
func NewRecordIterator(ctx context.Context, lister RecordLister, opts *ListOptions) *RecordIterator {
	iter := &RecordIterator{
		ctx:    ctx,
		lister: lister,
	}

	if opts != nil {
		iter.opts = *opts
	}

	if iter.opts.PerPage <= 0 {
		iter.opts.PerPage = DefaultBatchSize
	}

	return iter
}

// HasNext reports whether another record is available. Before the first
// fetch the answer is optimistically true; it becomes accurate once a page
// has been loaded.
func (i *RecordIterator) HasNext() bool {
	if i.current == nil {
		return true
	}

	if i.index < len(i.current.Items) {
		return true
	}

	return i.page < i.current.TotalPages
}

// Next returns the next record, fetching the next page when the current one
// is exhausted. It returns ErrNoMoreItems once the collection is drained.
func (i *RecordIterator) Next() (Record, error) {
	if i.current == nil || i.index >= len(i.current.Items) {
		if i.current != nil && i.page >= i.current.TotalPages {
			return nil, ErrNoMoreItems
		}

		err := i.fetchNextPage()
		if err != nil {
			return nil, err
		}

		if len(i.current.Items) == 0 {
			return nil, ErrNoMoreItems
		}
	}

	record := i.current.Items[i.index]
	i.index++

	return record, nil
}

// ForEach applies fn to every remaining record, stopping on the first error.
func (i *RecordIterator) ForEach(fn func(Record) error) error {
	for {
		record, err := i.Next()
		if err != nil {
			if err == ErrNoMoreItems {
				return nil
			}

			return err
		}

		err = fn(record)
		if err != nil {
			return err
		}
	}
}

// All drains the iterator and returns the remaining records.
func (i *RecordIterator) All() ([]Record, error) {
	var records []Record

	err := i.ForEach(func(record Record) error {
		records = append(records, record)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (i *RecordIterator) fetchNextPage() error {
	pageOpts := i.opts
	pageOpts.Page = i.page + 1

	result, err := i.lister.List(i.ctx, &pageOpts)
	if err != nil {
		return fmt.Errorf("fetching page %d: %w", pageOpts.Page, err)
	}

	i.current = result
	i.index = 0
	i.page = pageOpts.Page

	return nil
}

// FetchAllRecords eagerly fetches every page and returns the concatenated
// records in page order. Fetching stops once the most recently fetched page
// number reaches the response's total page count, so an empty collection
// terminates after exactly one request. If any page request fails the whole
// operation fails and no partial results are returned.
func FetchAllRecords(ctx context.Context, lister RecordLister, opts *ListOptions, pagination *PaginationOptions) ([]Record, error) {
	pageOpts := ListOptions{}
	if opts != nil {
		pageOpts = *opts
	}

	batchSize := DefaultBatchSize

	maxPages := 0
	if pagination != nil {
		if pagination.BatchSize > 0 {
			batchSize = pagination.BatchSize
		}

		maxPages = pagination.MaxPages
	}

	pageOpts.PerPage = batchSize

	records := []Record{}

	for page := 1; ; page++ {
		pageOpts.Page = page

		result, err := lister.List(ctx, &pageOpts)
		if err != nil {
			return nil, fmt.Errorf("fetching page %d: %w", page, err)
		}

		records = append(records, result.Items...)

		if page >= result.TotalPages {
			break
		}

		if maxPages > 0 && page >= maxPages {
			break
		}
	}

	return records, nil
}

// PageResult carries one fetched page on the StreamRecords channel.
type PageResult struct {
	Page  int
	Items []Record
	Err   error
}

// StreamRecords fetches pages sequentially and delivers each one on the
// returned channel. The channel is closed after the last page, after the
// first error, or when ctx is cancelled.
func StreamRecords(ctx context.Context, lister RecordLister, opts *ListOptions, pagination *PaginationOptions) <-chan PageResult {
	results := make(chan PageResult)

	pageOpts := ListOptions{}
	if opts != nil {
		pageOpts = *opts
	}

	batchSize := DefaultBatchSize

	maxPages := 0
	if pagination != nil {
		if pagination.BatchSize > 0 {
			batchSize = pagination.BatchSize
		}

		maxPages = pagination.MaxPages
	}

	pageOpts.PerPage = batchSize

	go func() {
		defer close(results)

		for page := 1; ; page++ {
			pageOpts.Page = page

			result, err := lister.List(ctx, &pageOpts)
			if err != nil {
				select {
				case results <- PageResult{Page: page, Err: err}:
				case <-ctx.Done():
				}

				return
			}

			select {
			case results <- PageResult{Page: page, Items: result.Items}:
			case <-ctx.Done():
				return
			}

			if page >= result.TotalPages {
				return
			}

			if maxPages > 0 && page >= maxPages {
				return
			}
		}
	}()

	return results
}
