package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/pocketbase-client/internal/http"
	"github.com/fivetwenty-io/pocketbase-client/pkg/pocketbase"
)

// RecordsClient implements pocketbase.RecordsClient for one collection.
type RecordsClient struct {
	httpClient *http.Client
	collection string

	// filter is applied to every list call; see WithFilter.
	filter string
}

// NewRecordsClient creates a records client bound to the given collection.
func NewRecordsClient(httpClient *http.Client, collection string) *RecordsClient {
	return &RecordsClient{
		httpClient: httpClient,
		collection: collection,
	}
}

func (c *RecordsClient) recordsPath() string {
	return "collections/" + url.PathEscape(c.collection) + "/records"
}

func (c *RecordsClient) recordPath(recordID string) string {
	return c.recordsPath() + "/" + url.PathEscape(recordID)
}

// mergeFilter combines the stored filter with an explicit one.
func (c *RecordsClient) mergeFilter(explicit string) string {
	switch {
	case c.filter == "":
		return explicit
	case explicit == "":
		return c.filter
	default:
		return "(" + c.filter + ") && (" + explicit + ")"
	}
}

// List implements pocketbase.RecordsClient.List.
func (c *RecordsClient) List(ctx context.Context, opts *pocketbase.ListOptions) (*pocketbase.ListResult, error) {
	listOpts := pocketbase.ListOptions{}
	if opts != nil {
		listOpts = *opts
	}

	if listOpts.Page <= 0 {
		listOpts.Page = 1
	}

	if listOpts.PerPage <= 0 {
		listOpts.PerPage = 30
	}

	listOpts.Filter = c.mergeFilter(listOpts.Filter)

	resp, err := c.httpClient.Get(ctx, c.recordsPath(), listOpts.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing records in %q: %w", c.collection, err)
	}

	var result pocketbase.ListResult

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing record list: %w", err)
	}

	return &result, nil
}

// GetOne implements pocketbase.RecordsClient.GetOne.
func (c *RecordsClient) GetOne(ctx context.Context, recordID string, expand string) (pocketbase.Record, error) {
	var query url.Values
	if expand != "" {
		query = url.Values{"expand": []string{expand}}
	}

	resp, err := c.httpClient.Get(ctx, c.recordPath(recordID), query)
	if err != nil {
		return nil, fmt.Errorf("getting record %q: %w", recordID, err)
	}

	return http.DecodeRecord(resp)
}

// Create implements pocketbase.RecordsClient.Create.
func (c *RecordsClient) Create(ctx context.Context, data pocketbase.Record, opts *pocketbase.WriteOptions) (pocketbase.Record, error) {
	req := &http.Request{
		Method: "POST",
		Path:   c.recordsPath(),
		Body:   data,
	}

	applyWriteOptions(req, opts)

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("creating record in %q: %w", c.collection, err)
	}

	return http.DecodeRecord(resp)
}

// Update implements pocketbase.RecordsClient.Update. Fields absent from data
// keep their server-side values.
func (c *RecordsClient) Update(ctx context.Context, recordID string, data pocketbase.Record, opts *pocketbase.WriteOptions) (pocketbase.Record, error) {
	req := &http.Request{
		Method: "PATCH",
		Path:   c.recordPath(recordID),
		Body:   data,
	}

	applyWriteOptions(req, opts)

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("updating record %q: %w", recordID, err)
	}

	return http.DecodeRecord(resp)
}

// Delete implements pocketbase.RecordsClient.Delete.
func (c *RecordsClient) Delete(ctx context.Context, recordID string) error {
	_, err := c.httpClient.Delete(ctx, c.recordPath(recordID))
	if err != nil {
		return fmt.Errorf("deleting record %q: %w", recordID, err)
	}

	return nil
}

// ListAll implements pocketbase.RecordsClient.ListAll.
func (c *RecordsClient) ListAll(ctx context.Context, batchSize int, opts *pocketbase.ListOptions) ([]pocketbase.Record, error) {
	pagination := &pocketbase.PaginationOptions{BatchSize: batchSize}

	return pocketbase.FetchAllRecords(ctx, c, opts, pagination)
}

// WithFilter implements pocketbase.RecordsClient.WithFilter.
func (c *RecordsClient) WithFilter(filter string) pocketbase.RecordsClient {
	return &RecordsClient{
		httpClient: c.httpClient,
		collection: c.collection,
		filter:     c.mergeFilter(filter),
	}
}

func applyWriteOptions(req *http.Request, opts *pocketbase.WriteOptions) {
	if opts == nil {
		return
	}

	if opts.Expand != "" {
		req.Query = url.Values{"expand": []string{opts.Expand}}
	}

	req.Files = opts.Files
}
