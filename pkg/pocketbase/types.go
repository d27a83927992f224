package pocketbase

import (
	"encoding/json"
	"net/url"
	"strconv"
)

// Record represents one stored entity within a collection. The collection
// schema is server-defined, so records are untyped string-keyed maps.
type Record = map[string]any

// ListResult represents one page of a paginated record listing.
type ListResult struct {
	Page       int      `json:"page"       yaml:"page"`
	PerPage    int      `json:"perPage"    yaml:"perPage"`
	TotalItems int      `json:"totalItems" yaml:"totalItems"`
	TotalPages int      `json:"totalPages" yaml:"totalPages"`
	Items      []Record `json:"items"      yaml:"items"`
}

// AuthResult represents the response of an authentication call.
//
// User authentication returns {token, record} while superuser authentication
// returns {token, admin}; both are normalized onto the Record field. Any
// additional top-level response fields are collected into Meta.
type AuthResult struct {
	Token  string `json:"token"`
	Record Record `json:"record"`
	Meta   Record `json:"meta,omitempty"`
}

// UnmarshalJSON normalizes the two auth response shapes onto one struct.
func (r *AuthResult) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage

	err := json.Unmarshal(data, &raw)
	if err != nil {
		return err
	}

	if tok, ok := raw["token"]; ok {
		if err := json.Unmarshal(tok, &r.Token); err != nil {
			return err
		}
	}

	identity := raw["record"]
	if identity == nil {
		identity = raw["admin"]
	}

	if identity != nil {
		if err := json.Unmarshal(identity, &r.Record); err != nil {
			return err
		}
	}

	for key, value := range raw {
		if key == "token" || key == "record" || key == "admin" {
			continue
		}

		if r.Meta == nil {
			r.Meta = Record{}
		}

		var decoded any
		if err := json.Unmarshal(value, &decoded); err != nil {
			return err
		}

		r.Meta[key] = decoded
	}

	return nil
}

// ListOptions holds the query parameters for record list requests.
// Zero-valued fields are omitted from the query string entirely.
type ListOptions struct {
	// Page is the 1-based page number.
	Page int

	// PerPage is the number of records per page.
	PerPage int

	// Filter is a PocketBase filter expression, forwarded opaquely.
	Filter string

	// Sort is a PocketBase sort expression, forwarded opaquely.
	Sort string

	// Expand is a PocketBase expand expression, forwarded opaquely.
	Expand string
}

// NewListOptions creates empty list options.
func NewListOptions() *ListOptions {
	return &ListOptions{}
}

// WithPage sets the page number.
func (o *ListOptions) WithPage(page int) *ListOptions {
	o.Page = page

	return o
}

// WithPerPage sets the page size.
func (o *ListOptions) WithPerPage(perPage int) *ListOptions {
	o.PerPage = perPage

	return o
}

// WithFilter sets the filter expression.
func (o *ListOptions) WithFilter(filter string) *ListOptions {
	o.Filter = filter

	return o
}

// WithSort sets the sort expression.
func (o *ListOptions) WithSort(sort string) *ListOptions {
	o.Sort = sort

	return o
}

// WithExpand sets the expand expression.
func (o *ListOptions) WithExpand(expand string) *ListOptions {
	o.Expand = expand

	return o
}

// ToValues converts the options to URL query values. Unset parameters are
// omitted, never sent as empty strings.
func (o *ListOptions) ToValues() url.Values {
	values := url.Values{}

	if o == nil {
		return values
	}

	if o.Page > 0 {
		values.Set("page", strconv.Itoa(o.Page))
	}

	if o.PerPage > 0 {
		values.Set("perPage", strconv.Itoa(o.PerPage))
	}

	if o.Filter != "" {
		values.Set("filter", o.Filter)
	}

	if o.Sort != "" {
		values.Set("sort", o.Sort)
	}

	if o.Expand != "" {
		values.Set("expand", o.Expand)
	}

	return values
}

// File represents one file part of a multipart record create/update.
type File struct {
	// Field is the form field name the file is attached under.
	Field string

	// Name is the file name reported to the server.
	Name string

	// Content is the raw file content.
	Content []byte
}

// WriteOptions holds the optional parameters for record create/update calls.
type WriteOptions struct {
	// Expand is a PocketBase expand expression applied to the returned record.
	Expand string

	// Files switches the request to multipart encoding; the record data is
	// sent as form fields alongside the file parts.
	Files []File
}
