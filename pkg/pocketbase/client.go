package pocketbase

import (
	"context"
	"time"
)

// RecordsClient provides CRUD access to one collection.
type RecordsClient interface {
	// List fetches one page of records. Defaults: page 1, 30 records per page.
	List(ctx context.Context, opts *ListOptions) (*ListResult, error)

	// GetOne fetches a single record by id.
	GetOne(ctx context.Context, recordID string, expand string) (Record, error)

	// Create creates a new record. Files in opts switch the request to
	// multipart encoding.
	Create(ctx context.Context, data Record, opts *WriteOptions) (Record, error)

	// Update partially updates a record; fields absent from data are left
	// untouched server-side.
	Update(ctx context.Context, recordID string, data Record, opts *WriteOptions) (Record, error)

	// Delete removes a record. A nil error means the deletion succeeded.
	Delete(ctx context.Context, recordID string) error

	// ListAll fetches every page and returns the concatenated records in
	// page order. On any page failure the whole operation fails; partial
	// results are never returned.
	ListAll(ctx context.Context, batchSize int, opts *ListOptions) ([]Record, error)

	// WithFilter returns a derived accessor for the same collection that
	// applies the given filter expression to every list call. An explicit
	// filter passed to List/ListAll is combined with the stored one using &&.
	WithFilter(filter string) RecordsClient
}

// AuthClient provides authentication flows for one auth collection.
type AuthClient interface {
	// AuthWithPassword authenticates with an identity (email or username)
	// and password, saving the token and record into the client's auth store.
	AuthWithPassword(ctx context.Context, identity, password string) (*AuthResult, error)

	// RefreshToken exchanges the current token for a fresh one, updating the
	// auth store on success.
	RefreshToken(ctx context.Context) (*AuthResult, error)

	// RequestPasswordReset sends a password reset email.
	RequestPasswordReset(ctx context.Context, email string) error

	// ConfirmVerification confirms an email verification token.
	ConfirmVerification(ctx context.Context, token string) error

	// ConfirmPasswordReset confirms a password reset token with the new
	// password.
	ConfirmPasswordReset(ctx context.Context, token, password, passwordConfirm string) error

	// Token returns the currently stored auth token, empty when
	// unauthenticated.
	Token() string

	// Record returns the currently stored identity record.
	Record() Record

	// IsValid reports whether the store holds a non-empty token and record.
	IsValid() bool

	// Clear resets the auth store to the unauthenticated state.
	Clear()
}

// AdminClient provides superuser authentication flows.
type AdminClient interface {
	// AuthWithPassword authenticates a superuser, saving the token and
	// record into the auth store with the superuser flag set.
	AuthWithPassword(ctx context.Context, email, password string) (*AuthResult, error)

	// IsAuthenticated reports whether the store holds valid superuser
	// credentials.
	IsAuthenticated() bool

	// IsSuperAdmin reports whether the authenticated identity is a super
	// admin. Every PocketBase superuser is implicitly a super admin, so this
	// is a deliberate pass-through of IsAuthenticated, not an independent
	// privilege check.
	IsSuperAdmin() bool

	// Token returns the currently stored auth token.
	Token() string

	// Record returns the currently stored identity record.
	Record() Record

	// Clear resets the auth store.
	Clear()
}

// Client is the root PocketBase API client.
type Client interface {
	// Collection returns a records accessor bound to the given collection.
	Collection(name string) RecordsClient

	// Auth returns the auth client for the default auth collection
	// (Config.AuthCollection, "users" when unset).
	Auth() AuthClient

	// AuthCollection returns an auth client bound to a custom auth
	// collection.
	AuthCollection(name string) AuthClient

	// Admins returns the superuser auth client.
	Admins() AdminClient

	// Health fetches the health-check endpoint and returns the raw response.
	Health(ctx context.Context) (Record, error)

	// SendResetPasswordEmail requests a password reset email for the default
	// auth collection.
	SendResetPasswordEmail(ctx context.Context, email string) error

	// ConfirmVerification confirms an email verification token for the
	// default auth collection.
	ConfirmVerification(ctx context.Context, token string) error

	// ConfirmPasswordReset confirms a password reset for the default auth
	// collection.
	ConfirmPasswordReset(ctx context.Context, token, password, passwordConfirm string) error

	// BaseURL returns the normalized base URL the client targets.
	BaseURL() string
}

// Logger is the structured logging interface used by the HTTP layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// DefaultAuthCollection is the auth collection used when none is configured.
const DefaultAuthCollection = "users"

// Config represents client configuration for building a pocketbase.Client.
//
// # Retries
//
// The client never retries on its own: RetryMax defaults to 0 and every
// operation is a single request/response round trip. Setting RetryMax > 0
// opts into retrying transient failures (5xx, 429, connection errors) with
// the configured backoff window.
//
// # Timeouts and cancellation
//
// Per-request timeouts are controlled via the context passed to client
// methods; the client defines no timeout policy of its own beyond the
// transport default.
type Config struct {
	// BaseURL is the PocketBase server address, e.g. "http://127.0.0.1:8090".
	// pbclient.New trims a trailing slash and adds "https://" when no scheme
	// is present. Required.
	BaseURL string

	// AuthCollection is the default auth collection for Auth() and the
	// top-level account flows. Defaults to "users".
	AuthCollection string

	// AuthToken seeds the auth store with a previously obtained token. The
	// identity record stays empty until the token is refreshed, so IsValid
	// reports false while requests still carry the bearer header.
	AuthToken string

	// RetryMax is the maximum number of retries for transient failures.
	// 0 disables retrying entirely.
	RetryMax int

	// RetryWaitMin is the minimum backoff between retries. Applied when
	// RetryMax > 0.
	RetryWaitMin time.Duration

	// RetryWaitMax is the maximum backoff between retries. Applied when
	// RetryMax > 0.
	RetryWaitMax time.Duration

	// Debug enables verbose request/response logging when a Logger is set.
	Debug bool

	// Logger is an optional structured logger used by the HTTP layer.
	Logger Logger

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// Interceptors is an optional interceptor chain executed around every
	// request.
	Interceptors *InterceptorChain

	// Cache configures the optional response cache. Nil disables caching.
	Cache *CacheConfig
}
