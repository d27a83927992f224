package constants

import "errors"

// CLI configuration errors.
var (
	ErrNoServerConfigured = errors.New("no server configured, use 'pb config set url <url>' or --url")
	ErrNotLoggedIn        = errors.New("not logged in, run 'pb login' first")
	ErrRecordIDRequired   = errors.New("record id is required")
	ErrInvalidDataFlag    = errors.New("--data must be valid JSON or key=value pairs")
	ErrUnknownConfigKey   = errors.New("unknown configuration key")
)
