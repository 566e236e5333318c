package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStoreUnavailable indicates that the store file is missing or unreachable.
	ErrStoreUnavailable = errors.New("database connection failed")
	// ErrQueryFailed indicates that a store query failed.
	ErrQueryFailed = errors.New("failed to query database")
	// ErrInvalidAccountID indicates a malformed account identifier.
	ErrInvalidAccountID = errors.New("invalid account id")
)

// AuthConfigurationError indicates that required API credentials are absent.
type AuthConfigurationError struct {
	Missing []string
}

func (e *AuthConfigurationError) Error() string {
	return "missing " + strings.Join(e.Missing, " or ") + " in environment"
}

// FetchError indicates a failed call to the aggregation API.
//
// A failed fetch fails the run; the next scheduled run is the retry.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}

	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// StoreUnavailableError indicates that the store at Path could not be opened.
type StoreUnavailableError struct {
	Path string
	Err  error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("store %q unavailable: %v", e.Path, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrStoreUnavailable) hold.
func (e *StoreUnavailableError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

// QueryError indicates that the named query failed.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s: %v", e.Query, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrQueryFailed) hold.
func (e *QueryError) Is(target error) bool {
	return target == ErrQueryFailed
}
