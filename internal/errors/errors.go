// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages. This enables better error categorization, logging,
// and user experience by providing context-aware error information.
//
// The package supports wrapping underlying errors while maintaining error kind information,
// making it easier to handle different types of failures appropriately.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// StorageUnavailable indicates the persistent session store could not be
	// read or written. Callers degrade to in-memory state and continue.
	StorageUnavailable Kind = "storage_unavailable"
	// NoActivePlatform indicates an operation needed a platform identity but
	// the session has none.
	NoActivePlatform Kind = "no_active_platform"
	// PrimaryFetchFailed indicates a non-probed listing call failed. Unlike
	// probed lookups this is surfaced to the user.
	PrimaryFetchFailed Kind = "primary_fetch_failed"
	// KickoffFailed indicates the background conversion job could not be started.
	KickoffFailed Kind = "kickoff_failed"
	// PollTickFailed indicates a single poll tick failed. The poll loop logs
	// and continues.
	PollTickFailed Kind = "poll_tick_failed"
	// SignInFailed indicates the platform rejected the supplied credentials.
	SignInFailed Kind = "sign_in_failed"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// HasKind reports whether err carries the given kind.
func HasKind(err error, kind Kind) bool {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
