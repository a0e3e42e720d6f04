package management

import "fmt"

// AuthError reports a failed client-credentials token exchange.
type AuthError struct {
	Status int    // upstream HTTP status, 0 on transport failure
	Body   string // upstream response body, for diagnostics
	Err    error  // transport or decode error, if any
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("management: token exchange failed: %v", e.Err)
	}
	return fmt.Sprintf("management: token exchange returned status %d: %s", e.Status, e.Body)
}

func (e *AuthError) Unwrap() error { return e.Err }

// ErrorKind classifies directory lookup failures.
type ErrorKind int

const (
	// KindNetwork marks a transport-level failure; no response was read.
	KindNetwork ErrorKind = iota
	// KindUnauthorized marks an upstream 401/403, i.e. a stale or
	// invalid management token.
	KindUnauthorized
	// KindMalformed marks a response body that failed to parse.
	KindMalformed
	// KindUpstream marks any other non-2xx upstream response.
	KindUpstream
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindUnauthorized:
		return "unauthorized"
	case KindMalformed:
		return "malformed"
	default:
		return "upstream"
	}
}

// DirectoryError reports a failed account lookup.
type DirectoryError struct {
	Kind   ErrorKind
	Status int
	Body   string
	Err    error
}

func (e *DirectoryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("management: directory lookup failed (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("management: directory lookup failed (%s): status %d: %s", e.Kind, e.Status, e.Body)
}

func (e *DirectoryError) Unwrap() error { return e.Err }

// LinkError reports an upstream-rejected identity link. Body carries the
// upstream error text verbatim for display.
type LinkError struct {
	Status int
	Body   string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("management: link rejected with status %d: %s", e.Status, e.Body)
}

// DeletionError reports an upstream-rejected account deletion.
type DeletionError struct {
	Status int
	Body   string
}

func (e *DeletionError) Error() string {
	return fmt.Sprintf("management: delete rejected with status %d: %s", e.Status, e.Body)
}
