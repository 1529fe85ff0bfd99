package service

import "errors"

// Sentinel error kinds returned by services. The HTTP layer owns the single
// mapping from these to response envelopes; business code never sees HTTP
// status codes.
var (
	// ErrUnauthorized covers every authentication failure: absent, malformed,
	// unknown and expired credentials all collapse into this one error so the
	// response cannot be used to enumerate tokens.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means the target exists, the caller is known, and the
	// answer is still no.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound also stands in for "exists but you may not know that",
	// e.g. private decks accessed by non-owners.
	ErrNotFound = errors.New("not found")

	// ErrTokenLimit rejects token creation once a user holds the maximum
	// number of active tokens.
	ErrTokenLimit = errors.New("token limit reached")
)

// TokenLimitRetryAfter is the Retry-After hint in seconds attached to
// ErrTokenLimit responses. The ceiling frees up when a token expires or is
// deleted, so the hint is the default housekeeping sweep interval.
const TokenLimitRetryAfter = 3600

// ValidationError carries per-field messages for a rejected payload. It is
// recovered at the pipeline boundary into a 422 envelope and never escalates
// further.
type ValidationError map[string]string

func (v ValidationError) Error() string { return "validation failed" }
