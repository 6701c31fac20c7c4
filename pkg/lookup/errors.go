package lookup

import (
	"errors"
	"fmt"
)

// Sentinel errors for the lookup taxonomy. Callers distinguish them with
// errors.Is; everything else is a generic lookup failure.
var (
	// ErrNotFound means the registry/registrar has no record of the domain.
	ErrNotFound = errors.New("domain not found")
	// ErrRateLimited means a remote source is throttling us. Unlike every
	// other failure it halts the whole remaining batch, so the stream
	// controller checks for it explicitly.
	ErrRateLimited = errors.New("rate limit reached")
)

// LookupError wraps a protocol-level failure with the domain and the
// protocol that produced it.
type LookupError struct {
	Domain string
	Proto  string // "RDAP" or "WHOIS"
	Err    error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s lookup for %s failed: %v", e.Proto, e.Domain, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// IsRateLimited reports whether err is (or wraps) a rate-limit signal.
func IsRateLimited(err error) bool { return errors.Is(err, ErrRateLimited) }
