package domain

import "errors"

var (
	// ErrUpstreamUnavailable covers every upstream fault: transport errors,
	// timeouts, non-2xx statuses, undecodable bodies, and an open breaker.
	ErrUpstreamUnavailable = errors.New("upstream weather provider unavailable")

	// ErrMisconfiguredCredential means the provider credential is missing,
	// a placeholder, or was rejected by the provider.
	ErrMisconfiguredCredential = errors.New("weather provider credential misconfigured")

	// ErrBlankQuery is returned for whitespace-only search input.
	ErrBlankQuery = errors.New("search query is blank")
)
