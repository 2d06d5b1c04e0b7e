package service

import (
	"errors"
	"regexp"
	"strings"

	"github.com/godilite/a11y-check/pkg/pagespeed"
)

var (
	ErrInvalidURL    = errors.New("invalid url")
	ErrInvalidDevice = errors.New("invalid device")
)

// ValidationError carries the message shown to the client with a 400.
type ValidationError struct {
	Message string
	err     error
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.err }

var schemeRe = regexp.MustCompile(`(?i)^https?://`)

// AddHTTPSIfMissing prefixes https:// unless the input already has an http(s) scheme.
func AddHTTPSIfMissing(raw string) string {
	if schemeRe.MatchString(raw) {
		return raw
	}
	return "https://" + raw
}

// IsValidDomain is a loose shape check, not RFC validation: at least one dot,
// three or more characters before the first dot and two or more after the last.
func IsValidDomain(domain string) bool {
	parts := strings.Split(domain, ".")
	if len(parts) < 2 {
		return false
	}
	if len(parts[0]) < 3 || len(parts[len(parts)-1]) < 2 {
		return false
	}
	return true
}

// CheckRequest is a validated accessibility check.
type CheckRequest struct {
	URL        string
	Strategies []pagespeed.Strategy
	Detailed   bool
}

// NewCheckRequest validates the raw query values. hasDevice reports whether the
// device key was present at all; an empty device value is rejected.
func NewCheckRequest(rawURL, device string, hasDevice, detailed bool) (CheckRequest, error) {
	if rawURL == "" || !IsValidDomain(rawURL) {
		return CheckRequest{}, &ValidationError{Message: "Invalid URL provided.", err: ErrInvalidURL}
	}

	strategies := []pagespeed.Strategy{pagespeed.StrategyDesktop, pagespeed.StrategyMobile}
	if hasDevice {
		s, ok := pagespeed.ParseStrategy(device)
		if !ok {
			return CheckRequest{}, &ValidationError{Message: "Invalid device.", err: ErrInvalidDevice}
		}
		strategies = []pagespeed.Strategy{s}
	}

	return CheckRequest{
		URL:        AddHTTPSIfMissing(rawURL),
		Strategies: strategies,
		Detailed:   detailed,
	}, nil
}
