package pagespeed

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrResponseTooLarge means the upstream body exceeded the client's size cap.
var ErrResponseTooLarge = errors.New("pagespeed response too large")

// UpstreamError is a failed PageSpeed call. Body holds whatever the API sent back
// (raw JSON when it was JSON, otherwise a JSON string), ready to be echoed to clients.
type UpstreamError struct {
	Strategy   Strategy
	StatusCode int
	Body       json.RawMessage
	cause      error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("pagespeed %s request failed: %v", e.Strategy, e.cause)
	}
	return fmt.Sprintf("pagespeed %s request failed with status %d", e.Strategy, e.StatusCode)
}

func (e *UpstreamError) Unwrap() error {
	return e.cause
}
