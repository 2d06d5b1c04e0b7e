package service

import (
	"context"
	"encoding/json"

	"github.com/godilite/a11y-check/pkg/pagespeed"
)

// ReportFetcher defines the upstream operations the service depends on.
type ReportFetcher interface {
	Fetch(ctx context.Context, target string, strategy pagespeed.Strategy) (json.RawMessage, error)
}
