package mocks

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/godilite/a11y-check/pkg/pagespeed"
)

// MockReportFetcher is a mock implementation of the ReportFetcher interface
// for testing the service layer. Calls are recorded per strategy.
type MockReportFetcher struct {
	FetchFunc func(ctx context.Context, target string, strategy pagespeed.Strategy) (json.RawMessage, error)

	mu    sync.Mutex
	calls []pagespeed.Strategy
}

// Fetch implements the ReportFetcher interface
func (m *MockReportFetcher) Fetch(ctx context.Context, target string, strategy pagespeed.Strategy) (json.RawMessage, error) {
	m.mu.Lock()
	m.calls = append(m.calls, strategy)
	m.mu.Unlock()

	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, target, strategy)
	}
	return nil, errors.New("FetchFunc not implemented")
}

// Calls returns the strategies fetched so far.
func (m *MockReportFetcher) Calls() []pagespeed.Strategy {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]pagespeed.Strategy(nil), m.calls...)
}
