package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/godilite/a11y-check/pkg/pagespeed"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AccessibilityService fetches PageSpeed reports and reshapes them per device.
type AccessibilityService struct {
	fetcher ReportFetcher
	logger  *zap.Logger
}

// NewAccessibilityService creates a new AccessibilityService instance.
func NewAccessibilityService(fetcher ReportFetcher, logger *zap.Logger) *AccessibilityService {
	if fetcher == nil {
		panic("fetcher must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	return &AccessibilityService{
		fetcher: fetcher,
		logger:  logger,
	}
}

// DeviceResults maps each requested strategy to its reshaped report.
type DeviceResults[T any] map[pagespeed.Strategy]T

// forEachStrategy runs fn for every requested strategy concurrently. The first
// failure cancels the others and no partial result is returned.
func forEachStrategy[T any](ctx context.Context, s *AccessibilityService, req CheckRequest, fn func(strategy pagespeed.Strategy, body json.RawMessage) (T, error)) (DeviceResults[T], error) {
	g, gctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	out := make(DeviceResults[T], len(req.Strategies))

	for _, strategy := range req.Strategies {
		strategy := strategy
		g.Go(func() error {
			body, err := s.fetcher.Fetch(gctx, req.URL, strategy)
			if err != nil {
				return err
			}
			v, err := fn(strategy, body)
			if err != nil {
				return err
			}
			mu.Lock()
			out[strategy] = v
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeReport(body json.RawMessage) (*pagespeed.Report, error) {
	var resp pagespeed.Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReport, err)
	}
	if resp.LighthouseResult == nil {
		return nil, fmt.Errorf("%w: missing lighthouseResult", ErrMalformedReport)
	}
	return resp.LighthouseResult, nil
}

func (s *AccessibilityService) logDropped(kind string, strategy pagespeed.Strategy, ids []string) {
	if len(ids) == 0 {
		return
	}
	s.logger.Debug("audits left out of "+kind+" result",
		zap.String("strategy", string(strategy)),
		zap.Strings("audits", ids))
}

// Raw passes the upstream bodies through untouched. Bodies that are not JSON
// are rejected as malformed since they cannot be embedded in the response.
func (s *AccessibilityService) Raw(ctx context.Context, req CheckRequest) (DeviceResults[json.RawMessage], error) {
	return forEachStrategy(ctx, s, req, func(_ pagespeed.Strategy, body json.RawMessage) (json.RawMessage, error) {
		if !json.Valid(body) {
			return nil, fmt.Errorf("%w: response is not JSON", ErrMalformedReport)
		}
		return body, nil
	})
}

// Grouped returns audits bucketed into passed, failed and not applicable.
func (s *AccessibilityService) Grouped(ctx context.Context, req CheckRequest) (DeviceResults[GroupedResult], error) {
	return forEachStrategy(ctx, s, req, func(strategy pagespeed.Strategy, body json.RawMessage) (GroupedResult, error) {
		report, err := decodeReport(body)
		if err != nil {
			return GroupedResult{}, err
		}
		res, err := ExtractGrouped(report, req.Detailed)
		if err != nil {
			return GroupedResult{}, err
		}
		s.logDropped("grouped", strategy, res.Dropped)
		return res, nil
	})
}

// Severity returns failed audits bucketed by severity class.
func (s *AccessibilityService) Severity(ctx context.Context, req CheckRequest) (DeviceResults[SeverityResult], error) {
	return forEachStrategy(ctx, s, req, func(strategy pagespeed.Strategy, body json.RawMessage) (SeverityResult, error) {
		report, err := decodeReport(body)
		if err != nil {
			return SeverityResult{}, err
		}
		res, err := ExtractSeverity(report)
		if err != nil {
			return SeverityResult{}, err
		}
		s.logDropped("severity", strategy, res.Dropped)
		return res, nil
	})
}

// Diagnostics returns the flat list of accessibility audits.
func (s *AccessibilityService) Diagnostics(ctx context.Context, req CheckRequest) (DeviceResults[DiagnosticsResult], error) {
	return forEachStrategy(ctx, s, req, func(_ pagespeed.Strategy, body json.RawMessage) (DiagnosticsResult, error) {
		report, err := decodeReport(body)
		if err != nil {
			return DiagnosticsResult{}, err
		}
		return ExtractDiagnostics(report)
	})
}
