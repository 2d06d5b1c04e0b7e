package rest

import (
	"context"
	"encoding/json"

	"github.com/godilite/a11y-check/internal/service"
)

type AccessibilityService interface {
	Raw(ctx context.Context, req service.CheckRequest) (service.DeviceResults[json.RawMessage], error)
	Grouped(ctx context.Context, req service.CheckRequest) (service.DeviceResults[service.GroupedResult], error)
	Severity(ctx context.Context, req service.CheckRequest) (service.DeviceResults[service.SeverityResult], error)
	Diagnostics(ctx context.Context, req service.CheckRequest) (service.DeviceResults[service.DiagnosticsResult], error)
}
