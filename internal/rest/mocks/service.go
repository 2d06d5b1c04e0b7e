package mocks

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/godilite/a11y-check/internal/service"
)

// MockAccessibilityService is a mock implementation of the AccessibilityService interface
type MockAccessibilityService struct {
	RawFunc         func(ctx context.Context, req service.CheckRequest) (service.DeviceResults[json.RawMessage], error)
	GroupedFunc     func(ctx context.Context, req service.CheckRequest) (service.DeviceResults[service.GroupedResult], error)
	SeverityFunc    func(ctx context.Context, req service.CheckRequest) (service.DeviceResults[service.SeverityResult], error)
	DiagnosticsFunc func(ctx context.Context, req service.CheckRequest) (service.DeviceResults[service.DiagnosticsResult], error)
}

// Raw implements the AccessibilityService interface
func (m *MockAccessibilityService) Raw(ctx context.Context, req service.CheckRequest) (service.DeviceResults[json.RawMessage], error) {
	if m.RawFunc != nil {
		return m.RawFunc(ctx, req)
	}
	return nil, errors.New("RawFunc not implemented")
}

// Grouped implements the AccessibilityService interface
func (m *MockAccessibilityService) Grouped(ctx context.Context, req service.CheckRequest) (service.DeviceResults[service.GroupedResult], error) {
	if m.GroupedFunc != nil {
		return m.GroupedFunc(ctx, req)
	}
	return nil, errors.New("GroupedFunc not implemented")
}

// Severity implements the AccessibilityService interface
func (m *MockAccessibilityService) Severity(ctx context.Context, req service.CheckRequest) (service.DeviceResults[service.SeverityResult], error) {
	if m.SeverityFunc != nil {
		return m.SeverityFunc(ctx, req)
	}
	return nil, errors.New("SeverityFunc not implemented")
}

// Diagnostics implements the AccessibilityService interface
func (m *MockAccessibilityService) Diagnostics(ctx context.Context, req service.CheckRequest) (service.DeviceResults[service.DiagnosticsResult], error) {
	if m.DiagnosticsFunc != nil {
		return m.DiagnosticsFunc(ctx, req)
	}
	return nil, errors.New("DiagnosticsFunc not implemented")
}
