package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/godilite/a11y-check/internal/rest/mocks"
	"github.com/godilite/a11y-check/internal/service"
	"github.com/godilite/a11y-check/pkg/pagespeed"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func newTestApp(t *testing.T, svc AccessibilityService, diagnostics bool, guards ...fiber.Handler) *fiber.App {
	t.Helper()
	logger := zaptest.NewLogger(t)
	app := fiber.New(fiber.Config{
		ErrorHandler: NewErrorHandler(false, logger),
	})
	NewHandlers(svc, logger).Register(app.Group("/api"), diagnostics, guards...)
	return app
}

func doGet(t *testing.T, app *fiber.App, target string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func TestNewHandlers(t *testing.T) {
	t.Run("valid parameters", func(t *testing.T) {
		h := NewHandlers(&mocks.MockAccessibilityService{}, zap.NewNop())
		assert.NotNil(t, h)
		assert.NotNil(t, h.logger)
	})

	t.Run("nil service panics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewHandlers(nil, zap.NewNop())
		})
	})

	t.Run("nil logger is replaced", func(t *testing.T) {
		h := NewHandlers(&mocks.MockAccessibilityService{}, nil)
		assert.NotNil(t, h.logger)
	})
}

func TestWelcome(t *testing.T) {
	app := newTestApp(t, &mocks.MockAccessibilityService{}, false)

	status, body := doGet(t, app, "/api/")

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Welcome to Arc Accessilibty API", string(body))
}

func TestGetRaw(t *testing.T) {
	var got service.CheckRequest
	svc := &mocks.MockAccessibilityService{
		RawFunc: func(ctx context.Context, req service.CheckRequest) (service.DeviceResults[json.RawMessage], error) {
			got = req
			return service.DeviceResults[json.RawMessage]{
				pagespeed.StrategyDesktop: json.RawMessage(`{"id":"desktop-report"}`),
				pagespeed.StrategyMobile:  json.RawMessage(`{"id":"mobile-report"}`),
			}, nil
		},
	}
	app := newTestApp(t, svc, false)

	status, body := doGet(t, app, "/api/accessibility-check?url=example.com")

	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{
		"url": "https://example.com",
		"result": {
			"desktop": {"id": "desktop-report"},
			"mobile": {"id": "mobile-report"}
		}
	}`, string(body))
	assert.Equal(t, "https://example.com", got.URL)
	assert.Equal(t, []pagespeed.Strategy{pagespeed.StrategyDesktop, pagespeed.StrategyMobile}, got.Strategies)
	assert.False(t, got.Detailed)
}

func TestGetGrouped(t *testing.T) {
	score := 0.0
	var got service.CheckRequest
	svc := &mocks.MockAccessibilityService{
		GroupedFunc: func(ctx context.Context, req service.CheckRequest) (service.DeviceResults[service.GroupedResult], error) {
			got = req
			return service.DeviceResults[service.GroupedResult]{
				pagespeed.StrategyMobile: {
					AccessibilityScore: 75,
					Passed:             service.GroupSet{},
					Failed: service.GroupSet{
						service.GroupOf("a11y-names-labels"): {
							Title:       "Names and labels",
							Description: "Improve names",
							Audits: map[string]service.AuditInfo{
								"image-alt": {
									ID:               "image-alt",
									Title:            "Images lack alt",
									Description:      "desc",
									ScoreDisplayMode: "binary",
									Score:            &score,
								},
							},
						},
					},
					NotApplicable: service.GroupSet{},
					Dropped:       []string{"tabindex"},
				},
			}, nil
		},
	}
	app := newTestApp(t, svc, false)

	status, body := doGet(t, app, "/api/accessibility-check/v1?url=https://example.com&device=mobile&detailed=true")

	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{
		"url": "https://example.com",
		"result": {
			"mobile": {
				"accessibilityScore": 75,
				"passed": {},
				"failed": {
					"a11y-names-labels": {
						"title": "Names and labels",
						"description": "Improve names",
						"audits": {
							"image-alt": {
								"id": "image-alt",
								"title": "Images lack alt",
								"description": "desc",
								"scoreDisplayMode": "binary",
								"score": 0
							}
						}
					}
				},
				"notApplicable": {}
			}
		}
	}`, string(body))
	assert.Equal(t, []pagespeed.Strategy{pagespeed.StrategyMobile}, got.Strategies)
	assert.True(t, got.Detailed)
}

func TestGetSeverity(t *testing.T) {
	svc := &mocks.MockAccessibilityService{
		SeverityFunc: func(ctx context.Context, req service.CheckRequest) (service.DeviceResults[service.SeverityResult], error) {
			return service.DeviceResults[service.SeverityResult]{
				pagespeed.StrategyDesktop: {
					Score: 90,
					Issues: service.SeverityIssues{
						Critical: service.IssueSet{
							service.GroupKey{}: {
								Title: "Unknown",
								Audits: map[string]service.IssueAudit{
									"aria-hidden-body": {Title: "aria-hidden on body", Items: 1},
								},
							},
						},
						Serious:  service.IssueSet{},
						Moderate: service.IssueSet{},
						Minor:    service.IssueSet{},
					},
				},
			}, nil
		},
	}
	app := newTestApp(t, svc, false)

	status, body := doGet(t, app, "/api/accessibility-check/v2?url=example.com&device=desktop")

	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{
		"url": "https://example.com",
		"result": {
			"desktop": {
				"score": 90,
				"issues": {
					"critical": {
						"undefined": {
							"title": "Unknown",
							"audits": {
								"aria-hidden-body": {"title": "aria-hidden on body", "items": 1}
							}
						}
					},
					"serious": {},
					"moderate": {},
					"minor": {}
				}
			}
		}
	}`, string(body))
}

func TestGetDiagnosticsVariant(t *testing.T) {
	svc := &mocks.MockAccessibilityService{
		DiagnosticsFunc: func(ctx context.Context, req service.CheckRequest) (service.DeviceResults[service.DiagnosticsResult], error) {
			return service.DeviceResults[service.DiagnosticsResult]{
				pagespeed.StrategyDesktop: {
					AccessibilityScore: 100,
					Audits: []service.DiagnosticAudit{
						{ID: "list", Title: "Lists are structured", Description: "desc"},
					},
				},
			}, nil
		},
	}
	app := newTestApp(t, svc, true)

	t.Run("root route serves diagnostics", func(t *testing.T) {
		status, body := doGet(t, app, "/api/accessibility-check?url=example.com&device=desktop")

		require.Equal(t, fiber.StatusOK, status)
		assert.JSONEq(t, `{
			"url": "https://example.com",
			"result": {
				"desktop": {
					"accessibilityScore": 100,
					"audits": [
						{"id": "list", "title": "Lists are structured", "description": "desc", "displayValue": ""}
					]
				}
			}
		}`, string(body))
	})

	t.Run("versioned routes are not mounted", func(t *testing.T) {
		status, _ := doGet(t, app, "/api/accessibility-check/v1?url=example.com")
		assert.Equal(t, fiber.StatusNotFound, status)
	})
}

func TestRequestValidationErrors(t *testing.T) {
	called := false
	svc := &mocks.MockAccessibilityService{
		RawFunc: func(ctx context.Context, req service.CheckRequest) (service.DeviceResults[json.RawMessage], error) {
			called = true
			return service.DeviceResults[json.RawMessage]{}, nil
		},
	}
	app := newTestApp(t, svc, false)

	tests := []struct {
		name    string
		target  string
		message string
	}{
		{"missing url", "/api/accessibility-check", "Invalid URL provided."},
		{"empty url", "/api/accessibility-check?url=", "Invalid URL provided."},
		{"short host", "/api/accessibility-check?url=ab.com", "Invalid URL provided."},
		{"no dot", "/api/accessibility-check?url=localhost", "Invalid URL provided."},
		{"unknown device", "/api/accessibility-check?url=example.com&device=tablet", "Invalid device."},
		{"empty device", "/api/accessibility-check?url=example.com&device=", "Invalid device."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doGet(t, app, tt.target)

			assert.Equal(t, fiber.StatusBadRequest, status)
			assert.JSONEq(t, `{"message":"`+tt.message+`"}`, string(body))
		})
	}

	assert.False(t, called, "service must not be called for invalid requests")
}

func TestUpstreamFailures(t *testing.T) {
	t.Run("upstream body is echoed", func(t *testing.T) {
		svc := &mocks.MockAccessibilityService{
			RawFunc: func(ctx context.Context, req service.CheckRequest) (service.DeviceResults[json.RawMessage], error) {
				return nil, &pagespeed.UpstreamError{
					Strategy:   pagespeed.StrategyMobile,
					StatusCode: http.StatusTooManyRequests,
					Body:       json.RawMessage(`{"error":{"code":429,"message":"Quota exceeded"}}`),
				}
			},
		}
		app := newTestApp(t, svc, false)

		status, body := doGet(t, app, "/api/accessibility-check?url=example.com")

		assert.Equal(t, fiber.StatusInternalServerError, status)
		assert.JSONEq(t, `{
			"message": "Failed to fetch PageSpeed Insights.",
			"error": {"error": {"code": 429, "message": "Quota exceeded"}}
		}`, string(body))
	})

	t.Run("malformed report", func(t *testing.T) {
		svc := &mocks.MockAccessibilityService{
			GroupedFunc: func(ctx context.Context, req service.CheckRequest) (service.DeviceResults[service.GroupedResult], error) {
				return nil, service.ErrMalformedReport
			},
		}
		app := newTestApp(t, svc, false)

		status, body := doGet(t, app, "/api/accessibility-check/v1?url=example.com")

		assert.Equal(t, fiber.StatusInternalServerError, status)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(body, &resp))
		assert.Equal(t, "Failed to fetch PageSpeed Insights.", resp["message"])
		assert.Equal(t, service.ErrMalformedReport.Error(), resp["error"])
	})

	t.Run("deadline exceeded", func(t *testing.T) {
		svc := &mocks.MockAccessibilityService{
			SeverityFunc: func(ctx context.Context, req service.CheckRequest) (service.DeviceResults[service.SeverityResult], error) {
				return nil, context.DeadlineExceeded
			},
		}
		app := newTestApp(t, svc, false)

		status, body := doGet(t, app, "/api/accessibility-check/v2?url=example.com")

		assert.Equal(t, fiber.StatusInternalServerError, status)
		assert.Contains(t, string(body), "Failed to fetch PageSpeed Insights.")
	})
}

func TestUnexpectedErrorUsesErrorHandler(t *testing.T) {
	svc := &mocks.MockAccessibilityService{
		DiagnosticsFunc: func(ctx context.Context, req service.CheckRequest) (service.DeviceResults[service.DiagnosticsResult], error) {
			return nil, errors.New("boom")
		},
	}
	app := newTestApp(t, svc, true)

	status, body := doGet(t, app, "/api/accessibility-check?url=example.com")

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.JSONEq(t, `{"status":"error","message":"Something went wrong!"}`, string(body))
}

func TestGuardsRunBeforeHandlers(t *testing.T) {
	called := false
	svc := &mocks.MockAccessibilityService{
		RawFunc: func(ctx context.Context, req service.CheckRequest) (service.DeviceResults[json.RawMessage], error) {
			called = true
			return service.DeviceResults[json.RawMessage]{}, nil
		},
	}
	deny := func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusForbidden).JSON(messageResponse{Message: "denied"})
	}
	app := newTestApp(t, svc, false, deny)

	status, _ := doGet(t, app, "/api/accessibility-check?url=example.com")
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.False(t, called)

	status, body := doGet(t, app, "/api/")
	assert.Equal(t, fiber.StatusOK, status, "welcome route is not guarded")
	assert.Equal(t, "Welcome to Arc Accessilibty API", string(body))
}
