package service_test

import (
	"errors"
	"testing"

	"github.com/godilite/a11y-check/internal/service"
	"github.com/godilite/a11y-check/pkg/pagespeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddHTTPSIfMissing(t *testing.T) {
	assert.Equal(t, "https://example.com", service.AddHTTPSIfMissing("example.com"))
	assert.Equal(t, "http://x.co", service.AddHTTPSIfMissing("http://x.co"))
	assert.Equal(t, "https://x.co", service.AddHTTPSIfMissing("https://x.co"))
	assert.Equal(t, "HTTPS://x.co", service.AddHTTPSIfMissing("HTTPS://x.co"))
	assert.Equal(t, "https://ftp://x.co", service.AddHTTPSIfMissing("ftp://x.co"))
}

func TestIsValidDomain(t *testing.T) {
	cases := []struct {
		name   string
		domain string
		want   bool
	}{
		{"no dot", "localhost", false},
		{"short first label", "ab.com", false},
		{"short last label", "example.c", false},
		{"trailing dot", "example.com.", false},
		{"plain domain", "example.com", true},
		{"subdomain", "www.example.co.uk", true},
		{"with scheme", "https://example.com", true},
		{"with path", "example.com/about", true},
		{"short host behind scheme", "http://x.co", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, service.IsValidDomain(tc.domain))
		})
	}
}

func TestNewCheckRequest(t *testing.T) {
	t.Run("device omitted fetches both", func(t *testing.T) {
		req, err := service.NewCheckRequest("example.com", "", false, false)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", req.URL)
		assert.Equal(t, []pagespeed.Strategy{pagespeed.StrategyDesktop, pagespeed.StrategyMobile}, req.Strategies)
	})

	t.Run("single device", func(t *testing.T) {
		req, err := service.NewCheckRequest("example.com", "mobile", true, true)
		require.NoError(t, err)
		assert.Equal(t, []pagespeed.Strategy{pagespeed.StrategyMobile}, req.Strategies)
		assert.True(t, req.Detailed)
	})

	t.Run("invalid url", func(t *testing.T) {
		for _, raw := range []string{"", "nodot", "ab.com", "example.c"} {
			_, err := service.NewCheckRequest(raw, "", false, false)
			assert.ErrorIs(t, err, service.ErrInvalidURL, raw)

			var vErr *service.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, "Invalid URL provided.", vErr.Message)
		}
	})

	t.Run("invalid device", func(t *testing.T) {
		for _, device := range []string{"", "Desktop", "tablet"} {
			_, err := service.NewCheckRequest("example.com", device, true, false)
			assert.ErrorIs(t, err, service.ErrInvalidDevice, device)
			assert.EqualError(t, err, "Invalid device.")
		}
	})

	t.Run("url is checked before device", func(t *testing.T) {
		_, err := service.NewCheckRequest("bad", "tablet", true, false)
		assert.ErrorIs(t, err, service.ErrInvalidURL)
	})
}
