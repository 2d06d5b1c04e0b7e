package service

import (
	"encoding/json"
	"testing"

	"github.com/godilite/a11y-check/pkg/pagespeed"
	"github.com/stretchr/testify/require"
)

// sampleBody is a trimmed PageSpeed v5 response covering every bucket.
const sampleBody = `{
  "id": "https://example.com/",
  "lighthouseResult": {
    "categories": {
      "accessibility": {
        "id": "accessibility",
        "title": "Accessibility",
        "score": 0.75,
        "auditRefs": [
          {"id": "image-alt", "weight": 10, "group": "a11y-names-labels"},
          {"id": "button-name", "weight": 10, "group": "a11y-names-labels"},
          {"id": "color-contrast", "weight": 7, "group": "a11y-color-contrast"},
          {"id": "html-has-lang", "weight": 3, "group": "a11y-language"},
          {"id": "list", "weight": 1, "group": "a11y-tables-lists"},
          {"id": "odd-weight", "weight": 5, "group": "a11y-navigation"},
          {"id": "tabindex", "weight": 3, "group": "a11y-navigation"},
          {"id": "video-caption", "weight": 10, "group": "a11y-audio-video"},
          {"id": "aria-hidden-body", "weight": 10}
        ]
      }
    },
    "categoryGroups": {
      "a11y-names-labels": {"title": "Names and labels", "description": "Improve semantics."},
      "a11y-color-contrast": {"title": "Contrast", "description": "Improve legibility."},
      "a11y-tables-lists": {"title": "Tables and lists"},
      "a11y-navigation": {"title": "Navigation", "description": "Improve keyboard navigation."},
      "a11y-audio-video": {"title": "Audio and video", "description": "Provide alternatives."}
    },
    "audits": {
      "image-alt": {
        "id": "image-alt",
        "title": "Image elements do not have [alt] attributes",
        "description": "Informative elements need text. [Learn more](https://dequeuniversity.com/rules/axe/4.8/image-alt).",
        "score": 0,
        "scoreDisplayMode": "binary",
        "details": {"type": "table", "items": [{"node": {}}]}
      },
      "button-name": {
        "id": "button-name",
        "title": "Buttons have an accessible name",
        "description": "When a <button> has no name...",
        "score": 1,
        "scoreDisplayMode": "binary"
      },
      "color-contrast": {
        "id": "color-contrast",
        "title": "Background and foreground colors do not have a sufficient contrast ratio.",
        "description": "Low-contrast text is difficult to read.",
        "score": 0,
        "scoreDisplayMode": "binary",
        "details": {"type": "table", "items": [{}, {}, {}]}
      },
      "html-has-lang": {
        "id": "html-has-lang",
        "title": "<html> element does not have a [lang] attribute",
        "description": "Declare the language.",
        "score": 0,
        "scoreDisplayMode": "binary"
      },
      "list": {
        "id": "list",
        "title": "Lists do not contain only <li> elements",
        "description": "Screen readers announce lists.",
        "score": 0,
        "scoreDisplayMode": "binary",
        "details": {"type": "table", "items": [{}, {}]}
      },
      "odd-weight": {
        "id": "odd-weight",
        "title": "Odd weight audit",
        "description": "Weight outside the documented classes.",
        "score": 0,
        "scoreDisplayMode": "binary"
      },
      "tabindex": {
        "id": "tabindex",
        "title": "Some elements have a [tabindex] value greater than 0",
        "description": "Partially scored.",
        "score": 0.5,
        "scoreDisplayMode": "numeric"
      },
      "video-caption": {
        "id": "video-caption",
        "title": "<video> elements contain a <track> element",
        "description": "Captions help.",
        "score": null,
        "scoreDisplayMode": "notApplicable"
      },
      "aria-hidden-body": {
        "id": "aria-hidden-body",
        "title": "[aria-hidden=\"true\"] is present on the document <body>",
        "description": "Hidden body.",
        "score": 0,
        "scoreDisplayMode": "binary"
      },
      "screenshot-thumbnails": {
        "id": "screenshot-thumbnails",
        "title": "Screenshot Thumbnails",
        "description": "Not part of accessibility.",
        "score": null,
        "scoreDisplayMode": "informative"
      },
      "final-screenshot": {
        "id": "final-screenshot",
        "title": "Final Screenshot",
        "description": "No score at all."
      }
    }
  }
}`

func sampleReport(t *testing.T) *pagespeed.Report {
	t.Helper()
	var resp pagespeed.Response
	require.NoError(t, json.Unmarshal([]byte(sampleBody), &resp))
	require.NotNil(t, resp.LighthouseResult)
	return resp.LighthouseResult
}
