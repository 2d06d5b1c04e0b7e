package pagespeed

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// AccessibilityCategory is the only category this service requests upstream.
const AccessibilityCategory = "accessibility"

// Strategy is the device emulation mode of a PageSpeed run.
type Strategy string

const (
	StrategyDesktop Strategy = "desktop"
	StrategyMobile  Strategy = "mobile"
)

// ParseStrategy accepts exactly "desktop" or "mobile".
func ParseStrategy(s string) (Strategy, bool) {
	switch Strategy(s) {
	case StrategyDesktop, StrategyMobile:
		return Strategy(s), true
	}
	return "", false
}

// Response is the PageSpeed v5 envelope. Only the lighthouse report is read.
type Response struct {
	LighthouseResult *Report `json:"lighthouseResult"`
}

type Report struct {
	Categories     map[string]Category      `json:"categories"`
	CategoryGroups map[string]CategoryGroup `json:"categoryGroups"`
	Audits         map[string]Audit         `json:"audits"`
}

type Category struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Score     *float64   `json:"score"`
	AuditRefs []AuditRef `json:"auditRefs"`
}

// FindRef returns the reference for auditID, if the category lists it.
func (c Category) FindRef(auditID string) (AuditRef, bool) {
	for _, ref := range c.AuditRefs {
		if ref.ID == auditID {
			return ref, true
		}
	}
	return AuditRef{}, false
}

type AuditRef struct {
	ID     string  `json:"id"`
	Weight float64 `json:"weight"`
	Group  string  `json:"group"`
}

type CategoryGroup struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Audit struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	DisplayValue     string          `json:"displayValue"`
	ScoreDisplayMode string          `json:"scoreDisplayMode"`
	Score            Score           `json:"score"`
	Details          json.RawMessage `json:"details,omitempty"`
}

// ItemCount is the length of details.items, or 0 when there is none.
func (a Audit) ItemCount() int {
	if len(a.Details) == 0 {
		return 0
	}
	var d struct {
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(a.Details, &d); err != nil {
		return 0
	}
	return len(d.Items)
}

// Score distinguishes an absent score from an explicit null.
// Lighthouse reports null for audits that do not apply to the page.
type Score struct {
	Value   float64
	Null    bool
	Present bool
}

var nullLiteral = []byte("null")

func (s *Score) UnmarshalJSON(data []byte) error {
	s.Present = true
	if bytes.Equal(bytes.TrimSpace(data), nullLiteral) {
		s.Null = true
		s.Value = 0
		return nil
	}
	if err := json.Unmarshal(data, &s.Value); err != nil {
		return fmt.Errorf("decode score: %w", err)
	}
	s.Null = false
	return nil
}

func (s Score) MarshalJSON() ([]byte, error) {
	if !s.Present || s.Null {
		return nullLiteral, nil
	}
	return json.Marshal(s.Value)
}

// Ptr returns nil for absent or null scores.
func (s Score) Ptr() *float64 {
	if !s.Present || s.Null {
		return nil
	}
	v := s.Value
	return &v
}
