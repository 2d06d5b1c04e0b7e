package service

import (
	"encoding/json"
)

// noGroupKey is how an audit without a category group is keyed on the wire.
const noGroupKey = "undefined"

// GroupKey identifies a category group. Audits the accessibility category does
// not reference, or references without a group, use the zero GroupKey. A group
// literally named "undefined" shares the zero key so the two never encode as
// duplicate object keys.
type GroupKey struct {
	ID    string
	Valid bool
}

func GroupOf(id string) GroupKey {
	if id == "" || id == noGroupKey {
		return GroupKey{}
	}
	return GroupKey{ID: id, Valid: true}
}

func (k GroupKey) String() string {
	if !k.Valid {
		return noGroupKey
	}
	return k.ID
}

func (k GroupKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *GroupKey) UnmarshalText(b []byte) error {
	s := string(b)
	if s == noGroupKey {
		*k = GroupKey{}
		return nil
	}
	*k = GroupOf(s)
	return nil
}

// AuditInfo is one audit inside a grouped bucket.
type AuditInfo struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	ScoreDisplayMode string          `json:"scoreDisplayMode"`
	Score            *float64        `json:"score"`
	Weight           *float64        `json:"weight,omitempty"`
	Details          json.RawMessage `json:"details,omitempty"`
}

type AuditGroup struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Audits      map[string]AuditInfo `json:"audits"`
}

type GroupSet map[GroupKey]*AuditGroup

type GroupedResult struct {
	AccessibilityScore float64  `json:"accessibilityScore"`
	Passed             GroupSet `json:"passed"`
	Failed             GroupSet `json:"failed"`
	NotApplicable      GroupSet `json:"notApplicable"`

	// Dropped lists audits whose score was neither 1, 0 nor null.
	Dropped []string `json:"-"`
}

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeveritySerious  Severity = "serious"
	SeverityModerate Severity = "moderate"
	SeverityMinor    Severity = "minor"
)

// SeverityForWeight maps the documented auditRef weights; other weights have no class.
func SeverityForWeight(weight float64) (Severity, bool) {
	switch weight {
	case 10:
		return SeverityCritical, true
	case 7:
		return SeveritySerious, true
	case 3:
		return SeverityModerate, true
	case 1:
		return SeverityMinor, true
	default:
		return "", false
	}
}

type IssueAudit struct {
	Title string `json:"title"`
	Items int    `json:"items"`
}

type IssueGroup struct {
	Title  string                `json:"title"`
	Audits map[string]IssueAudit `json:"audits"`
}

type IssueSet map[GroupKey]*IssueGroup

type SeverityIssues struct {
	Critical IssueSet `json:"critical"`
	Serious  IssueSet `json:"serious"`
	Moderate IssueSet `json:"moderate"`
	Minor    IssueSet `json:"minor"`
}

func (i *SeverityIssues) bucket(s Severity) IssueSet {
	switch s {
	case SeverityCritical:
		return i.Critical
	case SeveritySerious:
		return i.Serious
	case SeverityModerate:
		return i.Moderate
	default:
		return i.Minor
	}
}

type SeverityResult struct {
	Score  float64        `json:"score"`
	Issues SeverityIssues `json:"issues"`

	// Dropped lists failed audits whose weight has no severity class.
	Dropped []string `json:"-"`
}

type DiagnosticAudit struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	DisplayValue string `json:"displayValue"`
}

type DiagnosticsResult struct {
	AccessibilityScore float64           `json:"accessibilityScore"`
	Audits             []DiagnosticAudit `json:"audits"`
}
