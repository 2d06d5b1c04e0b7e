package service

import (
	"errors"
	"fmt"
	"sort"

	"github.com/godilite/a11y-check/pkg/pagespeed"
)

// ErrMalformedReport means the upstream body is not a usable lighthouse report.
var ErrMalformedReport = errors.New("malformed pagespeed report")

const unknownGroupTitle = "Unknown"

func accessibilityCategory(report *pagespeed.Report) (pagespeed.Category, error) {
	if report == nil {
		return pagespeed.Category{}, fmt.Errorf("%w: missing lighthouseResult", ErrMalformedReport)
	}
	cat, ok := report.Categories[pagespeed.AccessibilityCategory]
	if !ok {
		return pagespeed.Category{}, fmt.Errorf("%w: missing %s category", ErrMalformedReport, pagespeed.AccessibilityCategory)
	}
	return cat, nil
}

func scaledScore(cat pagespeed.Category, factor float64) float64 {
	if cat.Score == nil {
		return 0
	}
	return *cat.Score * factor
}

func groupMeta(report *pagespeed.Report, key GroupKey) (title, description string) {
	title = unknownGroupTitle
	g, ok := report.CategoryGroups[key.String()]
	if !ok {
		return title, ""
	}
	if g.Title != "" {
		title = g.Title
	}
	return title, g.Description
}

// sortedAuditIDs gives extractors a stable walk order over the audit map.
func sortedAuditIDs(audits map[string]pagespeed.Audit) []string {
	ids := make([]string, 0, len(audits))
	for id := range audits {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ExtractGrouped buckets every audit into passed (score 1), failed (score 0) or
// notApplicable (score null). Audits with any other score are left out and
// reported in Dropped.
func ExtractGrouped(report *pagespeed.Report, detailed bool) (GroupedResult, error) {
	cat, err := accessibilityCategory(report)
	if err != nil {
		return GroupedResult{}, err
	}

	result := GroupedResult{
		AccessibilityScore: scaledScore(cat, 100),
		Passed:             GroupSet{},
		Failed:             GroupSet{},
		NotApplicable:      GroupSet{},
	}

	for _, auditID := range sortedAuditIDs(report.Audits) {
		audit := report.Audits[auditID]

		var bucket GroupSet
		switch {
		case !audit.Score.Present:
		case audit.Score.Null:
			bucket = result.NotApplicable
		case audit.Score.Value == 1:
			bucket = result.Passed
		case audit.Score.Value == 0:
			bucket = result.Failed
		}
		if bucket == nil {
			result.Dropped = append(result.Dropped, auditID)
			continue
		}

		ref, hasRef := cat.FindRef(auditID)
		key := GroupOf(ref.Group)

		info := AuditInfo{
			ID:               audit.ID,
			Title:            CleanDescription(audit.Title),
			Description:      CleanDescription(audit.Description),
			ScoreDisplayMode: audit.ScoreDisplayMode,
			Score:            audit.Score.Ptr(),
		}
		if hasRef {
			w := ref.Weight
			info.Weight = &w
		}
		if detailed {
			info.Details = audit.Details
		}

		group, ok := bucket[key]
		if !ok {
			title, description := groupMeta(report, key)
			group = &AuditGroup{
				Title:       title,
				Description: description,
				Audits:      map[string]AuditInfo{},
			}
			bucket[key] = group
		}
		group.Audits[auditID] = info
	}

	return result, nil
}

// ExtractSeverity classifies failed audits by the weight of their auditRef.
// Failed audits with no ref or an unclassified weight are reported in Dropped.
func ExtractSeverity(report *pagespeed.Report) (SeverityResult, error) {
	cat, err := accessibilityCategory(report)
	if err != nil {
		return SeverityResult{}, err
	}

	result := SeverityResult{
		Score: scaledScore(cat, 10),
		Issues: SeverityIssues{
			Critical: IssueSet{},
			Serious:  IssueSet{},
			Moderate: IssueSet{},
			Minor:    IssueSet{},
		},
	}

	for _, auditID := range sortedAuditIDs(report.Audits) {
		audit := report.Audits[auditID]
		if !audit.Score.Present || audit.Score.Null || audit.Score.Value != 0 {
			continue
		}

		ref, hasRef := cat.FindRef(auditID)
		if !hasRef {
			result.Dropped = append(result.Dropped, auditID)
			continue
		}
		severity, ok := SeverityForWeight(ref.Weight)
		if !ok {
			result.Dropped = append(result.Dropped, auditID)
			continue
		}

		bucket := result.Issues.bucket(severity)
		key := GroupOf(ref.Group)
		group, ok := bucket[key]
		if !ok {
			title, _ := groupMeta(report, key)
			group = &IssueGroup{Title: title, Audits: map[string]IssueAudit{}}
			bucket[key] = group
		}
		group.Audits[auditID] = IssueAudit{
			Title: CleanDescription(audit.Title),
			Items: audit.ItemCount(),
		}
	}

	return result, nil
}

// ExtractDiagnostics lists the audits referenced by the accessibility category,
// in reference order, without grouping.
func ExtractDiagnostics(report *pagespeed.Report) (DiagnosticsResult, error) {
	cat, err := accessibilityCategory(report)
	if err != nil {
		return DiagnosticsResult{}, err
	}

	result := DiagnosticsResult{
		AccessibilityScore: scaledScore(cat, 100),
		Audits:             make([]DiagnosticAudit, 0, len(cat.AuditRefs)),
	}

	seen := make(map[string]struct{}, len(cat.AuditRefs))
	for _, ref := range cat.AuditRefs {
		if _, dup := seen[ref.ID]; dup {
			continue
		}
		seen[ref.ID] = struct{}{}

		audit, ok := report.Audits[ref.ID]
		if !ok {
			continue
		}
		result.Audits = append(result.Audits, DiagnosticAudit{
			ID:           ref.ID,
			Title:        CleanDescription(audit.Title),
			Description:  CleanDescription(audit.Description),
			DisplayValue: audit.DisplayValue,
		})
	}

	return result, nil
}
