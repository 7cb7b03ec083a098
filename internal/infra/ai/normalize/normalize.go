// Package normalize turns raw reasoning-service replies into schema-conformant
// results. Every code path either returns a valid NormalizedResult or a parse
// error for the orchestrator's fallback path; malformed fields never leak.
package normalize

import (
	"encoding/json"
	"fmt"
	"strings"

	domain "github.com/contractshield/contractshield/internal/domain/analysis"
)

// CleanReply strips an optional markdown code fence around the JSON body.
// Models sometimes wrap output in ```json ... ``` despite instructions.
func CleanReply(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// Normalize parses raw as JSON and coerces it field-by-field into a
// NormalizedResult. A parse failure is returned as an error; everything past
// the parse is repaired with safe defaults, never rejected.
//
// Normalize is idempotent: feeding a marshaled NormalizedResult back in
// produces the same result.
func Normalize(raw string) (domain.NormalizedResult, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(CleanReply(raw)), &obj); err != nil {
		return domain.NormalizedResult{}, fmt.Errorf("reply is not valid JSON: %w", err)
	}

	res := domain.NormalizedResult{
		Score:      asScore(obj["score"]),
		Overview:   asNarrative(obj["overview"], domain.DefaultOverview),
		Analysis:   asFindings(obj["analysis"]),
		Confidence: asConfidence(obj["confidence"]),
	}

	if m := asStringMap(obj["contractMeta"]); m != nil {
		res.ContractMeta = m
	}
	if m := asCategories(obj["categories"]); m != nil {
		res.Categories = m
	}
	if l := asStringList(obj["redFlags"]); l != nil {
		res.RedFlags = l
	}
	if l := asLoopholes(obj["loopholes"]); l != nil {
		res.Loopholes = l
	}
	if m := asStringMap(obj["negotiation"]); m != nil {
		res.Negotiation = m
	}

	return res, nil
}

// asScore accepts only a JSON number inside [0,100]; anything else gets the
// fixed default.
func asScore(v any) int {
	f, ok := v.(float64)
	if !ok || f < 0 || f > 100 {
		return domain.DefaultScore
	}
	return int(f)
}

func asNarrative(v any, fallback string) string {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func asConfidence(v any) domain.Confidence {
	if s, ok := v.(string); ok && domain.Confidence(s) == domain.ConfidenceDegraded {
		return domain.ConfidenceDegraded
	}
	return domain.ConfidenceFull
}

func asSeverity(v any) domain.Severity {
	s, _ := v.(string)
	sev := domain.Severity(strings.ToLower(strings.TrimSpace(s)))
	if !domain.ValidSeverity(sev) {
		return domain.SeverityInfo
	}
	return sev
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// asFindings coerces the findings list. A non-array value becomes an empty
// list; entries missing a title or a description are dropped.
func asFindings(v any) []domain.Finding {
	items, ok := v.([]any)
	if !ok {
		return []domain.Finding{}
	}
	out := make([]domain.Finding, 0, len(items))
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		f := domain.Finding{
			Icon:        asString(m["icon"]),
			Title:       strings.TrimSpace(asString(m["title"])),
			Description: strings.TrimSpace(asString(m["description"])),
			Severity:    asSeverity(m["severity"]),
			Details:     asString(m["details"]),
		}
		if f.Title == "" || f.Description == "" {
			continue
		}
		out = append(out, f)
	}
	return out
}

func asStringMap(v any) map[string]string {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, vv := range m {
		if s, ok := vv.(string); ok && s != "" {
			out[k] = s
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func asCategories(v any) map[string]domain.CategoryAssessment {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]domain.CategoryAssessment, len(m))
	for k, vv := range m {
		cm, ok := vv.(map[string]any)
		if !ok {
			continue
		}
		out[k] = domain.CategoryAssessment{
			Score:   asScore(cm["score"]),
			Comment: asString(cm["comment"]),
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func asStringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func asLoopholes(v any) []domain.Loophole {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]domain.Loophole, 0, len(items))
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		l := domain.Loophole{
			Clause:   strings.TrimSpace(asString(m["clause"])),
			Risk:     strings.TrimSpace(asString(m["risk"])),
			Severity: asSeverity(m["severity"]),
		}
		if l.Clause == "" && l.Risk == "" {
			continue
		}
		out = append(out, l)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
