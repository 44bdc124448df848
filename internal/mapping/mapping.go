package mapping

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/dshills/azdo-mcp/internal/azdo"
	"github.com/dshills/azdo-mcp/pkg/types"
)

// Threshold is the minimum confidence for a suggestion to be accepted.
const Threshold = 60

// Confidence levels for the non-scaled match kinds.
const (
	confidenceExact    = 100
	confidenceAlias    = 95
	confidenceFallback = 50
)

// titleFallbackPattern forces a title mapping attempt when nothing else
// mapped to the title field.
var titleFallbackPattern = regexp.MustCompile(`(?i)title|name|summary|test\s*case`)

// SuggestedField is one accepted candidate for a header.
type SuggestedField struct {
	ReferenceName string `json:"referenceName"`
	Confidence    int    `json:"confidence"` // 0-100
	Reason        string `json:"reason"`
}

// Suggestion is the full advisory mapping document for a header set.
type Suggestion struct {
	Mapping  map[string]SuggestedField `json:"mapping"`
	Unmapped []string                  `json:"unmapped"`
}

// FieldMapping converts the accepted suggestions into the explicit
// mapping form accepted by an import request.
func (s Suggestion) FieldMapping() types.FieldMapping {
	fm := make(types.FieldMapping, len(s.Mapping))
	for header, cand := range s.Mapping {
		fm[header] = cand.ReferenceName
	}
	return fm
}

// Suggest computes the best-scoring field candidate for every header.
// Pure and deterministic: fields are ordered before scoring and ties keep
// the first candidate in that order.
func Suggest(headers []string, fields []azdo.FieldDefinition) Suggestion {
	ordered := make([]azdo.FieldDefinition, len(fields))
	copy(ordered, fields)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].ReferenceName < ordered[j].ReferenceName
	})

	result := Suggestion{
		Mapping:  make(map[string]SuggestedField),
		Unmapped: make([]string, 0),
	}

	titleMapped := false
	for _, header := range headers {
		if strings.TrimSpace(header) == "" {
			continue
		}

		best := SuggestedField{}
		for _, field := range ordered {
			score, reason := scoreHeader(header, field)
			if score > best.Confidence {
				best = SuggestedField{
					ReferenceName: field.ReferenceName,
					Confidence:    score,
					Reason:        reason,
				}
			}
		}

		if best.Confidence >= Threshold {
			result.Mapping[header] = best
			if best.ReferenceName == azdo.FieldTitle {
				titleMapped = true
			}
		} else {
			result.Unmapped = append(result.Unmapped, header)
		}
	}

	// Guarantee a title mapping attempt: without a title no row is
	// importable, so a loose pattern match picks one up as a last resort.
	if !titleMapped {
		for _, header := range headers {
			if _, taken := result.Mapping[header]; taken {
				continue
			}
			if titleFallbackPattern.MatchString(header) {
				result.Mapping[header] = SuggestedField{
					ReferenceName: azdo.FieldTitle,
					Confidence:    confidenceFallback,
					Reason:        fmt.Sprintf("header %q matches title fallback pattern", header),
				}
				result.Unmapped = removeString(result.Unmapped, header)
				break
			}
		}
	}

	return result
}

// scoreHeader scores one header against one field definition, returning
// the confidence (0-100) and a short rationale.
func scoreHeader(header string, field azdo.FieldDefinition) (int, string) {
	h := normalize(header)
	if h == "" {
		return 0, ""
	}

	display := normalize(field.DisplayName)
	refTail := normalize(referenceTail(field.ReferenceName))

	if h == display || h == refTail {
		return confidenceExact, fmt.Sprintf("exact match with %q", field.DisplayName)
	}

	for _, alias := range aliases[field.ReferenceName] {
		if h == alias {
			return confidenceAlias, fmt.Sprintf("known alias for %q", field.DisplayName)
		}
	}

	bestScore, bestReason := 0, ""
	for _, target := range []string{display, refTail} {
		if target == "" {
			continue
		}
		if score := containmentScore(h, target); score > bestScore {
			bestScore = score
			bestReason = fmt.Sprintf("partial match with %q", field.DisplayName)
		}
		if score := tokenOverlapScore(h, target); score > bestScore {
			bestScore = score
			bestReason = fmt.Sprintf("word overlap with %q", field.DisplayName)
		}
	}
	return bestScore, bestReason
}

// containmentScore scores substring containment, scaled by how much of
// the longer string the shorter one covers (max 80).
func containmentScore(a, b string) int {
	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) < 3 || !strings.Contains(longer, shorter) {
		return 0
	}
	return 80 * len(shorter) / len(longer)
}

// tokenOverlapScore scores word-level overlap with the Dice coefficient,
// scaled to a 0-75 range.
func tokenOverlapScore(a, b string) int {
	ta, tb := strings.Fields(a), strings.Fields(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	set := make(map[string]bool, len(ta))
	for _, t := range ta {
		set[t] = true
	}
	common := 0
	for _, t := range tb {
		if set[t] {
			common++
		}
	}
	return 75 * 2 * common / (len(ta) + len(tb))
}

// Resolve produces the final mapping for an import. When explicit is
// non-empty it is taken verbatim and heuristics are skipped entirely;
// otherwise the accepted suggestions are used. Headers left unmapped are
// reported as warnings, never errors. The returned error is the hard
// mapping gate: a mapping with no title target can map zero rows.
func Resolve(headers []string, explicit map[string]string, fields []azdo.FieldDefinition) (types.FieldMapping, []string, error) {
	var fm types.FieldMapping
	var warnings []string

	if len(explicit) > 0 {
		fm = make(types.FieldMapping, len(explicit))
		headerSet := make(map[string]bool, len(headers))
		for _, h := range headers {
			headerSet[h] = true
		}
		for header, ref := range explicit {
			if !headerSet[header] {
				warnings = append(warnings, fmt.Sprintf("mapping references header %q which is not in the file", header))
				continue
			}
			fm[header] = ref
		}
	} else {
		fm = Suggest(headers, fields).FieldMapping()
	}

	mapped := make(map[string]bool, len(fm))
	for h := range fm {
		mapped[h] = true
	}
	for _, h := range headers {
		if strings.TrimSpace(h) != "" && !mapped[h] {
			warnings = append(warnings, fmt.Sprintf("header %q is not mapped to any field and will be ignored", h))
		}
	}

	if !hasTitleTarget(fm) {
		return nil, warnings, types.ErrNoMappableColumns
	}
	return fm, warnings, nil
}

func hasTitleTarget(fm types.FieldMapping) bool {
	for _, ref := range fm {
		if strings.EqualFold(ref, azdo.FieldTitle) {
			return true
		}
	}
	return false
}

// normalize lowercases and collapses every non-alphanumeric run into a
// single space.
func normalize(s string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// referenceTail returns the last dotted segment of a reference name,
// e.g. "AutomationStatus" from "Microsoft.VSTS.TCM.AutomationStatus".
func referenceTail(ref string) string {
	if i := strings.LastIndex(ref, "."); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

func removeString(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
