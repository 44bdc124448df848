package importer

import (
	"fmt"
	"regexp"
	"strings"
)

// Step is one action/expected pair of a test case.
type Step struct {
	Action   string
	Expected string
}

// stepPrefixPattern strips "1." / "2)" style numbering from step lines.
var stepPrefixPattern = regexp.MustCompile(`^\s*\d+\s*[.)]\s*`)

// ParseSteps splits raw delimited step text into steps. One step per
// line; within a line the first '|' separates action from expected
// result. The '|' delimiter is a source-format contract: it must not
// appear inside either field's own text.
func ParseSteps(raw string) []Step {
	var steps []Step
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(stepPrefixPattern.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		action, expected := line, ""
		if i := strings.Index(line, "|"); i >= 0 {
			action = strings.TrimSpace(line[:i])
			expected = strings.TrimSpace(line[i+1:])
		}
		steps = append(steps, Step{Action: action, Expected: expected})
	}
	return steps
}

// EncodeSteps renders raw step text into the work item steps micro-format:
// an enclosing element carrying the step count with one indexed child per
// step. Child ids start at 2, matching the wire format. Returns "" when
// the text contains no steps.
func EncodeSteps(raw string) string {
	steps := ParseSteps(raw)
	if len(steps) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<steps id="0" last="%d">`, len(steps)+1)
	for i, step := range steps {
		fmt.Fprintf(&b, `<step id="%d" type="ActionStep">`, i+2)
		fmt.Fprintf(&b, `<parameterizedString isformatted="true">%s</parameterizedString>`, escapeEntities(step.Action))
		fmt.Fprintf(&b, `<parameterizedString isformatted="true">%s</parameterizedString>`, escapeEntities(step.Expected))
		b.WriteString(`<description/></step>`)
	}
	b.WriteString(`</steps>`)
	return b.String()
}

// stepElementPattern extracts the action/expected pair of one encoded step.
var stepElementPattern = regexp.MustCompile(
	`<parameterizedString isformatted="true">(.*?)</parameterizedString>` +
		`<parameterizedString isformatted="true">(.*?)</parameterizedString>`)

// DecodeSteps reverses EncodeSteps, recovering the action/expected pairs.
func DecodeSteps(encoded string) []Step {
	var steps []Step
	for _, m := range stepElementPattern.FindAllStringSubmatch(encoded, -1) {
		steps = append(steps, Step{
			Action:   unescapeEntities(m[1]),
			Expected: unescapeEntities(m[2]),
		})
	}
	return steps
}

// entityEscaper escapes the characters reserved by the step micro-format.
// '&' must go first on escape and last on unescape.
var (
	entityEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"'", "&apos;",
		`"`, "&quot;",
	)
	entityUnescaper = strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&apos;", "'",
		"&quot;", `"`,
		"&amp;", "&",
	)
)

func escapeEntities(s string) string   { return entityEscaper.Replace(s) }
func unescapeEntities(s string) string { return entityUnescaper.Replace(s) }
