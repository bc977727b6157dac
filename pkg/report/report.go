// Package report normalizes loosely structured advisory prose into sections.
// Every feature that renders model output shares this one parser.
package report

import (
	"strings"

	"github.com/agrisetu/agrisetu-backend/pkg/enums"
)

// Section is one heading-scoped block of normalized output.
type Section struct {
	Heading    string   `json:"heading"`
	Bullets    []string `json:"bullets"`
	Paragraphs []string `json:"paragraphs"`
}

// Report is the normalized form of a completion.
type Report struct {
	Sections []Section `json:"sections"`
}

// Parse splits raw completion text into sections using a deterministic rule:
// a line is a heading when it starts with '#' characters or is wrapped in
// bold markers, a bullet when it starts with '-' or '*', and a paragraph
// otherwise. Blank input yields an empty report.
func Parse(raw string) Report {
	rep := Report{Sections: []Section{}}
	if strings.TrimSpace(raw) == "" {
		return rep
	}

	var current *Section
	ensure := func() *Section {
		if current == nil {
			rep.Sections = append(rep.Sections, Section{})
			current = &rep.Sections[len(rep.Sections)-1]
		}
		return current
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if heading, ok := headingText(line); ok {
			rep.Sections = append(rep.Sections, Section{Heading: heading})
			current = &rep.Sections[len(rep.Sections)-1]
			continue
		}

		if bullet, ok := bulletText(line); ok {
			sec := ensure()
			sec.Bullets = append(sec.Bullets, bullet)
			continue
		}

		sec := ensure()
		sec.Paragraphs = append(sec.Paragraphs, line)
	}

	return rep
}

// headingText reports whether the line is a heading and returns its text.
func headingText(line string) (string, bool) {
	if strings.HasPrefix(line, "#") {
		return strings.TrimSpace(strings.TrimLeft(line, "#")), true
	}
	// Bold-wrapped lines act as headings, in either marker form. Checked
	// before bullets since both can start with '*'.
	if strings.HasPrefix(line, "**") && strings.HasSuffix(line, "**") && len(line) > 4 {
		return strings.TrimSpace(strings.Trim(line, "*")), true
	}
	if strings.HasPrefix(line, "__") && strings.HasSuffix(line, "__") && len(line) > 4 {
		return strings.TrimSpace(strings.Trim(line, "_")), true
	}
	return "", false
}

func bulletText(line string) (string, bool) {
	if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") {
		return strings.TrimSpace(line[2:]), true
	}
	if line == "-" || line == "*" {
		return "", true
	}
	return "", false
}

// PlainText flattens a report back into newline-separated prose. Used for
// persistence where the analysis column stores display-ready text.
func (r Report) PlainText() string {
	var b strings.Builder
	for _, sec := range r.Sections {
		if sec.Heading != "" {
			b.WriteString(sec.Heading)
			b.WriteString("\n")
		}
		for _, p := range sec.Paragraphs {
			b.WriteString(p)
			b.WriteString("\n")
		}
		for _, bl := range sec.Bullets {
			b.WriteString("- ")
			b.WriteString(bl)
			b.WriteString("\n")
		}
	}
	return strings.TrimSpace(b.String())
}

// InferRiskLevel scans completion text for a risk grade. The second return
// is false when no grade could be determined; callers decide the fallback.
func InferRiskLevel(raw string) (enums.RiskLevel, bool) {
	lower := strings.ToLower(raw)

	type match struct {
		idx   int
		level enums.RiskLevel
	}
	var matches []match
	add := func(token string, level enums.RiskLevel) {
		if idx := indexWord(lower, token); idx >= 0 {
			matches = append(matches, match{idx: idx, level: level})
		}
	}
	add("high", enums.RiskLevelHigh)
	add("medium", enums.RiskLevelMedium)
	add("med", enums.RiskLevelMedium)
	add("low", enums.RiskLevelLow)

	if len(matches) == 0 {
		return "", false
	}
	best := matches[0]
	for _, m := range matches[1:] {
		if m.idx < best.idx {
			best = m
		}
	}
	return best.level, true
}

// indexWord finds token as a whole word, so "low" does not match "yellow".
func indexWord(haystack, token string) int {
	start := 0
	for {
		idx := strings.Index(haystack[start:], token)
		if idx < 0 {
			return -1
		}
		idx += start
		beforeOK := idx == 0 || !isWordChar(haystack[idx-1])
		after := idx + len(token)
		afterOK := after >= len(haystack) || !isWordChar(haystack[after])
		if beforeOK && afterOK {
			return idx
		}
		start = idx + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
