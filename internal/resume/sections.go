package resume

import (
	"regexp"
	"strings"
)

// exactHeaders is the fixed set of known resume section titles, compared
// against the lowercased trimmed line.
var exactHeaders = map[string]struct{}{
	"technical skills":       {},
	"professional skills":    {},
	"core skills":            {},
	"skills":                 {},
	"work experience":        {},
	"professional experience": {},
	"employment history":     {},
	"experience":             {},
	"education":              {},
	"educational background": {},
	"academic background":    {},
	"programming languages":  {},
	"languages":              {},
	"technologies":           {},
	"projects":               {},
	"key projects":           {},
	"notable projects":       {},
	"summary":                {},
	"professional summary":   {},
	"career summary":         {},
	"profile":                {},
	"contact information":    {},
	"contact":                {},
	"personal information":   {},
	"certifications":         {},
	"awards":                 {},
	"achievements":           {},
	"qualifications":         {},
}

// concatenatedHeaders matches headers whose internal whitespace was dropped
// by a layout-to-text decoder ("TechnicalSkills", "WorkExperience", ...).
var concatenatedHeaders = []*regexp.Regexp{
	regexp.MustCompile(`(?i)technicalskills`),
	regexp.MustCompile(`(?i)professionalskills`),
	regexp.MustCompile(`(?i)workexperience`),
	regexp.MustCompile(`(?i)programminglanguages`),
	regexp.MustCompile(`(?i)contactinformation`),
}

// techKeywords signal a skills list rather than a name when several occur
// on one line.
var techKeywords = []string{"java", "python", "javascript", "react", "node", "sql", "html", "css"}

// IsSectionHeader reports whether a line is a resume section header rather
// than candidate identity content. Pure predicate, no side effects.
func IsSectionHeader(line string) bool {
	lower := strings.ToLower(strings.TrimSpace(line))

	if _, ok := exactHeaders[lower]; ok {
		return true
	}

	for _, re := range concatenatedHeaders {
		if re.MatchString(line) {
			return true
		}
	}

	hits := 0
	for _, kw := range techKeywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	return hits >= 3
}
