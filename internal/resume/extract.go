package resume

import (
	"regexp"
	"strings"

	"github.com/intervue/intervue-backend/internal/model"
)

// nameStrategy tries to recover a validated name from normalized text.
// Returns "" when it has nothing; strategies are tried in priority order
// and the first non-empty result wins.
type nameStrategy func(raw string, n Normalized) string

// Ordered from most to least reliable signal. Earlier strategies
// short-circuit later, noisier ones.
var nameStrategies = []nameStrategy{
	mergedTokenName,
	labeledName,
	earlyLineName,
	preSectionWindowName,
}

// Extract recovers best-effort identity fields from raw resume text.
// It never fails: a field the heuristics cannot recover is returned empty
// and the caller falls back to user-supplied values.
func Extract(raw string) model.ExtractedIdentity {
	n := Normalize(raw)

	identity := model.ExtractedIdentity{
		Email: firstMatch(emailRe, raw),
		Phone: firstMatch(phoneRe, raw),
	}

	for _, strategy := range nameStrategies {
		if name := strategy(raw, n); name != "" {
			identity.Name = name
			break
		}
	}

	return identity
}

func firstMatch(re *regexp.Regexp, text string) string {
	return re.FindString(text)
}

var (
	// Standard email token grammar: local-part@domain.tld.
	emailRe = regexp.MustCompile(`[\w.+-]+@[\w.-]+\.[A-Za-z]{2,}`)

	// Loose NANP-shaped phone grammar: optional +country code, optional
	// parenthesized area code, digit groups separated by -, . or space.
	phoneRe = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
)

// ─── Strategy 1: merged-token ───────────────────────────────────────

// mergedTokenRe matches a CamelCase run of 2–3 word fragments at the very
// start of the text — the artifact left when a decoder collapses adjacent
// styled runs ("JohnSmith", "JohnSmithSkills").
var mergedTokenRe = regexp.MustCompile(`^([A-Z][a-z]+)([A-Z][a-z]+)([A-Z][a-z]+)?`)

// mergedTokenName splits a leading CamelCase run at lowercase→uppercase
// boundaries and validates the result. When the full 3-fragment split fails
// validation (the trailing fragment is often a section word, as in
// "JohnSmithSkills"), the 2-fragment prefix is retried.
func mergedTokenName(raw string, _ Normalized) string {
	m := mergedTokenRe.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}

	fragments := []string{m[1], m[2]}
	if m[3] != "" {
		fragments = append(fragments, m[3])
	}

	for n := len(fragments); n >= 2; n-- {
		candidate := strings.Join(fragments[:n], " ")
		if isValidName(candidate) {
			return candidate
		}
	}
	return ""
}

// ─── Strategy 2: labeled ────────────────────────────────────────────

var (
	// Explicit label followed by a capitalized multi-word value.
	nameLabelRe = regexp.MustCompile(
		`(?:NAME|Name|FULL NAME|Full Name|CANDIDATE NAME|Candidate Name)\s*:?\s*([A-Z][A-Za-z'.-]+(?: [A-Z][A-Za-z'.-]*){1,3})`)

	// A line consisting only of a capitalized 2–4 word value.
	nameLineRe = regexp.MustCompile(
		`(?m)^[ \t]*([A-Z][A-Za-z'.-]+(?: [A-Z][A-Za-z'.-]*){1,3})[ \t]*$`)
)

func labeledName(raw string, _ Normalized) string {
	for _, re := range []*regexp.Regexp{nameLabelRe, nameLineRe} {
		if m := re.FindStringSubmatch(raw); m != nil {
			if candidate := strings.TrimSpace(m[1]); isValidName(candidate) {
				return candidate
			}
		}
	}
	return ""
}

// ─── Strategy 3: early-line ─────────────────────────────────────────

const earlyLineLimit = 5

// earlyLineName scans the first few non-empty lines for a standalone name,
// skipping anything the section classifier flags.
func earlyLineName(_ string, n Normalized) string {
	limit := earlyLineLimit
	if len(n.Lines) < limit {
		limit = len(n.Lines)
	}

	for _, line := range n.Lines[:limit] {
		if IsSectionHeader(line) {
			continue
		}
		words := strings.Fields(line)
		if len(words) < 2 || len(words) > 4 {
			continue
		}
		if candidate := strings.Join(words, " "); isValidName(candidate) {
			return candidate
		}
	}
	return ""
}

// ─── Strategy 4: pre-section window ─────────────────────────────────

// sectionKeywords mark where the resume header ends and section content
// begins.
var sectionKeywords = []string{"technical", "skills", "experience", "education", "programming", "languages"}

// windowCap bounds the name search even when no section keyword appears:
// true names never show up much later in a resume header.
const windowCap = 15

// preSectionWindowName searches contiguous 2–4 word spans within the words
// strictly before the first section keyword.
func preSectionWindowName(_ string, n Normalized) string {
	sectionStart := len(n.Words)
	for i, w := range n.Words {
		if containsSectionKeyword(w) {
			sectionStart = i
			break
		}
	}

	window := sectionStart
	if window > windowCap {
		window = windowCap
	}

	for i := 0; i < window-1; i++ {
		for span := 2; span <= 4 && i+span <= window; span++ {
			candidate := strings.Join(n.Words[i:i+span], " ")
			if isValidName(candidate) {
				return candidate
			}
		}
	}
	return ""
}

func containsSectionKeyword(word string) bool {
	lower := strings.ToLower(word)
	for _, kw := range sectionKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ─── Name validation ────────────────────────────────────────────────

// nameWordRe: starts uppercase, lowercase after, with capitalized segments
// allowed only behind an apostrophe or hyphen (O'Brien, Mary-Anne). Digits
// are rejected implicitly; all-caps acronyms fail on the second character.
var nameWordRe = regexp.MustCompile(`^[A-Z][a-z]*(?:['-][A-Za-z][a-z]*)*$`)

// nonNameVocabulary holds words that disqualify a candidate name: section
// nouns, seniority titles, technology names. Checked case-insensitively.
var nonNameVocabulary = map[string]struct{}{
	"technical": {}, "skills": {}, "professional": {}, "experience": {},
	"education": {}, "work": {}, "languages": {}, "programming": {},
	"software": {}, "developer": {}, "engineer": {}, "manager": {},
	"summary": {}, "profile": {}, "contact": {}, "information": {},
	"background": {}, "career": {}, "projects": {}, "achievements": {},
	"qualifications": {}, "certifications": {}, "awards": {},
	"java": {}, "python": {}, "javascript": {}, "react": {}, "node": {},
	"sql": {}, "html": {}, "css": {},
	"senior": {}, "junior": {}, "lead": {}, "principal": {}, "architect": {},
	"specialist": {}, "analyst": {},
	"frameworks": {}, "libraries": {}, "databases": {}, "tools": {},
	"technologies": {}, "core": {},
	"web": {}, "mobile": {}, "frontend": {}, "backend": {}, "fullstack": {},
	"stack": {},
}

// isValidName is a purely syntactic check; it never consults an external
// name database.
func isValidName(name string) bool {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < 2 || len(trimmed) > 50 {
		return false
	}
	if strings.ContainsAny(trimmed, "@0123456789") {
		return false
	}

	words := strings.Fields(trimmed)
	if len(words) < 2 || len(words) > 4 {
		return false
	}

	for _, w := range words {
		if !nameWordRe.MatchString(w) {
			return false
		}
		if _, bad := nonNameVocabulary[strings.ToLower(w)]; bad {
			return false
		}
	}
	return true
}
