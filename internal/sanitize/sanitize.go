package sanitize

import (
	"net/url"
	"regexp"
	"strings"
)

// Class selects the sanitization applied to a piece of untrusted input.
type Class string

const (
	ClassText     Class = "text"
	ClassEmail    Class = "email"
	ClassURL      Class = "url"
	ClassHTML     Class = "html"
	ClassJobTitle Class = "job_title"
	ClassCompany  Class = "company"
	ClassFeedback Class = "feedback"
	ClassPhone    Class = "phone"
	ClassFilename Class = "filename"
)

const (
	maxTitleLen    = 100
	maxFeedbackLen = 5000
	maxPhoneLen    = 20
	maxFilenameLen = 255
)

// Tags that must never survive HTML sanitization, matched at tag boundaries.
var deniedTags = []string{
	"script", "iframe", "object", "embed", "form", "input", "button",
	"link", "style", "meta", "base", "frameset", "frame", "applet",
}

var (
	controlChars  = regexp.MustCompile("[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]")
	whitespaceRun = regexp.MustCompile(`\s+`)
	emailAllowed  = regexp.MustCompile(`[^A-Za-z0-9@._-]`)
	phoneAllowed  = regexp.MustCompile(`[^0-9+().\s-]`)
	fileDisallow  = regexp.MustCompile(`[^A-Za-z0-9._-]`)
	underscoreRun = regexp.MustCompile(`_+`)
	titleStrip    = regexp.MustCompile("[<>{}\\[\\]\\\\`]")

	pairedTagPatterns []*regexp.Regexp
	orphanTagPatterns []*regexp.Regexp
	residualTag       *regexp.Regexp

	eventAttr   = regexp.MustCompile(`(?i)\s+on\w+\s*=\s*("[^"]*"|'[^']*'|[^\s>]+)`)
	styleExpr   = regexp.MustCompile(`(?i)\s+style\s*=\s*("[^"]*expression[^"]*"|'[^']*expression[^']*'|[^\s>]*expression[^\s>]*)`)
	unsafeHref  = regexp.MustCompile(`(?i)(href|src)\s*=\s*("\s*(?:javascript|vbscript|data)\s*:[^"]*"|'\s*(?:javascript|vbscript|data)\s*:[^']*'|\s*(?:javascript|vbscript|data)\s*:[^\s>]*)`)
	residualJS  = regexp.MustCompile(`(?i)(javascript|vbscript)\s*:`)
	residualOn  = regexp.MustCompile(`(?i)\bon(\w+)\s*=`)
	residualExp = regexp.MustCompile(`(?i)expression\s*\(`)
)

func init() {
	for _, tag := range deniedTags {
		pairedTagPatterns = append(pairedTagPatterns,
			regexp.MustCompile(`(?is)<\s*`+tag+`\b[^>]*>.*?<\s*/\s*`+tag+`\s*>`))
		orphanTagPatterns = append(orphanTagPatterns,
			regexp.MustCompile(`(?i)<\s*/?\s*`+tag+`\b[^>]*/?\s*>`))
	}
	residualTag = regexp.MustCompile(`(?i)<(\s*/?\s*(?:` + strings.Join(deniedTags, "|") + `)\b)`)
}

// Sanitize normalizes untrusted input for the given content class. It is a
// total function: it never fails, and empty input yields an empty string.
// Unknown classes get the plain-text treatment.
func Sanitize(input string, class Class) string {
	if input == "" {
		return ""
	}

	switch class {
	case ClassEmail:
		return sanitizeEmail(input)
	case ClassURL:
		return sanitizeURL(input)
	case ClassHTML:
		return sanitizeHTML(input)
	case ClassJobTitle, ClassCompany:
		return truncate(titleStrip.ReplaceAllString(sanitizeText(input), ""), maxTitleLen)
	case ClassFeedback:
		return truncate(sanitizeHTML(input), maxFeedbackLen)
	case ClassPhone:
		return truncate(phoneAllowed.ReplaceAllString(input, ""), maxPhoneLen)
	case ClassFilename:
		return sanitizeFilename(input)
	default:
		return sanitizeText(input)
	}
}

func sanitizeText(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	s = controlChars.ReplaceAllString(s, "")
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func sanitizeEmail(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return emailAllowed.ReplaceAllString(s, "")
}

func sanitizeURL(s string) string {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return ""
	}
	if !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	return u.String()
}

func sanitizeHTML(s string) string {
	// Removing a tag can splice a new one together out of its neighbors,
	// so the removal passes repeat until the input stops changing. Every
	// pass only deletes characters, so this terminates.
	for {
		prev := s
		for _, p := range pairedTagPatterns {
			s = p.ReplaceAllString(s, "")
		}
		for _, p := range orphanTagPatterns {
			s = p.ReplaceAllString(s, "")
		}
		if s == prev {
			break
		}
	}

	s = eventAttr.ReplaceAllString(s, "")
	s = styleExpr.ReplaceAllString(s, "")
	s = unsafeHref.ReplaceAllString(s, `${1}="#"`)

	// Anything that still looks like script wiring gets entity-encoded so it
	// can no longer be interpreted, only displayed.
	s = residualTag.ReplaceAllString(s, "&lt;${1}")
	s = residualJS.ReplaceAllString(s, "${1}&#58;")
	s = residualOn.ReplaceAllString(s, "on${1}&#61;")
	s = residualExp.ReplaceAllString(s, "expression&#40;")

	return s
}

func sanitizeFilename(s string) string {
	s = fileDisallow.ReplaceAllString(s, "_")
	s = underscoreRun.ReplaceAllString(s, "_")
	return truncate(s, maxFilenameLen)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
