package dateparse

import (
	"regexp"
	"strings"
)

// LLM extractions often carry the range connectors of the original sentence
// ("from 10th July from 2pm", "3pm to"). These rules strip them before the
// phrase reaches the parser.
var (
	duplicateFromPattern = regexp.MustCompile(`(?i)\bfrom\s+from\b`)
	duplicateToPattern   = regexp.MustCompile(`(?i)\bto\s+to\b`)
	leadingPattern       = regexp.MustCompile(`(?i)^(from|to)\s+`)
	connectorPairPattern = regexp.MustCompile(`(?i)\b(from|to)\s+(from|to)\b`)
	trailingPattern      = regexp.MustCompile(`(?i)\s*\b(from|to)$`)
	dateFromPattern      = regexp.MustCompile(`(?i)(\d{1,2}(?:st|nd|rd|th)?\s+\w+)\s+from\s+`)
	dateToPattern        = regexp.MustCompile(`(?i)(\d{1,2}(?:st|nd|rd|th)?\s+\w+)\s+to\s+`)
)

// Clean removes dangling "from"/"to" connectors from a date phrase.
func Clean(phrase string) string {
	s := strings.TrimSpace(phrase)
	s = duplicateFromPattern.ReplaceAllString(s, "from")
	s = duplicateToPattern.ReplaceAllString(s, "to")
	s = connectorPairPattern.ReplaceAllString(s, "$2")
	s = leadingPattern.ReplaceAllString(s, "")
	s = trailingPattern.ReplaceAllString(strings.TrimSpace(s), "")
	s = dateFromPattern.ReplaceAllString(s, "${1} ")
	s = dateToPattern.ReplaceAllString(s, "${1} ")
	return strings.TrimSpace(s)
}
