package assistant

import "regexp"

type confirmation int

const (
	confirmAmbiguous confirmation = iota
	confirmYes
	confirmNo
)

var (
	affirmativePattern = regexp.MustCompile(`(?i)\b(yes|book|first)\b`)
	negativePattern    = regexp.MustCompile(`(?i)\b(no|cancel|none)\b`)
)

// classifyConfirmation reads a reply to the alternatives prompt. A message
// matching both patterns ("no, book the first") is ambiguous.
func classifyConfirmation(message string) confirmation {
	yes := affirmativePattern.MatchString(message)
	no := negativePattern.MatchString(message)
	switch {
	case yes && !no:
		return confirmYes
	case no && !yes:
		return confirmNo
	}
	return confirmAmbiguous
}
