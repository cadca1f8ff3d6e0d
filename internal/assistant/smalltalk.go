package assistant

import "regexp"

var (
	greetingPattern   = regexp.MustCompile(`(?i)\b(hi|hello|hey|good (morning|afternoon|evening))\b`)
	thanksPattern     = regexp.MustCompile(`(?i)\b(thank you|thanks|thx)\b`)
	capabilityPattern = regexp.MustCompile(`(?i)\b(what can you do|who are you|help|capabilities)\b`)

	// A message carrying any of these is a request, even if it opens with
	// "hi" or "thanks".
	schedulingIntent = regexp.MustCompile(`(?i)\b(book|schedule|meeting|call|event|appointment|reschedule|set up|remind)\b|\d`)
)

// smallTalkReply returns the canned answer for greetings, thanks and
// capability questions.
func smallTalkReply(message string) (string, bool) {
	if schedulingIntent.MatchString(message) {
		return "", false
	}
	switch {
	case greetingPattern.MatchString(message):
		return replyGreeting, true
	case thanksPattern.MatchString(message):
		return replyThanks, true
	case capabilityPattern.MatchString(message):
		return replyCapability, true
	}
	return "", false
}
