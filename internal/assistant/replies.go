package assistant

import (
	"fmt"
	"strings"
	"time"

	"github.com/AshrithRedx/ConversationalAiAgent2/internal/session"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/timeutil"
)

const (
	replyGreeting   = "👋 Hi! I can help you schedule meetings on your calendar. Just tell me what you need!"
	replyThanks     = "You're welcome! 😊 If you need to book another meeting, just let me know."
	replyCapability = "I'm your smart scheduling assistant. I can book, check, and suggest meeting times for your Google Calendar. Try saying 'Book a meeting tomorrow at 10am'."

	replyRephrase = "Sorry, I couldn't understand your request. Please rephrase, e.g., 'Book a meeting called Project Sync on 5th July from 12 AM to 2 PM.'"
	replyConfirm  = "Would you like to book the first suggested slot? Reply 'yes' to confirm, or 'no' to cancel."
	replyDeclined = "No problem! Let me know another time you'd like to book."
	replyNoAlts   = "That time slot is busy and I couldn't find alternatives right now. Want to try a different time?"
	replyTryAgain = "Sorry, I couldn't reach the calendar or language service just now. Please try again in a moment."
)

var fieldQuestions = map[string]string{
	session.SlotSummary:   "What should I call this event?",
	session.SlotStartTime: "When should the event start?",
	session.SlotEndTime:   "And when should it end?",
}

func askFor(slot string) string {
	if q, ok := fieldQuestions[slot]; ok {
		return q
	}
	return "Could you provide more details?"
}

func unparseableReply(phrase string) string {
	return fmt.Sprintf("I couldn't understand the date '%s'. "+
		"Please specify the date and time as 'July 7th 9 PM to 11 PM' or '2025-07-07T21:00:00+05:30 to 23:00:00+05:30'.", phrase)
}

func endBeforeStartReply(start time.Time, loc *time.Location) string {
	return fmt.Sprintf("The end time needs to be after the start (%s %s). When should it end?",
		timeutil.FormatDay(start, loc), timeutil.FormatClock(start, loc))
}

func bookedReply(summary string, start, end time.Time, loc *time.Location) string {
	return fmt.Sprintf("✅ Your event \"%s\" is booked on %s from %s to %s.",
		summary,
		timeutil.FormatDay(start, loc),
		timeutil.FormatClock(start, loc),
		timeutil.FormatClock(end, loc))
}

func alternativesReply(alts []slot, loc *time.Location) string {
	var sb strings.Builder
	sb.WriteString("That time slot is busy! Here are some alternative free slots:\n\n")
	for _, alt := range alts {
		fmt.Fprintf(&sb, "- %s %s to %s\n",
			timeutil.FormatDay(alt.start, loc),
			timeutil.FormatClock(alt.start, loc),
			timeutil.FormatClock(alt.end, loc))
	}
	sb.WriteString("\nWould you like to book the first one? Reply 'yes' to confirm or 'no' to cancel.")
	return sb.String()
}
