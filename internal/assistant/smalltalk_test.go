package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSmallTalkReply(t *testing.T) {
	tests := []struct {
		message  string
		expected string
		ok       bool
	}{
		{"hi", replyGreeting, true},
		{"Hey there!", replyGreeting, true},
		{"Good morning", replyGreeting, true},
		{"thank you so much", replyThanks, true},
		{"thx", replyThanks, true},
		{"who are you?", replyCapability, true},
		{"What can you do", replyCapability, true},
		{"hi, book a meeting tomorrow at 10am", "", false},
		{"thanks, schedule another one", "", false},
		{"help me book a call", "", false},
		// substrings of longer words are not greetings
		{"this is for the whole team", "", false},
		{"Project Sync", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			reply, ok := smallTalkReply(tt.message)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, reply)
		})
	}
}
