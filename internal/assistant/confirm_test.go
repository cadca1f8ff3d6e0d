package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyConfirmation(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected confirmation
	}{
		{"yes", "yes", confirmYes},
		{"YES!", "YES!", confirmYes},
		{"book it", "book it", confirmYes},
		{"the first one please", "the first one please", confirmYes},
		{"no", "no", confirmNo},
		{"Cancel", "Cancel", confirmNo},
		{"none of those work", "none of those work", confirmNo},
		{"maybe", "maybe", confirmAmbiguous},
		{"yesterday was better", "yesterday was better", confirmAmbiguous},
		{"nope", "nope", confirmAmbiguous},
		{"mixed yes and no words are ambiguous rather than affirmative first", "no, book the first", confirmAmbiguous},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifyConfirmation(tt.message))
		})
	}
}
