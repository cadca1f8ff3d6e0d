package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/AshrithRedx/ConversationalAiAgent2/internal/extract"
)

// MockExtractor is a mock implementation of the booking field extractor
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, message string) (extract.Result, error) {
	args := m.Called(ctx, message)
	return args.Get(0).(extract.Result), args.Error(1)
}

// Fields is shorthand for a successful, non-degraded extraction.
func Fields(summary, start, end string) extract.Result {
	return extract.Result{
		Fields:   extract.Fields{Summary: summary, StartTime: start, EndTime: end},
		Attempts: 1,
	}
}
