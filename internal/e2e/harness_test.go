// Package e2e drives the full chat stack over HTTP: server, assistant,
// extraction, date resolution, the Google Calendar client and SQLite
// persistence. Only the LLM and the Calendar API endpoint are faked.
package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/AshrithRedx/ConversationalAiAgent2/internal/assistant"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/database"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/dateparse"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/extract"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/mocks"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/server"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/testutil"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/timeutil"
)

var ist = timeutil.FixedLocation(330)

// Monday, 7 July 2025, 11:00 IST.
var now = time.Date(2025, 7, 7, 11, 0, 0, 0, ist)

type stack struct {
	srv       *httptest.Server
	llm       *mocks.MockCompleter
	calendar  *testutil.FakeCalendar
	db        *database.DB
	assistant *assistant.Assistant
}

func newStack(t *testing.T) *stack {
	t.Helper()

	st := &stack{
		llm:      &mocks.MockCompleter{},
		calendar: testutil.NewFakeCalendar(),
		db:       database.NewTestDB(t),
	}

	a, err := assistant.New(assistant.Config{
		Extractor:  extract.NewExtractor(st.llm, extract.Config{Retries: 2}, nil),
		Resolver:   dateparse.NewParser(ist),
		Calendar:   testutil.NewGoogleCalendarClient(t, st.calendar),
		Store:      database.NewSessionStore(st.db),
		Bookings:   st.db,
		CalendarID: "team@example.com",
		TimeZone:   "Asia/Kolkata",
		Location:   ist,
		Now:        func() time.Time { return now },
	})
	require.NoError(t, err)
	st.assistant = a

	srv := server.New(server.ServerConfig{Assistant: a, Bookings: st.db, DB: st.db})
	st.srv = httptest.NewServer(srv.Handler())
	t.Cleanup(st.srv.Close)
	return st
}

// llmReturns scripts the model's raw output for one user message.
func (st *stack) llmReturns(message, output string) {
	st.llm.On("Complete", mock.Anything, extract.SystemPrompt, extract.UserPrompt(message)).
		Return(output, nil).Once()
}

func (st *stack) chat(t *testing.T, sessionID, message string) string {
	t.Helper()

	body, err := json.Marshal(map[string]string{"session_id": sessionID, "message": message})
	require.NoError(t, err)

	resp, err := http.Post(st.srv.URL+"/chat", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Reply string `json:"reply"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out.Reply
}

func (st *stack) getJSON(t *testing.T, path string, v interface{}) int {
	t.Helper()

	resp, err := http.Get(st.srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK && v != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp.StatusCode
}

func at(day, hour int) time.Time {
	return time.Date(2025, 7, day, hour, 0, 0, 0, ist)
}
