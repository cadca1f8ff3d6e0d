package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/AshrithRedx/ConversationalAiAgent2/internal/gcal"
)

// NewGoogleCalendarServer serves the freeBusy and events.insert endpoints of
// the Google Calendar v3 REST API from cal's state.
func NewGoogleCalendarServer(t *testing.T, cal *FakeCalendar) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /freeBusy", func(w http.ResponseWriter, r *http.Request) {
		var req calendar.FreeBusyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeAPIError(w, http.StatusBadRequest, err.Error())
			return
		}
		start, err1 := time.Parse(time.RFC3339, req.TimeMin)
		end, err2 := time.Parse(time.RFC3339, req.TimeMax)
		if err1 != nil || err2 != nil {
			writeAPIError(w, http.StatusBadRequest, "invalid timeMin/timeMax")
			return
		}

		resp := calendar.FreeBusyResponse{
			Kind:      "calendar#freeBusy",
			TimeMin:   req.TimeMin,
			TimeMax:   req.TimeMax,
			Calendars: map[string]calendar.FreeBusyCalendar{},
		}
		for _, item := range req.Items {
			busy, err := cal.QueryBusy(r.Context(), item.Id, start, end)
			if err != nil {
				writeAPIError(w, http.StatusServiceUnavailable, err.Error())
				return
			}
			periods := make([]*calendar.TimePeriod, 0, len(busy))
			for _, b := range busy {
				periods = append(periods, &calendar.TimePeriod{
					Start: b.Start.UTC().Format(time.RFC3339),
					End:   b.End.UTC().Format(time.RFC3339),
				})
			}
			resp.Calendars[item.Id] = calendar.FreeBusyCalendar{Busy: periods}
		}
		writeAPIJSON(w, http.StatusOK, resp)
	})

	mux.HandleFunc("POST /calendars/{calendarId}/events", func(w http.ResponseWriter, r *http.Request) {
		var event calendar.Event
		if err := json.NewDecoder(r.Body).Decode(&event); err != nil || event.Start == nil || event.End == nil {
			writeAPIError(w, http.StatusBadRequest, "invalid event")
			return
		}
		start, err1 := time.Parse(time.RFC3339, event.Start.DateTime)
		end, err2 := time.Parse(time.RFC3339, event.End.DateTime)
		if err1 != nil || err2 != nil {
			writeAPIError(w, http.StatusBadRequest, "invalid event times")
			return
		}

		created, err := cal.CreateEvent(r.Context(), r.PathValue("calendarId"), gcal.EventInput{
			Summary:     event.Summary,
			Description: event.Description,
			StartTime:   start,
			EndTime:     end,
			TimeZone:    event.Start.TimeZone,
		})
		if err != nil {
			writeAPIError(w, http.StatusServiceUnavailable, err.Error())
			return
		}

		event.Id = created.ID
		event.HtmlLink = created.HTMLLink
		event.Status = created.Status
		writeAPIJSON(w, http.StatusOK, event)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// NewGoogleCalendarClient returns a gcal.Client talking to a
// NewGoogleCalendarServer backed by cal.
func NewGoogleCalendarClient(t *testing.T, cal *FakeCalendar) *gcal.Client {
	t.Helper()

	srv := NewGoogleCalendarServer(t, cal)
	service, err := calendar.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("failed to create calendar service: %v", err)
	}
	return gcal.NewClientWithService(service)
}

func writeAPIJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, message string) {
	writeAPIJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{"code": status, "message": message},
	})
}
