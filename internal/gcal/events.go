package gcal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
)

var (
	// ErrCalendarNotFound is returned when the calendar id is unknown or not
	// shared with the credentials in use.
	ErrCalendarNotFound = errors.New("google calendar not found")
	// ErrPermissionDenied is returned when the credentials cannot write to
	// or read from the calendar.
	ErrPermissionDenied = errors.New("google calendar permission denied")
)

// EventInput represents the input for creating a calendar event
type EventInput struct {
	Summary     string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	// TimeZone is an IANA name sent alongside the RFC3339 times, e.g.
	// "Asia/Kolkata". Empty leaves it to the offset.
	TimeZone string
}

// Event is the created event record.
type Event struct {
	ID        string
	HTMLLink  string
	Status    string
	Summary   string
	StartTime time.Time
	EndTime   time.Time
}

// CreateEvent inserts an event into calendarID and returns the created record
func (c *Client) CreateEvent(ctx context.Context, calendarID string, input EventInput) (*Event, error) {
	if !c.IsInitialized() {
		return nil, ErrNotInitialized
	}
	if input.Summary == "" {
		return nil, fmt.Errorf("event summary is required")
	}
	if !input.EndTime.After(input.StartTime) {
		return nil, fmt.Errorf("event end must be after start")
	}
	if calendarID == "" {
		calendarID = "primary"
	}

	event := &calendar.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Start: &calendar.EventDateTime{
			DateTime: input.StartTime.Format(time.RFC3339),
			TimeZone: input.TimeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: input.EndTime.Format(time.RFC3339),
			TimeZone: input.TimeZone,
		},
	}

	created, err := c.service.Events.Insert(calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, mapAPIError("failed to create event", err)
	}

	return &Event{
		ID:        created.Id,
		HTMLLink:  created.HtmlLink,
		Status:    created.Status,
		Summary:   created.Summary,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
	}, nil
}

func mapAPIError(msg string, err error) error {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		switch gErr.Code {
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w: %v", msg, ErrCalendarNotFound, err)
		case http.StatusForbidden, http.StatusUnauthorized:
			return fmt.Errorf("%s: %w: %v", msg, ErrPermissionDenied, err)
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}
