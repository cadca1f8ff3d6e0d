package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/AshrithRedx/ConversationalAiAgent2/internal/gcal"
)

// CreatedEvent is an event recorded by FakeCalendar.
type CreatedEvent struct {
	CalendarID string
	Input      gcal.EventInput
	Event      gcal.Event
}

// FakeCalendar simulates the Google Calendar free/busy and insert APIs.
// Created events become busy time.
type FakeCalendar struct {
	mu        sync.Mutex
	busy      []gcal.BusyInterval
	events    []CreatedEvent
	queries   []gcal.BusyInterval
	queryErr  error
	createErr error
}

// NewFakeCalendar creates an empty calendar
func NewFakeCalendar() *FakeCalendar {
	return &FakeCalendar{}
}

// AddBusy marks [start, end) as busy
func (f *FakeCalendar) AddBusy(start, end time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = append(f.busy, gcal.BusyInterval{Start: start, End: end})
}

// SetQueryError makes every QueryBusy call fail with err (nil clears it)
func (f *FakeCalendar) SetQueryError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queryErr = err
}

// SetCreateError makes every CreateEvent call fail with err (nil clears it)
func (f *FakeCalendar) SetCreateError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createErr = err
}

// Events returns the events created so far
func (f *FakeCalendar) Events() []CreatedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]CreatedEvent{}, f.events...)
}

// Queries returns the windows passed to QueryBusy, in call order
func (f *FakeCalendar) Queries() []gcal.BusyInterval {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]gcal.BusyInterval{}, f.queries...)
}

func (f *FakeCalendar) QueryBusy(_ context.Context, _ string, start, end time.Time) ([]gcal.BusyInterval, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.queries = append(f.queries, gcal.BusyInterval{Start: start, End: end})
	if f.queryErr != nil {
		return nil, f.queryErr
	}

	var overlapping []gcal.BusyInterval
	for _, b := range f.busy {
		if b.Start.Before(end) && b.End.After(start) {
			overlapping = append(overlapping, b)
		}
	}
	return overlapping, nil
}

func (f *FakeCalendar) CreateEvent(_ context.Context, calendarID string, input gcal.EventInput) (*gcal.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return nil, f.createErr
	}

	id := fmt.Sprintf("evt-%d", len(f.events)+1)
	event := gcal.Event{
		ID:        id,
		HTMLLink:  "https://calendar.google.com/calendar/event?eid=" + id,
		Status:    "confirmed",
		Summary:   input.Summary,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
	}
	f.events = append(f.events, CreatedEvent{CalendarID: calendarID, Input: input, Event: event})
	f.busy = append(f.busy, gcal.BusyInterval{Start: input.StartTime, End: input.EndTime})
	return &event, nil
}

// Reset forgets all busy time, events, queries and injected errors
func (f *FakeCalendar) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = nil
	f.events = nil
	f.queries = nil
	f.queryErr = nil
	f.createErr = nil
}
