package gcal

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"
)

// BusyInterval is one occupied span reported by the FreeBusy API.
type BusyInterval struct {
	Start time.Time
	End   time.Time
}

// QueryBusy returns the busy intervals of calendarID overlapping
// [start, end), ordered by start time.
func (c *Client) QueryBusy(ctx context.Context, calendarID string, start, end time.Time) ([]BusyInterval, error) {
	if !c.IsInitialized() {
		return nil, ErrNotInitialized
	}
	if !end.After(start) {
		return nil, fmt.Errorf("invalid range: end %s is not after start %s",
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	if calendarID == "" {
		calendarID = "primary"
	}

	req := &calendar.FreeBusyRequest{
		TimeMin: start.Format(time.RFC3339),
		TimeMax: end.Format(time.RFC3339),
		Items:   []*calendar.FreeBusyRequestItem{{Id: calendarID}},
	}

	resp, err := c.service.Freebusy.Query(req).Context(ctx).Do()
	if err != nil {
		return nil, mapAPIError("failed to query free/busy", err)
	}

	cal, ok := resp.Calendars[calendarID]
	if !ok {
		return nil, fmt.Errorf("free/busy response has no entry for calendar %q", calendarID)
	}
	if len(cal.Errors) > 0 {
		reasons := make([]string, 0, len(cal.Errors))
		for _, e := range cal.Errors {
			reasons = append(reasons, e.Domain+"/"+e.Reason)
		}
		return nil, fmt.Errorf("free/busy error for calendar %q: %s", calendarID, strings.Join(reasons, ", "))
	}

	busy := make([]BusyInterval, 0, len(cal.Busy))
	for _, period := range cal.Busy {
		if period == nil {
			continue
		}
		s, err := time.Parse(time.RFC3339, period.Start)
		if err != nil {
			return nil, fmt.Errorf("failed to parse busy start %q: %w", period.Start, err)
		}
		e, err := time.Parse(time.RFC3339, period.End)
		if err != nil {
			return nil, fmt.Errorf("failed to parse busy end %q: %w", period.End, err)
		}
		busy = append(busy, BusyInterval{Start: s, End: e})
	}

	sort.Slice(busy, func(i, j int) bool { return busy[i].Start.Before(busy[j].Start) })
	return busy, nil
}

// IsFree reports whether calendarID has no busy interval in [start, end).
func (c *Client) IsFree(ctx context.Context, calendarID string, start, end time.Time) (bool, error) {
	busy, err := c.QueryBusy(ctx, calendarID, start, end)
	if err != nil {
		return false, err
	}
	return len(busy) == 0, nil
}
