package database

import (
	"context"
	"fmt"
	"time"
)

// Booking is one confirmed calendar event created through the chat.
type Booking struct {
	ID              int64     `json:"id"`
	SessionID       string    `json:"session_id"`
	CalendarID      string    `json:"calendar_id"`
	GoogleEventID   string    `json:"google_event_id"`
	Summary         string    `json:"summary"`
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	HTMLLink        string    `json:"html_link,omitempty"`
	FromAlternative bool      `json:"from_alternative"`
	CreatedAt       time.Time `json:"created_at"`
}

// RecordBooking inserts a booking and fills in its ID
func (d *DB) RecordBooking(ctx context.Context, b *Booking) error {
	result, err := d.ExecContext(ctx, `
		INSERT INTO bookings (session_id, calendar_id, google_event_id, summary, start_time, end_time, html_link, from_alternative)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, b.SessionID, b.CalendarID, b.GoogleEventID, b.Summary, b.StartTime, b.EndTime, b.HTMLLink, b.FromAlternative)
	if err != nil {
		return fmt.Errorf("failed to record booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get booking ID: %w", err)
	}
	b.ID = id
	return nil
}

// ListBookings returns the most recent bookings first. limit <= 0 means 50.
func (d *DB) ListBookings(ctx context.Context, limit int) ([]Booking, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := d.QueryContext(ctx, `
		SELECT id, session_id, calendar_id, google_event_id, summary, start_time, end_time, html_link, from_alternative, created_at
		FROM bookings
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID,
			&b.SessionID,
			&b.CalendarID,
			&b.GoogleEventID,
			&b.Summary,
			&b.StartTime,
			&b.EndTime,
			&b.HTMLLink,
			&b.FromAlternative,
			&b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}

	return bookings, nil
}
