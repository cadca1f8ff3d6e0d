package migrations

import (
	"database/sql"
)

func init() {
	Register(Migration{
		Version: 2,
		Name:    "booking_links",
		Up:      bookingLinks,
	})
}

// bookingLinks records the event link and whether the booking came from an
// accepted alternative.
func bookingLinks(tx *sql.Tx) error {
	if err := AddColumnIfNotExists(tx, "bookings", "html_link", "TEXT NOT NULL DEFAULT ''"); err != nil {
		return err
	}
	return AddColumnIfNotExists(tx, "bookings", "from_alternative", "BOOLEAN NOT NULL DEFAULT 0")
}
