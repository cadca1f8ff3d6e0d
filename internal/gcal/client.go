package gcal

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// ErrNotInitialized is returned when the calendar service was never created.
var ErrNotInitialized = errors.New("calendar service not initialized")

// Client wraps the Google Calendar API client
type Client struct {
	service *calendar.Service
}

// NewClient creates a Google Calendar client from a service-account (or
// authorized-user) credentials file. GOOGLE_CREDENTIALS_JSON takes
// precedence over the file for container deployments; with neither present
// the application default credentials are used.
func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	creds, err := loadCredentials(ctx, credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load Google credentials: %w", err)
	}

	service, err := calendar.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return NewClientWithService(service), nil
}

// NewClientWithService wraps an existing service. Tests point it at an
// httptest server.
func NewClientWithService(service *calendar.Service) *Client {
	return &Client{service: service}
}

// IsInitialized returns true if the client has a calendar service
func (c *Client) IsInitialized() bool {
	return c != nil && c.service != nil
}

func loadCredentials(ctx context.Context, credentialsFile string) (*google.Credentials, error) {
	if credJSON := os.Getenv("GOOGLE_CREDENTIALS_JSON"); credJSON != "" {
		return google.CredentialsFromJSON(ctx, []byte(credJSON), calendar.CalendarScope)
	}

	if credentialsFile != "" {
		data, err := os.ReadFile(credentialsFile)
		if err != nil {
			return nil, err
		}
		return google.CredentialsFromJSON(ctx, data, calendar.CalendarScope)
	}

	return google.FindDefaultCredentials(ctx, calendar.CalendarScope)
}
