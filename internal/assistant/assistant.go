// Package assistant runs the booking conversation: it collects the event
// title and times across turns, checks the calendar and books the event.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AshrithRedx/ConversationalAiAgent2/internal/database"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/dateparse"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/extract"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/gcal"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/logging"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/session"
	"github.com/AshrithRedx/ConversationalAiAgent2/internal/timeutil"
)

const (
	DefaultMaxAlternatives = 3
	DefaultCallTimeout     = 15 * time.Second
)

// Extractor pulls the booking fields out of one message.
type Extractor interface {
	Extract(ctx context.Context, message string) (extract.Result, error)
}

// Calendar is the availability and booking backend.
type Calendar interface {
	QueryBusy(ctx context.Context, calendarID string, start, end time.Time) ([]gcal.BusyInterval, error)
	CreateEvent(ctx context.Context, calendarID string, input gcal.EventInput) (*gcal.Event, error)
}

// BookingLog records confirmed bookings.
type BookingLog interface {
	RecordBooking(ctx context.Context, b *database.Booking) error
}

// Config wires an Assistant. Extractor, Resolver, Calendar and Store are
// required.
type Config struct {
	Extractor Extractor
	Resolver  dateparse.Resolver
	Calendar  Calendar
	Store     session.Store
	Bookings  BookingLog
	Logger    *zap.Logger

	CalendarID string
	// TimeZone is the IANA zone name set on created events.
	TimeZone string
	// Location is the reference zone for "now" and for replies.
	Location        *time.Location
	MaxAlternatives int
	CallTimeout     time.Duration
	Now             func() time.Time
}

// Assistant is the conversation orchestrator.
type Assistant struct {
	extractor Extractor
	resolver  dateparse.Resolver
	calendar  Calendar
	store     session.Store
	bookings  BookingLog
	locker    *session.Locker
	logger    *zap.Logger
	stats     counters

	calendarID      string
	timeZone        string
	loc             *time.Location
	maxAlternatives int
	callTimeout     time.Duration
	now             func() time.Time
}

func New(cfg Config) (*Assistant, error) {
	if cfg.Extractor == nil || cfg.Resolver == nil || cfg.Calendar == nil || cfg.Store == nil {
		return nil, errors.New("assistant requires an extractor, resolver, calendar and session store")
	}
	if cfg.Location == nil {
		cfg.Location = timeutil.FixedLocation(330)
	}
	if cfg.MaxAlternatives <= 0 {
		cfg.MaxAlternatives = DefaultMaxAlternatives
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = DefaultCallTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.CalendarID == "" {
		cfg.CalendarID = "primary"
	}

	return &Assistant{
		extractor:       cfg.Extractor,
		resolver:        cfg.Resolver,
		calendar:        cfg.Calendar,
		store:           cfg.Store,
		bookings:        cfg.Bookings,
		locker:          session.NewLocker(),
		logger:          logging.OrNop(cfg.Logger),
		calendarID:      cfg.CalendarID,
		timeZone:        cfg.TimeZone,
		loc:             cfg.Location,
		maxAlternatives: cfg.MaxAlternatives,
		callTimeout:     cfg.CallTimeout,
		now:             cfg.Now,
	}, nil
}

// HandleMessage processes one user turn and returns the reply. Recoverable
// problems (unclear input, unparseable dates, calendar or LLM faults) are
// answered in the reply; the error is reserved for session store failures.
func (a *Assistant) HandleMessage(ctx context.Context, sessionID, message string) (string, error) {
	a.stats.messages.Add(1)
	message = strings.TrimSpace(message)
	logger := a.logger.With(zap.String("session_id", sessionID))

	if reply, ok := smallTalkReply(message); ok {
		a.stats.smallTalk.Add(1)
		if err := a.touch(ctx, sessionID); err != nil {
			return "", err
		}
		return reply, nil
	}

	unlock := a.locker.Lock(sessionID)
	defer unlock()

	slots, err := a.store.Get(ctx, sessionID)
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		return "", fmt.Errorf("failed to load session: %w", err)
	}

	if slots.HasPendingConfirmation() {
		return a.handleConfirmation(ctx, logger, sessionID, slots, message)
	}

	result, err := a.extract(ctx, message)
	if err != nil {
		a.stats.externalFaults.Add(1)
		logger.Error("extraction failed", zap.Error(err))
		return replyTryAgain, nil
	}
	if result.Degraded {
		a.stats.degraded.Add(1)
	}
	if result.IsEmpty() {
		return replyRephrase, nil
	}

	previous := slots.Clone()
	slots.Overwrite(result.Summary, result.StartTime, result.EndTime)

	requested, reply, ok := a.normalize(logger, &slots, previous)
	if !ok {
		return a.saveAndReply(ctx, sessionID, slots, reply)
	}

	if missing := slots.Missing(); missing != "" {
		return a.saveAndReply(ctx, sessionID, slots, askFor(missing))
	}

	busy, err := a.queryBusy(ctx, requested)
	if err != nil {
		return a.externalFault(ctx, logger, sessionID, slots, "availability check failed", err)
	}

	if busy {
		alts, err := a.findAlternatives(ctx, requested)
		if err != nil {
			return a.externalFault(ctx, logger, sessionID, slots, "alternative search failed", err)
		}
		if len(alts) == 0 {
			return a.saveAndReply(ctx, sessionID, slots, replyNoAlts)
		}

		slots.Alternatives = make([]session.Alternative, len(alts))
		for i, alt := range alts {
			slots.Alternatives[i] = alt.alternative()
		}
		logger.Info("requested slot busy, offering alternatives", zap.Int("alternatives", len(alts)))
		return a.saveAndReply(ctx, sessionID, slots, alternativesReply(alts, a.loc))
	}

	if err := a.book(ctx, sessionID, slots.Summary, requested, false); err != nil {
		return a.externalFault(ctx, logger, sessionID, slots, "booking failed", err)
	}
	if err := a.store.Delete(ctx, sessionID); err != nil {
		return "", fmt.Errorf("failed to clear session: %w", err)
	}
	return bookedReply(slots.Summary, requested.start, requested.end, a.loc), nil
}

func (a *Assistant) handleConfirmation(ctx context.Context, logger *zap.Logger, sessionID string, slots session.Slots, message string) (string, error) {
	switch classifyConfirmation(message) {
	case confirmYes:
		first := slots.Alternatives[0]
		start, err := timeutil.ParseRFC3339(first.Start, a.loc)
		if err != nil {
			return "", fmt.Errorf("stored alternative is invalid: %w", err)
		}
		end, err := timeutil.ParseRFC3339(first.End, a.loc)
		if err != nil {
			return "", fmt.Errorf("stored alternative is invalid: %w", err)
		}

		if err := a.book(ctx, sessionID, slots.Summary, slot{start: start, end: end}, true); err != nil {
			a.stats.externalFaults.Add(1)
			logger.Error("booking alternative failed", zap.Error(err))
			return replyTryAgain, nil
		}
		if err := a.store.Delete(ctx, sessionID); err != nil {
			return "", fmt.Errorf("failed to clear session: %w", err)
		}
		return bookedReply(slots.Summary, start, end, a.loc), nil

	case confirmNo:
		slots.Alternatives = nil
		return a.saveAndReply(ctx, sessionID, slots, replyDeclined)
	}

	return a.saveAndReply(ctx, sessionID, slots, replyConfirm)
}

// normalize merges a date from the summary into bare times, then resolves
// each non-absolute time against now. Fields that fail to resolve are
// restored to their value from before this turn and named in the reply.
func (a *Assistant) normalize(logger *zap.Logger, slots *session.Slots, previous session.Slots) (slot, string, bool) {
	if slots.StartTime != "" && slots.EndTime != "" &&
		!timeutil.IsRFC3339(slots.StartTime) && !timeutil.IsRFC3339(slots.EndTime) {
		if date := dateparse.DateFragment(slots.Summary); date != "" {
			if start, end, ok := dateparse.MergeDateAndTimes(date, slots.StartTime, slots.EndTime); ok {
				logger.Debug("merged date from summary",
					zap.String("start_time", start),
					zap.String("end_time", end))
				slots.StartTime, slots.EndTime = start, end
			}
		}
	}

	now := a.now().In(a.loc)
	var failed string

	start, startOK := a.resolve(logger, slots.StartTime, now)
	if !startOK {
		failed = slots.StartTime
		slots.StartTime = previous.StartTime
	} else if !start.IsZero() {
		slots.StartTime = start.Format(time.RFC3339)
	}

	endPhrase := slots.EndTime
	end, endOK := a.resolve(logger, endPhrase, now)
	if !endOK {
		if failed == "" {
			failed = endPhrase
		}
		slots.EndTime = previous.EndTime
	} else if !end.IsZero() {
		slots.EndTime = end.Format(time.RFC3339)
	}

	if failed != "" {
		return slot{}, unparseableReply(failed), false
	}
	if start.IsZero() || end.IsZero() {
		return slot{}, "", true
	}

	if !end.After(start) {
		// "3pm" after "tomorrow 2pm" means 3pm on the start's day.
		if !timeutil.IsRFC3339(endPhrase) {
			if shifted, err := a.resolver.Resolve(endPhrase, start); err == nil &&
				shifted.After(start) && sameDay(shifted.In(a.loc), start) {
				end = shifted
				slots.EndTime = end.Format(time.RFC3339)
			}
		}
	}
	if !end.After(start) {
		slots.EndTime = ""
		return slot{}, endBeforeStartReply(start, a.loc), false
	}

	return slot{start: start, end: end}, "", true
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// resolve returns the zero time for an empty phrase.
func (a *Assistant) resolve(logger *zap.Logger, phrase string, now time.Time) (time.Time, bool) {
	if phrase == "" {
		return time.Time{}, true
	}
	if timeutil.IsRFC3339(phrase) {
		t, err := timeutil.ParseRFC3339(phrase, a.loc)
		return t, err == nil
	}

	t, err := a.resolver.Resolve(phrase, now)
	if err != nil {
		logger.Info("could not resolve date phrase", zap.String("phrase", phrase), zap.Error(err))
		return time.Time{}, false
	}
	return t.In(a.loc), true
}

func (a *Assistant) extract(ctx context.Context, message string) (extract.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, a.callTimeout)
	defer cancel()
	return a.extractor.Extract(ctx, message)
}

func (a *Assistant) queryBusy(ctx context.Context, s slot) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, a.callTimeout)
	defer cancel()

	busy, err := a.calendar.QueryBusy(ctx, a.calendarID, s.start, s.end)
	if err != nil {
		return false, err
	}
	return len(busy) > 0, nil
}

func (a *Assistant) book(ctx context.Context, sessionID, summary string, s slot, fromAlternative bool) error {
	callCtx, cancel := context.WithTimeout(ctx, a.callTimeout)
	defer cancel()

	event, err := a.calendar.CreateEvent(callCtx, a.calendarID, gcal.EventInput{
		Summary:   summary,
		StartTime: s.start,
		EndTime:   s.end,
		TimeZone:  a.timeZone,
	})
	if err != nil {
		return err
	}
	a.stats.bookings.Add(1)

	a.logger.Info("event booked",
		zap.String("session_id", sessionID),
		zap.String("event_id", event.ID),
		zap.Time("start", s.start),
		zap.Time("end", s.end))

	if a.bookings != nil {
		err := a.bookings.RecordBooking(ctx, &database.Booking{
			SessionID:       sessionID,
			CalendarID:      a.calendarID,
			GoogleEventID:   event.ID,
			Summary:         summary,
			StartTime:       s.start.Format(time.RFC3339),
			EndTime:         s.end.Format(time.RFC3339),
			HTMLLink:        event.HTMLLink,
			FromAlternative: fromAlternative,
		})
		if err != nil {
			a.logger.Warn("failed to record booking", zap.String("event_id", event.ID), zap.Error(err))
		}
	}
	return nil
}

func (a *Assistant) externalFault(ctx context.Context, logger *zap.Logger, sessionID string, slots session.Slots, msg string, err error) (string, error) {
	a.stats.externalFaults.Add(1)
	logger.Error(msg, zap.Error(err))
	return a.saveAndReply(ctx, sessionID, slots, replyTryAgain)
}

func (a *Assistant) saveAndReply(ctx context.Context, sessionID string, slots session.Slots, reply string) (string, error) {
	slots.UpdatedAt = a.now()
	if err := a.store.Save(ctx, sessionID, slots); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}
	return reply, nil
}

// touch refreshes UpdatedAt of an existing session so a conversation that is
// only chatting is not evicted as idle. Missing sessions are not created.
func (a *Assistant) touch(ctx context.Context, sessionID string) error {
	unlock := a.locker.Lock(sessionID)
	defer unlock()

	slots, err := a.store.Get(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	slots.UpdatedAt = a.now()
	if err := a.store.Save(ctx, sessionID, slots); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Session returns the stored slots of a conversation.
func (a *Assistant) Session(ctx context.Context, sessionID string) (session.Slots, error) {
	return a.store.Get(ctx, sessionID)
}

// Reset discards a conversation.
func (a *Assistant) Reset(ctx context.Context, sessionID string) error {
	unlock := a.locker.Lock(sessionID)
	defer unlock()
	return a.store.Delete(ctx, sessionID)
}
