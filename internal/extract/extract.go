// Package extract turns a free-form chat message into the three booking
// fields by asking an LLM for an embedded JSON object.
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AshrithRedx/ConversationalAiAgent2/internal/logging"
)

// ErrMalformed is returned by ParseFields when the model output holds no
// decodable JSON object.
var ErrMalformed = errors.New("malformed extraction output")

// ErrEmptyOutput is wrapped by completers whose model answered without any
// text. Extract treats it like malformed output rather than a transport fault.
var ErrEmptyOutput = errors.New("model returned no output")

// Fields are the best-effort values pulled from one message. Empty strings
// mean "not mentioned".
type Fields struct {
	Summary   string `json:"summary"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// IsEmpty reports whether nothing at all was extracted.
func (f Fields) IsEmpty() bool {
	return f.Summary == "" && f.StartTime == "" && f.EndTime == ""
}

// Result is the outcome of Extract.
type Result struct {
	Fields
	// Degraded is set when every attempt produced malformed output and the
	// all-empty fallback was returned instead.
	Degraded bool
	Attempts int
}

// Completer is a single-shot LLM call.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Config controls retry behavior on malformed output.
type Config struct {
	Retries    int
	RetryDelay time.Duration
}

// Extractor implements the extraction contract on top of a Completer.
type Extractor struct {
	completer  Completer
	retries    int
	retryDelay time.Duration
	logger     *zap.Logger
}

// NewExtractor creates an Extractor. Retries below one are raised to one.
func NewExtractor(completer Completer, cfg Config, logger *zap.Logger) *Extractor {
	if cfg.Retries < 1 {
		cfg.Retries = 1
	}
	if cfg.RetryDelay < 0 {
		cfg.RetryDelay = 0
	}
	return &Extractor{
		completer:  completer,
		retries:    cfg.Retries,
		retryDelay: cfg.RetryDelay,
		logger:     logging.OrNop(logger),
	}
}

// Extract asks the model for the booking fields in message. Transport and
// API failures are returned as errors; malformed or empty output is retried and,
// once retries are exhausted, degrades to empty fields with a nil error.
func (e *Extractor) Extract(ctx context.Context, message string) (Result, error) {
	user := UserPrompt(message)

	var lastRaw string
	for attempt := 1; attempt <= e.retries; attempt++ {
		raw, err := e.completer.Complete(ctx, SystemPrompt, user)
		if err != nil && !errors.Is(err, ErrEmptyOutput) {
			return Result{Attempts: attempt}, fmt.Errorf("extraction request failed: %w", err)
		}
		lastRaw = raw

		var fields Fields
		if err == nil {
			fields, err = ParseFields(raw)
		}
		if err == nil {
			e.logger.Debug("extracted fields",
				zap.Int("attempt", attempt),
				zap.String("summary", fields.Summary),
				zap.String("start_time", fields.StartTime),
				zap.String("end_time", fields.EndTime))
			return Result{Fields: fields, Attempts: attempt}, nil
		}

		e.logger.Warn("malformed extraction output",
			zap.Int("attempt", attempt),
			zap.String("raw", raw),
			zap.Error(err))

		if attempt < e.retries {
			if err := sleep(ctx, e.retryDelay); err != nil {
				return Result{Attempts: attempt}, err
			}
		}
	}

	e.logger.Warn("extraction degraded to empty fields",
		zap.Int("attempts", e.retries),
		zap.String("raw", lastRaw))
	return Result{Degraded: true, Attempts: e.retries}, nil
}

// ParseFields locates the JSON object embedded in raw model output and
// decodes the booking fields from it.
func ParseFields(raw string) (Fields, error) {
	obj, ok := FindJSONObject(raw)
	if !ok {
		return Fields{}, ErrMalformed
	}

	var fields Fields
	if err := json.Unmarshal([]byte(obj), &fields); err != nil {
		return Fields{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	fields.Summary = strings.TrimSpace(fields.Summary)
	fields.StartTime = strings.TrimSpace(fields.StartTime)
	fields.EndTime = strings.TrimSpace(fields.EndTime)
	return fields, nil
}

// FindJSONObject returns the first balanced {...} object in text. Models
// often wrap the object in markdown fences or commentary.
func FindJSONObject(text string) (string, bool) {
	start := findJSONStart(text)
	if start < 0 {
		return "", false
	}
	end := findJSONEnd(text, start)
	if end < 0 {
		return "", false
	}
	return text[start : end+1], true
}

func findJSONStart(text string) int {
	return strings.IndexByte(text, '{')
}

// findJSONEnd finds the brace matching the one at start, ignoring braces
// inside string literals.
func findJSONEnd(text string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
