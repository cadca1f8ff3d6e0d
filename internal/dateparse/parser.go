// Package dateparse resolves English date/time phrases ("tomorrow at 10am",
// "5th July 9 AM", "next Friday 2pm") to absolute timestamps in a fixed zone.
package dateparse

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// ErrUnparseable is returned when a phrase carries no recognizable date or time.
var ErrUnparseable = errors.New("could not parse date phrase")

// Resolver turns a natural-language phrase into an absolute timestamp,
// resolving relative expressions against ref.
type Resolver interface {
	Resolve(phrase string, ref time.Time) (time.Time, error)
}

// DefaultHour is used when a phrase names a day but no time of day.
const DefaultHour = 9

var (
	isoDatePattern  = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	dayMonthPattern = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?(` + monthAlternation + `)\b(?:\s+(\d{4})\b)?`)
	monthDayPattern = regexp.MustCompile(`\b(` + monthAlternation + `)\s+(\d{1,2})(?:st|nd|rd|th)?\b(?:\s+(\d{4})\b)?`)
	dayAfterPattern = regexp.MustCompile(`\bday after tomorrow\b`)
	tonightPattern  = regexp.MustCompile(`\btonight\b`)
	weekdayPattern  = regexp.MustCompile(`\b(?:(next|this|coming)\s+)?(monday|mon|tuesday|tues|tue|wednesday|wed|thursday|thurs|thur|thu|friday|fri|saturday|sat|sunday|sun)\b`)
	inPattern       = regexp.MustCompile(`^(?:in|within)\s+(?:\d+|an?|one|two|three|four|five|six|seven|eight|nine|ten|half an?)\s+(?:minutes?|mins?|hours?|days?|weeks?)$`)

	clock12Pattern  = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)
	clock24Pattern  = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	atHourPattern   = regexp.MustCompile(`\bat\s+(\d{1,2})\b`)
	namedTimeRegexp = regexp.MustCompile(`\b(noon|midday|midnight|morning|afternoon|evening|night)\b`)

	spacePattern = regexp.MustCompile(`\s+`)
)

var namedTimes = map[string][2]int{
	"midnight":  {0, 0},
	"morning":   {9, 0},
	"noon":      {12, 0},
	"midday":    {12, 0},
	"afternoon": {14, 0},
	"evening":   {18, 0},
	"night":     {20, 0},
}

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tues": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// Parser is the built-in Resolver. Relative day words ("today", "tomorrow",
// "yesterday"), deadlines ("in 2 hours") and DD/MM/YYYY dates are resolved by
// the when rule engine; explicit day-month dates, weekdays and the time of
// day are handled here so the defaults below apply.
type Parser struct {
	loc    *time.Location
	engine *when.Parser
}

// NewParser creates a parser producing timestamps in loc.
func NewParser(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.UTC
	}

	engine := when.New(nil)
	engine.Add(en.All...)
	engine.Add(common.All...)

	return &Parser{loc: loc, engine: engine}
}

// Location returns the zone results are expressed in.
func (p *Parser) Location() *time.Location {
	return p.loc
}

// Resolve parses phrase relative to ref. The returned error wraps
// ErrUnparseable when nothing in the phrase could be interpreted.
//
// A bare, "next" or "coming" weekday is the next such day after today;
// "this <weekday>" may be today. A phrase without a time of day gets
// DefaultHour ("tonight" gets 20:00), and a date without a year is in the
// year of ref.
func (p *Parser) Resolve(phrase string, ref time.Time) (time.Time, error) {
	cleaned := Clean(phrase)
	if cleaned == "" {
		return time.Time{}, fmt.Errorf("%w: empty phrase", ErrUnparseable)
	}
	ref = ref.In(p.loc)

	if t, ok := p.tryLayouts(cleaned); ok {
		return t, nil
	}

	s := normalize(cleaned)

	if inPattern.MatchString(s) {
		match, err := p.engine.Parse(s, ref)
		if err != nil || match == nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, phrase)
		}
		return match.Time.In(p.loc).Truncate(time.Minute), nil
	}

	base, rest, anchored, err := anchorDay(s, ref)
	if err != nil {
		return time.Time{}, err
	}

	day := base
	engineFound := false
	if rest = strings.Join(strings.Fields(rest), " "); rest != "" {
		match, err := p.engine.Parse(rest, base)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q: %v", ErrUnparseable, phrase, err)
		}
		if match != nil {
			day = match.Time.In(p.loc)
			engineFound = true
		}
	}

	hour, minute, timeFound := parseClock(rest)
	if !anchored && !engineFound && !timeFound {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, phrase)
	}

	if !timeFound {
		hour, minute = DefaultHour, 0
		if tonightPattern.MatchString(s) {
			hour = 20
		}
	}

	year, month, d := day.Date()
	return time.Date(year, month, d, hour, minute, 0, 0, p.loc), nil
}

// tryLayouts handles machine formats. Timestamps with an offset keep their
// instant and are converted to the parser zone.
func (p *Parser) tryLayouts(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(p.loc), true
	}

	layouts := []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, p.loc); err == nil {
			return t, true
		}
	}

	if t, err := time.ParseInLocation("2006-01-02", s, p.loc); err == nil {
		return t.Add(DefaultHour * time.Hour), true
	}
	return time.Time{}, false
}

func normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer("a.m.", "am", "p.m.", "pm", ",", " ").Replace(s)
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}

// anchorDay finds the first explicit day in s: a written date, "day after
// tomorrow", "tonight" or a weekday. It returns that day at the clock of ref
// and s with the expression removed, so day numbers are not read as hours
// and the rule engine only sees what is left.
func anchorDay(s string, ref time.Time) (time.Time, string, bool, error) {
	if loc := isoDatePattern.FindStringSubmatchIndex(s); loc != nil {
		y, _ := strconv.Atoi(s[loc[2]:loc[3]])
		mo, _ := strconv.Atoi(s[loc[4]:loc[5]])
		d, _ := strconv.Atoi(s[loc[6]:loc[7]])
		if err := validateDay(y, time.Month(mo), d); err != nil {
			return ref, s, false, err
		}
		return onDay(ref, y, time.Month(mo), d), cut(s, loc), true, nil
	}

	if loc := dayMonthPattern.FindStringSubmatchIndex(s); loc != nil {
		d, _ := strconv.Atoi(s[loc[2]:loc[3]])
		return writtenDate(s, loc, ref, loc[4], loc[6], d)
	}

	if loc := monthDayPattern.FindStringSubmatchIndex(s); loc != nil {
		d, _ := strconv.Atoi(s[loc[4]:loc[5]])
		return writtenDate(s, loc, ref, loc[2], loc[6], d)
	}

	if loc := dayAfterPattern.FindStringIndex(s); loc != nil {
		return ref.AddDate(0, 0, 2), cut(s, loc), true, nil
	}

	if loc := tonightPattern.FindStringIndex(s); loc != nil {
		return ref, cut(s, loc), true, nil
	}

	if loc := weekdayPattern.FindStringSubmatchIndex(s); loc != nil {
		qualifier := ""
		if loc[2] >= 0 {
			qualifier = s[loc[2]:loc[3]]
		}
		target := weekdays[s[loc[4]:loc[5]]]
		ahead := (int(target) - int(ref.Weekday()) + 7) % 7
		if ahead == 0 && qualifier != "this" {
			ahead = 7
		}
		return ref.AddDate(0, 0, ahead), cut(s, loc), true, nil
	}

	return ref, s, false, nil
}

// writtenDate builds the day of a day-month or month-day match. monthAt and
// yearAt index the submatch bounds of the month name and optional year.
func writtenDate(s string, loc []int, ref time.Time, monthAt, yearAt, d int) (time.Time, string, bool, error) {
	mo := monthFromName(s[loc[monthAt]:loc[monthAt+1]])
	y := ref.Year()
	if loc[yearAt] >= 0 {
		y, _ = strconv.Atoi(s[loc[yearAt]:loc[yearAt+1]])
	}
	if err := validateDay(y, mo, d); err != nil {
		return ref, s, false, err
	}
	return onDay(ref, y, mo, d), cut(s, loc), true, nil
}

func onDay(ref time.Time, year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, ref.Hour(), ref.Minute(), 0, 0, ref.Location())
}

func parseClock(s string) (int, int, bool) {
	if m := clock12Pattern.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if h >= 1 && h <= 12 && minute < 60 {
			h %= 12
			if m[3] == "pm" {
				h += 12
			}
			return h, minute, true
		}
	}

	if m := clock24Pattern.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if h < 24 && minute < 60 {
			return h, minute, true
		}
	}

	if m := atHourPattern.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		if h < 24 {
			return h, 0, true
		}
	}

	if m := namedTimeRegexp.FindStringSubmatch(s); m != nil {
		hm := namedTimes[m[1]]
		return hm[0], hm[1], true
	}

	return 0, 0, false
}

func monthFromName(name string) time.Month {
	switch strings.ToLower(name)[:3] {
	case "jan":
		return time.January
	case "feb":
		return time.February
	case "mar":
		return time.March
	case "apr":
		return time.April
	case "may":
		return time.May
	case "jun":
		return time.June
	case "jul":
		return time.July
	case "aug":
		return time.August
	case "sep":
		return time.September
	case "oct":
		return time.October
	case "nov":
		return time.November
	default:
		return time.December
	}
}

func validateDay(year int, month time.Month, day int) error {
	if month < time.January || month > time.December || day < 1 {
		return fmt.Errorf("%w: invalid date %d-%02d-%02d", ErrUnparseable, year, month, day)
	}
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > lastDay {
		return fmt.Errorf("%w: %s has only %d days", ErrUnparseable, month, lastDay)
	}
	return nil
}

func cut(s string, loc []int) string {
	return s[:loc[0]] + " " + s[loc[1]:]
}
