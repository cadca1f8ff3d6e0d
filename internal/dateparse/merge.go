package dateparse

import (
	"regexp"
	"strings"
)

const monthAlternation = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`

var (
	dayMonthFragment = regexp.MustCompile(`(?i)\b\d{1,2}(?:st|nd|rd|th)?\s+(?:of\s+)?(?:` + monthAlternation + `)\b`)
	monthDayFragment = regexp.MustCompile(`(?i)\b(?:` + monthAlternation + `)\s+\d{1,2}(?:st|nd|rd|th)?\b`)
	timeOfDayPattern = regexp.MustCompile(`(?i)\b\d{1,2}(?::\d{2})?\s*(?:am|pm)\b`)
	rangeFillers     = regexp.MustCompile(`(?i)\b(?:from|to|at|and|till|until)\b|[-–,]`)
)

// DateFragment returns the first calendar-date fragment ("10th July",
// "July 10") found in text, or "" when there is none.
func DateFragment(text string) string {
	if m := dayMonthFragment.FindString(text); m != "" {
		return m
	}
	return monthDayFragment.FindString(text)
}

// MergeDateAndTimes combines a date fragment with the two bare times of day
// carried by the start and end phrases.
//
// Precedence: both phrases must consist only of times of day and range
// connectors; the start phrase alone supplies the pair when it holds exactly
// two times ("2pm to 3pm"), otherwise the start and end times are taken in
// order. Anything other than exactly two times leaves the phrases alone.
func MergeDateAndTimes(date, start, end string) (string, string, bool) {
	date = strings.TrimSpace(date)
	if date == "" || !isBareTimes(start) || !isBareTimes(end) {
		return "", "", false
	}

	times := timeOfDayPattern.FindAllString(start, -1)
	if len(times) != 2 {
		times = append(times, timeOfDayPattern.FindAllString(end, -1)...)
	}
	if len(times) != 2 {
		return "", "", false
	}

	return date + " " + times[0], date + " " + times[1], true
}

func isBareTimes(phrase string) bool {
	if !timeOfDayPattern.MatchString(phrase) {
		return false
	}
	rest := timeOfDayPattern.ReplaceAllString(phrase, "")
	rest = rangeFillers.ReplaceAllString(rest, "")
	return strings.TrimSpace(rest) == ""
}
