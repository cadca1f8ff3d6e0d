package assistant

import "sync/atomic"

type counters struct {
	messages       atomic.Int64
	smallTalk      atomic.Int64
	degraded       atomic.Int64
	externalFaults atomic.Int64
	bookings       atomic.Int64
}

// Stats is a snapshot of the assistant's counters since start.
type Stats struct {
	Messages       int64 `json:"messages"`
	SmallTalk      int64 `json:"small_talk"`
	Degraded       int64 `json:"degraded_extractions"`
	ExternalFaults int64 `json:"external_faults"`
	Bookings       int64 `json:"bookings"`
}

func (a *Assistant) Stats() Stats {
	return Stats{
		Messages:       a.stats.messages.Load(),
		SmallTalk:      a.stats.smallTalk.Load(),
		Degraded:       a.stats.degraded.Load(),
		ExternalFaults: a.stats.externalFaults.Load(),
		Bookings:       a.stats.bookings.Load(),
	}
}
