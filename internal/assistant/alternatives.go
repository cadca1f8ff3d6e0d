package assistant

import (
	"context"
	"time"

	"github.com/AshrithRedx/ConversationalAiAgent2/internal/session"
)

// slot is a resolved interval.
type slot struct {
	start time.Time
	end   time.Time
}

func (s slot) alternative() session.Alternative {
	return session.Alternative{
		Start: s.start.Format(time.RFC3339),
		End:   s.end.Format(time.RFC3339),
	}
}

// findAlternatives checks consecutive windows of the requested duration.
// The first window starts one duration after the requested end. The scan
// stops after maxAlternatives free windows or 2*maxAlternatives checks.
func (a *Assistant) findAlternatives(ctx context.Context, requested slot) ([]slot, error) {
	duration := requested.end.Sub(requested.start)
	candidate := slot{start: requested.end.Add(duration), end: requested.end.Add(2 * duration)}

	var free []slot
	for step := 0; step < a.maxAlternatives*2 && len(free) < a.maxAlternatives; step++ {
		busy, err := a.queryBusy(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if !busy {
			free = append(free, candidate)
		}
		candidate = slot{start: candidate.end, end: candidate.end.Add(duration)}
	}
	return free, nil
}
