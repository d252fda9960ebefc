package scheduler

import (
	"fmt"
	"sort"
	"time"
)

// SelectDue implements the Scheduler interface.
//
// A candidate is due when it has no scheduling state at all (a new card) or
// its due date is at or before now. The eligible subset is ordered with
// never-reviewed cards first, then ascending by due date, so new cards
// surface before aging ones and the longest-overdue reviews come next.
// Ties keep the caller's ordering. The result is truncated to limit.
//
// An empty result is a normal outcome, not an error; the only failure is
// ErrInvalidLimit for limit <= 0.
func (s *SM2) SelectDue(cardIDs []string, lookup func(cardID string) *State, now time.Time, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLimit, limit)
	}

	type candidate struct {
		id    string
		state *State
	}

	due := make([]candidate, 0, len(cardIDs))
	for _, id := range cardIDs {
		st := lookup(id)
		if st == nil || !st.DueDate.After(now) {
			due = append(due, candidate{id: id, state: st})
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		a, b := due[i].state, due[j].state
		if a == nil || b == nil {
			// New cards sort before everything with a real due date.
			return a == nil && b != nil
		}
		return a.DueDate.Before(b.DueDate)
	})

	if len(due) > limit {
		due = due[:limit]
	}

	ids := make([]string, len(due))
	for i, c := range due {
		ids[i] = c.id
	}
	return ids, nil
}
