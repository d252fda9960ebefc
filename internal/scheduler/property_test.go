package scheduler

import (
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var propertyBase = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// genPreviousState produces reachable prior states, including the nil state
// of a never-reviewed card.
func genPreviousState() gopter.Gen {
	stateGen := gopter.CombineGens(
		gen.Float64Range(MinEaseFactor, 4.0),
		gen.IntRange(0, 730),
		gen.IntRange(0, 100),
		gen.IntRange(MinQuality, MaxQuality),
	).Map(func(values []interface{}) *State {
		quality := values[3].(int)
		return &State{
			EaseFactor:  values[0].(float64),
			Interval:    values[1].(int),
			Repetitions: values[2].(int),
			LastQuality: &quality,
			ReviewedAt:  propertyBase,
			DueDate:     propertyBase.AddDate(0, 0, values[1].(int)),
		}
	})
	return gen.Weighted([]gen.WeightedGen{
		{Weight: 1, Gen: gen.Const((*State)(nil))},
		{Weight: 4, Gen: stateGen},
	})
}

func TestReviewProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500

	properties := gopter.NewProperties(parameters)
	s := NewSM2()

	properties.Property("ease factor never drops below the floor", prop.ForAll(
		func(previous *State, quality int) bool {
			state, err := s.Review(previous, quality, propertyBase)
			return err == nil && state.EaseFactor >= MinEaseFactor
		},
		genPreviousState(),
		gen.IntRange(MinQuality, MaxQuality),
	))

	properties.Property("failed recall always schedules one day out", prop.ForAll(
		func(previous *State, quality int) bool {
			state, err := s.Review(previous, quality, propertyBase)
			return err == nil && state.Interval == 1 && state.Repetitions == 0
		},
		genPreviousState(),
		gen.IntRange(MinQuality, PassQuality-1),
	))

	properties.Property("successful recall keeps interval at least one day", prop.ForAll(
		func(previous *State, quality int) bool {
			state, err := s.Review(previous, quality, propertyBase)
			if err != nil {
				return false
			}
			prevReps := 0
			if previous != nil {
				prevReps = previous.Repetitions
			}
			return state.Interval >= 1 && state.Repetitions == prevReps+1
		},
		genPreviousState(),
		gen.IntRange(PassQuality, MaxQuality),
	))

	properties.Property("due date is reviewed-at plus interval days", prop.ForAll(
		func(previous *State, quality int, dayOffset int) bool {
			now := propertyBase.AddDate(0, 0, dayOffset)
			state, err := s.Review(previous, quality, now)
			if err != nil {
				return false
			}
			return state.ReviewedAt.Equal(now) &&
				state.DueDate.Equal(now.AddDate(0, 0, state.Interval))
		},
		genPreviousState(),
		gen.IntRange(MinQuality, MaxQuality),
		gen.IntRange(0, 365),
	))

	properties.Property("out-of-range quality is rejected without state", prop.ForAll(
		func(previous *State, quality int) bool {
			if quality >= MinQuality && quality <= MaxQuality {
				quality = MaxQuality + 1 + quality
			}
			_, err := s.Review(previous, quality, propertyBase)
			return err != nil
		},
		genPreviousState(),
		gen.IntRange(-100, 100),
	))

	properties.TestingRun(t)
}

func TestSelectDueProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300

	properties := gopter.NewProperties(parameters)
	s := NewSM2()

	// Candidate decks are lists of day offsets relative to now: negative or
	// zero offsets are due, positive are not, and every fifth offset stands
	// in for a card with no state at all.
	genOffsets := gen.SliceOf(gen.IntRange(-30, 30))

	buildLookup := func(offsets []int, now time.Time) ([]string, func(string) *State) {
		ids := make([]string, len(offsets))
		states := make(map[string]*State, len(offsets))
		for i, offset := range offsets {
			id := fmt.Sprintf("card-%d", i)
			ids[i] = id
			if offset%5 == 0 {
				states[id] = nil // never reviewed
				continue
			}
			states[id] = &State{
				EaseFactor: DefaultEaseFactor,
				Interval:   1,
				ReviewedAt: now.AddDate(0, 0, offset-1),
				DueDate:    now.AddDate(0, 0, offset),
			}
		}
		return ids, func(id string) *State { return states[id] }
	}

	properties.Property("never returns more than limit", prop.ForAll(
		func(offsets []int, limit int) bool {
			now := propertyBase
			ids, lookup := buildLookup(offsets, now)
			due, err := s.SelectDue(ids, lookup, now, limit)
			return err == nil && len(due) <= limit
		},
		genOffsets,
		gen.IntRange(1, 50),
	))

	properties.Property("never returns a card that is not yet due", prop.ForAll(
		func(offsets []int) bool {
			now := propertyBase
			ids, lookup := buildLookup(offsets, now)
			due, err := s.SelectDue(ids, lookup, now, len(offsets)+1)
			if err != nil {
				return false
			}
			for _, id := range due {
				if st := lookup(id); st != nil && st.DueDate.After(now) {
					return false
				}
			}
			return true
		},
		genOffsets,
	))

	properties.Property("output is ordered new-first then ascending due date", prop.ForAll(
		func(offsets []int) bool {
			now := propertyBase
			ids, lookup := buildLookup(offsets, now)
			due, err := s.SelectDue(ids, lookup, now, len(offsets)+1)
			if err != nil {
				return false
			}
			seenReviewed := false
			var lastDue time.Time
			for _, id := range due {
				st := lookup(id)
				if st == nil {
					if seenReviewed {
						return false // new card after a reviewed one
					}
					continue
				}
				if seenReviewed && st.DueDate.Before(lastDue) {
					return false
				}
				seenReviewed = true
				lastDue = st.DueDate
			}
			return true
		},
		genOffsets,
	))

	properties.TestingRun(t)
}
