// Package scheduler implements the SM-2 spaced repetition algorithm with an
// ease-factor floor of 1.3 to prevent runaway difficulty spirals ("ease hell").
//
// The package is pure computation: callers load the latest scheduling state
// for a (user, card) pair, apply Review, and persist the returned snapshot.
// All arithmetic is IEEE-754 double precision; the raw ease factor is
// computed first and clamped afterwards, in that order.
package scheduler

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	// DefaultEaseFactor is the ease factor assumed for a card that has
	// never been reviewed.
	DefaultEaseFactor = 2.5

	// MinEaseFactor is the floor applied to the ease factor after every
	// update. SM-2 as published allows the ease to decay without bound
	// toward 1.3; the clamp keeps repeated low-quality ratings from
	// trapping a card in ever-shrinking intervals.
	MinEaseFactor = 1.3

	// MinQuality and MaxQuality bound the recall rating scale:
	// 0 is a complete blackout, 5 a perfect response.
	MinQuality = 0
	MaxQuality = 5

	// PassQuality is the lowest rating counted as a successful recall.
	// Anything below it resets the repetition streak.
	PassQuality = 3
)

var (
	// ErrInvalidQuality is returned when a quality rating falls outside
	// [MinQuality, MaxQuality]. No state is produced.
	ErrInvalidQuality = errors.New("quality must be between 0 and 5")

	// ErrInvalidLimit is returned by SelectDue for a non-positive limit.
	ErrInvalidLimit = errors.New("limit must be positive")
)

// State is one scheduling snapshot for a (user, card) pair. Snapshots are
// immutable: every review produces a new State and the latest one by
// ReviewedAt is authoritative. A card with no snapshot at all is a new
// card, implicitly due immediately with the default parameters.
type State struct {
	// EaseFactor is the multiplicative growth rate of the review
	// interval. Always >= MinEaseFactor.
	EaseFactor float64 `json:"ease_factor"`

	// Interval is the number of days from ReviewedAt until the card is
	// due again.
	Interval int `json:"interval"`

	// Repetitions counts consecutive reviews with quality >= PassQuality
	// since the last lapse.
	Repetitions int `json:"repetitions"`

	// LastQuality is the rating that produced this snapshot. Nil for the
	// synthetic default state of a never-reviewed card.
	LastQuality *int `json:"last_quality,omitempty"`

	// DueDate is the instant at or after which the card is eligible for
	// re-presentation. Always ReviewedAt plus Interval days.
	DueDate time.Time `json:"due_date"`

	// ReviewedAt is the instant of the review that produced this snapshot.
	ReviewedAt time.Time `json:"reviewed_at"`
}

// NewCardState returns the state assumed for a card that has never been
// reviewed: default ease, zero interval, zero repetitions.
func NewCardState() State {
	return State{EaseFactor: DefaultEaseFactor}
}

// Scheduler decides when a card should next be reviewed and how its
// difficulty parameters evolve.
type Scheduler interface {
	// Review computes the scheduling state that follows previous when the
	// card is rated quality at instant now. A nil previous means the card
	// has never been reviewed. Fails with ErrInvalidQuality for ratings
	// outside [0,5].
	Review(previous *State, quality int, now time.Time) (State, error)

	// SelectDue filters and orders the subset of cardIDs that is due at
	// now, capped at limit. See SM2.SelectDue for the ordering contract.
	SelectDue(cardIDs []string, lookup func(cardID string) *State, now time.Time, limit int) ([]string, error)
}

// SM2 implements Scheduler using the SuperMemo-2 algorithm with the
// MinEaseFactor clamp. The zero value is ready to use.
type SM2 struct{}

// NewSM2 creates an SM2 scheduler.
func NewSM2() *SM2 {
	return &SM2{}
}

// Review implements the Scheduler interface.
//
// The new ease factor is computed from the previous one as
//
//	EF' = EF + (0.1 - (5-q)*(0.08 + (5-q)*0.02))
//
// and then clamped to MinEaseFactor. A failed recall (quality < 3) resets
// the repetition streak and schedules the card one day out; the ease factor
// is still updated, never reset. A successful recall grows the interval:
// 1 day, then 6 days, then previous interval times the new ease factor,
// rounded half-up to whole days with a floor of one day.
func (s *SM2) Review(previous *State, quality int, now time.Time) (State, error) {
	if quality < MinQuality || quality > MaxQuality {
		return State{}, fmt.Errorf("%w: got %d", ErrInvalidQuality, quality)
	}

	prev := NewCardState()
	if previous != nil {
		prev = *previous
	}

	miss := float64(MaxQuality - quality)
	ease := prev.EaseFactor + (0.1 - miss*(0.08+miss*0.02))
	if ease < MinEaseFactor {
		ease = MinEaseFactor
	}

	next := State{
		EaseFactor: ease,
		ReviewedAt: now,
	}

	if quality < PassQuality {
		next.Repetitions = 0
		next.Interval = 1
	} else {
		switch prev.Repetitions {
		case 0:
			next.Interval = 1
		case 1:
			next.Interval = 6
		default:
			// math.Round rounds halves away from zero, which is
			// round-half-up for the non-negative operands here.
			next.Interval = int(math.Round(float64(prev.Interval) * ease))
			if next.Interval < 1 {
				next.Interval = 1
			}
		}
		next.Repetitions = prev.Repetitions + 1
	}

	q := quality
	next.LastQuality = &q
	next.DueDate = now.AddDate(0, 0, next.Interval)

	return next, nil
}
