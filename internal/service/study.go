package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/flashcase/flashcase/internal/scheduler"
	"github.com/flashcase/flashcase/internal/storage"
)

// DueCard pairs a card with its current scheduling state. State is nil for a
// card the user has never reviewed.
type DueCard struct {
	Card  storage.Card     `json:"card"`
	State *scheduler.State `json:"state,omitempty"`
}

// StudySession selects up to limit cards from the deck that are due for the
// user at now. New cards come first, then overdue cards oldest first.
func (s *Service) StudySession(ctx context.Context, userID, deckID string, limit int, now time.Time) ([]DueCard, error) {
	if _, err := s.requireDeckAccess(ctx, userID, deckID); err != nil {
		return nil, err
	}

	cards, err := s.store.ListCardsByDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}
	states, err := s.store.LatestStatesByDeck(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]storage.Card, len(cards))
	cardIDs := make([]string, 0, len(cards))
	for _, card := range cards {
		byID[card.ID] = card
		cardIDs = append(cardIDs, card.ID)
	}

	lookup := func(cardID string) *scheduler.State {
		if state, ok := states[cardID]; ok {
			return &state
		}
		return nil
	}
	dueIDs, err := s.sched.SelectDue(cardIDs, lookup, now, limit)
	if err != nil {
		return nil, err
	}

	session := make([]DueCard, 0, len(dueIDs))
	for _, id := range dueIDs {
		session = append(session, DueCard{Card: byID[id], State: lookup(id)})
	}

	s.logger.Debug("built study session",
		zap.String("user_id", userID),
		zap.String("deck_id", deckID),
		zap.Int("deck_size", len(cards)),
		zap.Int("due", len(session)))
	return session, nil
}

// SubmitReview records a quality rating for a card and returns the new
// scheduling snapshot. The read-transition-append sequence runs inside one
// storage transaction.
func (s *Service) SubmitReview(ctx context.Context, userID, cardID string, quality int, now time.Time) (storage.StudyLog, error) {
	card, err := s.store.GetCard(ctx, cardID)
	if err != nil {
		return storage.StudyLog{}, err
	}
	if _, err := s.requireDeckAccess(ctx, userID, card.DeckID); err != nil {
		return storage.StudyLog{}, err
	}

	log, err := s.store.RecordReview(ctx, userID, cardID, func(previous *scheduler.State) (scheduler.State, error) {
		return s.sched.Review(previous, quality, now)
	})
	if err != nil {
		return storage.StudyLog{}, err
	}

	s.logger.Info("recorded review",
		zap.String("user_id", userID),
		zap.String("card_id", cardID),
		zap.Int("quality", quality),
		zap.Int("interval_days", log.Interval),
		zap.Time("due_date", log.DueDate))
	return log, nil
}

// CardState returns the current scheduling state for a card, or nil if the
// user has never reviewed it.
func (s *Service) CardState(ctx context.Context, userID, cardID string) (*scheduler.State, error) {
	if _, err := s.GetCard(ctx, userID, cardID); err != nil {
		return nil, err
	}
	log, err := s.store.LatestStudyLog(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}
	if log == nil {
		return nil, nil
	}
	state := log.State()
	return &state, nil
}
