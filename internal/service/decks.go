package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/flashcase/flashcase/internal/storage"
)

// NewDeck describes a deck to create.
type NewDeck struct {
	Name        string
	Description string
	IsPublic    bool
	School      *string
	Course      *string
	Professor   *string
	Year        *int
}

// CreateDeck screens the deck text, stores it and links the creator as owner.
func (s *Service) CreateDeck(ctx context.Context, userID string, in NewDeck) (storage.Deck, error) {
	if err := s.filter.CheckDeck(in.Name, in.Description); err != nil {
		return storage.Deck{}, err
	}

	now := time.Now().UTC()
	deck := storage.Deck{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		IsPublic:    in.IsPublic,
		School:      in.School,
		Course:      in.Course,
		Professor:   in.Professor,
		Year:        in.Year,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateDeck(ctx, deck); err != nil {
		return storage.Deck{}, err
	}
	link := storage.UserDeck{
		UserID:  userID,
		DeckID:  deck.ID,
		IsOwner: true,
		AddedAt: now,
	}
	if err := s.store.AddUserDeck(ctx, link); err != nil {
		return storage.Deck{}, err
	}

	s.logger.Info("created deck",
		zap.String("deck_id", deck.ID),
		zap.String("user_id", userID),
		zap.Bool("public", deck.IsPublic))
	return deck, nil
}

// GetDeck returns a deck the user may read.
func (s *Service) GetDeck(ctx context.Context, userID, deckID string) (storage.Deck, error) {
	return s.requireDeckAccess(ctx, userID, deckID)
}

// ListDecks returns the decks the user owns or follows.
func (s *Service) ListDecks(ctx context.Context, userID string) ([]storage.Deck, error) {
	return s.store.ListDecksForUser(ctx, userID)
}

// ListPublicDecks returns all public decks for discovery.
func (s *Service) ListPublicDecks(ctx context.Context) ([]storage.Deck, error) {
	return s.store.ListPublicDecks(ctx)
}

// DeleteDeck removes a deck the user owns, cascading to its cards and
// scheduling history.
func (s *Service) DeleteDeck(ctx context.Context, userID, deckID string) error {
	if _, err := s.requireDeckOwner(ctx, userID, deckID); err != nil {
		return err
	}
	if err := s.store.DeleteDeck(ctx, deckID); err != nil {
		return err
	}
	s.logger.Info("deleted deck",
		zap.String("deck_id", deckID),
		zap.String("user_id", userID))
	return nil
}

// FollowDeck adds a public deck to the user's collection.
func (s *Service) FollowDeck(ctx context.Context, userID, deckID string) error {
	deck, err := s.store.GetDeck(ctx, deckID)
	if err != nil {
		return err
	}
	if !deck.IsPublic {
		return ErrDeckAccessDenied
	}
	if _, err := s.store.GetUserDeck(ctx, userID, deckID); err == nil {
		// Already following.
		return nil
	}
	return s.store.AddUserDeck(ctx, storage.UserDeck{
		UserID:  userID,
		DeckID:  deckID,
		AddedAt: time.Now().UTC(),
	})
}

// DeckStats summarizes a deck the user may read.
func (s *Service) DeckStats(ctx context.Context, userID, deckID string) (storage.DeckStats, error) {
	if _, err := s.requireDeckAccess(ctx, userID, deckID); err != nil {
		return storage.DeckStats{}, err
	}
	return s.store.DeckStats(ctx, deckID)
}
