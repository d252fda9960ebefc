package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/flashcase/flashcase/internal/storage"
)

// CreateCard screens and stores a card in a deck the user owns.
func (s *Service) CreateCard(ctx context.Context, userID, deckID, front, back string) (storage.Card, error) {
	if _, err := s.requireDeckOwner(ctx, userID, deckID); err != nil {
		return storage.Card{}, err
	}
	if err := s.filter.CheckCard(front, back); err != nil {
		return storage.Card{}, err
	}

	now := time.Now().UTC()
	card := storage.Card{
		ID:        uuid.New().String(),
		DeckID:    deckID,
		Front:     front,
		Back:      back,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateCard(ctx, card); err != nil {
		return storage.Card{}, err
	}

	s.logger.Debug("created card",
		zap.String("card_id", card.ID),
		zap.String("deck_id", deckID))
	return card, nil
}

// GetCard returns a card from a deck the user may read.
func (s *Service) GetCard(ctx context.Context, userID, cardID string) (storage.Card, error) {
	card, err := s.store.GetCard(ctx, cardID)
	if err != nil {
		return storage.Card{}, err
	}
	if _, err := s.requireDeckAccess(ctx, userID, card.DeckID); err != nil {
		return storage.Card{}, err
	}
	return card, nil
}

// ListCards returns the cards of a deck the user may read.
func (s *Service) ListCards(ctx context.Context, userID, deckID string) ([]storage.Card, error) {
	if _, err := s.requireDeckAccess(ctx, userID, deckID); err != nil {
		return nil, err
	}
	return s.store.ListCardsByDeck(ctx, deckID)
}

// DeleteCard removes a card from a deck the user owns.
func (s *Service) DeleteCard(ctx context.Context, userID, cardID string) error {
	card, err := s.store.GetCard(ctx, cardID)
	if err != nil {
		return err
	}
	if _, err := s.requireDeckOwner(ctx, userID, card.DeckID); err != nil {
		return err
	}
	return s.store.DeleteCard(ctx, cardID)
}
