package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CreateCard inserts a new card record.
func (s *SQLiteStore) CreateCard(ctx context.Context, card Card) error {
	query := `
		INSERT INTO cards (id, deck_id, front, back, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		card.ID, card.DeckID, card.Front, card.Back, card.CreatedAt, card.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

// GetCard fetches a card by ID.
func (s *SQLiteStore) GetCard(ctx context.Context, id string) (Card, error) {
	var card Card
	err := s.db.GetContext(ctx, &card, `SELECT * FROM cards WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Card{}, ErrCardNotFound
	}
	if err != nil {
		return Card{}, fmt.Errorf("failed to get card: %w", err)
	}
	return card, nil
}

// ListCardsByDeck returns all cards in a deck in creation order.
func (s *SQLiteStore) ListCardsByDeck(ctx context.Context, deckID string) ([]Card, error) {
	cards := []Card{}
	err := s.db.SelectContext(ctx, &cards,
		`SELECT * FROM cards WHERE deck_id = ? ORDER BY created_at ASC`, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	return cards, nil
}

// DeleteCard removes a card; its study logs cascade.
func (s *SQLiteStore) DeleteCard(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrCardNotFound
	}
	return nil
}
