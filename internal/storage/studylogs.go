package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/flashcase/flashcase/internal/scheduler"
)

const latestLogQuery = `
	SELECT * FROM study_logs
	WHERE user_id = ? AND card_id = ?
	ORDER BY reviewed_at DESC, id DESC
	LIMIT 1
`

// RecordReview reads the latest snapshot for (userID, cardID), applies the
// transition and appends the resulting snapshot, all in one transaction.
func (s *SQLiteStore) RecordReview(ctx context.Context, userID, cardID string, transition ReviewTransition) (StudyLog, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return StudyLog{}, fmt.Errorf("failed to begin review transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.GetContext(ctx, &exists, `SELECT COUNT(*) FROM cards WHERE id = ?`, cardID); err != nil {
		return StudyLog{}, fmt.Errorf("failed to check card: %w", err)
	}
	if exists == 0 {
		return StudyLog{}, ErrCardNotFound
	}

	var previous *scheduler.State
	var latest StudyLog
	err = tx.GetContext(ctx, &latest, latestLogQuery, userID, cardID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Never reviewed: the transition sees nil.
	case err != nil:
		return StudyLog{}, fmt.Errorf("failed to load latest study log: %w", err)
	default:
		state := latest.State()
		previous = &state
	}

	next, err := transition(previous)
	if err != nil {
		return StudyLog{}, err
	}

	quality := 0
	if next.LastQuality != nil {
		quality = *next.LastQuality
	}
	log := StudyLog{
		ID:          uuid.New().String(),
		UserID:      userID,
		CardID:      cardID,
		ReviewedAt:  next.ReviewedAt,
		EaseFactor:  next.EaseFactor,
		Interval:    next.Interval,
		Repetitions: next.Repetitions,
		LastQuality: quality,
		DueDate:     next.DueDate,
	}

	insert := `
		INSERT INTO study_logs (id, user_id, card_id, reviewed_at, ease_factor, interval_days, repetitions, last_quality, due_date)
		VALUES (:id, :user_id, :card_id, :reviewed_at, :ease_factor, :interval_days, :repetitions, :last_quality, :due_date)
	`
	if _, err := tx.NamedExecContext(ctx, insert, log); err != nil {
		return StudyLog{}, fmt.Errorf("failed to insert study log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return StudyLog{}, fmt.Errorf("failed to commit review: %w", err)
	}
	return log, nil
}

// LatestStudyLog returns the most recent snapshot for the pair, or nil if the
// card has never been reviewed by this user.
func (s *SQLiteStore) LatestStudyLog(ctx context.Context, userID, cardID string) (*StudyLog, error) {
	var log StudyLog
	err := s.db.GetContext(ctx, &log, latestLogQuery, userID, cardID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest study log: %w", err)
	}
	return &log, nil
}

// LatestStatesByDeck returns the current scheduling state per card in a deck
// for one user. Cards with no history are absent from the map.
func (s *SQLiteStore) LatestStatesByDeck(ctx context.Context, userID, deckID string) (map[string]scheduler.State, error) {
	logs := []StudyLog{}
	query := `
		SELECT s.* FROM study_logs s
		JOIN cards c ON c.id = s.card_id
		WHERE s.user_id = ? AND c.deck_id = ?
		  AND s.reviewed_at = (
			SELECT MAX(s2.reviewed_at) FROM study_logs s2
			WHERE s2.user_id = s.user_id AND s2.card_id = s.card_id
		  )
	`
	if err := s.db.SelectContext(ctx, &logs, query, userID, deckID); err != nil {
		return nil, fmt.Errorf("failed to load deck states: %w", err)
	}

	states := make(map[string]scheduler.State, len(logs))
	for i := range logs {
		states[logs[i].CardID] = logs[i].State()
	}
	return states, nil
}

// DeckStats summarizes a deck: card count, total reviews across all users,
// and the most recent review time.
func (s *SQLiteStore) DeckStats(ctx context.Context, deckID string) (DeckStats, error) {
	var stats DeckStats
	err := s.db.GetContext(ctx, &stats.CardCount,
		`SELECT COUNT(*) FROM cards WHERE deck_id = ?`, deckID)
	if err != nil {
		return DeckStats{}, fmt.Errorf("failed to count cards: %w", err)
	}
	err = s.db.GetContext(ctx, &stats.TotalReviews,
		`SELECT COUNT(*) FROM study_logs s JOIN cards c ON c.id = s.card_id WHERE c.deck_id = ?`, deckID)
	if err != nil {
		return DeckStats{}, fmt.Errorf("failed to count reviews: %w", err)
	}

	// Selecting the column directly (not MAX) keeps the timestamp decltype
	// so the driver parses it into time.Time.
	var last time.Time
	err = s.db.GetContext(ctx, &last, `
		SELECT s.reviewed_at FROM study_logs s
		JOIN cards c ON c.id = s.card_id
		WHERE c.deck_id = ?
		ORDER BY s.reviewed_at DESC
		LIMIT 1
	`, deckID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Never studied.
	case err != nil:
		return DeckStats{}, fmt.Errorf("failed to load last studied time: %w", err)
	default:
		stats.LastStudied = &last
	}
	return stats, nil
}
