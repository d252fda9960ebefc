// Package storage persists FlashCase data in SQLite. Scheduling history is
// append-only: every review inserts a new study log row and the latest row
// per (user, card) pair is the authoritative scheduling state.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/flashcase/flashcase/internal/scheduler"
)

var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrDeckNotFound is returned when a deck ID has no catalog record.
	ErrDeckNotFound = errors.New("deck not found")
	// ErrCardNotFound is returned when a card ID has no catalog record.
	// Callers must surface this as "not found" rather than treating the
	// card as new and due.
	ErrCardNotFound = errors.New("card not found")
	// ErrReportNotFound is returned when a report ID does not exist.
	ErrReportNotFound = errors.New("report not found")
)

// User is a registered account.
type User struct {
	ID             string    `db:"id" json:"id"`
	Email          string    `db:"email" json:"email"`
	Username       string    `db:"username" json:"username"`
	HashedPassword string    `db:"hashed_password" json:"-"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Deck groups cards, with optional discovery metadata for shared decks.
type Deck struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	IsPublic    bool      `db:"is_public" json:"is_public"`
	School      *string   `db:"school" json:"school,omitempty"`
	Course      *string   `db:"course" json:"course,omitempty"`
	Professor   *string   `db:"professor" json:"professor,omitempty"`
	Year        *int      `db:"year" json:"year,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// UserDeck links a user to a deck they own or follow.
type UserDeck struct {
	UserID     string    `db:"user_id" json:"user_id"`
	DeckID     string    `db:"deck_id" json:"deck_id"`
	IsOwner    bool      `db:"is_owner" json:"is_owner"`
	IsFavorite bool      `db:"is_favorite" json:"is_favorite"`
	AddedAt    time.Time `db:"added_at" json:"added_at"`
}

// Card is one flashcard in a deck.
type Card struct {
	ID        string    `db:"id" json:"id"`
	DeckID    string    `db:"deck_id" json:"deck_id"`
	Front     string    `db:"front" json:"front"`
	Back      string    `db:"back" json:"back"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// StudyLog is one immutable scheduling snapshot, keyed by
// (user_id, card_id, reviewed_at).
type StudyLog struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	CardID      string    `db:"card_id" json:"card_id"`
	ReviewedAt  time.Time `db:"reviewed_at" json:"reviewed_at"`
	EaseFactor  float64   `db:"ease_factor" json:"ease_factor"`
	Interval    int       `db:"interval_days" json:"interval"`
	Repetitions int       `db:"repetitions" json:"repetitions"`
	LastQuality int       `db:"last_quality" json:"last_quality"`
	DueDate     time.Time `db:"due_date" json:"due_date"`
}

// State converts the row to a scheduler snapshot.
func (l *StudyLog) State() scheduler.State {
	quality := l.LastQuality
	return scheduler.State{
		EaseFactor:  l.EaseFactor,
		Interval:    l.Interval,
		Repetitions: l.Repetitions,
		LastQuality: &quality,
		DueDate:     l.DueDate,
		ReviewedAt:  l.ReviewedAt,
	}
}

// ReportType identifies what kind of content a report targets.
type ReportType string

const (
	ReportTypeDeck ReportType = "deck"
	ReportTypeCard ReportType = "card"
)

// ReportReason is the reporter's stated reason.
type ReportReason string

const (
	ReasonInappropriate ReportReason = "inappropriate"
	ReasonSpam          ReportReason = "spam"
	ReasonCopyright     ReportReason = "copyright"
	ReasonMisleading    ReportReason = "misleading"
	ReasonOther         ReportReason = "other"
)

// ReportStatus tracks the moderation workflow.
type ReportStatus string

const (
	StatusPending   ReportStatus = "pending"
	StatusReviewed  ReportStatus = "reviewed"
	StatusResolved  ReportStatus = "resolved"
	StatusDismissed ReportStatus = "dismissed"
)

// Report is a user-filed content report.
type Report struct {
	ID          string       `db:"id" json:"id"`
	ReporterID  string       `db:"reporter_id" json:"reporter_id"`
	Type        ReportType   `db:"report_type" json:"report_type"`
	ContentID   string       `db:"content_id" json:"content_id"`
	Reason      ReportReason `db:"reason" json:"reason"`
	Description string       `db:"description" json:"description,omitempty"`
	Status      ReportStatus `db:"status" json:"status"`
	AdminNotes  string       `db:"admin_notes" json:"admin_notes,omitempty"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`
}

// DeckStats summarizes usage of a deck.
type DeckStats struct {
	CardCount    int        `db:"card_count" json:"card_count"`
	TotalReviews int        `db:"total_reviews" json:"total_reviews"`
	LastStudied  *time.Time `db:"last_studied" json:"last_studied,omitempty"`
}

// ReviewTransition computes the next scheduling state from the previous one
// (nil for a never-reviewed card). It runs inside the review transaction.
type ReviewTransition func(previous *scheduler.State) (scheduler.State, error)

// Store is the persistence interface for the FlashCase backend.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)

	// Decks
	CreateDeck(ctx context.Context, deck Deck) error
	GetDeck(ctx context.Context, id string) (Deck, error)
	ListPublicDecks(ctx context.Context) ([]Deck, error)
	ListDecksForUser(ctx context.Context, userID string) ([]Deck, error)
	DeleteDeck(ctx context.Context, id string) error
	AddUserDeck(ctx context.Context, link UserDeck) error
	GetUserDeck(ctx context.Context, userID, deckID string) (UserDeck, error)

	// Cards
	CreateCard(ctx context.Context, card Card) error
	GetCard(ctx context.Context, id string) (Card, error)
	ListCardsByDeck(ctx context.Context, deckID string) ([]Card, error)
	DeleteCard(ctx context.Context, id string) error

	// Scheduling history. RecordReview runs read-latest, transition and
	// append in one transaction so concurrent reviews of the same
	// (user, card) pair cannot both observe the same previous snapshot.
	RecordReview(ctx context.Context, userID, cardID string, transition ReviewTransition) (StudyLog, error)
	LatestStudyLog(ctx context.Context, userID, cardID string) (*StudyLog, error)
	LatestStatesByDeck(ctx context.Context, userID, deckID string) (map[string]scheduler.State, error)
	DeckStats(ctx context.Context, deckID string) (DeckStats, error)

	// Reports
	CreateReport(ctx context.Context, report Report) error
	GetReport(ctx context.Context, id string) (Report, error)
	ListReportsByReporter(ctx context.Context, reporterID string, status ReportStatus) ([]Report, error)

	Close() error
}
