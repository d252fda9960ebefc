// Package service implements FlashCase business logic on top of the storage,
// scheduler and moderation layers.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/flashcase/flashcase/internal/auth"
	"github.com/flashcase/flashcase/internal/moderation"
	"github.com/flashcase/flashcase/internal/scheduler"
	"github.com/flashcase/flashcase/internal/storage"
)

var (
	// ErrInvalidCredentials is returned for a bad username or password.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUsernameTaken is returned when the requested username exists.
	ErrUsernameTaken = errors.New("username already registered")
	// ErrEmailTaken is returned when the requested email exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrNotDeckOwner is returned when a mutation requires deck ownership.
	ErrNotDeckOwner = errors.New("not the deck owner")
	// ErrDeckAccessDenied is returned when a private deck is read by a
	// non-member.
	ErrDeckAccessDenied = errors.New("deck is private")
)

// Service wires storage, scheduling and moderation into the operations the
// HTTP and MCP surfaces expose.
type Service struct {
	store  storage.Store
	sched  scheduler.Scheduler
	filter *moderation.Filter
	logger *zap.Logger
}

// New creates a Service.
func New(store storage.Store, sched scheduler.Scheduler, filter *moderation.Filter, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		sched:  sched,
		filter: filter,
		logger: logger,
	}
}

// RegisterUser creates an account with a bcrypt-hashed password.
func (s *Service) RegisterUser(ctx context.Context, email, username, password string) (storage.User, error) {
	if _, err := s.store.GetUserByUsername(ctx, username); err == nil {
		return storage.User{}, ErrUsernameTaken
	} else if !errors.Is(err, storage.ErrUserNotFound) {
		return storage.User{}, err
	}
	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return storage.User{}, ErrEmailTaken
	} else if !errors.Is(err, storage.ErrUserNotFound) {
		return storage.User{}, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return storage.User{}, err
	}

	user := storage.User{
		ID:             uuid.New().String(),
		Email:          email,
		Username:       username,
		HashedPassword: hash,
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return storage.User{}, err
	}

	s.logger.Info("registered user",
		zap.String("user_id", user.ID),
		zap.String("username", username))
	return user, nil
}

// LookupOrRegisterLocalUser returns the user with the given username,
// creating it with a random throwaway password if it does not exist. Used by
// local, single-user surfaces that never authenticate over HTTP.
func (s *Service) LookupOrRegisterLocalUser(ctx context.Context, username string) (storage.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, storage.ErrUserNotFound) {
		return storage.User{}, err
	}
	return s.RegisterUser(ctx, username+"@flashcase.local", username, uuid.New().String())
}

// Authenticate checks a username/password pair and returns the user.
func (s *Service) Authenticate(ctx context.Context, username, password string) (storage.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if errors.Is(err, storage.ErrUserNotFound) {
		return storage.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return storage.User{}, err
	}
	if !user.IsActive || !auth.CheckPassword(password, user.HashedPassword) {
		return storage.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// GetUser fetches a user by ID.
func (s *Service) GetUser(ctx context.Context, id string) (storage.User, error) {
	return s.store.GetUser(ctx, id)
}

// requireDeckAccess checks that the user may read the deck: it is public or
// the user owns/follows it.
func (s *Service) requireDeckAccess(ctx context.Context, userID, deckID string) (storage.Deck, error) {
	deck, err := s.store.GetDeck(ctx, deckID)
	if err != nil {
		return storage.Deck{}, err
	}
	if deck.IsPublic {
		return deck, nil
	}
	if _, err := s.store.GetUserDeck(ctx, userID, deckID); err != nil {
		if errors.Is(err, storage.ErrDeckNotFound) {
			return storage.Deck{}, ErrDeckAccessDenied
		}
		return storage.Deck{}, err
	}
	return deck, nil
}

// requireDeckOwner checks that the user owns the deck.
func (s *Service) requireDeckOwner(ctx context.Context, userID, deckID string) (storage.Deck, error) {
	deck, err := s.store.GetDeck(ctx, deckID)
	if err != nil {
		return storage.Deck{}, err
	}
	link, err := s.store.GetUserDeck(ctx, userID, deckID)
	if err != nil {
		if errors.Is(err, storage.ErrDeckNotFound) {
			return storage.Deck{}, ErrNotDeckOwner
		}
		return storage.Deck{}, err
	}
	if !link.IsOwner {
		return storage.Deck{}, ErrNotDeckOwner
	}
	return deck, nil
}

// Close releases the underlying store.
func (s *Service) Close() error {
	if err := s.store.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	return nil
}
