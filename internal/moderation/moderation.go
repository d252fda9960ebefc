// Package moderation screens user-submitted text (deck names, card content,
// report descriptions) for inappropriate language before it is stored.
package moderation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInappropriate is returned when text fails the content screen.
var ErrInappropriate = errors.New("content contains inappropriate language")

// wordList holds the blocked terms, including common letter-substitution
// variants. Matching is whole-word and case-insensitive.
var wordList = []string{
	"fuck", "fucking", "fucked", "fucker", "fucks",
	"shit", "shitting", "shitty", "shits",
	"bitch", "bitching", "bitches",
	"bastard", "crap", "crappy",
	"piss", "pissed", "pissing",
	"cock", "dick", "pussy",
	"whore", "slut", "cunt",
	"motherfucker", "asshole", "assholes",
	"fuk", "fck", "shyt", "biatch", "azz",
}

// Filter checks text against a fixed profanity list.
type Filter struct {
	patterns []*regexp.Regexp
}

// NewFilter compiles the word list into a ready-to-use filter.
func NewFilter() *Filter {
	patterns := make([]*regexp.Regexp, 0, len(wordList))
	for _, word := range wordList {
		patterns = append(patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(word)+`\b`))
	}
	return &Filter{patterns: patterns}
}

// ContainsProfanity reports whether text matches any blocked term.
func (f *Filter) ContainsProfanity(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	for _, pattern := range f.patterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// Censor replaces every blocked term in text with asterisks.
func (f *Filter) Censor(text string) string {
	if text == "" {
		return text
	}
	for _, pattern := range f.patterns {
		text = pattern.ReplaceAllString(text, "***")
	}
	return text
}

// CheckDeck validates deck name and optional description, returning
// ErrInappropriate with the offending field named.
func (f *Filter) CheckDeck(name, description string) error {
	if f.ContainsProfanity(name) {
		return fmt.Errorf("deck name: %w", ErrInappropriate)
	}
	if f.ContainsProfanity(description) {
		return fmt.Errorf("deck description: %w", ErrInappropriate)
	}
	return nil
}

// CheckReport validates a report's free-text description.
func (f *Filter) CheckReport(description string) error {
	if f.ContainsProfanity(description) {
		return fmt.Errorf("report description: %w", ErrInappropriate)
	}
	return nil
}

// CheckCard validates both sides of a card.
func (f *Filter) CheckCard(front, back string) error {
	if f.ContainsProfanity(front) {
		return fmt.Errorf("card front: %w", ErrInappropriate)
	}
	if f.ContainsProfanity(back) {
		return fmt.Errorf("card back: %w", ErrInappropriate)
	}
	return nil
}
