package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/discussion-engine-api/internal/models"
	"github.com/discussion-engine-api/internal/moderation"
	"github.com/discussion-engine-api/internal/repository"
	"github.com/discussion-engine-api/internal/resolver"
	"github.com/rs/zerolog"
)

// bannedWordService is the concrete implementation of BannedWordService.
// The database is the source of truth; the mirror and cache follow it.
type bannedWordService struct {
	repos  *repository.Repositories
	mirror WordMirror
	cache  WordCache
	log    zerolog.Logger
}

func newBannedWordService(repos *repository.Repositories, mirror WordMirror, cache WordCache, log zerolog.Logger) *bannedWordService {
	return &bannedWordService{
		repos:  repos,
		mirror: mirror,
		cache:  cache,
		log:    log.With().Str("service", "banned_words").Logger(),
	}
}

func normalizeWord(word string) (string, error) {
	normalized, err := moderation.NormalizeWord(word)
	if errors.Is(err, moderation.ErrInvalidWord) {
		return "", models.NewValidationError([]models.FieldError{{
			Field:   "word",
			Message: "must be a single word of letters or digits",
			Value:   word,
		}})
	}
	return normalized, err
}

// List returns the banned words in alphabetical order
func (s *bannedWordService) List(ctx context.Context) ([]string, error) {
	if err := resolver.RequireAdminCaller(ctx, s.repos.User); err != nil {
		return nil, err
	}
	words, err := s.repos.BannedWord.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list banned words: %w", err)
	}
	if words == nil {
		words = []string{}
	}
	return words, nil
}

// Add bans a word. It reports false if the word was already banned. The
// database keeps the word even when the mirror write fails; that error is
// returned so the caller can retry or resync.
func (s *bannedWordService) Add(ctx context.Context, word string) (bool, error) {
	if err := resolver.RequireAdminCaller(ctx, s.repos.User); err != nil {
		return false, err
	}
	word, err := normalizeWord(word)
	if err != nil {
		return false, err
	}

	added, err := s.repos.BannedWord.Add(ctx, word)
	if err != nil {
		return false, fmt.Errorf("failed to add banned word: %w", err)
	}

	s.invalidate()
	if s.mirror != nil {
		if err := s.mirror.Add(ctx, word); err != nil {
			s.log.Error().Err(err).Str("word", word).Msg("Failed to mirror banned word")
			return added, fmt.Errorf("failed to mirror banned word: %w", err)
		}
	}

	s.log.Info().Str("word", word).Bool("added", added).Msg("Banned word added")
	return added, nil
}

// Remove unbans a word. It reports false if the word was not banned.
func (s *bannedWordService) Remove(ctx context.Context, word string) (bool, error) {
	if err := resolver.RequireAdminCaller(ctx, s.repos.User); err != nil {
		return false, err
	}
	word, err := normalizeWord(word)
	if err != nil {
		return false, err
	}

	removed, err := s.repos.BannedWord.Remove(ctx, word)
	if err != nil {
		return false, fmt.Errorf("failed to remove banned word: %w", err)
	}

	s.invalidate()
	if s.mirror != nil {
		if err := s.mirror.Remove(ctx, word); err != nil {
			s.log.Error().Err(err).Str("word", word).Msg("Failed to remove banned word from mirror")
			return removed, fmt.Errorf("failed to remove banned word from mirror: %w", err)
		}
	}

	s.log.Info().Str("word", word).Bool("removed", removed).Msg("Banned word removed")
	return removed, nil
}

// SyncMirror overwrites the mirror with the database list and returns its size
func (s *bannedWordService) SyncMirror(ctx context.Context) (int, error) {
	if s.mirror == nil {
		return 0, nil
	}
	if err := resolver.RequireAdminCaller(ctx, s.repos.User); err != nil {
		return 0, err
	}

	words, err := s.repos.BannedWord.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list banned words: %w", err)
	}
	if err := s.mirror.Replace(ctx, words); err != nil {
		return 0, fmt.Errorf("failed to sync banned word mirror: %w", err)
	}
	s.invalidate()

	s.log.Info().Int("words", len(words)).Msg("Banned word mirror synced")
	return len(words), nil
}

func (s *bannedWordService) invalidate() {
	if s.cache != nil {
		s.cache.Invalidate()
	}
}
