package service

import (
	"github.com/discussion-engine-api/internal/config"
	"github.com/discussion-engine-api/internal/moderation"
	"github.com/discussion-engine-api/internal/repository"
	"github.com/rs/zerolog"
)

// WordStack is the banned word read path. Every process that reads or changes
// banned words builds it the same way, so a word banned by one is masked by all.
type WordStack struct {
	Filter *moderation.Filter
	Mirror *moderation.RedisWordSource
	Cache  *moderation.CachedWordSource
}

// NewWordStack reads banned words through a TTL cache over the Redis mirror
// when cfg.Redis.URL is set, and over the database otherwise.
func NewWordStack(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) (*WordStack, error) {
	var source moderation.WordSource = moderation.ListerSource{Lister: repos.BannedWord}

	ws := &WordStack{}
	if cfg.Redis.URL != "" {
		mirror, err := moderation.NewRedisWordSource(cfg.Redis.URL, cfg.Redis.BannedWordsKey)
		if err != nil {
			return nil, err
		}
		ws.Mirror = mirror
		source = mirror
		log.Info().Str("key", cfg.Redis.BannedWordsKey).Msg("Using Redis banned word mirror")
	}

	ws.Cache = moderation.NewCachedWordSource(source, cfg.Discussion.BannedWordsCacheTTL)
	ws.Filter = moderation.NewFilter(ws.Cache, log, RecordMaskedWords)
	return ws, nil
}

// Options returns the service options that keep the mirror and cache in step
// with banned word changes
func (w *WordStack) Options() []Option {
	opts := []Option{WithWordCache(w.Cache)}
	if w.Mirror != nil {
		opts = append(opts, WithWordMirror(w.Mirror))
	}
	return opts
}

// Close releases the Redis connection, if any
func (w *WordStack) Close() error {
	if w.Mirror == nil {
		return nil
	}
	return w.Mirror.Close()
}
