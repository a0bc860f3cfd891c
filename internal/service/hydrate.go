package service

import (
	"context"
	"fmt"

	"github.com/discussion-engine-api/internal/models"
	"github.com/discussion-engine-api/internal/repository"
	"golang.org/x/sync/errgroup"
)

// loadThreadContext fetches author display names and reply counts concurrently
func loadThreadContext(ctx context.Context, repos *repository.Repositories, authorIDs, commentIDs []string) (map[string]string, map[string]int, error) {
	var names map[string]string
	var replies map[string]int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		names, err = repos.User.DisplayNames(gctx, uniqueIDs(authorIDs))
		if err != nil {
			return fmt.Errorf("failed to load author names: %w", err)
		}
		return nil
	})
	if commentIDs != nil {
		g.Go(func() error {
			var err error
			replies, err = repos.Comment.CountReplies(gctx, commentIDs)
			if err != nil {
				return fmt.Errorf("failed to count replies: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return names, replies, nil
}

func displayName(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return models.UnknownAuthorName
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
