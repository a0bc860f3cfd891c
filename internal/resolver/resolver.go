// Package resolver checks that polymorphic targets exist and that the caller
// may perform an operation.
package resolver

import (
	"context"
	"fmt"

	"github.com/discussion-engine-api/internal/auth"
	"github.com/discussion-engine-api/internal/models"
	"github.com/discussion-engine-api/internal/repository"
)

// ResolveTarget verifies that the target exists. An unknown target type is a
// validation error, a missing target is NotFound.
func ResolveTarget(ctx context.Context, repos *repository.Repositories, target models.Target) error {
	if !models.ValidTargetTypes[target.Type] {
		return models.NewValidationError([]models.FieldError{{
			Field:   "target_type",
			Message: "must be one of: item, page",
			Value:   string(target.Type),
		}})
	}
	if target.ID == "" {
		return models.NewDomainError(models.ErrNotFound, fmt.Sprintf("%s not found", target.Type))
	}

	var exists bool
	var err error
	switch target.Type {
	case models.TargetItem:
		exists, err = repos.Item.Exists(ctx, target.ID)
	case models.TargetPage:
		exists, err = repos.Page.Exists(ctx, target.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to resolve %s %s: %w", target.Type, target.ID, err)
	}
	if !exists {
		return models.NewDomainError(models.ErrNotFound, fmt.Sprintf("%s %s not found", target.Type, target.ID))
	}
	return nil
}

// RequireAuthenticated returns the caller identity or an Unauthenticated error
func RequireAuthenticated(ctx context.Context) (auth.Identity, error) {
	id, ok := auth.FromContext(ctx)
	if !ok {
		return auth.Identity{}, models.NewDomainError(models.ErrUnauthenticated, "please sign in")
	}
	return id, nil
}

// RequireOwner fails with Forbidden unless the caller authored the resource
func RequireOwner(authorID, callerID string) error {
	if authorID == "" || authorID != callerID {
		return models.NewDomainError(models.ErrForbidden, "only the author can do this")
	}
	return nil
}

// RequireAdmin asks the role oracle whether the caller is an administrator
func RequireAdmin(ctx context.Context, users repository.UserRepository, callerID string) error {
	ok, err := users.IsAdmin(ctx, callerID)
	if err != nil {
		return fmt.Errorf("failed to check role of %s: %w", callerID, err)
	}
	if !ok {
		return models.NewDomainError(models.ErrForbidden, "administrator role required")
	}
	return nil
}

// RequireAdminCaller authorizes an administrative operation for the caller on
// ctx. Operator contexts are always allowed.
func RequireAdminCaller(ctx context.Context, users repository.UserRepository) error {
	if auth.IsSystem(ctx) {
		return nil
	}
	caller, err := RequireAuthenticated(ctx)
	if err != nil {
		return err
	}
	return RequireAdmin(ctx, users, caller.UserID)
}
