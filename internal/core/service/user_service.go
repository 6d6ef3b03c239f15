package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/quillpress/blog-api/internal/core/domain"
	"github.com/quillpress/blog-api/internal/core/ports"
)

type UserService struct {
	users ports.UserRepository
	posts ports.PostRepository
	cache ports.PrincipalCache
	log   zerolog.Logger
}

// NewUserService returns a UserService. cache may be nil.
func NewUserService(users ports.UserRepository, posts ports.PostRepository, cache ports.PrincipalCache, log zerolog.Logger) *UserService {
	return &UserService{users: users, posts: posts, cache: cache, log: log}
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// DeleteUser flags the user's posts first so a failed account delete can be
// retried without leaving live orphans.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}

	n, err := s.posts.SoftDeleteByAuthor(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user: soft-delete posts: %w", err)
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.Evict(ctx, id); err != nil {
			s.log.Warn().Err(err).Str("user_id", id).Msg("failed to evict principal cache entry")
		}
	}

	s.log.Info().Str("user_id", id).Int64("posts_deleted", n).Msg("user deleted")
	return nil
}
