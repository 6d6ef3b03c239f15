package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/quillpress/blog-api/internal/core/authz"
	"github.com/quillpress/blog-api/internal/core/domain"
	"github.com/quillpress/blog-api/internal/core/ports"
)

type PostService struct {
	repo   ports.PostRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewPostService(repo ports.PostRepository, logger zerolog.Logger) *PostService {
	return &PostService{repo: repo, logger: logger, now: time.Now}
}

// CreatePost stores a post authored by the caller.
func (s *PostService) CreatePost(ctx context.Context, input ports.CreatePostInput) (*domain.Post, error) {
	if !input.Caller.Authenticated {
		return nil, domain.ErrUnauthenticated
	}

	now := s.now().UTC()
	post := &domain.Post{
		Title:     strings.TrimSpace(input.Title),
		Content:   input.Content,
		AuthorID:  input.Caller.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.Create(ctx, post)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create post")
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.logger.Info().Str("post_id", created.ID).Str("author_id", created.AuthorID).Msg("post created")
	return created, nil
}

func (s *PostService) ListPosts(ctx context.Context) ([]*domain.Post, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (s *PostService) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdatePost changes title and/or content once the ownership gate allows it.
func (s *PostService) UpdatePost(ctx context.Context, input ports.UpdatePostInput) (*domain.Post, error) {
	post, err := s.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if d := authz.OwnershipGate(input.Caller, authz.ActionUpdate, post); !d.Allowed() {
		s.logDenied(input.Caller, authz.ActionUpdate, post)
		return nil, domain.ErrForbidden
	}

	fields := ports.PostFields{
		Content:   input.Content,
		UpdatedAt: s.now().UTC(),
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		fields.Title = &title
	}

	updated, err := s.repo.Update(ctx, post.ID, fields)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("post_id", updated.ID).Str("user_id", input.Caller.UserID).Msg("post updated")
	return updated, nil
}

// DeletePost soft-deletes a post. Deleting an already deleted post the
// caller could have deleted is a no-op.
func (s *PostService) DeletePost(ctx context.Context, id string, caller domain.Principal) error {
	post, err := s.repo.FindIncludingDeleted(ctx, id)
	if err != nil {
		return err
	}

	if d := authz.OwnershipGate(caller, authz.ActionDelete, post); !d.Allowed() {
		s.logDenied(caller, authz.ActionDelete, post)
		return domain.ErrForbidden
	}

	if post.IsDeleted {
		return nil
	}

	if err := s.repo.SoftDelete(ctx, post.ID); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	s.logger.Info().Str("post_id", post.ID).Str("user_id", caller.UserID).Msg("post soft-deleted")
	return nil
}

func (s *PostService) logDenied(caller domain.Principal, action authz.Action, post *domain.Post) {
	s.logger.Debug().
		Str("post_id", post.ID).
		Str("author_id", post.AuthorID).
		Str("user_id", caller.UserID).
		Str("role", caller.Role.String()).
		Str("action", action.String()).
		Msg("ownership gate denied")
}
