package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/gin-blog/internal/model"
	"github.com/d60-Lab/gin-blog/internal/repository"
	"github.com/d60-Lab/gin-blog/internal/validation"
	"github.com/d60-Lab/gin-blog/pkg/logger"
)

// CommentService 评论服务
type CommentService interface {
	Add(ctx context.Context, actor Actor, postID string, form validation.CommentForm) (*model.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]*model.Comment, error)
}

type commentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
	now      func() time.Time
}

func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository) CommentService {
	return &commentService{comments: comments, posts: posts, now: time.Now}
}

// Add 帖子不存在返回 ErrNotFound；表单不合法时不落库
func (s *commentService) Add(ctx context.Context, actor Actor, postID string, form validation.CommentForm) (*model.Comment, error) {
	if !actor.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, notFound("post", err)
	}
	if err := invalid(validation.Validate(&form)); err != nil {
		return nil, err
	}

	c := &model.Comment{
		PostID:   post.ID,
		AuthorID: actor.ID,
		Author:   model.User{ID: actor.ID, Username: actor.Username},
		Text:     form.Text,
		Created:  s.now(),
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	logger.Info("comment added", zap.String("post", post.ID), zap.String("author", actor.Username))
	return c, nil
}

func (s *commentService) ListByPost(ctx context.Context, postID string) ([]*model.Comment, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, notFound("post", err)
	}
	return s.comments.ListByPost(ctx, postID)
}
