package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/d60-Lab/gin-blog/internal/model"
	"github.com/d60-Lab/gin-blog/internal/repository"
	"github.com/d60-Lab/gin-blog/pkg/logger"
)

// FollowService 关注关系
type FollowService interface {
	Follow(ctx context.Context, actor Actor, username string) (*model.User, error)
	Unfollow(ctx context.Context, actor Actor, username string) (*model.User, error)
	IsFollowing(ctx context.Context, actor Actor, authorID string) (bool, error)
	FollowerCount(ctx context.Context, authorID string) (int64, error)
	FollowingCount(ctx context.Context, userID string) (int64, error)
}

type followService struct {
	follows repository.FollowRepository
	users   repository.UserRepository
}

func NewFollowService(follows repository.FollowRepository, users repository.UserRepository) FollowService {
	return &followService{follows: follows, users: users}
}

// Follow 关注自己或重复关注都静默成功
func (s *followService) Follow(ctx context.Context, actor Actor, username string) (*model.User, error) {
	author, err := s.target(ctx, actor, username)
	if err != nil {
		return nil, err
	}
	if author.ID == actor.ID {
		return author, nil
	}
	if err := s.follows.Create(ctx, actor.ID, author.ID); err != nil {
		return nil, err
	}
	logger.Info("follow", zap.String("user", actor.Username), zap.String("author", author.Username))
	return author, nil
}

// Unfollow 不存在的关注关系同样静默成功
func (s *followService) Unfollow(ctx context.Context, actor Actor, username string) (*model.User, error) {
	author, err := s.target(ctx, actor, username)
	if err != nil {
		return nil, err
	}
	if err := s.follows.Delete(ctx, actor.ID, author.ID); err != nil {
		return nil, err
	}
	logger.Info("unfollow", zap.String("user", actor.Username), zap.String("author", author.Username))
	return author, nil
}

func (s *followService) IsFollowing(ctx context.Context, actor Actor, authorID string) (bool, error) {
	if !actor.IsAuthenticated() || actor.ID == authorID {
		return false, nil
	}
	return s.follows.Exists(ctx, actor.ID, authorID)
}

func (s *followService) FollowerCount(ctx context.Context, authorID string) (int64, error) {
	return s.follows.CountFollowers(ctx, authorID)
}

func (s *followService) FollowingCount(ctx context.Context, userID string) (int64, error) {
	return s.follows.CountFollowing(ctx, userID)
}

func (s *followService) target(ctx context.Context, actor Actor, username string) (*model.User, error) {
	if !actor.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}
	author, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, notFound("user", err)
	}
	return author, nil
}
