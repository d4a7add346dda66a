package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/d60-Lab/gin-blog/internal/model"
	"github.com/d60-Lab/gin-blog/internal/repository"
	"github.com/d60-Lab/gin-blog/internal/validation"
	"github.com/d60-Lab/gin-blog/pkg/logger"
)

// GroupService 分组管理，仅管理员可创建
type GroupService interface {
	Create(ctx context.Context, actor Actor, form validation.GroupForm) (*model.Group, error)
	List(ctx context.Context) ([]*model.Group, error)
}

type groupService struct {
	groups repository.GroupRepository
}

func NewGroupService(groups repository.GroupRepository) GroupService {
	return &groupService{groups: groups}
}

func (s *groupService) Create(ctx context.Context, actor Actor, form validation.GroupForm) (*model.Group, error) {
	if !actor.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}
	if !actor.IsStaff {
		return nil, ErrForbidden
	}

	errs := validation.Validate(&form)
	if errs == nil {
		errs = validation.Errors{}
	}
	if !errs.Has("slug") {
		exists, err := s.groups.ExistsBySlug(ctx, form.Slug)
		if err != nil {
			return nil, err
		}
		if exists {
			errs.Add("slug", "Group with this Slug already exists.")
		}
	}
	if err := invalid(errs); err != nil {
		return nil, err
	}

	g := &model.Group{Title: form.Title, Slug: form.Slug, Description: form.Description}
	if err := s.groups.Create(ctx, g); err != nil {
		return nil, err
	}
	logger.Info("group created", zap.String("slug", g.Slug), zap.String("by", actor.Username))
	return g, nil
}

func (s *groupService) List(ctx context.Context) ([]*model.Group, error) {
	return s.groups.List(ctx)
}
