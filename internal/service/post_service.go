package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/gin-blog/internal/model"
	"github.com/d60-Lab/gin-blog/internal/repository"
	"github.com/d60-Lab/gin-blog/internal/validation"
	"github.com/d60-Lab/gin-blog/pkg/logger"
)

// PostDetail 帖子详情页所需数据
type PostDetail struct {
	Post       *model.Post      `json:"post"`
	Comments   []*model.Comment `json:"comments"`
	PostsCount int64            `json:"posts_count"`
}

// PostService 帖子服务
type PostService interface {
	Create(ctx context.Context, actor Actor, form validation.PostForm) (*model.Post, error)
	Edit(ctx context.Context, actor Actor, postID string, form validation.PostForm) (*model.Post, error)
	Get(ctx context.Context, postID string) (*model.Post, error)
	Detail(ctx context.Context, postID string) (*PostDetail, error)
}

type postService struct {
	posts    repository.PostRepository
	groups   repository.GroupRepository
	comments repository.CommentRepository
	now      func() time.Time
}

func NewPostService(posts repository.PostRepository, groups repository.GroupRepository, comments repository.CommentRepository) PostService {
	return &postService{posts: posts, groups: groups, comments: comments, now: time.Now}
}

func (s *postService) Create(ctx context.Context, actor Actor, form validation.PostForm) (*model.Post, error) {
	if !actor.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}
	if err := s.validate(ctx, &form); err != nil {
		return nil, err
	}

	post := &model.Post{
		Text:     form.Text,
		PubDate:  s.now(),
		AuthorID: actor.ID,
		GroupID:  form.Group(),
		Image:    form.Image,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	logger.Info("post created", zap.String("post", post.ID), zap.String("author", actor.Username))
	return s.posts.GetByID(ctx, post.ID)
}

// Edit 依次检查：帖子存在、操作者是作者、表单合法
func (s *postService) Edit(ctx context.Context, actor Actor, postID string, form validation.PostForm) (*model.Post, error) {
	if !actor.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, notFound("post", err)
	}
	if post.AuthorID != actor.ID {
		return nil, ErrForbidden
	}
	if err := s.validate(ctx, &form); err != nil {
		return nil, err
	}

	post.Text = form.Text
	post.GroupID = form.Group()
	post.Image = form.Image
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, notFound("post", err)
	}
	logger.Info("post edited", zap.String("post", post.ID), zap.String("author", actor.Username))
	return s.posts.GetByID(ctx, post.ID)
}

func (s *postService) Get(ctx context.Context, postID string) (*model.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, notFound("post", err)
	}
	return post, nil
}

func (s *postService) Detail(ctx context.Context, postID string) (*PostDetail, error) {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	count, err := s.posts.CountByAuthor(ctx, post.AuthorID)
	if err != nil {
		return nil, err
	}
	return &PostDetail{Post: post, Comments: comments, PostsCount: count}, nil
}

// validate 表单规则之外还要求所选分组真实存在
func (s *postService) validate(ctx context.Context, form *validation.PostForm) error {
	errs := validation.Validate(form)
	if errs == nil {
		errs = validation.Errors{}
	}
	if form.GroupID != "" && !errs.Has("group") {
		if _, err := s.groups.GetByID(ctx, form.GroupID); err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				return err
			}
			errs.Add("group", "Select a valid choice. That choice is not one of the available choices.")
		}
	}
	return invalid(errs)
}
