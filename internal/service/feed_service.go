package service

import (
	"context"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/d60-Lab/gin-blog/internal/cache"
	"github.com/d60-Lab/gin-blog/internal/model"
	"github.com/d60-Lab/gin-blog/internal/pagination"
	"github.com/d60-Lab/gin-blog/internal/repository"
	"github.com/d60-Lab/gin-blog/pkg/logger"
)

const (
	// DefaultIndexTTL 首页缓存时长
	DefaultIndexTTL = 20 * time.Second

	indexKeyPrefix = "index:"
)

var tracer = otel.Tracer("github.com/d60-Lab/gin-blog/internal/service")

// PostPage 一页帖子
type PostPage = pagination.Page[*model.Post]

// GroupFeed 分组页
type GroupFeed struct {
	Group *model.Group `json:"group"`
	Page  *PostPage    `json:"page"`
}

// ProfileFeed 个人主页
type ProfileFeed struct {
	Author         *model.User `json:"author"`
	Page           *PostPage   `json:"page"`
	PostsCount     int64       `json:"posts_count"`
	Following      bool        `json:"following"`
	FollowersCount int64       `json:"followers_count"`
	FollowingCount int64       `json:"following_count"`
}

// RenderFunc 生成完整响应体
type RenderFunc func(ctx context.Context) ([]byte, error)

// FeedService 各类帖子列表与首页缓存
type FeedService interface {
	Index(ctx context.Context, page int) (*PostPage, error)
	Group(ctx context.Context, slug string, page int) (*GroupFeed, error)
	Profile(ctx context.Context, actor Actor, username string, page int) (*ProfileFeed, error)
	Following(ctx context.Context, actor Actor, page int) (*PostPage, error)

	// RenderIndex 以请求查询串为键缓存整页响应，写操作不会使其失效
	RenderIndex(ctx context.Context, query url.Values, render RenderFunc) ([]byte, error)
	ClearIndexCache(ctx context.Context) error
}

// FeedOptions 可选参数，零值取默认
type FeedOptions struct {
	PageSize int
	IndexTTL time.Duration
}

type feedService struct {
	posts    repository.PostRepository
	groups   repository.GroupRepository
	users    repository.UserRepository
	follows  repository.FollowRepository
	cache    cache.Cache
	pageSize int
	indexTTL time.Duration
}

// NewFeedService c 为 nil 时首页不缓存
func NewFeedService(
	posts repository.PostRepository,
	groups repository.GroupRepository,
	users repository.UserRepository,
	follows repository.FollowRepository,
	c cache.Cache,
	opts FeedOptions,
) FeedService {
	if opts.PageSize <= 0 {
		opts.PageSize = pagination.DefaultPageSize
	}
	if opts.IndexTTL <= 0 {
		opts.IndexTTL = DefaultIndexTTL
	}
	return &feedService{
		posts:    posts,
		groups:   groups,
		users:    users,
		follows:  follows,
		cache:    c,
		pageSize: opts.PageSize,
		indexTTL: opts.IndexTTL,
	}
}

func (s *feedService) Index(ctx context.Context, page int) (*PostPage, error) {
	return pagination.Paginate[*model.Post](ctx, page, s.pageSize, s.posts.CountAll, s.posts.ListAll)
}

func (s *feedService) Group(ctx context.Context, slug string, page int) (*GroupFeed, error) {
	group, err := s.groups.GetBySlug(ctx, slug)
	if err != nil {
		return nil, notFound("group", err)
	}
	p, err := pagination.Paginate[*model.Post](ctx, page, s.pageSize,
		func(ctx context.Context) (int64, error) { return s.posts.CountByGroup(ctx, group.ID) },
		func(ctx context.Context, offset, limit int) ([]*model.Post, error) {
			return s.posts.ListByGroup(ctx, group.ID, offset, limit)
		})
	if err != nil {
		return nil, err
	}
	return &GroupFeed{Group: group, Page: p}, nil
}

func (s *feedService) Profile(ctx context.Context, actor Actor, username string, page int) (*ProfileFeed, error) {
	author, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, notFound("user", err)
	}
	p, err := pagination.Paginate[*model.Post](ctx, page, s.pageSize,
		func(ctx context.Context) (int64, error) { return s.posts.CountByAuthor(ctx, author.ID) },
		func(ctx context.Context, offset, limit int) ([]*model.Post, error) {
			return s.posts.ListByAuthor(ctx, author.ID, offset, limit)
		})
	if err != nil {
		return nil, err
	}

	feed := &ProfileFeed{Author: author, Page: p, PostsCount: p.Count}
	if actor.IsAuthenticated() && actor.ID != author.ID {
		if feed.Following, err = s.follows.Exists(ctx, actor.ID, author.ID); err != nil {
			return nil, err
		}
	}
	if feed.FollowersCount, err = s.follows.CountFollowers(ctx, author.ID); err != nil {
		return nil, err
	}
	if feed.FollowingCount, err = s.follows.CountFollowing(ctx, author.ID); err != nil {
		return nil, err
	}
	return feed, nil
}

func (s *feedService) Following(ctx context.Context, actor Actor, page int) (*PostPage, error) {
	if !actor.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}
	authorIDs, err := s.follows.ListAuthorIDs(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if len(authorIDs) == 0 {
		return pagination.Empty[*model.Post](s.pageSize), nil
	}
	return pagination.Paginate[*model.Post](ctx, page, s.pageSize,
		func(ctx context.Context) (int64, error) { return s.posts.CountByAuthors(ctx, authorIDs) },
		func(ctx context.Context, offset, limit int) ([]*model.Post, error) {
			return s.posts.ListByAuthors(ctx, authorIDs, offset, limit)
		})
}

func (s *feedService) RenderIndex(ctx context.Context, query url.Values, render RenderFunc) ([]byte, error) {
	key := IndexCacheKey(query)
	ctx, span := tracer.Start(ctx, "FeedService.RenderIndex", trace.WithAttributes(attribute.String("cache.key", key)))
	defer span.End()

	if s.cache == nil {
		return render(ctx)
	}

	body, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("index cache read failed", zap.String("key", key), zap.Error(err))
	}
	span.SetAttributes(attribute.Bool("cache.hit", ok))
	if ok {
		return body, nil
	}

	body, err = render(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := s.cache.Set(ctx, key, body, s.indexTTL); err != nil {
		logger.Warn("index cache write failed", zap.String("key", key), zap.Error(err))
	}
	return body, nil
}

func (s *feedService) ClearIndexCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Clear(ctx); err != nil {
		return err
	}
	logger.Info("index cache cleared")
	return nil
}

// IndexCacheKey 查询参数按键排序编码，?page=2&x=1 与 ?x=1&page=2 共用一份缓存
func IndexCacheKey(query url.Values) string {
	return indexKeyPrefix + query.Encode()
}
