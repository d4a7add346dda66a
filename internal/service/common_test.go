package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/gin-blog/internal/cache"
	"github.com/d60-Lab/gin-blog/internal/model"
	"github.com/d60-Lab/gin-blog/internal/repository"
	"github.com/d60-Lab/gin-blog/pkg/jwt"
)

type testEnv struct {
	db    *gorm.DB
	redis *miniredis.Miniredis

	posts    repository.PostRepository
	groupsR  repository.GroupRepository
	usersR   repository.UserRepository
	follows  repository.FollowRepository
	comments repository.CommentRepository

	postSvc    PostService
	commentSvc CommentService
	followSvc  FollowService
	feedSvc    FeedService
	userSvc    UserService
	groupSvc   GroupService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(model.All()...))
	t.Cleanup(func() { _ = sqlDB.Close() })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	e := &testEnv{
		db:       db,
		redis:    mr,
		posts:    repository.NewPostRepository(db),
		groupsR:  repository.NewGroupRepository(db),
		usersR:   repository.NewUserRepository(db),
		follows:  repository.NewFollowRepository(db),
		comments: repository.NewCommentRepository(db),
	}
	e.postSvc = NewPostService(e.posts, e.groupsR, e.comments)
	e.commentSvc = NewCommentService(e.comments, e.posts)
	e.followSvc = NewFollowService(e.follows, e.usersR)
	e.feedSvc = NewFeedService(e.posts, e.groupsR, e.usersR, e.follows,
		cache.NewRedisCache(rdb, "test:"), FeedOptions{PageSize: 10, IndexTTL: 20 * time.Second})
	e.userSvc = NewUserService(e.usersR, jwt.NewManager("test-secret", time.Hour))
	e.groupSvc = NewGroupService(e.groupsR)
	return e
}

func (e *testEnv) user(t *testing.T, username string) Actor {
	t.Helper()
	u := &model.User{Username: username}
	require.NoError(t, e.usersR.Create(context.Background(), u))
	return ActorFromUser(u)
}

func (e *testEnv) group(t *testing.T, slug string) *model.Group {
	t.Helper()
	g := &model.Group{Title: "Group " + slug, Slug: slug}
	require.NoError(t, e.groupsR.Create(context.Background(), g))
	return g
}

func (e *testEnv) countFollows(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&model.Follow{}).Count(&n).Error)
	return n
}
