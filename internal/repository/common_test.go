package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/d60-Lab/gin-blog/internal/model"
)

func openTestDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(tb, err)
	sqlDB, err := db.DB()
	require.NoError(tb, err)
	// 内存库每个连接各自独立，只保留一个连接
	sqlDB.SetMaxOpenConns(1)
	require.NoError(tb, db.AutoMigrate(model.All()...))
	tb.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// openFileTestDB 文件库 + 多连接，用于并发写场景；busy_timeout 让写者排队而不是直接报 locked
func openFileTestDB(tb testing.TB, conns int) *gorm.DB {
	tb.Helper()
	dsn := filepath.Join(tb.TempDir(), "blog.db") + "?_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(tb, err)
	sqlDB, err := db.DB()
	require.NoError(tb, err)
	sqlDB.SetMaxOpenConns(conns)
	require.NoError(tb, db.AutoMigrate(model.All()...))
	tb.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func seedUser(tb testing.TB, db *gorm.DB, username string) *model.User {
	tb.Helper()
	u := &model.User{ID: newID(), Username: username}
	require.NoError(tb, db.Create(u).Error)
	return u
}

func seedGroup(tb testing.TB, db *gorm.DB, slug string) *model.Group {
	tb.Helper()
	g := &model.Group{ID: newID(), Title: "Group " + slug, Slug: slug}
	require.NoError(tb, db.Create(g).Error)
	return g
}

// seedPosts 依次创建 n 条帖子，发布时间逐条递增
func seedPosts(tb testing.TB, repo PostRepository, author *model.User, group *model.Group, n int) []*model.Post {
	tb.Helper()
	base := time.Now().Add(-time.Hour)
	posts := make([]*model.Post, n)
	for i := 0; i < n; i++ {
		p := &model.Post{Text: fmt.Sprintf("post %d", i), PubDate: base.Add(time.Duration(i) * time.Second), AuthorID: author.ID}
		if group != nil {
			p.GroupID = &group.ID
		}
		require.NoError(tb, repo.Create(context.Background(), p))
		posts[i] = p
	}
	return posts
}
