// Command seed fills the database with demo users, groups, posts and follows
// and reports write and feed latencies.
package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/gin-blog/config"
	"github.com/d60-Lab/gin-blog/internal/model"
	"github.com/d60-Lab/gin-blog/internal/repository"
	"github.com/d60-Lab/gin-blog/internal/service"
	"github.com/d60-Lab/gin-blog/internal/validation"
	"github.com/d60-Lab/gin-blog/pkg/database"
	"github.com/d60-Lab/gin-blog/pkg/logger"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func mustDo(err error) {
	if err != nil {
		panic(err)
	}
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

var groupSlugs = []string{"cats", "dogs", "travel", "books", "music"}

func main() {
	cfg := must(config.Load())
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		panic(err)
	}
	defer logger.Sync()
	db := must(database.InitDB(cfg))
	ctx := context.Background()

	users := envInt("USERS", 50)
	postsPerUser := envInt("POSTS", 20)
	followsPerUser := envInt("FOLLOWS", 10)

	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)

	postSvc := service.NewPostService(postRepo, groupRepo, commentRepo)
	followSvc := service.NewFollowService(followRepo, userRepo)
	feedSvc := service.NewFeedService(postRepo, groupRepo, userRepo, followRepo, nil, service.FeedOptions{PageSize: cfg.Feed.PageSize})

	// 所有演示账号共用一个密码，只算一次 hash
	hash := must(bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost))

	admin := &model.User{Username: "admin", PasswordHash: string(hash), IsStaff: true}
	if err := userRepo.Create(ctx, admin); err != nil {
		logger.Warn("admin exists, reusing", zap.Error(err))
		admin = must(userRepo.GetByUsername(ctx, "admin"))
	}
	staff := service.ActorFromUser(admin)

	groupSvc := service.NewGroupService(groupRepo)
	groups := make([]*model.Group, 0, len(groupSlugs))
	for _, slug := range groupSlugs {
		g, err := groupSvc.Create(ctx, staff, validation.GroupForm{Title: "All about " + slug, Slug: slug})
		if err != nil {
			g = must(groupRepo.GetBySlug(ctx, slug))
		}
		groups = append(groups, g)
	}

	actors := make([]service.Actor, users)
	for i := range actors {
		id := uuid.New().String()
		u := &model.User{ID: id, Username: "u" + id[:8], Email: id[:8] + "@example.com", PasswordHash: string(hash)}
		mustDo(userRepo.Create(ctx, u))
		actors[i] = service.ActorFromUser(u)
	}

	t0 := time.Now()
	postRecs := make([]time.Duration, 0, users*postsPerUser)
	for _, a := range actors {
		for j := 0; j < postsPerUser; j++ {
			form := validation.PostForm{Text: fmt.Sprintf("post %d by %s", j, a.Username)}
			if rand.Intn(2) == 0 {
				form.GroupID = groups[rand.Intn(len(groups))].ID
			}
			st := time.Now()
			must(postSvc.Create(ctx, a, form))
			postRecs = append(postRecs, time.Since(st))
		}
	}
	postDur := time.Since(t0)

	t1 := time.Now()
	followRecs := make([]time.Duration, 0, users*followsPerUser)
	for _, a := range actors {
		for j := 0; j < followsPerUser; j++ {
			target := actors[rand.Intn(len(actors))]
			st := time.Now()
			must(followSvc.Follow(ctx, a, target.Username))
			followRecs = append(followRecs, time.Since(st))
		}
	}
	followDur := time.Since(t1)

	q0 := time.Now()
	page := must(feedSvc.Following(ctx, actors[0], 1))
	feedDur := time.Since(q0)

	q1 := time.Now()
	index := must(feedSvc.Index(ctx, 1))
	indexDur := time.Since(q1)

	pct := func(vs []time.Duration, p float64) time.Duration {
		if len(vs) == 0 {
			return 0
		}
		xs := append([]time.Duration(nil), vs...)
		sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
		k := int(math.Ceil(p*float64(len(xs)))) - 1
		if k < 0 {
			k = 0
		}
		if k >= len(xs) {
			k = len(xs) - 1
		}
		return xs[k]
	}

	fmt.Printf("USERS=%d, POSTS=%d, FOLLOWS=%d\n", users, postsPerUser, followsPerUser)
	fmt.Printf("Create post total: %v, p50: %v, p95: %v, p99: %v\n",
		postDur, pct(postRecs, 0.50), pct(postRecs, 0.95), pct(postRecs, 0.99))
	fmt.Printf("Follow total: %v, p50: %v, p95: %v, p99: %v\n",
		followDur, pct(followRecs, 0.50), pct(followRecs, 0.95), pct(followRecs, 0.99))
	fmt.Printf("Follow feed page 1 (%d of %d posts): %v\n", page.Len(), page.Count, feedDur)
	fmt.Printf("Index page 1 (%d of %d posts): %v\n", index.Len(), index.Count, indexDur)
}
