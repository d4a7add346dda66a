package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/gin-blog/config"
	"github.com/d60-Lab/gin-blog/internal/api/handler"
	"github.com/d60-Lab/gin-blog/internal/cache"
	"github.com/d60-Lab/gin-blog/internal/model"
	"github.com/d60-Lab/gin-blog/internal/repository"
	"github.com/d60-Lab/gin-blog/internal/service"
	"github.com/d60-Lab/gin-blog/pkg/jwt"
)

type app struct {
	engine *gin.Engine
	tokens *jwt.Manager
	users  repository.UserRepository
	posts  repository.PostRepository
	groups repository.GroupRepository
}

type envelope struct {
	Code   int                 `json:"code"`
	Data   json.RawMessage     `json:"data"`
	Errors map[string][]string `json:"errors"`
}

func newApp(t *testing.T) *app {
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

	cfg := &config.Config{
		Server:  config.ServerConfig{Mode: "test"},
		Tracing: config.TracingConfig{ServiceName: "gin-blog-test"},
	}
	tokens := jwt.NewManager("test-secret", time.Hour)

	users := repository.NewUserRepository(db)
	groups := repository.NewGroupRepository(db)
	posts := repository.NewPostRepository(db)
	comments := repository.NewCommentRepository(db)
	follows := repository.NewFollowRepository(db)

	engine := Setup(Deps{
		Config: cfg,
		Tokens: tokens,
		Services: handler.Services{
			Posts:    service.NewPostService(posts, groups, comments),
			Comments: service.NewCommentService(comments, posts),
			Follows:  service.NewFollowService(follows, users),
			Feeds: service.NewFeedService(posts, groups, users, follows,
				cache.NewRedisCache(rdb, "test:"), service.FeedOptions{PageSize: 10}),
			Users:  service.NewUserService(users, tokens),
			Groups: service.NewGroupService(groups),
		},
	})
	return &app{engine: engine, tokens: tokens, users: users, posts: posts, groups: groups}
}

func (a *app) login(t *testing.T, username string, staff bool) string {
	t.Helper()
	u := &model.User{Username: username, IsStaff: staff}
	require.NoError(t, a.users.Create(context.Background(), u))
	token, err := a.tokens.Generate(u.ID, u.Username)
	require.NoError(t, err)
	return token
}

func (a *app) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

type pageBody struct {
	Items []struct {
		ID       string `json:"id"`
		Text     string `json:"text"`
		AuthorID string `json:"author_id"`
	} `json:"items"`
	Number   int   `json:"number"`
	Count    int64 `json:"count"`
	NumPages int   `json:"num_pages"`
}

func TestPing(t *testing.T) {
	a := newApp(t)
	w := a.do(t, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAnonymousWriteRedirectsToLogin(t *testing.T) {
	a := newApp(t)
	for _, path := range []string{"/api/v1/create", "/api/v1/profile/leo/follow", "/api/v1/posts/x/comment"} {
		w := a.do(t, http.MethodPost, path, "", map[string]string{"text": "hi"})
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Contains(t, w.Header().Get("Location"), "/api/v1/auth/login?next=")
	}
	w := a.do(t, http.MethodGet, "/api/v1/follow", "", nil)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestPostLifecycle(t *testing.T) {
	a := newApp(t)
	leo := a.login(t, "leo", false)
	max := a.login(t, "max", false)

	w := a.do(t, http.MethodPost, "/api/v1/create", leo, map[string]string{"text": "hello"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Data struct {
			ID   string `json:"id"`
			Text string `json:"text"`
		} `json:"data"`
		Next string `json:"next"`
	}
	decode(t, w, &created)
	assert.Equal(t, "hello", created.Data.Text)
	assert.Equal(t, "/api/v1/profile/leo", created.Next)
	postID := created.Data.ID

	w = a.do(t, http.MethodPost, "/api/v1/create", leo, map[string]string{"text": "  "})
	assert.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w, nil)
	assert.Equal(t, []string{"This field is required."}, env.Errors["text"])

	w = a.do(t, http.MethodPost, "/api/v1/posts/"+postID+"/edit", max, map[string]string{"text": "mine now"})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/api/v1/posts/"+postID, w.Header().Get("Location"))

	w = a.do(t, http.MethodPost, "/api/v1/posts/"+postID+"/edit", leo, map[string]string{"text": "edited"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(t, http.MethodPost, "/api/v1/posts/"+postID+"/comment", max, map[string]string{"text": "nice"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = a.do(t, http.MethodGet, "/api/v1/posts/"+postID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Post struct {
			Text string `json:"text"`
		} `json:"post"`
		Comments   []json.RawMessage `json:"comments"`
		PostsCount int64             `json:"posts_count"`
	}
	decode(t, w, &detail)
	assert.Equal(t, "edited", detail.Post.Text)
	assert.Len(t, detail.Comments, 1)
	assert.Equal(t, int64(1), detail.PostsCount)

	w = a.do(t, http.MethodGet, "/api/v1/posts/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = a.do(t, http.MethodPost, "/api/v1/posts/missing/comment", max, map[string]string{"text": "hi"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIndexCacheAndPagination(t *testing.T) {
	a := newApp(t)
	leo := a.login(t, "leo", false)
	admin := a.login(t, "admin", true)

	var ids []string
	for i := 0; i < 11; i++ {
		w := a.do(t, http.MethodPost, "/api/v1/create", leo, map[string]string{"text": fmt.Sprintf("post %d", i)})
		require.Equal(t, http.StatusCreated, w.Code)
		var res struct {
			Data struct {
				ID string `json:"id"`
			} `json:"data"`
		}
		decode(t, w, &res)
		ids = append(ids, res.Data.ID)
	}

	var p pageBody
	decode(t, a.do(t, http.MethodGet, "/api/v1/?page=2", "", nil), &p)
	assert.Len(t, p.Items, 1)
	assert.Equal(t, 2, p.NumPages)

	decode(t, a.do(t, http.MethodGet, "/api/v1/?page=abc", "", nil), &p)
	assert.Equal(t, 1, p.Number)
	assert.Len(t, p.Items, 10)

	first := a.do(t, http.MethodGet, "/api/v1/", "", nil).Body.String()
	newest := ids[len(ids)-1]
	assert.Contains(t, first, newest)

	require.NoError(t, a.posts.Delete(context.Background(), newest))
	assert.Equal(t, first, a.do(t, http.MethodGet, "/api/v1/", "", nil).Body.String())

	w := a.do(t, http.MethodDelete, "/api/v1/admin/cache", leo, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = a.do(t, http.MethodDelete, "/api/v1/admin/cache", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.NotContains(t, a.do(t, http.MethodGet, "/api/v1/", "", nil).Body.String(), newest)
}

func TestFollowFlow(t *testing.T) {
	a := newApp(t)
	reader := a.login(t, "reader", false)
	writer := a.login(t, "writer", false)

	w := a.do(t, http.MethodPost, "/api/v1/create", writer, map[string]string{"text": "from writer"})
	require.Equal(t, http.StatusCreated, w.Code)

	var p pageBody
	decode(t, a.do(t, http.MethodGet, "/api/v1/follow", reader, nil), &p)
	assert.Empty(t, p.Items)

	for i := 0; i < 2; i++ {
		w = a.do(t, http.MethodPost, "/api/v1/profile/writer/follow", reader, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	}
	w = a.do(t, http.MethodPost, "/api/v1/profile/reader/follow", reader, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	decode(t, a.do(t, http.MethodGet, "/api/v1/follow", reader, nil), &p)
	require.Len(t, p.Items, 1)
	assert.Equal(t, "from writer", p.Items[0].Text)

	var profile struct {
		Following      bool  `json:"following"`
		FollowersCount int64 `json:"followers_count"`
		PostsCount     int64 `json:"posts_count"`
	}
	decode(t, a.do(t, http.MethodGet, "/api/v1/profile/writer", reader, nil), &profile)
	assert.True(t, profile.Following)
	assert.Equal(t, int64(1), profile.FollowersCount)
	assert.Equal(t, int64(1), profile.PostsCount)

	w = a.do(t, http.MethodPost, "/api/v1/profile/writer/unfollow", reader, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	decode(t, a.do(t, http.MethodGet, "/api/v1/follow", reader, nil), &p)
	assert.Empty(t, p.Items)

	w = a.do(t, http.MethodPost, "/api/v1/profile/ghost/follow", reader, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGroups(t *testing.T) {
	a := newApp(t)
	admin := a.login(t, "admin", true)
	leo := a.login(t, "leo", false)

	w := a.do(t, http.MethodPost, "/api/v1/admin/groups", leo, map[string]string{"title": "Cats", "slug": "cats"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = a.do(t, http.MethodPost, "/api/v1/admin/groups", admin, map[string]string{"title": "Cats", "slug": "cats"})
	require.Equal(t, http.StatusCreated, w.Code)
	var g struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	decode(t, w, &g)

	w = a.do(t, http.MethodPost, "/api/v1/create", leo, map[string]string{"text": "meow", "group": g.Data.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	w = a.do(t, http.MethodPost, "/api/v1/create", leo, map[string]string{"text": "woof"})
	require.Equal(t, http.StatusCreated, w.Code)

	var feed struct {
		Page pageBody `json:"page"`
	}
	decode(t, a.do(t, http.MethodGet, "/api/v1/group/cats", "", nil), &feed)
	require.Len(t, feed.Page.Items, 1)
	assert.Equal(t, "meow", feed.Page.Items[0].Text)

	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodGet, "/api/v1/group/dogs", "", nil).Code)
	assert.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/api/v1/groups", "", nil).Code)
}

func TestSignUpAndLogin(t *testing.T) {
	a := newApp(t)
	form := map[string]string{"username": "leo", "password": "war-and-peace"}

	w := a.do(t, http.MethodPost, "/api/v1/auth/signup", "", form)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "password")

	w = a.do(t, http.MethodPost, "/api/v1/auth/signup", "", form)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode(t, w, nil).Errors["username"])

	w = a.do(t, http.MethodPost, "/api/v1/auth/login?next=/api/v1/follow", "", form)
	require.Equal(t, http.StatusOK, w.Code)
	var sess struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
		Next string `json:"next"`
	}
	decode(t, w, &sess)
	assert.NotEmpty(t, sess.Data.Token)
	assert.Equal(t, "/api/v1/follow", sess.Next)

	w = a.do(t, http.MethodGet, "/api/v1/follow", sess.Data.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "leo", "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPublicPagesHideAuthorEmail(t *testing.T) {
	a := newApp(t)
	const email = "leo@example.com"

	w := a.do(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"username": "leo", "email": email, "password": "war-and-peace",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), email, "signup answers the new account to its owner")
	var signup struct {
		Next string `json:"next"`
	}
	decode(t, w, &signup)
	assert.Equal(t, "/api/v1/", signup.Next)

	w = a.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "leo", "password": "war-and-peace"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), email)
	var sess struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	decode(t, w, &sess)

	reader := a.login(t, "reader", false)
	w = a.do(t, http.MethodPost, "/api/v1/profile/leo/follow", reader, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), email)

	w = a.do(t, http.MethodPost, "/api/v1/create", sess.Data.Token, map[string]string{"text": "hello"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), email)
	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	decode(t, w, &created)
	w = a.do(t, http.MethodPost, "/api/v1/posts/"+created.Data.ID+"/comment", sess.Data.Token, map[string]string{"text": "me again"})
	require.Equal(t, http.StatusCreated, w.Code)

	for _, path := range []string{
		"/api/v1/",
		"/api/v1/profile/leo",
		"/api/v1/posts/" + created.Data.ID,
	} {
		w := a.do(t, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Body.String(), `"username":"leo"`, path)
		assert.NotContains(t, w.Body.String(), email, path)
	}

	w = a.do(t, http.MethodGet, "/api/v1/follow", reader, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), email)
}
