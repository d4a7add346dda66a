package router

import (
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/gin-blog/config"
	_ "github.com/d60-Lab/gin-blog/docs"
	"github.com/d60-Lab/gin-blog/internal/api/handler"
	"github.com/d60-Lab/gin-blog/internal/api/middleware"
)

// Deps 组装路由所需依赖
type Deps struct {
	Config   *config.Config
	Services handler.Services
	Tokens   middleware.TokenParser
}

// Setup 注册中间件与全部具名路由
func Setup(d Deps) *gin.Engine {
	gin.SetMode(d.Config.Server.Mode)

	r := gin.New()
	r.Use(
		middleware.Recovery(),
		middleware.Sentry(),
		otelgin.Middleware(d.Config.Tracing.ServiceName),
		middleware.RequestLogger(),
		gzip.Gzip(gzip.DefaultCompression),
	)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	h := handler.New(d.Services, Reverse)
	limiter := middleware.NewIPRateLimiter(d.Config.Server.RateLimit.RPS, d.Config.Server.RateLimit.Burst)

	login := Reverse("login")
	auth := middleware.RequireAuth(login)
	write := middleware.RateLimit(limiter)
	staff := middleware.RequireStaff()

	chains := map[string][]gin.HandlerFunc{
		"index":            {h.Index},
		"group_list":       {h.GroupList},
		"group_index":      {h.GroupIndex},
		"profile":          {h.Profile},
		"post_detail":      {h.PostDetail},
		"post_create":      {auth, write, h.PostCreate},
		"post_edit":        {auth, write, h.PostEdit},
		"add_comment":      {auth, write, h.AddComment},
		"follow_index":     {auth, h.FollowIndex},
		"profile_follow":   {auth, write, h.ProfileFollow},
		"profile_unfollow": {auth, write, h.ProfileUnfollow},
		"signup":           {write, h.SignUp},
		"login":            {write, h.Login},
		"group_create":     {auth, staff, h.GroupCreate},
		"cache_clear":      {auth, staff, h.CacheClear},
	}

	api := r.Group(APIPrefix)
	api.Use(middleware.Auth(d.Tokens, d.Services.Users))
	for _, rt := range routes {
		chain, ok := chains[rt.Name]
		if !ok {
			panic("router: no handler for route " + rt.Name)
		}
		api.Handle(rt.Method, rt.Path, chain...)
	}
	return r
}
