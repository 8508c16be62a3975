package router

import (
	"leanfeed/internal/config"
	"leanfeed/internal/handlers"
	"leanfeed/internal/middleware"
	"leanfeed/internal/services"
	"leanfeed/internal/utils"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	sessionName   = "leanfeed_session"
	listCacheSize = 512
)

// New 创建带全局中间件的 gin 引擎并注册路由
func New(gdb *gorm.DB, cfg *config.Config) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())

	// Setup Sessions
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(middleware.LoadUser())

	RegisterRoutes(r, gdb, cfg)
	return r
}

func RegisterRoutes(r *gin.Engine, gdb *gorm.DB, cfg *config.Config) {
	// Services
	feed := services.NewFeed(gdb, services.Paging{
		DefaultLimit: cfg.DefaultPageLimit,
		MaxLimit:     cfg.MaxPageLimit,
	})
	users := services.NewUserService(gdb)
	likes := services.NewLikeService(gdb)

	cache, err := utils.NewCache(listCacheSize)
	if err != nil {
		logrus.WithError(err).Warn("List cache disabled")
		cache = nil
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(users)
	postHandler := handlers.NewPostHandler(feed, cache, cfg.ListCacheTTL)
	commentHandler := handlers.NewCommentHandler(feed, postHandler)
	likeHandler := handlers.NewLikeHandler(likes, postHandler)

	r.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := gdb.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(middleware.Timeout(cfg.RequestTimeout))

	// 公共路由 (Public Routes)
	api.POST("/auth/register", authHandler.Register)      // 注册
	api.POST("/auth/login", authHandler.Login)            // 登录
	api.POST("/auth/logout", authHandler.Logout)          // 退出登录
	api.GET("/posts", postHandler.List)                   // 帖子列表
	api.GET("/posts/:id", postHandler.Detail)             // 帖子详情及全部评论
	api.GET("/posts/:id/comments", commentHandler.List)   // 分页评论 / 回复
	api.GET("/likes/:type/:id", likeHandler.Distribution) // 点赞分布

	// 受保护路由 (Protected Routes)
	authorized := api.Group("")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/auth/me", authHandler.Me)                // 当前用户
		authorized.POST("/posts", postHandler.Create)             // 发帖
		authorized.POST("/comments", commentHandler.Create)       // 评论 / 回复
		authorized.POST("/likes/:type/:id", likeHandler.Like)     // 点赞
		authorized.DELETE("/likes/:type/:id", likeHandler.Unlike) // 取消点赞
	}
}
