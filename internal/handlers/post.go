package handlers

import (
	"fmt"
	"leanfeed/internal/middleware"
	"leanfeed/internal/services"
	"leanfeed/internal/utils"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	feed     *services.Feed
	cache    *utils.Cache
	cacheTTL time.Duration
}

// NewPostHandler cache 为 nil 或 ttl 为 0 时不缓存列表
func NewPostHandler(feed *services.Feed, cache *utils.Cache, ttl time.Duration) *PostHandler {
	return &PostHandler{feed: feed, cache: cache, cacheTTL: ttl}
}

type createPostRequest struct {
	Title   string `json:"title"`
	Body    string `json:"body"`
	Sources string `json:"sources"`
}

// List GET /api/posts?page=&limit=&sortBy=
func (h *PostHandler) List(c *gin.Context) {
	viewer := middleware.CurrentUser(c)
	page, limit := pageQuery(c)
	sortBy := c.Query("sortBy")

	// likedByViewer 因人而异，缓存键里带上用户
	key := fmt.Sprintf("posts:%s:%d:%d:%s", sortBy, page, limit, viewer)
	if h.cacheEnabled() {
		if cached, ok := h.cache.Get(key).(*services.PostPage); ok {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	result, err := h.feed.ListPosts(c.Request.Context(), viewer, page, limit, sortBy)
	if err != nil {
		RespondError(c, err)
		return
	}
	if h.cacheEnabled() {
		h.cache.Set(key, result, h.cacheTTL)
	}
	c.JSON(http.StatusOK, result)
}

// Detail GET /api/posts/:id
func (h *PostHandler) Detail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	detail, err := h.feed.GetPost(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Create POST /api/posts
func (h *PostHandler) Create(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	id, err := h.feed.CreatePost(c.Request.Context(), middleware.CurrentUser(c), req.Title, req.Body, req.Sources)
	if err != nil {
		RespondError(c, err)
		return
	}
	h.invalidate()
	c.JSON(http.StatusCreated, gin.H{"postID": id})
}

func (h *PostHandler) cacheEnabled() bool {
	return h.cache != nil && h.cacheTTL > 0
}

// invalidate 任何写操作都可能改变排序，直接清空列表缓存
func (h *PostHandler) invalidate() {
	if h.cache != nil {
		h.cache.Purge()
	}
}
