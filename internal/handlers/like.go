package handlers

import (
	"leanfeed/internal/middleware"
	"leanfeed/internal/models"
	"leanfeed/internal/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type LikeHandler struct {
	likes *services.LikeService
	posts *PostHandler
}

func NewLikeHandler(likes *services.LikeService, posts *PostHandler) *LikeHandler {
	return &LikeHandler{likes: likes, posts: posts}
}

// entityRef 解析 /:type/:id，type 不区分大小写
func entityRef(c *gin.Context) (models.EntityRef, bool) {
	typ, err := models.ParseEntityType(c.Param("type"))
	if err != nil {
		RespondError(c, services.ErrInvalidEntityType)
		return models.EntityRef{}, false
	}
	id, ok := paramID(c, "id")
	if !ok {
		return models.EntityRef{}, false
	}
	return models.EntityRef{Type: typ, ID: id}, true
}

// Like POST /api/likes/:type/:id
func (h *LikeHandler) Like(c *gin.Context) {
	ref, ok := entityRef(c)
	if !ok {
		return
	}
	dist, err := h.likes.Add(c.Request.Context(), middleware.CurrentUser(c), ref)
	if err != nil {
		RespondError(c, err)
		return
	}
	h.posts.invalidate()
	c.JSON(http.StatusOK, gin.H{"entity": ref, "likes": dist, "liked": true})
}

// Unlike DELETE /api/likes/:type/:id
func (h *LikeHandler) Unlike(c *gin.Context) {
	ref, ok := entityRef(c)
	if !ok {
		return
	}
	dist, err := h.likes.Remove(c.Request.Context(), middleware.CurrentUser(c), ref)
	if err != nil {
		RespondError(c, err)
		return
	}
	h.posts.invalidate()
	c.JSON(http.StatusOK, gin.H{"entity": ref, "likes": dist, "liked": false})
}

// Distribution GET /api/likes/:type/:id
func (h *LikeHandler) Distribution(c *gin.Context) {
	ref, ok := entityRef(c)
	if !ok {
		return
	}
	dist, err := h.likes.Distribution(c.Request.Context(), ref)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entity": ref, "likes": dist})
}
