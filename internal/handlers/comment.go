package handlers

import (
	"leanfeed/internal/middleware"
	"leanfeed/internal/models"
	"leanfeed/internal/services"
	"leanfeed/internal/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	feed  *services.Feed
	posts *PostHandler
}

func NewCommentHandler(feed *services.Feed, posts *PostHandler) *CommentHandler {
	return &CommentHandler{feed: feed, posts: posts}
}

type createCommentRequest struct {
	Body            string `json:"body"`
	PostID          *uint  `json:"postID"`
	ParentCommentID *uint  `json:"parentCommentID"`
}

// parent 两个字段必须且只能给一个
func (r createCommentRequest) parent() (models.CommentParent, bool) {
	switch {
	case r.PostID != nil && r.ParentCommentID == nil:
		return models.ReplyToPost(*r.PostID), true
	case r.ParentCommentID != nil && r.PostID == nil:
		return models.ReplyToComment(*r.ParentCommentID), true
	}
	return models.CommentParent{}, false
}

// List GET /api/posts/:id/comments?page=&limit=&sortBy=&parentCommentID=
func (h *CommentHandler) List(c *gin.Context) {
	postID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var parentID *uint
	if raw := c.Query("parentCommentID"); raw != "" {
		id, ok := utils.StringToID(raw)
		if !ok {
			badRequest(c, "invalid parentCommentID")
			return
		}
		parentID = &id
	}
	page, limit := pageQuery(c)

	result, err := h.feed.ListComments(c.Request.Context(), middleware.CurrentUser(c), postID, parentID, c.Query("sortBy"), page, limit)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Create POST /api/comments
func (h *CommentHandler) Create(c *gin.Context) {
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	parent, ok := req.parent()
	if !ok {
		if req.PostID != nil && req.ParentCommentID != nil {
			RespondError(c, services.ErrInvalidField.WithMessage("postID and parentCommentID are mutually exclusive"))
			return
		}
		RespondError(c, services.ErrMissingFields.WithMessage("one of postID or parentCommentID is required"))
		return
	}

	id, err := h.feed.AddComment(c.Request.Context(), middleware.CurrentUser(c), req.Body, parent)
	if err != nil {
		RespondError(c, err)
		return
	}
	// 帖子列表里的评论数变了
	h.posts.invalidate()
	c.JSON(http.StatusCreated, gin.H{"commentID": id})
}
