package handlers

import (
	"net/http"

	"isitjustme/internal/middleware"
	"isitjustme/internal/services"
	"isitjustme/internal/utils"

	"github.com/gin-gonic/gin"
)

// StoryHandler serves posts and comments.
type StoryHandler struct {
	content *services.ContentService
}

func NewStoryHandler(content *services.ContentService) *StoryHandler {
	return &StoryHandler{content: content}
}

type createPostBody struct {
	Title     string `json:"title" binding:"required"`
	Content   string `json:"content"`
	Anonymous bool   `json:"anonymous"` // 已登录用户也可匿名发布
}

type createCommentBody struct {
	Content   string `json:"content" binding:"required"`
	ParentID  *uint  `json:"parentId"`
	Anonymous bool   `json:"anonymous"`
}

// author 未登录或选择匿名时返回 nil
func author(c *gin.Context, anonymous bool) *uint {
	if anonymous {
		return nil
	}
	if id, ok := middleware.CurrentUserID(c); ok {
		return &id
	}
	return nil
}

// List 帖子列表，sort=hot|new|top
func (h *StoryHandler) List(c *gin.Context) {
	sort := c.DefaultQuery("sort", services.SortHot)
	limit := utils.StringToInt(c.Query("limit"), 30)

	posts, err := h.content.ListPosts(c.Request.Context(), sort, limit)
	if err != nil {
		RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (h *StoryHandler) Create(c *gin.Context) {
	var body createPostBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Title is required")
		return
	}

	post, err := h.content.CreatePost(c.Request.Context(), services.CreatePostInput{
		AuthorID: author(c, body.Anonymous),
		Title:    body.Title,
		Content:  body.Content,
	})
	if err != nil {
		RenderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *StoryHandler) CreateComment(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var body createCommentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Content is required")
		return
	}

	comment, err := h.content.CreateComment(c.Request.Context(), services.CreateCommentInput{
		PostID:   postID,
		ParentID: body.ParentID,
		AuthorID: author(c, body.Anonymous),
		Content:  body.Content,
	})
	if err != nil {
		RenderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// Delete 删除帖子（连同评论与投票），仅作者本人
func (h *StoryHandler) Delete(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.CurrentUserID(c)

	if err := h.content.DeletePost(c.Request.Context(), postID, userID); err != nil {
		RenderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteComment 删除评论及其回复，仅作者本人
func (h *StoryHandler) DeleteComment(c *gin.Context) {
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.CurrentUserID(c)

	if err := h.content.DeleteComment(c.Request.Context(), commentID, userID); err != nil {
		RenderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
