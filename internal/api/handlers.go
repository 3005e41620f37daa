package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/romangod6/blog-api/internal/apperror"
	"github.com/romangod6/blog-api/internal/models"
	"github.com/romangod6/blog-api/internal/storage"
	"github.com/romangod6/blog-api/internal/thread"
	"go.uber.org/zap"
)

type Handler struct {
	store    storage.Store
	thread   *thread.Model
	recorder Recorder
	logger   *zap.SugaredLogger

	legacyStatusCodes bool
}

func NewHandler(store storage.Store, opts Options) *Handler {
	h := &Handler{
		store:             store,
		thread:            thread.NewModel(store),
		recorder:          opts.Metrics,
		logger:            opts.Logger,
		legacyStatusCodes: opts.LegacyStatusCodes,
	}
	if h.recorder == nil {
		h.recorder = nopRecorder{}
	}
	if h.logger == nil {
		h.logger = zap.NewNop().Sugar()
	}
	return h
}

func (h *Handler) ListArticles(c *gin.Context) {
	articles, err := h.store.ListArticles(c.Request.Context())
	if err != nil {
		h.fail(c, apperror.Persistence("fetch articles", err))
		return
	}

	respondOK(c, articles)
}

func (h *Handler) CreateArticle(c *gin.Context) {
	var req ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperror.Invalid("Invalid request body: %v", err))
		return
	}

	article, err := req.Article()
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.store.CreateArticle(c.Request.Context(), article); err != nil {
		h.fail(c, apperror.Persistence("create article", err))
		return
	}
	h.recorder.ArticleCreated(c.Request.Context())

	loggerFrom(c, h.logger).Debugw("article created", "article_id", article.ID)
	respondOK(c, article)
}

func (h *Handler) GetArticle(c *gin.Context) {
	article, ok := h.loadArticle(c)
	if !ok {
		return
	}

	respondOK(c, article)
}

func (h *Handler) GetArticleComments(c *gin.Context) {
	article, ok := h.loadArticle(c)
	if !ok {
		return
	}

	comments, err := h.thread.RootsOf(c.Request.Context(), article)
	if err != nil {
		h.fail(c, err)
		return
	}

	respondOK(c, comments)
}

func (h *Handler) CreateComment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperror.Invalid("Invalid request body: %v", err))
		return
	}

	comment, err := req.Comment()
	if err != nil {
		h.fail(c, err)
		return
	}

	articleID, err := req.ArticleID()
	if err != nil {
		h.fail(c, err)
		return
	}
	article, err := h.store.GetArticle(c.Request.Context(), articleID)
	if err != nil {
		h.fail(c, apperror.Persistence("fetch article", err))
		return
	}
	if article == nil {
		h.fail(c, apperror.NotFound("Article", articleID.String()))
		return
	}

	parentID, err := req.ParentID()
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.thread.Attach(c.Request.Context(), comment, article, parentID); err != nil {
		h.fail(c, err)
		return
	}

	if err := h.store.CreateComment(c.Request.Context(), comment); err != nil {
		h.fail(c, apperror.Persistence("create comment", err))
		return
	}
	h.recorder.CommentCreated(c.Request.Context(), !comment.IsRoot())

	loggerFrom(c, h.logger).Debugw("comment created",
		"comment_id", comment.ID,
		"article_id", comment.ArticleID,
		"parent_id", comment.ParentID,
	)
	respondOK(c, comment)
}

func (h *Handler) GetComment(c *gin.Context) {
	comment, ok := h.loadComment(c)
	if !ok {
		return
	}

	respondOK(c, comment)
}

func (h *Handler) GetCommentResponses(c *gin.Context) {
	comment, ok := h.loadComment(c)
	if !ok {
		return
	}

	responses, err := h.thread.ChildrenOf(c.Request.Context(), comment)
	if err != nil {
		h.fail(c, err)
		return
	}

	respondOK(c, responses)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, Envelope{Status: StatusOK})
}

func (h *Handler) NoRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, Envelope{Status: StatusFail, ErrorMessage: "Route not found."})
}

// loadArticle resolves the :id path parameter, writing the failure response
// itself when the article cannot be returned.
func (h *Handler) loadArticle(c *gin.Context) (*models.Article, bool) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := uuid.Parse(raw)
	if err != nil {
		h.fail(c, apperror.NotFound("Article", raw))
		return nil, false
	}

	article, err := h.store.GetArticle(c.Request.Context(), id)
	if err != nil {
		h.fail(c, apperror.Persistence("fetch article", err))
		return nil, false
	}
	if article == nil {
		h.fail(c, apperror.NotFound("Article", raw))
		return nil, false
	}

	return article, true
}

func (h *Handler) loadComment(c *gin.Context) (*models.Comment, bool) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := uuid.Parse(raw)
	if err != nil {
		h.fail(c, apperror.NotFound("Comment", raw))
		return nil, false
	}

	comment, err := h.store.GetComment(c.Request.Context(), id)
	if err != nil {
		h.fail(c, apperror.Persistence("fetch comment", err))
		return nil, false
	}
	if comment == nil {
		h.fail(c, apperror.NotFound("Comment", raw))
		return nil, false
	}

	return comment, true
}

func (h *Handler) fail(c *gin.Context, err error) {
	status, message := statusFor(err, h.legacyStatusCodes)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, Envelope{Status: StatusFail, ErrorMessage: message})
}
