package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"newsup/articleview"
	"newsup/store"
	"newsup/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultPage  = 1
	defaultLimit = 10

	defaultRequestTimeout = 15 * time.Second
)

// ArticleHandler serves the /api/articles endpoints.
type ArticleHandler struct {
	store      ArticleStore
	logger     *zap.Logger
	newspapers []string
	categories []string
	timeout    time.Duration
}

// NewArticleHandler builds the handler set for the given options.
func NewArticleHandler(opts Options) *ArticleHandler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	return &ArticleHandler{
		store:      opts.Store,
		logger:     opts.Logger,
		newspapers: opts.Newspapers,
		categories: opts.Categories,
		timeout:    opts.RequestTimeout,
	}
}

// RegisterArticleRoutes registers the article read endpoints.
func RegisterArticleRoutes(r *gin.Engine, h *ArticleHandler) {
	g := r.Group("/api/articles")
	g.GET("/categories/:paper", h.handleCategories)
	g.GET("/category-counts/:paper", h.handleCategoryCounts)
	g.GET("/secondCategory/:paper", h.handleSecondCategories)
	g.GET("/titles/:paper/:category", h.handleTitlesByCategory)
	g.GET("/titles/:paper/secondCategory/:value", h.handleTitlesBySecondCategory)
	g.GET("/all/:paper", h.handleAllTitles)
	g.GET("/by-id/:paper/:articleId", h.handleByID)
	g.GET("/all-papers/by-date/:date", h.handleAllPapersByDate)
	g.GET("/resources/daily/by-date/:date", h.handleDailyResources)
	g.GET("/:paper/by-date/:date", h.handleByDate)
	g.GET("/:paper/by-date/:date/syllabus", h.handleSyllabusByDate)
}

func (h *ArticleHandler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

// serverError logs err and answers with a generic 500 body.
func (h *ArticleHandler) serverError(c *gin.Context, body string, err error, fields ...zap.Field) {
	fields = append(fields, zap.String(requestIDKey, requestID(c)), zap.Error(err))
	h.logger.Error(body, fields...)
	c.JSON(http.StatusInternalServerError, gin.H{"error": body})
}

// pageFromQuery reads page and limit, falling back to the defaults for
// missing, malformed or non-positive values.
func pageFromQuery(c *gin.Context) store.Page {
	return store.Page{
		Number: positiveQueryInt(c, "page", defaultPage),
		Size:   positiveQueryInt(c, "limit", defaultLimit),
	}
}

func positiveQueryInt(c *gin.Context, key string, def int64) int64 {
	raw, ok := c.GetQuery(key)
	if !ok {
		return def
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// handleCategories returns raw {_id, count} groups of the category field.
func (h *ArticleHandler) handleCategories(c *gin.Context) {
	h.countBy(c, "category")
}

func (h *ArticleHandler) handleSecondCategories(c *gin.Context) {
	h.countBy(c, "secondCategory")
}

func (h *ArticleHandler) countBy(c *gin.Context, field string) {
	paper := c.Param("paper")
	ctx, cancel := h.requestContext(c)
	defer cancel()

	counts, err := h.store.CountBy(ctx, paper, field)
	if err != nil {
		h.serverError(c, "Internal server error", err, zap.String("paper", paper), zap.String("field", field))
		return
	}
	c.JSON(http.StatusOK, counts)
}

// handleCategoryCounts reports every configured category, zero when absent.
func (h *ArticleHandler) handleCategoryCounts(c *gin.Context) {
	paper := c.Param("paper")
	ctx, cancel := h.requestContext(c)
	defer cancel()

	groups, err := h.store.CountBy(ctx, paper, "category")
	if err != nil {
		h.serverError(c, "Something went wrong.", err, zap.String("paper", paper))
		return
	}
	c.JSON(http.StatusOK, fillCategoryCounts(h.categories, groups))
}

func fillCategoryCounts(categories []string, groups []types.GroupCount) []types.CategoryCount {
	found := make(map[string]int64, len(groups))
	for _, g := range groups {
		if name, ok := g.ID.(string); ok {
			found[name] = g.Count
		}
	}
	out := make([]types.CategoryCount, 0, len(categories))
	for _, cat := range categories {
		out = append(out, types.CategoryCount{Category: cat, Count: found[cat]})
	}
	return out
}

func (h *ArticleHandler) handleTitlesByCategory(c *gin.Context) {
	h.titlesBy(c, "category", c.Param("category"))
}

func (h *ArticleHandler) handleTitlesBySecondCategory(c *gin.Context) {
	h.titlesBy(c, "secondCategory", c.Param("value"))
}

func (h *ArticleHandler) titlesBy(c *gin.Context, field, value string) {
	paper := c.Param("paper")
	ctx, cancel := h.requestContext(c)
	defer cancel()

	titles, err := h.store.TitlesBy(ctx, paper, field, value)
	if err != nil {
		h.serverError(c, "Failed to fetch article titles", err,
			zap.String("paper", paper), zap.String("field", field), zap.String("value", value))
		return
	}
	c.JSON(http.StatusOK, titles)
}

func (h *ArticleHandler) handleAllTitles(c *gin.Context) {
	paper := c.Param("paper")
	ctx, cancel := h.requestContext(c)
	defer cancel()

	titles, err := h.store.AllTitles(ctx, paper)
	if err != nil {
		h.serverError(c, "Internal server error", err, zap.String("paper", paper))
		return
	}
	if len(titles) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No articles found"})
		return
	}
	c.JSON(http.StatusOK, titles)
}

// handleByID returns the stored document unchanged. Ids that are not
// integers can never match and are reported as not found.
func (h *ArticleHandler) handleByID(c *gin.Context) {
	paper := c.Param("paper")
	id, err := strconv.ParseInt(c.Param("articleId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	doc, err := h.store.ArticleByID(ctx, paper, id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}
	if err != nil {
		h.serverError(c, "Internal server error", err, zap.String("paper", paper), zap.Int64("articleId", id))
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *ArticleHandler) handleByDate(c *gin.Context) {
	paper, date := c.Param("paper"), c.Param("date")
	ctx, cancel := h.requestContext(c)
	defer cancel()

	batch, err := h.store.ArticlesByDate(ctx, paper, date, pageFromQuery(c))
	if err != nil {
		h.serverError(c, "Internal server error", err, zap.String("paper", paper), zap.String("date", date))
		return
	}

	views, err := articleview.BuildViews(batch)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("No articles found for %s on %s", paper, date)})
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *ArticleHandler) handleSyllabusByDate(c *gin.Context) {
	paper, date := c.Param("paper"), c.Param("date")
	ctx, cancel := h.requestContext(c)
	defer cancel()

	batch, err := h.store.ArticlesByDate(ctx, paper, date, pageFromQuery(c))
	if err != nil {
		h.serverError(c, "Internal server error", err, zap.String("paper", paper), zap.String("date", date))
		return
	}

	logger := h.logger.With(zap.String("paper", paper), zap.String(requestIDKey, requestID(c)))
	views, err := articleview.BuildSyllabusViews(batch, logger)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("No articles found for %s on %s", paper, date)})
		return
	}
	c.JSON(http.StatusOK, views)
}

// handleAllPapersByDate collects the by-date views of every configured
// newspaper. A newspaper that fails or has nothing for the date is skipped.
func (h *ArticleHandler) handleAllPapersByDate(c *gin.Context) {
	date := c.Param("date")
	page := pageFromQuery(c)

	result := make(map[string][]articleview.ArticleView, len(h.newspapers))
	for _, paper := range h.newspapers {
		ctx, cancel := h.requestContext(c)
		batch, err := h.store.ArticlesByDate(ctx, paper, date, page)
		cancel()
		if err != nil {
			h.logger.Warn("skipping newspaper",
				zap.String("paper", paper),
				zap.String("date", date),
				zap.String(requestIDKey, requestID(c)),
				zap.Error(err))
			continue
		}
		views, err := articleview.BuildViews(batch)
		if err != nil {
			continue
		}
		result[paper] = views
	}

	if len(result) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("No articles found for any newspaper on %s", date)})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ArticleHandler) handleDailyResources(c *gin.Context) {
	date := c.Param("date")
	ctx, cancel := h.requestContext(c)
	defer cancel()

	docs, err := h.store.DailyResources(ctx, date)
	if err != nil {
		h.serverError(c, "Internal server error while fetching daily resources", err, zap.String("date", date))
		return
	}
	if len(docs) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("No daily resources found for date %s", date)})
		return
	}
	c.JSON(http.StatusOK, docs)
}
