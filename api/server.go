package api

import (
	"context"
	"time"

	"newsup/store"
	"newsup/types"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// ArticleStore is the read surface the handlers need from the database.
type ArticleStore interface {
	ArticlesByDate(ctx context.Context, paper, date string, page store.Page) ([]types.StoredArticle, error)
	ArticleByID(ctx context.Context, paper string, articleID int64) (bson.M, error)
	TitlesBy(ctx context.Context, paper, field, value string) ([]types.TitleEntry, error)
	AllTitles(ctx context.Context, paper string) ([]types.TitleEntry, error)
	CountBy(ctx context.Context, paper, field string) ([]types.GroupCount, error)
	DailyResources(ctx context.Context, date string) ([]bson.M, error)
}

// Pinger is implemented by stores that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures NewRouter.
type Options struct {
	Store  ArticleStore
	Logger *zap.Logger
	// Newspapers are the collections visited by cross-newspaper listings.
	Newspapers []string
	// Categories are reported, zero-filled, by the category-count endpoint.
	Categories     []string
	RequestTimeout time.Duration
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())
	r.Use(requestLogger(opts.Logger))

	pinger, _ := opts.Store.(Pinger)
	RegisterHealthRoutes(r, pinger)
	RegisterArticleRoutes(r, NewArticleHandler(opts))
	return r
}
