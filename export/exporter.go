package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"newsup/articleview"
	"newsup/store"
	"newsup/types"

	"go.uber.org/zap"
)

// DefaultPageSize is the batch size used when paging through a day's articles.
const DefaultPageSize = 50

// ArticleSource fetches one page of a newspaper's articles for a date.
type ArticleSource interface {
	ArticlesByDate(ctx context.Context, paper, date string, page store.Page) ([]types.StoredArticle, error)
}

// ObjectStore is the subset of common.S3 used for uploads.
type ObjectStore interface {
	Put(ctx context.Context, bucket, key string, body io.Reader, contentType, cacheControl string) error
	Exists(ctx context.Context, bucket, key string) (bool, error)
}

// Snapshot is the document written for one newspaper and date.
type Snapshot struct {
	Paper      string                    `json:"paper"`
	Date       string                    `json:"date"`
	ExportedAt time.Time                 `json:"exported_at"`
	Count      int                       `json:"count"`
	Articles   []articleview.ArticleView `json:"articles"`
}

// Result describes a finished export.
type Result struct {
	Key      string
	Articles int
	Skipped  bool
}

// Exporter writes by-date listings to object storage as JSON snapshots.
type Exporter struct {
	source   ArticleSource
	objects  ObjectStore
	bucket   string
	prefix   string
	pageSize int64
	logger   *zap.Logger
	now      func() time.Time
}

// NewExporter wires an exporter. prefix must be "" or end with "/".
func NewExporter(source ArticleSource, objects ObjectStore, bucket, prefix string, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{
		source:   source,
		objects:  objects,
		bucket:   bucket,
		prefix:   prefix,
		pageSize: DefaultPageSize,
		logger:   logger,
		now:      time.Now,
	}
}

// Key returns the object key of the snapshot for paper and date.
func (e *Exporter) Key(paper, date string) string {
	return e.prefix + "papers/" + paper + "/" + date + ".json"
}

// Export snapshots every article of paper published on date. With
// skipExisting, an already uploaded snapshot is left untouched.
func (e *Exporter) Export(ctx context.Context, paper, date string, skipExisting bool) (Result, error) {
	key := e.Key(paper, date)

	if skipExisting {
		exists, err := e.objects.Exists(ctx, e.bucket, key)
		if err != nil {
			return Result{}, fmt.Errorf("check %s: %w", key, err)
		}
		if exists {
			e.logger.Info("snapshot already exported", zap.String("key", key))
			return Result{Key: key, Skipped: true}, nil
		}
	}

	articles, err := e.fetchAll(ctx, paper, date)
	if err != nil {
		return Result{}, err
	}
	views, err := articleview.BuildViews(articles)
	if err != nil {
		return Result{}, fmt.Errorf("%s on %s: %w", paper, date, err)
	}

	snap := Snapshot{
		Paper:      paper,
		Date:       date,
		ExportedAt: e.now().UTC(),
		Count:      len(views),
		Articles:   views,
	}
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return Result{}, fmt.Errorf("encode snapshot: %w", err)
	}

	if err := e.objects.Put(ctx, e.bucket, key, bytes.NewReader(b), "application/json", "public, max-age=300"); err != nil {
		return Result{}, fmt.Errorf("upload %s: %w", key, err)
	}

	e.logger.Info("snapshot exported",
		zap.String("bucket", e.bucket),
		zap.String("key", key),
		zap.Int("articles", len(views)))
	return Result{Key: key, Articles: len(views)}, nil
}

func (e *Exporter) fetchAll(ctx context.Context, paper, date string) ([]types.StoredArticle, error) {
	var all []types.StoredArticle
	for n := int64(1); ; n++ {
		batch, err := e.source.ArticlesByDate(ctx, paper, date, store.Page{Number: n, Size: e.pageSize})
		if err != nil {
			return nil, fmt.Errorf("fetch page %d: %w", n, err)
		}
		all = append(all, batch...)
		if int64(len(batch)) < e.pageSize {
			return all, nil
		}
	}
}
