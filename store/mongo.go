package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"newsup/types"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a single-document lookup matches nothing.
var ErrNotFound = errors.New("document not found")

// Config locates the databases read by Mongo.
type Config struct {
	URI                 string
	NewsDatabase        string
	ResourcesDatabase   string
	ResourcesCollection string
}

// Page is an offset/limit window derived from 1-based page numbers.
type Page struct {
	Number int64
	Size   int64
}

// Skip returns the number of documents preceding the page.
func (p Page) Skip() int64 {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// Mongo is a read-only view over the newspaper and resource databases.
// Each newspaper is a collection inside the news database.
type Mongo struct {
	client    *mongo.Client
	news      *mongo.Database
	resources *mongo.Collection
}

// NewMongo connects and verifies connectivity with a ping. Nested documents
// decode as bson.M so they serialize to JSON objects unchanged.
func NewMongo(ctx context.Context, cfg Config) (*Mongo, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &Mongo{
		client:    client,
		news:      client.Database(cfg.NewsDatabase),
		resources: client.Database(cfg.ResourcesDatabase).Collection(cfg.ResourcesCollection),
	}, nil
}

// Close disconnects the underlying client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// Ping reports whether the server is reachable.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

// ArticlesByDate returns full articles of a newspaper published on date.
func (m *Mongo) ArticlesByDate(ctx context.Context, paper, date string, page Page) ([]types.StoredArticle, error) {
	opts := options.Find().SetSkip(page.Skip()).SetLimit(page.Size)
	cur, err := m.news.Collection(paper).Find(ctx, bson.D{{Key: "date", Value: date}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s articles for %s: %w", paper, date, err)
	}

	var out []types.StoredArticle
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s articles for %s: %w", paper, date, err)
	}
	return out, nil
}

// ArticleByID returns the complete stored document for articleId.
func (m *Mongo) ArticleByID(ctx context.Context, paper string, articleID int64) (bson.M, error) {
	var doc bson.M
	err := m.news.Collection(paper).FindOne(ctx, bson.D{{Key: "articleId", Value: articleID}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find %s article %d: %w", paper, articleID, err)
	}
	return doc, nil
}

// TitlesBy lists {articleId, title} of articles whose field equals value.
func (m *Mongo) TitlesBy(ctx context.Context, paper, field, value string) ([]types.TitleEntry, error) {
	return m.titles(ctx, paper, bson.D{{Key: field, Value: value}})
}

// AllTitles lists {articleId, title} of every article of a newspaper.
func (m *Mongo) AllTitles(ctx context.Context, paper string) ([]types.TitleEntry, error) {
	return m.titles(ctx, paper, bson.D{})
}

func (m *Mongo) titles(ctx context.Context, paper string, filter bson.D) ([]types.TitleEntry, error) {
	opts := options.Find().SetProjection(bson.D{
		{Key: "articleId", Value: 1},
		{Key: "title", Value: 1},
		{Key: "_id", Value: 0},
	})
	cur, err := m.news.Collection(paper).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s titles: %w", paper, err)
	}

	out := []types.TitleEntry{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s titles: %w", paper, err)
	}
	return out, nil
}

// CountBy groups a newspaper's articles by field and counts each group.
func (m *Mongo) CountBy(ctx context.Context, paper, field string) ([]types.GroupCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := m.news.Collection(paper).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s by %s: %w", paper, field, err)
	}

	out := []types.GroupCount{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s counts by %s: %w", paper, field, err)
	}
	return out, nil
}

// DailyResources returns the resource documents whose Date equals date, without _id.
func (m *Mongo) DailyResources(ctx context.Context, date string) ([]bson.M, error) {
	opts := options.Find().SetProjection(bson.D{{Key: "_id", Value: 0}})
	cur, err := m.resources.Find(ctx, bson.D{{Key: "Date", Value: date}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find daily resources for %s: %w", date, err)
	}

	var out []bson.M
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode daily resources for %s: %w", date, err)
	}
	return out, nil
}
