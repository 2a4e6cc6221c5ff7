package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestPageSkip(t *testing.T) {
	cases := []struct {
		page Page
		want int64
	}{
		{Page{Number: 1, Size: 10}, 0},
		{Page{Number: 2, Size: 10}, 10},
		{Page{Number: 5, Size: 3}, 12},
		{Page{Number: 0, Size: 10}, 0},
		{Page{Number: -3, Size: 10}, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.page.Skip(), "page %+v", c.page)
	}
}

// TestMongoIntegration runs against a live server when MONGO_TEST_URI is set.
func TestMongoIntegration(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	suffix := fmt.Sprintf("%d", time.Now().UnixNano())
	cfg := Config{
		URI:                 uri,
		NewsDatabase:        "newsup_test_" + suffix,
		ResourcesDatabase:   "newsup_test_res_" + suffix,
		ResourcesCollection: "Daily",
	}
	m, err := NewMongo(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = m.client.Database(cfg.NewsDatabase).Drop(context.Background())
		_ = m.client.Database(cfg.ResourcesDatabase).Drop(context.Background())
		_ = m.Close(context.Background())
	})

	papers := m.news.Collection("toi")
	_, err = papers.InsertMany(ctx, []any{
		bson.M{"articleId": 1, "title": "First headline", "date": "2025-01-01", "category": "politics", "examSpecific": true,
			"deepAnalysisJson": bson.M{"title": "Deep"}},
		bson.M{"articleId": 2, "title": "Second headline", "date": "2025-01-01", "category": "sport", "secondCategory": "GS1"},
		bson.M{"articleId": 3, "title": "Third headline", "date": "2025-01-02", "category": "politics"},
	})
	require.NoError(t, err)
	_, err = m.resources.InsertOne(ctx, bson.M{"Date": "2025-01-01", "quote": "Stay curious"})
	require.NoError(t, err)

	t.Run("by date with paging", func(t *testing.T) {
		got, err := m.ArticlesByDate(ctx, "toi", "2025-01-01", Page{Number: 1, Size: 10})
		require.NoError(t, err)
		assert.Len(t, got, 2)

		got, err = m.ArticlesByDate(ctx, "toi", "2025-01-01", Page{Number: 2, Size: 1})
		require.NoError(t, err)
		assert.Len(t, got, 1)

		got, err = m.ArticlesByDate(ctx, "toi", "1999-01-01", Page{Number: 1, Size: 10})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("by id", func(t *testing.T) {
		doc, err := m.ArticleByID(ctx, "toi", 3)
		require.NoError(t, err)
		assert.Equal(t, "Third headline", doc["title"])

		_, err = m.ArticleByID(ctx, "toi", 99)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("titles and counts", func(t *testing.T) {
		titles, err := m.TitlesBy(ctx, "toi", "secondCategory", "GS1")
		require.NoError(t, err)
		require.Len(t, titles, 1)
		assert.Equal(t, int64(2), titles[0].ArticleID)

		all, err := m.AllTitles(ctx, "toi")
		require.NoError(t, err)
		assert.Len(t, all, 3)

		counts, err := m.CountBy(ctx, "toi", "category")
		require.NoError(t, err)
		byCategory := map[any]int64{}
		for _, c := range counts {
			byCategory[c.ID] = c.Count
		}
		assert.Equal(t, int64(2), byCategory["politics"])
		assert.Equal(t, int64(1), byCategory["sport"])
	})

	t.Run("daily resources", func(t *testing.T) {
		docs, err := m.DailyResources(ctx, "2025-01-01")
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.NotContains(t, docs[0], "_id")
		assert.Equal(t, "Stay curious", docs[0]["quote"])
	})
}
