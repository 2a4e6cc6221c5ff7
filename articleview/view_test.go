package articleview

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"newsup/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func TestResolveTitle(t *testing.T) {
	cases := []struct {
		name    string
		article *types.StoredArticle
		want    string
	}{
		{
			name:    "own title",
			article: &types.StoredArticle{Title: types.StringPtr("  Budget 2025 explained  ")},
			want:    "Budget 2025 explained",
		},
		{
			name: "short title falls back to deep analysis",
			article: &types.StoredArticle{
				Title:            types.StringPtr("Hi"),
				DeepAnalysisJSON: bson.M{"title": "Full Headline Here"},
			},
			want: "Full Headline Here",
		},
		{
			name: "exactly five characters is kept",
			article: &types.StoredArticle{
				Title:            types.StringPtr("Flood"),
				DeepAnalysisJSON: bson.M{"title": "Ignored"},
			},
			want: "Flood",
		},
		{
			name: "structured summary title",
			article: &types.StoredArticle{
				Title:             types.StringPtr("   "),
				DeepAnalysisJSON:  bson.M{"title": "  "},
				SummaryPointsJSON: map[string]any{"title": " From Summary "},
			},
			want: "From Summary",
		},
		{
			name: "string summary is not consulted",
			article: &types.StoredArticle{
				SummaryPointsJSON: `{"title":"Hidden In String"}`,
			},
			want: UntitledArticle,
		},
		{
			name:    "everything absent",
			article: &types.StoredArticle{},
			want:    UntitledArticle,
		},
		{
			name:    "nil article",
			article: nil,
			want:    UntitledArticle,
		},
		{
			name: "non string nested title",
			article: &types.StoredArticle{
				DeepAnalysisJSON: bson.M{"title": 12},
			},
			want: UntitledArticle,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ResolveTitle(c.article)
			assert.Equal(t, c.want, got)
			assert.NotEmpty(t, strings.TrimSpace(got))
		})
	}
}

// viewJSON renders v the way the HTTP layer does and returns its keys.
func viewJSON(t *testing.T, v any) map[string]any {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	return out
}

func TestBuildView_ExamSpecific(t *testing.T) {
	a := &types.StoredArticle{
		ArticleID:         42,
		Title:             types.StringPtr("Monsoon session opens"),
		Date:              "2025-03-01",
		Category:          types.StringPtr("politics"),
		ExamSpecific:      true,
		DeepAnalysisJSON:  bson.M{"title": "Deep"},
		SummaryPointsJSON: "```json\n{}\n```",
		Involvement:       "ignored",
		Points:            bson.A{"ignored"},
		Glossary:          bson.M{"a": "b"},
	}

	v := BuildView(a)
	require.NotNil(t, v.ExamDetail)
	assert.Nil(t, v.GeneralDetail)

	out := viewJSON(t, v)
	assert.Equal(t, float64(42), out["articleId"])
	assert.Equal(t, "2025-03-01", out["date"])
	assert.Equal(t, "politics", out["category"])
	assert.Equal(t, "Monsoon session opens", out["title"])
	assert.Equal(t, true, out["examSpecific"])
	assert.Equal(t, map[string]any{"title": "Deep"}, out["deepAnalysisJson"])
	assert.Equal(t, "```json\n{}\n```", out["summaryPointsJson"])
	for _, k := range []string{"involvement", "past", "present", "points", "glossary"} {
		assert.NotContains(t, out, k)
	}
}

func TestBuildView_ExamSpecificAbsent(t *testing.T) {
	a := &types.StoredArticle{
		ArticleID:        7,
		Title:            types.StringPtr("Hi"),
		Date:             "2025-03-01",
		Involvement:      "centre and states",
		Points:           bson.A{"one", "two"},
		Glossary:         bson.M{"GST": "Goods and Services Tax"},
		DeepAnalysisJSON: bson.M{"title": "Rate cut"},
	}

	out := viewJSON(t, BuildView(a))
	assert.NotContains(t, out, "examSpecific")
	assert.NotContains(t, out, "category")
	assert.NotContains(t, out, "deepAnalysisJson")
	assert.NotContains(t, out, "summaryPointsJson")
	assert.NotContains(t, out, "past")
	assert.NotContains(t, out, "present")
	assert.Equal(t, "centre and states", out["involvement"])
	assert.Equal(t, []any{"one", "two"}, out["points"])
	assert.Equal(t, map[string]any{"GST": "Goods and Services Tax"}, out["glossary"])
	assert.Equal(t, "Rate cut", out["title"])
}

func TestBuildView_NonTrueFlagsUseGeneralBranch(t *testing.T) {
	for _, flag := range []any{false, "true", 1, bson.M{}} {
		v := BuildView(&types.StoredArticle{ArticleID: 1, ExamSpecific: flag, Past: "history"})
		require.NotNil(t, v.GeneralDetail, "flag %#v", flag)
		assert.Nil(t, v.ExamDetail, "flag %#v", flag)
		assert.Equal(t, flag, v.ExamSpecific)
	}

	out := viewJSON(t, BuildView(&types.StoredArticle{ExamSpecific: false}))
	assert.Equal(t, false, out["examSpecific"])
}

func TestBuildSyllabusView(t *testing.T) {
	cases := []struct {
		name     string
		flag     any
		wantFlag *bool
	}{
		{"absent", nil, nil},
		{"true", true, boolPtr(true)},
		{"false", false, boolPtr(false)},
		{"non empty string", "yes", boolPtr(true)},
		{"empty string", "", boolPtr(false)},
		{"zero", int32(0), boolPtr(false)},
		{"one", int64(1), boolPtr(true)},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a := &types.StoredArticle{
				ArticleID:         9,
				Title:             types.StringPtr("Supreme Court verdict"),
				Date:              "2025-04-02",
				ExamSpecific:      c.flag,
				SummaryPointsJSON: `{"InterconnectionsWithSyllabus":["{{highlighted}}Judiciary{{/highlighted}}"]}`,
			}
			v := BuildSyllabusView(a, zap.NewNop())
			assert.Equal(t, c.wantFlag, v.ExamSpecific)
			assert.Equal(t, []string{"Judiciary"}, v.SyllabusHeadings)
			assert.Equal(t, int64(9), v.ArticleID)
		})
	}

	out := viewJSON(t, BuildSyllabusView(&types.StoredArticle{ArticleID: 1}, zap.NewNop()))
	assert.NotContains(t, out, "examSpecific")
	assert.Equal(t, []any{}, out["syllabusHeadings"])
}

func TestBuildViews(t *testing.T) {
	_, err := BuildViews(nil)
	assert.True(t, errors.Is(err, ErrNoArticles))

	_, err = BuildSyllabusViews([]types.StoredArticle{}, zap.NewNop())
	assert.True(t, errors.Is(err, ErrNoArticles))

	batch := []types.StoredArticle{
		{ArticleID: 3, ExamSpecific: true},
		{ArticleID: 1},
		{ArticleID: 2, SummaryPointsJSON: "not json"},
	}
	views, err := BuildViews(batch)
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, []int64{3, 1, 2}, []int64{views[0].ArticleID, views[1].ArticleID, views[2].ArticleID})
	assert.NotNil(t, views[0].ExamDetail)
	assert.NotNil(t, views[1].GeneralDetail)

	syllabus, err := BuildSyllabusViews(batch, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, syllabus, 3)
	assert.Equal(t, int64(2), syllabus[2].ArticleID)
	assert.Empty(t, syllabus[2].SyllabusHeadings)
}

func boolPtr(b bool) *bool { return &b }
