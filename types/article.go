package types

// StoredArticle is a newspaper article as persisted in a DailyNews collection.
// Loosely-typed payloads are kept as decoded BSON (bson.M, bson.A, string, ...)
// so they can be echoed back without reshaping.
type StoredArticle struct {
	ArticleID      int64   `bson:"articleId" json:"articleId"`
	Title          *string `bson:"title,omitempty" json:"title,omitempty"`
	Date           string  `bson:"date" json:"date"`
	Category       *string `bson:"category,omitempty" json:"category,omitempty"`
	SecondCategory *string `bson:"secondCategory,omitempty" json:"secondCategory,omitempty"`

	// ExamSpecific is nil when the field is absent (or null) in storage.
	ExamSpecific any `bson:"examSpecific,omitempty" json:"examSpecific,omitempty"`

	// SummaryPointsJSON is either a JSON string (possibly fenced in a
	// markdown code block) or an already structured document.
	SummaryPointsJSON any `bson:"summaryPointsJson,omitempty" json:"summaryPointsJson,omitempty"`
	DeepAnalysisJSON  any `bson:"deepAnalysisJson,omitempty" json:"deepAnalysisJson,omitempty"`

	Involvement any `bson:"involvement,omitempty" json:"involvement,omitempty"`
	Past        any `bson:"past,omitempty" json:"past,omitempty"`
	Present     any `bson:"present,omitempty" json:"present,omitempty"`
	Points      any `bson:"points,omitempty" json:"points,omitempty"`
	Glossary    any `bson:"glossary,omitempty" json:"glossary,omitempty"`
}

// TitleEntry is the light {articleId, title} projection used by title listings.
type TitleEntry struct {
	ArticleID int64  `bson:"articleId" json:"articleId"`
	Title     string `bson:"title" json:"title"`
}

// GroupCount is one row of a $group-by-field aggregation.
type GroupCount struct {
	ID    any   `bson:"_id" json:"_id"`
	Count int64 `bson:"count" json:"count"`
}

// CategoryCount is a count keyed by a known category name.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }
