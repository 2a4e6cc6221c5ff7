package articleview

import (
	"math"

	"newsup/types"

	"go.uber.org/zap"
)

// ArticleView is the by-date listing shape. Exactly one of ExamDetail and
// GeneralDetail is set, depending on whether the article is exam specific.
type ArticleView struct {
	ArticleID    int64   `json:"articleId"`
	Date         string  `json:"date"`
	Category     *string `json:"category,omitempty"`
	Title        string  `json:"title"`
	ExamSpecific any     `json:"examSpecific,omitempty"`

	*ExamDetail
	*GeneralDetail
}

// ExamDetail carries the exam-preparation payloads, passed through verbatim.
type ExamDetail struct {
	DeepAnalysisJSON  any `json:"deepAnalysisJson,omitempty"`
	SummaryPointsJSON any `json:"summaryPointsJson,omitempty"`
}

// GeneralDetail carries the payloads of ordinary articles, passed through verbatim.
type GeneralDetail struct {
	Involvement any `json:"involvement,omitempty"`
	Past        any `json:"past,omitempty"`
	Present     any `json:"present,omitempty"`
	Points      any `json:"points,omitempty"`
	Glossary    any `json:"glossary,omitempty"`
}

// SyllabusView is the syllabus-heading listing shape.
type SyllabusView struct {
	Title            string   `json:"title"`
	Date             string   `json:"date"`
	Category         *string  `json:"category,omitempty"`
	ArticleID        int64    `json:"articleId"`
	ExamSpecific     *bool    `json:"examSpecific,omitempty"`
	SyllabusHeadings []string `json:"syllabusHeadings"`
}

// IsExamSpecific reports whether the stored flag is exactly boolean true.
func IsExamSpecific(flag any) bool {
	b, ok := flag.(bool)
	return ok && b
}

// BuildView assembles the by-date view of a single article.
func BuildView(a *types.StoredArticle) ArticleView {
	v := ArticleView{
		ArticleID:    a.ArticleID,
		Date:         a.Date,
		Category:     a.Category,
		Title:        ResolveTitle(a),
		ExamSpecific: a.ExamSpecific,
	}
	if IsExamSpecific(a.ExamSpecific) {
		v.ExamDetail = &ExamDetail{
			DeepAnalysisJSON:  a.DeepAnalysisJSON,
			SummaryPointsJSON: a.SummaryPointsJSON,
		}
		return v
	}
	v.GeneralDetail = &GeneralDetail{
		Involvement: a.Involvement,
		Past:        a.Past,
		Present:     a.Present,
		Points:      a.Points,
		Glossary:    a.Glossary,
	}
	return v
}

// BuildSyllabusView assembles the syllabus-heading view of a single article.
func BuildSyllabusView(a *types.StoredArticle, logger *zap.Logger) SyllabusView {
	v := SyllabusView{
		Title:            ResolveTitle(a),
		Date:             a.Date,
		Category:         a.Category,
		ArticleID:        a.ArticleID,
		SyllabusHeadings: ExtractSyllabusHeadings(a.SummaryPointsJSON, a.ArticleID, logger),
	}
	if a.ExamSpecific != nil {
		b := truthy(a.ExamSpecific)
		v.ExamSpecific = &b
	}
	return v
}

// truthy mirrors loose boolean coercion: zero numbers, NaN and empty strings
// are false, any other present value is true.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case int:
		return x != 0
	case int32:
		return x != 0
	case int64:
		return x != 0
	case float32:
		return x != 0 && !math.IsNaN(float64(x))
	case float64:
		return x != 0 && !math.IsNaN(x)
	default:
		return true
	}
}
