package articleview

import (
	"errors"

	"newsup/types"

	"go.uber.org/zap"
)

// ErrNoArticles is returned when a listing has nothing to shape.
var ErrNoArticles = errors.New("no matching articles")

// BuildViews shapes a fetched batch in order.
func BuildViews(batch []types.StoredArticle) ([]ArticleView, error) {
	if len(batch) == 0 {
		return nil, ErrNoArticles
	}
	views := make([]ArticleView, 0, len(batch))
	for i := range batch {
		views = append(views, BuildView(&batch[i]))
	}
	return views, nil
}

// BuildSyllabusViews shapes a fetched batch in order, extracting syllabus
// headings for each article. Summary parse failures are logged, not returned.
func BuildSyllabusViews(batch []types.StoredArticle, logger *zap.Logger) ([]SyllabusView, error) {
	if len(batch) == 0 {
		return nil, ErrNoArticles
	}
	views := make([]SyllabusView, 0, len(batch))
	for i := range batch {
		views = append(views, BuildSyllabusView(&batch[i], logger))
	}
	return views, nil
}
