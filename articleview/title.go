package articleview

import (
	"strings"
	"unicode/utf8"

	"newsup/types"
)

// UntitledArticle is returned when no usable title can be found.
const UntitledArticle = "Untitled Article"

// Stored titles shorter than this are treated as placeholders.
const minTitleLength = 5

// ResolveTitle picks the display title of an article: its own title when it
// looks real, then deepAnalysisJson.title, then summaryPointsJson.title (only
// when the summary is already a document), then UntitledArticle.
func ResolveTitle(a *types.StoredArticle) string {
	if a == nil {
		return UntitledArticle
	}
	if a.Title != nil {
		if t := strings.TrimSpace(*a.Title); utf8.RuneCountInString(t) >= minTitleLength {
			return t
		}
	}
	if t := nestedTitle(a.DeepAnalysisJSON); t != "" {
		return t
	}
	if t := nestedTitle(a.SummaryPointsJSON); t != "" {
		return t
	}
	return UntitledArticle
}

func nestedTitle(payload any) string {
	doc, ok := asDocument(payload)
	if !ok {
		return ""
	}
	t, _ := doc["title"].(string)
	return strings.TrimSpace(t)
}
