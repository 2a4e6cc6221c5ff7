// Package articleview shapes stored newspaper articles into the payloads
// returned by the listing endpoints.
package articleview

import (
	"encoding/json"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const (
	fenceOpen  = "```json"
	fenceClose = "```"

	syllabusKey = "InterconnectionsWithSyllabus"
)

var highlightRe = regexp.MustCompile(`\{\{highlighted\}\}(.*?)\{\{/highlighted\}\}`)

// StripCodeFence trims s and removes a leading ```json marker and a trailing
// ``` marker, each at most once.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, fenceOpen)
	s = strings.TrimSuffix(s, fenceClose)
	return strings.TrimSpace(s)
}

// ExtractSyllabusHeadings returns the highlighted spans found in the
// InterconnectionsWithSyllabus entries of an article's summary. The summary
// may be a JSON string (optionally fenced) or an already decoded document.
// Parse failures are logged against articleID and yield no headings.
func ExtractSyllabusHeadings(summary any, articleID int64, logger *zap.Logger) []string {
	headings := []string{}

	doc, err := normalizeSummary(summary)
	if err != nil {
		if logger == nil {
			logger = zap.NewNop()
		}
		logger.Warn("failed to parse summary points",
			zap.Int64("articleId", articleID),
			zap.Error(err))
		return headings
	}
	if doc == nil {
		return headings
	}

	items, ok := asSequence(doc[syllabusKey])
	if !ok {
		return headings
	}
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		m := highlightRe.FindStringSubmatch(s)
		if len(m) < 2 || m[1] == "" {
			continue
		}
		headings = append(headings, strings.TrimSpace(m[1]))
	}
	return headings
}

// normalizeSummary converts both storage representations of the summary into
// one document. A nil document with a nil error means there is nothing to read.
func normalizeSummary(summary any) (map[string]any, error) {
	switch v := summary.(type) {
	case nil:
		return nil, nil
	case string:
		cleaned := StripCodeFence(v)
		if cleaned == "" {
			return nil, nil
		}
		var parsed any
		if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
			return nil, err
		}
		doc, _ := asDocument(parsed)
		return doc, nil
	default:
		doc, _ := asDocument(v)
		return doc, nil
	}
}

// asDocument accepts the map shapes produced by encoding/json and the mongo driver.
func asDocument(v any) (map[string]any, bool) {
	switch d := v.(type) {
	case map[string]any:
		return d, true
	case bson.M:
		return d, true
	case bson.D:
		m := make(map[string]any, len(d))
		for _, e := range d {
			m[e.Key] = e.Value
		}
		return m, true
	default:
		return nil, false
	}
}

func asSequence(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case bson.A:
		return s, true
	case []string:
		out := make([]any, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out, true
	default:
		return nil, false
	}
}
