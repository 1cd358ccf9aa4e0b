package httpapp

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"github.com/alphabot-ai/ethionews/internal/model"
)

const langParam = "lang"

var (
	supportedTags = func() []language.Tag {
		tags := make([]language.Tag, len(model.Languages))
		for i, code := range model.Languages {
			tags[i] = language.Make(code)
		}
		return tags
	}()
	tagMatcher = language.NewMatcher(supportedTags)
)

// requestLanguage picks the response language: an explicit lang query
// value first, then the best Accept-Language match, then English.
// An explicit value is returned as its base code even when the site has
// no content for it, so date formatting can fall back on its own.
func requestLanguage(r *http.Request) string {
	if v := strings.TrimSpace(r.URL.Query().Get(langParam)); v != "" {
		if tag, err := language.Parse(v); err == nil {
			base, _ := tag.Base()
			return base.String()
		}
		return strings.ToLower(v)
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			_, idx, conf := tagMatcher.Match(tags...)
			if conf != language.No {
				return model.Languages[idx]
			}
		}
	}
	return model.Languages[0]
}
