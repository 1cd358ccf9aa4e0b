package httpapp

import (
	"errors"
	"net/http"
	"time"

	"github.com/alphabot-ai/ethionews/internal/ethiocal"
	"github.com/alphabot-ai/ethionews/internal/feed"
	"github.com/alphabot-ai/ethionews/internal/model"
	"github.com/alphabot-ai/ethionews/internal/store"
)

type ethiopianDateResponse struct {
	Gregorian string `json:"gregorian"`
	ethiocal.EthiopianDate
	Language  string `json:"language"`
	Formatted string `json:"formatted"`
}

func (s *Server) handleEthiopianDate(w http.ResponseWriter, r *http.Request) {
	g := ethiocal.FromTime(s.now())
	if v := r.URL.Query().Get("date"); v != "" {
		t, err := time.Parse(time.DateOnly, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("date must be YYYY-MM-DD"))
			return
		}
		g = ethiocal.FromTime(t)
	}
	lang := requestLanguage(r)
	writeJSON(w, http.StatusOK, ethiopianDateResponse{
		Gregorian:     g.String(),
		EthiopianDate: ethiocal.Convert(g),
		Language:      lang,
		Formatted:     ethiocal.Format(g, lang),
	})
}

func (s *Server) handleRSS(w http.ResponseWriter, r *http.Request) {
	articles, err := s.store.ListArticles(r.Context(), store.ArticleListOpts{
		Status: model.ArticlePublished,
		Limit:  s.cfg.Site.FeedLimit,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	out, err := feed.RSS(feed.Channel{
		SiteURL:     s.cfg.Site.URL,
		Title:       s.cfg.Site.Title,
		Description: s.cfg.Site.Description,
		Language:    model.Languages[0],
	}, articles)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", feed.ContentType+"; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out))
}
