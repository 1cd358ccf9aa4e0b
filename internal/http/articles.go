package httpapp

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"github.com/gorilla/mux"

	"github.com/alphabot-ai/ethionews/internal/auth"
	"github.com/alphabot-ai/ethionews/internal/ethiocal"
	"github.com/alphabot-ai/ethionews/internal/model"
	"github.com/alphabot-ai/ethionews/internal/store"
	"github.com/alphabot-ai/ethionews/internal/upload"
)

// articleResponse adds the Ethiopian rendering of the publish date.
type articleResponse struct {
	model.Article
	PublishedAtEthiopian string `json:"published_at_ethiopian,omitempty"`
}

func newArticleResponse(a model.Article, lang string) articleResponse {
	resp := articleResponse{Article: a}
	if a.PublishedAt != nil {
		resp.PublishedAtEthiopian = ethiocal.FormatTime(*a.PublishedAt, lang)
	}
	return resp
}

func newArticleResponses(articles []model.Article, lang string) []articleResponse {
	out := make([]articleResponse, 0, len(articles))
	for _, a := range articles {
		out = append(out, newArticleResponse(a, lang))
	}
	return out
}

type articleInput struct {
	TitleEN       string   `json:"title_en"`
	TitleAM       string   `json:"title_am"`
	TitleOM       string   `json:"title_om"`
	TitleTI       string   `json:"title_ti"`
	Slug          string   `json:"slug"`
	ContentEN     string   `json:"content_en"`
	ContentAM     string   `json:"content_am"`
	ContentOM     string   `json:"content_om"`
	ContentTI     string   `json:"content_ti"`
	ExcerptEN     string   `json:"excerpt_en"`
	ExcerptAM     string   `json:"excerpt_am"`
	ExcerptOM     string   `json:"excerpt_om"`
	ExcerptTI     string   `json:"excerpt_ti"`
	FeaturedImage string   `json:"featured_image"`
	CategoryID    *int64   `json:"category_id"`
	RegionID      *int64   `json:"region_id"`
	Tags          []string `json:"tags"`
	Status        string   `json:"status"`
	IsBreaking    bool     `json:"is_breaking"`
}

// articlePatch carries a partial update; nil fields are left alone.
type articlePatch struct {
	TitleEN       *string   `json:"title_en"`
	TitleAM       *string   `json:"title_am"`
	TitleOM       *string   `json:"title_om"`
	TitleTI       *string   `json:"title_ti"`
	ContentEN     *string   `json:"content_en"`
	ContentAM     *string   `json:"content_am"`
	ContentOM     *string   `json:"content_om"`
	ContentTI     *string   `json:"content_ti"`
	ExcerptEN     *string   `json:"excerpt_en"`
	ExcerptAM     *string   `json:"excerpt_am"`
	ExcerptOM     *string   `json:"excerpt_om"`
	ExcerptTI     *string   `json:"excerpt_ti"`
	FeaturedImage *string   `json:"featured_image"`
	CategoryID    *int64    `json:"category_id"`
	RegionID      *int64    `json:"region_id"`
	Tags          *[]string `json:"tags"`
	Status        *string   `json:"status"`
	IsBreaking    *bool     `json:"is_breaking"`
}

func (p articlePatch) apply(a *model.Article) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&a.TitleEN, p.TitleEN)
	set(&a.TitleAM, p.TitleAM)
	set(&a.TitleOM, p.TitleOM)
	set(&a.TitleTI, p.TitleTI)
	set(&a.ContentEN, p.ContentEN)
	set(&a.ContentAM, p.ContentAM)
	set(&a.ContentOM, p.ContentOM)
	set(&a.ContentTI, p.ContentTI)
	set(&a.ExcerptEN, p.ExcerptEN)
	set(&a.ExcerptAM, p.ExcerptAM)
	set(&a.ExcerptOM, p.ExcerptOM)
	set(&a.ExcerptTI, p.ExcerptTI)
	set(&a.FeaturedImage, p.FeaturedImage)
	set(&a.Status, p.Status)
	if p.CategoryID != nil {
		a.CategoryID = p.CategoryID
	}
	if p.RegionID != nil {
		a.RegionID = p.RegionID
	}
	if p.Tags != nil {
		a.Tags = *p.Tags
	}
	if p.IsBreaking != nil {
		a.IsBreaking = *p.IsBreaking
	}
}

func (s *Server) handleCreateArticle(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireEditor(w, r)
	if !ok {
		return
	}
	var req articleInput
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	req.TitleEN = strings.TrimSpace(req.TitleEN)
	if req.TitleEN == "" || strings.TrimSpace(req.ContentEN) == "" {
		writeError(w, http.StatusBadRequest, errors.New("title_en and content_en are required"))
		return
	}
	if req.Status == "" {
		req.Status = model.ArticleDraft
	}
	if !model.ValidArticleStatus(req.Status) {
		writeError(w, http.StatusBadRequest, errors.New("invalid status"))
		return
	}
	slug := slugify(req.Slug)
	if slug == "" {
		slug = slugify(req.TitleEN)
	}
	if slug == "" {
		writeError(w, http.StatusBadRequest, errors.New("slug is required"))
		return
	}

	now := s.now().UTC()
	article := model.Article{
		TitleEN:       req.TitleEN,
		TitleAM:       req.TitleAM,
		TitleOM:       req.TitleOM,
		TitleTI:       req.TitleTI,
		Slug:          slug,
		ContentEN:     req.ContentEN,
		ContentAM:     req.ContentAM,
		ContentOM:     req.ContentOM,
		ContentTI:     req.ContentTI,
		ExcerptEN:     req.ExcerptEN,
		ExcerptAM:     req.ExcerptAM,
		ExcerptOM:     req.ExcerptOM,
		ExcerptTI:     req.ExcerptTI,
		FeaturedImage: req.FeaturedImage,
		AuthorID:      user.ID,
		CategoryID:    req.CategoryID,
		RegionID:      req.RegionID,
		Tags:          req.Tags,
		Status:        req.Status,
		IsBreaking:    req.IsBreaking,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if article.Tags == nil {
		article.Tags = []string{}
	}
	if article.Published() {
		article.PublishedAt = &now
	}
	id, err := s.store.CreateArticle(r.Context(), &article)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	article.ID = id
	s.logger.InfoContext(r.Context(), "article created", "article_id", id, "author_id", user.ID, "status", article.Status)
	writeJSON(w, http.StatusOK, newArticleResponse(article, requestLanguage(r)))
}

func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := store.ArticleListOpts{
		Status:     q.Get("status"),
		CategoryID: parseInt64Default(q.Get("category_id"), 0),
		RegionID:   parseInt64Default(q.Get("region_id"), 0),
		Search:     strings.TrimSpace(q.Get("search")),
		Skip:       parseIntDefault(q.Get("skip"), 0),
		Limit:      parseIntDefault(q.Get("limit"), 20),
	}
	if v := q.Get("is_breaking"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("invalid is_breaking"))
			return
		}
		opts.IsBreaking = &b
	}
	if opts.Status != "" && !model.ValidArticleStatus(opts.Status) {
		writeError(w, http.StatusBadRequest, errors.New("invalid status"))
		return
	}
	articles, err := s.store.ListArticles(r.Context(), opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, newArticleResponses(articles, requestLanguage(r)))
}

func (s *Server) handleTrendingArticles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	articles, err := s.store.ListTrending(r.Context(), store.TrendingOpts{
		RegionID: parseInt64Default(q.Get("region_id"), 0),
		Limit:    parseIntDefault(q.Get("limit"), 10),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, newArticleResponses(articles, requestLanguage(r)))
}

func (s *Server) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid article id"))
		return
	}
	article, err := s.store.GetArticle(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.serveArticle(w, r, article)
}

func (s *Server) handleGetArticleBySlug(w http.ResponseWriter, r *http.Request) {
	article, err := s.store.GetArticleBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.serveArticle(w, r, article)
}

// serveArticle enforces draft visibility and counts the read.
func (s *Server) serveArticle(w http.ResponseWriter, r *http.Request, article model.Article) {
	if !article.Published() {
		user := s.optionalAuth(r)
		if user == nil || (user.ID != article.AuthorID && !user.Role.CanEdit()) {
			writeError(w, http.StatusForbidden, auth.ErrForbidden)
			return
		}
	}
	if err := s.store.IncrementArticleViews(r.Context(), article.ID); err != nil {
		writeStoreError(w, err)
		return
	}
	article.ViewCount++
	writeJSON(w, http.StatusOK, newArticleResponse(article, requestLanguage(r)))
}

func (s *Server) handleUpdateArticle(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid article id"))
		return
	}
	article, err := s.store.GetArticle(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if article.AuthorID != user.ID && !user.Role.CanEdit() {
		writeError(w, http.StatusForbidden, auth.ErrForbidden)
		return
	}

	var patch articlePatch
	if err := readJSON(r.Body, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	patch.apply(&article)
	if !model.ValidArticleStatus(article.Status) {
		writeError(w, http.StatusBadRequest, errors.New("invalid status"))
		return
	}
	if strings.TrimSpace(article.TitleEN) == "" {
		writeError(w, http.StatusBadRequest, errors.New("title_en is required"))
		return
	}
	now := s.now().UTC()
	if article.Published() && article.PublishedAt == nil {
		article.PublishedAt = &now
	}
	article.UpdatedAt = now
	if err := s.store.UpdateArticle(r.Context(), &article); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newArticleResponse(article, requestLanguage(r)))
}

func (s *Server) handleDeleteArticle(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid article id"))
		return
	}
	article, err := s.store.GetArticle(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if article.AuthorID != user.ID && user.Role != model.RoleAdmin {
		writeError(w, http.StatusForbidden, auth.ErrForbidden)
		return
	}
	if err := s.store.DeleteArticle(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	s.logger.InfoContext(r.Context(), "article deleted", "article_id", id, "user_id", user.ID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "article deleted"})
}

func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAuth(w, r); !ok {
		return
	}
	if s.uploads == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("uploads disabled"))
		return
	}
	if s.cfg.UploadMaxBytes > 0 {
		// Leave room for multipart framing; the storage enforces the file limit.
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.UploadMaxBytes+1<<20)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("missing file"))
		return
	}
	defer file.Close()

	url, err := s.uploads.Save(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrNotImage):
			writeError(w, http.StatusBadRequest, err)
		case errors.Is(err, upload.ErrTooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, err)
		default:
			writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// slugify lowercases s and joins its letter and digit runs with dashes.
func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}
