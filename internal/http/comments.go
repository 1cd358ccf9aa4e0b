package httpapp

import (
	"errors"
	"net/http"
	"strings"

	"github.com/alphabot-ai/ethionews/internal/model"
)

const maxCommentLength = 5000

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	if !s.allowRateLimit(w, r, "comment", s.cfg.RateLimits.CommentPerMinute) {
		return
	}
	var req struct {
		ArticleID int64  `json:"article_id"`
		Content   string `json:"content"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, errors.New("content is required"))
		return
	}
	if len(req.Content) > maxCommentLength {
		writeError(w, http.StatusBadRequest, errors.New("comment too long"))
		return
	}
	if _, err := s.store.GetArticle(r.Context(), req.ArticleID); err != nil {
		writeStoreError(w, err)
		return
	}

	comment := model.Comment{
		ArticleID: req.ArticleID,
		UserID:    user.ID,
		Username:  user.Username,
		Content:   req.Content,
		CreatedAt: s.now().UTC(),
	}
	id, err := s.store.CreateComment(r.Context(), &comment)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	comment.ID = id
	writeJSON(w, http.StatusOK, comment)
}

func (s *Server) handleArticleComments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid article id"))
		return
	}
	comments, err := s.store.ListApprovedComments(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (s *Server) handlePendingComments(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireEditor(w, r); !ok {
		return
	}
	comments, err := s.store.ListPendingComments(r.Context(), parseIntDefault(r.URL.Query().Get("limit"), 50))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (s *Server) handleApproveComment(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireEditor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid comment id"))
		return
	}
	if err := s.store.ApproveComment(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	s.logger.InfoContext(r.Context(), "comment approved", "comment_id", id, "editor_id", user.ID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "comment approved"})
}
