package httpapp

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/alphabot-ai/ethionews/internal/model"
	"github.com/alphabot-ai/ethionews/internal/store"
)

func (s *Server) handleCreateSubmission(w http.ResponseWriter, r *http.Request) {
	if !s.allowRateLimit(w, r, "submission", s.cfg.RateLimits.SubmissionPerMinute) {
		return
	}
	var req struct {
		SubmitterName  string   `json:"submitter_name"`
		SubmitterEmail string   `json:"submitter_email"`
		Title          string   `json:"title"`
		Content        string   `json:"content"`
		Language       string   `json:"language"`
		Images         []string `json:"images"`
		RegionID       *int64   `json:"region_id"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if req.Title == "" || req.Content == "" {
		writeError(w, http.StatusBadRequest, errors.New("title and content are required"))
		return
	}
	if req.SubmitterEmail != "" {
		if _, err := mail.ParseAddress(req.SubmitterEmail); err != nil {
			writeError(w, http.StatusBadRequest, errors.New("invalid submitter_email"))
			return
		}
	}
	if req.Language == "" {
		req.Language = model.Languages[0]
	}
	if req.Images == nil {
		req.Images = []string{}
	}

	sub := model.Submission{
		SubmitterName:  strings.TrimSpace(req.SubmitterName),
		SubmitterEmail: req.SubmitterEmail,
		Title:          req.Title,
		Content:        req.Content,
		Language:       req.Language,
		Images:         req.Images,
		RegionID:       req.RegionID,
		Status:         model.SubmissionPending,
		CreatedAt:      s.now().UTC(),
	}
	if user := s.optionalAuth(r); user != nil {
		sub.SubmitterID = &user.ID
	}
	id, err := s.store.CreateSubmission(r.Context(), &sub)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	sub.ID = id
	s.logger.InfoContext(r.Context(), "submission received", "submission_id", id, "language", sub.Language)
	writeJSON(w, http.StatusOK, sub)
}

func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireEditor(w, r); !ok {
		return
	}
	q := r.URL.Query()
	status := q.Get("status")
	if status != "" && !model.ValidSubmissionStatus(status) {
		writeError(w, http.StatusBadRequest, errors.New("invalid status"))
		return
	}
	submissions, err := s.store.ListSubmissions(r.Context(), store.SubmissionListOpts{
		Status: status,
		Skip:   parseIntDefault(q.Get("skip"), 0),
		Limit:  parseIntDefault(q.Get("limit"), 20),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, submissions)
}

func (s *Server) handleSubmissionStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireEditor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid submission id"))
		return
	}
	status := r.URL.Query().Get("status")
	if !model.ValidSubmissionStatus(status) {
		writeError(w, http.StatusBadRequest, errors.New("status must be pending, approved or rejected"))
		return
	}
	if err := s.store.UpdateSubmissionStatus(r.Context(), id, status, user.ID); err != nil {
		writeStoreError(w, err)
		return
	}
	sub, err := s.store.GetSubmission(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.logger.InfoContext(r.Context(), "submission reviewed", "submission_id", id, "status", status, "editor_id", user.ID)
	writeJSON(w, http.StatusOK, sub)
}
