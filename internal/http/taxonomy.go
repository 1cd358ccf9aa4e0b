package httpapp

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/alphabot-ai/ethionews/internal/model"
)

type taxonomyInput struct {
	NameEN      string `json:"name_en"`
	NameAM      string `json:"name_am"`
	NameOM      string `json:"name_om"`
	NameTI      string `json:"name_ti"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	ParentID    *int64 `json:"parent_id"`
}

func (in *taxonomyInput) normalize() error {
	in.NameEN = strings.TrimSpace(in.NameEN)
	if in.NameEN == "" {
		return errors.New("name_en is required")
	}
	in.Slug = slugify(in.Slug)
	if in.Slug == "" {
		in.Slug = slugify(in.NameEN)
	}
	return nil
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireEditor(w, r); !ok {
		return
	}
	var req taxonomyInput
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := req.normalize(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	category := model.Category{
		NameEN:      req.NameEN,
		NameAM:      req.NameAM,
		NameOM:      req.NameOM,
		NameTI:      req.NameTI,
		Slug:        req.Slug,
		Description: req.Description,
		ParentID:    req.ParentID,
	}
	id, err := s.store.CreateCategory(r.Context(), &category)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	category.ID = id
	writeJSON(w, http.StatusOK, category)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.ListCategories(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := s.store.GetCategoryBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (s *Server) handleCreateRegion(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireEditor(w, r); !ok {
		return
	}
	var req taxonomyInput
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := req.normalize(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Description != "" || req.ParentID != nil {
		writeError(w, http.StatusBadRequest, errors.New("regions have no description or parent"))
		return
	}
	region := model.Region{
		NameEN: req.NameEN,
		NameAM: req.NameAM,
		NameOM: req.NameOM,
		NameTI: req.NameTI,
		Slug:   req.Slug,
	}
	id, err := s.store.CreateRegion(r.Context(), &region)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	region.ID = id
	writeJSON(w, http.StatusOK, region)
}

func (s *Server) handleListRegions(w http.ResponseWriter, r *http.Request) {
	regions, err := s.store.ListRegions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, regions)
}

func (s *Server) handleGetRegion(w http.ResponseWriter, r *http.Request) {
	region, err := s.store.GetRegionBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, region)
}
