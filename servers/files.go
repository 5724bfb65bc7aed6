package servers

import (
	"errors"
	"net/http"

	"github.com/reusee/tutor/files"
	"github.com/reusee/tutor/identities"
	"github.com/reusee/tutor/logs"
)

func (s *Server) createFile(w http.ResponseWriter, r *http.Request, principal identities.Principal) {
	var draft files.Draft
	if !readJSON(w, r, &draft) {
		return
	}
	file, err := s.store.Create(r.Context(), principal.ID, draft)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, file)
}

func (s *Server) listFiles(w http.ResponseWriter, r *http.Request, principal identities.Principal) {
	list, err := s.store.List(r.Context(), principal.ID)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	if list == nil {
		list = []files.File{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) getFile(w http.ResponseWriter, r *http.Request, principal identities.Principal) {
	file, err := s.store.Get(r.Context(), principal.ID, r.PathValue("id"))
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, file)
}

func (s *Server) updateFile(w http.ResponseWriter, r *http.Request, principal identities.Principal) {
	var patch files.Patch
	if !readJSON(w, r, &patch) {
		return
	}
	file, err := s.store.Update(r.Context(), principal.ID, r.PathValue("id"), patch)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, file)
}

func (s *Server) deleteFile(w http.ResponseWriter, r *http.Request, principal identities.Principal) {
	if err := s.store.Delete(r.Context(), principal.ID, r.PathValue("id")); err != nil {
		s.storeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) storeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, files.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	s.logger.ErrorContext(r.Context(), "files store",
		"path", r.URL.Path,
		"error", logs.WrapSpan(r.Context(), err),
	)
	writeError(w, http.StatusInternalServerError, "internal error")
}
