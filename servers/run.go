package servers

import (
	"net/http"
)

type runRequest struct {
	Code *string `json:"code"`
}

// run traces the posted code. Failures of the user program are reported in the
// payload with status 200.
func (s *Server) run(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if !readJSON(w, r, &req) {
		return
	}
	if req.Code == nil {
		writeError(w, http.StatusBadRequest, "missing code")
		return
	}

	ctx := r.Context()
	if err := s.runs.AcquireContext(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	defer s.runs.Release()
	outcome := s.runner.Run(ctx, *req.Code)

	writeJSON(w, http.StatusOK, outcome)
}
