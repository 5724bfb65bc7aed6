package servers

import (
	"net/http"

	"github.com/reusee/tutor/identities"
)

type authedHandler func(w http.ResponseWriter, r *http.Request, principal identities.Principal)

func (s *Server) authed(fn authedHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := s.identity.Authenticate(r)
		if err != nil {
			s.logger.DebugContext(r.Context(), "unauthenticated", "path", r.URL.Path, "error", err)
			writeError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}
		fn(w, r, principal)
	})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request, principal identities.Principal) {
	writeJSON(w, http.StatusOK, principal)
}
