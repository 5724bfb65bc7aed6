// Package servers is the HTTP surface: the run endpoint, file CRUD and health.
package servers

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/reusee/tutor/files"
	"github.com/reusee/tutor/identities"
	"github.com/reusee/tutor/logs"
	"github.com/reusee/tutor/nets"
	"github.com/reusee/tutor/runs"
	"github.com/reusee/tutor/syncs"
	"github.com/reusee/tutor/tutorconfigs"
	"go.opentelemetry.io/otel/trace"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 1 << 20

type Server struct {
	runner   *runs.Runner
	store    files.Store
	identity identities.Provider
	tracer   trace.Tracer
	logger   logs.Logger
	newSpan  logs.NewSpan
	listen   nets.Listen

	addr     string
	maxConns int
	origins  map[string]bool
	runs     syncs.Semaphore
}

func (Module) Server(
	runner *runs.Runner,
	store files.Store,
	identity identities.Provider,
	tracer trace.Tracer,
	logger logs.Logger,
	newSpan logs.NewSpan,
	listen nets.Listen,
	addr tutorconfigs.Listen,
	origins tutorconfigs.AllowedOrigins,
	maxRuns tutorconfigs.MaxConcurrentRuns,
) *Server {
	allowed := make(map[string]bool, len(origins))
	for _, origin := range origins {
		allowed[origin] = true
	}
	n := max(int(maxRuns), 1)
	return &Server{
		runner:   runner,
		store:    store,
		identity: identity,
		tracer:   tracer,
		logger:   logger,
		newSpan:  newSpan,
		listen:   listen,
		addr:     string(addr),
		maxConns: n * 4,
		origins:  allowed,
		runs:     syncs.NewSemaphore(n),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.health)
	mux.HandleFunc("POST /api/code/run", s.run)

	mux.Handle("GET /api/users/me", s.authed(s.me))
	mux.Handle("POST /api/files", s.authed(s.createFile))
	mux.Handle("GET /api/files", s.authed(s.listFiles))
	mux.Handle("GET /api/files/{id}", s.authed(s.getFile))
	mux.Handle("PUT /api/files/{id}", s.authed(s.updateFile))
	mux.Handle("DELETE /api/files/{id}", s.authed(s.deleteFile))

	return s.observe(s.cors(mux))
}

// Serve listens on the configured address until ctx is done, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := s.listen(s.addr, s.maxConns)
	if err != nil {
		return err
	}
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: time.Second * 10,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{
		"ok": true,
	})
}
