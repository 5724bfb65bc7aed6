package main

import (
	"context"
	"path/filepath"

	"github.com/reusee/dscope"
	"github.com/reusee/tutor/logs"
	"github.com/reusee/tutor/otels"
	"github.com/reusee/tutor/sandboxes"
	"github.com/reusee/tutor/servers"
	"github.com/reusee/tutor/storages"
	"github.com/reusee/tutor/tutorconfigs"
)

func serve(ctx context.Context, scope dscope.Scope) (err error) {
	scope.Call(func(
		server *servers.Server,
		databasePath tutorconfigs.DatabasePath,
		shutdown otels.Shutdown,
		logger logs.Logger,
	) {
		defer func() {
			if e := shutdown(context.Background()); e != nil {
				logger.Warn("opentelemetry shutdown", "error", e)
			}
		}()

		// the store is open, only its directory stays writable
		var writable []string
		if databasePath != storages.Memory {
			writable = append(writable, filepath.Dir(string(databasePath)))
		}
		if err = sandboxes.RestrictIfRequested(logger, writable...); err != nil {
			return
		}

		err = server.Serve(ctx)
	})
	return
}
