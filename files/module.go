package files

import (
	"context"
	"os"
	"path/filepath"

	"github.com/reusee/dscope"
	"github.com/reusee/tutor/logs"
	"github.com/reusee/tutor/storages"
	"github.com/reusee/tutor/tutorconfigs"
)

type Module struct {
	dscope.Module
	Logs logs.Module
}

func (Module) Store(
	path tutorconfigs.DatabasePath,
	logger logs.Logger,
) Store {
	p := string(path)
	if p != storages.Memory {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			logger.Warn("create database dir", "path", p, "error", err)
		}
	}
	store, err := OpenSQLite(context.Background(), p)
	if err != nil {
		panic(err)
	}
	logger.Info("files store", "path", p)
	return store
}
