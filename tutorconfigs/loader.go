package tutorconfigs

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/reusee/tutor/cmds"
	"github.com/reusee/tutor/configs"
	"github.com/reusee/tutor/logs"
)

//go:embed schema.cue
var schema string

var configFileFlag = cmds.Var[string]("-config", "config file path")

func (Module) ConfigsLoader(
	logger logs.Logger,
) configs.Loader {

	var paths []string
	defer func() {
		if len(paths) > 0 {
			logger.Info("config file",
				"paths", paths,
			)
		}
	}()

	// explicit
	if *configFileFlag != "" {
		paths = append(paths, *configFileFlag)
		return newLoader(logger, paths)
	}

	filenames := []string{
		"tutor.cue",
		".tutor.cue",
	}

	// working directory
	workingDir, err := os.Getwd()
	if err == nil {
		for _, filename := range filenames {
			path := filepath.Join(workingDir, filename)
			_, err := os.Stat(path)
			if err == nil {
				paths = append(paths, path)
			}
		}
	}

	// user config dir
	configDir, err := os.UserConfigDir()
	if err == nil {
		for _, filename := range filenames {
			path := filepath.Join(configDir, filename)
			_, err := os.Stat(path)
			if err == nil {
				paths = append(paths, path)
			}
		}
	}

	// system wide dir
	for _, filename := range filenames {
		path := filepath.Join("/etc", filename)
		if _, err := os.Stat(path); err == nil {
			paths = append(paths, path)
		}
	}

	return newLoader(logger, paths)
}

// newLoader loads eagerly so that a broken file is reported at startup.
func newLoader(logger logs.Logger, paths []string) configs.Loader {
	loader := configs.NewLoader(paths, schema)
	if err := loader.Err(); err != nil {
		logger.Error("config file", "error", err)
	}
	return loader
}
