package tutorconfigs

import (
	"os"
	"path/filepath"

	"github.com/reusee/tutor/cmds"
	"github.com/reusee/tutor/configs"
	"github.com/reusee/tutor/vars"
)

// Listen is the HTTP listen address.
type Listen string

var _ configs.Configurable = Listen("")

func (Listen) ConfigPath() string {
	return "listen"
}

var listenFlag = cmds.Var[string]("-listen", "HTTP listen address")

func (Module) Listen(
	loader configs.Loader,
	environment Environment,
) Listen {
	return Listen(vars.FirstNonZero(
		*listenFlag,
		environment.Listen,
		configs.First[string](loader, "listen"),
		"127.0.0.1:3001",
	))
}

// DatabasePath is the SQLite file of the files store. ":memory:" keeps it in memory.
type DatabasePath string

var _ configs.Configurable = DatabasePath("")

func (DatabasePath) ConfigPath() string {
	return "database_path"
}

var databasePathFlag = cmds.Var[string]("-database", "SQLite file of the files store")

func (Module) DatabasePath(
	loader configs.Loader,
	environment Environment,
) DatabasePath {
	path := vars.FirstNonZero(
		*databasePathFlag,
		environment.DatabasePath,
		configs.First[string](loader, "database_path"),
	)
	if path == "" {
		path = ":memory:"
		if dir, err := os.UserCacheDir(); err == nil {
			path = filepath.Join(dir, "tutor", "files.db")
		}
	}
	return DatabasePath(path)
}

// JWTSecret is the HS256 key used to verify bearer tokens. Empty disables the file routes.
type JWTSecret string

var _ configs.Configurable = JWTSecret("")

func (JWTSecret) ConfigPath() string {
	return "jwt_secret"
}

func (Module) JWTSecret(
	loader configs.Loader,
	environment Environment,
) JWTSecret {
	return JWTSecret(vars.FirstNonZero(
		environment.JWTSecret,
		configs.First[string](loader, "jwt_secret"),
	))
}

// AllowedOrigins lists the origins allowed by CORS.
type AllowedOrigins []string

var _ configs.Configurable = AllowedOrigins(nil)

func (AllowedOrigins) ConfigPath() string {
	return "allowed_origins"
}

var allowedOriginsFlag = cmds.Collect[string]("-allow-origin", "CORS origin, repeatable")

func (Module) AllowedOrigins(
	loader configs.Loader,
	environment Environment,
) AllowedOrigins {
	if len(*allowedOriginsFlag) > 0 {
		return *allowedOriginsFlag
	}
	if len(environment.AllowedOrigins) > 0 {
		return environment.AllowedOrigins
	}
	var ret AllowedOrigins
	for origins := range configs.All[[]string](loader, "allowed_origins") {
		ret = append(ret, origins...)
	}
	if len(ret) > 0 {
		return ret
	}
	return AllowedOrigins{
		"http://localhost:5173",
		"http://127.0.0.1:5173",
	}
}

// OTLPEndpoint is the OTLP/HTTP collector endpoint. Empty disables trace export.
type OTLPEndpoint string

var _ configs.Configurable = OTLPEndpoint("")

func (OTLPEndpoint) ConfigPath() string {
	return "otlp_endpoint"
}

var otlpEndpointFlag = cmds.Var[string]("-otlp-endpoint", "OTLP/HTTP trace collector URL")

func (Module) OTLPEndpoint(
	loader configs.Loader,
	environment Environment,
) OTLPEndpoint {
	return OTLPEndpoint(vars.FirstNonZero(
		*otlpEndpointFlag,
		environment.OTLPEndpoint,
		configs.First[string](loader, "otlp_endpoint"),
	))
}
