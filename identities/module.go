package identities

import (
	"github.com/reusee/dscope"
	"github.com/reusee/tutor/tutorconfigs"
)

type Module struct {
	dscope.Module
}

func (Module) Provider(
	secret tutorconfigs.JWTSecret,
) Provider {
	return NewJWTProvider([]byte(secret))
}
