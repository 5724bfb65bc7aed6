// Package identities resolves the principal of a request.
package identities

import (
	"errors"
	"net/http"
)

var ErrUnauthenticated = errors.New("unauthenticated")

type Principal struct {
	ID string `json:"id"`
}

type Provider interface {
	Authenticate(r *http.Request) (Principal, error)
}
