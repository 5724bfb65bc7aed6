package identities

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const Issuer = "tutor"

// JWTProvider accepts HS256 bearer tokens. The subject is the principal id.
type JWTProvider struct {
	secret []byte
}

var _ Provider = new(JWTProvider)

func NewJWTProvider(secret []byte) *JWTProvider {
	return &JWTProvider{
		secret: secret,
	}
}

func (p *JWTProvider) Authenticate(r *http.Request) (Principal, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return Principal{}, ErrUnauthenticated
	}
	return p.Verify(strings.TrimSpace(token))
}

func (p *JWTProvider) Verify(token string) (Principal, error) {
	if len(p.secret) == 0 {
		return Principal{}, ErrUnauthenticated
	}
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(token *jwt.Token) (any, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Principal{}, mapJWTError(err)
	}
	if claims.Subject == "" {
		return Principal{}, fmt.Errorf("%w: empty subject", ErrUnauthenticated)
	}
	return Principal{
		ID: claims.Subject,
	}, nil
}

// Issue signs a token for subject, valid for ttl.
func (p *JWTProvider) Issue(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    Issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	return token.SignedString(p.secret)
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: token expired", ErrUnauthenticated)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: bad signature", ErrUnauthenticated)
	}
	return fmt.Errorf("%w: %v", ErrUnauthenticated, err)
}
