package identity

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Sliceofbanana/job-tracker-sub001/internal/model"
)

var (
	ErrInvalidToken = errors.New("invalid identity token")
	ErrNoEmailClaim = errors.New("identity token carries no email")
)

// Provider extracts the authenticated principal from the identity provider's
// bearer token. The engine keys all of its state off the principal's email.
type Provider interface {
	PrincipalFromToken(token string) (*model.Principal, error)
}

type jwtProvider struct {
	secret []byte
}

// NewJWTProvider verifies HS256 tokens issued by the identity provider.
func NewJWTProvider(secret string) Provider {
	return &jwtProvider{secret: []byte(secret)}
}

func (p *jwtProvider) PrincipalFromToken(token string) (*model.Principal, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return nil, ErrNoEmailClaim
	}

	name, _ := claims["name"].(string)

	return &model.Principal{
		Email: model.NormalizeEmail(email),
		Name:  name,
	}, nil
}
