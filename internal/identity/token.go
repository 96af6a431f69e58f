package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"

	"github.com/DataScyther/Neeva-AI-sub000/internal/model"
)

// ErrInvalidToken wraps every verification failure.
var ErrInvalidToken = errors.New("identity: invalid token")

type identityClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// TokenVerifier issues and verifies HS256 identity tokens carrying the user
// id as subject plus email and display name claims.
type TokenVerifier struct {
	secret []byte
	issuer string
	clock  clockwork.Clock
}

// NewTokenVerifier returns a verifier. An empty issuer is neither written nor checked.
func NewTokenVerifier(secret, issuer string, clock clockwork.Clock) *TokenVerifier {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &TokenVerifier{secret: []byte(secret), issuer: issuer, clock: clock}
}

// Issue signs a token for u valid for ttl.
func (v *TokenVerifier) Issue(u model.User, ttl time.Duration) (string, error) {
	if u.ID == "" {
		return "", fmt.Errorf("%w: empty subject", ErrInvalidToken)
	}
	now := v.clock.Now()
	claims := identityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: u.Email,
		Name:  u.DisplayName,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses token and returns the user it identifies.
func (v *TokenVerifier) Verify(token string) (*model.User, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.clock.Now),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	parsed, err := jwt.ParseWithClaims(token, &identityClaims{}, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*identityClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return &model.User{ID: claims.Subject, Email: claims.Email, DisplayName: claims.Name}, nil
}
