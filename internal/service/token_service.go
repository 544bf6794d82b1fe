package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenService emite y valida los bearer tokens de la API.
type TokenService struct {
	secret []byte
	issuer string
	now    func() time.Time
}

type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

const (
	tokenIssuer     = "cdp-query"
	tokenScopeQuery = "cdp:query"
	defaultTokenTTL = 24 * time.Hour
)

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

func NewTokenService(secret string) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		issuer: tokenIssuer,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Enabled es false cuando no hay secreto: la API queda abierta.
func (s *TokenService) Enabled() bool {
	return s != nil && len(s.secret) > 0
}

func (s *TokenService) Issue(subject string, ttl time.Duration) (string, error) {
	if !s.Enabled() {
		return "", ErrTokenInvalid
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", ErrTokenInvalid
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	now := s.now()
	claims := Claims{
		Scope: tokenScopeQuery,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *TokenService) Parse(tokenString string) (Claims, error) {
	if !s.Enabled() {
		return Claims{}, ErrTokenInvalid
	}
	if strings.TrimSpace(tokenString) == "" {
		return Claims{}, ErrTokenInvalid
	}
	var claims Claims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if strings.TrimSpace(claims.Subject) == "" || claims.Scope != tokenScopeQuery {
		return Claims{}, ErrTokenInvalid
	}
	return claims, nil
}
