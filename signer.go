package sessions

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// refreshTokenBytes is the entropy of generated refresh token values:
// 32 bytes, hex encoded to 64 characters.
const refreshTokenBytes = 32

// JWTSigner implements the TokenSigner interface with HMAC signed JWTs for
// the access token and random opaque values for the refresh token.
type JWTSigner struct {
	signingKey      []byte
	tokenExpiration int
	issuer          string
	audience        jwt.ClaimStrings
	logger          Logger
}

// NewJWTSigner creates a new JWTSigner from the given config.
func NewJWTSigner(cfg Config, logger Logger) *JWTSigner {
	if logger == nil {
		logger = defLogger{}
	}
	return &JWTSigner{
		signingKey:      []byte(cfg.GetSigningKey()),
		tokenExpiration: cfg.GetTokenExpiration(),
		issuer:          cfg.GetIssuer(),
		audience:        cfg.GetAudience(),
		logger:          logger,
	}
}

// Issue creates a token pair: a signed access token carrying identity and
// roles, and a fresh opaque refresh token value.
func (s *JWTSigner) Issue(ctx context.Context, identity Identity, roles []string) (TokenPair, error) {
	select {
	case <-ctx.Done():
		return TokenPair{}, errors.Wrap(ctx.Err(), errors.CategoryOperation, "context cancelled during token issue")
	default:
	}

	now := time.Now()
	expiresAt := now.Add(time.Duration(s.tokenExpiration) * time.Hour)

	var aud jwt.ClaimStrings
	if len(s.audience) > 0 {
		aud = make(jwt.ClaimStrings, len(s.audience))
		copy(aud, s.audience)
	}

	claims := &AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   identity.ID(),
			Audience:  aud,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UID:   identity.ID(),
		Roles: append([]string(nil), roles...),
	}

	ensureTokenID(&claims.RegisteredClaims)

	access, err := s.SignClaims(claims)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := newRefreshToken()
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	}, nil
}

// SignClaims signs arbitrary access claims using the configured signing key.
func (s *JWTSigner) SignClaims(claims *AccessClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses and validates an access token string, returning its claims.
func (s *JWTSigner) Validate(tokenString string) (*AccessClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 2)
	if s.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(s.issuer))
	}
	if len(s.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(s.audience...))
	}

	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			s.logger.Error("signer validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey, nil
	}, parserOptions...)

	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryAuth, "invalid access token").
			WithCode(errors.CodeUnauthorized)
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, errors.New("unable to decode token claims", errors.CategoryAuth).
			WithCode(errors.CodeUnauthorized)
	}

	return claims, nil
}

var _ TokenSigner = (*JWTSigner)(nil)

func newRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to generate refresh token")
	}
	return hex.EncodeToString(buf), nil
}
