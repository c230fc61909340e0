package auth

import (
	"context"
	"fmt"
	"strings"

	apperrors "moim-app-go/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
)

const supabaseAudience = "authenticated"

var tokenSigningMethod = jwt.SigningMethodHS256

type supabaseClaims struct {
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	jwt.RegisteredClaims
}

// JWTVerifier validates Supabase access tokens locally with the project's
// JWT secret, avoiding a round trip to GoTrue per request.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) (*JWTVerifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("jwt secret required")
	}
	return &JWTVerifier{secret: []byte(secret)}, nil
}

func (v *JWTVerifier) VerifyToken(ctx context.Context, token string) (Principal, error) {
	if token == "" {
		return Principal{}, apperrors.New(apperrors.CodeUnauthenticated, "invalid token")
	}

	claims := &supabaseClaims{}
	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != tokenSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return v.secret, nil
		},
		jwt.WithValidMethods([]string{tokenSigningMethod.Alg()}),
		jwt.WithAudience(supabaseAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Principal{}, apperrors.Wrap(apperrors.CodeUnauthenticated, err, "invalid token")
	}
	if claims.Subject == "" {
		return Principal{}, apperrors.New(apperrors.CodeUnauthenticated, "invalid token")
	}

	return Principal{
		ID:        claims.Subject,
		Email:     claims.Email,
		Name:      firstNonEmpty(stringFromMap(claims.UserMetadata, "name"), stringFromMap(claims.UserMetadata, "full_name")),
		AvatarURL: stringFromMap(claims.UserMetadata, "avatar_url"),
	}, nil
}
