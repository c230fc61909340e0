package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"moim-app-go/internal/auth"
	"moim-app-go/internal/config"
	apperrors "moim-app-go/pkg/errors"
	"moim-app-go/pkg/logger"
)

// Auth resolves the bearer token to a principal and mirrors its profile.
type Auth struct {
	verifier auth.TokenVerifier
	profiles ProfileSaver
	log      logger.Logger
	skipAuth bool
	mockUser auth.Principal
}

type contextKey int

const (
	userIDKey contextKey = iota
	userKey
)

type ProfileSaver interface {
	UpsertProfile(ctx context.Context, userID, email, name, avatarURL string) error
}

func NewAuth(cfg config.SupabaseConfig, verifier auth.TokenVerifier, profiles ProfileSaver, log logger.Logger) *Auth {
	return &Auth{
		verifier: verifier,
		profiles: profiles,
		log:      log,
		skipAuth: cfg.SkipAuth,
		mockUser: auth.Principal{
			ID:        strings.TrimSpace(cfg.MockUserID),
			Email:     strings.TrimSpace(cfg.MockUserEmail),
			Name:      strings.TrimSpace(cfg.MockUserName),
			AvatarURL: strings.TrimSpace(cfg.MockUserAvatar),
		},
	}
}

func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.skipAuth {
			if a.mockUser.ID == "" {
				writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth mock user id not configured")
				return
			}
			a.saveProfile(r.Context(), a.mockUser)
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), a.mockUser)))
			return
		}

		if a.verifier == nil {
			writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth not configured")
			return
		}

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		user, err := a.verifier.VerifyToken(r.Context(), token)
		if err != nil {
			if apperrors.CodeOf(err) == apperrors.CodeUnauthenticated {
				a.log.BusinessError("auth: token rejected", err)
				unauthorized(w)
				return
			}
			a.log.InternalError("auth: verify token failed", err)
			writeError(w, http.StatusBadGateway, string(apperrors.CodeDependency), "auth provider unavailable")
			return
		}

		a.saveProfile(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func (a *Auth) saveProfile(ctx context.Context, user auth.Principal) {
	if a.profiles == nil {
		return
	}
	if err := a.profiles.UpsertProfile(ctx, user.ID, user.Email, user.Name, user.AvatarURL); err != nil {
		a.log.InternalError("auth: upsert profile failed", err, "user_id", user.ID)
	}
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, string(apperrors.CodeUnauthenticated), "login required")
}

func WithUser(ctx context.Context, user auth.Principal) context.Context {
	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, userIDKey, user.ID)
}

func UserFromContext(ctx context.Context) (auth.Principal, bool) {
	value := ctx.Value(userKey)
	user, ok := value.(auth.Principal)
	if !ok || user.ID == "" {
		return auth.Principal{}, false
	}
	return user, true
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	value := ctx.Value(userIDKey)
	userID, ok := value.(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
