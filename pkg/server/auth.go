package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/ratecast/ratecast/pkg/log"
	"github.com/ratecast/ratecast/pkg/types"
)

// maxBodyBytes limits request bodies to 1MB.
const maxBodyBytes = 1 << 20

// tokenVerifier validates a bearer token and returns the user it belongs to.
type tokenVerifier func(ctx context.Context, rawToken string) (types.User, error)

// oidcTokenVerifier adapts an OIDC ID token verifier. The token's subject
// becomes the user ID.
func oidcTokenVerifier(v *oidc.IDTokenVerifier) tokenVerifier {
	return func(ctx context.Context, rawToken string) (types.User, error) {
		idToken, err := v.Verify(ctx, rawToken)
		if err != nil {
			return types.User{}, err
		}
		var claims struct {
			Email string `json:"email"`
		}
		if err := idToken.Claims(&claims); err != nil {
			return types.User{}, fmt.Errorf("failed to parse claims: %w", err)
		}
		if idToken.Subject == "" {
			return types.User{}, errors.New("token has no subject")
		}
		return types.User{ID: idToken.Subject, Email: claims.Email}, nil
	}
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ctx = log.With(ctx, log.Ctx(ctx).With(slog.String("reqPath", r.URL.Path)))

		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		}

		// without a verifier every caller is anonymous
		if s.verifyToken != nil {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Ctx(ctx).WarnContext(ctx, "unauthenticated request")
				writeJSONError(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Ctx(ctx).WarnContext(ctx, "invalid auth header")
				writeJSONError(w, "invalid auth header", http.StatusBadRequest)
				return
			}
			user, err := s.verifyToken(ctx, strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				log.Ctx(ctx).WarnContext(ctx, "auth token validation failed", slog.Any("error", err))
				writeJSONError(w, "invalid auth token", http.StatusUnauthorized)
				return
			}
			ctx = log.With(ctx, log.Ctx(ctx).With(slog.String("authUserID", user.ID)))
			ctx = context.WithValue(ctx, userContextKey, user)
			log.Ctx(ctx).DebugContext(ctx, "authenticated request", slog.String("email", user.Email))
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
