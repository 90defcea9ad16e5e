package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/sprintflow/scoring/internal/auth"
	"github.com/sprintflow/scoring/internal/telemetry/tracing"
	"github.com/sprintflow/scoring/pkg"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=auth.go -destination=auth_mock_test.go -package=middleware_test

type subjectResolver interface {
	Resolve(ctx context.Context, token string) (uuid.UUID, error)
}

const WebhookSecretHeader = "X-Webhook-Secret"

type AuthMiddlewareHandler struct {
	resolver      subjectResolver
	webhookSecret string
	allowedPaths  map[string]bool
	webhookPaths  map[string]bool
}

func NewAuthMiddlewareHandler(
	resolver subjectResolver,
	webhookSecret string,
	webhookPaths ...string,
) *AuthMiddlewareHandler {
	h := &AuthMiddlewareHandler{
		resolver:      resolver,
		webhookSecret: webhookSecret,
		allowedPaths: map[string]bool{
			"/health": true,
		},
		webhookPaths: make(map[string]bool, len(webhookPaths)),
	}
	for _, p := range webhookPaths {
		h.webhookPaths[p] = true
	}
	return h
}

// AuthCheck resolves the bearer token to an athlete id and stores it in
// the request context. Webhook paths are authenticated by the shared
// secret header instead.
func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions || h.allowedPaths[r.URL.Path] {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			if h.webhookPaths[r.URL.Path] {
				if !h.webhookSecretValid(r.Header.Get(WebhookSecretHeader)) {
					log.Warnf("[invalid webhook secret] [auth middleware] unauthorized => %s", r.URL.Path)
					pkg.WriteJSONError(w, "invalid webhook secret", http.StatusUnauthorized)
					span.SetStatus(codes.Error, "invalid-webhook-secret")
					return
				}
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				pkg.WriteJSONError(w, "missing bearer token", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			}

			athleteID, err := h.resolver.Resolve(ctx, token)
			if errors.Is(err, auth.ErrUnauthorized) {
				log.Tracef("[invalid token] [auth middleware] unauthorized => %s", r.URL.Path)
				pkg.WriteJSONError(w, "invalid token", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "invalid-token")
				return
			}
			if err != nil {
				log.Errorf("[failed token resolve] => %s: %s", r.URL.Path, err)
				pkg.WriteJSONError(w, "failed to verify token", http.StatusInternalServerError)
				span.SetStatus(codes.Error, "resolve-token-err")
				span.RecordError(err)
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(auth.WithAthleteID(r.Context(), athleteID)))
		})
	}
}

func (h *AuthMiddlewareHandler) webhookSecretValid(got string) bool {
	if h.webhookSecret == "" {
		log.Errorln("webhook secret not configured, refusing webhook call")
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.webhookSecret)) == 1
}

func bearerToken(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
