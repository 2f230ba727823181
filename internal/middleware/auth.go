package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/gymprogress/internal/telemetry/tracing"
	"github.com/2beens/gymprogress/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=auth_mocks_test.go -package=middleware_test

const (
	SessionTokenHeader = "X-Session-Token"
	ServiceTokenHeader = "X-Service-Token"
)

type loginChecker interface {
	IsLogged(ctx context.Context, token string) (bool, error)
}

// AuthMiddlewareHandler lets through public reads, workout hooks carrying
// the activity service secret, and requests with a valid admin session.
type AuthMiddlewareHandler struct {
	serviceSecret      string
	loginChecker       loginChecker
	allowedPaths       map[string]bool
	publicReadPrefixes []string
	servicePaths       map[string]bool
}

func NewAuthMiddlewareHandler(
	serviceSecret string,
	loginChecker loginChecker,
) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		serviceSecret: serviceSecret,
		loginChecker:  loginChecker,
		allowedPaths: map[string]bool{
			"/":        true,
			"/version": true,
			"/health":  true,

			// login-logout:
			"/a/login":  true,
			"/a/logout": true,
		},
		publicReadPrefixes: []string{
			"/progression/users/",
			"/leaderboard/",
		},
		servicePaths: map[string]bool{
			"/progression/workouts": true,
		},
	}
}

func (h *AuthMiddlewareHandler) pathIsAlwaysAllowed(r *http.Request) bool {
	if h.allowedPaths[r.URL.Path] {
		return true
	}
	if r.Method != http.MethodGet {
		return false
	}
	for _, prefix := range h.publicReadPrefixes {
		if strings.HasPrefix(r.URL.Path, prefix) {
			return true
		}
	}
	return false
}

func (h *AuthMiddlewareHandler) validServiceToken(r *http.Request) bool {
	if h.serviceSecret == "" || !h.servicePaths[r.URL.Path] {
		return false
	}
	token := r.Header.Get(ServiceTokenHeader)
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.serviceSecret)) == 1
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if h.pathIsAlwaysAllowed(r) {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			// requests coming from the activity service
			if h.validServiceToken(r) {
				span.SetStatus(codes.Ok, "service-ok")
				next.ServeHTTP(w, r)
				return
			}

			authToken := r.Header.Get(SessionTokenHeader)
			if authToken == "" {
				reqIP, _ := pkg.ReadUserIP(r)
				log.Tracef("[missing token] [auth middleware] unauthorized => %s from %s", r.URL.Path, reqIP)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			}

			isLogged, err := h.loginChecker.IsLogged(ctx, authToken)
			if err != nil {
				log.Errorf("[failed login check] => %s: %s", r.URL.Path, err)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "check-logged-err")
				span.RecordError(err)
				return
			}
			if !isLogged {
				log.Tracef("[invalid token] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "not-logged")
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r)
		})
	}
}
