package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/trailmark/experiences-api/internal/domain"
	"github.com/trailmark/experiences-api/internal/http/response"
	"github.com/trailmark/experiences-api/internal/repository"
	"github.com/trailmark/experiences-api/internal/service"
	"github.com/trailmark/experiences-api/pkg/logger"
)

type ctxKey string

const ctxIdentity ctxKey = "identity"

// Authenticator turns bearer tokens into caller identities and hosts
// the authorization gates. The gates are pure: they either pass the
// request through or short-circuit with an error envelope.
type Authenticator struct {
	auth    service.AuthService
	expRepo repository.ExperienceRepository
}

func NewAuthenticator(auth service.AuthService, expRepo repository.ExperienceRepository) *Authenticator {
	return &Authenticator{auth: auth, expRepo: expRepo}
}

func bearerToken(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(authz, "Bearer ")
}

func withIdentity(r *http.Request, ident *domain.Identity) *http.Request {
	ctx := context.WithValue(r.Context(), ctxIdentity, ident)
	ctx = context.WithValue(ctx, logger.UserIDKey, ident.ID)
	return r.WithContext(ctx)
}

// Identity returns the authenticated caller, or nil for anonymous
// requests.
func Identity(r *http.Request) *domain.Identity {
	v := r.Context().Value(ctxIdentity)
	if v == nil {
		return nil
	}
	return v.(*domain.Identity)
}

func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			response.WriteAppError(w, domain.E(domain.CodeUnauthenticated, "missing token"))
			return
		}

		ident, err := a.auth.Authenticate(r.Context(), token)
		if err != nil {
			response.WriteError(w, err)
			return
		}

		next.ServeHTTP(w, withIdentity(r, ident))
	})
}

// OptionalAuth attaches an identity when a valid bearer token is
// present and lets the request through either way.
func (a *Authenticator) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := bearerToken(r); token != "" {
			if ident, err := a.auth.Authenticate(r.Context(), token); err == nil {
				r = withIdentity(r, ident)
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (a *Authenticator) RequireRole(allowed ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident := Identity(r)
			if ident == nil {
				response.WriteAppError(w, domain.E(domain.CodeUnauthenticated, "authentication required"))
				return
			}
			for _, role := range allowed {
				if ident.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.WriteAppError(w, domain.E(domain.CodeForbidden, "insufficient role"))
		})
	}
}

// RequireOwnerOrAdmin gates {id}-scoped experience mutations: the
// caller must own the experience or be an admin.
func (a *Authenticator) RequireOwnerOrAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident := Identity(r)
		if ident == nil {
			response.WriteAppError(w, domain.E(domain.CodeUnauthenticated, "authentication required"))
			return
		}

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id < 1 {
			response.WriteAppError(w, domain.E(domain.CodeInvalidInput, "invalid id"))
			return
		}

		exp, err := a.expRepo.FindByID(r.Context(), id)
		if err != nil {
			response.WriteError(w, err)
			return
		}
		if exp == nil {
			response.WriteAppError(w, domain.E(domain.CodeNotFound, "experience not found"))
			return
		}
		if exp.CreatedBy != ident.ID && ident.Role != domain.RoleAdmin {
			response.WriteAppError(w, domain.E(domain.CodeForbidden, "must be owner or admin"))
			return
		}

		next.ServeHTTP(w, r)
	})
}
