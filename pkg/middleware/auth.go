package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/bencohensolal/seniorhub/internal/domain"
	"github.com/bencohensolal/seniorhub/pkg/response"
)

type contextKey string

const (
	ContextUserID    contextKey = "userID"
	ContextEmail     contextKey = "email"
	ContextFirstName contextKey = "firstName"
	ContextLastName  contextKey = "lastName"
)

// Auth authenticates requests with an HS256 bearer token and puts the
// requester identity on the request context.
type Auth struct {
	secret []byte
}

func NewAuth(secret []byte) *Auth {
	return &Auth{secret: secret}
}

func (a *Auth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.Error(w, http.StatusUnauthorized, "Authentication required.")
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.ParseString(raw,
			jwt.WithKey(jwa.HS256, a.secret),
			jwt.WithValidate(true),
		)
		if err != nil {
			response.Error(w, http.StatusUnauthorized, "Invalid authentication token.")
			return
		}

		userID := token.Subject()
		if userID == "" {
			response.Error(w, http.StatusUnauthorized, "Invalid authentication token.")
			return
		}

		ctx := context.WithValue(r.Context(), ContextUserID, userID)
		ctx = context.WithValue(ctx, ContextEmail, stringClaim(token, "email"))
		ctx = context.WithValue(ctx, ContextFirstName, stringClaim(token, "firstName"))
		ctx = context.WithValue(ctx, ContextLastName, stringClaim(token, "lastName"))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func stringClaim(token jwt.Token, name string) string {
	if v, ok := token.Get(name); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// RequesterFromContext rebuilds the authenticated identity set by Require.
func RequesterFromContext(ctx context.Context) (domain.Requester, bool) {
	userID, _ := ctx.Value(ContextUserID).(string)
	if userID == "" {
		return domain.Requester{}, false
	}
	email, _ := ctx.Value(ContextEmail).(string)
	firstName, _ := ctx.Value(ContextFirstName).(string)
	lastName, _ := ctx.Value(ContextLastName).(string)
	return domain.Requester{
		UserID:    userID,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
	}, true
}
