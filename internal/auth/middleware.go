package auth

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/curo-bpm/curo/internal/user"
	"github.com/curo-bpm/curo/pkg/cerr"
	"github.com/curo-bpm/curo/pkg/clog"
)

// Authorization schemes accepted by the server.
const (
	SchemeCuroBasic = "CuroBasic"
	SchemeBasic     = "Basic"
)

type Authenticator struct {
	users user.Repository
}

func NewAuthenticator(users user.Repository) *Authenticator {
	return &Authenticator{users: users}
}

// ParseCredentials extracts user and password from a CuroBasic or Basic
// Authorization header value.
func ParseCredentials(header string) (userID, password string, ok bool) {
	scheme, encoded, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || (!strings.EqualFold(scheme, SchemeCuroBasic) && !strings.EqualFold(scheme, SchemeBasic)) {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return "", "", false
	}
	userID, password, found = strings.Cut(string(decoded), ":")
	if !found || userID == "" {
		return "", "", false
	}
	return userID, password, true
}

// Middleware authenticates every request and stores the Principal in its
// context. Requests without valid credentials get 401.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, password, ok := ParseCredentials(r.Header.Get("Authorization"))
		if !ok {
			w.Header().Set("WWW-Authenticate", SchemeCuroBasic+` realm="curo"`)
			cerr.WriteError(ctx, w, r, cerr.NewError(cerr.Unauthenticated, "authentication required", nil))
			return
		}
		valid, err := a.users.CheckPassword(ctx, userID, password)
		if err != nil {
			cerr.WriteError(ctx, w, r, err)
			return
		}
		if !valid {
			slog.DebugContext(ctx, "rejected credentials", "user", userID)
			cerr.WriteError(ctx, w, r, cerr.NewError(cerr.Unauthenticated, "invalid credentials", nil))
			return
		}
		groups, err := a.users.Groups(ctx, userID)
		if err != nil {
			cerr.WriteError(ctx, w, r, err)
			return
		}
		p := Principal{UserID: userID, Groups: make([]string, 0, len(groups))}
		for _, g := range groups {
			p.Groups = append(p.Groups, g.ID)
		}
		clog.AddUser(ctx, userID)
		next.ServeHTTP(w, r.WithContext(WithPrincipal(ctx, p)))
	})
}
