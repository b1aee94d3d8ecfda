package middleware

import (
	"net/http"
	"strings"

	"farmhand/auth"

	"github.com/julienschmidt/httprouter"
)

// Authenticate requires a "Bearer <token>" header and stores the verified
// identity in the request context.
func Authenticate(tokens *auth.Tokens) func(httprouter.Handle) httprouter.Handle {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			tokenString := r.Header.Get("Authorization")
			if tokenString == "" {
				tokenString = bearerFromQuery(r)
			}
			if tokenString == "" {
				http.Error(w, "Missing token", http.StatusUnauthorized)
				return
			}
			if !strings.HasPrefix(tokenString, "Bearer ") {
				http.Error(w, "Invalid token format", http.StatusUnauthorized)
				return
			}

			id, err := tokens.Parse(tokenString[len("Bearer "):])
			if err != nil {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}
			next(w, r.WithContext(auth.WithIdentity(r.Context(), id)), ps)
		}
	}
}

// bearerFromQuery lets browsers pass the token on WebSocket upgrades, which
// cannot carry an Authorization header.
func bearerFromQuery(r *http.Request) string {
	if t := r.URL.Query().Get("token"); t != "" {
		return "Bearer " + t
	}
	return ""
}
