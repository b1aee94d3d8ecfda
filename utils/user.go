package utils

import (
	"net/http"

	"farmhand/auth"
)

// GetUserIDFromRequest returns the authenticated uid, or "" for anonymous
// requests.
func GetUserIDFromRequest(r *http.Request) string {
	id, err := auth.FromContext(r.Context())
	if err != nil {
		return ""
	}
	return id.UID
}
