package handler

import (
	"encoding/json"
	"net/http"

	"github.com/bencohensolal/seniorhub/internal/domain"
	"github.com/bencohensolal/seniorhub/pkg/middleware"
	"github.com/bencohensolal/seniorhub/pkg/response"
)

// requester pulls the authenticated identity off the context; writes 401
// and returns false when absent.
func requester(w http.ResponseWriter, r *http.Request) (domain.Requester, bool) {
	req, ok := middleware.RequesterFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Authentication required.")
		return domain.Requester{}, false
	}
	return req, true
}

// decodeBody parses the JSON request body into dst; writes 400 and returns
// false on malformed input.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body.")
		return false
	}
	return true
}
