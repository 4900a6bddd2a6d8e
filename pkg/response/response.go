package response

import (
	"encoding/json"
	"net/http"

	"github.com/bencohensolal/seniorhub/pkg/xerrors"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := APIResponse{
		Status: "success",
		Data:   data,
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func Error(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := APIResponse{
		Status:  "error",
		Message: msg,
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// DomainError maps an error kind to its HTTP status and writes the envelope.
func DomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "An unexpected error occurred."

	switch xerrors.KindOf(err) {
	case xerrors.KindNotFound:
		status = http.StatusNotFound
		msg = err.Error()
	case xerrors.KindForbidden:
		status = http.StatusForbidden
		msg = err.Error()
	case xerrors.KindUnauthorized:
		status = http.StatusUnauthorized
		msg = err.Error()
	case xerrors.KindConflict:
		status = http.StatusConflict
		msg = err.Error()
	case xerrors.KindBusinessRule:
		status = http.StatusUnprocessableEntity
		msg = err.Error()
	case xerrors.KindValidation:
		status = http.StatusBadRequest
		msg = err.Error()
	}

	Error(w, status, msg)
}
