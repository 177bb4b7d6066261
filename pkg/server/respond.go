package server

import (
	"encoding/json"
	"net/http"

	mgerrors "github.com/matzehuels/movegraph/pkg/errors"
)

// errorBody is the JSON error shape. Browser clients only read Detail.
type errorBody struct {
	Code   string `json:"code,omitempty"`
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mgerrors.HTTPStatus(err), errorBody{
		Code:   string(mgerrors.GetCode(err)),
		Detail: mgerrors.UserMessage(err),
	})
}
