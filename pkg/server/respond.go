package server

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/anemcalc/pkg/errors"
)

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// writeError maps err onto a status and a {code, message} body. Internal
// errors are logged with their cause and reported without it.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	err = errors.FromFormula(err)
	status := errors.HTTPStatus(err)
	body := errorBody{Code: errors.GetCode(err), Message: errors.UserMessage(err)}
	if status >= http.StatusInternalServerError {
		log.FromContext(r.Context()).Error("handler error", "err", err)
		if body.Code == errors.ErrCodeInternal {
			body.Message = "internal error"
		}
	}
	writeJSON(w, status, body)
}
