// Package http is the report API plumbing: chi routing, the server and the
// JSON envelope every endpoint answers with
package http

import (
	"encoding/json"
	stdhttp "net/http"

	perr "tripstats/internal/platform/errors"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Envelope wraps every report API body, Data on success and Code, Error and Field on failure
type Envelope struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	Field      string         `json:"field,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

// JSON writes v with the given status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func envelope(r *stdhttp.Request, status int) Envelope {
	return Envelope{
		StatusCode: status,
		Status:     stdhttp.StatusText(status),
		RequestID:  chimw.GetReqID(r.Context()),
	}
}

// RespondOK writes data in a 200 envelope
func RespondOK(w stdhttp.ResponseWriter, r *stdhttp.Request, data any) {
	env := envelope(r, stdhttp.StatusOK)
	env.Data = data
	JSON(w, env.StatusCode, env)
}

// RespondError writes err in an envelope, its project code picks the status
func RespondError(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	env := envelope(r, perr.HTTPStatus(err))
	wire := perr.WireFrom(err)
	env.Code, env.Error, env.Field = wire.Code, wire.Message, wire.Field
	JSON(w, env.StatusCode, env)
}

func reply(w stdhttp.ResponseWriter, r *stdhttp.Request, out any, err error) {
	if err != nil {
		RespondError(w, r, err)
		return
	}
	RespondOK(w, r, out)
}
