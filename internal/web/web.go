package web

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/ansel1/merry"
	"go.uber.org/zap"
)

// DecodeJSON reads a JSON request body, rejecting unknown fields.
func DecodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return merry.Prepend(err, "invalid request payload").WithHTTPCode(http.StatusBadRequest)
	}
	return nil
}

// WriteJSON encodes v before the status line goes out, so an encoding
// failure still becomes a 500.
func WriteJSON(w http.ResponseWriter, log *zap.Logger, status int, v interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		WriteError(w, log, merry.Prepend(err, "encode response"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// WriteError maps the error's merry HTTP code to the response status.
// Server-side failures are logged and answered with a generic message.
func WriteError(w http.ResponseWriter, log *zap.Logger, err error) {
	code := merry.HTTPCode(err)
	if code >= http.StatusInternalServerError {
		if log != nil {
			log.Error("request failed", zap.Error(err))
		}
		http.Error(w, http.StatusText(code), code)
		return
	}
	http.Error(w, err.Error(), code)
}
