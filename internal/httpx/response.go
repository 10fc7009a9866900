// Package httpx holds the JSON envelope, request decoding and validation
// shared by every handler.
package httpx

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-tattoo-go/internal/apperror"
)

// Envelope is the response body of every endpoint.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// Responder writes envelopes and maps errors to status codes.
type Responder struct {
	logger *zap.SugaredLogger
	// Debug exposes the cause of internal errors in the response details.
	Debug bool
}

func NewResponder(logger *zap.SugaredLogger, debug bool) *Responder {
	return &Responder{logger: logger, Debug: debug}
}

// JSON writes v as-is with the given status.
func (rs *Responder) JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		rs.logger.Warnw("encode response", "err", err)
	}
}

func (rs *Responder) OK(w http.ResponseWriter, data any) {
	rs.JSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

func (rs *Responder) OKMessage(w http.ResponseWriter, msg string, data any) {
	rs.JSON(w, http.StatusOK, Envelope{Success: true, Message: msg, Data: data})
}

func (rs *Responder) Created(w http.ResponseWriter, msg string, data any) {
	rs.JSON(w, http.StatusCreated, Envelope{Success: true, Message: msg, Data: data})
}

func (rs *Responder) NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error translates err through the apperror status table. Internal errors are
// logged with their cause; the caller only sees a generic message.
func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	ae := apperror.From(err)
	env := Envelope{Success: false, Error: ae.Message}
	if len(ae.Details) > 0 {
		env.Details = ae.Details
	}

	if ae.Kind == apperror.Internal {
		rs.logger.Errorw("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"err", err,
		)
		if rs.Debug {
			env.Details = []string{err.Error()}
		}
	} else {
		rs.logger.Debugw("request rejected",
			"method", r.Method,
			"path", r.URL.Path,
			"kind", ae.Kind.String(),
			"err", err,
		)
	}
	rs.JSON(w, ae.Kind.Status(), env)
}
