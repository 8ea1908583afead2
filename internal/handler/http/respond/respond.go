// Package respond writes JSON responses and turns errors into client-safe
// messages.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// internalMessage replaces any error text that is not known to be safe.
const internalMessage = "internal server error"

// safeFragments mark validation-style messages that may be shown to clients.
var safeFragments = []string{
	"required", "invalid", "not found", "already exists", "must be",
	"cannot be", "too long", "too short", "not allowed", "too large",
}

type errorBody struct {
	Error string `json:"error"`
}

// JSON writes v with the given status. A nil v writes headers only.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode JSON response", slog.Int("status_code", code), slog.Any("error", err))
	}
}

// SafeError writes err as {"error": ...}. The message is passed through only
// for 4xx codes and validation-style text; everything else is logged and
// replaced by a generic message.
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}
	msg := err.Error()
	if code >= 500 || !isSafe(msg) {
		slog.Error("request failed",
			slog.Int("code", code),
			slog.String("status", http.StatusText(code)),
			slog.String("error", SanitizeError(err)))
		msg = internalMessage
	}
	JSON(w, code, errorBody{Error: msg})
}

func isSafe(msg string) bool {
	lower := strings.ToLower(msg)
	for _, frag := range safeFragments {
		if strings.Contains(lower, frag) {
			return true
		}
	}
	return false
}

// AppError pairs a client-facing message and status with the internal cause.
type AppError struct {
	UserMsg string
	Err     error
	Code    int
}

func NewAppError(code int, userMsg string, err error) *AppError {
	return &AppError{Code: code, UserMsg: userMsg, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.UserMsg
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error { return e.Err }

// SafeErrorV2 writes an AppError's own status and message, logging its cause.
// Other errors go through SafeError with code.
func SafeErrorV2(w http.ResponseWriter, code int, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		SafeError(w, code, err)
		return
	}
	if appErr.Err != nil {
		slog.Error("request failed",
			slog.Int("code", appErr.Code),
			slog.String("user_message", appErr.UserMsg),
			slog.String("error", SanitizeError(appErr.Err)))
	}
	JSON(w, appErr.Code, errorBody{Error: appErr.UserMsg})
}
