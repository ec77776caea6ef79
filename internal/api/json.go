package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/starford/noteshub/internal/apperr"
	"github.com/starford/noteshub/internal/upload"
)

// Navigation targets.
const (
	RouteLogin  = "/login"
	RouteSearch = "/search"
)

// Error kinds.
const (
	KindValidation   = "validation"
	KindNotFound     = "not_found"
	KindUnauthorized = "unauthorized"
	KindConflict     = "conflict"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error    string `json:"error"`
	Kind     string `json:"kind,omitempty"`
	Redirect string `json:"redirect,omitempty"`
	Toast    *Toast `json:"toast,omitempty"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// writeError maps err onto a status code and error body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		msg := apperr.Message(err)
		writeJSON(w, http.StatusBadRequest, errResponse{
			Error: msg, Kind: KindValidation, Toast: errorToast(msg),
		})
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errResponse{
			Error: "not found", Kind: KindNotFound, Redirect: RouteSearch, Toast: errorToast(MsgNoteNotFound),
		})
	case errors.Is(err, apperr.ErrConflict):
		writeJSON(w, http.StatusConflict, errResponse{Error: err.Error(), Kind: KindConflict})
	case upload.IsCancelled(err):
		slog.Info("request cancelled", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		writeJSON(w, http.StatusRequestTimeout, errorBody("request cancelled"))
	default:
		slog.Error("request failed", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
