package ui

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/templui/shelf/internal/service"
)

// MaxBodyBytes caps JSON request bodies.
const MaxBodyBytes = 1 << 20

type ErrorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
	Kind  string `json:"kind,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("render json failed", "error", err)
	}
}

// Error writes err with the status its service kind maps to. Unclassified
// errors are logged and hidden behind a generic 500.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		slog.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path)
		JSON(w, http.StatusInternalServerError, ErrorBody{Error: "internal server error"})
		return
	}

	JSON(w, StatusFor(svcErr.Kind), ErrorBody{
		Error: svcErr.Err.Error(),
		Field: svcErr.Field,
		Kind:  svcErr.Kind.String(),
	})
}

func StatusFor(kind service.Kind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message writes a bare error message with the given status.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorBody{Error: msg})
}

// Decode reads a JSON request body into v. Malformed bodies come back as a
// validation error so Error renders them as 400.
func Decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return &service.Error{Kind: service.KindValidation, Err: errors.New("request body is required")}
	}
	if err != nil {
		return &service.Error{Kind: service.KindValidation, Err: fmt.Errorf("invalid request body: %w", err)}
	}
	return nil
}
