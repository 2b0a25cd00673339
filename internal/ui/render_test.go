package ui

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/shelf/internal/service"
)

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		kind   service.Kind
		status int
	}{
		{service.KindValidation, http.StatusBadRequest},
		{service.KindUnauthorized, http.StatusUnauthorized},
		{service.KindForbidden, http.StatusForbidden},
		{service.KindNotFound, http.StatusNotFound},
		{service.KindConflict, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			Error(rec, req, &service.Error{Kind: tt.kind, Field: "score", Err: errors.New("bad")})

			assert.Equal(t, tt.status, rec.Code)
			var body ErrorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "bad", body.Error)
			assert.Equal(t, "score", body.Field)
			assert.Equal(t, tt.kind.String(), body.Kind)
		})
	}
}

func TestErrorHidesInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("connection refused to 10.0.0.3"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.3")
}

func TestDecode(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Dune"}`))
	require.NoError(t, Decode(httptest.NewRecorder(), req, &v))
	assert.Equal(t, "Dune", v.Name)

	for _, body := range []string{"", "{oops"} {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		err := Decode(httptest.NewRecorder(), req, &v)
		assert.Equal(t, service.KindValidation, service.KindOf(err), body)
	}
}
