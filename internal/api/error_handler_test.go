package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskhive/task-system/internal/core/domain"
)

func runErrorHandler(t *testing.T, err error) (*httptest.ResponseRecorder, errorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return rec, body
}

func TestErrorHandler_TaxonomyMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrTaskNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: title is required", domain.ErrInvalidInput), http.StatusBadRequest},
		{domain.ErrDuplicateGroupTask, http.StatusConflict},
		{domain.ErrAdminExists, http.StatusConflict},
	}
	for _, c := range cases {
		rec, _ := runErrorHandler(t, c.err)
		if rec.Code != c.want {
			t.Errorf("%v: expected %d, got %d", c.err, c.want, rec.Code)
		}
	}
}

func TestErrorHandler_EchoErrorsPassThrough(t *testing.T) {
	rec, body := runErrorHandler(t, echo.NewHTTPError(http.StatusTeapot, "short and stout"))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", rec.Code)
	}
	if body.Error != "short and stout" {
		t.Errorf("unexpected message %q", body.Error)
	}
}

func TestErrorHandler_UnexpectedErrorsMasked(t *testing.T) {
	rec, body := runErrorHandler(t, errors.New("connection reset by peer: 10.0.3.7"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body.Error != "internal server error" {
		t.Errorf("internal details leaked: %q", body.Error)
	}
}
