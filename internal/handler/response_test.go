package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/minishare/backend/internal/service"
)

func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"validation", fmt.Errorf("%w: name is required", service.ErrValidation), http.StatusBadRequest, `"bad_request"`},
		{"bad credentials", service.ErrBadCredentials, http.StatusUnauthorized, `"unauthorized"`},
		{"unauthenticated", service.ErrUnauthenticated, http.StatusUnauthorized, `"unauthorized"`},
		{"forbidden", service.ErrForbidden, http.StatusForbidden, `"forbidden"`},
		{"not found", service.ErrNotFound, http.StatusNotFound, `"not_found"`},
		{"already processed", service.ErrAlreadyProcessed, http.StatusOK, `"already_processed"`},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, `"internal_error"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			if err := respondServiceError(c, tt.err); err != nil {
				t.Fatalf("handler err: %v", err)
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("code=%d want %d", rec.Code, tt.wantCode)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Fatalf("body=%s missing %s", rec.Body.String(), tt.wantBody)
			}
		})
	}
}
