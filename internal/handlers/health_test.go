package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/tunevault/internal/handlers"
	"github.com/stretchr/testify/assert"
)

type fakePinger struct{ err error }

func (p fakePinger) HealthCheck(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	w := httptest.NewRecorder()
	handlers.NewHealthHandler(fakePinger{}).Health(w, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handlers.NewHealthHandler(fakePinger{err: errors.New("down")}).Health(w, httptest.NewRequest("GET", "/health", nil))
	handlers.AssertErrorResponse(t, w, http.StatusServiceUnavailable, "unavailable")
}
