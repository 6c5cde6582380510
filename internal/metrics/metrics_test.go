package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPathGroup(t *testing.T) {
	tests := map[string]string{
		"/":                          "/",
		"/resources":                 "/resources",
		"/resources/abc-123":         "/resources",
		"/app/resources/abc/reviews": "/app/resources",
		"/api/leaderboard/me":        "/api/leaderboard",
		"/legal/terms":               "/legal",
	}
	for in, want := range tests {
		assert.Equal(t, want, PathGroup(in), in)
	}
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, OutcomeSuccess, Outcome(nil))
	assert.Equal(t, OutcomeFailure, Outcome(errors.New("boom")))
}

func TestMiddlewareRecordsStatus(t *testing.T) {
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	before := testutil.CollectAndCount(HTTPRequestDuration)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics-test/1", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, before+1, testutil.CollectAndCount(HTTPRequestDuration))
}
