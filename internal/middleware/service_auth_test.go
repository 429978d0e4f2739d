package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceAuthHandler_AuthCheck(t *testing.T) {
	const secret = "sssh-secret"

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	wrapped := NewServiceAuthHandler(secret).AuthCheck()(okHandler)

	testCases := []struct {
		name           string
		method         string
		path           string
		secret         string
		expectedStatus int
	}{
		{
			name:           "event post with valid secret",
			method:         "POST",
			path:           "/engine/events/set",
			secret:         secret,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "event post with invalid secret",
			method:         "POST",
			path:           "/engine/events/set",
			secret:         "nope",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "event post without secret",
			method:         "POST",
			path:           "/engine/events/workout",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "options preflight always allowed",
			method:         "OPTIONS",
			path:           "/engine/events/set",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "read endpoints not guarded",
			method:         "GET",
			path:           "/engine/stats/42",
			expectedStatus: http.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(tc.method, tc.path, nil)
			require.NoError(t, err)
			if tc.secret != "" {
				req.Header.Set("X-Liftlog-Service-Secret", tc.secret)
			}

			rr := httptest.NewRecorder()
			wrapped.ServeHTTP(rr, req)
			assert.Equal(t, tc.expectedStatus, rr.Code)
		})
	}
}
