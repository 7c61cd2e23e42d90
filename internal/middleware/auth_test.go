package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func authTestHandler(t *testing.T, wantOwner string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, wantOwner, GetOwnerFromContext(r.Context()))
		w.WriteHeader(http.StatusOK)
	})
}

func TestAPIKeyAuth_ResolvesOwner(t *testing.T) {
	keys := map[string]string{"owner-1": "secret-key"}
	h := APIKeyAuth(keys)(authTestHandler(t, "owner-1"))

	for _, header := range []string{"Bearer secret-key", "secret-key"} {
		req := httptest.NewRequest(http.MethodPost, "/v1/analyses", nil)
		req.Header.Set("Authorization", header)
		rr := httptest.NewRecorder()

		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code, "header %q", header)
	}
}

func TestAPIKeyAuth_RejectsMissingOrWrongKey(t *testing.T) {
	keys := map[string]string{"owner-1": "secret-key"}
	h := APIKeyAuth(keys)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong key", "Bearer wrong-key"},
		{"bearer with empty key", "Bearer "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/analyses", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()

			h.ServeHTTP(rr, req)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}

func TestAPIKeyAuth_ProbeEndpointsStayOpen(t *testing.T) {
	h := APIKeyAuth(map[string]string{"owner-1": "secret-key"})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	for _, path := range []string{"/health", "/ready", "/live", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()

		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code, "path %s", path)
	}
}
