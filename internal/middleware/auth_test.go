package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAdminKey(t *testing.T) {
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("success"))
	})

	tests := []struct {
		name           string
		configuredKey  string
		sentKey        string
		expectedStatus int
	}{
		{
			name:           "matching key",
			configuredKey:  "s3cret",
			sentKey:        "s3cret",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing key",
			configuredKey:  "s3cret",
			sentKey:        "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong key",
			configuredKey:  "s3cret",
			sentKey:        "guess",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "guard disabled when no key configured",
			configuredKey:  "",
			sentKey:        "",
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guarded := AdminKey(tt.configuredKey)(testHandler)

			req := httptest.NewRequest(http.MethodGet, "/api/orders/1001", nil)
			if tt.sentKey != "" {
				req.Header.Set("X-Admin-Key", tt.sentKey)
			}

			w := httptest.NewRecorder()
			guarded.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}
			if tt.expectedStatus == http.StatusOK && w.Body.String() != "success" {
				t.Errorf("body = %s, want success", w.Body.String())
			}
		})
	}
}
