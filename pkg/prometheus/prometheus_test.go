package prometheus

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewHandler(t *testing.T) {
	handler := NewHandler(
		NewGauge("test_entries", "Entries", func() (float64, error) { return 3, nil }),
		NewGauge("test_broken", "Broken", func() (float64, error) { return 0, errors.New("down") }),
	)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "test_entries 3")
	require.Contains(t, string(body), "test_broken -1")
	require.Contains(t, string(body), "go_goroutines")
}
