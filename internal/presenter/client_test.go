package presenter

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const londonBody = `{"coord":{"lon":-0.1257,"lat":51.5085},"weather":[{"id":500,"main":"Rain","description":"light rain","icon":"10d"}],"main":{"temp":285.32,"feels_like":284.71,"temp_min":284.15,"temp_max":286.48,"pressure":1012,"humidity":82},"wind":{"speed":4.63,"deg":230},"rain":{"1h":0.42},"clouds":{"all":75},"dt":1697371200,"sys":{"country":"GB","sunrise":1697351234,"sunset":1697389876},"timezone":3600,"name":"London","cod":200}`

func TestProxyClient_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/weather", r.URL.Path)
		assert.Equal(t, "New York", r.URL.Query().Get("city"))
		_, _ = io.WriteString(w, londonBody)
	}))
	defer srv.Close()

	c := NewProxyClient(srv.URL+"/", time.Second)
	r, err := c.Current(context.Background(), "New York")
	require.NoError(t, err)

	assert.Equal(t, "London", r.Location.Name)
	require.NotNil(t, r.Precipitation)
	assert.Equal(t, 0.42, r.Precipitation.LastHourMM)
}

func TestProxyClient_ErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"proxy error field", http.StatusInternalServerError, `{"error":"Failed to fetch weather data"}`, "Failed to fetch weather data"},
		{"empty error field", http.StatusInternalServerError, `{"error":""}`, FallbackErrorMessage},
		{"no error field", http.StatusBadGateway, `{"status":"down"}`, FallbackErrorMessage},
		{"not json", http.StatusServiceUnavailable, `<html>unavailable</html>`, FallbackErrorMessage},
		{"empty body", http.StatusNotFound, ``, FallbackErrorMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewProxyClient(srv.URL, time.Second).Current(context.Background(), "Atlantis")
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())

			var respErr *ResponseError
			require.True(t, errors.As(err, &respErr))
			assert.Equal(t, tt.status, respErr.Status)
		})
	}
}

func TestProxyClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	_, err := NewProxyClient(baseURL, time.Second).Current(context.Background(), "London")
	require.Error(t, err)

	var respErr *ResponseError
	require.True(t, errors.As(err, &respErr))
	assert.Equal(t, UnavailableMessage, respErr.Message)
	assert.Zero(t, respErr.Status)
	require.Error(t, respErr.Unwrap(), "cause is kept for logging")
	assert.NotContains(t, respErr.Message, baseURL)
}

func TestProxyClient_MalformedSuccessBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"truncated json", `{"name":`},
		{"html page", `<html>maintenance</html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewProxyClient(srv.URL, time.Second).Current(context.Background(), "London")
			require.Error(t, err)

			var respErr *ResponseError
			require.True(t, errors.As(err, &respErr))
			assert.Equal(t, UnavailableMessage, respErr.Message)
			assert.Equal(t, http.StatusOK, respErr.Status)
		})
	}
}

func TestPresenter_UnreachableProxyShowsGenericMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	notifier := &recordingNotifier{}
	p := New(NewProxyClient(baseURL, time.Second), notifier, "London", discardLogger())
	require.Error(t, p.Mount(context.Background()))

	assert.Equal(t, UnavailableMessage, p.Snapshot().Error)
	assert.Equal(t, []string{UnavailableMessage}, notifier.Messages())
}
