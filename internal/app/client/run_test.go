package client

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBuild_WiresInstrumentedClient(t *testing.T) {
	traceparents := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case traceparents <- r.Header.Get("Traceparent"):
		default:
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"_id":"a1","name":"Milk","price":3.5,"quantity":2}]`))
	}))
	t.Cleanup(srv.Close)

	var logs bytes.Buffer
	app, err := Build(context.Background(), Config{
		APIURL:      srv.URL,
		HTTPTimeout: time.Second,
		LogLevel:    "debug",
	}, &logs)
	require.NoError(t, err)
	defer app.Close()

	require.NoError(t, app.Controller.Refresh(context.Background()))
	require.Len(t, app.Controller.Items(), 1)
	require.NotEmpty(t, <-traceparents)
	require.Contains(t, logs.String(), `"msg":"items listed"`)
}

func TestBuild_RejectsInvalidConfig(t *testing.T) {
	_, err := Build(context.Background(), Config{APIURL: "ftp://store", HTTPTimeout: time.Second}, &bytes.Buffer{})
	require.Error(t, err)
}

func TestNewHTTPClient_DefaultsTimeout(t *testing.T) {
	c := NewHTTPClient(0, nil)
	require.Equal(t, 10*time.Second, c.Timeout)
	require.NotNil(t, c.Transport)
}
