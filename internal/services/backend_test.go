package services_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MegaGrindStone/doc-chat-ui/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackendQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, "true", r.Header.Get("ngrok-skip-browser-warning"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"query":"What is this document about?"}`, string(body))

		_, _ = w.Write([]byte(`{"answer":"It is about Go."}`))
	}))
	defer srv.Close()

	backend := services.NewBackend(srv.URL, time.Second, time.Second)

	res, err := backend.Query(context.Background(), "What is this document about?")
	require.NoError(t, err)
	assert.Equal(t, "It is about Go.", res.Answer)
}

func TestBackendQueryHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("index not ready"))
	}))
	defer srv.Close()

	backend := services.NewBackend(srv.URL, time.Second, time.Second)

	_, err := backend.Query(context.Background(), "anything")
	var httpErr *services.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.Equal(t, "Internal Server Error", httpErr.StatusText)
	assert.Equal(t, "index not ready", httpErr.Body)
}

func TestBackendQueryTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		_, _ = w.Write([]byte(`{"answer":"too late"}`))
	}))
	defer srv.Close()
	defer close(release)

	backend := services.NewBackend(srv.URL, 30*time.Millisecond, time.Second)

	start := time.Now()
	_, err := backend.Query(context.Background(), "anything")
	assert.ErrorIs(t, err, services.ErrTimeout)
	assert.Less(t, time.Since(start), time.Second, "timeout must fire instead of hanging")
}

func TestBackendUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	backend := services.NewBackend(url, time.Second, time.Second)

	_, err := backend.Query(context.Background(), "anything")
	assert.ErrorIs(t, err, services.ErrUnreachable)
}

func TestBackendHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/health", r.URL.Path)
		assert.Equal(t, "true", r.Header.Get("ngrok-skip-browser-warning"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	backend := services.NewBackend(srv.URL, time.Second, time.Second)
	assert.NoError(t, backend.Health(context.Background()))
}

func TestBackendHealthUsesShortTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	defer close(release)

	// The request timeout is generous; only the health timeout can be the one firing here.
	backend := services.NewBackend(srv.URL, time.Minute, 30*time.Millisecond)

	err := backend.Health(context.Background())
	assert.ErrorIs(t, err, services.ErrTimeout)
}

func TestBackendUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/upload", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data; boundary="),
			"multipart writer must own the Content-Type header")

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		assert.Equal(t, "report.pdf", header.Filename)
		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.4 fake", string(content))

		_, _ = w.Write([]byte(`{"success":true,"message":"stored"}`))
	}))
	defer srv.Close()

	backend := services.NewBackend(srv.URL, time.Second, time.Second)

	res, err := backend.Upload(context.Background(), "report.pdf", strings.NewReader("%PDF-1.4 fake"))
	require.NoError(t, err)
	require.NotNil(t, res.Success)
	assert.True(t, *res.Success)
	assert.Equal(t, "stored", res.Message)
}

func TestBackendUploadDeclaredFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"unsupported encoding"}`))
	}))
	defer srv.Close()

	backend := services.NewBackend(srv.URL, time.Second, time.Second)

	res, err := backend.Upload(context.Background(), "report.pdf", strings.NewReader("data"))
	require.NoError(t, err)
	require.NotNil(t, res.Success)
	assert.False(t, *res.Success)
	assert.Equal(t, "unsupported encoding", res.Message)
}

func TestBackendUploadSuccessFieldAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))
	defer srv.Close()

	backend := services.NewBackend(srv.URL, time.Second, time.Second)

	res, err := backend.Upload(context.Background(), "report.pdf", strings.NewReader("data"))
	require.NoError(t, err)
	assert.Nil(t, res.Success, "absent success field must stay distinguishable from false")
}

func TestBackendTrimsTrailingSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	backend := services.NewBackend(srv.URL+"/", time.Second, time.Second)
	assert.NoError(t, backend.Health(context.Background()))
	assert.Equal(t, srv.URL, backend.BaseURL())
}

func TestClassificationSentinelsAreDistinct(t *testing.T) {
	assert.False(t, errors.Is(services.ErrTimeout, services.ErrUnreachable))
}
