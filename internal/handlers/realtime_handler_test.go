package handlers_test

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pressroom/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStream(t *testing.T, srv *httptest.Server, token string) (*http.Response, <-chan string) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/admin/articles/stream", nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	lines := make(chan string, 64)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()
	return resp, lines
}

func TestChangeFeed_StreamsArticleMutations(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	resp, lines := openStream(t, srv, adminToken(t))
	// Deferred after srv.Close was deferred, so this runs first and
	// releases the streaming connection srv.Close waits on (t.Cleanup
	// would run too late, after the deferred srv.Close).
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	// Mutate through the API until the event shows up: headers arrive
	// before the server side finishes subscribing, so the first write
	// can race the subscription.
	create := func() {
		rec := env.do(t, http.MethodPost, "/api/admin/articles", adminToken(t), models.CreateArticleRequest{
			Title: "Streamed", Content: "<p>x</p>",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	deadline := time.Now().Add(5 * time.Second)
	var sawEvent, sawData bool
	for !(sawEvent && sawData) {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for change event")
		}
		create()
		select {
		case line, open := <-lines:
			if !open {
				t.Fatal("stream closed before an event arrived")
			}
			if line == "event: change" {
				sawEvent = true
			}
			if strings.HasPrefix(line, "data: ") {
				sawData = true
				assert.Contains(t, line, `"table":"articles"`)
				assert.Contains(t, line, `"schema":"public"`)
				assert.Contains(t, line, `"event":"*"`)
			}
		case <-time.After(100 * time.Millisecond):
			// retry; publishes before the subscription was registered
			// are dropped
		}
	}
}

func TestChangeFeed_RequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/admin/articles/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req.Header.Set("Authorization", "Bearer "+readerToken(t))
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
