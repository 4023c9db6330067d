package responder_test

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/luciusmagn/sozu-acme/core/responder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	challengePath = "/.well-known/acme-challenge/tok1"
	keyAuth       = "tok1.abc123"
)

func startResponder(t *testing.T) *responder.Responder {
	t.Helper()

	r := responder.New(challengePath, keyAuth, slog.New(slog.DiscardHandler))
	require.NoError(t, r.Start())
	t.Cleanup(r.Shutdown)

	return r
}

func get(t *testing.T, addr, path string) (int, string) {
	t.Helper()

	resp, err := http.Get("http://" + addr + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(body)
}

func TestResponder(t *testing.T) {
	t.Parallel()

	t.Run("answers the challenge path with the key authorization", func(t *testing.T) {
		t.Parallel()

		r := startResponder(t)
		addr, err := r.Addr()
		require.NoError(t, err)

		status, body := get(t, addr, challengePath)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, keyAuth, body)

		select {
		case observed := <-r.Done():
			assert.True(t, observed)
		case <-time.After(time.Second):
			t.Fatal("responder did not signal completion")
		}
	})

	t.Run("keeps serving after a non-matching path then stops after the match", func(t *testing.T) {
		t.Parallel()

		r := startResponder(t)
		addr, err := r.Addr()
		require.NoError(t, err)

		status, body := get(t, addr, "/somewhere/else")
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "not found", body)

		status, body = get(t, addr, challengePath)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, keyAuth, body)

		select {
		case observed := <-r.Done():
			assert.True(t, observed)
		case <-time.After(time.Second):
			t.Fatal("responder did not signal completion")
		}

		// Single-shot: a third request finds nobody listening.
		_, err = http.Get("http://" + addr + challengePath)
		assert.Error(t, err)
	})

	t.Run("signals failure when shut down before the challenge arrives", func(t *testing.T) {
		t.Parallel()

		r := startResponder(t)
		r.Shutdown()

		select {
		case observed := <-r.Done():
			assert.False(t, observed)
		case <-time.After(time.Second):
			t.Fatal("responder did not signal completion")
		}
	})

	t.Run("reports the bound loopback address", func(t *testing.T) {
		t.Parallel()

		r := startResponder(t)
		addr, err := r.Addr()
		require.NoError(t, err)
		assert.Contains(t, addr, "127.0.0.1:")
	})

	t.Run("address is unavailable before start", func(t *testing.T) {
		t.Parallel()

		r := responder.New(challengePath, keyAuth, slog.New(slog.DiscardHandler))
		_, err := r.Addr()
		assert.ErrorIs(t, err, responder.ErrNotStarted)
	})
}
