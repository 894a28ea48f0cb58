package discord

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPostSendsWebhookPayload(t *testing.T) {
	var payload map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, 1, time.Millisecond)
	require.NoError(t, c.Post(context.Background(), "テスト投稿"))

	require.Equal(t, "テスト投稿", payload["content"])
	require.NotEmpty(t, payload["username"])
}

func TestPostRetriesOnServerError(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, 3, time.Millisecond)
	require.NoError(t, c.Post(context.Background(), "retry me"))
	require.Equal(t, 3, attempts)
}

func TestPostGivesUpAfterMaxAttempts(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, 2, time.Millisecond)
	require.Error(t, c.Post(context.Background(), "never lands"))
	require.Equal(t, 2, attempts)
}

func TestPostTruncatesLongContent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		got = payload["content"]
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, 1, time.Millisecond)
	long := strings.Repeat("あ", 3000)
	require.NoError(t, c.Post(context.Background(), long))

	require.LessOrEqual(t, len([]rune(got)), maxContentRunes+1)
	require.True(t, strings.HasSuffix(got, "…"))
}
