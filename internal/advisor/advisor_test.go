package advisor

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blackjack/internal/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upCard = game.Card{Rank: game.Six, Suit: game.Hearts}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return New(Config{
		APIKey:   "test-key",
		Model:    "test-model",
		Endpoint: srv.URL + "/v1beta",
		Timeout:  2 * time.Second,
	})
}

func TestSuggest(t *testing.T) {
	var gotPath, gotKey, gotBody string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":" Dealer is weak; stand on 13. "}]}}]}`)
	})

	text, err := client.Suggest(context.Background(), 13, upCard)
	require.NoError(t, err)
	assert.Equal(t, "Dealer is weak; stand on 13.", text)
	assert.Equal(t, "/v1beta/models/test-model:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Contains(t, gotBody, "Player total: 13")
	assert.Contains(t, gotBody, "6♥")
}

func TestSuggestWithoutCandidates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"candidates":[]}`)
	})

	text, err := client.Suggest(context.Background(), 15, upCard)
	require.NoError(t, err)
	assert.Equal(t, NoSuggestion, text)
}

func TestSuggestUpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := client.Suggest(context.Background(), 15, upCard)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Contains(t, err.Error(), "429")
}

func TestSuggestBadJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"candidates":`)
	})

	_, err := client.Suggest(context.Background(), 15, upCard)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestSuggestCancelledContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not be sent")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Suggest(ctx, 15, upCard)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestSuggestDisabled(t *testing.T) {
	client := New(Config{})
	assert.False(t, client.Enabled())

	_, err := client.Suggest(context.Background(), 12, upCard)
	assert.ErrorIs(t, err, ErrDisabled)
}
