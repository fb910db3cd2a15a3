package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/onkoe/direction/internal/analytics"
	"github.com/onkoe/direction/internal/handlers"
	"github.com/onkoe/direction/internal/messaging"
	"github.com/onkoe/direction/internal/shortener"
	"github.com/onkoe/direction/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const baseURL = "http://localhost:8888"

func newTestHandler(m handlers.LinkManager) *handlers.LinkHandler {
	return handlers.NewLinkHandler(
		m,
		baseURL,
		messaging.Discard[analytics.LinkCreatedEvent](),
		messaging.Discard[analytics.LinkResolvedEvent](),
		zap.NewNop(),
	)
}

func statusOf(t *testing.T, err error) int {
	t.Helper()

	var se huma.StatusError
	require.ErrorAs(t, err, &se)

	return se.GetStatus()
}

func createLink(t *testing.T, h *handlers.LinkHandler, url string, aliases []string) *handlers.CreateLinkResponse {
	t.Helper()

	req := &handlers.CreateLinkRequest{}
	req.Body.URL = url
	req.Body.Aliases = aliases

	resp, err := h.CreateLink(context.Background(), req)
	require.NoError(t, err)

	return resp
}

func TestCreateLink(t *testing.T) {
	t.Run("creates link successfully", func(t *testing.T) {
		handler := newTestHandler(shortener.NewManager(store.NewMemoryStore()))

		resp := createLink(t, handler, testURL, []string{"my link"})

		assert.NotEmpty(t, resp.Body.Code)
		assert.NotEmpty(t, resp.Body.Identifier)
		assert.Equal(t, testURL, resp.Body.OriginalURL)
		assert.Equal(t, baseURL+"/"+resp.Body.Code, resp.Body.ShortURL)
		assert.Equal(t, resp.Body.ShortURL, resp.Headers.Location)
		assert.Equal(t, []string{"my%20link"}, resp.Body.Aliases)
	})

	t.Run("creates a new code for the same url", func(t *testing.T) {
		handler := newTestHandler(shortener.NewManager(store.NewMemoryStore()))

		first := createLink(t, handler, testURL, nil)
		second := createLink(t, handler, testURL, nil)

		assert.NotEqual(t, first.Body.Code, second.Body.Code)
		assert.NotEqual(t, first.Body.Identifier, second.Body.Identifier)
	})

	t.Run("returns 422 for invalid link", func(t *testing.T) {
		handler := newTestHandler(shortener.NewManager(store.NewMemoryStore()))

		req := &handlers.CreateLinkRequest{}
		req.Body.URL = "not a url"

		resp, err := handler.CreateLink(context.Background(), req)

		assert.Nil(t, resp)
		assert.Equal(t, http.StatusUnprocessableEntity, statusOf(t, err))
	})

	t.Run("returns 503 when codes are exhausted", func(t *testing.T) {
		handler := newTestHandler(&mockManager{err: shortener.ErrShortCodeExhausted})

		req := &handlers.CreateLinkRequest{}
		req.Body.URL = testURL

		_, err := handler.CreateLink(context.Background(), req)

		assert.Equal(t, http.StatusServiceUnavailable, statusOf(t, err))
	})

	t.Run("returns 500 on store error", func(t *testing.T) {
		handler := newTestHandler(&mockManager{err: errors.Join(shortener.ErrStoreAccess, errMock)})

		req := &handlers.CreateLinkRequest{}
		req.Body.URL = testURL

		_, err := handler.CreateLink(context.Background(), req)

		assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
	})

	t.Run("publishes created event with request metadata", func(t *testing.T) {
		created := &recorder[analytics.LinkCreatedEvent]{}
		handler := handlers.NewLinkHandler(
			shortener.NewManager(store.NewMemoryStore()),
			baseURL,
			created.publish(),
			messaging.Discard[analytics.LinkResolvedEvent](),
			zap.NewNop(),
		)

		ctx := handlers.ContextWithRequestMeta(context.Background(), handlers.RequestMeta{
			ClientIP:  "10.0.0.1",
			UserAgent: "TestAgent/1.0",
		})

		req := &handlers.CreateLinkRequest{}
		req.Body.URL = testURL

		resp, err := handler.CreateLink(ctx, req)
		require.NoError(t, err)

		require.Len(t, created.events, 1)
		assert.Equal(t, resp.Body.Code, created.events[0].Code)
		assert.Equal(t, resp.Body.Identifier, created.events[0].Identifier)
		assert.Equal(t, "10.0.0.1", created.events[0].ClientIP)
		assert.Equal(t, "TestAgent/1.0", created.events[0].UserAgent)
	})

	t.Run("succeeds when publishing fails", func(t *testing.T) {
		handler := handlers.NewLinkHandler(
			shortener.NewManager(store.NewMemoryStore()),
			baseURL,
			errorPublish[analytics.LinkCreatedEvent](errMock),
			errorPublish[analytics.LinkResolvedEvent](errMock),
			zap.NewNop(),
		)

		resp := createLink(t, handler, testURL, nil)

		assert.NotEmpty(t, resp.Body.Code)
	})
}

func TestGetLink(t *testing.T) {
	t.Run("returns stored link", func(t *testing.T) {
		handler := newTestHandler(shortener.NewManager(store.NewMemoryStore()))
		created := createLink(t, handler, testURL, []string{"a/b"})

		resp, err := handler.GetLink(context.Background(), &handlers.CodeRequest{Code: created.Body.Code})

		require.NoError(t, err)
		assert.Equal(t, created.Body, resp.Body)
	})

	t.Run("returns 404 for unknown code", func(t *testing.T) {
		handler := newTestHandler(shortener.NewManager(store.NewMemoryStore()))

		resp, err := handler.GetLink(context.Background(), &handlers.CodeRequest{Code: "missing"})

		assert.Nil(t, resp)
		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})

	t.Run("returns 500 for corrupt record", func(t *testing.T) {
		s := store.NewMemoryStore()
		require.NoError(t, s.Insert(context.Background(), []byte("broken"), []byte{0xff}))
		handler := newTestHandler(shortener.NewManager(s))

		_, err := handler.GetLink(context.Background(), &handlers.CodeRequest{Code: "broken"})

		assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
	})
}

func TestRedirect(t *testing.T) {
	t.Run("redirects to original url", func(t *testing.T) {
		handler := newTestHandler(shortener.NewManager(store.NewMemoryStore()))
		created := createLink(t, handler, testURL, nil)

		resp, err := handler.Redirect(context.Background(), &handlers.CodeRequest{Code: created.Body.Code})

		require.NoError(t, err)
		assert.Equal(t, http.StatusMovedPermanently, resp.Status)
		assert.Equal(t, testURL, resp.Location)
	})

	t.Run("publishes resolved event", func(t *testing.T) {
		resolved := &recorder[analytics.LinkResolvedEvent]{}
		handler := handlers.NewLinkHandler(
			shortener.NewManager(store.NewMemoryStore()),
			baseURL,
			messaging.Discard[analytics.LinkCreatedEvent](),
			resolved.publish(),
			zap.NewNop(),
		)
		created := createLink(t, handler, testURL, nil)

		ctx := handlers.ContextWithRequestMeta(context.Background(), handlers.RequestMeta{
			Referrer: "https://referrer.example.com",
		})

		_, err := handler.Redirect(ctx, &handlers.CodeRequest{Code: created.Body.Code})
		require.NoError(t, err)

		require.Len(t, resolved.events, 1)
		assert.Equal(t, created.Body.Code, resolved.events[0].Code)
		assert.True(t, resolved.events[0].Redirect)
		assert.Equal(t, "https://referrer.example.com", resolved.events[0].Referrer)
	})

	t.Run("does not publish for unknown code", func(t *testing.T) {
		resolved := &recorder[analytics.LinkResolvedEvent]{}
		handler := handlers.NewLinkHandler(
			shortener.NewManager(store.NewMemoryStore()),
			baseURL,
			messaging.Discard[analytics.LinkCreatedEvent](),
			resolved.publish(),
			zap.NewNop(),
		)

		_, err := handler.Redirect(context.Background(), &handlers.CodeRequest{Code: "missing"})

		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
		assert.Empty(t, resolved.events)
	})
}

func TestRegisterRoutes(t *testing.T) {
	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("Test", "1.0.0"))
	handlers.RegisterRoutes(api, newTestHandler(shortener.NewManager(store.NewMemoryStore())))

	var created handlers.LinkBody

	t.Run("POST /links creates a link", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/links",
			strings.NewReader(`{"url": "https://example.com/path", "aliases": ["my link"]}`))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		assert.Equal(t, "https://example.com/path", created.OriginalURL)
		assert.Equal(t, []string{"my%20link"}, created.Aliases)
		assert.Equal(t, created.ShortURL, w.Header().Get("Location"))
	})

	t.Run("POST /links rejects invalid link", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/links", strings.NewReader(`{"url": "not a url"}`))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("GET /links/{code} returns the link", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/links/"+created.Code, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var got handlers.LinkBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, created, got)
	})

	t.Run("GET /{code} redirects", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/"+created.Code, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusMovedPermanently, w.Code)
		assert.Equal(t, "https://example.com/path", w.Header().Get("Location"))
	})

	t.Run("GET /{code} returns 404 for unknown code", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/missing", nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
