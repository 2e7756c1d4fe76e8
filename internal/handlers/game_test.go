package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-games/internal/config"
	"github.com/vancomm/minesweeper-games/internal/feed"
	"github.com/vancomm/minesweeper-games/internal/games"
	"github.com/vancomm/minesweeper-games/internal/mines"
	"github.com/vancomm/minesweeper-games/internal/repository"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fixture struct {
	router *mux.Router
	hub    *feed.Hub
	store  games.Store
}

func newFixture(t *testing.T, store games.Store) *fixture {
	t.Helper()
	gen, err := mines.NewGenerator(mines.DefaultDensity, mines.Exact, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)

	hub := feed.NewHub(logger, 0)
	service := games.NewService(logger, store, gen, hub)
	ws, err := config.NewWebSocket()
	require.NoError(t, err)

	game := NewGameHandler(logger, service, 100*100)
	lobby := NewFeedHandler(logger, hub, ws)

	router := mux.NewRouter()
	router.Methods(http.MethodGet).Path("/games/feed").HandlerFunc(lobby.Connect)
	router.Methods(http.MethodGet).Path("/games/{id}/board").HandlerFunc(game.Board)
	router.Methods(http.MethodGet).Path("/games/{id}").HandlerFunc(game.Fetch)
	router.Methods(http.MethodGet).Path("/games").HandlerFunc(game.List)
	router.Methods(http.MethodPost).Path("/games").HandlerFunc(game.Create)

	return &fixture{router: router, hub: hub, store: store}
}

func (f *fixture) do(r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, r)
	return w
}

func (f *fixture) create(t *testing.T, rows, columns int) string {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/games",
		strings.NewReader(`{"rows":`+strconv.Itoa(rows)+`,"columns":`+strconv.Itoa(columns)+`}`))
	r.Header.Set("Content-Type", "application/json")
	w := f.do(r)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var res CreateGameResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.True(t, res.Success)
	return res.GameID
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestCreateAndFetch(t *testing.T) {
	f := newFixture(t, repository.NewMemory())
	id := f.create(t, 5, 5)

	w := f.do(httptest.NewRequest(http.MethodGet, "/games/"+id, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var game GameDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &game))
	assert.Equal(t, id, game.ID)
	assert.Equal(t, games.Pending, game.Status)
	assert.Equal(t, 5, game.Rows)
	assert.Equal(t, 5, game.Columns)
	assert.NotContains(t, w.Body.String(), "cells")
}

func TestCreateFromForm(t *testing.T) {
	f := newFixture(t, repository.NewMemory())

	form := url.Values{"rows": {"3"}, "columns": {"4"}}
	r := httptest.NewRequest(http.MethodPost, "/games", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := f.do(r)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(httptest.NewRequest(http.MethodPost, "/games?rows=2&columns=2", nil))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestCreateInvalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"negative rows", `{"rows":-1,"columns":5}`, msgInvalidGridSize},
		{"zero columns", `{"rows":5,"columns":0}`, msgInvalidGridSize},
		{"too large", `{"rows":1000,"columns":1000}`, msgGridTooLarge},
		{"malformed", `{"rows":`, ""},
		{"wrong type", `{"rows":"five","columns":5}`, ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			store := repository.NewMemory()
			f := newFixture(t, store)

			r := httptest.NewRequest(http.MethodPost, "/games", strings.NewReader(test.body))
			r.Header.Set("Content-Type", "application/json")
			w := f.do(r)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			msg := decodeError(t, w)
			if test.message != "" {
				assert.Equal(t, test.message, msg)
			} else {
				assert.NotEmpty(t, msg)
			}

			all, err := store.ListByStatus(context.Background(), nil)
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestCreateMissingFormField(t *testing.T) {
	f := newFixture(t, repository.NewMemory())
	w := f.do(httptest.NewRequest(http.MethodPost, "/games?rows=5", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFetchInvalidID(t *testing.T) {
	f := newFixture(t, repository.NewMemory())

	w := f.do(httptest.NewRequest(http.MethodGet, "/games/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, msgInvalidUUID, decodeError(t, w))
}

func TestFetchMissing(t *testing.T) {
	f := newFixture(t, repository.NewMemory())
	id := uuid.New()

	w := f.do(httptest.NewRequest(http.MethodGet, "/games/"+id.String(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, `Game with id "`+id.String()+`" not found`, decodeError(t, w))
}

func TestList(t *testing.T) {
	f := newFixture(t, repository.NewMemory())
	first := f.create(t, 5, 5)
	second := f.create(t, 2, 3)

	for _, query := range []string{"", "?status=PENDING", "?status=pending"} {
		t.Run(query, func(t *testing.T) {
			w := f.do(httptest.NewRequest(http.MethodGet, "/games"+query, nil))
			require.Equal(t, http.StatusOK, w.Code)

			var res []GameDTO
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
			require.Len(t, res, 2)
			assert.Equal(t, first, res[0].ID)
			assert.Equal(t, second, res[1].ID)
		})
	}

	t.Run("no match", func(t *testing.T) {
		w := f.do(httptest.NewRequest(http.MethodGet, "/games?status=CLEARED", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("invalid status", func(t *testing.T) {
		w := f.do(httptest.NewRequest(http.MethodGet, "/games?status=WON", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, msgInvalidGameStatus, decodeError(t, w))
	})
}

func TestBoard(t *testing.T) {
	f := newFixture(t, repository.NewMemory())
	id := f.create(t, 3, 4)

	w := f.do(httptest.NewRequest(http.MethodGet, "/games/"+id+"/board", nil))
	require.Equal(t, http.StatusOK, w.Code)
	lines := strings.Split(strings.TrimSuffix(w.Body.String(), "\n"), "\n")
	assert.Len(t, lines, 3)
	for _, line := range lines {
		assert.Len(t, strings.Fields(line), 4)
	}

	w = f.do(httptest.NewRequest(http.MethodGet, "/games/"+uuid.NewString()+"/board", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type failingStore struct {
	games.Store
}

func (failingStore) Put(context.Context, *games.Game) error {
	return errors.New("connection reset")
}

func (failingStore) ListByStatus(context.Context, *games.Status) ([]games.Game, error) {
	return nil, errors.New("connection reset")
}

func TestStoreFailure(t *testing.T) {
	f := newFixture(t, failingStore{repository.NewMemory()})

	r := httptest.NewRequest(http.MethodPost, "/games?rows=2&columns=2", nil)
	w := f.do(r)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection reset")

	w = f.do(httptest.NewRequest(http.MethodGet, "/games", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestFeed(t *testing.T) {
	f := newFixture(t, repository.NewMemory())
	server := httptest.NewServer(f.router)
	defer server.Close()

	u := "ws" + strings.TrimPrefix(server.URL, "http") + "/games/feed"
	c, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	defer c.Close()

	require.Eventually(t, func() bool {
		return f.hub.Subscribers() == 1
	}, time.Second, 10*time.Millisecond)

	id := f.create(t, 4, 4)

	c.SetReadDeadline(time.Now().Add(5 * time.Second))
	var game GameDTO
	require.NoError(t, c.ReadJSON(&game))
	assert.Equal(t, id, game.ID)
	assert.Equal(t, 4, game.Rows)

	c.Close()
	require.Eventually(t, func() bool {
		return f.hub.Subscribers() == 0
	}, time.Second, 10*time.Millisecond)
}
