package games_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-games/internal/games"
	"github.com/vancomm/minesweeper-games/internal/mines"
	"github.com/vancomm/minesweeper-games/internal/repository"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

type recorder struct {
	mu      sync.Mutex
	created []games.Game
}

func (r *recorder) GameCreated(game games.Game) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, game)
}

func newService(t *testing.T, store games.Store, notifier games.Notifier) *games.Service {
	t.Helper()
	gen, err := mines.NewGenerator(mines.DefaultDensity, mines.Bernoulli, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	return games.NewService(logger, store, gen, notifier)
}

func TestCreateGame(t *testing.T) {
	ctx := context.Background()
	notes := &recorder{}
	service := newService(t, repository.NewMemory(), notes)

	created, err := service.CreateGame(ctx, 5, 5)
	require.NoError(t, err)
	require.NotNil(t, created.Board)
	assert.Len(t, created.Board.Cells, 25)
	assert.Equal(t, games.Pending, created.Status)
	assert.NotEqual(t, uuid.Nil, created.ID)

	found, err := service.FindOne(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, games.Pending, found.Status)
	assert.Equal(t, 5, found.Rows)
	assert.Equal(t, 5, found.Columns)
	assert.True(t, created.CreatedAt.Equal(found.CreatedAt))

	board, err := service.Board(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Board.Cells, board.Cells)

	require.Len(t, notes.created, 1)
	assert.Equal(t, created.ID, notes.created[0].ID)
}

func TestCreateGameInvalidDimensions(t *testing.T) {
	ctx := context.Background()
	notes := &recorder{}
	store := repository.NewMemory()
	service := newService(t, store, notes)

	tests := []struct {
		rows, columns int
	}{
		{-1, 5},
		{5, 0},
		{0, 0},
	}
	for _, test := range tests {
		_, err := service.CreateGame(ctx, test.rows, test.columns)
		assert.ErrorIs(t, err, mines.ErrInvalidDimensions)
	}

	all, err := service.FindAll(ctx, games.Filter{})
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, notes.created)
}

func TestFindAll(t *testing.T) {
	ctx := context.Background()
	service := newService(t, repository.NewMemory(), nil)

	first, err := service.CreateGame(ctx, 5, 5)
	require.NoError(t, err)
	second, err := service.CreateGame(ctx, 3, 7)
	require.NoError(t, err)

	pending := games.Pending
	list, err := service.FindAll(ctx, games.Filter{Status: &pending})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)

	cleared := games.Cleared
	list, err = service.FindAll(ctx, games.Filter{Status: &cleared})
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = service.FindAll(ctx, games.Filter{})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestFindOneMissing(t *testing.T) {
	service := newService(t, repository.NewMemory(), nil)
	_, err := service.FindOne(context.Background(), uuid.New())
	assert.ErrorIs(t, err, games.ErrNotFound)
}

type brokenStore struct {
	games.Store
	err error
}

func (s brokenStore) Put(context.Context, *games.Game) error {
	return s.err
}

func TestCreateGameStoreError(t *testing.T) {
	notes := &recorder{}
	cause := errors.New("disk full")
	service := newService(t, brokenStore{repository.NewMemory(), cause}, notes)

	_, err := service.CreateGame(context.Background(), 2, 2)
	assert.ErrorIs(t, err, cause)
	assert.Empty(t, notes.created)
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want games.Status
		ok   bool
	}{
		{"PENDING", games.Pending, true},
		{"cleared", games.Cleared, true},
		{" Detonated ", games.Detonated, true},
		{"WON", "", false},
		{"", "", false},
	}
	for _, test := range tests {
		got, err := games.ParseStatus(test.in)
		if !test.ok {
			assert.ErrorIs(t, err, games.ErrBadStatus, test.in)
			continue
		}
		require.NoError(t, err, test.in)
		assert.Equal(t, test.want, got)
	}
}

func TestFilterMatch(t *testing.T) {
	pending := games.Pending
	g := games.Game{Status: games.Pending}
	assert.True(t, games.Filter{}.Match(g))
	assert.True(t, games.Filter{Status: &pending}.Match(g))

	g.Status = games.Detonated
	assert.False(t, games.Filter{Status: &pending}.Match(g))
}
