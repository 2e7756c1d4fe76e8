package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/vancomm/minesweeper-games/internal/games"
	"github.com/vancomm/minesweeper-games/internal/mines"
)

const (
	msgInvalidGridSize   = "Invalid grid size"
	msgGridTooLarge      = "Grid too large"
	msgInvalidGameStatus = "Invalid game status"
	msgInvalidUUID       = "Invalid UUID format"
)

type GameHandler struct {
	logger   *slog.Logger
	games    *games.Service
	maxCells int
}

// NewGameHandler serves the game routes. maxCells <= 0 disables the board
// size cap.
func NewGameHandler(logger *slog.Logger, service *games.Service, maxCells int) *GameHandler {
	handler := &GameHandler{
		logger:   logger,
		games:    service,
		maxCells: maxCells,
	}
	return handler
}

func (g GameHandler) tooLarge(rows, columns int) bool {
	if g.maxCells <= 0 || rows <= 0 || columns <= 0 {
		return false
	}
	return rows > g.maxCells/columns
}

func (g GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseCreateGameDTO(r)
	if err != nil {
		sendError(w, g.logger, http.StatusBadRequest, err.Error())
		return
	}

	if g.tooLarge(dto.Rows, dto.Columns) {
		sendError(w, g.logger, http.StatusBadRequest, msgGridTooLarge)
		return
	}

	game, err := g.games.CreateGame(r.Context(), dto.Rows, dto.Columns)
	if errors.Is(err, mines.ErrInvalidDimensions) {
		sendError(w, g.logger, http.StatusBadRequest, msgInvalidGridSize)
		return
	}
	if err != nil {
		internalError(w, g.logger, "unable to create game", err)
		return
	}

	sendStatusJSON(w, g.logger, http.StatusCreated, CreateGameResponse{
		Success: true,
		GameID:  game.ID.String(),
	})
}

func (g GameHandler) List(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseListGamesDTO(r.URL.Query())
	if err != nil {
		sendError(w, g.logger, http.StatusBadRequest, err.Error())
		return
	}

	filter, err := dto.Filter()
	if err != nil {
		sendError(w, g.logger, http.StatusBadRequest, msgInvalidGameStatus)
		return
	}

	found, err := g.games.FindAll(r.Context(), filter)
	if err != nil {
		internalError(w, g.logger, "unable to list games", err)
		return
	}

	res := make([]GameDTO, 0, len(found))
	for _, game := range found {
		res = append(res, NewGameDTO(game))
	}

	sendJSONOrLog(w, g.logger, res)
}

// parseID writes a 400 response and returns false when the path id is not
// a UUID.
func (g GameHandler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		sendError(w, g.logger, http.StatusBadRequest, msgInvalidUUID)
		return uuid.Nil, false
	}
	return id, true
}

func notFound(id uuid.UUID) string {
	return fmt.Sprintf("Game with id %q not found", id.String())
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	id, ok := g.parseID(w, r)
	if !ok {
		return
	}

	game, err := g.games.FindOne(r.Context(), id)
	if errors.Is(err, games.ErrNotFound) {
		sendError(w, g.logger, http.StatusNotFound, notFound(id))
		return
	}
	if err != nil {
		internalError(w, g.logger, "unable to fetch game", err)
		return
	}

	sendJSONOrLog(w, g.logger, NewGameDTO(*game))
}

// Board renders the mine layout of a game as text.
func (g GameHandler) Board(w http.ResponseWriter, r *http.Request) {
	id, ok := g.parseID(w, r)
	if !ok {
		return
	}

	board, err := g.games.Board(r.Context(), id)
	if errors.Is(err, games.ErrNotFound) {
		sendError(w, g.logger, http.StatusNotFound, notFound(id))
		return
	}
	if err != nil {
		internalError(w, g.logger, "unable to fetch board", err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := io.WriteString(w, board.String()); err != nil {
		g.logger.Error("unable to send board", slog.Any("error", err))
	}
}
