package handlers

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper-games/internal/games"
)

var decoder = func() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}()

type CreateGameDTO struct {
	Rows    int `json:"rows" schema:"rows,required"`
	Columns int `json:"columns" schema:"columns,required"`
}

// ParseCreateGameDTO reads a JSON body, or form and query values for any
// other content type.
func ParseCreateGameDTO(r *http.Request) (CreateGameDTO, error) {
	var dto CreateGameDTO

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&dto); err != nil {
			return dto, fmt.Errorf("invalid JSON body: %w", err)
		}
		return dto, nil
	}

	if err := r.ParseForm(); err != nil {
		return dto, err
	}
	err := decoder.Decode(&dto, r.Form)
	return dto, err
}

type CreateGameResponse struct {
	Success bool   `json:"success"`
	GameID  string `json:"gameId"`
}

type ListGamesDTO struct {
	Status string `schema:"status"`
}

// Filter converts the query into a games filter. An empty status matches
// every game.
func (dto ListGamesDTO) Filter() (games.Filter, error) {
	if dto.Status == "" {
		return games.Filter{}, nil
	}
	status, err := games.ParseStatus(dto.Status)
	if err != nil {
		return games.Filter{}, err
	}
	return games.Filter{Status: &status}, nil
}

func ParseListGamesDTO(src map[string][]string) (ListGamesDTO, error) {
	var dto ListGamesDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

type GameDTO struct {
	ID        string       `json:"id"`
	Status    games.Status `json:"status"`
	Rows      int          `json:"rows"`
	Columns   int          `json:"columns"`
	CreatedAt int64        `json:"createdAt"`
}

func NewGameDTO(g games.Game) GameDTO {
	return GameDTO{
		ID:        g.ID.String(),
		Status:    g.Status,
		Rows:      g.Rows,
		Columns:   g.Columns,
		CreatedAt: g.CreatedAt.UnixMilli(),
	}
}
