package app

import (
	"hash/maphash"
	"math/rand/v2"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vancomm/minesweeper-games/internal/config"
	"github.com/vancomm/minesweeper-games/internal/handlers"
)

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func (a *App) loadRoutes() *mux.Router {
	router := mux.NewRouter()

	root := router
	if base := config.BasePath(); base != "" {
		root = router.PathPrefix(base).Subrouter()
	}

	game := handlers.NewGameHandler(a.logger, a.service, a.game.MaxCells)
	lobby := handlers.NewFeedHandler(a.logger, a.hub, a.ws)

	root.Methods(http.MethodGet).Path("/games/feed").HandlerFunc(lobby.Connect)
	if config.Development() {
		root.Methods(http.MethodGet).Path("/games/{id}/board").HandlerFunc(game.Board)
	}
	root.Methods(http.MethodGet).Path("/games/{id}").HandlerFunc(game.Fetch)
	root.Methods(http.MethodGet).Path("/games").HandlerFunc(game.List)
	root.Methods(http.MethodPost).Path("/games").HandlerFunc(game.Create)

	root.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return router
}
