package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vancomm/minesweeper-games/internal/config"
	"github.com/vancomm/minesweeper-games/internal/feed"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

type FeedHandler struct {
	logger *slog.Logger
	hub    *feed.Hub
	ws     *config.WebSocket
}

func NewFeedHandler(logger *slog.Logger, hub *feed.Hub, ws *config.WebSocket) *FeedHandler {
	return &FeedHandler{
		logger: logger,
		hub:    hub,
		ws:     ws,
	}
}

// Connect upgrades the request and streams summaries of games created from
// then on until either side goes away.
func (f FeedHandler) Connect(w http.ResponseWriter, r *http.Request) {
	c, err := f.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.logger.Error("unable to upgrade", slog.Any("error", err))
		return
	}
	defer c.Close()

	sub := f.hub.Subscribe()
	defer sub.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		c.SetReadDeadline(time.Now().Add(pongWait))
		c.SetPongHandler(func(string) error {
			return c.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err,
					websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					f.logger.Warn("abnormal ws break", slog.Any("error", err))
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case game, ok := <-sub.C:
			if !ok {
				c.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "too slow"),
					time.Now().Add(writeWait))
				return
			}
			c.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.WriteJSON(NewGameDTO(game)); err != nil {
				f.logger.Warn("unable to write to feed", slog.Any("error", err))
				return
			}
		case <-ticker.C:
			if err := c.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
