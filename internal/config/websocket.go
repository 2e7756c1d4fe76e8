package config

import (
	"net/http"
	"os"
	"slices"
	"strings"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	Upgrader websocket.Upgrader
}

// NewWebSocket reads WS_ALLOWED_ORIGINS, a comma-separated list of origins
// allowed to open the lobby feed. Any origin is allowed when it is unset.
func NewWebSocket() (*WebSocket, error) {
	var origins []string
	if s, ok := os.LookupEnv("WS_ALLOWED_ORIGINS"); ok && strings.TrimSpace(s) != "" {
		for _, o := range strings.Split(s, ",") {
			origins = append(origins, strings.TrimSpace(o))
		}
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if origins == nil {
				return true
			}
			return slices.Contains(origins, r.Header.Get("Origin"))
		},
	}

	ws := &WebSocket{
		Upgrader: upgrader,
	}

	return ws, nil
}
