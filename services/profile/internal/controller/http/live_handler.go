package http

import (
	"context"
	"net/http"
	"time"

	"creator-market/pkg/apperr"
	"creator-market/services/profile/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// LiveMessage is one frame on the live profile socket. The first frame is a
// snapshot, every following frame a change to merge into it.
type LiveMessage struct {
	Type    string                `json:"type"`
	Profile *entity.Profile       `json:"profile,omitempty"`
	Change  *entity.ProfileChange `json:"change,omitempty"`
}

// LiveProfile godoc
// @Summary      Live profile updates
// @Description  WebSocket. Sends a snapshot, then one change frame per committed edit containing only the changed fields.
// @Tags         profile
// @Param        username path string true "Username"
// @Success      101  {string}  string  "Switching Protocols"
// @Failure      404  {object}  map[string]string
// @Router       /profiles/{username}/live [get]
func (h *ProfileHandler) LiveProfile(c *gin.Context) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshot, changes, unsubscribe, err := h.profileUseCase.WatchProfile(ctx, c.Param("username"))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}
	defer unsubscribe()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade connection to WebSocket: %v", err)
		return
	}
	defer conn.Close()

	h.logger.Info("Live profile viewer connected for %s", snapshot.ID)

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Viewers never send data; reading only detects disconnects.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := writeLive(conn, LiveMessage{Type: "snapshot", Profile: snapshot}); err != nil {
		h.logger.Warn("Failed to send profile snapshot: %v", err)
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("Live profile viewer disconnected for %s", snapshot.ID)
			return
		case change, ok := <-changes:
			if !ok {
				conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
				return
			}
			if err := writeLive(conn, LiveMessage{Type: "change", Change: &change}); err != nil {
				h.logger.Warn("Failed to write profile change: %v", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func writeLive(conn *websocket.Conn, msg LiveMessage) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}
