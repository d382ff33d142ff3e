package server

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"tuneport/core/auth"
	"tuneport/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ProgressEvent mirrors the upload indicator state shown to the artist.
type ProgressEvent struct {
	Uploading   bool   `json:"uploading"`
	Progress    int    `json:"progress"` // 0..100
	CurrentFile string `json:"currentFile"`
}

// ProgressHub fans upload progress out to the user's open sockets. A user
// with no sockets simply gets no events; uploads never block on delivery.
type ProgressHub struct {
	mu    sync.Mutex
	conns map[int64]map[*websocket.Conn]bool
}

// NewProgressHub creates an empty hub.
func NewProgressHub() *ProgressHub {
	return &ProgressHub{conns: make(map[int64]map[*websocket.Conn]bool)}
}

func (p *ProgressHub) add(userID int64, c *websocket.Conn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conns[userID] == nil {
		p.conns[userID] = make(map[*websocket.Conn]bool)
	}
	p.conns[userID][c] = true
}

func (p *ProgressHub) remove(userID int64, c *websocket.Conn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.conns[userID], c)
	if len(p.conns[userID]) == 0 {
		delete(p.conns, userID)
	}
}

// Notify sends an event to every socket the user has open. Dead sockets are
// dropped on the first failed write.
func (p *ProgressHub) Notify(userID int64, ev ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for c := range p.conns[userID] {
		if err := c.WriteJSON(ev); err != nil {
			c.Close()
			delete(p.conns[userID], c)
		}
	}
}

// ProgressSocketHandler upgrades the connection and streams upload progress
// events. Browsers cannot set headers on a websocket, so the token comes in
// the query string.
func (h *APIHandler) ProgressSocketHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.ParseToken(r.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", logger.ErrorField(err))
		return
	}

	h.progressHub.add(claims.UserID, conn)
	logger.Debug("progress socket opened", logger.Int64("userId", claims.UserID))

	// The client never sends application messages; the read loop only
	// detects the close.
	go func() {
		defer func() {
			h.progressHub.remove(claims.UserID, conn)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
